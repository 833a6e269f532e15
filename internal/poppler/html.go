package poppler

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
	"github.com/thywilljoshua/pdf2notes/internal/logging"
)

var (
	imgSrcRe     = regexp.MustCompile(`(<img .*?src=")(.+?)(".*?>)`)
	pageMarkerRe = regexp.MustCompile(`(?m)^\s*<!--\s*Page\s*\d+\s*-->\s*$`)
)

const bodyEnd = "</body>"

// ExtractHTML renders the PDF to a single HTML document, imports all
// referenced images into media and returns one HTML fragment per page.
func (p *Poppler) ExtractHTML(ctx context.Context, pdf string, fitWidth, fitHeight int, media MediaStore) ([]string, error) {
	s, err := p.ComputeScale(ctx, pdf, fitWidth, fitHeight)
	if err != nil {
		return nil, err
	}
	zoom := 1.0
	if s.Scaled {
		zoom = s.Factor
	}

	var pages []string
	err = p.withTempDir(func(dir string) error {
		out := filepath.Join(dir, tmpPageHTML)
		args := []string{"-c", "-noframes", "-nodrm", "-zoom", strconv.FormatFloat(zoom, 'f', -1, 64), pdf, out}
		if _, err := p.run(ctx, p.Tools.HTML, args...); err != nil {
			return err
		}
		b, err := os.ReadFile(out)
		if err != nil {
			return errors.Wrap(err, "read html of %q", pdf)
		}

		html, err := importImages(string(b), dir, media)
		if err != nil {
			return err
		}

		pages, err = splitHTMLPages(html)
		if err != nil {
			return errors.NewToolError(filepath.Base(p.Tools.HTML), args, "%v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// importImages rewrites the src attribute of every img tag to the
// reference returned by media for the file in dir.
func importImages(html, dir string, media MediaStore) (string, error) {
	matches := imgSrcRe.FindAllStringSubmatchIndex(html, -1)
	if len(matches) == 0 {
		return html, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		srcStart, srcEnd := m[4], m[5]
		src := html[srcStart:srcEnd]
		path := filepath.FromSlash(src)
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		ref, err := media.AddMedia(path)
		if err != nil {
			return "", errors.Wrap(err, "import image %q", src)
		}
		logging.Debug("Imported %q as %q", src, ref)
		b.WriteString(html[last:srcStart])
		b.WriteString(ref)
		last = srcEnd
	}
	b.WriteString(html[last:])
	return b.String(), nil
}

// splitHTMLPages splits on the page comments pdftohtml emits, drops the
// preamble and cuts the document footer off the last page.
func splitHTMLPages(html string) ([]string, error) {
	parts := pageMarkerRe.Split(html, -1)
	if len(parts) < 2 {
		return nil, errors.NewNotFound("page markers in html output")
	}
	pages := parts[1:]

	n := len(pages) - 1
	if i := strings.Index(pages[n], bodyEnd); i >= 0 {
		pages[n] = pages[n][:i]
	}
	return pages, nil
}
