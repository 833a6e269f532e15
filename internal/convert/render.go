package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/thywilljoshua/pdf2notes/internal/poppler"
)

// Extractor produces per-page text and content for a PDF.
// *poppler.Poppler implements it.
type Extractor interface {
	ExtractText(ctx context.Context, pdf string) ([]string, error)
	ExtractHTML(ctx context.Context, pdf string, fitWidth, fitHeight int, media poppler.MediaStore) ([]string, error)
	ExtractImages(ctx context.Context, pdf string, fitWidth, fitHeight int, media poppler.MediaStore) ([]string, error)
}

// PageRenderer renders the content of every page for one format and embeds
// a page's content in note markup.
type PageRenderer interface {
	Format() Format
	Render(ctx context.Context, pdf string, fitWidth, fitHeight int, media poppler.MediaStore) ([]string, error)
	// ClozeMarkup is the markup wrapped by a cloze span.
	ClozeMarkup(p Page) string
	// BackMarkup is the markup of a standard note's back field.
	BackMarkup(p Page) string
}

func rendererFor(f Format, x Extractor) (PageRenderer, error) {
	switch f {
	case FormatImage:
		return imageRenderer{x}, nil
	case FormatHTML:
		return htmlRenderer{x}, nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

type imageRenderer struct {
	x Extractor
}

func (imageRenderer) Format() Format { return FormatImage }

func (r imageRenderer) Render(ctx context.Context, pdf string, fitWidth, fitHeight int, media poppler.MediaStore) ([]string, error) {
	return r.x.ExtractImages(ctx, pdf, fitWidth, fitHeight, media)
}

func (imageRenderer) ClozeMarkup(p Page) string {
	return fmt.Sprintf(`<img src="%s" title="%s">`, p.Content, clozeTitle(p.Text))
}

func (imageRenderer) BackMarkup(p Page) string {
	return fmt.Sprintf(`<img src="%s" alt="%s">`, p.Content, backAlt(p.Text))
}

// clozeTitle escapes page text for the title attribute of a cloze image:
// the two characters `\n` become &#10; and `"` becomes &#34;.
func clozeTitle(text string) string {
	text = strings.ReplaceAll(text, `\n`, "&#10;")
	return strings.ReplaceAll(text, `"`, "&#34;")
}

// backAlt escapes page text for the alt attribute of a back image by
// backslash-escaping double quotes.
func backAlt(text string) string {
	return strings.ReplaceAll(text, `"`, `\"`)
}

type htmlRenderer struct {
	x Extractor
}

const htmlClass = "p2n"

func (htmlRenderer) Format() Format { return FormatHTML }

func (r htmlRenderer) Render(ctx context.Context, pdf string, fitWidth, fitHeight int, media poppler.MediaStore) ([]string, error) {
	return r.x.ExtractHTML(ctx, pdf, fitWidth, fitHeight, media)
}

func (htmlRenderer) ClozeMarkup(p Page) string {
	return wrapHTML(p.Content)
}

func (htmlRenderer) BackMarkup(p Page) string {
	return wrapHTML(p.Content)
}

func wrapHTML(fragment string) string {
	return `<div class="` + htmlClass + `">` + fragment + `</div>`
}
