package poppler

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

// ExtractText returns the layout-preserved text of every page. pdftotext
// ends each page with a form feed, so the file holds one segment per page
// plus an empty tail, which is dropped.
func (p *Poppler) ExtractText(ctx context.Context, pdf string) ([]string, error) {
	var pages []string
	err := p.withTempDir(func(dir string) error {
		out := filepath.Join(dir, tmpPageText)
		if _, err := p.run(ctx, p.Tools.Text, "-layout", pdf, out); err != nil {
			return err
		}
		b, err := os.ReadFile(out)
		if err != nil {
			return errors.Wrap(err, "read text of %q", pdf)
		}
		pages = splitPages(string(b))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func splitPages(text string) []string {
	pages := strings.Split(text, "\f")
	if len(pages) > 1 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
