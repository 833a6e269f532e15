package poppler

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

// ExtractImages renders every page to PNG, imports the images into media in
// page order and returns their references.
func (p *Poppler) ExtractImages(ctx context.Context, pdf string, fitWidth, fitHeight int, media MediaStore) ([]string, error) {
	s, err := p.ComputeScale(ctx, pdf, fitWidth, fitHeight)
	if err != nil {
		return nil, err
	}

	var refs []string
	err = p.withTempDir(func(dir string) error {
		prefix := filepath.Join(dir, tmpImagePfx)
		args := []string{"-png"}
		if s.Scaled {
			args = append(args, "-scale-to", strconv.Itoa(s.Fit))
		}
		args = append(args, pdf, prefix)
		if _, err := p.run(ctx, p.Tools.Image, args...); err != nil {
			return err
		}

		// pdftoppm zero-pads the page numbers, so name order is page order.
		files, err := filepath.Glob(prefix + "-*.png")
		if err != nil {
			return errors.Wrap(err, "list images of %q", pdf)
		}
		sort.Strings(files)

		refs = make([]string, 0, len(files))
		for _, f := range files {
			ref, err := media.AddMedia(f)
			if err != nil {
				return errors.Wrap(err, "import image %q", filepath.Base(f))
			}
			refs = append(refs, ref)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}
