package poppler

import (
	"context"
	"math"
	"regexp"
	"strconv"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

var pageSizeRe = regexp.MustCompile(`(?m)^Page size:\s+([0-9.]+)\s+x\s+([0-9.]+)`)

// Scale is the output scaling for one PDF. When Scaled is false the PDF is
// rendered at its native size and Factor and Fit are meaningless.
type Scale struct {
	Factor float64 // zoom factor for HTML rendering
	Fit    int     // longest-edge pixel target for image rendering
	Scaled bool
}

// PageSize reads the native page width and height in points.
func (p *Poppler) PageSize(ctx context.Context, pdf string) (float64, float64, error) {
	args := []string{pdf}
	out, err := p.run(ctx, p.Tools.Info, args...)
	if err != nil {
		return 0, 0, err
	}
	return parsePageSize(p.Tools.Info, args, string(out))
}

func parsePageSize(tool string, args []string, info string) (float64, float64, error) {
	m := pageSizeRe.FindStringSubmatch(info)
	if m == nil {
		return 0, 0, errors.NewToolError(tool, args, "no page size in output")
	}
	w, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, errors.NewToolError(tool, args, "invalid page width %q", m[1])
	}
	h, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, errors.NewToolError(tool, args, "invalid page height %q", m[2])
	}
	if w <= 0 || h <= 0 {
		return 0, 0, errors.NewToolError(tool, args, "invalid page size %vx%v", w, h)
	}
	return w, h, nil
}

// ComputeScale derives the scaling that fits the PDF's pages into
// fitWidth x fitHeight. A zero bound is unconstrained; both zero means
// native size and pdfinfo is not run.
func (p *Poppler) ComputeScale(ctx context.Context, pdf string, fitWidth, fitHeight int) (Scale, error) {
	if fitWidth <= 0 && fitHeight <= 0 {
		return Scale{}, nil
	}
	w, h, err := p.PageSize(ctx, pdf)
	if err != nil {
		return Scale{}, err
	}
	return scaleFor(w, h, fitWidth, fitHeight), nil
}

func scaleFor(pdfW, pdfH float64, fitWidth, fitHeight int) Scale {
	fw, fh := float64(fitWidth), float64(fitHeight)

	var factor float64
	if fitWidth > 0 && (fitHeight <= 0 || fw/pdfW <= fh/pdfH) {
		factor = fw / pdfW
	} else {
		factor = fh / pdfH
	}

	return Scale{
		Factor: factor,
		Fit:    int(math.Round(factor * math.Max(pdfW, pdfH))),
		Scaled: true,
	}
}
