package poppler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

func TestScaleFor(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		fitW, fitH int
		factor     float64
		fit        int
	}{
		{"width only", 612, 792, 1224, 0, 2, 1584},
		{"height only", 612, 792, 0, 396, 0.5, 396},
		{"width binds", 612, 792, 306, 1000, 0.5, 396},
		{"height binds", 612, 792, 1000, 396, 0.5, 396},
		{"landscape uses width as long edge", 800, 600, 400, 0, 0.5, 400},
		{"equal ratios pick width", 100, 200, 50, 100, 0.5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scaleFor(tt.w, tt.h, tt.fitW, tt.fitH)
			assert.True(t, s.Scaled)
			assert.InDelta(t, tt.factor, s.Factor, 1e-9)
			assert.Equal(t, tt.fit, s.Fit)
		})
	}
}

func TestScaleForFitsBothBounds(t *testing.T) {
	sizes := [][2]float64{{612, 792}, {842, 595}, {300, 300}, {1000, 50}, {50, 1000}}
	bounds := [][2]int{{1, 1}, {100, 1000}, {1000, 100}, {640, 480}, {1920, 1080}, {333, 777}}

	for _, size := range sizes {
		for _, b := range bounds {
			s := scaleFor(size[0], size[1], b[0], b[1])
			sw := size[0] * s.Factor
			sh := size[1] * s.Factor

			assert.LessOrEqual(t, sw, float64(b[0])+1e-9, "width %v for %v in %v", sw, size, b)
			assert.LessOrEqual(t, sh, float64(b[1])+1e-9, "height %v for %v in %v", sh, size, b)
			tight := math.Abs(sw-float64(b[0])) < 1e-9 || math.Abs(sh-float64(b[1])) < 1e-9
			assert.True(t, tight, "no tight bound for %v in %v", size, b)
			assert.Equal(t, int(math.Round(s.Factor*math.Max(size[0], size[1]))), s.Fit)
		}
	}
}

func TestParsePageSize(t *testing.T) {
	info := "Title:          x\nPages:          3\nPage size:      595.276 x 841.89 pts (A4)\n"
	w, h, err := parsePageSize("pdfinfo", []string{"a.pdf"}, info)
	require.NoError(t, err)
	assert.InDelta(t, 595.276, w, 1e-9)
	assert.InDelta(t, 841.89, h, 1e-9)

	for _, bad := range []string{"", "Pages: 3\n", "Page size:      1.2.3 x 4 pts\n", "Page size:      0 x 4 pts\n"} {
		_, _, err := parsePageSize("pdfinfo", []string{"a.pdf"}, bad)
		assert.True(t, errors.IsToolError(err), "expected tool error for %q, got %v", bad, err)
	}
}
