package poppler

import (
	"context"
	"os"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
	"github.com/thywilljoshua/pdf2notes/internal/logging"
)

const (
	tmpPageHTML   = "pghtml.html"
	tmpImagePfx   = "pgimg"
	tmpPageText   = "pgtxt.txt"
	tmpDirPattern = "pdf2notes-"
)

// MediaStore imports a file into permanent storage and returns the
// reference to use in note markup.
type MediaStore interface {
	AddMedia(path string) (string, error)
}

// Poppler runs the poppler utilities against PDF files.
type Poppler struct {
	Tools  Tools
	Runner Runner
	// TempDir is the parent for per-call working directories; empty means
	// the system default.
	TempDir string
}

// New creates a Poppler for the given tools. A nil runner uses ExecRunner.
func New(tools Tools, r Runner) *Poppler {
	if r == nil {
		r = ExecRunner{}
	}
	return &Poppler{Tools: tools, Runner: r}
}

// withTempDir runs fn with a fresh working directory that is removed when fn
// returns, whatever the outcome.
func (p *Poppler) withTempDir(fn func(dir string) error) error {
	dir, err := os.MkdirTemp(p.TempDir, tmpDirPattern)
	if err != nil {
		return errors.Wrap(err, "create working directory")
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logging.Warning("Failed to remove working directory %q: %v", dir, err)
		}
	}()
	return fn(dir)
}

func (p *Poppler) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return p.Runner.Run(ctx, name, args...)
}
