// Package poppler wraps the poppler command line utilities used to turn a
// PDF into per-page text, HTML fragments and PNG images.
package poppler

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

// Tools holds the executables for the four poppler utilities.
type Tools struct {
	Info  string // pdfinfo
	Text  string // pdftotext
	HTML  string // pdftohtml
	Image string // pdftoppm

	// Bundled tools ship with the program and are not looked up on PATH.
	Bundled bool
}

// DefaultTools resolves the tools for the running platform.
func DefaultTools() Tools {
	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}
	return ToolsFor(runtime.GOOS, dir)
}

// ToolsFor resolves the tools for goos. On Windows poppler is expected in a
// "poppler" directory next to the executable in exeDir.
func ToolsFor(goos, exeDir string) Tools {
	if goos == "windows" {
		dir := filepath.Join(exeDir, "poppler")
		return Tools{
			Info:    filepath.Join(dir, "pdfinfo.exe"),
			Text:    filepath.Join(dir, "pdftotext.exe"),
			HTML:    filepath.Join(dir, "pdftohtml.exe"),
			Image:   filepath.Join(dir, "pdftoppm.exe"),
			Bundled: true,
		}
	}
	return Tools{
		Info:  "pdfinfo",
		Text:  "pdftotext",
		HTML:  "pdftohtml",
		Image: "pdftoppm",
	}
}

// Names lists the tool executables in a fixed order.
func (t Tools) Names() []string {
	return []string{t.Info, t.HTML, t.Image, t.Text}
}

// Check verifies that every tool can be found and returns an
// errors.EnvironmentError naming the missing ones.
func (t Tools) Check() error {
	return t.check(runtime.GOOS, exec.LookPath)
}

func (t Tools) check(goos string, lookPath func(string) (string, error)) error {
	if t.Bundled {
		return nil
	}

	var missing []string
	for _, name := range t.Names() {
		if _, err := lookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.EnvironmentError{Missing: missing, Guidance: installGuidance(goos)}
}

func installGuidance(goos string) string {
	if goos == "darwin" {
		return `install poppler with homebrew (brew.sh) "brew install poppler" or equivalent and ensure the tools are in the PATH`
	}
	return `install poppler with "sudo apt install poppler-utils" or equivalent and ensure the tools are in the PATH`
}
