// Package popplertest provides a fake poppler runner that writes the files
// the real tools would write.
package popplertest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
	"github.com/thywilljoshua/pdf2notes/internal/poppler"
)

// Tools are the tool names the fake answers to.
var Tools = poppler.ToolsFor("linux", "")

// Runner fakes pdfinfo, pdftotext, pdftohtml and pdftoppm.
type Runner struct {
	// Width and Height are reported by pdfinfo; zero omits the page size line.
	Width, Height float64
	// Texts are the page texts written by pdftotext, each followed by a form feed.
	Texts []string
	// HTMLPages are the page bodies written by pdftohtml.
	HTMLPages []string
	// HTMLImages are image files written next to the HTML document.
	HTMLImages []string
	// Images is the number of PNG files written by pdftoppm.
	Images int
	// Fail makes the named tool exit with an error.
	Fail string

	mx    sync.Mutex
	calls [][]string
	dirs  []string
}

// Calls returns the recorded invocations, each starting with the tool name.
func (r *Runner) Calls() [][]string {
	r.mx.Lock()
	defer r.mx.Unlock()
	return append([][]string(nil), r.calls...)
}

// Dirs returns the working directories the tools wrote to.
func (r *Runner) Dirs() []string {
	r.mx.Lock()
	defer r.mx.Unlock()
	return append([]string(nil), r.dirs...)
}

// Called returns the recorded invocations of one tool.
func (r *Runner) Called(name string) [][]string {
	var out [][]string
	for _, c := range r.Calls() {
		if c[0] == name {
			out = append(out, c[1:])
		}
	}
	return out
}

func (r *Runner) record(name string, args []string) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.calls = append(r.calls, append([]string{name}, args...))
	if name != Tools.Info && len(args) > 0 {
		r.dirs = append(r.dirs, filepath.Dir(args[len(args)-1]))
	}
}

func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.record(name, args)
	if name == r.Fail {
		return nil, &errors.ToolError{Tool: name, Args: args, Stderr: "fake failure", Err: fmt.Errorf("exit status 1")}
	}

	switch name {
	case Tools.Info:
		return []byte(r.info()), nil
	case Tools.Text:
		return nil, os.WriteFile(args[len(args)-1], []byte(r.text()), 0o644)
	case Tools.HTML:
		out := args[len(args)-1]
		for _, img := range r.HTMLImages {
			if err := os.WriteFile(filepath.Join(filepath.Dir(out), img), []byte("img:"+img), 0o644); err != nil {
				return nil, err
			}
		}
		return nil, os.WriteFile(out, []byte(r.html()), 0o644)
	case Tools.Image:
		prefix := args[len(args)-1]
		for i := 1; i <= r.Images; i++ {
			name := fmt.Sprintf("%s-%d.png", prefix, i)
			if r.Images >= 10 {
				name = fmt.Sprintf("%s-%02d.png", prefix, i)
			}
			if err := os.WriteFile(name, []byte(fmt.Sprintf("png:%d", i)), 0o644); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected tool %q", name)
}

func (r *Runner) info() string {
	var b strings.Builder
	b.WriteString("Producer:       fake\n")
	b.WriteString(fmt.Sprintf("Pages:          %d\n", len(r.Texts)))
	if r.Width > 0 && r.Height > 0 {
		b.WriteString(fmt.Sprintf("Page size:      %v x %v pts (A4)\n", r.Width, r.Height))
	}
	b.WriteString("PDF version:    1.5\n")
	return b.String()
}

func (r *Runner) text() string {
	var b strings.Builder
	for _, t := range r.Texts {
		b.WriteString(t)
		b.WriteString("\f")
	}
	return b.String()
}

func (r *Runner) html() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<title>fake</title>\n</head>\n<body>\n")
	for i, p := range r.HTMLPages {
		b.WriteString(fmt.Sprintf("<!-- Page %d -->\n", i+1))
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// Media is an in-memory media store that records what it imported.
type Media struct {
	mx       sync.Mutex
	Imported []string
	Contents map[string]string
	Err      error
}

// AddMedia reads the file while it still exists and returns "media/<n>-<base>".
func (m *Media) AddMedia(path string) (string, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if m.Contents == nil {
		m.Contents = make(map[string]string)
	}
	ref := fmt.Sprintf("media/%d-%s", len(m.Imported)+1, filepath.Base(path))
	m.Imported = append(m.Imported, ref)
	m.Contents[ref] = string(b)
	return ref, nil
}
