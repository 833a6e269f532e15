package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thywilljoshua/pdf2notes/internal/collection"
)

// Format selects how page content is embedded in notes.
type Format string

const (
	FormatImage Format = "Image"
	FormatHTML  Format = "HTML"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatImage, FormatHTML}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want Image or HTML)", s)
}

// NoTitle as front field of a cloze note type leaves the title unset.
const NoTitle = "<none>"

// Request is one import: the PDFs and every choice about where and how
// their pages become notes.
type Request struct {
	PDFs       []string
	DeckID     int64
	Subdeck    bool
	NoteTypeID int64
	Front      string
	Back       string
	Format     Format
	FitWidth   int
	FitHeight  int
}

// Result summarizes a completed import.
type Result struct {
	Files   []string           `json:"files"`
	Notes   int                `json:"notes"`
	Changes collection.Changes `json:"changes"`
}

// Summary is the completion message naming all processed files.
func (r Result) Summary() string {
	return fmt.Sprintf("Import of %s completed.", strings.Join(r.Files, ", "))
}

// Document is a PDF being imported.
type Document struct {
	Path  string
	Title string
}

// NewDocument derives the document title from the file name.
func NewDocument(path string) Document {
	base := filepath.Base(path)
	return Document{Path: path, Title: strings.TrimSuffix(base, filepath.Ext(base))}
}

// Page is one page's text, rendered content and prompt.
type Page struct {
	Number  int // 1-based
	Text    string
	Content string
	Prompt  string
}
