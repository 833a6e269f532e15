package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/thywilljoshua/pdf2notes/internal/collection"
)

// Emit receives each note as soon as it is assembled.
type Emit func(ctx context.Context, n *collection.Note) error

// Shape turns a document's pages into notes of one note type.
type Shape interface {
	Build(ctx context.Context, doc Document, pages []Page, emit Emit) (int, error)
}

// shapeFor selects the shape from the note type's kind.
func shapeFor(nt *collection.NoteType, front, back string, r PageRenderer) Shape {
	if nt.IsCloze() {
		return clozeShape{nt: nt, title: front, body: back, r: r}
	}
	return standardShape{nt: nt, front: front, back: back, r: r}
}

// clozeShape emits one note holding one numbered cloze span per page.
type clozeShape struct {
	nt    *collection.NoteType
	title string
	body  string
	r     PageRenderer
}

func (s clozeShape) Build(ctx context.Context, doc Document, pages []Page, emit Emit) (int, error) {
	note := collection.NewNote(s.nt)

	var b strings.Builder
	for _, p := range pages {
		fmt.Fprintf(&b, "%s: {{c%d::<br>%s}}<br>", p.Prompt, p.Number, s.r.ClozeMarkup(p))
	}

	if s.title != NoTitle {
		if err := note.Set(s.title, doc.Title); err != nil {
			return 0, err
		}
	}
	if err := note.Set(s.body, b.String()); err != nil {
		return 0, err
	}
	if err := emit(ctx, note); err != nil {
		return 0, err
	}
	return 1, nil
}

// standardShape emits one front/back note per page.
type standardShape struct {
	nt    *collection.NoteType
	front string
	back  string
	r     PageRenderer
}

func (s standardShape) Build(ctx context.Context, doc Document, pages []Page, emit Emit) (int, error) {
	n := 0
	for _, p := range pages {
		note := collection.NewNote(s.nt)
		if err := note.Append(s.front, p.Prompt); err != nil {
			return n, err
		}
		if err := note.Append(s.back, s.r.BackMarkup(p)); err != nil {
			return n, err
		}
		if err := emit(ctx, note); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
