package convert

import (
	"context"
	"strings"

	"github.com/thywilljoshua/pdf2notes/internal/ai"
	"github.com/thywilljoshua/pdf2notes/internal/collection"
	"github.com/thywilljoshua/pdf2notes/internal/errors"
	"github.com/thywilljoshua/pdf2notes/internal/logging"
)

// Assembler pairs page texts with page contents and builds notes.
type Assembler struct {
	// Prompter fills prompts whose first text line is blank. Nil leaves
	// them blank.
	Prompter ai.Prompter
}

// FieldMap names the note type fields that receive the title/prompt and the
// body of each card.
type FieldMap struct {
	Front string
	Back  string
}

// Assemble builds the notes for one document and hands each to emit. It
// returns the number of notes emitted.
func (a *Assembler) Assemble(ctx context.Context, doc Document, texts, contents []string, r PageRenderer, nt *collection.NoteType, fields FieldMap, emit Emit) (int, error) {
	if len(texts) != len(contents) {
		return 0, errors.MismatchError{Path: doc.Path, TextPages: len(texts), ContentPages: len(contents)}
	}
	if err := checkFields(nt, fields); err != nil {
		return 0, err
	}

	pages := make([]Page, len(texts))
	for i := range texts {
		pages[i] = Page{
			Number:  i + 1,
			Text:    texts[i],
			Content: contents[i],
			Prompt:  firstLine(texts[i]),
		}
	}
	if err := a.fillPrompts(ctx, pages); err != nil {
		return 0, err
	}

	return shapeFor(nt, fields.Front, fields.Back, r).Build(ctx, doc, pages, emit)
}

func (a *Assembler) fillPrompts(ctx context.Context, pages []Page) error {
	if a.Prompter == nil {
		return nil
	}
	for i, p := range pages {
		if strings.TrimSpace(p.Prompt) != "" || strings.TrimSpace(p.Text) == "" {
			continue
		}
		prompt, err := a.Prompter.Prompt(ctx, p.Text)
		if err != nil {
			return errors.Wrap(err, "prompt for page %d", p.Number)
		}
		logging.Debug("Generated prompt for page %d: %q", p.Number, prompt)
		pages[i].Prompt = prompt
	}
	return nil
}

// firstLine is the text up to the first line break.
func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSuffix(line, "\r")
}

// checkFields verifies that the field mapping fits the note type. Only a
// cloze type may leave its title unset.
func checkFields(nt *collection.NoteType, fields FieldMap) error {
	if !nt.HasField(fields.Back) {
		return errors.NewConfigError("note type %q has no field %q", nt.Name, fields.Back)
	}
	if nt.IsCloze() && fields.Front == NoTitle {
		return nil
	}
	if !nt.HasField(fields.Front) {
		return errors.NewConfigError("note type %q has no field %q", nt.Name, fields.Front)
	}
	return nil
}
