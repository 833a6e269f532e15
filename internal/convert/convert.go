package convert

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/thywilljoshua/pdf2notes/internal/ai"
	"github.com/thywilljoshua/pdf2notes/internal/collection"
	"github.com/thywilljoshua/pdf2notes/internal/errors"
	"github.com/thywilljoshua/pdf2notes/internal/logging"
)

// Importer turns PDFs into notes of a collection.
type Importer struct {
	Collection collection.Collection
	Extractor  Extractor
	Prompter   ai.Prompter
}

// target is a validated request resolved against the collection.
type target struct {
	deck     *collection.Deck
	noteType *collection.NoteType
	fields   FieldMap
	renderer PageRenderer
}

// Validate checks a request before anything is extracted or written.
func (imp *Importer) Validate(ctx context.Context, req Request) error {
	_, err := imp.resolve(ctx, req)
	return err
}

func (imp *Importer) resolve(ctx context.Context, req Request) (*target, error) {
	if len(req.PDFs) == 0 {
		return nil, errors.NewConfigError("no PDF files selected")
	}
	for _, p := range req.PDFs {
		if err := checkPDF(p); err != nil {
			return nil, err
		}
	}
	if req.FitWidth < 0 || req.FitHeight < 0 {
		return nil, errors.NewConfigError("fit width and height must not be negative (got %d x %d)", req.FitWidth, req.FitHeight)
	}

	r, err := rendererFor(req.Format, imp.Extractor)
	if err != nil {
		return nil, errors.NewConfigError("%v", err)
	}

	deck, err := imp.Collection.Deck(ctx, req.DeckID)
	if errors.IsNotFound(err) {
		return nil, errors.NewConfigError("deck %d does not exist", req.DeckID)
	}
	if err != nil {
		return nil, err
	}

	nt, err := imp.Collection.NoteType(ctx, req.NoteTypeID)
	if errors.IsNotFound(err) {
		return nil, errors.NewConfigError("note type %d does not exist", req.NoteTypeID)
	}
	if err != nil {
		return nil, err
	}

	fields := FieldMap{Front: req.Front, Back: req.Back}
	if err := checkFields(nt, fields); err != nil {
		return nil, err
	}
	return &target{deck: deck, noteType: nt, fields: fields, renderer: r}, nil
}

// Run imports every PDF of the request in order. The first failure aborts
// the remaining files; notes already added stay in the collection.
func (imp *Importer) Run(ctx context.Context, req Request) (Result, error) {
	t, err := imp.resolve(ctx, req)
	if err != nil {
		return Result{}, err
	}

	asm := &Assembler{Prompter: imp.Prompter}
	var res Result
	for _, path := range req.PDFs {
		doc := NewDocument(path)
		logging.Info("Importing %s", path)

		n, changes, err := imp.importOne(ctx, asm, t, doc, req)
		res.Notes += n
		res.Changes = res.Changes.Merge(changes)
		if err != nil {
			return res, errors.Wrap(err, "import %s", path)
		}
		res.Files = append(res.Files, filepath.Base(path))
		logging.Info("Imported %s: %d notes", path, n)
	}
	return res, nil
}

func (imp *Importer) importOne(ctx context.Context, asm *Assembler, t *target, doc Document, req Request) (int, collection.Changes, error) {
	var changes collection.Changes

	deckID := t.deck.ID
	if req.Subdeck {
		sub, c, err := imp.Collection.AddDeck(ctx, t.deck.Name+"::"+doc.Title)
		if err != nil {
			return 0, changes, err
		}
		changes = changes.Merge(c)
		deckID = sub.ID
	}

	texts, err := imp.Extractor.ExtractText(ctx, doc.Path)
	if err != nil {
		return 0, changes, err
	}
	if native := PageCount(doc.Path); native > 0 && native != len(texts) {
		logging.Warning("%s: parser reports %d pages, pdftotext produced %d", doc.Path, native, len(texts))
	}

	contents, err := t.renderer.Render(ctx, doc.Path, req.FitWidth, req.FitHeight, imp.Collection)
	if err != nil {
		return 0, changes, err
	}

	emit := func(ctx context.Context, n *collection.Note) error {
		c, err := imp.Collection.AddNote(ctx, n, deckID)
		if err != nil {
			return fmt.Errorf("add note: %w", err)
		}
		changes = changes.Merge(c)
		return nil
	}
	n, err := asm.Assemble(ctx, doc, texts, contents, t.renderer, t.noteType, t.fields, emit)
	return n, changes, err
}
