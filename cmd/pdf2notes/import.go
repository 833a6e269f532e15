package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf2notes/internal/collection"
	"github.com/thywilljoshua/pdf2notes/internal/convert"
	"github.com/thywilljoshua/pdf2notes/internal/logging"
	"github.com/thywilljoshua/pdf2notes/internal/poppler"
)

func importCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <pdf>...",
		Short: "Import every page of the PDFs as notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tools.Check(); err != nil {
				return fmt.Errorf("import disabled: %w", err)
			}
			s := a.session
			if err := s.Validate(); err != nil {
				return err
			}
			args = s.Resolve(args)
			s.Remember(args)

			ctx := cmd.Context()
			c, err := a.openCollection(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			req, err := s.Request(args)
			if err != nil {
				return err
			}
			imp := &convert.Importer{
				Collection: c,
				Extractor:  poppler.New(a.tools, a.runner),
				Prompter:   a.prompter(ctx),
			}
			if err := imp.Validate(ctx, req); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				if err := describe(ctx, out, c, req); err != nil {
					return err
				}
				ok, err := confirm(cmd.InOrStdin(), out)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "✗ Import cancelled, settings saved.")
					return s.Save()
				}
			}

			fmt.Fprintf(out, "… Importing %d file(s)\n", len(req.PDFs))
			res, err := convert.RunInBackground(ctx, imp, req).Wait()
			for _, f := range res.Files {
				fmt.Fprintf(out, "✓ %s\n", f)
			}
			if serr := s.Save(); serr != nil {
				logging.Error("Failed to save settings: %v", serr)
			}
			if err != nil {
				fmt.Fprintf(out, "✗ %v\n", err)
				return err
			}
			fmt.Fprintf(out, "✓ %s %d note(s) added.\n", res.Summary(), res.Changes.NotesAdded)
			return nil
		},
	}
	f := cmd.Flags()
	f.Int64("deck", 1, "id of the target deck (see: pdf2notes decks)")
	f.Bool("subdeck", false, "create a subdeck per file named after the file")
	f.Int64("note-type", 0, "id of the note type (see: pdf2notes notetypes)")
	f.String("front", "", `field for the prompt, or the title of a cloze note ("`+convert.NoTitle+`" for none)`)
	f.String("back", "", "field for the page content")
	f.String("format", string(convert.FormatImage), "page content format: Image|HTML")
	f.Int("fit-width", 0, "fit pages into this width in pixels (0: no bound)")
	f.Int("fit-height", 0, "fit pages into this height in pixels (0: no bound)")
	f.String("ai", "", "generate prompts for pages without a first line: off|gemini")
	f.String("ai-model", "", "Gemini model for generated prompts")
	f.BoolVarP(&yes, "yes", "y", false, "import without asking for confirmation")
	return cmd
}

// describe prints what an import of req will do.
func describe(ctx context.Context, w io.Writer, c collection.Collection, req convert.Request) error {
	deck, err := c.Deck(ctx, req.DeckID)
	if err != nil {
		return err
	}
	nt, err := c.NoteType(ctx, req.NoteTypeID)
	if err != nil {
		return err
	}

	for _, p := range req.PDFs {
		if n := convert.PageCount(p); n > 0 {
			fmt.Fprintf(w, "  %s (%d pages)\n", filepath.Base(p), n)
		} else {
			fmt.Fprintf(w, "  %s\n", filepath.Base(p))
		}
	}
	target := deck.Name
	if req.Subdeck {
		target += "::<file>"
	}
	fmt.Fprintf(w, "Deck:      %s\n", target)
	fmt.Fprintf(w, "Note type: %s (%s)\n", nt.Name, nt.Kind)
	fmt.Fprintf(w, "Fields:    %s / %s\n", req.Front, req.Back)
	fmt.Fprintf(w, "Format:    %s\n", req.Format)
	if req.FitWidth > 0 || req.FitHeight > 0 {
		fmt.Fprintf(w, "Fit:       %d x %d\n", req.FitWidth, req.FitHeight)
	}
	return nil
}

func confirm(r io.Reader, w io.Writer) (bool, error) {
	fmt.Fprint(w, "Import? [y/N] ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
