package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf2notes/internal/ai"
	"github.com/thywilljoshua/pdf2notes/internal/collection"
	"github.com/thywilljoshua/pdf2notes/internal/config"
	"github.com/thywilljoshua/pdf2notes/internal/logging"
	"github.com/thywilljoshua/pdf2notes/internal/poppler"
)

// app carries what the commands share; tests swap the tools and runner.
type app struct {
	configPath string
	tools      poppler.Tools
	runner     poppler.Runner

	store   *config.Store
	session *config.Session
}

func main() {
	a := &app{tools: poppler.DefaultTools(), runner: poppler.ExecRunner{}}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "pdf2notes",
		Short:         "Import the pages of PDF files as flashcard notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "configuration file (default: "+config.DefaultPath()+")")
	pf.String("collection", "", "directory of the collection")
	pf.String("database-url", "", "PostgreSQL connection string; stores the collection in the database")
	pf.String("log-level", "", "log level: debug|info|warning|error|none")

	root.AddCommand(importCmd(a), checkCmd(a), decksCmd(a), noteTypesCmd(a), configCmd(a))
	return root
}

// load opens the configuration store, binds the flags of cmd that override
// persisted keys and starts the session.
func (a *app) load(cmd *cobra.Command) error {
	store, err := config.Open(a.configPath)
	if err != nil {
		return err
	}

	bindings := map[string]string{
		"collection":   config.KeyCollection,
		"database-url": config.KeyDatabaseURL,
		"log-level":    config.KeyLogLevel,
		"deck":         config.KeyDeckID,
		"subdeck":      config.KeySubdeck,
		"note-type":    config.KeyNoteTypeID,
		"front":        config.KeyFront,
		"back":         config.KeyBack,
		"format":       config.KeyFormat,
		"fit-width":    config.KeyFitWidth,
		"fit-height":   config.KeyFitHeight,
		"ai":           config.KeyAI,
		"ai-model":     config.KeyAIModel,
	}
	for flag, key := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := store.BindFlag(key, f); err != nil {
				return err
			}
		}
	}

	a.store = store
	a.session = config.Load(store)
	logging.SetLevel(logging.ParseLevel(a.session.LogLevel))
	logging.Debug("Loaded %s from %q", a.session, store.Path())
	return nil
}

// openCollection opens the PostgreSQL collection when a database URL is
// configured and the filesystem collection otherwise.
func (a *app) openCollection(ctx context.Context) (collection.Collection, error) {
	s := a.session
	if s.DatabaseURL != "" {
		logging.Info("Using PostgreSQL collection")
		db, err := collection.OpenPostgres(ctx, s.DatabaseURL, filepath.Join(s.Collection, "media"))
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	logging.Info("Using collection in %q", s.Collection)
	return collection.OpenFilesystem(s.Collection)
}

// prompter returns the configured prompt generator, or nil when AI is off
// or cannot be set up.
func (a *app) prompter(ctx context.Context) ai.Prompter {
	if !strings.EqualFold(a.session.AI, config.AIGemini) {
		return nil
	}
	g, err := ai.NewGemini(ctx, os.Getenv("GOOGLE_API_KEY"), a.session.AIModel)
	if err != nil {
		logging.Warning("Gemini disabled: %v", err)
		return nil
	}
	return g
}
