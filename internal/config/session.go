package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thywilljoshua/pdf2notes/internal/convert"
	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

// Session holds the choices of one interaction. It is loaded from the store
// when the interaction starts and written back when it ends.
type Session struct {
	Dir         string
	DeckID      int64
	Subdeck     bool
	NoteTypeID  int64
	Front       string
	Back        string
	Format      string
	FitWidth    int
	FitHeight   int
	Shortcut    string
	Collection  string
	DatabaseURL string
	LogLevel    string
	AI          string
	AIModel     string

	store *Store
}

// Load reads a session from the store.
func Load(s *Store) *Session {
	v := s.v
	return &Session{
		Dir:         v.GetString(KeyDir),
		DeckID:      v.GetInt64(KeyDeckID),
		Subdeck:     v.GetBool(KeySubdeck),
		NoteTypeID:  v.GetInt64(KeyNoteTypeID),
		Front:       v.GetString(KeyFront),
		Back:        v.GetString(KeyBack),
		Format:      v.GetString(KeyFormat),
		FitWidth:    v.GetInt(KeyFitWidth),
		FitHeight:   v.GetInt(KeyFitHeight),
		Shortcut:    v.GetString(KeyShortcut),
		Collection:  v.GetString(KeyCollection),
		DatabaseURL: v.GetString(KeyDatabaseURL),
		LogLevel:    v.GetString(KeyLogLevel),
		AI:          v.GetString(KeyAI),
		AIModel:     v.GetString(KeyAIModel),
		store:       s,
	}
}

// Remember records the directory of the first selected file.
func (s *Session) Remember(pdfs []string) {
	if len(pdfs) > 0 {
		if abs, err := filepath.Abs(pdfs[0]); err == nil {
			s.Dir = filepath.Dir(abs)
		}
	}
}

// Resolve looks up relative paths that do not exist in the working directory
// in the directory of the previous import.
func (s *Session) Resolve(pdfs []string) []string {
	out := make([]string, len(pdfs))
	for i, p := range pdfs {
		out[i] = p
		if filepath.IsAbs(p) || s.Dir == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			continue
		}
		if alt := filepath.Join(s.Dir, p); fileExists(alt) {
			out[i] = alt
		}
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Request builds the import of pdfs from the session's choices.
func (s *Session) Request(pdfs []string) (convert.Request, error) {
	f, err := convert.ParseFormat(s.Format)
	if err != nil {
		return convert.Request{}, errors.NewConfigError("%v", err)
	}
	return convert.Request{
		PDFs:       pdfs,
		DeckID:     s.DeckID,
		Subdeck:    s.Subdeck,
		NoteTypeID: s.NoteTypeID,
		Front:      s.Front,
		Back:       s.Back,
		Format:     f,
		FitWidth:   s.FitWidth,
		FitHeight:  s.FitHeight,
	}, nil
}

// Validate checks the values that do not depend on the collection.
func (s *Session) Validate() error {
	if _, err := convert.ParseFormat(s.Format); err != nil {
		return errors.NewConfigError("%v", err)
	}
	if s.FitWidth < 0 || s.FitHeight < 0 {
		return errors.NewConfigError("fit width and height must not be negative")
	}
	switch strings.ToLower(s.AI) {
	case AIOff, AIGemini, "":
	default:
		return errors.NewConfigError("invalid ai provider: %s (must be one of: off, gemini)", s.AI)
	}
	validLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warn":    true,
		"warning": true,
		"error":   true,
		"none":    true,
	}
	if !validLogLevels[strings.ToLower(s.LogLevel)] {
		return errors.NewConfigError("invalid log level: %s (must be one of: debug, info, warning, error, none)", s.LogLevel)
	}
	return nil
}

// Save writes the dialog choices of the session back to its store and
// persists it. Connection, collection, logging and AI settings change only
// through the store.
func (s *Session) Save() error {
	st := s.store
	st.set(KeyDir, s.Dir)
	st.set(KeyDeckID, s.DeckID)
	st.set(KeySubdeck, s.Subdeck)
	st.set(KeyNoteTypeID, s.NoteTypeID)
	st.set(KeyFront, s.Front)
	st.set(KeyBack, s.Back)
	st.set(KeyFormat, s.Format)
	st.set(KeyFitWidth, s.FitWidth)
	st.set(KeyFitHeight, s.FitHeight)
	st.set(KeyShortcut, s.Shortcut)
	return st.Save()
}

func (s *Session) String() string {
	return fmt.Sprintf("Session{Deck: %d, Subdeck: %t, NoteType: %d, Front: %q, Back: %q, Format: %s, Fit: %dx%d}",
		s.DeckID, s.Subdeck, s.NoteTypeID, s.Front, s.Back, s.Format, s.FitWidth, s.FitHeight)
}
