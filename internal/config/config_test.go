package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf2notes/internal/convert"
	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pdf2notes", "config.json"))
	require.NoError(t, err)
	return s
}

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	sess := Load(openTemp(t))

	assert.Equal(t, int64(1), sess.DeckID)
	assert.False(t, sess.Subdeck)
	assert.Equal(t, "Image", sess.Format)
	assert.Equal(t, DefaultShortcut, sess.Shortcut)
	assert.Equal(t, DefaultLogLevel, sess.LogLevel)
	assert.Equal(t, AIOff, sess.AI)
	assert.Zero(t, sess.FitWidth)
	assert.Zero(t, sess.FitHeight)
	assert.NoError(t, sess.Validate())
}

func TestSessionRoundTrip(t *testing.T) {
	store := openTemp(t)
	sess := Load(store)
	sess.DeckID = 7
	sess.Subdeck = true
	sess.NoteTypeID = 3
	sess.Front = "Text"
	sess.Back = "Back Extra"
	sess.Format = "HTML"
	sess.FitWidth = 800
	sess.Remember([]string{"/tmp/slides/week1.pdf", "/elsewhere/x.pdf"})
	require.NoError(t, sess.Save())

	_, err := os.Stat(store.Path())
	require.NoError(t, err)

	reopened, err := Open(store.Path())
	require.NoError(t, err)
	got := Load(reopened)
	assert.Equal(t, int64(7), got.DeckID)
	assert.True(t, got.Subdeck)
	assert.Equal(t, int64(3), got.NoteTypeID)
	assert.Equal(t, "Text", got.Front)
	assert.Equal(t, "Back Extra", got.Back)
	assert.Equal(t, "HTML", got.Format)
	assert.Equal(t, 800, got.FitWidth)
	assert.Equal(t, "/tmp/slides", got.Dir)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	store := openTemp(t)
	require.NoError(t, store.Set(KeyFormat, "HTML"))
	require.NoError(t, store.Save())

	t.Setenv("PDF2NOTES_FORMAT", "Image")
	t.Setenv("PDF2NOTES_FIT_HEIGHT", "600")
	reopened, err := Open(store.Path())
	require.NoError(t, err)

	sess := Load(reopened)
	assert.Equal(t, "Image", sess.Format)
	assert.Equal(t, 600, sess.FitHeight)
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	saved := openTemp(t)
	require.NoError(t, saved.Set(KeyDeckID, "5"))
	require.NoError(t, saved.Set(KeyFront, "Front"))
	require.NoError(t, saved.Save())
	store, err := Open(saved.Path())
	require.NoError(t, err)

	flags := pflag.NewFlagSet("import", pflag.ContinueOnError)
	flags.Int64("deck", 1, "")
	flags.String("front", "", "")
	require.NoError(t, flags.Parse([]string{"--front", "Title"}))
	require.NoError(t, store.BindFlag(KeyDeckID, flags.Lookup("deck")))
	require.NoError(t, store.BindFlag(KeyFront, flags.Lookup("front")))

	sess := Load(store)
	assert.Equal(t, int64(5), sess.DeckID)
	assert.Equal(t, "Title", sess.Front)

	assert.Error(t, store.BindFlag(KeyBack, flags.Lookup("back")))
}

func TestGetSetUnknownKey(t *testing.T) {
	store := openTemp(t)

	_, err := store.Get("colour")
	assert.True(t, errors.IsConfigError(err))
	assert.True(t, errors.IsConfigError(store.Set("colour", "red")))

	require.NoError(t, store.Set(KeyShortcut, "Ctrl+Shift+i"))
	v, err := store.Get(KeyShortcut)
	require.NoError(t, err)
	assert.Equal(t, "Ctrl+Shift+i", v)
	assert.Contains(t, Keys(), KeyDatabaseURL)
	assert.Len(t, Keys(), 15)
}

func TestSessionValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Session)
	}{
		{"format", func(s *Session) { s.Format = "PNG" }},
		{"fit width", func(s *Session) { s.FitWidth = -1 }},
		{"ai", func(s *Session) { s.AI = "llama" }},
		{"log level", func(s *Session) { s.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := Load(openTemp(t))
			tt.edit(sess)
			assert.True(t, errors.IsConfigError(sess.Validate()))
		})
	}
}

func TestSessionRequest(t *testing.T) {
	sess := Load(openTemp(t))
	sess.Format = "html"
	sess.NoteTypeID = 2
	sess.Front = "Front"
	sess.Back = "Back"

	req, err := sess.Request([]string{"a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, convert.FormatHTML, req.Format)
	assert.Equal(t, []string{"a.pdf"}, req.PDFs)
	assert.Equal(t, int64(1), req.DeckID)
	assert.Equal(t, int64(2), req.NoteTypeID)

	sess.Format = "svg"
	_, err = sess.Request(nil)
	assert.True(t, errors.IsConfigError(err))
}

func TestSaveKeepsEnvironmentAndFlagsOut(t *testing.T) {
	t.Setenv("PDF2NOTES_DATABASE_URL", "postgres://u:secret@db/x")
	t.Setenv("PDF2NOTES_LOG_LEVEL", "debug")
	store := openTemp(t)

	flags := pflag.NewFlagSet("import", pflag.ContinueOnError)
	flags.String("ai", "", "")
	require.NoError(t, flags.Parse([]string{"--ai", "gemini"}))
	require.NoError(t, store.BindFlag(KeyAI, flags.Lookup("ai")))

	sess := Load(store)
	assert.Equal(t, "postgres://u:secret@db/x", sess.DatabaseURL)
	assert.Equal(t, AIGemini, sess.AI)
	sess.FitWidth = 640
	require.NoError(t, sess.Save())

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "debug")
	assert.NotContains(t, string(data), "gemini")
	assert.Contains(t, string(data), KeyFitWidth)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, os.Unsetenv("PDF2NOTES_DATABASE_URL"))
	require.NoError(t, os.Unsetenv("PDF2NOTES_LOG_LEVEL"))
	reopened, err := Open(store.Path())
	require.NoError(t, err)
	got := Load(reopened)
	assert.Empty(t, got.DatabaseURL)
	assert.Equal(t, DefaultLogLevel, got.LogLevel)
	assert.Equal(t, 640, got.FitWidth)
}

func TestSaveKeepsExplicitlySetKeys(t *testing.T) {
	store := openTemp(t)
	require.NoError(t, store.Set(KeyDatabaseURL, "postgres://db/notes"))
	require.NoError(t, store.Save())

	reopened, err := Open(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "postgres://db/notes", Load(reopened).DatabaseURL)
}

func TestSessionResolve(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "week1.pdf"), []byte("%PDF-1.4"), 0o600))

	sess := Load(openTemp(t))
	sess.Dir = dir
	abs := filepath.Join(t.TempDir(), "week2.pdf")
	got := sess.Resolve([]string{"week1.pdf", "missing.pdf", abs})
	assert.Equal(t, []string{filepath.Join(dir, "week1.pdf"), "missing.pdf", abs}, got)

	sess.Remember(got)
	assert.Equal(t, dir, sess.Dir)
}
