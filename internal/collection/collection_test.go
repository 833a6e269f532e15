package collection

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
)

var (
	_ Collection = (*fsCollection)(nil)
	_ Collection = (*DB)(nil)
)

func TestNote(t *testing.T) {
	nt := &NoteType{ID: 3, Name: "Basic", Kind: KindStandard, Fields: []string{"Front", "Back"}}
	n := NewNote(nt)

	assert.NotEmpty(t, n.GUID)
	assert.Equal(t, int64(3), n.NoteTypeID)
	require.NoError(t, n.Set("Front", "Q"))
	require.NoError(t, n.Append("Front", "?"))
	v, ok := n.Get("Front")
	assert.True(t, ok)
	assert.Equal(t, "Q?", v)

	assert.Error(t, n.Set("Missing", "x"))
	assert.Error(t, n.Append("Missing", "x"))
	assert.NotEqual(t, n.GUID, NewNote(nt).GUID)
}

func TestNoteType(t *testing.T) {
	nt := NoteType{Kind: KindCloze, Fields: []string{"Text", "Back Extra"}}
	assert.True(t, nt.IsCloze())
	assert.True(t, nt.HasField("Back Extra"))
	assert.False(t, nt.HasField("Back"))
}

func TestChangesMerge(t *testing.T) {
	c := Changes{NotesAdded: 2}.Merge(Changes{NotesAdded: 1, DecksAdded: 1})
	assert.Equal(t, Changes{NotesAdded: 3, DecksAdded: 1}, c)
}

func TestFilesystemCollection(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := OpenFilesystem(dir)
	require.NoError(t, err)

	decks, err := c.Decks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, DefaultDeck, decks[0].Name)

	types, err := c.NoteTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Basic", types[0].Name)
	assert.True(t, types[1].IsCloze())

	sub, changes, err := c.AddDeck(ctx, "Default::Lecture 1")
	require.NoError(t, err)
	assert.Equal(t, 1, changes.DecksAdded)

	again, changes, err := c.AddDeck(ctx, "Default::Lecture 1")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
	assert.Zero(t, changes.DecksAdded)

	nt, err := c.NoteType(ctx, types[0].ID)
	require.NoError(t, err)
	n := NewNote(nt)
	require.NoError(t, n.Set("Front", "Question"))
	changes, err = c.AddNote(ctx, n, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, changes.NotesAdded)

	_, err = c.AddNote(ctx, n, 999)
	assert.True(t, errors.IsNotFound(err))
	_, err = c.Deck(ctx, 999)
	assert.True(t, errors.IsNotFound(err))
	_, err = c.NoteType(ctx, 999)
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, c.Close())

	reopened, err := OpenFilesystem(dir)
	require.NoError(t, err)
	notes, err := reopened.Notes(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, n.GUID, notes[0].GUID)
	v, _ := notes[0].Get("Front")
	assert.Equal(t, "Question", v)
}

func TestMediaDir(t *testing.T) {
	src := t.TempDir()
	m := NewMediaDir(filepath.Join(t.TempDir(), "media"))

	write := func(name, content string) string {
		p := filepath.Join(src, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	ref, err := m.AddMedia(write("pgimg-1.png", "first"))
	require.NoError(t, err)
	assert.Equal(t, "pgimg-1.png", ref)

	ref, err = m.AddMedia(write("pgimg-1.png", "first"))
	require.NoError(t, err)
	assert.Equal(t, "pgimg-1.png", ref, "identical file must be reused")

	ref, err = m.AddMedia(write("pgimg-1.png", "second"))
	require.NoError(t, err)
	assert.Regexp(t, `^pgimg-1-[0-9a-f]{8}\.png$`, ref)
	b, err := os.ReadFile(filepath.Join(m.Dir(), ref))
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	again, err := m.AddMedia(write("pgimg-1.png", "second"))
	require.NoError(t, err)
	assert.Equal(t, ref, again)

	_, err = m.AddMedia(filepath.Join(src, "missing.png"))
	assert.Error(t, err)
}

func TestPostgres(t *testing.T) {
	url := os.Getenv("PDF2NOTES_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PDF2NOTES_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := OpenPostgres(ctx, url, t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	types, err := db.NoteTypes(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, types)

	deck, _, err := db.AddDeck(ctx, "pdf2notes-test::"+t.Name())
	require.NoError(t, err)
	again, changes, err := db.AddDeck(ctx, deck.Name)
	require.NoError(t, err)
	assert.Equal(t, deck.ID, again.ID)
	assert.Zero(t, changes.DecksAdded)

	n := NewNote(&types[0])
	require.NoError(t, n.Set(types[0].Fields[0], "Question"))
	_, err = db.AddNote(ctx, n, deck.ID)
	require.NoError(t, err)

	notes, err := db.Notes(ctx, deck.ID)
	require.NoError(t, err)
	require.NotEmpty(t, notes)
	assert.Equal(t, n.GUID, notes[len(notes)-1].GUID)

	_, err = db.Deck(ctx, -1)
	assert.True(t, errors.IsNotFound(err))
}
