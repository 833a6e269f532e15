package collection

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
	"github.com/thywilljoshua/pdf2notes/internal/logging"
)

const (
	collectionFile = "collection.json"
	mediaDir       = "media"
)

type storedNote struct {
	Note
	DeckID int64     `json:"deck_id"`
	Added  time.Time `json:"added"`
}

type fsData struct {
	NextID    int64        `json:"next_id"`
	Decks     []Deck       `json:"decks"`
	NoteTypes []NoteType   `json:"note_types"`
	Notes     []storedNote `json:"notes"`
}

type fsCollection struct {
	dir   string
	media *MediaDir
	mx    sync.RWMutex
	data  fsData
}

// OpenFilesystem opens the collection stored in dir, creating a new one with
// the default deck and note types if dir holds none.
func OpenFilesystem(dir string) (Collection, error) {
	f := &fsCollection{
		dir:   dir,
		media: NewMediaDir(filepath.Join(dir, mediaDir)),
	}

	b, err := os.ReadFile(f.path())
	switch {
	case os.IsNotExist(err):
		logging.Info("Create collection in %q", dir)
		f.seed()
		if err := f.save(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, errors.Wrap(err, "read collection %q", dir)
	default:
		if err := json.Unmarshal(b, &f.data); err != nil {
			return nil, errors.Wrap(err, "decode collection %q", dir)
		}
	}
	return f, nil
}

func (f *fsCollection) seed() {
	f.data.NextID = 1
	f.data.Decks = []Deck{{ID: f.nextID(), Name: DefaultDeck}}
	for _, nt := range DefaultNoteTypes() {
		nt.ID = f.nextID()
		f.data.NoteTypes = append(f.data.NoteTypes, nt)
	}
}

func (f *fsCollection) nextID() int64 {
	id := f.data.NextID
	f.data.NextID++
	return id
}

func (f *fsCollection) path() string {
	return filepath.Join(f.dir, collectionFile)
}

// save writes the collection through a temporary file so a crash never
// leaves a truncated collection behind.
func (f *fsCollection) save() error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return errors.Wrap(err, "create collection directory %q", f.dir)
	}
	b, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrap(err, "write collection")
	}
	return os.Rename(tmp, f.path())
}

func (f *fsCollection) NoteTypes(ctx context.Context) ([]NoteType, error) {
	f.mx.RLock()
	defer f.mx.RUnlock()
	return append([]NoteType(nil), f.data.NoteTypes...), nil
}

func (f *fsCollection) NoteType(ctx context.Context, id int64) (*NoteType, error) {
	f.mx.RLock()
	defer f.mx.RUnlock()
	for _, nt := range f.data.NoteTypes {
		if nt.ID == id {
			nt.Fields = append([]string(nil), nt.Fields...)
			return &nt, nil
		}
	}
	return nil, errors.NewNotFound("note type %d", id)
}

func (f *fsCollection) Decks(ctx context.Context) ([]Deck, error) {
	f.mx.RLock()
	defer f.mx.RUnlock()
	return append([]Deck(nil), f.data.Decks...), nil
}

func (f *fsCollection) Deck(ctx context.Context, id int64) (*Deck, error) {
	f.mx.RLock()
	defer f.mx.RUnlock()
	for _, d := range f.data.Decks {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, errors.NewNotFound("deck %d", id)
}

func (f *fsCollection) AddDeck(ctx context.Context, name string) (*Deck, Changes, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	for _, d := range f.data.Decks {
		if d.Name == name {
			return &d, Changes{}, nil
		}
	}

	d := Deck{ID: f.nextID(), Name: name}
	f.data.Decks = append(f.data.Decks, d)
	if err := f.save(); err != nil {
		return nil, Changes{}, err
	}
	logging.Debug("Created deck %q (%d)", name, d.ID)
	return &d, Changes{DecksAdded: 1}, nil
}

func (f *fsCollection) AddNote(ctx context.Context, n *Note, deckID int64) (Changes, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	if !f.hasDeck(deckID) {
		return Changes{}, errors.NewNotFound("deck %d", deckID)
	}
	stored := storedNote{Note: *n, DeckID: deckID, Added: time.Now().UTC()}
	stored.Fields = append([]Field(nil), n.Fields...)
	f.data.Notes = append(f.data.Notes, stored)
	if err := f.save(); err != nil {
		f.data.Notes = f.data.Notes[:len(f.data.Notes)-1]
		return Changes{}, err
	}
	return Changes{NotesAdded: 1}, nil
}

func (f *fsCollection) hasDeck(id int64) bool {
	for _, d := range f.data.Decks {
		if d.ID == id {
			return true
		}
	}
	return false
}

func (f *fsCollection) AddMedia(path string) (string, error) {
	return f.media.AddMedia(path)
}

func (f *fsCollection) Close() error {
	f.mx.Lock()
	defer f.mx.Unlock()
	return f.save()
}

func (f *fsCollection) Notes(ctx context.Context, deckID int64) ([]Note, error) {
	f.mx.RLock()
	defer f.mx.RUnlock()
	if !f.hasDeck(deckID) {
		return nil, errors.NewNotFound("deck %d", deckID)
	}
	var out []Note
	for _, n := range f.data.Notes {
		if n.DeckID == deckID {
			out = append(out, n.Note)
		}
	}
	return out, nil
}
