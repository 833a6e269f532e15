// Package collection is the flashcard store notes and media are imported
// into: decks, note types, notes and a media directory.
package collection

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Kind distinguishes cloze note types from standard front/back types.
type Kind string

const (
	KindStandard Kind = "standard"
	KindCloze    Kind = "cloze"
)

// NoteType declares the ordered fields of a note and its kind.
type NoteType struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Kind   Kind     `json:"kind"`
	Fields []string `json:"fields"`
}

// IsCloze reports whether notes of this type hold cloze deletions.
func (nt *NoteType) IsCloze() bool {
	return nt.Kind == KindCloze
}

// HasField reports whether the type declares a field with the given name.
func (nt *NoteType) HasField(name string) bool {
	for _, f := range nt.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Deck groups notes. Subdecks use "::" in their name.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Field is one named value of a note.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Note is a flashcard note with one value per field of its note type.
type Note struct {
	GUID       string  `json:"guid"`
	NoteTypeID int64   `json:"note_type_id"`
	Fields     []Field `json:"fields"`
}

// NewNote creates an empty note of the given type.
func NewNote(nt *NoteType) *Note {
	fields := make([]Field, len(nt.Fields))
	for i, name := range nt.Fields {
		fields[i] = Field{Name: name}
	}
	return &Note{
		GUID:       uuid.NewString(),
		NoteTypeID: nt.ID,
		Fields:     fields,
	}
}

// Get returns the value of the named field.
func (n *Note) Get(name string) (string, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of the named field.
func (n *Note) Set(name, value string) error {
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			n.Fields[i].Value = value
			return nil
		}
	}
	return fmt.Errorf("note type has no field %q", name)
}

// Append adds value to the end of the named field.
func (n *Note) Append(name, value string) error {
	v, ok := n.Get(name)
	if !ok {
		return fmt.Errorf("note type has no field %q", name)
	}
	return n.Set(name, v+value)
}

// Changes summarizes the mutations of one operation.
type Changes struct {
	NotesAdded int `json:"notes_added"`
	DecksAdded int `json:"decks_added"`
}

// Merge returns the sum of c and o.
func (c Changes) Merge(o Changes) Changes {
	return Changes{
		NotesAdded: c.NotesAdded + o.NotesAdded,
		DecksAdded: c.DecksAdded + o.DecksAdded,
	}
}

// Collection is the store the import writes to. Implementations serialize
// their own mutations.
type Collection interface {
	NoteTypes(ctx context.Context) ([]NoteType, error)
	NoteType(ctx context.Context, id int64) (*NoteType, error)
	Decks(ctx context.Context) ([]Deck, error)
	Deck(ctx context.Context, id int64) (*Deck, error)
	// AddDeck returns the deck with the given name, creating it if needed.
	AddDeck(ctx context.Context, name string) (*Deck, Changes, error)
	AddNote(ctx context.Context, n *Note, deckID int64) (Changes, error)
	// Notes returns the notes of a deck in insertion order.
	Notes(ctx context.Context, deckID int64) ([]Note, error)
	// AddMedia copies the file into the media directory and returns the
	// name to reference it by.
	AddMedia(path string) (string, error)
	Close() error
}

// DefaultNoteTypes are created in a new collection.
func DefaultNoteTypes() []NoteType {
	return []NoteType{
		{Name: "Basic", Kind: KindStandard, Fields: []string{"Front", "Back"}},
		{Name: "Cloze", Kind: KindCloze, Fields: []string{"Text", "Back Extra"}},
	}
}

// DefaultDeck is the name of the deck created in a new collection.
const DefaultDeck = "Default"
