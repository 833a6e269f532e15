package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	perrors "github.com/thywilljoshua/pdf2notes/internal/errors"
	"github.com/thywilljoshua/pdf2notes/internal/logging"
)

// DB is a collection stored in PostgreSQL. Media files stay on disk.
type DB struct {
	Pool  *pgxpool.Pool
	media *MediaDir
}

// OpenPostgres connects to the database and creates the schema and the
// default deck and note types if missing.
func OpenPostgres(ctx context.Context, connStr, mediaDir string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Pool: pool, media: NewMediaDir(mediaDir)}
	if err := db.Initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

// Initialize sets up the tables and seeds the defaults.
func (db *DB) Initialize(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS decks (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create decks table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS note_types (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			fields TEXT[] NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create note_types table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS notes (
			id BIGSERIAL PRIMARY KEY,
			guid TEXT NOT NULL UNIQUE,
			note_type_id BIGINT NOT NULL REFERENCES note_types (id),
			deck_id BIGINT NOT NULL REFERENCES decks (id),
			field_names TEXT[] NOT NULL,
			field_values TEXT[] NOT NULL,
			added TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create notes table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS notes_deck_idx ON notes (deck_id)`)
	if err != nil {
		return fmt.Errorf("failed to create notes index: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `INSERT INTO decks (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, DefaultDeck)
	if err != nil {
		return fmt.Errorf("failed to seed default deck: %w", err)
	}
	for _, nt := range DefaultNoteTypes() {
		_, err = db.Pool.Exec(ctx, `
			INSERT INTO note_types (name, kind, fields) VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, nt.Name, string(nt.Kind), nt.Fields)
		if err != nil {
			return fmt.Errorf("failed to seed note type %q: %w", nt.Name, err)
		}
	}
	return nil
}

func (db *DB) NoteTypes(ctx context.Context) ([]NoteType, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name, kind, fields FROM note_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query note types: %w", err)
	}
	defer rows.Close()

	var out []NoteType
	for rows.Next() {
		nt, err := scanNoteType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *nt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func (db *DB) NoteType(ctx context.Context, id int64) (*NoteType, error) {
	row := db.Pool.QueryRow(ctx, `SELECT id, name, kind, fields FROM note_types WHERE id = $1`, id)
	nt, err := scanNoteType(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, perrors.NewNotFound("note type %d", id)
	}
	return nt, err
}

func scanNoteType(row pgx.Row) (*NoteType, error) {
	var (
		nt   NoteType
		kind string
	)
	if err := row.Scan(&nt.ID, &nt.Name, &kind, &nt.Fields); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan note type: %w", err)
	}
	nt.Kind = Kind(kind)
	return &nt, nil
}

func (db *DB) Decks(ctx context.Context) ([]Deck, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name FROM decks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query decks: %w", err)
	}
	defer rows.Close()

	var out []Deck
	for rows.Next() {
		var d Deck
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func (db *DB) Deck(ctx context.Context, id int64) (*Deck, error) {
	var d Deck
	err := db.Pool.QueryRow(ctx, `SELECT id, name FROM decks WHERE id = $1`, id).Scan(&d.ID, &d.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, perrors.NewNotFound("deck %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query deck: %w", err)
	}
	return &d, nil
}

func (db *DB) AddDeck(ctx context.Context, name string) (*Deck, Changes, error) {
	d := Deck{Name: name}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO decks (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`, name).Scan(&d.ID)
	if err == nil {
		logging.Debug("Created deck %q (%d)", name, d.ID)
		return &d, Changes{DecksAdded: 1}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, Changes{}, fmt.Errorf("failed to create deck %q: %w", name, err)
	}

	err = db.Pool.QueryRow(ctx, `SELECT id FROM decks WHERE name = $1`, name).Scan(&d.ID)
	if err != nil {
		return nil, Changes{}, fmt.Errorf("failed to query deck %q: %w", name, err)
	}
	return &d, Changes{}, nil
}

func (db *DB) AddNote(ctx context.Context, n *Note, deckID int64) (Changes, error) {
	names := make([]string, len(n.Fields))
	values := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		names[i] = f.Name
		values[i] = f.Value
	}

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO notes (guid, note_type_id, deck_id, field_names, field_values)
		VALUES ($1, $2, $3, $4, $5)
	`, n.GUID, n.NoteTypeID, deckID, names, values)
	if err != nil {
		return Changes{}, fmt.Errorf("failed to store note: %w", err)
	}
	return Changes{NotesAdded: 1}, nil
}

func (db *DB) Notes(ctx context.Context, deckID int64) ([]Note, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT guid, note_type_id, field_names, field_values
		FROM notes
		WHERE deck_id = $1
		ORDER BY id
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var (
			n             Note
			names, values []string
		)
		if err := rows.Scan(&n.GUID, &n.NoteTypeID, &names, &values); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		if len(names) != len(values) {
			return nil, fmt.Errorf("note %s has %d field names and %d values", n.GUID, len(names), len(values))
		}
		n.Fields = make([]Field, len(names))
		for i := range names {
			n.Fields[i] = Field{Name: names[i], Value: values[i]}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func (db *DB) AddMedia(path string) (string, error) {
	return db.media.AddMedia(path)
}

func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}
