package notes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned for unknown note ids.
var ErrNotFound = errors.New("note not found")

// Repository persists notes.
type Repository interface {
	Create(ctx context.Context, note Note) error
	List(ctx context.Context) ([]Note, error)
	Search(ctx context.Context, query string) ([]Note, error)
	Get(ctx context.Context, id string) (Note, error)
	Delete(ctx context.Context, id string) error
	UpdateSummary(ctx context.Context, id, summary string, aiGenerated bool) error
}

// PostgresRepository implements Repository using PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE notes (
//	    id           UUID PRIMARY KEY,
//	    title        TEXT NOT NULL,
//	    content      TEXT NOT NULL,
//	    tags         TEXT[] NOT NULL DEFAULT '{}',
//	    summary      TEXT NOT NULL DEFAULT '',
//	    ai_generated BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at   TIMESTAMPTZ NOT NULL
//	);
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed note repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new note.
func (r *PostgresRepository) Create(ctx context.Context, note Note) error {
	noteID, err := uuid.Parse(note.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO notes (id, title, content, tags, summary, ai_generated, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		noteID, note.Title, note.Content, note.Tags, note.Summary, note.AIGenerated, note.CreatedAt.UTC())
	return err
}

// List returns all notes, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Note, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, content, tags, summary, ai_generated, created_at
        FROM notes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectNotes(rows)
}

// Search returns notes whose title or any tag contains the query,
// case-insensitively, newest first.
func (r *PostgresRepository) Search(ctx context.Context, query string) ([]Note, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, content, tags, summary, ai_generated, created_at
        FROM notes
        WHERE title ILIKE '%' || $1 || '%'
           OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE '%' || $1 || '%')
        ORDER BY created_at DESC`, query)
	if err != nil {
		return nil, err
	}
	return collectNotes(rows)
}

// Get fetches a note by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Note, error) {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return Note{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, title, content, tags, summary, ai_generated, created_at
        FROM notes WHERE id = $1`, noteID)
	note, err := scanNote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	return note, err
}

// Delete removes a note.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSummary replaces the note's summary.
func (r *PostgresRepository) UpdateSummary(ctx context.Context, id, summary string, aiGenerated bool) error {
	noteID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE notes SET summary = $1, ai_generated = $2 WHERE id = $3`,
		summary, aiGenerated, noteID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectNotes(rows pgx.Rows) ([]Note, error) {
	defer rows.Close()

	var out []Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, note)
	}
	return out, rows.Err()
}

func scanNote(row pgx.Row) (Note, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		note      Note
	)
	if err := row.Scan(&id, &note.Title, &note.Content, &note.Tags, &note.Summary, &note.AIGenerated, &createdAt); err != nil {
		return Note{}, err
	}
	note.ID = id.String()
	note.CreatedAt = createdAt.UTC()
	return note, nil
}
