package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowdesk/glowdesk/internal/note"
)

// NoteRepository implements note.Storage on postgres.
type NoteRepository struct {
	pool *pgxpool.Pool
}

var _ note.Storage = (*NoteRepository)(nil)

// NewNoteRepository creates a note repository over the pool.
func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

// CreateNote implements note.Storage.
func (r *NoteRepository) CreateNote(ctx context.Context, n *note.Note) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notes (id, title, content, created_at)
		VALUES ($1, $2, $3, $4)`,
		n.ID, n.Title, n.Content, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// ListNotes implements note.Storage.
func (r *NoteRepository) ListNotes(ctx context.Context) ([]note.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, created_at
		FROM notes
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (note.Note, error) {
		var n note.Note
		err := row.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan notes: %w", err)
	}
	return notes, nil
}
