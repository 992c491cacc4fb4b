// Package note implements the shared workspace notes resource.
package note

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoteNotFound is returned when a note id has no match.
var ErrNoteNotFound = errors.New("note: not found")

const (
	maxTitleLen   = 200
	maxContentLen = 2000
)

// Note is a workspace note. Notes are shared across the workspace, so they
// carry no owner.
type Note struct {
	ID        uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
}

// Storage abstracts note persistence.
type Storage interface {
	CreateNote(ctx context.Context, note *Note) error
	// ListNotes returns all notes, newest first.
	ListNotes(ctx context.Context) ([]Note, error)
}

// Service applies note business rules over storage.
type Service struct {
	storage Storage
}

// NewService creates a note service.
func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// List returns all notes, newest first.
func (s *Service) List(ctx context.Context) ([]Note, error) {
	return s.storage.ListNotes(ctx)
}

// Create stores a new note.
func (s *Service) Create(ctx context.Context, title, content string) (*Note, error) {
	note := &Note{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}
