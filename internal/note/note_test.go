package note_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/glowdesk/internal/auth"
	"github.com/glowdesk/glowdesk/internal/note"
)

type memoryNoteStorage struct {
	mu    sync.Mutex
	notes []note.Note
}

func (s *memoryNoteStorage) CreateNote(_ context.Context, n *note.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, *n)
	return nil
}

func (s *memoryNoteStorage) ListNotes(_ context.Context) ([]note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]note.Note, len(s.notes))
	copy(out, s.notes)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func TestService_ListNewestFirst(t *testing.T) {
	t.Parallel()

	storage := &memoryNoteStorage{}
	storage.notes = []note.Note{
		{Title: "oldest", CreatedAt: time.Now().Add(-2 * time.Hour)},
		{Title: "newest", CreatedAt: time.Now()},
		{Title: "middle", CreatedAt: time.Now().Add(-time.Hour)},
	}

	notes, err := note.NewService(storage).List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "newest", notes[0].Title)
	assert.Equal(t, "middle", notes[1].Title)
	assert.Equal(t, "oldest", notes[2].Title)
}

func newNoteRouter(h *note.Handler) http.Handler {
	r := chi.NewRouter()
	r.Mount("/api/v1/notes", h.Routes())
	return r
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(auth.WithPrincipal(r.Context(), auth.Principal{Email: "jane@example.com"}))
}

func TestHandler_Create(t *testing.T) {
	t.Parallel()

	t.Run("creates note", func(t *testing.T) {
		t.Parallel()

		router := newNoteRouter(note.NewHandler(note.NewService(&memoryNoteStorage{}), nil))
		r := httptest.NewRequest(http.MethodPost, "/api/v1/notes/",
			strings.NewReader(`{"title":"hello","content":"world"}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authed(r))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "hello")
	})

	t.Run("rejects oversize title", func(t *testing.T) {
		t.Parallel()

		router := newNoteRouter(note.NewHandler(note.NewService(&memoryNoteStorage{}), nil))
		body := `{"title":"` + strings.Repeat("a", 201) + `","content":"x"}`
		r := httptest.NewRequest(http.MethodPost, "/api/v1/notes/", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authed(r))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "title")
	})

	t.Run("rejects anonymous request", func(t *testing.T) {
		t.Parallel()

		router := newNoteRouter(note.NewHandler(note.NewService(&memoryNoteStorage{}), nil))
		r := httptest.NewRequest(http.MethodPost, "/api/v1/notes/",
			strings.NewReader(`{"title":"hello","content":"world"}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_List(t *testing.T) {
	t.Parallel()

	storage := &memoryNoteStorage{notes: []note.Note{
		{Title: "first", Content: "a", CreatedAt: time.Now().Add(-time.Hour)},
		{Title: "second", Content: "b", CreatedAt: time.Now()},
	}}
	router := newNoteRouter(note.NewHandler(note.NewService(storage), nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authed(httptest.NewRequest(http.MethodGet, "/api/v1/notes/", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Less(t, strings.Index(body, "second"), strings.Index(body, "first"))
}
