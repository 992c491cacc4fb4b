package note

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/glowdesk/glowdesk/internal/auth"
	"github.com/glowdesk/glowdesk/pkg/binder"
	"github.com/glowdesk/glowdesk/pkg/logger"
	"github.com/glowdesk/glowdesk/pkg/response"
	"github.com/glowdesk/glowdesk/pkg/validator"
)

// Handler exposes the notes HTTP surface.
type Handler struct {
	service *Service
	log     *slog.Logger
}

// NewHandler wires the notes HTTP handler.
func NewHandler(service *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, log: log}
}

// Routes mounts the note endpoints. All of them require a session.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAuth)
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	return r
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r createNoteRequest) Validate() error {
	return validator.Apply(
		validator.Required("title", r.Title),
		validator.MaxLen("title", r.Title, maxTitleLen),
		validator.Required("content", r.Content),
		validator.MaxLen("content", r.Content, maxContentLen),
	)
}

type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func noteResponseFrom(n Note) noteResponse {
	return noteResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list notes", logger.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal_error", "failed to list notes")
		return
	}

	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteResponseFrom(n))
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := binder.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(w, validator.ExtractValidationErrors(err).ByField())
		return
	}

	note, err := h.service.Create(r.Context(), req.Title, req.Content)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to create note", logger.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal_error", "failed to create note")
		return
	}
	response.JSON(w, http.StatusCreated, noteResponseFrom(*note))
}
