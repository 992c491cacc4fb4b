package salon

import (
	"errors"
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

// Handler exposes the salon HTTP surface. Reads are public, creation
// requires a session.
type Handler struct {
	service *Service
	log     *slog.Logger
}

// NewHandler wires the salon HTTP handler.
func NewHandler(service *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, log: log}
}

// Routes mounts the salon endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
	r.Get("/{code}", h.handleGet)
	r.With(auth.RequireAuth).Post("/", h.handleCreate)
	return r
}

type brandingPayload struct {
	PrimaryColor      string `json:"primary_color"`
	AccentColor       string `json:"accent_color"`
	FrameStyle        string `json:"frame_style"`
	BackgroundTexture string `json:"background_texture"`
	HeroImageURL      string `json:"hero_image_url,omitempty"`
}

type menuItemPayload struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Path         string `json:"path"`
	Visible      bool   `json:"visible"`
	DisplayOrder int    `json:"display_order"`
}

type createSalonRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	ContactNumber string            `json:"contact_number,omitempty"`
	HeroImageURL  string            `json:"hero_image_url,omitempty"`
	Branding      *brandingPayload  `json:"branding,omitempty"`
	MenuItems     []menuItemPayload `json:"menu_items,omitempty"`
}

func (r createSalonRequest) Validate() error {
	rules := []validator.Rule{
		validator.Required("code", r.Code),
		validator.MaxLen("code", r.Code, 80),
		validator.Required("name", r.Name),
		validator.MaxLen("name", r.Name, 120),
		validator.MaxLen("description", r.Description, 300),
		validator.Required("address", r.Address),
		validator.MaxLen("address", r.Address, 180),
		validator.Required("city", r.City),
		validator.MaxLen("city", r.City, 60),
		validator.MaxLen("contact_number", r.ContactNumber, 30),
		validator.MaxLen("hero_image_url", r.HeroImageURL, 300),
	}
	if r.Branding != nil {
		rules = append(rules,
			validator.Required("branding.primary_color", r.Branding.PrimaryColor),
			validator.MaxLen("branding.primary_color", r.Branding.PrimaryColor, 14),
			validator.Required("branding.accent_color", r.Branding.AccentColor),
			validator.MaxLen("branding.accent_color", r.Branding.AccentColor, 14),
			validator.Required("branding.background_texture", r.Branding.BackgroundTexture),
			validator.MaxLen("branding.background_texture", r.Branding.BackgroundTexture, 30),
		)
	}
	for _, item := range r.MenuItems {
		rules = append(rules,
			validator.Required("menu_items.label", item.Label),
			validator.MaxLen("menu_items.label", item.Label, 80),
			validator.Required("menu_items.path", item.Path),
			validator.MaxLen("menu_items.path", item.Path, 120),
		)
	}
	return validator.Apply(rules...)
}

func (r createSalonRequest) toInput() NewSalonInput {
	input := NewSalonInput{
		Code:          r.Code,
		Name:          r.Name,
		Description:   r.Description,
		Address:       r.Address,
		City:          r.City,
		ContactNumber: r.ContactNumber,
		HeroImageURL:  r.HeroImageURL,
	}
	if r.Branding != nil {
		input.Branding = &Branding{
			PrimaryColor:      r.Branding.PrimaryColor,
			AccentColor:       r.Branding.AccentColor,
			FrameStyle:        FrameStyle(r.Branding.FrameStyle),
			BackgroundTexture: r.Branding.BackgroundTexture,
			HeroImageURL:      r.Branding.HeroImageURL,
		}
	}
	for _, item := range r.MenuItems {
		input.MenuItems = append(input.MenuItems, MenuItem{
			Key:          MenuKey(item.Key),
			Label:        item.Label,
			Path:         item.Path,
			Visible:      item.Visible,
			DisplayOrder: item.DisplayOrder,
		})
	}
	return input
}

type salonResponse struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	ContactNumber string            `json:"contact_number,omitempty"`
	HeroImageURL  string            `json:"hero_image_url,omitempty"`
	OwnerID       string            `json:"owner_id"`
	Branding      *brandingPayload  `json:"branding,omitempty"`
	MenuItems     []menuItemPayload `json:"menu_items,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

func salonResponseFrom(s Salon) salonResponse {
	out := salonResponse{
		ID:            s.ID.String(),
		Code:          s.Code,
		Name:          s.Name,
		Description:   s.Description,
		Address:       s.Address,
		City:          s.City,
		ContactNumber: s.ContactNumber,
		HeroImageURL:  s.HeroImageURL,
		OwnerID:       s.OwnerID.String(),
		CreatedAt:     s.CreatedAt,
	}
	if s.Branding != nil {
		out.Branding = &brandingPayload{
			PrimaryColor:      s.Branding.PrimaryColor,
			AccentColor:       s.Branding.AccentColor,
			FrameStyle:        string(s.Branding.FrameStyle),
			BackgroundTexture: s.Branding.BackgroundTexture,
			HeroImageURL:      s.Branding.HeroImageURL,
		}
	}
	for _, item := range s.MenuItems {
		out.MenuItems = append(out.MenuItems, menuItemPayload{
			Key:          string(item.Key),
			Label:        item.Label,
			Path:         item.Path,
			Visible:      item.Visible,
			DisplayOrder: item.DisplayOrder,
		})
	}
	return out
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	salons, err := h.service.List(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list salons", logger.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal_error", "failed to list salons")
		return
	}

	out := make([]salonResponse, 0, len(salons))
	for _, s := range salons {
		out = append(out, salonResponseFrom(s))
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	salon, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, ErrSalonNotFound) {
			response.Error(w, http.StatusNotFound, "salon_not_found", "salon not found")
			return
		}
		h.log.ErrorContext(r.Context(), "failed to load salon", logger.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal_error", "failed to load salon")
		return
	}
	response.JSON(w, http.StatusOK, salonResponseFrom(*salon))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req createSalonRequest
	if err := binder.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(w, validator.ExtractValidationErrors(err).ByField())
		return
	}

	salon, err := h.service.Create(r.Context(), principal.ID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, ErrCodeAlreadyExists):
			response.Error(w, http.StatusConflict, "code_taken", "salon code is already registered")
		case errors.Is(err, ErrInvalidFrameStyle), errors.Is(err, ErrInvalidMenuKey):
			response.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.ErrorContext(r.Context(), "failed to create salon", logger.Error(err))
			response.Error(w, http.StatusInternalServerError, "internal_error", "failed to create salon")
		}
		return
	}
	response.JSON(w, http.StatusCreated, salonResponseFrom(*salon))
}
