package salon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSalonNotFound     = errors.New("salon: not found")
	ErrCodeAlreadyExists = errors.New("salon: code already exists")
	ErrInvalidFrameStyle = errors.New("salon: invalid frame style")
	ErrInvalidMenuKey    = errors.New("salon: invalid menu key")
)

// Storage abstracts salon persistence. Implementations load and store the
// whole aggregate, branding and menu items included.
type Storage interface {
	// CreateSalon persists a new salon. Returns ErrCodeAlreadyExists when the
	// code is taken.
	CreateSalon(ctx context.Context, s *Salon) error
	// GetSalonByCode returns ErrSalonNotFound when no salon matches.
	GetSalonByCode(ctx context.Context, code string) (*Salon, error)
	// ListSalons returns all salons ordered by name.
	ListSalons(ctx context.Context) ([]Salon, error)
}

// Service applies salon business rules over storage.
type Service struct {
	storage Storage
}

// NewService creates a salon service.
func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// List returns the salon directory.
func (s *Service) List(ctx context.Context) ([]Salon, error) {
	return s.storage.ListSalons(ctx)
}

// GetByCode loads one salon with its branding and menu.
func (s *Service) GetByCode(ctx context.Context, code string) (*Salon, error) {
	return s.storage.GetSalonByCode(ctx, code)
}

// NewSalonInput is the data needed to register a salon.
type NewSalonInput struct {
	Code          string
	Name          string
	Description   string
	Address       string
	City          string
	ContactNumber string
	HeroImageURL  string
	Branding      *Branding
	MenuItems     []MenuItem
}

// Create registers a salon owned by ownerID. The branding theme and menu
// entries are validated against the known styles and slots.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input NewSalonInput) (*Salon, error) {
	if input.Branding != nil && !input.Branding.FrameStyle.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFrameStyle, input.Branding.FrameStyle)
	}
	for _, item := range input.MenuItems {
		if !item.Key.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMenuKey, item.Key)
		}
	}

	now := time.Now().UTC()
	salon := &Salon{
		ID:            uuid.New(),
		Code:          input.Code,
		Name:          input.Name,
		Description:   input.Description,
		Address:       input.Address,
		City:          input.City,
		ContactNumber: input.ContactNumber,
		HeroImageURL:  input.HeroImageURL,
		OwnerID:       ownerID,
		MenuItems:     input.MenuItems,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Branding != nil {
		salon.AttachBranding(*input.Branding)
	}

	if err := s.storage.CreateSalon(ctx, salon); err != nil {
		return nil, err
	}
	return salon, nil
}
