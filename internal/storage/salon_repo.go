package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowdesk/glowdesk/internal/salon"
	"github.com/glowdesk/glowdesk/pkg/pg"
)

// SalonRepository implements salon.Storage on postgres. The aggregate spans
// three tables; writes happen in a single transaction.
type SalonRepository struct {
	pool *pgxpool.Pool
}

var _ salon.Storage = (*SalonRepository)(nil)

// NewSalonRepository creates a salon repository over the pool.
func NewSalonRepository(pool *pgxpool.Pool) *SalonRepository {
	return &SalonRepository{pool: pool}
}

// CreateSalon implements salon.Storage.
func (r *SalonRepository) CreateSalon(ctx context.Context, s *salon.Salon) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx, `
		INSERT INTO salons (id, code, name, description, address, city,
			contact_number, hero_image_url, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.Code, s.Name, s.Description, s.Address, s.City,
		s.ContactNumber, s.HeroImageURL, s.OwnerID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return salon.ErrCodeAlreadyExists
		}
		return fmt.Errorf("failed to create salon: %w", err)
	}

	if s.Branding != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO salon_branding (salon_id, primary_color, accent_color,
				frame_style, background_texture, hero_image_url)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, s.Branding.PrimaryColor, s.Branding.AccentColor,
			s.Branding.FrameStyle, s.Branding.BackgroundTexture, s.Branding.HeroImageURL,
		)
		if err != nil {
			return fmt.Errorf("failed to create salon branding: %w", err)
		}
	}

	for _, item := range s.MenuItems {
		_, err = tx.Exec(ctx, `
			INSERT INTO salon_menu_items (salon_id, menu_key, label, path, visible, display_order)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, item.Key, item.Label, item.Path, item.Visible, item.DisplayOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to create salon menu item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit salon: %w", err)
	}
	return nil
}

// GetSalonByCode implements salon.Storage.
func (r *SalonRepository) GetSalonByCode(ctx context.Context, code string) (*salon.Salon, error) {
	var s salon.Salon
	err := r.pool.QueryRow(ctx, `
		SELECT id, code, name, description, address, city, contact_number,
			hero_image_url, owner_id, created_at, updated_at
		FROM salons WHERE code = $1`, code,
	).Scan(
		&s.ID, &s.Code, &s.Name, &s.Description, &s.Address, &s.City,
		&s.ContactNumber, &s.HeroImageURL, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, salon.ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to load salon: %w", err)
	}

	if err := r.loadBranding(ctx, &s); err != nil {
		return nil, err
	}
	if err := r.loadMenuItems(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSalons implements salon.Storage. The directory listing skips branding
// and menu items; those load with GetSalonByCode.
func (r *SalonRepository) ListSalons(ctx context.Context) ([]salon.Salon, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, name, description, address, city, contact_number,
			hero_image_url, owner_id, created_at, updated_at
		FROM salons ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list salons: %w", err)
	}

	salons, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (salon.Salon, error) {
		var s salon.Salon
		err := row.Scan(
			&s.ID, &s.Code, &s.Name, &s.Description, &s.Address, &s.City,
			&s.ContactNumber, &s.HeroImageURL, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
		)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan salons: %w", err)
	}
	return salons, nil
}

func (r *SalonRepository) loadBranding(ctx context.Context, s *salon.Salon) error {
	var b salon.Branding
	err := r.pool.QueryRow(ctx, `
		SELECT primary_color, accent_color, frame_style, background_texture, hero_image_url
		FROM salon_branding WHERE salon_id = $1`, s.ID,
	).Scan(&b.PrimaryColor, &b.AccentColor, &b.FrameStyle, &b.BackgroundTexture, &b.HeroImageURL)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to load salon branding: %w", err)
	}
	s.Branding = &b
	return nil
}

func (r *SalonRepository) loadMenuItems(ctx context.Context, s *salon.Salon) error {
	rows, err := r.pool.Query(ctx, `
		SELECT menu_key, label, path, visible, display_order
		FROM salon_menu_items WHERE salon_id = $1
		ORDER BY display_order`, s.ID)
	if err != nil {
		return fmt.Errorf("failed to load salon menu items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (salon.MenuItem, error) {
		var item salon.MenuItem
		err := row.Scan(&item.Key, &item.Label, &item.Path, &item.Visible, &item.DisplayOrder)
		return item, err
	})
	if err != nil {
		return fmt.Errorf("failed to scan salon menu items: %w", err)
	}
	s.MenuItems = items
	return nil
}
