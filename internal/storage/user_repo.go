package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowdesk/glowdesk/internal/auth"
	"github.com/glowdesk/glowdesk/pkg/pg"
)

// UserRepository implements auth.UserStorage on postgres.
type UserRepository struct {
	pool *pgxpool.Pool
}

var _ auth.UserStorage = (*UserRepository)(nil)

// NewUserRepository creates a user repository over the pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, name, password_hash, avatar_url, social_type, provider_id,
	account_link_status, link_candidate_provider, link_candidate_provider_id,
	created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*auth.User, error) {
	var u auth.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.AvatarURL, &u.SocialType,
		&u.ProviderID, &u.AccountLinkStatus, &u.LinkCandidateProvider,
		&u.LinkCandidateProviderID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// CreateUser implements auth.UserStorage.
func (r *UserRepository) CreateUser(ctx context.Context, user *auth.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.AvatarURL,
		user.SocialType, user.ProviderID, user.AccountLinkStatus,
		user.LinkCandidateProvider, user.LinkCandidateProviderID,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID implements auth.UserStorage.
func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByEmail implements auth.UserStorage. Email matching is case
// insensitive, mirroring the unique index.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

// UpdateUser implements auth.UserStorage.
func (r *UserRepository) UpdateUser(ctx context.Context, user *auth.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET
			email = $2, name = $3, password_hash = $4, avatar_url = $5,
			social_type = $6, provider_id = $7, account_link_status = $8,
			link_candidate_provider = $9, link_candidate_provider_id = $10,
			updated_at = $11
		WHERE id = $1`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.AvatarURL,
		user.SocialType, user.ProviderID, user.AccountLinkStatus,
		user.LinkCandidateProvider, user.LinkCandidateProviderID, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}
