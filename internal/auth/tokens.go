package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/glowdesk/pkg/jwt"
)

// AccessClaims is the payload of an access token. It carries enough profile
// data for downstream handlers to render a session without a user lookup.
type AccessClaims struct {
	jwt.StandardClaims
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
	Provider  string `json:"provider,omitempty"`
}

// RefreshClaims is the payload of a refresh token. It identifies the subject
// and nothing else; profile data would go stale over its long lifetime.
type RefreshClaims struct {
	jwt.StandardClaims
}

// TokenService issues and validates the access/refresh token pair for a
// session. Refresh tokens are additionally checked against the server-side
// store, so a signed token alone is not enough after logout or re-login.
type TokenService struct {
	codec      *jwt.Service
	store      RefreshTokenStore
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a token service. Both lifetimes must be positive.
func NewTokenService(codec *jwt.Service, store RefreshTokenStore, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if codec == nil {
		return nil, fmt.Errorf("token service: nil codec")
	}
	if store == nil {
		return nil, fmt.Errorf("token service: nil refresh token store")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, ErrNonPositiveTTL
	}
	return &TokenService{
		codec:      codec,
		store:      store,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// Issue generates a fresh token pair for the user and stores the refresh
// token server-side, replacing any previous session of the same user.
func (s *TokenService) Issue(ctx context.Context, user *User) (TokenPair, error) {
	now := time.Now()

	provider := string(user.SocialType)
	if provider == "" {
		provider = string(SocialTypeUnknown)
	}

	access, err := s.codec.Generate(AccessClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.accessTTL).Unix(),
		},
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Provider:  provider,
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	// The jti makes every refresh token unique even when two logins land in
	// the same second, so a superseded token never matches the stored one.
	refresh, err := s.codec.Generate(RefreshClaims{
		StandardClaims: jwt.StandardClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.refreshTTL).Unix(),
		},
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.store.Save(ctx, user.ID, refresh, s.refreshTTL); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Revoke removes the stored refresh token for the user, ending the session.
// A zero user id is a no-op so logout without a valid token still succeeds.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return s.store.Delete(ctx, userID)
}

// ParseAccess validates an access token and returns its claims. Any failure
// surfaces as jwt.ErrInvalidToken.
func (s *TokenService) ParseAccess(tokenString string) (AccessClaims, error) {
	var claims AccessClaims
	if err := s.codec.Parse(tokenString, &claims); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

// ValidateRefresh checks a presented refresh token against both its signature
// and the server-side store, then returns the subject's user id. A token
// whose signature verifies but which no longer matches the stored one (after
// logout or a login elsewhere) is rejected the same way as a forged one.
func (s *TokenService) ValidateRefresh(ctx context.Context, tokenString string) (uuid.UUID, error) {
	var claims RefreshClaims
	if err := s.codec.Parse(tokenString, &claims); err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}

	stored, err := s.store.Get(ctx, userID)
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(tokenString)) != 1 {
		return uuid.Nil, ErrInvalidRefreshToken
	}

	return userID, nil
}
