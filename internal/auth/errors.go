package auth

import (
	"errors"
	"fmt"
)

// General authentication errors
var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password"
	// so login responses cannot be used to enumerate registered emails.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrSocialAccount is returned when a social account attempts password
	// login. Distinct from ErrInvalidCredentials because no guessing risk exists.
	ErrSocialAccount = errors.New("auth: this account must use social login")

	ErrEmailAlreadyExists = errors.New("auth: email already registered")
	ErrUserNotFound       = errors.New("auth: user not found")
)

// Token-related errors
var (
	ErrInvalidRefreshToken  = errors.New("auth: invalid refresh token")
	ErrRefreshTokenNotFound = errors.New("auth: refresh token not found")
	ErrNonPositiveTTL       = errors.New("auth: token TTL must be positive")
)

// OAuth2-specific errors
var (
	ErrUnsupportedProvider = errors.New("auth: unsupported oauth2 provider")
	ErrInvalidCode         = errors.New("auth: invalid authorization code")
	ErrInvalidState        = errors.New("auth: invalid or expired oauth state")
	ErrIncompleteProfile   = errors.New("auth: provider profile is missing required attributes")
)

// AccountLinkRequiredError signals that an email already belongs to a
// different login method and must be linked explicitly before the attempted
// provider can use it.
type AccountLinkRequiredError struct {
	Email             string
	CandidateProvider SocialType
}

func (e *AccountLinkRequiredError) Error() string {
	return fmt.Sprintf("auth: account link required for %s (candidate provider %s)", e.Email, e.CandidateProvider)
}
