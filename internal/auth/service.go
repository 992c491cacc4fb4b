package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/glowdesk/glowdesk/pkg/logger"
)

// Service reconciles local and social identities against stored users. It
// owns the account-linking policy: an email collision between a local account
// and a social login never merges silently.
type Service struct {
	storage UserStorage
	log     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for reconciliation events.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates an identity service backed by the given storage.
func NewService(storage UserStorage, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a local password account. The email must not be in use by
// any account, local or social.
func (s *Service) Register(ctx context.Context, email, password, name string) (*User, error) {
	if _, err := s.storage.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := NewLocalUser(email, name, string(hash))
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "registered local user", logger.UserID(user.ID))
	return user, nil
}

// Login verifies a local password credential. Unknown emails and wrong
// passwords produce the same error so responses never reveal whether an
// account exists. Accounts created through a social provider have no password
// and are rejected with ErrSocialAccount.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsLocalAccount() || user.PasswordHash == "" {
		return nil, ErrSocialAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindOrCreateSocialUser reconciles a normalized provider profile with the
// stored account sharing its email:
//
//   - no account: a new social user is created.
//   - same provider: the stored providerId and avatar follow the provider
//     (ids can change after provider-side migrations); any pending link
//     requirement is cleared.
//   - local account, or a different social provider: the account is marked
//     LINK_REQUIRED and the login fails with AccountLinkRequiredError so the
//     user can confirm the link explicitly.
func (s *Service) FindOrCreateSocialUser(ctx context.Context, profile Profile) (*User, error) {
	user, err := s.storage.GetUserByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}

		user = NewSocialUser(profile)
		if err := s.storage.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "created social user",
			logger.UserID(user.ID),
			logger.Provider(string(profile.SocialType)))
		return user, nil
	}

	if user.HasSameProvider(profile.SocialType) {
		if user.ShouldUpdateProvider(profile.ProviderID) ||
			(profile.AvatarURL != "" && user.AvatarURL != profile.AvatarURL) ||
			user.AccountLinkStatus != LinkStatusNone {
			user.UpdateSocialAccount(profile.SocialType, profile.ProviderID, profile.AvatarURL)
			if err := s.storage.UpdateUser(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	if user.AccountLinkStatus != LinkStatusRequired ||
		user.LinkCandidateProvider != profile.SocialType ||
		user.LinkCandidateProviderID != profile.ProviderID {
		user.MarkLinkRequired(profile.SocialType, profile.ProviderID)
		if err := s.storage.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
	}

	s.log.InfoContext(ctx, "account link required",
		logger.UserID(user.ID),
		slog.String("candidate_provider", string(profile.SocialType)))
	return nil, &AccountLinkRequiredError{
		Email:             user.Email,
		CandidateProvider: profile.SocialType,
	}
}

// GetUser loads a user by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.storage.GetUserByID(ctx, id)
}
