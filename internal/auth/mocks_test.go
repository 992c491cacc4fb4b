package auth_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/glowdesk/internal/auth"
)

// memoryUserStorage is an in-memory UserStorage for tests.
type memoryUserStorage struct {
	mu      sync.Mutex
	users   map[uuid.UUID]auth.User
	updates int
}

func newMemoryUserStorage() *memoryUserStorage {
	return &memoryUserStorage{users: make(map[uuid.UUID]auth.User)}
}

func (s *memoryUserStorage) CreateUser(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return auth.ErrEmailAlreadyExists
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *memoryUserStorage) GetUserByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return &user, nil
}

func (s *memoryUserStorage) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *memoryUserStorage) UpdateUser(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return auth.ErrUserNotFound
	}
	s.users[user.ID] = *user
	s.updates++
	return nil
}

func (s *memoryUserStorage) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// memoryRefreshTokenStore is an in-memory RefreshTokenStore for tests.
type memoryRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]string
}

func newMemoryRefreshTokenStore() *memoryRefreshTokenStore {
	return &memoryRefreshTokenStore{tokens: make(map[uuid.UUID]string)}
}

func (s *memoryRefreshTokenStore) Save(_ context.Context, userID uuid.UUID, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return auth.ErrNonPositiveTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID] = token
	return nil
}

func (s *memoryRefreshTokenStore) Get(_ context.Context, userID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[userID]
	if !ok {
		return "", auth.ErrRefreshTokenNotFound
	}
	return token, nil
}

func (s *memoryRefreshTokenStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, userID)
	return nil
}
