package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/glowdesk/internal/auth"
	"github.com/glowdesk/glowdesk/pkg/jwt"
)

func newTestTokenService(t *testing.T, store auth.RefreshTokenStore) *auth.TokenService {
	t.Helper()
	codec, err := jwt.NewFromString("test-signing-key-of-adequate-length")
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(codec, store, 30*time.Minute, 14*24*time.Hour)
	require.NoError(t, err)
	return tokens
}

func testUser() *auth.User {
	return &auth.User{
		ID:         uuid.New(),
		Email:      "jane@example.com",
		Name:       "Jane",
		AvatarURL:  "https://g.example.com/jane.png",
		SocialType: auth.SocialTypeGoogle,
	}
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	codec, err := jwt.NewFromString("test-signing-key-of-adequate-length")
	require.NoError(t, err)

	_, err = auth.NewTokenService(codec, newMemoryRefreshTokenStore(), 0, time.Hour)
	require.ErrorIs(t, err, auth.ErrNonPositiveTTL)

	_, err = auth.NewTokenService(codec, newMemoryRefreshTokenStore(), time.Minute, -time.Hour)
	require.ErrorIs(t, err, auth.ErrNonPositiveTTL)
}

func TestTokenService_Issue(t *testing.T) {
	t.Parallel()

	t.Run("access token carries profile claims", func(t *testing.T) {
		t.Parallel()

		tokens := newTestTokenService(t, newMemoryRefreshTokenStore())
		user := testUser()

		pair, err := tokens.Issue(context.Background(), user)
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		claims, err := tokens.ParseAccess(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.Subject)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, user.Name, claims.Name)
		assert.Equal(t, user.AvatarURL, claims.AvatarURL)
		assert.Equal(t, "GOOGLE", claims.Provider)
	})

	t.Run("empty social type defaults to unknown provider claim", func(t *testing.T) {
		t.Parallel()

		tokens := newTestTokenService(t, newMemoryRefreshTokenStore())
		user := testUser()
		user.SocialType = ""

		pair, err := tokens.Issue(context.Background(), user)
		require.NoError(t, err)

		claims, err := tokens.ParseAccess(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "UNKNOWN", claims.Provider)
	})

	t.Run("refresh token carries subject only", func(t *testing.T) {
		t.Parallel()

		tokens := newTestTokenService(t, newMemoryRefreshTokenStore())
		pair, err := tokens.Issue(context.Background(), testUser())
		require.NoError(t, err)

		claims, err := tokens.ParseAccess(pair.RefreshToken)
		require.NoError(t, err)
		assert.Empty(t, claims.Email)
		assert.Empty(t, claims.Provider)
	})

	t.Run("back-to-back logins mint distinct refresh tokens", func(t *testing.T) {
		t.Parallel()

		tokens := newTestTokenService(t, newMemoryRefreshTokenStore())
		user := testUser()

		// No delay between the two: identical sub/iat/exp must not
		// collapse into identical tokens.
		first, err := tokens.Issue(context.Background(), user)
		require.NoError(t, err)
		second, err := tokens.Issue(context.Background(), user)
		require.NoError(t, err)

		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	})
}

func TestTokenService_ValidateRefresh(t *testing.T) {
	t.Parallel()

	t.Run("valid token resolves subject", func(t *testing.T) {
		t.Parallel()

		tokens := newTestTokenService(t, newMemoryRefreshTokenStore())
		user := testUser()
		pair, err := tokens.Issue(context.Background(), user)
		require.NoError(t, err)

		userID, err := tokens.ValidateRefresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("new login invalidates previous refresh token", func(t *testing.T) {
		t.Parallel()

		tokens := newTestTokenService(t, newMemoryRefreshTokenStore())
		user := testUser()

		first, err := tokens.Issue(context.Background(), user)
		require.NoError(t, err)
		second, err := tokens.Issue(context.Background(), user)
		require.NoError(t, err)
		require.NotEqual(t, first.RefreshToken, second.RefreshToken)

		_, err = tokens.ValidateRefresh(context.Background(), first.RefreshToken)
		require.ErrorIs(t, err, auth.ErrInvalidRefreshToken)

		userID, err := tokens.ValidateRefresh(context.Background(), second.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		t.Parallel()

		tokens := newTestTokenService(t, newMemoryRefreshTokenStore())
		user := testUser()
		pair, err := tokens.Issue(context.Background(), user)
		require.NoError(t, err)

		require.NoError(t, tokens.Revoke(context.Background(), user.ID))
		_, err = tokens.ValidateRefresh(context.Background(), pair.RefreshToken)
		require.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		t.Parallel()

		tokens := newTestTokenService(t, newMemoryRefreshTokenStore())
		_, err := tokens.ValidateRefresh(context.Background(), "not.a.token")
		require.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})
}

func TestTokenService_Revoke(t *testing.T) {
	t.Parallel()

	tokens := newTestTokenService(t, newMemoryRefreshTokenStore())
	require.NoError(t, tokens.Revoke(context.Background(), uuid.Nil))
	require.NoError(t, tokens.Revoke(context.Background(), uuid.New()))
}
