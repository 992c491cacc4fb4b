package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/glowdesk/internal/auth"
	"github.com/glowdesk/glowdesk/pkg/cookie"
)

// stubAdapter fakes a provider for callback tests.
type stubAdapter struct {
	name  string
	attrs map[string]any
	err   error
}

func (a *stubAdapter) Name() string { return a.name }
func (a *stubAdapter) AuthCodeURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}
func (a *stubAdapter) FetchAttributes(_ context.Context, _ string) (map[string]any, error) {
	return a.attrs, a.err
}

type authTestEnv struct {
	handler http.Handler
	service *auth.Service
	tokens  *auth.TokenService
	storage *memoryUserStorage
}

func newAuthTestEnv(t *testing.T, adapters ...auth.ProviderAdapter) *authTestEnv {
	t.Helper()

	storage := newMemoryUserStorage()
	service := auth.NewService(storage)
	tokens := newTestTokenService(t, newMemoryRefreshTokenStore())
	cookies := cookie.New(cookie.WithSecure(true))
	transport := auth.NewCookieTransport(cookies, "gd_access_token", "gd_refresh_token", 1800, 1209600)

	h := auth.NewHandler(
		service, tokens, transport,
		auth.NewProviderRegistryFromAdapters(adapters...),
		cookies, "https://app.example.com", nil,
	)

	r := chi.NewRouter()
	r.Use(auth.Authenticate(tokens, transport))
	r.Mount("/api/v1/auth", h.Routes())

	return &authTestEnv{handler: r, service: service, tokens: tokens, storage: storage}
}

func (env *authTestEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

type sessionBody struct {
	Data struct {
		User struct {
			Email    string `json:"email"`
			Provider string `json:"provider"`
		} `json:"user"`
		Tokens struct {
			TokenType             string `json:"token_type"`
			AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
			RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
		} `json:"tokens"`
	} `json:"data"`
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) sessionBody {
	t.Helper()
	var body sessionBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func cookieValue(t *testing.T, w *httptest.ResponseRecorder, name string) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates user and starts session", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		w := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/register",
			`{"email":"jane@example.com","password":"s3cret-pass","name":"Jane"}`))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotEmpty(t, cookieValue(t, w, "gd_access_token"))
		assert.NotEmpty(t, cookieValue(t, w, "gd_refresh_token"))

		body := decodeSession(t, w)
		assert.Equal(t, "jane@example.com", body.Data.User.Email)
		assert.Equal(t, "LOCAL", body.Data.User.Provider)
	})

	t.Run("response carries token lifetimes", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		w := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/register",
			`{"email":"jane@example.com","password":"s3cret-pass","name":"Jane"}`))
		require.Equal(t, http.StatusCreated, w.Code)

		// The cookies are HttpOnly, so expiry has to be readable from the body.
		body := decodeSession(t, w)
		assert.Equal(t, "Bearer", body.Data.Tokens.TokenType)
		assert.Equal(t, int64(1800), body.Data.Tokens.AccessTokenExpiresIn)
		assert.Equal(t, int64(1209600), body.Data.Tokens.RefreshTokenExpiresIn)
	})

	t.Run("validates input", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		w := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/register",
			`{"email":"not-an-email","password":"short","name":""}`))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "validation_error")
	})

	t.Run("conflict on duplicate email", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		first := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/register",
			`{"email":"jane@example.com","password":"s3cret-pass","name":"Jane"}`))
		require.Equal(t, http.StatusCreated, first.Code)

		second := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/register",
			`{"email":"jane@example.com","password":"s3cret-pass","name":"Jane"}`))
		require.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), "email_taken")
	})
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()

	register := func(t *testing.T, env *authTestEnv) {
		t.Helper()
		w := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/register",
			`{"email":"jane@example.com","password":"s3cret-pass","name":"Jane"}`))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("valid credentials set cookies", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		register(t, env)

		w := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/login",
			`{"email":"jane@example.com","password":"s3cret-pass"}`))
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, cookieValue(t, w, "gd_access_token"))

		body := decodeSession(t, w)
		assert.Equal(t, "Bearer", body.Data.Tokens.TokenType)
		assert.Equal(t, int64(1800), body.Data.Tokens.AccessTokenExpiresIn)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		register(t, env)

		wrongPass := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/login",
			`{"email":"jane@example.com","password":"wrong"}`))
		unknown := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/login",
			`{"email":"nobody@example.com","password":"wrong"}`))

		require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
	})
}

func TestHandler_Me(t *testing.T) {
	t.Parallel()

	t.Run("returns principal for valid session", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		reg := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/register",
			`{"email":"jane@example.com","password":"s3cret-pass","name":"Jane"}`))
		access := cookieValue(t, reg, "gd_access_token")

		r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		r.Header.Set("Authorization", "Bearer "+access)
		w := env.do(r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "jane@example.com")
	})

	t.Run("rejects missing session", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("rotates token pair", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		reg := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/register",
			`{"email":"jane@example.com","password":"s3cret-pass","name":"Jane"}`))
		refresh := cookieValue(t, reg, "gd_refresh_token")

		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		r.AddCookie(&http.Cookie{Name: "gd_refresh_token", Value: refresh})
		w := env.do(r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, cookieValue(t, w, "gd_access_token"))
		assert.NotEmpty(t, cookieValue(t, w, "gd_refresh_token"))

		body := decodeSession(t, w)
		assert.Equal(t, "Bearer", body.Data.Tokens.TokenType)
		assert.Equal(t, int64(1209600), body.Data.Tokens.RefreshTokenExpiresIn)
	})

	t.Run("rejects missing refresh cookie", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		w := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects forged refresh token and clears cookies", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		r.AddCookie(&http.Cookie{Name: "gd_refresh_token", Value: "forged.token.value"})
		w := env.do(r)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		for _, c := range w.Result().Cookies() {
			assert.Empty(t, c.Value)
			assert.Negative(t, c.MaxAge)
		}
	})
}

func TestHandler_Logout(t *testing.T) {
	t.Parallel()

	t.Run("revokes session and clears cookies", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		reg := env.do(jsonRequest(http.MethodPost, "/api/v1/auth/register",
			`{"email":"jane@example.com","password":"s3cret-pass","name":"Jane"}`))
		access := cookieValue(t, reg, "gd_access_token")
		refresh := cookieValue(t, reg, "gd_refresh_token")

		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		r.Header.Set("Authorization", "Bearer "+access)
		w := env.do(r)
		require.Equal(t, http.StatusNoContent, w.Code)

		// The old refresh token no longer works.
		retry := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		retry.AddCookie(&http.Cookie{Name: "gd_refresh_token", Value: refresh})
		require.Equal(t, http.StatusUnauthorized, env.do(retry).Code)
	})

	t.Run("succeeds without any token", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		w := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Len(t, w.Result().Cookies(), 2)
	})
}

func TestHandler_OAuth(t *testing.T) {
	t.Parallel()

	kakaoAttrs := map[string]any{
		"id": json.Number("112233"),
		"kakao_account": map[string]any{
			"email":   "kim@example.com",
			"profile": map[string]any{"nickname": "kim"},
		},
	}

	t.Run("start redirects to provider with state cookie", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t, &stubAdapter{name: "kakao", attrs: kakaoAttrs})
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/kakao", nil))

		require.Equal(t, http.StatusFound, w.Code)
		state := cookieValue(t, w, "gd_oauth_state")
		require.NotEmpty(t, state)
		assert.Contains(t, w.Header().Get("Location"), "state="+state)
	})

	t.Run("start rejects unknown provider", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t)
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/github", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("callback creates user and redirects to frontend", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t, &stubAdapter{name: "kakao", attrs: kakaoAttrs})
		r := httptest.NewRequest(http.MethodGet,
			"/api/v1/auth/oauth/kakao/callback?code=ok&state=st-1", nil)
		r.AddCookie(&http.Cookie{Name: "gd_oauth_state", Value: "st-1"})
		w := env.do(r)

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://app.example.com/auth/callback", w.Header().Get("Location"))
		assert.NotEmpty(t, cookieValue(t, w, "gd_access_token"))

		user, err := env.storage.GetUserByEmail(context.Background(), "kim@example.com")
		require.NoError(t, err)
		assert.Equal(t, "112233", user.ProviderID)
		assert.Equal(t, auth.SocialTypeKakao, user.SocialType)
	})

	t.Run("callback rejects mismatched state", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t, &stubAdapter{name: "kakao", attrs: kakaoAttrs})
		r := httptest.NewRequest(http.MethodGet,
			"/api/v1/auth/oauth/kakao/callback?code=ok&state=evil", nil)
		r.AddCookie(&http.Cookie{Name: "gd_oauth_state", Value: "st-1"})
		w := env.do(r)

		require.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "error=invalid_state")
		assert.Empty(t, cookieValue(t, w, "gd_access_token"))
	})

	t.Run("callback reports link conflict to frontend", func(t *testing.T) {
		t.Parallel()

		env := newAuthTestEnv(t, &stubAdapter{name: "kakao", attrs: kakaoAttrs})
		_, err := env.service.Register(context.Background(), "kim@example.com", "s3cret-pass", "Kim")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet,
			"/api/v1/auth/oauth/kakao/callback?code=ok&state=st-1", nil)
		r.AddCookie(&http.Cookie{Name: "gd_oauth_state", Value: "st-1"})
		w := env.do(r)

		require.Equal(t, http.StatusFound, w.Code)
		location := w.Header().Get("Location")
		assert.Contains(t, location, "error=account_link_required")
		assert.Contains(t, location, "provider=KAKAO")
	})
}
