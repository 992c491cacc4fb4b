package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glowdesk/glowdesk/pkg/binder"
	"github.com/glowdesk/glowdesk/pkg/cookie"
	"github.com/glowdesk/glowdesk/pkg/logger"
	"github.com/glowdesk/glowdesk/pkg/response"
	"github.com/glowdesk/glowdesk/pkg/validator"
)

// stateCookieName holds the OAuth2 CSRF state between the consent redirect
// and the provider callback.
const stateCookieName = "gd_oauth_state"

// stateCookieMaxAge bounds how long a pending OAuth2 flow stays valid.
const stateCookieMaxAge = 10 * time.Minute

// Handler exposes the auth HTTP surface: local register/login, the OAuth2
// provider flow, session introspection, refresh, and logout.
type Handler struct {
	service     *Service
	tokens      *TokenService
	transport   *CookieTransport
	providers   *ProviderRegistry
	cookies     *cookie.Manager
	frontendURL string
	log         *slog.Logger
}

// NewHandler wires the auth HTTP handler.
func NewHandler(
	service *Service,
	tokens *TokenService,
	transport *CookieTransport,
	providers *ProviderRegistry,
	cookies *cookie.Manager,
	frontendURL string,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		service:     service,
		tokens:      tokens,
		transport:   transport,
		providers:   providers,
		cookies:     cookies,
		frontendURL: frontendURL,
		log:         log,
	}
}

// Routes mounts the auth endpoints on a fresh router. The caller is expected
// to have the Authenticate middleware installed further up the chain.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Post("/refresh", h.handleRefresh)
	r.With(RequireAuth).Get("/me", h.handleMe)
	r.Get("/oauth/{provider}", h.handleOAuthStart)
	r.Get("/oauth/{provider}/callback", h.handleOAuthCallback)
	return r
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r registerRequest) Validate() error {
	return validator.Apply(
		validator.Required("email", r.Email),
		validator.ValidEmail("email", r.Email),
		validator.Required("password", r.Password),
		validator.MinLen("password", r.Password, 8),
		// bcrypt ignores input beyond 72 bytes
		validator.MaxLen("password", r.Password, 72),
		validator.Required("name", r.Name),
		validator.MaxLen("name", r.Name, 100),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Provider  string `json:"provider"`
}

func userResponseFrom(u *User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Provider:  string(u.SocialType),
	}
}

// tokenMetadata tells the client when its session expires. The tokens
// themselves travel in HttpOnly cookies the frontend cannot read, so the
// lifetimes have to be spelled out in the body.
type tokenMetadata struct {
	TokenType             string `json:"token_type"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type sessionResponse struct {
	User   userResponse  `json:"user"`
	Tokens tokenMetadata `json:"tokens"`
}

func (h *Handler) sessionResponseFrom(u *User) sessionResponse {
	return sessionResponse{
		User: userResponseFrom(u),
		Tokens: tokenMetadata{
			TokenType:             "Bearer",
			AccessTokenExpiresIn:  int64(h.tokens.AccessTTL().Seconds()),
			RefreshTokenExpiresIn: int64(h.tokens.RefreshTTL().Seconds()),
		},
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := binder.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(w, validator.ExtractValidationErrors(err).ByField())
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		return
	}
	response.JSON(w, http.StatusCreated, h.sessionResponseFrom(user))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := binder.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		return
	}
	response.JSON(w, http.StatusOK, h.sessionResponseFrom(user))
}

// handleLogout revokes the session and clears both token cookies. It
// succeeds even when the access token is missing or expired, so a client can
// always reach a clean logged-out state.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID := uuid.Nil
	if principal, ok := PrincipalFromContext(r.Context()); ok {
		userID = principal.ID
	} else if token := h.transport.ResolveRefresh(r); token != "" {
		if id, err := h.tokens.ValidateRefresh(r.Context(), token); err == nil {
			userID = id
		}
	}

	if err := h.tokens.Revoke(r.Context(), userID); err != nil {
		h.log.ErrorContext(r.Context(), "failed to revoke session", logger.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal_error", "logout failed")
		return
	}

	h.transport.Clear(w)
	response.NoContent(w)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	response.JSON(w, http.StatusOK, userResponse{
		ID:        principal.ID.String(),
		Email:     principal.Email,
		Name:      principal.Name,
		AvatarURL: principal.AvatarURL,
		Provider:  string(principal.SocialType),
	})
}

// handleRefresh rotates the token pair. The refresh token is read from its
// cookie only; an invalid or superseded token clears both cookies so the
// client does not retry a dead session.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := h.transport.ResolveRefresh(r)
	if token == "" {
		response.Error(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh token is invalid")
		return
	}

	userID, err := h.tokens.ValidateRefresh(r.Context(), token)
	if err != nil {
		h.transport.Clear(w)
		response.Error(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh token is invalid")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.transport.Clear(w)
		response.Error(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh token is invalid")
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		return
	}
	response.JSON(w, http.StatusOK, h.sessionResponseFrom(user))
}

func (h *Handler) handleOAuthStart(w http.ResponseWriter, r *http.Request) {
	adapter, err := h.providers.Get(chi.URLParam(r, "provider"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "unsupported_provider", err.Error())
		return
	}

	state := uuid.NewString()
	h.cookies.Set(w, stateCookieName, state, cookie.WithMaxAge(int(stateCookieMaxAge.Seconds())))
	http.Redirect(w, r, adapter.AuthCodeURL(state), http.StatusFound)
}

// handleOAuthCallback completes the provider flow. Both outcomes redirect to
// the frontend; only the query parameters differ, since the browser arrives
// here via a top-level navigation rather than an API call.
func (h *Handler) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	providerName := chi.URLParam(r, "provider")

	adapter, err := h.providers.Get(providerName)
	if err != nil {
		h.redirectWithError(w, r, "unsupported_provider", "")
		return
	}

	state, err := h.cookies.Get(r, stateCookieName)
	h.cookies.Delete(w, stateCookieName)
	if err != nil || state == "" || state != r.URL.Query().Get("state") {
		h.redirectWithError(w, r, "invalid_state", "")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectWithError(w, r, "invalid_code", "")
		return
	}

	attrs, err := adapter.FetchAttributes(r.Context(), code)
	if err != nil {
		h.log.ErrorContext(r.Context(), "oauth code exchange failed",
			logger.Provider(providerName), logger.Error(err))
		h.redirectWithError(w, r, "invalid_code", "")
		return
	}

	profile, err := ProfileFromAttributes(providerName, attrs)
	if err != nil {
		h.redirectWithError(w, r, "incomplete_profile", "")
		return
	}

	user, err := h.service.FindOrCreateSocialUser(r.Context(), profile)
	if err != nil {
		var linkErr *AccountLinkRequiredError
		if errors.As(err, &linkErr) {
			h.redirectWithError(w, r, "account_link_required", string(linkErr.CandidateProvider))
			return
		}
		h.log.ErrorContext(r.Context(), "social login failed",
			logger.Provider(providerName), logger.Error(err))
		h.redirectWithError(w, r, "internal_error", "")
		return
	}

	pair, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to issue tokens", logger.Error(err))
		h.redirectWithError(w, r, "internal_error", "")
		return
	}

	h.transport.Write(w, pair)
	http.Redirect(w, r, h.frontendURL+"/auth/callback", http.StatusFound)
}

// startSession issues a token pair and writes the cookies. On failure it
// responds itself and returns the error so the caller stops.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *User) error {
	pair, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to issue tokens", logger.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal_error", "failed to start session")
		return err
	}
	h.transport.Write(w, pair)
	return nil
}

func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, code, provider string) {
	q := url.Values{"error": {code}}
	if provider != "" {
		q.Set("provider", provider)
	}
	http.Redirect(w, r, h.frontendURL+"/auth/callback?"+q.Encode(), http.StatusFound)
}

// writeAuthError maps identity errors to HTTP responses. Credential failures
// share one response so callers cannot probe which emails are registered.
func (h *Handler) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, ErrSocialAccount):
		response.Error(w, http.StatusBadRequest, "social_account", "this account uses social login")
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(w, http.StatusConflict, "email_taken", "email is already registered")
	default:
		h.log.ErrorContext(r.Context(), "auth request failed", logger.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
