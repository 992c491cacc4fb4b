package auth

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/glowdesk/glowdesk/pkg/response"
)

// principalFromClaims rebuilds a Principal from validated access claims.
func principalFromClaims(claims AccessClaims) (Principal, bool) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, false
	}
	return Principal{
		ID:         id,
		Email:      claims.Email,
		Name:       claims.Name,
		AvatarURL:  claims.AvatarURL,
		SocialType: ParseSocialType(claims.Provider),
	}, true
}

// Authenticate resolves and validates the access token and, when valid,
// attaches the principal to the request context. A principal already present
// on the context is kept as is, so stacking the middleware twice does no
// extra work. Requests without a valid token pass through unauthenticated;
// rejection is left to RequireAuth so public and protected routes can share
// the chain.
func Authenticate(tokens *TokenService, transport *CookieTransport) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			token := transport.Resolve(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.ParseAccess(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			principal, ok := principalFromClaims(claims)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAuth rejects requests that carry no authenticated principal with a
// 401. Missing, expired, and malformed tokens all produce the same response.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			response.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
