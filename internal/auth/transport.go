package auth

import (
	"net/http"
	"strings"

	"github.com/glowdesk/glowdesk/pkg/cookie"
)

// CookieTransport moves the token pair between HTTP exchanges and the
// browser. Tokens live in HttpOnly cookies so script cannot read them;
// API clients may instead present the access token as a bearer header,
// which takes precedence over the cookie.
type CookieTransport struct {
	cookies     *cookie.Manager
	accessName  string
	refreshName string
	accessAge   int
	refreshAge  int
}

// NewCookieTransport creates a transport writing the named cookies with the
// given max ages in seconds.
func NewCookieTransport(cookies *cookie.Manager, accessName, refreshName string, accessAge, refreshAge int) *CookieTransport {
	return &CookieTransport{
		cookies:     cookies,
		accessName:  accessName,
		refreshName: refreshName,
		accessAge:   accessAge,
		refreshAge:  refreshAge,
	}
}

// Resolve extracts the access token from the request. The Authorization
// header wins over the cookie; an empty string means no token was presented.
func (t *CookieTransport) Resolve(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			return token
		}
	}

	token, err := t.cookies.Get(r, t.accessName)
	if err != nil {
		return ""
	}
	return token
}

// ResolveRefresh extracts the refresh token from its cookie.
func (t *CookieTransport) ResolveRefresh(r *http.Request) string {
	token, err := t.cookies.Get(r, t.refreshName)
	if err != nil {
		return ""
	}
	return token
}

// Write sets both token cookies on the response.
func (t *CookieTransport) Write(w http.ResponseWriter, pair TokenPair) {
	t.cookies.Set(w, t.accessName, pair.AccessToken, cookie.WithMaxAge(t.accessAge))
	t.cookies.Set(w, t.refreshName, pair.RefreshToken, cookie.WithMaxAge(t.refreshAge))
}

// Clear expires both token cookies. The clearing cookies carry the same
// attributes as the ones Write sets, otherwise browsers keep the originals.
func (t *CookieTransport) Clear(w http.ResponseWriter) {
	t.cookies.Delete(w, t.accessName)
	t.cookies.Delete(w, t.refreshName)
}
