package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// ProviderAdapter drives one OAuth2 provider: building the consent URL and
// exchanging an authorization code for the raw user attribute map. The map is
// provider-shaped; ProfileFromAttributes normalizes it.
type ProviderAdapter interface {
	Name() string
	AuthCodeURL(state string) string
	FetchAttributes(ctx context.Context, code string) (map[string]any, error)
}

// oauthAdapter implements ProviderAdapter for any provider exposing a JSON
// user info endpoint behind a bearer token.
type oauthAdapter struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
}

func (a *oauthAdapter) Name() string { return a.name }

func (a *oauthAdapter) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state)
}

func (a *oauthAdapter) FetchAttributes(ctx context.Context, code string) (map[string]any, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s code exchange failed", ErrInvalidCode, a.name)
	}

	resp, err := a.config.Client(ctx, token).Get(a.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s user info: %w", a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s user info: status %d", a.name, resp.StatusCode)
	}

	// Decode numbers as json.Number so numeric ids like kakao's survive
	// stringification without float rounding.
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var attrs map[string]any
	if err := decoder.Decode(&attrs); err != nil {
		return nil, fmt.Errorf("failed to decode %s user info: %w", a.name, err)
	}
	return attrs, nil
}

// ProviderRegistry maps registration ids to their configured adapters.
type ProviderRegistry struct {
	adapters map[string]ProviderAdapter
}

// NewProviderRegistry builds adapters for every enabled provider in cfg.
func NewProviderRegistry(cfg Config) *ProviderRegistry {
	r := &ProviderRegistry{adapters: make(map[string]ProviderAdapter)}
	if cfg.Google.Enabled() {
		r.register(newGoogleAdapter(cfg.Google))
	}
	if cfg.Kakao.Enabled() {
		r.register(newKakaoAdapter(cfg.Kakao))
	}
	if cfg.Naver.Enabled() {
		r.register(newNaverAdapter(cfg.Naver))
	}
	return r
}

// NewProviderRegistryFromAdapters builds a registry from explicit adapters.
func NewProviderRegistryFromAdapters(adapters ...ProviderAdapter) *ProviderRegistry {
	r := &ProviderRegistry{adapters: make(map[string]ProviderAdapter)}
	for _, adapter := range adapters {
		r.register(adapter)
	}
	return r
}

func (r *ProviderRegistry) register(adapter ProviderAdapter) {
	r.adapters[adapter.Name()] = adapter
}

// Get returns the adapter for a registration id, or ErrUnsupportedProvider
// when the id is unknown or the provider is not configured.
func (r *ProviderRegistry) Get(registrationID string) (ProviderAdapter, error) {
	adapter, ok := r.adapters[registrationID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, registrationID)
	}
	return adapter, nil
}
