package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config holds the auth module configuration loaded from environment
// variables.
type Config struct {
	Secret          string        `env:"JWT_SECRET,required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"336h"`

	AccessCookieName  string `env:"ACCESS_COOKIE_NAME" envDefault:"gd_access_token"`
	RefreshCookieName string `env:"REFRESH_COOKIE_NAME" envDefault:"gd_refresh_token"`
	CookiePath        string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain      string `env:"COOKIE_DOMAIN"`
	CookieSecure      bool   `env:"COOKIE_SECURE" envDefault:"true"`
	CookieSameSite    string `env:"COOKIE_SAME_SITE" envDefault:"lax"`

	// FrontendBaseURL is where OAuth callbacks redirect after the token
	// exchange, success or failure.
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000"`

	Google OAuthProviderConfig `envPrefix:"GOOGLE_"`
	Kakao  OAuthProviderConfig `envPrefix:"KAKAO_"`
	Naver  OAuthProviderConfig `envPrefix:"NAVER_"`
}

// OAuthProviderConfig holds one provider's OAuth2 client registration. A
// provider with an empty ClientID is treated as disabled.
type OAuthProviderConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Enabled reports whether the provider registration is configured.
func (c OAuthProviderConfig) Enabled() bool { return c.ClientID != "" }

// Validate checks constraints the env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Secret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be positive"))
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be shorter than REFRESH_TOKEN_TTL"))
	}
	if _, err := c.SameSite(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SameSite maps the configured same-site mode to its http constant.
func (c *Config) SameSite() (http.SameSite, error) {
	switch c.CookieSameSite {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	default:
		return 0, fmt.Errorf("COOKIE_SAME_SITE must be lax or strict, got %q", c.CookieSameSite)
	}
}
