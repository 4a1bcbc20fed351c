package secblog

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vladsec/secblog/views"
)

// Config holds all configuration for a secblog site, parsed from the
// environment via caarlos0/env.
type Config struct {
	SiteName        string `env:"SITE_NAME" envDefault:"Blog"`
	SiteURL         string `env:"SITE_URL" envDefault:"http://localhost:3000"`
	SiteDescription string `env:"SITE_DESCRIPTION"`
	SiteAuthor      string `env:"SITE_AUTHOR"`

	Addr         string `env:"ADDR" envDefault:":3000"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/blog.db"`

	AdminEmail    string `env:"ADMIN_EMAIL"`    // Required: admin account email
	AdminPassword string `env:"ADMIN_PASSWORD"` // Required: admin account password
	SessionSecret string `env:"SESSION_SECRET"` // Required: session encryption secret
	CookieSecure  bool   `env:"COOKIE_SECURE"`

	ResendAPIKey     string `env:"RESEND_API_KEY"`    // Contact relay; relay disabled if empty
	ContactRecipient string `env:"CONTACT_RECIPIENT"` // Destination address for contact mail

	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

// ConfigFromEnv parses a Config from environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Site returns the public-facing subset of the configuration that
// templates render.
func (c Config) Site() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.SiteName,
		URL:         c.SiteURL,
		Description: c.SiteDescription,
		Author:      c.SiteAuthor,
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
