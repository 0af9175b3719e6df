package folio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/eringen/folio/verse"
)

// Backend kinds selectable with FOLIO_BACKEND.
const (
	BackendLocal    = "local"
	BackendSupabase = "supabase"
)

// MinSessionSecretLength is the shortest accepted session secret.
const MinSessionSecretLength = 32

// SiteConfig holds all configuration for a folio site. Load fills it from
// FOLIO_* environment variables.
type SiteConfig struct {
	Name        string `env:"FOLIO_SITE_NAME" envDefault:"Portfolio"`
	URL         string `env:"FOLIO_SITE_URL" envDefault:"http://localhost:3000"`
	Description string `env:"FOLIO_SITE_DESCRIPTION"`
	Author      string `env:"FOLIO_SITE_AUTHOR" envDefault:"Ruel"`

	Addr     string `env:"FOLIO_ADDR" envDefault:":3000"`
	LogLevel string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`

	AdminPassword string `env:"FOLIO_ADMIN_PASSWORD"`
	SessionSecret string `env:"FOLIO_SESSION_SECRET"`
	CookieSecure  bool   `env:"FOLIO_COOKIE_SECURE" envDefault:"false"`

	Backend string `env:"FOLIO_BACKEND" envDefault:"local"`

	// Local backend
	DatabasePath string `env:"FOLIO_DB_PATH" envDefault:"data/folio.db"`
	UploadsDir   string `env:"FOLIO_UPLOADS_DIR" envDefault:"data/uploads"`
	Seed         bool   `env:"FOLIO_SEED" envDefault:"true"`

	// Supabase backend
	SupabaseURL    string `env:"FOLIO_SUPABASE_URL"`
	SupabaseKey    string `env:"FOLIO_SUPABASE_KEY"`
	SupabaseTable  string `env:"FOLIO_SUPABASE_TABLE" envDefault:"hero_content"`
	SupabaseBucket string `env:"FOLIO_SUPABASE_BUCKET" envDefault:"portfolio-images"`

	VerseURL string `env:"FOLIO_VERSE_URL" envDefault:"https://labs.bible.org/api/?passage=random&type=text"`
	HTMXURL  string `env:"FOLIO_HTMX_URL" envDefault:"https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"`

	ContentCacheTTL time.Duration `env:"FOLIO_CACHE_TTL" envDefault:"1m"`
	RedisURL        string        `env:"FOLIO_REDIS_URL"`
	RedisPrefix     string        `env:"FOLIO_REDIS_PREFIX" envDefault:"folio:"`

	// Card images wider than this are scaled down before upload; 0 uploads as-is.
	MaxImageWidth int `env:"FOLIO_MAX_IMAGE_WIDTH" envDefault:"1200"`
	// Editor drafts idle longer than this are dropped.
	DraftIdle time.Duration `env:"FOLIO_DRAFT_IDLE" envDefault:"12h"`
}

// LoadConfig parses the environment into a SiteConfig and validates it.
func LoadConfig() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// setDefaults fills zero values for configs built in code rather than by LoadConfig.
func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Backend == "" {
		c.Backend = BackendLocal
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "data/uploads"
	}
	if c.HTMXURL == "" {
		c.HTMXURL = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = time.Minute
	}
	if c.DraftIdle == 0 {
		c.DraftIdle = 12 * time.Hour
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
}

// Validate reports the first missing or inconsistent setting.
func (c SiteConfig) Validate() error {
	if c.AdminPassword == "" {
		return errors.New("folio: FOLIO_ADMIN_PASSWORD is required")
	}
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("folio: FOLIO_SESSION_SECRET must be at least %d bytes long, got %d",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	switch c.Backend {
	case BackendLocal:
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return errors.New("folio: FOLIO_SUPABASE_URL and FOLIO_SUPABASE_KEY are required for the supabase backend")
		}
	default:
		return fmt.Errorf("folio: unknown backend %q (want %s or %s)", c.Backend, BackendLocal, BackendSupabase)
	}
	return nil
}

// UseRedisCache reports whether the content cache should live in Redis.
func (c SiteConfig) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Option configures additional App behavior.
type Option func(*App)

// WithVerseSource replaces the verse source built from VerseURL.
func WithVerseSource(src verse.Source) Option {
	return func(a *App) {
		a.verse = src
	}
}
