package folio

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("FOLIO_ADMIN_PASSWORD", "secret")
	t.Setenv("FOLIO_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q, want :3000", cfg.Addr)
	}
	if cfg.Backend != BackendLocal {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendLocal)
	}
	if cfg.DatabasePath != "data/folio.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.SupabaseTable != "hero_content" || cfg.SupabaseBucket != "portfolio-images" {
		t.Errorf("Supabase defaults = %q/%q", cfg.SupabaseTable, cfg.SupabaseBucket)
	}
	if cfg.ContentCacheTTL != time.Minute {
		t.Errorf("ContentCacheTTL = %v, want 1m", cfg.ContentCacheTTL)
	}
	if cfg.UseRedisCache() {
		t.Error("Redis cache should be off by default")
	}
	if !cfg.Seed {
		t.Error("local installs should seed the default record")
	}
	if !strings.Contains(cfg.VerseURL, "labs.bible.org") {
		t.Errorf("VerseURL = %q", cfg.VerseURL)
	}
}

func TestLoadConfigCustomValues(t *testing.T) {
	setRequired(t)
	t.Setenv("FOLIO_BACKEND", "Supabase")
	t.Setenv("FOLIO_SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("FOLIO_SUPABASE_KEY", "anon-key")
	t.Setenv("FOLIO_CACHE_TTL", "30s")
	t.Setenv("FOLIO_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FOLIO_COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Backend != BackendSupabase {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendSupabase)
	}
	if cfg.ContentCacheTTL != 30*time.Second {
		t.Errorf("ContentCacheTTL = %v, want 30s", cfg.ContentCacheTTL)
	}
	if !cfg.UseRedisCache() || !cfg.CookieSecure {
		t.Errorf("expected redis cache and secure cookies: %+v", cfg)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing password", map[string]string{"FOLIO_SESSION_SECRET": strings.Repeat("x", 32)}, "FOLIO_ADMIN_PASSWORD"},
		{"short secret", map[string]string{"FOLIO_ADMIN_PASSWORD": "p", "FOLIO_SESSION_SECRET": "short"}, "at least 32 bytes"},
		{"supabase without key", map[string]string{
			"FOLIO_ADMIN_PASSWORD": "p", "FOLIO_SESSION_SECRET": strings.Repeat("x", 32),
			"FOLIO_BACKEND": "supabase", "FOLIO_SUPABASE_URL": "https://abc.supabase.co",
		}, "FOLIO_SUPABASE_KEY"},
		{"unknown backend", map[string]string{
			"FOLIO_ADMIN_PASSWORD": "p", "FOLIO_SESSION_SECRET": strings.Repeat("x", 32),
			"FOLIO_BACKEND": "mysql",
		}, "unknown backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FOLIO_ADMIN_PASSWORD", "")
			t.Setenv("FOLIO_SESSION_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestContentSecurityPolicyAllowsHTMXOrigin(t *testing.T) {
	a := &App{Config: SiteConfig{HTMXURL: "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"}}
	csp := a.contentSecurityPolicy()
	if !strings.Contains(csp, "script-src 'self' https://unpkg.com;") {
		t.Errorf("unexpected CSP: %s", csp)
	}
}
