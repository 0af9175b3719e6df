// Package folio serves a one-page portfolio: a public hero section with a
// card grid and a daily verse, plus an in-place editor for the same content
// behind a session login. Content and images live in a pluggable backend
// (local SQLite and disk, or Supabase).
package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/backend"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/hero"
	"github.com/eringen/folio/verse"
	"github.com/eringen/folio/views"
)

// ViewFuncs holds the templ components the handlers render. DefaultViews
// returns the built-in set; callers may swap individual entries.
type ViewFuncs struct {
	Page        func(site views.SiteConfig, meta views.PageMeta, props views.HeroProps) templ.Component
	Verse       func(v verse.View) templ.Component
	EditorCard  func(i int, c content.Card, n *hero.Notice) templ.Component
	SaveResult  func(saving bool, n hero.Notice) templ.Component
	Notice      func(n hero.Notice) templ.Component
	AdminLogin  func(site views.SiteConfig, showError bool, csrfToken string) templ.Component
	NotFound    func(site views.SiteConfig) templ.Component
	ServerError func(site views.SiteConfig) templ.Component
}

// DefaultViews returns the components of the views package.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Page:        views.Page,
		Verse:       views.Verse,
		EditorCard:  views.EditorCard,
		SaveResult:  views.SaveResult,
		Notice:      views.Notice,
		AdminLogin:  views.AdminLogin,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// App is the central folio application. It wires together the backend
// client, the content cache, editor drafts, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Backend *backend.Client
	Views   ViewFuncs

	cache        *backend.CachedContent
	visitor      *hero.Section
	drafts       *hero.Drafts
	verse        verse.Source
	loginLimiter *LoginLimiter
	ready        bool
}

// New creates an App over an already constructed backend client.
func New(cfg SiteConfig, client *backend.Client, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:  cfg,
		Echo:    echo.New(),
		Backend: client,
		Views:   views,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup validates the configuration and builds the cache, drafts,
// middleware and routes. Start calls it; tests call it directly.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if a.Backend == nil || a.Backend.Content == nil || a.Backend.Storage == nil {
		return errors.New("folio: backend client is required")
	}

	if a.Config.UseRedisCache() {
		cache, err := backend.NewRedisCachedContent(a.Backend.Content, backend.RedisCacheOptions{
			URL:    a.Config.RedisURL,
			Prefix: a.Config.RedisPrefix,
			TTL:    a.Config.ContentCacheTTL,
		})
		if err != nil {
			return fmt.Errorf("folio: init redis cache: %w", err)
		}
		a.cache = cache
		slog.Info("content cache initialized", "backend", "redis", "ttl", a.Config.ContentCacheTTL)
	} else {
		a.cache = backend.NewCachedContent(a.Backend.Content, a.Config.ContentCacheTTL)
		slog.Info("content cache initialized", "backend", "memory", "ttl", a.Config.ContentCacheTTL)
	}

	a.visitor = hero.NewSection(&backend.Client{Content: a.cache, Storage: a.Backend.Storage})
	a.drafts = hero.NewDrafts(
		hero.NewSection(&backend.Client{Content: a.cache.Direct(), Storage: a.Backend.Storage}),
		a.Config.DraftIdle,
	)
	if a.verse == nil {
		a.verse = verse.NewClient(a.Config.VerseURL, nil)
	}
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	a.ready = true
	return nil
}

// Start sets the App up and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	slog.Info("starting server", "addr", a.Config.Addr, "backend", a.Config.Backend)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	static, _ := fs.Sub(StaticAssets, "static")
	e.StaticFS("/static", static)
	if ds, ok := a.Backend.Storage.(*backend.DiskStorage); ok {
		e.Static("/uploads", ds.Dir)
	}
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/healthz", handleHealth)

	// Public routes
	e.GET("/", a.handleHome)
	e.GET("/verse/", a.handleVerse)

	// Editor routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)

	g := e.Group("/admin/hero", a.requireEditor)
	g.POST("/field/", a.handleHeroField)
	g.POST("/cards/:index/", a.handleHeroCard)
	g.POST("/cards/:index/image/", a.handleHeroImage)
	g.POST("/save/", a.handleHeroSave)
	g.POST("/reload/", a.handleHeroReload)
}

// Close stops background work and releases the cache. The backend client
// is closed by its owner.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		HTMXURL:     a.Config.HTMXURL,
	}
}
