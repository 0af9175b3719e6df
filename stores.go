package folio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eringen/folio/backend"
	"github.com/eringen/folio/content"
)

// OpenBackend builds the backend client selected by cfg.Backend.
func OpenBackend(ctx context.Context, cfg SiteConfig) (*backend.Client, error) {
	cfg.setDefaults()
	switch cfg.Backend {
	case BackendSupabase:
		sc, err := backend.NewSupabaseClient(backend.SupabaseOptions{
			URL:    cfg.SupabaseURL,
			APIKey: cfg.SupabaseKey,
			Table:  cfg.SupabaseTable,
			Bucket: cfg.SupabaseBucket,
		})
		if err != nil {
			return nil, fmt.Errorf("folio: init supabase: %w", err)
		}
		slog.Info("backend initialized", "backend", BackendSupabase, "url", cfg.SupabaseURL)
		return backend.NewClient(sc, sc), nil

	case BackendLocal:
		store, err := backend.NewSQLiteStore(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("folio: init store: %w", err)
		}
		if cfg.Seed {
			seeded, err := store.Seed(ctx, content.RecordID, content.Default())
			if err != nil {
				store.Close()
				return nil, fmt.Errorf("folio: seed content: %w", err)
			}
			if seeded {
				slog.Info("seeded default hero content", "id", content.RecordID)
			}
		}
		disk, err := backend.NewDiskStorage(cfg.UploadsDir, "/uploads")
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("folio: init uploads: %w", err)
		}
		slog.Info("backend initialized", "backend", BackendLocal, "db", cfg.DatabasePath, "uploads", cfg.UploadsDir)
		return backend.NewClient(store, disk), nil

	default:
		return nil, fmt.Errorf("folio: unknown backend %q", cfg.Backend)
	}
}
