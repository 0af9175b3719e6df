package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/verse"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe()
	case "seed":
		err = runSeed()
	case "verse":
		err = runVerse()
	case "version":
		fmt.Printf("folio %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		slog.Error("folio failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`folio - a portfolio landing page with an in-place editor

Usage:
  folio [command]

Commands:
  serve      Start the web server (default)
  seed       Insert the default hero content if none exists (local backend)
  verse      Fetch and print one verse from the configured source
  version    Print the folio version
  help       Show this help message

Configuration is read from FOLIO_* environment variables and an optional .env file.`)
}

// loadConfig reads .env, parses the environment and installs the default logger.
func loadConfig() (folio.SiteConfig, error) {
	_ = godotenv.Load()

	cfg, err := folio.LoadConfig()
	if err != nil {
		return folio.SiteConfig{}, fmt.Errorf("loading config: %w", err)
	}
	setupLogger(cfg.LogLevel)
	return cfg, nil
}

func setupLogger(level string) {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := folio.OpenBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			slog.Error("error closing backend", "error", err)
		}
	}()

	app := folio.New(cfg, client, folio.DefaultViews())
	defer app.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func runSeed() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Backend != folio.BackendLocal {
		return errors.New("seed only applies to the local backend")
	}
	cfg.Seed = true
	client, err := folio.OpenBackend(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	rec, err := client.Content.GetContent(context.Background(), content.RecordID)
	if err != nil {
		return err
	}
	fmt.Printf("hero content: %q, %d cards\n", rec.Headline, len(rec.Cards))
	return nil
}

func runVerse() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	text, err := verse.NewClient(cfg.VerseURL, nil).Fetch(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
