// Package hero implements the landing page hero section: loading the
// content record for visitors and the editor's draft with its field edits,
// card image uploads and whole-record saves.
package hero

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eringen/folio/backend"
	"github.com/eringen/folio/content"
)

// Section reads the hero content through an injected backend client.
type Section struct {
	Client *backend.Client
}

// NewSection returns a Section over client.
func NewSection(client *backend.Client) *Section {
	return &Section{Client: client}
}

// Loaded is the outcome of a content load.
type Loaded struct {
	Record content.Record
	// Available is false when the defaults stand in for content that
	// could not be read.
	Available bool
}

// Load reads the singleton record. A missing record or any failure yields
// the built-in defaults; the error is logged and never returned.
func (s *Section) Load(ctx context.Context) Loaded {
	rec, err := s.Client.Content.GetContent(ctx, content.RecordID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			slog.Warn("hero content missing, using defaults", "id", content.RecordID)
		} else {
			slog.Error("failed to load hero content", "id", content.RecordID, "error", err)
		}
		return Loaded{Record: content.Default()}
	}
	return Loaded{Record: rec.Normalize(), Available: true}
}
