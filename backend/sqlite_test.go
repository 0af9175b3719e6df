package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/eringen/folio/content"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "test_folio.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSQLiteStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestGetContentNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetContent(context.Background(), content.RecordID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAndGetContent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	rec := content.Record{
		Headline: "A",
		Bio:      "B",
		Cards: []content.Card{
			{Title: "T1", Subtitle: "S1", Image: "U1"},
			{Title: "T2", Subtitle: "S2"},
		},
	}
	if err := s.UpdateContent(ctx, content.RecordID, rec); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}

	got, err := s.GetContent(ctx, content.RecordID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if got.Headline != "A" {
		t.Errorf("Headline = %q, want %q", got.Headline, "A")
	}
	if got.Bio != "B" {
		t.Errorf("Bio = %q, want %q", got.Bio, "B")
	}
	if len(got.Cards) != 2 {
		t.Fatalf("Cards count = %d, want 2", len(got.Cards))
	}
	if got.Cards[0] != rec.Cards[0] || got.Cards[1] != rec.Cards[1] {
		t.Errorf("Cards = %+v, want %+v", got.Cards, rec.Cards)
	}
}

func TestUpdateContentOverwritesWholeRecord(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := content.Record{Headline: "old", Bio: "old bio", Cards: []content.Card{{Title: "T1"}, {Title: "T2"}}}
	if err := s.UpdateContent(ctx, content.RecordID, first); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}
	second := content.Record{Headline: "new", Bio: "new bio", Cards: []content.Card{{Title: "only"}}}
	if err := s.UpdateContent(ctx, content.RecordID, second); err != nil {
		t.Fatalf("UpdateContent update failed: %v", err)
	}

	got, err := s.GetContent(ctx, content.RecordID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if got.Headline != "new" || got.Bio != "new bio" {
		t.Errorf("got %q/%q, want new/new bio", got.Headline, got.Bio)
	}
	if len(got.Cards) != 1 || got.Cards[0].Title != "only" {
		t.Errorf("Cards = %+v, want one card titled only", got.Cards)
	}
}

func TestNilCardsStoredAsEmpty(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.UpdateContent(ctx, content.RecordID, content.Record{Headline: "h", Bio: "b"}); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}
	got, err := s.GetContent(ctx, content.RecordID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if got.Cards == nil || len(got.Cards) != 0 {
		t.Errorf("Cards = %#v, want empty non-nil slice", got.Cards)
	}
}

func TestSeedOnlyWhenMissing(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	wrote, err := s.Seed(ctx, content.RecordID, content.Default())
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if !wrote {
		t.Error("expected first Seed to write a row")
	}

	if err := s.UpdateContent(ctx, content.RecordID, content.Record{Headline: "live", Bio: "b"}); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}
	wrote, err = s.Seed(ctx, content.RecordID, content.Default())
	if err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if wrote {
		t.Error("expected second Seed to leave the existing row alone")
	}

	got, err := s.GetContent(ctx, content.RecordID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if got.Headline != "live" {
		t.Errorf("Headline = %q, want live", got.Headline)
	}
}
