package backend

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/eringen/folio/content"
)

// countingStore is an in-memory ContentStore that counts calls.
type countingStore struct {
	mu      sync.Mutex
	rec     *content.Record
	getErr  error
	gets    int
	updates int
}

func (s *countingStore) GetContent(_ context.Context, _ int64) (content.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return content.Record{}, s.getErr
	}
	if s.rec == nil {
		return content.Record{}, ErrNotFound
	}
	return s.rec.Clone(), nil
}

func (s *countingStore) UpdateContent(_ context.Context, _ int64, rec content.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	r := rec.Clone()
	s.rec = &r
	return nil
}

func TestCachedContentServesFromCache(t *testing.T) {
	inner := &countingStore{rec: &content.Record{Headline: "A", Cards: []content.Card{}}}
	c := NewCachedContent(inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec, err := c.GetContent(ctx, content.RecordID)
		if err != nil {
			t.Fatalf("GetContent failed: %v", err)
		}
		if rec.Headline != "A" {
			t.Errorf("Headline = %q, want A", rec.Headline)
		}
	}
	if inner.gets != 1 {
		t.Errorf("inner gets = %d, want 1", inner.gets)
	}
}

func TestCachedContentExpires(t *testing.T) {
	inner := &countingStore{rec: &content.Record{Headline: "A"}}
	c := NewCachedContent(inner, 20*time.Millisecond)
	ctx := context.Background()

	if _, err := c.GetContent(ctx, content.RecordID); err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := c.GetContent(ctx, content.RecordID); err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if inner.gets != 2 {
		t.Errorf("inner gets = %d, want 2 after expiry", inner.gets)
	}
}

func TestCachedContentDoesNotCacheErrors(t *testing.T) {
	inner := &countingStore{getErr: errors.New("offline")}
	c := NewCachedContent(inner, time.Minute)
	ctx := context.Background()

	if _, err := c.GetContent(ctx, content.RecordID); err == nil {
		t.Fatal("expected error")
	}
	inner.getErr = nil
	inner.rec = &content.Record{Headline: "back"}
	rec, err := c.GetContent(ctx, content.RecordID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if rec.Headline != "back" {
		t.Errorf("Headline = %q, want back", rec.Headline)
	}
}

func TestCachedContentUpdateInvalidates(t *testing.T) {
	inner := &countingStore{rec: &content.Record{Headline: "old"}}
	c := NewCachedContent(inner, time.Minute)
	ctx := context.Background()

	if _, err := c.GetContent(ctx, content.RecordID); err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if err := c.UpdateContent(ctx, content.RecordID, content.Record{Headline: "new"}); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}
	rec, err := c.GetContent(ctx, content.RecordID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if rec.Headline != "new" {
		t.Errorf("Headline = %q, want new", rec.Headline)
	}
}

func TestCachedContentReturnsCopies(t *testing.T) {
	inner := &countingStore{rec: &content.Record{Cards: []content.Card{{Title: "T1"}}}}
	c := NewCachedContent(inner, time.Minute)
	ctx := context.Background()

	first, _ := c.GetContent(ctx, content.RecordID)
	first.Cards[0].Title = "mutated"
	second, _ := c.GetContent(ctx, content.RecordID)
	if second.Cards[0].Title != "T1" {
		t.Errorf("cached record was mutated through a returned copy: %q", second.Cards[0].Title)
	}
}

func TestDirectBypassesCacheButInvalidates(t *testing.T) {
	inner := &countingStore{rec: &content.Record{Headline: "A"}}
	c := NewCachedContent(inner, time.Minute)
	d := c.Direct()
	ctx := context.Background()

	if _, err := c.GetContent(ctx, content.RecordID); err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if _, err := d.GetContent(ctx, content.RecordID); err != nil {
		t.Fatalf("direct GetContent failed: %v", err)
	}
	if inner.gets != 2 {
		t.Errorf("inner gets = %d, want 2", inner.gets)
	}

	if err := d.UpdateContent(ctx, content.RecordID, content.Record{Headline: "B"}); err != nil {
		t.Fatalf("direct UpdateContent failed: %v", err)
	}
	rec, _ := c.GetContent(ctx, content.RecordID)
	if rec.Headline != "B" {
		t.Errorf("Headline = %q, want B after direct update", rec.Headline)
	}
}

func TestRedisCachedContent(t *testing.T) {
	url := os.Getenv("FOLIO_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: FOLIO_TEST_REDIS_URL not set")
	}

	inner := &countingStore{rec: &content.Record{Headline: "A", Cards: []content.Card{{Title: "T1"}}}}
	c, err := NewRedisCachedContent(inner, RedisCacheOptions{URL: url, Prefix: "folio-test:", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisCachedContent failed: %v", err)
	}
	defer c.Close()
	ctx := context.Background()
	c.Invalidate(ctx, content.RecordID)

	for i := 0; i < 2; i++ {
		rec, err := c.GetContent(ctx, content.RecordID)
		if err != nil {
			t.Fatalf("GetContent failed: %v", err)
		}
		if rec.Headline != "A" || len(rec.Cards) != 1 {
			t.Errorf("unexpected record %+v", rec)
		}
	}
	if inner.gets != 1 {
		t.Errorf("inner gets = %d, want 1", inner.gets)
	}

	if err := c.UpdateContent(ctx, content.RecordID, content.Record{Headline: "B"}); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}
	rec, _ := c.GetContent(ctx, content.RecordID)
	if rec.Headline != "B" {
		t.Errorf("Headline = %q, want B", rec.Headline)
	}
}

// gatedStore holds GetContent until release is closed, after signalling
// started, and returns the record it held when the call began.
type gatedStore struct {
	countingStore
	started chan struct{}
	release chan struct{}
}

func (s *gatedStore) GetContent(ctx context.Context, id int64) (content.Record, error) {
	rec, err := s.countingStore.GetContent(ctx, id)
	close(s.started)
	<-s.release
	return rec, err
}

func TestCachedContentDropsReadThatRacedWithUpdate(t *testing.T) {
	inner := &gatedStore{
		countingStore: countingStore{rec: &content.Record{Headline: "old"}},
		started:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	c := NewCachedContent(inner, time.Minute)
	ctx := context.Background()

	done := make(chan content.Record)
	go func() {
		rec, _ := c.GetContent(ctx, content.RecordID)
		done <- rec
	}()

	<-inner.started
	if err := c.Direct().UpdateContent(ctx, content.RecordID, content.Record{Headline: "new"}); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}
	close(inner.release)
	if rec := <-done; rec.Headline != "old" {
		t.Fatalf("in-flight read Headline = %q, want old", rec.Headline)
	}

	// The next read must reach the store instead of a stale entry.
	inner.started = make(chan struct{})
	inner.release = make(chan struct{})
	close(inner.release)
	rec, err := c.GetContent(ctx, content.RecordID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if rec.Headline != "new" {
		t.Errorf("Headline = %q, want new after save", rec.Headline)
	}
}
