package hero

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Drafts keeps one Editor per editing session, keyed by an opaque id stored
// in the session cookie. Drafts idle for longer than maxIdle are dropped the
// next time one is opened.
type Drafts struct {
	section *Section
	maxIdle time.Duration
	now     func() time.Time

	mu      sync.Mutex
	editors map[string]*Editor
}

// NewDrafts returns an empty registry whose drafts load through section.
func NewDrafts(section *Section, maxIdle time.Duration) *Drafts {
	return &Drafts{
		section: section,
		maxIdle: maxIdle,
		now:     time.Now,
		editors: make(map[string]*Editor),
	}
}

// Get returns the draft for id.
func (d *Drafts) Get(id string) (*Editor, bool) {
	if id == "" {
		return nil, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.editors[id]
	return e, ok
}

// Open loads a new draft and registers it under a fresh id.
func (d *Drafts) Open(ctx context.Context) (string, *Editor) {
	e := NewEditor(ctx, d.section)
	id := uuid.NewString()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.prune()
	d.editors[id] = e
	return id, e
}

// Discard forgets the draft for id.
func (d *Drafts) Discard(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.editors, id)
}

// Len reports the number of live drafts.
func (d *Drafts) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.editors)
}

func (d *Drafts) prune() {
	if d.maxIdle <= 0 {
		return
	}
	cutoff := d.now().Add(-d.maxIdle)
	for id, e := range d.editors {
		if e.lastUsed().Before(cutoff) {
			delete(d.editors, id)
		}
	}
}
