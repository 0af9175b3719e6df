package hero

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/eringen/folio/content"
)

var (
	ErrSaveInProgress     = errors.New("save already in progress")
	ErrContentUnavailable = errors.New("content unavailable")
	ErrUnknownField       = errors.New("unknown hero field")
	ErrNoFile             = errors.New("no file selected")
)

// Editable top-level fields.
const (
	FieldHeadline = "headline"
	FieldBio      = "bio"
)

// Upload is a file chosen for a card image.
type Upload struct {
	Body        io.Reader
	ContentType string
}

// Draft is a point-in-time copy of an Editor for rendering.
type Draft struct {
	Record    content.Record
	Available bool
	Saving    bool
}

// Editor is the editor's local copy of the content record. Edits change only
// the draft; nothing reaches the store until Save.
type Editor struct {
	section *Section
	now     func() time.Time

	mu        sync.Mutex
	rec       content.Record
	available bool
	saving    bool
	touched   time.Time
}

// NewEditor loads the record through section and returns a draft over it.
func NewEditor(ctx context.Context, section *Section) *Editor {
	e := &Editor{section: section, now: time.Now}
	e.apply(section.Load(ctx))
	return e
}

func (e *Editor) apply(l Loaded) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rec = l.Record
	e.available = l.Available
	e.touched = e.now()
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Draft{Record: e.rec.Clone(), Available: e.available, Saving: e.saving}
}

// SetField replaces the headline or bio of the draft.
func (e *Editor) SetField(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FieldHeadline:
		e.rec.Headline = value
	case FieldBio:
		e.rec.Bio = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	e.touched = e.now()
	return nil
}

// UpdateCard replaces one field of card i in the draft.
func (e *Editor) UpdateCard(i int, field content.CardField, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.rec.SetCardField(i, field, value); err != nil {
		return err
	}
	e.touched = e.now()
	return nil
}

// ImageKey names the stored object for card i uploaded at t.
func ImageKey(i int, t time.Time) string {
	return fmt.Sprintf("card-%d-%d", i, t.UnixMilli())
}

// UploadImage stores up under a fresh key and points card i of the draft at
// its public URL. The store is not written. On failure the card keeps its
// previous image.
func (e *Editor) UploadImage(ctx context.Context, i int, up Upload) (Notice, error) {
	if up.Body == nil {
		return Notice{}, ErrNoFile
	}
	e.mu.Lock()
	if _, err := e.rec.Card(i); err != nil {
		e.mu.Unlock()
		return failure(MsgUploadFailed), err
	}
	key := ImageKey(i, e.now())
	e.mu.Unlock()

	storage := e.section.Client.Storage
	if err := storage.Upload(ctx, key, up.Body, up.ContentType); err != nil {
		slog.Error("card image upload failed", "card", i, "key", key, "error", err)
		return failure(MsgUploadFailed), fmt.Errorf("upload %s: %w", key, err)
	}
	url := storage.PublicURL(key)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.rec.SetCardImage(i, url); err != nil {
		slog.Error("card removed during upload", "card", i, "key", key)
		return failure(MsgUploadFailed), err
	}
	e.touched = e.now()
	return success(MsgImageUpdated), nil
}

// Save writes the whole draft with a single update. Only one save runs at a
// time, and a draft built from defaults is refused until Reload succeeds.
func (e *Editor) Save(ctx context.Context) (Notice, error) {
	e.mu.Lock()
	if !e.available {
		e.mu.Unlock()
		return failure(MsgUnavailable), ErrContentUnavailable
	}
	if e.saving {
		e.mu.Unlock()
		return Notice{Kind: NoticeInfo, Message: MsgSaveInProgress}, ErrSaveInProgress
	}
	e.saving = true
	rec := e.rec.Clone()
	e.touched = e.now()
	e.mu.Unlock()

	err := e.section.Client.Content.UpdateContent(ctx, content.RecordID, rec)

	e.mu.Lock()
	e.saving = false
	e.mu.Unlock()

	if err != nil {
		slog.Error("failed to save hero content", "error", err)
		return failure(MsgSaveFailed), fmt.Errorf("save content: %w", err)
	}
	slog.Info("hero content saved", "cards", len(rec.Cards))
	return success(MsgSaved), nil
}

// Reload replaces the draft with a fresh load. Unsaved edits are lost. A
// failed load keeps the current draft.
func (e *Editor) Reload(ctx context.Context) Notice {
	l := e.section.Load(ctx)
	if !l.Available {
		return failure(MsgReloadFailed)
	}
	e.apply(l)
	return success(MsgReloaded)
}

func (e *Editor) lastUsed() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.touched
}
