// Package verse fetches a random passage from a public text API and tracks
// the loading, displayed and errored states of the widget that shows it.
package verse

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultEndpoint returns one random passage as HTML-flavoured text.
const DefaultEndpoint = "https://labs.bible.org/api/?passage=random&type=text"

// User-facing strings of the widget.
const (
	LoadingMessage = "Fetching an inspirational verse..."
	ErrorMessage   = "Could not fetch a verse at this time."
)

// maxBody caps how much of a response is read; passages are short.
const maxBody = 64 << 10

// ErrTooLarge is returned for a response body over the read cap. The body is
// never truncated.
var ErrTooLarge = errors.New("verse response too large")

// Source produces the raw passage text.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// StatusError reports a non-2xx response from the verse endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// Client issues a single GET against a fixed endpoint. It never retries and
// sets no timeout of its own; ctx is the only cancellation.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns a Client for endpoint. A nil hc uses http.DefaultClient.
func NewClient(endpoint string, hc *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: hc}
}

// Fetch returns the response body verbatim.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return "", fmt.Errorf("read verse: %w", err)
	}
	if len(b) > maxBody {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBody)
	}
	return string(b), nil
}

// State is the lifecycle position of a Widget.
type State int

const (
	Loading State = iota
	Displayed
	Errored
)

func (s State) String() string {
	switch s {
	case Displayed:
		return "displayed"
	case Errored:
		return "errored"
	default:
		return "loading"
	}
}

// Widget holds the state of one verse display. It starts in Loading and
// moves to Displayed or Errored exactly once.
type Widget struct {
	mu    sync.Mutex
	state State
	text  string
	err   string
}

// NewWidget returns a widget in the Loading state.
func NewWidget() *Widget {
	return &Widget{state: Loading}
}

// Load fetches from src and settles the widget. Calls after the first
// settled load are no-ops.
func (w *Widget) Load(ctx context.Context, src Source) {
	w.mu.Lock()
	if w.state != Loading {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	text, err := src.Fetch(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Loading {
		return
	}
	if err != nil {
		slog.Error("failed to fetch verse", "error", err)
		w.state = Errored
		w.err = ErrorMessage
		return
	}
	w.state = Displayed
	w.text = text
}

// View is an immutable snapshot of a Widget for rendering.
type View struct {
	State State
	Text  string // raw passage, only set when Displayed
	Error string // fixed message, only set when Errored
}

// View returns the current state of the widget.
func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{State: w.state, Text: w.text, Error: w.err}
}

// LoadingText is the indicator shown while the widget is loading.
func (v View) LoadingText() string {
	if v.State == Loading {
		return LoadingMessage
	}
	return ""
}

var policy = bluemonday.UGCPolicy()

// HTML returns the passage markup with anything unsafe stripped.
func (v View) HTML() template.HTML {
	return template.HTML(policy.Sanitize(v.Text))
}
