// Package backend provides the content store and object storage the site
// reads from and writes to. A Client is constructed explicitly and handed to
// every component that needs it, so tests can substitute fakes.
package backend

import (
	"context"
	"errors"
	"io"

	"github.com/eringen/folio/content"
)

// ErrNotFound is returned when the requested content record does not exist.
var ErrNotFound = errors.New("content record not found")

// ContentStore reads and overwrites the singleton content record.
type ContentStore interface {
	GetContent(ctx context.Context, id int64) (content.Record, error)
	UpdateContent(ctx context.Context, id int64, rec content.Record) error
}

// ObjectStore holds uploaded files and hands out their public URLs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	PublicURL(key string) string
}

// Client bundles the content store and object storage of one backend.
type Client struct {
	Content ContentStore
	Storage ObjectStore

	closers []io.Closer
}

// NewClient returns a Client over the given stores. Any store that
// implements io.Closer is closed by Client.Close.
func NewClient(cs ContentStore, obj ObjectStore) *Client {
	c := &Client{Content: cs, Storage: obj}
	for _, v := range []any{cs, obj} {
		if cl, ok := v.(io.Closer); ok {
			c.closers = append(c.closers, cl)
		}
	}
	return c
}

// Close releases the underlying stores.
func (c *Client) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
