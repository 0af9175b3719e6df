package backend

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DiskStorage is an ObjectStore that writes files into a local directory
// served by the web server under BaseURL.
type DiskStorage struct {
	Dir     string
	BaseURL string
}

// NewDiskStorage creates the upload directory if needed.
func NewDiskStorage(dir, baseURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskStorage{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload writes r to Dir/key. Keys containing path separators are rejected.
// An existing file under the same key is replaced.
func (d *DiskStorage) Upload(ctx context.Context, key string, r io.Reader, _ string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.Dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.Dir, key)); err != nil {
		return fmt.Errorf("store object: %w", err)
	}
	return nil
}

// PublicURL returns BaseURL/key.
func (d *DiskStorage) PublicURL(key string) string {
	return d.BaseURL + "/" + url.PathEscape(key)
}

func validKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}
