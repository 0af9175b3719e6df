package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/eringen/folio/content"
)

// SQLiteStore keeps the content record in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the hero_content table.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets visitor reads proceed while the editor saves; busy_timeout
	// makes a writer wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS hero_content (
    id INTEGER PRIMARY KEY,
    headline TEXT NOT NULL,
    bio TEXT NOT NULL,
    cards TEXT NOT NULL DEFAULT '[]'
);
`)
	return err
}

// GetContent returns the record with the given id, or ErrNotFound.
func (s *SQLiteStore) GetContent(ctx context.Context, id int64) (content.Record, error) {
	var headline, bio, cards string
	err := s.db.QueryRowContext(ctx, `SELECT headline, bio, cards FROM hero_content WHERE id = ?`, id).
		Scan(&headline, &bio, &cards)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Record{}, ErrNotFound
	}
	if err != nil {
		return content.Record{}, err
	}
	rec := content.Record{Headline: headline, Bio: bio}
	if err := json.Unmarshal([]byte(cards), &rec.Cards); err != nil {
		return content.Record{}, fmt.Errorf("decode cards: %w", err)
	}
	return rec.Normalize(), nil
}

// UpdateContent overwrites headline, bio and cards of the record.
func (s *SQLiteStore) UpdateContent(ctx context.Context, id int64, rec content.Record) error {
	cards, err := json.Marshal(rec.Normalize().Cards)
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO hero_content (id, headline, bio, cards) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET headline = excluded.headline, bio = excluded.bio, cards = excluded.cards`,
		id, rec.Headline, rec.Bio, string(cards))
	return err
}

// Seed inserts rec under id unless a record already exists. It reports
// whether a row was written.
func (s *SQLiteStore) Seed(ctx context.Context, id int64, rec content.Record) (bool, error) {
	cards, err := json.Marshal(rec.Normalize().Cards)
	if err != nil {
		return false, fmt.Errorf("encode cards: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO hero_content (id, headline, bio, cards) VALUES (?, ?, ?, ?)`,
		id, rec.Headline, rec.Bio, string(cards))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
