// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/studyweb/pkg/types"
)

// SQLite is a file-backed cache for use across CLI invocations.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLite opens or creates the cache database at path.
func NewSQLite(path string, ttl time.Duration) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &SQLite{db: db, ttl: ttl, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			key TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_expires_at ON pages(expires_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the cached page for topic or ErrMiss when absent or expired.
func (s *SQLite) Get(ctx context.Context, topic string) (types.PageExtract, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM pages WHERE key = ? AND expires_at > ?`,
		key(topic), s.now().Unix(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return types.PageExtract{}, ErrMiss
	}
	if err != nil {
		return types.PageExtract{}, fmt.Errorf("reading cached page: %w", err)
	}

	var page types.PageExtract
	if err := json.Unmarshal([]byte(data), &page); err != nil {
		return types.PageExtract{}, fmt.Errorf("decoding cached page: %w", err)
	}
	return page, nil
}

// Set upserts page under topic.
func (s *SQLite) Set(ctx context.Context, topic string, page types.PageExtract) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encoding page: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pages (key, data, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data=excluded.data, expires_at=excluded.expires_at`,
		key(topic), string(data), s.now().Add(s.ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cached page: %w", err)
	}
	return nil
}

// Prune deletes expired rows and returns how many were removed.
func (s *SQLite) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
