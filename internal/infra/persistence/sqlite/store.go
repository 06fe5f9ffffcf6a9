// Package sqlite persists named snapshots to an embedded SQLite file, one row per
// snapshot name and kind bucket holding the bucket's JSON payload.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"chemstate/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.PersistentStore = (*Store)(nil)

// DefaultPath is used when NewStore receives an empty path.
const DefaultPath = "chemstate.db"

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	name TEXT NOT NULL,
	bucket TEXT NOT NULL,
	entries INTEGER NOT NULL,
	payload BLOB NOT NULL,
	PRIMARY KEY (name, bucket)
)`

// Store implements domain.PersistentStore on SQLite.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (creating if needed) the database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Save replaces every bucket of name inside one transaction.
func (s *Store) Save(ctx context.Context, name string, snap domain.Snapshot) (retErr error) {
	if name == "" {
		return fmt.Errorf("snapshot name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	for _, kind := range domain.Kinds {
		data, err := snap.MarshalBucket(kind)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots(name, bucket, entries, payload) VALUES(?, ?, ?, ?)`,
			name, string(kind), snap.Len(kind), data); err != nil {
			return fmt.Errorf("insert %s/%s: %w", name, kind, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load rebuilds the snapshot stored under name.
func (s *Store) Load(ctx context.Context, name string) (domain.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("select %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()
	snap := domain.NewSnapshot()
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan: %w", err)
		}
		found = true
		if err := snap.UnmarshalBucket(domain.Kind(bucket), payload); err != nil {
			return domain.Snapshot{}, err
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("iterate %s: %w", name, err)
	}
	if !found {
		return domain.Snapshot{}, fmt.Errorf("%s: %w", name, domain.ErrSnapshotNotFound)
	}
	return snap, nil
}

// List summarizes stored snapshots from their entry counts without decoding payloads.
func (s *Store) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, bucket, entries FROM snapshots ORDER BY name, bucket`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.SnapshotInfo
	for rows.Next() {
		var name, bucket string
		var entries int
		if err := rows.Scan(&name, &bucket, &entries); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Name != name {
			out = append(out, domain.SnapshotInfo{Name: name, Entries: map[domain.Kind]int{}})
		}
		out[len(out)-1].Entries[domain.Kind(bucket)] = entries
	}
	return out, rows.Err()
}

// Delete removes every bucket of name.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", name, domain.ErrSnapshotNotFound)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database path.
func (s *Store) Path() string { return s.path }
