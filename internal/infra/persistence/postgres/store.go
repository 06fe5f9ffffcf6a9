// Package postgres persists named snapshots to PostgreSQL with JSONB bucket
// payloads.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"chemstate/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

var _ domain.PersistentStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/chemstate?sslmode=disable"
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	name TEXT NOT NULL,
	bucket TEXT NOT NULL,
	entries INTEGER NOT NULL,
	payload JSONB NOT NULL,
	PRIMARY KEY (name, bucket)
)`

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store implements domain.PersistentStore on PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore opens dsn (defaultDSN when empty), pings the server and ensures the
// snapshots table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewStoreFromDB(ctx, db)
}

// NewStoreFromDB wraps an open database.
func NewStoreFromDB(ctx context.Context, db *sql.DB) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure snapshots table: %w", err)
	}
	return &Store{db: db}, nil
}

// Save replaces every bucket of name inside one transaction.
func (s *Store) Save(ctx context.Context, name string, snap domain.Snapshot) error {
	if name == "" {
		return fmt.Errorf("snapshot name required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE name = $1`, name); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	for _, kind := range domain.Kinds {
		data, err := snap.MarshalBucket(kind)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots(name, bucket, entries, payload) VALUES($1, $2, $3, $4)`,
			name, string(kind), snap.Len(kind), data); err != nil {
			return fmt.Errorf("insert %s/%s: %w", name, kind, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Load rebuilds the snapshot stored under name.
func (s *Store) Load(ctx context.Context, name string) (domain.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM snapshots WHERE name = $1`, name)
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
		if len(payload) == 0 {
			continue
		}
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

// List summarizes stored snapshots from their entry counts.
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// Delete removes every bucket of name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", name, domain.ErrSnapshotNotFound)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for tests.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the open function for tests and returns a restore func.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
