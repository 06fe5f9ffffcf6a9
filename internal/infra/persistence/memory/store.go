// Package memory keeps named snapshots in process memory. It backs tests and
// ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"chemstate/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// Store implements domain.PersistentStore with deep copies held in a map.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{snapshots: make(map[string]domain.Snapshot)}
}

// Save stores a copy of snap under name, replacing any previous version.
func (s *Store) Save(ctx context.Context, name string, snap domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("snapshot name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[name] = snap.Clone()
	return nil
}

// Load returns a copy of the snapshot stored under name.
func (s *Store) Load(ctx context.Context, name string) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[name]
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("%s: %w", name, domain.ErrSnapshotNotFound)
	}
	return snap.Clone(), nil
}

// List describes every stored snapshot ordered by name.
func (s *Store) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SnapshotInfo, 0, len(s.snapshots))
	for name, snap := range s.snapshots {
		out = append(out, snap.Info(name))
	}
	domain.SortSnapshotInfos(out)
	return out, nil
}

// Delete removes name. Deleting an unknown name returns ErrSnapshotNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[name]; !ok {
		return fmt.Errorf("%s: %w", name, domain.ErrSnapshotNotFound)
	}
	delete(s.snapshots, name)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
