package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DumpPrefix roots every archived raw dump.
	DumpPrefix = "dumps/"
	// DumpContentType is attached to archived dumps.
	DumpContentType = "text/x-chemstate-raw"

	metaRecords = "records"
)

// DumpKey returns dumps/<yyyymmdd>/<id>.raw for the UTC day of at.
func DumpKey(at time.Time, id uuid.UUID) string {
	return DumpPrefix + at.UTC().Format("20060102") + "/" + id.String() + ".raw"
}

// ParseDumpKey extracts the archive id from a key produced by DumpKey.
func ParseDumpKey(key string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(key, DumpPrefix)
	if !ok {
		return uuid.Nil, fmt.Errorf("key %q is not a dump", key)
	}
	_, name, ok := strings.Cut(rest, "/")
	if !ok {
		return uuid.Nil, fmt.Errorf("key %q has no day component", key)
	}
	return uuid.Parse(strings.TrimSuffix(name, ".raw"))
}

// Archive stores raw dumps under date-partitioned random keys.
type Archive struct {
	store Store
	now   func() time.Time
}

// NewArchive wraps store. A nil now uses time.Now.
func NewArchive(store Store, now func() time.Time) *Archive {
	if now == nil {
		now = time.Now
	}
	return &Archive{store: store, now: now}
}

// Store returns the backend.
func (a *Archive) Store() Store { return a.store }

// Write stores dump under a fresh key and records how many blocks it holds.
func (a *Archive) Write(ctx context.Context, dump []byte, records int) (Info, error) {
	key := DumpKey(a.now(), uuid.New())
	return a.store.Put(ctx, key, bytes.NewReader(dump), PutOptions{
		ContentType: DumpContentType,
		Metadata:    map[string]string{metaRecords: strconv.Itoa(records)},
	})
}

// Read returns the dump stored at key.
func (a *Archive) Read(ctx context.Context, key string) ([]byte, error) {
	_, rc, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// List returns archived dumps, optionally restricted to one UTC day.
func (a *Archive) List(ctx context.Context, day time.Time) ([]Info, error) {
	prefix := DumpPrefix
	if !day.IsZero() {
		prefix += day.UTC().Format("20060102") + "/"
	}
	return a.store.List(ctx, prefix)
}

// Records returns the block count recorded for info, or -1 when absent.
func Records(info Info) int {
	n, err := strconv.Atoi(info.Metadata[metaRecords])
	if err != nil {
		return -1
	}
	return n
}
