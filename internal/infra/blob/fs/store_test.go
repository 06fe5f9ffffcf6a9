package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chemstate/internal/blob/core"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
	info, err := s.Put(ctx, "dumps/20260102/a.raw", strings.NewReader("SOLUTION_RAW 1\n"), core.PutOptions{
		ContentType: "text/plain",
		Metadata:    map[string]string{"records": "1"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 15 || len(info.ETag) != 64 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "dumps", "20260102", "a.raw.meta")); err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	if _, err := s.Put(ctx, "dumps/20260102/a.raw", strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	got, rc, err := s.Get(ctx, "dumps/20260102/a.raw")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "SOLUTION_RAW 1\n" || got.Metadata["records"] != "1" || got.ContentType != "text/plain" {
		t.Fatalf("unexpected get %q %+v", b, got)
	}

	if _, err := s.Put(ctx, "other.raw", strings.NewReader("o"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	list, err := s.List(ctx, "dumps/")
	if err != nil || len(list) != 1 || list[0].Key != "dumps/20260102/a.raw" {
		t.Fatalf("unexpected list %+v %v", list, err)
	}

	if ok, err := s.Delete(ctx, "dumps/20260102/a.raw"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, _ := s.Delete(ctx, "dumps/20260102/a.raw"); ok {
		t.Fatalf("second delete should report missing")
	}
	if _, err := s.Head(ctx, "dumps/20260102/a.raw"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectsUnsafeKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "/abs", "../escape", "a/../../b", "x.meta"} {
		if _, err := s.Put(context.Background(), key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}
