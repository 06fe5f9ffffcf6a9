package blob

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDumpKeyRoundTrip(t *testing.T) {
	id := uuid.MustParse("6f1c2b1e-2d7a-4c3e-9a51-0e8b3f6d7c21")
	at := time.Date(2026, 3, 9, 23, 30, 0, 0, time.FixedZone("x", -2*3600))
	key := DumpKey(at, id)
	if key != "dumps/20260310/6f1c2b1e-2d7a-4c3e-9a51-0e8b3f6d7c21.raw" {
		t.Fatalf("unexpected key %s", key)
	}
	back, err := ParseDumpKey(key)
	if err != nil || back != id {
		t.Fatalf("parse %s: %v %v", key, back, err)
	}
	for _, bad := range []string{"other/x.raw", "dumps/nodir.raw", "dumps/20260101/not-a-uuid.raw"} {
		if _, err := ParseDumpKey(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestArchiveWriteReadList(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	a := NewArchive(NewMemory(), func() time.Time { return day })

	info, err := a.Write(ctx, []byte("SOLUTION_RAW 1\nEND\n"), 1)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(info.Key, "dumps/20261017/") || info.ContentType != DumpContentType {
		t.Fatalf("unexpected info %+v", info)
	}
	if Records(info) != 1 {
		t.Fatalf("expected record count 1, got %d", Records(info))
	}
	if _, err := ParseDumpKey(info.Key); err != nil {
		t.Fatalf("written key does not parse: %v", err)
	}
	second, err := a.Write(ctx, []byte("END\n"), 0)
	if err != nil || second.Key == info.Key {
		t.Fatalf("expected distinct keys: %v", err)
	}

	b, err := a.Read(ctx, info.Key)
	if err != nil || string(b) != "SOLUTION_RAW 1\nEND\n" {
		t.Fatalf("read: %q %v", b, err)
	}
	listed, err := a.List(ctx, day)
	if err != nil || len(listed) != 2 {
		t.Fatalf("list day: %+v %v", listed, err)
	}
	none, _ := a.List(ctx, day.AddDate(0, 0, 1))
	if len(none) != 0 {
		t.Fatalf("expected nothing on the next day, got %+v", none)
	}
	if Records(Info{}) != -1 {
		t.Fatalf("missing metadata should report -1")
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{Driver: DriverMemory})
	if err != nil || s.Driver() != DriverMemory {
		t.Fatalf("memory: %v %v", s, err)
	}
	s, err = Open(ctx, Options{FSRoot: t.TempDir()})
	if err != nil || s.Driver() != DriverFilesystem {
		t.Fatalf("default fs: %v %v", s, err)
	}
	if _, err := Open(ctx, Options{Driver: DriverS3}); err == nil {
		t.Fatalf("expected s3 without bucket to fail")
	}
	if _, err := Open(ctx, Options{Driver: "ftp"}); err == nil {
		t.Fatalf("expected unknown driver to fail")
	}
}
