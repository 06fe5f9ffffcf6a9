package diag

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type closingSink struct {
	BufferSink
	closed bool
}

func (c *closingSink) Close() error {
	c.closed = true
	return nil
}

func TestReporterAcquiresLazily(t *testing.T) {
	acquired := 0
	r := NewReporter(func() (Sink, error) {
		acquired++
		return NewBufferSink(), nil
	})
	if acquired != 0 {
		t.Fatalf("sink acquired before first use")
	}
	if n, err := r.AddError("solution 1 missing"); err != nil || n != 1 {
		t.Fatalf("add error: %d %v", n, err)
	}
	_, _ = r.AddError("second")
	if acquired != 1 || r.Errors() != 2 {
		t.Fatalf("acquired %d errors %d", acquired, r.Errors())
	}
}

func TestReporterWritesPrefixedLines(t *testing.T) {
	var sinks []*BufferSink
	r := NewReporter(BufferFactory(func(b *BufferSink) { sinks = append(sinks, b) }))
	_, _ = r.AddError("mix 3 references missing solution 2")
	_, _ = r.AddWarning("unknown option -foo")
	want := "ERROR: mix 3 references missing solution 2\nWARNING: unknown option -foo\n"
	if len(sinks) != 1 || sinks[0].String() != want {
		t.Fatalf("unexpected output %q", sinks[0].String())
	}
	if r.Warnings() != 1 {
		t.Fatalf("expected 1 warning, got %d", r.Warnings())
	}
}

func TestClearReleasesAndReacquires(t *testing.T) {
	var sinks []*closingSink
	r := NewReporter(func() (Sink, error) {
		s := &closingSink{}
		sinks = append(sinks, s)
		return s, nil
	})
	_, _ = r.AddError("first")
	if err := r.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(sinks) != 2 || !sinks[0].closed || sinks[1].closed {
		t.Fatalf("clear should close the old sink and acquire a new one")
	}
	if r.Errors() != 0 {
		t.Fatalf("clear should reset counts")
	}
	if err := r.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !sinks[2].closed {
		t.Fatalf("close should release the sink")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("closing twice should be harmless: %v", err)
	}
}

func TestFactoryFailureSurfaces(t *testing.T) {
	boom := errors.New("no disk")
	r := NewReporter(func() (Sink, error) { return nil, boom })
	if _, err := r.AddError("x"); !errors.Is(err, boom) {
		t.Fatalf("expected factory error, got %v", err)
	}
	if _, err := NewReporter(nil).AddError("x"); err == nil {
		t.Fatalf("expected error without factory")
	}
}

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")
	r := NewReporter(FileFactory(path))
	_, _ = r.AddError("first")
	if err := r.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_, _ = r.AddError("second")
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "ERROR: first\nERROR: second\n" {
		t.Fatalf("unexpected file content %q", b)
	}
}

func TestWriterSink(t *testing.T) {
	var sb strings.Builder
	r := NewReporter(func() (Sink, error) { return WriterSink{W: &sb}, nil })
	_, _ = r.AddError("x")
	if sb.String() != "ERROR: x\n" {
		t.Fatalf("unexpected %q", sb.String())
	}
}
