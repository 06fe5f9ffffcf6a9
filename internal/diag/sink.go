// Package diag collects error and warning messages produced while a state is read,
// combined or exported. Messages go to a Sink chosen when the Reporter is built.
package diag

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
)

// Sink receives diagnostic text.
type Sink interface {
	WriteString(s string) (int, error)
}

// BufferSink keeps everything written to it in memory.
type BufferSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewBufferSink returns an empty buffer sink.
func NewBufferSink() *BufferSink { return &BufferSink{} }

// WriteString appends s.
func (b *BufferSink) WriteString(s string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.WriteString(s)
}

// String returns everything written so far.
func (b *BufferSink) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// FileSink appends to a file. Close releases the handle.
type FileSink struct {
	f *os.File
}

// OpenFileSink opens path for appending, creating it when missing.
func OpenFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open diagnostics file: %w", err)
	}
	return &FileSink{f: f}, nil
}

// WriteString appends s to the file.
func (s *FileSink) WriteString(str string) (int, error) { return s.f.WriteString(str) }

// Name returns the file path.
func (s *FileSink) Name() string { return s.f.Name() }

// Close closes the file.
func (s *FileSink) Close() error { return s.f.Close() }

// WriterSink adapts an io.Writer such as os.Stderr. It never closes the writer.
type WriterSink struct {
	W io.Writer
}

// WriteString writes s to the wrapped writer.
func (s WriterSink) WriteString(str string) (int, error) { return io.WriteString(s.W, str) }
