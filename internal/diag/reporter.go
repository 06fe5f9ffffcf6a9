package diag

import (
	"errors"
	"io"
	"sync"
)

// SinkFactory acquires a fresh sink.
type SinkFactory func() (Sink, error)

// BufferFactory returns a factory producing new BufferSinks. Each acquired sink is
// also passed to onAcquire when it is non-nil.
func BufferFactory(onAcquire func(*BufferSink)) SinkFactory {
	return func() (Sink, error) {
		b := NewBufferSink()
		if onAcquire != nil {
			onAcquire(b)
		}
		return b, nil
	}
}

// FileFactory returns a factory appending to path.
func FileFactory(path string) SinkFactory {
	return func() (Sink, error) { return OpenFileSink(path) }
}

// Reporter counts errors and warnings and writes them to its sink. The sink is
// acquired on first use; Clear releases it and acquires a new one; Close releases
// it. A Reporter is safe for concurrent use.
type Reporter struct {
	mu       sync.Mutex
	factory  SinkFactory
	sink     Sink
	errors   int
	warnings int
}

// NewReporter returns a reporter drawing sinks from factory.
func NewReporter(factory SinkFactory) *Reporter {
	return &Reporter{factory: factory}
}

func (r *Reporter) acquire() (Sink, error) {
	if r.sink != nil {
		return r.sink, nil
	}
	if r.factory == nil {
		return nil, errors.New("diag: no sink factory")
	}
	s, err := r.factory()
	if err != nil {
		return nil, err
	}
	r.sink = s
	return s, nil
}

func (r *Reporter) release() error {
	s := r.sink
	r.sink = nil
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *Reporter) write(prefix, msg string) error {
	s, err := r.acquire()
	if err != nil {
		return err
	}
	_, err = s.WriteString(prefix + msg + "\n")
	return err
}

// AddError records msg as "ERROR: msg" and returns the error count.
func (r *Reporter) AddError(msg string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors++
	return r.errors, r.write("ERROR: ", msg)
}

// AddWarning records msg as "WARNING: msg" and returns the warning count.
func (r *Reporter) AddWarning(msg string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings++
	return r.warnings, r.write("WARNING: ", msg)
}

// Errors returns the number of errors recorded since the last Clear.
func (r *Reporter) Errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors
}

// Warnings returns the number of warnings recorded since the last Clear.
func (r *Reporter) Warnings() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warnings
}

// Clear resets the counters, releases the current sink and acquires a new one.
func (r *Reporter) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors, r.warnings = 0, 0
	if err := r.release(); err != nil {
		return err
	}
	_, err := r.acquire()
	return err
}

// Close releases the sink. The reporter acquires a new one if used again.
func (r *Reporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.release()
}
