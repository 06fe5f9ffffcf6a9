package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"chemstate/internal/blob"
	"chemstate/internal/diag"
	"chemstate/internal/engine"
	"chemstate/pkg/domain"
	"chemstate/pkg/rawcodec"
)

var (
	// ErrNoBlobStore is returned by archive operations when no blob store is configured.
	ErrNoBlobStore = errors.New("no blob store configured")
	// ErrNoPersistentStore is returned by snapshot operations when no store is configured.
	ErrNoPersistentStore = errors.New("no persistent store configured")
)

type serviceOptions struct {
	logger   Logger
	metrics  MetricsRecorder
	tracer   Tracer
	audit    AuditRecorder
	clock    Clock
	reporter *diag.Reporter
	exit     func(code int)
	policy   domain.CombinePolicy
	blobs    blob.Store
	store    domain.PersistentStore
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		logger:   noopLogger{},
		metrics:  noopMetricsRecorder{},
		tracer:   noopTracer{},
		audit:    noopAuditRecorder{},
		clock:    systemClock{},
		reporter: diag.NewReporter(func() (diag.Sink, error) { return diag.WriterSink{W: os.Stderr}, nil }),
		exit:     os.Exit,
		policy:   domain.DefaultCombinePolicy(),
	}
}

// Option configures a Service.
type Option func(*serviceOptions)

// WithLogger sets the structured logger.
func WithLogger(l Logger) Option {
	return func(o *serviceOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsRecorder sets the metrics recorder. Recorders that also implement
// EntityGauge receive per-kind record counts after every operation.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(o *serviceOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t Tracer) Option {
	return func(o *serviceOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithAuditRecorder sets the recorder for id-scoped operations.
func WithAuditRecorder(a AuditRecorder) Option {
	return func(o *serviceOptions) {
		if a != nil {
			o.audit = a
		}
	}
}

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(o *serviceOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithReporter sets the diagnostics reporter. The default writes to stderr.
func WithReporter(r *diag.Reporter) Option {
	return func(o *serviceOptions) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithExitFunc replaces os.Exit for fatal conditions.
func WithExitFunc(fn func(code int)) Option {
	return func(o *serviceOptions) {
		if fn != nil {
			o.exit = fn
		}
	}
}

// WithCombinePolicy sets the policy used when mixes are resolved.
func WithCombinePolicy(p domain.CombinePolicy) Option {
	return func(o *serviceOptions) {
		if p != nil {
			o.policy = p
		}
	}
}

// WithBlobStore enables ArchiveDump and RestoreArchive.
func WithBlobStore(s blob.Store) Option {
	return func(o *serviceOptions) { o.blobs = s }
}

// WithPersistentStore enables SaveSnapshot and LoadSnapshot.
func WithPersistentStore(s domain.PersistentStore) Option {
	return func(o *serviceOptions) { o.store = s }
}

// Service drives one StorageBin against one engine with logging, metrics,
// tracing and diagnostics around every operation. Like the bin it owns, a
// Service is not safe for concurrent use.
type Service struct {
	bin    *StorageBin
	engine Engine
	opts   serviceOptions
}

// NewService builds a service over eng. A nil eng gets a fresh engine state.
func NewService(eng Engine, opts ...Option) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if eng == nil {
		eng = engine.NewAdapter(nil)
	}
	return &Service{bin: NewStorageBin(), engine: eng, opts: o}
}

// Bin returns the service's storage bin.
func (s *Service) Bin() *StorageBin { return s.bin }

// Engine returns the engine the service exports to.
func (s *Service) Engine() Engine { return s.engine }

// Reporter returns the diagnostics reporter.
func (s *Service) Reporter() *diag.Reporter { return s.opts.reporter }

// Policy returns the combine policy used for mixes.
func (s *Service) Policy() domain.CombinePolicy { return s.opts.policy }

func (s *Service) instrument(ctx context.Context, op string, fn func(ctx context.Context) error) (time.Duration, error) {
	start := s.opts.clock.Now()
	ctx, span := s.opts.tracer.Start(ctx, op)
	err := fn(ctx)
	duration := s.opts.clock.Now().Sub(start)
	span.End(err)
	s.opts.metrics.Observe(ctx, op, err == nil, duration)
	if gauge, ok := s.opts.metrics.(EntityGauge); ok {
		for _, kind := range domain.Kinds {
			gauge.SetEntities(kind, s.bin.Len(kind))
		}
	}
	if err != nil {
		s.opts.logger.Error("operation failed", "operation", op, "error", err, "duration", duration)
	} else {
		s.opts.logger.Debug("operation complete", "operation", op, "duration", duration)
	}
	return duration, err
}

func (s *Service) recordAudit(ctx context.Context, op string, id int, kinds []domain.Kind, duration time.Duration, err error) {
	entry := AuditEntry{
		Operation: op,
		Kinds:     kinds,
		EntityID:  id,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.opts.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.opts.audit.Record(ctx, entry)
}

// ImportAll copies every record out of the engine into the bin.
func (s *Service) ImportAll(ctx context.Context) (int, error) {
	var n int
	_, err := s.instrument(ctx, "import_all", func(context.Context) error {
		var err error
		n, err = s.bin.ImportAll(s.engine)
		return err
	})
	if err == nil {
		s.opts.logger.Info("imported engine state", "records", n)
	}
	return n, err
}

// ExportOne stages every record with id into the engine. A missing solution is
// fatal: it is reported, the reporter is closed and the exit func is called
// with status 1. The error is returned for exit funcs that do not stop the
// process.
func (s *Service) ExportOne(ctx context.Context, id int) ([]domain.Kind, error) {
	var staged []domain.Kind
	duration, err := s.instrument(ctx, "export_one", func(context.Context) error {
		var err error
		staged, err = s.bin.ExportOne(s.engine, id)
		return err
	})
	s.recordAudit(ctx, "export_one", id, staged, duration, err)
	if IsFatal(err) {
		s.fatal(err)
	}
	return staged, err
}

func (s *Service) fatal(err error) {
	s.opts.logger.Error("fatal condition, stopping", "error", err)
	if _, rerr := s.opts.reporter.AddError(err.Error()); rerr != nil {
		s.opts.logger.Error("diagnostics write failed", "error", rerr)
	}
	if cerr := s.opts.reporter.Close(); cerr != nil {
		s.opts.logger.Error("diagnostics close failed", "error", cerr)
	}
	s.opts.exit(1)
}

// SyncOne refreshes the bin's records with id from the engine.
func (s *Service) SyncOne(ctx context.Context, id int) ([]domain.Kind, error) {
	var synced []domain.Kind
	duration, err := s.instrument(ctx, "sync_one", func(context.Context) error {
		var err error
		synced, err = s.bin.SyncOneFromEngine(s.engine, id)
		return err
	})
	s.recordAudit(ctx, "sync_one", id, synced, duration, err)
	return synced, err
}

// MergePartial stores the records present in sys.
func (s *Service) MergePartial(ctx context.Context, sys domain.System) (int, error) {
	var n int
	_, err := s.instrument(ctx, "merge_partial", func(context.Context) error {
		var err error
		n, err = s.bin.MergePartial(sys)
		return err
	})
	return n, err
}

// ReadRaw reads raw blocks from r into the bin. Parser warnings are logged and
// reported as diagnostics warnings; they do not fail the read.
func (s *Service) ReadRaw(ctx context.Context, r io.Reader) (int, error) {
	var n int
	_, err := s.instrument(ctx, "read_raw", func(context.Context) error {
		p := rawcodec.NewParser(r, rawcodec.WithWarningHook(func(w rawcodec.Warning) {
			s.opts.logger.Warn("raw input anomaly skipped", "line", w.Line, "message", w.Message)
			if _, err := s.opts.reporter.AddWarning(w.String()); err != nil {
				s.opts.logger.Error("diagnostics write failed", "error", err)
			}
		}))
		var err error
		n, err = s.bin.ReadRaw(p)
		return err
	})
	return n, err
}

// DumpRaw writes the bin followed by an END line.
func (s *Service) DumpRaw(ctx context.Context, w io.Writer) error {
	_, err := s.instrument(ctx, "dump_raw", func(context.Context) error {
		return s.dump(w)
	})
	return err
}

func (s *Service) dump(w io.Writer) error {
	rw := rawcodec.NewWriter(w)
	if err := s.bin.DumpRaw(rw, 0); err != nil {
		return err
	}
	rw.Line(0, "END")
	return rw.Err()
}

// MaterializeMix resolves mix mixID with the service's policy and stores the
// result as solution targetID. Missing references are reported as diagnostics
// errors and leave the bin unchanged.
func (s *Service) MaterializeMix(ctx context.Context, mixID, targetID int) (*domain.Solution, error) {
	var out *domain.Solution
	duration, err := s.instrument(ctx, "materialize_mix", func(context.Context) error {
		var err error
		out, err = s.bin.MaterializeMix(mixID, targetID, s.opts.policy)
		return err
	})
	var kinds []domain.Kind
	if err == nil {
		kinds = []domain.Kind{domain.KindSolution}
	}
	s.recordAudit(ctx, "materialize_mix", targetID, kinds, duration, err)
	var missing ErrMissingReference
	if errors.As(err, &missing) {
		if _, rerr := s.opts.reporter.AddError(missing.Error()); rerr != nil {
			s.opts.logger.Error("diagnostics write failed", "error", rerr)
		}
	}
	return out, err
}

// ArchiveDump writes the current dump to the blob store under a new key.
func (s *Service) ArchiveDump(ctx context.Context) (blob.Info, error) {
	var info blob.Info
	_, err := s.instrument(ctx, "archive_dump", func(ctx context.Context) error {
		if s.opts.blobs == nil {
			return ErrNoBlobStore
		}
		var buf bytes.Buffer
		if err := s.dump(&buf); err != nil {
			return err
		}
		records := 0
		for _, kind := range domain.Kinds {
			records += s.bin.Len(kind)
		}
		var err error
		info, err = blob.NewArchive(s.opts.blobs, s.opts.clock.Now).Write(ctx, buf.Bytes(), records)
		return err
	})
	if err == nil {
		s.opts.logger.Info("archived dump", "key", info.Key, "bytes", info.Size)
	}
	return info, err
}

// RestoreArchive replaces the bin's contents with the dump stored at key.
func (s *Service) RestoreArchive(ctx context.Context, key string) (int, error) {
	var n int
	_, err := s.instrument(ctx, "restore_archive", func(ctx context.Context) error {
		if s.opts.blobs == nil {
			return ErrNoBlobStore
		}
		data, err := blob.NewArchive(s.opts.blobs, s.opts.clock.Now).Read(ctx, key)
		if err != nil {
			return fmt.Errorf("read archive %s: %w", key, err)
		}
		fresh := NewStorageBin()
		n, err = fresh.ReadRaw(rawcodec.NewParser(bytes.NewReader(data)))
		if err != nil {
			return err
		}
		s.bin = fresh
		return nil
	})
	return n, err
}

// SaveSnapshot stores the bin under name in the persistent store.
func (s *Service) SaveSnapshot(ctx context.Context, name string) error {
	_, err := s.instrument(ctx, "save_snapshot", func(ctx context.Context) error {
		if s.opts.store == nil {
			return ErrNoPersistentStore
		}
		return s.opts.store.Save(ctx, name, s.bin.Snapshot())
	})
	return err
}

// LoadSnapshot replaces the bin's contents with the snapshot stored under name.
func (s *Service) LoadSnapshot(ctx context.Context, name string) error {
	_, err := s.instrument(ctx, "load_snapshot", func(ctx context.Context) error {
		if s.opts.store == nil {
			return ErrNoPersistentStore
		}
		snap, err := s.opts.store.Load(ctx, name)
		if err != nil {
			return err
		}
		s.bin.Restore(snap)
		return nil
	})
	return err
}

// ListSnapshots describes the snapshots in the persistent store.
func (s *Service) ListSnapshots(ctx context.Context) ([]domain.SnapshotInfo, error) {
	var out []domain.SnapshotInfo
	_, err := s.instrument(ctx, "list_snapshots", func(ctx context.Context) error {
		if s.opts.store == nil {
			return ErrNoPersistentStore
		}
		var err error
		out, err = s.opts.store.List(ctx)
		return err
	})
	return out, err
}

// DeleteSnapshot removes the snapshot stored under name.
func (s *Service) DeleteSnapshot(ctx context.Context, name string) error {
	_, err := s.instrument(ctx, "delete_snapshot", func(ctx context.Context) error {
		if s.opts.store == nil {
			return ErrNoPersistentStore
		}
		return s.opts.store.Delete(ctx, name)
	})
	return err
}

// ListArchives returns the archived dumps, optionally restricted to one UTC day.
func (s *Service) ListArchives(ctx context.Context, day time.Time) ([]blob.Info, error) {
	var out []blob.Info
	_, err := s.instrument(ctx, "list_archives", func(ctx context.Context) error {
		if s.opts.blobs == nil {
			return ErrNoBlobStore
		}
		var err error
		out, err = blob.NewArchive(s.opts.blobs, s.opts.clock.Now).List(ctx, day)
		return err
	})
	return out, err
}

// Close releases the diagnostics sink and the persistent store.
func (s *Service) Close() error {
	var errs []error
	if err := s.opts.reporter.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.opts.store != nil {
		if err := s.opts.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
