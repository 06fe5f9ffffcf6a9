package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"chemstate/pkg/domain"
)

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAuditRecorder) has(op string, status AuditStatus, predicate func(AuditEntry) bool) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			if predicate == nil || predicate(entry) {
				return true
			}
		}
	}
	return false
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

type spanRecord struct {
	op  string
	err error
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op && (record.err == nil) == success {
			return true
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

func TestNoopObservability(_ *testing.T) {
	logger := noopLogger{}
	logger.Debug("debug", "key", "value")
	logger.Info("info", "key", "value")
	logger.Warn("warn", "key", "value")
	logger.Error("error", "key", "value")

	ctx, span := noopTracer{}.Start(context.Background(), "op")
	span.End(nil)
	noopMetricsRecorder{}.Observe(ctx, "op", true, time.Millisecond)
	noopAuditRecorder{}.Record(ctx, AuditEntry{})
}

func TestExpvarMetricsRecorderPublishes(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	rec.Observe(context.Background(), "dump_raw", true, 2*time.Millisecond)
	rec.Observe(context.Background(), "dump_raw", false, time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Millisecond)
	rec.SetEntities(domain.KindMix, 4)

	v := expvar.Get(rec.Name())
	if v == nil {
		t.Fatalf("expected expvar %s", rec.Name())
	}
	var snap ExpvarMetricsSnapshot
	if err := json.Unmarshal([]byte(v.String()), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Results["dump_raw"]["success"] != 1 || snap.Results["dump_raw"]["error"] != 1 {
		t.Fatalf("unexpected results %+v", snap.Results)
	}
	if snap.DurationsMS["dump_raw"] != 3 {
		t.Fatalf("expected 3ms total, got %v", snap.DurationsMS["dump_raw"])
	}
	if snap.Entities[domain.KindMix] != 4 || len(snap.Results) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestJSONTracerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	calls := 0
	tracer.now = func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * 5 * time.Millisecond)
	}

	_, span := tracer.Start(context.Background(), "read_raw")
	span.End(errors.New("boom"))

	entries := tracer.Entries()
	if len(entries) != 1 || entries[0].Status != "error" || entries[0].Error != "boom" || entries[0].DurationMS != 5 {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if !strings.Contains(buf.String(), `"operation":"read_raw"`) {
		t.Fatalf("expected JSON line, got %q", buf.String())
	}

	silent := NewJSONTracer(nil)
	_, span = silent.Start(context.Background(), "dump_raw")
	span.End(nil)
	if len(silent.Entries()) != 1 {
		t.Fatalf("expected retained span")
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	rec := NewPrometheusMetricsRecorder("")
	rec.Observe(context.Background(), "import_all", true, 10*time.Millisecond)
	rec.Observe(context.Background(), "import_all", false, time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Millisecond)
	rec.SetEntities(domain.KindSolution, 3)

	if got := testutil.ToFloat64(rec.operations.WithLabelValues("import_all", "success")); got != 1 {
		t.Fatalf("expected one success, got %v", got)
	}
	if got := testutil.ToFloat64(rec.entities.WithLabelValues("solution")); got != 3 {
		t.Fatalf("expected gauge 3, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.operations); n != 2 {
		t.Fatalf("expected 2 series, got %d", n)
	}
	var m dto.Metric
	hist, err := rec.durations.GetMetricWithLabelValues("import_all")
	if err != nil {
		t.Fatalf("histogram: %v", err)
	}
	if err := hist.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if got := m.GetHistogram().GetSampleCount(); got != 2 {
		t.Fatalf("expected 2 duration samples, got %d", got)
	}

	var buf bytes.Buffer
	if err := rec.WriteText(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	text := buf.String()
	for _, want := range []string{
		"chemstate_service_operations_total",
		"chemstate_service_operation_duration_seconds_bucket",
		`chemstate_store_entities{kind="solution"} 3`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
	if rec.Registry() == nil {
		t.Fatalf("expected registry")
	}
}
