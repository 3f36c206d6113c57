package observability

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestCollectorRecordsFrames(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTelescopeCollector(reg)
	if err != nil {
		t.Fatalf("NewTelescopeCollector: %v", err)
	}

	c.ObserveFrame(10 * time.Millisecond)
	c.ObserveFrame(20 * time.Millisecond)
	c.ObserveOverrun()

	if got := testutil.ToFloat64(c.Frames); got != 2 {
		t.Errorf("telescope_frames_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Overruns); got != 1 {
		t.Errorf("telescope_frame_overruns_total = %v, want 1", got)
	}
	if got := histogramSampleCount(t, reg, "telescope_render_duration_seconds"); got != 2 {
		t.Errorf("telescope_render_duration_seconds sample_count = %d, want 2", got)
	}
}

func TestCollectorRecordsCommands(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTelescopeCollector(reg)
	if err != nil {
		t.Fatalf("NewTelescopeCollector: %v", err)
	}

	c.ObserveCommand("move")
	c.ObserveCommand("move")
	c.ObserveCommand("zoom")
	c.SetZoom(3.5)

	if got := testutil.ToFloat64(c.Commands.WithLabelValues("move")); got != 2 {
		t.Errorf("telescope_commands_total{command=move} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.Zoom); got != 3.5 {
		t.Errorf("telescope_zoom = %v, want 3.5", got)
	}
}

func TestCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewTelescopeCollector(reg)
	if err != nil {
		t.Fatalf("first NewTelescopeCollector: %v", err)
	}
	b, err := NewTelescopeCollector(reg)
	if err != nil {
		t.Fatalf("second NewTelescopeCollector: %v", err)
	}

	a.ObserveOverrun()
	if got := testutil.ToFloat64(b.Overruns); got != 1 {
		t.Errorf("reused overrun counter = %v, want 1", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *TelescopeCollector
	c.ObserveFrame(time.Millisecond)
	c.ObserveOverrun()
	c.ObserveCommand("move")
	c.SetZoom(2)
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTelescopeCollector(reg)
	if err != nil {
		t.Fatalf("NewTelescopeCollector: %v", err)
	}
	c.ObserveFrame(time.Millisecond)
	c.ObserveCommand("reset")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"telescope_frames_total",
		"telescope_frame_overruns_total",
		"telescope_render_duration_seconds",
		"telescope_zoom",
		`telescope_commands_total{command="reset"}`,
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("expected %q in /metrics output", metric)
		}
	}
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	_, span := Tracer().Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("noop provider produced a valid span context")
	}
	span.End()
	ShutdownWithTimeout(context.Background(), shutdown, nil)
}

func TestInitTracingStdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(context.Background(), TracingConfig{
		Enabled:     true,
		ServiceName: "test",
		Exporter:    "stdout",
		SampleRatio: 1,
		Writer:      &buf,
	}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}

	_, span := Tracer().Start(context.Background(), "telescope.frame")
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if !strings.Contains(buf.String(), "telescope.frame") {
		t.Errorf("exported spans missing telescope.frame:\n%s", buf.String())
	}
	// Leave a noop provider behind for other tests.
	if _, err := InitTracing(context.Background(), TracingConfig{}, nil); err != nil {
		t.Fatal(err)
	}
}

func TestInitTracingUnknownExporter(t *testing.T) {
	_, err := InitTracing(context.Background(), TracingConfig{Enabled: true, Exporter: "carrier-pigeon"}, nil)
	if err == nil {
		t.Error("InitTracing with unknown exporter succeeded, want error")
	}
}

func TestTracingConfigFromEnv(t *testing.T) {
	t.Setenv("LS_TELESCOPE_TRACING_ENABLED", "TRUE")
	t.Setenv("LS_TELESCOPE_TRACING_SAMPLE_RATIO", "0.25")

	cfg := TracingConfigFromEnv()
	if !cfg.Enabled || cfg.SampleRatio != 0.25 || cfg.Exporter != "stdout" || cfg.ServiceName != "ls-telescope" {
		t.Errorf("TracingConfigFromEnv = %+v", cfg)
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if h := m.GetHistogram(); h != nil {
				return sampleCount(h)
			}
		}
	}
	return 0
}

func sampleCount(h *dto.Histogram) uint64 {
	return h.GetSampleCount()
}
