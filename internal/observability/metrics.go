// Package observability wires Prometheus metrics and OpenTelemetry tracing
// for the telescope.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TelescopeCollector bundles the telescope's Prometheus metrics. It satisfies
// the pacer's recorder and the telescope's command recorder.
type TelescopeCollector struct {
	gatherer prometheus.Gatherer

	Frames         prometheus.Counter
	Overruns       prometheus.Counter
	RenderDuration prometheus.Histogram
	Zoom           prometheus.Gauge
	Commands       *prometheus.CounterVec
}

// NewTelescopeCollector registers telescope metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewTelescopeCollector(reg prometheus.Registerer) (*TelescopeCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "telescope_frames_total",
		Help: "Total number of frames rendered and published.",
	}), "telescope_frames_total")
	if err != nil {
		return nil, err
	}

	overruns, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "telescope_frame_overruns_total",
		Help: "Frames whose render and publish took at least one frame period.",
	}), "telescope_frame_overruns_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "telescope_render_duration_seconds",
		Help:    "Time spent producing and publishing one frame.",
		Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}), "telescope_render_duration_seconds")
	if err != nil {
		return nil, err
	}

	zoom, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "telescope_zoom",
		Help: "Current zoom factor.",
	}), "telescope_zoom")
	if err != nil {
		return nil, err
	}

	commands, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telescope_commands_total",
		Help: "Pointing commands applied, labeled by command.",
	}, []string{"command"}), "telescope_commands_total")
	if err != nil {
		return nil, err
	}

	return &TelescopeCollector{
		gatherer:       gatherer,
		Frames:         frames,
		Overruns:       overruns,
		RenderDuration: durations,
		Zoom:           zoom,
		Commands:       commands,
	}, nil
}

// ObserveFrame records one completed tick.
func (c *TelescopeCollector) ObserveFrame(d time.Duration) {
	if c == nil {
		return
	}
	c.Frames.Inc()
	c.RenderDuration.Observe(d.Seconds())
}

// ObserveOverrun records a tick that used up its whole period.
func (c *TelescopeCollector) ObserveOverrun() {
	if c == nil {
		return
	}
	c.Overruns.Inc()
}

// ObserveCommand counts an applied command.
func (c *TelescopeCollector) ObserveCommand(name string) {
	if c == nil {
		return
	}
	c.Commands.WithLabelValues(name).Inc()
}

// SetZoom updates the zoom gauge.
func (c *TelescopeCollector) SetZoom(zoom float64) {
	if c == nil {
		return
	}
	c.Zoom.Set(zoom)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *TelescopeCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
