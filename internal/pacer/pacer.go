// Package pacer drives the fixed-period render and publish loop.
package pacer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/litescript/ls-telescope/internal/logging"
	"github.com/litescript/ls-telescope/internal/render"
)

// ErrRunning is returned by Run when the pacer is already running.
var ErrRunning = errors.New("pacer already running")

// Clock abstracts time so tests can drive the loop deterministically.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time                         { return time.Now() }
func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// WallClock is the real-time clock.
var WallClock Clock = wallClock{}

// FrameSource produces the next frame.
type FrameSource interface {
	Frame() render.Frame
}

// Publisher consumes frames. Publish must not block for long; it is called
// from the pacing loop.
type Publisher interface {
	Publish(render.Frame)
}

// Recorder observes loop timing.
type Recorder interface {
	ObserveFrame(d time.Duration)
	ObserveOverrun()
}

// State is the pacer lifecycle state.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Stats summarises the loop so far.
type Stats struct {
	Frames     uint64
	Overruns   uint64
	LastRender time.Duration
}

// Config configures a Pacer.
type Config struct {
	Period    time.Duration
	Source    FrameSource
	Publisher Publisher
	Recorder  Recorder
	Clock     Clock
	Tracer    trace.Tracer
	Logger    *logging.Logger
}

// Pacer renders and publishes one frame per period. A tick that takes at
// least a full period is counted as an overrun and the next tick starts
// immediately.
type Pacer struct {
	period    time.Duration
	source    FrameSource
	publisher Publisher
	recorder  Recorder
	clock     Clock
	tracer    trace.Tracer
	log       *logging.Logger

	mu     sync.Mutex
	state  State
	stats  Stats
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a stopped pacer.
func New(cfg Config) *Pacer {
	p := &Pacer{
		period:    cfg.Period,
		source:    cfg.Source,
		publisher: cfg.Publisher,
		recorder:  cfg.Recorder,
		clock:     cfg.Clock,
		tracer:    cfg.Tracer,
		log:       cfg.Logger,
	}
	if p.clock == nil {
		p.clock = WallClock
	}
	if p.tracer == nil {
		p.tracer = noop.NewTracerProvider().Tracer("")
	}
	if p.log == nil {
		p.log = logging.Discard()
	}
	return p
}

// State returns the lifecycle state.
func (p *Pacer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Stats returns a copy of the loop counters.
func (p *Pacer) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Run executes the loop until ctx is done or Stop is called. It returns nil
// on a clean stop.
func (p *Pacer) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.state == Running {
		p.mu.Unlock()
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	p.state = Running
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	defer func() {
		cancel()
		p.mu.Lock()
		p.state = Stopped
		p.cancel = nil
		p.mu.Unlock()
		close(done)
	}()

	p.log.Info("pacer started: period=%s", p.period)
	for {
		if ctx.Err() != nil {
			p.log.Info("pacer stopped after %d frames", p.Stats().Frames)
			return nil
		}

		wait := p.tick(ctx)
		if wait <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
		case <-p.clock.After(wait):
		}
	}
}

// tick produces and publishes one frame and returns how long to sleep.
func (p *Pacer) tick(ctx context.Context) time.Duration {
	_, span := p.tracer.Start(ctx, "telescope.frame")
	defer span.End()

	start := p.clock.Now()
	frame := p.source.Frame()
	if p.publisher != nil {
		p.publisher.Publish(frame)
	}
	elapsed := p.clock.Now().Sub(start)

	overrun := elapsed >= p.period
	span.SetAttributes(
		attribute.Int64("telescope.frame.elapsed_us", elapsed.Microseconds()),
		attribute.Bool("telescope.frame.overrun", overrun),
	)

	p.mu.Lock()
	p.stats.Frames++
	p.stats.LastRender = elapsed
	if overrun {
		p.stats.Overruns++
	}
	p.mu.Unlock()

	if p.recorder != nil {
		p.recorder.ObserveFrame(elapsed)
		if overrun {
			p.recorder.ObserveOverrun()
		}
	}

	if overrun {
		p.log.Debug("frame overrun: took %s, period %s", elapsed, p.period)
		return 0
	}
	return p.period - elapsed
}

// Stop cancels a running loop and waits for it to exit. It is a no-op when
// the pacer is stopped.
func (p *Pacer) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	running := p.state == Running
	p.mu.Unlock()

	if !running {
		return
	}
	cancel()
	<-done
}
