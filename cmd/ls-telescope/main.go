// Command ls-telescope simulates a remotely operated telescope: it renders the
// sky for the configured site and streams it while accepting pointing
// commands over HTTP and from a terminal console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/litescript/ls-telescope/internal/assistant"
	"github.com/litescript/ls-telescope/internal/astro"
	"github.com/litescript/ls-telescope/internal/catalog"
	"github.com/litescript/ls-telescope/internal/config"
	"github.com/litescript/ls-telescope/internal/control"
	"github.com/litescript/ls-telescope/internal/ephem"
	"github.com/litescript/ls-telescope/internal/logging"
	"github.com/litescript/ls-telescope/internal/observability"
	"github.com/litescript/ls-telescope/internal/pacer"
	"github.com/litescript/ls-telescope/internal/publish"
	"github.com/litescript/ls-telescope/internal/render"
	"github.com/litescript/ls-telescope/internal/sprites"
	"github.com/litescript/ls-telescope/internal/state"
	"github.com/litescript/ls-telescope/internal/telescope"
	"github.com/litescript/ls-telescope/internal/ui"
	"github.com/litescript/ls-telescope/internal/version"
)

const consoleLogFile = "ls-telescope.log"

type options struct {
	configPath string
	period     time.Duration
	ephem      string
	console    bool
	noise      bool
	mode       string
	httpAddr   string
	logLevel   string
	logFormat  string

	showVersion bool
}

// parseFlags parses command-line arguments into options.
func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("ls-telescope", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", config.DefaultPath, "Path to the JSON config file (created with defaults if missing)")
	fs.DurationVar(&opts.period, "period", 0, "Frame period override (e.g. 40ms); 0 uses FRAME_PERIOD")
	fs.StringVar(&opts.ephem, "ephem", "usno", "Ephemeris source (usno, offline)")
	fs.BoolVar(&opts.console, "console", true, "Run the operator console when stdout is a terminal")
	fs.BoolVar(&opts.noise, "noise", false, "Render a noise-textured sky background")
	fs.StringVar(&opts.mode, "assistant-mode", "spot", "Assistant mode (spot, filter)")
	fs.StringVar(&opts.httpAddr, "http", "", "HTTP listen address; overrides HTTP_ADDR")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")
	fs.BoolVar(&opts.showVersion, "version", false, "Print the version and exit")
	err := fs.Parse(args)
	return opts, err
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Println("ls-telescope", version.Version)
		return
	}

	logger := logging.NewWithFormat(logging.ParseLevel(opts.logLevel), logging.ParseFormat(opts.logFormat))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *logging.Logger) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.period > 0 {
		cfg.FramePeriod = opts.period.Seconds()
	}
	if opts.httpAddr != "" {
		cfg.HTTPAddr = opts.httpAddr
	}

	interactive := opts.console && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		// The console owns the terminal; logs go to a file.
		f, err := os.OpenFile(consoleLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open console log: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}
	logger.Info("%s v%s starting", cfg.TelescopeName, version.Version)

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), logger)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)

	site := astro.Observer{LatDeg: cfg.Latitude, LonDeg: cfg.Longitude}
	provider := ephem.New(ephem.ParseMode(opts.ephem))
	cat, err := catalog.Load(ctx, provider, site)
	if err != nil {
		return err
	}
	logger.Info("catalog: %d objects from %s (%d skipped)", cat.Len(), provider.Name(), cat.Skipped())

	loader := sprites.NewLoader(cfg.ResourceDir, sprites.DefaultBaseSize, logger.With("component", "sprites"))
	logger.Debug("sprites: %d loaded", loader.Load())

	metrics, err := observability.NewTelescopeCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	var background render.Background = render.FlatBackground{Color: render.SkyColor}
	if opts.noise {
		background = render.DefaultNoiseBackground(time.Now().UnixNano())
	}

	stateCfg := state.DefaultConfig()
	stateCfg.BaseFOVX, stateCfg.BaseFOVY, stateCfg.MaxZoom = cfg.FOVX, cfg.FOVY, cfg.MaxZoom
	scope := telescope.NewMock(telescope.Config{
		State:      stateCfg,
		Resolution: render.Resolution{Width: cfg.StreamWidth, Height: cfg.StreamHeight},
		Location:   site,
		Background: background,
		Sprites:    loader,
	}, cat, telescope.WithRecorder(metrics))

	overlay := assistant.New(scope, assistant.WithMode(assistant.ParseMode(opts.mode)))
	stream := publish.NewHTTPStream(publish.WithLogger(logger.With("component", "stream")))

	p := pacer.New(pacer.Config{
		Period:    cfg.Period(),
		Source:    overlay,
		Publisher: stream,
		Recorder:  metrics,
		Tracer:    observability.Tracer(),
		Logger:    logger.With("component", "pacer"),
	})

	mux := http.NewServeMux()
	control.NewServer(scope, overlay, p.Stats, logger.With("component", "control")).AttachRoutes(mux)
	stream.AttachRoutes(mux)
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		logger.Info("http: listening on %s (stream %s)", cfg.HTTPAddr, stream.ID())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("pacer: %w", err)
		}
	}()

	if interactive {
		prog := tea.NewProgram(ui.New(scope, p.Stats), tea.WithAltScreen(), tea.WithContext(ctx))
		go func() {
			if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				errCh <- fmt.Errorf("console: %w", err)
				return
			}
			cancel()
		}()
	}

	select {
	case <-ctx.Done():
		err = nil
	case err = <-errCh:
	}

	cancel()
	p.Stop()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("http shutdown: %v", serr)
	}
	stats := p.Stats()
	logger.Info("stopped after %d frames (%d overruns)", stats.Frames, stats.Overruns)
	return err
}
