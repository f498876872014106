package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dshills/markertrack/internal/config"
	"github.com/dshills/markertrack/internal/engine"
	"github.com/dshills/markertrack/internal/logging"
	"github.com/dshills/markertrack/internal/scenario"
	"github.com/dshills/markertrack/internal/watcher"
)

// errScenariosFailed is returned when at least one scenario did not pass.
var errScenariosFailed = errors.New("scenarios failed")

type runOptions struct {
	configPath  string
	watch       bool
	metricsAddr string
	logLevel    string
	jsonOutput  bool
}

// settings loads the configuration and applies flag overrides.
func (o *runOptions) settings() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (o *runOptions) run(cmd *cobra.Command, paths []string) error {
	cfg, err := o.settings()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
		Prefix: "markertrack",
	})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Metrics.Addr != "" {
		ms, err := serveMetrics(cfg.Metrics, logger)
		if err != nil {
			return err
		}
		defer ms.shutdown(context.Background())
	}

	runner := newRunner(cfg, logger)
	defer runner.Close()
	out := &printer{w: cmd.OutOrStdout(), json: o.jsonOutput}

	failed := 0
	for _, path := range paths {
		if !runFile(ctx, runner, path, out) {
			failed++
		}
	}

	if o.watch {
		return watchScenarios(ctx, runner, paths, cfg.Watch.Debounce.Duration, out, logger)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errScenariosFailed, failed, len(paths))
	}
	return nil
}

func newRunner(cfg config.Config, logger *slog.Logger) *scenario.Runner {
	docOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMetrics(cfg.Cache.Metrics),
	}
	if !cfg.Cache.Rebind {
		docOpts = append(docOpts, engine.WithResolver(nil))
	}
	return scenario.NewRunner(
		scenario.WithLogger(logger),
		scenario.WithDocumentOptions(docOpts...),
	)
}

// runFile loads and runs one scenario and prints the outcome. It reports
// whether the scenario passed.
func runFile(ctx context.Context, runner *scenario.Runner, path string, out *printer) bool {
	sc, err := scenario.Load(path)
	if err != nil {
		out.failure(path, err)
		return false
	}
	rep, err := runner.Run(ctx, sc)
	if err != nil {
		out.failure(path, err)
		return false
	}
	out.report(rep)
	return rep.Passed()
}

func watchScenarios(ctx context.Context, runner *scenario.Runner, paths []string, debounce time.Duration, out *printer, logger *slog.Logger) error {
	w, err := watcher.New(watcher.WithDebounce(debounce), watcher.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	for _, path := range paths {
		if err := w.Watch(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
	logger.Info("watching scenarios", "files", len(w.Files()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Op.Has(watcher.OpRemove) && !ev.Op.Has(watcher.OpCreate) {
				logger.Warn("scenario removed", "path", ev.Path)
				continue
			}
			logger.Debug("scenario changed", "path", ev.Path, "op", ev.Op)
			runFile(ctx, runner, ev.Path, out)
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// metricsServer serves the Prometheus registry over HTTP.
type metricsServer struct {
	srv    *http.Server
	addr   net.Addr
	logger *slog.Logger
}

// serveMetrics starts a Prometheus endpoint.
func serveMetrics(cfg config.MetricsConfig, logger *slog.Logger) (*metricsServer, error) {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())
	m := &metricsServer{
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		addr:   ln.Addr(),
		logger: logger,
	}

	go func() {
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", m.addr.String(), "path", cfg.Path)
	return m, nil
}

// shutdown stops the server, waiting at most two seconds for open
// connections.
func (m *metricsServer) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := m.srv.Shutdown(ctx); err != nil {
		m.logger.Warn("metrics server shutdown failed", "error", err)
	}
}

// printer writes reports as text or JSON lines.
type printer struct {
	w    io.Writer
	json bool
}

type failureLine struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func (p *printer) report(rep scenario.Report) {
	if p.json {
		_ = json.NewEncoder(p.w).Encode(rep)
		return
	}

	status := "PASS"
	if !rep.Passed() {
		status = "FAIL"
	}
	fmt.Fprintf(p.w, "%s %s (%d steps, %d events, %s)\n",
		status, rep.Scenario, rep.Steps, rep.Events, rep.Duration.Round(time.Microsecond))
	for _, f := range rep.Failures {
		fmt.Fprintf(p.w, "  %s\n", f)
	}
}

func (p *printer) failure(path string, err error) {
	if p.json {
		_ = json.NewEncoder(p.w).Encode(failureLine{Path: path, Error: err.Error()})
		return
	}
	fmt.Fprintf(p.w, "ERROR %s: %v\n", path, err)
}
