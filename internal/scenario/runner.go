package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/markertrack/internal/engine"
	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/tracking"
)

const tracerName = "markertrack.scenario"

// Failure is an expectation that did not hold.
type Failure struct {
	Step     int           `json:"step"`
	StepName string        `json:"step_name,omitempty"`
	Marker   string        `json:"marker,omitempty"`
	Want     *buffer.Range `json:"want,omitempty"`
	Got      *buffer.Range `json:"got,omitempty"`
	Message  string        `json:"message"`
}

// String returns a one-line description of the failure.
func (f Failure) String() string {
	if f.StepName != "" {
		return fmt.Sprintf("step %d (%s): %s", f.Step, f.StepName, f.Message)
	}
	return fmt.Sprintf("step %d: %s", f.Step, f.Message)
}

// Report is the outcome of one scenario run.
type Report struct {
	Scenario string                   `json:"scenario"`
	Path     string                   `json:"path,omitempty"`
	Steps    int                      `json:"steps"`
	Events   int                      `json:"events"`
	Failures []Failure                `json:"failures,omitempty"`
	Final    map[string]*buffer.Range `json:"final"`
	Stats    tracking.Stats           `json:"stats"`
	Duration time.Duration            `json:"duration"`
}

// Passed reports whether every expectation held.
func (r Report) Passed() bool {
	return len(r.Failures) == 0
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTracerProvider sets the tracer provider. The default is the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) RunnerOption {
	return func(r *Runner) {
		if tp != nil {
			r.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDocumentOptions adds options to every document the runner creates.
func WithDocumentOptions(opts ...engine.Option) RunnerOption {
	return func(r *Runner) {
		r.docOpts = append(r.docOpts, opts...)
	}
}

// Runner executes scenarios. The document of the latest run of each
// scenario stays open, so its cache metrics remain visible until the
// scenario runs again or the runner is closed.
type Runner struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	docOpts []engine.Option

	registry *engine.Registry
	mu       sync.Mutex
	latest   map[string]uuid.UUID
}

// NewRunner creates a runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		tracer:   otel.Tracer(tracerName),
		logger:   slog.Default(),
		registry: engine.NewRegistry(),
		latest:   make(map[string]uuid.UUID),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "scenario.Runner")
	return r
}

// Run executes sc. Failed expectations are recorded in the report; an
// error is returned only when the scenario cannot be executed, such as an
// edit outside the document or a cancelled context.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (rep Report, err error) {
	ctx, span := r.tracer.Start(ctx, "scenario.Run", trace.WithAttributes(
		attribute.String("scenario.name", sc.Name),
		attribute.Int("scenario.markers", len(sc.Markers)),
		attribute.Int("scenario.steps", len(sc.Steps)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("scenario.failures", len(rep.Failures)))
			if !rep.Passed() {
				span.SetStatus(codes.Error, "expectations failed")
			}
		}
		span.End()
	}()

	start := time.Now()
	rep = Report{Scenario: sc.Name, Path: sc.Path}

	if err := sc.Validate(); err != nil {
		return rep, err
	}

	doc := r.open(sc)
	pointers := make(map[string]*engine.Pointer, len(sc.Markers))
	for _, m := range sc.Markers {
		p, err := doc.Track(m.Range(), m.Options()...)
		if err != nil {
			return rep, fmt.Errorf("marker %q: %w", m.Name, err)
		}
		pointers[m.Name] = p
	}

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		failures, err := r.runStep(ctx, doc, pointers, i, st)
		if err != nil {
			return rep, err
		}
		rep.Steps++
		rep.Events += len(st.Edits)
		rep.Failures = append(rep.Failures, failures...)
	}

	rep.Final = make(map[string]*buffer.Range, len(pointers))
	for name, p := range pointers {
		got, ok, err := doc.Range(p)
		if err != nil {
			return rep, fmt.Errorf("final range of %q: %w", name, err)
		}
		if ok {
			rep.Final[name] = &got
		} else {
			rep.Final[name] = nil
		}
	}
	rep.Stats = doc.Stats()
	rep.Duration = time.Since(start)

	r.logger.Debug("scenario finished",
		"scenario", sc.Name,
		"steps", rep.Steps,
		"failures", len(rep.Failures),
		"duration", rep.Duration)
	return rep, nil
}

// Close closes every document kept by the runner.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, id := range r.latest {
		_ = r.registry.Close(id)
		delete(r.latest, name)
	}
}

// open creates the document for sc, closing the one of its previous run.
func (r *Runner) open(sc *Scenario) *engine.Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.latest[sc.Name]; ok {
		_ = r.registry.Close(id)
	}
	doc := r.registry.Open(r.documentOptions(sc)...)
	r.latest[sc.Name] = doc.ID()
	return doc
}

func (r *Runner) documentOptions(sc *Scenario) []engine.Option {
	opts := slices.Clone(r.docOpts)
	opts = append(opts, engine.WithName(sc.Name), engine.WithLogger(r.logger))
	switch {
	case sc.Length != nil:
		opts = append(opts, engine.WithLength(*sc.Length))
	case sc.Text != nil:
		opts = append(opts, engine.WithContent(*sc.Text))
	}
	return opts
}

// runStep applies one step and checks its expectations.
func (r *Runner) runStep(ctx context.Context, doc *engine.Document, pointers map[string]*engine.Pointer, index int, st Step) ([]Failure, error) {
	_, span := r.tracer.Start(ctx, "scenario.Step", trace.WithAttributes(
		attribute.Int("step.index", index),
		attribute.String("step.name", st.Name),
		attribute.Int("step.edits", len(st.Edits)),
		attribute.Bool("step.commit", st.Commit),
	))
	defer span.End()

	stepErr := func(err error) error {
		if st.Name != "" {
			err = fmt.Errorf("step %d (%s): %w", index, st.Name, err)
		} else {
			err = fmt.Errorf("step %d: %w", index, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	for j, e := range st.Edits {
		ev, err := e.Event()
		if err != nil {
			return nil, stepErr(fmt.Errorf("edit %d: %w", j, err))
		}
		if err := doc.Apply(ev); err != nil {
			return nil, stepErr(fmt.Errorf("edit %d %s: %w", j, ev, err))
		}
	}
	if st.Commit {
		if err := doc.Commit(); err != nil {
			return nil, stepErr(fmt.Errorf("commit: %w", err))
		}
	}

	var failures []Failure
	fail := func(f Failure) {
		f.Step = index
		f.StepName = st.Name
		failures = append(failures, f)
		span.AddEvent("expectation failed", trace.WithAttributes(
			attribute.String("marker", f.Marker),
			attribute.String("message", f.Message),
		))
	}

	if st.Text != nil {
		if doc.HasText() && doc.Text() != *st.Text {
			fail(Failure{Message: fmt.Sprintf("text = %q, want %q", doc.Text(), *st.Text)})
		}
	}

	names := make([]string, 0, len(st.Expect))
	for name := range st.Expect {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		want := st.Expect[name]
		got, ok, err := doc.Range(pointers[name])
		if err != nil {
			return nil, stepErr(fmt.Errorf("range of %q: %w", name, err))
		}

		switch {
		case want == nil && ok:
			fail(Failure{Marker: name, Got: &got, Message: fmt.Sprintf("%s = %s, want no range", name, got)})
		case want != nil && !ok:
			w := want.Range()
			fail(Failure{Marker: name, Want: &w, Message: fmt.Sprintf("%s has no range, want %s", name, w)})
		case want != nil && got != want.Range():
			w := want.Range()
			fail(Failure{Marker: name, Want: &w, Got: &got, Message: fmt.Sprintf("%s = %s, want %s", name, got, w)})
		}
	}

	span.SetAttributes(attribute.Int("step.failures", len(failures)))
	return failures, nil
}
