package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/change"
	"github.com/dshills/markertrack/internal/engine/pointer"
)

// ErrInvalidScenario indicates a scenario that cannot be run.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a scripted run.
type Scenario struct {
	Name    string   `yaml:"name"`
	Text    *string  `yaml:"text,omitempty"`
	Length  *int64   `yaml:"length,omitempty"`
	Markers []Marker `yaml:"markers"`
	Steps   []Step   `yaml:"steps"`

	// Path is the file the scenario was loaded from, if any.
	Path string `yaml:"-"`
}

// Marker declares a pointer tracked from the start of the run.
type Marker struct {
	Name        string `yaml:"name"`
	Start       int64  `yaml:"start"`
	End         int64  `yaml:"end"`
	GreedyLeft  bool   `yaml:"greedy_left,omitempty"`
	GreedyRight bool   `yaml:"greedy_right,omitempty"`
	Surviving   *bool  `yaml:"surviving,omitempty"`
	Injected    bool   `yaml:"injected,omitempty"`
	Uncacheable bool   `yaml:"uncacheable,omitempty"`
}

// Range returns the marker's initial range.
func (m Marker) Range() buffer.Range {
	return buffer.NewRange(m.Start, m.End)
}

// Options returns the pointer options the marker declares.
func (m Marker) Options() []pointer.Option {
	var opts []pointer.Option
	if m.GreedyLeft || m.GreedyRight {
		opts = append(opts, pointer.WithGreedy(m.GreedyLeft, m.GreedyRight))
	}
	if m.Surviving != nil {
		opts = append(opts, pointer.WithSurviving(*m.Surviving))
	}
	if m.Injected {
		opts = append(opts, pointer.Injected())
	}
	if m.Uncacheable {
		opts = append(opts, pointer.Uncacheable())
	}
	return opts
}

// Step is a batch of edits followed by expectations.
type Step struct {
	Name   string           `yaml:"name,omitempty"`
	Edits  []Edit           `yaml:"edits"`
	Commit bool             `yaml:"commit,omitempty"`
	Expect map[string]*Span `yaml:"expect,omitempty"`
	Text   *string          `yaml:"expect_text,omitempty"`
}

// Span is an expected range written as [start, end].
type Span [2]int64

// Range returns the span as a buffer.Range.
func (s Span) Range() buffer.Range {
	return buffer.NewRange(s[0], s[1])
}

// Edit is one edit of a step. Exactly one field is set.
type Edit struct {
	Insert  *InsertOp  `yaml:"insert,omitempty"`
	Delete  *DeleteOp  `yaml:"delete,omitempty"`
	Replace *ReplaceOp `yaml:"replace,omitempty"`
	Move    *MoveOp    `yaml:"move,omitempty"`
	Length  *LengthOp  `yaml:"length,omitempty"`
}

// InsertOp inserts Text at At.
type InsertOp struct {
	At   int64  `yaml:"at"`
	Text string `yaml:"text"`
}

// DeleteOp removes [Start, End).
type DeleteOp struct {
	Start int64 `yaml:"start"`
	End   int64 `yaml:"end"`
}

// ReplaceOp replaces [Start, End) with Text.
type ReplaceOp struct {
	Start int64  `yaml:"start"`
	End   int64  `yaml:"end"`
	Text  string `yaml:"text"`
}

// MoveOp relocates [Start, End) to begin at Dest.
type MoveOp struct {
	Start int64 `yaml:"start"`
	End   int64 `yaml:"end"`
	Dest  int64 `yaml:"dest"`
}

// LengthOp replaces Old bytes at At with New bytes of unknown content.
type LengthOp struct {
	At  int64 `yaml:"at"`
	Old int64 `yaml:"old"`
	New int64 `yaml:"new"`
}

// Event converts the edit into a change event.
func (e Edit) Event() (change.Event, error) {
	var (
		ev change.Event
		n  int
	)
	if e.Insert != nil {
		ev, n = change.NewInsert(e.Insert.At, e.Insert.Text), n+1
	}
	if e.Delete != nil {
		ev, n = change.NewDelete(e.Delete.Start, e.Delete.End), n+1
	}
	if e.Replace != nil {
		ev, n = change.NewReplace(e.Replace.Start, e.Replace.End, e.Replace.Text), n+1
	}
	if e.Move != nil {
		ev, n = change.NewRetarget(e.Move.Start, e.Move.End, e.Move.Dest), n+1
	}
	if e.Length != nil {
		ev, n = change.NewLengthEdit(e.Length.At, e.Length.Old, e.Length.New), n+1
	}
	if n != 1 {
		return nil, fmt.Errorf("%w: edit must set exactly one operation, got %d", ErrInvalidScenario, n)
	}
	return ev, nil
}

// Validate checks the scenario's structure. Offsets are checked when the
// scenario runs.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if s.Text != nil && s.Length != nil {
		errs = append(errs, errors.New("text and length are mutually exclusive"))
	}
	if s.Length != nil && *s.Length < 0 {
		errs = append(errs, fmt.Errorf("negative length %d", *s.Length))
	}

	names := make(map[string]bool, len(s.Markers))
	for i, m := range s.Markers {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("marker %d: name is required", i))
		} else if names[m.Name] {
			errs = append(errs, fmt.Errorf("marker %q declared twice", m.Name))
		}
		names[m.Name] = true
		if !m.Range().IsValid() {
			errs = append(errs, fmt.Errorf("marker %q: invalid range %s", m.Name, m.Range()))
		}
	}

	for i, st := range s.Steps {
		for j, e := range st.Edits {
			if _, err := e.Event(); err != nil {
				errs = append(errs, fmt.Errorf("step %d edit %d: %w", i, j, err))
			}
		}
		for name, want := range st.Expect {
			if !names[name] {
				errs = append(errs, fmt.Errorf("step %d: expectation for unknown marker %q", i, name))
			}
			if want != nil && !want.Range().IsValid() {
				errs = append(errs, fmt.Errorf("step %d: invalid expected range for %q", i, name))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidScenario, s.Name, errors.Join(errs...))
	}
	return nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	return decode(bytes.NewReader(data))
}

// Load reads, decodes and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.Path = path
	return sc, nil
}

func decode(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}
