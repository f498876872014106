package pointer

import (
	"fmt"
	"sync"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/tracking"
)

// Pointer is a tracked range of a document.
type Pointer struct {
	key         tracking.Key
	greedyLeft  bool
	greedyRight bool
	surviving   bool
	rangeOnly   bool

	mu       sync.Mutex
	r        buffer.Range
	hasRange bool
	target   Target
}

// Key returns the pointer's cache key. Uncacheable pointers return
// tracking.NoKey.
func (p *Pointer) Key() tracking.Key {
	return p.key
}

// Range returns the last stored range. The second result is false once
// the pointer lost its position.
func (p *Pointer) Range() (buffer.Range, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r, p.hasRange
}

// Target returns the cached target, or nil.
func (p *Pointer) Target() Target {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

// CacheTarget sets the cached target. A nil target clears it.
func (p *Pointer) CacheTarget(t Target) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.target = t
}

// Greedy returns the pointer's greedy flags.
func (p *Pointer) Greedy() (left, right bool) {
	return p.greedyLeft, p.greedyRight
}

// Surviving reports whether the pointer survives being swallowed.
func (p *Pointer) Surviving() bool {
	return p.surviving
}

// IsRangeOnly reports whether the pointer is never rebound.
func (p *Pointer) IsRangeOnly() bool {
	return p.rangeOnly
}

// String returns a human-readable representation of the pointer.
func (p *Pointer) String() string {
	r, ok := p.Range()
	if !ok {
		return fmt.Sprintf("Pointer(%d, <none>)", p.key)
	}
	return fmt.Sprintf("Pointer(%d, %s)", p.key, r)
}

func (p *Pointer) setRange(r buffer.Range, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.r = r
	p.hasRange = ok
}

// baseline returns the pointer as a tracking baseline, if it has a range.
func (p *Pointer) baseline() (tracking.Baseline, bool) {
	r, ok := p.Range()
	if !ok {
		return tracking.Baseline{}, false
	}
	return tracking.Baseline{
		Key:         p.key,
		Range:       r,
		GreedyLeft:  p.greedyLeft,
		GreedyRight: p.greedyRight,
		Surviving:   p.surviving,
	}, true
}

// Option configures a Pointer at creation.
type Option func(*Pointer)

// WithGreedy sets whether insertions at the start and end are absorbed.
func WithGreedy(left, right bool) Option {
	return func(p *Pointer) {
		p.greedyLeft = left
		p.greedyRight = right
	}
}

// WithSurviving sets whether the pointer survives being swallowed.
func WithSurviving(surviving bool) Option {
	return func(p *Pointer) {
		p.surviving = surviving
	}
}

// Injected configures a pointer into injected content: greedy on both
// sides and destroyed when swallowed.
func Injected() Option {
	return func(p *Pointer) {
		p.greedyLeft = true
		p.greedyRight = true
		p.surviving = false
	}
}

// Uncacheable excludes the pointer from caching.
func Uncacheable() Option {
	return func(p *Pointer) {
		p.key = tracking.NoKey
	}
}

// RangeOnly marks a pointer that tracks a range but is never rebound.
func RangeOnly() Option {
	return func(p *Pointer) {
		p.rangeOnly = true
	}
}

// WithTarget sets the initially cached target.
func WithTarget(t Target) Option {
	return func(p *Pointer) {
		p.target = t
	}
}
