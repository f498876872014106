package pointer

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/change"
	"github.com/dshills/markertrack/internal/engine/marker"
	"github.com/dshills/markertrack/internal/engine/tracking"
)

// RangeListener is notified when a pointer's range is set outside the
// cache. tracking.Cache implements it.
type RangeListener interface {
	RangeChanged(key tracking.Key)
}

// Manager owns the live pointers of one document.
// It implements tracking.Provider.
type Manager struct {
	mu       sync.RWMutex
	live     []*Pointer
	listener RangeListener

	nextKey  atomic.Uint64
	resolver Resolver
	logger   *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithResolver sets the resolver used for rebinding. Without one, stale
// targets are cleared.
func WithResolver(r Resolver) ManagerOption {
	return func(m *Manager) {
		m.resolver = r
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "pointer.Manager")
	return m
}

// SetListener sets the listener notified by Create and SetRange.
func (m *Manager) SetListener(l RangeListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = l
}

// Create adds a pointer at r. Pointers are regular (surviving, not
// greedy) unless configured otherwise.
func (m *Manager) Create(r buffer.Range, opts ...Option) *Pointer {
	p := &Pointer{
		key:       tracking.Key(m.nextKey.Add(1)),
		surviving: true,
		r:         r,
		hasRange:  true,
	}
	for _, opt := range opts {
		opt(p)
	}

	m.mu.Lock()
	m.live = append(m.live, p)
	l := m.listener
	m.mu.Unlock()

	if l != nil {
		l.RangeChanged(p.key)
	}
	return p
}

// SetRange stores r as p's range and notifies the listener.
func (m *Manager) SetRange(p *Pointer, r buffer.Range) {
	p.setRange(r, true)

	m.mu.RLock()
	l := m.listener
	m.mu.RUnlock()

	if l != nil {
		l.RangeChanged(p.key)
	}
}

// Remove drops p from the live set. It reports whether p was live.
func (m *Manager) Remove(p *Pointer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.Index(m.live, p)
	if i < 0 {
		return false
	}
	m.live = slices.Delete(m.live, i, i+1)
	return true
}

// Pointers returns the live pointers in creation order.
func (m *Manager) Pointers() []*Pointer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.live)
}

// Len returns the number of live pointers.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.live)
}

// LiveMarkers returns the cacheable pointers that have a range.
func (m *Manager) LiveMarkers() []tracking.Baseline {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]tracking.Baseline, 0, len(m.live))
	for _, p := range m.live {
		if p.key == tracking.NoKey {
			continue
		}
		if b, ok := p.baseline(); ok {
			out = append(out, b)
		}
	}
	return out
}

// ApplyResults stores the ranges of set into the pointers it covers and
// rebinds their targets. Pointers the set does not know are left alone.
func (m *Manager) ApplyResults(set tracking.RangeSet) {
	pointers := m.Pointers()

	var updated, lost, rebound, cleared int
	for _, p := range pointers {
		if p.key == tracking.NoKey || !set.Contains(p.key) {
			continue
		}
		r, ok := set.Lookup(p.key)
		p.setRange(r, ok)
		if !ok {
			lost++
			continue
		}
		updated++
		if p.rangeOnly {
			continue
		}
		switch m.rebind(p, set, r) {
		case rebindResolved:
			rebound++
		case rebindCleared:
			cleared++
		}
	}

	m.logger.Debug("applied ranges",
		"events", set.EventCount(),
		"updated", updated,
		"lost", lost,
		"rebound", rebound,
		"cleared", cleared)
}

// ReplayUncached moves every uncacheable pointer through events.
// The cache never sees these pointers, so their owner advances them
// whenever it commits events.
func (m *Manager) ReplayUncached(events []change.Event) {
	for _, p := range m.Pointers() {
		if p.key != tracking.NoKey {
			continue
		}
		b, ok := p.baseline()
		if !ok {
			continue
		}
		moved, ok := marker.Replay(b.Marker(), events)
		p.setRange(moved.Range, ok)
	}
}

// Uncached returns p's range after events, computed without the cache.
func Uncached(p *Pointer, events []change.Event) (buffer.Range, bool) {
	b, ok := p.baseline()
	if !ok {
		return buffer.Range{}, false
	}
	moved, ok := marker.Replay(b.Marker(), events)
	return moved.Range, ok
}

type rebindResult int

const (
	rebindKept rebindResult = iota
	rebindResolved
	rebindCleared
)

// rebind checks p's cached target against r and re-resolves it if needed.
func (m *Manager) rebind(p *Pointer, set tracking.RangeSet, r buffer.Range) rebindResult {
	cached := p.Target()
	if cached == nil {
		return rebindKept
	}
	if cached.Valid() {
		if tr, ok := cached.Range(); ok && tr == r {
			return rebindKept
		}
	}

	if m.resolver != nil {
		if t, ok := m.resolver.Resolve(set.Snapshot(), r); ok {
			p.CacheTarget(t)
			return rebindResolved
		}
	}
	p.CacheTarget(nil)
	return rebindCleared
}
