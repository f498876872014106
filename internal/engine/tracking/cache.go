package tracking

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/change"
	"github.com/dshills/markertrack/internal/engine/frozen"
	"github.com/dshills/markertrack/internal/engine/marker"
)

// Stats is a point-in-time copy of a cache's counters.
type Stats struct {
	Hits           uint64
	Extensions     uint64
	Rebuilds       uint64
	Invalidations  uint64
	ReplayedEvents uint64
}

// Cache memoizes marker ranges for one document.
type Cache struct {
	provider Provider

	current atomic.Pointer[entry]
	mu      sync.Mutex

	logger  *slog.Logger
	name    string
	metrics bool
	closed  atomic.Bool

	hits          atomic.Uint64
	extensions    atomic.Uint64
	rebuilds      atomic.Uint64
	invalidations atomic.Uint64
	replayed      atomic.Uint64
}

// New creates a cache over the markers of provider.
func New(provider Provider, opts ...Option) *Cache {
	c := &Cache{
		provider: provider,
		logger:   slog.Default(),
		name:     DefaultName,
		metrics:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "tracking.Cache", "cache", c.name)
	return c
}

// UpdatedRanges returns the range of every live marker after events.
//
// base is the snapshot the provider's baseline ranges refer to and events
// is the complete log applied to it since. Successive calls for the same
// base must pass logs that extend each other.
func (c *Cache) UpdatedRanges(base *frozen.Snapshot, events []change.Event) (RangeSet, error) {
	if e := c.current.Load(); e != nil && e.matches(base, events) {
		c.hits.Add(1)
		c.countLookup(outcomeHit)
		return RangeSet{e}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedRangesLocked(base, events)
}

// UpdatedRange returns the range of one marker after events. The second
// result is false when the key is not tracked or the marker was destroyed.
func (c *Cache) UpdatedRange(key Key, base *frozen.Snapshot, events []change.Event) (buffer.Range, bool, error) {
	if key == NoKey {
		return buffer.Range{}, false, nil
	}
	set, err := c.UpdatedRanges(base, events)
	if err != nil {
		return buffer.Range{}, false, err
	}
	r, ok := set.Lookup(key)
	return r, ok, nil
}

// Invalidate drops the current entry. The next lookup rebuilds from the
// provider.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked(reasonExplicit)
}

// RangeChanged reports that the stored range of key changed outside the
// cache. The entry is dropped if it was built without key.
func (c *Cache) RangeChanged(key Key) {
	if key == NoKey {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e := c.current.Load(); e != nil {
		if _, ok := e.markers[key]; !ok {
			c.dropLocked(reasonRangeChanged)
		}
	}
}

// Commit computes the ranges after events, passes them to the provider's
// ApplyResults and drops the entry. Both steps run under the cache lock.
func (c *Cache) Commit(base *frozen.Snapshot, events []change.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, err := c.updatedRangesLocked(base, events)
	if err != nil {
		return fmt.Errorf("commit %s: %w", c.name, err)
	}
	c.provider.ApplyResults(set)
	c.dropLocked(reasonCommit)
	return nil
}

// Close drops the entry and deletes the metric series labelled with the
// cache's name. A closed cache still answers lookups but stops reporting
// metrics.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Swap(true) {
		return
	}
	c.current.Store(nil)
	if c.metrics {
		deleteSeries(c.name)
	}
}

// Stats returns the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:           c.hits.Load(),
		Extensions:     c.extensions.Load(),
		Rebuilds:       c.rebuilds.Load(),
		Invalidations:  c.invalidations.Load(),
		ReplayedEvents: c.replayed.Load(),
	}
}

// updatedRangesLocked serves a lookup (must hold lock).
func (c *Cache) updatedRangesLocked(base *frozen.Snapshot, events []change.Event) (RangeSet, error) {
	if base == nil {
		return RangeSet{}, ErrNilSnapshot
	}

	e := c.current.Load()
	if e != nil && e.base == base && e.count() <= len(events) {
		if i := e.divergence(events); i >= 0 {
			c.countLookup(outcomeError)
			c.logger.Warn("event log rewritten",
				"cached_events", e.count(),
				"requested_events", len(events),
				"index", i,
				"cached", e.events[i].String(),
				"requested", events[i].String())
			return RangeSet{}, fmt.Errorf("%w: event %d changed", ErrPrefixMismatch, i)
		}
		if e.count() == len(events) {
			c.hits.Add(1)
			c.countLookup(outcomeHit)
			return RangeSet{e}, nil
		}
		return c.store(outcomeExtend, func() (*entry, error) {
			return c.extend(e, events)
		})
	}

	if e != nil {
		c.logger.Debug("cached entry unusable",
			"cached_events", e.count(),
			"requested_events", len(events),
			"same_base", e.base == base)
	}
	return c.store(outcomeRebuild, func() (*entry, error) {
		return c.rebuild(base, events)
	})
}

// store runs build, publishes its entry and records the outcome
// (must hold lock).
func (c *Cache) store(outcome string, build func() (*entry, error)) (RangeSet, error) {
	start := time.Now()
	next, err := build()
	if err != nil {
		c.countLookup(outcomeError)
		return RangeSet{}, err
	}
	c.current.Store(next)

	switch outcome {
	case outcomeExtend:
		c.extensions.Add(1)
	case outcomeRebuild:
		c.rebuilds.Add(1)
	}
	c.countLookup(outcome)
	if c.reporting() {
		cacheReplayDuration.WithLabelValues(c.name, outcome).Observe(time.Since(start).Seconds())
	}
	return RangeSet{next}, nil
}

// extend replays the events after e's prefix over a copy of its markers.
func (c *Cache) extend(e *entry, events []change.Event) (*entry, error) {
	markers := maps.Clone(e.markers)
	result, err := c.replay(e.result, events[e.count():], e.count(), markers)
	if err != nil {
		return nil, err
	}
	return &entry{
		base:    e.base,
		events:  slices.Clone(events),
		markers: markers,
		result:  result,
	}, nil
}

// rebuild seeds markers from the provider and replays every event.
func (c *Cache) rebuild(base *frozen.Snapshot, events []change.Event) (*entry, error) {
	live := c.provider.LiveMarkers()
	markers := make(map[Key]tracked, len(live))
	for _, b := range live {
		if b.Key == NoKey {
			continue
		}
		if err := buffer.CheckRange(b.Range, base.Len()); err != nil {
			return nil, fmt.Errorf("baseline of key %d: %w", b.Key, err)
		}
		markers[b.Key] = tracked{marker: b.Marker(), alive: true}
	}

	result, err := c.replay(base, events, 0, markers)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("rebuilt marker ranges", "markers", len(markers), "events", len(events))

	return &entry{
		base:    base,
		events:  slices.Clone(events),
		markers: markers,
		result:  result,
	}, nil
}

// replay applies events to snap and to every live marker in markers.
// first is the log index of events[0], used in errors.
func (c *Cache) replay(snap *frozen.Snapshot, events []change.Event, first int, markers map[Key]tracked) (*frozen.Snapshot, error) {
	for i, ev := range events {
		next, err := snap.Apply(ev)
		if err != nil {
			return nil, &frozen.ReplayError{Index: first + i, Event: ev, Err: err}
		}
		for k, t := range markers {
			if !t.alive {
				continue
			}
			m, ok := marker.Update(t.marker, ev)
			markers[k] = tracked{marker: m, alive: ok}
		}
		snap = next
	}

	c.replayed.Add(uint64(len(events)))
	if c.reporting() {
		cacheReplayedEventsTotal.WithLabelValues(c.name).Add(float64(len(events)))
	}
	return snap, nil
}

// dropLocked clears the entry (must hold lock).
func (c *Cache) dropLocked(reason string) {
	if c.current.Swap(nil) == nil {
		return
	}
	c.invalidations.Add(1)
	if c.reporting() {
		cacheInvalidationsTotal.WithLabelValues(c.name, reason).Inc()
	}
	c.logger.Debug("dropped cached ranges", "reason", reason)
}

func (c *Cache) reporting() bool {
	return c.metrics && !c.closed.Load()
}

func (c *Cache) countLookup(outcome string) {
	if c.reporting() {
		cacheLookupsTotal.WithLabelValues(c.name, outcome).Inc()
	}
}
