package history

import (
	"fmt"
	"sync"

	"github.com/dshills/markertrack/internal/engine/change"
	"github.com/dshills/markertrack/internal/engine/frozen"
)

// View is a consistent, immutable picture of a log.
type View struct {
	// Base is the snapshot the events start from.
	Base *frozen.Snapshot

	// Events are the events applied to Base, in order.
	// The slice must not be modified.
	Events []change.Event

	// Current is Base with every event applied.
	Current *frozen.Snapshot

	// Generation counts the commits that preceded this view.
	Generation uint64
}

// Log is an append-only, thread-safe event log over a base snapshot.
type Log struct {
	mu sync.RWMutex

	base       *frozen.Snapshot
	current    *frozen.Snapshot
	events     []change.Event
	generation uint64
}

// NewLog creates an empty log starting at base.
func NewLog(base *frozen.Snapshot) *Log {
	return &Log{
		base:    base,
		current: base,
	}
}

// Append validates ev against the current snapshot and logs it.
// It returns the snapshot after ev. Invalid events are rejected and the
// log is left unchanged.
func (l *Log) Append(ev change.Event) (*frozen.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, err := l.current.Apply(ev)
	if err != nil {
		return nil, fmt.Errorf("append event %d: %w", len(l.events), err)
	}
	l.events = append(l.events, ev)
	l.current = next
	return next, nil
}

// Events returns the events logged since the base snapshot.
// The returned slice is capped at its length, so later appends never
// become visible through it.
func (l *Log) Events() []change.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.eventsLocked()
}

// eventsLocked returns the capped event slice (must hold lock).
func (l *Log) eventsLocked() []change.Event {
	n := len(l.events)
	return l.events[:n:n]
}

// Len returns the number of events since the base snapshot.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Base returns the snapshot the log starts from.
func (l *Log) Base() *frozen.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.base
}

// Current returns the snapshot after every logged event.
func (l *Log) Current() *frozen.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Generation returns the number of commits so far.
func (l *Log) Generation() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.generation
}

// View returns base, events, and current snapshot as one consistent value.
func (l *Log) View() View {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return View{
		Base:       l.base,
		Events:     l.eventsLocked(),
		Current:    l.current,
		Generation: l.generation,
	}
}

// Commit makes the current snapshot the new base and empties the log.
// It returns the new base.
func (l *Log) Commit() *frozen.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.base = l.current.Restamp()
	l.current = l.base
	l.events = nil
	l.generation++
	return l.base
}
