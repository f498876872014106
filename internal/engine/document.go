package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/change"
	"github.com/dshills/markertrack/internal/engine/frozen"
	"github.com/dshills/markertrack/internal/engine/history"
	"github.com/dshills/markertrack/internal/engine/pointer"
	"github.com/dshills/markertrack/internal/engine/tracking"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in a document.
	ByteOffset = buffer.ByteOffset

	// Range represents a byte range in a document.
	Range = buffer.Range

	// Event is an edit applied to a document.
	Event = change.Event

	// Pointer is a range tracked in a document.
	Pointer = pointer.Pointer

	// Key identifies a cacheable pointer.
	Key = tracking.Key
)

// Document is a text with tracked pointers.
type Document struct {
	// mu serializes edits and commits against range queries. Queries
	// take the read lock so they never see a half-committed log.
	mu sync.RWMutex

	id   uuid.UUID
	name string

	log      *history.Log
	pointers *pointer.Manager
	cache    *tracking.Cache
	logger   *slog.Logger

	// Initialization
	initContent string
	initLength  ByteOffset
	resolver    pointer.Resolver
	metrics     bool
}

// New creates a document with the given options.
func New(opts ...Option) *Document {
	d := &Document{
		id:         uuid.New(),
		initLength: -1,
		resolver:   pointer.TextResolver,
		metrics:    true,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.name == "" {
		d.name = d.id.String()
	}
	d.logger = d.logger.With("document", d.name)

	var base *frozen.Snapshot
	if d.initLength >= 0 {
		base = frozen.NewLength(d.initLength)
	} else {
		base = frozen.New(d.initContent)
	}
	d.initContent = ""

	d.log = history.NewLog(base)
	d.pointers = pointer.NewManager(
		pointer.WithResolver(d.resolver),
		pointer.WithLogger(d.logger),
	)
	d.cache = tracking.New(d.pointers,
		tracking.WithLogger(d.logger),
		tracking.WithMetrics(d.metrics),
		tracking.WithName(d.name),
	)
	d.pointers.SetListener(d.cache)
	return d
}

// Close releases the metric series of the document's cache. The document
// remains usable but stops reporting metrics.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.Close()
}

// ID returns the document id.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Name returns the display name.
func (d *Document) Name() string {
	return d.name
}

// Text returns the current content. It is empty for content-agnostic
// documents.
func (d *Document) Text() string {
	return d.log.Current().Text()
}

// Len returns the current length in bytes.
func (d *Document) Len() ByteOffset {
	return d.log.Current().Len()
}

// HasText reports whether the document still carries its content.
func (d *Document) HasText() bool {
	return d.log.Current().HasText()
}

// Snapshot returns the current snapshot.
func (d *Document) Snapshot() *frozen.Snapshot {
	return d.log.Current()
}

// Insert inserts text at offset.
func (d *Document) Insert(offset ByteOffset, text string) error {
	return d.Apply(change.NewInsert(offset, text))
}

// Delete removes [start, end).
func (d *Document) Delete(start, end ByteOffset) error {
	return d.Apply(change.NewDelete(start, end))
}

// Replace replaces [start, end) with text.
func (d *Document) Replace(start, end ByteOffset, text string) error {
	return d.Apply(change.NewReplace(start, end, text))
}

// Move relocates [start, end) so that it begins at dest in the result.
func (d *Document) Move(start, end, dest ByteOffset) error {
	return d.Apply(change.NewRetarget(start, end, dest))
}

// Apply appends ev to the log. Invalid events leave the document
// unchanged.
func (d *Document) Apply(ev Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.log.Append(ev); err != nil {
		return fmt.Errorf("%s: %w", d.name, err)
	}
	return nil
}

// PendingEvents returns the number of events since the last commit.
func (d *Document) PendingEvents() int {
	return d.log.Len()
}

// Generation returns the number of commits so far.
func (d *Document) Generation() uint64 {
	return d.log.Generation()
}

// Track starts tracking r in the current text. Pending events are
// committed first so that r and the stored ranges share one baseline.
func (d *Document) Track(r Range, opts ...pointer.Option) (*Pointer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := buffer.CheckRange(r, d.log.Current().Len()); err != nil {
		return nil, fmt.Errorf("track %s: %w", r, err)
	}
	if err := d.commitLocked(); err != nil {
		return nil, err
	}
	return d.pointers.Create(r, opts...), nil
}

// Untrack stops tracking p.
func (d *Document) Untrack(p *Pointer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pointers.Remove(p) {
		return ErrNotTracked
	}
	d.cache.Invalidate()
	return nil
}

// Pointers returns the tracked pointers in creation order.
func (d *Document) Pointers() []*Pointer {
	return d.pointers.Pointers()
}

// Range returns p's range in the current text. The second result is
// false when p lost its position.
func (d *Document) Range(p *Pointer) (Range, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.isLive(p) {
		return Range{}, false, ErrNotTracked
	}
	view := d.log.View()
	if p.Key() == tracking.NoKey {
		r, ok := pointer.Uncached(p, view.Events)
		return r, ok, nil
	}
	r, ok, err := d.cache.UpdatedRange(p.Key(), view.Base, view.Events)
	if err != nil {
		return Range{}, false, fmt.Errorf("%s: %w", d.name, err)
	}
	return r, ok, nil
}

// Ranges returns the current range of every cacheable pointer that still
// has one, by key.
func (d *Document) Ranges() (map[Key]Range, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	view := d.log.View()
	set, err := d.cache.UpdatedRanges(view.Base, view.Events)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}
	return set.Ranges(), nil
}

// Commit stores the current ranges in the pointers, rebinds their
// targets, and starts a new log at the current text.
func (d *Document) Commit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commitLocked()
}

// commitLocked commits pending events (must hold lock).
func (d *Document) commitLocked() error {
	view := d.log.View()
	if err := d.cache.Commit(view.Base, view.Events); err != nil {
		return err
	}
	d.pointers.ReplayUncached(view.Events)
	d.log.Commit()

	if len(view.Events) > 0 {
		d.logger.Debug("committed events",
			"events", len(view.Events),
			"generation", view.Generation+1,
			"pointers", d.pointers.Len())
	}
	return nil
}

// Stats returns the cache counters.
func (d *Document) Stats() tracking.Stats {
	return d.cache.Stats()
}

func (d *Document) isLive(p *Pointer) bool {
	for _, q := range d.pointers.Pointers() {
		if q == p {
			return true
		}
	}
	return false
}
