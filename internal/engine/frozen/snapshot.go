package frozen

import (
	"fmt"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/change"
	"github.com/dshills/markertrack/internal/engine/rope"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Snapshot is an immutable document state.
type Snapshot struct {
	length  ByteOffset
	stamp   int
	hasText bool
	content rope.Rope
}

// New creates a content-bearing snapshot holding text.
func New(text string) *Snapshot {
	return &Snapshot{
		length:  ByteOffset(len(text)),
		hasText: true,
		content: rope.FromString(text),
	}
}

// NewLength creates a content-agnostic snapshot of the given length.
func NewLength(length ByteOffset) *Snapshot {
	if length < 0 {
		panic(fmt.Sprintf("frozen: negative snapshot length %d", length))
	}
	return &Snapshot{length: length}
}

// Len returns the byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return s.length
}

// Stamp returns the number of events applied since the snapshot chain's
// origin. New and NewLength create snapshots with stamp 0.
func (s *Snapshot) Stamp() int {
	return s.stamp
}

// HasText reports whether the snapshot carries its content.
func (s *Snapshot) HasText() bool {
	return s.hasText
}

// Text returns the full content. It is empty for content-agnostic snapshots.
func (s *Snapshot) Text() string {
	if !s.hasText {
		return ""
	}
	return s.content.String()
}

// Slice returns the content in r, or "" for content-agnostic snapshots.
func (s *Snapshot) Slice(r buffer.Range) string {
	if !s.hasText {
		return ""
	}
	return s.content.Slice(r.Start, r.End)
}

// Restamp returns a snapshot with the same content and stamp 0. It marks a
// new origin, e.g. after the events leading to s have been committed.
func (s *Snapshot) Restamp() *Snapshot {
	if s.stamp == 0 {
		return s
	}
	c := *s
	c.stamp = 0
	return &c
}

// Apply returns the snapshot produced by ev. The event must be valid for
// this snapshot; offsets outside its bounds are reported as an error
// wrapping buffer.ErrOffsetOutOfRange and no snapshot is produced.
func (s *Snapshot) Apply(ev change.Event) (*Snapshot, error) {
	if err := ev.Validate(s.length); err != nil {
		return nil, err
	}

	next := &Snapshot{
		length:  s.length + ev.Delta(),
		stamp:   s.stamp + 1,
		hasText: s.hasText,
		content: s.content,
	}

	switch e := ev.(type) {
	case change.TextEdit:
		if !next.hasText {
			break
		}
		if !e.HasText() {
			next.hasText = false
			next.content = rope.Rope{}
			break
		}
		next.content = s.content.Replace(e.Offset, e.Offset+e.OldLength, e.Text)
	case change.Retarget:
		if !next.hasText || e.Len() == 0 {
			break
		}
		block := s.content.Slice(e.Start, e.End)
		next.content = s.content.Delete(e.Start, e.End).Insert(e.Destination, block)
	default:
		return nil, fmt.Errorf("frozen: unsupported event %T", ev)
	}

	return next, nil
}

// ApplyAll applies events in order and returns the final snapshot.
// On failure it reports the index of the offending event.
func (s *Snapshot) ApplyAll(events []change.Event) (*Snapshot, error) {
	cur := s
	for i, ev := range events {
		next, err := cur.Apply(ev)
		if err != nil {
			return nil, &ReplayError{Index: i, Event: ev, Err: err}
		}
		cur = next
	}
	return cur, nil
}

// ReplayError reports the event of a replay that could not be applied.
type ReplayError struct {
	Index int
	Event change.Event
	Err   error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replaying event %d (%s): %v", e.Index, e.Event, e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}
