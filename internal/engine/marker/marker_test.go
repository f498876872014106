package marker

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/change"
)

type flags struct {
	left, right, surviving bool
}

func mk(start, end ByteOffset, f flags) RangeMarker {
	return New(buffer.NewRange(start, end), f.left, f.right, f.surviving)
}

func TestUpdateTextEdit(t *testing.T) {
	plain := flags{}
	greedyRight := flags{right: true}
	greedyLeft := flags{left: true}
	surviving := flags{surviving: true}

	tests := []struct {
		name      string
		marker    RangeMarker
		edit      change.TextEdit
		want      Range
		destroyed bool
	}{
		{"insert before", mk(10, 20, plain), change.NewLengthEdit(5, 0, 3), buffer.NewRange(13, 23), false},
		{"insert after", mk(10, 20, plain), change.NewLengthEdit(25, 0, 3), buffer.NewRange(10, 20), false},
		{"insert at end greedy", mk(10, 20, greedyRight), change.NewLengthEdit(20, 0, 5), buffer.NewRange(10, 25), false},
		{"insert at end not greedy", mk(10, 20, plain), change.NewLengthEdit(20, 0, 5), buffer.NewRange(10, 20), false},
		{"insert at start greedy", mk(10, 20, greedyLeft), change.NewLengthEdit(10, 0, 5), buffer.NewRange(10, 25), false},
		{"insert at start not greedy", mk(10, 20, plain), change.NewLengthEdit(10, 0, 5), buffer.NewRange(15, 25), false},
		{"insert inside", mk(10, 20, plain), change.NewLengthEdit(15, 0, 5), buffer.NewRange(10, 25), false},
		{"delete inside", mk(10, 20, plain), change.NewDelete(12, 15), buffer.NewRange(10, 17), false},
		{"delete prefix", mk(10, 20, plain), change.NewDelete(5, 12), buffer.NewRange(5, 13), false},
		{"delete suffix", mk(10, 20, plain), change.NewDelete(15, 25), buffer.NewRange(10, 15), false},
		{"replace prefix", mk(10, 20, plain), change.NewLengthEdit(8, 4, 2), buffer.NewRange(10, 18), false},
		{"delete starting at end", mk(10, 20, plain), change.NewDelete(20, 25), buffer.NewRange(10, 20), false},
		{"delete ending at start", mk(10, 20, plain), change.NewDelete(5, 10), buffer.NewRange(5, 15), false},
		{"replace exact span", mk(10, 20, plain), change.NewLengthEdit(10, 10, 3), buffer.NewRange(10, 13), false},
		{"delete exact span", mk(10, 20, plain), change.NewDelete(10, 20), buffer.NewRange(10, 10), false},
		{"swallowed by delete", mk(10, 20, plain), change.NewDelete(5, 25), Range{}, true},
		{"swallowed by delete surviving", mk(10, 20, surviving), change.NewDelete(5, 25), Range{}, true},
		{"swallowed by replace", mk(10, 20, plain), change.NewLengthEdit(5, 20, 4), Range{}, true},
		{"swallowed by replace surviving", mk(10, 20, surviving), change.NewLengthEdit(5, 20, 4), buffer.NewRange(5, 9), false},
		{"swallowed one side flush surviving", mk(10, 20, surviving), change.NewLengthEdit(10, 15, 2), buffer.NewRange(10, 12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Update(tt.marker, tt.edit)
			if tt.destroyed {
				assert.False(t, ok, "expected marker to be destroyed, got %v", got)
				return
			}
			require.True(t, ok, "marker unexpectedly destroyed")
			assert.Equal(t, tt.want, got.Range)
			assert.Equal(t, tt.marker.GreedyLeft, got.GreedyLeft, "flags must be preserved")
			assert.Equal(t, tt.marker.Surviving, got.Surviving, "flags must be preserved")
		})
	}
}

func TestUpdateEmptyMarker(t *testing.T) {
	tests := []struct {
		name      string
		marker    RangeMarker
		edit      change.TextEdit
		want      Range
		destroyed bool
	}{
		{"insert at point", mk(10, 10, flags{}), change.NewLengthEdit(10, 0, 5), buffer.PointRange(10), false},
		{"insert at point greedy right", mk(10, 10, flags{right: true}), change.NewLengthEdit(10, 0, 5), buffer.NewRange(10, 15), false},
		{"insert at point greedy left only", mk(10, 10, flags{left: true}), change.NewLengthEdit(10, 0, 5), buffer.NewRange(10, 15), false},
		{"insert before", mk(10, 10, flags{}), change.NewLengthEdit(5, 0, 5), buffer.PointRange(15), false},
		{"delete ending at point", mk(10, 10, flags{}), change.NewDelete(5, 10), buffer.PointRange(5), false},
		{"delete starting at point", mk(10, 10, flags{}), change.NewDelete(10, 15), buffer.PointRange(10), false},
		{"delete around point", mk(10, 10, flags{surviving: true}), change.NewDelete(5, 15), Range{}, true},
		{"replace around point surviving", mk(10, 10, flags{surviving: true}), change.NewLengthEdit(5, 10, 2), buffer.NewRange(5, 7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Update(tt.marker, tt.edit)
			if tt.destroyed {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Range)
		})
	}
}

func TestUpdateRetarget(t *testing.T) {
	// "0123456789" with "234" moved to the end gives "0156789234".
	forward := change.NewRetarget(2, 5, 7)

	tests := []struct {
		name   string
		marker RangeMarker
		ev     change.Retarget
		want   Range
	}{
		{"inside block", mk(3, 5, flags{}), forward, buffer.NewRange(8, 10)},
		{"whole block", mk(2, 5, flags{}), forward, buffer.NewRange(7, 10)},
		{"before block", mk(0, 2, flags{}), forward, buffer.NewRange(0, 2)},
		{"between block and destination", mk(6, 9, flags{}), forward, buffer.NewRange(3, 6)},
		{"at destination", mk(8, 10, flags{}), forward, buffer.NewRange(5, 7)},
		{"overlapping block start", mk(4, 8, flags{}), forward, buffer.NewRange(2, 5)},
		{"in place move", mk(5, 8, flags{left: true}), change.NewRetarget(2, 5, 2), buffer.NewRange(5, 8)},
		{"empty block", mk(1, 3, flags{}), change.NewRetarget(4, 4, 0), buffer.NewRange(1, 3)},
		{"backward inside", mk(6, 9, flags{}), change.NewRetarget(6, 9, 1), buffer.NewRange(1, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Update(tt.marker, tt.ev)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Range)
		})
	}
}

func TestGreedyBoundaryLaw(t *testing.T) {
	const inserted = 7

	for _, f := range []flags{{}, {left: true}, {right: true}, {left: true, right: true}} {
		m := mk(10, 20, f)

		atStart, ok := Update(m, change.NewLengthEdit(10, 0, inserted))
		require.True(t, ok)
		atEnd, ok := Update(m, change.NewLengthEdit(20, 0, inserted))
		require.True(t, ok)

		if f.left {
			assert.Equal(t, m.Range.Len()+inserted, atStart.Range.Len(), "greedy start must absorb")
		} else {
			// Non-greedy start stays glued to the content on its right.
			assert.Equal(t, m.Range.Start+inserted, atStart.Range.Start)
			assert.Equal(t, m.Range.Len(), atStart.Range.Len())
		}

		if f.right {
			assert.Equal(t, m.Range.Len()+inserted, atEnd.Range.Len(), "greedy end must absorb")
		} else {
			assert.Equal(t, m.Range, atEnd.Range)
		}
	}
}

func TestGreedyGrowThenDeleteAll(t *testing.T) {
	m := mk(10, 20, flags{right: true, surviving: true})

	m, ok := Update(m, change.NewLengthEdit(20, 0, 5))
	require.True(t, ok)
	assert.Equal(t, buffer.NewRange(10, 25), m.Range)

	_, ok = Update(m, change.NewLengthEdit(0, 30, 0))
	assert.False(t, ok, "deleting everything destroys the marker")
}

func TestReplayStopsAtDestruction(t *testing.T) {
	events := []change.Event{
		change.NewDelete(0, 30),
		change.NewLengthEdit(0, 0, 40),
	}
	_, ok := Replay(mk(10, 20, flags{}), events)
	assert.False(t, ok, "a destroyed marker must stay destroyed")

	got, ok := Replay(mk(10, 20, flags{}), []change.Event{
		change.NewLengthEdit(0, 0, 2),
		change.NewRetarget(0, 2, 20),
	})
	require.True(t, ok)
	assert.Equal(t, buffer.NewRange(10, 20), got.Range)
}

// TestRandomEditsKeepMarkersInBounds replays random logs and checks that
// every surviving marker stays well formed within the document.
func TestRandomEditsKeepMarkersInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		length := ByteOffset(50 + rng.Intn(50))
		start := ByteOffset(rng.Intn(int(length)))
		end := start + ByteOffset(rng.Intn(int(length-start)+1))
		m := mk(start, end, flags{left: rng.Intn(2) == 0, right: rng.Intn(2) == 0, surviving: rng.Intn(2) == 0})
		alive := true

		for step := 0; step < 30 && alive; step++ {
			ev := randomEvent(rng, length)
			require.NoError(t, ev.Validate(length))

			m, alive = Update(m, ev)
			length += ev.Delta()
			if alive {
				assert.True(t, m.Range.IsValid(), "round %d step %d: %v", round, step, m)
				assert.LessOrEqual(t, m.Range.End, length, "round %d step %d: %v", round, step, m)
			}
		}
	}
}

func randomEvent(rng *rand.Rand, length ByteOffset) change.Event {
	if rng.Intn(4) == 0 {
		start := ByteOffset(rng.Intn(int(length) + 1))
		end := start + ByteOffset(rng.Intn(int(length-start)+1))
		dest := ByteOffset(rng.Intn(int(length-(end-start)) + 1))
		return change.NewRetarget(start, end, dest)
	}
	offset := ByteOffset(rng.Intn(int(length) + 1))
	oldLength := ByteOffset(rng.Intn(int(length-offset) + 1))
	return change.NewLengthEdit(offset, oldLength, ByteOffset(rng.Intn(10)))
}
