package scenario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/change"
)

func TestLoad(t *testing.T) {
	sc, err := Load("testdata/greedy_end.yaml")
	require.NoError(t, err)

	assert.Equal(t, "greedy end then delete all", sc.Name)
	assert.Equal(t, "testdata/greedy_end.yaml", sc.Path)
	require.NotNil(t, sc.Length)
	assert.Equal(t, int64(30), *sc.Length)
	require.Len(t, sc.Markers, 1)
	assert.True(t, sc.Markers[0].GreedyRight)
	require.Len(t, sc.Steps, 2)

	want := sc.Steps[0].Expect["m"]
	require.NotNil(t, want)
	assert.Equal(t, buffer.NewRange(10, 25), want.Range())

	gone, ok := sc.Steps[1].Expect["m"]
	assert.True(t, ok, "null expectations are kept")
	assert.Nil(t, gone)
}

func TestEditEvent(t *testing.T) {
	tests := []struct {
		name string
		edit Edit
		want change.Event
	}{
		{"insert", Edit{Insert: &InsertOp{At: 1, Text: "ab"}}, change.NewInsert(1, "ab")},
		{"delete", Edit{Delete: &DeleteOp{Start: 1, End: 3}}, change.NewDelete(1, 3)},
		{"replace", Edit{Replace: &ReplaceOp{Start: 1, End: 3, Text: "x"}}, change.NewReplace(1, 3, "x")},
		{"move", Edit{Move: &MoveOp{Start: 1, End: 3, Dest: 0}}, change.NewRetarget(1, 3, 0)},
		{"length", Edit{Length: &LengthOp{At: 1, Old: 2, New: 3}}, change.NewLengthEdit(1, 2, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := tt.edit.Event()
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}

	_, err := Edit{}.Event()
	assert.ErrorIs(t, err, ErrInvalidScenario)
	_, err = Edit{Insert: &InsertOp{}, Delete: &DeleteOp{}}.Event()
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "name: x\ncolour: red\n"},
		{"missing name", "length: 3\n"},
		{"text and length", "name: x\ntext: abc\nlength: 3\n"},
		{"duplicate marker", "name: x\nmarkers:\n  - {name: m, start: 0, end: 1}\n  - {name: m, start: 0, end: 1}\n"},
		{"reversed marker", "name: x\nmarkers:\n  - {name: m, start: 2, end: 1}\n"},
		{"unknown expectation", "name: x\nsteps:\n  - expect: {ghost: [0, 1]}\n"},
		{"empty edit", "name: x\nsteps:\n  - edits: [{}]\n"},
		{"bad span", "name: x\nmarkers:\n  - {name: m, start: 0, end: 1}\nsteps:\n  - expect: {m: [1, 2, 3]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidScenario), "got %v", err)
		})
	}
}
