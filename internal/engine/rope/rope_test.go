package rope

import (
	"math/rand"
	"strings"
	"testing"
)

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"with newline", "hello\nworld"},
		{"long string", strings.Repeat("abcdefghij", 100)},
		{"many lines", strings.Repeat("line of text\n", 500)},
		{"very long string", strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if r.String() != tt.input {
				t.Errorf("String() mismatch for %d bytes", len(tt.input))
			}
			if r.Len() != ByteOffset(len(tt.input)) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.input))
			}
		})
	}
}

func TestEditsAreImmutable(t *testing.T) {
	r := FromString("hello world")

	r2 := r.Insert(5, ",")
	r3 := r2.Delete(0, 7)
	r4 := r3.Replace(0, 5, "there")

	if r.String() != "hello world" {
		t.Errorf("original changed: %q", r.String())
	}
	if r2.String() != "hello, world" {
		t.Errorf("expected %q, got %q", "hello, world", r2.String())
	}
	if r3.String() != "world" {
		t.Errorf("expected %q, got %q", "world", r3.String())
	}
	if r4.String() != "there" {
		t.Errorf("expected %q, got %q", "there", r4.String())
	}
}

func TestSlice(t *testing.T) {
	text := strings.Repeat("0123456789", 200)
	r := FromString(text)

	tests := []struct {
		start, end ByteOffset
	}{
		{0, 0},
		{0, 10},
		{195, 205},
		{250, 1500},
		{1990, 2000},
	}
	for _, tt := range tests {
		if got := r.Slice(tt.start, tt.end); got != text[tt.start:tt.end] {
			t.Errorf("Slice(%d, %d) = %q", tt.start, tt.end, got)
		}
	}
	if got := r.Slice(1990, 5000); got != text[1990:] {
		t.Errorf("Slice past end should clamp, got %q", got)
	}
}

func TestSplitConcat(t *testing.T) {
	text := strings.Repeat("abc\n", 400)
	r := FromString(text)

	for _, at := range []ByteOffset{0, 1, 255, 256, 800, 1599, 1600} {
		left, right := r.Split(at)
		if left.Len() != at {
			t.Errorf("Split(%d) left len = %d", at, left.Len())
		}
		if joined := left.Concat(right).String(); joined != text {
			t.Errorf("Split(%d) then Concat lost text", at)
		}
	}
}

func TestRandomEditsMatchString(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	text := strings.Repeat("seed text ", 50)
	r := FromString(text)

	for i := 0; i < 500; i++ {
		start := rng.Intn(len(text) + 1)
		end := start + rng.Intn(len(text)-start+1)
		insert := strings.Repeat("z", rng.Intn(40))

		text = text[:start] + insert + text[end:]
		r = r.Replace(ByteOffset(start), ByteOffset(end), insert)

		if r.Len() != ByteOffset(len(text)) {
			t.Fatalf("step %d: len %d, want %d", i, r.Len(), len(text))
		}
	}
	if r.String() != text {
		t.Error("rope diverged from reference string")
	}
	if r.Height() == 0 && len(text) > 0 {
		t.Error("non-empty rope should have a root")
	}
}
