package buffer

import (
	"errors"
	"testing"
)

func TestRangeBasics(t *testing.T) {
	r := NewRange(10, 20)

	if r.Len() != 10 {
		t.Errorf("expected len 10, got %d", r.Len())
	}
	if r.IsEmpty() {
		t.Error("range should not be empty")
	}
	if !r.IsValid() {
		t.Error("range should be valid")
	}
	if r.String() != "[10:20)" {
		t.Errorf("expected [10:20), got %s", r.String())
	}
	if got := r.Shift(5); got != NewRange(15, 25) {
		t.Errorf("expected [15:25), got %s", got)
	}
	if !PointRange(4).IsEmpty() {
		t.Error("point range should be empty")
	}
}

func TestRangeContainment(t *testing.T) {
	r := NewRange(10, 20)

	tests := []struct {
		offset ByteOffset
		want   bool
	}{
		{9, false},
		{10, true},
		{19, true},
		{20, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.offset); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}

	within := []struct {
		inner Range
		want  bool
	}{
		{NewRange(10, 20), true},
		{NewRange(12, 15), true},
		{PointRange(20), true},
		{NewRange(9, 15), false},
		{NewRange(15, 21), false},
	}
	for _, tt := range within {
		if got := tt.inner.Within(r); got != tt.want {
			t.Errorf("%s.Within(%s) = %v, want %v", tt.inner, r, got, tt.want)
		}
	}
}

func TestCheckRange(t *testing.T) {
	tests := []struct {
		name    string
		r       Range
		length  ByteOffset
		wantErr error
	}{
		{"inside", NewRange(0, 5), 5, nil},
		{"end of text", PointRange(5), 5, nil},
		{"past end", NewRange(3, 6), 5, ErrOffsetOutOfRange},
		{"negative", NewRange(-1, 2), 5, ErrRangeInvalid},
		{"reversed", NewRange(4, 2), 5, ErrRangeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRange(tt.r, tt.length)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
