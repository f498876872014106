package change

import (
	"fmt"

	"github.com/dshills/markertrack/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Kind identifies the concrete type of an Event.
type Kind uint8

const (
	KindTextEdit Kind = iota // Content replacement
	KindRetarget             // Block relocation
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTextEdit:
		return "edit"
	case KindRetarget:
		return "retarget"
	default:
		return "unknown"
	}
}

// Event is one entry of a document's edit log.
// The set of implementations is closed: TextEdit and Retarget.
type Event interface {
	// Kind reports the concrete event type.
	Kind() Kind

	// Delta returns the change in document length caused by the event.
	Delta() ByteOffset

	// Validate checks the event against a pre-event document length.
	Validate(length ByteOffset) error

	fmt.Stringer

	sealed()
}

// TextEdit replaces [Offset, Offset+OldLength) of the pre-edit text with
// NewLength bytes. Text is optional; when set, len(Text) == NewLength.
type TextEdit struct {
	Offset    ByteOffset
	OldLength ByteOffset
	NewLength ByteOffset
	Text      string
}

// NewInsert creates a TextEdit that inserts text at offset.
func NewInsert(offset ByteOffset, text string) TextEdit {
	return TextEdit{Offset: offset, NewLength: ByteOffset(len(text)), Text: text}
}

// NewDelete creates a TextEdit that deletes [start, end).
func NewDelete(start, end ByteOffset) TextEdit {
	return TextEdit{Offset: start, OldLength: end - start}
}

// NewReplace creates a TextEdit that replaces [start, end) with text.
func NewReplace(start, end ByteOffset, text string) TextEdit {
	return TextEdit{Offset: start, OldLength: end - start, NewLength: ByteOffset(len(text)), Text: text}
}

// NewLengthEdit creates a content-agnostic TextEdit.
func NewLengthEdit(offset, oldLength, newLength ByteOffset) TextEdit {
	return TextEdit{Offset: offset, OldLength: oldLength, NewLength: newLength}
}

// Kind implements Event.
func (e TextEdit) Kind() Kind { return KindTextEdit }

// Delta implements Event.
func (e TextEdit) Delta() ByteOffset {
	return e.NewLength - e.OldLength
}

// OldRange returns the replaced span in pre-edit offsets.
func (e TextEdit) OldRange() Range {
	return Range{Start: e.Offset, End: e.Offset + e.OldLength}
}

// NewRange returns the span of the new content in post-edit offsets.
func (e TextEdit) NewRange() Range {
	return Range{Start: e.Offset, End: e.Offset + e.NewLength}
}

// IsInsert returns true if this is a pure insertion.
func (e TextEdit) IsInsert() bool {
	return e.OldLength == 0 && e.NewLength > 0
}

// IsDelete returns true if this is a pure deletion.
func (e TextEdit) IsDelete() bool {
	return e.OldLength > 0 && e.NewLength == 0
}

// HasText returns true if the edit carries its new content.
func (e TextEdit) HasText() bool {
	return e.NewLength == 0 || e.Text != ""
}

// Validate implements Event.
func (e TextEdit) Validate(length ByteOffset) error {
	if e.OldLength < 0 || e.NewLength < 0 {
		return fmt.Errorf("%s: %w", e, ErrNegativeLength)
	}
	if e.Text != "" && ByteOffset(len(e.Text)) != e.NewLength {
		return fmt.Errorf("%s: %w", e, ErrTextLength)
	}
	if err := buffer.CheckRange(e.OldRange(), length); err != nil {
		return fmt.Errorf("%s: %w", e, err)
	}
	return nil
}

// String returns a human-readable representation of the edit.
func (e TextEdit) String() string {
	switch {
	case e.OldLength == 0:
		return fmt.Sprintf("Insert(%d, +%d)", e.Offset, e.NewLength)
	case e.NewLength == 0:
		return fmt.Sprintf("Delete%s", e.OldRange())
	default:
		return fmt.Sprintf("Replace%s with +%d", e.OldRange(), e.NewLength)
	}
}

func (TextEdit) sealed() {}

// Retarget relocates the block [Start, End) so that it begins at
// Destination in the resulting text. Content is unchanged; the document
// length is preserved.
type Retarget struct {
	Start       ByteOffset
	End         ByteOffset
	Destination ByteOffset
}

// NewRetarget creates a Retarget event.
func NewRetarget(start, end, destination ByteOffset) Retarget {
	return Retarget{Start: start, End: end, Destination: destination}
}

// Kind implements Event.
func (r Retarget) Kind() Kind { return KindRetarget }

// Delta implements Event. A relocation never changes the length.
func (r Retarget) Delta() ByteOffset { return 0 }

// Block returns the relocated span in pre-event offsets.
func (r Retarget) Block() Range {
	return Range{Start: r.Start, End: r.End}
}

// Len returns the length of the relocated block.
func (r Retarget) Len() ByteOffset {
	return r.End - r.Start
}

// Shift returns the translation applied to content inside the block.
func (r Retarget) Shift() ByteOffset {
	return r.Destination - r.Start
}

// Validate implements Event.
func (r Retarget) Validate(length ByteOffset) error {
	if err := buffer.CheckRange(r.Block(), length); err != nil {
		return fmt.Errorf("%s: %w", r, err)
	}
	if err := buffer.CheckOffset(r.Destination, length-r.Len()); err != nil {
		return fmt.Errorf("%s: destination: %w", r, err)
	}
	return nil
}

// String returns a human-readable representation of the relocation.
func (r Retarget) String() string {
	return fmt.Sprintf("Retarget%s to %d", r.Block(), r.Destination)
}

func (Retarget) sealed() {}

// AsEdits expresses the relocation as the deletion of the block followed
// by its insertion at Destination. Offsets of the second edit are in the
// coordinates produced by the first.
func (r Retarget) AsEdits() (TextEdit, TextEdit) {
	return NewDelete(r.Start, r.End), NewLengthEdit(r.Destination, 0, r.Len())
}
