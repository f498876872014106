// Package buffer defines the offset and range vocabulary shared by the
// marker tracking engine.
//
// Every position in the engine is a ByteOffset into the text of one
// frozen snapshot. Ranges are half-open, [Start, End), and are only
// meaningful against the snapshot they were computed for: a Range carried
// across an edit without being re-derived is stale.
//
// Basic usage:
//
//	r := buffer.NewRange(10, 20)
//	r.Len()           // 10
//	r.Contains(19)    // true
//	r.Shift(5)        // [15:25)
package buffer
