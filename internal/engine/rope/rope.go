package rope

import "strings"

// ByteOffset is a byte position in a rope.
type ByteOffset = int64

// Rope is persistent text. Edits build new trees that reuse the untouched
// subtrees of the receiver. The zero value is the empty rope.
type Rope struct {
	root *node
}

// FromString builds a balanced rope holding s.
func FromString(s string) Rope {
	chunks := splitIntoChunks(s)
	if len(chunks) == 0 {
		return Rope{}
	}

	leaves := make([]*node, 0, len(chunks)/MaxChunksPerLeaf+1)
	for len(chunks) > 0 {
		n := min(MaxChunksPerLeaf, len(chunks))
		leaves = append(leaves, newLeaf(chunks[:n:n]))
		chunks = chunks[n:]
	}
	return Rope{root: buildFromNodes(leaves)}
}

// Len is the number of bytes held.
func (r Rope) Len() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.length
}

// String materializes the whole text.
func (r Rope) String() string {
	return r.Slice(0, r.Len())
}

// Slice returns bytes [start, end), clamped to the rope.
func (r Rope) Slice(start, end ByteOffset) string {
	start, end = max(start, 0), min(end, r.Len())
	if start >= end {
		return ""
	}

	var sb strings.Builder
	sb.Grow(int(end - start))
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// Split cuts the rope into [0, at) and [at, Len).
func (r Rope) Split(at ByteOffset) (Rope, Rope) {
	if r.root == nil {
		return Rope{}, Rope{}
	}
	left, right := r.root.split(at)
	return Rope{root: left}, Rope{root: right}
}

// Concat appends other to r.
func (r Rope) Concat(other Rope) Rope {
	switch {
	case r.root == nil:
		return other
	case other.root == nil:
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Insert places text before the byte at offset.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	return r.Replace(offset, offset, text)
}

// Delete drops bytes [start, end).
func (r Rope) Delete(start, end ByteOffset) Rope {
	return r.Replace(start, end, "")
}

// Replace swaps bytes [start, end) for text.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	if start >= end && text == "" {
		return r
	}
	head, tail := r.Split(start)
	_, tail = tail.Split(end - start)
	return head.Concat(FromString(text)).Concat(tail)
}

// Height is the depth of the tree; 0 for the empty rope.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}
