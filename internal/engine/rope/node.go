package rope

import "strings"

// Tree shape constants.
const (
	// MaxChildren is the maximum children per internal node.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// node is a rope tree node. Leaves (height == 0) hold chunks; internal
// nodes hold children and their cached lengths. Nodes are never modified
// once reachable from a Rope.
type node struct {
	height uint8
	length ByteOffset

	children    []*node
	childLength []ByteOffset

	chunks []string
}

func newLeaf(chunks []string) *node {
	n := &node{chunks: chunks}
	for _, c := range chunks {
		n.length += ByteOffset(len(c))
	}
	return n
}

func newInternal(children []*node) *node {
	if len(children) == 0 {
		return newLeaf(nil)
	}
	n := &node{
		height:      children[0].height + 1,
		children:    children,
		childLength: make([]ByteOffset, len(children)),
	}
	for i, c := range children {
		n.childLength[i] = c.length
		n.length += c.length
	}
	return n
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

// appendRange appends text in [start, end) of this subtree to sb.
func (n *node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if start >= end {
		return
	}

	var offset ByteOffset
	if n.isLeaf() {
		for _, c := range n.chunks {
			cEnd := offset + ByteOffset(len(c))
			if cEnd > start && offset < end {
				lo := max(start-offset, 0)
				hi := min(end-offset, ByteOffset(len(c)))
				sb.WriteString(c[lo:hi])
			}
			offset = cEnd
		}
		return
	}

	for i, child := range n.children {
		cEnd := offset + n.childLength[i]
		if cEnd > start && offset < end {
			child.appendRange(sb, max(start-offset, 0), min(end-offset, n.childLength[i]))
		}
		offset = cEnd
	}
}

// split splits the subtree at offset into [0, offset) and [offset, len).
func (n *node) split(offset ByteOffset) (*node, *node) {
	if offset <= 0 {
		return newLeaf(nil), n
	}
	if offset >= n.length {
		return n, newLeaf(nil)
	}

	var pos ByteOffset
	if n.isLeaf() {
		var left, right []string
		for _, c := range n.chunks {
			cLen := ByteOffset(len(c))
			switch {
			case pos+cLen <= offset:
				left = append(left, c)
			case pos >= offset:
				right = append(right, c)
			default:
				cut := offset - pos
				left = append(left, c[:cut])
				right = append(right, c[cut:])
			}
			pos += cLen
		}
		return newLeaf(left), newLeaf(right)
	}

	var left, right []*node
	for i, child := range n.children {
		cLen := n.childLength[i]
		switch {
		case pos+cLen <= offset:
			left = append(left, child)
		case pos >= offset:
			right = append(right, child)
		default:
			l, r := child.split(offset - pos)
			if l.length > 0 {
				left = append(left, l)
			}
			if r.length > 0 {
				right = append(right, r)
			}
		}
		pos += cLen
	}
	return buildFromNodes(left), buildFromNodes(right)
}

// buildFromNodes creates a balanced tree over nodes of possibly
// different heights, lifting shorter nodes to a common height first.
func buildFromNodes(nodes []*node) *node {
	switch len(nodes) {
	case 0:
		return newLeaf(nil)
	case 1:
		return nodes[0]
	}

	var height uint8
	for _, n := range nodes {
		height = max(height, n.height)
	}
	level := make([]*node, len(nodes))
	for i, n := range nodes {
		for n.height < height {
			n = newInternal([]*node{n})
		}
		level[i] = n
	}

	for len(level) > 1 {
		parents := make([]*node, 0, len(level)/MaxChildren+1)
		for i := 0; i < len(level); i += MaxChildren {
			end := min(i+MaxChildren, len(level))
			parents = append(parents, newInternal(level[i:end:end]))
		}
		level = parents
	}
	return level[0]
}

// concat joins two subtrees.
func concat(left, right *node) *node {
	if left.length == 0 {
		return right
	}
	if right.length == 0 {
		return left
	}

	if left.isLeaf() && right.isLeaf() && len(left.chunks)+len(right.chunks) <= MaxChunksPerLeaf {
		chunks := make([]string, 0, len(left.chunks)+len(right.chunks))
		chunks = append(chunks, left.chunks...)
		return newLeaf(append(chunks, right.chunks...))
	}

	if left.height == right.height && !left.isLeaf() && len(left.children)+len(right.children) <= MaxChildren {
		children := make([]*node, 0, len(left.children)+len(right.children))
		children = append(children, left.children...)
		return newInternal(append(children, right.children...))
	}

	return buildFromNodes([]*node{left, right})
}
