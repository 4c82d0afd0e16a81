package tree

import (
	"iter"
	"sort"
	"strings"

	"github.com/yaklabco/oak/pkg/syntax"
)

// RedNode is a positioned view of a green node.
type RedNode struct {
	Green  *Node
	Offset int
}

// RedLeaf is a positioned view of a green leaf.
type RedLeaf struct {
	Kind syntax.Kind
	Span syntax.Span
	Meta MetadataID
}

// RedElement is a positioned node or leaf.
type RedElement struct {
	node   RedNode
	leaf   RedLeaf
	isNode bool
}

// NewRed returns a red view of green starting at offset.
func NewRed(green *Node, offset int) RedNode {
	return RedNode{Green: green, Offset: offset}
}

// Root returns a red view of a tree root at offset 0.
func Root(green *Node) RedNode {
	return NewRed(green, 0)
}

// IsNode reports whether the element is a node.
func (e RedElement) IsNode() bool { return e.isNode }

// Node returns the element as a node view.
func (e RedElement) Node() (RedNode, bool) { return e.node, e.isNode }

// Leaf returns the element as a leaf view.
func (e RedElement) Leaf() (RedLeaf, bool) { return e.leaf, !e.isNode }

// Kind returns the element kind.
func (e RedElement) Kind() syntax.Kind {
	if e.isNode {
		return e.node.Green.kind
	}
	return e.leaf.Kind
}

// Span returns the absolute span of the element.
func (e RedElement) Span() syntax.Span {
	if e.isNode {
		return e.node.Span()
	}
	return e.leaf.Span
}

func redElement(el Element, offset int) RedElement {
	if el.node != nil {
		return RedElement{node: RedNode{Green: el.node, Offset: offset}, isNode: true}
	}
	return RedElement{leaf: RedLeaf{
		Kind: el.leaf.Kind,
		Span: syntax.NewSpan(offset, offset+int(el.leaf.Length)),
		Meta: el.leaf.Meta,
	}}
}

// Kind returns the node kind.
func (r RedNode) Kind() syntax.Kind { return r.Green.kind }

// Span returns the absolute span of the node.
func (r RedNode) Span() syntax.Span {
	return syntax.NewSpan(r.Offset, r.Offset+int(r.Green.textLen))
}

// Children iterates over the positioned children.
func (r RedNode) Children() iter.Seq[RedElement] {
	return func(yield func(RedElement) bool) {
		offset := r.Offset
		for _, c := range r.Green.children {
			if !yield(redElement(c, offset)) {
				return
			}
			offset += c.Len()
		}
	}
}

// ChildCount returns the number of direct children.
func (r RedNode) ChildCount() int { return len(r.Green.children) }

// OffsetOfChild returns the absolute start offset of the i-th child.
func (r RedNode) OffsetOfChild(i int) (int, bool) {
	if i < 0 || i >= len(r.Green.children) {
		return 0, false
	}
	offset := r.Offset
	for _, c := range r.Green.children[:i] {
		offset += c.Len()
	}
	return offset, true
}

// Child returns the i-th child.
func (r RedNode) Child(i int) (RedElement, bool) {
	offset, ok := r.OffsetOfChild(i)
	if !ok {
		return RedElement{}, false
	}
	return redElement(r.Green.children[i], offset), true
}

// childStarts returns the absolute start offset of every child.
func (r RedNode) childStarts() []int {
	starts := make([]int, len(r.Green.children))
	offset := r.Offset
	for i, c := range r.Green.children {
		starts[i] = offset
		offset += c.Len()
	}
	return starts
}

// ChildIndexAtOffset returns the index of the child whose span contains
// offset. Zero-length children are never selected.
func (r RedNode) ChildIndexAtOffset(offset int) (int, bool) {
	if offset < r.Offset || offset >= r.Offset+int(r.Green.textLen) {
		return 0, false
	}

	starts := r.childStarts()
	i := sort.Search(len(starts), func(i int) bool {
		return starts[i] > offset
	}) - 1
	for i >= 0 && r.Green.children[i].Len() == 0 {
		i--
	}
	if i < 0 {
		return 0, false
	}
	return i, true
}

// OverlappingIndices returns the indices of children that share at least one
// byte with span. An empty span selects the child containing its position.
func (r RedNode) OverlappingIndices(span syntax.Span) []int {
	if span.IsEmpty() {
		if i, ok := r.ChildIndexAtOffset(span.Start); ok {
			return []int{i}
		}
		return nil
	}

	var out []int
	offset := r.Offset
	for i, c := range r.Green.children {
		end := offset + c.Len()
		if offset >= span.End {
			break
		}
		if offset < span.End && span.Start < end {
			out = append(out, i)
		}
		offset = end
	}
	return out
}

// Leaves iterates over every leaf in document order.
func (r RedNode) Leaves() iter.Seq[RedLeaf] {
	return func(yield func(RedLeaf) bool) {
		r.leaves(yield)
	}
}

func (r RedNode) leaves(yield func(RedLeaf) bool) bool {
	offset := r.Offset
	for _, c := range r.Green.children {
		if c.node != nil {
			if !(RedNode{Green: c.node, Offset: offset}).leaves(yield) {
				return false
			}
		} else if !yield(redElement(c, offset).leaf) {
			return false
		}
		offset += c.Len()
	}
	return true
}

// LeafAt returns the leaf containing offset.
func (r RedNode) LeafAt(offset int) (RedLeaf, bool) {
	node := r
	for {
		i, ok := node.ChildIndexAtOffset(offset)
		if !ok {
			return RedLeaf{}, false
		}
		child, _ := node.Child(i)
		if leaf, isLeaf := child.Leaf(); isLeaf {
			return leaf, true
		}
		node, _ = child.Node()
	}
}

// CoveringNode returns the deepest node whose span contains span.
func (r RedNode) CoveringNode(span syntax.Span) RedNode {
	node := r
	for {
		next, found := node.coveringChild(span)
		if !found {
			return node
		}
		node = next
	}
}

func (r RedNode) coveringChild(span syntax.Span) (RedNode, bool) {
	for child := range r.Children() {
		n, ok := child.Node()
		if !ok {
			continue
		}
		s := n.Span()
		if s.ContainsSpan(span) && (s.Len() > 0 || span.IsEmpty()) {
			return n, true
		}
	}
	return RedNode{}, false
}

// Text concatenates the source text under the node.
func (r RedNode) Text(src TextSource) string {
	return src.Slice(r.Span())
}

// LeafText returns a leaf's text, using its provenance record when present.
func LeafText(arena *Arena, leaf RedLeaf, src TextSource) string {
	if leaf.Meta != NoMetadata && arena != nil {
		if p, ok := arena.Metadata(leaf.Meta); ok {
			return p.Text(src)
		}
	}
	return src.Slice(leaf.Span)
}

// MaterializedText concatenates the text of every leaf, honoring provenance.
func (r RedNode) MaterializedText(src TextSource) string {
	var b strings.Builder
	for leaf := range r.Leaves() {
		b.WriteString(LeafText(r.Green.owner, leaf, src))
	}
	return b.String()
}
