// Package tree implements oak's syntax trees.
//
// Green nodes are immutable, position-free and hash-consed inside an Arena:
// two structurally identical subtrees built in the same arena are the same
// *Node. Red nodes are cheap views that pair a green node with its absolute
// offset, computed on the fly while navigating from the root.
package tree

import "github.com/yaklabco/oak/pkg/syntax"

// MetadataID references a Provenance record in an Arena. Zero means none.
type MetadataID uint32

// NoMetadata is the zero MetadataID.
const NoMetadata MetadataID = 0

// NodeID is the index of a node in its Arena.
type NodeID uint32

// Leaf is a token in the green tree. Leaves are plain values.
type Leaf struct {
	Kind   syntax.Kind
	Length uint32
	Meta   MetadataID
}

// Len returns the leaf's text length.
func (l Leaf) Len() int {
	return int(l.Length)
}

// Node is an interior green node. Nodes are created only by an Arena and
// never change afterwards.
type Node struct {
	id          NodeID
	owner       *Arena
	kind        syntax.Kind
	textLen     uint32
	fingerprint uint64
	children    []Element
}

// ID returns the node's index in its arena.
func (n *Node) ID() NodeID { return n.id }

// Kind returns the element kind.
func (n *Node) Kind() syntax.Kind { return n.kind }

// Len returns the total text length covered by the node.
func (n *Node) Len() int { return int(n.textLen) }

// Fingerprint returns the structural hash of the subtree.
func (n *Node) Fingerprint() uint64 { return n.fingerprint }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) Element { return n.children[i] }

// Children returns the node's children. The slice is shared and must not
// be modified.
func (n *Node) Children() []Element { return n.children }

// Arena returns the arena that owns the node.
func (n *Node) Arena() *Arena { return n.owner }

// Element is either a Node or a Leaf.
type Element struct {
	node *Node
	leaf Leaf
}

// NodeElement wraps a node.
func NodeElement(n *Node) Element {
	return Element{node: n}
}

// LeafElement wraps a leaf.
func LeafElement(l Leaf) Element {
	return Element{leaf: l}
}

// IsNode reports whether the element is an interior node.
func (e Element) IsNode() bool { return e.node != nil }

// Node returns the wrapped node, if any.
func (e Element) Node() (*Node, bool) { return e.node, e.node != nil }

// Leaf returns the wrapped leaf, if any.
func (e Element) Leaf() (Leaf, bool) { return e.leaf, e.node == nil }

// Kind returns the kind of the wrapped node or leaf.
func (e Element) Kind() syntax.Kind {
	if e.node != nil {
		return e.node.kind
	}
	return e.leaf.Kind
}

// Len returns the text length of the wrapped node or leaf.
func (e Element) Len() int {
	if e.node != nil {
		return int(e.node.textLen)
	}
	return int(e.leaf.Length)
}

// same reports whether two elements are interchangeable inside one arena.
// Child nodes are compared by identity since they are already interned.
func (e Element) same(other Element) bool {
	if e.node != nil || other.node != nil {
		return e.node == other.node
	}
	return e.leaf == other.leaf
}
