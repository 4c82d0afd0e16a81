package tree

import (
	"fmt"
	"math"

	"github.com/yaklabco/oak/pkg/syntax"
)

const (
	nodeSlabSize  = 1024
	childSlabSize = 8 * 1024
)

// Arena owns the green nodes of one tree generation and interns them by
// structure. An Arena is not safe for concurrent mutation; the nodes it has
// handed out are immutable and may be read from any goroutine.
type Arena struct {
	nodes  []*Node
	intern map[uint64][]*Node

	nodeSlab  []Node
	childSlab []Element

	metadata []Provenance

	hits   int
	misses int
	leaves int
}

// ArenaStats reports allocation counters.
type ArenaStats struct {
	Nodes      int
	Leaves     int
	Metadata   int
	InternHits int
	InternMiss int
}

// NewArena creates an arena sized for roughly capacityHint nodes.
func NewArena(capacityHint int) *Arena {
	capacityHint = max(capacityHint, 16)
	return &Arena{
		nodes:  make([]*Node, 0, capacityHint),
		intern: make(map[uint64][]*Node, capacityHint),
	}
}

// AllocLeaf creates a leaf value. Leaves are not interned; they are
// compared by value.
func (a *Arena) AllocLeaf(kind syntax.Kind, length int, meta MetadataID) Leaf {
	if length < 0 || uint64(length) > math.MaxUint32 {
		panic(fmt.Sprintf("tree: leaf length %d out of range", length))
	}
	a.leaves++
	return Leaf{Kind: kind, Length: uint32(length), Meta: meta}
}

// AllocNode returns the interned node with the given kind and children.
// The children slice is copied; callers may reuse it.
func (a *Arena) AllocNode(kind syntax.Kind, children []Element) *Node {
	var total uint64
	for _, c := range children {
		total += uint64(c.Len())
	}
	if total > math.MaxUint32 {
		panic(fmt.Sprintf("tree: node length %d out of range", total))
	}
	textLen := uint32(total)

	fp := fingerprint(kind, textLen, children)
	for _, candidate := range a.intern[fp] {
		if candidate.kind == kind && candidate.textLen == textLen && sameChildren(candidate.children, children) {
			a.hits++
			return candidate
		}
	}
	a.misses++

	n := a.newNode()
	n.id = NodeID(len(a.nodes))
	n.owner = a
	n.kind = kind
	n.textLen = textLen
	n.fingerprint = fp
	n.children = a.copyChildren(children)

	a.nodes = append(a.nodes, n)
	a.intern[fp] = append(a.intern[fp], n)

	return n
}

func sameChildren(a, b []Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].same(b[i]) {
			return false
		}
	}
	return true
}

func (a *Arena) newNode() *Node {
	if len(a.nodeSlab) == 0 {
		a.nodeSlab = make([]Node, nodeSlabSize)
	}
	n := &a.nodeSlab[0]
	a.nodeSlab = a.nodeSlab[1:]
	return n
}

func (a *Arena) copyChildren(children []Element) []Element {
	if len(children) == 0 {
		return nil
	}
	if len(children) > childSlabSize/4 {
		out := make([]Element, len(children))
		copy(out, children)
		return out
	}
	if len(a.childSlab) < len(children) {
		a.childSlab = make([]Element, childSlabSize)
	}
	out := a.childSlab[:len(children):len(children)]
	a.childSlab = a.childSlab[len(children):]
	copy(out, children)
	return out
}

// Node returns the node with the given id.
func (a *Arena) Node(id NodeID) (*Node, bool) {
	if int(id) >= len(a.nodes) {
		return nil, false
	}
	return a.nodes[id], true
}

// Len returns the number of distinct nodes in the arena.
func (a *Arena) Len() int { return len(a.nodes) }

// Owns reports whether n was allocated by this arena.
func (a *Arena) Owns(n *Node) bool {
	return n != nil && n.owner == a
}

// AddMetadata stores a provenance record and returns its id.
func (a *Arena) AddMetadata(p Provenance) MetadataID {
	a.metadata = append(a.metadata, p)
	return MetadataID(len(a.metadata))
}

// Metadata returns the provenance record for id.
func (a *Arena) Metadata(id MetadataID) (Provenance, bool) {
	if id == NoMetadata || int(id) > len(a.metadata) {
		return Provenance{}, false
	}
	return a.metadata[id-1], true
}

// Stats returns allocation counters.
func (a *Arena) Stats() ArenaStats {
	return ArenaStats{
		Nodes:      len(a.nodes),
		Leaves:     a.leaves,
		Metadata:   len(a.metadata),
		InternHits: a.hits,
		InternMiss: a.misses,
	}
}
