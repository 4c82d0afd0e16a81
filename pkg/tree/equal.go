package tree

// Equal reports whether two green trees have the same structure: same kinds,
// lengths and provenance at every position. Nodes from different arenas may
// be compared.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return equalNodes(a, b)
}

func equalNodes(a, b *Node) bool {
	if a == b {
		return true
	}
	if a.kind != b.kind || a.textLen != b.textLen || len(a.children) != len(b.children) {
		return false
	}

	for i := range a.children {
		ca, cb := a.children[i], b.children[i]
		if ca.IsNode() != cb.IsNode() {
			return false
		}
		if ca.node != nil {
			if !equalNodes(ca.node, cb.node) {
				return false
			}
			continue
		}
		if ca.leaf.Kind != cb.leaf.Kind || ca.leaf.Length != cb.leaf.Length {
			return false
		}
		if !equalMetadata(a.owner, ca.leaf.Meta, b.owner, cb.leaf.Meta) {
			return false
		}
	}

	return true
}

func equalMetadata(arenaA *Arena, idA MetadataID, arenaB *Arena, idB MetadataID) bool {
	if idA == NoMetadata || idB == NoMetadata {
		return idA == idB
	}
	pa, okA := arenaA.Metadata(idA)
	pb, okB := arenaB.Metadata(idB)
	return okA == okB && pa.Equal(pb)
}
