package tree

// Import re-interns a subtree owned by another arena into a, copying any
// provenance records it references. Nodes already owned by a are returned
// unchanged.
func (a *Arena) Import(n *Node) *Node {
	if n == nil || n.owner == a {
		return n
	}
	memo := make(map[*Node]*Node)
	return a.importNode(n, memo)
}

func (a *Arena) importNode(n *Node, memo map[*Node]*Node) *Node {
	if n.owner == a {
		return n
	}
	if done, ok := memo[n]; ok {
		return done
	}

	children := make([]Element, len(n.children))
	for i, c := range n.children {
		if c.node != nil {
			children[i] = NodeElement(a.importNode(c.node, memo))
			continue
		}
		leaf := c.leaf
		if leaf.Meta != NoMetadata && n.owner != nil {
			if p, ok := n.owner.Metadata(leaf.Meta); ok {
				leaf.Meta = a.AddMetadata(p)
			}
		}
		children[i] = LeafElement(leaf)
	}

	out := a.AllocNode(n.kind, children)
	memo[n] = out
	return out
}
