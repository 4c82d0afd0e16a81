package tree

type cursorFrame struct {
	parent *Node
	index  int
	offset int
}

// Cursor walks a green tree without recursion, tracking the absolute offset
// of the current element and the path back to the root.
type Cursor struct {
	current Element
	offset  int
	stack   []cursorFrame
	done    bool
}

// NewCursor creates a cursor positioned at root.
func NewCursor(root *Node) *Cursor {
	return &Cursor{
		current: NodeElement(root),
		stack:   make([]cursorFrame, 0, 16),
	}
}

// Clone returns an independent copy of the cursor.
func (c *Cursor) Clone() *Cursor {
	cp := *c
	cp.stack = append(make([]cursorFrame, 0, cap(c.stack)), c.stack...)
	return &cp
}

// Current returns the element under the cursor.
func (c *Cursor) Current() Element { return c.current }

// Node returns the current element as a node, if it is one.
func (c *Cursor) Node() (*Node, bool) { return c.current.Node() }

// Offset returns the absolute start offset of the current element.
func (c *Cursor) Offset() int { return c.offset }

// End returns the absolute end offset of the current element.
func (c *Cursor) End() int { return c.offset + c.current.Len() }

// Depth returns the number of ancestors of the current element.
func (c *Cursor) Depth() int { return len(c.stack) }

// StepInto moves to the first child of the current node.
func (c *Cursor) StepInto() bool {
	n := c.current.node
	if n == nil || len(n.children) == 0 {
		return false
	}
	c.stack = append(c.stack, cursorFrame{parent: n, index: 0, offset: c.offset})
	c.current = n.children[0]
	return true
}

// StepOver moves to the next sibling.
func (c *Cursor) StepOver() bool {
	if len(c.stack) == 0 {
		return false
	}
	top := &c.stack[len(c.stack)-1]
	next := top.index + 1
	if next >= len(top.parent.children) {
		return false
	}
	c.offset += c.current.Len()
	top.index = next
	c.current = top.parent.children[next]
	return true
}

// StepOut moves to the parent.
func (c *Cursor) StepOut() bool {
	if len(c.stack) == 0 {
		return false
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.current = NodeElement(top.parent)
	c.offset = top.offset
	return true
}

// Step advances in pre-order: into, else over, else out and over.
// It returns false when the traversal is finished.
func (c *Cursor) Step() bool {
	if c.done {
		return false
	}
	if c.StepInto() {
		return true
	}
	return c.StepNext()
}

// StepNext moves to the next element outside the current subtree.
func (c *Cursor) StepNext() bool {
	if c.done {
		return false
	}
	if c.StepOver() {
		return true
	}
	for c.StepOut() {
		if c.StepOver() {
			return true
		}
	}
	c.done = true
	return false
}

// Done reports whether a traversal step has run off the end of the tree.
func (c *Cursor) Done() bool { return c.done }
