package parser

import (
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

// maxReuseSteps bounds the cursor movement of one TryReuse call.
const maxReuseSteps = 256

// ReusePolicy decides whether an old node may be reused at all. It lets a
// grammar exclude nodes whose extent depended on tokens after them.
type ReusePolicy func(n *tree.Node) bool

type reuseContext struct {
	cursor *tree.Cursor
	edits  []text.TextEdit
	policy ReusePolicy
	reused int
}

// SetIncremental enables node reuse from old, the tree of the previous
// version of the source. edits must be sorted and expressed in the old
// coordinates, as returned by text.PrepareEdits.
func (s *State) SetIncremental(old *tree.Node, edits []text.TextEdit) {
	if old == nil {
		s.reuse = nil
		return
	}
	s.reuse = &reuseContext{cursor: tree.NewCursor(old), edits: edits}
}

// SetReusePolicy restricts which old nodes TryReuse may take.
func (s *State) SetReusePolicy(policy ReusePolicy) {
	if s.reuse != nil {
		s.reuse.policy = policy
	}
}

// ReusedNodes returns how many subtrees were taken from the old tree.
func (s *State) ReusedNodes() int {
	if s.reuse == nil {
		return 0
	}
	return s.reuse.reused
}

// mapNewToOld converts a position in the new source to the old one.
// Positions inside inserted text have no old counterpart.
func (c *reuseContext) mapNewToOld(pos int) (int, bool) {
	delta := 0
	for _, e := range c.edits {
		newStart := e.Span.Start + delta
		newEnd := e.NewEnd() + delta
		if pos < newStart {
			return pos - delta, true
		}
		if pos < newEnd {
			return 0, false
		}
		delta += e.Delta()
	}
	return pos - delta, true
}

// isDirty reports whether an edit overlaps or touches [start, end) in old
// coordinates.
func (c *reuseContext) isDirty(start, end int) bool {
	for _, e := range c.edits {
		if start <= e.Span.End && end >= e.Span.Start {
			return true
		}
	}
	return false
}

// TryReuse looks for a node of kind in the old tree that starts where the
// current token starts, is untouched by the edits and covers exactly the
// same tokens. On success the node is pushed into the sink, the tokens it
// covers are consumed, trivia after it is skipped, and TryReuse returns true.
func (s *State) TryReuse(kind syntax.Kind) bool {
	ctx := s.reuse
	if ctx == nil || s.AtEnd() {
		return false
	}

	target, ok := ctx.mapNewToOld(s.Offset())
	if !ok {
		return false
	}

	saved := ctx.cursor.Clone()
	for steps := 0; steps < maxReuseSteps; steps++ {
		cur := ctx.cursor
		start, end := cur.Offset(), cur.End()

		switch {
		case start == target:
			if node, isNode := cur.Node(); isNode && node.Kind() == kind && s.reusable(node, start, end) {
				s.takeNode(node)
				cur.StepNext()
				ctx.reused++
				return true
			}
			if !cur.StepInto() && !cur.StepNext() {
				ctx.cursor = saved
				return false
			}
		case start < target && end > target:
			if !cur.StepInto() && !cur.StepNext() {
				ctx.cursor = saved
				return false
			}
		case end <= target:
			if !cur.StepNext() {
				ctx.cursor = saved
				return false
			}
		default:
			ctx.cursor = saved
			return false
		}
	}

	ctx.cursor = saved
	return false
}

func (s *State) reusable(node *tree.Node, start, end int) bool {
	ctx := s.reuse
	if node.Len() == 0 || ctx.isDirty(start, end) {
		return false
	}
	if ctx.policy != nil && !ctx.policy(node) {
		return false
	}

	// The node's leaves must line up with the new tokens one to one.
	i := s.pos
	for leaf := range tree.Root(node).Leaves() {
		if i >= len(s.tokens) {
			return false
		}
		tok := s.tokens[i]
		if tok.Kind != leaf.Kind || tok.Len() != leaf.Span.Len() {
			return false
		}
		i++
	}
	return true
}

func (s *State) takeNode(node *tree.Node) {
	count := 0
	for range tree.Root(node).Leaves() {
		count++
	}
	s.sink.PushNode(node)
	s.pos += count
	s.SkipTrivia()
}

// IncrementalNode reuses a node of kind when possible, and otherwise runs fn
// and wraps what it pushed into a node of kind.
func (s *State) IncrementalNode(kind syntax.Kind, fn func(*State) error) error {
	if s.TryReuse(kind) {
		return nil
	}
	cp := s.Checkpoint()
	err := fn(s)
	s.FinishAt(cp, kind)
	return err
}
