package tree

import (
	"fmt"

	"github.com/yaklabco/oak/pkg/syntax"
)

// Checkpoint marks a position in a Sink's pending children. Checkpoints must
// be closed, by FinishNode or Restore, in the reverse order they were taken.
type Checkpoint struct {
	pos int
	seq uint32
}

// Pos returns the number of pending children when the checkpoint was taken.
func (c Checkpoint) Pos() int { return c.pos }

// CheckpointError reports a checkpoint closed out of order. Sinks panic with
// this error; it indicates a bug in the parser driving the sink.
type CheckpointError struct {
	Op       string
	Got      Checkpoint
	Expected *Checkpoint
	Open     int
}

func (e *CheckpointError) Error() string {
	if e.Open > 0 {
		return fmt.Sprintf("tree: %s: %d checkpoints still open", e.Op, e.Open)
	}
	if e.Expected == nil {
		return fmt.Sprintf("tree: %s: checkpoint %d is not open", e.Op, e.Got.seq)
	}
	return fmt.Sprintf("tree: %s: checkpoint %d closed before checkpoint %d", e.Op, e.Got.seq, e.Expected.seq)
}

// Sink builds a green tree bottom-up. Leaves and finished nodes accumulate as
// pending children; FinishNode wraps everything pushed since a checkpoint
// into a new node.
type Sink struct {
	arena   *Arena
	pending []Element
	open    []Checkpoint
	nextSeq uint32
}

// NewSink creates a sink that allocates into arena.
func NewSink(arena *Arena, capacityHint int) *Sink {
	return &Sink{
		arena:   arena,
		pending: make([]Element, 0, max(capacityHint, 16)),
	}
}

// Arena returns the arena the sink allocates into.
func (s *Sink) Arena() *Arena { return s.arena }

// Len returns the number of pending children.
func (s *Sink) Len() int { return len(s.pending) }

// OpenCheckpoints returns the number of checkpoints not yet closed.
func (s *Sink) OpenCheckpoints() int { return len(s.open) }

// Checkpoint opens a checkpoint at the current position.
func (s *Sink) Checkpoint() Checkpoint {
	return s.openAt(len(s.pending))
}

// CheckpointBefore opens a checkpoint just before the most recently pushed
// occurrence of n, so that n can be wrapped in a new parent. It panics if n
// is not pending above the innermost open checkpoint.
func (s *Sink) CheckpointBefore(n *Node) Checkpoint {
	floor := 0
	if len(s.open) > 0 {
		floor = s.open[len(s.open)-1].pos
	}
	for i := len(s.pending) - 1; i >= floor; i-- {
		if s.pending[i].node == n {
			return s.openAt(i)
		}
	}
	panic(fmt.Sprintf("tree: CheckpointBefore: node %d is not pending", n.id))
}

func (s *Sink) openAt(pos int) Checkpoint {
	cp := Checkpoint{pos: pos, seq: s.nextSeq}
	s.nextSeq++
	s.open = append(s.open, cp)
	return cp
}

// close pops cp from the open stack, panicking if it is not on top.
func (s *Sink) close(op string, cp Checkpoint) {
	if len(s.open) == 0 {
		panic(&CheckpointError{Op: op, Got: cp})
	}
	top := s.open[len(s.open)-1]
	if top != cp {
		for _, c := range s.open {
			if c == cp {
				panic(&CheckpointError{Op: op, Got: cp, Expected: &top})
			}
		}
		panic(&CheckpointError{Op: op, Got: cp})
	}
	s.open = s.open[:len(s.open)-1]
}

// PushLeaf appends a token covering length bytes of source.
func (s *Sink) PushLeaf(kind syntax.Kind, length int) {
	s.pending = append(s.pending, LeafElement(s.arena.AllocLeaf(kind, length, NoMetadata)))
}

// PushLeafWithMetadata appends a token with a provenance record.
func (s *Sink) PushLeafWithMetadata(kind syntax.Kind, length int, p Provenance) {
	meta := s.arena.AddMetadata(p)
	s.pending = append(s.pending, LeafElement(s.arena.AllocLeaf(kind, length, meta)))
}

// PushNode appends an already built subtree. Nodes owned by another arena
// are imported first.
func (s *Sink) PushNode(n *Node) {
	s.pending = append(s.pending, NodeElement(s.arena.Import(n)))
}

// FinishNode closes cp and wraps every child pushed since it into a node of
// the given kind, which replaces them as a single pending child.
func (s *Sink) FinishNode(cp Checkpoint, kind syntax.Kind) *Node {
	s.close("FinishNode", cp)
	if cp.pos > len(s.pending) {
		panic(&CheckpointError{Op: "FinishNode", Got: cp})
	}

	n := s.arena.AllocNode(kind, s.pending[cp.pos:])
	s.pending = append(s.pending[:cp.pos], NodeElement(n))
	return n
}

// FinishAt is FinishNode.
func (s *Sink) FinishAt(cp Checkpoint, kind syntax.Kind) *Node {
	return s.FinishNode(cp, kind)
}

// Release closes cp and keeps everything pushed since it.
func (s *Sink) Release(cp Checkpoint) {
	s.close("Release", cp)
}

// Restore closes cp and discards everything pushed since it.
func (s *Sink) Restore(cp Checkpoint) {
	s.close("Restore", cp)
	if cp.pos < len(s.pending) {
		clear(s.pending[cp.pos:])
		s.pending = s.pending[:cp.pos]
	}
}

// Finish wraps all pending children into a root node of the given kind and
// resets the sink. It fails if any checkpoint is still open.
func (s *Sink) Finish(kind syntax.Kind) (*Node, error) {
	if len(s.open) > 0 {
		return nil, &CheckpointError{Op: "Finish", Got: s.open[len(s.open)-1], Open: len(s.open)}
	}

	root := s.arena.AllocNode(kind, s.pending)
	clear(s.pending)
	s.pending = s.pending[:0]
	return root, nil
}

// Root returns the single pending node when the tree was closed with
// FinishNode at the outermost checkpoint.
func (s *Sink) Root() (*Node, bool) {
	if len(s.open) > 0 || len(s.pending) != 1 || s.pending[0].node == nil {
		return nil, false
	}
	return s.pending[0].node, true
}
