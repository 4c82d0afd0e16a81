package parser

import (
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/tree"
)

// Associativity decides how a chain of equal-precedence operators groups.
type Associativity int

const (
	// AssocLeft groups a+b+c as (a+b)+c.
	AssocLeft Associativity = iota
	// AssocRight groups a^b^c as a^(b^c).
	AssocRight
	// AssocNone stops a chain after one operator.
	AssocNone
)

// OperatorInfo is the binding power of an infix operator.
type OperatorInfo struct {
	Precedence    int
	Associativity Associativity
}

// Left returns a left-associative operator of precedence p.
func Left(p int) OperatorInfo { return OperatorInfo{Precedence: p, Associativity: AssocLeft} }

// Right returns a right-associative operator of precedence p.
func Right(p int) OperatorInfo { return OperatorInfo{Precedence: p, Associativity: AssocRight} }

// NonAssoc returns a non-associative operator of precedence p.
func NonAssoc(p int) OperatorInfo { return OperatorInfo{Precedence: p, Associativity: AssocNone} }

// operandPrecedence is the minimum precedence of the right operand.
func (o OperatorInfo) operandPrecedence() int {
	if o.Associativity == AssocRight {
		return o.Precedence
	}
	return o.Precedence + 1
}

// Operand parses an expression whose operators bind at least minPrec.
type Operand func(st *State, minPrec int) *tree.Node

// Pratt is an operator-precedence expression parser. Prefix parses a
// primary or prefix expression and returns nil when none starts at the
// current token. Infix reports the binding power of an operator token.
type Pratt struct {
	Prefix func(st *State, operand Operand) *tree.Node
	Infix  func(kind syntax.Kind) (OperatorInfo, bool)

	// Binary is the element kind of infix expressions.
	Binary syntax.Kind

	// Missing is called when an operator has no operand after it.
	Missing func(st *State)
}

// Parse parses an expression whose operators bind at least minPrec. It
// returns nil if no expression starts at the current token.
func (p *Pratt) Parse(st *State, minPrec int) *tree.Node {
	lhs := p.Prefix(st, p.operand)
	if lhs == nil {
		return nil
	}

	// A non-associative operator closes its own precedence level.
	ceiling := -1
	for {
		info, ok := p.Infix(st.PeekKind())
		if !ok || info.Precedence < minPrec || info.Precedence == ceiling {
			return lhs
		}
		lhs = Binary(st, lhs, info, p.Binary, p.operand)
		ceiling = -1
		if info.Associativity == AssocNone {
			ceiling = info.Precedence
		}
	}
}

func (p *Pratt) operand(st *State, minPrec int) *tree.Node {
	n := p.Parse(st, minPrec)
	if n == nil && p.Missing != nil {
		p.Missing(st)
	}
	return n
}

// Binary wraps left, the operator at the current token and its right
// operand into a node of kind.
func Binary(st *State, left *tree.Node, info OperatorInfo, kind syntax.Kind, operand Operand) *tree.Node {
	cp := st.CheckpointBefore(left)
	st.Bump()
	operand(st, info.operandPrecedence())
	return st.FinishAt(cp, kind)
}

// Unary wraps the prefix operator at the current token and its operand,
// parsed at precedence prec, into a node of kind.
func Unary(st *State, prec int, kind syntax.Kind, operand Operand) *tree.Node {
	cp := st.Checkpoint()
	st.Bump()
	operand(st, prec)
	return st.FinishAt(cp, kind)
}

// Postfix wraps left and the operator at the current token into a node of
// kind.
func Postfix(st *State, left *tree.Node, kind syntax.Kind) *tree.Node {
	cp := st.CheckpointBefore(left)
	st.Bump()
	return st.FinishAt(cp, kind)
}
