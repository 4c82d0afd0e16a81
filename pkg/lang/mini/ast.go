package mini

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/oak/pkg/syntax"
)

// Program is the typed form of a mini source file.
type Program struct {
	Statements []Statement
	Span       syntax.Span
}

// Statement is one of *Let, *ExprStmt or *BlockStatement.
type Statement interface {
	Pos() syntax.Span
	statement()
}

// Expr is one of *NumberLit, *StringLit, *Name, *Binary or *Paren.
type Expr interface {
	Pos() syntax.Span
	expr()
}

// Let binds Name to Value.
type Let struct {
	Name  string
	Value Expr
	Span  syntax.Span
}

// ExprStmt evaluates an expression for its own sake.
type ExprStmt struct {
	Expr Expr
	Span syntax.Span
}

// BlockStatement groups statements in braces.
type BlockStatement struct {
	Statements []Statement
	Span       syntax.Span
}

// NumberLit is an integer literal.
type NumberLit struct {
	Value int64
	Span  syntax.Span
}

// StringLit is a string literal with escapes resolved.
type StringLit struct {
	Value string
	Span  syntax.Span
}

// Name references a binding.
type Name struct {
	Name string
	Span syntax.Span
}

// Binary applies Op to two operands.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Span  syntax.Span
}

// Paren is a parenthesized expression.
type Paren struct {
	Inner Expr
	Span  syntax.Span
}

func (s *Let) Pos() syntax.Span            { return s.Span }
func (s *ExprStmt) Pos() syntax.Span       { return s.Span }
func (s *BlockStatement) Pos() syntax.Span { return s.Span }
func (e *NumberLit) Pos() syntax.Span      { return e.Span }
func (e *StringLit) Pos() syntax.Span      { return e.Span }
func (e *Name) Pos() syntax.Span           { return e.Span }
func (e *Binary) Pos() syntax.Span         { return e.Span }
func (e *Paren) Pos() syntax.Span          { return e.Span }

func (*Let) statement()            {}
func (*ExprStmt) statement()       {}
func (*BlockStatement) statement() {}
func (*NumberLit) expr()           {}
func (*StringLit) expr()           {}
func (*Name) expr()                {}
func (*Binary) expr()              {}
func (*Paren) expr()               {}

// String renders the program as one s-expression per statement.
func (p *Program) String() string {
	var b strings.Builder
	for i, s := range p.Statements {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeStatement(&b, s)
	}
	return b.String()
}

func writeStatement(b *strings.Builder, s Statement) {
	switch s := s.(type) {
	case *Let:
		fmt.Fprintf(b, "(let %s ", s.Name)
		writeExpr(b, s.Value)
		b.WriteByte(')')
	case *ExprStmt:
		writeExpr(b, s.Expr)
	case *BlockStatement:
		b.WriteString("(block")
		for _, inner := range s.Statements {
			b.WriteByte(' ')
			writeStatement(b, inner)
		}
		b.WriteByte(')')
	}
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *NumberLit:
		b.WriteString(strconv.FormatInt(e.Value, 10))
	case *StringLit:
		b.WriteString(strconv.Quote(e.Value))
	case *Name:
		b.WriteString(e.Name)
	case *Binary:
		fmt.Fprintf(b, "(%s ", e.Op)
		writeExpr(b, e.Left)
		b.WriteByte(' ')
		writeExpr(b, e.Right)
		b.WriteByte(')')
	case *Paren:
		writeExpr(b, e.Inner)
	}
}
