package mini

import (
	"strconv"
	"strings"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

// Lower converts a mini green tree into a Program. Statements the parser
// could not complete are skipped with a diagnostic. An integer literal that
// does not fit in int64 fails the whole lowering.
func Lower(root *tree.Node, src *text.Source) diag.Output[*Program] {
	l := &lowerer{src: src, arena: root.Arena()}
	red := tree.Root(root)

	stmts, err := l.statements(red)
	if err != nil {
		return diag.Fail[*Program](err, l.diags)
	}
	return diag.Ok(&Program{Statements: stmts, Span: red.Span()}, l.diags)
}

type lowerer struct {
	src   *text.Source
	arena *tree.Arena
	diags []*diag.Error
}

func (l *lowerer) statements(parent tree.RedNode) ([]Statement, error) {
	var out []Statement
	for child := range parent.Children() {
		n, ok := child.Node()
		if !ok {
			continue
		}
		stmt, err := l.statement(n)
		if err != nil {
			return out, err
		}
		if stmt != nil {
			out = append(out, stmt)
		}
	}
	return out, nil
}

func (l *lowerer) statement(n tree.RedNode) (Statement, error) {
	parts := significant(n)

	switch n.Kind() {
	case LetStatement:
		if len(parts) < 4 || parts[1].Kind() != Identifier || !parts[3].IsNode() {
			l.skip(n, "incomplete let statement")
			return nil, nil
		}
		value, err := l.expr(parts[3])
		if value == nil || err != nil {
			return nil, err
		}
		return &Let{Name: l.text(parts[1]), Value: value, Span: n.Span()}, nil

	case ExprStatement:
		value, err := l.expr(parts[0])
		if value == nil || err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: value, Span: n.Span()}, nil

	case Block:
		stmts, err := l.statements(n)
		if err != nil {
			return nil, err
		}
		return &BlockStatement{Statements: stmts, Span: n.Span()}, nil

	default:
		l.skip(n, "skipped unparseable input")
		return nil, nil
	}
}

// expr lowers an expression element. It returns a nil Expr and no error
// when the expression is incomplete; that case is already reported.
func (l *lowerer) expr(el tree.RedElement) (Expr, error) {
	n, ok := el.Node()
	if !ok {
		return nil, nil
	}
	parts := significant(n)

	switch n.Kind() {
	case Literal:
		return l.literal(parts[0])

	case NameRef:
		return &Name{Name: l.text(parts[0]), Span: parts[0].Span()}, nil

	case ParenExpr:
		if len(parts) < 2 {
			l.skip(n, "incomplete parenthesized expression")
			return nil, nil
		}
		inner, err := l.expr(parts[1])
		if inner == nil || err != nil {
			return nil, err
		}
		return &Paren{Inner: inner, Span: n.Span()}, nil

	case BinaryExpr:
		if len(parts) < 3 {
			l.skip(n, "incomplete binary expression")
			return nil, nil
		}
		left, err := l.expr(parts[0])
		if left == nil || err != nil {
			return nil, err
		}
		right, err := l.expr(parts[2])
		if right == nil || err != nil {
			return nil, err
		}
		return &Binary{Op: l.text(parts[1]), Left: left, Right: right, Span: n.Span()}, nil

	default:
		l.skip(n, "unexpected %s in expression", Language.KindName(n.Kind()))
		return nil, nil
	}
}

func (l *lowerer) literal(el tree.RedElement) (Expr, error) {
	raw := l.text(el)
	span := el.Span()

	if el.Kind() == Number {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			e := diag.Custom(span.Start, "integer literal %s out of range", raw)
			e.Err = err
			l.diags = append(l.diags, e)
			return nil, e
		}
		return &NumberLit{Value: v, Span: span}, nil
	}

	if len(raw) >= 2 && strings.HasSuffix(raw, `"`) {
		if v, err := strconv.Unquote(raw); err == nil {
			return &StringLit{Value: v, Span: span}, nil
		}
		l.diags = append(l.diags, diag.Custom(span.Start, "invalid escape in string literal"))
		return &StringLit{Value: raw[1 : len(raw)-1], Span: span}, nil
	}
	// Unterminated; the lexer already reported it.
	return &StringLit{Value: strings.TrimPrefix(raw, `"`), Span: span}, nil
}

func (l *lowerer) skip(n tree.RedNode, format string, args ...any) {
	l.diags = append(l.diags, diag.Custom(n.Span().Start, format, args...))
}

func (l *lowerer) text(el tree.RedElement) string {
	if leaf, ok := el.Leaf(); ok {
		return tree.LeafText(l.arena, leaf, l.src)
	}
	return l.src.Slice(el.Span())
}

func significant(n tree.RedNode) []tree.RedElement {
	var out []tree.RedElement
	for child := range n.Children() {
		if !syntax.IsTrivia(Language, child.Kind()) {
			out = append(out, child)
		}
	}
	return out
}

// LowerWords collects the text of every word and number in a words tree.
func LowerWords(root *tree.Node, src *text.Source) diag.Output[[]string] {
	arena := root.Arena()
	words := []string{}
	for leaf := range tree.Root(root).Leaves() {
		if leaf.Kind == Identifier || leaf.Kind == Number {
			words = append(words, tree.LeafText(arena, leaf, src))
		}
	}
	return diag.Ok(words, nil)
}
