package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/lexer"
	"github.com/yaklabco/oak/pkg/parser"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

const (
	eAtom syntax.Kind = iota
	eSpace
	ePlus
	eCaret
	eEq
	eMinus
	eBang
	eBad
	eEOF
	eRoot
	eBinary
	eUnary
	ePostfix
	eName
	eError
)

var exprLang = syntax.NewTable("ops", eEOF, eError, []syntax.KindInfo{
	eAtom:    {Name: "Atom", Token: syntax.TokenName},
	eSpace:   {Name: "Space", Token: syntax.TokenWhitespace},
	ePlus:    {Name: "Plus", Token: syntax.TokenOperator},
	eCaret:   {Name: "Caret", Token: syntax.TokenOperator},
	eEq:      {Name: "Eq", Token: syntax.TokenOperator},
	eMinus:   {Name: "Minus", Token: syntax.TokenOperator},
	eBang:    {Name: "Bang", Token: syntax.TokenOperator},
	eBad:     {Name: "Bad", Token: syntax.TokenError},
	eEOF:     {Name: "EOF", Token: syntax.TokenEOF},
	eRoot:    {Name: "Root", Element: syntax.ElementRoot},
	eBinary:  {Name: "Binary", Element: syntax.ElementExpression},
	eUnary:   {Name: "Unary", Element: syntax.ElementExpression},
	ePostfix: {Name: "Postfix", Element: syntax.ElementExpression},
	eName:    {Name: "Name", Element: syntax.ElementExpression},
	eError:   {Name: "Error", Element: syntax.ElementError},
})

type exprScanner struct{}

func (exprScanner) ErrorToken() syntax.Kind { return eBad }

func (exprScanner) Scan(s *lexer.State) {
	start := s.Pos()
	b, _ := s.PeekByte()
	kinds := map[byte]syntax.Kind{'+': ePlus, '^': eCaret, '=': eEq, '-': eMinus, '!': eBang}
	switch {
	case b >= 'a' && b <= 'z':
		s.TakeWhileByte(func(b byte) bool { return b >= 'a' && b <= 'z' })
		s.AddToken(eAtom, start, s.Pos())
	case b == ' ':
		s.TakeWhileByte(func(b byte) bool { return b == ' ' })
		s.AddToken(eSpace, start, s.Pos())
	case kinds[b] != 0:
		s.Advance(1)
		s.AddToken(kinds[b], start, s.Pos())
	}
}

func exprOperators(kind syntax.Kind) (parser.OperatorInfo, bool) {
	switch kind {
	case eEq:
		return parser.NonAssoc(1), true
	case ePlus:
		return parser.Left(2), true
	case eCaret:
		return parser.Right(3), true
	default:
		return parser.OperatorInfo{}, false
	}
}

func exprPrefix(st *parser.State, operand parser.Operand) *tree.Node {
	var lhs *tree.Node
	switch st.PeekKind() {
	case eAtom:
		cp := st.Checkpoint()
		st.Bump()
		lhs = st.FinishAt(cp, eName)
	case eMinus:
		lhs = parser.Unary(st, 4, eUnary, operand)
	default:
		return nil
	}
	for st.At(eBang) {
		lhs = parser.Postfix(st, lhs, ePostfix)
	}
	return lhs
}

func parseExpr(t *testing.T, input string) (*tree.Node, *text.Source, []*diag.Error) {
	t.Helper()

	src := text.NewSource(input)
	lexed := lexer.Run(exprLang, src, exprScanner{})
	require.True(t, lexed.OK())

	pratt := &parser.Pratt{
		Prefix: exprPrefix,
		Infix:  exprOperators,
		Binary: eBinary,
		Missing: func(st *parser.State) {
			st.Error(diag.ExpectedToken(st.Offset(), "expression", exprLang.KindName(st.PeekKind())))
		},
	}

	st := parser.NewState(exprLang, src, lexed.Value, tree.NewArena(0))
	st.SkipTrivia()
	for st.NotAtEnd() {
		if pratt.Parse(st, 0) == nil {
			st.ErrorNode("unexpected %s", exprLang.KindName(st.PeekKind()))
		}
	}
	out := st.Finish(eRoot)
	require.True(t, out.OK())
	return out.Value, src, out.Diagnostics
}

// shape renders expression nodes as s-expressions and the root as a list.
func shape(n tree.RedNode, src *text.Source) string {
	var parts []string
	for child := range n.Children() {
		if child.Kind() == eSpace || child.Kind() == eEOF {
			continue
		}
		if sub, ok := child.Node(); ok {
			if sub.Kind() == eName {
				parts = append(parts, strings.TrimSpace(sub.Text(src)))
				continue
			}
			parts = append(parts, shape(sub, src))
			continue
		}
		parts = append(parts, src.Slice(child.Span()))
	}
	if n.Kind() == eRoot {
		return strings.Join(parts, " | ")
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func TestPrattAssociativity(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name  string
		input string
		want  string
		diags int
	}

	tests := []testCase{
		{name: "left", input: "a + b + c", want: "((a + b) + c)"},
		{name: "right", input: "a ^ b ^ c", want: "(a ^ (b ^ c))"},
		{name: "precedence", input: "a + b ^ c + d", want: "((a + (b ^ c)) + d)"},
		{name: "right under left", input: "a ^ b ^ c + d", want: "((a ^ (b ^ c)) + d)"},
		{name: "non associative stops the chain", input: "a = b = c", want: "(a = b) | (=) | c", diags: 1},
		{name: "prefix binds tighter", input: "- a ^ b", want: "((- a) ^ b)"},
		{name: "postfix", input: "a! + b", want: "((a !) + b)"},
		{name: "missing operand", input: "a +", want: "(a +)", diags: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root, src, diags := parseExpr(t, tc.input)
			got := shape(tree.Root(root), src)
			assert.Equal(t, tc.input, tree.Root(root).MaterializedText(src))
			assert.Len(t, diags, tc.diags)
			assert.Equal(t, tc.want, got)
		})
	}
}
