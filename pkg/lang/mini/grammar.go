package mini

import (
	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/lexer"
	"github.com/yaklabco/oak/pkg/parser"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/tree"
)

// Grammar parses a mini token stream. Expressions go through a Pratt
// parser.
//
//	root      = { statement } .
//	statement = "let" Identifier "=" expr ";" | block | expr ";" .
//	block     = "{" { statement } "}" .
//	expr      = term { ("+" | "-") term } .
//	term      = factor { ("*" | "/") factor } .
//	factor    = Number | String | Identifier | "(" expr ")" .
//
// Statements end on their terminator; trivia after it belongs to the
// enclosing node, so equal statements intern to the same green node.
func Grammar(st *parser.State) diag.Output[*tree.Node] {
	st.SkipTrivia()
	for st.NotAtEnd() {
		statementOrError(st)
	}
	return st.Finish(Root)
}

func statementOrError(st *parser.State) {
	before := st.TokenIndex()
	statement(st)
	if st.TokenIndex() == before {
		st.ErrorNode("unexpected %s", Language.KindName(st.PeekKind()))
	}
	st.SkipTrivia()
}

func statement(st *parser.State) {
	switch kind := st.PeekKind(); {
	case kind == LetKw:
		_ = st.IncrementalNode(LetStatement, letStatement)
	case kind == LBrace:
		_ = st.IncrementalNode(Block, block)
	case startsExpr(kind):
		_ = st.IncrementalNode(ExprStatement, exprStatement)
	}
}

func letStatement(st *parser.State) error {
	st.Bump()
	if err := st.Expect(Identifier); err != nil {
		return err
	}
	if err := st.Expect(Eq); err != nil {
		return err
	}
	if expr(st) == nil {
		return expectedExpression(st)
	}
	return st.ExpectToken(Semicolon)
}

func exprStatement(st *parser.State) error {
	expr(st)
	return st.ExpectToken(Semicolon)
}

func block(st *parser.State) error {
	st.Bump()
	for !st.At(RBrace) && st.NotAtEnd() {
		statementOrError(st)
	}
	return st.ExpectToken(RBrace)
}

// operators reports the binding power of mini's infix operators. All of
// them are left associative.
func operators(kind syntax.Kind) (parser.OperatorInfo, bool) {
	switch kind {
	case Plus, Minus:
		return parser.Left(1), true
	case Star, Slash:
		return parser.Left(2), true
	default:
		return parser.OperatorInfo{}, false
	}
}

func isOperator(kind syntax.Kind) bool {
	_, ok := operators(kind)
	return ok
}

func startsExpr(kind syntax.Kind) bool {
	switch kind {
	case Number, String, Identifier, LParen:
		return true
	default:
		return false
	}
}

var expressions = &parser.Pratt{
	Prefix:  factor,
	Infix:   operators,
	Binary:  BinaryExpr,
	Missing: func(st *parser.State) { _ = expectedExpression(st) },
}

// expr parses an expression. It returns nil if no operand starts here.
func expr(st *parser.State) *tree.Node {
	return expressions.Parse(st, 0)
}

func factor(st *parser.State, operand parser.Operand) *tree.Node {
	cp := st.Checkpoint()
	switch st.PeekKind() {
	case Number, String:
		st.Bump()
		return st.FinishAt(cp, Literal)
	case Identifier:
		st.Bump()
		return st.FinishAt(cp, NameRef)
	case LParen:
		st.Bump()
		operand(st, 0)
		_ = st.Expect(RParen)
		return st.FinishAt(cp, ParenExpr)
	default:
		st.Restore(cp)
		return nil
	}
}

func expectedExpression(st *parser.State) error {
	err := diag.ExpectedToken(st.Offset(), "expression", Language.KindName(st.PeekKind()))
	st.Error(err)
	return err
}

// Reusable reports whether n is a complete statement whose parse could not
// have depended on anything after it. Only such nodes are reused by an
// incremental parse.
func Reusable(n *tree.Node) bool {
	switch n.Kind() {
	case LetStatement, ExprStatement, Block:
		return wellFormed(n)
	default:
		return false
	}
}

// wellFormed checks n against the shape the grammar builds when no
// diagnostic is recorded.
func wellFormed(n *tree.Node) bool {
	var shape []syntax.Kind
	for _, child := range n.Children() {
		if syntax.IsTrivia(Language, child.Kind()) {
			continue
		}
		if sub, ok := child.Node(); ok && !wellFormed(sub) {
			return false
		}
		shape = append(shape, child.Kind())
	}

	switch n.Kind() {
	case LetStatement:
		return len(shape) == 5 &&
			shape[0] == LetKw && shape[1] == Identifier && shape[2] == Eq &&
			isExprNode(shape[3]) && shape[4] == Semicolon
	case ExprStatement:
		return len(shape) == 2 && isExprNode(shape[0]) && shape[1] == Semicolon
	case Block:
		if len(shape) < 2 || shape[0] != LBrace || shape[len(shape)-1] != RBrace {
			return false
		}
		for _, k := range shape[1 : len(shape)-1] {
			if k != LetStatement && k != ExprStatement && k != Block {
				return false
			}
		}
		return true
	case BinaryExpr:
		return len(shape) == 3 && isExprNode(shape[0]) && isOperator(shape[1]) && isExprNode(shape[2])
	case ParenExpr:
		return len(shape) == 3 && shape[0] == LParen && isExprNode(shape[1]) && shape[2] == RParen
	case Literal:
		return len(shape) == 1 && (shape[0] == Number || shape[0] == String)
	case NameRef:
		return len(shape) == 1 && shape[0] == Identifier
	default:
		return false
	}
}

func isExprNode(kind syntax.Kind) bool {
	switch kind {
	case BinaryExpr, ParenExpr, Literal, NameRef:
		return true
	default:
		return false
	}
}

// WordGrammar keeps every token as a direct child of the root.
func WordGrammar(st *parser.State) diag.Output[*tree.Node] {
	return st.Finish(Root)
}

// NewParser returns the mini parser running on lx, or on NewLexer() when lx
// is nil.
func NewParser(lx lexer.Lexer, opts ...parser.Option) *parser.Driver {
	if lx == nil {
		lx = NewLexer()
	}
	opts = append([]parser.Option{parser.WithReusePolicy(Reusable)}, opts...)
	return parser.NewDriver(Language, lx, Grammar, opts...)
}

// NewWordParser returns the words parser running on lx, or on NewWordLexer()
// when lx is nil.
func NewWordParser(lx lexer.Lexer, opts ...parser.Option) *parser.Driver {
	if lx == nil {
		lx = NewWordLexer()
	}
	return parser.NewDriver(Language, lx, WordGrammar, opts...)
}
