package parser_test

import (
	"errors"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/incremental"
	"github.com/yaklabco/oak/pkg/lexer"
	"github.com/yaklabco/oak/pkg/parser"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

const (
	kWord syntax.Kind = iota
	kSpace
	kSemi
	kBad
	kEOF
	kRoot
	kItem
	kPair
	kError
)

var lang = syntax.NewTable("items", kEOF, kError, []syntax.KindInfo{
	kWord:  {Name: "Word", Token: syntax.TokenName},
	kSpace: {Name: "Space", Token: syntax.TokenWhitespace},
	kSemi:  {Name: "Semi", Token: syntax.TokenPunctuation},
	kBad:   {Name: "Bad", Token: syntax.TokenError},
	kEOF:   {Name: "EOF", Token: syntax.TokenEOF},
	kRoot:  {Name: "Root", Element: syntax.ElementRoot},
	kItem:  {Name: "Item", Element: syntax.ElementStatement},
	kPair:  {Name: "Pair", Element: syntax.ElementExpression},
	kError: {Name: "Error", Element: syntax.ElementError},
})

type scanner struct{}

func (scanner) ErrorToken() syntax.Kind { return kBad }

func (scanner) Scan(s *lexer.State) {
	start := s.Pos()
	r, _ := s.Peek()
	switch {
	case unicode.IsLetter(r) || unicode.IsDigit(r):
		s.TakeWhile(func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
		s.AddToken(kWord, start, s.Pos())
	case r == ' ':
		s.TakeWhileByte(func(b byte) bool { return b == ' ' })
		s.AddToken(kSpace, start, s.Pos())
	case s.ConsumePrefix(";"):
		s.AddToken(kSemi, start, s.Pos())
	}
}

// grammar parses "word ;" items.
func grammar(st *parser.State) diag.Output[*tree.Node] {
	st.SkipTrivia()
	for st.NotAtEnd() {
		if st.At(kWord) {
			_ = st.IncrementalNode(kItem, func(st *parser.State) error {
				st.Bump()
				return st.Expect(kSemi)
			})
			continue
		}
		st.ErrorNode("unexpected %s", st.Language().KindName(st.PeekKind()))
	}
	return st.Finish(kRoot)
}

func endsWithSemi(n *tree.Node) bool {
	last := syntax.Kind(0)
	for leaf := range tree.Root(n).Leaves() {
		if !syntax.IsTrivia(lang, leaf.Kind) {
			last = leaf.Kind
		}
	}
	return last == kSemi
}

func newDriver(opts ...parser.Option) *parser.Driver {
	opts = append([]parser.Option{parser.WithReusePolicy(endsWithSemi)}, opts...)
	return parser.NewDriver(lang, lexer.New(lang, scanner{}), grammar, opts...)
}

func TestParseItems(t *testing.T) {
	t.Parallel()

	src := text.NewSource(" a; b ;")
	out := newDriver().Parse(src, nil, nil)
	require.True(t, out.OK())
	assert.Empty(t, out.Diagnostics)

	root := tree.Root(out.Value)
	assert.Equal(t, kRoot, root.Kind())
	assert.Equal(t, src.Len(), root.Green.Len())

	var items int
	for child := range root.Children() {
		if child.Kind() == kItem {
			items++
		}
	}
	assert.Equal(t, 2, items)
	assert.Equal(t, " a; b ;", root.Text(src))
}

func TestParseRecovery(t *testing.T) {
	t.Parallel()

	src := text.NewSource("a ; ; b")
	out := newDriver().Parse(src, nil, nil)
	require.True(t, out.OK())
	require.Len(t, out.Diagnostics, 2)

	assert.ErrorIs(t, out.Diagnostics[0], diag.ErrSyntax)
	assert.Equal(t, 4, out.Diagnostics[0].Offset)
	assert.ErrorIs(t, out.Diagnostics[1], diag.ErrExpectedToken)
	assert.Equal(t, 7, out.Diagnostics[1].Offset)

	root := tree.Root(out.Value)
	assert.Equal(t, kError, root.CoveringNode(syntax.NewSpan(4, 5)).Kind())
	assert.Equal(t, src.Len(), root.Green.Len())
}

func TestParseLexerDiagnosticsComeFirst(t *testing.T) {
	t.Parallel()

	out := newDriver().Parse(text.NewSource("a;@"), nil, nil)
	require.True(t, out.OK())
	require.Len(t, out.Diagnostics, 2)
	assert.ErrorIs(t, out.Diagnostics[0], diag.ErrUnexpectedCharacter)
	assert.ErrorIs(t, out.Diagnostics[1], diag.ErrSyntax)
}

func TestIncrementalReuse(t *testing.T) {
	t.Parallel()

	cache := incremental.NewCache(0)
	d := newDriver()

	first := d.Parse(text.NewSource("a; b; c; d;"), nil, cache)
	require.True(t, first.OK())

	edits := []text.TextEdit{text.Replace(3, 4, "bb")}
	src := text.NewSource("a; bb; c; d;")
	out, stats := d.ParseWithStats(src, edits, cache)
	require.True(t, out.OK())

	full := newDriver().Parse(src, nil, nil)
	require.True(t, full.OK())
	assert.True(t, tree.Equal(full.Value, out.Value))
	assert.Equal(t, 2, stats.NodesReused, "c and d are reused; a touches the edit")
	assert.Positive(t, stats.TokensReused)

	assert.Same(t, out.Value, cache.Tree())
	assert.Same(t, src, cache.Source())
}

func TestIncrementalReuseDisabled(t *testing.T) {
	t.Parallel()

	cache := incremental.NewCache(0)
	d := newDriver(parser.WithNodeReuse(false))
	require.True(t, d.Parse(text.NewSource("a; b; c; d;"), nil, cache).OK())

	_, stats := d.ParseWithStats(text.NewSource("a; bb; c; d;"), []text.TextEdit{text.Replace(3, 4, "bb")}, cache)
	assert.Zero(t, stats.NodesReused)
}

func TestReusePolicyRejectsOpenNodes(t *testing.T) {
	t.Parallel()

	cache := incremental.NewCache(0)
	d := newDriver()
	require.True(t, d.Parse(text.NewSource("a; b c; d"), nil, cache).OK())

	src := text.NewSource("a; b c; dd")
	out, stats := d.ParseWithStats(src, []text.TextEdit{text.Insert(8, "d")}, cache)
	require.True(t, out.OK())

	full := newDriver().Parse(src, nil, nil)
	assert.True(t, tree.Equal(full.Value, out.Value))
	assert.Equal(t, 1, stats.NodesReused, "only the terminated item before the edit")
}

func TestStateOperations(t *testing.T) {
	t.Parallel()

	src := text.NewSource("a b;")
	tokens := lexer.Run(lang, src, scanner{}).Value
	st := parser.NewState(lang, src, tokens, tree.NewArena(0))

	assert.Equal(t, kWord, st.PeekKind())
	assert.Equal(t, kSpace, st.PeekKindAt(1))
	assert.Equal(t, kWord, st.PeekNonTrivia(1))
	assert.Equal(t, kSemi, st.PeekNonTrivia(2))
	assert.Equal(t, kEOF, st.PeekNonTrivia(3))
	assert.True(t, st.AtAny(kSemi, kWord))

	t.Run("try parse rewinds", func(t *testing.T) {
		err := st.TryParse(func(st *parser.State) error {
			st.Bump()
			st.Error(diag.Syntax(0, "speculative"))
			return errors.New("no")
		})
		require.Error(t, err)
		assert.Zero(t, st.TokenIndex())
		assert.Empty(t, st.Diagnostics())
		assert.Zero(t, st.Sink().Len())
	})

	t.Run("checkpoint before wraps", func(t *testing.T) {
		cp := st.Checkpoint()
		st.Bump()
		item := st.FinishAt(cp, kItem)

		wrap := st.CheckpointBefore(item)
		st.Bump()
		pair := st.FinishAt(wrap, kPair)
		assert.Equal(t, 2, pair.ChildCount())
		assert.Equal(t, 3, pair.Len())
	})

	t.Run("expect records and does not consume", func(t *testing.T) {
		err := st.Expect(kWord)
		var derr *diag.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "Word", derr.Expected)
		assert.Equal(t, "Semi", derr.Found)
		assert.True(t, st.At(kSemi))
	})

	t.Run("advance until and finish", func(t *testing.T) {
		st.AdvanceUntil(kEOF)
		assert.True(t, st.AtEnd())
		out := st.Finish(kRoot)
		require.True(t, out.OK())
		assert.Equal(t, 4, out.Value.Len())
		assert.Len(t, out.Diagnostics, 1)
	})
}

func TestFinishWithOpenCheckpointFails(t *testing.T) {
	t.Parallel()

	src := text.NewSource("a")
	st := parser.NewState(lang, src, lexer.Run(lang, src, scanner{}).Value, tree.NewArena(0))
	st.Checkpoint()
	out := st.Finish(kRoot)
	assert.False(t, out.OK())

	var cerr *tree.CheckpointError
	assert.ErrorAs(t, out.Err, &cerr)
}
