package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

const (
	kIdent syntax.Kind = iota
	kNumber
	kSpace
	kEq
	kSemi
	kEOF
	kRoot
	kStmt
	kExpr
	kError
)

var lang = syntax.NewTable("tree-test", kEOF, kError, []syntax.KindInfo{
	kIdent:  {Name: "Ident", Token: syntax.TokenName},
	kNumber: {Name: "Number", Token: syntax.TokenLiteral},
	kSpace:  {Name: "Space", Token: syntax.TokenWhitespace},
	kEq:     {Name: "Eq", Token: syntax.TokenOperator},
	kSemi:   {Name: "Semi", Token: syntax.TokenPunctuation},
	kEOF:    {Name: "EOF", Token: syntax.TokenEOF},
	kRoot:   {Name: "Root", Element: syntax.ElementRoot},
	kStmt:   {Name: "Stmt", Element: syntax.ElementStatement},
	kExpr:   {Name: "Expr", Element: syntax.ElementExpression},
	kError:  {Name: "Error", Element: syntax.ElementError},
})

// buildAssign builds "x = 1;" as Stmt(Ident Space Eq Space Expr(Number) Semi).
func buildAssign(s *tree.Sink) *tree.Node {
	cp := s.Checkpoint()
	s.PushLeaf(kIdent, 1)
	s.PushLeaf(kSpace, 1)
	s.PushLeaf(kEq, 1)
	s.PushLeaf(kSpace, 1)
	expr := s.Checkpoint()
	s.PushLeaf(kNumber, 1)
	s.FinishNode(expr, kExpr)
	s.PushLeaf(kSemi, 1)
	return s.FinishNode(cp, kStmt)
}

// buildProgram builds "x = 1;x = 1;" with two statements and an EOF leaf.
func buildProgram(t *testing.T, arena *tree.Arena) *tree.Node {
	t.Helper()

	s := tree.NewSink(arena, 0)
	root := s.Checkpoint()
	buildAssign(s)
	buildAssign(s)
	s.PushLeaf(kEOF, 0)
	s.FinishNode(root, kRoot)

	n, ok := s.Root()
	require.True(t, ok)
	return n
}

func TestArenaHashConsing(t *testing.T) {
	t.Parallel()

	arena := tree.NewArena(0)
	root := buildProgram(t, arena)

	first, _ := root.Child(0).Node()
	second, _ := root.Child(1).Node()
	assert.Same(t, first, second, "identical statements share one node")
	assert.Equal(t, 12, root.Len())
	assert.Equal(t, 3, root.ChildCount())

	stats := arena.Stats()
	assert.Equal(t, 3, stats.Nodes, "Expr, Stmt and Root")
	assert.Equal(t, 2, stats.InternHits)

	got, ok := arena.Node(first.ID())
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.True(t, arena.Owns(root))
}

func TestFingerprintIsDeterministic(t *testing.T) {
	t.Parallel()

	a := buildProgram(t, tree.NewArena(0))
	b := buildProgram(t, tree.NewArena(0))

	assert.NotSame(t, a, b)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.True(t, tree.Equal(a, b))

	arena := tree.NewArena(0)
	other := arena.AllocNode(kRoot, []tree.Element{tree.LeafElement(arena.AllocLeaf(kIdent, 3, tree.NoMetadata))})
	assert.NotEqual(t, a.Fingerprint(), other.Fingerprint())
	assert.False(t, tree.Equal(a, other))
}

func TestSinkCheckpointDiscipline(t *testing.T) {
	t.Parallel()

	t.Run("out of order finish panics", func(t *testing.T) {
		t.Parallel()

		s := tree.NewSink(tree.NewArena(0), 0)
		outer := s.Checkpoint()
		s.PushLeaf(kIdent, 1)
		_ = s.Checkpoint()

		defer func() {
			r := recover()
			require.NotNil(t, r)
			cerr, ok := r.(*tree.CheckpointError)
			require.True(t, ok, "panic value %T", r)
			assert.Contains(t, cerr.Error(), "closed before")
		}()
		s.FinishNode(outer, kStmt)
	})

	t.Run("double close panics", func(t *testing.T) {
		t.Parallel()

		s := tree.NewSink(tree.NewArena(0), 0)
		cp := s.Checkpoint()
		s.FinishNode(cp, kStmt)
		assert.PanicsWithError(t, "tree: Restore: checkpoint 0 is not open", func() {
			s.Restore(cp)
		})
	})

	t.Run("restore discards", func(t *testing.T) {
		t.Parallel()

		s := tree.NewSink(tree.NewArena(0), 0)
		s.PushLeaf(kIdent, 1)
		cp := s.Checkpoint()
		s.PushLeaf(kSpace, 1)
		s.PushLeaf(kEq, 1)
		s.Restore(cp)
		assert.Equal(t, 1, s.Len())
		assert.Zero(t, s.OpenCheckpoints())

		root, err := s.Finish(kRoot)
		require.NoError(t, err)
		assert.Equal(t, 1, root.Len())
	})

	t.Run("finish with open checkpoint fails", func(t *testing.T) {
		t.Parallel()

		s := tree.NewSink(tree.NewArena(0), 0)
		s.Checkpoint()
		_, err := s.Finish(kRoot)
		var cerr *tree.CheckpointError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, 1, cerr.Open)
	})

	t.Run("checkpoint before wraps finished node", func(t *testing.T) {
		t.Parallel()

		s := tree.NewSink(tree.NewArena(0), 0)
		root := s.Checkpoint()
		lhs := s.Checkpoint()
		s.PushLeaf(kNumber, 1)
		left := s.FinishNode(lhs, kExpr)

		wrap := s.CheckpointBefore(left)
		s.PushLeaf(kEq, 1)
		s.PushLeaf(kNumber, 1)
		outer := s.FinishNode(wrap, kExpr)
		s.FinishNode(root, kRoot)

		assert.Equal(t, 3, outer.ChildCount())
		inner, ok := outer.Child(0).Node()
		require.True(t, ok)
		assert.Same(t, left, inner)
	})

	t.Run("push node imports foreign subtree", func(t *testing.T) {
		t.Parallel()

		foreign := buildProgram(t, tree.NewArena(0))
		arena := tree.NewArena(0)
		s := tree.NewSink(arena, 0)
		s.PushNode(foreign)
		root, err := s.Finish(kRoot)
		require.NoError(t, err)

		child, _ := root.Child(0).Node()
		assert.True(t, arena.Owns(child))
		assert.True(t, tree.Equal(foreign, child))
	})
}

func TestRedNavigation(t *testing.T) {
	t.Parallel()

	src := text.NewSource("x = 1;x = 1;")
	root := tree.Root(buildProgram(t, tree.NewArena(0)))

	assert.Equal(t, syntax.NewSpan(0, 12), root.Span())

	var spans []syntax.Span
	for child := range root.Children() {
		spans = append(spans, child.Span())
	}
	assert.Equal(t, []syntax.Span{{Start: 0, End: 6}, {Start: 6, End: 12}, {Start: 12, End: 12}}, spans)

	off, ok := root.OffsetOfChild(1)
	require.True(t, ok)
	assert.Equal(t, 6, off)

	idx, ok := root.ChildIndexAtOffset(7)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = root.ChildIndexAtOffset(12)
	assert.False(t, ok)

	assert.Equal(t, []int{0, 1}, root.OverlappingIndices(syntax.NewSpan(5, 7)))
	assert.Equal(t, []int{1}, root.OverlappingIndices(syntax.NewSpan(8, 8)))

	leaf, ok := root.LeafAt(10)
	require.True(t, ok)
	assert.Equal(t, kNumber, leaf.Kind)
	assert.Equal(t, syntax.NewSpan(10, 11), leaf.Span)

	covering := root.CoveringNode(syntax.NewSpan(10, 11))
	assert.Equal(t, kExpr, covering.Kind())
	assert.Equal(t, 10, covering.Offset)
	assert.Equal(t, kStmt, root.CoveringNode(syntax.NewSpan(7, 9)).Kind())
	assert.Equal(t, kRoot, root.CoveringNode(syntax.NewSpan(5, 7)).Kind())

	assert.Equal(t, "x = 1;", root.CoveringNode(syntax.NewSpan(7, 9)).Text(src))

	var total int
	for l := range root.Leaves() {
		total += l.Span.Len()
	}
	assert.Equal(t, src.Len(), total)
}

func TestWalk(t *testing.T) {
	t.Parallel()

	root := tree.Root(buildProgram(t, tree.NewArena(0)))

	var enters, leaves int
	err := tree.WalkWithContext(root, func(el tree.RedElement) error {
		enters++
		if el.Kind() == kStmt {
			return tree.SkipChildren
		}
		return nil
	}, func(tree.RedElement) error {
		leaves++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, enters, "root, two statements, eof")
	assert.Equal(t, 4, leaves)

	var kinds []syntax.Kind
	require.NoError(t, tree.Walk(root, func(el tree.RedElement) error {
		kinds = append(kinds, el.Kind())
		return nil
	}))
	assert.Len(t, kinds, 1+2*8+1)
}

func TestCursor(t *testing.T) {
	t.Parallel()

	root := buildProgram(t, tree.NewArena(0))
	c := tree.NewCursor(root)

	var offsets []int
	for c.Step() {
		if n, ok := c.Node(); ok && n.Kind() == kExpr {
			offsets = append(offsets, c.Offset())
		}
	}
	assert.Equal(t, []int{4, 10}, offsets)
	assert.True(t, c.Done())
	assert.False(t, c.Step())

	c = tree.NewCursor(root)
	require.True(t, c.StepInto())
	require.True(t, c.StepOver())
	assert.Equal(t, 6, c.Offset())
	assert.Equal(t, 12, c.End())
	require.True(t, c.StepOut())
	assert.Zero(t, c.Depth())
}

func TestProvenance(t *testing.T) {
	t.Parallel()

	src := text.NewSource("abc")
	arena := tree.NewArena(0)
	s := tree.NewSink(arena, 0)
	s.PushLeaf(kIdent, 1)
	s.PushLeafWithMetadata(kIdent, 2, tree.NewProvenance(
		tree.SourcePart(syntax.NewSpan(1, 3)),
		tree.SynthesizedPart("!"),
		tree.OpaqueTag("macro"),
	))
	root, err := s.Finish(kRoot)
	require.NoError(t, err)

	red := tree.Root(root)
	assert.Equal(t, "abc!", red.MaterializedText(src))
	assert.Equal(t, "abc", red.Text(src))

	leaf, ok := red.LeafAt(2)
	require.True(t, ok)
	p, ok := arena.Metadata(leaf.Meta)
	require.True(t, ok)
	assert.Equal(t, []string{"macro"}, p.Tags())

	_, ok = arena.Metadata(tree.NoMetadata)
	assert.False(t, ok)

	imported := tree.NewArena(0).Import(root)
	assert.True(t, tree.Equal(root, imported))
}

func TestDump(t *testing.T) {
	t.Parallel()

	src := text.NewSource("x = 1;x = 1;")
	root := tree.Root(buildProgram(t, tree.NewArena(0)))

	dump := tree.Dump(lang, root, src)
	assert.Contains(t, dump, "Root [0,12)\n  Stmt [0,6)\n    Ident [0,1) \"x\"\n")
	assert.Contains(t, dump, "      Number [10,11) \"1\"\n")

	doc, err := tree.MarshalJSON(lang, root, src)
	require.NoError(t, err)
	assert.True(t, gjson.Valid(doc))
	assert.Equal(t, "Root", gjson.Get(doc, "kind").String())
	assert.Equal(t, int64(3), gjson.Get(doc, "children.#").Int())
	assert.Equal(t, "=", gjson.Get(doc, "children.1.children.2.text").String())
	assert.Equal(t, int64(6), gjson.Get(doc, "children.1.span.0").Int())
}
