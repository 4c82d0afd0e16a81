package engine_test

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/engine"
	"github.com/yaklabco/oak/pkg/incremental"
	"github.com/yaklabco/oak/pkg/lang/mini"
	"github.com/yaklabco/oak/pkg/oaktest"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

func newEngine(t *testing.T) *engine.Engine[*mini.Program] {
	t.Helper()

	lx := mini.NewLexer()
	return engine.New(mini.Language, lx, mini.NewParser(lx), mini.Lower,
		engine.WithLogger(log.New(t.Output())))
}

func TestBuild(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	out := e.Build(text.NewSource("let x = 1 + 2; y"))
	require.True(t, out.OK())
	assert.Equal(t, "(let x (+ 1 2))\ny", out.Value.String())

	// The parser's missing semicolon comes before anything from lowering.
	require.Len(t, out.Diagnostics, 1)
	assert.ErrorIs(t, out.Diagnostics[0], diag.ErrExpectedToken)
}

func TestLex(t *testing.T) {
	t.Parallel()

	out := newEngine(t).Lex(text.NewSource("a;"))
	require.True(t, out.OK())
	assert.Len(t, out.Value, 3)
}

func TestBuildIncremental(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	cache := incremental.NewCache(0)

	first := e.BuildInto(cache, text.NewSource("let x = 1;\nlet y = x;"))
	require.True(t, first.OK())

	out := e.BuildIncremental(cache, []text.TextEdit{text.Replace(4, 5, "longname")})
	require.True(t, out.OK())
	assert.Equal(t, "(let longname 1)\n(let y x)", out.Value.String())
	assert.Equal(t, "let longname = 1;\nlet y = x;", cache.Source().String())
	assert.Equal(t, 1, cache.Current().Stats.NodesReused)

	out = e.BuildIncremental(cache, []text.TextEdit{text.Replace(26, 27, "longname")})
	require.True(t, out.OK())
	assert.Equal(t, "(let longname 1)\n(let y longname)", out.Value.String())

	src := cache.Source()
	oaktest.AssertTreesEqual(t, mini.Language, e.Parse(src).Value, cache.Tree(), src)
	oaktest.AssertAll(t, cache.Tree(), src)
}

func TestParseIncrementalErrors(t *testing.T) {
	t.Parallel()

	e := newEngine(t)

	out := e.ParseIncremental(incremental.NewCache(0), []text.TextEdit{text.Insert(0, "x")})
	assert.ErrorIs(t, out.Err, engine.ErrEmptyCache)

	cache := incremental.NewCache(0)
	require.True(t, e.ParseInto(cache, text.NewSource("a;")).OK())
	before := cache.Current()

	out = e.ParseIncremental(cache, []text.TextEdit{text.Replace(1, 9, "")})
	require.False(t, out.OK())
	var verr *text.ValidationError
	assert.ErrorAs(t, out.Err, &verr)
	assert.Same(t, before, cache.Current())

	out = e.ParseIncremental(cache, []text.TextEdit{text.Replace(0, 2, "x"), text.Replace(1, 2, "y")})
	var cerr *text.ConflictError
	assert.ErrorAs(t, out.Err, &cerr)
}

func TestParseOnlyEngine(t *testing.T) {
	t.Parallel()

	lx := mini.NewWordLexer()
	e := engine.New[*tree.Node](mini.Language, lx, mini.NewWordParser(lx), nil)

	parsed := e.Parse(text.NewSource("abc123"))
	require.True(t, parsed.OK())
	assert.Equal(t, 6, parsed.Value.Len())

	assert.False(t, e.Build(text.NewSource("abc")).OK())
}

func TestBuildAnyPropagatesFailure(t *testing.T) {
	t.Parallel()

	var fe engine.Frontend = newEngine(t)
	out := fe.BuildAny(text.NewSource("99999999999999999999;"))
	assert.False(t, out.OK())
	assert.ErrorIs(t, out.Err, diag.ErrCustom)

	out = fe.BuildAny(text.NewSource("1;"))
	require.True(t, out.OK())
	prog, ok := out.Value.(*mini.Program)
	require.True(t, ok)
	assert.Len(t, prog.Statements, 1)
}
