package oaktest_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/oak/pkg/oaktest"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

const (
	kWord syntax.Kind = iota
	kSpace
	kEOF
	kRoot
	kPair
	kError
)

var lang = syntax.NewTable("oaktest", kEOF, kError, []syntax.KindInfo{
	kWord:  {Name: "Word", Token: syntax.TokenName},
	kSpace: {Name: "Space", Token: syntax.TokenWhitespace},
	kEOF:   {Name: "EOF", Token: syntax.TokenEOF},
	kRoot:  {Name: "Root", Element: syntax.ElementRoot},
	kPair:  {Name: "Pair", Element: syntax.ElementContainer},
	kError: {Name: "Error", Element: syntax.ElementError},
})

// recorder captures failures instead of stopping the test.
type recorder struct {
	testing.TB
	failures []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *recorder) Fatalf(format string, args ...any) {
	r.Errorf(format, args...)
}

// buildPair builds Root(Pair(Word Space Word) EOF) for "ab cd".
func buildPair() *tree.Node {
	sink := tree.NewSink(tree.NewArena(0), 0)
	cp := sink.Checkpoint()
	sink.PushLeaf(kWord, 2)
	sink.PushLeaf(kSpace, 1)
	sink.PushLeaf(kWord, 2)
	sink.FinishNode(cp, kPair)
	sink.PushLeaf(kEOF, 0)
	root, err := sink.Finish(kRoot)
	if err != nil {
		panic(err)
	}
	return root
}

func TestStructuralAssertions(t *testing.T) {
	t.Parallel()

	root := buildPair()
	src := text.NewSource("ab cd")

	assert.True(t, oaktest.AssertAll(t, root, src))

	rec := &recorder{TB: t}
	assert.False(t, oaktest.AssertRoundTrip(rec, root, text.NewSource("ab cde")))
	assert.NotEmpty(t, rec.failures)
}

func TestSnapshotQuery(t *testing.T) {
	t.Parallel()

	src := text.NewSource("ab cd")
	snap := oaktest.Snapshot(t, lang, buildPair(), src)

	assert.Equal(t, "Root", oaktest.Query(snap, "kind").String())
	assert.Equal(t, "Pair", oaktest.Query(snap, "children.0.kind").String())
	assert.Equal(t, "cd", oaktest.Query(snap, "children.0.children.2.text").String())
	assert.Equal(t, int64(5), oaktest.Query(snap, "span.1").Int())
}

func TestAssertTreesEqual(t *testing.T) {
	t.Parallel()

	src := text.NewSource("ab cd")
	assert.True(t, oaktest.AssertTreesEqual(t, lang, buildPair(), buildPair(), src))

	sink := tree.NewSink(tree.NewArena(0), 0)
	sink.PushLeaf(kWord, 5)
	sink.PushLeaf(kEOF, 0)
	flat, err := sink.Finish(kRoot)
	require.NoError(t, err)

	rec := &recorder{TB: t}
	assert.False(t, oaktest.AssertTreesEqual(rec, lang, buildPair(), flat, src))
	assert.Len(t, rec.failures, 1)
}

func TestRunWithTimeout(t *testing.T) {
	t.Parallel()

	ran := false
	oaktest.RunWithTimeout(t, time.Second, func() { ran = true })
	assert.True(t, ran)

	rec := &recorder{TB: t}
	release := make(chan struct{})
	defer close(release)
	oaktest.RunWithTimeout(rec, 10*time.Millisecond, func() { <-release })
	require.Len(t, rec.failures, 1)
	assert.Contains(t, rec.failures[0], "timed out")

	rec = &recorder{TB: t}
	oaktest.RunWithTimeout(rec, time.Second, func() { panic("boom") })
	require.Len(t, rec.failures, 1)
	assert.Contains(t, rec.failures[0], "boom")
}
