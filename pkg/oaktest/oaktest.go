// Package oaktest holds test helpers shared by language front ends: a
// timeout guard for synchronous builds, JSON tree snapshots, and assertions
// for the structural properties every green tree must satisfy.
package oaktest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

// DefaultTimeout bounds a single lex, parse or build in tests.
const DefaultTimeout = 10 * time.Second

// RunWithTimeout runs fn and fails the test if it does not return within d.
// fn runs on its own goroutine; a hung fn is abandoned, not stopped.
func RunWithTimeout(tb testing.TB, d time.Duration, fn func()) {
	tb.Helper()

	done := make(chan any, 1)
	go func() {
		defer func() { done <- recover() }()
		fn()
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case r := <-done:
		if r != nil {
			tb.Fatalf("panic: %v", r)
		}
	case <-timer.C:
		tb.Fatalf("timed out after %s", d)
	}
}

// Snapshot renders root as JSON with leaf text taken from src.
func Snapshot(tb testing.TB, lang syntax.Language, root *tree.Node, src *text.Source) string {
	tb.Helper()

	doc, err := tree.MarshalJSON(lang, tree.Root(root), src)
	if err != nil {
		tb.Fatalf("snapshot: %v", err)
	}
	return doc
}

// Query evaluates a gjson path against a snapshot.
func Query(snapshot, path string) gjson.Result {
	return gjson.Get(snapshot, path)
}

// AssertRoundTrip checks that the leaves of root reproduce src exactly.
func AssertRoundTrip(tb testing.TB, root *tree.Node, src *text.Source) bool {
	tb.Helper()

	red := tree.Root(root)
	ok := assert.Equal(tb, src.Len(), root.Len(), "root length")
	return assert.Equal(tb, src.String(), red.MaterializedText(src), "leaf text") && ok
}

// AssertLengthInvariant checks that every node's length is the sum of its
// children's lengths.
func AssertLengthInvariant(tb testing.TB, root *tree.Node) bool {
	tb.Helper()

	var bad []string
	_ = tree.Walk(tree.Root(root), func(el tree.RedElement) error {
		node, ok := el.Node()
		if !ok {
			return nil
		}
		sum := 0
		for _, child := range node.Green.Children() {
			sum += child.Len()
		}
		if sum != node.Green.Len() {
			bad = append(bad, fmt.Sprintf("node at %s: len %d, children sum %d", node.Span(), node.Green.Len(), sum))
		}
		return nil
	})
	return assert.Empty(tb, bad, "length invariant")
}

// AssertSpanTiling checks that the children of every node are contiguous,
// ordered and cover exactly the node's span.
func AssertSpanTiling(tb testing.TB, root *tree.Node) bool {
	tb.Helper()

	var bad []string
	_ = tree.Walk(tree.Root(root), func(el tree.RedElement) error {
		node, ok := el.Node()
		if !ok {
			return nil
		}
		span := node.Span()
		next := span.Start
		for child := range node.Children() {
			cs := child.Span()
			if cs.Start != next || cs.End < cs.Start {
				bad = append(bad, fmt.Sprintf("child %s of %s does not start at %d", cs, span, next))
			}
			next = cs.End
		}
		if next != span.End {
			bad = append(bad, fmt.Sprintf("children of %s end at %d", span, next))
		}
		return nil
	})
	return assert.Empty(tb, bad, "span tiling")
}

// AssertTreesEqual checks structural equality and prints both trees when
// they differ.
func AssertTreesEqual(tb testing.TB, lang syntax.Language, want, got *tree.Node, src *text.Source) bool {
	tb.Helper()

	if tree.Equal(want, got) {
		return true
	}
	return assert.Equal(tb, tree.Dump(lang, tree.Root(want), src), tree.Dump(lang, tree.Root(got), src), "trees differ")
}

// AssertAll runs every structural assertion on root.
func AssertAll(tb testing.TB, root *tree.Node, src *text.Source) bool {
	tb.Helper()

	ok := AssertRoundTrip(tb, root, src)
	ok = AssertLengthInvariant(tb, root) && ok
	return AssertSpanTiling(tb, root) && ok
}
