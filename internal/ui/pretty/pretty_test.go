package pretty_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/oak/internal/ui/pretty"
	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/incremental"
	"github.com/yaklabco/oak/pkg/lang/mini"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
)

func TestIsColorEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", &buf))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "a buffer is not a terminal")
}

func TestTerminalWidthDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, pretty.TerminalWidth(&bytes.Buffer{}))
}

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	src := text.NewSource("let x = 1;\nlet = 2;\n")
	err := diag.ExpectedToken(15, "Identifier", "Eq")

	out := pretty.NewStyles(false).FormatDiagnostic("prog.mini", src, err, true)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "  prog.mini:2:5  error  expected Identifier, found Eq  (expected-token)", lines[0])
	assert.Equal(t, "        let = 2;", lines[1])
	assert.Equal(t, "            ^", lines[2])
}

func TestFormatDiagnosticWithoutOffset(t *testing.T) {
	t.Parallel()

	err := diag.Internal("boom")
	out := pretty.NewStyles(false).FormatDiagnostic("prog.mini", nil, err, true)
	assert.Equal(t, "  prog.mini  error  boom  (internal)\n", out)
}

func TestLineText(t *testing.T) {
	t.Parallel()

	src := text.NewSource("one\r\ntwo\nthree")
	assert.Equal(t, "one", pretty.LineText(src, 1))
	assert.Equal(t, "two", pretty.LineText(src, 2))
	assert.Equal(t, "three", pretty.LineText(src, 3))
	assert.Empty(t, pretty.LineText(src, 4))
}

func TestFormatTree(t *testing.T) {
	t.Parallel()

	src := text.NewSource("let x = 1;")
	out := mini.NewParser(nil).Parse(src, nil, nil)
	require.True(t, out.OK())

	styles := pretty.NewStyles(false)
	rendered := styles.FormatTree(mini.Language, out.Value, src, pretty.TreeOptions{})

	assert.Contains(t, rendered, "Root [0,10)")
	assert.Contains(t, rendered, "LetStatement [0,10)")
	assert.Contains(t, rendered, `Identifier [4,5) "x"`)
	assert.NotContains(t, rendered, "Whitespace")

	withTrivia := styles.FormatTree(mini.Language, out.Value, src, pretty.TreeOptions{ShowTrivia: true})
	assert.Contains(t, withTrivia, `Whitespace [3,4) " "`)
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	src := text.NewSource("x;")
	tokens := []syntax.Token{
		{Kind: mini.Identifier, Span: syntax.NewSpan(0, 1)},
		{Kind: mini.Semicolon, Span: syntax.NewSpan(1, 2)},
		{Kind: mini.EOF, Span: syntax.NewSpan(2, 2)},
	}

	out := pretty.NewStyles(false).FormatTokens(mini.Language, tokens, src, 0)
	for _, want := range []string{"KIND", "Identifier", "name", "[0,1)", `"x"`, "Semicolon", "EOF"} {
		assert.Contains(t, out, want)
	}
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	full := styles.FormatSummaryOneLine(pretty.Summary{Language: "mini", Tokens: 5, Nodes: 2, Diagnostics: 1})
	assert.Equal(t, "mini: 5 tokens, 2 nodes, 1 diagnostic\n", full)

	clean := styles.FormatSummaryOneLine(pretty.Summary{Language: "words", Tokens: 1})
	assert.Equal(t, "words: 1 token, no diagnostics\n", clean)

	reuse := styles.FormatSummaryOneLine(pretty.Summary{
		Language: "mini",
		Tokens:   8,
		Nodes:    3,
		Reuse: &incremental.Stats{
			TokensReused:  6,
			TokensRelexed: 2,
			NodesReused:   1,
			RelexWindow:   syntax.NewSpan(4, 12),
		},
	})
	assert.Equal(t, "mini: 8 tokens, 3 nodes, no diagnostics; reused 6 tokens, 1 node; relexed 2 tokens in [4,12)\n", reuse)
}

func TestFormatDiff(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	out, stats, err := styles.FormatDiff("prog.mini", "let x = 1;\nlet y = 2;\n", "let z = 1;\nlet y = 2;\n")
	require.NoError(t, err)

	assert.Equal(t, pretty.DiffStats{Additions: 1, Deletions: 1}, stats)
	assert.True(t, stats.HasChanges())
	assert.Equal(t, strings.Join([]string{
		"diff --git a/prog.mini b/prog.mini",
		"--- a/prog.mini",
		"+++ b/prog.mini",
		"@@ -1,2 +1,2 @@",
		"-let x = 1;",
		"+let z = 1;",
		" let y = 2;",
		"",
	}, "\n"), out)
	assert.Equal(t, "1 file changed, 1 insertion(+), 1 deletion(-)\n", styles.FormatDiffSummary(stats))

	out, _, err = styles.FormatDiff("prog.mini", "a;\nb;", "a;\nc;")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"diff --git a/prog.mini b/prog.mini",
		"--- a/prog.mini",
		"+++ b/prog.mini",
		"@@ -1,2 +1,2 @@",
		" a;",
		"-b;",
		"+c;",
		"",
	}, "\n"), out)

	out, stats, err = styles.FormatDiff("prog.mini", "x;", "x;")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.False(t, stats.HasChanges())
}
