package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/yaklabco/oak/internal/cli"
	"github.com/yaklabco/oak/internal/configloader"
	"github.com/yaklabco/oak/pkg/text"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLexJSON(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "let x = 1;")
	res := run(t, "", "lex", "--format", "json", path)
	require.NoError(t, res.err, res.stderr)

	doc := gjson.Parse(res.stdout)
	assert.Equal(t, "mini", doc.Get("language").String())
	assert.Equal(t, int64(9), doc.Get("tokens.#").Int())
	assert.Equal(t, "Let", doc.Get("tokens.0.kind").String())
	assert.Equal(t, "keyword", doc.Get("tokens.0.role").String())
	assert.Equal(t, "[0,3]", doc.Get("tokens.0.span").Raw)
	assert.Equal(t, "EOF", doc.Get("tokens.8.kind").String())
	assert.Equal(t, int64(0), doc.Get("diagnostics.#").Int())
}

func TestLexStdin(t *testing.T) {
	t.Parallel()

	res := run(t, "hello 42", "--lang", "words", "lex", "--format", "json", "-")
	require.NoError(t, res.err, res.stderr)

	doc := gjson.Parse(res.stdout)
	assert.Equal(t, "words", doc.Get("language").String())
	assert.Equal(t, []string{"hello", " ", "42", ""},
		stringsOf(doc.Get("tokens.#.text").Array()))
}

func TestLexText(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "x;")
	res := run(t, "", "lex", path)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "Identifier")
	assert.Contains(t, res.stdout, "Semicolon")
	assert.Contains(t, res.stdout, "mini: 3 tokens, no diagnostics")
}

func TestParseTree(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "let x = 1;\n")
	res := run(t, "", "parse", path)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "Root [0,11)")
	assert.Contains(t, res.stdout, "LetStatement [0,10)")
	assert.NotContains(t, res.stdout, "Whitespace")

	res = run(t, "", "parse", "--trivia", path)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "Whitespace")
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "x;")
	res := run(t, "", "parse", "--format", "json", path)
	require.NoError(t, res.err, res.stderr)

	doc := gjson.Parse(res.stdout)
	assert.Equal(t, "Root", doc.Get("tree.kind").String())
	assert.Equal(t, "ExprStatement", doc.Get("tree.children.0.kind").String())
	assert.Equal(t, "x", doc.Get("tree.children.0.children.0.children.0.text").String())
}

func TestParseDiagnostics(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "bad.mini", "let = 1;")
	res := run(t, "", "parse", path)

	require.ErrorIs(t, res.err, cli.ErrDiagnosticsFound)
	assert.Equal(t, cli.ExitDiagnostics, cli.ExitCode(res.err))
	assert.Contains(t, res.stdout, "bad.mini:1:5")
	assert.Contains(t, res.stdout, "expected Identifier, found Eq")
	assert.Contains(t, res.stdout, "(expected-token)")
}

func TestParseAST(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "let x = 1 + 2;\n{ x; }")
	res := run(t, "", "parse", "--ast", path)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "(let x (+ 1 2))")
	assert.Contains(t, res.stdout, "(block x)")
}

func TestEditJSON(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "let x = 1;\nlet y = 2;")
	res := run(t, "", "edit", "--format", "json", "--verify", "--at", "4:5", "--text", "longname", path)
	require.NoError(t, res.err, res.stderr)

	doc := gjson.Parse(res.stdout)
	assert.Equal(t, "let longname = 1;\nlet y = 2;", doc.Get("text").String())
	assert.True(t, doc.Get("verified").Bool())
	assert.Equal(t, int64(1), doc.Get("reuse.nodes_reused").Int())
	assert.Positive(t, doc.Get("reuse.tokens_reused").Int())
	assert.False(t, doc.Get("reuse.fell_back").Bool())
}

func TestEditText(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "let x = 1;\nlet y = 2;")
	res := run(t, "", "edit", "--verify", "--tree", "--at", "8", "--text", "4", path)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "LetStatement")
	assert.Contains(t, res.stdout, "reused")
	assert.Contains(t, res.stdout, "verified: matches full parse")
}

func TestEditUsageErrors(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "let x = 1;")

	tests := []struct {
		name string
		args []string
	}{
		{name: "no edits", args: []string{"edit", path}},
		{name: "bad range", args: []string{"edit", "--at", "a:b", "--text", "z", path}},
		{name: "unpaired", args: []string{"edit", "--at", "1:2", path}},
		{name: "out of range", args: []string{"edit", "--at", "4:99", "--text", "z", path}},
		{name: "overlap", args: []string{"edit", "--at", "0:4", "--text", "a", "--at", "2:6", "--text", "b", path}},
		{name: "unknown flag", args: []string{"edit", "--bogus", path}},
		{name: "missing arg", args: []string{"parse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, "", tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err), res.err.Error())
		})
	}
}

func TestUnknownLanguage(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "data.oakunknown", "???")
	res := run(t, "", "parse", path)
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
	assert.Contains(t, res.err.Error(), "--lang")
}

func TestMissingFile(t *testing.T) {
	t.Parallel()

	res := run(t, "", "lex", filepath.Join(t.TempDir(), "missing.mini"))
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(res.err))
}

func TestExplicitConfig(t *testing.T) {
	t.Parallel()

	cfgPath := writeSource(t, "oak.yml", "incremental:\n  node_reuse: false\n")
	path := writeSource(t, "prog.mini", "let x = 1;\nlet y = 2;")

	res := run(t, "", "--config", cfgPath, "edit", "--format", "json", "--at", "4:5", "--text", "z", path)
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, int64(0), gjson.Get(res.stdout, "reuse.nodes_reused").Int())

	bad := writeSource(t, "oak.yml", "log_level: shouting\n")
	res = run(t, "", "--config", bad, "lex", path)
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(res.err))
}

func TestLanguagesJSON(t *testing.T) {
	t.Parallel()

	res := run(t, "", "languages", "--format", "json")
	require.NoError(t, res.err)

	names := stringsOf(gjson.Get(res.stdout, "#.name").Array())
	assert.Equal(t, []string{"mini", "words"}, names)
	assert.Equal(t, "Text", gjson.Get(res.stdout, "1.aliases.0").String())
}

func TestInitWritesTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yml")
	res := run(t, "", "init", "--full", "--output", path)
	require.NoError(t, res.err, res.stderr)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# oak configuration")
	assert.Contains(t, string(content), "resync_tokens")

	res = run(t, "", "init", "--output", path)
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	cfgPath := writeSource(t, "oak.yml", "arena:\n  capacity_hint: 64\n")
	res := run(t, "", "--config", cfgPath, "config", "show")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "capacity_hint: 64")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, cli.ExitSuccess},
		{cli.ErrDiagnosticsFound, cli.ExitDiagnostics},
		{fmt.Errorf("wrapped: %w", cli.ErrDiagnosticsFound), cli.ExitDiagnostics},
		{&cli.UsageError{Err: errors.New("bad flag")}, cli.ExitInvalidUsage},
		{&text.ConflictError{}, cli.ExitInvalidUsage},
		{&configloader.ValidationError{Message: "bad"}, cli.ExitConfigError},
		{&os.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}, cli.ExitIOError},
		{errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cli.ExitCode(tt.err), "%v", tt.err)
	}

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromDiagnostics(0))
	assert.Equal(t, cli.ExitDiagnostics, cli.ExitCodeFromDiagnostics(2))
}

func stringsOf(values []gjson.Result) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func TestEditDiffAndWrite(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "let x = 1;\nlet y = 2;\n")
	res := run(t, "", "edit", "--diff", "--write", "--at", "4:5", "--text", "z", path)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "-let x = 1;")
	assert.Contains(t, res.stdout, "+let z = 1;")
	assert.Contains(t, res.stdout, "1 file changed, 1 insertion(+), 1 deletion(-)")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "let z = 1;\nlet y = 2;\n", string(content))

	res = run(t, "let x = 1;", "--lang", "mini", "edit", "--write", "--at", "4:5", "--text", "z", "-")
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
}

func TestEditDiffJSON(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "x;\n")
	res := run(t, "", "edit", "--format", "json", "--diff", "--at", "0:1", "--text", "y", path)
	require.NoError(t, res.err, res.stderr)

	diff := gjson.Get(res.stdout, "diff").String()
	assert.Contains(t, diff, "-x;")
	assert.Contains(t, diff, "+y;")
	assert.NotContains(t, diff, "\x1b[")
}

func TestCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"good.mini":     "let x = 1;\n",
		"bad.mini":      "let = 1;\n",
		"notes.txt":     "just words 42\n",
		"gen/skip.mini": "let = 2;\n",
		"data.json":     "{}",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	res := run(t, "", "check", "--format", "json", "--exclude", "gen", "--jobs", "2", dir)
	require.ErrorIs(t, res.err, cli.ErrDiagnosticsFound, res.stderr)

	doc := gjson.Parse(res.stdout)
	assert.Equal(t, int64(3), doc.Get("stats.files").Int())
	assert.Equal(t, int64(1), doc.Get("stats.with_diagnostics").Int())
	assert.Equal(t, int64(0), doc.Get("stats.errored").Int())
	assert.Equal(t, []string{"mini", "mini", "words"}, stringsOf(doc.Get("files.#.language").Array()))
	assert.Equal(t, "expected-token", doc.Get("files.0.diagnostics.0.kind").String())

	res = run(t, "", "check", filepath.Join(dir, "good.mini"), filepath.Join(dir, "notes.txt"))
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "checked 2 files, no diagnostics")
}

func TestCheckReportsUnreadableFiles(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "data.oakunknown", "???")
	res := run(t, "", "check", path)
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
	assert.Contains(t, res.stdout, "1 file failed")
}

func TestCheckLogsPerFile(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "prog.mini", "let x = 1;\n")
	res := run(t, "", "--debug", "check", path)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stderr, "checked file")
	assert.Contains(t, res.stderr, "path="+path)
	assert.Contains(t, res.stderr, "nodes=")
}
