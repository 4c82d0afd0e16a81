package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/yaklabco/oak/internal/logging"
	"github.com/yaklabco/oak/internal/ui/pretty"
	"github.com/yaklabco/oak/pkg/fsutil"
	"github.com/yaklabco/oak/pkg/incremental"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

// ErrIncrementalMismatch is returned by edit --verify when the incremental
// tree differs from a fresh parse of the edited text.
var ErrIncrementalMismatch = errors.New("incremental parse differs from full parse")

type editFlags struct {
	at     []string
	text   []string
	tree   bool
	verify bool
	diff   bool
	write  bool
}

func newEditCommand(global *globalFlags) *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit <file|-> --at START:END --text TEXT...",
		Short: "Apply edits and reparse incrementally",
		Long: `Parse a file, apply one or more edits and reparse incrementally,
then report how many tokens and nodes were reused. Offsets are byte offsets
into the original file; each --at pairs with the --text at the same position.

Examples:
  oak edit prog.mini --at 4:5 --text longname
  oak edit prog.mini --at 0:0 --text 'let y = 2;' --at 9:10 --text 3
  oak edit prog.mini --at 4:5 --text z --verify --tree
  oak edit prog.mini --at 4:5 --text z --diff --write`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := flags.edits()
			if err != nil {
				return usageError(err)
			}
			if flags.write && args[0] == stdinPath {
				return usageError(errors.New("--write needs a file, not standard input"))
			}

			sess, err := newSession(cmd, global)
			if err != nil {
				return err
			}
			return sess.runEdit(args[0], edits, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.at, "at", nil, "byte range START:END to replace (repeatable)")
	cmd.Flags().StringArrayVar(&flags.text, "text", nil, "replacement text for the matching --at (repeatable)")
	cmd.Flags().BoolVar(&flags.tree, "tree", false, "print the new syntax tree")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "check the result against a full parse")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff of the edit")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write the edited text back to the file")

	return cmd
}

// edits pairs --at and --text values into text edits.
func (f *editFlags) edits() ([]text.TextEdit, error) {
	if len(f.at) == 0 {
		return nil, errors.New("at least one --at is required")
	}
	if len(f.at) != len(f.text) {
		return nil, fmt.Errorf("got %d --at values but %d --text values", len(f.at), len(f.text))
	}

	edits := make([]text.TextEdit, len(f.at))
	for i, at := range f.at {
		start, end, err := parseRange(at)
		if err != nil {
			return nil, err
		}
		edits[i] = text.Replace(start, end, f.text[i])
	}
	return edits, nil
}

// parseRange parses "START:END", or a bare "OFFSET" for an insertion.
func parseRange(s string) (int, int, error) {
	startStr, endStr, hasEnd := strings.Cut(s, ":")

	start, err := strconv.Atoi(startStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --at %q: bad start offset", s)
	}
	if !hasEnd {
		return start, start, nil
	}

	end, err := strconv.Atoi(endStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --at %q: bad end offset", s)
	}
	return start, end, nil
}

func (s *session) runEdit(path string, edits []text.TextEdit, flags *editFlags) error {
	doc, err := s.openDocument(path)
	if err != nil {
		return err
	}

	cache := incremental.NewCache(s.cfg.Arena.CapacityHint)
	if first := doc.frontend.ParseInto(cache, doc.src); !first.OK() {
		return fmt.Errorf("parse %s: %w", path, first.Err)
	}

	out := doc.frontend.ParseIncremental(cache, edits)
	if !out.OK() {
		return fmt.Errorf("reparse %s: %w", path, out.Err)
	}

	gen := cache.Current()
	edited := &document{path: doc.path, src: gen.Source, frontend: doc.frontend, language: doc.language}
	stats := gen.Stats

	s.logger.Debug("reparsed",
		logging.FieldPath, path,
		logging.FieldEdits, len(edits),
		logging.FieldTokensReused, stats.TokensReused,
		logging.FieldTokensRelexed, stats.TokensRelexed,
		logging.FieldNodesReused, stats.NodesReused,
	)

	var verifyErr error
	if flags.verify {
		full := doc.frontend.Parse(gen.Source)
		if !full.OK() || !tree.Equal(full.Value, out.Value) {
			verifyErr = ErrIncrementalMismatch
		}
	}

	nodes, _ := countElements(out.Value)

	if s.jsonOutput() {
		report, err := newReport(edited)
		if err != nil {
			return err
		}
		if report, err = statsJSON(report, stats, len(gen.Tokens), nodes); err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
		if report, err = sjson.Set(report, "text", gen.Source.String()); err != nil {
			return fmt.Errorf("encode text: %w", err)
		}
		if flags.verify {
			if report, err = sjson.Set(report, "verified", verifyErr == nil); err != nil {
				return fmt.Errorf("encode verification: %w", err)
			}
		}
		if flags.diff {
			diff, _, err := pretty.NewStyles(false).FormatDiff(diffPath(path), doc.src.String(), gen.Source.String())
			if err != nil {
				return err
			}
			if report, err = sjson.Set(report, "diff", diff); err != nil {
				return fmt.Errorf("encode diff: %w", err)
			}
		}
		if err := finishReport(s.out, report, edited, out.Diagnostics); err != nil {
			return err
		}
	} else {
		if flags.diff {
			diff, stats, err := s.styles.FormatDiff(diffPath(path), doc.src.String(), gen.Source.String())
			if err != nil {
				return err
			}
			if stats.HasChanges() {
				fmt.Fprint(s.out, diff)
				fmt.Fprint(s.out, s.styles.FormatDiffSummary(stats))
			}
		}
		if flags.tree {
			fmt.Fprint(s.out, s.styles.FormatTree(doc.frontend.Language(), out.Value, gen.Source, pretty.TreeOptions{}))
		}
		s.writeDiagnostics(edited, out.Diagnostics)
		fmt.Fprint(s.out, s.styles.FormatSummaryOneLine(pretty.Summary{
			Language:    doc.language,
			Tokens:      len(gen.Tokens),
			Nodes:       nodes,
			Diagnostics: len(out.Diagnostics),
			Reuse:       &stats,
		}))
		if flags.verify && verifyErr == nil {
			fmt.Fprintln(s.out, s.styles.Success.Render("verified: matches full parse"))
		}
	}

	if verifyErr != nil {
		return verifyErr
	}

	if flags.write {
		if err := fsutil.ReplaceFile(s.ctx, doc.file, []byte(gen.Source.String())); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		s.logger.Info("wrote edited file", logging.FieldPath, path, logging.FieldEdits, len(edits))
	}

	return outcome(out.Diagnostics)
}

// diffPath is the name shown in diff headers.
func diffPath(path string) string {
	if path == stdinPath {
		return "stdin"
	}
	return filepath.ToSlash(filepath.Clean(path))
}

func statsJSON(report string, stats incremental.Stats, tokens, nodes int) (string, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"tokens", tokens},
		{"nodes", nodes},
		{"reuse.tokens_reused", stats.TokensReused},
		{"reuse.tokens_relexed", stats.TokensRelexed},
		{"reuse.nodes_reused", stats.NodesReused},
		{"reuse.relex_window", []int{stats.RelexWindow.Start, stats.RelexWindow.End}},
		{"reuse.fell_back", stats.FellBack},
	}

	var err error
	for _, f := range fields {
		if report, err = sjson.Set(report, f.path, f.value); err != nil {
			return "", err
		}
	}
	return report, nil
}
