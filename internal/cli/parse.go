package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/yaklabco/oak/internal/logging"
	"github.com/yaklabco/oak/internal/ui/pretty"
	"github.com/yaklabco/oak/pkg/tree"
)

type parseFlags struct {
	trivia bool
	ast    bool
}

func newParseCommand(global *globalFlags) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print the syntax tree of a file",
		Long: `Parse a file and print its concrete syntax tree, or with --ast the
value its language lowers the tree to.

Examples:
  oak parse prog.mini              Print the tree without trivia
  oak parse --trivia prog.mini     Include whitespace and comments
  oak parse --ast prog.mini        Print the lowered program
  oak parse --format json prog.mini`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd, global)
			if err != nil {
				return err
			}
			return sess.runParse(args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.trivia, "trivia", false, "include whitespace and comment leaves")
	cmd.Flags().BoolVar(&flags.ast, "ast", false, "print the lowered value instead of the tree")

	return cmd
}

func (s *session) runParse(path string, flags *parseFlags) error {
	doc, err := s.openDocument(path)
	if err != nil {
		return err
	}

	if flags.ast {
		return s.runBuild(doc)
	}

	out := doc.frontend.Parse(doc.src)
	if !out.OK() {
		return fmt.Errorf("parse %s: %w", path, out.Err)
	}

	nodes, leaves := countElements(out.Value)
	s.logger.Debug("parsed",
		logging.FieldPath, path,
		logging.FieldNodes, nodes,
		logging.FieldDiagnostics, len(out.Diagnostics),
	)

	lang := doc.frontend.Language()
	if s.jsonOutput() {
		report, err := newReport(doc)
		if err != nil {
			return err
		}
		raw, err := tree.MarshalJSON(lang, tree.Root(out.Value), doc.src)
		if err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		if report, err = sjson.SetRaw(report, "tree", raw); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		if err := finishReport(s.out, report, doc, out.Diagnostics); err != nil {
			return err
		}
		return outcome(out.Diagnostics)
	}

	fmt.Fprint(s.out, s.styles.FormatTree(lang, out.Value, doc.src, pretty.TreeOptions{ShowTrivia: flags.trivia}))
	s.writeDiagnostics(doc, out.Diagnostics)
	fmt.Fprint(s.out, s.styles.FormatSummaryOneLine(pretty.Summary{
		Language:    doc.language,
		Tokens:      leaves,
		Nodes:       nodes,
		Diagnostics: len(out.Diagnostics),
	}))

	return outcome(out.Diagnostics)
}

// runBuild lexes, parses and lowers a document and prints the value.
func (s *session) runBuild(doc *document) error {
	out := doc.frontend.BuildAny(doc.src)
	if !out.OK() {
		s.writeDiagnostics(doc, out.Diagnostics)
		return fmt.Errorf("build %s: %w", doc.path, out.Err)
	}

	if s.jsonOutput() {
		report, err := newReport(doc)
		if err != nil {
			return err
		}
		if report, err = sjson.Set(report, "value", fmt.Sprint(out.Value)); err != nil {
			return fmt.Errorf("encode value: %w", err)
		}
		if err := finishReport(s.out, report, doc, out.Diagnostics); err != nil {
			return err
		}
		return outcome(out.Diagnostics)
	}

	fmt.Fprintln(s.out, out.Value)
	s.writeDiagnostics(doc, out.Diagnostics)
	return outcome(out.Diagnostics)
}
