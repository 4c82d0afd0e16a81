package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/yaklabco/oak/internal/logging"
	"github.com/yaklabco/oak/internal/ui/pretty"
	"github.com/yaklabco/oak/pkg/syntax"
)

func newLexCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file|->",
		Short: "Print the token stream of a file",
		Long: `Tokenize a file and print every token with its kind, role and span.

Examples:
  oak lex prog.mini               Print a token table
  oak lex --format json prog.mini Print tokens as JSON
  echo 'let x = 1;' | oak lex --lang mini -`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd, global)
			if err != nil {
				return err
			}
			return sess.runLex(args[0])
		},
	}
}

func (s *session) runLex(path string) error {
	doc, err := s.openDocument(path)
	if err != nil {
		return err
	}

	out := doc.frontend.Lex(doc.src)
	if !out.OK() {
		return fmt.Errorf("lex %s: %w", path, out.Err)
	}
	tokens := out.Value
	lang := doc.frontend.Language()

	s.logger.Debug("lexed", logging.FieldPath, path, logging.FieldTokens, len(tokens))

	if s.jsonOutput() {
		report, err := newReport(doc)
		if err != nil {
			return err
		}
		if report, err = tokensJSON(report, lang, tokens, doc); err != nil {
			return fmt.Errorf("encode tokens: %w", err)
		}
		if err := finishReport(s.out, report, doc, out.Diagnostics); err != nil {
			return err
		}
		return outcome(out.Diagnostics)
	}

	fmt.Fprint(s.out, s.styles.FormatTokens(lang, tokens, doc.src, 0))
	s.writeDiagnostics(doc, out.Diagnostics)
	fmt.Fprint(s.out, s.styles.FormatSummaryOneLine(pretty.Summary{
		Language:    doc.language,
		Tokens:      len(tokens),
		Diagnostics: len(out.Diagnostics),
	}))

	return outcome(out.Diagnostics)
}

func tokensJSON(report string, lang syntax.Language, tokens []syntax.Token, doc *document) (string, error) {
	report, err := sjson.SetRaw(report, "tokens", `[]`)
	if err != nil {
		return "", err
	}
	for _, tok := range tokens {
		item := `{}`
		if item, err = sjson.Set(item, "kind", lang.KindName(tok.Kind)); err != nil {
			return "", err
		}
		if item, err = sjson.Set(item, "role", lang.TokenRole(tok.Kind).String()); err != nil {
			return "", err
		}
		if item, err = sjson.Set(item, "span", []int{tok.Span.Start, tok.Span.End}); err != nil {
			return "", err
		}
		if item, err = sjson.Set(item, "text", doc.src.Slice(tok.Span)); err != nil {
			return "", err
		}
		if report, err = sjson.SetRaw(report, "tokens.-1", item); err != nil {
			return "", err
		}
	}
	return report, nil
}
