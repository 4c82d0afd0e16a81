package cli

import (
	"fmt"
	"io"

	"github.com/tidwall/sjson"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

// writeDiagnostics prints diagnostics grouped under a file header.
func (s *session) writeDiagnostics(doc *document, diags []*diag.Error) {
	if len(diags) == 0 {
		return
	}

	fmt.Fprintln(s.out, s.styles.FormatFileHeader(doc.path, len(diags)))
	for _, d := range diags {
		fmt.Fprint(s.out, s.styles.FormatDiagnostic(doc.path, doc.src, d, true))
	}
}

// diagnosticsJSON renders diagnostics as a JSON array.
func diagnosticsJSON(src *text.Source, diags []*diag.Error) (string, error) {
	doc := `[]`
	for _, d := range diags {
		item := `{}`
		var err error

		if item, err = sjson.Set(item, "kind", d.Kind.String()); err != nil {
			return "", err
		}
		if item, err = sjson.Set(item, "message", d.Error()); err != nil {
			return "", err
		}
		if d.Offset != diag.NoOffset {
			line, col := src.LineCol(d.Offset)
			if item, err = sjson.Set(item, "offset", d.Offset); err != nil {
				return "", err
			}
			if item, err = sjson.Set(item, "line", line); err != nil {
				return "", err
			}
			if item, err = sjson.Set(item, "column", col); err != nil {
				return "", err
			}
		}
		if d.Expected != "" {
			if item, err = sjson.Set(item, "expected", d.Expected); err != nil {
				return "", err
			}
		}

		if doc, err = sjson.SetRaw(doc, "-1", item); err != nil {
			return "", err
		}
	}
	return doc, nil
}

// newReport starts a JSON document describing one input.
func newReport(doc *document) (string, error) {
	out, err := sjson.Set(`{}`, "file", doc.path)
	if err != nil {
		return "", err
	}
	return sjson.Set(out, "language", doc.language)
}

// finishReport adds diagnostics to a JSON report and writes it.
func finishReport(w io.Writer, report string, doc *document, diags []*diag.Error) error {
	raw, err := diagnosticsJSON(doc.src, diags)
	if err != nil {
		return fmt.Errorf("encode diagnostics: %w", err)
	}
	if report, err = sjson.SetRaw(report, "diagnostics", raw); err != nil {
		return fmt.Errorf("encode diagnostics: %w", err)
	}
	_, err = fmt.Fprintln(w, report)
	return err
}

// countElements returns the number of nodes and leaves in a tree.
func countElements(root *tree.Node) (int, int) {
	nodes, leaves := 0, 0
	_ = tree.Walk(tree.Root(root), func(el tree.RedElement) error {
		if el.IsNode() {
			nodes++
		} else {
			leaves++
		}
		return nil
	})
	return nodes, leaves
}

// outcome converts a diagnostic count into the command result.
func outcome(diags []*diag.Error) error {
	if ExitCodeFromDiagnostics(len(diags)) != ExitSuccess {
		return ErrDiagnosticsFound
	}
	return nil
}
