package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/oak/pkg/incremental"
)

// Summary is what a lex or parse run reports at the end.
type Summary struct {
	Language    string
	Tokens      int
	Nodes       int
	Diagnostics int

	// Reuse is set for incremental runs.
	Reuse *incremental.Stats
}

// FormatSummaryOneLine formats a run as a single line.
// Example: "mini: 12 tokens, 5 nodes, 1 diagnostic; reused 9 tokens, 2 nodes".
func (s *Styles) FormatSummaryOneLine(sum Summary) string {
	var parts []string

	parts = append(parts, plural(sum.Tokens, "token"))
	if sum.Nodes > 0 {
		parts = append(parts, plural(sum.Nodes, "node"))
	}

	diags := plural(sum.Diagnostics, "diagnostic")
	if sum.Diagnostics == 0 {
		parts = append(parts, s.Success.Render("no diagnostics"))
	} else {
		parts = append(parts, s.Failure.Render(diags))
	}

	line := s.Bold.Render(sum.Language) + ": " + strings.Join(parts, ", ")

	if r := sum.Reuse; r != nil {
		reuse := fmt.Sprintf("reused %s, %s; relexed %s in %s",
			plural(r.TokensReused, "token"),
			plural(r.NodesReused, "node"),
			plural(r.TokensRelexed, "token"),
			r.RelexWindow.String(),
		)
		if r.FellBack {
			reuse += " (resync fell back to end of input)"
		}
		line += s.Dim.Render("; " + reuse)
	}

	return line + "\n"
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
