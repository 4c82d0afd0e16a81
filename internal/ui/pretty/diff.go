package pretty

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// diffContextLines is the number of unchanged lines shown around a change.
const diffContextLines = 3

// DiffStats counts the changed lines of a diff.
type DiffStats struct {
	Additions int
	Deletions int
}

// HasChanges reports whether any line changed.
func (d DiffStats) HasChanges() bool {
	return d.Additions > 0 || d.Deletions > 0
}

// FormatDiff renders a git-style unified diff between before and after.
// It returns an empty string when the texts are equal.
func (s *Styles) FormatDiff(path, before, after string) (string, DiffStats, error) {
	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  diffContextLines,
	})
	if err != nil {
		return "", DiffStats{}, fmt.Errorf("diff %s: %w", path, err)
	}
	if unified == "" {
		return "", DiffStats{}, nil
	}

	var (
		builder strings.Builder
		stats   DiffStats
	)

	builder.WriteString(s.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)) + "\n")
	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		builder.WriteString(s.diffLine(line, &stats) + "\n")
	}

	return builder.String(), stats, nil
}

// splitLines splits text into newline-terminated lines. A missing final
// newline is added so the last line renders on its own.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += "\n"
	return lines
}

func (s *Styles) diffLine(line string, stats *DiffStats) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return s.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+++"):
		return s.DiffAdd.Render(line)
	case strings.HasPrefix(line, "---"):
		return s.DiffRemove.Render(line)
	case strings.HasPrefix(line, "+"):
		stats.Additions++
		return s.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		stats.Deletions++
		return s.DiffRemove.Render(line)
	default:
		return s.DiffContext.Render(line)
	}
}

// FormatDiffSummary formats a git-style change count.
func (s *Styles) FormatDiffSummary(stats DiffStats) string {
	parts := []string{"1 file changed"}
	if stats.Additions > 0 {
		parts = append(parts, s.DiffAdd.Render(plural(stats.Additions, "insertion")+"(+)"))
	}
	if stats.Deletions > 0 {
		parts = append(parts, s.DiffRemove.Render(plural(stats.Deletions, "deletion")+"(-)"))
	}
	return strings.Join(parts, ", ") + "\n"
}
