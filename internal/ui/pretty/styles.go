// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/yaklabco/oak/pkg/syntax"
)

// defaultTermWidth is used when the writer is not a terminal.
const defaultTermWidth = 100

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Diagnostic components
	Error      lipgloss.Style
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	ErrorKind  lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Token roles
	Keyword     lipgloss.Style
	Name        lipgloss.Style
	Literal     lipgloss.Style
	Operator    lipgloss.Style
	Punctuation lipgloss.Style
	Comment     lipgloss.Style
	Trivia      lipgloss.Style

	// Tree components
	Element    lipgloss.Style
	ErrorNode  lipgloss.Style
	Span       lipgloss.Style
	Enumerator lipgloss.Style

	// Table styles
	TableHeader lipgloss.Style
	TableBorder lipgloss.Style

	// Diff styles
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Summary styles
	Success lipgloss.Style
	Failure lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		ErrorKind:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Message:    lipgloss.NewStyle(),
		SourceLine: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Caret:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),

		Keyword:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		Name:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Literal:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Operator:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Punctuation: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Comment:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Trivia:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Element:    lipgloss.NewStyle().Bold(true),
		ErrorNode:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Span:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Enumerator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableBorder: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		DiffHeader:  lipgloss.NewStyle().Bold(true),
		DiffHunk:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		DiffAdd:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		DiffRemove:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		DiffContext: lipgloss.NewStyle(),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:       plain,
		FilePath:    plain,
		Location:    plain,
		ErrorKind:   plain,
		Message:     plain,
		SourceLine:  plain,
		Caret:       plain,
		Keyword:     plain,
		Name:        plain,
		Literal:     plain,
		Operator:    plain,
		Punctuation: plain,
		Comment:     plain,
		Trivia:      plain,
		Element:     plain,
		ErrorNode:   plain,
		Span:        plain,
		Enumerator:  plain,
		TableHeader: plain,
		TableBorder: plain,
		DiffHeader:  plain,
		DiffHunk:    plain,
		DiffAdd:     plain,
		DiffRemove:  plain,
		DiffContext: plain,
		Success:     plain,
		Failure:     plain,
		Dim:         plain,
		Bold:        plain,
	}
}

// TokenStyle returns the style for a token role.
func (s *Styles) TokenStyle(role syntax.TokenRole) lipgloss.Style {
	switch role {
	case syntax.TokenKeyword:
		return s.Keyword
	case syntax.TokenName:
		return s.Name
	case syntax.TokenLiteral, syntax.TokenEscape:
		return s.Literal
	case syntax.TokenOperator:
		return s.Operator
	case syntax.TokenPunctuation:
		return s.Punctuation
	case syntax.TokenComment:
		return s.Comment
	case syntax.TokenError:
		return s.Error
	case syntax.TokenWhitespace, syntax.TokenEOF:
		return s.Trivia
	default:
		return s.Message
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// TerminalWidth returns the width of the terminal behind writer, or a
// default width for anything that is not a terminal.
func TerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
