package pretty

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
)

// maxTokenText truncates long token text in the table.
const maxTokenText = 40

// FormatTokens renders a token stream as a table of kind, role, span and
// quoted text. A width of zero leaves the table at its natural size.
func (s *Styles) FormatTokens(lang syntax.Language, tokens []syntax.Token, src *text.Source, width int) string {
	rows := make([][]string, len(tokens))
	roles := make([]syntax.TokenRole, len(tokens))
	for i, tok := range tokens {
		roles[i] = lang.TokenRole(tok.Kind)
		rows[i] = []string{
			strconv.Itoa(i),
			lang.KindName(tok.Kind),
			roles[i].String(),
			tok.Span.String(),
			quoteTruncated(src.Slice(tok.Span)),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.TableBorder).
		Headers("#", "KIND", "ROLE", "SPAN", "TEXT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader.Padding(0, 1)
			}
			if col == 1 && row >= 0 && row < len(roles) {
				return s.TokenStyle(roles[row]).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	if width > 0 {
		t = t.Width(width)
	}

	return t.String() + "\n"
}

func quoteTruncated(s string) string {
	runes := []rune(s)
	if len(runes) > maxTokenText {
		s = string(runes[:maxTokenText]) + "…"
	}
	return strconv.Quote(s)
}
