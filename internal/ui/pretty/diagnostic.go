package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
)

// FormatDiagnostic formats a single diagnostic for terminal output:
//
//	path:line:col  error  message  (kind)
//
// followed by the offending source line and a caret when showContext is set.
func (s *Styles) FormatDiagnostic(path string, src *text.Source, err *diag.Error, showContext bool) string {
	var builder strings.Builder

	if path == "" {
		path = err.URI
	}

	location := s.FilePath.Render(path)
	line, col := 0, 0
	if err.Offset != diag.NoOffset && src != nil {
		line, col = src.LineCol(err.Offset)
		location += s.Location.Render(fmt.Sprintf(":%d:%d", line, col))
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.Error.Render("error"),
		s.Message.Render(describe(err)),
		s.ErrorKind.Render("("+err.Kind.String()+")"),
	))

	if showContext && line > 0 {
		builder.WriteString(s.FormatSourceContext(LineText(src, line), col))
	}

	return builder.String()
}

// describe returns the diagnostic text without the position prefix that
// Error() adds.
func describe(err *diag.Error) string {
	plain := *err
	plain.URI = ""
	plain.Offset = diag.NoOffset
	msg := plain.Error()
	return strings.TrimPrefix(msg, err.Kind.String()+": ")
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		noun := "issues"
		if issueCount == 1 {
			noun = "issue"
		}
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", issueCount, noun))
	}
	return header
}

// LineText returns the text of a 1-based line without its line terminator.
func LineText(src *text.Source, line int) string {
	start, ok := src.Offset(line, 1)
	if !ok {
		return ""
	}
	end := src.Len()
	if next, ok := src.Offset(line+1, 1); ok {
		end = next
	}
	return strings.TrimRight(src.Slice(syntax.NewSpan(start, end)), "\r\n")
}
