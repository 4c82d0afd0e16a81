package text

import (
	"strings"

	"github.com/yaklabco/oak/pkg/syntax"
)

// ApplyEdits applies a sorted, validated slice of edits to content.
// Edits must be prepared with PrepareEdits before calling.
func ApplyEdits(content string, edits []TextEdit) string {
	if len(edits) == 0 {
		return content
	}

	var out strings.Builder
	out.Grow(len(content) + TotalDelta(edits))

	cursor := 0
	for _, e := range edits {
		// Copy content before this edit.
		out.WriteString(content[cursor:e.Span.Start])
		// Write replacement text.
		out.WriteString(e.NewText)
		cursor = e.Span.End
	}
	// Copy remaining content.
	out.WriteString(content[cursor:])

	return out.String()
}

// ApplyToString prepares and applies edits to content in one step.
func ApplyToString(content string, edits []TextEdit) (string, error) {
	prepared, err := PrepareEdits(edits, len(content))
	if err != nil {
		return "", err
	}
	return ApplyEdits(content, prepared), nil
}

// DirtySpan returns the region of the new source touched by a sorted set of
// edits: from the first edit's start to the end of the last inserted text.
// With no edits it returns the empty span at newLen.
func DirtySpan(edits []TextEdit, newLen int) syntax.Span {
	if len(edits) == 0 {
		return syntax.NewSpan(newLen, newLen)
	}

	from := edits[0].Span.Start
	to := from
	delta := 0
	for _, e := range edits {
		to = max(to, e.NewEnd()+delta)
		delta += e.Delta()
	}

	return syntax.NewSpan(from, to)
}

// MapOffset maps an offset in the old source to the new source for a sorted
// set of edits. Offsets inside a replaced range map to the end of the
// replacement text.
func MapOffset(edits []TextEdit, offset int) int {
	delta := 0
	for _, e := range edits {
		switch {
		case offset < e.Span.Start:
			return offset + delta
		case offset < e.Span.End:
			return e.NewEnd() + delta
		}
		delta += e.Delta()
	}
	return offset + delta
}
