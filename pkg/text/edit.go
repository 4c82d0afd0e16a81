// Package text holds source text for parsing: an immutable chunked Source,
// a mutable Buffer that applies edits, and the TextEdit type that describes
// how one version of a source becomes the next.
package text

import "github.com/yaklabco/oak/pkg/syntax"

// TextEdit represents a single text replacement in a source.
// Span is expressed in the coordinates of the source before the edit.
type TextEdit struct {
	// Span is the byte range [Start, End) being replaced.
	Span syntax.Span

	// NewText is the replacement text.
	NewText string
}

// Replace returns an edit that replaces bytes [start, end) with newText.
func Replace(start, end int, newText string) TextEdit {
	return TextEdit{Span: syntax.NewSpan(start, end), NewText: newText}
}

// Insert returns an edit that inserts text at the given offset.
func Insert(offset int, text string) TextEdit {
	return Replace(offset, offset, text)
}

// Delete returns an edit that deletes bytes [start, end).
func Delete(start, end int) TextEdit {
	return Replace(start, end, "")
}

// Delta is the change in source length caused by this edit.
func (e TextEdit) Delta() int {
	return len(e.NewText) - e.Span.Len()
}

// NewEnd is the end of the inserted text, relative to the edit's own start.
// Add the cumulative delta of earlier edits to get a position in the new source.
func (e TextEdit) NewEnd() int {
	return e.Span.Start + len(e.NewText)
}

// TotalDelta sums the length change of all edits.
func TotalDelta(edits []TextEdit) int {
	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}
	return delta
}

// EditBuilder accumulates text edits for a source.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) *EditBuilder {
	b.Edits = append(b.Edits, Replace(start, end, newText))
	return b
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) *EditBuilder {
	return b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) *EditBuilder {
	return b.ReplaceRange(start, end, "")
}
