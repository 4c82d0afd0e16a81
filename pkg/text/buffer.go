package text

import (
	"slices"
	"strings"

	"github.com/yaklabco/oak/pkg/syntax"
)

// Buffer is a mutable chunked text. Edits rewrite only the chunks they touch;
// Snapshot hands out immutable Sources that share unchanged chunks.
type Buffer struct {
	uri       string
	chunkSize int
	chunks    []string
	length    int
}

// NewBuffer creates a Buffer holding text.
func NewBuffer(text string, opts ...SourceOption) *Buffer {
	o := resolveOptions(opts)
	return &Buffer{
		uri:       o.uri,
		chunkSize: o.chunkSize,
		chunks:    splitIntoChunks(text, o.chunkSize),
		length:    len(text),
	}
}

// NewBufferFrom creates a Buffer holding the text of src.
func NewBufferFrom(src *Source) *Buffer {
	return &Buffer{
		uri:       src.uri,
		chunkSize: src.chunkSize,
		chunks:    slices.Clone(src.chunks),
		length:    src.length,
	}
}

// Len returns the length of the buffer in bytes.
func (b *Buffer) Len() int { return b.length }

// String returns the full text.
func (b *Buffer) String() string {
	return strings.Join(b.chunks, "")
}

// Snapshot returns an immutable Source with the current contents.
func (b *Buffer) Snapshot() *Source {
	return newSource(b.uri, b.chunkSize, slices.Clone(b.chunks))
}

// ApplyEdits applies a batch of edits expressed in the buffer's current
// coordinates. Edits are validated and sorted first; overlapping edits are
// rejected and leave the buffer unchanged. The returned span covers the
// changed region in the new coordinates.
func (b *Buffer) ApplyEdits(edits []TextEdit) (syntax.Span, error) {
	prepared, err := PrepareEdits(edits, b.length)
	if err != nil {
		return syntax.Span{}, err
	}

	// Right to left, so earlier offsets stay valid.
	for i := len(prepared) - 1; i >= 0; i-- {
		b.replace(prepared[i].Span, prepared[i].NewText)
	}

	return DirtySpan(prepared, b.length), nil
}

// replace swaps the bytes in span for text, rechunking only the affected chunks.
func (b *Buffer) replace(span syntax.Span, text string) {
	if len(b.chunks) == 0 {
		b.chunks = splitIntoChunks(text, b.chunkSize)
		b.length = len(text)
		return
	}

	first, firstBase := b.locate(span.Start)
	last, lastBase := b.locate(span.End)

	var merged strings.Builder
	merged.Grow(span.Start - firstBase + len(text) + lastBase + len(b.chunks[last]) - span.End)
	merged.WriteString(b.chunks[first][:span.Start-firstBase])
	merged.WriteString(text)
	merged.WriteString(b.chunks[last][span.End-lastBase:])

	replacement := splitIntoChunks(merged.String(), b.chunkSize)
	b.chunks = slices.Replace(b.chunks, first, last+1, replacement...)
	b.length += len(text) - span.Len()
}

// locate returns the index of the chunk containing offset and that chunk's
// starting offset. The end offset maps to the last chunk.
func (b *Buffer) locate(offset int) (int, int) {
	base := 0
	for i, c := range b.chunks {
		if offset < base+len(c) || i == len(b.chunks)-1 {
			return i, base
		}
		base += len(c)
	}
	return 0, 0
}
