package text

import (
	"iter"
	"sort"
	"strings"
	"sync"

	"github.com/yaklabco/oak/pkg/syntax"
)

// SourceOption configures a Source or Buffer.
type SourceOption func(*sourceOptions)

type sourceOptions struct {
	uri       string
	chunkSize int
}

// WithURI attaches a location to the source for diagnostics.
func WithURI(uri string) SourceOption {
	return func(o *sourceOptions) {
		o.uri = uri
	}
}

// WithChunkSize sets the target chunk size. Values below MinChunkSize are raised.
func WithChunkSize(size int) SourceOption {
	return func(o *sourceOptions) {
		o.chunkSize = max(size, MinChunkSize)
	}
}

func resolveOptions(opts []SourceOption) sourceOptions {
	o := sourceOptions{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Source is an immutable, chunked view of a text.
// All offsets are byte offsets. A Source is safe for concurrent reads.
type Source struct {
	uri       string
	chunkSize int
	chunks    []string
	starts    []int
	length    int

	linesOnce sync.Once
	lines     []int
}

// NewSource creates a Source from text.
func NewSource(text string, opts ...SourceOption) *Source {
	o := resolveOptions(opts)
	return newSource(o.uri, o.chunkSize, splitIntoChunks(text, o.chunkSize))
}

func newSource(uri string, chunkSize int, chunks []string) *Source {
	src := &Source{
		uri:       uri,
		chunkSize: chunkSize,
		chunks:    chunks,
		starts:    make([]int, len(chunks)),
	}

	offset := 0
	for i, c := range chunks {
		src.starts[i] = offset
		offset += len(c)
	}
	src.length = offset

	return src
}

// URI returns the location the source was loaded from, if any.
func (s *Source) URI() string { return s.uri }

// Len returns the length of the source in bytes.
func (s *Source) Len() int { return s.length }

// ChunkCount returns the number of chunks backing the source.
func (s *Source) ChunkCount() int { return len(s.chunks) }

// String returns the full text.
func (s *Source) String() string {
	if len(s.chunks) == 1 {
		return s.chunks[0]
	}

	var b strings.Builder
	b.Grow(s.length)
	for _, c := range s.chunks {
		b.WriteString(c)
	}
	return b.String()
}

// chunkIndex returns the index of the chunk containing offset.
// The end offset maps to the last chunk.
func (s *Source) chunkIndex(offset int) int {
	idx := sort.Search(len(s.starts), func(i int) bool {
		return s.starts[i] > offset
	}) - 1
	return max(idx, 0)
}

// Slice returns the text covered by span, clamped to the source bounds.
func (s *Source) Slice(span syntax.Span) string {
	start := min(max(span.Start, 0), s.length)
	end := min(max(span.End, start), s.length)
	if start == end {
		return ""
	}

	first := s.chunkIndex(start)
	last := s.chunkIndex(end - 1)
	if first == last {
		base := s.starts[first]
		return s.chunks[first][start-base : end-base]
	}

	var b strings.Builder
	b.Grow(end - start)
	for i := first; i <= last; i++ {
		base := s.starts[i]
		lo := max(start-base, 0)
		hi := min(end-base, len(s.chunks[i]))
		b.WriteString(s.chunks[i][lo:hi])
	}
	return b.String()
}

// ByteAt returns the byte at offset.
func (s *Source) ByteAt(offset int) (byte, bool) {
	if offset < 0 || offset >= s.length {
		return 0, false
	}
	i := s.chunkIndex(offset)
	return s.chunks[i][offset-s.starts[i]], true
}

// Chunks iterates over the chunks with their starting offsets.
func (s *Source) Chunks() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, c := range s.chunks {
			if !yield(s.starts[i], c) {
				return
			}
		}
	}
}

// Cursor returns a cursor positioned at offset.
func (s *Source) Cursor(offset int) *Cursor {
	return NewCursor(s, offset)
}
