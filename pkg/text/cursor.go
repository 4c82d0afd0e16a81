package text

import (
	"strings"
	"unicode/utf8"
)

// Cursor reads a Source sequentially, caching the current chunk so that
// forward scanning does not search the chunk index on every byte.
type Cursor struct {
	src   *Source
	pos   int
	chunk int
}

// NewCursor creates a cursor at offset.
func NewCursor(src *Source, offset int) *Cursor {
	c := &Cursor{src: src}
	c.SetPos(offset)
	return c
}

// Source returns the source being read.
func (c *Cursor) Source() *Source { return c.src }

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// SetPos moves the cursor to offset, clamped to the source bounds.
func (c *Cursor) SetPos(offset int) {
	c.pos = min(max(offset, 0), c.src.length)
	if len(c.src.chunks) > 0 {
		c.chunk = c.src.chunkIndex(c.pos)
	}
}

// AtEnd reports whether the cursor is at the end of the source.
func (c *Cursor) AtEnd() bool { return c.pos >= c.src.length }

// ByteAt returns the byte at an absolute offset.
func (c *Cursor) ByteAt(offset int) (byte, bool) {
	if offset < 0 || offset >= c.src.length {
		return 0, false
	}

	chunks := c.src.chunks
	starts := c.src.starts
	i := c.chunk
	if offset < starts[i] || offset >= starts[i]+len(chunks[i]) {
		if i+1 < len(chunks) && offset >= starts[i+1] && offset < starts[i+1]+len(chunks[i+1]) {
			i++
		} else {
			i = c.src.chunkIndex(offset)
		}
		c.chunk = i
	}

	return chunks[i][offset-starts[i]], true
}

// PeekByte returns the byte at the cursor.
func (c *Cursor) PeekByte() (byte, bool) {
	return c.ByteAt(c.pos)
}

// PeekByteAt returns the byte n bytes ahead of the cursor.
func (c *Cursor) PeekByteAt(n int) (byte, bool) {
	return c.ByteAt(c.pos + n)
}

// PeekRune decodes the rune at the cursor and returns it with its width.
// Invalid encodings decode as utf8.RuneError with width 1. At the end of the
// source it returns width 0.
func (c *Cursor) PeekRune() (rune, int) {
	b, ok := c.PeekByte()
	if !ok {
		return utf8.RuneError, 0
	}
	if b < utf8.RuneSelf {
		return rune(b), 1
	}

	var buf [utf8.UTFMax]byte
	n := 0
	for n < utf8.UTFMax {
		nb, ok := c.ByteAt(c.pos + n)
		if !ok {
			break
		}
		buf[n] = nb
		n++
	}

	return utf8.DecodeRune(buf[:n])
}

// Advance moves the cursor forward by n bytes.
func (c *Cursor) Advance(n int) {
	c.pos = min(c.pos+n, c.src.length)
}

// HasPrefix reports whether the text at the cursor starts with prefix.
func (c *Cursor) HasPrefix(prefix string) bool {
	if prefix == "" {
		return true
	}
	if c.pos+len(prefix) > c.src.length {
		return false
	}

	i := c.chunk
	local := c.pos - c.src.starts[i]
	if local >= 0 && local+len(prefix) <= len(c.src.chunks[i]) {
		return strings.HasPrefix(c.src.chunks[i][local:], prefix)
	}

	for j := 0; j < len(prefix); j++ {
		b, _ := c.ByteAt(c.pos + j)
		if b != prefix[j] {
			return false
		}
	}
	return true
}

// IndexByte returns the offset of the next occurrence of b at or after the
// cursor, or -1 if there is none.
func (c *Cursor) IndexByte(b byte) int {
	if c.AtEnd() {
		return -1
	}

	i := c.src.chunkIndex(c.pos)
	local := c.pos - c.src.starts[i]
	for ; i < len(c.src.chunks); i++ {
		if idx := strings.IndexByte(c.src.chunks[i][local:], b); idx >= 0 {
			return c.src.starts[i] + local + idx
		}
		local = 0
	}
	return -1
}
