package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
)

// State is the scanning state handed to a Scanner: a cursor over the source,
// the tokens produced so far and the diagnostics collected.
type State struct {
	lang   syntax.Language
	src    *text.Source
	cur    *text.Cursor
	tokens []syntax.Token
	diags  []*diag.Error
}

// NewState creates a state positioned at the start of src.
func NewState(lang syntax.Language, src *text.Source) *State {
	return NewStateAt(lang, src, 0)
}

// NewStateAt creates a state positioned at offset, for re-lexing a window.
func NewStateAt(lang syntax.Language, src *text.Source, offset int) *State {
	return &State{
		lang:   lang,
		src:    src,
		cur:    text.NewCursor(src, offset),
		tokens: make([]syntax.Token, 0, 64),
	}
}

// Language returns the language being scanned.
func (s *State) Language() syntax.Language { return s.lang }

// Source returns the source being scanned.
func (s *State) Source() *text.Source { return s.src }

// Pos returns the current byte offset.
func (s *State) Pos() int { return s.cur.Pos() }

// SetPos moves to offset.
func (s *State) SetPos(offset int) { s.cur.SetPos(offset) }

// AtEnd reports whether all input has been consumed.
func (s *State) AtEnd() bool { return s.cur.AtEnd() }

// NotAtEnd reports whether input remains.
func (s *State) NotAtEnd() bool { return !s.cur.AtEnd() }

// Peek returns the rune at the current position.
func (s *State) Peek() (rune, bool) {
	r, w := s.cur.PeekRune()
	return r, w > 0
}

// PeekAt returns the rune n bytes ahead.
func (s *State) PeekAt(n int) (rune, bool) {
	save := s.cur.Pos()
	s.cur.SetPos(save + n)
	r, w := s.cur.PeekRune()
	s.cur.SetPos(save)
	return r, w > 0
}

// PeekByte returns the byte at the current position.
func (s *State) PeekByte() (byte, bool) { return s.cur.PeekByte() }

// PeekByteAt returns the byte n bytes ahead.
func (s *State) PeekByteAt(n int) (byte, bool) { return s.cur.PeekByteAt(n) }

// Bump consumes and returns one rune.
func (s *State) Bump() (rune, bool) {
	r, w := s.cur.PeekRune()
	if w == 0 {
		return utf8.RuneError, false
	}
	s.cur.Advance(w)
	return r, true
}

// Advance consumes n bytes.
func (s *State) Advance(n int) { s.cur.Advance(n) }

// TakeWhile consumes runes while pred holds and returns the consumed span.
func (s *State) TakeWhile(pred func(rune) bool) syntax.Span {
	start := s.Pos()
	for {
		r, w := s.cur.PeekRune()
		if w == 0 || !pred(r) {
			break
		}
		s.cur.Advance(w)
	}
	return syntax.NewSpan(start, s.Pos())
}

// TakeWhileByte consumes bytes while pred holds and returns the consumed span.
func (s *State) TakeWhileByte(pred func(byte) bool) syntax.Span {
	start := s.Pos()
	for {
		b, ok := s.cur.PeekByte()
		if !ok || !pred(b) {
			break
		}
		s.cur.Advance(1)
	}
	return syntax.NewSpan(start, s.Pos())
}

// StartsWith reports whether the remaining input begins with prefix.
func (s *State) StartsWith(prefix string) bool { return s.cur.HasPrefix(prefix) }

// ConsumePrefix consumes prefix if the input starts with it.
func (s *State) ConsumePrefix(prefix string) bool {
	if !s.cur.HasPrefix(prefix) {
		return false
	}
	s.cur.Advance(len(prefix))
	return true
}

// SkipUntil consumes input up to, but not including, the next b. If b does
// not occur it consumes to the end. It returns the consumed span.
func (s *State) SkipUntil(b byte) syntax.Span {
	start := s.Pos()
	if idx := s.cur.IndexByte(b); idx >= 0 {
		s.cur.SetPos(idx)
	} else {
		s.cur.SetPos(s.src.Len())
	}
	return syntax.NewSpan(start, s.Pos())
}

// Slice returns the text of span.
func (s *State) Slice(span syntax.Span) string { return s.src.Slice(span) }

// IsIdentStart reports whether r may start an identifier.
func IsIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// IsIdentContinue reports whether r may continue an identifier.
func IsIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ScanIdentifier consumes an identifier and emits it as kind.
func (s *State) ScanIdentifier(kind syntax.Kind) bool {
	r, ok := s.Peek()
	if !ok || !IsIdentStart(r) {
		return false
	}
	start := s.Pos()
	s.TakeWhile(IsIdentContinue)
	s.AddToken(kind, start, s.Pos())
	return true
}

// ScanLineComment consumes a comment from prefix to the end of the line,
// excluding the newline, and emits it as kind.
func (s *State) ScanLineComment(kind syntax.Kind, prefix string) bool {
	start := s.Pos()
	if !s.ConsumePrefix(prefix) {
		return false
	}
	s.SkipUntil('\n')
	s.AddToken(kind, start, s.Pos())
	return true
}

// ScanBlockComment consumes a comment delimited by open and closer and emits
// it as kind. An unterminated comment runs to the end of input and records
// an UnexpectedEOF diagnostic.
func (s *State) ScanBlockComment(kind syntax.Kind, open, closer string) bool {
	start := s.Pos()
	if !s.ConsumePrefix(open) {
		return false
	}
	for {
		if s.AtEnd() {
			s.AddError(&diag.Error{Kind: diag.KindUnexpectedEOF, Offset: start, Message: "unterminated block comment"})
			break
		}
		if s.ConsumePrefix(closer) {
			break
		}
		s.Bump()
	}
	s.AddToken(kind, start, s.Pos())
	return true
}

// AddToken emits a token covering [start, end).
func (s *State) AddToken(kind syntax.Kind, start, end int) {
	s.tokens = append(s.tokens, syntax.Token{Kind: kind, Span: syntax.NewSpan(start, end)})
}

// AddEOF emits the end-of-stream token at the current position.
func (s *State) AddEOF() {
	pos := s.Pos()
	s.AddToken(s.lang.EndOfStream(), pos, pos)
}

// AddError records a diagnostic.
func (s *State) AddError(err *diag.Error) {
	s.diags = append(s.diags, err)
}

// AdvanceIfStuck guarantees progress: if the position has not moved past
// safePoint, the next rune is consumed as a token of errKind and an
// UnexpectedCharacter diagnostic is recorded.
func (s *State) AdvanceIfStuck(safePoint int, errKind syntax.Kind) {
	if s.Pos() > safePoint || s.AtEnd() {
		return
	}
	r, _ := s.Bump()
	s.AddError(diag.UnexpectedCharacter(safePoint, r))
	s.AddToken(errKind, safePoint, s.Pos())
}

// Tokens returns the tokens produced so far. The slice is owned by the state.
func (s *State) Tokens() []syntax.Token { return s.tokens }

// TokenCount returns the number of tokens produced so far.
func (s *State) TokenCount() int { return len(s.tokens) }

// Diagnostics returns the diagnostics recorded so far.
func (s *State) Diagnostics() []*diag.Error { return s.diags }

// Finish returns the output of the run. A non-nil err marks the run failed.
func (s *State) Finish(err error) diag.Output[[]syntax.Token] {
	if err != nil {
		return diag.Fail[[]syntax.Token](err, s.diags)
	}
	return diag.Ok(s.tokens, s.diags)
}
