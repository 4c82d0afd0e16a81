package mini

import (
	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/lexer"
	"github.com/yaklabco/oak/pkg/syntax"
)

// Scanner tokenizes mini source. It keeps no state between tokens, so the
// incremental lexer may restart it at any token boundary.
type Scanner struct{}

// ErrorToken implements lexer.Scanner.
func (Scanner) ErrorToken() syntax.Kind { return ErrorToken }

// Scan implements lexer.Scanner.
func (Scanner) Scan(s *lexer.State) {
	start := s.Pos()
	b, ok := s.PeekByte()
	if !ok {
		return
	}

	switch {
	case s.ScanLineComment(LineComment, "//"), s.ScanBlockComment(BlockComment, "/*", "*/"):
	case isSpace(b):
		s.TakeWhileByte(isSpace)
		s.AddToken(Whitespace, start, s.Pos())
	case isDigit(b):
		s.TakeWhileByte(isDigit)
		s.AddToken(Number, start, s.Pos())
	case b == '"':
		scanString(s)
	default:
		if kind, isPunct := punctuation[b]; isPunct {
			s.Advance(1)
			s.AddToken(kind, start, s.Pos())
			return
		}
		if r, _ := s.Peek(); lexer.IsIdentStart(r) {
			span := s.TakeWhile(lexer.IsIdentContinue)
			kind := Identifier
			if kw, isKw := keywords[s.Slice(span)]; isKw {
				kind = kw
			}
			s.AddToken(kind, start, s.Pos())
		}
		// Anything else is left to the lexer's stuck guard.
	}
}

// scanString consumes a double-quoted string. Strings end at the closing
// quote, a newline, or the end of input; the last two are reported.
func scanString(s *lexer.State) {
	start := s.Pos()
	s.Advance(1)

	for {
		b, ok := s.PeekByte()
		switch {
		case !ok:
			s.AddError(diag.UnexpectedEOF(start))
			s.AddToken(String, start, s.Pos())
			return
		case b == '\n':
			s.AddError(diag.Syntax(start, "unterminated string literal"))
			s.AddToken(String, start, s.Pos())
			return
		case b == '"':
			s.Advance(1)
			s.AddToken(String, start, s.Pos())
			return
		case b == '\\':
			s.Advance(1)
			if next, more := s.PeekByte(); more && next != '\n' {
				s.Bump()
			}
		default:
			s.Bump()
		}
	}
}

// WordScanner splits text into runs of letters, digits and whitespace. It is
// the front end of the "words" language.
type WordScanner struct{}

// ErrorToken implements lexer.Scanner.
func (WordScanner) ErrorToken() syntax.Kind { return ErrorToken }

// Scan implements lexer.Scanner.
func (WordScanner) Scan(s *lexer.State) {
	start := s.Pos()
	r, ok := s.Peek()
	if !ok {
		return
	}

	var kind syntax.Kind
	switch {
	case isLetter(r):
		s.TakeWhile(isLetter)
		kind = Identifier
	case r < 0x80 && isDigit(byte(r)):
		s.TakeWhileByte(isDigit)
		kind = Number
	case r < 0x80 && isSpace(byte(r)):
		s.TakeWhileByte(isSpace)
		kind = Whitespace
	default:
		return
	}
	s.AddToken(kind, start, s.Pos())
}

// NewLexer returns the mini lexer.
func NewLexer(opts ...lexer.Option) *lexer.ScannerLexer {
	return lexer.New(Language, Scanner{}, opts...)
}

// NewWordLexer returns the words lexer.
func NewWordLexer(opts ...lexer.Option) *lexer.ScannerLexer {
	return lexer.New(Language, WordScanner{}, opts...)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(r rune) bool {
	return lexer.IsIdentStart(r) && r != '_'
}
