package syntax

// Token is one classified span of the source produced by a lexer.
// A complete token stream is contiguous, non-overlapping, covers every byte
// of the source and ends with a zero-length end-of-stream token.
type Token struct {
	// Kind classifies what this token represents.
	Kind Kind

	// Span is the byte range this token occupies.
	Span Span
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.Span.Len()
}

// IsEmpty returns true if this token has zero length.
func (t Token) IsEmpty() bool {
	return t.Span.IsEmpty()
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content string) string {
	if t.Span.Start < 0 || t.Span.End > len(content) || t.Span.Start > t.Span.End {
		return ""
	}
	return content[t.Span.Start:t.Span.End]
}

// Shift returns a copy of the token moved by delta bytes.
func (t Token) Shift(delta int) Token {
	return Token{Kind: t.Kind, Span: t.Span.Shift(delta)}
}

// ValidateTokens checks that a token slice is valid:
// - Tokens are contiguous and non-overlapping.
// - Tokens cover the full content range [0, contentLen).
// Returns true if valid, false otherwise.
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}

	// First token must start at 0.
	if tokens[0].Span.Start != 0 {
		return false
	}

	// Last token must end at contentLen.
	if tokens[len(tokens)-1].Span.End != contentLen {
		return false
	}

	for i, tok := range tokens {
		if tok.Span.End < tok.Span.Start {
			return false
		}
		if i > 0 && tok.Span.Start != tokens[i-1].Span.End {
			return false
		}
	}

	return true
}

// ValidateStream is ValidateTokens plus the requirement that the stream is
// terminated by exactly one end-of-stream token of the given language.
func ValidateStream(lang Language, tokens []Token, contentLen int) bool {
	if !ValidateTokens(tokens, contentLen) || len(tokens) == 0 {
		return false
	}

	eof := lang.EndOfStream()
	for i, tok := range tokens {
		last := i == len(tokens)-1
		if (tok.Kind == eof) != last {
			return false
		}
	}

	return tokens[len(tokens)-1].IsEmpty()
}
