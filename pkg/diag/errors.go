// Package diag defines the errors produced while lexing, parsing and
// lowering, and the Output type that carries a result together with every
// recoverable diagnostic collected on the way.
package diag

import (
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind uint8

// Error kinds.
const (
	KindIO Kind = iota
	KindSyntax
	KindUnexpectedCharacter
	KindUnexpectedToken
	KindUnexpectedEOF
	KindExpectedToken
	KindCustom
	KindInternal
)

var kindNames = map[Kind]string{
	KindIO:                  "io",
	KindSyntax:              "syntax",
	KindUnexpectedCharacter: "unexpected-character",
	KindUnexpectedToken:     "unexpected-token",
	KindUnexpectedEOF:       "unexpected-eof",
	KindExpectedToken:       "expected-token",
	KindCustom:              "custom",
	KindInternal:            "internal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// NoOffset marks an Error that is not tied to a source position.
const NoOffset = -1

// Error is a diagnostic tied to a byte offset in a source.
type Error struct {
	// Kind classifies the error.
	Kind Kind

	// Message is a human-readable description.
	Message string

	// Offset is the byte offset the error refers to, or NoOffset.
	Offset int

	// URI optionally names the source.
	URI string

	// Char is the offending character for KindUnexpectedCharacter.
	Char rune

	// Expected and Found name the kinds involved in token errors.
	Expected string
	Found    string

	// Err is the underlying cause, if any.
	Err error

	sentinel bool
}

// Sentinel errors for errors.Is matching by kind.
var (
	ErrIO                  = &Error{Kind: KindIO, sentinel: true}
	ErrSyntax              = &Error{Kind: KindSyntax, sentinel: true}
	ErrUnexpectedCharacter = &Error{Kind: KindUnexpectedCharacter, sentinel: true}
	ErrUnexpectedToken     = &Error{Kind: KindUnexpectedToken, sentinel: true}
	ErrUnexpectedEOF       = &Error{Kind: KindUnexpectedEOF, sentinel: true}
	ErrExpectedToken       = &Error{Kind: KindExpectedToken, sentinel: true}
	ErrCustom              = &Error{Kind: KindCustom, sentinel: true}
	ErrInternal            = &Error{Kind: KindInternal, sentinel: true}
)

func (e *Error) Error() string {
	var b strings.Builder

	if e.URI != "" {
		b.WriteString(e.URI)
		b.WriteString(": ")
	}
	if e.Offset != NoOffset {
		fmt.Fprintf(&b, "offset %d: ", e.Offset)
	}

	b.WriteString(e.Kind.String())
	if msg := e.describe(); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *Error) describe() string {
	if e.Message != "" {
		return e.Message
	}

	switch e.Kind {
	case KindUnexpectedCharacter:
		return fmt.Sprintf("unexpected character %q", e.Char)
	case KindUnexpectedToken:
		return fmt.Sprintf("unexpected %s", e.Found)
	case KindExpectedToken:
		if e.Found != "" {
			return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
		}
		return fmt.Sprintf("expected %s", e.Expected)
	case KindUnexpectedEOF:
		return "unexpected end of input"
	default:
		return ""
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.sentinel && t.Kind == e.Kind
}

// WithURI returns a copy of the error attached to uri.
func (e *Error) WithURI(uri string) *Error {
	cp := *e
	cp.URI = uri
	return &cp
}

// IO wraps a read failure.
func IO(uri string, err error) *Error {
	return &Error{Kind: KindIO, Offset: NoOffset, URI: uri, Err: err}
}

// Syntax reports a generic syntax error at offset.
func Syntax(offset int, format string, args ...any) *Error {
	return &Error{Kind: KindSyntax, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// UnexpectedCharacter reports a character no token rule accepts.
func UnexpectedCharacter(offset int, ch rune) *Error {
	return &Error{Kind: KindUnexpectedCharacter, Offset: offset, Char: ch}
}

// UnexpectedToken reports a token the grammar did not allow.
func UnexpectedToken(offset int, found string) *Error {
	return &Error{Kind: KindUnexpectedToken, Offset: offset, Found: found}
}

// UnexpectedEOF reports input that ended inside a construct.
func UnexpectedEOF(offset int) *Error {
	return &Error{Kind: KindUnexpectedEOF, Offset: offset}
}

// ExpectedToken reports a missing token.
func ExpectedToken(offset int, expected, found string) *Error {
	return &Error{Kind: KindExpectedToken, Offset: offset, Expected: expected, Found: found}
}

// Custom reports a language-specific problem.
func Custom(offset int, format string, args ...any) *Error {
	return &Error{Kind: KindCustom, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// Internal reports a broken invariant inside oak itself.
func Internal(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Offset: NoOffset, Message: fmt.Sprintf(format, args...)}
}
