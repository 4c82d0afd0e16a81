// Package syntax defines the language-agnostic vocabulary shared by every
// front end built on oak: kinds, roles, tokens and byte spans.
//
// A language owns one closed Kind space that covers both its token kinds and
// its element (node) kinds. The core never interprets kinds directly; it asks
// the Language for roles when it needs to distinguish trivia, the end of the
// stream, or error recovery nodes.
package syntax

import "fmt"

// Kind identifies a token or element kind within one language.
type Kind uint16

// TokenRole is the universal category of a token kind.
type TokenRole uint8

// Token roles.
const (
	TokenNone TokenRole = iota
	TokenKeyword
	TokenName
	TokenLiteral
	TokenEscape
	TokenOperator
	TokenPunctuation
	TokenComment
	TokenWhitespace
	TokenError
	TokenEOF
)

var tokenRoleNames = [...]string{
	TokenNone:        "none",
	TokenKeyword:     "keyword",
	TokenName:        "name",
	TokenLiteral:     "literal",
	TokenEscape:      "escape",
	TokenOperator:    "operator",
	TokenPunctuation: "punctuation",
	TokenComment:     "comment",
	TokenWhitespace:  "whitespace",
	TokenError:       "error",
	TokenEOF:         "eof",
}

func (r TokenRole) String() string {
	if int(r) < len(tokenRoleNames) {
		return tokenRoleNames[r]
	}
	return fmt.Sprintf("TokenRole(%d)", uint8(r))
}

// IsTrivia reports whether tokens of this role carry no syntactic meaning.
func (r TokenRole) IsTrivia() bool {
	return r == TokenWhitespace || r == TokenComment
}

// ElementRole is the universal category of an element kind.
type ElementRole uint8

// Element roles.
const (
	ElementNone ElementRole = iota
	ElementRoot
	ElementContainer
	ElementStatement
	ElementExpression
	ElementDefinition
	ElementReference
	ElementValue
	ElementError
)

var elementRoleNames = [...]string{
	ElementNone:       "none",
	ElementRoot:       "root",
	ElementContainer:  "container",
	ElementStatement:  "statement",
	ElementExpression: "expression",
	ElementDefinition: "definition",
	ElementReference:  "reference",
	ElementValue:      "value",
	ElementError:      "error",
}

func (r ElementRole) String() string {
	if int(r) < len(elementRoleNames) {
		return elementRoleNames[r]
	}
	return fmt.Sprintf("ElementRole(%d)", uint8(r))
}

// Language describes the kind space of one grammar.
type Language interface {
	// Name returns a short human-readable language name.
	Name() string

	// KindName returns the display name of a kind.
	KindName(k Kind) string

	// TokenRole returns the role of a token kind, or TokenNone for element kinds.
	TokenRole(k Kind) TokenRole

	// ElementRole returns the role of an element kind, or ElementNone for token kinds.
	ElementRole(k Kind) ElementRole

	// EndOfStream returns the kind of the zero-length token that ends every stream.
	EndOfStream() Kind

	// ErrorKind returns the element kind used to wrap unparseable input.
	ErrorKind() Kind
}

// IsTrivia reports whether k is a whitespace or comment token in lang.
func IsTrivia(lang Language, k Kind) bool {
	return lang.TokenRole(k).IsTrivia()
}

// KindInfo describes a single kind registered in a Table.
type KindInfo struct {
	Name    string
	Token   TokenRole
	Element ElementRole
}

// Table is a Language backed by a dense slice indexed by Kind.
// It is read-only after construction and safe for concurrent use.
type Table struct {
	name    string
	kinds   []KindInfo
	eof     Kind
	errKind Kind
}

// NewTable builds a Language from a kind table. The index of each entry is its
// Kind value. It panics if eof or errKind are out of range, since a table
// without them cannot describe a complete token stream.
func NewTable(name string, eof, errKind Kind, kinds []KindInfo) *Table {
	if int(eof) >= len(kinds) || int(errKind) >= len(kinds) {
		panic(fmt.Sprintf("syntax: language %q: eof or error kind out of range", name))
	}

	owned := make([]KindInfo, len(kinds))
	copy(owned, kinds)

	return &Table{name: name, kinds: owned, eof: eof, errKind: errKind}
}

// Name implements Language.
func (t *Table) Name() string { return t.name }

// KindName implements Language.
func (t *Table) KindName(k Kind) string {
	if int(k) < len(t.kinds) && t.kinds[k].Name != "" {
		return t.kinds[k].Name
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// TokenRole implements Language.
func (t *Table) TokenRole(k Kind) TokenRole {
	if int(k) < len(t.kinds) {
		return t.kinds[k].Token
	}
	return TokenNone
}

// ElementRole implements Language.
func (t *Table) ElementRole(k Kind) ElementRole {
	if int(k) < len(t.kinds) {
		return t.kinds[k].Element
	}
	return ElementNone
}

// EndOfStream implements Language.
func (t *Table) EndOfStream() Kind { return t.eof }

// ErrorKind implements Language.
func (t *Table) ErrorKind() Kind { return t.errKind }

// Len returns the number of kinds in the table.
func (t *Table) Len() int { return len(t.kinds) }

// Lookup returns the kind with the given display name.
func (t *Table) Lookup(name string) (Kind, bool) {
	for i, info := range t.kinds {
		if info.Name == name {
			return Kind(i), true
		}
	}
	return 0, false
}
