// Package mini is a small statement language built on oak. It exercises
// every part of the core: a scanner with comments and strings, a grammar
// with recovery and node reuse, and lowering to a typed AST.
//
//	let total = (a + 2) * 3;
//	{ let inner = "text"; total; }
package mini

import "github.com/yaklabco/oak/pkg/syntax"

// Token kinds.
const (
	Whitespace syntax.Kind = iota
	LineComment
	BlockComment
	Identifier
	Number
	String
	LetKw
	Eq
	Semicolon
	LBrace
	RBrace
	LParen
	RParen
	Plus
	Minus
	Star
	Slash
	ErrorToken
	EOF

	// Element kinds.
	Root
	LetStatement
	ExprStatement
	Block
	BinaryExpr
	ParenExpr
	Literal
	NameRef
	Error
)

// Language is the kind table shared by the mini and words front ends.
var Language = syntax.NewTable("mini", EOF, Error, []syntax.KindInfo{
	Whitespace:   {Name: "Whitespace", Token: syntax.TokenWhitespace},
	LineComment:  {Name: "LineComment", Token: syntax.TokenComment},
	BlockComment: {Name: "BlockComment", Token: syntax.TokenComment},
	Identifier:   {Name: "Identifier", Token: syntax.TokenName},
	Number:       {Name: "Number", Token: syntax.TokenLiteral},
	String:       {Name: "String", Token: syntax.TokenLiteral},
	LetKw:        {Name: "Let", Token: syntax.TokenKeyword},
	Eq:           {Name: "Eq", Token: syntax.TokenOperator},
	Semicolon:    {Name: "Semicolon", Token: syntax.TokenPunctuation},
	LBrace:       {Name: "LBrace", Token: syntax.TokenPunctuation},
	RBrace:       {Name: "RBrace", Token: syntax.TokenPunctuation},
	LParen:       {Name: "LParen", Token: syntax.TokenPunctuation},
	RParen:       {Name: "RParen", Token: syntax.TokenPunctuation},
	Plus:         {Name: "Plus", Token: syntax.TokenOperator},
	Minus:        {Name: "Minus", Token: syntax.TokenOperator},
	Star:         {Name: "Star", Token: syntax.TokenOperator},
	Slash:        {Name: "Slash", Token: syntax.TokenOperator},
	ErrorToken:   {Name: "ErrorToken", Token: syntax.TokenError},
	EOF:          {Name: "EOF", Token: syntax.TokenEOF},

	Root:          {Name: "Root", Element: syntax.ElementRoot},
	LetStatement:  {Name: "LetStatement", Element: syntax.ElementDefinition},
	ExprStatement: {Name: "ExprStatement", Element: syntax.ElementStatement},
	Block:         {Name: "Block", Element: syntax.ElementContainer},
	BinaryExpr:    {Name: "BinaryExpr", Element: syntax.ElementExpression},
	ParenExpr:     {Name: "ParenExpr", Element: syntax.ElementExpression},
	Literal:       {Name: "Literal", Element: syntax.ElementValue},
	NameRef:       {Name: "NameRef", Element: syntax.ElementReference},
	Error:         {Name: "Error", Element: syntax.ElementError},
})

var punctuation = map[byte]syntax.Kind{
	'=': Eq,
	';': Semicolon,
	'{': LBrace,
	'}': RBrace,
	'(': LParen,
	')': RParen,
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
}

var keywords = map[string]syntax.Kind{
	"let": LetKw,
}
