package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/oak/pkg/syntax"
)

const (
	kWord syntax.Kind = iota
	kSpace
	kEOF
	kRoot
	kError
)

func testLanguage() *syntax.Table {
	return syntax.NewTable("test", kEOF, kError, []syntax.KindInfo{
		kWord:  {Name: "Word", Token: syntax.TokenName},
		kSpace: {Name: "Space", Token: syntax.TokenWhitespace},
		kEOF:   {Name: "EOF", Token: syntax.TokenEOF},
		kRoot:  {Name: "Root", Element: syntax.ElementRoot},
		kError: {Name: "Error", Element: syntax.ElementError},
	})
}

func TestSpan(t *testing.T) {
	t.Parallel()

	s := syntax.NewSpan(2, 6)
	assert.Equal(t, 4, s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(6))
	assert.True(t, s.ContainsSpan(syntax.NewSpan(3, 6)))
	assert.True(t, s.Overlaps(syntax.NewSpan(5, 9)))
	assert.False(t, s.Overlaps(syntax.NewSpan(6, 9)))
	assert.Equal(t, syntax.NewSpan(5, 9), s.Shift(3))
	assert.Equal(t, "[2,6)", s.String())
}

func TestValidateTokens(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name   string
		tokens []syntax.Token
		length int
		want   bool
	}

	tests := []testCase{
		{name: "empty source", tokens: nil, length: 0, want: true},
		{
			name: "contiguous",
			tokens: []syntax.Token{
				{Kind: kWord, Span: syntax.NewSpan(0, 3)},
				{Kind: kSpace, Span: syntax.NewSpan(3, 4)},
				{Kind: kEOF, Span: syntax.NewSpan(4, 4)},
			},
			length: 4,
			want:   true,
		},
		{
			name: "gap",
			tokens: []syntax.Token{
				{Kind: kWord, Span: syntax.NewSpan(0, 3)},
				{Kind: kWord, Span: syntax.NewSpan(4, 5)},
			},
			length: 5,
			want:   false,
		},
		{
			name:   "not covering tail",
			tokens: []syntax.Token{{Kind: kWord, Span: syntax.NewSpan(0, 3)}},
			length: 5,
			want:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, syntax.ValidateTokens(tc.tokens, tc.length))
		})
	}
}

func TestValidateStream(t *testing.T) {
	t.Parallel()

	lang := testLanguage()
	good := []syntax.Token{
		{Kind: kWord, Span: syntax.NewSpan(0, 3)},
		{Kind: kEOF, Span: syntax.NewSpan(3, 3)},
	}
	assert.True(t, syntax.ValidateStream(lang, good, 3))

	missing := []syntax.Token{{Kind: kWord, Span: syntax.NewSpan(0, 3)}}
	assert.False(t, syntax.ValidateStream(lang, missing, 3))

	doubled := []syntax.Token{
		{Kind: kEOF, Span: syntax.NewSpan(0, 0)},
		{Kind: kEOF, Span: syntax.NewSpan(0, 0)},
	}
	assert.False(t, syntax.ValidateStream(lang, doubled, 0))
}

func TestTable(t *testing.T) {
	t.Parallel()

	lang := testLanguage()
	assert.Equal(t, "test", lang.Name())
	assert.Equal(t, "Word", lang.KindName(kWord))
	assert.Equal(t, "Kind(99)", lang.KindName(99))
	assert.Equal(t, syntax.TokenName, lang.TokenRole(kWord))
	assert.Equal(t, syntax.TokenNone, lang.TokenRole(kRoot))
	assert.Equal(t, syntax.ElementRoot, lang.ElementRole(kRoot))
	assert.True(t, syntax.IsTrivia(lang, kSpace))
	assert.False(t, syntax.IsTrivia(lang, kWord))
	assert.Equal(t, kEOF, lang.EndOfStream())
	assert.Equal(t, kError, lang.ErrorKind())

	k, ok := lang.Lookup("Root")
	assert.True(t, ok)
	assert.Equal(t, kRoot, k)

	assert.Equal(t, "comment", syntax.TokenComment.String())
	assert.Equal(t, "statement", syntax.ElementStatement.String())

	assert.Panics(t, func() {
		syntax.NewTable("bad", 10, 0, []syntax.KindInfo{{Name: "A"}})
	})
}
