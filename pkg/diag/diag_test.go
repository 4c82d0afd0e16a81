package diag_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/oak/pkg/diag"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *diag.Error
		want string
	}{
		{
			name: "unexpected character",
			err:  diag.UnexpectedCharacter(3, '@'),
			want: "offset 3: unexpected-character: unexpected character '@'",
		},
		{
			name: "expected token with found",
			err:  diag.ExpectedToken(9, "Semicolon", "RBrace"),
			want: "offset 9: expected-token: expected Semicolon, found RBrace",
		},
		{
			name: "syntax with uri",
			err:  diag.Syntax(0, "bad %s", "thing").WithURI("a.mini"),
			want: "a.mini: offset 0: syntax: bad thing",
		},
		{
			name: "internal has no offset",
			err:  diag.Internal("arena overflow"),
			want: "internal: arena overflow",
		},
		{
			name: "eof",
			err:  diag.UnexpectedEOF(12),
			want: "offset 12: unexpected-eof: unexpected end of input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorIs(t *testing.T) {
	t.Parallel()

	err := diag.IO("missing.mini", fs.ErrNotExist)
	assert.ErrorIs(t, err, diag.ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, diag.ErrSyntax)

	a := diag.UnexpectedEOF(0)
	b := diag.UnexpectedEOF(0)
	assert.False(t, errors.Is(a, b), "only sentinels match by kind")
	assert.ErrorIs(t, a, diag.ErrUnexpectedEOF)
}

func TestOutput(t *testing.T) {
	t.Parallel()

	warn := diag.Syntax(4, "recovered")
	ok := diag.Ok(42, []*diag.Error{warn})
	assert.True(t, ok.OK())
	assert.True(t, ok.HasDiagnostics())

	v, err := ok.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	doubled := diag.Map(ok, func(n int) (int, error) { return n * 2, nil })
	assert.Equal(t, 84, doubled.Value)
	assert.Len(t, doubled.Diagnostics, 1)

	failed := diag.Map(ok, func(int) (string, error) { return "", diag.Custom(0, "cannot lower") })
	assert.False(t, failed.OK())
	_, err = failed.Unwrap()
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.ErrCustom)
	assert.ErrorIs(t, err, diag.ErrSyntax)

	fail := diag.Fail[int](diag.Internal("boom"), nil)
	assert.False(t, fail.OK())
	assert.Zero(t, fail.Value)
}
