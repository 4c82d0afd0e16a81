package text_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/oak/pkg/text"
)

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		edits      []text.TextEdit
		contentLen int
		errMsg     string
	}{
		{name: "empty edits", edits: nil, contentLen: 10},
		{
			name:       "valid edits",
			edits:      []text.TextEdit{text.Replace(0, 5, "hello"), text.Replace(5, 10, "world")},
			contentLen: 10,
		},
		{
			name:       "negative start offset",
			edits:      []text.TextEdit{text.Replace(-1, 5, "hello")},
			contentLen: 10,
			errMsg:     "start offset is negative",
		},
		{
			name:       "end before start",
			edits:      []text.TextEdit{text.Replace(5, 3, "hello")},
			contentLen: 10,
			errMsg:     "end offset is before start offset",
		},
		{
			name:       "end exceeds content length",
			edits:      []text.TextEdit{text.Replace(5, 15, "hello")},
			contentLen: 10,
			errMsg:     "exceeds content length",
		},
		{
			name:       "insertion at end",
			edits:      []text.TextEdit{text.Insert(10, "!")},
			contentLen: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := text.ValidateEdits(tt.edits, tt.contentLen)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)

			var verr *text.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestPrepareEdits(t *testing.T) {
	t.Parallel()

	t.Run("sorts without touching input", func(t *testing.T) {
		t.Parallel()

		in := []text.TextEdit{text.Insert(8, "b"), text.Replace(1, 3, "a")}
		out, err := text.PrepareEdits(in, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, out[0].Span.Start)
		assert.Equal(t, 8, out[1].Span.Start)
		assert.Equal(t, 8, in[0].Span.Start)
	})

	t.Run("rejects overlap", func(t *testing.T) {
		t.Parallel()

		_, err := text.PrepareEdits([]text.TextEdit{text.Replace(0, 4, "x"), text.Replace(2, 6, "y")}, 10)
		var cerr *text.ConflictError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "overlapping edits: [0:4] and [2:6]", cerr.Error())
	})

	t.Run("adjacent edits are fine", func(t *testing.T) {
		t.Parallel()

		_, err := text.PrepareEdits([]text.TextEdit{text.Replace(0, 4, "x"), text.Insert(4, "y")}, 10)
		assert.NoError(t, err)
	})
}

func TestApplyToString(t *testing.T) {
	t.Parallel()

	got, err := text.ApplyToString("let x = 1;", []text.TextEdit{text.Replace(4, 5, "longname")})
	require.NoError(t, err)
	assert.Equal(t, "let longname = 1;", got)

	got, err = text.ApplyToString("abcdef", []text.TextEdit{text.Delete(4, 6), text.Insert(0, ">"), text.Replace(2, 3, "CC")})
	require.NoError(t, err)
	assert.Equal(t, ">abCCd", got)
}

func TestDirtySpanAndMapOffset(t *testing.T) {
	t.Parallel()

	edits := []text.TextEdit{text.Replace(2, 3, "xyz"), text.Delete(6, 8)}
	// "abcdefghij" -> "abxyzdefij"
	assert.Equal(t, 2, text.DirtySpan(edits, 10).Start)
	assert.Equal(t, 8, text.DirtySpan(edits, 10).End)

	assert.Equal(t, 1, text.MapOffset(edits, 1))
	assert.Equal(t, 5, text.MapOffset(edits, 2))
	assert.Equal(t, 5, text.MapOffset(edits, 3))
	assert.Equal(t, 8, text.MapOffset(edits, 6))
	assert.Equal(t, 8, text.MapOffset(edits, 8))
	assert.Equal(t, 9, text.MapOffset(edits, 9))
	assert.Zero(t, text.TotalDelta(edits))
}
