// Package incremental holds the bookkeeping that lets oak re-lex and
// re-parse only what an edit touched: the partition of an old token stream
// around a batch of edits, the resynchronization check that decides when
// the old suffix can be trusted again, and the cache that carries one
// generation of results to the next.
package incremental

import (
	"fmt"

	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
)

// Plan partitions an old token stream around a batch of edits.
//
// Prefix holds the tokens that end strictly before the first edit; they are
// reused unchanged. A token ending exactly at the edit start is discarded
// since the edit may extend it. Suffix holds the tokens that start at or
// after the end of the last edit, already shifted into new coordinates; they
// are candidates for reuse once re-lexing resynchronizes with them. The
// end-of-stream token is never part of either partition.
type Plan struct {
	Edits  []text.TextEdit
	Prefix []syntax.Token
	Suffix []syntax.Token

	// WindowStart is where re-lexing begins, in both old and new coordinates.
	WindowStart int

	// ResyncFrom is the end of the last edit's new text in new coordinates.
	// Only tokens starting at or after it may be matched against Suffix.
	ResyncFrom int

	// Delta is the total change in source length.
	Delta int

	// OldLen and NewLen are the source lengths before and after the edits.
	OldLen int
	NewLen int
}

// NewPlan validates the edits against the old stream and partitions it.
// old must be a complete stream ending with an end-of-stream token.
func NewPlan(old []syntax.Token, edits []text.TextEdit) (*Plan, error) {
	if len(old) == 0 {
		return nil, fmt.Errorf("incremental: previous token stream is empty")
	}
	oldLen := old[len(old)-1].Span.End

	prepared, err := text.PrepareEdits(edits, oldLen)
	if err != nil {
		return nil, err
	}
	if len(prepared) == 0 {
		return nil, fmt.Errorf("incremental: no edits to plan")
	}

	first := prepared[0]
	last := prepared[len(prepared)-1]
	delta := text.TotalDelta(prepared)

	plan := &Plan{
		Edits:      prepared,
		Delta:      delta,
		OldLen:     oldLen,
		NewLen:     oldLen + delta,
		ResyncFrom: last.NewEnd() + delta - last.Delta(),
	}

	body := old[:len(old)-1]

	// Prefix: tokens ending strictly before the first edit.
	n := 0
	for n < len(body) && body[n].Span.End < first.Span.Start {
		n++
	}
	plan.Prefix = body[:n:n]
	if n > 0 {
		plan.WindowStart = body[n-1].Span.End
	}

	// Suffix: tokens starting at or after the last edit's end.
	m := len(body)
	for m > n && body[m-1].Span.Start >= last.Span.End {
		m--
	}
	plan.Suffix = make([]syntax.Token, 0, len(body)-m)
	for _, tok := range body[m:] {
		plan.Suffix = append(plan.Suffix, tok.Shift(delta))
	}

	return plan, nil
}

// Discarded returns how many old tokens fall between prefix and suffix.
func (p *Plan) Discarded(oldCount int) int {
	return oldCount - 1 - len(p.Prefix) - len(p.Suffix)
}

// Splice assembles the new stream: prefix, the re-lexed window, the suffix
// from index suffixFrom on, and a fresh end-of-stream token.
func (p *Plan) Splice(window []syntax.Token, suffixFrom int, eof syntax.Kind) []syntax.Token {
	suffixFrom = min(max(suffixFrom, 0), len(p.Suffix))
	rest := p.Suffix[suffixFrom:]

	out := make([]syntax.Token, 0, len(p.Prefix)+len(window)+len(rest)+1)
	out = append(out, p.Prefix...)
	out = append(out, window...)
	out = append(out, rest...)
	out = append(out, syntax.Token{Kind: eof, Span: syntax.NewSpan(p.NewLen, p.NewLen)})
	return out
}
