package lexer

import (
	"fmt"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/incremental"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
)

// Relex updates an old token stream for a batch of edits. src is the new
// source. Tokens before the first edit are kept, the edited window is
// scanned again, and scanning stops as soon as it resynchronizes with the
// shifted tail of the old stream. If it never does, scanning runs to the end.
//
// oldDiags are the lexer diagnostics of the old stream; those that belong to
// kept tokens are carried over.
func Relex(
	lang syntax.Language,
	src *text.Source,
	old []syntax.Token,
	oldDiags []*diag.Error,
	edits []text.TextEdit,
	scanner Scanner,
	opts incremental.ResyncOptions,
) (diag.Output[[]syntax.Token], incremental.Stats) {
	plan, err := incremental.NewPlan(old, edits)
	if err != nil {
		return diag.Fail[[]syntax.Token](fmt.Errorf("relex: %w", err), nil), incremental.Stats{}
	}
	if plan.NewLen != src.Len() {
		err := diag.Internal("relex: edits produce length %d but source has %d bytes", plan.NewLen, src.Len())
		return diag.Fail[[]syntax.Token](err, nil), incremental.Stats{}
	}

	st := NewStateAt(lang, src, plan.WindowStart)
	rs := incremental.NewResync(plan.Suffix, opts)

	suffixFrom := len(plan.Suffix)
	resynced := false
	checked := 0

	for st.NotAtEnd() && !resynced {
		safe := st.Pos()
		scanner.Scan(st)
		st.AdvanceIfStuck(safe, scanner.ErrorToken())

		for ; checked < st.TokenCount(); checked++ {
			tok := st.tokens[checked]
			if tok.Span.Start < plan.ResyncFrom {
				continue
			}
			if from, ok := rs.Offer(tok); ok {
				suffixFrom = from
				resynced = true
				break
			}
		}
	}

	window := st.tokens
	if resynced {
		window = st.tokens[:checked+1]
	}

	tokens := plan.Splice(window, suffixFrom, lang.EndOfStream())

	windowEnd := plan.WindowStart
	if len(window) > 0 {
		windowEnd = window[len(window)-1].Span.End
	}
	keptFrom := plan.NewLen
	if suffixFrom < len(plan.Suffix) {
		keptFrom = plan.Suffix[suffixFrom].Span.Start
	}

	before, after := carryDiagnostics(oldDiags, plan, keptFrom)
	diags := make([]*diag.Error, 0, len(before)+len(st.diags)+len(after))
	diags = append(diags, before...)
	diags = append(diags, st.diags...)
	diags = append(diags, after...)

	stats := incremental.Stats{
		TokensReused:  len(plan.Prefix) + len(plan.Suffix) - suffixFrom,
		TokensRelexed: len(window),
		RelexWindow:   syntax.NewSpan(plan.WindowStart, windowEnd),
		FellBack:      !resynced && len(plan.Suffix) > 0,
	}

	return diag.Ok(tokens, diags), stats
}

// carryDiagnostics keeps old diagnostics that lie in the kept prefix or the
// reused part of the suffix, shifting the latter into new coordinates.
func carryDiagnostics(old []*diag.Error, plan *incremental.Plan, keptFrom int) ([]*diag.Error, []*diag.Error) {
	if len(old) == 0 {
		return nil, nil
	}

	lastEnd := plan.Edits[len(plan.Edits)-1].Span.End
	var before, after []*diag.Error
	for _, d := range old {
		switch {
		case d.Offset == diag.NoOffset:
		case d.Offset < plan.WindowStart:
			before = append(before, d)
		case d.Offset >= lastEnd && d.Offset+plan.Delta >= keptFrom:
			shifted := *d
			shifted.Offset += plan.Delta
			after = append(after, &shifted)
		}
	}
	return before, after
}
