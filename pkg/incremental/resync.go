package incremental

import "github.com/yaklabco/oak/pkg/syntax"

// Default resynchronization settings.
const (
	// DefaultResyncTokens is how many consecutive re-lexed tokens must match
	// the shifted suffix before the rest of the suffix is trusted.
	DefaultResyncTokens = 2

	// DefaultMaxResyncAttempts bounds how many mismatching tokens are
	// compared before giving up and re-lexing to the end of the source.
	DefaultMaxResyncAttempts = 8
)

// ResyncOptions tunes suffix resynchronization.
type ResyncOptions struct {
	ResyncTokens      int
	MaxResyncAttempts int
}

// DefaultResyncOptions returns the default settings.
func DefaultResyncOptions() ResyncOptions {
	return ResyncOptions{
		ResyncTokens:      DefaultResyncTokens,
		MaxResyncAttempts: DefaultMaxResyncAttempts,
	}
}

func (o ResyncOptions) normalized() ResyncOptions {
	if o.ResyncTokens < 1 {
		o.ResyncTokens = DefaultResyncTokens
	}
	if o.MaxResyncAttempts < 1 {
		o.MaxResyncAttempts = DefaultMaxResyncAttempts
	}
	return o
}

// Resync compares freshly lexed tokens against a shifted suffix and reports
// when enough consecutive tokens agree for the remainder to be reused.
type Resync struct {
	suffix   []syntax.Token
	opts     ResyncOptions
	next     int
	matched  int
	attempts int
	gaveUp   bool
}

// NewResync creates a matcher for the given shifted suffix.
func NewResync(suffix []syntax.Token, opts ResyncOptions) *Resync {
	return &Resync{suffix: suffix, opts: opts.normalized(), gaveUp: len(suffix) == 0}
}

// GaveUp reports whether the matcher stopped looking for a resync point.
func (r *Resync) GaveUp() bool { return r.gaveUp }

// Attempts returns how many mismatching comparisons were made.
func (r *Resync) Attempts() int { return r.attempts }

// Offer checks one freshly lexed token. It matches a suffix token only
// when both kind and span are equal. When it completes a run of matching
// tokens it returns the index in the suffix of the first token that can be
// appended as is, and true.
func (r *Resync) Offer(tok syntax.Token) (int, bool) {
	if r.gaveUp {
		return 0, false
	}

	// Skip suffix tokens that the new token has already passed.
	for r.next < len(r.suffix) && r.suffix[r.next].Span.Start < tok.Span.Start {
		r.next++
	}
	if r.next >= len(r.suffix) {
		r.gaveUp = true
		return 0, false
	}

	candidate := r.suffix[r.next]
	if candidate == tok {
		r.matched++
		r.next++
		if r.matched >= r.opts.ResyncTokens || r.next == len(r.suffix) {
			return r.next, true
		}
		return 0, false
	}

	r.matched = 0
	if candidate.Span.Start == tok.Span.Start {
		r.next++
	}
	r.attempts++
	if r.attempts >= r.opts.MaxResyncAttempts {
		r.gaveUp = true
	}
	return 0, false
}
