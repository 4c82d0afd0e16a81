// Package parser defines the parser contract and the state that grammars
// drive: a cursor over a token stream feeding a tree sink, with error
// recovery, backtracking, and reuse of subtrees from the previous parse.
package parser

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/incremental"
	"github.com/yaklabco/oak/pkg/lexer"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

// Parser turns a source into a green tree.
type Parser interface {
	// Parse parses src. When cache holds the previous generation and edits
	// describe how it became src, unchanged tokens and subtrees are reused.
	// On success the new generation is committed to cache.
	Parse(src *text.Source, edits []text.TextEdit, cache *incremental.Cache) diag.Output[*tree.Node]
}

// Grammar parses a whole token stream. It normally ends with State.Finish.
type Grammar func(st *State) diag.Output[*tree.Node]

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithReusePolicy restricts which old nodes may be reused.
func WithReusePolicy(policy ReusePolicy) Option {
	return func(d *Driver) {
		d.policy = policy
	}
}

// WithNodeReuse enables or disables subtree reuse.
func WithNodeReuse(enabled bool) Option {
	return func(d *Driver) {
		d.reuse = enabled
	}
}

// WithCapacityHint sizes arenas when no previous generation exists.
func WithCapacityHint(n int) Option {
	return func(d *Driver) {
		d.capacityHint = n
	}
}

// Driver implements Parser by running a Lexer and then a Grammar.
type Driver struct {
	lang         syntax.Language
	lexer        lexer.Lexer
	grammar      Grammar
	policy       ReusePolicy
	reuse        bool
	capacityHint int
	logger       *log.Logger
}

// NewDriver creates a parser for lang.
func NewDriver(lang syntax.Language, lx lexer.Lexer, grammar Grammar, opts ...Option) *Driver {
	d := &Driver{
		lang:    lang,
		lexer:   lx,
		grammar: grammar,
		reuse:   true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Language returns the parser's language.
func (d *Driver) Language() syntax.Language { return d.lang }

// Lexer returns the lexer used by the driver.
func (d *Driver) Lexer() lexer.Lexer { return d.lexer }

// Parse implements Parser.
func (d *Driver) Parse(src *text.Source, edits []text.TextEdit, cache *incremental.Cache) diag.Output[*tree.Node] {
	out, _ := d.ParseWithStats(src, edits, cache)
	return out
}

type statsLexer interface {
	LexWithStats(src *text.Source, edits []text.TextEdit, cache lexer.Cache) (diag.Output[[]syntax.Token], incremental.Stats)
}

// ParseWithStats is Parse that also reports what was reused.
func (d *Driver) ParseWithStats(
	src *text.Source,
	edits []text.TextEdit,
	cache *incremental.Cache,
) (diag.Output[*tree.Node], incremental.Stats) {
	var prev *incremental.Generation
	if cache != nil {
		prev = cache.Current()
	}

	var lexCache lexer.Cache
	if prev != nil {
		lexCache = cache
	} else {
		// Without a previous generation the edits have nothing to apply to.
		edits = nil
	}

	var (
		lexOut diag.Output[[]syntax.Token]
		stats  incremental.Stats
	)
	if sl, ok := d.lexer.(statsLexer); ok {
		lexOut, stats = sl.LexWithStats(src, edits, lexCache)
	} else {
		lexOut = d.lexer.Lex(src, edits, lexCache)
		stats.TokensRelexed = len(lexOut.Value)
	}
	if !lexOut.OK() {
		return diag.Fail[*tree.Node](lexOut.Err, lexOut.Diagnostics), stats
	}

	var arena *tree.Arena
	if cache != nil {
		arena = cache.NewArena()
	} else {
		arena = tree.NewArena(max(d.capacityHint, len(lexOut.Value)/2))
	}

	st := NewState(d.lang, src, lexOut.Value, arena)
	if d.reuse && prev != nil && prev.Tree != nil {
		prepared, err := text.PrepareEdits(edits, prev.Source.Len())
		if err == nil {
			st.SetIncremental(prev.Tree, prepared)
			st.SetReusePolicy(d.policy)
		}
	}

	out := d.grammar(st)

	diags := make([]*diag.Error, 0, len(lexOut.Diagnostics)+len(out.Diagnostics))
	diags = append(diags, lexOut.Diagnostics...)
	diags = append(diags, out.Diagnostics...)
	out.Diagnostics = diags

	stats.NodesReused = st.ReusedNodes()
	stats.Arena = arena.Stats()

	if d.logger != nil {
		d.logger.Debug("parsed",
			"language", d.lang.Name(),
			"tokens", len(lexOut.Value),
			"nodes_reused", stats.NodesReused,
			"arena_nodes", stats.Arena.Nodes,
			"intern_hits", stats.Arena.InternHits,
			"diagnostics", len(diags),
		)
	}

	if out.OK() && cache != nil {
		cache.Commit(&incremental.Generation{
			Source:         src,
			Tokens:         lexOut.Value,
			Tree:           out.Value,
			Arena:          arena,
			Stats:          stats,
			LexDiagnostics: lexOut.Diagnostics,
		})
	}

	return out, stats
}

// ParseWithLexer parses src with a one-off driver.
func ParseWithLexer(
	lang syntax.Language,
	lx lexer.Lexer,
	grammar Grammar,
	src *text.Source,
	edits []text.TextEdit,
	cache *incremental.Cache,
) diag.Output[*tree.Node] {
	return NewDriver(lang, lx, grammar).Parse(src, edits, cache)
}
