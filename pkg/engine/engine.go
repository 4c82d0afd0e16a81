// Package engine ties a lexer, a parser and a lowering step into the build
// pipeline a tool drives: from-scratch builds, and incremental builds that
// apply edits to the cached source and reuse what they can.
//
// Every call runs synchronously on the caller's goroutine. A Cache may be
// read from many goroutines, but incremental builds against one Cache must
// be serialized by the caller.
package engine

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/incremental"
	"github.com/yaklabco/oak/pkg/lexer"
	"github.com/yaklabco/oak/pkg/parser"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

// ErrEmptyCache is returned by incremental calls on a cache that holds no
// generation yet.
var ErrEmptyCache = errors.New("engine: cache holds no previous parse")

// LowerFunc converts a green tree into a typed value.
type LowerFunc[T any] func(root *tree.Node, src *text.Source) diag.Output[T]

// Builder produces typed values from source.
type Builder[T any] interface {
	// Build lexes, parses and lowers src from scratch.
	Build(src *text.Source) diag.Output[T]

	// BuildIncremental applies edits to the source held by cache and
	// rebuilds, reusing the cached generation.
	BuildIncremental(cache *incremental.Cache, edits []text.TextEdit) diag.Output[T]
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Engine is the pipeline for one language.
type Engine[T any] struct {
	lang   syntax.Language
	lexer  lexer.Lexer
	parser parser.Parser
	lower  LowerFunc[T]
	logger *log.Logger
}

// New creates an engine. lower may be nil for engines that only parse.
func New[T any](lang syntax.Language, lx lexer.Lexer, p parser.Parser, lower LowerFunc[T], opts ...Option) *Engine[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine[T]{lang: lang, lexer: lx, parser: p, lower: lower, logger: o.logger}
}

// Language returns the engine's language.
func (e *Engine[T]) Language() syntax.Language { return e.lang }

// Lex tokenizes src from scratch.
func (e *Engine[T]) Lex(src *text.Source) diag.Output[[]syntax.Token] {
	return e.lexer.Lex(src, nil, nil)
}

// Parse parses src from scratch without touching any cache.
func (e *Engine[T]) Parse(src *text.Source) diag.Output[*tree.Node] {
	return e.parser.Parse(src, nil, nil)
}

// ParseInto parses src from scratch and commits the result to cache as the
// first generation of a document.
func (e *Engine[T]) ParseInto(cache *incremental.Cache, src *text.Source) diag.Output[*tree.Node] {
	cache.Reset()
	return e.parser.Parse(src, nil, cache)
}

// ParseIncremental applies edits to the source held by cache and reparses.
// On success cache holds the new generation, including its source and the
// reuse statistics. On failure cache is left unchanged.
func (e *Engine[T]) ParseIncremental(cache *incremental.Cache, edits []text.TextEdit) diag.Output[*tree.Node] {
	prev := cache.Source()
	if prev == nil {
		return diag.Fail[*tree.Node](ErrEmptyCache, nil)
	}

	buf := text.NewBufferFrom(prev)
	dirty, err := buf.ApplyEdits(edits)
	if err != nil {
		return diag.Fail[*tree.Node](fmt.Errorf("apply edits: %w", err), nil)
	}
	src := buf.Snapshot()

	out := e.parser.Parse(src, edits, cache)

	if e.logger != nil {
		fields := []any{"language", e.lang.Name(), "edits", len(edits), "dirty", dirty.String()}
		if g := cache.Current(); out.OK() && g != nil {
			fields = append(fields,
				"tokens_reused", g.Stats.TokensReused,
				"tokens_relexed", g.Stats.TokensRelexed,
				"nodes_reused", g.Stats.NodesReused,
			)
		}
		e.logger.Debug("incremental parse", fields...)
	}
	return out
}

// Build implements Builder.
func (e *Engine[T]) Build(src *text.Source) diag.Output[T] {
	return e.lowerOutput(e.Parse(src), src)
}

// BuildInto is Build that also commits the parse to cache.
func (e *Engine[T]) BuildInto(cache *incremental.Cache, src *text.Source) diag.Output[T] {
	return e.lowerOutput(e.ParseInto(cache, src), src)
}

// BuildIncremental implements Builder.
func (e *Engine[T]) BuildIncremental(cache *incremental.Cache, edits []text.TextEdit) diag.Output[T] {
	out := e.ParseIncremental(cache, edits)
	if !out.OK() {
		return diag.Fail[T](out.Err, out.Diagnostics)
	}
	return e.lowerOutput(out, cache.Source())
}

// lowerOutput lowers a parse result, keeping the parse diagnostics ahead of
// those found while lowering.
func (e *Engine[T]) lowerOutput(parsed diag.Output[*tree.Node], src *text.Source) diag.Output[T] {
	if !parsed.OK() {
		return diag.Fail[T](parsed.Err, parsed.Diagnostics)
	}
	if e.lower == nil {
		return diag.Fail[T](errors.New("engine: no lowering configured"), parsed.Diagnostics)
	}

	lowered := e.lower(parsed.Value, src)
	diags := make([]*diag.Error, 0, len(parsed.Diagnostics)+len(lowered.Diagnostics))
	diags = append(diags, parsed.Diagnostics...)
	diags = append(diags, lowered.Diagnostics...)

	if !lowered.OK() {
		return diag.Fail[T](lowered.Err, diags)
	}
	return diag.Ok(lowered.Value, diags)
}

// Frontend is the type-erased view of an Engine used by tools that handle
// several languages.
type Frontend interface {
	Language() syntax.Language
	Lex(src *text.Source) diag.Output[[]syntax.Token]
	Parse(src *text.Source) diag.Output[*tree.Node]
	ParseInto(cache *incremental.Cache, src *text.Source) diag.Output[*tree.Node]
	ParseIncremental(cache *incremental.Cache, edits []text.TextEdit) diag.Output[*tree.Node]
	BuildAny(src *text.Source) diag.Output[any]
}

// BuildAny is Build with the value boxed.
func (e *Engine[T]) BuildAny(src *text.Source) diag.Output[any] {
	return diag.Map(e.Build(src), func(v T) (any, error) { return v, nil })
}

var _ Frontend = (*Engine[int])(nil)
