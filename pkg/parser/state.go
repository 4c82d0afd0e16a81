package parser

import (
	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
	"github.com/yaklabco/oak/pkg/tree"
)

// Checkpoint records a token position together with a sink checkpoint.
type Checkpoint struct {
	token int
	sink  tree.Checkpoint
	diags int
}

// State is the parsing state handed to a grammar: the token stream, a cursor
// into it, the tree sink, and the diagnostics collected so far.
type State struct {
	lang   syntax.Language
	src    *text.Source
	tokens []syntax.Token
	pos    int
	sink   *tree.Sink
	diags  []*diag.Error
	reuse  *reuseContext
}

// NewState creates a parser state over a complete token stream.
func NewState(lang syntax.Language, src *text.Source, tokens []syntax.Token, arena *tree.Arena) *State {
	return &State{
		lang:   lang,
		src:    src,
		tokens: tokens,
		sink:   tree.NewSink(arena, len(tokens)/4),
	}
}

// Language returns the language being parsed.
func (s *State) Language() syntax.Language { return s.lang }

// Source returns the source being parsed.
func (s *State) Source() *text.Source { return s.src }

// Sink returns the tree sink.
func (s *State) Sink() *tree.Sink { return s.sink }

// Diagnostics returns the diagnostics recorded so far.
func (s *State) Diagnostics() []*diag.Error { return s.diags }

// TokenIndex returns the index of the current token.
func (s *State) TokenIndex() int { return s.pos }

// Current returns the current token. Past the end it returns the final
// end-of-stream token.
func (s *State) Current() syntax.Token {
	if s.pos < len(s.tokens) {
		return s.tokens[s.pos]
	}
	if len(s.tokens) > 0 {
		return s.tokens[len(s.tokens)-1]
	}
	return syntax.Token{Kind: s.lang.EndOfStream()}
}

// Offset returns the start offset of the current token.
func (s *State) Offset() int { return s.Current().Span.Start }

// PeekKind returns the kind of the current token.
func (s *State) PeekKind() syntax.Kind { return s.Current().Kind }

// PeekKindAt returns the kind of the token n positions ahead.
func (s *State) PeekKindAt(n int) syntax.Kind {
	i := s.pos + n
	if i < len(s.tokens) {
		return s.tokens[i].Kind
	}
	return s.lang.EndOfStream()
}

// PeekNonTrivia returns the kind of the n-th non-trivia token from the
// current position, counting from 0.
func (s *State) PeekNonTrivia(n int) syntax.Kind {
	for i := s.pos; i < len(s.tokens); i++ {
		if syntax.IsTrivia(s.lang, s.tokens[i].Kind) {
			continue
		}
		if n == 0 {
			return s.tokens[i].Kind
		}
		n--
	}
	return s.lang.EndOfStream()
}

// At reports whether the current token is of kind k.
func (s *State) At(k syntax.Kind) bool { return s.PeekKind() == k }

// AtAny reports whether the current token is one of kinds.
func (s *State) AtAny(kinds ...syntax.Kind) bool {
	cur := s.PeekKind()
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// AtEnd reports whether the current token is the end of the stream.
func (s *State) AtEnd() bool { return s.PeekKind() == s.lang.EndOfStream() }

// NotAtEnd reports whether tokens other than the end of the stream remain.
func (s *State) NotAtEnd() bool { return !s.AtEnd() }

// Advance pushes the current token as a leaf without skipping trivia.
func (s *State) Advance() {
	if s.pos >= len(s.tokens) {
		return
	}
	tok := s.tokens[s.pos]
	s.sink.PushLeaf(tok.Kind, tok.Len())
	s.pos++
}

// Bump pushes the current token and any trivia after it.
func (s *State) Bump() {
	s.Advance()
	s.SkipTrivia()
}

// Eat bumps the current token if it is of kind k.
func (s *State) Eat(k syntax.Kind) bool {
	if !s.At(k) {
		return false
	}
	s.Bump()
	return true
}

// Expect eats a token of kind k or records an ExpectedToken diagnostic
// without consuming anything.
func (s *State) Expect(k syntax.Kind) error {
	if s.Eat(k) {
		return nil
	}
	err := diag.ExpectedToken(s.Offset(), s.lang.KindName(k), s.lang.KindName(s.PeekKind()))
	s.Error(err)
	return err
}

// EatToken advances past a token of kind k without taking the trivia after
// it, which then belongs to the enclosing node.
func (s *State) EatToken(k syntax.Kind) bool {
	if !s.At(k) {
		return false
	}
	s.Advance()
	return true
}

// ExpectToken is Expect without trailing trivia.
func (s *State) ExpectToken(k syntax.Kind) error {
	if s.EatToken(k) {
		return nil
	}
	err := diag.ExpectedToken(s.Offset(), s.lang.KindName(k), s.lang.KindName(s.PeekKind()))
	s.Error(err)
	return err
}

// SkipTrivia pushes whitespace and comment tokens as leaves.
func (s *State) SkipTrivia() {
	for s.pos < len(s.tokens) && syntax.IsTrivia(s.lang, s.tokens[s.pos].Kind) {
		s.Advance()
	}
}

// AdvanceUntil bumps tokens until the current one is k or the stream ends.
func (s *State) AdvanceUntil(k syntax.Kind) {
	s.AdvanceUntilAny(k)
}

// AdvanceUntilAny bumps tokens until the current one is one of kinds or the
// stream ends.
func (s *State) AdvanceUntilAny(kinds ...syntax.Kind) {
	for s.NotAtEnd() && !s.AtAny(kinds...) {
		s.Bump()
	}
}

// Error records a diagnostic.
func (s *State) Error(err *diag.Error) {
	s.diags = append(s.diags, err)
}

// Checkpoint marks the current position.
func (s *State) Checkpoint() Checkpoint {
	return Checkpoint{token: s.pos, sink: s.sink.Checkpoint(), diags: len(s.diags)}
}

// CheckpointBefore opens a checkpoint before an already finished node, so
// that it can become the first child of a new node.
func (s *State) CheckpointBefore(n *tree.Node) Checkpoint {
	return Checkpoint{token: s.pos, sink: s.sink.CheckpointBefore(n), diags: len(s.diags)}
}

// Restore rewinds to cp, discarding tokens, leaves and diagnostics since.
func (s *State) Restore(cp Checkpoint) {
	s.sink.Restore(cp.sink)
	s.pos = cp.token
	if cp.diags < len(s.diags) {
		clear(s.diags[cp.diags:])
		s.diags = s.diags[:cp.diags]
	}
}

// FinishAt wraps everything since cp into a node of kind.
func (s *State) FinishAt(cp Checkpoint, kind syntax.Kind) *tree.Node {
	return s.sink.FinishNode(cp.sink, kind)
}

// TryParse runs fn and rewinds if it fails.
func (s *State) TryParse(fn func(*State) error) error {
	cp := s.Checkpoint()
	if err := fn(s); err != nil {
		s.Restore(cp)
		return err
	}
	s.sink.Release(cp.sink)
	return nil
}

// ErrorNode records a syntax error at the current token and wraps that token
// in a node of the language's error kind. At the end of the stream it
// records the error without consuming anything.
func (s *State) ErrorNode(format string, args ...any) *tree.Node {
	s.Error(diag.Syntax(s.Offset(), format, args...))

	cp := s.Checkpoint()
	if s.NotAtEnd() {
		s.Bump()
	}
	return s.FinishAt(cp, s.lang.ErrorKind())
}

// Finish pushes any remaining tokens, including the end of the stream, and
// wraps everything into the root node.
func (s *State) Finish(root syntax.Kind) diag.Output[*tree.Node] {
	for s.pos < len(s.tokens) {
		s.Advance()
	}

	node, err := s.sink.Finish(root)
	if err != nil {
		return diag.Fail[*tree.Node](err, s.diags)
	}
	return diag.Ok(node, s.diags)
}
