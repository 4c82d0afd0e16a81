// Package lexer defines the lexer contract and the scanning helpers shared
// by language front ends. Languages implement a Scanner that produces one
// token at a time; this package drives it over a whole source, or over just
// the window an edit invalidated.
package lexer

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/incremental"
	"github.com/yaklabco/oak/pkg/syntax"
	"github.com/yaklabco/oak/pkg/text"
)

// Lexer turns a source into a complete token stream.
type Lexer interface {
	// Lex tokenizes src. When cache holds the stream of the previous version
	// and edits describe how that version became src, only the affected
	// window is re-lexed.
	Lex(src *text.Source, edits []text.TextEdit, cache Cache) diag.Output[[]syntax.Token]
}

// Cache exposes the previous generation's lexer results.
type Cache interface {
	Tokens() []syntax.Token
	LexDiagnostics() []*diag.Error
}

// Scanner recognizes tokens of one language.
type Scanner interface {
	// Scan consumes input at the current position and emits at least one
	// token. Scanners must start fresh at every token boundary.
	Scan(s *State)

	// ErrorToken is the kind emitted for input no rule accepts.
	ErrorToken() syntax.Kind
}

// Option configures a ScannerLexer.
type Option func(*ScannerLexer)

// WithResync sets the suffix resynchronization parameters.
func WithResync(opts incremental.ResyncOptions) Option {
	return func(l *ScannerLexer) {
		l.resync = opts
	}
}

// WithIncremental enables or disables window re-lexing.
func WithIncremental(enabled bool) Option {
	return func(l *ScannerLexer) {
		l.incremental = enabled
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(l *ScannerLexer) {
		l.logger = logger
	}
}

// ScannerLexer implements Lexer on top of a Scanner.
type ScannerLexer struct {
	lang        syntax.Language
	scanner     Scanner
	resync      incremental.ResyncOptions
	incremental bool
	logger      *log.Logger
}

// New creates a lexer for lang driven by scanner.
func New(lang syntax.Language, scanner Scanner, opts ...Option) *ScannerLexer {
	l := &ScannerLexer{
		lang:        lang,
		scanner:     scanner,
		resync:      incremental.DefaultResyncOptions(),
		incremental: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Language returns the lexer's language.
func (l *ScannerLexer) Language() syntax.Language { return l.lang }

// Lex implements Lexer.
func (l *ScannerLexer) Lex(src *text.Source, edits []text.TextEdit, cache Cache) diag.Output[[]syntax.Token] {
	out, _ := l.LexWithStats(src, edits, cache)
	return out
}

// LexWithStats is Lex that also reports how much of the old stream was reused.
func (l *ScannerLexer) LexWithStats(
	src *text.Source,
	edits []text.TextEdit,
	cache Cache,
) (diag.Output[[]syntax.Token], incremental.Stats) {
	if l.incremental && cache != nil && len(edits) > 0 && len(cache.Tokens()) > 0 {
		out, stats := Relex(l.lang, src, cache.Tokens(), cache.LexDiagnostics(), edits, l.scanner, l.resync)
		if l.logger != nil {
			l.logger.Debug("relexed window",
				"window", stats.RelexWindow.String(),
				"reused", stats.TokensReused,
				"relexed", stats.TokensRelexed,
				"fallback", stats.FellBack,
			)
		}
		return out, stats
	}

	out := Run(l.lang, src, l.scanner)
	return out, incremental.Stats{
		TokensRelexed: len(out.Value),
		RelexWindow:   syntax.NewSpan(0, src.Len()),
	}
}

// Run lexes the whole source.
func Run(lang syntax.Language, src *text.Source, scanner Scanner) diag.Output[[]syntax.Token] {
	st := NewState(lang, src)
	scanAll(st, scanner)
	st.AddEOF()
	return st.Finish(nil)
}

func scanAll(st *State, scanner Scanner) {
	for st.NotAtEnd() {
		safe := st.Pos()
		scanner.Scan(st)
		st.AdvanceIfStuck(safe, scanner.ErrorToken())
	}
}
