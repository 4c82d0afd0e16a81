package registry

import (
	"github.com/yaklabco/oak/pkg/config"
	"github.com/yaklabco/oak/pkg/engine"
	"github.com/yaklabco/oak/pkg/lang/mini"
	"github.com/yaklabco/oak/pkg/lexer"
	"github.com/yaklabco/oak/pkg/parser"
)

// Default is the registry holding the built-in languages.
//
//nolint:gochecknoglobals // Process-wide language table.
var Default = New()

//nolint:gochecknoinits // Registers built-ins and the template provider.
func init() {
	Default.MustRegister(Entry{
		Name:         "mini",
		Extensions:   []string{".mini"},
		Interpreters: []string{"mini"},
		New:          newMini,
	})
	Default.MustRegister(Entry{
		Name:       "words",
		Aliases:    []string{"Text"},
		Extensions: []string{".txt", ".words"},
		New:        newWords,
	})

	config.DefaultLanguageInfoProvider = Default.Infos
}

func lexerOptions(s Settings) []lexer.Option {
	return []lexer.Option{
		lexer.WithResync(s.Resync),
		lexer.WithIncremental(s.Incremental),
		lexer.WithLogger(s.Logger),
	}
}

func parserOptions(s Settings) []parser.Option {
	return []parser.Option{
		parser.WithNodeReuse(s.NodeReuse),
		parser.WithCapacityHint(s.CapacityHint),
		parser.WithLogger(s.Logger),
	}
}

func newMini(s Settings) engine.Frontend {
	lx := mini.NewLexer(lexerOptions(s)...)
	p := mini.NewParser(lx, parserOptions(s)...)
	return engine.New[*mini.Program](mini.Language, lx, p, mini.Lower, engine.WithLogger(s.Logger))
}

func newWords(s Settings) engine.Frontend {
	lx := mini.NewWordLexer(lexerOptions(s)...)
	p := mini.NewWordParser(lx, parserOptions(s)...)
	return engine.New[[]string](mini.Language, lx, p, mini.LowerWords, engine.WithLogger(s.Logger))
}
