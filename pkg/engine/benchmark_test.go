package engine_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/oak/pkg/engine"
	"github.com/yaklabco/oak/pkg/incremental"
	"github.com/yaklabco/oak/pkg/lang/mini"
	"github.com/yaklabco/oak/pkg/text"
)

func benchmarkProgram(statements int) string {
	var b strings.Builder
	for i := range statements {
		fmt.Fprintf(&b, "let v%d = %d + (v%d * 2);\n", i, i, i/2)
	}
	return b.String()
}

func benchmarkEngine() *engine.Engine[*mini.Program] {
	lx := mini.NewLexer()
	return engine.New(mini.Language, lx, mini.NewParser(lx), mini.Lower)
}

// Benchmark a full parse of a medium-sized program.
func BenchmarkFullParse(b *testing.B) {
	e := benchmarkEngine()
	src := text.NewSource(benchmarkProgram(500))

	b.ResetTimer()
	for range b.N {
		if out := e.Parse(src); !out.OK() {
			b.Fatal(out.Err)
		}
	}
}

// Benchmark a one-character edit in the middle of the same program.
func BenchmarkIncrementalEdit(b *testing.B) {
	e := benchmarkEngine()
	program := benchmarkProgram(500)
	offset := strings.Index(program, "let v250 = ") + len("let v250 = ")

	cache := incremental.NewCache(0)
	if out := e.ParseInto(cache, text.NewSource(program)); !out.OK() {
		b.Fatal(out.Err)
	}

	digits := []string{"7", "2"}

	b.ResetTimer()
	for i := range b.N {
		edit := text.Replace(offset, offset+1, digits[i%2])
		if out := e.ParseIncremental(cache, []text.TextEdit{edit}); !out.OK() {
			b.Fatal(out.Err)
		}
	}
}
