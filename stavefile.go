//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"f":   Test.Fuzz,
	"l":   Lint.Default,
	"c":   Check,
	"fmt": Lint.Fmt,
	"bi":  Bench.Incremental,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/oak when its sources changed.
func Build() error {
	rebuild, err := target.Dir("bin/oak", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/oak is up to date")
		return nil
	}
	fmt.Println("Building oak...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/oak", "./cmd/oak")
}

// Install installs oak into $GOBIN.
func Install() error {
	fmt.Println("Installing oak...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/oak")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build and coverage output and the fuzz cache.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return sh.RunV("go", "clean", "-fuzzcache")
}

// Deps downloads and tidies modules.
func Deps() error {
	if err := sh.RunV("go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Default runs every test with the race detector through gotestsum.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "-race", "./...",
		"-coverprofile=coverage.out", "-covermode=atomic")
}

// Verbose is Default with per-test output.
func (Test) Verbose() error {
	return gotestsum("standard-verbose", "-race", "./...",
		"-coverprofile=coverage.out", "-covermode=atomic")
}

// Fuzz runs the incremental parse fuzzer. FUZZTIME overrides the 30s
// default.
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	fmt.Printf("Fuzzing incremental parsing for %s...\n", fuzzTime)
	return sh.RunV("go", "test",
		"-run=^$",
		"-fuzz=^FuzzIncrementalParse$",
		"-fuzztime="+fuzzTime,
		"./pkg/lang/mini/",
	)
}

// Cover writes coverage.html from a fresh test run.
func (Test) Cover() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without fixing anything.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when any file is not gofmt-clean.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Gate runs the checks CI requires before merging.
func (CI) Gate() {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		CI.ModTidy,
	)
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}
	before := make([][]byte, len(files))
	for i, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		before[i] = data
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for i, name := range files {
		after, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		if !bytes.Equal(before[i], after) {
			return errors.New(name + " is not tidy")
		}
	}
	return nil
}

// Default runs every benchmark.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Incremental compares a full parse with a one-character incremental edit.
func (Bench) Incremental() error {
	return sh.RunV("go", "test",
		"-run=^$",
		"-bench=FullParse|IncrementalEdit",
		"-benchmem",
		"-count=5",
		"./pkg/engine/",
	)
}

func gotestsum(format string, args ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmdArgs := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", procs, "-parallel", procs}, args...)
	return sh.RunV("go", cmdArgs...)
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects the version reported by oak version.
func ldflags() string {
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339),
	)
}
