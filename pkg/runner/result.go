package runner

import (
	"errors"

	"github.com/yaklabco/oak/pkg/diag"
	"github.com/yaklabco/oak/pkg/text"
)

// FileResult is what a ProcessFunc reports for one file.
type FileResult struct {
	Language    string
	Source      *text.Source
	Tokens      int
	Nodes       int
	Diagnostics []*diag.Error
}

// FileOutcome is the result of one file, or the error that stopped it.
type FileOutcome struct {
	Path   string
	Result *FileResult
	Error  error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered      int
	FilesProcessed       int
	FilesErrored         int
	FilesWithDiagnostics int
	DiagnosticsTotal     int

	// DiagnosticsByKind counts diagnostics by diag.Kind name.
	DiagnosticsByKind map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome
	Stats Stats
}

// HasDiagnostics reports whether any file produced a diagnostic.
func (r *Result) HasDiagnostics() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

// Err joins the errors of every file that could not be processed.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, f := range r.Files {
		if f.Error != nil {
			errs = append(errs, f.Error)
		}
	}
	return errors.Join(errs...)
}

func newStats() Stats {
	return Stats{DiagnosticsByKind: make(map[string]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++

	n := len(outcome.Result.Diagnostics)
	r.Stats.DiagnosticsTotal += n
	if n > 0 {
		r.Stats.FilesWithDiagnostics++
	}
	for _, d := range outcome.Result.Diagnostics {
		r.Stats.DiagnosticsByKind[d.Kind.String()]++
	}
}
