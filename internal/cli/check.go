package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/yaklabco/oak/internal/logging"
	"github.com/yaklabco/oak/pkg/registry"
	"github.com/yaklabco/oak/pkg/runner"
)

type checkFlags struct {
	jobs           int
	exclude        []string
	followSymlinks bool
}

func newCheckCommand(global *globalFlags) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Parse many files and report diagnostics",
		Long: `Parse every file under the given paths concurrently and report
their diagnostics. Directories are searched for files with an extension of a
known language; files named directly are always parsed.

Examples:
  oak check                      Check the current directory
  oak check src/ prog.mini       Check a directory and a file
  oak check --exclude 'gen/**' . Skip generated files`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd, global)
			if err != nil {
				return err
			}
			return sess.runCheck(args, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of files to parse in parallel (0 = number of CPUs)")
	cmd.Flags().StringArrayVar(&flags.exclude, "exclude", nil, "glob of paths to skip (repeatable)")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")

	return cmd
}

func (s *session) runCheck(paths []string, flags *checkFlags) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	opts := runner.Options{
		Paths:          paths,
		WorkingDir:     workDir,
		Extensions:     registry.Default.Extensions(s.cfg),
		ExcludeGlobs:   flags.exclude,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           flags.jobs,
	}

	result, err := runner.New(s.checkFile).Run(s.ctx, opts)
	if err != nil {
		return err
	}

	s.logger.Debug("checked files",
		logging.FieldFiles, result.Stats.FilesDiscovered,
		logging.FieldJobs, flags.jobs,
		logging.FieldDiagnostics, result.Stats.DiagnosticsTotal,
	)

	if s.jsonOutput() {
		if err := s.writeCheckJSON(workDir, result); err != nil {
			return err
		}
	} else {
		s.writeCheckText(workDir, result)
	}

	if err := result.Err(); err != nil {
		return err
	}
	if result.HasDiagnostics() {
		return ErrDiagnosticsFound
	}
	return nil
}

// checkFile parses one file for the runner.
func (s *session) checkFile(ctx context.Context, path string) (*runner.FileResult, error) {
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	doc, err := s.openDocument(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := doc.frontend.Parse(doc.src)
	if !out.OK() {
		return nil, fmt.Errorf("parse %s: %w", path, out.Err)
	}

	nodes, _ := countElements(out.Value)
	logger.Debug("checked file",
		logging.FieldLanguage, doc.language,
		logging.FieldNodes, nodes,
		logging.FieldDiagnostics, len(out.Diagnostics),
	)
	return &runner.FileResult{
		Language:    doc.language,
		Source:      doc.src,
		Nodes:       nodes,
		Diagnostics: out.Diagnostics,
	}, nil
}

func (s *session) writeCheckText(workDir string, result *runner.Result) {
	for _, f := range result.Files {
		path := displayPath(workDir, f.Path)
		if f.Error != nil {
			fmt.Fprintf(s.out, "%s: %s\n", s.styles.FilePath.Render(path), s.styles.Error.Render(f.Error.Error()))
			continue
		}
		if len(f.Result.Diagnostics) == 0 {
			continue
		}
		s.writeDiagnostics(&document{path: path, src: f.Result.Source}, f.Result.Diagnostics)
		fmt.Fprintln(s.out)
	}

	stats := result.Stats
	parts := []string{fmt.Sprintf("checked %s", plural(stats.FilesProcessed, "file"))}
	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.styles.Success.Render("no diagnostics"))
	} else {
		parts = append(parts, s.styles.Failure.Render(fmt.Sprintf("%s in %s",
			plural(stats.DiagnosticsTotal, "diagnostic"), plural(stats.FilesWithDiagnostics, "file"))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.styles.Error.Render(fmt.Sprintf("%s failed", plural(stats.FilesErrored, "file"))))
	}
	fmt.Fprintln(s.out, strings.Join(parts, ", "))
}

func (s *session) writeCheckJSON(workDir string, result *runner.Result) error {
	report, err := sjson.SetRaw(`{}`, "files", `[]`)
	if err != nil {
		return err
	}

	for _, f := range result.Files {
		item, err := sjson.Set(`{}`, "file", displayPath(workDir, f.Path))
		if err != nil {
			return err
		}
		if f.Error != nil {
			if item, err = sjson.Set(item, "error", f.Error.Error()); err != nil {
				return err
			}
		} else {
			if item, err = sjson.Set(item, "language", f.Result.Language); err != nil {
				return err
			}
			raw, err := diagnosticsJSON(f.Result.Source, f.Result.Diagnostics)
			if err != nil {
				return fmt.Errorf("encode diagnostics: %w", err)
			}
			if item, err = sjson.SetRaw(item, "diagnostics", raw); err != nil {
				return err
			}
		}
		if report, err = sjson.SetRaw(report, "files.-1", item); err != nil {
			return err
		}
	}

	stats := result.Stats
	fields := []struct {
		path  string
		value any
	}{
		{"stats.files", stats.FilesDiscovered},
		{"stats.processed", stats.FilesProcessed},
		{"stats.errored", stats.FilesErrored},
		{"stats.with_diagnostics", stats.FilesWithDiagnostics},
		{"stats.diagnostics", stats.DiagnosticsTotal},
		{"stats.by_kind", stats.DiagnosticsByKind},
	}
	for _, f := range fields {
		if report, err = sjson.Set(report, f.path, f.value); err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
	}

	_, err = fmt.Fprintln(s.out, report)
	return err
}

// displayPath shortens path relative to workDir unless that needs more than
// two parent traversals.
func displayPath(workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.Count(rel, "..") > 2 {
		return path
	}
	return filepath.ToSlash(rel)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
