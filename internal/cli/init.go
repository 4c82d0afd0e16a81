package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/oak/internal/configloader"
	"github.com/yaklabco/oak/internal/logging"
	"github.com/yaklabco/oak/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new oak configuration file",
		Long: `Create a new .oak.yml configuration file in the current directory
with sensible defaults. The file documents the incremental parsing, arena
and source settings and can be customized per project.

Examples:
  oak init                      Create minimal .oak.yml
  oak init --full               Also list every registered language
  oak init --format json        Create .oak.json instead
  oak init --output custom.yml  Write to a custom file path`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), cmd.ErrOrStderr(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all languages documented")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .oak.yml or .oak.json)")

	return cmd
}

func runInit(ctx context.Context, errOut io.Writer, flags *initFlags) error {
	logger := logging.NewWithWriter(errOut, "info")

	if flags.format != "yaml" && flags.format != "json" {
		return usageError(fmt.Errorf("invalid format %q: must be yaml or json", flags.format))
	}

	outputPath := flags.output
	if outputPath == "" {
		if flags.format == "json" {
			outputPath = ".oak.json"
		} else {
			outputPath = ".oak.yml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(ctx, absPath, content, flags.force); err != nil {
		return usageError(err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'oak config show' to see the resolved configuration")

	return nil
}
