// Package cli provides the Cobra command structure for oak.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root oak command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	global := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "oak",
		Short: "An incremental lexing and parsing toolkit",
		Long: `oak lexes and parses source files into lossless syntax trees and
reparses them incrementally after edits, reusing unchanged tokens and
subtrees.

Languages are picked by --lang, configured extensions, file extension,
shebang, or content detection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&global.configPath, "config", "", "path to config file")
	flags.StringVarP(&global.language, "lang", "l", "", "language to use instead of detecting one")
	flags.StringVar(&global.format, "format", "", "output format: text, json")
	flags.StringVar(&global.color, "color", "", "colorize output: auto, always, never")
	flags.StringVar(&global.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&global.debug, "debug", false, "enable debug logging")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newLexCommand(global))
	rootCmd.AddCommand(newParseCommand(global))
	rootCmd.AddCommand(newEditCommand(global))
	rootCmd.AddCommand(newCheckCommand(global))
	rootCmd.AddCommand(newLanguagesCommand(global))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand(global))
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter("auto")
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// exactArgs is cobra.ExactArgs with a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError(fmt.Errorf("%s accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args)))
		}
		return nil
	}
}
