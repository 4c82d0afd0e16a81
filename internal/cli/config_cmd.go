package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/oak/internal/configloader"
)

func newConfigCommand(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the configuration oak resolves from defaults, system, user and
project files, OAK_* environment variables and command-line flags.`,
	}

	cmd.AddCommand(newConfigShowCommand(global))
	cmd.AddCommand(newConfigPathsCommand(global))

	return cmd
}

func newConfigShowCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd, global)
			if err != nil {
				return err
			}

			content, err := sess.cfg.ToYAML()
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = sess.out.Write(content)
			return err
		},
	}
}

func newConfigPathsCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the configuration files oak would load",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}

			paths, err := configloader.DiscoverPaths(ctx, workDir)
			if err != nil {
				return &ConfigError{Err: err}
			}

			out := cmd.OutOrStdout()
			rows := []struct{ name, path string }{
				{"system", paths.System},
				{"user", paths.User},
				{"project", paths.Project},
				{"explicit", global.configPath},
			}
			for _, row := range rows {
				path := row.path
				if path == "" {
					path = "-"
				}
				fmt.Fprintf(out, "%-9s %s\n", row.name, path)
			}
			fmt.Fprintf(out, "%-9s %s\n", "user dir", configloader.UserConfigDir())
			return nil
		},
	}
}
