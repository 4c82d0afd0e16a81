package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/oak/pkg/registry"
)

const formatJSON = "json"

// languageInfo represents a language in JSON output.
type languageInfo struct {
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases,omitempty"`
	Extensions []string `json:"extensions"`
}

func newLanguagesCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List registered languages",
		Long:  `List the languages oak can lex and parse, with their aliases and file extensions.`,
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := registry.Default.Entries()
			out := cmd.OutOrStdout()

			if global.format == formatJSON {
				infos := make([]languageInfo, len(entries))
				for i, e := range entries {
					infos[i] = languageInfo{Name: e.Name, Aliases: e.Aliases, Extensions: e.Extensions}
				}
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(infos); err != nil {
					return fmt.Errorf("encode languages: %w", err)
				}
				return nil
			}

			for _, e := range entries {
				line := fmt.Sprintf("%-8s %s", e.Name, strings.Join(e.Extensions, " "))
				if len(e.Aliases) > 0 {
					line += "  (aliases: " + strings.Join(e.Aliases, ", ") + ")"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
