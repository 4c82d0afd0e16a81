// Package cli provides the Cobra command structure for oak.
package cli

import (
	"cmp"
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/oak/internal/ui/pretty"
)

// helpStyles colors the parts of help output.
type helpStyles struct {
	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{heading: plain, command: plain, flag: plain, dim: plain}
	}
	return helpStyles{
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help and usage. The color mode is resolved
// per invocation so --color and NO_COLOR apply.
type HelpFormatter struct {
	defaultMode string
}

// NewHelpFormatter creates a help formatter that falls back to defaultMode
// when --color is not set.
func NewHelpFormatter(defaultMode string) *HelpFormatter {
	return &HelpFormatter{defaultMode: cmp.Or(defaultMode, "auto")}
}

// ApplyToCommand installs the help and usage functions on cmd. Subcommands
// inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.render(command, usageTemplate)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.render(command, helpTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) render(command *cobra.Command, text string) error {
	mode := h.defaultMode
	if flag := command.Flags().Lookup("color"); flag != nil && flag.Value.String() != "" {
		mode = flag.Value.String()
	}
	styles := newHelpStyles(pretty.IsColorEnabled(mode, command.OutOrStdout()))

	tmpl, err := template.New("help").Funcs(template.FuncMap{
		"heading": styles.heading.Render,
		"command": styles.command.Render,
		"dim":     styles.dim.Render,
		"flags":   func(usages string) string { return styleFlags(styles, usages) },
		"join":    strings.Join,
		"rpad":    func(s string, n int) string { return fmt.Sprintf("%-*s", n, s) },
		"trim":    func(s string) string { return strings.TrimRight(s, " \t\n") },
	}).Parse(text)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	return tmpl.Execute(command.OutOrStdout(), command)
}

const usageTemplate = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ command .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ command .CommandPath }} [command]{{end}}
{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ command (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}` + usageTemplate

// styleFlags colors the flag names and value types in pflag usage output.
// Lines look like "  -f, --flag type   description".
func styleFlags(styles helpStyles, usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " ")
		gap := strings.Index(body, "  ")
		if body == "" || gap < 0 {
			continue
		}
		indent := line[:len(line)-len(body)]
		desc := strings.TrimLeft(body[gap:], " ")

		fields := strings.Fields(body[:gap])
		for j, field := range fields {
			if name, ok := strings.CutSuffix(field, ","); ok {
				fields[j] = styles.flag.Render(name) + ","
			} else if strings.HasPrefix(field, "-") {
				fields[j] = styles.flag.Render(field)
			} else {
				fields[j] = styles.dim.Render(field)
			}
		}
		lines[i] = indent + strings.Join(fields, " ") + "   " + desc
	}
	return strings.Join(lines, "\n")
}
