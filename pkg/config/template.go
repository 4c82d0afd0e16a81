package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every registered language with its extensions.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// LanguageInfo describes a registered language for template generation.
type LanguageInfo struct {
	Name       string
	Aliases    []string
	Extensions []string
}

// LanguageInfoProvider returns the registered languages.
// This allows decoupling from the registry package to avoid circular imports.
type LanguageInfoProvider func() []LanguageInfo

// DefaultLanguageInfoProvider is set by the registry package during init.
//
//nolint:gochecknoglobals // Intentional extension point for language info.
var DefaultLanguageInfoProvider LanguageInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

incremental:
  # Relex only the edited window and splice it into the old token stream.
  # enabled: true
  # Reuse unchanged statements from the previous tree.
  # node_reuse: true
  # Consecutive matching tokens needed to rejoin the old stream.
  resync_tokens: 2
  # Old tokens checked before giving up and lexing to the end of input.
  max_resync_attempts: 8

arena:
  # Expected node count of a fresh arena (0 = derive from token count).
  capacity_hint: 0

source:
  # Target chunk size in bytes.
  chunk_size: 4096

# Log level: debug, info, warn, or error
log_level: warn

# Styled output: auto, always, or never
color: auto
`)

	if !opts.Full {
		buf.WriteString(`
# Extra file extensions per language
# languages:
#   mini:
#     extensions: [".mn"]
`)
		return buf.Bytes(), nil
	}

	langs := getLanguageInfos()
	sort.Slice(langs, func(i, j int) bool {
		return langs[i].Name < langs[j].Name
	})

	buf.WriteString("\n# Extra file extensions per language\nlanguages:\n")
	for _, lang := range langs {
		fmt.Fprintf(&buf, "\n  # %s", lang.Name)
		if len(lang.Aliases) > 0 {
			fmt.Fprintf(&buf, " (aliases: %s)", strings.Join(lang.Aliases, ", "))
		}
		buf.WriteByte('\n')
		if len(lang.Extensions) > 0 {
			fmt.Fprintf(&buf, "  # Built in: %s\n", strings.Join(lang.Extensions, ", "))
		}
		fmt.Fprintf(&buf, "  %s:\n", lang.Name)
		buf.WriteString("    extensions: []\n")
	}

	return buf.Bytes(), nil
}

// getLanguageInfos returns information about all registered languages.
func getLanguageInfos() []LanguageInfo {
	if DefaultLanguageInfoProvider != nil {
		return DefaultLanguageInfoProvider()
	}
	return nil
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	doc := map[string]any{
		"incremental": map[string]any{
			"enabled":             cfg.IncrementalEnabled(),
			"node_reuse":          cfg.NodeReuseEnabled(),
			"resync_tokens":       cfg.Incremental.ResyncTokens,
			"max_resync_attempts": cfg.Incremental.MaxResyncAttempts,
		},
		"arena":     map[string]any{"capacity_hint": cfg.Arena.CapacityHint},
		"source":    map[string]any{"chunk_size": cfg.Source.ChunkSize},
		"log_level": cfg.LogLevel,
		"color":     string(cfg.Color),
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# oak configuration
# See: https://github.com/yaklabco/oak`
}
