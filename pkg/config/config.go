// Package config defines core configuration types for oak.
// These types are pure data structures; discovery, environment overrides and
// merging live in internal/configloader.
package config

import (
	"github.com/yaklabco/oak/pkg/incremental"
	"github.com/yaklabco/oak/pkg/text"
)

// IncrementalConfig controls reuse between successive parses of a document.
type IncrementalConfig struct {
	// Enabled turns incremental relexing on. Nil means enabled.
	Enabled *bool `yaml:"enabled,omitempty"`

	// NodeReuse lets the parser take unchanged subtrees from the previous
	// tree. Nil means enabled.
	NodeReuse *bool `yaml:"node_reuse,omitempty"`

	// ResyncTokens is how many consecutive matching tokens prove the relexer
	// has rejoined the old stream.
	ResyncTokens int `yaml:"resync_tokens"`

	// MaxResyncAttempts bounds how many old-suffix tokens may be checked
	// before the relexer gives up and lexes to the end.
	MaxResyncAttempts int `yaml:"max_resync_attempts"`
}

// ArenaConfig sizes syntax arenas.
type ArenaConfig struct {
	// CapacityHint is the expected node count of a fresh arena (0 = derive
	// from the token count).
	CapacityHint int `yaml:"capacity_hint"`
}

// SourceConfig controls how sources are stored.
type SourceConfig struct {
	// ChunkSize is the target size in bytes of one source chunk.
	ChunkSize int `yaml:"chunk_size"`
}

// LanguageConfig customizes a registered language.
type LanguageConfig struct {
	// Extensions are extra file extensions mapped to the language.
	Extensions []string `yaml:"extensions,omitempty"`
}

// Config is the root configuration structure for oak.
type Config struct {
	Incremental IncrementalConfig `yaml:"incremental"`
	Arena       ArenaConfig       `yaml:"arena"`
	Source      SourceConfig      `yaml:"source"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Color controls styled output: auto, always or never.
	Color ColorMode `yaml:"color"`

	// Languages holds per-language settings keyed by language name.
	Languages map[string]LanguageConfig `yaml:"languages,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format selects the output format.
	Format OutputFormat `yaml:"-"`

	// Language forces a language instead of detecting one.
	Language string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Incremental: IncrementalConfig{
			ResyncTokens:      incremental.DefaultResyncTokens,
			MaxResyncAttempts: incremental.DefaultMaxResyncAttempts,
		},
		Source: SourceConfig{
			ChunkSize: text.DefaultChunkSize,
		},
		LogLevel:  "warn",
		Color:     ColorAuto,
		Languages: make(map[string]LanguageConfig),
		Format:    FormatText,
	}
}

// IncrementalEnabled reports whether incremental relexing is on.
func (c *Config) IncrementalEnabled() bool {
	return c.Incremental.Enabled == nil || *c.Incremental.Enabled
}

// NodeReuseEnabled reports whether parser node reuse is on.
func (c *Config) NodeReuseEnabled() bool {
	return c.Incremental.NodeReuse == nil || *c.Incremental.NodeReuse
}

// ResyncOptions returns the relexer settings, falling back to the defaults
// for unset values.
func (c *Config) ResyncOptions() incremental.ResyncOptions {
	opts := incremental.DefaultResyncOptions()
	if c.Incremental.ResyncTokens > 0 {
		opts.ResyncTokens = c.Incremental.ResyncTokens
	}
	if c.Incremental.MaxResyncAttempts > 0 {
		opts.MaxResyncAttempts = c.Incremental.MaxResyncAttempts
	}
	return opts
}

// SourceOptions returns the options for building sources.
func (c *Config) SourceOptions(uri string) []text.SourceOption {
	opts := []text.SourceOption{text.WithURI(uri)}
	if c.Source.ChunkSize > 0 {
		opts = append(opts, text.WithChunkSize(c.Source.ChunkSize))
	}
	return opts
}
