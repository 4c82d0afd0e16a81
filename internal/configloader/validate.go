package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/oak/pkg/config"
	"github.com/yaklabco/oak/pkg/text"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "incremental.resync_tokens").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown languages).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownLogLevels lists valid log_level values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.LogLevel != "" && !knownLogLevels[cfg.LogLevel] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error, fatal", cfg.LogLevel),
		})
	}

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json", cfg.Format),
		})
	}

	validateIncremental(cfg, result)

	if cfg.Arena.CapacityHint < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "arena.capacity_hint",
			Value:   cfg.Arena.CapacityHint,
			Message: "capacity_hint must be >= 0 (0 means no hint)",
		})
	}

	if cfg.Source.ChunkSize != 0 && cfg.Source.ChunkSize < text.MinChunkSize {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "source.chunk_size",
			Value:   cfg.Source.ChunkSize,
			Message: fmt.Sprintf("chunk_size must be >= %d", text.MinChunkSize),
		})
	}

	validateLanguages(cfg, result)

	return result
}

// validateIncremental checks the relexer and reuse settings.
func validateIncremental(cfg *config.Config, result *ValidationResult) {
	if cfg.Incremental.ResyncTokens < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "incremental.resync_tokens",
			Value:   cfg.Incremental.ResyncTokens,
			Message: "resync_tokens must be >= 1",
		})
	}

	if cfg.Incremental.MaxResyncAttempts < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "incremental.max_resync_attempts",
			Value:   cfg.Incremental.MaxResyncAttempts,
			Message: "max_resync_attempts must be >= 0",
		})
	}
}

// validateLanguages checks per-language settings. Unknown languages are
// reported as warnings since another build may register them.
func validateLanguages(cfg *config.Config, result *ValidationResult) {
	validateLanguagesAgainst(cfg, knownLanguages(), result)
}

// validateLanguagesAgainst checks languages against a known-name set; a nil
// set skips the unknown-language check.
func validateLanguagesAgainst(cfg *config.Config, known map[string]bool, result *ValidationResult) {
	for name, lc := range cfg.Languages {
		if known != nil && !known[strings.ToLower(name)] {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "languages." + name,
				Value:   name,
				Message: fmt.Sprintf("unknown language %q; it will be ignored", name),
			})
		}

		for i, ext := range lc.Extensions {
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				result.Errors = append(result.Errors, ValidationError{
					Field:   fmt.Sprintf("languages.%s.extensions[%d]", name, i),
					Value:   ext,
					Message: fmt.Sprintf("invalid extension %q; must start with '.'", ext),
				})
			}
		}
	}
}

// knownLanguages returns the lower-cased names and aliases of registered
// languages, or nil if no registry is installed.
func knownLanguages() map[string]bool {
	if config.DefaultLanguageInfoProvider == nil {
		return nil
	}

	known := make(map[string]bool)
	for _, info := range config.DefaultLanguageInfoProvider() {
		known[strings.ToLower(info.Name)] = true
		for _, alias := range info.Aliases {
			known[strings.ToLower(alias)] = true
		}
	}
	return known
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidLogLevel returns true if the log level string is valid.
func IsValidLogLevel(s string) bool {
	return knownLogLevels[s]
}
