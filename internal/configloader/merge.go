package configloader

import "github.com/yaklabco/oak/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer booleans: override overwrites base if override is non-nil
//   - Maps: deep merge, with override's values taking precedence
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	result.Incremental = mergeIncremental(base.Incremental, override.Incremental)

	if override.Arena.CapacityHint != 0 {
		result.Arena.CapacityHint = override.Arena.CapacityHint
	}
	if override.Source.ChunkSize != 0 {
		result.Source.ChunkSize = override.Source.ChunkSize
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Language != "" {
		result.Language = override.Language
	}

	result.Languages = mergeLanguages(base.Languages, override.Languages)

	return &result
}

// mergeIncremental merges the incremental settings field by field.
func mergeIncremental(base, override config.IncrementalConfig) config.IncrementalConfig {
	result := base

	if override.Enabled != nil {
		v := *override.Enabled
		result.Enabled = &v
	}
	if override.NodeReuse != nil {
		v := *override.NodeReuse
		result.NodeReuse = &v
	}
	if override.ResyncTokens != 0 {
		result.ResyncTokens = override.ResyncTokens
	}
	if override.MaxResyncAttempts != 0 {
		result.MaxResyncAttempts = override.MaxResyncAttempts
	}

	return result
}

// mergeLanguages performs a deep merge of per-language settings.
// A language present in override replaces its extension list wholesale.
func mergeLanguages(base, override map[string]config.LanguageConfig) map[string]config.LanguageConfig {
	result := make(map[string]config.LanguageConfig, len(base)+len(override))

	for name, lc := range base {
		result[name] = config.LanguageConfig{Extensions: append([]string(nil), lc.Extensions...)}
	}

	for name, lc := range override {
		if lc.Extensions == nil {
			if _, ok := result[name]; ok {
				continue
			}
		}
		result[name] = config.LanguageConfig{Extensions: append([]string(nil), lc.Extensions...)}
	}

	return result
}

// MergeAll merges multiple configurations in order.
// Later configurations take precedence over earlier ones.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return config.NewConfig()
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
