package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/oak/pkg/config"
)

// envVarPrefix is the prefix for all oak environment variables.
const envVarPrefix = "OAK_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"INCREMENTAL_ENABLED": {field: "incremental.enabled", typ: envTypeBool},
	"NODE_REUSE":          {field: "incremental.node_reuse", typ: envTypeBool},
	"RESYNC_TOKENS":       {field: "incremental.resync_tokens", typ: envTypeInt},
	"MAX_RESYNC_ATTEMPTS": {field: "incremental.max_resync_attempts", typ: envTypeInt},
	"ARENA_CAPACITY_HINT": {field: "arena.capacity_hint", typ: envTypeInt},
	"SOURCE_CHUNK_SIZE":   {field: "source.chunk_size", typ: envTypeInt},
	"LOG_LEVEL":           {field: "log_level", typ: envTypeString},
	"COLOR":               {field: "color", typ: envTypeString},
	"FORMAT":              {field: "format", typ: envTypeString},
	"LANGUAGE":            {field: "language", typ: envTypeString},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with OAK_ (e.g., OAK_LOG_LEVEL).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "log_level":
		cfg.LogLevel = value
	case "color":
		cfg.Color = config.ColorMode(value)
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "language":
		cfg.Language = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "incremental.enabled":
		cfg.Incremental.Enabled = &value
	case "incremental.node_reuse":
		cfg.Incremental.NodeReuse = &value
	default:
		return fmt.Errorf("unknown bool field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "incremental.resync_tokens":
		cfg.Incremental.ResyncTokens = value
	case "incremental.max_resync_attempts":
		cfg.Incremental.MaxResyncAttempts = value
	case "arena.capacity_hint":
		cfg.Arena.CapacityHint = value
	case "source.chunk_size":
		cfg.Source.ChunkSize = value
	default:
		return fmt.Errorf("unknown int field: %s", field)
	}
	return nil
}

// EnvVarNames returns all supported environment variable names.
func EnvVarNames() []string {
	names := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		names = append(names, envVarPrefix+suffix)
	}
	return names
}
