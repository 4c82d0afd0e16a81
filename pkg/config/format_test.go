package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/oak/pkg/config"
)

func TestFormatValidity(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"text format", config.FormatText.IsValid(), true},
		{"json format", config.FormatJSON.IsValid(), true},
		{"unknown format", config.OutputFormat("sarif").IsValid(), false},
		{"auto color", config.ColorAuto.IsValid(), true},
		{"never color", config.ColorNever.IsValid(), true},
		{"empty color", config.ColorMode("").IsValid(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigAccessors(t *testing.T) {
	cfg := config.NewConfig()
	assert.True(t, cfg.IncrementalEnabled())
	assert.True(t, cfg.NodeReuseEnabled())
	assert.Equal(t, 2, cfg.ResyncOptions().ResyncTokens)
	assert.Equal(t, 8, cfg.ResyncOptions().MaxResyncAttempts)

	off := false
	cfg.Incremental.Enabled = &off
	cfg.Incremental.ResyncTokens = 0
	cfg.Incremental.MaxResyncAttempts = 3
	assert.False(t, cfg.IncrementalEnabled())
	assert.Equal(t, 2, cfg.ResyncOptions().ResyncTokens)
	assert.Equal(t, 3, cfg.ResyncOptions().MaxResyncAttempts)

	assert.Len(t, cfg.SourceOptions("a.mini"), 2)
	cfg.Source.ChunkSize = 0
	assert.Len(t, cfg.SourceOptions("a.mini"), 1)
}
