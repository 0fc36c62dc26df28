package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnet/internal/resnet"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	spec, err := cfg.NetworkSpec()
	require.NoError(t, err)
	assert.Equal(t, resnet.NewSpec(), spec)

	// Fresh value each call.
	cfg.Repetitions[0] = 42
	assert.Equal(t, []int{3, 4, 6, 3}, Default().Repetitions)
}

func TestParse_Overlay(t *testing.T) {
	cfg, err := Parse([]byte(`
stem: standard
repetitions: [2, 2]
seed: 7
display:
  channel: 5
  timeout: 250ms
summary: json
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 224, cfg.Input.Height, "unset keys keep defaults")
	assert.Equal(t, 112, cfg.Display.Columns)
	assert.Equal(t, 5, cfg.Display.Channel)
	assert.Equal(t, 250*time.Millisecond, cfg.Display.Timeout)
	assert.Equal(t, SummaryJSON, cfg.Summary)

	spec, err := cfg.NetworkSpec()
	require.NoError(t, err)
	assert.Equal(t, resnet.StemStandard, spec.Stem)
	assert.Equal(t, []int{2, 2}, spec.Repetitions())
	assert.Equal(t, int64(7), spec.Seed)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("repetition: [1]\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: {channels: 3, height: 64, width: 48}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Input{Channels: 3, Height: 64, Width: 48}, cfg.Input)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		config bool // wraps resnet.ErrConfiguration
	}{
		{"zero repetition", func(c *Config) { c.Repetitions = []int{3, 0} }, true},
		{"no repetitions", func(c *Config) { c.Repetitions = nil }, true},
		{"bad block", func(c *Config) { c.Block = "basic" }, true},
		{"bad stem", func(c *Config) { c.Stem = "deep" }, true},
		{"zero width", func(c *Config) { c.Input.Width = 0 }, true},
		{"negative channel", func(c *Config) { c.Display.Channel = -1 }, false},
		{"negative columns", func(c *Config) { c.Display.Columns = -1 }, false},
		{"bad summary", func(c *Config) { c.Summary = "xml" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.config {
				assert.ErrorIs(t, err, resnet.ErrConfiguration)
			}
		})
	}
}
