package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnet/internal/config"
	"github.com/born-ml/resnet/internal/resnet"
)

func parse(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o := registerFlags(fs)
	require.NoError(t, fs.Parse(args))
	return o.resolve(fs)
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestResolve_Flags(t *testing.T) {
	cfg, err := parse(t, "-input", "3, 64, 32", "-repetitions", "2,2", "-stem", "standard", "-channel", "9", "-summary", "json")
	require.NoError(t, err)

	assert.Equal(t, config.Input{Channels: 3, Height: 64, Width: 32}, cfg.Input)
	assert.Equal(t, []int{2, 2}, cfg.Repetitions)
	assert.Equal(t, "standard", cfg.Stem)
	assert.Equal(t, 9, cfg.Display.Channel)
	assert.Equal(t, config.SummaryJSON, cfg.Summary)
}

func TestResolve_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 3\nrepetitions: [1, 1, 1]\n"), 0o600))

	cfg, err := parse(t, "-config", path, "-seed", "5")
	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.Seed)
	assert.Equal(t, []int{1, 1, 1}, cfg.Repetitions)
}

func TestResolve_Errors(t *testing.T) {
	_, err := parse(t, "-input", "3,224")
	assert.Error(t, err)

	_, err = parse(t, "-repetitions", "3,x")
	assert.Error(t, err)

	_, err = parse(t, "-repetitions", "0")
	assert.ErrorIs(t, err, resnet.ErrConfiguration)
}

func TestParseInts(t *testing.T) {
	got, err := parseInts("3,4,6,3")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 6, 3}, got)
	assert.Equal(t, "3,4,6,3", formatInts(got...))
}
