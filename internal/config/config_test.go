package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(viper.New(), t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), withNilExclude(cfg))
}

func TestLoadFromDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "apigen.yaml", `include_builtins: true
include_deprecated: false
include_internal: true
main: Acme
exclude:
  - tests/
`)

	cfg, err := Load(viper.New(), dir, "")
	require.NoError(t, err)
	assert.True(t, cfg.IncludeBuiltins)
	assert.False(t, cfg.IncludeDeprecated)
	assert.True(t, cfg.IncludeInternal)
	assert.Equal(t, "Acme", cfg.Main)
	assert.Equal(t, DefaultMaxFileSize, cfg.MaxFileSize)
	assert.Equal(t, []string{"tests/"}, cfg.Exclude)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	t.Parallel()

	_, err := Load(viper.New(), t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := Config{Main: "Ac me", MaxFileSize: 0, Exclude: []string{"ok", " "}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main:")
	assert.Contains(t, err.Error(), "max_file_size:")
	assert.Contains(t, err.Error(), "exclude[1]:")
}

func TestValidateDefault(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "apigen.yaml")

	require.NoError(t, WriteDefault(path, false))
	require.Error(t, WriteDefault(path, false))
	require.NoError(t, WriteDefault(path, true))

	cfg, err := Load(viper.New(), dir, path)
	require.NoError(t, err)
	assert.True(t, cfg.IncludeDeprecated)
	assert.Equal(t, DefaultMaxFileSize, cfg.MaxFileSize)
}

func withNilExclude(c Config) Config {
	if len(c.Exclude) == 0 {
		c.Exclude = nil
	}
	return c
}
