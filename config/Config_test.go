package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"MHCONV_CONFIG",
		"MHCONV_LOG_LEVEL",
		"MHCONV_LOG_FORMAT",
		"MHCONV_OUTPUT_DEFAULT_FORMAT",
		"MHCONV_OUTPUT_OVERWRITE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("MHCONV_LOG_LEVEL", "debug")
	t.Setenv("MHCONV_OUTPUT_DEFAULT_FORMAT", "delimited")
	t.Setenv("MHCONV_OUTPUT_OVERWRITE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "delimited", cfg.Output.DefaultFormat)
	assert.True(t, cfg.Output.OverwriteEnabled())
}

func TestLoad_FileUnderEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "mhconv.yaml")
	content := "log:\n  level: warn\n  format: json\noutput:\n  default_format: csv\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("MHCONV_CONFIG", path)
	t.Setenv("MHCONV_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "csv", cfg.Output.DefaultFormat)
	assert.False(t, cfg.Output.OverwriteEnabled())
}

func TestLoad_EnvFalseOverridesFileTrue(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "mhconv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  overwrite: true\n"), 0644))
	t.Setenv("MHCONV_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Output.OverwriteEnabled(), "file value applies when env is unset")

	t.Setenv("MHCONV_OUTPUT_OVERWRITE", "false")
	cfg, err = Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.Output.Overwrite)
	assert.False(t, cfg.Output.OverwriteEnabled(), "env wins over the file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"level", "MHCONV_LOG_LEVEL", "loud"},
		{"format", "MHCONV_LOG_FORMAT", "xml"},
		{"output format", "MHCONV_OUTPUT_DEFAULT_FORMAT", "pdf"},
		{"overwrite", "MHCONV_OUTPUT_OVERWRITE", "perhaps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MHCONV_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
