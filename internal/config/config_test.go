package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/json2video/internal/validator"
)

func TestLoad(t *testing.T) {
	t.Run("Should return defaults without sources", func(t *testing.T) {
		cfg, err := Load("", nil)
		require.NoError(t, err)

		want := Default()
		assert.Equal(t, &want, cfg)
	})

	t.Run("Should read a YAML config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "json2video.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
workers: 2
validation:
  level: Semantic
  strict: false
probe:
  timeout: 3s
`), 0o644))

		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, "semantic", cfg.Validation.Level)
		assert.False(t, cfg.Validation.Strict)
		assert.True(t, cfg.Validation.IncludeWarnings)
		assert.Equal(t, 3*time.Second, cfg.Probe.Timeout)
	})

	t.Run("Should read environment variables", func(t *testing.T) {
		t.Setenv("JSON2VIDEO_LOG_LEVEL", "debug")
		t.Setenv("JSON2VIDEO_VALIDATION_INCLUDE_WARNINGS", "false")

		cfg, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.False(t, cfg.Validation.IncludeWarnings)
	})

	t.Run("Should apply bound overrides", func(t *testing.T) {
		cfg, err := Load("", func(v *viper.Viper) error {
			v.Set("params_dir", "custom/params")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "custom/params", cfg.ParamsDir)
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("validation:\n  level: deep\n"), 0o644))

		_, err := Load(path, nil)
		assert.ErrorContains(t, err, "invalid config")

		_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		assert.Error(t, err)
	})
}

func TestValidationConfig_Options(t *testing.T) {
	opts, err := ValidationConfig{Level: "structural", Strict: false, IncludeWarnings: true}.Options()
	require.NoError(t, err)

	assert.Equal(t, validator.LevelStructural, opts.Level)
	assert.False(t, *opts.StrictMode)
	assert.True(t, *opts.IncludeWarnings)
	assert.False(t, *opts.ValidateElements)

	_, err = ValidationConfig{Level: "nope"}.Options()
	assert.Error(t, err)
}
