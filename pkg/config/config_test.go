package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormlabel/stormlabel/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stormlabel.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err, "explicit missing path must fail")
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetCode(err))
	assert.Zero(t, cfg)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesPartially(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[metrics]
char_width = 0.5

[resolver]
max_retries = 9

[cluster]
eps = 1.2

[render]
format = "svg"
`))
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Metrics.CharWidth)
	assert.Equal(t, 9, cfg.Resolver.MaxRetries)
	assert.Equal(t, 1.2, cfg.Cluster.Eps)
	assert.Equal(t, "svg", cfg.Render.Format)

	// Untouched fields keep defaults.
	def := Default()
	assert.Equal(t, def.Metrics.LineHeight, cfg.Metrics.LineHeight)
	assert.Equal(t, def.Resolver.Step, cfg.Resolver.Step)
	assert.Equal(t, def.Heuristic, cfg.Heuristic)
	assert.Equal(t, def.Render.WidthInches, cfg.Render.WidthInches)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{name: "negative char width", toml: "[metrics]\nchar_width = -1.0\n"},
		{name: "negative retries", toml: "[resolver]\nmax_retries = -2\n"},
		{name: "bad region mode", toml: "[resolver]\nregion_mode = \"blob\"\n"},
		{name: "negative eps", toml: "[cluster]\neps = -0.5\n"},
		{name: "unknown format", toml: "[render]\nformat = \"bmp\"\n"},
		{name: "zero canvas", toml: "[render]\nwidth_inches = 0.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.toml))
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(err))
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[metrics\nchar_width ="))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
}

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestPlaceOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.PlaceOptions()
	assert.Equal(t, cfg.Metrics, opts.Metrics)
	assert.Equal(t, cfg.Heuristic, opts.Heuristic)
	assert.Equal(t, cfg.Resolver, opts.Resolver)
	assert.Nil(t, opts.Logger)
}
