package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rbset/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rbset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	configContent := `
drawing:
  node_radius: 10
  level_gap: 40
  sibling_gap: 25
  styles: ".point circle { fill: none; }"
logging:
  level: debug
  format: json
arena:
  hibernation_threshold: 5
`

	cfg, err := config.LoadConfig(writeConfig(t, configContent))
	require.NoError(t, err)

	assert.InDelta(t, 10.0, cfg.Drawing.NodeRadius, 0.001)
	assert.InDelta(t, 40.0, cfg.Drawing.LevelGap, 0.001)
	assert.InDelta(t, 25.0, cfg.Drawing.SiblingGap, 0.001)
	assert.InDelta(t, config.DefaultMargin, cfg.Drawing.Margin, 0.001)
	assert.Equal(t, ".point circle { fill: none; }", cfg.Drawing.Styles)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.FormatJSON, cfg.Logging.Format)
	assert.Equal(t, config.DefaultLogOutput, cfg.Logging.Output)
	assert.Equal(t, 5, cfg.Arena.HibernationThreshold)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"radius", "drawing:\n  node_radius: 0\n", config.ErrInvalidRadius},
		{"line width", "drawing:\n  line_width: -1\n", config.ErrInvalidLineWidth},
		{"gap", "drawing:\n  node_radius: 30\n", config.ErrInvalidGap},
		{"margin", "drawing:\n  margin: -5\n", config.ErrInvalidMargin},
		{"font", "drawing:\n  font_size: 0\n", config.ErrInvalidFontSize},
		{"level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		{"threshold", "arena:\n  hibernation_threshold: -1\n", config.ErrInvalidThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("RBSET_DRAWING_NODE_RADIUS", "12")
	t.Setenv("RBSET_LOGGING_LEVEL", "error")

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.InDelta(t, 12.0, cfg.Drawing.NodeRadius, 0.001)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	original := config.Default()
	original.Drawing.NodeRadius = 15
	original.Logging.Format = config.FormatJSON

	var buf bytes.Buffer
	require.NoError(t, original.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "node_radius: 15")

	loaded, err := config.LoadConfig(writeConfig(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
