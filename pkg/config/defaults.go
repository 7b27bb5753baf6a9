package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Drawing default values.
const (
	DefaultNodeRadius    = 20.0
	DefaultNodeLineWidth = 2.0
	DefaultLineWidth     = 1.5
	DefaultLevelGap      = 70.0
	DefaultSiblingGap    = 50.0
	DefaultMargin        = 30.0
	DefaultFontSize      = 14.0
)

// DefaultStyles colors the nodes by their class.
const DefaultStyles = `.point circle { stroke: #000; }
.point.red circle { fill: #d62728; }
.point.black circle { fill: #222; }
.pointIndex { fill: #fff; font-family: sans-serif; }
.edge { stroke: #555; }`

// Logging formats and defaults.
const (
	FormatJSON = "json"
	FormatText = "text"

	DefaultLogLevel  = "warn"
	DefaultLogFormat = FormatText
	DefaultLogOutput = "stderr"
)

// DefaultHibernationThreshold is the arena size below which hibernation does nothing.
const DefaultHibernationThreshold = 1000

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Drawing: DrawingConfig{
			Styles:        DefaultStyles,
			NodeRadius:    DefaultNodeRadius,
			NodeLineWidth: DefaultNodeLineWidth,
			LineWidth:     DefaultLineWidth,
			LevelGap:      DefaultLevelGap,
			SiblingGap:    DefaultSiblingGap,
			Margin:        DefaultMargin,
			FontSize:      DefaultFontSize,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
		Arena: ArenaConfig{
			HibernationThreshold: DefaultHibernationThreshold,
		},
	}
}

// WriteYAML writes the configuration as a YAML document LoadConfig can read back.
func (config *Config) WriteYAML(writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)

	err := encoder.Encode(config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("close config encoder: %w", err)
	}

	return nil
}
