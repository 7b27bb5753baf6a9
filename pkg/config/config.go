// Package config provides configuration loading and validation for rbset.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidRadius    = errors.New("node radius must be positive")
	ErrInvalidLineWidth = errors.New("line widths must not be negative")
	ErrInvalidGap       = errors.New("level and sibling gaps must exceed the node diameter")
	ErrInvalidMargin    = errors.New("margin must not be negative")
	ErrInvalidFontSize  = errors.New("font size must be positive")
	ErrInvalidLogLevel  = errors.New("unknown log level")
	ErrInvalidLogFormat = errors.New("unknown log format")
	ErrInvalidThreshold = errors.New("hibernation threshold must not be negative")
)

// EnvPrefix prefixes the environment variables overriding the configuration, e.g. RBSET_DRAWING_NODE_RADIUS.
const EnvPrefix = "RBSET"

// Config holds all configuration for rbset.
type Config struct {
	Drawing DrawingConfig `mapstructure:"drawing" yaml:"drawing"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Arena   ArenaConfig   `mapstructure:"arena"   yaml:"arena"`
}

// DrawingConfig holds the tree drawing parameters.
type DrawingConfig struct {
	// Styles is the CSS put into the SVG <style> element.
	Styles        string  `mapstructure:"styles"          yaml:"styles"`
	NodeRadius    float64 `mapstructure:"node_radius"     yaml:"node_radius"`
	NodeLineWidth float64 `mapstructure:"node_line_width" yaml:"node_line_width"`
	LineWidth     float64 `mapstructure:"line_width"      yaml:"line_width"`
	LevelGap      float64 `mapstructure:"level_gap"       yaml:"level_gap"`
	SiblingGap    float64 `mapstructure:"sibling_gap"     yaml:"sibling_gap"`
	Margin        float64 `mapstructure:"margin"          yaml:"margin"`
	FontSize      float64 `mapstructure:"font_size"       yaml:"font_size"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// ArenaConfig holds the node arena settings.
type ArenaConfig struct {
	// HibernationThreshold is the arena size below which hibernation is skipped.
	HibernationThreshold int `mapstructure:"hibernation_threshold" yaml:"hibernation_threshold"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	// Set defaults.
	setDefaults(viperCfg)

	// Read config file.
	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".rbset")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME")
	}

	// Read environment variables.
	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	defaults := Default()

	// Drawing defaults.
	viperCfg.SetDefault("drawing.node_radius", defaults.Drawing.NodeRadius)
	viperCfg.SetDefault("drawing.node_line_width", defaults.Drawing.NodeLineWidth)
	viperCfg.SetDefault("drawing.line_width", defaults.Drawing.LineWidth)
	viperCfg.SetDefault("drawing.level_gap", defaults.Drawing.LevelGap)
	viperCfg.SetDefault("drawing.sibling_gap", defaults.Drawing.SiblingGap)
	viperCfg.SetDefault("drawing.margin", defaults.Drawing.Margin)
	viperCfg.SetDefault("drawing.font_size", defaults.Drawing.FontSize)
	viperCfg.SetDefault("drawing.styles", defaults.Drawing.Styles)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", defaults.Logging.Level)
	viperCfg.SetDefault("logging.format", defaults.Logging.Format)
	viperCfg.SetDefault("logging.output", defaults.Logging.Output)

	// Arena defaults.
	viperCfg.SetDefault("arena.hibernation_threshold", defaults.Arena.HibernationThreshold)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	drawing := config.Drawing

	if drawing.NodeRadius <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidRadius, drawing.NodeRadius)
	}

	if drawing.NodeLineWidth < 0 || drawing.LineWidth < 0 {
		return fmt.Errorf("%w: %g, %g", ErrInvalidLineWidth, drawing.NodeLineWidth, drawing.LineWidth)
	}

	if drawing.LevelGap <= 2*drawing.NodeRadius || drawing.SiblingGap <= 2*drawing.NodeRadius {
		return fmt.Errorf("%w: %g, %g with radius %g",
			ErrInvalidGap, drawing.LevelGap, drawing.SiblingGap, drawing.NodeRadius)
	}

	if drawing.Margin < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidMargin, drawing.Margin)
	}

	if drawing.FontSize <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidFontSize, drawing.FontSize)
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case FormatJSON, FormatText:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Arena.HibernationThreshold < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, config.Arena.HibernationThreshold)
	}

	return nil
}
