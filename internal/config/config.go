// Package config loads caelus settings from caelus.yaml, CAELUS_* environment
// variables and command line overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"caelus/pkg/measure"
)

// EnvPrefix is prepended to every environment override, so
// CAELUS_WINDOW_WIDTH sets window.width.
const EnvPrefix = "CAELUS"

// Config holds the whole application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Window WindowConfig `mapstructure:"window" yaml:"window"`
	Text   TextConfig   `mapstructure:"text" yaml:"text"`
	Layout LayoutConfig `mapstructure:"layout" yaml:"layout"`
	Script ScriptConfig `mapstructure:"script" yaml:"script"`
}

// LoggerConfig configures the zap logger and its rotating file sink.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal colour of each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// WindowConfig is the client area used when laying out without a real
// window (check, layout, render) and the initial size of a shown one.
type WindowConfig struct {
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	Title  string `mapstructure:"title" yaml:"title"`
}

// TextConfig selects fonts and the display resolution.
type TextConfig struct {
	DPI      int    `mapstructure:"dpi" yaml:"dpi"`
	FontsDir string `mapstructure:"fonts_dir" yaml:"fonts_dir"`
	// FontFace and FontSize replace the builtin default font unless the
	// document's window class sets its own.
	FontFace string `mapstructure:"font_face" yaml:"font_face"`
	FontSize string `mapstructure:"font_size" yaml:"font_size"`
}

// LayoutConfig tunes the solver.
type LayoutConfig struct {
	ForceResolve bool `mapstructure:"force_resolve" yaml:"force_resolve"`
	MaxPasses    int  `mapstructure:"max_passes" yaml:"max_passes"`
}

// ScriptConfig bounds event handlers.
type ScriptConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "caelus")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Window --
	v.SetDefault("window.width", 640)
	v.SetDefault("window.height", 480)
	v.SetDefault("window.title", "caelus")

	// -- Text --
	v.SetDefault("text.dpi", 96)
	v.SetDefault("text.fonts_dir", "")
	v.SetDefault("text.font_face", "")
	v.SetDefault("text.font_size", "")

	// -- Layout --
	v.SetDefault("layout.force_resolve", false)
	v.SetDefault("layout.max_passes", 0)

	// -- Script --
	v.SetDefault("script.timeout", "2s")
}

// NewDefaultConfig returns the configuration with nothing but defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads path (or caelus.yaml in the working directory and
// $HOME/.config/caelus when path is empty), applies CAELUS_* environment
// overrides and validates the result. A missing default file is not an
// error; a missing explicit one is.
func Load(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("caelus")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/caelus")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := NewConfigFromViper(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// NewConfigFromViper decodes and validates the settings held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// expandPaths resolves a leading ~ in file system settings.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Text.FontsDir, &c.Logger.LogFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window.width and window.height must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Text.DPI <= 0 {
		return fmt.Errorf("text.dpi must be a positive integer")
	}
	if c.Text.FontSize != "" {
		if _, err := measure.Parse(c.Text.FontSize); err != nil {
			return fmt.Errorf("text.font_size: %w", err)
		}
	}
	if c.Layout.MaxPasses < 0 {
		return fmt.Errorf("layout.max_passes must not be negative")
	}
	if c.Script.Timeout < 0 {
		return fmt.Errorf("script.timeout must not be negative")
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	return nil
}
