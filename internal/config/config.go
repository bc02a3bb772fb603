// Package config loads the settings shared by the command line tools from
// a .vimscript.yaml file, VIMSCRIPT_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/vimlsp/vimscript/format"
	"github.com/vimlsp/vimscript/lint"
	"github.com/vimlsp/vimscript/parser"
)

const (
	// FileName is the name of the config file without its extension.
	FileName = ".vimscript"

	// EnvPrefix prefixes the environment variables overriding settings,
	// e.g. VIMSCRIPT_FORMAT_INDENT.
	EnvPrefix = "VIMSCRIPT"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type FormatConfig struct {
	Indent int  `mapstructure:"indent"`
	Tabs   bool `mapstructure:"tabs"`
}

type LintConfig struct {
	MaxLineLength int      `mapstructure:"max_line_length"`
	Disable       []string `mapstructure:"disable"`
}

type ParserConfig struct {
	MaxDepth  int `mapstructure:"max_depth"`
	MaxErrors int `mapstructure:"max_errors"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config holds all settings.
type Config struct {
	Format FormatConfig `mapstructure:"format"`
	Lint   LintConfig   `mapstructure:"lint"`
	Parser ParserConfig `mapstructure:"parser"`
	Log    LogConfig    `mapstructure:"log"`
	Color  string       `mapstructure:"color"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("format.indent", format.DefaultIndent)
	v.SetDefault("format.tabs", false)
	v.SetDefault("lint.max_line_length", lint.DefaultMaxLineLength)
	v.SetDefault("lint.disable", []string{})
	v.SetDefault("parser.max_depth", parser.DefaultMaxDepth)
	v.SetDefault("parser.max_errors", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("color", ColorAuto)
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// decoding the defaults cannot fail
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads the configuration. An explicit path must exist; otherwise
// .vimscript.yaml is looked up in the working directory and then in the
// home directory, and a missing file is not an error.
func Load(path string) (*Config, error) {
	paths := []string{"."}
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths, home)
	}
	return load(path, paths)
}

func load(path string, searchPaths []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a restricted range.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid config: color must be auto, always or never, got %q", c.Color)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: log.level: %w", err)
	}
	if c.Format.Indent < 0 {
		return fmt.Errorf("invalid config: format.indent must not be negative, got %d", c.Format.Indent)
	}
	if c.Parser.MaxDepth <= 0 {
		return fmt.Errorf("invalid config: parser.max_depth must be positive, got %d", c.Parser.MaxDepth)
	}
	known := lint.Rules()
	for _, name := range c.Lint.Disable {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("invalid config: lint.disable: unknown rule %q", name)
		}
	}
	return nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// UseColor resolves the color mode for an output that is or is not a
// terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return terminal
}

func (c *Config) ParserOptions() []parser.Option {
	options := []parser.Option{parser.WithMaxDepth(c.Parser.MaxDepth)}
	if c.Parser.MaxErrors > 0 {
		options = append(options, parser.WithMaxErrors(c.Parser.MaxErrors))
	}
	return options
}

func (c *Config) FormatOptions() []format.Option {
	return []format.Option{
		format.WithIndent(c.Format.Indent),
		format.WithTabs(c.Format.Tabs),
	}
}

func (c *Config) LintOptions() []lint.Option {
	return []lint.Option{
		lint.WithMaxLineLength(c.Lint.MaxLineLength),
		lint.WithDisabled(c.Lint.Disable...),
		lint.WithParserOptions(c.ParserOptions()...),
	}
}
