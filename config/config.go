package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for codemag.
type Config struct {
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Outline OutlineConfig `yaml:"outline" mapstructure:"outline"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// ScanConfig controls which files the directory scanner reports.
type ScanConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // suffixes with leading dot, case-sensitive
	Excludes   []string `yaml:"excludes" mapstructure:"excludes"`     // doublestar globs relative to the root
}

type OutlineConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "text" or "json"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions: []string{".php"},
			Excludes:   []string{"**/node_modules/**", "**/vendor/**", "**/.git/**"},
		},
		Outline: OutlineConfig{
			Workers: 4,
		},
		Watch: WatchConfig{
			DebounceMS: 300,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. CODEMAG_* environment variables override both.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return load("")
		}
		return nil, err
	}
	return load(path)
}

// LoadFromDir loads configuration from a directory (looks for codemag.yaml,
// then .codemag/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	for _, path := range []string{
		filepath.Join(dir, "codemag.yaml"),
		filepath.Join(ConfigDir(dir), "config.yaml"),
	} {
		if _, err := os.Stat(path); err == nil {
			return load(path)
		}
	}
	return load("")
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CODEMAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"scan.extensions",
		"scan.excludes",
		"outline.workers",
		"watch.debounce_ms",
		"output.format",
		"logging.level",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("scan.extensions", d.Scan.Extensions)
	v.SetDefault("scan.excludes", d.Scan.Excludes)
	v.SetDefault("outline.workers", d.Outline.Workers)
	v.SetDefault("watch.debounce_ms", d.Watch.DebounceMS)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Scan.Extensions) == 0 {
		errs = append(errs, errors.New("scan.extensions must not be empty"))
	}
	for _, ext := range c.Scan.Extensions {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("scan.extensions: %q must start with a dot", ext))
		}
	}
	for _, pattern := range c.Scan.Excludes {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("scan.excludes: invalid pattern %q", pattern))
		}
	}
	if c.Outline.Workers < 1 {
		errs = append(errs, fmt.Errorf("outline.workers must be positive, got %d", c.Outline.Workers))
	}
	if c.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMS))
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("output.format: unknown format %q", c.Output.Format))
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: unknown level %q", l.Level)
	}
	return level, nil
}

// ConfigDir returns the per-project configuration directory.
func ConfigDir(dir string) string {
	return filepath.Join(dir, ".codemag")
}

// EnsureConfigDir ensures the .codemag directory exists.
func EnsureConfigDir(dir string) error {
	return os.MkdirAll(ConfigDir(dir), 0755)
}
