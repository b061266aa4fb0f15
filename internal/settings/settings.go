// Package settings loads the optional configurator settings file.
//
// Settings are YAML with environment variable expansion. Every field has a
// default, so running without a settings file is the same as running with
// an empty one. Command-line flags override settings.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the settings file when --config is not given.
const EnvConfigFile = "APP_CONFIG_FILE"

// Log levels accepted by LogConfig.Level.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// MaxParallelism bounds EngineConfig.Parallelism.
const MaxParallelism = 64

// Config is the settings file.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Sandbox SandboxConfig `yaml:"sandbox"`
	Engine  EngineConfig  `yaml:"engine"`
	Watch   WatchConfig   `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Sandbox.Validate(); err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In(LevelDebug, LevelInfo, LevelWarn, LevelError)),
	)
}

// SlogLevel returns the slog level for Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SandboxConfig holds the SQLite sandbox remote configuration.
type SandboxConfig struct {
	Path string `yaml:"path" json:"path"`
}

// Validate validates the sandbox configuration.
func (c *SandboxConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// EngineConfig holds reconciliation settings.
type EngineConfig struct {
	// Parallelism is the number of entities of one section synced at once.
	Parallelism int `yaml:"parallelism" json:"parallelism"`

	// Timeout bounds a whole run. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// Validate validates the engine configuration.
func (c *EngineConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Parallelism, validation.Required, validation.Min(1), validation.Max(MaxParallelism)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// WatchConfig holds deploy --watch settings.
type WatchConfig struct {
	// Debounce is how long the document must be quiet before a redeploy.
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: LevelInfo,
		},
		Sandbox: SandboxConfig{
			Path: "./configurator.db",
		},
		Engine: EngineConfig{
			Parallelism: 1,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// Resolve picks the settings file: the explicit path if set, otherwise
// $APP_CONFIG_FILE. An empty result means no settings file.
func Resolve(path string) string {
	if path != "" {
		return path
	}
	return os.Getenv(EnvConfigFile)
}

// Load reads the settings file at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Decode expands environment variables in data and decodes it into cfg.
// Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
