// Package config loads the nbfs YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config file is named and it exists.
const DefaultPath = "~/.config/nbfs/config.yaml"

var suffixPattern = regexp.MustCompile(`^\.[^./]+$`)

// Config represents the nbfs configuration.
type Config struct {
	Mount   MountConfig   `yaml:"mount"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Mount.Validate(); err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}

// MountConfig holds the filesystem options.
type MountConfig struct {
	// Suffix marks the files presented as notebook directories.
	Suffix      string `yaml:"suffix"`
	FSName      string `yaml:"fs_name"`
	AllowOther  bool   `yaml:"allow_other"`
	StrictNames bool   `yaml:"strict_names"`
}

// Validate validates the mount configuration.
func (c *MountConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Suffix, validation.Required, validation.Match(suffixPattern)),
		validation.Field(&c.FSName, validation.Required),
	)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In("error", "warn", "info", "debug")),
	)
}

// MetricsConfig holds the Prometheus endpoint configuration. An empty Addr
// disables the endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Enabled reports whether the metrics endpoint should be served.
func (c *MetricsConfig) Enabled() bool {
	return c.Addr != ""
}

// Validate validates the metrics configuration.
func (c *MetricsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.By(hostPort)),
	)
}

func hostPort(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(s); err != nil {
		return errors.New("must be a host:port address")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Mount: MountConfig{
			Suffix: ".ipynb",
			FSName: "nbfs",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at filename over the defaults. Environment
// variables in the file are expanded and a leading ~ in filename is
// resolved to the home directory.
func Load(filename string) (*Config, error) {
	path, err := homedir.Expand(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %s: %w", filename, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads filename, or DefaultPath when filename is empty.
// A missing DefaultPath yields the default configuration.
func LoadWithDefaults(filename string) (*Config, error) {
	if filename != "" {
		return Load(filename)
	}
	path, err := homedir.Expand(DefaultPath)
	if err != nil {
		return NewDefaultConfig(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return NewDefaultConfig(), nil
	}
	return Load(path)
}
