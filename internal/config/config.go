// Package config holds the kvtable configuration file schema and its
// embedded defaults.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// Config is the merged configuration.
type Config struct {
	Table  TableConfig  `yaml:"table" json:"table" toml:"table"`
	Output OutputConfig `yaml:"output" json:"output" toml:"output"`
	Log    LogConfig    `yaml:"log" json:"log" toml:"log"`
}

// TableConfig configures the printer.
type TableConfig struct {
	Width              int      `yaml:"width" json:"width" toml:"width"`
	Color              string   `yaml:"color" json:"color" toml:"color"`
	Style              []string `yaml:"style" json:"style" toml:"style"`
	HideOverflow       bool     `yaml:"hide_overflow" json:"hide_overflow" toml:"hide_overflow"`
	Head               string   `yaml:"head" json:"head" toml:"head"`
	Foot               string   `yaml:"foot" json:"foot" toml:"foot"`
	EastAsianAmbiguous bool     `yaml:"east_asian_ambiguous" json:"east_asian_ambiguous" toml:"east_asian_ambiguous"`
}

// OutputConfig configures how documents become entries.
type OutputConfig struct {
	Sort       string `yaml:"sort" json:"sort" toml:"sort"`
	ArrayStyle string `yaml:"array_style" json:"array_style" toml:"array_style"`
	Flatten    bool   `yaml:"flatten" json:"flatten" toml:"flatten"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level" toml:"level"`
	Format string `yaml:"format" json:"format" toml:"format"`
}

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default decodes the embedded default config.
func Default() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, errors.New("embedded default config is empty")
	}
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode embedded default config: %w", err)
	}
	return cfg, nil
}

// Merge decodes data on top of cfg. Keys missing from data keep their
// current values; sequences are replaced.
func Merge(cfg Config, data []byte) (Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load returns the defaults merged with the file at path. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err = Merge(cfg, data)
	if err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}
