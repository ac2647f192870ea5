// Package config holds program configuration: the display policy the tree
// builder consults and the logging setup.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

type (
	// DisplayConfig carries the two numeric display policies the worksheet
	// parser consults.
	DisplayConfig struct {
		// DisplayedDigits caps how many characters of a numeric literal are
		// shown before the middle is elided. Clamped to >= 10 at use.
		DisplayedDigits int `yaml:"displayed_digits"`
		// ShowLength selects the maximum size of a single expression that is
		// structurally parsed at all: 0..3 map to 50000, 500000, 5000000 and
		// unlimited characters.
		ShowLength int `yaml:"show_length"`
	}

	Config struct {
		Version int           `yaml:"version"`
		Display DisplayConfig `yaml:"display"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

const (
	defaultDisplayedDigits = 100
	minDisplayedDigits     = 10
)

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Display: DisplayConfig{
			DisplayedDigits: defaultDisplayedDigits,
			ShowLength:      0,
		},
		Logging: LoggingConfig{
			Console: LoggerConfig{Level: "normal"},
		},
	}
}

// LoadConfiguration reads a YAML configuration file, applying defaults for
// anything left unset. An empty path returns the defaults.
func LoadConfiguration(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Display.ShowLength < 0 || c.Display.ShowLength > 3 {
		return fmt.Errorf("display.show_length must be 0..3, got %d", c.Display.ShowLength)
	}
	if c.Display.DisplayedDigits < 0 {
		return fmt.Errorf("display.displayed_digits must not be negative, got %d", c.Display.DisplayedDigits)
	}
	switch c.Logging.Console.Level {
	case "", "none", "debug", "normal":
	default:
		return fmt.Errorf("logging.console.level must be none, debug or normal, got %q", c.Logging.Console.Level)
	}
	return nil
}

// DigitCutoff returns the displayed-digits policy clamped to its minimum.
func (d DisplayConfig) DigitCutoff() int {
	cutoff := d.DisplayedDigits
	if cutoff == 0 {
		cutoff = defaultDisplayedDigits
	}
	if cutoff < minDisplayedDigits {
		cutoff = minDisplayedDigits
	}
	return cutoff
}

// LengthCutoff maps the show_length selector onto a character count; zero
// means unlimited.
func (d DisplayConfig) LengthCutoff() int {
	switch d.ShowLength {
	case 1:
		return 500000
	case 2:
		return 5000000
	case 3:
		return 0
	default:
		return 50000
	}
}

// Dump serializes the effective configuration back to YAML.
func Dump(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
