package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
)

// ConfigFile is the name looked up in the working directory.
const ConfigFile = "spark.json"

// Color modes for diagnostics.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the settings read from spark.json
type Config struct {
	Verbose bool `json:"verbose"`
	Debug   bool `json:"debug"`
	// TabWidth is the column width of a tab in reported positions.
	TabWidth int    `json:"tab_width"`
	Color    string `json:"color"`
	// Toolchain is a semver constraint the running toolchain must satisfy,
	// such as ">= 0.1, < 1".
	Toolchain string `json:"toolchain,omitempty"`
	// Workers bounds how many files are processed at once.
	Workers int `json:"workers"`
	// Strict makes `check` fail on redeclaration warnings.
	Strict bool `json:"strict"`
	// MaxErrors stops reporting after this many errors; 0 means no limit.
	MaxErrors int `json:"max_errors"`
}

// ErrToolchainMismatch is returned by Validate when the toolchain version
// does not satisfy the configured constraint.
var ErrToolchainMismatch = errors.New("toolchain version does not satisfy constraint")

// DefaultConfig returns the configuration used without a spark.json.
func DefaultConfig() *Config {
	return &Config{
		TabWidth: 1,
		Color:    ColorAuto,
		Workers:  4,
	}
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, config.Validate()
}

// Validate checks field ranges and the toolchain constraint.
func (c *Config) Validate() error {
	if c.TabWidth < 1 {
		return fmt.Errorf("tab_width must be at least 1, got %d", c.TabWidth)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("max_errors must not be negative, got %d", c.MaxErrors)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}

	if c.Toolchain == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Toolchain)
	if err != nil {
		return fmt.Errorf("invalid toolchain constraint %q: %w", c.Toolchain, err)
	}
	if !constraint.Check(semver.MustParse(Version)) {
		return fmt.Errorf("%w: %s does not satisfy %q", ErrToolchainMismatch, Version, c.Toolchain)
	}
	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// UseColor resolves the color mode for an output stream.
func (c *Config) UseColor(fd uintptr) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return os.Getenv("NO_COLOR") == "" && IsTerminal(fd)
}
