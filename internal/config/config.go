// Package config provides configuration management for rtfc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/rtf-cli/pkg/rtf"
)

// Defaults used when the config file leaves a field empty.
const (
	DefaultFontName   = "Helvetica"
	DefaultFontFamily = "swiss"
	DefaultFontSize   = 12
)

// fontFamilies are the RTF font family categories.
var fontFamilies = map[string]bool{
	"nil": true, "roman": true, "swiss": true, "modern": true,
	"script": true, "decor": true, "tech": true, "bidi": true,
}

// Config holds the rtfc configuration.
type Config struct {
	FontName     string  `yaml:"font_name,omitempty"`
	FontFamily   string  `yaml:"font_family,omitempty"`
	FontSize     float64 `yaml:"font_size,omitempty"`
	OutputFormat string  `yaml:"output_format,omitempty"`
}

// Validate checks that all set fields are valid. An empty field always
// validates; it means "use the default".
func (c *Config) Validate() error {
	if c.FontSize < 0 {
		return fmt.Errorf("font_size must not be negative, got %v", c.FontSize)
	}
	if c.FontFamily != "" && !fontFamilies[c.FontFamily] {
		return fmt.Errorf("font_family %q is not an RTF family category", c.FontFamily)
	}
	return nil
}

// Font returns the font table entry new documents are created with.
func (c *Config) Font() rtf.FontTableEntry {
	name := c.FontName
	if name == "" {
		name = DefaultFontName
	}
	family := c.FontFamily
	if family == "" {
		family = DefaultFontFamily
	}
	return rtf.FontTableEntry{Index: 0, Name: name, Family: family}
}

// Meta returns document metadata seeded from the configured font, for
// the plaintext-to-RTF path where no metadata exists yet.
func (c *Config) Meta() *rtf.DocumentMeta {
	return &rtf.DocumentMeta{Fonts: []rtf.FontTableEntry{c.Font()}}
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if name := os.Getenv("RTFC_FONT_NAME"); name != "" {
		c.FontName = name
	}
	if family := os.Getenv("RTFC_FONT_FAMILY"); family != "" {
		c.FontFamily = family
	}
	if size := os.Getenv("RTFC_FONT_SIZE"); size != "" {
		if v, err := strconv.ParseFloat(size, 64); err == nil {
			c.FontSize = v
		}
	}
	if format := os.Getenv("RTFC_OUTPUT_FORMAT"); format != "" {
		c.OutputFormat = format
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rtfc", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".rtfc", "config.yml")
	}

	return filepath.Join(home, ".config", "rtfc", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with defaults
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
