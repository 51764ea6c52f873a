// Package config loads and validates the demoize configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the full configuration written to config.yml.
type Config struct {
	DemosDir    string     `yaml:"demos_dir"`
	CatalogFile string     `yaml:"catalog_file"`
	SourceExt   string     `yaml:"source_ext"`
	DefaultTags []string   `yaml:"default_tags"`
	Duplicates  string     `yaml:"duplicates"`
	Icon        IconConfig `yaml:"icon"`
}

// IconConfig controls generated icons.
type IconConfig struct {
	MinLen     int     `yaml:"min_len"`
	MaxLen     int     `yaml:"max_len"`
	MaxLines   int     `yaml:"max_lines"`
	LineHeight int     `yaml:"line_height"`
	FontPath   string  `yaml:"font_path,omitempty"`
	FontScale  float64 `yaml:"font_scale"`
	FontRadius float64 `yaml:"font_radius"`
	FrameColor [3]int  `yaml:"frame_color,flow"`
	TextColor  [3]int  `yaml:"text_color,flow"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DemosDir:    DefaultDemosDir,
		CatalogFile: "demo_metadata.json",
		SourceExt:   DefaultSourceExt,
		DefaultTags: []string{DefaultTag},
		Duplicates:  DuplicatesReject,
		Icon: IconConfig{
			MinLen:     DefaultIconMinLen,
			MaxLen:     DefaultIconMaxLen,
			MaxLines:   DefaultIconMaxLines,
			LineHeight: DefaultIconLineHeight,
			FontScale:  DefaultIconFontScale,
			FontRadius: DefaultIconFontRadius,
			FrameColor: DefaultFrameColor,
			TextColor:  DefaultTextColor,
		},
	}
}

// Load reads and parses a config file from the given path. Keys missing
// from the file keep their defaults; a missing file yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandHome(path))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvDemosDir)); v != "" {
		c.DemosDir = v
	}
}

// Validate checks that all required fields are present and values are in range.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DemosDir) == "" {
		return fmt.Errorf("demos_dir is required")
	}
	if c.CatalogFile == "" || filepath.Base(c.CatalogFile) != c.CatalogFile {
		return fmt.Errorf("catalog_file must be a plain file name, got %q", c.CatalogFile)
	}
	if !strings.HasPrefix(c.SourceExt, ".") || len(c.SourceExt) < 2 {
		return fmt.Errorf("source_ext must look like \".py\", got %q", c.SourceExt)
	}

	switch c.Duplicates {
	case DuplicatesReject, DuplicatesReplace, DuplicatesAllow:
		// ok
	default:
		return fmt.Errorf("duplicates must be %q, %q, or %q", DuplicatesReject, DuplicatesReplace, DuplicatesAllow)
	}

	// Icon layout
	if c.Icon.MinLen < 1 {
		return fmt.Errorf("icon.min_len must be >= 1")
	}
	if c.Icon.MaxLen < c.Icon.MinLen {
		return fmt.Errorf("icon.max_len must be >= icon.min_len")
	}
	if c.Icon.MaxLines < 1 {
		return fmt.Errorf("icon.max_lines must be >= 1")
	}
	if c.Icon.LineHeight < 1 {
		return fmt.Errorf("icon.line_height must be >= 1")
	}
	if c.Icon.FontScale <= 0 {
		return fmt.Errorf("icon.font_scale must be positive")
	}
	if c.Icon.FontRadius < 0 {
		return fmt.Errorf("icon.font_radius must not be negative")
	}
	for name, rgb := range map[string][3]int{"frame_color": c.Icon.FrameColor, "text_color": c.Icon.TextColor} {
		for _, v := range rgb {
			if v < 0 || v > 255 {
				return fmt.Errorf("icon.%s components must be 0-255", name)
			}
		}
	}

	return nil
}

// DemosPath returns the demos directory with "~" expanded.
func (c *Config) DemosPath() string {
	return ExpandHome(c.DemosDir)
}

// CatalogPath returns the catalog file location inside the demos directory.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.DemosPath(), c.CatalogFile)
}

// JournalPath returns the install journal database location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.DemosPath(), DefaultJournal)
}

// Save writes the config to the given path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
