package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Suffix conventions for the derived slice filename. Historic exports
// used both forms; the dot form is the default here and the underscore
// form stays available for tools that expect the legacy name.
const (
	SuffixDot        = "dot"        // scene.json -> scene.slice.json
	SuffixUnderscore = "underscore" // scene.json -> scene_slice.json
)

// Config represents the complete configuration for sceneslice
type Config struct {
	Parser  ParserConfig  `yaml:"parser"`
	Output  OutputConfig  `yaml:"output"`
	Preview PreviewConfig `yaml:"preview"`
	Dev     DevConfig     `yaml:"dev"`
}

// ParserConfig controls document parsing limits
type ParserConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// OutputConfig controls slice document output
type OutputConfig struct {
	Suffix string `yaml:"suffix"` // "dot" or "underscore"
}

// PreviewConfig controls the preview viewport
type PreviewConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxDepth: 200,
		},
		Output: OutputConfig{
			Suffix: SuffixDot,
		},
		Preview: PreviewConfig{
			Width:   260,
			Height:  260,
			OriginX: 0,
			OriginY: 0,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".sceneslice.yml", ".sceneslice.yaml", "sceneslice.yml", "sceneslice.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

func (c *Config) validate() error {
	if c.Parser.MaxDepth < 1 {
		return fmt.Errorf("parser.max_depth must be positive, got %d", c.Parser.MaxDepth)
	}
	if c.Output.Suffix != SuffixDot && c.Output.Suffix != SuffixUnderscore {
		return fmt.Errorf("output.suffix must be %q or %q, got %q", SuffixDot, SuffixUnderscore, c.Output.Suffix)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview viewport must have positive width and height")
	}
	return nil
}

// LoadConfigWithCLI loads config with CLI argument precedence. CLI values
// override the file only when they differ from the flag defaults, so a
// config file still applies when flags are left alone.
func LoadConfigWithCLI(configPath, cliSuffix string, cliWidth, cliHeight float64, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliSuffix != "" && cliSuffix != SuffixDot {
		cfg.Output.Suffix = cliSuffix
	}
	if cliWidth > 0 && cliWidth != 260 {
		cfg.Preview.Width = cliWidth
	}
	if cliHeight > 0 && cliHeight != 260 {
		cfg.Preview.Height = cliHeight
	}
	if cliDebug {
		cfg.Dev.Debug = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SlicePath derives the output path for a slice document from its source
// scene path, honoring the configured suffix convention.
func (c *Config) SlicePath(scenePath string) string {
	ext := filepath.Ext(scenePath)
	base := scenePath[:len(scenePath)-len(ext)]
	if c.Output.Suffix == SuffixUnderscore {
		return base + "_slice.json"
	}
	return base + ".slice.json"
}
