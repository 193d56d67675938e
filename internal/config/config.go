package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for swotstat
type Config struct {
	// OutputDir is where artifacts are written.
	OutputDir string `yaml:"output_dir"`
	// Excel toggles the workbook artifact; the JSON artifact is always
	// produced.
	Excel bool `yaml:"excel"`
	// Pretty indents the JSON artifact.
	Pretty bool `yaml:"pretty"`
	// SourceID overrides the source identifier recorded in artifact
	// metadata; empty means derive it from the input file name.
	SourceID string `yaml:"source_id"`
	Dev      Dev    `yaml:"dev"`
}

// Dev contains development/debug options
type Dev struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputDir: "output",
		Excel:     true,
		Pretty:    true,
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults so omitted keys keep their default values.
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".swotstat.yml", ".swotstat.yaml", "swotstat.yml", "swotstat.yaml"}

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
