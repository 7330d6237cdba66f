// Package config loads project configuration from a .gqlforge.yml
// file. Values here are defaults; command-line flags override them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// DefaultFile is the config filename looked up in the working
// directory when no explicit path is given.
const DefaultFile = ".gqlforge.yml"

// Config holds the file-backed defaults.
type Config struct {
	Endpoint Endpoint `yaml:"endpoint"`
	Generate Generate `yaml:"generate"`
	Registry Registry `yaml:"registry"`
}

// Endpoint configures introspection against a live GraphQL API.
type Endpoint struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// Generate configures code generation defaults.
type Generate struct {
	SchemaName string `yaml:"schema_name"`
	Package    string `yaml:"package"`
}

// Registry configures the local schema registry.
type Registry struct {
	DB string `yaml:"db"`
}

// Load reads and decodes the file at path. The file must exist; use
// LoadDefault for the optional working-directory lookup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault reads DefaultFile from dir. A missing file yields the
// zero config with no error, so running outside a project just works.
func LoadDefault(dir string) (*Config, error) {
	path := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return Load(path)
}
