// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all treelist configuration.
type Config struct {
	Tree Tree `yaml:"tree"`
	Seed Seed `yaml:"seed"`
}

// Tree holds editing limits and labels.
type Tree struct {
	MaxDepth    int    `yaml:"max_depth"`     // Deepest level that can receive a child is MaxDepth-1
	NewItemName string `yaml:"new_item_name"` // Label for freshly added items
}

// Seed holds the source of the initial forest.
type Seed struct {
	Source string `yaml:"source"` // "default" | "empty" | path to YAML/JSON
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Tree: Tree{
			MaxDepth:    3,
			NewItemName: "New Item",
		},
		Seed: Seed{
			Source: "default",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Tree.MaxDepth < 0 {
		return fmt.Errorf("config: tree.max_depth must be non-negative, got %d", c.Tree.MaxDepth)
	}
	if c.Tree.NewItemName == "" {
		return errors.New("config: tree.new_item_name cannot be empty")
	}
	if c.Seed.Source == "" {
		return errors.New("config: seed.source cannot be empty")
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: TREELIST_MAX_DEPTH, TREELIST_NEW_ITEM_NAME, TREELIST_SEED.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("TREELIST_MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid TREELIST_MAX_DEPTH %q: %w", v, err)
		}
		c.Tree.MaxDepth = n
	}
	if v := os.Getenv("TREELIST_NEW_ITEM_NAME"); v != "" {
		c.Tree.NewItemName = v
	}
	if v := os.Getenv("TREELIST_SEED"); v != "" {
		c.Seed.Source = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Tree *rawTree `yaml:"tree"`
	Seed *rawSeed `yaml:"seed"`
}

type rawTree struct {
	MaxDepth    *int    `yaml:"max_depth"`
	NewItemName *string `yaml:"new_item_name"`
}

type rawSeed struct {
	Source *string `yaml:"source"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Tree != nil {
		if layer.Tree.MaxDepth != nil {
			c.Tree.MaxDepth = *layer.Tree.MaxDepth
		}
		if layer.Tree.NewItemName != nil {
			c.Tree.NewItemName = *layer.Tree.NewItemName
		}
	}
	if layer.Seed != nil {
		if layer.Seed.Source != nil {
			c.Seed.Source = *layer.Seed.Source
		}
	}
}
