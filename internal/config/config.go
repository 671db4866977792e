// Package config loads the engine configuration from HCL.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the decoded configuration. Unset blocks fall back to defaults.
type Config struct {
	Store     *StoreBlock     `hcl:"store,block"`
	Hierarchy *HierarchyBlock `hcl:"hierarchy,block"`
	Serve     *ServeBlock     `hcl:"serve,block"`
}

// StoreBlock points the engine at its SQLite document store.
type StoreBlock struct {
	Path string `hcl:"path"`
}

// HierarchyBlock tunes the resolution engine.
type HierarchyBlock struct {
	// MaxDepth bounds ancestor walks. Zero means the built-in default.
	MaxDepth int `hcl:"max_depth,optional"`
}

// ServeBlock configures the MCP tool server.
type ServeBlock struct {
	// Listen is the HTTP address; empty means stdio transport.
	Listen string `hcl:"listen,optional"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Store:     &StoreBlock{Path: "pagetree.db"},
		Hierarchy: &HierarchyBlock{},
		Serve:     &ServeBlock{},
	}
}

// Load reads and decodes an HCL config file.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Parse decodes HCL from memory. The filename only feeds diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Store == nil {
		c.Store = d.Store
	}
	if c.Hierarchy == nil {
		c.Hierarchy = d.Hierarchy
	}
	if c.Serve == nil {
		c.Serve = d.Serve
	}
}
