// Package config loads the collection setup from a YAML (or JSON) file
// and opens the configured store stacks.
//
//	log_level: debug
//	collections:
//	  people:
//	    storage: csv
//	    location: data/people.csv
//	    postpone: 100ms
//	    sticky: strict
//	    lock: exclusive
//	    cache: survive-add
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/yegor256/tojos/log"
)

// Config is the content of a config file.
type Config struct {
	LogLevel    string             `json:"log_level,omitempty"`
	Collections map[string]Options `json:"collections"`
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses and validates a config.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidData, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks all collections and the log level.
func (c *Config) Validate() error {
	if c.LogLevel != "" && log.ParseLevel(c.LogLevel) == 0 {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidData, c.LogLevel)
	}
	for _, name := range c.Names() {
		opts := c.Collections[name]
		if err := opts.Validate(name); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the names of all configured collections, sorted.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Collections))
	for name := range c.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Marshal returns the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
