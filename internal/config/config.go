// Package config loads prism.toml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "prism.toml"

// Config holds every setting prism reads from prism.toml.
type Config struct {
	Endpoint  string         `toml:"endpoint"`
	Locale    string         `toml:"locale"`
	Format    string         `toml:"format"`
	Policy    string         `toml:"policy"`
	HistoryDB string         `toml:"history_db"`
	Serve     ServeConfig    `toml:"serve"`
	Analyzer  AnalyzerConfig `toml:"analyzer"`
}

// ServeConfig configures the browser front end.
type ServeConfig struct {
	Listen string `toml:"listen"`
}

// AnalyzerConfig configures the reference analyzer service.
type AnalyzerConfig struct {
	Listen   string `toml:"listen"`
	Language string `toml:"language"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Endpoint:  "http://localhost:8080/analyze",
		Locale:    "en",
		Format:    "text",
		Policy:    "reject",
		HistoryDB: ".prism/history.db",
		Serve:     ServeConfig{Listen: ":3000"},
		Analyzer:  AnalyzerConfig{Listen: ":8080", Language: "python"},
	}
}

// Load reads the TOML file at path on top of the defaults. A missing file
// yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg, keeping values the data does not set.
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("line %d column %d: %s", row, col, derr.Error())
		}
		return err
	}
	return cfg.Validate()
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (must be json or text)", c.Format)
	}
	switch c.Policy {
	case "", "reject", "supersede":
	default:
		return fmt.Errorf("invalid policy %q (must be reject or supersede)", c.Policy)
	}
	return nil
}

// Marshal encodes cfg as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// Overrides holds command-line values that take precedence over the file.
// Empty fields leave the file value in place.
type Overrides struct {
	Endpoint  string
	Locale    string
	Format    string
	HistoryDB string
	Listen    string
	Language  string
}

// Apply copies every non-empty override into c.
func (c *Config) Apply(o Overrides) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Endpoint, o.Endpoint)
	set(&c.Locale, o.Locale)
	set(&c.Format, o.Format)
	set(&c.HistoryDB, o.HistoryDB)
	set(&c.Serve.Listen, o.Listen)
	set(&c.Analyzer.Language, o.Language)
}
