// Package config loads and validates semlayer project configuration from
// semlayer.yaml, environment variables, and CLI flags.
package config

import (
	"fmt"
	"strings"

	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// TargetConfig holds the warehouse connection configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // duckdb, postgres

	// File-based databases (DuckDB)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions)
	Params map[string]any `koanf:"params"`
}

// ToAdapterConfig converts the target into the adapter connection config.
func (t *TargetConfig) ToAdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     strings.ToLower(t.Type),
		Path:     t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
}

// Validate checks the target against the adapter registry.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.List(),
		}
	}
	return nil
}

// CatalogConfig scopes catalog extraction and MDL generation.
type CatalogConfig struct {
	// Databases are the catalog names extraction targets.
	Databases []string `koanf:"databases"`

	// Schemas are the schema names extraction targets.
	Schemas []string `koanf:"schemas"`

	// MDLDir is where generated MDL YAML files land.
	MDLDir string `koanf:"mdl_dir"`
}

// SemanticConfig controls semantic layer compilation.
type SemanticConfig struct {
	// Language selects label localization, "es" or "en".
	Language string `koanf:"language"`

	// Schema is where compiled views and the flat table are created.
	Schema string `koanf:"schema"`

	// FlatTable is the materialized flat table name.
	FlatTable string `koanf:"flat_table"`
}

// Config holds all semlayer configuration options.
type Config struct {
	// ProjectRoot is the directory relative paths resolve against. Set by
	// the loader, never from the config file.
	ProjectRoot string `koanf:"-"`

	StatePath    string         `koanf:"state_path"`
	Verbose      bool           `koanf:"verbose"`
	OutputFormat string         `koanf:"output"`
	Target       *TargetConfig  `koanf:"target"`
	Catalog      CatalogConfig  `koanf:"catalog"`
	Semantic     SemanticConfig `koanf:"semantic"`
}
