// Package config provides configuration management for the booksales CLI.
//
// Configuration is layered with koanf: built-in defaults, then booksales.yaml,
// then BOOKSALES_ environment variables, then explicitly set flags.
package config

import (
	"strings"

	"github.com/leapstack-labs/booksales/internal/fixture"
	"github.com/leapstack-labs/booksales/pkg/adapter"
)

// TargetConfig describes the store connection.
type TargetConfig struct {
	Type     string `koanf:"type" yaml:"type"` // postgres, sqlite, duckdb
	Host     string `koanf:"host" yaml:"host,omitempty"`
	Port     int    `koanf:"port" yaml:"port,omitempty"`
	Database string `koanf:"database" yaml:"database"` // database name, or file path for sqlite/duckdb
	User     string `koanf:"user" yaml:"user,omitempty"`
	Password string `koanf:"password" yaml:"password,omitempty"`

	// Options are driver query parameters (e.g. sslmode, or sqlite pragmas).
	Options map[string]string `koanf:"options" yaml:"options,omitempty"`

	// Params holds adapter-specific settings (e.g. duckdb extensions).
	Params map[string]any `koanf:"params" yaml:"params,omitempty"`
}

// AdapterConfig converts the target into the adapter connection descriptor.
func (t *TargetConfig) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     strings.ToLower(t.Type),
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Options:  t.Options,
		Params:   t.Params,
	}
}

// FixtureConfig locates the dataset to load.
type FixtureConfig struct {
	// Source is a file path, an http(s) URL, or an s3://bucket/key URL.
	Source string            `koanf:"source" yaml:"source"`
	S3     fixture.S3Options `koanf:"s3" yaml:"s3,omitempty"`
}

// Options returns the fixture source options.
func (f FixtureConfig) Options() fixture.Options {
	return fixture.Options{S3: f.S3}
}

// Config holds all CLI configuration options.
type Config struct {
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	Target       *TargetConfig        `koanf:"target"`
	Fixture      FixtureConfig        `koanf:"fixture"`
	Environments map[string]EnvConfig `koanf:"environments"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Target  *TargetConfig `koanf:"target"`
	Fixture string        `koanf:"fixture"`
}

// Default configuration values
const (
	DefaultConfigFile = "booksales.yaml"
	DefaultTargetType = "postgres"
	DefaultFixture    = "tests_data.json"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown

	DefaultPostgresHost     = "localhost"
	DefaultPostgresPort     = 5432
	DefaultPostgresUser     = "postgres"
	DefaultPostgresPassword = "postgres"
	DefaultPostgresDatabase = "test"

	DefaultSQLiteDatabase = "booksales.db"
	DefaultDuckDBDatabase = "booksales.duckdb"
)
