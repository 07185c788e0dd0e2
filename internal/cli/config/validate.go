package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/booksales/pkg/adapter"
)

// IsFileStore reports whether the target type keeps its data in a local file.
func IsFileStore(targetType string) bool {
	switch strings.ToLower(targetType) {
	case "sqlite", "sqlite3", "duckdb":
		return true
	}
	return false
}

// ApplyTargetDefaults fills connection fields left empty for the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}

	switch strings.ToLower(t.Type) {
	case "postgres", "postgresql":
		if t.Host == "" {
			t.Host = DefaultPostgresHost
		}
		if t.Port == 0 {
			t.Port = DefaultPostgresPort
		}
		if t.User == "" {
			t.User = DefaultPostgresUser
		}
		if t.Password == "" {
			t.Password = DefaultPostgresPassword
		}
		if t.Database == "" {
			t.Database = DefaultPostgresDatabase
		}
	case "sqlite", "sqlite3":
		if t.Database == "" {
			t.Database = DefaultSQLiteDatabase
		}
	case "duckdb":
		if t.Database == "" {
			t.Database = DefaultDuckDBDatabase
		}
	}
}

// Validate checks that the target names a registered adapter.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return errors.New("target type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("target port %d is out of range", t.Port)
	}
	return nil
}
