package adapter_test

import (
	"testing"

	"github.com/leapstack-labs/booksales/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/booksales/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/booksales/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/booksales/pkg/adapters/sqlite"
)

func TestSelfRegistration(t *testing.T) {
	for _, name := range []string{"duckdb", "postgres", "postgresql", "sqlite"} {
		assert.True(t, adapter.IsRegistered(name), "%s adapter should be auto-registered", name)
	}
}

func TestListAdapters(t *testing.T) {
	adapters := adapter.ListAdapters()

	assert.Contains(t, adapters, "duckdb", "duckdb should be in adapter list")
	assert.Contains(t, adapters, "postgres", "postgres should be in adapter list")
	assert.Contains(t, adapters, "sqlite", "sqlite should be in adapter list")
	assert.IsNonDecreasing(t, adapters, "adapter list should be sorted")
}

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		name        string
		adapterName string
		expected    bool
	}{
		{"duckdb registered", "duckdb", true},
		{"postgres registered", "postgres", true},
		{"case insensitive", "SQLite", true},
		{"unknown not registered", "unknown_db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.IsRegistered(tt.adapterName)
			assert.Equal(t, tt.expected, got, "IsRegistered(%q)", tt.adapterName)
		})
	}
}

func TestAliasesShareDialect(t *testing.T) {
	tests := []struct {
		alias   string
		dialect string
	}{
		{"postgresql", "postgres"},
		{"PostgreSQL", "postgres"},
		{"sqlite3", "sqlite"},
		{"DuckDB", "duckdb"},
	}
	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			adp, err := adapter.NewAdapter(adapter.Config{Type: tt.alias}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, adp.Dialect().Name)
		})
	}
}

func TestGet(t *testing.T) {
	factory, ok := adapter.Get("sqlite")
	require.True(t, ok, "Get(sqlite) should return true")
	require.NotNil(t, factory, "Get(sqlite) should return non-nil factory")

	_, ok = adapter.Get("nonexistent")
	assert.False(t, ok, "Get(nonexistent) should return false")
}

func TestNewAdapter_Success(t *testing.T) {
	cfg := adapter.Config{
		Type:     "sqlite",
		Database: ":memory:",
	}

	adp, err := adapter.NewAdapter(cfg, nil)
	require.NoError(t, err, "NewAdapter(sqlite) failed")
	require.NotNil(t, adp, "NewAdapter(sqlite) returned nil adapter")
	assert.Equal(t, "sqlite", adp.Dialect().Name)
}

func TestNewAdapter_UnknownType(t *testing.T) {
	cfg := adapter.Config{
		Type: "mysql",
	}

	_, err := adapter.NewAdapter(cfg, nil)
	require.Error(t, err, "NewAdapter(mysql) should fail")

	var unknownErr *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknownErr)

	assert.Equal(t, "mysql", unknownErr.Type, "error type")
	assert.Contains(t, unknownErr.Available, "postgres", "Available adapters should include postgres")
}
