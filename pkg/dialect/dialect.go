// Package dialect describes how each supported store spells the handful of SQL
// constructs booksales generates: bind placeholders, column types, identity
// columns, and identity resynchronisation after explicit-id inserts.
//
// Dialects are immutable values. Adapters return one of the predefined
// dialects from their Dialect method; callers never mutate them.
package dialect

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PlaceholderStyle selects how bind parameters are written.
type PlaceholderStyle int

const (
	// PlaceholderQuestion writes every parameter as "?".
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar writes parameters as "$1", "$2", ...
	PlaceholderDollar
)

// Dialect holds the per-store SQL spelling used by schema and query builders.
type Dialect struct {
	// Name is the adapter type this dialect belongs to (postgres, sqlite, duckdb).
	Name string

	Placeholder PlaceholderStyle

	// IntegerType is used for plain integer and foreign key columns.
	IntegerType string
	// DateType is used for calendar date columns.
	DateType string

	// IdentityColumn renders the primary key column definition for a table.
	IdentityColumn func(table, column string) string
	// IdentityPrelude returns statements that must run before the table's
	// CREATE TABLE (for example a backing sequence). Nil means none.
	IdentityPrelude func(table, column string) []string
	// SyncIdentity returns a statement advancing the identity generator past
	// the largest stored id. Nil means the store tracks this itself.
	SyncIdentity func(table, column string) string
}

// FormatPlaceholder returns the bind placeholder for the n-th (1-based) parameter.
func (d *Dialect) FormatPlaceholder(n int) string {
	if d.Placeholder == PlaceholderDollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Placeholders returns a comma-separated list of count placeholders.
func (d *Dialect) Placeholders(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = d.FormatPlaceholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

// StringType renders a bounded character column type.
func (d *Dialect) StringType(size int) string {
	return fmt.Sprintf("VARCHAR(%d)", size)
}

// DecimalType renders a fixed-point column type.
func (d *Dialect) DecimalType(precision, scale int) string {
	return fmt.Sprintf("DECIMAL(%d, %d)", precision, scale)
}

// Postgres is the dialect for PostgreSQL through pgx.
var Postgres = &Dialect{
	Name:        "postgres",
	Placeholder: PlaceholderDollar,
	IntegerType: "INTEGER",
	DateType:    "DATE",
	IdentityColumn: func(_, column string) string {
		return column + " INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	},
	SyncIdentity: func(table, column string) string {
		return fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', '%s'), (SELECT COALESCE(MAX(%s), 0) + 1 FROM %s), false)",
			table, column, column, table,
		)
	},
}

// SQLite is the dialect for SQLite (modernc.org/sqlite).
// An INTEGER PRIMARY KEY column aliases the rowid, which SQLite advances on its own.
var SQLite = &Dialect{
	Name:        "sqlite",
	Placeholder: PlaceholderQuestion,
	IntegerType: "INTEGER",
	DateType:    "DATE",
	IdentityColumn: func(_, column string) string {
		return column + " INTEGER PRIMARY KEY"
	},
}

// DuckDB is the dialect for DuckDB. Identity columns are backed by a sequence.
var DuckDB = &Dialect{
	Name:        "duckdb",
	Placeholder: PlaceholderQuestion,
	IntegerType: "INTEGER",
	DateType:    "DATE",
	IdentityColumn: func(table, column string) string {
		return fmt.Sprintf("%s INTEGER PRIMARY KEY DEFAULT nextval('%s')", column, sequenceName(table, column))
	},
	IdentityPrelude: func(table, column string) []string {
		return []string{fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s START 1", sequenceName(table, column))}
	},
}

func sequenceName(table, column string) string {
	return "seq_" + table + "_" + column
}

var builtin = map[string]*Dialect{
	Postgres.Name: Postgres,
	SQLite.Name:   SQLite,
	DuckDB.Name:   DuckDB,
}

// Get returns the predefined dialect with the given name.
func Get(name string) (*Dialect, bool) {
	d, ok := builtin[strings.ToLower(name)]
	return d, ok
}

// Names lists the predefined dialect names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
