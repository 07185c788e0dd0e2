// Package duckdb provides a DuckDB store adapter for booksales.
package duckdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/marcboeker/go-duckdb"

	"github.com/leapstack-labs/booksales/pkg/adapter"
	"github.com/leapstack-labs/booksales/pkg/dialect"
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the DuckDB SQL spelling.
func (a *Adapter) Dialect() *dialect.Dialect {
	return dialect.DuckDB
}

// Connect establishes a connection to DuckDB.
// The database field is the file path; an empty path or ":memory:" opens an
// in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Database
	if path == ":memory:" {
		path = ""
	}

	a.Logger.Debug("connecting to duckdb", slog.String("path", cfg.Database))

	if err := a.OpenAndPing(ctx, "duckdb", path, cfg); err != nil {
		return err
	}

	// An in-memory database lives in a single connection.
	if path == "" {
		a.DB.SetMaxOpenConns(1)
	}

	if err := a.applyParams(ctx, params); err != nil {
		_ = a.Close()
		a.DB = nil
		return err
	}
	return nil
}

func (a *Adapter) applyParams(ctx context.Context, p *Params) error {
	for _, ext := range p.Extensions {
		a.Logger.Debug("loading duckdb extension", slog.String("extension", ext))
		if err := a.Exec(ctx, fmt.Sprintf("INSTALL %s; LOAD %s;", ext, ext)); err != nil {
			return fmt.Errorf("failed to load extension %s: %w", ext, err)
		}
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmt := fmt.Sprintf("SET %s = '%s'", k, strings.ReplaceAll(p.Settings[k], "'", "''"))
		if err := a.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", k, err)
		}
	}
	return nil
}

// IsConstraintViolation reports DuckDB constraint errors.
func (a *Adapter) IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var dErr *duckdb.Error
	if errors.As(err, &dErr) {
		return dErr.Type == duckdb.ErrorTypeConstraint
	}
	return strings.Contains(err.Error(), "Constraint Error")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
