// Package sqlite provides an embedded SQLite store adapter for booksales.
//
// It is the zero-setup target: local runs and the test suite use it with
// ":memory:" or a file path and need no server.
package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/leapstack-labs/booksales/pkg/adapter"
	"github.com/leapstack-labs/booksales/pkg/dialect"
)

const memoryPath = ":memory:"

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the SQLite SQL spelling.
func (a *Adapter) Dialect() *dialect.Dialect {
	return dialect.SQLite
}

// Connect opens the database file named by cfg.Database.
// An empty name or ":memory:" opens a private in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Database
	if path == "" {
		path = memoryPath
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path))

	if err := a.OpenAndPing(ctx, "sqlite", buildDSN(path, cfg.Options), cfg); err != nil {
		return err
	}

	// Every new connection to :memory: is a distinct database.
	if path == memoryPath {
		a.DB.SetMaxOpenConns(1)
	}
	return nil
}

// IsConstraintViolation reports SQLITE_CONSTRAINT and its extended codes.
func (a *Adapter) IsConstraintViolation(err error) bool {
	var sErr *sqlite.Error
	if errors.As(err, &sErr) {
		return sErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

// buildDSN renders a file: URI with foreign keys enforced.
// Extra options are appended as _pragma entries in key order.
func buildDSN(path string, options map[string]string) string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pragmas := []string{"_pragma=foreign_keys(1)"}
	for _, k := range keys {
		pragmas = append(pragmas, "_pragma="+url.QueryEscape(k)+"("+url.QueryEscape(options[k])+")")
	}
	return "file:" + path + "?" + strings.Join(pragmas, "&")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
