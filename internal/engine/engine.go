// Package engine owns the store connection and the schema registry, and runs
// the bookstore operations against them: schema creation, fixture load, and
// publisher sales lookup.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/booksales/internal/catalog"
	"github.com/leapstack-labs/booksales/internal/fixture"
	"github.com/leapstack-labs/booksales/internal/loader"
	"github.com/leapstack-labs/booksales/internal/sales"
	"github.com/leapstack-labs/booksales/internal/schema"
	"github.com/leapstack-labs/booksales/pkg/adapter"
	"github.com/leapstack-labs/booksales/pkg/dialect"
)

// Engine runs bookstore operations against one store.
type Engine struct {
	db       adapter.Adapter
	registry *schema.Registry
	logger   *slog.Logger

	loader *loader.Loader
	sales  *sales.Service
}

// Config holds engine configuration.
type Config struct {
	// Adapter describes the store connection.
	Adapter adapter.Config
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates the configured adapter and connects it. A connection failure is
// returned as an *adapter.ConnectionError.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine", "type", cfg.Adapter.Type, "database", cfg.Adapter.Database)

	db, err := adapter.NewAdapter(cfg.Adapter, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx, cfg.Adapter); err != nil {
		return nil, err
	}
	return NewWithAdapter(db, logger), nil
}

// NewWithAdapter wraps an already connected adapter.
func NewWithAdapter(db adapter.Adapter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		db:       db,
		registry: schema.NewRegistry(),
		logger:   logger,
	}
	e.loader = loader.New(e.registry, e, logger)
	e.sales = sales.NewService(e.registry, e, logger)
	return e
}

// Registry returns the schema registry.
func (e *Engine) Registry() *schema.Registry { return e.registry }

// Dialect returns the connected store's dialect.
func (e *Engine) Dialect() *dialect.Dialect { return e.db.Dialect() }

// Adapter returns the underlying store adapter.
func (e *Engine) Adapter() adapter.Adapter { return e.db }

// Session runs fn in a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise; it is released on every path.
func (e *Engine) Session(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReadSession runs fn in a transaction that is always rolled back.
func (e *Engine) ReadSession(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := e.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: readOnlySupported(e.db.Dialect())})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	return fn(tx)
}

// readOnlySupported reports whether the driver accepts read-only transactions.
func readOnlySupported(d *dialect.Dialect) bool {
	return d.Name == dialect.Postgres.Name
}

// CreateSchema creates the five entity tables if they do not exist.
func (e *Engine) CreateSchema(ctx context.Context) error {
	e.logger.Debug("creating schema", "dialect", e.db.Dialect().Name)
	return schema.Create(ctx, e.db, e.registry, e.db.Dialect())
}

// Load inserts fixture records in dependency order.
func (e *Engine) Load(ctx context.Context, records []fixture.Record) (*loader.Summary, error) {
	return e.loader.Load(ctx, records)
}

// Lookup returns every sale of the publisher named or numbered by identifier.
func (e *Engine) Lookup(ctx context.Context, identifier string) ([]catalog.SaleRow, error) {
	return e.sales.Lookup(ctx, identifier)
}

// TableCount is the row count of one entity table.
type TableCount struct {
	Label string `json:"label"`
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// Stats returns the row count of every entity table in registry order.
func (e *Engine) Stats(ctx context.Context) ([]TableCount, error) {
	var out []TableCount
	err := e.ReadSession(ctx, func(tx *sql.Tx) error {
		for _, ent := range e.registry.Entities() {
			var n int64
			if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+ent.Table).Scan(&n); err != nil { //nolint:gosec // table names come from the registry
				return fmt.Errorf("count %s: %w", ent.Table, err)
			}
			out = append(out, TableCount{Label: ent.Label, Table: ent.Table, Rows: n})
		}
		return nil
	})
	return out, err
}

// Close closes the store connection.
func (e *Engine) Close() error {
	return e.db.Close()
}
