// Package adapter provides the store connection contract for booksales.
//
// This package contains the interface every relational store adapter must
// implement, a database/sql base implementation, the factory registry used to
// pick an adapter from configuration, and the error types shared by all
// adapters. Concrete adapters live in pkg/adapters/ subdirectories and
// register themselves from init().
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/booksales/pkg/dialect"
)

// Adapter defines the interface that all store adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the store using the provided config.
	// A failure here is a connection failure and aborts startup.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// Exec executes a statement that doesn't return rows (CREATE, INSERT, ...).
	Exec(ctx context.Context, query string, args ...any) error

	// Query executes a statement that returns rows.
	// The caller must close the returned rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// BeginTx opens a transaction. It is the unit of work for a single
	// loader row or a single lookup.
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)

	// Dialect returns the SQL spelling rules for this store.
	Dialect() *dialect.Dialect

	// IsConstraintViolation reports whether err is the store rejecting a
	// write because of a unique, foreign key, not-null or check constraint.
	IsConstraintViolation(err error) bool
}
