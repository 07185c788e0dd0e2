// Package postgres provides a PostgreSQL store adapter for booksales.
package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/leapstack-labs/booksales/pkg/adapter"
	"github.com/leapstack-labs/booksales/pkg/dialect"
)

// DefaultPort is used when the descriptor carries no port.
const DefaultPort = 5432

// integrityClass is the SQLSTATE class for integrity constraint violations.
const integrityClass = "23"

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the PostgreSQL SQL spelling.
func (a *Adapter) Dialect() *dialect.Dialect {
	return dialect.Postgres
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	cfg = withDefaults(cfg)

	a.Logger.Debug("connecting to postgres",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database),
		slog.String("dsn", cfg.Redacted("postgres")))

	return a.OpenAndPing(ctx, "pgx", buildPostgresDSN(cfg), cfg)
}

// IsConstraintViolation reports SQLSTATE class 23 errors.
func (a *Adapter) IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, integrityClass)
	}
	return false
}

func withDefaults(cfg adapter.Config) adapter.Config {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	opts := make(map[string]string, len(cfg.Options)+1)
	for k, v := range cfg.Options {
		opts[k] = v
	}
	if _, ok := opts["sslmode"]; !ok {
		opts["sslmode"] = "disable"
	}
	cfg.Options = opts
	return cfg
}

// buildPostgresDSN constructs a URL-style PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	return withDefaults(cfg).URL("postgres")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
