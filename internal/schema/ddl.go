package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/booksales/pkg/dialect"
)

// Execer runs a statement that returns no rows.
type Execer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

// CreateTable renders the CREATE TABLE IF NOT EXISTS statement for e.
func (e *Entity) CreateTable(d *dialect.Dialect) string {
	defs := make([]string, 0, len(e.Columns)+len(e.Checks)+2)
	for _, c := range e.Columns {
		defs = append(defs, c.definition(e.Table, d))
	}
	for _, c := range e.Columns {
		if c.NonEmpty {
			defs = append(defs, fmt.Sprintf("CONSTRAINT ck_%s_%s_nonempty CHECK (%s <> '')", e.Table, c.Name, c.Name))
		}
	}
	for _, ck := range e.Checks {
		defs = append(defs, fmt.Sprintf("CONSTRAINT %s CHECK (%s)", ck.Name, ck.Expr))
	}
	for _, c := range e.Columns {
		if c.References != "" {
			defs = append(defs, fmt.Sprintf("CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s (%s)",
				e.Table, c.Name, c.Name, c.References, IDColumn))
		}
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)", e.Table, strings.Join(defs, ",\n    "))
}

// InsertSQL renders the parameterised INSERT for e. With withID the identity
// column is bound as the first parameter.
func (e *Entity) InsertSQL(d *dialect.Dialect, withID bool) string {
	cols := e.InsertColumns()
	if withID {
		cols = append([]string{IDColumn}, cols...)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", e.Table, strings.Join(cols, ", "), d.Placeholders(len(cols)))
}

// DDL returns every statement needed to create the schema on d, parents first.
func (r *Registry) DDL(d *dialect.Dialect) []string {
	var stmts []string
	for _, e := range r.entities {
		if d.IdentityPrelude != nil {
			stmts = append(stmts, d.IdentityPrelude(e.Table, IDColumn)...)
		}
		stmts = append(stmts, e.CreateTable(d))
	}
	return stmts
}

// Create executes the DDL for d. Running it against a store that already
// holds the schema is a no-op.
func Create(ctx context.Context, exec Execer, reg *Registry, d *dialect.Dialect) error {
	for _, stmt := range reg.DDL(d) {
		if err := exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// SyncIdentities advances every identity generator past the stored ids on
// stores whose dialect needs it.
func SyncIdentities(ctx context.Context, exec Execer, reg *Registry, d *dialect.Dialect) error {
	if d.SyncIdentity == nil {
		return nil
	}
	for _, e := range reg.entities {
		if err := exec.Exec(ctx, d.SyncIdentity(e.Table, IDColumn)); err != nil {
			return fmt.Errorf("sync identity for %s: %w", e.Table, err)
		}
	}
	return nil
}
