package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/booksales/internal/cli/output"
	"github.com/leapstack-labs/booksales/internal/engine"
	"github.com/leapstack-labs/booksales/internal/schema"
	"github.com/leapstack-labs/booksales/pkg/adapter"
	"github.com/spf13/cobra"
)

// SchemaOptions holds options for the schema command.
type SchemaOptions struct {
	Print bool
}

// schemaOutput is the JSON document for the schema command.
type schemaOutput struct {
	Dialect    string   `json:"dialect"`
	Tables     []string `json:"tables"`
	Statements []string `json:"statements,omitempty"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	opts := &SchemaOptions{}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create the publisher, book, shop, stock and sale tables",
		Long: `Create the five bookstore tables with their constraints.

Creation is idempotent: tables that already exist are left untouched.
Use --print to show the DDL for the configured target without connecting.`,
		Example: `  # Create tables in the configured store
  booksales schema

  # Show the SQLite DDL
  booksales schema --print --target-type sqlite`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Print {
				return runSchemaPrint(cmd)
			}
			return runSchema(cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Print, "print", false, "Print the DDL instead of executing it")

	return cmd
}

func runSchema(cmd *cobra.Command) error {
	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cctx.Engine.CreateSchema(cmd.Context()); err != nil {
		return err
	}
	return reportSchema(cctx.Renderer, cctx.Engine)
}

func reportSchema(r *output.Renderer, eng *engine.Engine) error {
	reg := eng.Registry()
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(schemaOutput{Dialect: eng.Dialect().Name, Tables: tableNames(reg)})
	}

	r.Header(2, "Schema")
	for _, ent := range reg.Entities() {
		r.StatusLine(ent.Table, "success", "")
	}
	r.Success(fmt.Sprintf("Schema ready (%s)", eng.Dialect().Name))
	return nil
}

func runSchemaPrint(cmd *cobra.Command) error {
	cctx := NewCommandContextWithoutEngine(cmd)

	// The dialect is known without connecting.
	a, err := adapter.NewAdapter(cctx.Cfg.Target.AdapterConfig(), cctx.Logger)
	if err != nil {
		return err
	}
	d := a.Dialect()
	reg := schema.NewRegistry()
	stmts := reg.DDL(d)

	if cctx.Renderer.EffectiveMode() == output.ModeJSON {
		return cctx.Renderer.JSON(schemaOutput{Dialect: d.Name, Tables: tableNames(reg), Statements: stmts})
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(stmts, ";\n\n")+";")
	return err
}

func tableNames(reg *schema.Registry) []string {
	ents := reg.Entities()
	names := make([]string, 0, len(ents))
	for _, ent := range ents {
		names = append(names, ent.Table)
	}
	return names
}
