package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/booksales/internal/cli/output"
	"github.com/leapstack-labs/booksales/internal/engine"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Show row counts of the bookstore tables",
		Long: `Show the number of rows in each bookstore table, parents first.

Fails if the schema has not been created yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			counts, err := cctx.Engine.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return renderCounts(cctx.Renderer, counts)
		},
	}
}

func renderCounts(r *output.Renderer, counts []engine.TableCount) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(counts)
	case output.ModeMarkdown:
		r.Println(countsTable(counts).RenderMarkdown())
	default:
		r.Println(countsTable(counts).Render())
	}
	return nil
}

func countsTable(counts []engine.TableCount) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"Model", "Table", "Rows"})
	var total int64
	for _, c := range counts {
		t.AppendRow(table.Row{c.Label, c.Table, c.Rows})
		total += c.Rows
	}
	t.AppendFooter(table.Row{"", "Total", fmt.Sprint(total)})
	return t
}
