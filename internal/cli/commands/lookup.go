package commands

import (
	"github.com/spf13/cobra"
)

// LookupOptions holds options for the lookup command.
type LookupOptions struct {
	Format string
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand() *cobra.Command {
	opts := &LookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup [publisher]",
		Short: "List every sale of a publisher's books",
		Long: `List every sale of a publisher's books across shops, with the book title,
shop name, price and sale date.

The publisher is selected by id when the input is an integer, and by exact
name otherwise. Without an argument the publisher is read from stdin: an
interactive prompt on a terminal, or the first line of piped input.`,
		Example: `  # Look up by name
  booksales lookup "O'Reilly"

  # Look up by id
  booksales lookup 1

  # Read the publisher from a pipe and emit CSV
  echo 1 | booksales lookup --format csv`,
		Aliases: []string{"sales"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatTable, "Result format (table|json|csv|md)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return resultFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runLookup(cmd *cobra.Command, args []string, opts *LookupOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	identifier, err := readIdentifier(cmd, args)
	if err != nil {
		return err
	}

	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rows, err := cctx.Engine.Lookup(cmd.Context(), identifier)
	if err != nil {
		return err
	}
	return renderSales(cmd.OutOrStdout(), identifier, rows, opts.Format)
}
