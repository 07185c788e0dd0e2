package commands

import (
	"github.com/leapstack-labs/booksales/internal/cli/output"
	"github.com/spf13/cobra"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Format   string
	SkipLoad bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [publisher]",
		Short: "Create tables, load the fixture, and look up a publisher",
		Long: `Run the whole pipeline in one invocation:

  1. create the five tables if they do not exist
  2. load the configured fixture
  3. read a publisher name or id (argument, prompt, or piped stdin)
  4. print every sale of that publisher's books

Status output for steps 1 and 2 goes to stderr when --format is not table,
so the result can be piped.`,
		Example: `  # Interactive run against the configured PostgreSQL database
  booksales run

  # One-shot run on an in-memory SQLite database
  booksales run "O'Reilly" --target-type sqlite --database :memory:

  # Query only, data already loaded
  booksales run 1 --skip-load`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatTable, "Result format (table|json|csv|md)")
	cmd.Flags().BoolVar(&opts.SkipLoad, "skip-load", false, "Skip schema creation and fixture load")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return resultFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *RunOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	eng := cctx.Engine

	status := cctx.Renderer
	if opts.Format != FormatTable {
		status = output.NewRenderer(cmd.ErrOrStderr(), cmd.ErrOrStderr(), output.Mode(cctx.Cfg.OutputFormat))
	}

	if !opts.SkipLoad {
		if err := eng.CreateSchema(ctx); err != nil {
			return err
		}
		if err := reportSchema(status, eng); err != nil {
			return err
		}

		source := cctx.Cfg.Fixture.Source
		summary, err := loadFixture(ctx, cctx, source)
		if err != nil {
			return err
		}
		if err := reportLoad(status, eng.Registry().Labels(), source, summary); err != nil {
			return err
		}
		status.Println("")
	}

	identifier, err := readIdentifier(cmd, args)
	if err != nil {
		return err
	}

	rows, err := eng.Lookup(ctx, identifier)
	if err != nil {
		return err
	}
	return renderSales(cmd.OutOrStdout(), identifier, rows, opts.Format)
}
