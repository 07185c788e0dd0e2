// Package cli provides the command-line interface for booksales.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/booksales/internal/cli/commands"
	"github.com/leapstack-labs/booksales/internal/cli/config"
	"github.com/leapstack-labs/booksales/internal/cli/output"
	"github.com/spf13/cobra"

	// Register the store adapters.
	_ "github.com/leapstack-labs/booksales/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/booksales/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/booksales/pkg/adapters/sqlite"
)

var (
	cfgFile string
	envFlag string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "booksales",
		Short: "booksales - publisher sales lookup",
		Long: `booksales loads a bookstore dataset (publishers, books, shops, stock and
sales) from a JSON fixture into PostgreSQL, SQLite or DuckDB, and lists every
sale of a publisher's books across shops.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			// Load configuration with optional environment override and CLI flags
			var err error
			cfg, err = config.LoadConfigWithEnv(cfgFile, envFlag, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			// Store the logger in context; commands build their renderer from cfg
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, config.LoggerKey(), newLogger(cmd.ErrOrStderr(), cfg.Verbose))
			cmd.SetContext(ctx)

			// Print config file used (if verbose)
			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
				if cfg.Environment != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using environment: %s\n", cfg.Environment)
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using target: %s\n", describeTarget(cfg.Target))
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Publisher sales lookup for PostgreSQL, SQLite and DuckDB
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./booksales.yaml)")
	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", "", "Environment from the environments section (e.g., dev, ci)")
	rootCmd.PersistentFlags().StringP("target-type", "t", "", "Store type (postgres|sqlite|duckdb)")
	rootCmd.PersistentFlags().String("host", "", "Database host")
	rootCmd.PersistentFlags().Int("port", 0, "Database port")
	rootCmd.PersistentFlags().StringP("user", "U", "", "Database user")
	rootCmd.PersistentFlags().String("password", "", "Database password")
	rootCmd.PersistentFlags().StringP("database", "d", "", "Database name, or file path for sqlite/duckdb (:memory: for in-memory)")
	rootCmd.PersistentFlags().String("fixture", "", "Fixture source: file path, http(s) URL or s3://bucket/key")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes(), cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for target type flag
	_ = rootCmd.RegisterFlagCompletionFunc("target-type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"postgres", "sqlite", "duckdb"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(commands.NewLoadCommand())
	rootCmd.AddCommand(commands.NewLookupCommand())
	rootCmd.AddCommand(commands.NewTablesCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// describeTarget renders the target for display with the password masked.
func describeTarget(t *config.TargetConfig) string {
	if config.IsFileStore(t.Type) {
		return t.Type + " " + t.Database
	}
	return t.AdapterConfig().Redacted(t.Type)
}

// newLogger builds the text logger on w: debug level when verbose, warn otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for booksales.

To load completions:

Bash:
  $ source <(booksales completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ booksales completion bash > /etc/bash_completion.d/booksales
  # macOS:
  $ booksales completion bash > $(brew --prefix)/etc/bash_completion.d/booksales

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ booksales completion zsh > "${fpath[1]}/_booksales"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ booksales completion fish | source

  # To load completions for each session, execute once:
  $ booksales completion fish > ~/.config/fish/completions/booksales.fish

PowerShell:
  PS> booksales completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> booksales completion powershell > booksales.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
