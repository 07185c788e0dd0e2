package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command. Build details set to
// "unknown" or left empty are not printed.
func NewVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display booksales version and build information.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "booksales v%s\n", version)
			if known(commit) {
				_, _ = fmt.Fprintf(out, "commit: %s\n", commit)
			}
			if known(buildDate) {
				_, _ = fmt.Fprintf(out, "built: %s\n", buildDate)
			}
			_, _ = fmt.Fprintln(out, "Publisher sales lookup for PostgreSQL, SQLite and DuckDB")
		},
	}
}

func known(s string) bool { return s != "" && s != "unknown" }
