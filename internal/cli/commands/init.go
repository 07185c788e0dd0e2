package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/booksales/internal/cli/config"
	"github.com/leapstack-labs/booksales/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// projectFile is the layout written by init.
type projectFile struct {
	Target  *config.TargetConfig `yaml:"target"`
	Fixture config.FixtureConfig `yaml:"fixture"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter booksales.yaml",
		Long: `Write a booksales.yaml configuration file.

The target and fixture are taken from the current flags and environment,
so the file can be generated for any store:

  booksales init --target-type sqlite --database shop.db

The password is never written. Add it by hand as ${VAR}, or set
BOOKSALES_TARGET__PASSWORD; ${VAR} is expanded when the configuration is
loaded. Local paths inside the project directory are written relative to it.`,
		Example: `  # Initialize in current directory
  booksales init

  # Initialize a DuckDB project in a new directory
  booksales init my-shop --target-type duckdb

  # Force overwrite existing config
  booksales init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, cfg, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, cfg *config.Config, dir string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	configPath := filepath.Join(dir, config.DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.DefaultConfigFile)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	data, err := yaml.Marshal(starterConfig(cfg, absDir))
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]string{"config": configPath})
	}

	r.StatusLine(config.DefaultConfigFile, "success", "")
	r.Println("")
	r.Success("booksales project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Edit the target section of booksales.yaml")
	r.Println("  2. Run 'booksales load' to load the fixture")
	r.Println("  3. Run 'booksales lookup <publisher>' to list sales")

	return nil
}

// starterConfig copies the target and fixture settings worth persisting into
// a config file written to dir. The password is dropped.
func starterConfig(cfg *config.Config, dir string) projectFile {
	t := *cfg.Target
	t.Password = ""
	if config.IsFileStore(t.Type) {
		t.Host, t.Port, t.User = "", 0, ""
		t.Database = relativeTo(dir, t.Database)
	}
	fx := cfg.Fixture
	fx.Source = relativeTo(dir, fx.Source)
	return projectFile{
		Target:  &t,
		Fixture: fx,
	}
}

// relativeTo rewrites an absolute local path under dir relative to dir.
// URLs, :memory: and paths outside dir are returned unchanged.
func relativeTo(dir, path string) string {
	if !filepath.IsAbs(path) || strings.Contains(path, "://") {
		return path
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
