package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/booksales/internal/cli/config"
	"github.com/leapstack-labs/booksales/internal/engine"
	"github.com/leapstack-labs/booksales/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/booksales/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/booksales/pkg/adapters/sqlite"
)

// useSQLite loads a config pointing at a fresh SQLite file and the sample
// fixture, the way the root command would for the given flags.
func useSQLite(t *testing.T, extra ...string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("target-type", "", "")
	flags.String("database", "", "")
	flags.String("fixture", "", "")
	flags.String("output", "", "")

	args := append([]string{
		"--target-type", "sqlite",
		"--database", filepath.Join(dir, "shop.db"),
		"--fixture", testutil.SampleFixturePath(t),
		"--output", "markdown",
	}, extra...)
	require.NoError(t, flags.Parse(args))

	_, err := config.LoadConfig("", flags)
	require.NoError(t, err)
	return dir
}

type result struct {
	out, errOut string
	err         error
}

func execute(cmd *cobra.Command, stdin string, args ...string) result {
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func load(t *testing.T) {
	t.Helper()
	res := execute(NewLoadCommand(), "")
	require.NoError(t, res.err)
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewSchemaCommand(), "schema", []string{"print"}},
		{NewLoadCommand(), "load [source]", nil},
		{NewLookupCommand(), "lookup [publisher]", []string{"format"}},
		{NewRunCommand(), "run [publisher]", []string{"format", "skip-load"}},
		{NewTablesCommand(), "tables", nil},
		{NewInitCommand(), "init [directory]", []string{"force"}},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}

	assert.Equal(t, []string{"sales"}, NewLookupCommand().Aliases)
}

func TestSchemaCommand(t *testing.T) {
	useSQLite(t)

	res := execute(NewSchemaCommand(), "")
	require.NoError(t, res.err)
	for _, table := range []string{"publisher", "book", "shop", "stock", "sale"} {
		assert.Contains(t, res.out, "- "+table+": success")
	}
	assert.Contains(t, res.out, "Schema ready (sqlite)")

	// Running it again is a no-op.
	res = execute(NewSchemaCommand(), "")
	require.NoError(t, res.err)
}

func TestSchemaCommand_Print(t *testing.T) {
	dir := useSQLite(t)

	res := execute(NewSchemaCommand(), "", "--print")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "CREATE TABLE IF NOT EXISTS publisher (")
	assert.Contains(t, res.out, "CREATE TABLE IF NOT EXISTS sale (")
	assert.Less(t, strings.Index(res.out, "TABLE IF NOT EXISTS publisher"), strings.Index(res.out, "TABLE IF NOT EXISTS sale"))

	_, err := os.Stat(filepath.Join(dir, "shop.db"))
	assert.True(t, os.IsNotExist(err), "--print must not open the store")
}

func TestSchemaCommand_PrintJSON(t *testing.T) {
	useSQLite(t, "--output", "json")

	res := execute(NewSchemaCommand(), "", "--print")
	require.NoError(t, res.err)

	var doc schemaOutput
	require.NoError(t, json.Unmarshal([]byte(res.out), &doc))
	assert.Equal(t, "sqlite", doc.Dialect)
	assert.Equal(t, []string{"publisher", "book", "shop", "stock", "sale"}, doc.Tables)
	assert.Len(t, doc.Statements, 5)
}

func TestLoadCommand(t *testing.T) {
	useSQLite(t)

	res := execute(NewLoadCommand(), "")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "- publisher: success (4 rows)")
	assert.Contains(t, res.out, "- stock: success (9 rows)")
	assert.Contains(t, res.out, "- sale: success (6 rows)")
	assert.Contains(t, res.out, "Loaded 28 rows from ")
	assert.Regexp(t, `\*\*Run ID:\*\* [0-9a-f-]{36}\n`, res.out)
	assert.Contains(t, res.out, "took ")
	assert.Empty(t, res.errOut)
}

func TestLoadCommand_JSON(t *testing.T) {
	useSQLite(t, "--output", "json")

	res := execute(NewLoadCommand(), "")
	require.NoError(t, res.err)

	var doc loadOutput
	require.NoError(t, json.Unmarshal([]byte(res.out), &doc))
	assert.NotEmpty(t, doc.RunID)
	assert.Equal(t, 28, doc.Total)
	assert.Equal(t, testutil.SampleShops, doc.Inserted["shop"])
	assert.Zero(t, doc.Skipped)
}

func TestLoadCommand_SourceArgument(t *testing.T) {
	dir := useSQLite(t)
	path := filepath.Join(dir, "minimal.json")
	require.NoError(t, os.WriteFile(path, []byte(testutil.MinimalFixture), 0600))

	res := execute(NewLoadCommand(), "", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Loaded 5 rows from "+path)
}

func TestLoadCommand_IntegrityViolation(t *testing.T) {
	dir := useSQLite(t)
	path := filepath.Join(dir, "bad.json")
	bad := `[
  {"model": "publisher", "pk": 1, "fields": {"name": "O'Reilly"}},
  {"model": "publisher", "pk": 2, "fields": {"name": "O'Reilly"}}
]`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0600))

	res := execute(NewLoadCommand(), "", path)
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, engine.ErrIntegrityViolation)
}

func TestLoadCommand_MissingFixture(t *testing.T) {
	useSQLite(t)

	res := execute(NewLoadCommand(), "", "does-not-exist.json")
	require.Error(t, res.err)
}

func TestLookupCommand(t *testing.T) {
	useSQLite(t)
	load(t)

	res := execute(NewLookupCommand(), "", "O'Reilly")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Book Title")
	assert.Contains(t, res.out, "Shop Name")
	assert.Contains(t, res.out, "Programming Python, 4th Edition")
	assert.Contains(t, res.out, "Labirint")
	assert.Contains(t, res.out, "50.05")
	assert.Contains(t, res.out, "2018-10-25")
	assert.Contains(t, res.out, "(3 rows)")
}

func TestLookupCommand_IDMatchesName(t *testing.T) {
	useSQLite(t)
	load(t)

	byName := execute(NewLookupCommand(), "", "--format", "json", "O'Reilly")
	require.NoError(t, byName.err)
	byID := execute(NewLookupCommand(), "", "--format", "json", "1")
	require.NoError(t, byID.err)
	assert.JSONEq(t, byName.out, byID.out)
}

func TestLookupCommand_Stdin(t *testing.T) {
	useSQLite(t)
	load(t)

	res := execute(NewLookupCommand(), "2\nignored\n", "--format", "json")
	require.NoError(t, res.err)

	var rows []saleJSON
	require.NoError(t, json.Unmarshal([]byte(res.out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, saleJSON{
		BookTitle: "Modern Operating Systems",
		ShopName:  "OZON",
		Price:     "16.00",
		SaleDate:  "2018-10-25",
	}, rows[0])
}

func TestLookupCommand_NoMatch(t *testing.T) {
	useSQLite(t)
	load(t)

	res := execute(NewLookupCommand(), "", "Nobody")
	require.NoError(t, res.err)
	assert.Equal(t, "No sales found for publisher \"Nobody\"\n", res.out)
}

func TestLookupCommand_CSV(t *testing.T) {
	useSQLite(t)
	load(t)

	res := execute(NewLookupCommand(), "", "--format", "csv", "1")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Book Title,Shop Name,Price,Sale Date", lines[0])
	assert.Contains(t, res.out, `"Programming Python, 4th Edition",Labirint,50.05,2018-10-25`)
}

func TestLookupCommand_Errors(t *testing.T) {
	useSQLite(t)

	res := execute(NewLookupCommand(), "", "--format", "xml", "1")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown format")

	res = execute(NewLookupCommand(), "\n")
	require.ErrorIs(t, res.err, errNoIdentifier)
}

func TestRunCommand(t *testing.T) {
	useSQLite(t)

	res := execute(NewRunCommand(), "O'Reilly\n")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "## Schema")
	assert.Contains(t, res.out, "Loaded 28 rows")
	assert.Contains(t, res.out, "Natural Language Processing with Python")
	assert.Contains(t, res.out, "Amazon")
}

func TestRunCommand_FormatSendsStatusToStderr(t *testing.T) {
	useSQLite(t)

	res := execute(NewRunCommand(), "", "--format", "json", "1")
	require.NoError(t, res.err)

	var rows []saleJSON
	require.NoError(t, json.Unmarshal([]byte(res.out), &rows))
	assert.Len(t, rows, 3)
	assert.Contains(t, res.errOut, "Loaded 28 rows")
}

func TestRunCommand_SkipLoad(t *testing.T) {
	useSQLite(t)
	load(t)

	res := execute(NewRunCommand(), "", "--skip-load", "Pearson")
	require.NoError(t, res.err)
	assert.NotContains(t, res.out, "Loaded")
	assert.Contains(t, res.out, "Modern Operating Systems")
}

func TestTablesCommand(t *testing.T) {
	useSQLite(t, "--output", "json")
	load(t)

	res := execute(NewTablesCommand(), "")
	require.NoError(t, res.err)

	var counts []engine.TableCount
	require.NoError(t, json.Unmarshal([]byte(res.out), &counts))
	require.Len(t, counts, 5)
	assert.Equal(t, engine.TableCount{Label: "sale", Table: "sale", Rows: testutil.SampleSales}, counts[4])
}

func TestTablesCommand_Markdown(t *testing.T) {
	useSQLite(t)
	load(t)

	res := execute(NewTablesCommand(), "")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "| Model | Table | Rows |")
	assert.Contains(t, res.out, "publisher")
}

func TestTablesCommand_NoSchema(t *testing.T) {
	useSQLite(t)

	res := execute(NewTablesCommand(), "")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "count publisher")
}
