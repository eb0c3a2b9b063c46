package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/owid/catalog-go/internal/cli/config"
	"github.com/owid/catalog-go/internal/cli/ui"
)

var (
	searchKind  string
	searchLimit int
)

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog metadata",
		Long: `Search catalog entries by title and path.

Results are ranked: title matches rank above path matches, and
near-miss (fuzzy) matches come last.

Examples:
  catalog search population
  catalog search "life expectancy" --kind chart
  catalog search gdp --kind indicator --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVarP(&searchKind, "kind", "k", "any", "Restrict results to a kind (chart, table, indicator)")
	cmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	kind, err := parseKind(searchKind)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(rootVerbose)
	defer logger.Sync()

	c, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}

	results := searchByKind(cmd.Context(), c, kind, query, searchLimit)
	if results.Empty() {
		fmt.Fprintf(cmd.OutOrStdout(), "No results for %q\n", query)
		return nil
	}

	table := ui.NewTable(cmd.OutOrStdout(), []string{"KIND", "PATH", "TITLE", "UNIT"}, &ui.TableOptions{NoColor: rootNoColor || color.NoColor})
	for _, m := range results.Matches {
		table.AddRow(m.Record.Kind.String(), m.Record.Path, m.Record.DisplayTitle(), m.Record.Unit)
	}
	table.Render()

	fmt.Fprintf(cmd.ErrOrStderr(), "\n%d result(s)\n", results.Len())
	return nil
}
