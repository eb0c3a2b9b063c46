package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/owid/catalog-go/catalog/client"
	"github.com/owid/catalog-go/catalog/path"
	"github.com/owid/catalog-go/catalog/store"
	"github.com/owid/catalog-go/catalog/table"
	"github.com/owid/catalog-go/internal/cli/config"
	"github.com/owid/catalog-go/internal/cli/ui"
	"github.com/owid/catalog-go/pkg/fuzzy"
)

var (
	fetchFormat string
	fetchOut    string
)

// NewFetchCommand creates the fetch command
func NewFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <path>",
		Short: "Fetch a catalog entry and download its data",
		Long: `Fetch a catalog entry by path and write its data.

The data is written to stdout as CSV by default. For indicator paths
(table#column) the table is narrowed to the country and year columns
plus the indicator column.

Examples:
  catalog fetch life-expectancy
  catalog fetch garden/un/2024-07-12/un_wpp/population
  catalog fetch garden/un/2024-07-12/un_wpp/population#population --format json
  catalog fetch life-expectancy --out life-expectancy.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runFetch,
	}

	cmd.Flags().StringVarP(&fetchFormat, "format", "f", "csv", "Output format (csv, json)")
	cmd.Flags().StringVarP(&fetchOut, "out", "o", "", "Write data to a file instead of stdout")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	rawPath := args[0]

	if fetchFormat != "csv" && fetchFormat != "json" {
		return fmt.Errorf("unknown format %q (expected csv or json)", fetchFormat)
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

	res, err := c.Fetch(cmd.Context(), rawPath, true)
	if err != nil {
		return fetchError(cmd, c, rawPath, err)
	}

	tbl, err := res.Get(cmd.Context())
	if err != nil {
		return fetchError(cmd, c, rawPath, err)
	}

	loc := res.Locator()
	if loc.Kind == path.KindIndicator {
		tbl, err = narrowToIndicator(tbl, loc.Column)
		if err != nil {
			return err
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	var file *os.File
	if fetchOut != "" {
		file, err = os.Create(fetchOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		out = file
	}

	if fetchFormat == "json" {
		err = tbl.EncodeJSON(out)
	} else {
		err = tbl.EncodeCSV(out)
	}
	if file != nil {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write output file: %w", cerr)
		}
	}
	if err != nil {
		return err
	}

	if fetchOut != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d row(s) to %s\n", tbl.NumRows(), fetchOut)
	}
	return nil
}

// identifyingColumns are kept alongside the value column when an
// indicator path narrows its table.
var identifyingColumns = []string{"country", "year"}

func narrowToIndicator(tbl *table.Table, column string) (*table.Table, error) {
	names := make([]string, 0, len(identifyingColumns)+1)
	for _, name := range identifyingColumns {
		if tbl.HasColumn(name) {
			names = append(names, name)
		}
	}
	names = append(names, column)
	return tbl.Project(names...)
}

// fetchError rewrites client errors into the CLI's error format, with
// near-miss suggestions for paths that almost match a catalog entry.
func fetchError(cmd *cobra.Command, c *client.Client, rawPath string, err error) error {
	var invalid *path.InvalidPathError
	if errors.As(err, &invalid) {
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError(ui.ErrorOptions{
			Context:     fmt.Sprintf("INVALID PATH: %s", rawPath),
			Problem:     invalid.Reason,
			HelpCommand: "See path forms: catalog fetch --help",
			NoColor:     rootNoColor,
		}))
		return err
	}

	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError(ui.ErrorOptions{
			Context:     fmt.Sprintf("PATH NOT FOUND: %s", rawPath),
			Problem:     "No catalog entry matches this path.",
			Suggestions: suggestPaths(c, rawPath),
			HelpCommand: "Search the catalog: catalog search <query>",
			NoColor:     rootNoColor,
		}))
		return err
	}

	if client.IsDataUnavailable(err) {
		fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError(ui.ErrorOptions{
			Context:     fmt.Sprintf("DATA UNAVAILABLE: %s", rawPath),
			Problem:     err.Error(),
			HelpCommand: "Inspect the metadata instead: catalog inspect " + rawPath,
			NoColor:     rootNoColor,
		}))
		return err
	}

	return err
}

// suggestPaths finds catalog paths within edit distance of the input.
func suggestPaths(c *client.Client, rawPath string) []string {
	return fuzzy.Similar(rawPath, c.Paths(path.KindAny), &fuzzy.Options{
		MaxDistance: 5,
		MaxResults:  3,
	})
}
