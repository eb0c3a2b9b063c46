package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/owid/catalog-go/internal/cli/config"
)

var inspectFormat string

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "Show the metadata of a catalog entry",
		Long: `Show the metadata of a catalog entry without downloading its data.

The entry is resolved and printed as YAML: title, descriptions, unit,
license, origins and presentation settings, plus the column list for
tables.

Examples:
  catalog inspect life-expectancy
  catalog inspect garden/un/2024-07-12/un_wpp/population#population --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().StringVarP(&inspectFormat, "format", "f", "yaml", "Output format (yaml, json)")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	rawPath := args[0]

	if inspectFormat != "yaml" && inspectFormat != "json" {
		return fmt.Errorf("unknown format %q (expected yaml or json)", inspectFormat)
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

	// Metadata only: the payload store is never touched.
	res, err := c.Fetch(cmd.Context(), rawPath, false)
	if err != nil {
		return fetchError(cmd, c, rawPath, err)
	}

	meta := res.Metadata()

	if inspectFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	out, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to render metadata: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
