package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initForce bool

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a catalog.yml configuration file",
		Long: `Create a catalog.yml in the current directory through interactive
prompts: where the catalog index and payloads live, which cache
backend to use, and an optional search service.`,
		RunE: runInit,
	}

	cmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing catalog.yml")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)

	if _, err := os.Stat("catalog.yml"); err == nil && !initForce {
		return fmt.Errorf("catalog.yml already exists (use --force to overwrite)")
	}

	answers := struct {
		Source    string
		Location  string
		IndexKind string
		IndexPath string
		Cache     string
		RedisAddr string
		SearchURL string
	}{}

	questions := []*survey.Question{
		{
			Name: "source",
			Prompt: &survey.Select{
				Message: "Where do payloads come from?",
				Options: []string{"local directory", "remote URL"},
				Default: "local directory",
			},
		},
		{
			Name: "location",
			Prompt: &survey.Input{
				Message: "Catalog location (directory or URL):",
			},
			Validate: survey.Required,
		},
		{
			Name: "indexKind",
			Prompt: &survey.Select{
				Message: "Index format:",
				Options: []string{"sqlite database", "yaml/json file"},
				Default: "sqlite database",
			},
		},
		{
			Name: "indexPath",
			Prompt: &survey.Input{
				Message: "Index path:",
			},
			Validate: survey.Required,
		},
		{
			Name: "cache",
			Prompt: &survey.Select{
				Message: "Payload cache backend:",
				Options: []string{"memory", "redis", "none"},
				Default: "memory",
			},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	if answers.Cache == "redis" {
		prompt := &survey.Input{
			Message: "Redis address:",
			Default: "localhost:6379",
		}
		if err := survey.AskOne(prompt, &answers.RedisAddr); err != nil {
			return err
		}
	}

	searchPrompt := &survey.Input{
		Message: "Search service URL (optional):",
		Help:    "Leave empty to search the local index only",
	}
	if err := survey.AskOne(searchPrompt, &answers.SearchURL); err != nil {
		return err
	}

	cfg := map[string]any{
		"catalog": map[string]any{},
		"cache":   map[string]any{"backend": answers.Cache},
	}

	catalogCfg := cfg["catalog"].(map[string]any)
	if answers.Source == "remote URL" {
		catalogCfg["remote_url"] = answers.Location
	} else {
		catalogCfg["dir"] = answers.Location
	}
	if answers.IndexKind == "sqlite database" {
		catalogCfg["index_db"] = answers.IndexPath
	} else {
		catalogCfg["index_file"] = answers.IndexPath
	}
	if answers.Cache == "redis" {
		cfg["cache"].(map[string]any)["redis"] = map[string]any{"addr": answers.RedisAddr}
	}
	if answers.SearchURL != "" {
		cfg["search"] = map[string]any{"url": answers.SearchURL, "index": "catalog"}
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	if err := os.WriteFile("catalog.yml", out, 0644); err != nil {
		return fmt.Errorf("failed to write catalog.yml: %w", err)
	}

	infoColor.Println("  ✓ Created catalog.yml")
	fmt.Println()
	successColor.Println("✓ Catalog configured")
	fmt.Println()
	fmt.Println("Try it:")
	fmt.Println("  catalog search population")

	return nil
}
