package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/kirill-demidov/gcp-cost-agent/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	apiKey := cfg.Gemini.APIKey
	modelName := cfg.Gemini.Model
	dbPath := config.WarehousePath(cfg)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				Description("Used for natural-language understanding. Leave blank to run on the built-in rule-based parser only.").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewSelect[string]().
				Title("Gemini model").
				Options(
					huh.NewOption("gemini-2.0-flash (fast, default)", "gemini-2.0-flash"),
					huh.NewOption("gemini-2.5-flash-lite", "gemini-2.5-flash-lite"),
					huh.NewOption("gemini-2.5-pro", "gemini-2.5-pro"),
				).
				Value(&modelName),
			huh.NewInput().
				Title("Billing warehouse path").
				Description("SQLite database holding imported billing exports.").
				Value(&dbPath),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Gemini.APIKey = apiKey
	cfg.Gemini.Model = modelName
	cfg.Warehouse.Path = dbPath

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", config.ConfigPath())
	fmt.Fprintln(cmd.OutOrStdout(), "Next: import a billing export with `gcp-cost-agent import <file.csv>`, then `gcp-cost-agent chat`.")
	return nil
}
