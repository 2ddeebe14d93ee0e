package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirill-demidov/gcp-cost-agent/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config file:       %s", config.ConfigPath())
	if !config.Exists() {
		fmt.Fprint(out, " (not created yet, using defaults)")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "gemini key:        %s\n", maskKey(config.GetGeminiKey(cfg)))
	fmt.Fprintf(out, "gemini model:      %s\n", cfg.Gemini.Model)
	fmt.Fprintf(out, "warehouse:         %s\n", config.WarehousePath(cfg))
	fmt.Fprintf(out, "anomaly window:    %d months\n", cfg.Analytics.AnomalyWindow)
	fmt.Fprintf(out, "anomaly threshold: %.1f sigma\n", cfg.Analytics.AnomalyThreshold)
	fmt.Fprintf(out, "forecast horizon:  %d months\n", cfg.Analytics.ForecastHorizon)
	fmt.Fprintf(out, "top k:             %d\n", cfg.Analytics.TopK)
	fmt.Fprintf(out, "session ttl:       %d minutes\n", cfg.Session.TTLMinutes)
	return nil
}

func maskKey(key string) string {
	if key == "" {
		return "(not set, rule-based parsing only)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
