package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirill-demidov/gcp-cost-agent/internal/cli"
	"github.com/kirill-demidov/gcp-cost-agent/internal/source"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import a billing export CSV into the warehouse",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result := source.ParseFile(args[0])
	if result.Err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], result.Err)
	}
	if len(result.Records) == 0 {
		return fmt.Errorf("no usable rows in %s (%d malformed)", args[0], result.ParseErrors)
	}

	if err := rt.warehouse.Insert(cmd.Context(), result.Records); err != nil {
		return fmt.Errorf("importing records: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s records", cli.FormatNumber(int64(len(result.Records))))
	if result.ParseErrors > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d malformed rows skipped)", result.ParseErrors)
	}
	fmt.Fprintln(cmd.OutOrStdout())

	months, err := rt.warehouse.Months(cmd.Context())
	if err == nil && len(months) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Warehouse now covers %s – %s (%d months)\n",
			months[0], months[len(months)-1], len(months))
	}
	return nil
}
