package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cdmasterk/orcafx/internal/excel"
	"github.com/cdmasterk/orcafx/internal/pricing"
)

var exportQuery string

var importComponentsCmd = &cobra.Command{
	Use:   "import-components <file.xlsx|file.csv>",
	Short: "Import component prices from an Excel workbook or CSV file",
	Long: `Import component prices (diamonds, pearls, coral and other parts) from
an xlsx workbook or a CSV export. In a workbook the "components" sheet is read
when present, otherwise the first sheet. CSV files may be UTF-8 or
Windows-1250 and use comma, semicolon or tab delimiters. Rows that fail
validation are reported and skipped.`,
	Example: `  orca-pricing import-components price-list.xlsx
  orca-pricing import-components supplier-export.csv`,
	Args:    cobra.ExactArgs(1),
	RunE:    runImportComponents,
}

var exportPricesCmd = &cobra.Command{
	Use:   "export-prices <out.xlsx>",
	Short: "Export current prices to an Excel workbook",
	Example: `  orca-pricing export-prices prices.xlsx
  orca-pricing export-prices rings.xlsx --q RING`,
	Args: cobra.ExactArgs(1),
	RunE: runExportPrices,
}

func init() {
	rootCmd.AddCommand(importComponentsCmd, exportPricesCmd)

	exportPricesCmd.Flags().StringVar(&exportQuery, "q", "", "Only export products whose code or key contains this text")
}

func runImportComponents(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	parsed, err := excel.ParseComponentPriceFile(args[0], f)
	if err != nil {
		return err
	}

	store := newServices(0).store
	for i := range parsed.Prices {
		if err := store.CreateComponentPrice(cmd.Context(), &parsed.Prices[i]); err != nil {
			return fmt.Errorf("import row %d: %w", i+1, err)
		}
	}

	logger.Info().
		Int("imported", len(parsed.Prices)).
		Int("skipped", len(parsed.Errors)).
		Msg("Component prices imported")

	if len(parsed.Errors) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ROW\tERROR")
		fmt.Fprintln(w, "---\t-----")
		for _, e := range parsed.Errors {
			fmt.Fprintf(w, "%d\t%s\n", e.Row, e.Message)
		}
		w.Flush()
	}
	return nil
}

func runExportPrices(cmd *cobra.Command, args []string) error {
	store := newServices(0).store

	var (
		snaps []pricing.Snapshot
		err   error
	)
	if exportQuery != "" {
		snaps, err = store.SearchCurrent(cmd.Context(), exportQuery, 0)
	} else {
		snaps, err = store.ActiveSnapshots(cmd.Context())
	}
	if err != nil {
		return err
	}

	out, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create %s: %w", args[0], err)
	}
	if err := excel.WriteCurrentPrices(out, snaps); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	logger.Info().Int("products", len(snaps)).Str("file", args[0]).Msg("Current prices exported")
	return nil
}
