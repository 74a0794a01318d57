package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/recalc"
)

var (
	previewCategory   string
	previewCollection string
	previewCollName   string
	previewBrand      string
	previewPurity     string

	calculateInput  string
	calculateDryRun bool

	recalcAll         bool
	recalcInput       string
	recalcConcurrency int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show which pricing rule applies to product attributes",
	Example: `  orca-pricing preview --category rings --purity 585
  orca-pricing preview --collection-name "Classic Gold" --brand orca`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate a price sheet from a JSON costing input",
	Long: `Calculate a product's price sheet from a JSON costing input and store it as
the product's current price sheet. With --dry-run the result is printed but
not stored.`,
	Example: `  orca-pricing calculate --input ring.json
  orca-pricing calculate --input ring.json --dry-run`,
	Args: cobra.NoArgs,
	RunE: runCalculate,
}

var recalcCmd = &cobra.Command{
	Use:   "recalc",
	Short: "Recalculate many price sheets",
	Long: `Recalculate the costing inputs in a JSON array file, or with --all every
product that has a current price sheet, using the latest metal price. A
recalculation log row is written either way.`,
	Example: `  orca-pricing recalc --all --concurrency 4
  orca-pricing recalc --input products.json`,
	Args: cobra.NoArgs,
	RunE: runRecalc,
}

func init() {
	rootCmd.AddCommand(previewCmd, calculateCmd, recalcCmd)

	previewCmd.Flags().StringVar(&previewCategory, "category", "", "Category ID")
	previewCmd.Flags().StringVar(&previewCollection, "collection", "", "Collection ID")
	previewCmd.Flags().StringVar(&previewCollName, "collection-name", "", "Collection name, for rules scoped by name")
	previewCmd.Flags().StringVar(&previewBrand, "brand", "", "Brand")
	previewCmd.Flags().StringVar(&previewPurity, "purity", "", "Purity label, e.g. 585 or 925")

	calculateCmd.Flags().StringVar(&calculateInput, "input", "", "Path to a JSON costing input")
	calculateCmd.Flags().BoolVar(&calculateDryRun, "dry-run", false, "Print the price sheet without storing it")
	_ = calculateCmd.MarkFlagRequired("input")

	recalcCmd.Flags().BoolVar(&recalcAll, "all", false, "Recalculate every product with a current price sheet")
	recalcCmd.Flags().StringVar(&recalcInput, "input", "", "Path to a JSON array of costing inputs")
	recalcCmd.Flags().IntVar(&recalcConcurrency, "concurrency", 0, "Products recalculated in parallel (defaults to pricing.recalc_concurrency)")
	recalcCmd.MarkFlagsMutuallyExclusive("all", "input")
	recalcCmd.MarkFlagsOneRequired("all", "input")
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func runPreview(cmd *cobra.Command, args []string) error {
	attrs := pricing.Attributes{
		CategoryID:     optional(previewCategory),
		CollectionID:   optional(previewCollection),
		CollectionName: optional(previewCollName),
		Brand:          optional(previewBrand),
		Purity:         optional(previewPurity),
	}

	res, err := newServices(0).calc.Preview(cmd.Context(), attrs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "RULE\t%s\n", res.RuleLabel())
	fmt.Fprintf(w, "NAME\t%s\n", res.Rule.Name)
	fmt.Fprintf(w, "SPECIFICITY\t%d\n", res.Specificity)
	fmt.Fprintf(w, "MARGIN WHOLESALE\t%s\n", res.Rule.MarginWholesale.String())
	fmt.Fprintf(w, "MARGIN RETAIL\t%s\n", res.Rule.MarginRetail.String())
	return w.Flush()
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func runCalculate(cmd *cobra.Command, args []string) error {
	var in pricing.CalculateInput
	if err := readJSON(calculateInput, &in); err != nil {
		return err
	}

	svc := newServices(0)
	var (
		res *pricing.Result
		err error
	)
	if calculateDryRun {
		res, err = svc.calc.Quote(cmd.Context(), in)
	} else {
		res, err = svc.calc.Calculate(cmd.Context(), in)
	}
	if err != nil {
		return err
	}

	for _, warning := range res.Warnings {
		logger.Warn().Msg(warning.Message())
	}
	displaySnapshot(res.Snapshot, !calculateDryRun)
	return nil
}

func displaySnapshot(s *pricing.Snapshot, stored bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "PRODUCT\t%s\n", s.ProductKey)
	fmt.Fprintf(w, "RULE\t%s (%s)\n", s.RuleName, s.RuleID)
	fmt.Fprintf(w, "METAL COST\t%s\n", pricing.FormatMoney(s.MetalCost))
	fmt.Fprintf(w, "STONE COST\t%s\n", pricing.FormatMoney(s.StoneCost))
	fmt.Fprintf(w, "PEARL COST\t%s\n", pricing.FormatMoney(s.PearlCost))
	fmt.Fprintf(w, "CORAL COST\t%s\n", pricing.FormatMoney(s.CoralCost))
	fmt.Fprintf(w, "OTHER COST\t%s\n", pricing.FormatMoney(s.OtherCost))
	fmt.Fprintf(w, "LABOR COST\t%s\n", pricing.FormatMoney(s.LaborCost))
	fmt.Fprintf(w, "NET COST\t%s\n", pricing.FormatMoney(s.NetCost))
	fmt.Fprintf(w, "WHOLESALE NET\t%s\n", pricing.FormatMoney(s.WholesaleNet))
	fmt.Fprintf(w, "RETAIL NET\t%s\n", pricing.FormatMoney(s.RetailNet))
	fmt.Fprintf(w, "RETAIL GROSS\t%s (%s %s)\n", pricing.FormatMoney(s.RetailGross), s.TaxCountry, s.TaxRate.String())
	if stored {
		fmt.Fprintf(w, "SNAPSHOT\t%s\n", s.ID)
	} else {
		fmt.Fprintln(w, "SNAPSHOT\tnot stored (dry run)")
	}
	w.Flush()
}

func runRecalc(cmd *cobra.Command, args []string) error {
	svc := newServices(recalcConcurrency)

	var (
		report *recalc.Report
		err    error
	)
	if recalcAll {
		report, err = svc.runner.RunAll(cmd.Context(), TriggeredByCLI)
	} else {
		var inputs []pricing.CalculateInput
		if err := readJSON(recalcInput, &inputs); err != nil {
			return err
		}
		report, err = svc.runner.Run(cmd.Context(), inputs, TriggeredByCLI)
	}
	if report == nil {
		return err
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to write recalculation log")
	}

	displayReport(report)
	if !report.Success() {
		return fmt.Errorf("%d products failed to recalculate", len(report.Failed))
	}
	return nil
}

func displayReport(r *recalc.Report) {
	fmt.Printf("Run %s: %d recalculated, %d failed in %s\n",
		r.RunID, r.Succeeded, len(r.Failed), r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))

	if len(r.Failed) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tERROR")
	fmt.Fprintln(w, "-------\t-----")
	for _, f := range r.Failed {
		fmt.Fprintf(w, "%s\t%s\n", f.ProductKey, f.Error)
	}
	w.Flush()
}
