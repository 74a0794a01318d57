package main

import (
	"fmt"

	"github.com/spf13/cobra"

	httpclient "github.com/cdmasterk/orcafx/internal/http"
	"github.com/cdmasterk/orcafx/internal/http/ratelimit"
	"github.com/cdmasterk/orcafx/internal/metals"
)

var fetchMetalsRecalc bool

var fetchMetalsCmd = &cobra.Command{
	Use:   "fetch-metals",
	Short: "Fetch and store the latest gold and silver prices",
	Long: `Fetch the latest gold and silver spot prices from the metal price API and
store them. With --recalc every current price sheet is recalculated against
the new prices.`,
	Example: `  orca-pricing fetch-metals
  orca-pricing fetch-metals --recalc`,
	Args: cobra.NoArgs,
	RunE: runFetchMetals,
}

func init() {
	rootCmd.AddCommand(fetchMetalsCmd)

	fetchMetalsCmd.Flags().BoolVar(&fetchMetalsRecalc, "recalc", false, "Recalculate current price sheets after storing the prices")
}

func runFetchMetals(cmd *cobra.Command, args []string) error {
	svc := newServices(0)
	hc := httpclient.NewClient(ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
		MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
	})
	client := metals.NewClient(hc, cfg.Metals.APIURL, cfg.Metals.APIKey)
	service := metals.NewService(client, svc.store, svc.runner, svc.recorder, logger)

	res, err := service.Refresh(cmd.Context(), fetchMetalsRecalc)
	if res == nil {
		return err
	}

	p := res.Price
	fmt.Printf("Gold:   %s/oz  %s/g\n", p.GoldPerOz.StringFixed(4), p.GoldPerGram.StringFixed(4))
	fmt.Printf("Silver: %s/oz  %s/g\n", p.SilverPerOz.StringFixed(4), p.SilverPerGram.StringFixed(4))
	if res.Recalc != nil {
		displayReport(res.Recalc)
	}
	return err
}
