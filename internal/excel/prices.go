package excel

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cdmasterk/orcafx/internal/pricing"
)

// PricesSheet is the name of the exported worksheet.
const PricesSheet = "Prices"

var priceHeaders = []string{
	"product_code", "product_id", "brand", "purity", "metal", "grams",
	"net_cost", "wholesale_net", "retail_net", "retail_gross",
	"rule_name", "tax_rate", "created_at",
}

// WriteCurrentPrices writes the price sheets as an xlsx workbook to w.
func WriteCurrentPrices(w io.Writer, snapshots []pricing.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PricesSheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}

	header := make([]any, len(priceHeaders))
	for i, h := range priceHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(PricesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(priceHeaders))
	if err := f.SetCellStyle(PricesSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, s := range snapshots {
		row := []any{
			deref(s.ProductCode),
			deref(s.ProductID),
			deref(s.Brand),
			s.Purity,
			s.Metal,
			s.Grams.InexactFloat64(),
			s.NetCost.InexactFloat64(),
			s.WholesaleNet.InexactFloat64(),
			s.RetailNet.InexactFloat64(),
			s.RetailGross.InexactFloat64(),
			s.RuleName,
			s.TaxRate.InexactFloat64(),
			s.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(PricesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", s.ProductKey, err)
		}
	}

	if len(snapshots) > 0 {
		last := len(snapshots) + 1
		if err := f.SetCellStyle(PricesSheet, "G2", fmt.Sprintf("J%d", last), money); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	if err := f.SetPanes(PricesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
