// Package excel reads component price lists from Excel workbooks and CSV
// exports, and writes current prices to Excel workbooks.
package excel

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cdmasterk/orcafx/internal/pricing"
)

// ComponentsSheet is preferred over the first sheet when present.
const ComponentsSheet = "components"

// RowError describes a row that could not be imported. Row is 1-based.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ComponentImport is the result of parsing a component price workbook.
type ComponentImport struct {
	Prices []pricing.ComponentPrice `json:"prices"`
	Errors []RowError               `json:"errors"`
}

var headerAliases = map[string]string{
	"component_type": "component_type",
	"type":           "component_type",
	"quality":        "quality",
	"unit":           "unit",
	"price_per_unit": "price_per_unit",
	"price":          "price_per_unit",
}

var requiredColumns = []string{"component_type", "price_per_unit"}

// ParseComponentPrices reads component price rows from an xlsx workbook.
// Rows that fail validation are reported and skipped; the rest are returned.
func ParseComponentPrices(r io.Reader) (*ComponentImport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := selectSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	return parseComponentRows(fmt.Sprintf("worksheet %q", sheet), rows)
}

// parseComponentRows maps the header row of rows to price fields and parses
// the data rows below it. source names the rows in errors.
func parseComponentRows(source string, rows [][]string) (*ComponentImport, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", source)
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		if field, ok := headerAliases[pricing.FoldKey(h)]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	for _, field := range requiredColumns {
		if _, ok := columns[field]; !ok {
			return nil, fmt.Errorf("%s has no %s column", source, field)
		}
	}

	result := &ComponentImport{
		Prices: []pricing.ComponentPrice{},
		Errors: []RowError{},
	}
	for i := 1; i < len(rows); i++ {
		raw := rows[i]
		if isEmptyRow(raw) {
			continue
		}
		price, err := parseComponentRow(raw, columns)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		result.Prices = append(result.Prices, price)
	}
	return result, nil
}

func selectSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	for _, name := range sheets {
		if pricing.FoldKey(name) == ComponentsSheet {
			return name, nil
		}
	}
	return sheets[0], nil
}

func parseComponentRow(raw []string, columns map[string]int) (pricing.ComponentPrice, error) {
	get := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(raw) {
			return ""
		}
		return strings.TrimSpace(raw[idx])
	}

	p := pricing.ComponentPrice{
		ComponentType: pricing.ComponentType(pricing.FoldKey(get("component_type"))),
		Unit:          pricing.Unit(pricing.FoldKey(get("unit"))),
	}
	if !p.ComponentType.Valid() {
		return p, fmt.Errorf("unknown component type %q", get("component_type"))
	}
	if p.Unit == "" {
		p.Unit = pricing.UnitPieces
	}
	if !p.Unit.Valid() {
		return p, fmt.Errorf("unknown unit %q", get("unit"))
	}

	quality := get("quality")
	p.Quality = pricing.NormalizeLabel(&quality)

	price, err := ParseAmount(get("price_per_unit"))
	if err != nil {
		return p, fmt.Errorf("invalid price_per_unit: %w", err)
	}
	if price.IsNegative() {
		return p, fmt.Errorf("price_per_unit must not be negative")
	}
	p.PricePerUnit = price
	return p, nil
}

var currencySymbols = regexp.MustCompile(`[€$£\s]|EUR`)

// ParseAmount parses a money amount in either 1.234,56 or 1,234.56 notation.
func ParseAmount(value string) (decimal.Decimal, error) {
	cleaned := currencySymbols.ReplaceAllString(value, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	if lastComma > lastDot {
		// European format: 1.234,56 -> comma is decimal
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else if lastDot > lastComma {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", value)
	}
	return d, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
