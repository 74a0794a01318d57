// Schema Generator
//
// Generates JSON Schema files from the pricing API request and response
// types, for clients that validate or generate code from them.
//
// Usage:
//
//	go run ./cmd/schema-gen [output-dir]
//
// Output (default ./schemas):
//
//	pricing.json
//	reference.json
//	price-sheets.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/cdmasterk/orcafx/internal/excel"
	"github.com/cdmasterk/orcafx/internal/handlers"
	"github.com/cdmasterk/orcafx/internal/pricing"
	"github.com/cdmasterk/orcafx/internal/recalc"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func main() {
	outputDir := "schemas"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	groups := []SchemaGroup{
		{
			Name: "pricing",
			Types: []any{
				handlers.CreateRuleRequest{},
				pricing.Attributes{},
				pricing.Rule{},
				handlers.PreviewResponse{},
			},
			Output: "pricing.json",
		},
		{
			Name: "reference",
			Types: []any{
				handlers.CreateComponentPriceRequest{},
				handlers.ComponentPriceResponse{},
				handlers.ImportComponentsResponse{},
				excel.RowError{},
				handlers.CreateTaxRateRequest{},
				pricing.TaxRate{},
				handlers.CreateCategoryRequest{},
				pricing.Category{},
				handlers.CreateCollectionRequest{},
				pricing.Collection{},
			},
			Output: "reference.json",
		},
		{
			Name: "price-sheets",
			Types: []any{
				pricing.CalculateInput{},
				handlers.RecalculateRequest{},
				handlers.CalculateResponse{},
				handlers.SnapshotResponse{},
				handlers.WarningResponse{},
				recalc.Report{},
				pricing.RecalcLog{},
				handlers.MetalPriceResponse{},
				handlers.RefreshMetalsResponse{},
			},
			Output: "price-sheets.json",
		},
	}

	for _, group := range groups {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

// decimalSchema describes decimal.Decimal, which marshals as a quoted number.
func decimalSchema(t reflect.Type) *jsonschema.Schema {
	if t != decimalType {
		return nil
	}
	return &jsonschema.Schema{
		Type:    "string",
		Pattern: `^-?\d+(\.\d+)?$`,
	}
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: false,
		Mapper:         decimalSchema,
	}

	definitions := make(map[string]any)
	for _, t := range group.Types {
		schema := reflector.Reflect(t)

		// $ref looks like "#/$defs/CalculateInput"
		typeName := ""
		if schema.Ref != "" {
			typeName = filepath.Base(schema.Ref)
		}

		for name, def := range schema.Definitions {
			definitions[name] = def
		}
		if typeName != "" && schema.Definitions[typeName] != nil {
			definitions[typeName] = schema.Definitions[typeName]
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://orca.hr/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
