package calculator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ComparisonName identifies the comparison calculator in a registry.
const ComparisonName = "comparison_calculator"

type comparisonFactor struct {
	comparison  string
	factorPerKg float64
	description string
}

// Equivalence factors from the Swiss Climate factsheet on one tonne of CO2.
// Descriptions continue the sentence "This is equivalent to ", with /X
// replaced by the computed value.
var comparisonFactors = []comparisonFactor{
	{
		comparison:  "Swiss capita equivalent",
		factorPerKg: 0.00015625, // 6.4 t CO2 per Swiss capita per year
		description: "how much CO2 /X average Swiss person cause per year.",
	},
	{
		comparison:  "Swiss grey emissions capita equivalent",
		factorPerKg: 0.0000735294, // 13.6 t CO2 per Swiss capita per year
		description: "how much CO2 /X average Swiss person (including grey emissions) cause per year.",
	},
	{
		comparison:  "Swiss tree equivalent",
		factorPerKg: 0.08, // 12.5 kg CO2 bound per Swiss beech tree per year
		description: "how much CO2 /X average Swiss beech trees bind per year.",
	},
	{
		comparison:  "Swiss beef equivalent",
		factorPerKg: 0.08, // 80 kg beef production creates 1 t CO2
		description: "how much CO2 is caused by the production of /X kg Swiss beef.",
	},
}

// ComparisonRequest asks for tangible equivalents of an amount of CO2.
type ComparisonRequest struct {
	TotalCarbonKg float64 `json:"total_carbon_kg"`
}

// Validate checks the request.
func (r ComparisonRequest) Validate() error {
	if r.TotalCarbonKg < 0 {
		return fmt.Errorf("total_carbon_kg must not be negative, got %v", r.TotalCarbonKg)
	}
	return nil
}

// ComparisonItem is one equivalence.
type ComparisonItem struct {
	Comparison  string  `json:"comparison"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// ComparisonResponse is the comparison calculator result.
type ComparisonResponse struct {
	Comparisons []ComparisonItem `json:"comparisons"`
}

// ComputeComparison translates a CO2 amount into everyday equivalents. The
// comparison itself carries no footprint.
func ComputeComparison(_ context.Context, req ComparisonRequest) (ComparisonResponse, error) {
	resp := ComparisonResponse{Comparisons: make([]ComparisonItem, 0, len(comparisonFactors))}
	for _, f := range comparisonFactors {
		value := req.TotalCarbonKg * f.factorPerKg
		resp.Comparisons = append(resp.Comparisons, ComparisonItem{
			Comparison: f.comparison,
			Value:      value,
			Description: "This is equivalent to " +
				strings.ReplaceAll(f.description, "/X", strconv.FormatFloat(value, 'f', -1, 64)),
		})
	}
	return resp, nil
}

// NewComparisonDescriptor builds the comparison calculator descriptor.
func NewComparisonDescriptor() *Descriptor {
	reqSchema := map[string]any{
		"title": "Comparison Calculator Request",
		"type":  "object",
		"properties": map[string]any{
			"total_carbon_kg": map[string]any{"type": "number", "minimum": 0},
		},
		"required": []string{"total_carbon_kg"},
	}
	respSchema := map[string]any{
		"title": "Comparison Calculator Response",
		"type":  "object",
		"properties": map[string]any{
			"comparisons": map[string]any{"type": "array"},
		},
	}
	return New(ComparisonName, "/comparison", reqSchema, respSchema, ComputeComparison,
		func(ComparisonResponse) float64 { return 0 })
}
