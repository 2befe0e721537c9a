package calculator

import (
	"context"
	"fmt"
)

// TrainName identifies the train calculator in a registry.
const TrainName = "train_calculator"

// trainDefaultGramsPerKm is used when no company/type specific figure exists.
const trainDefaultGramsPerKm = 10.0

type trainEmission struct {
	company    string
	trainType  string
	gramsPerKm float64
}

// Figures published by SNCF and SBB for CO2 per passenger-kilometer.
var trainEmissions = []trainEmission{
	{"SNCF", "TGV", 3.2},
	{"SNCF", "Intercity", 11.8},
	{"SNCF", "TER", 29.2},
	{"SNCF", "Transilien", 6.4},
	{"SNCF", "Thalys", 11.6},
	{"SNCF", "Eurostar", 11.2},
	{"SNCF", "Elipsos", 27},
	{"SNCF", "Gala", 12},
	{"SNCF", "Alleo", 11.3},
	{"SBB/CFF/FFS", "", 7},
}

// TrainRequest asks for the emissions of a train trip.
type TrainRequest struct {
	DistanceKm     float64 `json:"distance"`
	RailwayCompany string  `json:"railway_company"`
	TrainType      string  `json:"train_type"`
}

// Validate checks the request.
func (r TrainRequest) Validate() error {
	if r.DistanceKm <= 0 || r.DistanceKm >= 10000 {
		return fmt.Errorf("distance must be in (0,10000) km, got %v", r.DistanceKm)
	}
	return nil
}

// TrainResponse is the train calculator result.
type TrainResponse struct {
	TotalCarbonKg float64 `json:"total_carbon_kg"`
}

// ComputeTrain calculates CO2 emissions for a train trip. Unknown
// company/type combinations fall back to an average figure.
func ComputeTrain(_ context.Context, req TrainRequest) (TrainResponse, error) {
	gramsPerKm := trainDefaultGramsPerKm
	for _, t := range trainEmissions {
		if t.company == req.RailwayCompany && t.trainType == req.TrainType {
			gramsPerKm = t.gramsPerKm
		}
	}
	return TrainResponse{TotalCarbonKg: gramsPerKm / 1000 * req.DistanceKm}, nil
}

// NewTrainDescriptor builds the train calculator descriptor.
func NewTrainDescriptor() *Descriptor {
	reqSchema := map[string]any{
		"title": "Train Calculator Request",
		"type":  "object",
		"properties": map[string]any{
			"distance":        map[string]any{"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 10000},
			"railway_company": map[string]any{"type": "string", "enum": []string{"SNCF", "SBB/CFF/FFS", "DB"}},
			"train_type": map[string]any{"type": "string", "enum": []string{
				"TGV", "Intercity", "TER", "Transilien", "Thalys", "Eurostar", "Elipsos", "Gala", "Alleo",
			}},
		},
		"required": []string{"distance"},
	}
	respSchema := map[string]any{
		"title": "Train Calculator Response",
		"type":  "object",
		"properties": map[string]any{
			"total_carbon_kg": map[string]any{"type": "number", "minimum": 0},
		},
	}
	return New(TrainName, "/train", reqSchema, respSchema, ComputeTrain,
		func(resp TrainResponse) float64 { return resp.TotalCarbonKg })
}
