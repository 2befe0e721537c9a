package calculator

import (
	"context"
	"fmt"
	"math"

	"github.com/maelqr/ecomeet/core/model"
)

// FlightName identifies the flight calculator in a registry.
const FlightName = "flight_calculator"

const (
	// Average carbon intensity of passenger aviation (ICCT, 2018):
	// 88 g CO2 per revenue-passenger-kilometer.
	flightCarbonIntensityKgPerKm = 0.088
	// Multiplier for the non-CO2 climate effects of aviation recommended by
	// the UK government (2018 methodology paper).
	flightNonCO2Scaling = 1.9
	// 8% added to the great-circle distance to account for indirect routing
	// and delays (same source).
	flightDistanceScaling = 1.08

	// Mean Earth radius in kilometers (IUGG).
	earthRadiusKm = 6371.0088
)

// FlightStage is one flight leg. A stage that is not one-way is counted as a
// round trip.
type FlightStage struct {
	OneWay bool                 `json:"one_way"`
	Start  model.GeoCoordinates `json:"start"`
	End    model.GeoCoordinates `json:"end"`
}

// FlightRequest asks for the emissions of a series of flight stages.
type FlightRequest struct {
	Stages []FlightStage `json:"stages"`
}

// Validate checks the request.
func (r FlightRequest) Validate() error {
	if len(r.Stages) == 0 {
		return fmt.Errorf("at least one stage is required")
	}
	for i, s := range r.Stages {
		if err := s.Start.Validate(); err != nil {
			return fmt.Errorf("stage %d start: %w", i, err)
		}
		if err := s.End.Validate(); err != nil {
			return fmt.Errorf("stage %d end: %w", i, err)
		}
	}
	return nil
}

// FlightStageSummary reports the distance and emissions of one stage.
type FlightStageSummary struct {
	Stage      FlightStage `json:"stage"`
	DistanceKm float64     `json:"distance"`
	CarbonKg   float64     `json:"carbon_kg"`
}

// FlightResponse is the flight calculator result.
type FlightResponse struct {
	Stages        []FlightStageSummary `json:"stages"`
	TotalCarbonKg float64              `json:"total_carbon_kg"`
}

// stageDistanceKm returns the great-circle distance of a stage in km,
// doubled for round trips.
func stageDistanceKm(s FlightStage) float64 {
	d := haversineKm(s.Start, s.End)
	if s.OneWay {
		return d
	}
	return d * 2
}

func haversineKm(a, b model.GeoCoordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// ComputeFlight calculates CO2 emissions for a series of flights.
func ComputeFlight(_ context.Context, req FlightRequest) (FlightResponse, error) {
	kgPerKm := flightCarbonIntensityKgPerKm * flightNonCO2Scaling * flightDistanceScaling
	resp := FlightResponse{Stages: make([]FlightStageSummary, 0, len(req.Stages))}
	for _, stage := range req.Stages {
		distance := stageDistanceKm(stage)
		carbon := distance * kgPerKm
		resp.Stages = append(resp.Stages, FlightStageSummary{
			Stage:      stage,
			DistanceKm: distance,
			CarbonKg:   carbon,
		})
		resp.TotalCarbonKg += carbon
	}
	return resp, nil
}

// NewFlightDescriptor builds the flight calculator descriptor.
func NewFlightDescriptor() *Descriptor {
	coordSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"lon": map[string]any{"type": "number"},
			"lat": map[string]any{"type": "number"},
		},
		"required": []string{"lon", "lat"},
	}
	reqSchema := map[string]any{
		"title": "Flight Calculator Request",
		"type":  "object",
		"properties": map[string]any{
			"stages": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"one_way": map[string]any{"type": "boolean"},
						"start":   coordSchema,
						"end":     coordSchema,
					},
					"required": []string{"one_way", "start", "end"},
				},
			},
		},
		"required": []string{"stages"},
	}
	respSchema := map[string]any{
		"title": "Flight Calculator Response",
		"type":  "object",
		"properties": map[string]any{
			"stages":          map[string]any{"type": "array"},
			"total_carbon_kg": map[string]any{"type": "number", "minimum": 0},
		},
	}
	return New(FlightName, "/flight", reqSchema, respSchema, ComputeFlight,
		func(resp FlightResponse) float64 { return resp.TotalCarbonKg })
}
