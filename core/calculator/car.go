package calculator

import (
	"context"
	"fmt"
)

// CarName identifies the car calculator in a registry.
const CarName = "car_calculator"

// Average use of private vehicles in France (SOeS / ADEME Carbon Base):
// 205 g CO2 per km.
const carKgPerKm = 0.205

// CarRequest asks for the emissions of a car trip. Fuel and car type are
// informational for now; the estimate uses the average fleet figure.
type CarRequest struct {
	DistanceKm   float64 `json:"distance"`
	FuelType     string  `json:"fuel_type"`
	CarType      string  `json:"car_type"`
	Taxi         bool    `json:"taxi"`
	ConsumptionL float64 `json:"consumption"`
}

// Validate checks the request.
func (r CarRequest) Validate() error {
	if r.DistanceKm <= 0 || r.DistanceKm >= 10000 {
		return fmt.Errorf("distance must be in (0,10000) km, got %v", r.DistanceKm)
	}
	if r.ConsumptionL < 0 || r.ConsumptionL >= 50 {
		return fmt.Errorf("consumption must be in [0,50) l/100km, got %v", r.ConsumptionL)
	}
	return nil
}

// CarResponse is the car calculator result.
type CarResponse struct {
	TotalCarbonKg float64 `json:"total_carbon_kg"`
}

// ComputeCar calculates CO2 emissions for a car trip.
func ComputeCar(_ context.Context, req CarRequest) (CarResponse, error) {
	return CarResponse{TotalCarbonKg: carKgPerKm * req.DistanceKm}, nil
}

// NewCarDescriptor builds the car calculator descriptor.
func NewCarDescriptor() *Descriptor {
	reqSchema := map[string]any{
		"title": "Car Calculator Request",
		"type":  "object",
		"properties": map[string]any{
			"distance":    map[string]any{"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 10000},
			"fuel_type":   map[string]any{"type": "string"},
			"car_type":    map[string]any{"type": "string"},
			"taxi":        map[string]any{"type": "boolean"},
			"consumption": map[string]any{"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 50},
		},
		"required": []string{"distance", "taxi"},
	}
	respSchema := map[string]any{
		"title": "Car Calculator Response",
		"type":  "object",
		"properties": map[string]any{
			"total_carbon_kg": map[string]any{"type": "number", "minimum": 0},
		},
	}
	return New(CarName, "/car", reqSchema, respSchema, ComputeCar,
		func(resp CarResponse) float64 { return resp.TotalCarbonKg })
}
