package calculator

import (
	"context"
	"math"
	"testing"

	"github.com/maelqr/ecomeet/core/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeFlightRoundTripDoublesDistance(t *testing.T) {
	stage := FlightStage{
		Start: model.GeoCoordinates{Lon: 8.55, Lat: 47.37},  // Zurich
		End:   model.GeoCoordinates{Lon: 13.41, Lat: 52.52}, // Berlin
	}
	oneWay := stage
	oneWay.OneWay = true

	rt, err := ComputeFlight(context.Background(), FlightRequest{Stages: []FlightStage{stage}})
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	ow, err := ComputeFlight(context.Background(), FlightRequest{Stages: []FlightStage{oneWay}})
	if err != nil {
		t.Fatalf("one way: %v", err)
	}
	if !almostEqual(rt.TotalCarbonKg, 2*ow.TotalCarbonKg) {
		t.Fatalf("round trip %v should be twice one way %v", rt.TotalCarbonKg, ow.TotalCarbonKg)
	}
	// Zurich-Berlin is roughly 670 km great circle.
	if d := ow.Stages[0].DistanceKm; d < 600 || d > 750 {
		t.Fatalf("implausible Zurich-Berlin distance %v km", d)
	}
	perKm := flightCarbonIntensityKgPerKm * flightNonCO2Scaling * flightDistanceScaling
	if !almostEqual(ow.TotalCarbonKg, ow.Stages[0].DistanceKm*perKm) {
		t.Fatalf("carbon %v does not match distance %v", ow.TotalCarbonKg, ow.Stages[0].DistanceKm)
	}
}

func TestFlightRequestValidate(t *testing.T) {
	if err := (FlightRequest{}).Validate(); err == nil {
		t.Fatal("expected error for empty stages")
	}
	bad := FlightRequest{Stages: []FlightStage{{Start: model.GeoCoordinates{Lat: 91}}}}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for out-of-range latitude")
	}
}

func TestComputeTrain(t *testing.T) {
	cases := []struct {
		name   string
		req    TrainRequest
		wantKg float64
	}{
		{"sncf tgv", TrainRequest{DistanceKm: 500, RailwayCompany: "SNCF", TrainType: "TGV"}, 3.2 / 1000 * 500},
		{"sbb", TrainRequest{DistanceKm: 100, RailwayCompany: "SBB/CFF/FFS"}, 7.0 / 1000 * 100},
		{"unknown falls back", TrainRequest{DistanceKm: 100, RailwayCompany: "DB", TrainType: "ICE"}, 10.0 / 1000 * 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := ComputeTrain(context.Background(), tc.req)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			if !almostEqual(resp.TotalCarbonKg, tc.wantKg) {
				t.Fatalf("expected %v kg, got %v", tc.wantKg, resp.TotalCarbonKg)
			}
		})
	}
}

func TestComputeCar(t *testing.T) {
	resp, err := ComputeCar(context.Background(), CarRequest{DistanceKm: 100, Taxi: false})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !almostEqual(resp.TotalCarbonKg, 20.5) {
		t.Fatalf("expected 20.5 kg for 100 km, got %v", resp.TotalCarbonKg)
	}
}

func TestComputeOnlineDefaultsToOneLaptopPerParticipant(t *testing.T) {
	resp, err := ComputeOnline(context.Background(), OnlineRequest{TotalParticipants: 3})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(resp.Devices) != 3 {
		t.Fatalf("expected 3 devices, got %d", len(resp.Devices))
	}
	band := deviceEmissions[defaultDevice]
	if !almostEqual(resp.TotalEmissions.Low, 3*band.Low) || !almostEqual(resp.TotalEmissions.High, 3*band.High) {
		t.Fatalf("unexpected band %+v", resp.TotalEmissions)
	}
	want := (resp.TotalEmissions.Low + resp.TotalEmissions.High) / 2
	if !almostEqual(OnlineCarbonKg(resp), want) {
		t.Fatalf("expected mean %v, got %v", want, OnlineCarbonKg(resp))
	}
}

func TestOnlineRequestValidate(t *testing.T) {
	if err := (OnlineRequest{}).Validate(); err == nil {
		t.Fatal("expected error for zero participants")
	}
	bad := OnlineRequest{TotalParticipants: 1, DeviceList: []string{"toaster"}}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for unknown device")
	}
}

func TestComputeComparison(t *testing.T) {
	resp, err := ComputeComparison(context.Background(), ComparisonRequest{TotalCarbonKg: 1000})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(resp.Comparisons) != len(comparisonFactors) {
		t.Fatalf("expected %d comparisons, got %d", len(comparisonFactors), len(resp.Comparisons))
	}
	if !almostEqual(resp.Comparisons[0].Value, 1000*0.00015625) {
		t.Fatalf("unexpected capita equivalent %v", resp.Comparisons[0].Value)
	}
	d := NewComparisonDescriptor()
	if got := d.ExtractCarbonKg(resp); got != 0 {
		t.Fatalf("comparison must not contribute carbon, got %v", got)
	}
}
