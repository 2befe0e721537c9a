package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maelqr/ecomeet/core/aggregate"
	"github.com/maelqr/ecomeet/core/calculator"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	reg := calculator.NewRegistry()
	for _, d := range []*calculator.Descriptor{
		calculator.NewFlightDescriptor(),
		calculator.NewTrainDescriptor(),
		calculator.NewCarDescriptor(),
		calculator.NewOnlineDescriptor(),
		calculator.NewComparisonDescriptor(),
	} {
		if err := reg.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.Name, err)
		}
	}
	eng, err := aggregate.NewEngine(reg, nil, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return NewMux(reg, eng, nil, nil)
}

func TestCarEndpoint(t *testing.T) {
	mux := newTestMux(t)
	body := `{"distance": 100, "taxi": false}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/car", strings.NewReader(body))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out calculator.CarResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(out.TotalCarbonKg-20.5) > 1e-9 {
		t.Fatalf("expected 20.5 kg for 100 km, got %v", out.TotalCarbonKg)
	}
}

func TestCarEndpointInvalidPayload(t *testing.T) {
	mux := newTestMux(t)
	body := `{"distance": -5, "taxi": false}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/car", strings.NewReader(body))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
	var out struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Errors) == 0 {
		t.Fatalf("expected field errors in response")
	}
}

func TestCalculatorEndpointMethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/train", nil)
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestAggregatorEndpoint(t *testing.T) {
	mux := newTestMux(t)
	body := `{
        "cost_paths": [{
            "title": "Trip",
            "cost_items": [
                {"module": "car_calculator", "properties": {"distance": 100, "taxi": false}},
                {"module": "train_calculator", "properties": {"distance": 100, "railway_company": "SNCF", "train_type": "TGV"}}
            ]
        }]
    }`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/cost-aggregator", strings.NewReader(body))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out aggregate.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 100 km by car (20.5) plus 100 km by TGV (0.32).
	if math.Abs(out.TotalCarbonKg()-20.82) > 1e-9 {
		t.Fatalf("expected 20.82 kg, got %v", out.TotalCarbonKg())
	}
}

func TestAggregatorEndpointValidationFailure(t *testing.T) {
	mux := newTestMux(t)
	body := `{
        "cost_paths": [{
            "title": "Trip",
            "cost_items": [
                {"module": "car_calculator", "properties": {"distance": 100, "taxi": false}},
                {"module": "no_such_calculator", "properties": {}}
            ]
        }]
    }`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/cost-aggregator", strings.NewReader(body))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Failures []aggregate.ItemFailure `json:"failures"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Failures) != 1 || out.Failures[0].Kind != aggregate.FailureUnknownCalculator {
		t.Fatalf("unexpected failures %#v", out.Failures)
	}
}

func TestModulesEndpoint(t *testing.T) {
	mux := newTestMux(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/modules", nil)
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []calculator.Interface
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 5 {
		t.Fatalf("expected 5 module descriptions, got %d", len(out))
	}
	if out[0].Request["title"] != "Flight Calculator Request" {
		t.Fatalf("expected stable registration order, got %v", out[0].Request["title"])
	}
}

func TestHealthz(t *testing.T) {
	mux := newTestMux(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthz", nil)
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
}
