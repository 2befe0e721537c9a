package aggregate

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/maelqr/ecomeet/core/calculator"
)

// countingRequest is the request shape of the test calculators.
type countingRequest struct {
	Kg float64 `json:"kg"`
}

func (r countingRequest) Validate() error {
	if r.Kg < 0 {
		return fmt.Errorf("kg must not be negative")
	}
	return nil
}

type countingResponse struct {
	Kg float64 `json:"kg"`
}

// newCountingDescriptor returns a calculator echoing its payload and counting
// invocations.
func newCountingDescriptor(name string, invocations *atomic.Int64) *calculator.Descriptor {
	return calculator.New(name, "/"+name, nil, nil,
		func(_ context.Context, req countingRequest) (countingResponse, error) {
			invocations.Add(1)
			return countingResponse{Kg: req.Kg}, nil
		},
		func(resp countingResponse) float64 { return resp.Kg })
}

func newFailingDescriptor(name string) *calculator.Descriptor {
	return calculator.New(name, "/"+name, nil, nil,
		func(_ context.Context, _ countingRequest) (countingResponse, error) {
			return countingResponse{}, fmt.Errorf("boom")
		},
		func(resp countingResponse) float64 { return resp.Kg })
}

func newTestEngine(t *testing.T, descriptors ...*calculator.Descriptor) *Engine {
	t.Helper()
	reg := calculator.NewRegistry()
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.Name, err)
		}
	}
	eng, err := NewEngine(reg, nil, nil)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return eng
}

func item(name string, kg float64) CostItem {
	return CostItem{Calculator: name, Payload: map[string]any{"kg": kg}}
}

func TestAggregateSumsPerPathAndOverall(t *testing.T) {
	var calls atomic.Int64
	eng := newTestEngine(t, newCountingDescriptor("echo", &calls))

	req := Request{Paths: []CostPath{
		{Title: "commute", Items: []CostItem{item("echo", 1.5), item("echo", 2.5)}},
		{Title: "meeting", Items: []CostItem{item("echo", 3)}},
	}}
	resp, err := eng.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(resp.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(resp.Paths))
	}
	if resp.Paths[0].Title != "commute" || resp.Paths[1].Title != "meeting" {
		t.Fatalf("path order not preserved: %+v", resp.Paths)
	}
	if math.Abs(resp.Paths[0].TotalCarbonKg-4) > 1e-9 {
		t.Errorf("commute total: expected 4, got %v", resp.Paths[0].TotalCarbonKg)
	}
	if math.Abs(resp.TotalCarbonKg()-7) > 1e-9 {
		t.Errorf("overall total: expected 7, got %v", resp.TotalCarbonKg())
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 invocations, got %d", calls.Load())
	}
}

func TestAggregateCollectsAllFailuresAndExecutesNothing(t *testing.T) {
	var calls atomic.Int64
	eng := newTestEngine(t, newCountingDescriptor("echo", &calls))

	req := Request{Paths: []CostPath{
		{Title: "broken", Items: []CostItem{
			item("echo", 1),
			{Calculator: "missing", Payload: map[string]any{}},
			{Calculator: "echo", Payload: map[string]any{"kg": "NaN"}},
		}},
	}}
	_, err := eng.Aggregate(context.Background(), req)
	verr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Failures) != 2 {
		t.Fatalf("expected one failure per offending item, got %+v", verr.Failures)
	}
	kinds := map[FailureKind]int{}
	for _, f := range verr.Failures {
		kinds[f.Kind]++
	}
	if kinds[FailureUnknownCalculator] != 1 || kinds[FailureInvalidPayload] != 1 {
		t.Fatalf("unexpected failure kinds: %+v", verr.Failures)
	}
	if calls.Load() != 0 {
		t.Fatalf("no calculator must run on validation failure, got %d calls", calls.Load())
	}
}

func TestAggregateDropsFullyInvalidPathSilently(t *testing.T) {
	var calls atomic.Int64
	eng := newTestEngine(t, newCountingDescriptor("echo", &calls))

	req := Request{Paths: []CostPath{
		{Title: "valid", Items: []CostItem{item("echo", 2)}},
		{Title: "hopeless", Items: []CostItem{
			{Calculator: "missing", Payload: map[string]any{}},
			{Calculator: "also_missing", Payload: map[string]any{}},
		}},
	}}
	resp, err := eng.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("expected success with dropped path, got %v", err)
	}
	if len(resp.Paths) != 1 || resp.Paths[0].Title != "valid" {
		t.Fatalf("expected only the valid path, got %+v", resp.Paths)
	}
	if _, ok := resp.Path("hopeless"); ok {
		t.Fatal("fully invalid path must be absent from the response")
	}
}

func TestAggregateMixedPathFailsWholeRequest(t *testing.T) {
	var calls atomic.Int64
	eng := newTestEngine(t, newCountingDescriptor("echo", &calls))

	req := Request{Paths: []CostPath{
		{Title: "fine", Items: []CostItem{item("echo", 1)}},
		{Title: "mixed", Items: []CostItem{
			item("echo", 1),
			{Calculator: "missing", Payload: map[string]any{}},
		}},
	}}
	_, err := eng.Aggregate(context.Background(), req)
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("expected ValidationError for mixed path, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("nothing must execute, got %d calls", calls.Load())
	}
}

func TestAggregateExecutionFailurePropagates(t *testing.T) {
	var calls atomic.Int64
	eng := newTestEngine(t, newCountingDescriptor("echo", &calls), newFailingDescriptor("bomb"))

	req := Request{Paths: []CostPath{
		{Title: "doomed", Items: []CostItem{item("echo", 1), item("bomb", 1)}},
	}}
	_, err := eng.Aggregate(context.Background(), req)
	if err == nil {
		t.Fatal("expected execution error")
	}
	if _, ok := AsValidationError(err); ok {
		t.Fatalf("execution failure must not be a ValidationError: %v", err)
	}
}

func TestAggregateEmptyRequest(t *testing.T) {
	eng := newTestEngine(t)
	if _, err := eng.Aggregate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for empty request")
	}
}

func TestAggregateRejectsPathWithoutItems(t *testing.T) {
	var calls atomic.Int64
	eng := newTestEngine(t, newCountingDescriptor("echo", &calls))

	req := Request{Paths: []CostPath{
		{Title: "commute", Items: []CostItem{item("echo", 1)}},
		{Title: "empty"},
	}}
	_, err := eng.Aggregate(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for itemless path")
	}
	if _, ok := AsValidationError(err); ok {
		t.Fatalf("itemless path is a malformed request, not a validation failure: %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no executions, got %d", calls.Load())
	}
}
