package calculator

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(NewCarDescriptor()); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := reg.Register(NewCarDescriptor())
	if !errors.Is(err, ErrDuplicateCalculator) {
		t.Fatalf("expected ErrDuplicateCalculator, got %v", err)
	}
}

func TestRegistryLookupUnknown(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Lookup("nope"); !errors.Is(err, ErrUnknownCalculator) {
		t.Fatalf("expected ErrUnknownCalculator, got %v", err)
	}
}

func TestRegistryDescribeAllOrder(t *testing.T) {
	reg := NewRegistry()
	descriptors := []*Descriptor{
		NewCarDescriptor(),
		NewFlightDescriptor(),
		NewTrainDescriptor(),
	}
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.Name, err)
		}
	}
	ifaces := reg.DescribeAll()
	if len(ifaces) != len(descriptors) {
		t.Fatalf("expected %d interfaces, got %d", len(descriptors), len(ifaces))
	}
	for i, d := range descriptors {
		if ifaces[i].Request["title"] != d.RequestSchema["title"] {
			t.Errorf("interface %d: expected %v, got %v", i, d.RequestSchema["title"], ifaces[i].Request["title"])
		}
	}
}

func TestDescriptorParseInvalidPayload(t *testing.T) {
	d := NewTrainDescriptor()
	if _, err := d.Parse(map[string]any{"distance": "not a number"}); err == nil {
		t.Fatal("expected decode error")
	} else if len(PayloadErrors(err)) == 0 {
		t.Fatal("expected at least one payload error detail")
	}
	if _, err := d.Parse(map[string]any{"distance": -5.0}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestPayloadErrorsSplitsJoinedDecodeErrors(t *testing.T) {
	d := NewCarDescriptor()
	_, err := d.Parse(map[string]any{
		"distance":  "far",
		"fuel_type": 7,
	})
	if err == nil {
		t.Fatal("expected decode error")
	}
	msgs := PayloadErrors(err)
	if len(msgs) < 2 {
		t.Fatalf("expected one message per bad field, got %v", msgs)
	}
	for _, m := range msgs {
		if m == "" {
			t.Fatal("empty payload error message")
		}
	}
}

func TestDescriptorParseInvoke(t *testing.T) {
	d := NewTrainDescriptor()
	req, err := d.Parse(map[string]any{"distance": 100.0, "railway_company": "SNCF", "train_type": "TGV"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	resp, err := d.Invoke(context.Background(), req)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	got := d.ExtractCarbonKg(resp)
	want := 3.2 / 1000 * 100
	if !almostEqual(got, want) {
		t.Fatalf("expected %v kg, got %v", want, got)
	}
}
