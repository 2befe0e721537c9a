package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/maelqr/ecomeet/core/metrics"
)

func TestPromSinkRecordAggregation(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	rec := coremetrics.AggregationRecord{
		Status:        coremetrics.StatusOK,
		Paths:         2,
		Items:         3,
		TotalCarbonKg: 12.5,
		Duration:      20 * time.Millisecond,
	}
	if err := sink.RecordAggregation(rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := sink.RecordAggregation(rec); err != nil {
		t.Fatalf("record: %v", err)
	}

	got := testutil.ToFloat64(sink.aggregations.WithLabelValues(coremetrics.StatusOK))
	if got != 2 {
		t.Fatalf("expected 2 aggregations, got %v", got)
	}
}

func TestPromSinkRecordBroadcast(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	rec := coremetrics.BroadcastRecord{EventID: "ev1", Sockets: 3, Failed: 1, Time: time.Now()}
	if err := sink.RecordBroadcast(rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := testutil.ToFloat64(sink.broadcasts.WithLabelValues("ev1")); got != 1 {
		t.Fatalf("expected 1 broadcast, got %v", got)
	}
	if got := testutil.ToFloat64(sink.sendFailures.WithLabelValues("ev1")); got != 1 {
		t.Fatalf("expected 1 send failure, got %v", got)
	}
}

func TestPromSinkRecordActiveSessions(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if err := sink.RecordActiveSessions("ev1", 4); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := testutil.ToFloat64(sink.sessions.WithLabelValues("ev1")); got != 4 {
		t.Fatalf("expected gauge 4, got %v", got)
	}
}

func TestPromSinkDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}
