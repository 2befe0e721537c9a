package metrics

import "time"

// Aggregation statuses recorded by sinks.
const (
	StatusOK               = "ok"
	StatusValidationFailed = "validation_failed"
	StatusExecutionFailed  = "execution_failed"
)

// AggregationRecord captures one cost-aggregation call.
type AggregationRecord struct {
	Status        string
	Paths         int
	Items         int
	TotalCarbonKg float64
	Duration      time.Duration
}

// Sink records aggregation outcomes for observability purposes.
type Sink interface {
	RecordAggregation(rec AggregationRecord) error
}

// BroadcastRecord captures one session broadcast cycle.
type BroadcastRecord struct {
	EventID         string
	Sockets         int
	Failed          int
	InPersonTotalKg float64
	OnlineTotalKg   float64
	ActualTotalKg   float64
	Time            time.Time
}

// BroadcastRecorder records broadcast fan-outs.
type BroadcastRecorder interface {
	RecordBroadcast(rec BroadcastRecord) error
}

// SessionsRecorder records the number of live sockets per event.
type SessionsRecorder interface {
	RecordActiveSessions(eventID string, count int) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordAggregation(AggregationRecord) error { return nil }
func (NopSink) RecordBroadcast(BroadcastRecord) error     { return nil }
func (NopSink) RecordActiveSessions(string, int) error    { return nil }
