package metrics

import coremetrics "github.com/maelqr/ecomeet/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAggregation forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordAggregation(rec coremetrics.AggregationRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAggregation(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordBroadcast forwards broadcast records to sinks that support them.
func (m *MultiSink) RecordBroadcast(rec coremetrics.BroadcastRecord) error {
	for _, s := range m.Sinks {
		if br, ok := s.(coremetrics.BroadcastRecorder); ok {
			if err := br.RecordBroadcast(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordActiveSessions forwards session counts to sinks that support them.
func (m *MultiSink) RecordActiveSessions(eventID string, count int) error {
	for _, s := range m.Sinks {
		if sr, ok := s.(coremetrics.SessionsRecorder); ok {
			if err := sr.RecordActiveSessions(eventID, count); err != nil {
				return err
			}
		}
	}
	return nil
}
