package metrics

import (
	coremetrics "github.com/maelqr/ecomeet/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records aggregation and broadcast activity in Prometheus metrics.
type PromSink struct {
	aggregations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	broadcasts   *prometheus.CounterVec
	sendFailures *prometheus.CounterVec
	sessions     *prometheus.GaugeVec
}

// NewPromSink registers footprint metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using the configured port.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	aggregations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "footprint_aggregations_total",
		Help: "Total number of cost aggregation requests",
	}, []string{"status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "footprint_aggregation_duration_seconds",
		Help:    "Time spent computing one aggregation request",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	broadcasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "footprint_broadcasts_total",
		Help: "Total number of footprint broadcast cycles",
	}, []string{"event_id"})
	sendFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "footprint_broadcast_send_failures_total",
		Help: "Socket sends that failed during broadcast fan-out",
	}, []string{"event_id"})
	sessions := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "footprint_active_sessions",
		Help: "Number of live sockets registered per event",
	}, []string{"event_id"})

	if err := reg.Register(aggregations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			aggregations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(broadcasts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			broadcasts = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(sendFailures); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			sendFailures = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(sessions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			sessions = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		aggregations: aggregations,
		duration:     duration,
		broadcasts:   broadcasts,
		sendFailures: sendFailures,
		sessions:     sessions,
	}, nil
}

// RecordAggregation increments the status counter and observes the duration.
func (s *PromSink) RecordAggregation(rec coremetrics.AggregationRecord) error {
	s.aggregations.WithLabelValues(rec.Status).Inc()
	s.duration.WithLabelValues(rec.Status).Observe(rec.Duration.Seconds())
	return nil
}

// RecordBroadcast counts one fan-out cycle and its failed sends.
func (s *PromSink) RecordBroadcast(rec coremetrics.BroadcastRecord) error {
	s.broadcasts.WithLabelValues(rec.EventID).Inc()
	if rec.Failed > 0 {
		s.sendFailures.WithLabelValues(rec.EventID).Add(float64(rec.Failed))
	}
	return nil
}

// RecordActiveSessions sets the per-event session gauge.
func (s *PromSink) RecordActiveSessions(eventID string, count int) error {
	s.sessions.WithLabelValues(eventID).Set(float64(count))
	return nil
}
