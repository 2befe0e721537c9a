package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/maelqr/ecomeet/core/metrics"
	"github.com/maelqr/ecomeet/infra/logger"
)

// InfluxSink writes aggregation and broadcast records to an InfluxDB instance
// using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAggregation writes one aggregation call as a point.
func (s *InfluxSink) RecordAggregation(rec coremetrics.AggregationRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("cost_aggregation").
		AddTag("status", rec.Status).
		AddTag("component", "aggregation_engine").
		AddField("paths", rec.Paths).
		AddField("items", rec.Items).
		AddField("total_carbon_kg", round3(rec.TotalCarbonKg)).
		AddField("duration_ms", round3(rec.Duration.Seconds()*1000)).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordBroadcast writes one broadcast cycle as a point.
func (s *InfluxSink) RecordBroadcast(rec coremetrics.BroadcastRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("footprint_broadcast").
		AddTag("event_id", rec.EventID).
		AddTag("component", "session_service").
		AddField("sockets", rec.Sockets).
		AddField("failed", rec.Failed).
		AddField("in_person_total_kg", round3(rec.InPersonTotalKg)).
		AddField("online_total_kg", round3(rec.OnlineTotalKg)).
		AddField("actual_total_kg", round3(rec.ActualTotalKg)).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordActiveSessions writes the live socket count of an event.
func (s *InfluxSink) RecordActiveSessions(eventID string, count int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("active_sessions").
		AddTag("event_id", eventID).
		AddTag("component", "session_service").
		AddField("count", count).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
