package config

// InfluxConfig holds the optional InfluxDB sink settings.
type InfluxConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}

// MetricsConfig holds the observability settings.
type MetricsConfig struct {
	// PrometheusEnabled registers the Prometheus sink and serves /metrics.
	PrometheusEnabled bool `json:"prometheus_enabled"`
	// PrometheusAddr is the listen address of the metrics server.
	PrometheusAddr string `json:"prometheus_addr"`
	// Influx configures the optional InfluxDB sink.
	Influx InfluxConfig `json:"influx"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}
