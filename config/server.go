package config

import "fmt"

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address of the API server.
	Addr string `json:"addr"`
	// ReadTimeoutS bounds the time spent reading a request.
	ReadTimeoutS int `json:"read_timeout_s"`
	// WriteTimeoutS bounds the time spent writing a response. It does not
	// apply to websocket connections, which are hijacked from the server.
	WriteTimeoutS int `json:"write_timeout_s"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeoutS == 0 {
		c.ReadTimeoutS = 15
	}
	if c.WriteTimeoutS == 0 {
		c.WriteTimeoutS = 30
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.ReadTimeoutS < 0 || c.WriteTimeoutS < 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	return nil
}
