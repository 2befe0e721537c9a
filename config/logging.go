package config

import "fmt"

// LoggingConfig selects the log output format.
type LoggingConfig struct {
	// Env selects the format: "dev" for console output, "prod" for JSON.
	Env string `json:"env"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	if c.Env != "dev" && c.Env != "prod" {
		return fmt.Errorf("unknown logging env %s", c.Env)
	}
	return nil
}
