// Package config loads the service configuration from a yaml or json file
// with optional environment overrides (EM_SECTION__KEY).
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/maelqr/ecomeet/infra/mqtt"
)

type Config struct {
	Server      ServerConfig  `json:"server"`
	Storage     StorageConfig `json:"storage"`
	Metrics     MetricsConfig `json:"metrics"`
	MQTT        MQTTConfig    `json:"mqtt"`
	Logging     LoggingConfig `json:"logging"`
	Calculators []string      `json:"calculators"`
}

// MQTTConfig enables the optional footprint publisher.
type MQTTConfig struct {
	Enabled bool        `json:"enabled"`
	Conn    mqtt.Config `json:"conn"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("EM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "em_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Storage.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Server.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
