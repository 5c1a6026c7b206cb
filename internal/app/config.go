package app

import (
	"errors"
	"fmt"
	"time"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // hcl files with store and synthetic blocks

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Output is OutputTable or OutputJSON.
	Output string
	// Latest prints the last point of every result instead of whole series.
	Latest bool
	// Watch re-evaluates on this interval until the context ends. Zero
	// evaluates once.
	Watch  time.Duration
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.Output == "" {
		cfg.Output = OutputTable
	}
	if cfg.Output != OutputTable && cfg.Output != OutputJSON {
		return nil, fmt.Errorf("invalid output %q: must be %q or %q", cfg.Output, OutputTable, OutputJSON)
	}
	if cfg.Watch < 0 {
		return nil, fmt.Errorf("watch interval must not be negative, got %s", cfg.Watch)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
