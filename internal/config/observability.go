package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type ObservabilityConfig struct {
	ServiceName string          `koanf:"service_name"`
	Environment string          `koanf:"environment"`
	Logging     LoggingConfig   `koanf:"logging"`
	NewRelic    NewRelicConfig  `koanf:"new_relic"`
}

type LoggingConfig struct {
	Level              string        `koanf:"level"`
	Format             string        `koanf:"format"`
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// NewRelicConfig is inactive while LicenseKey is empty.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	DebugLogging              bool   `koanf:"debug_logging"`
}

func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: "actlog",
		Environment: "development",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		NewRelic: NewRelicConfig{
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
		},
	}
}

func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level %q: %w", c.Logging.Level, err)
	}
	switch c.Logging.Format {
	case "":
		c.Logging.Format = "json"
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q: must be json or console", c.Logging.Format)
	}
	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("slow_query_threshold must not be negative")
	}
	return nil
}

// GetLogLevel returns the configured level, defaulting to debug outside production.
func (c *ObservabilityConfig) GetLogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Logging.Level)
	if err != nil || c.Logging.Level == "" {
		if c.IsProduction() {
			return zerolog.InfoLevel
		}
		return zerolog.DebugLevel
	}
	return lvl
}

func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
