package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Health-data provider
	ProviderType string `envconfig:"PROVIDER_TYPE" default:"mock"`
	BridgeURL    string `envconfig:"BRIDGE_URL" default:"http://localhost:8090"`

	// Remote summary submission
	SummaryEndpoint string `envconfig:"SUMMARY_ENDPOINT" required:"true"`
	UserID          string `envconfig:"USER_ID"`

	// Fetch intervals per aggregation category
	HourlyInterval time.Duration `envconfig:"HOURLY_INTERVAL" default:"1h"`
	DailyInterval  time.Duration `envconfig:"DAILY_INTERVAL" default:"24h"`
	WeeklyInterval time.Duration `envconfig:"WEEKLY_INTERVAL" default:"168h"`

	// Rate-limit retry policy
	RetryDelay time.Duration `envconfig:"RETRY_DELAY" default:"60s"`
	RetryMax   int           `envconfig:"RETRY_MAX" default:"3"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
