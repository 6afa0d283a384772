// Package config defines service configuration, loaded from a TOML file
// with ODDSEDGE_* environment overrides.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure
type Config struct {
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	Server   ServerConfig   `toml:"server"`
	Stream   StreamConfig   `toml:"stream"`
	Engine   EngineConfig   `toml:"engine"`
	Alert    AlertConfig    `toml:"alert"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// PostgresConfig holds the alert-history database settings. An empty DSN
// disables persistence.
type PostgresConfig struct {
	DSN string `toml:"dsn"`
}

// ServerConfig holds the HTTP/WebSocket server settings
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StreamConfig defines which Redis streams carry quote snapshots and where
// alerts are published
type StreamConfig struct {
	// Sports to evaluate; snapshot streams are derived per sport:
	// odds.reference.<sport> and odds.comparison.<sport>
	Sports []string `toml:"sports"`

	AlertStreamPrefix string `toml:"alert_stream_prefix"` // ev.alerts.<sport>
	ConsumerGroup     string `toml:"consumer_group"`
	ConsumerID        string `toml:"consumer_id"`
}

// EngineConfig holds evaluation-pass parameters
type EngineConfig struct {
	AliasTablePath string `toml:"alias_table_path"`

	FuzzyThreshold  float64 `toml:"fuzzy_threshold"`
	SpreadTolerance float64 `toml:"spread_tolerance"`
	TotalTolerance  float64 `toml:"total_tolerance"`

	// Plausible EV band; results outside it are flagged suspect
	EVBandMinPercent float64 `toml:"ev_band_min_percent"`
	EVBandMaxPercent float64 `toml:"ev_band_max_percent"`

	TickSeconds        int `toml:"tick_seconds"`
	MaxSnapshotAgeSecs int `toml:"max_snapshot_age_seconds"`
}

// AlertConfig holds alert filtering and dedup settings
type AlertConfig struct {
	MinEVPercent float64 `toml:"min_ev_percent"`
	DedupTTLMins int     `toml:"dedup_ttl_minutes"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Stream: StreamConfig{
			Sports:            []string{"nba"},
			AlertStreamPrefix: "ev.alerts",
			ConsumerGroup:     "oddsedge",
			ConsumerID:        "oddsedge-1",
		},
		Engine: EngineConfig{
			AliasTablePath:     "configs/aliases.toml",
			FuzzyThreshold:     0.82,
			SpreadTolerance:    0,
			TotalTolerance:     0.5,
			EVBandMinPercent:   -20,
			EVBandMaxPercent:   20,
			TickSeconds:        3,
			MaxSnapshotAgeSecs: 120,
		},
		Alert: AlertConfig{
			MinEVPercent: 1.0,
			DedupTTLMins: 5,
		},
	}
}

// TickInterval returns the evaluation interval
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Engine.TickSeconds) * time.Second
}

// MaxSnapshotAge returns the staleness cutoff for snapshots
func (c Config) MaxSnapshotAge() time.Duration {
	return time.Duration(c.Engine.MaxSnapshotAgeSecs) * time.Second
}

// Validate checks the configuration for inconsistencies
func (c Config) Validate() error {
	if len(c.Stream.Sports) == 0 {
		return fmt.Errorf("config: no sports configured")
	}
	if c.Engine.FuzzyThreshold <= 0 || c.Engine.FuzzyThreshold > 1 {
		return fmt.Errorf("config: fuzzy_threshold %.2f outside (0, 1]", c.Engine.FuzzyThreshold)
	}
	if c.Engine.SpreadTolerance < 0 || c.Engine.TotalTolerance < 0 {
		return fmt.Errorf("config: line tolerances must be >= 0")
	}
	if c.Engine.EVBandMinPercent >= c.Engine.EVBandMaxPercent {
		return fmt.Errorf("config: EV band min %.1f >= max %.1f",
			c.Engine.EVBandMinPercent, c.Engine.EVBandMaxPercent)
	}
	if c.Engine.TickSeconds <= 0 {
		return fmt.Errorf("config: tick_seconds must be > 0")
	}
	return nil
}
