package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file, merges it over the built-in
// defaults, and applies ODDSEDGE_* environment overrides. An empty path
// skips the file and uses defaults plus environment. The caller should
// invoke Validate afterward.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	// Load .env if present; secrets stay out of the TOML file
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Redis.Addr, "ODDSEDGE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ODDSEDGE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ODDSEDGE_REDIS_DB")

	setStr(&cfg.Postgres.DSN, "ODDSEDGE_POSTGRES_DSN")

	setStr(&cfg.Server.Addr, "ODDSEDGE_SERVER_ADDR")

	setStr(&cfg.Stream.ConsumerGroup, "ODDSEDGE_CONSUMER_GROUP")
	setStr(&cfg.Stream.ConsumerID, "ODDSEDGE_CONSUMER_ID")

	setStr(&cfg.Engine.AliasTablePath, "ODDSEDGE_ALIAS_TABLE")
	setFloat(&cfg.Engine.FuzzyThreshold, "ODDSEDGE_FUZZY_THRESHOLD")
	setFloat(&cfg.Alert.MinEVPercent, "ODDSEDGE_MIN_EV_PERCENT")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
