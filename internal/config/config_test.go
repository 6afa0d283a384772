package config

import "testing"

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no sports", func(c *Config) { c.Stream.Sports = nil }},
		{"fuzzy threshold zero", func(c *Config) { c.Engine.FuzzyThreshold = 0 }},
		{"fuzzy threshold above one", func(c *Config) { c.Engine.FuzzyThreshold = 1.5 }},
		{"negative tolerance", func(c *Config) { c.Engine.TotalTolerance = -0.5 }},
		{"inverted ev band", func(c *Config) { c.Engine.EVBandMinPercent = 30 }},
		{"zero tick", func(c *Config) { c.Engine.TickSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ODDSEDGE_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("ODDSEDGE_FUZZY_THRESHOLD", "0.9")
	t.Setenv("ODDSEDGE_MIN_EV_PERCENT", "2.5")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Engine.FuzzyThreshold != 0.9 {
		t.Errorf("FuzzyThreshold = %v", cfg.Engine.FuzzyThreshold)
	}
	if cfg.Alert.MinEVPercent != 2.5 {
		t.Errorf("MinEVPercent = %v", cfg.Alert.MinEVPercent)
	}
}

func TestEnvOverrideIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("ODDSEDGE_FUZZY_THRESHOLD", "not-a-number")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	if cfg.Engine.FuzzyThreshold != Defaults().Engine.FuzzyThreshold {
		t.Errorf("malformed override changed FuzzyThreshold to %v", cfg.Engine.FuzzyThreshold)
	}
}

func TestTickInterval(t *testing.T) {
	cfg := Defaults()
	cfg.Engine.TickSeconds = 7
	if got := cfg.TickInterval().Seconds(); got != 7 {
		t.Errorf("TickInterval = %vs", got)
	}
}
