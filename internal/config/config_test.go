package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.coin.app/api/")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("REDIS_DB", "x")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"port", cfg.Port, "8080"},
		{"backend url trimmed", cfg.BackendURL, "https://api.coin.app/api"},
		{"bad duration falls back", cfg.SessionTTL, 24 * time.Hour},
		{"bad int falls back", cfg.RedisDB, 0},
		{"session store", cfg.SessionStore, "mongo"},
		{"schema version", cfg.SessionSchemaVersion, 1},
		{"sweep schedule", cfg.SweepSchedule, "*/5 * * * *"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_SCHEMA_VERSION", "3")
	t.Setenv("BACKEND_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction = false")
	}
	if cfg.SessionStore != "redis" || cfg.SessionTTL != 2*time.Hour || cfg.SessionSchemaVersion != 3 || cfg.BackendTimeout != 5*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
}
