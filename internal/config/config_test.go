package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:                      "8000",
		Env:                       "development",
		DatabaseURL:               "postgres://localhost:5432/dripwatch",
		JWTSecret:                 "secret",
		NotificationRetention:     168 * time.Hour,
		NotificationSweepInterval: time.Hour,
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero retention", func(c *Config) { c.NotificationRetention = 0 }},
		{"zero sweep interval", func(c *Config) { c.NotificationSweepInterval = 0 }},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/dripwatch")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.JWTTTL != 12*time.Hour {
		t.Errorf("JWTTTL = %v, want 12h", cfg.JWTTTL)
	}
	if cfg.NotificationRetention != 168*time.Hour {
		t.Errorf("NotificationRetention = %v, want 168h", cfg.NotificationRetention)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
}
