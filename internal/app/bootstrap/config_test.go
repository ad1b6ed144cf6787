package bootstrap

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "crewgrid",
		PrefsKey:         strings.Repeat("k", 32),
		PrefsName:        "crewgrid_prefs",
		DefaultRangeDays: 14,
		ConfirmTTL:       2 * time.Minute,
	}
}

func TestValidateConfigAccepts(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateConfigRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "http://not-mongo" }},
		{"empty database", func(c *AppConfig) { c.MongoDatabase = "" }},
		{"zero range days", func(c *AppConfig) { c.DefaultRangeDays = 0 }},
		{"zero confirm ttl", func(c *AppConfig) { c.ConfirmTTL = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validAppConfig()
			tc.mutate(&cfg)
			if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
