package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultMatchesCanonicalConstants(t *testing.T) {
	cfg := Default()

	if cfg.Consent.AcceptThresholdDBm != -70 || cfg.Consent.RejectThresholdDBm != -90 {
		t.Errorf("unexpected consent thresholds: %+v", cfg.Consent)
	}
	if cfg.Consent.EntropySamples != 64 {
		t.Errorf("entropy samples = %d, want 64", cfg.Consent.EntropySamples)
	}
	if cfg.Bandwidth.FairShareFactor != 2.0 {
		t.Errorf("fair share factor = %f, want 2.0", cfg.Bandwidth.FairShareFactor)
	}
	if cfg.Cost.ForceNewtons != 1.25 || cfg.Cost.DistanceMeters != 15.0 || cfg.Cost.CosineTheta != 0.866 {
		t.Errorf("unexpected cost model: %+v", cfg.Cost)
	}
	if cfg.Payment.BTCPriceUSD != 40000.0 || cfg.Payment.InvoiceTTL != 10*time.Minute {
		t.Errorf("unexpected payment config: %+v", cfg.Payment)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueshare.yaml")

	want := Default()
	want.Consent.AcceptThresholdDBm = -65
	want.Payment.BTCPriceUSD = 65000

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := "consent:\n  accept_threshold_dbm: -60\n"
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Consent.AcceptThresholdDBm != -60 {
		t.Errorf("explicit value overridden: %d", cfg.Consent.AcceptThresholdDBm)
	}
	if cfg.Consent.RejectThresholdDBm != DefaultRejectThresholdDBm {
		t.Errorf("missing value not defaulted: %d", cfg.Consent.RejectThresholdDBm)
	}
	if cfg.Cost.RatePerJoule != DefaultRatePerJoule {
		t.Errorf("missing cost model not defaulted: %+v", cfg.Cost)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted thresholds", func(c *Config) { c.Consent.RejectThresholdDBm = -50 }},
		{"negative samples", func(c *Config) { c.Consent.EntropySamples = -1 }},
		{"negative fair share factor", func(c *Config) { c.Bandwidth.FairShareFactor = -2.0 }},
		{"negative btc price", func(c *Config) { c.Payment.BTCPriceUSD = -1 }},
		{"negative invoice ttl", func(c *Config) { c.Payment.InvoiceTTL = -time.Minute }},
	}

	for _, tc := range tests {
		cfg := Default()
		tc.mutate(&cfg)
		if err := Validate(cfg); err == nil {
			t.Errorf("%s: Validate accepted a bad config", tc.name)
		}
	}
}
