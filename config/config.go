package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults reproduce the canonical pipeline constants; a zero config behaves
// identically to an unconfigured pipeline.
const (
	DefaultAcceptThresholdDBm = -70
	DefaultRejectThresholdDBm = -90
	DefaultEntropySamples     = 64
	DefaultFairShareFactor    = 2.0
	DefaultForceNewtons       = 1.25
	DefaultDistanceMeters     = 15.0
	DefaultCosineTheta        = 0.866
	DefaultRatePerJoule       = 0.00001
	DefaultBTCPriceUSD        = 40000.0
	DefaultInvoiceTTL         = 10 * time.Minute
)

// Config holds the tunable constants of the consensus-and-settlement
// pipeline.
type Config struct {
	Consent   ConsentConfig   `yaml:"consent"`
	Bandwidth BandwidthConfig `yaml:"bandwidth"`
	Cost      CostConfig      `yaml:"cost"`
	Payment   PaymentConfig   `yaml:"payment"`
}

// ConsentConfig tunes the consent engine.
type ConsentConfig struct {
	AcceptThresholdDBm int `yaml:"accept_threshold_dbm"`
	RejectThresholdDBm int `yaml:"reject_threshold_dbm"`
	EntropySamples     int `yaml:"entropy_samples"`
}

// BandwidthConfig tunes the bandwidth allocator.
type BandwidthConfig struct {
	FairShareFactor float64 `yaml:"fair_share_factor"`
}

// CostConfig tunes the physical cost model.
type CostConfig struct {
	ForceNewtons   float64 `yaml:"force_newtons"`
	DistanceMeters float64 `yaml:"distance_meters"`
	CosineTheta    float64 `yaml:"cosine_theta"`
	RatePerJoule   float64 `yaml:"rate_per_joule"`
}

// PaymentConfig tunes settlement.
type PaymentConfig struct {
	BTCPriceUSD float64       `yaml:"btc_price_usd"`
	InvoiceTTL  time.Duration `yaml:"invoice_ttl"`
}

// Default returns a config populated with the canonical constants.
func Default() Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return cfg
}

// Load reads and parses a YAML config file, filling defaults for anything
// left unset.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	ApplyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes a YAML config file to disk.
func Save(path string, cfg Config) error {
	ApplyDefaults(&cfg)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate performs minimal sanity checks on a filled config.
func Validate(cfg Config) error {
	if cfg.Consent.RejectThresholdDBm >= cfg.Consent.AcceptThresholdDBm {
		return fmt.Errorf("consent: reject threshold %d must lie below accept threshold %d",
			cfg.Consent.RejectThresholdDBm, cfg.Consent.AcceptThresholdDBm)
	}
	if cfg.Consent.EntropySamples <= 0 {
		return fmt.Errorf("consent: entropy_samples must be positive")
	}
	if cfg.Bandwidth.FairShareFactor <= 0 {
		return fmt.Errorf("bandwidth: fair_share_factor must be positive")
	}
	if cfg.Payment.BTCPriceUSD <= 0 {
		return fmt.Errorf("payment: btc_price_usd must be positive")
	}
	if cfg.Payment.InvoiceTTL <= 0 {
		return fmt.Errorf("payment: invoice_ttl must be positive")
	}
	return nil
}

// ApplyDefaults fills in default values when empty.
func ApplyDefaults(cfg *Config) {
	if cfg.Consent.AcceptThresholdDBm == 0 {
		cfg.Consent.AcceptThresholdDBm = DefaultAcceptThresholdDBm
	}
	if cfg.Consent.RejectThresholdDBm == 0 {
		cfg.Consent.RejectThresholdDBm = DefaultRejectThresholdDBm
	}
	if cfg.Consent.EntropySamples == 0 {
		cfg.Consent.EntropySamples = DefaultEntropySamples
	}
	if cfg.Bandwidth.FairShareFactor == 0 {
		cfg.Bandwidth.FairShareFactor = DefaultFairShareFactor
	}
	if cfg.Cost.ForceNewtons == 0 {
		cfg.Cost.ForceNewtons = DefaultForceNewtons
	}
	if cfg.Cost.DistanceMeters == 0 {
		cfg.Cost.DistanceMeters = DefaultDistanceMeters
	}
	if cfg.Cost.CosineTheta == 0 {
		cfg.Cost.CosineTheta = DefaultCosineTheta
	}
	if cfg.Cost.RatePerJoule == 0 {
		cfg.Cost.RatePerJoule = DefaultRatePerJoule
	}
	if cfg.Payment.BTCPriceUSD == 0 {
		cfg.Payment.BTCPriceUSD = DefaultBTCPriceUSD
	}
	if cfg.Payment.InvoiceTTL == 0 {
		cfg.Payment.InvoiceTTL = DefaultInvoiceTTL
	}
}
