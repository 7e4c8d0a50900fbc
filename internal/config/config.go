// Package config loads the optional YAML configuration file that overrides
// detection thresholds and dataset file names.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/fraud-signals/internal/signal"
)

// Default dataset file names, resolved relative to the data directory.
const (
	DefaultClaimsFile     = "medicaid_claims.parquet"
	DefaultExclusionsFile = "leie_exclusions.csv"
	DefaultRegistryFile   = "nppes_registry.csv"
)

// Files names the three dataset files inside the data directory.
type Files struct {
	Claims     string `yaml:"claims"`
	Exclusions string `yaml:"exclusions"`
	Registry   string `yaml:"registry"`
}

// Config is the full runtime configuration.
type Config struct {
	Files      Files             `yaml:"files"`
	Thresholds signal.Thresholds `yaml:"thresholds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Files: Files{
			Claims:     DefaultClaimsFile,
			Exclusions: DefaultExclusionsFile,
			Registry:   DefaultRegistryFile,
		},
		Thresholds: signal.DefaultThresholds(),
	}
}

// Load reads a YAML config file and overlays it on the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func validate(cfg Config) error {
	th := cfg.Thresholds
	switch {
	case th.PeerGroupMin < 1:
		return fmt.Errorf("peer_group_min must be >= 1, got %d", th.PeerGroupMin)
	case th.GrowthWindow < 1:
		return fmt.Errorf("growth_window must be >= 1, got %d", th.GrowthWindow)
	case th.GrowthMaxPeriods < th.GrowthWindow:
		return fmt.Errorf("growth_max_periods (%d) must be >= growth_window (%d)",
			th.GrowthMaxPeriods, th.GrowthWindow)
	case th.BusinessHours < 1:
		return fmt.Errorf("business_hours must be >= 1, got %d", th.BusinessHours)
	case th.HomeHealthRatioCeiling <= 0:
		return fmt.Errorf("home_health_ratio_ceiling must be > 0, got %g", th.HomeHealthRatioCeiling)
	}
	if cfg.Files.Claims == "" || cfg.Files.Exclusions == "" || cfg.Files.Registry == "" {
		return fmt.Errorf("files.claims, files.exclusions and files.registry must all be set")
	}
	return nil
}
