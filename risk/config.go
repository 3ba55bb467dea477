// Package risk loads the construction-time bounds for a match.RiskGate from
// configuration, keeping the engine core (match) free of file and
// environment concerns.
package risk

import (
	"fmt"
	"os"
	"strconv"

	"github.com/finprim/lobengine/match"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk representation of match.RiskLimits. Price is a
// string in YAML for the same reason it is a string on the wire: decimal
// values must never round-trip through a float.
type Config struct {
	MaxOrderSize uint64 `yaml:"max_order_size"`
	MaxPrice     string `yaml:"max_price"`
	MaxPosition  int64  `yaml:"max_position"`
}

// envPrefix namespaces the override variables this package reads.
const envPrefix = "LOBENGINE_RISK_"

// Load reads a Config from path and resolves it to match.RiskLimits. Any of
// MaxOrderSize/MaxPrice/MaxPosition may be overridden at process start by
// setting LOBENGINE_RISK_MAX_ORDER_SIZE, LOBENGINE_RISK_MAX_PRICE, or
// LOBENGINE_RISK_MAX_POSITION — useful for adjusting limits per-deployment
// without editing the checked-in file.
func Load(path string) (match.RiskLimits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return match.RiskLimits{}, fmt.Errorf("risk: reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return match.RiskLimits{}, fmt.Errorf("risk: parsing config: %w", err)
	}

	applyEnvOverrides(&cfg)

	return cfg.toLimits()
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv(envPrefix + "MAX_ORDER_SIZE"); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.MaxOrderSize = n
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "MAX_PRICE"); ok {
		cfg.MaxPrice = v
	}
	if v, ok := os.LookupEnv(envPrefix + "MAX_POSITION"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxPosition = n
		}
	}
}

func (cfg Config) toLimits() (match.RiskLimits, error) {
	price, err := decimal.NewFromString(cfg.MaxPrice)
	if err != nil {
		return match.RiskLimits{}, fmt.Errorf("risk: invalid max_price %q: %w", cfg.MaxPrice, err)
	}
	return match.RiskLimits{
		MaxOrderSize: cfg.MaxOrderSize,
		MaxPrice:     price,
		MaxPosition:  cfg.MaxPosition,
	}, nil
}
