package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the merged simulator configuration: flags over environment
// (AMMSIM_*) over an optional YAML file.
type Config struct {
	BaseDenom     string
	PoolSpecs     []PoolSpec
	RandomPools   int
	Workers       int
	Duration      time.Duration
	Rate          float64
	Seed          uint64
	SweepInterval time.Duration
	MetricsAddr   string
	Quiet         bool
}

// PoolSpec seeds one pool: denom:base:token:shares:fee.
type PoolSpec struct {
	TokenDenom    string
	BaseReserve   uint64
	TokenReserve  uint64
	InitialShares uint64
	FeeRate       uint64
}

// LoadConfig merges config file, environment variables, and flags.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AMMSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base-denom", "upaw")
	v.SetDefault("pools", 4)
	v.SetDefault("workers", 8)
	v.SetDefault("duration", 30*time.Second)
	v.SetDefault("rate", 200.0)
	v.SetDefault("sweep-interval", time.Second)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("ammsim")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	specs, err := parsePoolSpecs(v.GetStringSlice("pool"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseDenom:     v.GetString("base-denom"),
		PoolSpecs:     specs,
		RandomPools:   v.GetInt("pools"),
		Workers:       v.GetInt("workers"),
		Duration:      v.GetDuration("duration"),
		Rate:          v.GetFloat64("rate"),
		Seed:          v.GetUint64("seed"),
		SweepInterval: v.GetDuration("sweep-interval"),
		MetricsAddr:   v.GetString("metrics-addr"),
		Quiet:         v.GetBool("quiet"),
	}

	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("workers must be at least 1")
	}
	if cfg.Rate <= 0 {
		return Config{}, fmt.Errorf("rate must be positive")
	}
	if len(cfg.PoolSpecs) == 0 && cfg.RandomPools < 1 {
		return Config{}, fmt.Errorf("need at least one pool")
	}

	return cfg, nil
}

func parsePoolSpecs(raw []string) ([]PoolSpec, error) {
	specs := make([]PoolSpec, 0, len(raw))
	for _, s := range raw {
		parts := strings.Split(s, ":")
		if len(parts) != 5 {
			return nil, fmt.Errorf("pool spec %q: want denom:base:token:shares:fee", s)
		}
		if parts[0] == "" {
			return nil, fmt.Errorf("pool spec %q: empty denom", s)
		}

		nums := make([]uint64, 4)
		for i, p := range parts[1:] {
			n, err := cast.ToUint64E(p)
			if err != nil {
				return nil, fmt.Errorf("pool spec %q: field %d: %w", s, i+2, err)
			}
			nums[i] = n
		}

		specs = append(specs, PoolSpec{
			TokenDenom:    parts[0],
			BaseReserve:   nums[0],
			TokenReserve:  nums[1],
			InitialShares: nums[2],
			FeeRate:       nums[3],
		})
	}
	return specs, nil
}
