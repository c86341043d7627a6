// Package config loads the bench harness's configuration: per-tier tape
// widths and spill caps, arena sizing, workload shape, and run length.
// A viper instance with defaults applied when no file is found, and a
// zap logger for load diagnostics.
package config

import (
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	tbErrors "github.com/raddy/tape-book/pkg/errors"
)

// TierConfig is one multibook tier's sizing.
type TierConfig struct {
	N      int32 `mapstructure:"n"`
	MaxCap int32 `mapstructure:"max_cap"`
}

// BenchConfig is the full shape Load produces.
type BenchConfig struct {
	High   TierConfig `mapstructure:"high"`
	Medium TierConfig `mapstructure:"medium"`
	Low    TierConfig `mapstructure:"low"`

	ArenaCap int32 `mapstructure:"arena_cap"`

	Workload        string `mapstructure:"workload"` // clustered|uniform|heavyspill|pricewalk|cancelheavy
	Seed            int64  `mapstructure:"seed"`
	Center          int64  `mapstructure:"center"`
	TightRangeTicks int64  `mapstructure:"tight_range_ticks"`
	Steps           int64  `mapstructure:"steps"`
}

func defaults() *BenchConfig {
	return &BenchConfig{
		High:            TierConfig{N: 1024, MaxCap: 4096},
		Medium:          TierConfig{N: 256, MaxCap: 1024},
		Low:             TierConfig{N: 64, MaxCap: 256},
		ArenaCap:        1 << 20,
		Workload:        "clustered",
		Seed:            1,
		Center:          1_000_000,
		TightRangeTicks: 8,
		Steps:           1_000_000,
	}
}

// Load reads path (if non-empty and present) with viper and unmarshals
// it into a BenchConfig, starting from the package defaults so a partial
// file only overrides what it sets. A missing path or missing file is
// not an error: it logs and falls back to defaults entirely.
func Load(path string, logger *zap.Logger) (*BenchConfig, error) {
	cfg := defaults()

	if path == "" {
		logger.Info("no config path given, using defaults")
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn("config file not found, using defaults", zap.String("path", path))
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, tbErrors.Wrap(err).Reason("config").Explain("reading %s", path)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, tbErrors.Wrap(err).Reason("config").Explain("unmarshaling %s", path)
	}

	logger.Info("config loaded", zap.String("file", path))
	return cfg, nil
}
