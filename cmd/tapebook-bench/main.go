// Command tapebook-bench replays a randomized workload against a Book
// and the naive reference model side by side, asserting agreement after
// every op, and reports operation-latency percentiles. It is an external
// harness in the spirit of original_source/bench/bench_main.cpp — not
// part of the library's public surface.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/raddy/tape-book/internal/book"
	"github.com/raddy/tape-book/internal/config"
	"github.com/raddy/tape-book/internal/fuzz"
	"github.com/raddy/tape-book/internal/reference"
	"github.com/raddy/tape-book/pkg/metrics"
	"github.com/raddy/tape-book/pkg/ticks"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults used if absent)")
	logLevel := flag.String("log-level", "info", "debug|info|warn|error")
	tickSizeFlag := flag.String("tick-size", "1", "decimal tick size; best prices in the run summary are reported at this granularity")
	centerPriceFlag := flag.String("center-price", "", "decimal center price; overrides the config's integer center when set")
	flag.Parse()

	log, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}

	tickSize, err := decimal.NewFromString(*tickSizeFlag)
	if err != nil {
		log.Fatal("invalid --tick-size", zap.Error(err))
	}

	cfg, err := config.Load(*configPath, log)
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	if *centerPriceFlag != "" {
		centerDec, err := decimal.NewFromString(*centerPriceFlag)
		if err != nil {
			log.Fatal("invalid --center-price", zap.Error(err))
		}
		centerTicks, err := ticks.ToTicks(centerDec, tickSize)
		if err != nil {
			log.Fatal("--center-price is not an exact multiple of --tick-size", zap.Error(err))
		}
		cfg.Center = centerTicks
	}

	runID := uuid.New().String()
	log.Info("starting run", zap.String("run_id", runID), zap.String("workload", cfg.Workload))

	registry := prometheus.NewRegistry()
	rec := metrics.New(registry)

	b := book.New[int64, uint64](cfg.Medium.N, cfg.Medium.MaxCap, nil, rec)
	b.Reset(0)
	ref := reference.NewBook[int64, uint64]()

	gen := newGenerator(cfg)
	collector := fuzz.NewLatencyCollector(int(cfg.Steps))

	var mismatches int64
	for i := int64(0); i < cfg.Steps; i++ {
		op := gen.Next()

		start := time.Now()
		b.Set(op.IsBid, op.Px, op.Qty)
		collector.Record(time.Since(start).Nanoseconds())

		ref.Set(op.IsBid, op.Px, op.Qty)

		if b.BestBidPx() != ref.BestBidPx() || b.BestAskPx() != ref.BestAskPx() {
			mismatches++
			log.Warn("best-price mismatch vs reference",
				zap.Int64("step", i),
				zap.Int64("book_bid", int64(b.BestBidPx())), zap.Int64("ref_bid", int64(ref.BestBidPx())),
				zap.Int64("book_ask", int64(b.BestAskPx())), zap.Int64("ref_ask", int64(ref.BestAskPx())))
		}
		if !b.VerifyInvariants() {
			log.Error("invariant violation detected during fuzz run", zap.Int64("step", i))
			os.Exit(1)
		}
	}

	stats := collector.Compute()
	log.Info("run complete",
		zap.String("run_id", runID),
		zap.Int64("steps", cfg.Steps),
		zap.Int64("mismatches", mismatches),
		zap.Int64("p50_ns", stats.P50),
		zap.Int64("p90_ns", stats.P90),
		zap.Int64("p99_ns", stats.P99),
		zap.Int64("p999_ns", stats.P999),
		zap.Int64("max_ns", stats.Max),
		zap.String("final_best_bid", ticks.FromTicks(int64(b.BestBidPx()), tickSize).String()),
		zap.String("final_best_ask", ticks.FromTicks(int64(b.BestAskPx()), tickSize).String()))

	dumpMetrics(registry, os.Stdout)

	if mismatches > 0 {
		os.Exit(1)
	}
}

// newLogger builds a zap logger for one bench run, tagged with the
// binary name so its output is distinguishable when piped alongside the
// library's own test logs.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build(zap.Fields(zap.String("component", "tapebook-bench")))
}

func dumpMetrics(registry *prometheus.Registry, w io.Writer) {
	families, err := registry.Gather()
	if err != nil {
		fmt.Fprintln(os.Stderr, "metrics gather failed:", err)
		return
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			fmt.Fprintln(os.Stderr, "metrics encode failed:", err)
			return
		}
	}
}

type generator interface {
	Next() fuzz.Op[int64, uint64]
}

func newGenerator(cfg *config.BenchConfig) generator {
	switch cfg.Workload {
	case "uniform":
		return fuzz.NewUniform[int64, uint64](cfg.Seed, cfg.Center, cfg.TightRangeTicks*16)
	case "heavyspill":
		return fuzz.NewHeavySpill[int64, uint64](cfg.Seed, cfg.Center, int64(cfg.Medium.N/2))
	case "pricewalk":
		return fuzz.NewPriceWalk[int64, uint64](cfg.Seed, cfg.Center, cfg.Center, cfg.TightRangeTicks)
	case "cancelheavy":
		return fuzz.NewCancelHeavy[int64, uint64](cfg.Seed, cfg.Center, cfg.TightRangeTicks*16)
	default:
		return fuzz.NewClustered[int64, uint64](cfg.Seed, cfg.Center, cfg.TightRangeTicks)
	}
}
