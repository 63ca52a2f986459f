// Package ops loads and resolves the engine's runtime configuration
// (spec.md §5). Grounded on the teacher's internal/ops.Load, generalized
// from a single dummy-order spec into venue/symbol registration, risk
// limits, detector threshold, feed parameters, and feature flags.
package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"main/internal/model"
	"main/internal/registry"
	"main/internal/risk"
)

// FileConfig mirrors the JSON config file layout on disk.
type FileConfig struct {
	Symbols  []string           `json:"symbols"`
	Venues   []VenueConfig      `json:"venues"`
	Detector DetectorConfig     `json:"detector"`
	Risk     RiskConfig         `json:"risk"`
	Sinks    SinksConfig        `json:"sinks"`
	Features FeatureFlagsConfig `json:"features"`
}

// VenueConfig describes one synthetic feed's parameters.
type VenueConfig struct {
	Name         string  `json:"name"`
	BasePrice    float64 `json:"base_price"`
	Spread       float64 `json:"spread"`
	Volatility   float64 `json:"volatility"`
	TickIntervalMs int64 `json:"tick_interval_ms"`
	Seed         int64   `json:"seed"`
}

// DetectorConfig configures the arbitrage detector.
type DetectorConfig struct {
	MinProfitBps float64 `json:"min_profit_bps"`
}

// RiskConfig mirrors model.RiskLimits plus the risk engine's own knobs.
type RiskConfig struct {
	MaxPositionSize       float64 `json:"max_position_size"`
	MaxTotalExposure      float64 `json:"max_total_exposure"`
	MaxSingleTradeSize    float64 `json:"max_single_trade_size"`
	MinProfitAfterFeesBps float64 `json:"min_profit_after_fees_bps"`
	MaxDailyLoss          float64 `json:"max_daily_loss"`
	MaxDrawdownFrac       float64 `json:"max_drawdown_frac"`
	InitialBalance        float64 `json:"initial_balance"`
	FeeRate               float64 `json:"fee_rate"`
	ReferencePrice        float64 `json:"reference_price"`
	MinViable             float64 `json:"min_viable"`
}

// SinksConfig points at the engine's output sinks.
type SinksConfig struct {
	CSVPath        string `json:"csv_path"`
	PushQueueDepth int    `json:"push_queue_depth"`
	DashboardAddr  string `json:"dashboard_addr"`
	Postgres       *PostgresConfig `json:"postgres"`
}

// PostgresConfig enables the optional trade journal when non-nil.
type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
}

// FeatureFlagsConfig captures optional runtime flags. Pointers distinguish
// "unset" from "explicitly false" the way the teacher's config does.
type FeatureFlagsConfig struct {
	EnableJournal   *bool `json:"enable_journal"`
	EnableDashboard *bool `json:"enable_dashboard"`
	EnableProfiling *bool `json:"enable_profiling"`
}

// FeatureFlags are resolved runtime flags.
type FeatureFlags struct {
	EnableJournal   bool
	EnableDashboard bool
	EnableProfiling bool
}

// Loaded is the fully resolved configuration ready to build the engine.
type Loaded struct {
	Registry       *registry.Registry
	Symbols        []string
	Venues         []VenueConfig
	MinProfitBps   float64
	Risk           risk.Config
	Sinks          SinksConfig
	Features       FeatureFlags
}

// Load reads a JSON config file at path and resolves it.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, fmt.Errorf("ops: read config %q: %w", path, err)
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, fmt.Errorf("ops: parse config %q: %w", path, err)
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	if len(cfg.Symbols) == 0 {
		return Loaded{}, fmt.Errorf("ops: config has no symbols")
	}
	if len(cfg.Venues) < 2 {
		return Loaded{}, fmt.Errorf("ops: config needs at least 2 venues, got %d", len(cfg.Venues))
	}

	reg := registry.New()
	for _, symbol := range cfg.Symbols {
		for _, v := range cfg.Venues {
			reg.Add(symbol, v.Name)
		}
	}

	return Loaded{
		Registry:     reg,
		Symbols:      cfg.Symbols,
		Venues:       cfg.Venues,
		MinProfitBps: cfg.Detector.MinProfitBps,
		Risk:         resolveRiskConfig(cfg.Risk),
		Sinks:        cfg.Sinks,
		Features:     resolveFeatures(cfg.Features),
	}, nil
}

func resolveRiskConfig(c RiskConfig) risk.Config {
	return risk.Config{
		Limits: model.RiskLimits{
			MaxPositionSize:       c.MaxPositionSize,
			MaxTotalExposure:      c.MaxTotalExposure,
			MaxSingleTradeSize:    c.MaxSingleTradeSize,
			MinProfitAfterFeesBps: c.MinProfitAfterFeesBps,
			MaxDailyLoss:          c.MaxDailyLoss,
			MaxDrawdownFrac:       c.MaxDrawdownFrac,
		},
		InitialBalance: c.InitialBalance,
		FeeRate:        c.FeeRate,
		ReferencePrice: c.ReferencePrice,
		MinViable:      c.MinViable,
	}
}

func resolveFeatures(c FeatureFlagsConfig) FeatureFlags {
	return FeatureFlags{
		EnableJournal:   boolOr(c.EnableJournal, false),
		EnableDashboard: boolOr(c.EnableDashboard, true),
		EnableProfiling: boolOr(c.EnableProfiling, false),
	}
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

// TickInterval returns the configured tick interval, defaulting when unset.
func (v VenueConfig) TickInterval() time.Duration {
	if v.TickIntervalMs <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(v.TickIntervalMs) * time.Millisecond
}
