package ops

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

const sampleConfigJSON = `{
  "symbols": ["BTC-USD"],
  "venues": [
    {"name": "venueA", "base_price": 100, "spread": 1, "volatility": 0.1, "tick_interval_ms": 50, "seed": 1},
    {"name": "venueB", "base_price": 100, "spread": 1, "volatility": 0.1, "tick_interval_ms": 50, "seed": 2}
  ],
  "detector": {"min_profit_bps": 5},
  "risk": {
    "max_position_size": 10,
    "max_total_exposure": 1000000,
    "max_single_trade_size": 1,
    "min_profit_after_fees_bps": 0,
    "max_daily_loss": 1000000,
    "max_drawdown_frac": 1,
    "initial_balance": 100000,
    "fee_rate": 0.001,
    "reference_price": 50000,
    "min_viable": 0.01
  },
  "sinks": {"csv_path": "opportunities.csv", "push_queue_depth": 256, "dashboard_addr": ":8080"},
  "features": {"enable_dashboard": true}
}`

func TestLoadResolvesRegistryAndLimits(t *testing.T) {
	path := writeConfig(t, sampleConfigJSON)
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Registry.VenueCount("BTC-USD"); got != 2 {
		t.Fatalf("VenueCount() = %d, want 2", got)
	}
	if loaded.MinProfitBps != 5 {
		t.Fatalf("MinProfitBps = %v, want 5", loaded.MinProfitBps)
	}
	if loaded.Risk.Limits.MaxSingleTradeSize != 1 {
		t.Fatalf("MaxSingleTradeSize = %v, want 1", loaded.Risk.Limits.MaxSingleTradeSize)
	}
	if !loaded.Features.EnableDashboard {
		t.Fatal("EnableDashboard = false, want true")
	}
	if loaded.Features.EnableJournal {
		t.Fatal("EnableJournal = true, want false (unset defaults to false)")
	}
}

func TestLoadRejectsFewerThanTwoVenues(t *testing.T) {
	var cfg FileConfig
	if err := json.Unmarshal([]byte(sampleConfigJSON), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	cfg.Venues = cfg.Venues[:1]
	body, _ := json.Marshal(cfg)
	path := writeConfig(t, string(body))

	if _, err := Load(path); err == nil {
		t.Fatal("Load() with one venue should error")
	}
}

func TestVenueConfigTickIntervalDefault(t *testing.T) {
	v := VenueConfig{}
	if got := v.TickInterval(); got.Milliseconds() != 50 {
		t.Fatalf("TickInterval() = %v, want 50ms default", got)
	}
}
