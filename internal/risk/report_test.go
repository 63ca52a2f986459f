package risk

import (
	"testing"

	"main/internal/model"
)

func TestReportAfterExecutedTrade(t *testing.T) {
	e := NewEngine(generousConfig())
	e.Assess(sampleOpp())
	trade, ok := e.Execute(sampleOpp(), 1)
	if !ok {
		t.Fatal("Execute() returned ok=false")
	}

	r := e.Report()
	if r.TotalTrades != 1 {
		t.Fatalf("TotalTrades = %d, want 1", r.TotalTrades)
	}
	if r.ActivePositions != 2 {
		t.Fatalf("ActivePositions = %d, want 2 (both legs of the trade)", r.ActivePositions)
	}
	if r.DailyPnL != trade.NetPnL || r.TotalPnL != trade.NetPnL {
		t.Fatalf("DailyPnL/TotalPnL = %v/%v, want %v", r.DailyPnL, r.TotalPnL, trade.NetPnL)
	}
	if r.OppSeen != 1 || r.OppTaken != 1 || r.OppRejected != 0 {
		t.Fatalf("opportunity counters = seen %d taken %d rejected %d", r.OppSeen, r.OppTaken, r.OppRejected)
	}
	if r.TakeRate != 1 {
		t.Fatalf("TakeRate = %v, want 1", r.TakeRate)
	}
	if trade.NetPnL <= 0 {
		t.Fatal("expected a profitable trade")
	}
	if r.WinRate != 1 {
		t.Fatalf("WinRate = %v, want 1", r.WinRate)
	}
}

func TestReportTracksRejectReasonCounts(t *testing.T) {
	cfg := generousConfig()
	cfg.Limits.MinProfitAfterFeesBps = 10_000
	e := NewEngine(cfg)
	e.Assess(sampleOpp())

	r := e.Report()
	if r.RejectReasonCounts[model.RejectedProfitTooLow] != 1 {
		t.Fatalf("RejectReasonCounts[RejectedProfitTooLow] = %d, want 1", r.RejectReasonCounts[model.RejectedProfitTooLow])
	}
	if r.OppRejected != 1 {
		t.Fatalf("OppRejected = %d, want 1", r.OppRejected)
	}
}
