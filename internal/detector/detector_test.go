package detector

import (
	"testing"

	"main/internal/registry"
)

func fixedNow(ts int64) NowFunc {
	return func() int64 { return ts }
}

func TestDetectorFindsProfitableDirectedPair(t *testing.T) {
	reg := registry.New()
	a := reg.Add("BTC-USD", "venueA")
	b := reg.Add("BTC-USD", "venueB")

	// venueA ask 100, venueB bid 102: buying on A and selling on B clears
	// 200 bps before the min-profit filter.
	a.UpdateAsk(100, 1, 1)
	b.UpdateBid(102, 1, 1)

	det := New(reg, DefaultMinProfitBps, fixedNow(1_000))
	opps := det.Check("BTC-USD", 500)
	if len(opps) != 1 {
		t.Fatalf("Check() returned %d opportunities, want 1: %+v", len(opps), opps)
	}
	opp := opps[0]
	if opp.BuyVenue != "venueA" || opp.SellVenue != "venueB" {
		t.Fatalf("opportunity = %+v, want buy venueA sell venueB", opp)
	}
	if opp.LatencyNs != 500 {
		t.Fatalf("LatencyNs = %d, want 500 (detectedAt 1000 - sourceTs 500)", opp.LatencyNs)
	}
}

func TestDetectorFiltersBelowMinProfitBps(t *testing.T) {
	reg := registry.New()
	a := reg.Add("BTC-USD", "venueA")
	b := reg.Add("BTC-USD", "venueB")

	// Only ~10 bps of spread, below a 50 bps threshold.
	a.UpdateAsk(100, 1, 1)
	b.UpdateBid(100.1, 1, 1)

	det := New(reg, 50, fixedNow(0))
	opps := det.Check("BTC-USD", 0)
	if len(opps) != 0 {
		t.Fatalf("Check() returned %d opportunities, want 0: %+v", len(opps), opps)
	}
}

func TestDetectorRequiresAtLeastTwoVenues(t *testing.T) {
	reg := registry.New()
	reg.Add("BTC-USD", "venueA")

	det := New(reg, DefaultMinProfitBps, fixedNow(0))
	if opps := det.Check("BTC-USD", 0); opps != nil {
		t.Fatalf("Check() with one venue = %+v, want nil", opps)
	}
}

func TestDetectorChecksBothDirections(t *testing.T) {
	reg := registry.New()
	a := reg.Add("BTC-USD", "venueA")
	b := reg.Add("BTC-USD", "venueB")

	// venueB is cheaper to buy, venueA is more expensive to sell into.
	a.UpdateBid(110, 1, 1)
	a.UpdateAsk(111, 1, 1)
	b.UpdateBid(99, 1, 1)
	b.UpdateAsk(100, 1, 1)

	det := New(reg, DefaultMinProfitBps, fixedNow(0))
	opps := det.Check("BTC-USD", 0)
	if len(opps) != 1 {
		t.Fatalf("Check() returned %d opportunities, want 1: %+v", len(opps), opps)
	}
	if opps[0].BuyVenue != "venueB" || opps[0].SellVenue != "venueA" {
		t.Fatalf("opportunity = %+v, want buy venueB sell venueA", opps[0])
	}
}
