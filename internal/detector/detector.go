// Package detector implements the pairwise cross-venue arbitrage detector
// (spec.md §4.3): given a symbol and a source timestamp, it computes the set
// of profitable directed venue pairs from the current best prices.
package detector

import (
	"main/internal/model"
	"main/internal/registry"
)

// NowFunc returns the current time in nanoseconds; overridable in tests.
type NowFunc func() int64

// Detector is pure over the registry's current snapshot; it holds no
// mutable state of its own beyond configuration.
type Detector struct {
	registry    *registry.Registry
	minProfitBps float64
	now         NowFunc
}

// DefaultMinProfitBps is the detector's default threshold (spec.md §4.3).
const DefaultMinProfitBps = 5.0

// New creates a detector over reg. minProfitBps <= 0 falls back to
// DefaultMinProfitBps.
func New(reg *registry.Registry, minProfitBps float64, now NowFunc) *Detector {
	if minProfitBps <= 0 {
		minProfitBps = DefaultMinProfitBps
	}
	if now == nil {
		now = defaultNow
	}
	return &Detector{registry: reg, minProfitBps: minProfitBps, now: now}
}

// Check resolves every unordered venue pair for symbol and emits one
// ArbitrageOpportunity per directed profitable pairing. Pairs are enumerated
// once in registration order; both directions of each pair are tested.
func (d *Detector) Check(symbol string, sourceTsNs int64) []model.ArbitrageOpportunity {
	venues := d.registry.Venues(symbol)
	if len(venues) < 2 {
		return nil
	}

	detectedAt := d.now()
	var out []model.ArbitrageOpportunity

	for i := 0; i < len(venues); i++ {
		for j := i + 1; j < len(venues); j++ {
			a, aOk := d.registry.Get(symbol, venues[i])
			b, bOk := d.registry.Get(symbol, venues[j])
			if !aOk || !bOk {
				continue
			}
			bidA, bidAOk, askA, askAOk := a.BestBidAsk()
			bidB, bidBOk, askB, askBOk := b.BestBidAsk()

			if askAOk && bidBOk && bidB > askA {
				if opp, ok := buildOpportunity(symbol, venues[i], venues[j], askA, bidB, sourceTsNs, detectedAt, d.minProfitBps); ok {
					out = append(out, opp)
				}
			}
			if askBOk && bidAOk && bidA > askB {
				if opp, ok := buildOpportunity(symbol, venues[j], venues[i], askB, bidA, sourceTsNs, detectedAt, d.minProfitBps); ok {
					out = append(out, opp)
				}
			}
		}
	}
	return out
}

func buildOpportunity(symbol, buyVenue, sellVenue string, buyPrice, sellPrice float64, sourceTsNs, detectedAtNs int64, minProfitBps float64) (model.ArbitrageOpportunity, bool) {
	profitBps := (sellPrice - buyPrice) / buyPrice * 10_000
	if profitBps < minProfitBps {
		return model.ArbitrageOpportunity{}, false
	}
	return model.ArbitrageOpportunity{
		Symbol:       symbol,
		BuyVenue:     buyVenue,
		SellVenue:    sellVenue,
		BuyPrice:     buyPrice,
		SellPrice:    sellPrice,
		ProfitBps:    profitBps,
		DetectedAtNs: detectedAtNs,
		LatencyNs:    detectedAtNs - sourceTsNs,
	}, true
}

func defaultNow() int64 {
	return nowNanos()
}
