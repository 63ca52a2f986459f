// Package perf implements the performance tracker (spec.md §4.6): atomic
// counters and min/avg/max latency for the update -> detection critical
// path. Grounded on the teacher's internal/obs/metrics.go CAS-loop latency
// stats, generalized from event/order-flow latency to update->detection
// latency and opportunity/trade counts.
package perf

import (
	"sync/atomic"
	"time"
)

// Tracker aggregates latency samples and monotonic counters. All methods
// are safe for concurrent use; min/max use compare-exchange retry loops.
type Tracker struct {
	updatesTotal    atomic.Uint64
	updatesDropped  atomic.Uint64
	opportunities   atomic.Uint64
	tradesExecuted  atomic.Uint64

	latencyCount atomic.Uint64
	latencySum   atomic.Uint64
	latencyMin   atomic.Uint64
	latencyMax   atomic.Uint64
}

// New creates a tracker with latencyMin initialized to its saturating high
// value, per spec.md §4.6 ("latency_min_ns (init u64::MAX)").
func New() *Tracker {
	t := &Tracker{}
	t.latencyMin.Store(^uint64(0))
	return t
}

// ObserveUpdate records that an inbound market update was processed and its
// end-to-end update->detection latency.
func (t *Tracker) ObserveUpdate(latency time.Duration) {
	if t == nil {
		return
	}
	t.updatesTotal.Add(1)
	if latency < 0 {
		return
	}
	nanos := uint64(latency)
	t.latencyCount.Add(1)
	t.latencySum.Add(nanos)
	casMin(&t.latencyMin, nanos)
	casMax(&t.latencyMax, nanos)
}

// IncDrop records one inbound update dropped for an unregistered
// symbol/venue pair (spec.md §4.5 step 2, §7 "counters for drops
// incremented").
func (t *Tracker) IncDrop() {
	if t == nil {
		return
	}
	t.updatesDropped.Add(1)
}

// IncOpportunity records one detected opportunity.
func (t *Tracker) IncOpportunity() {
	if t == nil {
		return
	}
	t.opportunities.Add(1)
}

// IncTradeExecuted records one booked simulated fill.
func (t *Tracker) IncTradeExecuted() {
	if t == nil {
		return
	}
	t.tradesExecuted.Add(1)
}

// Snapshot is a point-in-time view of the tracker's counters.
type Snapshot struct {
	UpdatesTotal   uint64
	UpdatesDropped uint64
	Opportunities  uint64
	TradesExecuted uint64
	LatencyCount   uint64
	LatencyMinNs   uint64
	LatencyMaxNs   uint64
	LatencyAvgNs   uint64
}

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	count := t.latencyCount.Load()
	var min, max, avg uint64
	if count > 0 {
		min = t.latencyMin.Load()
		max = t.latencyMax.Load()
		avg = t.latencySum.Load() / count
	}
	return Snapshot{
		UpdatesTotal:   t.updatesTotal.Load(),
		UpdatesDropped: t.updatesDropped.Load(),
		Opportunities:  t.opportunities.Load(),
		TradesExecuted: t.tradesExecuted.Load(),
		LatencyCount:   count,
		LatencyMinNs:   min,
		LatencyMaxNs:   max,
		LatencyAvgNs:   avg,
	}
}

func casMin(a *atomic.Uint64, v uint64) {
	for {
		cur := a.Load()
		if v >= cur {
			return
		}
		if a.CompareAndSwap(cur, v) {
			return
		}
	}
}

func casMax(a *atomic.Uint64, v uint64) {
	for {
		cur := a.Load()
		if v <= cur {
			return
		}
		if a.CompareAndSwap(cur, v) {
			return
		}
	}
}
