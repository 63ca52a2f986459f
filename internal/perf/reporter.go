package perf

import (
	"context"
	"time"

	"github.com/yanun0323/logs"
)

// DefaultReportInterval is the periodic reporter's cadence (spec.md §4.6:
// "every 10 seconds").
const DefaultReportInterval = 10 * time.Second

// RunReporter starts a ticker-driven loop that logs a Snapshot every
// interval, until ctx is canceled. It is a pure observer: it never mutates
// engine state. Grounded on the teacher's watchConfig ticker loop
// (cmd/trader/main.go).
func RunReporter(ctx context.Context, tracker *Tracker, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := tracker.Snapshot()
			logs.Infof("perf: updates=%d dropped=%d opportunities=%d trades=%d latency_count=%d latency_min_ns=%d latency_avg_ns=%d latency_max_ns=%d",
				snap.UpdatesTotal, snap.UpdatesDropped, snap.Opportunities, snap.TradesExecuted,
				snap.LatencyCount, snap.LatencyMinNs, snap.LatencyAvgNs, snap.LatencyMaxNs)
		}
	}
}
