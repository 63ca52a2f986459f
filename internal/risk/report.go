package risk

import "math"

// Report is a point-in-time snapshot of the risk manager's bookkeeping
// (spec.md §4.4.3).
type Report struct {
	TotalAbsExposure float64
	DailyPnL         float64
	TotalPnL         float64
	DrawdownFrac     float64
	ActivePositions  int
	TotalTrades      int
	WinRate          float64
	AvgNetPnL        float64
	OppSeen          uint64
	OppTaken         uint64
	OppRejected      uint64
	TakeRate         float64
	// RejectReasonCounts is indexed by model.RejectionReason; slot 0
	// (Approved) is always zero.
	RejectReasonCounts [8]uint64
}

// Report returns a snapshot under the mutex of exposure, P&L, drawdown,
// active positions, trade stats, and opportunity counters.
func (e *Engine) Report() Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	active := 0
	for _, p := range e.positions {
		if math.Abs(f(p.quantity)) > epsilon {
			active++
		}
	}

	wins := 0
	sumNet := 0.0
	for _, t := range e.trades {
		sumNet += t.NetPnL
		if t.NetPnL > 0 {
			wins++
		}
	}
	var winRate, avgNet float64
	if len(e.trades) > 0 {
		winRate = float64(wins) / float64(len(e.trades))
		avgNet = sumNet / float64(len(e.trades))
	}

	initial := f(e.initial)
	var drawdown float64
	if initial > 0 {
		current := initial + f(e.totalPnL)
		drawdown = (initial - current) / initial
	}

	seen := e.oppSeen.Load()
	taken := e.oppTaken.Load()
	var takeRate float64
	if seen > 0 {
		takeRate = float64(taken) / float64(seen)
	}

	report := Report{
		TotalAbsExposure: e.totalAbsExposureLocked(),
		DailyPnL:         f(e.dailyPnL),
		TotalPnL:         f(e.totalPnL),
		DrawdownFrac:     drawdown,
		ActivePositions:  active,
		TotalTrades:      len(e.trades),
		WinRate:          winRate,
		AvgNetPnL:        avgNet,
		OppSeen:          seen,
		OppTaken:         taken,
		OppRejected:      e.oppRejected.Load(),
		TakeRate:         takeRate,
	}
	for i := range e.rejectReasonCounts {
		report.RejectReasonCounts[i] = e.rejectReasonCounts[i].Load()
	}
	return report
}
