// Package dispatch implements the engine's hot path (spec.md §4.5): each
// inbound MarketUpdate applies to the book registry, runs the detector, and
// routes every resulting opportunity through the risk manager to the output
// sinks. Grounded on the teacher's internal/core.core.go event loop,
// generalized from a single order-flow event type to a market-update ->
// opportunity -> trade pipeline.
package dispatch

import (
	"time"

	"github.com/yanun0323/logs"

	"main/internal/detector"
	"main/internal/model"
	"main/internal/perf"
	"main/internal/registry"
	"main/internal/risk"
	"main/internal/sink"
)

// Sinks bundles the dispatcher's output collaborators. Any field may be nil;
// a nil sink is skipped.
type Sinks struct {
	CSV     *sink.CSVLog
	Push    *sink.Sink
	Journal *sink.Journal
}

// Loop wires one venue-agnostic hot path over a shared registry: it applies
// updates, detects opportunities, and settles them through Risk.
type Loop struct {
	Registry *registry.Registry
	Detector *detector.Detector
	Risk     *risk.Engine
	Tracker  *perf.Tracker
	Sinks    Sinks
}

// New builds a Loop from its collaborators. Tracker may be nil.
func New(reg *registry.Registry, det *detector.Detector, riskEngine *risk.Engine, tracker *perf.Tracker, sinks Sinks) *Loop {
	return &Loop{Registry: reg, Detector: det, Risk: riskEngine, Tracker: tracker, Sinks: sinks}
}

// HandleUpdate applies one inbound tick to the registry and drives detection
// and settlement for its symbol. This is the function every venue feed's
// callback should be bound to.
//
// Registry.Add is one-shot at startup and not safe for concurrent use
// (internal/registry/registry.go); HandleUpdate runs on a per-venue feed
// goroutine, so an update for a symbol/venue pair the registry does not
// already know is dropped rather than registered on the hot path (spec.md
// §4.5 step 2, §7 "counters for drops incremented").
func (l *Loop) HandleUpdate(u model.MarketUpdate) {
	start := time.Now()

	tob, ok := l.Registry.Get(u.Symbol, u.Venue)
	if !ok {
		l.Tracker.IncDrop()
		return
	}
	switch u.Kind {
	case model.UpdateKindBid:
		tob.UpdateBid(u.Price, u.Quantity, u.TimestampNs)
	case model.UpdateKindAsk:
		tob.UpdateAsk(u.Price, u.Quantity, u.TimestampNs)
	default:
		// Trade ticks carry no book side to update; still detect on them
		// (spec.md §4.5 "every accepted update re-evaluates detection").
	}

	opps := l.Detector.Check(u.Symbol, u.TimestampNs)
	l.Tracker.ObserveUpdate(time.Since(start))

	for _, opp := range opps {
		l.settle(opp)
	}
}

func (l *Loop) settle(opp model.ArbitrageOpportunity) {
	l.Tracker.IncOpportunity()

	assessment := l.Risk.Assess(opp)
	if !assessment.IsApproved() {
		l.logDecision(opp, assessment.NetProfitBps, assessment.Reason)
		l.publish(opp, false, assessment.Reason)
		return
	}

	trade, ok := l.Risk.Execute(opp, assessment.RecommendedSize)
	if !ok {
		l.logDecision(opp, assessment.NetProfitBps, model.RejectedTradeSize)
		l.publish(opp, false, model.RejectedTradeSize)
		return
	}

	l.Tracker.IncTradeExecuted()
	l.logDecision(opp, assessment.NetProfitBps, model.Approved)
	l.publish(opp, true, model.Approved)

	if l.Sinks.Journal != nil {
		if err := l.Sinks.Journal.Append(trade); err != nil {
			logs.Errorf("dispatch: journal append failed: %v", err)
		}
	}
}

func (l *Loop) logDecision(opp model.ArbitrageOpportunity, netProfitBps float64, reason model.RejectionReason) {
	if l.Sinks.CSV == nil {
		return
	}
	if err := l.Sinks.CSV.Append(opp, netProfitBps, reason); err != nil {
		logs.Errorf("dispatch: csv append failed: %v", err)
	}
}

func (l *Loop) publish(opp model.ArbitrageOpportunity, approved bool, reason model.RejectionReason) {
	if l.Sinks.Push == nil {
		return
	}
	payload, err := sink.EncodeOpportunity(opp, approved, reason)
	if err != nil {
		logs.Errorf("dispatch: encode push message failed: %v", err)
		return
	}
	if err := l.Sinks.Push.Publish(payload); err != nil && err != sink.ErrSinkFull {
		logs.Warnf("dispatch: publish opportunity failed: %v", err)
	}
}
