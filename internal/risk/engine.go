// Package risk implements the risk manager (spec.md §4.4): per-opportunity
// sizing and approval, the position table, the trade ledger, and running
// P&L/drawdown/counters. Positions, the ledger, and the running P&L sums
// are protected by a single mutex; opportunity counters and the next trade
// ID are atomic and may be read without it.
package risk

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/yanun0323/decimal"

	"main/internal/model"
)

// epsilon is the zero-crossing tolerance used throughout position math and
// the minimum-viable-size reject threshold (spec.md §4.4.1, §4.4.2).
const epsilon = 0.001

// DefaultFeeRate is charged per side of a simulated fill.
const DefaultFeeRate = 0.001

// DefaultReferencePrice converts remaining dollar exposure into units for
// the exposure cap; see spec.md §9 ("a real system would use a live mark").
const DefaultReferencePrice = 50_000.0

// DefaultMinViable is the size clamp applied when a cap computes to <= 0.
const DefaultMinViable = 0.01

// Config configures a risk Engine.
type Config struct {
	Limits         model.RiskLimits
	InitialBalance float64// max_balance_initial (spec.md §3 RunningState)
	FeeRate        float64
	ReferencePrice float64
	MinViable      float64
}

func (c Config) resolved() Config {
	if c.FeeRate <= 0 {
		c.FeeRate = DefaultFeeRate
	}
	if c.ReferencePrice <= 0 {
		c.ReferencePrice = DefaultReferencePrice
	}
	if c.MinViable <= 0 {
		c.MinViable = DefaultMinViable
	}
	return c
}

type posKey struct {
	Venue  string
	Symbol string
}

type posState struct {
	quantity     decimal.Decimal
	avgPrice     decimal.Decimal
	lastUpdateNs int64
}

// Engine evaluates and books simulated arbitrage trades.
type Engine struct {
	cfg Config

	mu         sync.Mutex
	positions  map[posKey]*posState
	trades     []model.Trade
	dailyPnL   decimal.Decimal
	totalPnL   decimal.Decimal
	maxBalance decimal.Decimal
	initial    decimal.Decimal

	nextTradeID atomic.Uint64
	oppSeen     atomic.Uint64
	oppTaken    atomic.Uint64
	oppRejected atomic.Uint64

	// rejectReasonCounts is indexed by model.RejectionReason; slot 0
	// (Approved) is unused. Grounded on the teacher's
	// internal/obs/metrics.go riskReasonCounts array.
	rejectReasonCounts [8]atomic.Uint64
}

func (e *Engine) reject(reason model.RejectionReason) model.Assessment {
	e.oppRejected.Add(1)
	if int(reason) < len(e.rejectReasonCounts) {
		e.rejectReasonCounts[reason].Add(1)
	}
	return model.Assessment{Reason: reason}
}

// NewEngine creates a risk engine with the given limits and starting
// balance.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.resolved()
	initial := d(cfg.InitialBalance)
	return &Engine{
		cfg:        cfg,
		positions:  make(map[posKey]*posState),
		dailyPnL:   d(0),
		totalPnL:   d(0),
		maxBalance: initial,
		initial:    initial,
	}
}

// Assess sizes and approves/rejects an opportunity without mutating
// positions or the ledger (spec.md §4.4.1). It is a pure function of the
// risk state at call time and the opportunity.
func (e *Engine) Assess(opp model.ArbitrageOpportunity) model.Assessment {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.oppSeen.Add(1)

	buyQty := e.positionQty(opp.BuyVenue, opp.Symbol)
	sellQty := e.positionQty(opp.SellVenue, opp.Symbol)

	maxPos := e.cfg.Limits.MaxPositionSize
	capPosition := math.Min(maxPos-math.Abs(buyQty), maxPos-math.Abs(sellQty))
	if capPosition <= 0 {
		capPosition = e.cfg.MinViable
	}

	totalExposure := e.totalAbsExposureLocked()
	capExposure := (e.cfg.Limits.MaxTotalExposure - totalExposure) / e.cfg.ReferencePrice
	if capExposure <= 0 {
		capExposure = e.cfg.MinViable
	}
	if capExposure > 10.0 {
		capExposure = 10.0
	}
	if capExposure < 0.001 {
		capExposure = 0.001
	}

	capSingle := e.cfg.Limits.MaxSingleTradeSize
	size := math.Min(capSingle, math.Min(capPosition, capExposure))

	if size <= epsilon {
		return e.reject(model.RejectedTradeSize)
	}

	_, fees, net, netBps := simulate(size, opp.BuyPrice, opp.SellPrice, e.cfg.FeeRate)

	if netBps < e.cfg.Limits.MinProfitAfterFeesBps {
		a := e.reject(model.RejectedProfitTooLow)
		a.RecommendedSize, a.ExpectedPnL, a.Fees, a.NetProfitBps = size, net, fees, netBps
		return a
	}

	if f(e.dailyPnL) < -e.cfg.Limits.MaxDailyLoss {
		return e.reject(model.RejectedDailyLoss)
	}

	initial := f(e.initial)
	if initial > 0 {
		current := initial + f(e.totalPnL)
		drawdown := (initial - current) / initial
		if drawdown > e.cfg.Limits.MaxDrawdownFrac {
			return e.reject(model.RejectedDrawdown)
		}
	}

	e.oppTaken.Add(1)
	return model.Assessment{Reason: model.Approved, RecommendedSize: size, ExpectedPnL: net, Fees: fees, NetProfitBps: netBps}
}

// Execute books a simulated fill at size, updating positions, the trade
// ledger, and running P&L (spec.md §4.4.2).
func (e *Engine) Execute(opp model.ArbitrageOpportunity, size float64) (model.Trade, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lc := newLifecycle()
	if size <= 0 || !finite(opp.BuyPrice) || !finite(opp.SellPrice) {
		lc.fail()
		return model.Trade{Status: lc.status}, false
	}

	id := e.nextTradeID.Add(1)
	gross, fees, net, _ := simulate(size, opp.BuyPrice, opp.SellPrice, e.cfg.FeeRate)

	trade := model.Trade{
		ID:        id,
		TsNs:      opp.DetectedAtNs,
		Symbol:    opp.Symbol,
		BuyVenue:  opp.BuyVenue,
		SellVenue: opp.SellVenue,
		Quantity:  size,
		BuyPrice:  opp.BuyPrice,
		SellPrice: opp.SellPrice,
		GrossPnL:  gross,
		Fees:      fees,
		NetPnL:    net,
	}

	e.updatePositionLocked(opp.BuyVenue, opp.Symbol, size, opp.BuyPrice, opp.DetectedAtNs)
	e.updatePositionLocked(opp.SellVenue, opp.Symbol, -size, opp.SellPrice, opp.DetectedAtNs)

	e.dailyPnL = e.dailyPnL.Add(d(net))
	e.totalPnL = e.totalPnL.Add(d(net))
	candidate := e.initial.Add(e.totalPnL)
	if candidate.Cmp(e.maxBalance) > 0 {
		e.maxBalance = candidate
	}

	trade.Status = lc.commit()
	e.trades = append(e.trades, trade)
	return trade, true
}

// Position returns a snapshot of the (venue, symbol) position.
func (e *Engine) Position(venue, symbol string) model.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	pos := e.positions[posKey{venue, symbol}]
	if pos == nil {
		return model.Position{Venue: venue, Symbol: symbol}
	}
	return model.Position{
		Venue:        venue,
		Symbol:       symbol,
		Quantity:     f(pos.quantity),
		AvgPrice:     f(pos.avgPrice),
		LastUpdateNs: pos.lastUpdateNs,
	}
}

// Trades returns a copy of the trade ledger.
func (e *Engine) Trades() []model.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Trade, len(e.trades))
	copy(out, e.trades)
	return out
}

func (e *Engine) positionQty(venue, symbol string) float64 {
	pos := e.positions[posKey{venue, symbol}]
	if pos == nil {
		return 0
	}
	return f(pos.quantity)
}

func (e *Engine) totalAbsExposureLocked() float64 {
	total := 0.0
	for _, p := range e.positions {
		total += math.Abs(f(p.quantity) * f(p.avgPrice))
	}
	return total
}

// updatePositionLocked applies the accumulation/reduction/flip rules of
// spec.md §4.4.2 for an existing position (q0, p0) receiving delta (q1, p1).
func (e *Engine) updatePositionLocked(venue, symbol string, deltaQty, price float64, tsNs int64) {
	key := posKey{venue, symbol}
	pos := e.positions[key]
	if pos == nil {
		pos = &posState{quantity: d(0), avgPrice: d(0)}
		e.positions[key] = pos
	}

	q0, p0 := pos.quantity, pos.avgPrice
	q1, p1 := d(deltaQty), d(price)
	qPrime := q0.Add(q1)

	sign0 := q0.Sign()
	sign1 := q1.Sign()

	var pPrime decimal.Decimal
	if sign0 == 0 || sign0 == sign1 {
		// Accumulation: same direction, or opening from flat.
		if qPrime.Abs().Cmp(d(epsilon)) > 0 {
			pPrime = q0.Mul(p0).Add(q1.Mul(p1)).Div(qPrime)
		} else {
			pPrime = d(0)
		}
	} else {
		// Reduction or flip.
		if qPrime.Abs().Cmp(d(epsilon)) < 0 {
			pPrime = d(0) // closed
		} else if qPrime.Sign() != sign0 {
			pPrime = p1 // flipped direction
		} else {
			pPrime = p0 // partial reduction: average price unchanged
		}
	}

	pos.quantity = qPrime
	pos.avgPrice = pPrime
	pos.lastUpdateNs = tsNs
}

func simulate(size, buyPrice, sellPrice, feeRate float64) (gross, fees, net, netProfitBps float64) {
	qty, buy, sell := d(size), d(buyPrice), d(sellPrice)
	grossD := sell.Sub(buy).Mul(qty)
	feesD := qty.Mul(buy).Add(qty.Mul(sell)).Mul(d(feeRate))
	netD := grossD.Sub(feesD)

	gross, fees, net = f(grossD), f(feesD), f(netD)
	if size > 0 && buyPrice != 0 {
		netProfitBps = net / (size * buyPrice) * 10_000
	}
	return
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
