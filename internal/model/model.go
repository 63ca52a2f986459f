// Package model defines the value types shared across the arbitrage engine:
// market updates, opportunities, positions, trades, and risk limits.
package model

// UpdateKind describes what changed in a MarketUpdate.
type UpdateKind uint8

const (
	UpdateKindUnknown UpdateKind = iota
	UpdateKindBid
	UpdateKindAsk
	UpdateKindTrade
)

// MarketUpdate is a single inbound tick from a venue feed.
type MarketUpdate struct {
	Kind         UpdateKind
	Symbol       string
	Venue        string
	Price        float64
	Quantity     float64
	TimestampNs  int64
	SequenceID   uint64
}

// ArbitrageOpportunity is a detected buy-low/sell-high pairing across two
// venues. Value type: created at detection, never mutated.
type ArbitrageOpportunity struct {
	Symbol       string
	BuyVenue     string
	SellVenue    string
	BuyPrice     float64
	SellPrice    float64
	ProfitBps    float64
	DetectedAtNs int64
	LatencyNs    int64
}

// Position is keyed by (venue, symbol) in the risk manager.
type Position struct {
	Venue       string
	Symbol      string
	Quantity    float64 // signed; + long / - short
	AvgPrice    float64
	LastUpdateNs int64
}

// TradeStatus is the lifecycle state of a simulated trade.
type TradeStatus uint8

const (
	TradeStatusUnknown TradeStatus = iota
	TradeStatusSimulated
	TradeStatusPending
	TradeStatusFilled
	TradeStatusFailed
)

// Trade is an append-only record of an executed (simulated) fill.
type Trade struct {
	ID         uint64
	TsNs       int64
	Symbol     string
	BuyVenue   string
	SellVenue  string
	Quantity   float64
	BuyPrice   float64
	SellPrice  float64
	GrossPnL   float64
	Fees       float64
	NetPnL     float64
	Status     TradeStatus
}

// RiskLimits bounds what the risk manager will approve.
type RiskLimits struct {
	MaxPositionSize        float64
	MaxTotalExposure       float64
	MaxSingleTradeSize     float64
	MinProfitAfterFeesBps  float64
	MaxDailyLoss           float64
	MaxDrawdownFrac        float64
}

// RunningState is the risk manager's mutable bookkeeping.
type RunningState struct {
	DailyPnL     float64
	TotalPnL     float64
	MaxBalance   float64
	OppSeen      uint64
	OppTaken     uint64
	OppRejected  uint64
	NextTradeID  uint64
}

// RejectionReason is the risk manager's decision taxonomy (spec.md §4.4.4).
// The zero value, Approved, is the normal outcome for a taken opportunity.
type RejectionReason int

const (
	Approved RejectionReason = iota
	RejectedPositionLimit
	RejectedExposureLimit
	RejectedTradeSize
	RejectedProfitTooLow
	RejectedDailyLoss
	RejectedDrawdown
	RejectedExchangeLimit
)

// String renders the rejection reason for logs and the push message's
// "reason" field. The CSV sink's decision column writes the integer value
// (0-7, in the taxonomy order above), not this string.
func (r RejectionReason) String() string {
	switch r {
	case Approved:
		return "approved"
	case RejectedPositionLimit:
		return "rejected_position_limit"
	case RejectedExposureLimit:
		return "rejected_exposure_limit"
	case RejectedTradeSize:
		return "rejected_trade_size"
	case RejectedProfitTooLow:
		return "rejected_profit_too_low"
	case RejectedDailyLoss:
		return "rejected_daily_loss"
	case RejectedDrawdown:
		return "rejected_drawdown"
	case RejectedExchangeLimit:
		return "rejected_exchange_limit"
	default:
		return "unknown"
	}
}

// Assessment is the outcome of Engine.Assess (internal/risk).
type Assessment struct {
	Reason          RejectionReason
	RecommendedSize float64
	ExpectedPnL     float64
	Fees            float64
	NetProfitBps    float64
}

// IsApproved reports whether the assessment allows execution.
func (a Assessment) IsApproved() bool {
	return a.Reason == Approved
}
