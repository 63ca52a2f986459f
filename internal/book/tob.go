package book

// TopOfBook is the per-(symbol, venue) aggregate of bid and ask book sides.
// There is exactly one logical writer per TOB (the producing venue's
// thread); best-price reads may run concurrently from any goroutine.
type TopOfBook struct {
	Symbol string
	Venue  string
	Bids   *BookSide
	Asks   *BookSide
}

// New creates an empty TopOfBook for (symbol, venue).
func New(symbol, venue string) *TopOfBook {
	return &TopOfBook{
		Symbol: symbol,
		Venue:  venue,
		Bids:   NewBookSide(true),
		Asks:   NewBookSide(false),
	}
}

// UpdateBid applies a bid-side tick.
func (t *TopOfBook) UpdateBid(price, quantity float64, tsNs int64) {
	t.Bids.Update(price, quantity, tsNs)
}

// UpdateAsk applies an ask-side tick.
func (t *TopOfBook) UpdateAsk(price, quantity float64, tsNs int64) {
	t.Asks.Update(price, quantity, tsNs)
}

// BestBidAsk returns the current best bid and ask prices. A side reports
// ok=false when it has no levels, and is not eligible for arbitrage.
func (t *TopOfBook) BestBidAsk() (bid float64, bidOk bool, ask float64, askOk bool) {
	bid, _, bidOk = t.Bids.Best()
	ask, _, askOk = t.Asks.Best()
	return bid, bidOk, ask, askOk
}

// Spread returns ask-bid; ok is false when either side is empty.
func (t *TopOfBook) Spread() (spread float64, ok bool) {
	bid, bidOk, ask, askOk := t.BestBidAsk()
	if !bidOk || !askOk {
		return 0, false
	}
	return ask - bid, true
}

// MidPrice returns (bid+ask)/2; ok is false when either side is empty.
func (t *TopOfBook) MidPrice() (mid float64, ok bool) {
	bid, bidOk, ask, askOk := t.BestBidAsk()
	if !bidOk || !askOk {
		return 0, false
	}
	return (bid + ask) / 2, true
}
