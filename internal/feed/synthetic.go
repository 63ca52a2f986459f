package feed

import (
	"context"
	"math/rand"
	"time"

	"main/internal/model"
)

// SyntheticConfig parameterizes one venue's synthetic quote generator.
// Different venues are expected to run different configs (spec.md §6: "the
// engine MUST NOT assume uniformity").
type SyntheticConfig struct {
	Venue        string
	BasePrice    float64
	Spread       float64
	Volatility   float64 // per-tick random-walk step stddev
	TickInterval time.Duration
	Seed         int64
}

func (c SyntheticConfig) resolved() SyntheticConfig {
	if c.TickInterval <= 0 {
		c.TickInterval = 50 * time.Millisecond
	}
	if c.Spread < 0 {
		c.Spread = 0
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	return c
}

// SyntheticFeed generates a random-walk bid/ask stream for one venue.
type SyntheticFeed struct {
	base
	cfg   SyntheticConfig
	rng   *rand.Rand
	price float64
	seq   uint64
}

// NewSynthetic creates a synthetic venue feed. It satisfies Feed.
func NewSynthetic(cfg SyntheticConfig) *SyntheticFeed {
	cfg = cfg.resolved()
	f := &SyntheticFeed{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		price: cfg.BasePrice,
	}
	f.name = cfg.Venue
	return f
}

// Start begins emitting ticks on a dedicated goroutine until Stop or ctx is
// done.
func (f *SyntheticFeed) Start(ctx context.Context) error {
	return f.start(ctx, f.run)
}

// Stop cancels the feed and joins its goroutine.
func (f *SyntheticFeed) Stop() {
	f.stop()
}

func (f *SyntheticFeed) run(ctx context.Context) {
	ticker := time.NewTicker(f.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.tick()
		}
	}
}

func (f *SyntheticFeed) tick() {
	if f.cb == nil {
		return
	}
	step := f.rng.NormFloat64() * f.cfg.Volatility
	f.price += step
	if f.price <= 0 {
		f.price = f.cfg.BasePrice
	}

	now := time.Now().UTC().UnixNano()
	half := f.cfg.Spread / 2
	bid := f.price - half
	ask := f.price + half

	f.seq++
	f.cb(model.MarketUpdate{
		Kind:        model.UpdateKindBid,
		Symbol:      f.symbol,
		Venue:       f.cfg.Venue,
		Price:       bid,
		Quantity:    1,
		TimestampNs: now,
		SequenceID:  f.seq,
	})

	f.seq++
	f.cb(model.MarketUpdate{
		Kind:        model.UpdateKindAsk,
		Symbol:      f.symbol,
		Venue:       f.cfg.Venue,
		Price:       ask,
		Quantity:    1,
		TimestampNs: now,
		SequenceID:  f.seq,
	})
}
