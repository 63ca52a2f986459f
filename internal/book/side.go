// Package book implements the per-venue top-of-book aggregate: a bounded,
// sorted sequence of price levels per side with lock-free best-price reads.
package book

import (
	"math"
	"sync/atomic"
)

// MaxLevels bounds the depth kept per side. A deeper-than-MaxLevels quote is
// not representable and is dropped (spec.md §4.1).
const MaxLevels = 10

// PriceLevel is immutable once written into a slot; slots are overwritten on
// update, never mutated in place field-by-field.
type PriceLevel struct {
	Price        float64
	Quantity     float64
	LastUpdateNs int64
}

// BookSide is one side (bids or asks) of a TopOfBook. There is exactly one
// logical writer; best_bid_ask()-style reads may run concurrently with the
// writer and with each other.
//
// levels[0] is published through a seqlock (seq + three atomics) rather than
// through count alone: an in-place overwrite of the best level (same price,
// new quantity) does not change count, so count's acquire/release pairing
// alone cannot guard it. This is the "seqlock with the same contract" the
// spec calls out as an acceptable fallback for implementations whose atomics
// can't express the raw publish/acquire pattern on a multi-field struct.
type BookSide struct {
	desc bool // true: bids, sorted strictly descending; false: asks, ascending

	raw   [MaxLevels]PriceLevel // full depth; touched only by the writer
	count atomic.Int32

	seq      atomic.Uint64
	lv0Price atomic.Uint64 // math.Float64bits(raw[0].Price)
	lv0Qty   atomic.Uint64 // math.Float64bits(raw[0].Quantity)
	lv0Ts    atomic.Int64

	lastUpdateNs atomic.Int64
}

// NewBookSide creates an empty side. desc selects the comparator: true for
// bids (strictly descending by price), false for asks (strictly ascending).
func NewBookSide(desc bool) *BookSide {
	return &BookSide{desc: desc}
}

// Count returns the number of valid levels, [0, MaxLevels].
func (s *BookSide) Count() int {
	return int(s.count.Load())
}

// LastUpdateNs returns the advisory last-update timestamp; it need not be
// synchronized beyond monotonic atomicity (spec.md §4.1).
func (s *BookSide) LastUpdateNs() int64 {
	return s.lastUpdateNs.Load()
}

// Best returns the level-0 price and quantity, and whether the side is
// non-empty. Lock-free: guarded by a seqlock retry loop, not a mutex.
func (s *BookSide) Best() (price, quantity float64, ok bool) {
	if s.count.Load() == 0 {
		return 0, 0, false
	}
	for {
		s1 := s.seq.Load()
		if s1&1 != 0 {
			continue // writer in progress, retry
		}
		p := math.Float64frombits(s.lv0Price.Load())
		q := math.Float64frombits(s.lv0Qty.Load())
		s2 := s.seq.Load()
		if s1 == s2 {
			if s.count.Load() == 0 {
				return 0, 0, false
			}
			return p, q, true
		}
	}
}

// more reports whether candidate is strictly more competitive than incumbent
// for this side (higher for bids, lower for asks).
func (s *BookSide) more(candidate, incumbent float64) bool {
	if s.desc {
		return candidate > incumbent
	}
	return candidate < incumbent
}

// Update applies a single price/quantity tick, following the sorted-insert
// algorithm in spec.md §4.1: overwrite on exact price match, shift-and-insert
// on a new competitive price, append if there is room, otherwise drop.
func (s *BookSide) Update(price, quantity float64, tsNs int64) {
	n := int(s.count.Load())

	for i := 0; i < n; i++ {
		if s.raw[i].Price == price {
			s.raw[i] = PriceLevel{Price: price, Quantity: quantity, LastUpdateNs: tsNs}
			if i == 0 {
				s.publishBest(price, quantity)
			}
			s.lastUpdateNs.Store(tsNs)
			return
		}
		if s.more(price, s.raw[i].Price) {
			s.insertAt(i, n, price, quantity, tsNs)
			s.lastUpdateNs.Store(tsNs)
			return
		}
	}

	if n < MaxLevels {
		s.raw[n] = PriceLevel{Price: price, Quantity: quantity, LastUpdateNs: tsNs}
		if n == 0 {
			s.publishBest(price, quantity)
		}
		s.count.Store(int32(n + 1))
		s.lastUpdateNs.Store(tsNs)
		return
	}
	// Full and less competitive than every existing level: dropped.
}

// insertAt shifts raw[i:min(n,MaxLevels-1)] down by one and writes the new
// level at i. If i==0, the new best level is published via the seqlock
// before count is bumped, matching "writer publishes levels[0] before
// bumping count" (spec.md §4.1).
func (s *BookSide) insertAt(i, n int, price, quantity float64, tsNs int64) {
	last := n
	if last > MaxLevels-1 {
		last = MaxLevels - 1
	}
	for j := last; j > i; j-- {
		s.raw[j] = s.raw[j-1]
	}
	s.raw[i] = PriceLevel{Price: price, Quantity: quantity, LastUpdateNs: tsNs}
	if i == 0 {
		s.publishBest(price, quantity)
	}
	if n < MaxLevels {
		s.count.Store(int32(n + 1))
	}
}

func (s *BookSide) publishBest(price, quantity float64) {
	s.seq.Add(1) // odd: writer in progress
	s.lv0Price.Store(math.Float64bits(price))
	s.lv0Qty.Store(math.Float64bits(quantity))
	s.lv0Ts.Store(s.raw[0].LastUpdateNs)
	s.seq.Add(1) // even: publish complete
}

// Levels copies up to MaxLevels valid price levels into dst and returns the
// slice, for diagnostics/tests. Not on the hot read path.
func (s *BookSide) Levels(dst []PriceLevel) []PriceLevel {
	n := int(s.count.Load())
	if n > MaxLevels {
		n = MaxLevels
	}
	dst = dst[:0]
	for i := 0; i < n; i++ {
		dst = append(dst, s.raw[i])
	}
	return dst
}
