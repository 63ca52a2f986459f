package book

import "testing"

func TestBookSideInsertionOrder(t *testing.T) {
	bids := NewBookSide(true)
	bids.Update(100, 1, 1)
	bids.Update(102, 1, 2)
	bids.Update(101, 1, 3)

	levels := bids.Levels(nil)
	want := []float64{102, 101, 100}
	if len(levels) != len(want) {
		t.Fatalf("got %d levels, want %d", len(levels), len(want))
	}
	for i, p := range want {
		if levels[i].Price != p {
			t.Errorf("level %d: got price %v, want %v", i, levels[i].Price, p)
		}
	}

	price, qty, ok := bids.Best()
	if !ok || price != 102 || qty != 1 {
		t.Fatalf("Best() = %v, %v, %v; want 102, 1, true", price, qty, ok)
	}
}

func TestBookSideOverwriteExactPrice(t *testing.T) {
	asks := NewBookSide(false)
	asks.Update(100, 1, 1)
	asks.Update(101, 1, 2)
	asks.Update(100, 5, 3)

	if got := asks.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
	levels := asks.Levels(nil)
	if levels[0].Price != 100 || levels[0].Quantity != 5 {
		t.Fatalf("level 0 = %+v, want price 100 qty 5", levels[0])
	}
}

func TestBookSideCapacityDropsLessCompetitive(t *testing.T) {
	bids := NewBookSide(true)
	for i := 0; i < MaxLevels; i++ {
		bids.Update(float64(100+i), 1, int64(i))
	}
	if got := bids.Count(); got != MaxLevels {
		t.Fatalf("Count() = %d, want %d", got, MaxLevels)
	}

	// Less competitive than every existing level: dropped, count unchanged.
	bids.Update(50, 1, 999)
	if got := bids.Count(); got != MaxLevels {
		t.Fatalf("after drop, Count() = %d, want %d", got, MaxLevels)
	}
	price, _, _ := bids.Best()
	if price != float64(100+MaxLevels-1) {
		t.Fatalf("Best() price = %v after drop, want unchanged best", price)
	}

	// More competitive than the worst level: displaces it, count unchanged.
	bids.Update(1000, 1, 1000)
	if got := bids.Count(); got != MaxLevels {
		t.Fatalf("after displace, Count() = %d, want %d", got, MaxLevels)
	}
	price, _, _ = bids.Best()
	if price != 1000 {
		t.Fatalf("Best() price = %v after displace, want 1000", price)
	}
}

func TestBookSideEmpty(t *testing.T) {
	bids := NewBookSide(true)
	if _, _, ok := bids.Best(); ok {
		t.Fatal("Best() on empty side should report ok=false")
	}
}

func TestTopOfBookBestBidAsk(t *testing.T) {
	tob := New("BTC-USD", "venueA")
	tob.UpdateBid(100, 1, 1)
	tob.UpdateAsk(101, 1, 2)

	bid, bidOk, ask, askOk := tob.BestBidAsk()
	if !bidOk || !askOk || bid != 100 || ask != 101 {
		t.Fatalf("BestBidAsk() = %v, %v, %v, %v", bid, bidOk, ask, askOk)
	}
	spread, ok := tob.Spread()
	if !ok || spread != 1 {
		t.Fatalf("Spread() = %v, %v; want 1, true", spread, ok)
	}
	mid, ok := tob.MidPrice()
	if !ok || mid != 100.5 {
		t.Fatalf("MidPrice() = %v, %v; want 100.5, true", mid, ok)
	}
}
