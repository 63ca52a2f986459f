package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"main/internal/model"
)

func TestSyntheticFeedEmitsBidAndAsk(t *testing.T) {
	f := NewSynthetic(SyntheticConfig{
		Venue:        "venueA",
		BasePrice:    100,
		Spread:       2,
		Volatility:   0,
		TickInterval: time.Millisecond,
		Seed:         7,
	})
	f.SetSymbol("BTC-USD")

	var mu sync.Mutex
	var updates []model.MarketUpdate
	f.SetCallback(func(u model.MarketUpdate) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, u)
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := f.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(updates)
		mu.Unlock()
		if n >= 2 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	f.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(updates) < 2 {
		t.Fatalf("got %d updates, want at least 2", len(updates))
	}
	if updates[0].Kind != model.UpdateKindBid || updates[1].Kind != model.UpdateKindAsk {
		t.Fatalf("first two updates = %v, %v; want bid then ask", updates[0].Kind, updates[1].Kind)
	}
	if updates[0].Price >= updates[1].Price {
		t.Fatalf("bid %v should be below ask %v", updates[0].Price, updates[1].Price)
	}
	if updates[0].Venue != "venueA" || updates[0].Symbol != "BTC-USD" {
		t.Fatalf("update = %+v, want venue venueA symbol BTC-USD", updates[0])
	}
}

func TestSyntheticFeedStopJoinsGoroutine(t *testing.T) {
	f := NewSynthetic(SyntheticConfig{Venue: "venueA", BasePrice: 100, TickInterval: time.Millisecond})
	f.SetSymbol("BTC-USD")
	f.SetCallback(func(model.MarketUpdate) {})

	ctx := context.Background()
	if err := f.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	f.Stop() // must return once the goroutine has exited
}
