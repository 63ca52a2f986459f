// Package registry implements the book registry (spec.md §4.2): the
// symbol -> venue -> TopOfBook mapping. Registration is one-shot during
// startup and is not thread-safe; after startup the top-level structure is
// effectively immutable and only TOB interiors mutate.
package registry

import (
	"fmt"

	"main/internal/book"
)

// Registry owns every TopOfBook's lifetime.
type Registry struct {
	symbols map[string]map[string]*book.TopOfBook
	// venueOrder preserves first-registration order per symbol so the
	// detector enumerates venue pairs in a stable order within one check
	// call (spec.md §4.3, §9 "order of pair enumeration").
	venueOrder map[string][]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		symbols:    make(map[string]map[string]*book.TopOfBook),
		venueOrder: make(map[string][]string),
	}
}

// Add creates an empty TOB for (symbol, venue). Calling Add twice for the
// same pair is a no-op returning the existing TOB.
func (r *Registry) Add(symbol, venue string) *book.TopOfBook {
	venues, ok := r.symbols[symbol]
	if !ok {
		venues = make(map[string]*book.TopOfBook)
		r.symbols[symbol] = venues
	}
	if tob, exists := venues[venue]; exists {
		return tob
	}
	tob := book.New(symbol, venue)
	venues[venue] = tob
	r.venueOrder[symbol] = append(r.venueOrder[symbol], venue)
	return tob
}

// Get returns the TOB for (symbol, venue), or a miss.
func (r *Registry) Get(symbol, venue string) (*book.TopOfBook, bool) {
	venues, ok := r.symbols[symbol]
	if !ok {
		return nil, false
	}
	tob, ok := venues[venue]
	return tob, ok
}

// Venues returns the registered venue names for symbol in registration
// order.
func (r *Registry) Venues(symbol string) []string {
	return r.venueOrder[symbol]
}

// VenueCount returns how many venues are registered for symbol.
func (r *Registry) VenueCount(symbol string) int {
	return len(r.venueOrder[symbol])
}

// Books returns every TOB registered for symbol, in registration order.
func (r *Registry) Books(symbol string) []*book.TopOfBook {
	venues := r.venueOrder[symbol]
	out := make([]*book.TopOfBook, 0, len(venues))
	for _, v := range venues {
		tob, ok := r.symbols[symbol][v]
		if ok {
			out = append(out, tob)
		}
	}
	return out
}

// ErrUnknownPair is a convenience error for callers that want to validate a
// (symbol, venue) pair before resolving it.
var ErrUnknownPair = fmt.Errorf("registry: unknown (symbol, venue) pair")
