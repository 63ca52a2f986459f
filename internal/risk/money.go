package risk

import "github.com/yanun0323/decimal"

// Accumulating sums (daily/total P&L, position average price) are kept in
// decimal.Decimal rather than float64: spec.md's data model is f64 at the
// package boundary, but repeated float addition across thousands of trades
// drifts. The teacher's own exchange payloads (internal/ingest/marketdata_old)
// carry prices as decimal.Decimal for the same reason; this applies the same
// discipline to the risk manager's running totals.

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func f(v decimal.Decimal) float64 {
	r, _ := v.Float64()
	return r
}
