package sink

import "main/internal/model"

// opportunityMessage is the wire shape of a dashboard push message (spec.md
// §6): `{"type":"opportunity","opportunity":{...}}` where the inner object
// carries the opportunity fields plus `approved` and `reason` (ground truth:
// _examples/original_source/src/dashboard_websocket.cpp's
// create_placeholder_opportunity, which nests both inside "opportunity").
type opportunityMessage struct {
	Type        string          `json:"type"`
	Opportunity opportunityBody `json:"opportunity"`
}

type opportunityBody struct {
	Symbol       string  `json:"symbol"`
	BuyVenue     string  `json:"buy_venue"`
	SellVenue    string  `json:"sell_venue"`
	BuyPrice     float64 `json:"buy_price"`
	SellPrice    float64 `json:"sell_price"`
	ProfitBps    float64 `json:"profit_bps"`
	DetectedAtNs int64   `json:"detected_at_ns"`
	LatencyNs    int64   `json:"latency_ns"`
	Approved     bool    `json:"approved"`
	Reason       string  `json:"reason"`
}

func newOpportunityMessage(opp model.ArbitrageOpportunity, approved bool, reason model.RejectionReason) opportunityMessage {
	return opportunityMessage{
		Type: "opportunity",
		Opportunity: opportunityBody{
			Symbol:       opp.Symbol,
			BuyVenue:     opp.BuyVenue,
			SellVenue:    opp.SellVenue,
			BuyPrice:     opp.BuyPrice,
			SellPrice:    opp.SellPrice,
			ProfitBps:    opp.ProfitBps,
			DetectedAtNs: opp.DetectedAtNs,
			LatencyNs:    opp.LatencyNs,
			Approved:     approved,
			Reason:       reason.String(),
		},
	}
}

// EncodeOpportunity marshals an opportunity push message carrying its
// approval decision (approved or rejected, with the reason). The payload
// format is opaque to the core; JSON is the concrete choice.
func EncodeOpportunity(opp model.ArbitrageOpportunity, approved bool, reason model.RejectionReason) ([]byte, error) {
	return encodeJSON(newOpportunityMessage(opp, approved, reason))
}
