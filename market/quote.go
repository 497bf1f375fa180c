package market

import "time"

// Quote is a bid/ask pair for an instrument.
type Quote struct {
	Instrument string    `json:"instrument"`
	Time       time.Time `json:"time"`
	Bid        float64   `json:"bid"`
	Ask        float64   `json:"ask"`
}

func (q Quote) Mid() float64 { return (q.Bid + q.Ask) / 2 }

func (q Quote) Spread() float64 { return q.Ask - q.Bid }

// PriceFor returns the side of the book a position on s is priced against:
// ask for BUY, bid for SELL.
func (q Quote) PriceFor(s Side) float64 {
	if s == Sell {
		return q.Bid
	}
	return q.Ask
}
