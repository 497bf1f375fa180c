package sim

import (
	"time"

	"github.com/rustyeddy/sigtrader/market"
)

// Position is the single open simulated position. Its ID is the ID of the
// signal that opened it.
type Position struct {
	ID         string      `json:"id"`
	Instrument string      `json:"instrument"`
	Side       market.Side `json:"side"`
	Units      float64     `json:"units"`
	EntryPrice float64     `json:"entryPrice"`
	StopLoss   float64     `json:"stopLoss"`
	TakeProfit float64     `json:"takeProfit"`
	EntryTime  time.Time   `json:"entryTime"`
}

// UnrealizedPL values the position at price.
func (p Position) UnrealizedPL(price float64) float64 {
	return profit(p.Side, p.Units, p.EntryPrice, price)
}
