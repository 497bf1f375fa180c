package sim

import "github.com/rustyeddy/sigtrader/market"

// profit is (exit-entry)*units for BUY and the negation for SELL.
func profit(side market.Side, units, entry, exit float64) float64 {
	return side.Sign() * units * (exit - entry)
}
