package risk

import "github.com/rustyeddy/sigtrader/market"

// Policy holds pre-trade limits. Zero values disable a limit.
type Policy struct {
	// Risk limit as a fraction of equity, e.g. 0.01
	MaxRiskPct float64

	// Trade constraints
	MinRR float64 // 1.5

	// Exposure limits
	MaxOpenTrades int
}

// TradeIntent is a sized trade about to be opened.
type TradeIntent struct {
	Side       market.Side
	Units      float64
	Entry      float64
	Stop       float64
	TakeProfit float64
}

type AccountSnapshot struct {
	Equity     float64
	OpenTrades int
}
