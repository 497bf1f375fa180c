// Package strategy scores BUY and SELL evidence over the two most recent bars
// and turns the stronger side into a signal with risk-adjusted levels.
package strategy

import "github.com/rustyeddy/sigtrader/market"

// Criterion caps, on a 0-100 scale.
const (
	TrendMax       = 40.0
	MomentumMax    = 30.0
	MACDMax        = 20.0
	PriceActionMax = 10.0

	// Threshold is the score a side needs before it can become a signal.
	Threshold = 60.0
)

const (
	rsiBuyBase   = 40.0
	rsiSellBase  = 60.0
	rsiUpper     = 70.0
	rsiLower     = 30.0
	rsiVolFactor = 1000.0

	// a candle body above this fraction of ATR counts as price action
	bodyATRFraction = 0.5
)

// Factor is one criterion's contribution to each side.
type Factor struct {
	Name string  `json:"name"`
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

// Scores holds the BUY and SELL totals and their breakdown.
type Scores struct {
	Buy     float64  `json:"buy"`
	Sell    float64  `json:"sell"`
	Factors []Factor `json:"factors"`
}

func (s *Scores) add(f Factor) {
	s.Buy += f.Buy
	s.Sell += f.Sell
	s.Factors = append(s.Factors, f)
}

// Evaluate scores last against prev. Both totals are in [0,100].
func Evaluate(last, prev market.Bar) Scores {
	var s Scores
	s.add(trend(last, prev))
	s.add(momentum(last))
	s.add(macd(last, prev))
	s.add(priceAction(last))
	return s
}

// trend gives the full weight to a fresh EMA50/EMA100 cross and half to an
// established one. A cross counts when the previous bar was level.
func trend(last, prev market.Bar) Factor {
	f := Factor{Name: "trend"}
	switch {
	case last.EMA50 > last.EMA100 && prev.EMA50 <= prev.EMA100:
		f.Buy = TrendMax
	case last.EMA50 < last.EMA100 && prev.EMA50 >= prev.EMA100:
		f.Sell = TrendMax
	case last.EMA50 > last.EMA100:
		f.Buy = TrendMax / 2
	case last.EMA50 < last.EMA100:
		f.Sell = TrendMax / 2
	}
	return f
}

// momentum scales RSI between volatility-shifted thresholds. Higher ATR/close
// widens both bands.
func momentum(last market.Bar) Factor {
	f := Factor{Name: "momentum"}

	vol := 0.0
	if last.Close > 0 && last.ATR > 0 {
		vol = last.ATR / last.Close
	}
	buyThr := rsiBuyBase - vol*rsiVolFactor
	sellThr := rsiSellBase + vol*rsiVolFactor

	if rsi := last.RSI; buyThr < rsi && rsi < rsiUpper {
		f.Buy = (rsi - buyThr) / (rsiUpper - buyThr) * MomentumMax
	}
	if rsi := last.RSI; rsiLower < rsi && rsi < sellThr {
		f.Sell = (sellThr - rsi) / (sellThr - rsiLower) * MomentumMax
	}
	return f
}

// macd confirms a fresh line/signal cross on the matching side of zero.
func macd(last, prev market.Bar) Factor {
	f := Factor{Name: "macd"}
	switch {
	case last.MACD > last.MACDSignal && prev.MACD <= prev.MACDSignal && last.MACD > 0:
		f.Buy = MACDMax
	case last.MACD < last.MACDSignal && prev.MACD >= prev.MACDSignal && last.MACD < 0:
		f.Sell = MACDMax
	}
	return f
}

func priceAction(last market.Bar) Factor {
	f := Factor{Name: "price_action"}
	if last.ATR <= 0 || last.Body() <= bodyATRFraction*last.ATR {
		return f
	}
	switch {
	case last.Bullish():
		f.Buy = PriceActionMax
	case last.Bearish():
		f.Sell = PriceActionMax
	}
	return f
}
