package journal

import "math"

// Summary aggregates a set of closed trades.
type Summary struct {
	Trades      int
	Wins        int
	Losses      int
	NetPL       float64
	GrossProfit float64
	GrossLoss   float64
}

// Summarize totals trades. A trade counts as a win when its realized P/L is
// positive, matching how the engine resolves outcomes.
func Summarize(trades []TradeRecord) Summary {
	var s Summary
	for _, t := range trades {
		s.Trades++
		s.NetPL += t.RealizedPL
		if t.RealizedPL > 0 {
			s.Wins++
			s.GrossProfit += t.RealizedPL
		} else {
			s.Losses++
			s.GrossLoss += -t.RealizedPL
		}
	}
	return s
}

// WinRate is wins over trades, 0 with no trades.
func (s Summary) WinRate() float64 {
	if s.Trades == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Trades)
}

// ProfitFactor is gross profit over gross loss; +Inf when nothing was lost.
func (s Summary) ProfitFactor() float64 {
	if s.GrossLoss == 0 {
		if s.GrossProfit == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return s.GrossProfit / s.GrossLoss
}

// MaxDrawdownPct is the largest peak-to-trough equity drop, in percent.
func MaxDrawdownPct(curve []EquitySnapshot) float64 {
	var peak, worst float64
	for i, e := range curve {
		if i == 0 || e.Equity > peak {
			peak = e.Equity
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - e.Equity) / peak * 100; dd > worst {
			worst = dd
		}
	}
	return worst
}
