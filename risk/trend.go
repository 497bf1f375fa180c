package risk

import "github.com/rustyeddy/sigtrader/market"

const (
	trendLookback = 5

	slopeWeight    = 0.4
	distanceWeight = 0.3
	candleWeight   = 0.3

	slopeScale    = 0.01 // slope normalised by 1% of close
	distanceScale = 0.02 // close/EMA50 gap normalised by a 2% band
)

// TrendStrength scores how strongly the window is trending, in [0,1].
//
// It blends the 5-bar EMA50 slope, the distance of the close from EMA50 and
// a tally of the last five candles agreeing with the slope direction. Each
// component is capped at 1 before weighting.
func TrendStrength(window []market.Bar) float64 {
	n := len(window)
	if n == 0 {
		return 0
	}
	last := window[n-1]

	back := n - trendLookback
	if back < 0 {
		back = 0
	}
	slope := (last.EMA50 - window[back].EMA50) / trendLookback

	slopeScore := unit(abs(slope) / (last.Close * slopeScale))
	distanceScore := unit(abs(last.Close-last.EMA50) / abs(last.EMA50) / distanceScale)

	rising := slope > 0
	tally := 0
	for i := n - 1; i >= 0 && i >= n-trendLookback; i-- {
		if window[i].Bullish() == rising {
			tally++
		} else {
			tally--
		}
	}
	candleScore := unit(abs(float64(tally)) / trendLookback)

	return unit(slopeWeight*slopeScore + distanceWeight*distanceScore + candleWeight*candleScore)
}
