package market

import "time"

// Indicators are the precomputed technical values attached to a bar by the
// feed. The engine never computes them itself.
type Indicators struct {
	EMA50      float64 `json:"ema50"`
	EMA100     float64 `json:"ema100"`
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macdSignal"`
	MACDHist   float64 `json:"macdHist"`
	ATR        float64 `json:"atr"`
}

// Bar is one closed OHLC candle together with its indicators.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	Indicators
}

// Bullish reports close > open.
func (b Bar) Bullish() bool { return b.Close > b.Open }

// Bearish reports close < open.
func (b Bar) Bearish() bool { return b.Close < b.Open }

// Body is the absolute open/close distance.
func (b Bar) Body() float64 {
	if b.Close > b.Open {
		return b.Close - b.Open
	}
	return b.Open - b.Close
}

// Last returns the most recent bar and the one before it.
// ok is false when fewer than two bars are available.
func Last(bars []Bar) (last, prev Bar, ok bool) {
	if len(bars) < 2 {
		return Bar{}, Bar{}, false
	}
	return bars[len(bars)-1], bars[len(bars)-2], true
}

// LowestLow returns the lowest low of the trailing n bars.
// ok is false when fewer than n bars exist or n <= 0.
func LowestLow(bars []Bar, n int) (low float64, ok bool) {
	if n <= 0 || len(bars) < n {
		return 0, false
	}
	tail := bars[len(bars)-n:]
	low = tail[0].Low
	for _, b := range tail[1:] {
		if b.Low < low {
			low = b.Low
		}
	}
	return low, true
}

// HighestHigh returns the highest high of the trailing n bars.
// ok is false when fewer than n bars exist or n <= 0.
func HighestHigh(bars []Bar, n int) (high float64, ok bool) {
	if n <= 0 || len(bars) < n {
		return 0, false
	}
	tail := bars[len(bars)-n:]
	high = tail[0].High
	for _, b := range tail[1:] {
		if b.High > high {
			high = b.High
		}
	}
	return high, true
}
