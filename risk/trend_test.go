package risk

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/rustyeddy/sigtrader/market"
	"github.com/stretchr/testify/assert"
)

func risingWindow() []market.Bar {
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	out := make([]market.Bar, 5)
	for i := range out {
		out[i] = market.Bar{
			Time:       t0.Add(time.Duration(i) * time.Minute),
			Open:       105,
			Close:      106,
			Indicators: market.Indicators{EMA50: 100 + float64(i)},
		}
	}
	return out
}

func TestTrendStrengthKnownValue(t *testing.T) {
	t.Parallel()

	// slope 0.8 over 1% of 106, 2/104 distance over a 2% band, 5/5 candles.
	want := 0.4*(0.8/1.06) + 0.3*((2.0/104)/0.02) + 0.3*1
	assert.InDelta(t, want, TrendStrength(risingWindow()), 1e-9)
}

func TestTrendStrengthCandlesAgainstSlope(t *testing.T) {
	t.Parallel()

	w := risingWindow()
	for i := range w {
		w[i].Open, w[i].Close = 106, 105 // bearish against a rising EMA
		w[i].EMA50 = 105
	}
	// flat EMA: slope 0 is not rising, so bearish candles agree.
	assert.InDelta(t, 0.3, TrendStrength(w), 1e-9)

	w[1].Open, w[1].Close = 105, 106
	w[3].Open, w[3].Close = 105, 106
	// tally 3 - 2 = 1
	assert.InDelta(t, 0.3*0.2, TrendStrength(w), 1e-9)
}

func TestTrendStrengthShortWindow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, TrendStrength(nil))

	w := []market.Bar{
		{Open: 99, Close: 99, Indicators: market.Indicators{EMA50: 89}},
		{Open: 99.5, Close: 100, Indicators: market.Indicators{EMA50: 90}},
	}
	// slope (90-89)/5 = 0.2 -> 0.2; distance capped at 1; tally +1 -1 = 0.
	assert.InDelta(t, 0.4*0.2+0.3, TrendStrength(w), 1e-9)
}

func TestTrendStrengthClamped(t *testing.T) {
	t.Parallel()

	extremes := []float64{0, 1e-300, -1e-300, 1, -1, 1e300, -1e300, math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64}
	r := rand.New(rand.NewSource(7))
	pick := func() float64 {
		if r.Intn(2) == 0 {
			return extremes[r.Intn(len(extremes))]
		}
		return (r.Float64() - 0.5) * math.Pow(10, float64(r.Intn(40)-20))
	}

	for i := 0; i < 5000; i++ {
		n := 1 + r.Intn(8)
		w := make([]market.Bar, n)
		for j := range w {
			w[j] = market.Bar{Open: pick(), Close: pick(), Indicators: market.Indicators{EMA50: pick()}}
		}
		got := TrendStrength(w)
		if !assert.False(t, math.IsNaN(got)) || !assert.GreaterOrEqual(t, got, 0.0) || !assert.LessOrEqual(t, got, 1.0) {
			t.Fatalf("out of range for window %+v: %v", w, got)
		}
	}
}
