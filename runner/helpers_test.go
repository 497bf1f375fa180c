package runner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/sigtrader/journal"
	"github.com/rustyeddy/sigtrader/market"
	"github.com/rustyeddy/sigtrader/sim"
)

var t0 = time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)

func bar(i int, open, close float64, ind market.Indicators) market.Bar {
	hi, lo := max(open, close)+0.5, min(open, close)-0.5
	return market.Bar{
		Time: t0.Add(time.Duration(i) * time.Minute),
		Open: open, High: hi, Low: lo, Close: close,
		Indicators: ind,
	}
}

// buyWindow ends in an established uptrend with a fresh MACD cross, which
// scores BUY 61 with stop 96.4 and take-profit 106 at the default multiplier.
func buyWindow() []market.Bar {
	return []market.Bar{
		bar(0, 99, 99, market.Indicators{EMA50: 89, EMA100: 79, MACD: 0.4, MACDSignal: 0.4, RSI: 52, ATR: 2}),
		bar(1, 99.5, 100, market.Indicators{EMA50: 90, EMA100: 80, MACD: 0.5, MACDSignal: 0.4, RSI: 55, ATR: 2}),
	}
}

// quiet is an uptrend bar with no fresh cross; it never scores a signal.
func quiet(i int, open, close float64) market.Bar {
	return bar(i, open, close, market.Indicators{EMA50: 91, EMA100: 81, MACD: 0.5, MACDSignal: 0.4, RSI: 50, ATR: 2})
}

type memJournal struct {
	mu     sync.Mutex
	trades []journal.TradeRecord
	equity []journal.EquitySnapshot
}

func (j *memJournal) RecordTrade(r journal.TradeRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.trades = append(j.trades, r)
	return nil
}

func (j *memJournal) RecordEquity(s journal.EquitySnapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.equity = append(j.equity, s)
	return nil
}

func (j *memJournal) Close() error { return nil }

// fakeSource serves the same window on every fetch.
type fakeSource struct {
	mu       sync.Mutex
	bars     []market.Bar
	barErr   error
	quoteErr error
	fetches  int
	onFetch  func(n int)
}

func (f *fakeSource) FetchBars(_ context.Context, _ int) ([]market.Bar, error) {
	f.mu.Lock()
	f.fetches++
	n, hook := f.fetches, f.onFetch
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if f.barErr != nil {
		return nil, f.barErr
	}
	out := make([]market.Bar, len(f.bars))
	copy(out, f.bars)
	return out, nil
}

func (f *fakeSource) FetchQuote(_ context.Context, _ market.Side) (float64, error) {
	if f.quoteErr != nil {
		return 0, f.quoteErr
	}
	return f.bars[len(f.bars)-1].Close, nil
}

func (f *fakeSource) Fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func newEngine(t *testing.T) (*sim.Engine, *memJournal) {
	t.Helper()
	j := &memJournal{}
	e, err := sim.NewEngine(sim.Config{Instrument: "XAUUSD", StartingBalance: 10000, FixedRisk: 10}, j, nil)
	require.NoError(t, err)
	return e, j
}
