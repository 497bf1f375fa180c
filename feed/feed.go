// Package feed defines the bar and quote sources the control loop polls and
// a CSV replay implementation of both.
package feed

import (
	"context"
	"errors"

	"github.com/rustyeddy/sigtrader/market"
)

var (
	// ErrFeedUnavailable wraps transient bar or quote failures. The loop
	// skips the dependent steps and tries again next tick.
	ErrFeedUnavailable = errors.New("feed: unavailable")
	// ErrEndOfData means a finite source has nothing more to give.
	ErrEndOfData = errors.New("feed: end of data")
)

// BarSource returns up to count of the most recent closed bars, oldest first.
type BarSource interface {
	FetchBars(ctx context.Context, count int) ([]market.Bar, error)
}

// QuoteSource returns the price a position on side trades at: the ask for
// BUY and the bid for SELL.
type QuoteSource interface {
	FetchQuote(ctx context.Context, side market.Side) (float64, error)
}

// QuoteBook is implemented by sources that can serve the full bid/ask pair.
type QuoteBook interface {
	Quote(ctx context.Context) (market.Quote, error)
}

// Source is both.
type Source interface {
	BarSource
	QuoteSource
}
