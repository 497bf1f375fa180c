package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/rustyeddy/sigtrader/market"
)

// ReplayOptions controls a Replay.
type ReplayOptions struct {
	// Spread is the full bid/ask spread around the close.
	Spread float64
	// Warmup is how many bars are visible on the first fetch, minimum 2.
	Warmup int
}

// Replay plays back a fixed set of bars as if they were arriving live:
// every FetchBars call reveals one more bar.
type Replay struct {
	mu      sync.Mutex
	bars    []market.Bar
	visible int
	opts    ReplayOptions
}

func NewReplay(bars []market.Bar, opts ReplayOptions) *Replay {
	if opts.Warmup < 2 {
		opts.Warmup = 2
	}
	if opts.Spread < 0 {
		opts.Spread = 0
	}
	return &Replay{bars: bars, opts: opts}
}

// OpenReplay loads a CSV file into a Replay.
func OpenReplay(path string, opts ReplayOptions) (*Replay, error) {
	bars, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if len(bars) < 2 {
		return nil, fmt.Errorf("feed: %s: need at least 2 bars with indicators, got %d", path, len(bars))
	}
	return NewReplay(bars, opts), nil
}

// FetchBars reveals the next bar and returns up to count of the visible
// bars. It returns ErrEndOfData once every bar has been revealed.
func (r *Replay) FetchBars(ctx context.Context, count int) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.visible + 1
	if r.visible == 0 {
		next = r.opts.Warmup
	}
	if next > len(r.bars) {
		return nil, ErrEndOfData
	}
	r.visible = next

	start := 0
	if count > 0 && r.visible > count {
		start = r.visible - count
	}
	out := make([]market.Bar, r.visible-start)
	copy(out, r.bars[start:r.visible])
	return out, nil
}

// FetchQuote prices side off the last visible close.
func (r *Replay) FetchQuote(ctx context.Context, side market.Side) (float64, error) {
	q, err := r.Quote(ctx)
	if err != nil {
		return 0, err
	}
	return q.PriceFor(side), nil
}

// Quote is the synthetic bid/ask around the last visible close.
func (r *Replay) Quote(ctx context.Context) (market.Quote, error) {
	if err := ctx.Err(); err != nil {
		return market.Quote{}, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.visible == 0 {
		return market.Quote{}, fmt.Errorf("%w: no bar revealed yet", ErrFeedUnavailable)
	}
	last := r.bars[r.visible-1]
	half := r.opts.Spread / 2
	return market.Quote{Time: last.Time, Bid: last.Close - half, Ask: last.Close + half}, nil
}

// Remaining is the number of bars not yet revealed.
func (r *Replay) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bars) - r.visible
}

func (r *Replay) Len() int { return len(r.bars) }
