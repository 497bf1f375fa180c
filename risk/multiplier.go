package risk

import "github.com/rustyeddy/sigtrader/ledger"

const (
	// DefaultATRMultiplier applies until enough trades have resolved.
	DefaultATRMultiplier = 1.5
	TightATRMultiplier   = 1.2
	WideATRMultiplier    = 2.0

	// FeedbackWindow is how many resolved trades drive the multiplier.
	FeedbackWindow = 5
)

// ATRMultiplier adapts the stop distance to recent results: a hot streak
// tightens stops, a cold one widens them. recent must hold the most recent
// resolved outcomes; fewer than FeedbackWindow yields the default.
func ATRMultiplier(recent []ledger.Outcome) float64 {
	if len(recent) < FeedbackWindow {
		return DefaultATRMultiplier
	}
	rate := ledger.WinRate(recent[len(recent)-FeedbackWindow:])
	switch {
	case rate > 0.7:
		return TightATRMultiplier
	case rate < 0.3:
		return WideATRMultiplier
	default:
		return DefaultATRMultiplier
	}
}

// ATRMultiplierFor reads the last FeedbackWindow resolved entries of l.
func ATRMultiplierFor(l *ledger.Ledger) float64 {
	if l == nil {
		return DefaultATRMultiplier
	}
	return ATRMultiplier(l.RecentResolved(FeedbackWindow))
}
