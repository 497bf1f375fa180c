package strategy

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/sigtrader/internal/id"
	"github.com/rustyeddy/sigtrader/market"
	"github.com/rustyeddy/sigtrader/risk"
)

var ErrInsufficientBars = errors.New("strategy: need at least two bars")

// RiskContext carries the feedback-adjusted inputs for level calculation.
type RiskContext struct {
	// ATRMultiplier scales the base stop distance; <= 0 uses the default.
	ATRMultiplier float64
}

// Decision is the result of one analysis pass.
type Decision struct {
	Signal market.Signal `json:"signal"`
	Scores Scores        `json:"scores"`
}

// Reason summarises the scores behind the decision.
func (d Decision) Reason() string {
	return fmt.Sprintf("%s buy=%.1f sell=%.1f threshold=%.0f", d.Signal.Kind, d.Scores.Buy, d.Scores.Sell, Threshold)
}

// Kind picks the signal kind for a pair of scores. A side must reach
// Threshold and strictly beat the other side.
func Kind(s Scores) market.SignalKind {
	switch {
	case s.Buy >= Threshold && s.Buy > s.Sell:
		return market.SignalBuy
	case s.Sell >= Threshold && s.Sell > s.Buy:
		return market.SignalSell
	default:
		return market.SignalHold
	}
}

// Analyze scores the last two bars of window and, for BUY or SELL, attaches
// stop-loss and take-profit levels computed over the whole window. When the
// levels cannot be computed the decision falls back to HOLD and the error is
// returned alongside it.
func Analyze(window []market.Bar, rc RiskContext) (Decision, error) {
	last, prev, ok := market.Last(window)
	if !ok {
		return Decision{}, ErrInsufficientBars
	}

	d := Decision{
		Signal: market.Hold(last.Time, last.Close),
		Scores: Evaluate(last, prev),
	}

	kind := Kind(d.Scores)
	if kind == market.SignalHold {
		return d, nil
	}

	side := market.Buy
	if kind == market.SignalSell {
		side = market.Sell
	}

	stop, take, err := risk.Levels(window, side, rc.ATRMultiplier)
	if err != nil {
		return d, fmt.Errorf("strategy: %s levels: %w", side, err)
	}

	d.Signal = market.Signal{
		ID:         id.New(),
		Kind:       kind,
		Time:       last.Time,
		Price:      last.Close,
		StopLoss:   stop,
		TakeProfit: take,
	}
	return d, nil
}
