package risk

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/sigtrader/market"
)

const (
	// ATR/close above this is treated as a high-volatility market.
	highVolatility = 0.005

	highVolStopMult = 1.2
	lowVolStopMult  = 1.8

	strongTrend   = 0.7
	moderateTrend = 0.3

	strongTakeMult   = 2.5
	moderateTakeMult = 2.0
	weakTakeMult     = 1.5

	// Stops and targets are pulled back to the 20-bar swing extreme plus
	// this fraction of ATR when they would overshoot it.
	SwingLookback = 20
	swingBuffer   = 0.2
)

var (
	ErrNoBars     = errors.New("risk: empty bar window")
	ErrInvalidATR = errors.New("risk: ATR must be positive")
)

// Levels computes the stop-loss and take-profit for a new position on side,
// priced off the last close of window. atrMultiplier scales the base stop
// distance (ATR × atrMultiplier); values <= 0 use DefaultATRMultiplier.
func Levels(window []market.Bar, side market.Side, atrMultiplier float64) (stop, take float64, err error) {
	if len(window) == 0 {
		return 0, 0, ErrNoBars
	}
	if !side.Valid() {
		return 0, 0, fmt.Errorf("risk: levels for invalid side %q", side)
	}

	last := window[len(window)-1]
	atr, closePx := last.ATR, last.Close
	if closePx <= 0 {
		return 0, 0, fmt.Errorf("risk: non-positive close %v", closePx)
	}
	if atr <= 0 {
		return 0, 0, fmt.Errorf("%w (got %v)", ErrInvalidATR, atr)
	}
	if atrMultiplier <= 0 {
		atrMultiplier = DefaultATRMultiplier
	}

	base := atr * atrMultiplier

	stopMult := lowVolStopMult
	if atr/closePx > highVolatility {
		stopMult = highVolStopMult
	}

	takeMult := weakTakeMult
	switch ts := TrendStrength(window); {
	case ts > strongTrend:
		takeMult = strongTakeMult
	case ts > moderateTrend:
		takeMult = moderateTakeMult
	}

	low, haveLow := market.LowestLow(window, SwingLookback)
	high, haveHigh := market.HighestHigh(window, SwingLookback)
	buffer := swingBuffer * atr

	if side == market.Buy {
		stop = closePx - base*stopMult
		take = closePx + base*takeMult
		if haveLow && stop < low {
			stop = low - buffer
		}
		if haveHigh && take > high {
			take = high + buffer
		}
		return stop, take, nil
	}

	stop = closePx + base*stopMult
	take = closePx - base*takeMult
	if haveHigh && stop > high {
		stop = high + buffer
	}
	if haveLow && take < low {
		take = low - buffer
	}
	return stop, take, nil
}
