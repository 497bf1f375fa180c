package risk

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/sigtrader/market"
)

// ErrInvalidRiskGeometry means the stop is on the wrong side of the entry.
var ErrInvalidRiskGeometry = errors.New("risk: stop loss on wrong side of entry")

// Sizing is a fixed-risk position size.
type Sizing struct {
	Units       float64
	RiskPerUnit float64
	RiskAmount  float64
}

// Size returns the units that lose exactly fixedRisk if the stop is hit.
func Size(side market.Side, entry, stop, fixedRisk float64) (Sizing, error) {
	if fixedRisk <= 0 {
		return Sizing{}, fmt.Errorf("risk: fixed risk must be positive, got %v", fixedRisk)
	}

	var perUnit float64
	switch side {
	case market.Buy:
		perUnit = entry - stop
	case market.Sell:
		perUnit = stop - entry
	default:
		return Sizing{}, fmt.Errorf("risk: size for invalid side %q", side)
	}

	if !(perUnit > 0) {
		return Sizing{}, fmt.Errorf("%w: %s entry=%v stop=%v", ErrInvalidRiskGeometry, side, entry, stop)
	}

	return Sizing{
		Units:       fixedRisk / perUnit,
		RiskPerUnit: perUnit,
		RiskAmount:  fixedRisk,
	}, nil
}
