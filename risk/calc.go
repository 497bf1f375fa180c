package risk

import "math"

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// unit clamps x into [0,1]. NaN maps to 0 and +Inf to 1.
func unit(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// PlannedRisk is the account loss if a position of units is stopped out.
func PlannedRisk(units, entry, stop float64) float64 {
	return abs(units) * abs(entry-stop)
}

// RR is the reward/risk ratio of a bracket, 0 when there is no risk.
func RR(entry, stop, takeProfit float64) float64 {
	risk := abs(entry - stop)
	reward := abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// RiskPct is planned risk as a fraction of equity.
func RiskPct(plannedRisk, equity float64) float64 {
	if equity <= 0 {
		return math.Inf(1)
	}
	return plannedRisk / equity
}
