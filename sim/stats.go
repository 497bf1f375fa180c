package sim

import "math"

// Stats is a point-in-time copy of the engine's running totals.
type Stats struct {
	StartingBalance float64
	Balance         float64
	Wins            int
	Losses          int
	Total           int
	LedgerMisses    int
}

// WinRate is wins over total trades, 0 before the first close.
func (s Stats) WinRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Total)
}

// ProfitFactor is wins over losses, +Inf while nothing has lost.
func (s Stats) ProfitFactor() float64 {
	if s.Losses == 0 {
		return math.Inf(1)
	}
	return float64(s.Wins) / float64(s.Losses)
}

// NetPL is the balance change since the engine started.
func (s Stats) NetPL() float64 {
	return s.Balance - s.StartingBalance
}
