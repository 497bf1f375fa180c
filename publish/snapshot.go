// Package publish delivers engine snapshots to presentation layers. Every
// sink is best effort: a slow or missing consumer never holds up the loop.
package publish

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/rustyeddy/sigtrader/market"
	"github.com/rustyeddy/sigtrader/strategy"
)

// Ratio is a float that encodes infinities as "+Inf"/"-Inf" strings, which
// plain JSON numbers cannot hold.
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(f):
		return []byte(`null`), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch s {
		case "+Inf", "Inf":
			*r = Ratio(math.Inf(1))
			return nil
		case "-Inf":
			*r = Ratio(math.Inf(-1))
			return nil
		}
	}
	var f *float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f == nil {
		*r = Ratio(math.NaN())
		return nil
	}
	*r = Ratio(*f)
	return nil
}

// PositionSummary describes the open position in a snapshot.
type PositionSummary struct {
	ID           string      `json:"id"`
	Side         market.Side `json:"side"`
	EntryPrice   float64     `json:"entryPrice"`
	StopLoss     float64     `json:"stopLoss"`
	TakeProfit   float64     `json:"takeProfit"`
	Units        float64     `json:"units"`
	EntryTime    time.Time   `json:"entryTime"`
	UnrealizedPL float64     `json:"unrealizedPl"`
	RewardRisk   float64     `json:"rewardRisk"`
}

// Snapshot is the statistics update sent after every tick.
type Snapshot struct {
	Time       time.Time         `json:"time"`
	Instrument string            `json:"instrument"`
	LastClose  float64           `json:"lastClose"`
	Indicators market.Indicators `json:"indicators"`

	// Mid and Spread come from the quote book when the source has one.
	Mid    float64 `json:"mid,omitempty"`
	Spread float64 `json:"spread,omitempty"`

	Position *PositionSummary `json:"position"`

	WinRate      float64 `json:"winRate"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	TotalTrades  int     `json:"totalTrades"`
	ProfitFactor Ratio   `json:"profitFactor"`
	Balance      float64 `json:"balance"`
	Equity       float64 `json:"equity"`

	TrendStrength float64 `json:"trendStrength"`
	ATRMultiplier float64 `json:"atrMultiplier"`

	Signal market.SignalKind `json:"signal,omitempty"`
	Scores *strategy.Scores  `json:"scores,omitempty"`

	LedgerMisses int `json:"ledgerMisses"`
}
