package sim

import (
	"time"

	"github.com/rustyeddy/sigtrader/journal"
	"github.com/rustyeddy/sigtrader/ledger"
)

// CloseReason says why a position was closed.
type CloseReason string

const (
	ReasonTakeProfit CloseReason = "TakeProfit"
	ReasonStopLoss   CloseReason = "StopLoss"
	ReasonShutdown   CloseReason = "Shutdown"
	ReasonEndOfData  CloseReason = "EndOfData"
)

// ClosedTrade is a position after it was closed.
type ClosedTrade struct {
	Position
	ExitPrice float64        `json:"exitPrice"`
	ExitTime  time.Time      `json:"exitTime"`
	Profit    float64        `json:"profit"`
	Outcome   ledger.Outcome `json:"outcome"`
	Reason    CloseReason    `json:"reason"`
}

// Record converts the trade to its journal form.
func (t ClosedTrade) Record() journal.TradeRecord {
	return journal.TradeRecord{
		TradeID:    t.ID,
		Instrument: t.Instrument,
		Side:       t.Side.String(),
		Units:      t.Units,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		StopLoss:   t.StopLoss,
		TakeProfit: t.TakeProfit,
		OpenTime:   t.EntryTime,
		CloseTime:  t.ExitTime,
		RealizedPL: t.Profit,
		Outcome:    string(t.Outcome),
		Reason:     string(t.Reason),
	}
}
