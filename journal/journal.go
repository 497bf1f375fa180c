// Package journal exports closed trades and the equity curve. It is a
// write-only record: nothing in it is read back into the engine.
package journal

import "time"

// TradeRecord is one closed simulated trade.
type TradeRecord struct {
	TradeID    string    `json:"tradeId"`
	Instrument string    `json:"instrument"`
	Side       string    `json:"side"`
	Units      float64   `json:"units"`
	EntryPrice float64   `json:"entryPrice"`
	ExitPrice  float64   `json:"exitPrice"`
	StopLoss   float64   `json:"stopLoss"`
	TakeProfit float64   `json:"takeProfit"`
	OpenTime   time.Time `json:"openTime"`
	CloseTime  time.Time `json:"closeTime"`
	RealizedPL float64   `json:"realizedPl"`
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason"`
}

// EquitySnapshot is one point of the equity curve, recorded every tick.
type EquitySnapshot struct {
	Time    time.Time `json:"time"`
	Balance float64   `json:"balance"`
	Equity  float64   `json:"equity"`
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Discard is a Journal that drops everything.
var Discard Journal = discard{}

type discard struct{}

func (discard) RecordTrade(TradeRecord) error     { return nil }
func (discard) RecordEquity(EquitySnapshot) error { return nil }
func (discard) Close() error                      { return nil }
