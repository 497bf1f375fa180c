package market

import "time"

// SignalKind is the decision emitted for a bar window.
type SignalKind string

const (
	SignalBuy  SignalKind = "BUY"
	SignalSell SignalKind = "SELL"
	SignalHold SignalKind = "HOLD"
)

// Signal is a trading decision. HOLD signals carry no ID and zero levels.
type Signal struct {
	ID         string     `json:"id,omitempty"`
	Kind       SignalKind `json:"kind"`
	Time       time.Time  `json:"time"`
	Price      float64    `json:"price"`
	StopLoss   float64    `json:"stopLoss"`
	TakeProfit float64    `json:"takeProfit"`
}

// Hold builds a HOLD signal for the given bar time and price.
func Hold(t time.Time, price float64) Signal {
	return Signal{Kind: SignalHold, Time: t, Price: price}
}

// Tradable reports whether the signal asks for a position.
func (s Signal) Tradable() bool {
	return s.Kind == SignalBuy || s.Kind == SignalSell
}

// Side maps BUY/SELL signals onto a trade side. ok is false for HOLD.
func (s Signal) Side() (Side, bool) {
	switch s.Kind {
	case SignalBuy:
		return Buy, true
	case SignalSell:
		return Sell, true
	default:
		return "", false
	}
}
