package sim

import "github.com/rustyeddy/sigtrader/market"

func hitStopLoss(p *Position, price float64) bool {
	if p.Side == market.Buy {
		return price <= p.StopLoss
	}
	return price >= p.StopLoss
}

func hitTakeProfit(p *Position, price float64) bool {
	if p.Side == market.Buy {
		return price >= p.TakeProfit
	}
	return price <= p.TakeProfit
}
