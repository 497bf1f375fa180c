package runner

import (
	"context"

	"go.uber.org/zap"

	"github.com/rustyeddy/sigtrader/feed"
	"github.com/rustyeddy/sigtrader/market"
	"github.com/rustyeddy/sigtrader/publish"
	"github.com/rustyeddy/sigtrader/risk"
	"github.com/rustyeddy/sigtrader/strategy"
)

func (r *Runner) snapshot(ctx context.Context, bars []market.Bar, d *strategy.Decision, mark float64) publish.Snapshot {
	eng := r.cfg.Engine
	last := bars[len(bars)-1]
	st := eng.Stats()

	s := publish.Snapshot{
		Time:          last.Time,
		Instrument:    eng.Instrument(),
		LastClose:     last.Close,
		Indicators:    last.Indicators,
		WinRate:       st.WinRate(),
		Wins:          st.Wins,
		Losses:        st.Losses,
		TotalTrades:   st.Total,
		ProfitFactor:  publish.Ratio(st.ProfitFactor()),
		Balance:       st.Balance,
		Equity:        eng.Equity(mark),
		TrendStrength: risk.TrendStrength(bars),
		ATRMultiplier: eng.ATRMultiplier(),
		LedgerMisses:  st.LedgerMisses,
	}

	if book, ok := r.cfg.Quotes.(feed.QuoteBook); ok {
		q, err := book.Quote(ctx)
		if err != nil {
			r.log.Debug("snapshot without quote", zap.Error(err))
		} else {
			s.Mid = q.Mid()
			s.Spread = q.Spread()
		}
	}

	if d != nil {
		scores := d.Scores
		s.Signal = d.Signal.Kind
		s.Scores = &scores
	}

	if p, ok := eng.Position(); ok {
		s.Position = &publish.PositionSummary{
			ID:           p.ID,
			Side:         p.Side,
			EntryPrice:   p.EntryPrice,
			StopLoss:     p.StopLoss,
			TakeProfit:   p.TakeProfit,
			Units:        p.Units,
			EntryTime:    p.EntryTime,
			UnrealizedPL: p.UnrealizedPL(mark),
			RewardRisk:   risk.RR(p.EntryPrice, p.StopLoss, p.TakeProfit),
		}
	}
	return s
}
