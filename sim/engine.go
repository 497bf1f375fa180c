// Package sim manages one simulated position at a time: it opens positions
// from signals, closes them when a quote crosses the stop or target, keeps
// the running balance and win/loss counts, and resolves the ledger entry of
// every closed trade.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/sigtrader/internal/logging"
	"github.com/rustyeddy/sigtrader/journal"
	"github.com/rustyeddy/sigtrader/ledger"
	"github.com/rustyeddy/sigtrader/market"
	"github.com/rustyeddy/sigtrader/risk"
)

var (
	ErrNotTradable  = errors.New("sim: signal is not BUY or SELL")
	ErrPositionOpen = errors.New("sim: a position is already open")
	ErrNoPosition   = errors.New("sim: no open position")
)

// Config sets up an Engine.
type Config struct {
	Instrument      string
	StartingBalance float64
	// FixedRisk is the amount lost when a position hits its stop.
	FixedRisk float64
	// Policy adds optional pre-trade limits. MaxOpenTrades is always 1.
	Policy risk.Policy
}

// Engine is the simulated account. All methods are safe for concurrent use;
// reads return copies.
type Engine struct {
	mu sync.Mutex

	cfg     Config
	balance decimal.Decimal
	pos     *Position
	ledger  *ledger.Ledger

	wins, losses, total int
	ledgerMisses        int

	journal journal.Journal
	log     *zap.Logger
}

// NewEngine returns an idle engine. j and log may be nil.
func NewEngine(cfg Config, j journal.Journal, log *zap.Logger) (*Engine, error) {
	if cfg.FixedRisk <= 0 {
		return nil, fmt.Errorf("sim: fixed risk must be positive, got %v", cfg.FixedRisk)
	}
	if cfg.StartingBalance <= 0 {
		return nil, fmt.Errorf("sim: starting balance must be positive, got %v", cfg.StartingBalance)
	}
	if j == nil {
		j = journal.Discard
	}
	cfg.Policy.MaxOpenTrades = 1

	return &Engine{
		cfg:     cfg,
		balance: decimal.NewFromFloat(cfg.StartingBalance),
		ledger:  ledger.New(),
		journal: j,
		log:     logging.OrNop(log).With(zap.String("instrument", cfg.Instrument)),
	}, nil
}

// Execute opens a position for a BUY or SELL signal filled at price.
// On any error the engine is left unchanged.
func (e *Engine) Execute(ctx context.Context, sig market.Signal, price float64, at time.Time) (Position, error) {
	_ = ctx

	side, ok := sig.Side()
	if !ok {
		return Position{}, fmt.Errorf("%w: %s", ErrNotTradable, sig.Kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pos != nil {
		return Position{}, fmt.Errorf("%w: %s", ErrPositionOpen, e.pos.ID)
	}

	size, err := risk.Size(side, price, sig.StopLoss, e.cfg.FixedRisk)
	if err != nil {
		return Position{}, fmt.Errorf("sim: execute %s: %w", sig.ID, err)
	}

	verdict := risk.Check(e.cfg.Policy, risk.TradeIntent{
		Side:       side,
		Units:      size.Units,
		Entry:      price,
		Stop:       sig.StopLoss,
		TakeProfit: sig.TakeProfit,
	}, risk.AccountSnapshot{Equity: e.balance.InexactFloat64()})
	if err := verdict.Err(); err != nil {
		return Position{}, fmt.Errorf("sim: execute %s: %w", sig.ID, err)
	}

	filled := sig
	filled.Price = price
	filled.Time = at
	if err := e.ledger.Append(filled); err != nil {
		return Position{}, fmt.Errorf("sim: execute %s: %w", sig.ID, err)
	}

	e.pos = &Position{
		ID:         sig.ID,
		Instrument: e.cfg.Instrument,
		Side:       side,
		Units:      size.Units,
		EntryPrice: price,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
		EntryTime:  at,
	}

	e.log.Info("position opened",
		zap.String("id", sig.ID),
		zap.String("side", side.String()),
		zap.Float64("units", size.Units),
		zap.Float64("entry", price),
		zap.Float64("stop", sig.StopLoss),
		zap.Float64("take", sig.TakeProfit),
		zap.Float64("rr", verdict.PlannedRR),
	)
	return *e.pos, nil
}

// Monitor checks the open position against price, the quote for its side.
// It returns the closed trade when the take profit or stop loss was reached,
// and nil when the engine is idle or nothing triggered. Take profit wins
// when both are reached.
func (e *Engine) Monitor(ctx context.Context, price float64, at time.Time) (*ClosedTrade, error) {
	_ = ctx

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pos == nil {
		return nil, nil
	}

	var reason CloseReason
	switch {
	case hitTakeProfit(e.pos, price):
		reason = ReasonTakeProfit
	case hitStopLoss(e.pos, price):
		reason = ReasonStopLoss
	default:
		return nil, nil
	}
	return e.closeLocked(price, at, reason)
}

// Close force-closes the open position at price.
func (e *Engine) Close(ctx context.Context, price float64, at time.Time, reason CloseReason) (*ClosedTrade, error) {
	_ = ctx

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pos == nil {
		return nil, ErrNoPosition
	}
	return e.closeLocked(price, at, reason)
}

// closeLocked realises the position. The close always happens; a ledger
// or journal failure is reported alongside the trade.
func (e *Engine) closeLocked(price float64, at time.Time, reason CloseReason) (*ClosedTrade, error) {
	p := *e.pos

	pl := profit(p.Side, p.Units, p.EntryPrice, price)
	e.balance = e.balance.Add(decimal.NewFromFloat(pl))

	outcome := ledger.Loss
	if pl > 0 {
		outcome = ledger.Win
		e.wins++
	} else {
		e.losses++
	}
	e.total++
	e.pos = nil

	trade := &ClosedTrade{
		Position:  p,
		ExitPrice: price,
		ExitTime:  at,
		Profit:    pl,
		Outcome:   outcome,
		Reason:    reason,
	}

	e.log.Info("position closed",
		zap.String("id", p.ID),
		zap.String("reason", string(reason)),
		zap.Float64("exit", price),
		zap.Float64("profit", pl),
		zap.String("outcome", string(outcome)),
		zap.String("balance", e.balance.StringFixed(2)),
	)

	if err := e.journal.RecordTrade(trade.Record()); err != nil {
		e.log.Warn("journal trade failed", zap.String("id", p.ID), zap.Error(err))
	}

	if err := e.ledger.Resolve(p.ID, outcome); err != nil {
		if errors.Is(err, ledger.ErrMatchMiss) {
			e.ledgerMisses++
		}
		e.log.Error("ledger resolve failed", zap.String("id", p.ID), zap.Error(err))
		return trade, fmt.Errorf("sim: close %s: %w", p.ID, err)
	}
	return trade, nil
}

// Position returns a copy of the open position.
func (e *Engine) Position() (Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pos == nil {
		return Position{}, false
	}
	return *e.pos, true
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		StartingBalance: e.cfg.StartingBalance,
		Balance:         e.balance.InexactFloat64(),
		Wins:            e.wins,
		Losses:          e.losses,
		Total:           e.total,
		LedgerMisses:    e.ledgerMisses,
	}
}

// Ledger returns a copy of the signal ledger.
func (e *Engine) Ledger() []ledger.Entry {
	return e.ledger.Entries()
}

// ATRMultiplier is the stop multiplier implied by recent resolved trades.
func (e *Engine) ATRMultiplier() float64 {
	return risk.ATRMultiplierFor(e.ledger)
}

// UnrealizedPL values the open position at price, 0 when idle.
func (e *Engine) UnrealizedPL(price float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pos == nil {
		return 0
	}
	return e.pos.UnrealizedPL(price)
}

// Equity is balance plus the unrealized P/L at price.
func (e *Engine) Equity(price float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	eq := e.balance
	if e.pos != nil {
		eq = eq.Add(decimal.NewFromFloat(e.pos.UnrealizedPL(price)))
	}
	return eq.InexactFloat64()
}

func (e *Engine) Instrument() string { return e.cfg.Instrument }

func (e *Engine) FixedRisk() float64 { return e.cfg.FixedRisk }
