// Package runner drives the engine: one tick fetches bars, checks the open
// position, looks for a new entry when flat, and publishes a snapshot.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/sigtrader/feed"
	"github.com/rustyeddy/sigtrader/internal/logging"
	"github.com/rustyeddy/sigtrader/journal"
	"github.com/rustyeddy/sigtrader/market"
	"github.com/rustyeddy/sigtrader/publish"
	"github.com/rustyeddy/sigtrader/sim"
	"github.com/rustyeddy/sigtrader/strategy"
)

const (
	DefaultInterval = 10 * time.Second
	DefaultBarCount = 500
)

// Config wires a Runner. Engine, Bars and Quotes are required.
type Config struct {
	Engine *sim.Engine
	Bars   feed.BarSource
	Quotes feed.QuoteSource

	Publisher publish.Publisher // nil drops snapshots
	Journal   journal.Journal   // equity points; nil discards
	Log       *zap.Logger

	// Interval is the wait between ticks and the retry delay after a failed
	// bar fetch. Zero runs ticks back to back.
	Interval time.Duration
	BarCount int
	// CloseOnExit closes an open position at the current quote when Run
	// returns.
	CloseOnExit bool
	MaxTicks    int // 0 runs until stopped
}

// Runner is the control loop. Only Run and Tick mutate the engine.
type Runner struct {
	cfg Config
	log *zap.Logger

	stopped  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once

	ticks atomic.Int64
}

// Report describes what one tick did.
type Report struct {
	Time     time.Time
	Bars     int
	Closed   *sim.ClosedTrade
	Opened   *sim.Position
	Decision *strategy.Decision
	Snapshot publish.Snapshot
}

func New(cfg Config) (*Runner, error) {
	if cfg.Engine == nil {
		return nil, errors.New("runner: engine is required")
	}
	if cfg.Bars == nil || cfg.Quotes == nil {
		return nil, errors.New("runner: bar and quote sources are required")
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("runner: negative interval %s", cfg.Interval)
	}
	if cfg.BarCount <= 0 {
		cfg.BarCount = DefaultBarCount
	}
	if cfg.Publisher == nil {
		cfg.Publisher = publish.Multi(nil)
	}
	if cfg.Journal == nil {
		cfg.Journal = journal.Discard
	}

	return &Runner{
		cfg:    cfg,
		log:    logging.OrNop(cfg.Log).With(zap.String("instrument", cfg.Engine.Instrument())),
		stopCh: make(chan struct{}),
	}, nil
}

// Stop asks Run to return before its next tick. A tick in flight completes.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.stopped.Store(true)
		close(r.stopCh)
	})
}

// Ticks returns how many ticks Run has executed.
func (r *Runner) Ticks() int { return int(r.ticks.Load()) }

// Run ticks until ctx is done, Stop is called, MaxTicks is reached or the
// bar source reports feed.ErrEndOfData. Tick failures are logged and the
// loop carries on after the usual interval.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("runner started",
		zap.Duration("interval", r.cfg.Interval),
		zap.Int("bars", r.cfg.BarCount),
	)

	reason := sim.ReasonShutdown
	for {
		if ctx.Err() != nil || r.stopped.Load() {
			break
		}

		// Cancellation is honoured between ticks only.
		_, err := r.Tick(context.WithoutCancel(ctx))
		n := int(r.ticks.Add(1))
		if errors.Is(err, feed.ErrEndOfData) {
			reason = sim.ReasonEndOfData
			break
		}
		if err != nil {
			r.log.Warn("tick skipped", zap.Int("tick", n), zap.Error(err))
		}

		if r.cfg.MaxTicks > 0 && n >= r.cfg.MaxTicks {
			break
		}
		if !r.wait(ctx) {
			break
		}
	}

	r.shutdown(context.WithoutCancel(ctx), reason)

	st := r.cfg.Engine.Stats()
	r.log.Info("runner stopped",
		zap.String("reason", string(reason)),
		zap.Int("ticks", r.Ticks()),
		zap.Int("trades", st.Total),
		zap.Float64("balance", st.Balance),
	)
	return nil
}

func (r *Runner) wait(ctx context.Context) bool {
	if r.cfg.Interval <= 0 {
		return true
	}
	t := time.NewTimer(r.cfg.Interval)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-r.stopCh:
		return false
	}
}

func (r *Runner) shutdown(ctx context.Context, reason sim.CloseReason) {
	if !r.cfg.CloseOnExit {
		return
	}
	pos, ok := r.cfg.Engine.Position()
	if !ok {
		return
	}

	price, err := r.cfg.Quotes.FetchQuote(ctx, pos.Side)
	if err != nil {
		r.log.Warn("close on exit: no quote, position left open", zap.String("id", pos.ID), zap.Error(err))
		return
	}
	if _, err := r.cfg.Engine.Close(ctx, price, time.Now().UTC(), reason); err != nil {
		r.log.Error("close on exit", zap.String("id", pos.ID), zap.Error(err))
	}
	r.recordEquity(time.Now().UTC(), price)
}

// Tick runs one pass of the loop. It returns an error only when the bar
// fetch fails, in which case nothing else happened. Monitoring, entry and
// publishing failures are logged and reported through the zero fields of
// the Report.
func (r *Runner) Tick(ctx context.Context) (Report, error) {
	bars, err := r.cfg.Bars.FetchBars(ctx, r.cfg.BarCount)
	if err != nil {
		return Report{}, fmt.Errorf("runner: fetch bars: %w", err)
	}
	if len(bars) == 0 {
		return Report{}, fmt.Errorf("runner: fetch bars: empty window: %w", feed.ErrFeedUnavailable)
	}

	last := bars[len(bars)-1]
	rep := Report{Time: last.Time, Bars: len(bars)}
	eng := r.cfg.Engine

	// mark is the price the open position is valued at for this tick.
	mark := last.Close

	if pos, open := eng.Position(); open {
		price, err := r.cfg.Quotes.FetchQuote(ctx, pos.Side)
		if err != nil {
			r.log.Warn("monitor skipped", zap.String("id", pos.ID), zap.Error(err))
		} else {
			mark = price
			closed, err := eng.Monitor(ctx, price, last.Time)
			if err != nil {
				r.log.Error("monitor", zap.String("id", pos.ID), zap.Error(err))
			}
			rep.Closed = closed
		}
	}

	if _, open := eng.Position(); !open {
		rep.Decision, rep.Opened = r.enter(ctx, bars)
		if rep.Opened != nil {
			mark = rep.Opened.EntryPrice
		}
	}

	rep.Snapshot = r.snapshot(ctx, bars, rep.Decision, mark)
	if err := r.cfg.Publisher.Publish(ctx, rep.Snapshot); err != nil {
		r.log.Warn("publish snapshot", zap.Error(err))
	}
	r.recordEquity(last.Time, mark)

	return rep, nil
}

func (r *Runner) enter(ctx context.Context, bars []market.Bar) (*strategy.Decision, *sim.Position) {
	eng := r.cfg.Engine

	d, err := strategy.Analyze(bars, strategy.RiskContext{ATRMultiplier: eng.ATRMultiplier()})
	if errors.Is(err, strategy.ErrInsufficientBars) {
		return nil, nil
	}
	if err != nil {
		r.log.Warn("analyze", zap.Error(err))
	}

	r.log.Debug("decision",
		zap.String("signal", string(d.Signal.Kind)),
		zap.Float64("buy", d.Scores.Buy),
		zap.Float64("sell", d.Scores.Sell),
	)

	side, ok := d.Signal.Side()
	if !ok {
		return &d, nil
	}

	price, err := r.cfg.Quotes.FetchQuote(ctx, side)
	if err != nil {
		r.log.Warn("entry skipped", zap.String("signal", d.Signal.ID), zap.Error(err))
		return &d, nil
	}

	pos, err := eng.Execute(ctx, d.Signal, price, d.Signal.Time)
	if err != nil {
		r.log.Warn("entry rejected", zap.String("signal", d.Signal.ID), zap.Error(err))
		return &d, nil
	}
	return &d, &pos
}

func (r *Runner) recordEquity(at time.Time, mark float64) {
	eng := r.cfg.Engine
	snap := journal.EquitySnapshot{
		Time:    at,
		Balance: eng.Stats().Balance,
		Equity:  eng.Equity(mark),
	}
	if err := r.cfg.Journal.RecordEquity(snap); err != nil {
		r.log.Warn("journal equity", zap.Error(err))
	}
}
