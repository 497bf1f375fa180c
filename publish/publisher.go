package publish

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rustyeddy/sigtrader/internal/logging"
)

// Publisher receives a snapshot after every tick. Implementations must not
// block for long; the loop waits for Publish to return.
type Publisher interface {
	Publish(ctx context.Context, s Snapshot) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, s Snapshot) error

func (f PublisherFunc) Publish(ctx context.Context, s Snapshot) error { return f(ctx, s) }

// Multi fans a snapshot out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, s Snapshot) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes a debug line per snapshot.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: logging.OrNop(log)}
}

func (l *Log) Publish(_ context.Context, s Snapshot) error {
	fields := []zap.Field{
		zap.Time("bar", s.Time),
		zap.Float64("close", s.LastClose),
		zap.Float64("balance", s.Balance),
		zap.Float64("equity", s.Equity),
		zap.Int("wins", s.Wins),
		zap.Int("losses", s.Losses),
		zap.Float64("trend", s.TrendStrength),
		zap.Float64("atrMult", s.ATRMultiplier),
	}
	if s.Signal != "" {
		fields = append(fields, zap.String("signal", string(s.Signal)))
	}
	if s.Scores != nil {
		fields = append(fields, zap.Float64("buyScore", s.Scores.Buy), zap.Float64("sellScore", s.Scores.Sell))
	}
	if s.Position != nil {
		fields = append(fields,
			zap.String("position", string(s.Position.Side)),
			zap.Float64("unrealized", s.Position.UnrealizedPL),
		)
	}
	l.log.Debug("snapshot", fields...)
	return nil
}
