package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rustyeddy/sigtrader/config"
	"github.com/rustyeddy/sigtrader/journal"
	"github.com/rustyeddy/sigtrader/publish"
)

// openJournal builds the configured journal.
func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "csv":
		return journal.NewCSV(cfg.TradesFile, cfg.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	case "none", "":
		return journal.Discard, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}

// sinks are the snapshot publishers for a run. closers run on exit.
type sinks struct {
	publish.Multi
	hub     *publish.Hub
	closers []func() error
}

func (s *sinks) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openSinks(ctx context.Context, cfg config.PublishConfig, latest *publish.Latest, log *zap.Logger) (*sinks, error) {
	s := &sinks{Multi: publish.Multi{latest, publish.NewLog(log)}}

	if cfg.Redis.Enabled {
		ttl, err := cfg.Redis.TTLDuration()
		if err != nil {
			return nil, fmt.Errorf("redis ttl: %w", err)
		}
		r, err := publish.DialRedis(ctx, publish.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.Channel,
			TTL:      ttl,
		})
		if err != nil {
			return nil, err
		}
		s.Multi = append(s.Multi, r)
		s.closers = append(s.closers, r.Close)
	}

	if cfg.WebSocket.Enabled {
		s.hub = publish.NewHub(log)
		s.Multi = append(s.Multi, s.hub)
		s.closers = append(s.closers, s.hub.Close)
	}
	return s, nil
}
