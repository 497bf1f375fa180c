package publish

import (
	"context"
	"sync"
)

// Latest holds at most one unread snapshot. A newer snapshot replaces an
// unread older one, so readers always see the most recent state and the
// writer never waits.
type Latest struct {
	mu sync.Mutex
	ch chan Snapshot
}

func NewLatest() *Latest {
	return &Latest{ch: make(chan Snapshot, 1)}
}

// C is the channel the presentation layer reads from.
func (l *Latest) C() <-chan Snapshot { return l.ch }

func (l *Latest) Publish(_ context.Context, s Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	select {
	case <-l.ch:
	default:
	}
	l.ch <- s
	return nil
}
