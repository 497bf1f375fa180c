// Package ledger records every executed signal and, once its position
// closes, whether it won or lost. Entries are matched by signal ID.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rustyeddy/sigtrader/market"
)

// Outcome is the resolution state of a ledger entry.
type Outcome string

const (
	Pending Outcome = "pending"
	Win     Outcome = "win"
	Loss    Outcome = "loss"
)

// Resolved reports whether o is a final outcome.
func (o Outcome) Resolved() bool { return o == Win || o == Loss }

var (
	ErrMatchMiss       = errors.New("ledger: no entry for signal")
	ErrAlreadyResolved = errors.New("ledger: entry already resolved")
	ErrDuplicateID     = errors.New("ledger: duplicate signal id")
)

// Entry is an executed signal and its outcome.
type Entry struct {
	Signal  market.Signal `json:"signal"`
	Outcome Outcome       `json:"outcome"`
}

// Ledger is an append-only, ordered record of executed signals.
type Ledger struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
}

func New() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Append records an executed BUY/SELL signal as pending.
func (l *Ledger) Append(sig market.Signal) error {
	if !sig.Tradable() {
		return fmt.Errorf("ledger: cannot append %s signal", sig.Kind)
	}
	if sig.ID == "" {
		return fmt.Errorf("ledger: signal has no id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.index[sig.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, sig.ID)
	}
	l.index[sig.ID] = len(l.entries)
	l.entries = append(l.entries, Entry{Signal: sig, Outcome: Pending})
	return nil
}

// Resolve annotates the entry for signalID with its final outcome. An entry
// is resolved at most once.
func (l *Ledger) Resolve(signalID string, o Outcome) error {
	if !o.Resolved() {
		return fmt.Errorf("ledger: %q is not a final outcome", o)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[signalID]
	if !ok {
		return fmt.Errorf("%w %q", ErrMatchMiss, signalID)
	}
	if l.entries[i].Outcome.Resolved() {
		return fmt.Errorf("%w: %s", ErrAlreadyResolved, signalID)
	}
	l.entries[i].Outcome = o
	return nil
}

// Get returns the entry for signalID.
func (l *Ledger) Get(signalID string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.index[signalID]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// RecentResolved returns up to n outcomes of the most recently appended
// resolved entries, oldest first. Pending entries are skipped.
func (l *Ledger) RecentResolved(n int) []Outcome {
	if n <= 0 {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Outcome, 0, n)
	for i := len(l.entries) - 1; i >= 0 && len(out) < n; i-- {
		if o := l.entries[i].Outcome; o.Resolved() {
			out = append(out, o)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Resolved counts entries with a final outcome.
func (l *Ledger) Resolved() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, e := range l.entries {
		if e.Outcome.Resolved() {
			n++
		}
	}
	return n
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of all entries in append order.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// WinRate is the fraction of outcomes that are wins; 0 for an empty slice.
func WinRate(outcomes []Outcome) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	wins := 0
	for _, o := range outcomes {
		if o == Win {
			wins++
		}
	}
	return float64(wins) / float64(len(outcomes))
}
