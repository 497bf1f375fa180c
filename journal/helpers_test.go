package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	return j, path
}

func sampleTrade(id string, closeAt time.Time, pl float64) TradeRecord {
	outcome := "loss"
	if pl > 0 {
		outcome = "win"
	}
	return TradeRecord{
		TradeID:    id,
		Instrument: "XAU_USD",
		Side:       "BUY",
		Units:      4,
		EntryPrice: 2350.40,
		ExitPrice:  2350.40 + pl/4,
		StopLoss:   2347.90,
		TakeProfit: 2356.65,
		OpenTime:   closeAt.Add(-45 * time.Minute),
		CloseTime:  closeAt,
		RealizedPL: pl,
		Outcome:    outcome,
		Reason:     "TakeProfit",
	}
}
