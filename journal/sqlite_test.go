package journal

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','equity')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["equity"])
}

func TestSQLiteReopenKeepsRows(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	closeT := time.Date(2024, 1, 2, 4, 5, 6, 0, time.UTC)
	require.NoError(t, j.RecordTrade(sampleTrade("T1", closeT, 25)))
	require.NoError(t, j.Close())

	j2, err := NewSQLite(path)
	require.NoError(t, err)
	defer j2.Close()

	got, err := j2.ListTrades()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T1", got[0].TradeID)
}

func TestSQLiteDuplicateTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	rec := sampleTrade("T1", time.Now(), 5)
	require.NoError(t, j.RecordTrade(rec))
	err := j.RecordTrade(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "T1")
}

func TestSQLiteRecordEquity(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: ts, Balance: 1000.1, Equity: 999.9}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: ts.Add(time.Minute), Balance: 1000.1, Equity: 1003}))

	got, err := j.ListEquityBetween(ts, ts.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Time.Equal(ts))
	assert.InDelta(t, 1000.1, got[0].Balance, 1e-9)
	assert.InDelta(t, 999.9, got[0].Equity, 1e-9)
	assert.InDelta(t, 1003.0, got[1].Equity, 1e-9)

	got, err = j.ListEquityBetween(ts.Add(time.Second), ts.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
