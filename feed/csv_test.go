package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `time,open,high,low,close,volume,ema50,ema100,rsi,macd,macd_signal,macd_hist,atr
2024-05-01T09:00:00Z,2300,2301,2299,2300.5,10,,,,,,,
2024-05-01T09:01:00Z,2300.5,2302,2300,2301,12,2290,2280,52,0.4,0.4,0,2
2024-05-01T09:02:00Z,2301,2303,2300.5,2302,9,2291,2281,55,0.5,0.4,0.1,2
2024-05-01T09:03:00Z,2302,2304,2301,2303,NaN,2292,2282,58,0.6,0.45,0.15,NaN
2024-05-01T09:04:00Z,2303,2305,2302,2304,11,2293,2283,60,0.7,0.5,0.2,2.1
`

func TestReadCSVWithHeader(t *testing.T) {
	t.Parallel()

	bars, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, bars, 3) // warm-up row and NaN ATR row skipped

	b := bars[1]
	assert.Equal(t, time.Date(2024, 5, 1, 9, 2, 0, 0, time.UTC), b.Time)
	assert.Equal(t, 2301.0, b.Open)
	assert.Equal(t, 2303.0, b.High)
	assert.Equal(t, 2300.5, b.Low)
	assert.Equal(t, 2302.0, b.Close)
	assert.Equal(t, 9.0, b.Volume)
	assert.Equal(t, 2291.0, b.EMA50)
	assert.Equal(t, 2281.0, b.EMA100)
	assert.Equal(t, 55.0, b.RSI)
	assert.Equal(t, 0.5, b.MACD)
	assert.Equal(t, 0.4, b.MACDSignal)
	assert.Equal(t, 0.1, b.MACDHist)
	assert.Equal(t, 2.0, b.ATR)

	assert.Equal(t, 2.1, bars[2].ATR)
}

func TestReadCSVHeaderOrderAndUnixTime(t *testing.T) {
	t.Parallel()

	in := `time,close,open,high,low,atr,ema50,ema100,rsi,macd,macd_signal,macd_hist
1714554000,100,99,101,98,2,90,80,55,0.5,0.4,0.1
`
	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, time.Unix(1714554000, 0).UTC(), bars[0].Time)
	assert.Equal(t, 100.0, bars[0].Close)
	assert.Equal(t, 99.0, bars[0].Open)
	assert.Equal(t, 0.0, bars[0].Volume)
	assert.Equal(t, 2.0, bars[0].ATR)
}

func TestReadCSVNoHeader(t *testing.T) {
	t.Parallel()

	in := `2024-05-01T09:01:00Z,99,99.5,98.5,99,0,89,79,52,0.4,0.4,0,2
2024-05-01T09:02:00Z,99.5,100.5,99,100,0,90,80,55,0.5,0.4,0.1,2
`
	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 99.0, bars[0].Close)
	assert.Equal(t, 100.0, bars[1].Close)
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"missing column", "time,open,high,low,close\n", "missing column"},
		{"bad time", "yesterday,1,1,1,1,0,1,1,1,1,1,1,1\n", "bad time"},
		{"bad number", "2024-05-01T09:01:00Z,x,1,1,1,0,1,1,1,1,1,1,1\n", "bad open"},
		{"out of order", "2024-05-01T09:02:00Z,1,1,1,1,0,1,1,1,1,1,1,1\n2024-05-01T09:01:00Z,1,1,1,1,0,1,1,1,1,1,1,1\n", "not after"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadCSVEmpty(t *testing.T) {
	t.Parallel()

	bars, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	bars, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, bars, 3)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
