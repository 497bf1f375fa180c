package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/sigtrader/market"
)

// Columns is the default CSV layout, used when the file has no header.
var Columns = []string{
	"time", "open", "high", "low", "close", "volume",
	"ema50", "ema100", "rsi", "macd", "macd_signal", "macd_hist", "atr",
}

// LoadCSV reads bars from a CSV file. See ReadCSV.
func LoadCSV(path string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bars, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("feed: %s: %w", path, err)
	}
	return bars, nil
}

// ReadCSV parses bars with precomputed indicators.
//
// The header is optional; when present, columns are matched by name in any
// order. Times are RFC3339 or unix seconds. Rows where any indicator is
// blank or NaN are skipped, since indicators are undefined during warm-up.
// Bars must be in ascending time order.
func ReadCSV(r io.Reader) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	cols := index(Columns)
	var bars []market.Bar

	hasHeader := len(first) > 0 && strings.EqualFold(strings.TrimSpace(first[0]), "time")
	if hasHeader {
		if cols, err = headerIndex(first); err != nil {
			return nil, err
		}
	} else {
		if b, ok, err := parseRow(first, cols, 1); err != nil {
			return nil, err
		} else if ok {
			bars = append(bars, b)
		}
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		b, ok, err := parseRow(row, cols, line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if n := len(bars); n > 0 && !b.Time.After(bars[n-1].Time) {
			return nil, fmt.Errorf("line %d: time %s not after %s", line, b.Time.Format(time.RFC3339), bars[n-1].Time.Format(time.RFC3339))
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func index(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}

func headerIndex(header []string) (map[string]int, error) {
	m := make(map[string]int, len(header))
	for i, h := range header {
		m[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range Columns {
		if c == "volume" {
			continue
		}
		if _, ok := m[c]; !ok {
			return nil, fmt.Errorf("header missing column %q", c)
		}
	}
	return m, nil
}

// parseRow returns ok=false for warm-up rows with missing indicators.
func parseRow(row []string, cols map[string]int, line int) (market.Bar, bool, error) {
	get := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	ts, _ := get("time")
	t, err := parseTime(ts)
	if err != nil {
		return market.Bar{}, false, fmt.Errorf("line %d: %w", line, err)
	}

	num := func(name string, required bool) (float64, bool, error) {
		s, ok := get(name)
		if !ok || s == "" {
			if required {
				return 0, false, fmt.Errorf("line %d: missing %s", line, name)
			}
			return 0, false, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("line %d: bad %s %q: %w", line, name, s, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false, nil
		}
		return v, true, nil
	}

	b := market.Bar{Time: t}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"open", &b.Open}, {"high", &b.High}, {"low", &b.Low}, {"close", &b.Close},
	} {
		v, ok, err := num(f.name, true)
		if err != nil {
			return market.Bar{}, false, err
		}
		if !ok {
			return market.Bar{}, false, fmt.Errorf("line %d: %s is not a number", line, f.name)
		}
		*f.dst = v
	}
	if v, ok, err := num("volume", false); err != nil {
		return market.Bar{}, false, err
	} else if ok {
		b.Volume = v
	}

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"ema50", &b.EMA50}, {"ema100", &b.EMA100}, {"rsi", &b.RSI},
		{"macd", &b.MACD}, {"macd_signal", &b.MACDSignal}, {"macd_hist", &b.MACDHist},
		{"atr", &b.ATR},
	} {
		v, ok, err := num(f.name, false)
		if err != nil {
			return market.Bar{}, false, err
		}
		if !ok {
			return market.Bar{}, false, nil
		}
		*f.dst = v
	}
	return b, true, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing time")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}
