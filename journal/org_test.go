package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	rec := sampleTrade("01HV5Y2J3K4M5N6P7Q8R9S0T1V", time.Date(2024, 3, 15, 14, 20, 30, 0, time.UTC), 25)
	result := FormatTradeOrg(rec)

	assert.True(t, strings.HasPrefix(result, "** Trade: XAU_USD BUY (8R9S0T1V)\n"))
	assert.Contains(t, result, ":TRADE_ID: 01HV5Y2J3K4M5N6P7Q8R9S0T1V")
	assert.Contains(t, result, ":INSTRUMENT: XAU_USD")
	assert.Contains(t, result, ":SIDE: BUY")
	assert.Contains(t, result, ":UNITS: 4.0000")
	assert.Contains(t, result, ":ENTRY_PRICE: 2350.40000")
	assert.Contains(t, result, ":EXIT_PRICE: 2356.65000")
	assert.Contains(t, result, ":STOP_LOSS: 2347.90000")
	assert.Contains(t, result, ":TAKE_PROFIT: 2356.65000")
	assert.Contains(t, result, ":OPEN_TIME: 2024-03-15T13:35:30Z")
	assert.Contains(t, result, ":CLOSE_TIME: 2024-03-15T14:20:30Z")
	assert.Contains(t, result, ":REALIZED_PL: 25.00")
	assert.Contains(t, result, ":OUTCOME: win")
	assert.Contains(t, result, ":REASON: TakeProfit")
	assert.Contains(t, result, ":END:")

	assert.Contains(t, result, "*** Signal")
	assert.Contains(t, result, "*** Execution")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradeOrgShortID(t *testing.T) {
	t.Parallel()

	rec := sampleTrade("short", time.Now(), 5)
	assert.Contains(t, FormatTradeOrg(rec), "(short)")

	rec.TradeID = "01HV5Y2J3K4M5N6P7Q8R9S0T1V"
	assert.Contains(t, FormatTradeOrg(rec), "(8R9S0T1V)")
}

func TestFormatTradeOrgNegativePL(t *testing.T) {
	t.Parallel()

	rec := sampleTrade("L1", time.Now(), -10)
	result := FormatTradeOrg(rec)
	assert.Contains(t, result, ":REALIZED_PL: -10.00")
	assert.Contains(t, result, ":OUTCOME: loss")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatTradesOrg(nil))

	now := time.Now()
	out := FormatTradesOrg([]TradeRecord{sampleTrade("A", now, 1), sampleTrade("B", now, -1)})
	assert.Equal(t, 2, strings.Count(out, "** Trade:"))
	assert.Contains(t, out, "*** Review\n- \n\n\n** Trade:")
}
