package journal

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"text/template"
	"time"
)

// SessionReport summarises one run of the engine for an Org-mode notebook.
type SessionReport struct {
	RunID      string
	Created    time.Time
	Instrument string
	Feed       string

	FixedRisk float64

	Start time.Time
	End   time.Time

	Trades int
	Wins   int
	Losses int

	StartBalance float64
	EndBalance   float64

	NetPL         float64
	ReturnPct     float64
	WinRate       float64
	ProfitFactor  float64
	MaxDDPct      float64
	ATRMultiplier float64
	LedgerMisses  int

	Notes []string
}

// NewSessionReport fills the derived fields from the closed trades and the
// equity curve of a run.
func NewSessionReport(runID, instrument string, startBalance float64, trades []TradeRecord, curve []EquitySnapshot) SessionReport {
	s := Summarize(trades)
	r := SessionReport{
		RunID:        runID,
		Created:      time.Now().UTC(),
		Instrument:   instrument,
		Trades:       s.Trades,
		Wins:         s.Wins,
		Losses:       s.Losses,
		StartBalance: startBalance,
		EndBalance:   startBalance + s.NetPL,
		NetPL:        s.NetPL,
		WinRate:      s.WinRate(),
		ProfitFactor: s.ProfitFactor(),
		MaxDDPct:     MaxDrawdownPct(curve),
	}
	if startBalance != 0 {
		r.ReturnPct = s.NetPL / startBalance * 100
	}
	if len(curve) > 0 {
		r.Start = curve[0].Time
		r.End = curve[len(curve)-1].Time
	}
	return r
}

var reportOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"pf": func(x float64) string {
		if math.IsInf(x, 1) {
			return "+Inf"
		}
		return fmt.Sprintf("%.2f", x)
	},
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var reportOrgTemplate = template.Must(template.New("session").Funcs(reportOrgFuncs).Parse(ReportOrgTemplate))

// Org renders the report.
func (r SessionReport) Org() (string, error) {
	buf := new(bytes.Buffer)
	if err := reportOrgTemplate.Execute(buf, r); err != nil {
		return "", fmt.Errorf("journal: render report: %w", err)
	}
	return buf.String(), nil
}

// WriteOrg renders the report to path.
func (r SessionReport) WriteOrg(path string) error {
	s, err := r.Org()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const ReportOrgTemplate = `* SESSION: {{.Instrument}} {{if .Feed}}{{.Feed}}{{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:INSTRUMENT:  {{.Instrument}}
:START_TIME:  {{if .Start.IsZero}}(start?){{else}}{{.Start.Format "2006-01-02 15:04"}}{{end}}
:END_TIME:    {{if .End.IsZero}}(end?){{else}}{{.End.Format "2006-01-02 15:04"}}{{end}}
:START_BAL:   {{printf "%.2f" .StartBalance}}
:END_BAL:     {{printf "%.2f" .EndBalance}}
:NET_PL:      {{printf "%.2f" .NetPL}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDDPct}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" .WinRate}}
:PROFIT_FAC:  {{pf .ProfitFactor}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Risk Parameters
| Parameter        | Value |
|------------------+-------|
| Fixed risk       | {{printf "%.2f" .FixedRisk}} |
| ATR multiplier   | {{printf "%.2f" .ATRMultiplier}} |
| Ledger misses    | {{.LedgerMisses}} |

** Performance Summary
- Net P/L:          *{{printf "%.2f" .NetPL}}*
- Return:           *{{printf "%.2f" .ReturnPct}}%*
- Max Drawdown:     *{{printf "%.2f" .MaxDDPct}}%*
- Win Rate:         *{{printf "%.2f" (mul100 .WinRate)}}%*
- Profit Factor:    *{{pf .ProfitFactor}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |
{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
