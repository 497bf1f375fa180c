package risk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/sigtrader/market"
)

// ErrRejected is returned for trades that break a Policy limit.
var ErrRejected = errors.New("risk: trade rejected by policy")

const (
	CodeNoStopOrEntry = "NO_STOP_OR_ENTRY"
	CodeNoUnits       = "NO_UNITS"
	CodeStopWrongSide = "STOP_WRONG_SIDE"
	CodeTakeWrongSide = "TAKE_WRONG_SIDE"
	CodeRiskTooHigh   = "RISK_TOO_HIGH"
	CodeRRTooLow      = "RR_TOO_LOW"
	CodeTooManyOpen   = "TOO_MANY_OPEN_TRADES"
	CodeInvalidSide   = "INVALID_SIDE"
	geometrySuffix    = "_WRONG_SIDE"
)

type Violation struct {
	Code string
	Msg  string
}

// Verdict is the outcome of a pre-trade check.
type Verdict struct {
	Allowed    bool
	Violations []Violation

	PlannedRisk    float64
	PlannedRiskPct float64
	PlannedRR      float64
}

func (v *Verdict) add(code, msg string) {
	v.Violations = append(v.Violations, Violation{Code: code, Msg: msg})
	v.Allowed = false
}

// Err converts a rejected verdict into an error. Bracket problems wrap
// ErrInvalidRiskGeometry, limit breaches wrap ErrRejected.
func (v Verdict) Err() error {
	if v.Allowed {
		return nil
	}
	msgs := make([]string, 0, len(v.Violations))
	geometry := false
	for _, x := range v.Violations {
		msgs = append(msgs, x.Code+": "+x.Msg)
		if strings.HasSuffix(x.Code, geometrySuffix) {
			geometry = true
		}
	}
	base := ErrRejected
	if geometry {
		base = ErrInvalidRiskGeometry
	}
	return fmt.Errorf("%w: %s", base, strings.Join(msgs, "; "))
}

// Check validates intent against p and the account.
func Check(p Policy, intent TradeIntent, acct AccountSnapshot) Verdict {
	v := Verdict{Allowed: true}

	// Basic sanity
	if intent.Stop == 0 || intent.Entry == 0 {
		v.add(CodeNoStopOrEntry, "entry/stop must be set")
		return v
	}
	if intent.Units <= 0 {
		v.add(CodeNoUnits, "units must be positive")
		return v
	}

	switch intent.Side {
	case market.Buy:
		if intent.Stop >= intent.Entry {
			v.add(CodeStopWrongSide, fmt.Sprintf("stop %v not below entry %v", intent.Stop, intent.Entry))
		}
		if intent.TakeProfit <= intent.Entry {
			v.add(CodeTakeWrongSide, fmt.Sprintf("take profit %v not above entry %v", intent.TakeProfit, intent.Entry))
		}
	case market.Sell:
		if intent.Stop <= intent.Entry {
			v.add(CodeStopWrongSide, fmt.Sprintf("stop %v not above entry %v", intent.Stop, intent.Entry))
		}
		if intent.TakeProfit >= intent.Entry {
			v.add(CodeTakeWrongSide, fmt.Sprintf("take profit %v not below entry %v", intent.TakeProfit, intent.Entry))
		}
	default:
		v.add(CodeInvalidSide, fmt.Sprintf("side %q", intent.Side))
		return v
	}

	// Risk + RR
	v.PlannedRisk = PlannedRisk(intent.Units, intent.Entry, intent.Stop)
	v.PlannedRiskPct = RiskPct(v.PlannedRisk, acct.Equity)
	v.PlannedRR = RR(intent.Entry, intent.Stop, intent.TakeProfit)

	if p.MaxRiskPct > 0 && v.PlannedRiskPct > p.MaxRiskPct {
		v.add(CodeRiskTooHigh,
			fmt.Sprintf("planned risk %.2f%% exceeds max %.2f%%",
				100*v.PlannedRiskPct, 100*p.MaxRiskPct))
	}
	if p.MinRR > 0 && v.PlannedRR < p.MinRR {
		v.add(CodeRRTooLow,
			fmt.Sprintf("RR %.2f below minimum %.2f", v.PlannedRR, p.MinRR))
	}

	// Exposure constraints
	if p.MaxOpenTrades > 0 && acct.OpenTrades >= p.MaxOpenTrades {
		v.add(CodeTooManyOpen,
			fmt.Sprintf("open trades %d >= max %d", acct.OpenTrades, p.MaxOpenTrades))
	}

	return v
}
