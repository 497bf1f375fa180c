package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sigtrader/feed"
	"github.com/rustyeddy/sigtrader/risk"
	"github.com/rustyeddy/sigtrader/strategy"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <bars.csv>",
	Short: "Score the latest bars of a CSV file once",
	Long: `Load a bar CSV (time,open,high,low,close,volume,ema50,ema100,rsi,macd,
macd_signal,macd_hist,atr), score the last two bars and print the decision,
the per-criterion breakdown and, for BUY or SELL, the stop and target levels
with the fixed-risk position size.

Example:
  sigtrader analyze data/xauusd_m1.csv --bars 500 --risk 10`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeBars    int
	analyzeRisk    float64
	analyzeATRMult float64
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&analyzeBars, "bars", 500, "window size (most recent bars)")
	analyzeCmd.Flags().Float64Var(&analyzeRisk, "risk", 10, "fixed risk per trade for sizing")
	analyzeCmd.Flags().Float64Var(&analyzeATRMult, "atr-mult", risk.DefaultATRMultiplier, "ATR multiplier for the stop distance")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	bars, err := feed.LoadCSV(args[0])
	if err != nil {
		return err
	}
	if analyzeBars > 0 && len(bars) > analyzeBars {
		bars = bars[len(bars)-analyzeBars:]
	}

	d, err := strategy.Analyze(bars, strategy.RiskContext{ATRMultiplier: analyzeATRMult})
	if err != nil && len(d.Scores.Factors) == 0 {
		return fmt.Errorf("analyze: %w", err)
	}

	out := cmd.OutOrStdout()
	last := bars[len(bars)-1]
	fmt.Fprintf(out, "%s close %.2f (%d bars)\n", last.Time.Format("2006-01-02 15:04"), last.Close, len(bars))
	fmt.Fprintf(out, "Trend strength: %.2f\n\n", risk.TrendStrength(bars))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "criterion\tbuy\tsell")
	for _, f := range d.Scores.Factors {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\n", f.Name, f.Buy, f.Sell)
	}
	fmt.Fprintf(tw, "total\t%.1f\t%.1f\n", d.Scores.Buy, d.Scores.Sell)
	tw.Flush()

	fmt.Fprintf(out, "\nDecision: %s\n", d.Signal.Kind)
	if err != nil {
		fmt.Fprintf(out, "  levels unavailable: %v\n", err)
		return nil
	}

	side, ok := d.Signal.Side()
	if !ok {
		return nil
	}
	fmt.Fprintf(out, "  Entry: %.2f\n", d.Signal.Price)
	fmt.Fprintf(out, "  Stop: %.2f\n", d.Signal.StopLoss)
	fmt.Fprintf(out, "  Target: %.2f (R:R %.2f)\n", d.Signal.TakeProfit, risk.RR(d.Signal.Price, d.Signal.StopLoss, d.Signal.TakeProfit))

	size, err := risk.Size(side, d.Signal.Price, d.Signal.StopLoss, analyzeRisk)
	if err != nil {
		fmt.Fprintf(out, "  sizing: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "  Units: %.4f for $%.2f risk\n", size.Units, analyzeRisk)
	return nil
}
