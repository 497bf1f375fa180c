package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/sigtrader/config"
	"github.com/rustyeddy/sigtrader/feed"
	"github.com/rustyeddy/sigtrader/internal/id"
	"github.com/rustyeddy/sigtrader/internal/logging"
	"github.com/rustyeddy/sigtrader/journal"
	"github.com/rustyeddy/sigtrader/publish"
	"github.com/rustyeddy/sigtrader/risk"
	"github.com/rustyeddy/sigtrader/runner"
	"github.com/rustyeddy/sigtrader/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the signal engine over a bar feed",
	Long: `Run the control loop: every interval fetch bars, check the open
position against its stop and target, look for a new entry when flat and
publish a statistics snapshot.

Without a config file the defaults are used. SIGTRADER_* environment
variables override file values.

Example:
  sigtrader run -f sigtrader.yaml
  sigtrader run --feed data/xauusd_m1.csv --interval 0s`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runConfigPath string
	runFeedPath   string
	runInterval   string
	runMaxTicks   int
	runLogLevel   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	runCmd.Flags().StringVar(&runFeedPath, "feed", "", "override feed.path")
	runCmd.Flags().StringVar(&runInterval, "interval", "", "override loop.interval, e.g. 0s for a fast replay")
	runCmd.Flags().IntVar(&runMaxTicks, "max-ticks", 0, "stop after this many ticks (0 = until end of data)")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "override log.level")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyRunFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	interval, err := cfg.Loop.IntervalDuration()
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Options{Service: "sigtrader", Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Running %s\n", cfg.Strategy.Instrument)
	fmt.Fprintf(out, "  Account: %s (Balance: $%.2f %s)\n", cfg.Account.ID, cfg.Account.Balance, cfg.Account.Currency)
	fmt.Fprintf(out, "  Fixed risk: $%.2f per trade, window %d bars, interval %s\n", cfg.Strategy.FixedRisk, cfg.Strategy.Bars, interval)
	fmt.Fprintf(out, "  Feed: %s\n\n", cfg.Feed.Path)

	replay, err := feed.OpenReplay(cfg.Feed.Path, feed.ReplayOptions{Spread: cfg.Feed.Spread, Warmup: cfg.Feed.Warmup})
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}

	fileJournal, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	mem := journal.NewMemory()
	j := journal.Tee{fileJournal, mem}
	defer j.Close()

	engine, err := sim.NewEngine(sim.Config{
		Instrument:      cfg.Strategy.Instrument,
		StartingBalance: cfg.Account.Balance,
		FixedRisk:       cfg.Strategy.FixedRisk,
		Policy: risk.Policy{
			MaxRiskPct: cfg.Strategy.MaxRiskPct,
			MinRR:      cfg.Strategy.MinRR,
		},
	}, j, log)
	if err != nil {
		return err
	}

	latest := publish.NewLatest()
	sinks, err := openSinks(ctx, cfg.Publish, latest, log)
	if err != nil {
		return fmt.Errorf("create publishers: %w", err)
	}
	defer sinks.Close()

	if sinks.hub != nil {
		go func() {
			if err := sinks.hub.Serve(ctx, cfg.Publish.WebSocket.Addr); err != nil {
				log.Error("websocket server", zap.Error(err))
			}
		}()
	}

	r, err := runner.New(runner.Config{
		Engine:      engine,
		Bars:        replay,
		Quotes:      replay,
		Publisher:   sinks.Multi,
		Journal:     j,
		Log:         log,
		Interval:    interval,
		BarCount:    cfg.Strategy.Bars,
		CloseOnExit: cfg.Loop.CloseOnExit,
		MaxTicks:    cfg.Loop.MaxTicks,
	})
	if err != nil {
		return err
	}

	runID := id.New()
	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	st := engine.Stats()
	fmt.Fprintf(out, "\nFinal Results (%d ticks):\n", r.Ticks())
	fmt.Fprintf(out, "  Bars replayed: %d of %d\n", replay.Len()-replay.Remaining(), replay.Len())
	fmt.Fprintf(out, "  Trades: %d (%d wins, %d losses)\n", st.Total, st.Wins, st.Losses)
	fmt.Fprintf(out, "  Win rate: %.2f%%\n", st.WinRate()*100)
	fmt.Fprintf(out, "  Profit factor: %s\n", formatRatio(st.ProfitFactor()))
	fmt.Fprintf(out, "  Balance: $%.2f\n", st.Balance)
	fmt.Fprintf(out, "  Profit/Loss: $%.2f\n", st.NetPL())
	if st.LedgerMisses > 0 {
		fmt.Fprintf(out, "  Ledger misses: %d\n", st.LedgerMisses)
	}
	if p, ok := engine.Position(); ok {
		fmt.Fprintf(out, "  Open: %s %.4f units @ %.2f (stop %.2f, take %.2f)\n", p.Side, p.Units, p.EntryPrice, p.StopLoss, p.TakeProfit)
	}

	switch cfg.Journal.Type {
	case "csv":
		fmt.Fprintf(out, "\nResults saved to:\n  - %s\n  - %s\n", cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		fmt.Fprintf(out, "\nResults saved to: %s\n", cfg.Journal.DBPath)
	}

	if cfg.Journal.ReportFile != "" {
		rep := journal.NewSessionReport(runID, cfg.Strategy.Instrument, cfg.Account.Balance, mem.Trades(), mem.Equity())
		rep.Feed = cfg.Feed.Path
		rep.FixedRisk = cfg.Strategy.FixedRisk
		rep.ATRMultiplier = engine.ATRMultiplier()
		rep.LedgerMisses = st.LedgerMisses
		if err := rep.WriteOrg(cfg.Journal.ReportFile); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "Session report: %s\n", cfg.Journal.ReportFile)
	}
	return nil
}

func applyRunFlags(cfg *config.Config) {
	if runFeedPath != "" {
		cfg.Feed.Path = runFeedPath
	}
	if runInterval != "" {
		cfg.Loop.Interval = runInterval
	}
	if runMaxTicks > 0 {
		cfg.Loop.MaxTicks = runMaxTicks
	}
	if runLogLevel != "" {
		cfg.Log.Level = runLogLevel
	}
}
