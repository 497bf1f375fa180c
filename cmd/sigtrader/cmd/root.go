package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/sigtrader/config"
)

var rootCmd = &cobra.Command{
	Use:   "sigtrader",
	Short: "Indicator-scored signal engine with a simulated position manager",
	Long: `Sigtrader scores a rolling window of indicator bars into BUY, SELL or
HOLD, sizes a fixed-risk simulated position with ATR-based stop and target
levels, and tracks the results so recent outcomes tune future stops.

It provides tools for:
  - Running the control loop over a bar feed
  - One-shot analysis of a bar window
  - Generating and validating configuration files
  - Querying the SQLite trade journal`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envFiles...)
	},
}

var envFiles []string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, "dotenv files to load (default .env, missing files are ignored)")
}
