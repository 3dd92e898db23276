package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dataviz/internal"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "dataviz-cli",
		Short: "Inspect tabular files and build chart specifications",
		Long: `Inspect CSV and XLSX files and run the filter-and-shape pipeline
against them. Results are printed as JSON on stdout; logs go to stderr.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(logLevel))
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "WARN"), "Log level: ERROR|WARN|INFO|DEBUG|TRACE")

	rootCmd.AddCommand(
		newColumnsCmd(),
		newProfileCmd(),
		newChartCmd(),
		newDemoCmd(),
	)
	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
