package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "mobo",
	Short: "Multi-objective Bayesian optimization",
	Long: `mobo proposes the next point to evaluate for a bi-objective black-box
problem, trading off two competing objectives with Gaussian Process surrogates
and randomized scalarization.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var level slog.Level

		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
