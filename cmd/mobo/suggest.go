package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thalesfsp/mobo"
	"github.com/thalesfsp/mobo/plot"
)

var (
	problemPath string
	samples     int
	seed        int64
	sampling    string
	plotPath    string
	workers     int
	debug       bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Propose the next point to evaluate",
	Long: `Runs one optimization round over the observations in the problem file
and prints the proposed next query point.`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&problemPath, "problem", "", "Problem file (required)")
	suggestCmd.Flags().IntVar(&samples, "samples", 100, "Number of restart samples")
	suggestCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	suggestCmd.Flags().StringVar(&sampling, "sampling", mobo.SamplingUniform, "Sampling strategy: uniform, gaussian, grid")
	suggestCmd.Flags().StringVar(&plotPath, "plot", "", "Write an HTML candidate plot to this path")
	suggestCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent restart workers (0 = serial)")
	suggestCmd.Flags().BoolVar(&debug, "debug", false, "Enable engine debug logging")

	suggestCmd.MarkFlagRequired("problem")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	problem, err := LoadProblem(problemPath)
	if err != nil {
		return err
	}

	cfg := problem.EngineConfig()
	cfg.RestartWorkers = workers
	cfg.Debug = debug

	engine, err := mobo.New(cfg)
	if err != nil {
		return err
	}

	trainX, trainY := problem.TrainingData()

	slog.Info("Starting round",
		"observations", len(trainX),
		"dimensions", len(problem.Bounds),
		"samples", samples,
		"seed", seed,
	)

	next, report, err := engine.Optimize(trainX, trainY, sampling, samples, seed)
	if err != nil {
		return err
	}

	slog.Info("Round complete",
		"next_point", next,
		"scalarization_exponent", report.ScalarizationExponent,
		"time_surrogate", report.TimeSurrogate,
		"time_acquisition", report.TimeAcquisition,
		"time_overall", report.TimeOverall,
	)

	if plotPath != "" {
		if err := plot.RoundCandidates(report, next, "Restart candidates", plotPath); err != nil {
			return fmt.Errorf("failed to write plot: %w", err)
		}

		slog.Info("Wrote candidate plot", "path", plotPath)
	}

	fmt.Printf("Next point: %v\n", next)

	return nil
}
