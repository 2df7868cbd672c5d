package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/77QAlab/LogMiner-QA/internal/flaky"
	"github.com/77QAlab/LogMiner-QA/internal/logging"
	"github.com/77QAlab/LogMiner-QA/internal/report"
	"github.com/77QAlab/LogMiner-QA/internal/results"
)

var analyzeFlags struct {
	resultsDir           string
	configPath           string
	reportPath           string
	ciSummaryPath        string
	markdownPath         string
	flakinessThreshold   float64
	minRuns              int
	trueFailureThreshold float64
	workers              int
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify test results from a directory of CI run reports",
	Long: `Analyze test result files (JUnit XML, JSON, plain text logs) collected
across CI runs and classify each test as flaky, a true failure, stable,
or always skipped.

The directory may hold one subdirectory per run:

  results/
    run_1/report.xml
    run_2/report.xml

or loose files, in which case run identifiers derive from file names.

Malformed files are skipped with a warning and never fail the command.`,
	RunE: runAnalyze,
}

func init() {
	defaults := flaky.DefaultConfig()
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.resultsDir, "results-dir", "", "Directory containing test result files (required)")
	f.StringVar(&analyzeFlags.configPath, "config", "", "Threshold config file (YAML or JSON)")
	f.StringVarP(&analyzeFlags.reportPath, "report", "o", "", "Write the full summary JSON artifact to this path")
	f.StringVar(&analyzeFlags.ciSummaryPath, "ci-summary", "", "Write a compact CI summary JSON to this path")
	f.StringVar(&analyzeFlags.markdownPath, "markdown", "", "Write a Markdown report to this path")
	f.Float64Var(&analyzeFlags.flakinessThreshold, "flakiness-threshold", defaults.FlakinessThreshold, "Flakiness score above this is flaky")
	f.IntVar(&analyzeFlags.minRuns, "min-runs", defaults.MinRunsRequired, "Minimum effective runs for a confident verdict")
	f.Float64Var(&analyzeFlags.trueFailureThreshold, "true-failure-threshold", defaults.TrueFailureThreshold, "Fail rate at or above this is a true failure")
	f.IntVar(&analyzeFlags.workers, "workers", results.DefaultWorkers, "Parallel result file parsers")

	_ = analyzeCmd.MarkFlagRequired("results-dir")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	analyzer, err := flaky.New(cfg, flaky.WithWorkers(analyzeFlags.workers))
	if err != nil {
		return err
	}

	summary, warnings := analyzer.AnalyzeDirectory(analyzeFlags.resultsDir)
	log := logging.New("cli")
	for _, w := range warnings {
		log.Warn("skipped input", "kind", w.Kind, "path", w.Path, "detail", w.Detail)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, report.FormatSummary(summary))

	if analyzeFlags.reportPath != "" {
		if err := report.WriteArtifact(analyzeFlags.reportPath, summary); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nReport written to: %s\n", analyzeFlags.reportPath)
	}
	if analyzeFlags.ciSummaryPath != "" {
		if err := report.WriteArtifact(analyzeFlags.ciSummaryPath, report.NewCISummary(summary)); err != nil {
			return err
		}
		fmt.Fprintf(out, "CI summary written to: %s\n", analyzeFlags.ciSummaryPath)
	}
	if analyzeFlags.markdownPath != "" {
		md := report.RenderMarkdown(summary, warnings, time.Now())
		if err := report.WriteText(analyzeFlags.markdownPath, md); err != nil {
			return err
		}
		fmt.Fprintf(out, "Markdown report written to: %s\n", analyzeFlags.markdownPath)
	}

	log.Info("flaky test analysis complete",
		"tests", summary.TotalTestsAnalyzed,
		"flaky", len(summary.FlakyTests),
		"true_failures", len(summary.TrueFailures),
		"stable", summary.StableTests)
	return nil
}

// resolveConfig merges the threshold sources: defaults, then the config
// file, then any flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (flaky.Config, error) {
	cfg := flaky.DefaultConfig()
	if analyzeFlags.configPath != "" {
		loaded, err := flaky.LoadConfig(analyzeFlags.configPath)
		if err != nil {
			return flaky.Config{}, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("flakiness-threshold") {
		cfg.FlakinessThreshold = analyzeFlags.flakinessThreshold
	}
	if f.Changed("min-runs") {
		cfg.MinRunsRequired = analyzeFlags.minRuns
	}
	if f.Changed("true-failure-threshold") {
		cfg.TrueFailureThreshold = analyzeFlags.trueFailureThreshold
	}
	return cfg, nil
}
