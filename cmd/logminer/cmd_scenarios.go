package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/77QAlab/LogMiner-QA/internal/failures"
	"github.com/77QAlab/LogMiner-QA/internal/flaky"
	"github.com/77QAlab/LogMiner-QA/internal/logging"
	"github.com/77QAlab/LogMiner-QA/internal/report"
)

var scenariosFlags struct {
	resultsDir   string
	fromFailures string
	outPath      string
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Generate Gherkin remediation scenarios",
	Long: `Generate Gherkin scenario blocks describing how to reproduce and fix
the problems found in CI results.

Sources (at least one is required, both may be combined):
  --results-dir     flaky tests and true failures from a results directory
  --from-failures   a browser failure dump (JSON) exported by a UI harness`,
	RunE: runScenarios,
}

func init() {
	f := scenariosCmd.Flags()
	f.StringVar(&scenariosFlags.resultsDir, "results-dir", "", "Directory containing test result files")
	f.StringVar(&scenariosFlags.fromFailures, "from-failures", "", "Browser failure dump (JSON) to convert")
	f.StringVarP(&scenariosFlags.outPath, "out", "o", "", "Write scenarios to this path instead of stdout")
}

func runScenarios(cmd *cobra.Command, _ []string) error {
	if scenariosFlags.resultsDir == "" && scenariosFlags.fromFailures == "" {
		return fmt.Errorf("provide --results-dir, --from-failures, or both")
	}
	log := logging.New("cli")
	var blocks []string

	if scenariosFlags.resultsDir != "" {
		analyzer, err := flaky.New(flaky.DefaultConfig())
		if err != nil {
			return err
		}
		summary, warnings := analyzer.AnalyzeDirectory(scenariosFlags.resultsDir)
		for _, w := range warnings {
			log.Warn("skipped input", "kind", w.Kind, "path", w.Path, "detail", w.Detail)
		}
		blocks = append(blocks, flaky.GenerateScenarios(summary)...)
	}

	if scenariosFlags.fromFailures != "" {
		dump, skipped, err := failures.LoadDump(scenariosFlags.fromFailures)
		if err != nil {
			return fmt.Errorf("load failure dump: %w", err)
		}
		if skipped > 0 {
			log.Warn("skipped entries in failure dump", "count", skipped, "path", scenariosFlags.fromFailures)
		}
		blocks = append(blocks, failures.Scenarios(dump)...)
	}

	content := strings.Join(blocks, "\n\n")
	if len(blocks) > 0 {
		content += "\n"
	}

	if scenariosFlags.outPath != "" {
		if err := report.WriteText(scenariosFlags.outPath, content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scenarios written to: %s\n", scenariosFlags.outPath)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), content)
	return nil
}
