package report

import (
	"fmt"
	"strings"

	"github.com/77QAlab/LogMiner-QA/internal/flaky"
)

// FormatSummary produces the terminal report for one analysis.
func FormatSummary(summary flaky.Summary) string {
	doc := summary.Document()
	var b strings.Builder

	b.WriteString("=== Flaky Test Analysis ===\n")
	b.WriteString(fmt.Sprintf("Tests analyzed: %d\n", doc.TotalTestsAnalyzed))
	b.WriteString(fmt.Sprintf("Executions:     %d\n", summary.Metadata.TotalExecutions))
	b.WriteString(fmt.Sprintf("Unique runs:    %d\n\n", summary.Metadata.UniqueRuns))

	total := doc.TotalTestsAnalyzed
	b.WriteString(fmt.Sprintf("Flaky:          %d/%d\n", doc.FlakyTestCount, total))
	b.WriteString(fmt.Sprintf("True failures:  %d/%d\n", doc.TrueFailureCount, total))
	b.WriteString(fmt.Sprintf("Stable:         %d/%d\n", doc.StableTestCount, total))
	b.WriteString(fmt.Sprintf("Always skipped: %d/%d\n", doc.AlwaysSkippedCount, total))
	b.WriteString(fmt.Sprintf("Flakiness rate: %.1f%%\n", doc.OverallFlakinessRate*100))

	if len(doc.FlakyTests) > 0 {
		b.WriteString("\n--- Flaky tests ---\n")
		tbl := NewTable(ASCII, "Test", "Score", "Pass", "Fail", "Error", "Skip", "Runs")
		for _, t := range doc.FlakyTests {
			tbl.Row(
				clip(t.TestName, 50),
				fmt.Sprintf("%.4f", t.FlakinessScore),
				t.PassCount, t.FailCount, t.ErrorCount, t.SkipCount, t.TotalRuns,
			)
		}
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}

	if len(doc.TrueFailures) > 0 {
		b.WriteString("\n--- True failures ---\n")
		tbl := NewTable(ASCII, "Test", "Fails", "Runs", "Error")
		for _, t := range doc.TrueFailures {
			tbl.Row(
				clip(t.TestName, 50),
				t.FailCount+t.ErrorCount,
				t.TotalRuns,
				firstMessage(t),
			)
		}
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}

	return b.String()
}

func firstMessage(t flaky.TestResultDocument) string {
	if len(t.ErrorMessages) == 0 {
		return "--"
	}
	return clip(t.ErrorMessages[0], 60)
}
