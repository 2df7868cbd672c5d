package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/77QAlab/LogMiner-QA/internal/flaky"
	"github.com/77QAlab/LogMiner-QA/internal/results"
)

// RenderMarkdown produces the Markdown report artifact. timestamp is
// the analysis run time, passed in so the function stays testable.
func RenderMarkdown(summary flaky.Summary, warnings []results.Warning, timestamp time.Time) string {
	doc := summary.Document()
	if doc.TotalTestsAnalyzed == 0 && len(warnings) == 0 {
		return "# Flaky Test Report\n\nNo test results analyzed.\n"
	}

	var b strings.Builder
	writeReportHeader(&b, doc, summary.Metadata, timestamp)
	writeVerdictCounts(&b, doc, summary.Metadata.Config)
	writeFlakyFindings(&b, doc)
	writeFailureFindings(&b, doc)
	writeLoadWarnings(&b, warnings)
	return b.String()
}

func writeReportHeader(b *strings.Builder, doc flaky.SummaryDocument, meta flaky.Metadata, ts time.Time) {
	b.WriteString("# Flaky Test Report\n\n")

	tbl := NewTable(Markdown, "Field", "Value")
	tbl.Row("Analyzed", ts.UTC().Format("2006-01-02 15:04 UTC"))
	tbl.Row("Tests", doc.TotalTestsAnalyzed)
	tbl.Row("Executions", meta.TotalExecutions)
	tbl.Row("Unique runs", meta.UniqueRuns)
	tbl.Row("Flakiness rate", fmt.Sprintf("%.1f%%", doc.OverallFlakinessRate*100))
	b.WriteString(tbl.String())
	b.WriteString("\n\n")
}

func writeVerdictCounts(b *strings.Builder, doc flaky.SummaryDocument, cfg flaky.Config) {
	b.WriteString("## Summary\n\n")
	b.WriteString(fmt.Sprintf("- **%d** flaky, **%d** true failures, %d stable, %d always skipped\n",
		doc.FlakyTestCount, doc.TrueFailureCount, doc.StableTestCount, doc.AlwaysSkippedCount))
	b.WriteString(fmt.Sprintf("- Thresholds: flakiness score above %v, fail rate at least %v, minimum %d runs\n",
		cfg.FlakinessThreshold, cfg.TrueFailureThreshold, cfg.MinRunsRequired))
	b.WriteString("\n")
}

func writeFlakyFindings(b *strings.Builder, doc flaky.SummaryDocument) {
	if len(doc.FlakyTests) == 0 {
		return
	}
	b.WriteString("## Flaky Tests\n\n")

	tbl := NewTable(Markdown, "Test", "Score", "Pass", "Fail", "Error", "Skip", "Failing runs")
	tbl.ColumnWidths(60)
	for _, t := range doc.FlakyTests {
		tbl.Row(
			t.TestName,
			fmt.Sprintf("%.4f", t.FlakinessScore),
			t.PassCount, t.FailCount, t.ErrorCount, t.SkipCount,
			strings.Join(t.FailRunIDs, ", "),
		)
	}
	b.WriteString(tbl.String())
	b.WriteString("\n\n")
}

func writeFailureFindings(b *strings.Builder, doc flaky.SummaryDocument) {
	if len(doc.TrueFailures) == 0 {
		return
	}
	b.WriteString("## True Failures\n\n")

	tbl := NewTable(Markdown, "Test", "Fails", "Runs", "Error")
	tbl.ColumnWidths(60, 0, 0, 80)
	for _, t := range doc.TrueFailures {
		tbl.Row(t.TestName, t.FailCount+t.ErrorCount, t.TotalRuns, firstMessage(t))
	}
	b.WriteString(tbl.String())
	b.WriteString("\n\n")
}

func writeLoadWarnings(b *strings.Builder, warnings []results.Warning) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("## Load Warnings\n\n")
	for _, w := range warnings {
		b.WriteString(fmt.Sprintf("- `%s` %s: %s\n", w.Kind, w.Path, w.Detail))
	}
	b.WriteString("\n")
}
