package report

import (
	"github.com/77QAlab/LogMiner-QA/internal/flaky"
)

// maxTopFlaky caps the worst-offender list in the CI payload.
const maxTopFlaky = 5

// CISummary is the compact payload CI pipelines annotate builds with.
type CISummary struct {
	TotalTestsAnalyzed   int        `json:"total_tests_analyzed"`
	FlakyTestCount       int        `json:"flaky_test_count"`
	TrueFailureCount     int        `json:"true_failure_count"`
	StableTestCount      int        `json:"stable_test_count"`
	AlwaysSkippedCount   int        `json:"always_skipped_count"`
	OverallFlakinessRate float64    `json:"overall_flakiness_rate"`
	TopFlaky             []TopFlaky `json:"top_flaky"`
}

// TopFlaky is one worst-offender entry, highest score first.
type TopFlaky struct {
	TestName       string  `json:"test_name"`
	FlakinessScore float64 `json:"flakiness_score"`
}

// NewCISummary condenses a summary into the CI payload.
func NewCISummary(summary flaky.Summary) CISummary {
	doc := summary.Document()

	flakyDocs := doc.FlakyTests
	if len(flakyDocs) > maxTopFlaky {
		flakyDocs = flakyDocs[:maxTopFlaky]
	}
	top := make([]TopFlaky, 0, len(flakyDocs))
	for _, t := range flakyDocs {
		top = append(top, TopFlaky{TestName: t.TestName, FlakinessScore: t.FlakinessScore})
	}

	return CISummary{
		TotalTestsAnalyzed:   doc.TotalTestsAnalyzed,
		FlakyTestCount:       doc.FlakyTestCount,
		TrueFailureCount:     doc.TrueFailureCount,
		StableTestCount:      doc.StableTestCount,
		AlwaysSkippedCount:   doc.AlwaysSkippedCount,
		OverallFlakinessRate: doc.OverallFlakinessRate,
		TopFlaky:             top,
	}
}
