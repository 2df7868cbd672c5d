package flaky

import (
	"encoding/json"
)

// Summary is the aggregate verdict over one analysis. FlakyTests is
// ordered by score descending; stable and always-skipped tests appear
// as counts only.
type Summary struct {
	TotalTestsAnalyzed   int
	FlakyTests           []TestResult
	TrueFailures         []TestResult
	StableTests          int
	AlwaysSkipped        int
	OverallFlakinessRate float64
	Metadata             Metadata
}

// Metadata records the shape of the input and the config that produced
// the summary, so a report is interpretable on its own.
type Metadata struct {
	TotalExecutions int    `json:"total_executions"`
	UniqueRuns      int    `json:"unique_runs"`
	Config          Config `json:"config"`
}

// SummaryDocument is the serialized form of a Summary. Counts for the
// flaky and true-failure buckets are derived from the lists so the two
// can never disagree.
type SummaryDocument struct {
	TotalTestsAnalyzed   int                  `json:"total_tests_analyzed"`
	FlakyTestCount       int                  `json:"flaky_test_count"`
	TrueFailureCount     int                  `json:"true_failure_count"`
	StableTestCount      int                  `json:"stable_test_count"`
	AlwaysSkippedCount   int                  `json:"always_skipped_count"`
	OverallFlakinessRate float64              `json:"overall_flakiness_rate"`
	FlakyTests           []TestResultDocument `json:"flaky_tests"`
	TrueFailures         []TestResultDocument `json:"true_failures"`
	Metadata             Metadata             `json:"metadata"`
}

// Document returns the report form of the summary.
func (s Summary) Document() SummaryDocument {
	flakyDocs := make([]TestResultDocument, 0, len(s.FlakyTests))
	for _, t := range s.FlakyTests {
		flakyDocs = append(flakyDocs, t.Document())
	}
	failureDocs := make([]TestResultDocument, 0, len(s.TrueFailures))
	for _, t := range s.TrueFailures {
		failureDocs = append(failureDocs, t.Document())
	}
	return SummaryDocument{
		TotalTestsAnalyzed:   s.TotalTestsAnalyzed,
		FlakyTestCount:       len(s.FlakyTests),
		TrueFailureCount:     len(s.TrueFailures),
		StableTestCount:      s.StableTests,
		AlwaysSkippedCount:   s.AlwaysSkipped,
		OverallFlakinessRate: round4(s.OverallFlakinessRate),
		FlakyTests:           flakyDocs,
		TrueFailures:         failureDocs,
		Metadata:             s.Metadata,
	}
}

// MarshalJSON serializes the document form, not the in-memory value.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Document())
}
