package flaky

import (
	"encoding/json"
	"math"
)

// Classification is the verdict bucket for one test name.
type Classification string

const (
	ClassFlaky         Classification = "flaky"
	ClassTrueFailure   Classification = "true_failure"
	ClassStable        Classification = "stable"
	ClassAlwaysSkipped Classification = "always_skipped"
)

// maxReportedMessages caps the error message list in serialized results.
// The full list stays on the in-memory value.
const maxReportedMessages = 5

// TestResult is the per-test verdict. Counts and rates are over the
// executions that shared a test name; FlakinessScore keeps full float
// precision in memory and is rounded only when serialized.
type TestResult struct {
	TestName       string
	TotalRuns      int
	PassCount      int
	FailCount      int
	ErrorCount     int
	SkipCount      int
	FlakinessScore float64
	Classification Classification
	FailRunIDs     []string
	PassRunIDs     []string
	ErrorMessages  []string
}

// TestResultDocument is the serialized form of a TestResult: scores
// rounded to four decimals, error messages capped, slices never null.
type TestResultDocument struct {
	TestName       string         `json:"test_name"`
	TotalRuns      int            `json:"total_runs"`
	PassCount      int            `json:"pass_count"`
	FailCount      int            `json:"fail_count"`
	ErrorCount     int            `json:"error_count"`
	SkipCount      int            `json:"skip_count"`
	FlakinessScore float64        `json:"flakiness_score"`
	Classification Classification `json:"classification"`
	FailRunIDs     []string       `json:"fail_run_ids"`
	PassRunIDs     []string       `json:"pass_run_ids"`
	ErrorMessages  []string       `json:"error_messages"`
}

// Document returns the report form of the result.
func (r TestResult) Document() TestResultDocument {
	msgs := r.ErrorMessages
	if len(msgs) > maxReportedMessages {
		msgs = msgs[:maxReportedMessages]
	}
	return TestResultDocument{
		TestName:       r.TestName,
		TotalRuns:      r.TotalRuns,
		PassCount:      r.PassCount,
		FailCount:      r.FailCount,
		ErrorCount:     r.ErrorCount,
		SkipCount:      r.SkipCount,
		FlakinessScore: round4(r.FlakinessScore),
		Classification: r.Classification,
		FailRunIDs:     emptyIfNil(r.FailRunIDs),
		PassRunIDs:     emptyIfNil(r.PassRunIDs),
		ErrorMessages:  emptyIfNil(msgs),
	}
}

// MarshalJSON serializes the document form, not the in-memory value.
func (r TestResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Document())
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
