package report

import (
	"strings"
	"testing"

	"github.com/77QAlab/LogMiner-QA/internal/flaky"
)

func sampleSummary() flaky.Summary {
	return flaky.Summary{
		TotalTestsAnalyzed: 4,
		FlakyTests: []flaky.TestResult{{
			TestName:       "checkout.test_pay",
			TotalRuns:      5,
			PassCount:      3,
			FailCount:      2,
			FlakinessScore: 0.8,
			Classification: flaky.ClassFlaky,
			FailRunIDs:     []string{"run_4", "run_5"},
			PassRunIDs:     []string{"run_1", "run_2", "run_3"},
		}},
		TrueFailures: []flaky.TestResult{{
			TestName:       "auth.test_login",
			TotalRuns:      5,
			FailCount:      5,
			Classification: flaky.ClassTrueFailure,
			ErrorMessages:  []string{"connection refused"},
		}},
		StableTests:          1,
		AlwaysSkipped:        1,
		OverallFlakinessRate: 0.25,
		Metadata: flaky.Metadata{
			TotalExecutions: 17,
			UniqueRuns:      5,
			Config:          flaky.DefaultConfig(),
		},
	}
}

func TestFormatSummary(t *testing.T) {
	got := FormatSummary(sampleSummary())

	for _, want := range []string{
		"=== Flaky Test Analysis ===",
		"Tests analyzed: 4",
		"25.0%",
		"--- Flaky tests ---",
		"checkout.test_pay",
		"0.8000",
		"--- True failures ---",
		"auth.test_login",
		"connection refused",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestFormatSummary_EmptyBucketsOmitTables(t *testing.T) {
	summary := flaky.Summary{
		TotalTestsAnalyzed: 2,
		StableTests:        2,
		Metadata:           flaky.Metadata{TotalExecutions: 4, UniqueRuns: 2, Config: flaky.DefaultConfig()},
	}
	got := FormatSummary(summary)

	if strings.Contains(got, "--- Flaky tests ---") {
		t.Errorf("empty flaky bucket rendered a table:\n%s", got)
	}
	if strings.Contains(got, "--- True failures ---") {
		t.Errorf("empty failure bucket rendered a table:\n%s", got)
	}
	if !strings.Contains(got, "Stable:         2/2") {
		t.Errorf("report missing stable count:\n%s", got)
	}
}

func TestFormatSummary_ClipsLongNames(t *testing.T) {
	summary := sampleSummary()
	summary.FlakyTests[0].TestName = strings.Repeat("n", 80)
	got := FormatSummary(summary)

	if !strings.Contains(got, strings.Repeat("n", 47)+"...") {
		t.Errorf("long name not clipped:\n%s", got)
	}
	if strings.Contains(got, strings.Repeat("n", 48)) {
		t.Errorf("clipped name too long:\n%s", got)
	}
}
