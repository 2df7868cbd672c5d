package mcp

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/77QAlab/LogMiner-QA/internal/results"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
	os.Exit(m.Run())
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestAnalyzeResults(t *testing.T) {
	srv := NewServer("test")
	input := analyzeResultsInput{TestResults: []testRecord{
		{TestName: "t", Status: "passed", RunID: "r1"},
		{TestName: "t", Status: "failed", RunID: "r2", ErrorMessage: "boom"},
	}}

	_, out, err := srv.handleAnalyzeResults(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAnalyzeResults: %v", err)
	}

	if out.FlakyTestSummary.FlakyTestCount != 1 {
		t.Errorf("flaky_test_count = %d, want 1", out.FlakyTestSummary.FlakyTestCount)
	}
	if len(out.TestScenarios) != 1 {
		t.Fatalf("len(test_scenarios) = %d, want 1", len(out.TestScenarios))
	}
	if !strings.HasPrefix(out.TestScenarios[0], "Feature: Flaky test t") {
		t.Errorf("test_scenarios[0] = %q", out.TestScenarios[0])
	}
}

func TestAnalyzeResults_EmptyInput(t *testing.T) {
	srv := NewServer("test")
	_, _, err := srv.handleAnalyzeResults(context.Background(), nil, analyzeResultsInput{})
	if err == nil || !strings.Contains(err.Error(), "test_results") {
		t.Errorf("err = %v, want empty-input error", err)
	}
}

func TestAnalyzeResults_ThresholdOverrides(t *testing.T) {
	srv := NewServer("test")
	input := analyzeResultsInput{
		TestResults: []testRecord{
			{TestName: "t", Status: "failed", RunID: "r1"},
			{TestName: "t", Status: "failed", RunID: "r2"},
			{TestName: "t", Status: "failed", RunID: "r3"},
			{TestName: "t", Status: "passed", RunID: "r4"},
			{TestName: "t", Status: "passed", RunID: "r5"},
		},
		TrueFailureThreshold: floatPtr(0.5),
	}

	_, out, err := srv.handleAnalyzeResults(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAnalyzeResults: %v", err)
	}

	// With the default threshold of 1.0 this mix would be flaky; the
	// override turns a 0.6 fail rate into a true failure.
	if out.FlakyTestSummary.TrueFailureCount != 1 {
		t.Errorf("true_failure_count = %d, want 1", out.FlakyTestSummary.TrueFailureCount)
	}
	if out.FlakyTestSummary.FlakyTestCount != 0 {
		t.Errorf("flaky_test_count = %d, want 0", out.FlakyTestSummary.FlakyTestCount)
	}
}

func TestAnalyzeResults_RejectsInvalidOverrides(t *testing.T) {
	srv := NewServer("test")
	input := analyzeResultsInput{
		TestResults:     []testRecord{{TestName: "t", Status: "passed"}},
		MinRunsRequired: intPtr(0),
	}
	if _, _, err := srv.handleAnalyzeResults(context.Background(), nil, input); err == nil {
		t.Error("invalid min_runs_required accepted, want error")
	}
}

func TestAnalyzeDir(t *testing.T) {
	srv := NewServer("test")
	root := t.TempDir()
	for dir, content := range map[string]string{
		"run_a": `[{"name": "t", "status": "pass"}]`,
		"run_b": `[{"name": "t", "status": "fail", "message": "boom"}]`,
	} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(root, dir, "results.json"), []byte(content), 0644); err != nil {
			t.Fatalf("write results: %v", err)
		}
	}

	_, out, err := srv.handleAnalyzeDir(context.Background(), nil, analyzeDirInput{Dir: root})
	if err != nil {
		t.Fatalf("handleAnalyzeDir: %v", err)
	}

	if out.FlakyTestSummary.FlakyTestCount != 1 {
		t.Fatalf("flaky_test_count = %d, want 1", out.FlakyTestSummary.FlakyTestCount)
	}
	got := out.FlakyTestSummary.FlakyTests[0]
	if len(got.FailRunIDs) != 1 || got.FailRunIDs[0] != "run_b" {
		t.Errorf("FailRunIDs = %v, want [run_b]", got.FailRunIDs)
	}
	if out.FlakyTestSummary.Metadata.UniqueRuns != 2 {
		t.Errorf("unique_runs = %d, want 2", out.FlakyTestSummary.Metadata.UniqueRuns)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", out.Warnings)
	}
}

func TestAnalyzeDir_MissingDir(t *testing.T) {
	srv := NewServer("test")
	_, out, err := srv.handleAnalyzeDir(context.Background(), nil, analyzeDirInput{
		Dir: filepath.Join(t.TempDir(), "absent"),
	})
	if err != nil {
		t.Fatalf("handleAnalyzeDir: %v", err)
	}
	if len(out.Warnings) != 1 || out.Warnings[0].Kind != results.WarnMissingDir {
		t.Errorf("warnings = %v, want one missing_dir warning", out.Warnings)
	}
	if out.FlakyTestSummary.TotalTestsAnalyzed != 0 {
		t.Errorf("total_tests_analyzed = %d, want 0", out.FlakyTestSummary.TotalTestsAnalyzed)
	}
}

func TestAnalyzeDir_RequiresDir(t *testing.T) {
	srv := NewServer("test")
	if _, _, err := srv.handleAnalyzeDir(context.Background(), nil, analyzeDirInput{}); err == nil {
		t.Error("empty dir accepted, want error")
	}
}
