// Package mcp exposes the analysis engine to agents over the Model
// Context Protocol. Tools are stateless: every call runs a complete
// analysis and returns the summary document, so agents never hold
// session handles.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/77QAlab/LogMiner-QA/internal/flaky"
	"github.com/77QAlab/LogMiner-QA/internal/logging"
	"github.com/77QAlab/LogMiner-QA/internal/results"
)

// Server wraps the MCP SDK server with the analysis tools registered.
type Server struct {
	MCPServer *sdkmcp.Server

	log *slog.Logger
}

// NewServer creates an MCP server exposing the flakiness analysis
// tools. version is reported to clients during initialization.
func NewServer(version string) *Server {
	s := &Server{log: logging.New("mcp")}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "logminer", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "analyze_test_results",
		Description: "Classify test executions as flaky, true failures, stable or always skipped, and generate Gherkin remediation scenarios.",
	}, s.handleAnalyzeResults)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "analyze_results_dir",
		Description: "Load JUnit XML, JSON and text result files from a directory (one subdirectory per CI run) and classify every test found.",
	}, s.handleAnalyzeDir)
}

// --- Tool input/output types ---

// testRecord is one posted execution, matching the HTTP wire schema.
type testRecord struct {
	TestName        string  `json:"test_name" jsonschema:"test identifier"`
	Status          string  `json:"status" jsonschema:"execution outcome (passed, failed, error, skipped or a CI synonym)"`
	RunID           string  `json:"run_id,omitempty" jsonschema:"CI run the execution belongs to"`
	DurationSeconds float64 `json:"duration_seconds,omitempty" jsonschema:"execution time in seconds"`
	ErrorMessage    string  `json:"error_message,omitempty" jsonschema:"failure message, clamped to 500 bytes"`
	Timestamp       string  `json:"timestamp,omitempty" jsonschema:"execution timestamp"`
}

type analyzeResultsInput struct {
	TestResults          []testRecord `json:"test_results" jsonschema:"test execution records across runs"`
	FlakinessThreshold   *float64     `json:"flakiness_threshold,omitempty" jsonschema:"score above this is flaky (default 0)"`
	MinRunsRequired      *int         `json:"min_runs_required,omitempty" jsonschema:"sample floor for confident verdicts (default 2)"`
	TrueFailureThreshold *float64     `json:"true_failure_threshold,omitempty" jsonschema:"fail rate at or above this is a true failure (default 1)"`
}

type analyzeResultsOutput struct {
	FlakyTestSummary flaky.SummaryDocument `json:"flaky_test_summary"`
	TestScenarios    []string              `json:"test_scenarios"`
}

type analyzeDirInput struct {
	Dir                  string   `json:"dir" jsonschema:"directory with result files, flat or one subdirectory per run"`
	FlakinessThreshold   *float64 `json:"flakiness_threshold,omitempty" jsonschema:"score above this is flaky (default 0)"`
	MinRunsRequired      *int     `json:"min_runs_required,omitempty" jsonschema:"sample floor for confident verdicts (default 2)"`
	TrueFailureThreshold *float64 `json:"true_failure_threshold,omitempty" jsonschema:"fail rate at or above this is a true failure (default 1)"`
}

type analyzeDirOutput struct {
	FlakyTestSummary flaky.SummaryDocument `json:"flaky_test_summary"`
	TestScenarios    []string              `json:"test_scenarios"`
	Warnings         []results.Warning     `json:"warnings,omitempty"`
}

// --- Tool handlers ---

func (s *Server) handleAnalyzeResults(ctx context.Context, _ *sdkmcp.CallToolRequest, input analyzeResultsInput) (*sdkmcp.CallToolResult, analyzeResultsOutput, error) {
	if len(input.TestResults) == 0 {
		return nil, analyzeResultsOutput{}, fmt.Errorf("test_results must not be empty")
	}

	analyzer, err := newAnalyzer(input.FlakinessThreshold, input.MinRunsRequired, input.TrueFailureThreshold)
	if err != nil {
		return nil, analyzeResultsOutput{}, err
	}

	records := make([]results.Execution, 0, len(input.TestResults))
	for _, tr := range input.TestResults {
		records = append(records, tr.execution())
	}

	summary := analyzer.Analyze(records)
	s.log.Info("analyze_test_results served",
		"executions", len(records), "tests", summary.TotalTestsAnalyzed)

	return nil, analyzeResultsOutput{
		FlakyTestSummary: summary.Document(),
		TestScenarios:    scenarioBlocks(summary),
	}, nil
}

func (s *Server) handleAnalyzeDir(ctx context.Context, _ *sdkmcp.CallToolRequest, input analyzeDirInput) (*sdkmcp.CallToolResult, analyzeDirOutput, error) {
	if input.Dir == "" {
		return nil, analyzeDirOutput{}, fmt.Errorf("dir is required")
	}

	analyzer, err := newAnalyzer(input.FlakinessThreshold, input.MinRunsRequired, input.TrueFailureThreshold)
	if err != nil {
		return nil, analyzeDirOutput{}, err
	}

	summary, warnings := analyzer.AnalyzeDirectory(input.Dir)
	s.log.Info("analyze_results_dir served",
		"dir", input.Dir, "tests", summary.TotalTestsAnalyzed, "warnings", len(warnings))

	return nil, analyzeDirOutput{
		FlakyTestSummary: summary.Document(),
		TestScenarios:    scenarioBlocks(summary),
		Warnings:         warnings,
	}, nil
}

func (r testRecord) execution() results.Execution {
	name := r.TestName
	if name == "" {
		name = "unknown"
	}
	return results.Execution{
		TestName:        name,
		Status:          results.NormalizeStatus(r.Status),
		RunID:           r.RunID,
		DurationSeconds: r.DurationSeconds,
		ErrorMessage:    results.TruncateMessage(r.ErrorMessage),
		Timestamp:       r.Timestamp,
	}
}

func newAnalyzer(flakiness *float64, minRuns *int, trueFailure *float64) (*flaky.Analyzer, error) {
	cfg := flaky.DefaultConfig()
	if flakiness != nil {
		cfg.FlakinessThreshold = *flakiness
	}
	if minRuns != nil {
		cfg.MinRunsRequired = *minRuns
	}
	if trueFailure != nil {
		cfg.TrueFailureThreshold = *trueFailure
	}
	return flaky.New(cfg)
}

func scenarioBlocks(summary flaky.Summary) []string {
	blocks := flaky.GenerateScenarios(summary)
	if blocks == nil {
		blocks = []string{}
	}
	return blocks
}
