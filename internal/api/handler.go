// Package api exposes the analysis engine over HTTP for CI pipelines
// that post results instead of shipping result directories.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/77QAlab/LogMiner-QA/internal/flaky"
	"github.com/77QAlab/LogMiner-QA/internal/results"
)

// API holds dependencies for the analysis endpoints.
type API struct {
	Analyzer *flaky.Analyzer
	Log      *slog.Logger
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", a.handleHealth)
	mux.HandleFunc("/analyze-tests", a.handleAnalyzeTests)
}

// analyzeRequest is the analyze-tests request body.
type analyzeRequest struct {
	TestResults []testRecord `json:"test_results"`
}

// testRecord is one posted execution. The same ingestion rules apply
// as for result files: statuses are normalized, messages clamped.
type testRecord struct {
	TestName        string  `json:"test_name"`
	Status          string  `json:"status"`
	RunID           string  `json:"run_id"`
	DurationSeconds float64 `json:"duration_seconds"`
	ErrorMessage    string  `json:"error_message"`
	Timestamp       string  `json:"timestamp"`
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

// analyzeResponse is the analyze-tests response body.
type analyzeResponse struct {
	FlakyTestSummary flaky.Summary `json:"flaky_test_summary"`
	TestScenarios    []string      `json:"test_scenarios"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleAnalyzeTests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.TestResults) == 0 {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "provide at least one test result"})
		return
	}

	records := make([]results.Execution, 0, len(req.TestResults))
	for _, tr := range req.TestResults {
		records = append(records, tr.execution())
	}

	summary := a.Analyzer.Analyze(records)
	scenarios := flaky.GenerateScenarios(summary)
	if scenarios == nil {
		scenarios = []string{}
	}
	a.writeJSON(w, http.StatusOK, analyzeResponse{
		FlakyTestSummary: summary,
		TestScenarios:    scenarios,
	})
}

// writeJSON writes a JSON response with the given status code.
func (a *API) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.Log.Error("write json response", "error", err)
	}
}
