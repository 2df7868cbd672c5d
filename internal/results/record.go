// Package results ingests raw CI test-result files (JUnit XML, JSON
// reports, plain-text logs) into canonical execution records. Parsers
// never fail hard: malformed input yields zero records plus a Warning,
// so one corrupt file cannot abort an analysis.
package results

import "strings"

// Status is the canonical outcome of one test execution.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// maxMessageLen bounds error messages at ingestion so a single huge
// traceback cannot blow up report size.
const maxMessageLen = 500

// Execution is a single observed outcome of one test in one run.
// Field names mirror the wire schema accepted by the HTTP service.
type Execution struct {
	TestName        string  `json:"test_name"`
	Status          Status  `json:"status"`
	RunID           string  `json:"run_id,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	ErrorMessage    string  `json:"error_message,omitempty"`
	Timestamp       string  `json:"timestamp,omitempty"`
}

// NormalizeStatus maps arbitrary CI status vocabulary to a canonical
// Status. Unrecognized values (including empty strings) map to failed,
// so unexpected vocabulary is never silently treated as a pass.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pass", "passed", "ok", "success":
		return StatusPassed
	case "fail", "failed", "failure":
		return StatusFailed
	case "error", "errored":
		return StatusError
	case "skip", "skipped", "ignored", "pending":
		return StatusSkipped
	default:
		return StatusFailed
	}
}

// WarningKind labels the ingestion failure class a Warning reports.
type WarningKind string

const (
	WarnParseXML   WarningKind = "parse_xml"
	WarnParseJSON  WarningKind = "parse_json"
	WarnReadFile   WarningKind = "read_file"
	WarnBadShape   WarningKind = "bad_shape"
	WarnMissingDir WarningKind = "missing_dir"
)

// Warning is a structured, non-fatal ingestion event. Parsers and the
// loader return warnings instead of logging; callers decide whether to
// log, collect, or drop them.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Path   string      `json:"path"`
	Detail string      `json:"detail"`
}

// TruncateMessage clamps an error message to the ingestion cap. Every
// ingestion surface applies it, file parsers and the HTTP API alike.
func TruncateMessage(s string) string {
	if len(s) > maxMessageLen {
		return s[:maxMessageLen]
	}
	return s
}
