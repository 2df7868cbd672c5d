package results

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// Accepted field aliases for JSON records, resolved first-match-wins.
var (
	jsonNameAliases    = []string{"name", "test_name", "testName"}
	jsonStatusAliases  = []string{"status", "result"}
	jsonMessageAliases = []string{"message", "error_message"}
)

// ParseJSONResults parses a JSON test-result file. The document may be a
// list of records directly, or an object exposing the list under
// "test_results" or "tests" (in that precedence). Records missing a name
// get "unknown"; missing or unrecognized statuses normalize to failed.
func ParseJSONResults(path, runID string) ([]Execution, []Warning) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []Warning{{Kind: WarnReadFile, Path: path, Detail: err.Error()}}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, []Warning{{Kind: WarnParseJSON, Path: path, Detail: err.Error()}}
	}

	if obj, ok := doc.(map[string]any); ok {
		if v, ok := obj["test_results"]; ok {
			doc = v
		} else if v, ok := obj["tests"]; ok {
			doc = v
		}
	}
	records, ok := doc.([]any)
	if !ok {
		return nil, []Warning{{Kind: WarnBadShape, Path: path, Detail: "expected a list of test results"}}
	}

	if runID == "" {
		runID = fileStem(path)
	}

	var execs []Execution
	for _, raw := range records {
		rec, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		name := firstString(rec, jsonNameAliases)
		if name == "" {
			name = "unknown"
		}
		status := NormalizeStatus(firstString(rec, jsonStatusAliases))

		execs = append(execs, Execution{
			TestName:        name,
			Status:          status,
			RunID:           runID,
			DurationSeconds: numberField(rec, "duration"),
			ErrorMessage:    TruncateMessage(firstString(rec, jsonMessageAliases)),
			Timestamp:       firstString(rec, []string{"timestamp"}),
		})
	}
	return execs, nil
}

// firstString returns the first alias present with a non-empty string
// value, or "".
func firstString(rec map[string]any, aliases []string) string {
	for _, key := range aliases {
		if s, ok := rec[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// numberField reads a numeric field that may arrive as a JSON number or
// a numeric string. Anything else coerces to 0.
func numberField(rec map[string]any, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
