// Package failures normalizes browser test-failure dumps (error
// message, selector, screenshot path and friends) into records with a
// canonical message and timestamp, so failed UI runs can be narrated
// next to the flakiness verdicts.
package failures

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// markerKeys suggest a record is a test-failure entry rather than an
// ordinary log line.
var markerKeys = []string{
	"error_message",
	"log_message",
	"selector",
	"screenshot_path",
	"hook_error",
	"browser",
	"os",
	"operating_system",
}

var (
	messageAliases   = []string{"error_message", "log_message", "message"}
	timestampAliases = []string{"timestamp", "time", "ts", "@timestamp", "event_time", "logged_at"}
	nameAliases      = []string{"test_name", "name", "test", "title"}
)

const (
	noMessagePlaceholder = "Test failure (no message)"
	timestampLayout      = "2006-01-02T15:04:05Z"
)

// pathTimestampRE matches run timestamps embedded in artifact paths,
// like .../2026-02-12-18-56-39/... or ...2026-02-12_11-02-31...
var pathTimestampRE = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})[-_](\d{2})-(\d{2})-(\d{2})`)

// Failure is one normalized test-failure entry.
type Failure struct {
	TestName       string `json:"test_name"`
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp"`
	Browser        string `json:"browser,omitempty"`
	OS             string `json:"os,omitempty"`
	Selector       string `json:"selector,omitempty"`
	ScreenshotPath string `json:"screenshot_path,omitempty"`
}

// IsFailureRecord reports whether record looks like a test-failure
// entry that needs normalizing: it carries at least one marker key and
// does not already have both a non-blank message and timestamp.
func IsFailureRecord(record map[string]any) bool {
	marked := false
	for _, key := range markerKeys {
		if _, ok := record[key]; ok {
			marked = true
			break
		}
	}
	if !marked {
		return false
	}
	return stringField(record, "message") == "" || stringField(record, "timestamp") == ""
}

// FromRecord builds a Failure from a raw record. The message is the
// first non-blank of error_message, log_message and message, falling
// back to a placeholder, with hook_error and selector appended when
// they add information. The timestamp comes from the usual alias keys,
// then from the screenshot path, then from the current UTC time.
func FromRecord(record map[string]any) Failure {
	osName := stringField(record, "os")
	if osName == "" {
		osName = stringField(record, "operating_system")
	}
	return Failure{
		TestName:       testName(record),
		Message:        buildMessage(record),
		Timestamp:      buildTimestamp(record),
		Browser:        stringField(record, "browser"),
		OS:             osName,
		Selector:       stringField(record, "selector"),
		ScreenshotPath: stringField(record, "screenshot_path"),
	}
}

// LoadDump reads a JSON failure dump (a list of records or a single
// record) and normalizes every failure-shaped entry. The second return
// is the number of entries skipped as not failure-shaped.
func LoadDump(path string) ([]Failure, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read failure dump: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, 0, fmt.Errorf("parse failure dump %s: %w", path, err)
	}

	var entries []any
	switch v := parsed.(type) {
	case []any:
		entries = v
	case map[string]any:
		entries = []any{v}
	default:
		return nil, 0, fmt.Errorf("failure dump %s: expected an object or a list", path)
	}

	var failures []Failure
	skipped := 0
	for _, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok || !IsFailureRecord(record) {
			skipped++
			continue
		}
		failures = append(failures, FromRecord(record))
	}
	return failures, skipped, nil
}

func testName(record map[string]any) string {
	for _, key := range nameAliases {
		if v := stringField(record, key); v != "" {
			return v
		}
	}
	return "unknown test"
}

func buildMessage(record map[string]any) string {
	var parts []string
	for _, key := range messageAliases {
		if v := stringField(record, key); v != "" {
			parts = append(parts, v)
			break
		}
	}
	if len(parts) == 0 {
		parts = append(parts, noMessagePlaceholder)
	}
	if hook := stringField(record, "hook_error"); hook != "" && !strings.Contains(parts[0], hook) {
		parts = append(parts, hook)
	}
	if sel := stringField(record, "selector"); sel != "" {
		parts = append(parts, sel)
	}
	return strings.Join(parts, " | ")
}

func buildTimestamp(record map[string]any) string {
	for _, key := range timestampAliases {
		if v := stringField(record, key); v != "" {
			return v
		}
	}
	if ts := timestampFromPath(stringField(record, "screenshot_path")); ts != "" {
		return ts
	}
	return time.Now().UTC().Format(timestampLayout)
}

// timestampFromPath extracts an embedded run timestamp from a path and
// returns it in the canonical layout, or "" when the path has none or
// the digits do not form a real instant.
func timestampFromPath(path string) string {
	m := pathTimestampRE.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	stamp := fmt.Sprintf("%s-%s-%sT%s:%s:%sZ", m[1], m[2], m[3], m[4], m[5], m[6])
	t, err := time.Parse(timestampLayout, stamp)
	if err != nil {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func stringField(record map[string]any, key string) string {
	v, ok := record[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
