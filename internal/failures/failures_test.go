package failures

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIsFailureRecord(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		want   bool
	}{
		{
			"marker key without canonical fields",
			map[string]any{"error_message": "boom"},
			true,
		},
		{
			"browser marker alone",
			map[string]any{"browser": "chrome"},
			true,
		},
		{
			"no marker keys",
			map[string]any{"message": "hello", "level": "info"},
			false,
		},
		{
			"already canonical",
			map[string]any{"error_message": "boom", "message": "boom", "timestamp": "2026-02-12T18:56:39Z"},
			false,
		},
		{
			"blank message still needs normalizing",
			map[string]any{"selector": "#id", "message": "   ", "timestamp": "2026-02-12T18:56:39Z"},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFailureRecord(tt.record); got != tt.want {
				t.Errorf("IsFailureRecord = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromRecord_MessagePriority(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		want   string
	}{
		{
			"error_message wins",
			map[string]any{"error_message": "boom", "log_message": "later", "message": "last"},
			"boom",
		},
		{
			"log_message next",
			map[string]any{"log_message": "  fallback  ", "message": "last"},
			"fallback",
		},
		{
			"placeholder when nothing usable",
			map[string]any{"error_message": "   ", "browser": "chrome"},
			"Test failure (no message)",
		},
		{
			"non-string values ignored",
			map[string]any{"error_message": 42, "browser": "chrome"},
			"Test failure (no message)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromRecord(tt.record).Message; got != tt.want {
				t.Errorf("Message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromRecord_HookAndSelector(t *testing.T) {
	got := FromRecord(map[string]any{
		"error_message": "button not found",
		"hook_error":    "afterEach hook failed",
		"selector":      "#submit",
	})
	want := "button not found | afterEach hook failed | #submit"
	if got.Message != want {
		t.Errorf("Message = %q, want %q", got.Message, want)
	}

	// A hook error already contained in the message is not repeated.
	got = FromRecord(map[string]any{
		"error_message": "timeout in afterEach hook",
		"hook_error":    "afterEach hook",
	})
	if want := "timeout in afterEach hook"; got.Message != want {
		t.Errorf("Message = %q, want %q", got.Message, want)
	}
}

func TestFromRecord_TimestampAliases(t *testing.T) {
	got := FromRecord(map[string]any{"selector": "#x", "time": "  2026-01-05T09:00:00Z  "})
	if got.Timestamp != "2026-01-05T09:00:00Z" {
		t.Errorf("Timestamp = %q, want alias value trimmed", got.Timestamp)
	}

	got = FromRecord(map[string]any{"selector": "#x", "@timestamp": "2026-01-06T10:00:00Z"})
	if got.Timestamp != "2026-01-06T10:00:00Z" {
		t.Errorf("Timestamp = %q, want @timestamp value", got.Timestamp)
	}
}

func TestFromRecord_TimestampFromScreenshotPath(t *testing.T) {
	got := FromRecord(map[string]any{
		"error_message":   "boom",
		"screenshot_path": "/artifacts/2026-02-12-18-56-39/fail.png",
	})
	if got.Timestamp != "2026-02-12T18:56:39Z" {
		t.Errorf("Timestamp = %q, want 2026-02-12T18:56:39Z", got.Timestamp)
	}

	got = FromRecord(map[string]any{
		"error_message":   "boom",
		"screenshot_path": "shots/2026-02-12_11-02-31.png",
	})
	if got.Timestamp != "2026-02-12T11:02:31Z" {
		t.Errorf("Timestamp = %q, want 2026-02-12T11:02:31Z", got.Timestamp)
	}
}

func TestFromRecord_InvalidPathTimestampFallsBack(t *testing.T) {
	got := FromRecord(map[string]any{
		"error_message":   "boom",
		"screenshot_path": "/artifacts/2026-13-40-25-61-61/fail.png",
	})
	if _, err := time.Parse(timestampLayout, got.Timestamp); err != nil {
		t.Errorf("fallback Timestamp = %q, want current time in canonical layout: %v", got.Timestamp, err)
	}
	if strings.HasPrefix(got.Timestamp, "2026-13") {
		t.Errorf("Timestamp = %q, impossible instant taken from path", got.Timestamp)
	}
}

func TestFromRecord_NamesAndEnvironment(t *testing.T) {
	got := FromRecord(map[string]any{
		"title":            "login flow",
		"browser":          "firefox",
		"operating_system": "windows",
		"screenshot_path":  "shots/a.png",
	})
	if got.TestName != "login flow" {
		t.Errorf("TestName = %q, want %q", got.TestName, "login flow")
	}
	if got.Browser != "firefox" || got.OS != "windows" {
		t.Errorf("environment = %q/%q, want firefox/windows", got.Browser, got.OS)
	}
	if got.ScreenshotPath != "shots/a.png" {
		t.Errorf("ScreenshotPath = %q, want preserved", got.ScreenshotPath)
	}

	if got := FromRecord(map[string]any{"selector": "#x"}); got.TestName != "unknown test" {
		t.Errorf("TestName = %q, want default", got.TestName)
	}
}

func TestLoadDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.json")
	content := `[
		{"test_name": "a", "error_message": "boom"},
		{"test_name": "b", "selector": "#go", "log_message": "no click target"},
		{"message": "plain log line", "timestamp": "2026-01-01T00:00:00Z"},
		"not a record"
	]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write dump: %v", err)
	}

	failures, skipped, err := LoadDump(path)
	if err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	if len(failures) != 2 {
		t.Fatalf("len(failures) = %d, want 2", len(failures))
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if failures[0].TestName != "a" || failures[1].TestName != "b" {
		t.Errorf("failures out of order: %q, %q", failures[0].TestName, failures[1].TestName)
	}
	if failures[1].Message != "no click target | #go" {
		t.Errorf("Message = %q, want selector appended", failures[1].Message)
	}
}

func TestLoadDump_SingleObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.json")
	if err := os.WriteFile(path, []byte(`{"error_message": "boom"}`), 0644); err != nil {
		t.Fatalf("write dump: %v", err)
	}

	failures, skipped, err := LoadDump(path)
	if err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	if len(failures) != 1 || skipped != 0 {
		t.Errorf("LoadDump = %d failures %d skipped, want 1/0", len(failures), skipped)
	}
}

func TestLoadDump_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := LoadDump(filepath.Join(dir, "absent.json")); err == nil {
		t.Error("LoadDump on missing file succeeded, want error")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"unterminated`), 0644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	if _, _, err := LoadDump(bad); err == nil {
		t.Error("LoadDump on malformed json succeeded, want error")
	}

	scalar := filepath.Join(dir, "scalar.json")
	if err := os.WriteFile(scalar, []byte(`42`), 0644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	if _, _, err := LoadDump(scalar); err == nil || !strings.Contains(err.Error(), "expected an object or a list") {
		t.Errorf("LoadDump on scalar = %v, want shape error", err)
	}
}
