package results

import (
	"strings"
	"testing"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"pass", StatusPassed},
		{"passed", StatusPassed},
		{"ok", StatusPassed},
		{"success", StatusPassed},
		{"PASS", StatusPassed},
		{"  Passed  ", StatusPassed},
		{"fail", StatusFailed},
		{"failed", StatusFailed},
		{"failure", StatusFailed},
		{"error", StatusError},
		{"errored", StatusError},
		{"ERROR", StatusError},
		{"skip", StatusSkipped},
		{"skipped", StatusSkipped},
		{"ignored", StatusSkipped},
		{"pending", StatusSkipped},
		{"", StatusFailed},
		{"unknown", StatusFailed},
		{"flaky", StatusFailed},
		{"123", StatusFailed},
	}
	for _, tt := range tests {
		if got := NormalizeStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeStatus_Idempotent(t *testing.T) {
	for _, s := range []Status{StatusPassed, StatusFailed, StatusError, StatusSkipped} {
		if got := NormalizeStatus(string(s)); got != s {
			t.Errorf("NormalizeStatus(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestTruncateMessage(t *testing.T) {
	long := strings.Repeat("x", 900)
	if got := TruncateMessage(long); len(got) != maxMessageLen {
		t.Errorf("len(TruncateMessage(long)) = %d, want %d", len(got), maxMessageLen)
	}
	short := "boom"
	if got := TruncateMessage(short); got != short {
		t.Errorf("TruncateMessage(%q) = %q, want unchanged", short, got)
	}
	exact := strings.Repeat("y", maxMessageLen)
	if got := TruncateMessage(exact); got != exact {
		t.Error("message at exactly the cap should be unchanged")
	}
}
