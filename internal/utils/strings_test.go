package utils

import (
	"strings"
	"testing"
)

// TestTruncateString verifies truncation behavior at, below, and above the
// limit, and the zero-maxLen fallback to the default.
func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("expected unmodified string, got %q", got)
	}

	long := strings.Repeat("x", 20)
	got := TruncateString(long, 5)
	if !strings.HasPrefix(got, "xxxxx...") {
		t.Errorf("expected truncated prefix, got %q", got)
	}
	if !strings.Contains(got, "total: 20") {
		t.Errorf("expected original length in suffix, got %q", got)
	}

	huge := strings.Repeat("y", DefaultMaxStringLength+10)
	if got := TruncateString(huge, 0); got == huge || !strings.Contains(got, "truncated") {
		t.Errorf("expected default-limit truncation, got %d chars", len(got))
	}
}
