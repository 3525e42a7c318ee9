package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDiscardNeverEnabledAndWritesNothing(t *testing.T) {
	if Discard.Enabled(LevelLow) || Discard.Enabled(LevelHigh) {
		t.Fatalf("Discard should never be enabled")
	}
	// Logf must not panic even though nothing consumes the message.
	Discard.Logf(LevelHigh, "value=%d", 42)
}

func TestStdLoggerGatesOnThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelHigh)

	if l.Enabled(LevelLow) {
		t.Fatalf("LevelLow should not be enabled at LevelHigh threshold")
	}
	if !l.Enabled(LevelHigh) {
		t.Fatalf("LevelHigh should be enabled at LevelHigh threshold")
	}

	l.Logf(LevelLow, "suppressed %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("below-threshold message was written: %q", buf.String())
	}

	l.Logf(LevelHigh, "iter=%d fit=%.2f", 3, 0.125)
	out := buf.String()
	if !strings.Contains(out, "HIGH") || !strings.Contains(out, "iter=3 fit=0.12") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestLevelString(t *testing.T) {
	if LevelLow.String() != "LOW" {
		t.Fatalf("LevelLow.String() = %q, want LOW", LevelLow.String())
	}
	if LevelHigh.String() != "HIGH" {
		t.Fatalf("LevelHigh.String() = %q, want HIGH", LevelHigh.String())
	}
}

func TestNewStderrUsesGivenThreshold(t *testing.T) {
	l := NewStderr(LevelLow)
	if !l.Enabled(LevelLow) {
		t.Fatalf("NewStderr(LevelLow) should be enabled at LevelLow")
	}
}
