package logger

import "testing"

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("bogus"); err == nil {
		t.Fatal("expected an error for an unrecognized level")
	}
}

func TestSetLevelRoundTrip(t *testing.T) {
	defer SetLevel("info")

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if got := GetLevel(); got != "WARN" {
		t.Errorf("GetLevel() = %q, want WARN", got)
	}
}

func TestTraceSubsystems(t *testing.T) {
	ClearTrace()
	defer ClearTrace()

	if isTraceEnabled("reader") {
		t.Fatal("reader should start disabled")
	}
	EnableTrace("reader", "writer")
	if !isTraceEnabled("reader") || !isTraceEnabled("writer") {
		t.Fatal("expected reader and writer to be enabled")
	}
	DisableTrace("reader")
	if isTraceEnabled("reader") {
		t.Fatal("reader should be disabled after DisableTrace")
	}
	if !isTraceEnabled("writer") {
		t.Fatal("writer should remain enabled")
	}
}
