package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"WEAVE_PORT", "WEAVE_HTTP_READ_TIMEOUT", "WEAVE_LOG_LEVEL",
		"WEAVE_POLICY_TABBED", "WEAVE_POLICY_NAMESPACES",
	} {
		os.Unsetenv(k)
	}

	c := Load()
	if c.Port != 8085 {
		t.Errorf("Port = %d, want 8085", c.Port)
	}
	if c.HTTPReadTimeout != 15*time.Second {
		t.Errorf("HTTPReadTimeout = %v, want 15s", c.HTTPReadTimeout)
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", c.LogLevel)
	}
	if !c.Policy.MissingEntryFailed {
		t.Error("expected default Policy.MissingEntryFailed to be true")
	}
}

func TestLoadOverrides(t *testing.T) {
	os.Setenv("WEAVE_PORT", "9090")
	os.Setenv("WEAVE_POLICY_TABBED", "true")
	os.Setenv("WEAVE_POLICY_UNKNOWN_NAME_SKIPPED", "true")
	defer func() {
		os.Unsetenv("WEAVE_PORT")
		os.Unsetenv("WEAVE_POLICY_TABBED")
		os.Unsetenv("WEAVE_POLICY_UNKNOWN_NAME_SKIPPED")
	}()

	c := Load()
	if c.Port != 9090 {
		t.Errorf("Port = %d, want 9090", c.Port)
	}
	if !c.Policy.Tabbed {
		t.Error("expected Policy.Tabbed to be true")
	}
	if !c.Policy.UnknownNameSkipped {
		t.Error("expected Policy.UnknownNameSkipped to be true")
	}
}
