package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithOutput(&buf, "warn")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Info("hidden")
	l.WithField("series", "total").Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "series=total") {
		t.Errorf("expected warning with fields, got %q", out)
	}
	if _, err := NewWithOutput(&buf, "loud"); err == nil {
		t.Errorf("expected an error for an unknown level")
	}
}
