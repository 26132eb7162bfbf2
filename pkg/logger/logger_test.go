//go:build !integration

package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		patterns  string
		expected  bool
	}{
		{"empty DEBUG", "tracker:pipeline", "", false},
		{"wildcard", "tracker:pipeline", "*", true},
		{"package wildcard", "tracker:pipeline", "tracker:*", true},
		{"other package", "webhook:server", "tracker:*", false},
		{"exact match", "webhook:server", "webhook:server", true},
		{"multiple patterns", "webhook:server", "tracker:*,webhook:*", true},
		{"exclusion wins", "tracker:render", "*,-tracker:render", false},
		{"exclusion wildcard", "tracker:render", "tracker:*,-tracker:*", false},
		{"exclusion of another logger", "tracker:pipeline", "tracker:*,-tracker:render", true},
		{"whitespace around patterns", "cli:update", " cli:* , webhook:*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEnabled(tt.namespace, tt.patterns); got != tt.expected {
				t.Errorf("isEnabled(%q, %q) = %v, want %v", tt.namespace, tt.patterns, got, tt.expected)
			}
		})
	}
}

func TestLoggerWritesNamespace(t *testing.T) {
	t.Setenv("DEBUG", "tracker:*")

	var buf bytes.Buffer
	oldOutput, oldColors := output, useColors
	output, useColors = &buf, false
	defer func() { output, useColors = oldOutput, oldColors }()

	log := New("tracker:test")
	log.Printf("rendered %d files", 2)
	log.Print("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "tracker:test rendered 2 files +") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "tracker:test done +") {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}

func TestDisabledLoggerIsSilent(t *testing.T) {
	t.Setenv("DEBUG", "")

	var buf bytes.Buffer
	oldOutput := output
	output = &buf
	defer func() { output = oldOutput }()

	log := New("tracker:test")
	log.Printf("should not appear")
	if log.Enabled() {
		t.Error("logger should be disabled")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
