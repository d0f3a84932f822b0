package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":    FormatJSON,
		" TEXT ":  FormatText,
		"compact": FormatCompact,
		"pretty":  FormatCompact,
		"":        FormatCompact,
	}
	for input, want := range tests {
		if got := ParseFormat(input); got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCompactHandler_SingleLineWithJSONAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatCompact, slog.LevelDebug).With("provider", "openai").WithGroup("request")

	logger.Warn("retrying request", "attempt", 2, "error", errors.New("status 429"))

	line := strings.TrimSpace(buf.String())
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected a single line, got %q", buf.String())
	}
	if !strings.Contains(line, " WARN retrying request → ") {
		t.Errorf("unexpected line %q", line)
	}

	var attrs map[string]any
	if err := json.Unmarshal([]byte(line[strings.Index(line, "{"):]), &attrs); err != nil {
		t.Fatalf("attributes are not JSON: %v", err)
	}
	if attrs["provider"] != "openai" || attrs["request.attempt"] != 2.0 || attrs["request.error"] != "status 429" {
		t.Errorf("unexpected attributes %v", attrs)
	}
}

func TestCompactHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatCompact, slog.LevelWarn)

	logger.Info("hidden")
	logger.Error("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "ERROR shown") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, FormatJSON, slog.LevelInfo).Info("done", "duration_ms", 12)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if record["msg"] != "done" || record["duration_ms"] != 12.0 {
		t.Errorf("unexpected record %v", record)
	}
}
