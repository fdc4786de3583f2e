package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != JSON {
		t.Error("expected JSON format for 'json'")
	}
	if ParseFormat("JSON") != JSON {
		t.Error("expected JSON format for 'JSON'")
	}
	if ParseFormat("text") != TEXT {
		t.Error("expected TEXT format for 'text'")
	}
	if ParseFormat("") != TEXT {
		t.Error("expected TEXT format as default")
	}
}

func TestTextOutputIncludesServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{
		Level:       slog.LevelInfo,
		Format:      TEXT,
		Output:      &buf,
		ServiceName: "mcp-browser-use",
	})

	log.Info("browser launched", "headless", true)

	out := buf.String()
	if !strings.Contains(out, "browser launched") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "service=mcp-browser-use") {
		t.Errorf("expected service field in output, got %q", out)
	}
}

func TestJSONOutputIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{
		Level:  slog.LevelInfo,
		Format: JSON,
		Output: &buf,
	})

	log.Info("navigated", "url", "https://example.com")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if record["msg"] != "navigated" {
		t.Errorf("expected msg field, got %v", record["msg"])
	}
	if record["url"] != "https://example.com" {
		t.Errorf("expected url field, got %v", record["url"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{
		Level:  slog.LevelWarn,
		Format: TEXT,
		Output: &buf,
	})

	log.Debug("not shown")
	log.Info("not shown either")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "not shown") {
		t.Errorf("expected lower levels to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn output, got %q", out)
	}
}
