package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"

	mdwlog "github.com/msto63/minipas/foundation/core/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected mdwlog.Level
	}{
		{"trace", mdwlog.LevelTrace},
		{"debug", mdwlog.LevelDebug},
		{"info", mdwlog.LevelInfo},
		{"warning", mdwlog.LevelWarn},
		{"error", mdwlog.LevelError},
		{"", mdwlog.LevelInfo},
		{"bogus", mdwlog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("minipas")
	if cfg.ServiceName != "minipas" || cfg.Level != "warn" || cfg.Format != "text" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestNewLogger(t *testing.T) {
	var buf, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName:       "minipas",
		Level:             "debug",
		Format:            "logfmt",
		Output:            &buf,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Debug("analysis started", mdwlog.Fields{"bytes": 12})

	out := buf.String()
	if !strings.Contains(out, "level=debug") || !strings.Contains(out, "logger=minipas") {
		t.Errorf("unexpected output: %q", out)
	}
	if extra.String() != out {
		t.Errorf("additional output = %q, want copy of %q", extra.String(), out)
	}
}

func TestNewLoggerFallbacks(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "nope", Format: "xml", Output: &buf})

	if logger.GetLevel() != mdwlog.LevelInfo {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}

	logger.Info("ready")
	if !strings.Contains(buf.String(), "[INF] ready") {
		t.Errorf("expected text format fallback, got %q", buf.String())
	}
}
