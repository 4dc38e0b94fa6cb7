package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"Warning", LogLevelWarn},
		{"error", LogLevelError},
		{"unknown", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  []string
		skip  []string
	}{
		{LogLevelDebug, []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"}, nil},
		{LogLevelWarn, []string{"[WARN]", "[ERROR]"}, []string{"[DEBUG]", "[INFO]"}},
		{LogLevelError, []string{"[ERROR]"}, []string{"[INFO]", "[WARN]"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(LoggerConfig{Level: tt.level, Output: &buf, Prefix: "test"})

			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")
			logger.Error("error")

			output := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(output, s) {
					t.Errorf("expected %s in output:\n%s", s, output)
				}
			}
			for _, s := range tt.skip {
				if strings.Contains(output, s) {
					t.Errorf("expected %s to be filtered out:\n%s", s, output)
				}
			}
			if !strings.Contains(output, "test: ") {
				t.Error("expected prefix in output")
			}
		})
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Output: &buf})

	logger.Info("renumbered %d lines in %s", 3, "index.rst")

	if !strings.Contains(buf.String(), "renumbered 3 lines in index.rst") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Output: &buf})

	logger.WithComponent("lua").WithFields(map[string]any{
		"script": "tables.lua",
		"line":   12,
	}).Warn("slow command")

	output := buf.String()
	if !strings.Contains(output, "{component=lua, line=12, script=tables.lua}") {
		t.Errorf("expected sorted fields, got: %s", output)
	}
}

func TestLoggerDerivedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelError, Output: &buf})
	child := logger.WithComponent("config")

	child.Info("hidden")
	if buf.Len() != 0 {
		t.Fatal("expected no output at error level")
	}

	logger.SetLevel(LogLevelInfo)
	child.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected derived logger to follow SetLevel")
	}
	if logger.WithField("k", 1).Level() != LogLevelInfo {
		t.Error("Level() of derived logger")
	}
}

func TestLoggerSetOutput(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	logger := NewLogger(LoggerConfig{Output: &buf1})

	logger.Info("to buf1")
	logger.SetOutput(&buf2)
	logger.Info("to buf2")

	if !strings.Contains(buf1.String(), "to buf1") || strings.Contains(buf1.String(), "to buf2") {
		t.Errorf("buf1 = %q", buf1.String())
	}
	if !strings.Contains(buf2.String(), "to buf2") {
		t.Errorf("buf2 = %q", buf2.String())
	}
}

func TestLoggerDisableEnable(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Output: &buf})

	logger.Disable()
	logger.Info("should not appear")
	if buf.Len() != 0 {
		t.Error("expected no output when disabled")
	}

	logger.Enable()
	logger.Info("should appear")
	if buf.Len() == 0 {
		t.Error("expected output when enabled")
	}
}

func TestNullLogger(t *testing.T) {
	logger := NullLogger()
	logger.Error("discarded")
	logger.WithComponent("x").Debug("discarded")
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig()
	if cfg.Level != LogLevelInfo {
		t.Errorf("expected default level INFO, got %v", cfg.Level)
	}
	if cfg.Output == nil {
		t.Error("expected default output to be set")
	}
	if cfg.Prefix != "rstedit" {
		t.Errorf("expected prefix 'rstedit', got %q", cfg.Prefix)
	}
}
