package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"intlab/rpncalc/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid JSON config", Config{Level: "info", Format: "json"}, false},
		{"valid text config", Config{Level: "debug", Format: "text"}, false},
		{"valid console config", Config{Level: "warn", Format: "console"}, false},
		{"empty uses defaults", Config{}, false},
		{"invalid log level", Config{Level: "invalid", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "invalid"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("expression evaluated", "result", 7.0)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if entry["msg"] != "expression evaluated" {
		t.Errorf("msg = %v, want %q", entry["msg"], "expression evaluated")
	}
	if entry["result"] != 7.0 {
		t.Errorf("result = %v, want 7", entry["result"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}

	if err := logger.SetLevel("debug"); err != nil {
		t.Fatal(err)
	}
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("debug message missing after SetLevel")
	}
	if logger.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", logger.Level())
	}
	if err := logger.SetLevel("loud"); err == nil {
		t.Error("SetLevel() accepted an unknown level")
	}
}

func TestLogger_ConsoleOmitsTime(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hello")
	if strings.Contains(buf.String(), "time=") {
		t.Errorf("console output contains time: %s", buf.String())
	}
	if logger.Format() != FormatConsole {
		t.Errorf("Format() = %q, want %q", logger.Format(), FormatConsole)
	}
}

func TestLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithSource(ctx, "http")

	logger.InfoContext(ctx, "handled")
	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") || !strings.Contains(out, "source=http") {
		t.Errorf("context fields missing: %s", out)
	}

	buf.Reset()
	logger.WithContext(ctx).Info("again")
	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Errorf("WithContext fields missing: %s", buf.String())
	}

	if logger.WithContext(context.Background()) != logger {
		t.Error("WithContext with no fields should return the same logger")
	}
}

func TestLogger_SetDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := New(Config{Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.SetDefault()

	slog.Default().With("component", "test").Info("via default")
	if !strings.Contains(buf.String(), "component=test") {
		t.Errorf("default logger did not write through: %s", buf.String())
	}
}

func TestFromConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := FromConfig(config.LoggingConfig{Level: "error", Format: "json", AddSource: true}, &buf)

	if cfg.Level != "error" || cfg.Format != "json" || !cfg.AddSource || cfg.Writer != &buf {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}

func TestContextGetters(t *testing.T) {
	ctx := context.Background()
	if GetRequestID(ctx) != "" || GetSource(ctx) != "" || GetTraceID(ctx) != "" {
		t.Error("expected empty values from a bare context")
	}

	ctx = WithTraceID(ctx, "abc")
	if GetTraceID(ctx) != "abc" {
		t.Errorf("GetTraceID() = %q, want %q", GetTraceID(ctx), "abc")
	}
}
