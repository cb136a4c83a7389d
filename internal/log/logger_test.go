package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{" Info ", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: "fintrack",
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.Info("server started", "port", 8081)

	line := buf.String()
	if !strings.Contains(line, "component=fintrack") {
		t.Fatalf("expected component tag in %q", line)
	}
	if !strings.Contains(line, "port=8081") {
		t.Fatalf("expected caller attributes in %q", line)
	}
}

func TestWithComponentRetags(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: "fintrack",
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.WithComponent(ComponentHTTP).Warn("slow request")

	if line := buf.String(); !strings.Contains(line, "component=http") {
		t.Fatalf("expected http component tag in %q", line)
	}
}

func TestStructuredLoggerMutationRecord(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{
		Component: "fintrack",
		Handler:   slog.NewTextHandler(&buf, nil),
	}))

	sl.LogMutation(context.Background(), "u1", "transaction", "tx-1", OpCreate)

	line := buf.String()
	for _, want := range []string{"user_id=u1", "entity_kind=transaction", "entity_id=tx-1", "operation=create", "component=finance"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}
