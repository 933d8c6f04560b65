package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestComponentAttached(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: "storage",
		Handler:   slog.NewTextHandler(&buf, nil),
	})
	logger.Info("saved ledger", "user", "alice")
	out := buf.String()
	if !strings.Contains(out, "component=storage") {
		t.Fatalf("expected component attribute, got %q", out)
	}
	if logger.Component() != "storage" {
		t.Fatalf("unexpected component %q", logger.Component())
	}
}

func TestWithComponent(t *testing.T) {
	logger := New(DefaultConfig())
	scoped := logger.WithComponent("auth")
	if scoped.Component() != "auth" {
		t.Fatalf("expected auth, got %q", scoped.Component())
	}
	if logger.Component() != "app" {
		t.Fatalf("original logger mutated: %q", logger.Component())
	}
}
