package logger

import (
	"errors"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		l := New("debug", format)
		if l == nil || l.Logger == nil {
			t.Fatalf("New(debug, %s) returned nil logger", format)
		}
	}
}

func TestWithHelpers(t *testing.T) {
	l := Default()

	if got := l.WithImage("corpus/Address/house.jpg"); got == nil || got.Logger == nil {
		t.Error("WithImage returned nil logger")
	}
	if got := l.WithCategory("emails"); got == nil || got.Logger == nil {
		t.Error("WithCategory returned nil logger")
	}
	if got := l.WithError(errors.New("boom")); got == nil || got.Logger == nil {
		t.Error("WithError returned nil logger")
	}
}
