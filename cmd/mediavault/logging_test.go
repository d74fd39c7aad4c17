package main

import (
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    slog.Level
		wantErr bool
	}{
		{name: "default info", raw: "", want: slog.LevelInfo},
		{name: "debug", raw: "debug", want: slog.LevelDebug},
		{name: "info", raw: "info", want: slog.LevelInfo},
		{name: "warn", raw: "warn", want: slog.LevelWarn},
		{name: "warning alias", raw: "warning", want: slog.LevelWarn},
		{name: "error", raw: "error", want: slog.LevelError},
		{name: "numeric", raw: "-4", want: slog.LevelDebug},
		{name: "padded", raw: " info ", want: slog.LevelInfo},
		{name: "invalid", raw: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLogLevel(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse level: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSetupLogging(t *testing.T) {
	t.Run("flag wins over env and config", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "error")
		warning, err := setupLogging("debug", "warn")
		if err != nil {
			t.Fatalf("setup logging: %v", err)
		}
		if warning != "" {
			t.Fatalf("expected no warning, got %q", warning)
		}
		if !slog.Default().Enabled(t.Context(), slog.LevelDebug) {
			t.Fatal("expected debug level from the flag")
		}
	})

	t.Run("env wins over config", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "error")
		if _, err := setupLogging("", "debug"); err != nil {
			t.Fatalf("setup logging: %v", err)
		}
		if slog.Default().Enabled(t.Context(), slog.LevelWarn) {
			t.Fatal("expected error level from the env")
		}
	})

	t.Run("invalid flag returns error", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "")
		warning, err := setupLogging("verbose", "info")
		if err == nil {
			t.Fatal("expected error")
		}
		if warning != "" {
			t.Fatalf("expected empty warning, got %q", warning)
		}
	})

	t.Run("invalid env warns and falls back", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "verbose")
		warning, err := setupLogging("", "info")
		if err != nil {
			t.Fatalf("setup logging: %v", err)
		}
		if !strings.Contains(warning, logLevelEnvKey) || !strings.Contains(warning, "defaulting to info") {
			t.Fatalf("expected env fallback warning, got %q", warning)
		}
	})

	t.Run("invalid config warns and falls back", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "")
		warning, err := setupLogging("", "verbose")
		if err != nil {
			t.Fatalf("setup logging: %v", err)
		}
		if !strings.Contains(warning, "invalid log_level") || !strings.Contains(warning, "defaulting to info") {
			t.Fatalf("expected config fallback warning, got %q", warning)
		}
	})

	t.Run("nothing set uses default", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "")
		warning, err := setupLogging("", "")
		if err != nil {
			t.Fatalf("setup logging: %v", err)
		}
		if warning != "" {
			t.Fatalf("expected no warning, got %q", warning)
		}
		if !slog.Default().Enabled(t.Context(), slog.LevelInfo) {
			t.Fatal("expected info level default")
		}
	})
}
