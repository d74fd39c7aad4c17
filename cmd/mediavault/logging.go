package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"mediavault/internal/config"
)

const logLevelEnvKey = "MEDIAVAULT_LOG_LEVEL"

// setupLogging installs the process-wide slog logger. Level precedence is
// the --log-level flag, then MEDIAVAULT_LOG_LEVEL, then the config file.
// An invalid flag is an error; an invalid env or config value falls back
// to the default level with a warning so the server still starts.
func setupLogging(flagLevel, configLevel string) (string, error) {
	candidates := []struct{ value, origin string }{
		{flagLevel, "flag"},
		{os.Getenv(logLevelEnvKey), "env"},
		{configLevel, "config"},
	}

	for _, c := range candidates {
		value := strings.TrimSpace(c.value)
		if value == "" {
			continue
		}

		level, err := parseLogLevel(value)
		if err == nil {
			installLogger(level)
			return "", nil
		}

		if c.origin == "flag" {
			return "", fmt.Errorf("invalid --log-level %q", flagLevel)
		}
		installLogger(slog.LevelInfo)
		if c.origin == "env" {
			return fmt.Sprintf("warning: invalid %s=%q; defaulting to %s", logLevelEnvKey, c.value, config.DefaultLogLevel), nil
		}
		return fmt.Sprintf("warning: invalid log_level=%q; defaulting to %s", c.value, config.DefaultLogLevel), nil
	}

	installLogger(slog.LevelInfo)
	return "", nil
}

// parseLogLevel accepts slog level names, the "warning" alias, and raw
// numeric slog levels.
func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return slog.LevelInfo, nil
	case strings.EqualFold(value, "warning"):
		return slog.LevelWarn, nil
	}

	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

func installLogger(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
