package logging

import (
	"log/slog"
	"strings"

	"github.com/medicure/medicure-api/config"
)

// parseLogLevel maps a LOG_LEVEL string to a slog level, defaulting to info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// GetConsoleLogLevel resolves the console handler level from the environment
// and the LOG_LEVEL override. Test runs stay quiet unless verbose output was
// requested; the override is ignored there.
func GetConsoleLogLevel(env config.Environment, logLevel string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}

	if logLevel != "" {
		return parseLogLevel(logLevel)
	}

	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetFileLogLevel returns the level for the rotating file handler. The file
// always captures debug so incidents can be investigated after the fact.
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}
