package logging

import (
	"log/slog"
	"os"

	"github.com/medicure/medicure-api/config"
)

type LoggingService struct {
	Logger  *slog.Logger
	rotator *RotatingLogger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger instance with default rotation
// and level settings
func InitLogger(logDir string) {
	InitLoggerWithOptions(logDir, config.EnvDevelopment, "", 4, 100*1024*1024, false)
}

// InitLoggerWithConfig initializes the global logger from the loaded app
// configuration
func InitLoggerWithConfig(logDir string, cfg *config.Config) {
	InitLoggerWithOptions(logDir, cfg.Env, cfg.LogLevel, cfg.LogRetentionWeeks, cfg.MaxLogFileSize, false)
}

// InitLoggerWithOptions initializes the global logger with explicit rotation
// and level settings
func InitLoggerWithOptions(logDir string, env config.Environment, logLevel string, retentionWeeks int, maxFileSize int64, verbose bool) {
	logger, rotator := SetupLoggerWithOptions(logDir, retentionWeeks, maxFileSize, GetConsoleLogLevel(env, logLevel, verbose))
	DefaultLoggingService = &LoggingService{
		Logger:  logger,
		rotator: rotator,
	}
	slog.SetDefault(logger)
}

// Close releases the rotating log file held by the service
func (s *LoggingService) Close() error {
	if s != nil && s.rotator != nil {
		return s.rotator.Close()
	}
	return nil
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Fallback to console logger if not initialized
		fallback := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		fallback.Info(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Fallback to console logger if not initialized
		fallback := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
		fallback.Error(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Error(msg, args...)
}

func Warn(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Fallback to console logger if not initialized
		fallback := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
		fallback.Warn(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Fallback to console logger if not initialized
		fallback := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		fallback.Debug(msg, args...)
		return
	}
	DefaultLoggingService.Logger.Debug(msg, args...)
}
