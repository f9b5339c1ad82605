package logging

import (
	"testing"

	"github.com/medicure/medicure-api/config"
)

// ResetForTest installs a fresh global logging service writing under logDir
// and restores the previous one when the test finishes.
func ResetForTest(t *testing.T, logDir string, env config.Environment, logLevel string, retentionWeeks int, maxFileSize int64) {
	t.Helper()

	previous := DefaultLoggingService
	InitLoggerWithOptions(logDir, env, logLevel, retentionWeeks, maxFileSize, testing.Verbose())
	service := DefaultLoggingService

	t.Cleanup(func() {
		_ = service.Close()
		DefaultLoggingService = previous
	})
}
