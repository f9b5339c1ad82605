// Package scheduler provides background housekeeping for the MediCure API.
// The loaded models and the remedy dataset are immutable for the lifetime of
// the process, so there are no data refresh jobs: the scheduler prunes idle
// rate limiter buckets and writes a daily service statistics line to the log.
package scheduler

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/medicure/medicure-api/interfaces"
	"github.com/medicure/medicure-api/logging"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// BucketPruner drops rate limiter buckets that have refilled completely and
// reports how many clients are still tracked.
type BucketPruner interface {
	Prune() int
	ClientCount() int
}

// Scheduler handles periodic housekeeping using dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	pruner    BucketPruner
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, pruner BucketPruner) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		pruner:    pruner,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start registers the housekeeping jobs and launches the scheduler
func (s *Scheduler) Start() error {
	// Prune idle rate limiter buckets every 30 minutes
	if _, err := s.scheduler.Every(30).Minutes().Do(s.pruneRateLimiter); err != nil {
		logging.Error("Failed to schedule rate limiter pruning", "error", err)
		return fmt.Errorf("failed to schedule rate limiter pruning: %w", err)
	}

	// Log service statistics daily at 06:00
	if _, err := s.scheduler.Every(1).Days().At("06:00").Do(s.logServiceStats); err != nil {
		logging.Error("Failed to schedule service statistics", "error", err)
		return fmt.Errorf("failed to schedule service statistics: %w", err)
	}

	s.scheduler.StartAsync()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// pruneRateLimiter removes buckets for clients that have been idle long
// enough to refill completely
func (s *Scheduler) pruneRateLimiter() {
	removed := s.pruner.Prune()
	if removed > 0 {
		logging.Info("Pruned idle rate limiter buckets",
			"removed", removed,
			"remaining", s.pruner.ClientCount())
	}
}

// logServiceStats writes a daily summary so long-running deployments leave a
// trace of their state in the logs
func (s *Scheduler) logServiceStats() {
	var uptime time.Duration
	if start := s.dataStore.GetServerStartTime(); !start.IsZero() {
		uptime = time.Since(start).Round(time.Second)
	}

	logging.Info("Service statistics",
		"uptime", uptime.String(),
		"models_loaded", s.dataStore.GetModels().Complete(),
		"remedy_count", len(s.dataStore.GetRemedies()),
		"tracked_clients", s.pruner.ClientCount(),
		"goroutines", runtime.NumGoroutine(),
	)
}
