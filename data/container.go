// Package data provides thread-safe storage for the MediCure API's loaded
// assets: the classifier set and the home remedies dataset. The container is
// populated exactly once during startup and read concurrently by every
// request afterwards; atomic values keep reads lock-free.
package data

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/medicure/medicure-api/classifier"
	"github.com/medicure/medicure-api/interfaces"
	"github.com/medicure/medicure-api/logging"
	"github.com/medicure/medicure-api/remedies"
)

// Compile-time check to ensure Container implements DataStore
var _ interfaces.DataStore = (*Container)(nil)

// Container holds the loaded models and dataset behind atomic pointers.
type Container struct {
	models          atomic.Value // *classifier.Set
	remedyRecords   atomic.Value // []remedies.Record
	lastLoaded      atomic.Value // time.Time
	loaded          atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewContainer creates a new empty Container
func NewContainer() *Container {
	c := &Container{}
	c.remedyRecords.Store(make([]remedies.Record, 0))
	c.lastLoaded.Store(time.Time{})
	c.serverStartTime.Store(time.Time{})
	return c
}

// Thread-safe getters with type check

// GetModels returns the loaded classifier set, or nil before SetData
func (c *Container) GetModels() *classifier.Set {
	if v := c.models.Load(); v != nil {
		if models, ok := v.(*classifier.Set); ok {
			return models
		}
	}
	return nil
}

// GetRemedies returns the loaded remedies dataset
func (c *Container) GetRemedies() []remedies.Record {
	if v := c.remedyRecords.Load(); v != nil {
		if records, ok := v.([]remedies.Record); ok {
			return records
		}
	}

	logging.Warn("Remedies dataset is empty or invalid")
	return []remedies.Record{}
}

// GetLastLoaded returns the timestamp of the startup data load
func (c *Container) GetLastLoaded() time.Time {
	if v := c.lastLoaded.Load(); v != nil {
		if lastLoaded, ok := v.(time.Time); ok {
			return lastLoaded
		}
	}

	logging.Warn("Could not get the last loaded value")
	return time.Time{}
}

// IsLoaded returns true once SetData has populated the container
func (c *Container) IsLoaded() bool {
	return c.loaded.Load()
}

// SetServerStartTime sets the server start time
func (c *Container) SetServerStartTime(startTime time.Time) {
	c.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (c *Container) GetServerStartTime() time.Time {
	if v := c.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// SetData populates the container with the loaded models and dataset.
// It succeeds exactly once: the data is immutable for the process lifetime,
// so a second call reports an error and changes nothing.
func (c *Container) SetData(models *classifier.Set, records []remedies.Record) error {
	if !c.loaded.CompareAndSwap(false, true) {
		return fmt.Errorf("container data already loaded")
	}

	c.models.Store(models)
	c.remedyRecords.Store(records)
	c.lastLoaded.Store(time.Now())

	logging.Info("Data container populated",
		"remedyRecords", len(records),
		"modelsComplete", models.Complete(),
	)

	return nil
}
