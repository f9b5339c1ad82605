// Package interfaces defines core abstractions for the MediCure API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/medicure/medicure-api/assistant"
	"github.com/medicure/medicure-api/classifier"
	"github.com/medicure/medicure-api/remedies"
)

// DataStore defines the contract for data storage operations.
// It provides thread-safe read access to the loaded classifiers and the
// remedies dataset. The store is populated exactly once before the server
// starts accepting requests and is immutable afterwards.
type DataStore interface {
	// Data retrieval methods
	GetModels() *classifier.Set
	GetRemedies() []remedies.Record
	GetLastLoaded() time.Time
	GetServerStartTime() time.Time
	IsLoaded() bool

	// SetData populates the store. A second call is an error: the loaded
	// data is immutable for the lifetime of the process.
	SetData(models *classifier.Set, records []remedies.Record) error
}

// Predictor defines the contract for the medicine prediction service.
// Inputs are validated and trimmed before the classifiers run; classifier
// failures surface as inference errors and are never retried.
type Predictor interface {
	// PredictUsage returns the single most likely usage for a medicine
	PredictUsage(name string) (string, error)

	// PredictSideEffects returns the likely side effects, most likely first
	PredictSideEffects(name string) ([]string, error)

	// PredictSubstitutes returns substitute medicines, most likely first
	PredictSubstitutes(name string) ([]string, error)
}

// RemedyFinder defines the contract for home remedy lookups.
// Database matches win over AI generation; results carry their origin.
type RemedyFinder interface {
	Find(ctx context.Context, disease string) (remedies.Result, error)
}

// Conversationalist defines the contract for the AI chat capability.
type Conversationalist interface {
	// Converse answers a health question, replaying prior turns for context
	Converse(ctx context.Context, message string, history []assistant.Turn) (string, error)
}

// RemedyAssistant defines the contract for the AI remedy capabilities the
// remedy finder composes with the dataset.
type RemedyAssistant interface {
	// SimplifyRemedies rewrites database remedies into plain language
	SimplifyRemedies(ctx context.Context, disease string, originals []string) ([]string, error)

	// GenerateRemedies invents remedies for conditions the dataset lacks
	GenerateRemedies(ctx context.Context, disease string, samples []string) ([]string, error)
}

// HealthChecker defines the contract for health check functionality.
// It provides system health monitoring and reporting.
type HealthChecker interface {
	// HealthCheck returns the current status, report details for the
	// response body, and the HTTP status code the report should be
	// served with
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// InputValidator defines the contract for request input validation.
// Validators return the trimmed value they checked so handlers pass the
// canonical form downstream.
type InputValidator interface {
	// ValidateQueryTerm checks a medicine name or health issue
	ValidateQueryTerm(input string) (string, error)

	// ValidateMessage checks a free-form chat message
	ValidateMessage(input string) (string, error)

	// ValidateChatHistory checks the roles of prior chat turns
	ValidateChatHistory(history []assistant.Turn) error
}

// Scheduler defines the contract for background housekeeping jobs.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}
