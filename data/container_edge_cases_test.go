package data

import (
	"testing"

	"github.com/medicure/medicure-api/classifier"
	"github.com/medicure/medicure-api/remedies"
)

// ============================================================================
// EDGE CASE TESTS
// ============================================================================

func TestContainer_EdgeCases(t *testing.T) {
	container := NewContainer()

	if container == nil {
		t.Fatal("NewContainer returned nil")
	}

	// Verify reads are safe before any data is loaded
	if container.GetRemedies() == nil {
		t.Error("Remedies should not be nil before load")
	}
	if container.GetModels() != nil {
		t.Error("Models should be nil before load")
	}
	if !container.GetLastLoaded().IsZero() {
		t.Error("Last loaded should be zero before load")
	}
	if !container.GetServerStartTime().IsZero() {
		t.Error("Server start time should be zero before load")
	}
}

func TestSetData_NilRecords(t *testing.T) {
	container := NewContainer()

	// A nil slice is accepted; readers get an empty slice semantics-wise.
	if err := container.SetData(&classifier.Set{}, nil); err != nil {
		t.Fatalf("SetData with nil records failed: %v", err)
	}

	if container.GetRemedies() == nil {
		// atomic.Value round-trips the nil slice; GetRemedies may return
		// it as-is, which is fine for range loops. Only len matters.
		t.Log("GetRemedies returned nil slice, acceptable for iteration")
	}
	if len(container.GetRemedies()) != 0 {
		t.Errorf("Expected no records, got %d", len(container.GetRemedies()))
	}
}

func TestSetData_IncompleteModelSet(t *testing.T) {
	container := NewContainer()

	// A partial set can be stored; completeness is the health check's
	// concern, not the container's.
	partial := &classifier.Set{}
	if err := container.SetData(partial, []remedies.Record{{HealthIssue: "Cold", Remedy: "Tea with honey"}}); err != nil {
		t.Fatalf("SetData with incomplete set failed: %v", err)
	}

	if container.GetModels().Complete() {
		t.Error("Expected incomplete model set to stay incomplete")
	}
}
