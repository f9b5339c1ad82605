package interfaces

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/medicure/medicure-api/assistant"
	"github.com/medicure/medicure-api/classifier"
	"github.com/medicure/medicure-api/remedies"
)

type mockError struct {
	msg string
}

func (e *mockError) Error() string {
	return e.msg
}

// MockDataStore implements DataStore interface for testing
type MockDataStore struct {
	models     *classifier.Set
	records    []remedies.Record
	lastLoaded time.Time
	startTime  time.Time
	loaded     bool
}

func (m *MockDataStore) GetModels() *classifier.Set {
	return m.models
}

func (m *MockDataStore) GetRemedies() []remedies.Record {
	return m.records
}

func (m *MockDataStore) GetLastLoaded() time.Time {
	return m.lastLoaded
}

func (m *MockDataStore) GetServerStartTime() time.Time {
	return m.startTime
}

func (m *MockDataStore) IsLoaded() bool {
	return m.loaded
}

func (m *MockDataStore) SetData(models *classifier.Set, records []remedies.Record) error {
	if m.loaded {
		return &mockError{"data already loaded"}
	}
	m.models = models
	m.records = records
	m.lastLoaded = time.Now()
	m.loaded = true
	return nil
}

// MockPredictor implements Predictor interface for testing
type MockPredictor struct {
	usage       string
	sideEffects []string
	substitutes []string
	shouldFail  bool
}

func (m *MockPredictor) PredictUsage(name string) (string, error) {
	if m.shouldFail {
		return "", &mockError{"inference failed"}
	}
	return m.usage, nil
}

func (m *MockPredictor) PredictSideEffects(name string) ([]string, error) {
	if m.shouldFail {
		return nil, &mockError{"inference failed"}
	}
	return m.sideEffects, nil
}

func (m *MockPredictor) PredictSubstitutes(name string) ([]string, error) {
	if m.shouldFail {
		return nil, &mockError{"inference failed"}
	}
	return m.substitutes, nil
}

// MockRemedyFinder implements RemedyFinder interface for testing
type MockRemedyFinder struct {
	result     remedies.Result
	shouldFail bool
}

func (m *MockRemedyFinder) Find(ctx context.Context, disease string) (remedies.Result, error) {
	if m.shouldFail {
		return remedies.Result{}, &mockError{"find failed"}
	}
	return m.result, nil
}

// MockConversationalist implements Conversationalist interface for testing
type MockConversationalist struct {
	reply      string
	shouldFail bool
}

func (m *MockConversationalist) Converse(ctx context.Context, message string, history []assistant.Turn) (string, error) {
	if m.shouldFail {
		return "", &mockError{"upstream failed"}
	}
	return m.reply, nil
}

// MockInputValidator implements InputValidator interface for testing
type MockInputValidator struct {
	rejectAll bool
}

func (m *MockInputValidator) ValidateQueryTerm(input string) (string, error) {
	if m.rejectAll {
		return "", &mockError{"invalid input"}
	}
	return strings.TrimSpace(input), nil
}

func (m *MockInputValidator) ValidateMessage(input string) (string, error) {
	if m.rejectAll {
		return "", &mockError{"invalid input"}
	}
	return strings.TrimSpace(input), nil
}

func (m *MockInputValidator) ValidateChatHistory(history []assistant.Turn) error {
	if m.rejectAll {
		return &mockError{"invalid history"}
	}
	return nil
}

func TestDataStoreInterface(t *testing.T) {
	var store DataStore = &MockDataStore{}

	if store.IsLoaded() {
		t.Error("Expected fresh store to report not loaded")
	}

	if err := store.SetData(&classifier.Set{}, []remedies.Record{{HealthIssue: "Cold", Remedy: "Tea"}}); err != nil {
		t.Fatalf("First SetData failed: %v", err)
	}

	if !store.IsLoaded() {
		t.Error("Expected store to report loaded after SetData")
	}
	if len(store.GetRemedies()) != 1 {
		t.Errorf("Expected 1 remedy record, got %d", len(store.GetRemedies()))
	}

	if err := store.SetData(&classifier.Set{}, nil); err == nil {
		t.Error("Expected second SetData to fail")
	}
}

func TestPredictorInterface(t *testing.T) {
	var predictor Predictor = &MockPredictor{
		usage:       "fever",
		sideEffects: []string{"nausea", "dizziness"},
		substitutes: []string{"paracetamol"},
	}

	usage, err := predictor.PredictUsage("dolo 650")
	if err != nil {
		t.Fatalf("PredictUsage failed: %v", err)
	}
	if usage != "fever" {
		t.Errorf("Expected usage 'fever', got %q", usage)
	}

	effects, err := predictor.PredictSideEffects("dolo 650")
	if err != nil {
		t.Fatalf("PredictSideEffects failed: %v", err)
	}
	if len(effects) != 2 {
		t.Errorf("Expected 2 side effects, got %d", len(effects))
	}

	failing := &MockPredictor{shouldFail: true}
	if _, err := failing.PredictSubstitutes("dolo 650"); err == nil {
		t.Error("Expected error from failing predictor")
	}
}

func TestRemedyFinderInterface(t *testing.T) {
	var finder RemedyFinder = &MockRemedyFinder{
		result: remedies.Result{
			Disease:    "cold",
			Source:     remedies.OriginDatabase,
			TotalCount: 1,
			Remedies:   []remedies.Entry{{Remedy: "Drink warm fluids"}},
		},
	}

	result, err := finder.Find(context.Background(), "cold")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if result.Source != remedies.OriginDatabase {
		t.Errorf("Expected database origin, got %q", result.Source)
	}
}

func TestConversationalistInterface(t *testing.T) {
	var conv Conversationalist = &MockConversationalist{reply: "Rest and hydrate. Consult a doctor for professional advice."}

	reply, err := conv.Converse(context.Background(), "I have a mild fever", nil)
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if reply == "" {
		t.Error("Expected non-empty reply")
	}

	failing := &MockConversationalist{shouldFail: true}
	if _, err := failing.Converse(context.Background(), "hello", nil); err == nil {
		t.Error("Expected error from failing conversationalist")
	}
}

func TestInputValidatorInterface(t *testing.T) {
	var validator InputValidator = &MockInputValidator{}

	trimmed, err := validator.ValidateQueryTerm("  aspirin  ")
	if err != nil {
		t.Fatalf("ValidateQueryTerm failed: %v", err)
	}
	if trimmed != "aspirin" {
		t.Errorf("Expected trimmed value 'aspirin', got %q", trimmed)
	}

	rejecting := &MockInputValidator{rejectAll: true}
	if _, err := rejecting.ValidateMessage("anything"); err == nil {
		t.Error("Expected rejection from rejecting validator")
	}
	if err := rejecting.ValidateChatHistory(nil); err == nil {
		t.Error("Expected rejection from rejecting validator")
	}
}

// TestServiceWithDependencyInjection verifies the interfaces compose the way
// the handlers consume them.
func TestServiceWithDependencyInjection(t *testing.T) {
	type apiDeps struct {
		store     DataStore
		predictor Predictor
		finder    RemedyFinder
		conv      Conversationalist
		validator InputValidator
	}

	deps := apiDeps{
		store:     &MockDataStore{},
		predictor: &MockPredictor{usage: "fever"},
		finder:    &MockRemedyFinder{},
		conv:      &MockConversationalist{reply: "ok then"},
		validator: &MockInputValidator{},
	}

	name, err := deps.validator.ValidateQueryTerm(" crocin ")
	if err != nil {
		t.Fatalf("Validation failed: %v", err)
	}

	usage, err := deps.predictor.PredictUsage(name)
	if err != nil {
		t.Fatalf("Prediction failed: %v", err)
	}
	if usage != "fever" {
		t.Errorf("Expected usage 'fever', got %q", usage)
	}
}
