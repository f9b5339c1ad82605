package classifier

import (
	"errors"
	"math"
	"testing"
)

// testModel builds a small in-memory classifier whose ranking is driven by
// the biases, so expected orderings are easy to read off in the tests.
func testModel(kind Kind, labels []string, biases []float32) *Model {
	weights := make([][]float32, len(labels))
	for i := range weights {
		weights[i] = make([]float32, 64)
	}
	return &Model{
		kind:     kind,
		labels:   labels,
		weights:  weights,
		biases:   biases,
		hashDims: 64,
		ngramMin: 2,
		ngramMax: 3,
	}
}

func TestPredictTopK_OrdersByScore(t *testing.T) {
	model := testModel(KindUsage, []string{"fever", "headache", "cold"}, []float32{0.1, 0.9, 0.5})

	predictions, err := model.PredictTopK("paracetamol", 3)
	if err != nil {
		t.Fatalf("PredictTopK failed: %v", err)
	}

	if len(predictions) != 3 {
		t.Fatalf("Expected 3 predictions, got %d", len(predictions))
	}

	expectedOrder := []string{"headache", "cold", "fever"}
	for i, expected := range expectedOrder {
		if predictions[i].Label != expected {
			t.Errorf("Expected label %q at position %d, got %q", expected, i, predictions[i].Label)
		}
	}

	for i := 1; i < len(predictions); i++ {
		if predictions[i].Score > predictions[i-1].Score {
			t.Errorf("Scores not descending at position %d: %f > %f", i, predictions[i].Score, predictions[i-1].Score)
		}
	}
}

func TestPredictTopK_Deterministic(t *testing.T) {
	model := testModel(KindSideEffects, []string{"nausea", "dizziness"}, []float32{0.3, 0.3})

	first, err := model.PredictTopK("ibuprofen 400mg", 2)
	if err != nil {
		t.Fatalf("First PredictTopK failed: %v", err)
	}

	second, err := model.PredictTopK("ibuprofen 400mg", 2)
	if err != nil {
		t.Fatalf("Second PredictTopK failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Result length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Prediction %d changed between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPredictTopK_TiesBrokenByClassIndex(t *testing.T) {
	// All biases equal and all weights zero: every class scores the same,
	// so the output must fall back to class index order.
	model := testModel(KindUsage, []string{"a", "b", "c"}, []float32{0.5, 0.5, 0.5})

	predictions, err := model.PredictTopK("amoxicillin", 3)
	if err != nil {
		t.Fatalf("PredictTopK failed: %v", err)
	}

	expectedOrder := []string{"a", "b", "c"}
	for i, expected := range expectedOrder {
		if predictions[i].Label != expected {
			t.Errorf("Expected label %q at position %d, got %q", expected, i, predictions[i].Label)
		}
	}
}

func TestPredictTopK_CapsAtVocabularySize(t *testing.T) {
	model := testModel(KindSubstitutes, []string{"x", "y"}, []float32{0.2, 0.1})

	predictions, err := model.PredictTopK("aspirin", 10)
	if err != nil {
		t.Fatalf("PredictTopK failed: %v", err)
	}

	if len(predictions) != 2 {
		t.Errorf("Expected predictions capped at vocabulary size 2, got %d", len(predictions))
	}
}

func TestPredictTopK_InvalidK(t *testing.T) {
	model := testModel(KindUsage, []string{"a"}, []float32{0})

	testCases := []struct {
		name string
		k    int
	}{
		{"Zero k", 0},
		{"Negative k", -3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.PredictTopK("aspirin", tc.k)
			if err == nil {
				t.Fatal("Expected error for invalid k")
			}

			var inferenceErr *InferenceError
			if !errors.As(err, &inferenceErr) {
				t.Errorf("Expected InferenceError, got %T", err)
			}
		})
	}
}

func TestPredict_ReturnsTopLabel(t *testing.T) {
	model := testModel(KindUsage, []string{"fever", "acne"}, []float32{0.1, 0.8})

	prediction, err := model.Predict("clindamycin gel")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if prediction.Label != "acne" {
		t.Errorf("Expected top label 'acne', got %q", prediction.Label)
	}
}

func TestEncode_NormalizedVector(t *testing.T) {
	model := testModel(KindUsage, []string{"a"}, []float32{0})

	features := model.encode("Paracetamol 500mg")
	if len(features) == 0 {
		t.Fatal("Expected non-empty feature vector")
	}

	var sumSquares float64
	for _, f := range features {
		if f.index < 0 || f.index >= model.hashDims {
			t.Errorf("Feature index %d out of range [0, %d)", f.index, model.hashDims)
		}
		sumSquares += f.value * f.value
	}

	if math.Abs(sumSquares-1.0) > 1e-9 {
		t.Errorf("Expected unit-norm feature vector, got squared norm %f", sumSquares)
	}
}

func TestEncode_CaseInsensitive(t *testing.T) {
	model := testModel(KindUsage, []string{"a"}, []float32{0})

	lower := model.encode("doliprane")
	upper := model.encode("DOLIPRANE")

	if len(lower) != len(upper) {
		t.Fatalf("Case changed feature count: %d vs %d", len(lower), len(upper))
	}
}

func TestEncode_BlankInput(t *testing.T) {
	model := testModel(KindUsage, []string{"a"}, []float32{0})

	testCases := []struct {
		name  string
		input string
	}{
		{"Empty string", ""},
		{"Whitespace only", "   \t\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if features := model.encode(tc.input); features != nil {
				t.Errorf("Expected nil features for blank input, got %d entries", len(features))
			}
		})
	}
}

func TestEncode_ShortToken(t *testing.T) {
	model := testModel(KindUsage, []string{"a"}, []float32{0})

	// Boundary padding must give even a single-character token some n-grams.
	if features := model.encode("x"); len(features) == 0 {
		t.Error("Expected features for single-character input")
	}
}

func TestSet_ModelLookup(t *testing.T) {
	usage := testModel(KindUsage, []string{"a"}, []float32{0})
	set := &Set{Usage: usage}

	if set.Model(KindUsage) != usage {
		t.Error("Expected usage model from lookup")
	}
	if set.Model(KindSideEffects) != nil {
		t.Error("Expected nil for absent side effects model")
	}
	if set.Model(Kind("bogus")) != nil {
		t.Error("Expected nil for unknown kind")
	}
}

func TestSet_Complete(t *testing.T) {
	full := &Set{
		Usage:       testModel(KindUsage, []string{"a"}, []float32{0}),
		SideEffects: testModel(KindSideEffects, []string{"a"}, []float32{0}),
		Substitutes: testModel(KindSubstitutes, []string{"a"}, []float32{0}),
	}
	if !full.Complete() {
		t.Error("Expected complete set to report Complete")
	}

	partial := &Set{Usage: full.Usage}
	if partial.Complete() {
		t.Error("Expected partial set to report incomplete")
	}

	var nilSet *Set
	if nilSet.Complete() {
		t.Error("Expected nil set to report incomplete")
	}
}

func TestSet_AvailableKinds(t *testing.T) {
	set := &Set{
		Usage:       testModel(KindUsage, []string{"a"}, []float32{0}),
		Substitutes: testModel(KindSubstitutes, []string{"a"}, []float32{0}),
	}

	kinds := set.AvailableKinds()
	expected := []string{"usage", "substitutes"}

	if len(kinds) != len(expected) {
		t.Fatalf("Expected %d kinds, got %d", len(expected), len(kinds))
	}
	for i, kind := range expected {
		if kinds[i] != kind {
			t.Errorf("Expected kind %q at position %d, got %q", kind, i, kinds[i])
		}
	}
}

func TestSet_PredictMissingModel(t *testing.T) {
	set := &Set{}

	_, err := set.Predict(KindUsage, "aspirin")
	if err == nil {
		t.Fatal("Expected error for missing model")
	}

	var inferenceErr *InferenceError
	if !errors.As(err, &inferenceErr) {
		t.Fatalf("Expected InferenceError, got %T", err)
	}
	if inferenceErr.Kind != KindUsage {
		t.Errorf("Expected error kind 'usage', got %q", inferenceErr.Kind)
	}
}

func TestKind_Valid(t *testing.T) {
	testCases := []struct {
		name  string
		kind  Kind
		valid bool
	}{
		{"Usage", KindUsage, true},
		{"Side effects", KindSideEffects, true},
		{"Substitutes", KindSubstitutes, true},
		{"Unknown", Kind("toxicity"), false},
		{"Empty", Kind(""), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.kind.Valid(); got != tc.valid {
				t.Errorf("Expected Valid() == %v for %q, got %v", tc.valid, tc.kind, got)
			}
		})
	}
}
