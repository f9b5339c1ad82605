// Package classifier provides loading and inference for the pre-trained
// medicine classifiers. Each classifier is an opaque artifact on disk: a
// linear model over hashed character n-gram features plus a label decoder
// translating class indices back to human-readable labels. Models are loaded
// once at startup and are safe for concurrent use from multiple requests.
package classifier

import (
	"fmt"
	"sort"
)

// Kind identifies one of the three shipped classifiers.
type Kind string

const (
	KindUsage       Kind = "usage"
	KindSideEffects Kind = "side_effects"
	KindSubstitutes Kind = "substitutes"
)

// Kinds lists every classifier kind in a fixed order.
func Kinds() []Kind {
	return []Kind{KindUsage, KindSideEffects, KindSubstitutes}
}

// Valid reports whether k names a known classifier kind.
func (k Kind) Valid() bool {
	switch k {
	case KindUsage, KindSideEffects, KindSubstitutes:
		return true
	}
	return false
}

// InferenceError reports a classifier failure while producing output.
// It is a server-side error: the input is unchanged between calls, so the
// failure is deterministic and callers must not retry.
type InferenceError struct {
	Kind Kind
	Err  error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s classifier inference failed: %v", e.Kind, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// Prediction is one decoded classifier output.
type Prediction struct {
	Label string
	Score float64
}

// Model is a loaded classifier bound to a fixed label vocabulary.
// All fields are immutable after Load; Predict and PredictTopK only read
// them, so a single Model may serve any number of concurrent requests.
type Model struct {
	kind     Kind
	labels   []string
	weights  [][]float32
	biases   []float32
	hashDims int
	ngramMin int
	ngramMax int
}

// Kind returns the classifier kind this model was trained for.
func (m *Model) Kind() Kind { return m.kind }

// VocabularySize returns the number of labels the model can emit.
func (m *Model) VocabularySize() int { return len(m.labels) }

// Predict returns the single most likely label for the given text.
func (m *Model) Predict(text string) (Prediction, error) {
	top, err := m.PredictTopK(text, 1)
	if err != nil {
		return Prediction{}, err
	}
	return top[0], nil
}

// PredictTopK returns up to k labels ordered by descending score.
// Ties are broken by class index so results are deterministic.
func (m *Model) PredictTopK(text string, k int) ([]Prediction, error) {
	if m == nil {
		return nil, &InferenceError{Kind: "", Err: fmt.Errorf("model not loaded")}
	}
	if k < 1 {
		return nil, &InferenceError{Kind: m.kind, Err: fmt.Errorf("invalid top-k %d", k)}
	}

	features := m.encode(text)
	if len(features) == 0 {
		return nil, &InferenceError{Kind: m.kind, Err: fmt.Errorf("no features extracted from input")}
	}

	scores := make([]float64, len(m.labels))
	for class := range m.weights {
		row := m.weights[class]
		sum := float64(m.biases[class])
		for _, f := range features {
			sum += float64(row[f.index]) * f.value
		}
		scores[class] = sum
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return order[a] < order[b]
	})

	if k > len(order) {
		k = len(order)
	}

	predictions := make([]Prediction, 0, k)
	for _, class := range order[:k] {
		predictions = append(predictions, Prediction{
			Label: m.labels[class],
			Score: scores[class],
		})
	}

	return predictions, nil
}

// Set holds the three loaded classifiers together.
type Set struct {
	Usage       *Model
	SideEffects *Model
	Substitutes *Model
}

// Model returns the classifier for the given kind, or nil if absent.
func (s *Set) Model(kind Kind) *Model {
	if s == nil {
		return nil
	}
	switch kind {
	case KindUsage:
		return s.Usage
	case KindSideEffects:
		return s.SideEffects
	case KindSubstitutes:
		return s.Substitutes
	}
	return nil
}

// Complete reports whether all three classifiers are present.
func (s *Set) Complete() bool {
	return s != nil && s.Usage != nil && s.SideEffects != nil && s.Substitutes != nil
}

// AvailableKinds lists the kinds that have a loaded model, in fixed order.
// The slice is never nil so it serializes as a JSON array.
func (s *Set) AvailableKinds() []string {
	kinds := make([]string, 0, 3)
	for _, k := range Kinds() {
		if s.Model(k) != nil {
			kinds = append(kinds, string(k))
		}
	}
	return kinds
}

// Predict runs the classifier of the given kind and returns its top label.
func (s *Set) Predict(kind Kind, text string) (Prediction, error) {
	model := s.Model(kind)
	if model == nil {
		return Prediction{}, &InferenceError{Kind: kind, Err: fmt.Errorf("model not loaded")}
	}
	return model.Predict(text)
}

// PredictTopK runs the classifier of the given kind and returns up to k labels.
func (s *Set) PredictTopK(kind Kind, text string, k int) ([]Prediction, error) {
	model := s.Model(kind)
	if model == nil {
		return nil, &InferenceError{Kind: kind, Err: fmt.Errorf("model not loaded")}
	}
	return model.PredictTopK(text, k)
}
