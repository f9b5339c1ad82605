// Package prediction exposes the three medicine predictions as a service
// over the loaded classifiers: usage, side effects and substitutes. Inputs
// are validated here so every caller gets the same rules; classifier
// failures pass through untouched since retrying deterministic inference
// would not help.
package prediction

import (
	"strings"
	"time"

	"github.com/medicure/medicure-api/classifier"
	"github.com/medicure/medicure-api/interfaces"
	"github.com/medicure/medicure-api/metrics"
)

// Compile-time check to ensure Service implements Predictor
var _ interfaces.Predictor = (*Service)(nil)

// Service answers prediction requests against the data store's classifiers.
type Service struct {
	store     interfaces.DataStore
	validator interfaces.InputValidator
	topK      int
}

// NewService builds a prediction service. topK bounds how many labels the
// list predictions consider before the comma-joined classes are flattened.
func NewService(store interfaces.DataStore, validator interfaces.InputValidator, topK int) *Service {
	return &Service{
		store:     store,
		validator: validator,
		topK:      topK,
	}
}

// PredictUsage returns the single most likely usage for a medicine name.
// For a loaded model the label is never empty: the classifier always has a
// best class.
func (s *Service) PredictUsage(name string) (string, error) {
	name, err := s.validator.ValidateQueryTerm(name)
	if err != nil {
		return "", err
	}

	prediction, err := s.predictTop(classifier.KindUsage, name)
	if err != nil {
		return "", err
	}
	return prediction.Label, nil
}

// PredictSideEffects returns the likely side effects for a medicine name,
// most likely first.
func (s *Service) PredictSideEffects(name string) ([]string, error) {
	return s.predictList(classifier.KindSideEffects, name)
}

// PredictSubstitutes returns substitute medicines for a medicine name, most
// likely first.
func (s *Service) PredictSubstitutes(name string) ([]string, error) {
	return s.predictList(classifier.KindSubstitutes, name)
}

func (s *Service) predictTop(kind classifier.Kind, name string) (classifier.Prediction, error) {
	start := time.Now()
	prediction, err := s.store.GetModels().Predict(kind, name)
	metrics.ModelInferenceDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	return prediction, err
}

// predictList runs a top-k prediction and flattens the comma-joined class
// labels into individual entries. The training data stores each class as a
// joined list ("nausea, dizziness"), so the top classes are split, trimmed,
// de-duplicated in order and capped back at k.
func (s *Service) predictList(kind classifier.Kind, name string) ([]string, error) {
	name, err := s.validator.ValidateQueryTerm(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	predictions, err := s.store.GetModels().PredictTopK(kind, name, s.topK)
	metrics.ModelInferenceDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []string
	for _, prediction := range predictions {
		for _, entry := range strings.Split(prediction.Label, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" || seen[entry] {
				continue
			}
			seen[entry] = true
			entries = append(entries, entry)
			if len(entries) == s.topK {
				return entries, nil
			}
		}
	}
	return entries, nil
}
