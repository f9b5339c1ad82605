package remedies

import (
	"context"
	"fmt"

	"github.com/medicure/medicure-api/logging"
)

// Origin tags where a remedy result came from.
type Origin string

const (
	OriginDatabase Origin = "database"
	OriginAI       Origin = "ai_generated"
)

// generatedCount is how many remedies an AI generation answer carries.
const generatedCount = 5

// sampleCount is how many dataset rows are shown to the AI as style examples.
const sampleCount = 5

// Entry is one remedy in an assembled result. YogaLink is null when the
// remedy has no associated yoga recommendation.
type Entry struct {
	Remedy   string  `json:"remedy"`
	YogaLink *string `json:"yoga_link"`
}

// Result is a complete remedy lookup answer for one health issue.
type Result struct {
	Disease    string  `json:"disease"`
	Source     Origin  `json:"source"`
	Remedies   []Entry `json:"remedies"`
	TotalCount int     `json:"total_count"`
}

// Source provides read access to the loaded dataset.
type Source interface {
	GetRemedies() []Record
}

// Assistant is the AI capability the finder depends on. SimplifyRemedies
// rewrites database remedies into plain language; GenerateRemedies invents
// remedies when the database has no match. Both return cleaned remedy
// sentences, one per entry.
type Assistant interface {
	SimplifyRemedies(ctx context.Context, disease string, originals []string) ([]string, error)
	GenerateRemedies(ctx context.Context, disease string, samples []string) ([]string, error)
}

// Finder answers remedy lookups from the dataset, falling back to AI
// generation when nothing matches.
type Finder struct {
	source    Source
	assistant Assistant
}

func NewFinder(source Source, assistant Assistant) *Finder {
	return &Finder{source: source, assistant: assistant}
}

// Find looks up remedies for a health issue. Database matches are rewritten
// by the assistant into simpler language; if that rewrite fails the original
// rows are served unchanged. When the database has no match at all, the
// assistant generates remedies instead, and that failure is fatal to the
// request since there is nothing left to serve.
func (f *Finder) Find(ctx context.Context, disease string) (Result, error) {
	records := f.source.GetRemedies()
	if len(records) == 0 {
		return Result{}, ErrDatasetUnavailable
	}

	matches := Search(records, disease)
	if len(matches) > 0 {
		return f.fromDatabase(ctx, disease, matches), nil
	}

	return f.fromAI(ctx, disease, records)
}

// fromDatabase builds a result out of matched dataset rows, preferring the
// assistant's simplified wording when it is available.
func (f *Finder) fromDatabase(ctx context.Context, disease string, matches []Record) Result {
	originals := make([]string, len(matches))
	for i, match := range matches {
		originals[i] = match.Remedy
	}

	simplified, err := f.assistant.SimplifyRemedies(ctx, disease, originals)
	if err != nil {
		logging.Warn("Remedy simplification failed, serving original remedies",
			"disease", disease,
			"error", err,
		)
		simplified = nil
	}

	entries := make([]Entry, len(matches))
	for i, match := range matches {
		text := match.Remedy
		if i < len(simplified) && simplified[i] != "" {
			text = simplified[i]
		}
		entries[i] = Entry{
			Remedy:   text,
			YogaLink: yogaLink(match.Yoga),
		}
	}

	return Result{
		Disease:    disease,
		Source:     OriginDatabase,
		Remedies:   entries,
		TotalCount: len(entries),
	}
}

// fromAI asks the assistant to generate remedies and normalizes the answer
// to exactly generatedCount entries.
func (f *Finder) fromAI(ctx context.Context, disease string, records []Record) (Result, error) {
	samples := make([]string, 0, sampleCount)
	for _, record := range records[:min(sampleCount, len(records))] {
		samples = append(samples, record.Remedy)
	}

	generated, err := f.assistant.GenerateRemedies(ctx, disease, samples)
	if err != nil {
		return Result{}, fmt.Errorf("generating remedies for %q: %w", disease, err)
	}

	if len(generated) > generatedCount {
		generated = generated[:generatedCount]
	}
	for len(generated) < generatedCount {
		generated = append(generated, fmt.Sprintf(
			"Drink plenty of water and rest to help your body recover from %s.", disease))
	}

	entries := make([]Entry, len(generated))
	for i, text := range generated {
		entries[i] = Entry{Remedy: text}
	}

	return Result{
		Disease:    disease,
		Source:     OriginAI,
		Remedies:   entries,
		TotalCount: len(entries),
	}, nil
}

// yogaLink converts an optional dataset cell into a nullable JSON field.
func yogaLink(yoga string) *string {
	if yoga == "" {
		return nil
	}
	return &yoga
}
