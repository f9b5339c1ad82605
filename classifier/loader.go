package classifier

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/medicure/medicure-api/logging"
)

// artifactVersion is the only model artifact format this build understands.
const artifactVersion = 1

// artifactFiles maps each classifier kind to its model and label decoder
// files inside the model directory.
var artifactFiles = map[Kind]struct {
	model  string
	labels string
}{
	KindUsage:       {model: "usage_model.json.gz", labels: "usage_labels.json"},
	KindSideEffects: {model: "side_effects_model.json.gz", labels: "side_effects_labels.json"},
	KindSubstitutes: {model: "substitutes_model.json.gz", labels: "substitutes_labels.json"},
}

// modelArtifact is the on-disk layout of a serialized classifier.
type modelArtifact struct {
	FormatVersion int         `json:"format_version"`
	Kind          string      `json:"kind"`
	HashDims      int         `json:"hash_dims"`
	NgramMin      int         `json:"ngram_min"`
	NgramMax      int         `json:"ngram_max"`
	Biases        []float32   `json:"biases"`
	Weights       [][]float32 `json:"weights"`
}

// Load reads one classifier from its model artifact and label decoder files.
// The returned model is fully validated: weight shapes, bias length and label
// count all agree before any prediction can run.
func Load(kind Kind, modelPath, labelsPath string) (*Model, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown classifier kind %q", kind)
	}

	rawModel, err := readMaybeGzip(modelPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s model artifact: %w", kind, err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(rawModel, &artifact); err != nil {
		return nil, fmt.Errorf("decoding %s model artifact: %w", kind, err)
	}

	if artifact.FormatVersion != artifactVersion {
		return nil, fmt.Errorf("%s model artifact has format version %d, want %d", kind, artifact.FormatVersion, artifactVersion)
	}
	if artifact.Kind != string(kind) {
		return nil, fmt.Errorf("model artifact at %s is for kind %q, want %q", modelPath, artifact.Kind, kind)
	}
	if artifact.HashDims < 1 {
		return nil, fmt.Errorf("%s model artifact has invalid hash_dims %d", kind, artifact.HashDims)
	}
	if artifact.NgramMin < 1 || artifact.NgramMax < artifact.NgramMin {
		return nil, fmt.Errorf("%s model artifact has invalid n-gram range %d..%d", kind, artifact.NgramMin, artifact.NgramMax)
	}
	if len(artifact.Weights) == 0 {
		return nil, fmt.Errorf("%s model artifact has no weight rows", kind)
	}
	if len(artifact.Biases) != len(artifact.Weights) {
		return nil, fmt.Errorf("%s model artifact has %d biases for %d classes", kind, len(artifact.Biases), len(artifact.Weights))
	}
	for class, row := range artifact.Weights {
		if len(row) != artifact.HashDims {
			return nil, fmt.Errorf("%s model artifact class %d has %d weights, want %d", kind, class, len(row), artifact.HashDims)
		}
	}

	labels, err := loadLabels(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s label decoder: %w", kind, err)
	}
	if len(labels) != len(artifact.Weights) {
		return nil, fmt.Errorf("%s label decoder has %d labels for %d classes", kind, len(labels), len(artifact.Weights))
	}

	logging.Debug("Classifier loaded",
		"kind", string(kind),
		"classes", len(labels),
		"hashDims", artifact.HashDims,
	)

	return &Model{
		kind:     kind,
		labels:   labels,
		weights:  artifact.Weights,
		biases:   artifact.Biases,
		hashDims: artifact.HashDims,
		ngramMin: artifact.NgramMin,
		ngramMax: artifact.NgramMax,
	}, nil
}

// LoadSet loads all three classifiers from the given model directory.
// Any missing or malformed artifact fails the whole set: the service either
// starts with every classifier available or does not start at all.
func LoadSet(dir string) (*Set, error) {
	set := &Set{}
	for _, kind := range Kinds() {
		files := artifactFiles[kind]
		model, err := Load(kind, filepath.Join(dir, files.model), filepath.Join(dir, files.labels))
		if err != nil {
			return nil, err
		}
		switch kind {
		case KindUsage:
			set.Usage = model
		case KindSideEffects:
			set.SideEffects = model
		case KindSubstitutes:
			set.Substitutes = model
		}
	}

	logging.Info("All classifiers loaded",
		"usageClasses", set.Usage.VocabularySize(),
		"sideEffectClasses", set.SideEffects.VocabularySize(),
		"substituteClasses", set.Substitutes.VocabularySize(),
	)

	return set, nil
}

// loadLabels reads a label decoder file: a JSON array mapping class index
// to label string.
func loadLabels(path string) ([]string, error) {
	raw, err := readMaybeGzip(path)
	if err != nil {
		return nil, err
	}

	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil, fmt.Errorf("decoding label array: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("label array is empty")
	}
	return labels, nil
}

// readMaybeGzip reads a file and transparently gunzips it when the content
// starts with the gzip magic bytes, so artifacts work compressed or plain.
func readMaybeGzip(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		return raw, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer reader.Close()

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	return decoded, nil
}
