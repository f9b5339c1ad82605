package classifier

import (
	"hash/fnv"
	"math"
	"strings"
)

// feature is one non-zero entry of the hashed feature vector.
type feature struct {
	index int
	value float64
}

// encode turns free text into the sparse L2-normalized feature vector the
// model was trained on: lowercase the input, split on whitespace, pad each
// token with a boundary space and hash every character n-gram of length
// ngramMin..ngramMax into hashDims buckets with FNV-1a.
func (m *Model) encode(text string) []feature {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[int]float64)
	for _, token := range tokens {
		runes := []rune(" " + token + " ")
		for size := m.ngramMin; size <= m.ngramMax; size++ {
			if size > len(runes) {
				break
			}
			for start := 0; start+size <= len(runes); start++ {
				counts[m.bucket(runes[start:start+size])]++
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}

	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	norm = math.Sqrt(norm)

	features := make([]feature, 0, len(counts))
	for index, count := range counts {
		features = append(features, feature{index: index, value: count / norm})
	}
	return features
}

// bucket hashes one n-gram into the model's feature space.
func (m *Model) bucket(gram []rune) int {
	h := fnv.New32a()
	h.Write([]byte(string(gram)))
	return int(h.Sum32() % uint32(m.hashDims))
}
