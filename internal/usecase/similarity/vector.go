package similarity

import (
	"hash/fnv"
	"math"
	"strings"
)

const fallbackScatterPositions = 5

// CosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched lengths and zero vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FallbackEmbedding builds a deterministic pseudo-embedding from word hashes.
// It is used when the embedding provider is unavailable so duplicate checks
// degrade instead of failing. Same text always yields the same vector across
// processes and restarts.
func FallbackEmbedding(text string, dimensions int) []float64 {
	if dimensions <= 0 {
		dimensions = 1536
	}
	vec := make([]float64, dimensions)

	words := strings.Fields(strings.ToLower(text))
	if len(words) > 100 {
		words = words[:100]
	}

	for i, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		sum := h.Sum64()

		weight := 1.0 / float64(i+1)
		for j := 0; j < fallbackScatterPositions; j++ {
			pos := (sum + uint64(j)) % uint64(dimensions)
			vec[pos] += weight
		}
	}

	return normalizeL2(vec)
}

// normalizeL2 scales a vector to unit length in place
func normalizeL2(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// scaleSimilarity converts a cosine value to the 0-100 scale with one decimal
func scaleSimilarity(cos float64) float64 {
	return math.Round(cos*1000) / 10
}
