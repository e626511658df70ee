package search

import (
	"maps"
	"math"
	"slices"
	"sort"

	"github.com/knowledge-engine/explorer/internal/document"
)

// MaxSimilar bounds the result of FindSimilar.
const MaxSimilar = 5

// Match holds a candidate document and its similarity to the target
type Match struct {
	Document *document.Document
	Score    float64
}

// CosineSimilarity calculates the cosine similarity between two sparse vectors.
// Missing keys count as zero. Returns 0 when either vector has zero norm.
// Keys are visited in sorted order, so the result is exactly symmetric and
// identical vectors score exactly 1.
func CosineSimilarity(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	normA := sumSquares(a)
	normB := sumSquares(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	if equal(a, b) {
		return 1
	}

	var dotProduct float64
	for _, k := range slices.Sorted(maps.Keys(a)) {
		if wb, ok := b[k]; ok {
			dotProduct += a[k] * wb
		}
	}
	score := dotProduct / math.Sqrt(normA*normB)
	return math.Max(0, math.Min(1, score))
}

func sumSquares(v Vector) float64 {
	var sum float64
	for _, k := range slices.Sorted(maps.Keys(v)) {
		sum += v[k] * v[k]
	}
	return sum
}

func equal(a, b Vector) bool {
	if len(a) != len(b) {
		return false
	}
	for k, wa := range a {
		if wb, ok := b[k]; !ok || wa != wb {
			return false
		}
	}
	return true
}

// FindSimilar ranks candidates by similarity to target, skipping the target
// itself. Only scores strictly above threshold are kept.
func FindSimilar(target *document.Document, candidates []*document.Document, threshold float64) []Match {
	var results []Match
	for _, doc := range candidates {
		if doc.Path == target.Path {
			continue
		}
		score := CosineSimilarity(target.Vector, doc.Vector)
		if score > threshold {
			results = append(results, Match{
				Document: doc,
				Score:    score,
			})
		}
	}

	// Sort by descending score, input order on ties
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > MaxSimilar {
		return results[:MaxSimilar]
	}
	return results
}
