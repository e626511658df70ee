package cluster

import (
	"sort"

	"github.com/knowledge-engine/explorer/internal/document"
	"github.com/knowledge-engine/explorer/internal/search"
)

// Pair is an ordered pair of cluster ids.
type Pair struct {
	From string
	To   string
}

// SimilarityMatrix returns, for every ordered pair of distinct clusters,
// the average cosine similarity over all cross-cluster document pairs.
func SimilarityMatrix(m Map) map[Pair]float64 {
	ids := m.IDs()
	matrix := make(map[Pair]float64, len(ids)*len(ids))
	for _, a := range ids {
		for _, b := range ids {
			if a == b {
				continue
			}
			matrix[Pair{From: a, To: b}] = averageSimilarity(m[a], m[b])
		}
	}
	return matrix
}

func averageSimilarity(a, b []*document.Document) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var total float64
	for _, da := range a {
		for _, db := range b {
			total += search.CosineSimilarity(da.Vector, db.Vector)
		}
	}
	return total / float64(len(a)*len(b))
}

// Movement records a document whose cluster changed between two views.
type Movement struct {
	Document *document.Document
	From     string
	To       string
}

// Transition describes how documents moved between two cluster views.
type Transition struct {
	Movements []Movement
	Stable    []*document.Document
	New       []*document.Document
	Removed   []*document.Document
}

// Transitions diffs two cluster views by document path. All result
// lists are ordered by path.
func Transitions(oldClusters, newClusters Map) Transition {
	before := owners(oldClusters)
	after := owners(newClusters)

	var t Transition
	for _, path := range sortedKeys(after) {
		now := after[path]
		prev, ok := before[path]
		switch {
		case !ok:
			t.New = append(t.New, now.doc)
		case prev.id != now.id:
			t.Movements = append(t.Movements, Movement{Document: now.doc, From: prev.id, To: now.id})
		default:
			t.Stable = append(t.Stable, now.doc)
		}
	}
	for _, path := range sortedKeys(before) {
		if _, ok := after[path]; !ok {
			t.Removed = append(t.Removed, before[path].doc)
		}
	}
	return t
}

type ownership struct {
	id  string
	doc *document.Document
}

func owners(m Map) map[string]ownership {
	out := make(map[string]ownership, m.Size())
	for _, id := range m.IDs() {
		for _, d := range m[id] {
			if _, seen := out[d.Path]; !seen {
				out[d.Path] = ownership{id: id, doc: d}
			}
		}
	}
	return out
}

func sortedKeys(m map[string]ownership) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
