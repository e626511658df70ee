// Package index builds reverse lookups from concepts, tones and
// complexity buckets to the documents that carry them.
package index

import (
	"math"
	"sort"

	"github.com/knowledge-engine/explorer/internal/document"
)

// Buckets is the number of complexity buckets.
const Buckets = 10

// Set is a set of documents keyed by path.
type Set map[string]*document.Document

// Add inserts d into the set.
func (s Set) Add(d *document.Document) { s[d.Path] = d }

// Has reports whether a document with path is in the set.
func (s Set) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Len returns the number of documents in the set.
func (s Set) Len() int { return len(s) }

// Documents returns the members ordered by path.
func (s Set) Documents() []*document.Document {
	docs := make([]*document.Document, 0, len(s))
	for _, d := range s {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs
}

// SemanticIndex maps concepts, tones and complexity buckets to documents.
type SemanticIndex struct {
	Concepts          map[string]Set
	Tones             map[document.Tone]Set
	ComplexityBuckets map[int]Set
}

// Bucket returns the complexity bucket for c, in [0, Buckets-1].
func Bucket(c float64) int {
	b := int(math.Floor(c * Buckets))
	if b < 0 {
		return 0
	}
	if b >= Buckets {
		return Buckets - 1
	}
	return b
}

// Build indexes docs in a single pass.
func Build(docs []*document.Document) *SemanticIndex {
	idx := &SemanticIndex{
		Concepts:          make(map[string]Set),
		Tones:             make(map[document.Tone]Set),
		ComplexityBuckets: make(map[int]Set),
	}
	for _, d := range docs {
		for _, c := range d.Concepts {
			add(idx.Concepts, c, d)
		}
		add(idx.Tones, d.Tone, d)
		add(idx.ComplexityBuckets, Bucket(d.Complexity), d)
	}
	return idx
}

// Concept returns the documents carrying concept, ordered by path.
func (idx *SemanticIndex) Concept(concept string) []*document.Document {
	return idx.Concepts[concept].Documents()
}

// Tone returns the documents with tone, ordered by path.
func (idx *SemanticIndex) Tone(tone document.Tone) []*document.Document {
	return idx.Tones[tone].Documents()
}

// ConceptNames returns every indexed concept in lexical order.
func (idx *SemanticIndex) ConceptNames() []string {
	names := make([]string, 0, len(idx.Concepts))
	for c := range idx.Concepts {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether nothing was indexed.
func (idx *SemanticIndex) Empty() bool {
	return len(idx.Concepts) == 0 && len(idx.Tones) == 0 && len(idx.ComplexityBuckets) == 0
}

func add[K comparable](m map[K]Set, key K, d *document.Document) {
	s, ok := m[key]
	if !ok {
		s = make(Set)
		m[key] = s
	}
	s.Add(d)
}
