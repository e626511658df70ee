package engine

import (
	"sort"

	"github.com/knowledge-engine/explorer/internal/cluster"
	"github.com/knowledge-engine/explorer/internal/document"
	"github.com/knowledge-engine/explorer/internal/filter"
	"github.com/knowledge-engine/explorer/internal/index"
)

// Views are the JSON shapes handed to the rendering layer. Documents are
// referenced by path everywhere except in the document list itself.

type DocumentView struct {
	Path           string             `json:"path"`
	Name           string             `json:"name"`
	Concepts       []string           `json:"concepts"`
	Complexity     float64            `json:"complexity"`
	Tone           string             `json:"tone"`
	Structure      string             `json:"structure"`
	WordCount      int                `json:"wordCount"`
	PrimaryCluster string             `json:"primaryCluster"`
	SemanticVector map[string]float64 `json:"semanticVector"`
}

type IndexView struct {
	Concepts          map[string][]string `json:"concepts"`
	Tones             map[string][]string `json:"tones"`
	ComplexityBuckets map[int][]string    `json:"complexityBuckets"`
}

type AdaptiveView struct {
	Strategy   string             `json:"strategy"`
	Threshold  float64            `json:"threshold"`
	Weights    map[string]float64 `json:"weights,omitempty"`
	Subdivided []string           `json:"subdivided,omitempty"`
}

type SnapshotView struct {
	Documents     []DocumentView                 `json:"documents"`
	Clusters      map[string]map[string][]string `json:"clusters"`
	SemanticIndex IndexView                      `json:"semanticIndex"`
	Adaptive      AdaptiveView                   `json:"adaptive"`
}

type MatchView struct {
	Path  string  `json:"path"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type SimilarView struct {
	SelectedDocument DocumentView `json:"selectedDocument"`
	SimilarDocuments []MatchView  `json:"similarDocuments"`
}

type SuggestionsView struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type FilterView struct {
	Query     string                         `json:"query"`
	Clusters  []string                       `json:"selectedClusters"`
	Range     filter.Range                   `json:"complexityRange"`
	Documents []DocumentView                 `json:"documents"`
	Views     map[string]map[string][]string `json:"clusters,omitempty"`
}

type PairView struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Score float64 `json:"score"`
}

type ClusterSimilarityView struct {
	Method     string              `json:"method"`
	Clusters   map[string][]string `json:"clusters"`
	Similarity []PairView          `json:"similarity"`
}

type MovementView struct {
	Path string `json:"path"`
	From string `json:"from"`
	To   string `json:"to"`
}

type TransitionView struct {
	Movements   []MovementView `json:"movements"`
	StableDocs  []string       `json:"stableDocs"`
	NewDocs     []string       `json:"newDocs"`
	RemovedDocs []string       `json:"removedDocs"`
}

func NewDocumentView(d *document.Document) DocumentView {
	concepts := d.Concepts
	if concepts == nil {
		concepts = []string{}
	}
	return DocumentView{
		Path:           d.Path,
		Name:           d.Label(),
		Concepts:       concepts,
		Complexity:     d.Complexity,
		Tone:           string(d.Tone),
		Structure:      string(d.Structure),
		WordCount:      d.WordCount,
		PrimaryCluster: string(d.PrimaryCluster),
		SemanticVector: d.Vector,
	}
}

func NewSnapshotView(snap *Snapshot) SnapshotView {
	v := SnapshotView{
		Documents: documentViews(snap.Documents),
		Clusters:  clusterViews(snap.Clusters),
		SemanticIndex: IndexView{
			Concepts:          make(map[string][]string, len(snap.Index.Concepts)),
			Tones:             make(map[string][]string, len(snap.Index.Tones)),
			ComplexityBuckets: make(map[int][]string, len(snap.Index.ComplexityBuckets)),
		},
		Adaptive: AdaptiveView{
			Strategy:   string(snap.Adaptive.Strategy),
			Threshold:  snap.Adaptive.Threshold,
			Subdivided: snap.Adaptive.Subdivided,
		},
	}
	for _, c := range snap.Index.ConceptNames() {
		v.SemanticIndex.Concepts[c] = setPaths(snap.Index.Concepts[c])
	}
	for t, set := range snap.Index.Tones {
		v.SemanticIndex.Tones[string(t)] = setPaths(set)
	}
	for b, set := range snap.Index.ComplexityBuckets {
		v.SemanticIndex.ComplexityBuckets[b] = setPaths(set)
	}
	if len(snap.Adaptive.Weights) > 0 {
		v.Adaptive.Weights = make(map[string]float64, len(snap.Adaptive.Weights))
		for m, w := range snap.Adaptive.Weights {
			v.Adaptive.Weights[string(m)] = w
		}
	}
	return v
}

func NewSimilarView(r *SimilarResult) SimilarView {
	v := SimilarView{
		SelectedDocument: NewDocumentView(r.Selected),
		SimilarDocuments: make([]MatchView, len(r.Similar)),
	}
	for i, m := range r.Similar {
		v.SimilarDocuments[i] = MatchView{Path: m.Document.Path, Name: m.Document.Label(), Score: m.Score}
	}
	return v
}

func NewSuggestionsView(query string, suggestions []string) SuggestionsView {
	if suggestions == nil {
		suggestions = []string{}
	}
	return SuggestionsView{Query: query, Suggestions: suggestions}
}

func NewFilterView(criteria filter.Criteria, docs []*document.Document, clusters map[cluster.Method]cluster.Map) FilterView {
	v := FilterView{
		Query:     criteria.Query,
		Clusters:  make([]string, len(criteria.Clusters)),
		Range:     criteria.Range,
		Documents: documentViews(docs),
	}
	for i, c := range criteria.Clusters {
		v.Clusters[i] = string(c)
	}
	if len(clusters) > 0 {
		v.Views = clusterViews(clusters)
	}
	return v
}

// NewClusterSimilarityView lists pairs ordered by from, then to.
func NewClusterSimilarityView(method cluster.Method, clusters cluster.Map, matrix map[cluster.Pair]float64) ClusterSimilarityView {
	v := ClusterSimilarityView{
		Method:     string(method),
		Clusters:   make(map[string][]string, len(clusters)),
		Similarity: make([]PairView, 0, len(matrix)),
	}
	for id, members := range clusters {
		v.Clusters[id] = document.Paths(members)
	}
	for pair, score := range matrix {
		v.Similarity = append(v.Similarity, PairView{From: pair.From, To: pair.To, Score: score})
	}
	sort.Slice(v.Similarity, func(i, j int) bool {
		if v.Similarity[i].From != v.Similarity[j].From {
			return v.Similarity[i].From < v.Similarity[j].From
		}
		return v.Similarity[i].To < v.Similarity[j].To
	})
	return v
}

func NewTransitionView(t cluster.Transition) TransitionView {
	v := TransitionView{
		Movements:   make([]MovementView, len(t.Movements)),
		StableDocs:  document.Paths(t.Stable),
		NewDocs:     document.Paths(t.New),
		RemovedDocs: document.Paths(t.Removed),
	}
	for i, m := range t.Movements {
		v.Movements[i] = MovementView{Path: m.Document.Path, From: m.From, To: m.To}
	}
	return v
}

func documentViews(docs []*document.Document) []DocumentView {
	out := make([]DocumentView, len(docs))
	for i, d := range docs {
		out[i] = NewDocumentView(d)
	}
	return out
}

func clusterViews(clusters map[cluster.Method]cluster.Map) map[string]map[string][]string {
	out := make(map[string]map[string][]string, len(clusters))
	for method, m := range clusters {
		view := make(map[string][]string, len(m))
		for id, members := range m {
			view[id] = document.Paths(members)
		}
		out[string(method)] = view
	}
	return out
}

func setPaths(s index.Set) []string {
	return document.Paths(s.Documents())
}
