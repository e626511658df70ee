package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/explorer/internal/cluster"
	"github.com/knowledge-engine/explorer/internal/config"
	"github.com/knowledge-engine/explorer/internal/document"
	"github.com/knowledge-engine/explorer/internal/features"
	"github.com/knowledge-engine/explorer/internal/filter"
	"github.com/knowledge-engine/explorer/internal/index"
	"github.com/knowledge-engine/explorer/internal/search"
)

// Engine orchestrates the analysis pipeline
type Engine struct {
	Config    *config.Config
	Logger    *logrus.Entry
	Extractor *features.Extractor
	Vectors   *search.VectorBuilder
	Clusterer *cluster.Engine

	cache *lru.Cache[string, features.Features]
}

// Snapshot is one immutable analysis of a document set
type Snapshot struct {
	Documents []*document.Document
	Clusters  map[cluster.Method]cluster.Map
	Index     *index.SemanticIndex
	Adaptive  cluster.AdaptiveResult

	byPath map[string]*document.Document
}

// Document looks up a document by path.
func (s *Snapshot) Document(path string) (*document.Document, bool) {
	d, ok := s.byPath[path]
	return d, ok
}

// SimilarResult is the answer to a similarity query
type SimilarResult struct {
	Selected *document.Document
	Similar  []search.Match
}

// NewEngine wires the pipeline from cfg. A nil source selects a seeded
// source when cfg carries a seed and a random one otherwise.
func NewEngine(cfg *config.Config, logger *logrus.Entry, source cluster.Source) (*Engine, error) {
	lex, err := features.LoadLexiconFile(cfg.Analysis.LexiconFile)
	if err != nil {
		return nil, err
	}

	if source == nil {
		source = SourceFromConfig(cfg.Cluster)
	}

	e := &Engine{
		Config:    cfg,
		Logger:    logger.WithField("component", "engine"),
		Extractor: features.NewExtractor(lex),
		Vectors:   search.NewVectorBuilder(lex.Boosts),
		Clusterer: cluster.New(source,
			cluster.WithLogger(logger),
			cluster.WithBaseThreshold(cfg.Cluster.BaseThreshold),
			cluster.WithSubdivideAbove(cfg.Cluster.SubdivideAbove),
		),
	}

	if cfg.Analysis.CacheSize > 0 {
		e.cache, err = lru.New[string, features.Features](cfg.Analysis.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create feature cache: %w", err)
		}
	}
	return e, nil
}

// SourceFromConfig picks the adaptive randomness source for cfg.
func SourceFromConfig(cfg config.ClusterConfig) cluster.Source {
	if cfg.HasSeed {
		return cluster.NewSeededSource(cfg.Seed, seedEpoch(cfg.Seed))
	}
	return cluster.NewRandomSource()
}

// seedEpoch freezes the adaptive clock so seeded runs are reproducible.
func seedEpoch(seed uint64) time.Time {
	return time.Unix(int64(seed%(1<<31)), 0).UTC()
}

// Enhance derives an immutable Document from a raw record.
func (e *Engine) Enhance(raw document.Raw) *document.Document {
	f := e.extract(raw.Text())
	return &document.Document{
		Path:           raw.Path,
		Name:           raw.DisplayName(),
		Content:        raw.Content,
		Concepts:       f.Concepts,
		Complexity:     f.Complexity,
		Tone:           f.Tone,
		Structure:      f.Structure,
		WordCount:      f.WordCount,
		PrimaryCluster: f.PrimaryCluster,
		Vector:         e.Vectors.Build(f.Concepts),
	}
}

func (e *Engine) extract(text string) features.Features {
	if e.cache == nil {
		return e.Extractor.Extract(text)
	}
	sum := sha256.Sum256([]byte(text))
	key := hex.EncodeToString(sum[:])
	if f, ok := e.cache.Get(key); ok {
		return f
	}
	f := e.Extractor.Extract(text)
	e.cache.Add(key, f)
	return f
}

// Analyze enhances raws and computes every cluster view and the index.
// Later records with an already seen path are skipped.
func (e *Engine) Analyze(raws []document.Raw) (*Snapshot, error) {
	snap := &Snapshot{
		Documents: make([]*document.Document, 0, len(raws)),
		Clusters:  make(map[cluster.Method]cluster.Map, len(cluster.Methods())),
		byPath:    make(map[string]*document.Document, len(raws)),
	}

	for i, raw := range raws {
		if raw.Path == "" {
			return nil, fmt.Errorf("%w: record %d has no path", document.ErrInvalidInput, i)
		}
		if _, dup := snap.byPath[raw.Path]; dup {
			e.Logger.WithField("path", raw.Path).Warn("Skipping duplicate document path")
			continue
		}
		d := e.Enhance(raw)
		snap.Documents = append(snap.Documents, d)
		snap.byPath[d.Path] = d
	}

	snap.Index = index.Build(snap.Documents)
	for _, m := range cluster.DeterministicMethods() {
		clusters, err := e.Clusterer.Cluster(snap.Documents, m)
		if err != nil {
			return nil, err
		}
		snap.Clusters[m] = clusters
	}
	snap.Adaptive = e.Clusterer.Adaptive(snap.Documents)
	snap.Clusters[cluster.MethodAdaptive] = snap.Adaptive.Clusters

	e.Logger.WithFields(logrus.Fields{
		"documents": len(snap.Documents),
		"concepts":  len(snap.Index.Concepts),
		"adaptive":  snap.Adaptive.Strategy,
	}).Info("Analysis complete")

	return snap, nil
}

// Similar finds the documents closest to path. A negative threshold
// selects the configured default.
func (e *Engine) Similar(snap *Snapshot, path string, threshold float64) (*SimilarResult, error) {
	selected, ok := snap.Document(path)
	if !ok {
		return nil, fmt.Errorf("document %q: %w", path, document.ErrNotFound)
	}
	if threshold < 0 {
		threshold = e.Config.Filter.SimilarityThreshold
	}
	return &SimilarResult{
		Selected: selected,
		Similar:  search.FindSimilar(selected, snap.Documents, threshold),
	}, nil
}

// Suggest returns concept completions for query.
func (e *Engine) Suggest(snap *Snapshot, query string) []string {
	return filter.Suggestions(snap.Documents, query)
}

// Filter narrows the snapshot's documents.
func (e *Engine) Filter(snap *Snapshot, criteria filter.Criteria) ([]*document.Document, error) {
	return filter.Filter(snap.Documents, criteria)
}

// Recluster runs one method over an arbitrary document subset.
func (e *Engine) Recluster(docs []*document.Document, method cluster.Method) (cluster.Map, error) {
	return e.Clusterer.Cluster(docs, method)
}

// NewSession opens an interactive filter session over the snapshot.
func (e *Engine) NewSession(snap *Snapshot, publish func(filter.View)) *filter.Session {
	return filter.NewSession(snap.Documents, e.Clusterer, filter.SessionConfig{
		QueryDelay:   e.Config.Filter.QueryDelay,
		ClusterDelay: e.Config.Filter.ClusterDelay,
		Logger:       e.Logger,
	}, publish)
}

// ClusterSimilarity averages document similarity between every ordered
// pair of clusters in the method's view of snap.
func (e *Engine) ClusterSimilarity(snap *Snapshot, method cluster.Method) (cluster.Map, map[cluster.Pair]float64, error) {
	if !method.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", document.ErrUnknownMethod, method)
	}
	clusters := snap.Clusters[method]
	return clusters, cluster.SimilarityMatrix(clusters), nil
}

// Diff compares the method's cluster views of two snapshots.
func Diff(before, after *Snapshot, method cluster.Method) cluster.Transition {
	var oldClusters, newClusters cluster.Map
	if before != nil {
		oldClusters = before.Clusters[method]
	}
	if after != nil {
		newClusters = after.Clusters[method]
	}
	return cluster.Transitions(oldClusters, newClusters)
}
