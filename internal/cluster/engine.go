package cluster

import (
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/knowledge-engine/explorer/internal/document"
)

const (
	// DefaultBaseThreshold is the similarity threshold before jitter.
	DefaultBaseThreshold = 0.5

	// adaptiveMinDocs is the set size from which adaptive clustering
	// mixes strategies instead of falling back to semantic.
	adaptiveMinDocs = 10

	jitterSpan = 0.2
)

// Signals are the data-driven and random inputs of the strategy weights.
type Signals struct {
	ComplexityVariance float64
	ToneDiversity      float64
	TimeOscillation    float64
	HashOscillation    float64
	Random             float64
}

// AdaptiveResult is the outcome of one adaptive run.
type AdaptiveResult struct {
	Clusters   Map
	Strategy   Method
	Threshold  float64
	Weights    map[Method]float64
	Signals    Signals
	Subdivided []string
}

// Engine runs clustering strategies. Deterministic strategies are pure;
// adaptive runs draw from the engine's Source under a lock.
type Engine struct {
	logger         *logrus.Entry
	baseThreshold  float64
	subdivideAbove int

	mu     sync.Mutex
	source Source
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger.WithField("component", "cluster_engine")
		}
	}
}

// WithBaseThreshold sets the threshold jitter is applied to.
func WithBaseThreshold(t float64) Option {
	return func(e *Engine) { e.baseThreshold = clamp01(t) }
}

// WithSubdivideAbove sets the cluster size above which clusters are split.
func WithSubdivideAbove(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.subdivideAbove = n
		}
	}
}

// New creates an engine drawing randomness from source. A nil source
// selects NewRandomSource.
func New(source Source, opts ...Option) *Engine {
	if source == nil {
		source = NewRandomSource()
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Engine{
		logger:         logrus.NewEntry(discard),
		baseThreshold:  DefaultBaseThreshold,
		subdivideAbove: DefaultSubdivideAbove,
		source:         source,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cluster runs method over docs.
func (e *Engine) Cluster(docs []*document.Document, method Method) (Map, error) {
	switch method {
	case MethodAdaptive:
		return e.Adaptive(docs).Clusters, nil
	case MethodSemantic, MethodTemporal, MethodStructural, MethodComplexity, MethodHybrid:
		return e.deterministic(docs, method), nil
	default:
		return nil, fmt.Errorf("%w: %q", document.ErrUnknownMethod, method)
	}
}

func (e *Engine) deterministic(docs []*document.Document, method Method) Map {
	switch method {
	case MethodTemporal:
		return Temporal(docs)
	case MethodStructural:
		return Structural(docs)
	case MethodComplexity:
		return ByComplexity(docs)
	case MethodHybrid:
		return hybrid(docs, e.subdivideAbove)
	default:
		return Semantic(docs)
	}
}

// Adaptive picks a base strategy at random, weighted by properties of the
// document set, then randomly splits large clusters further. Runs with
// equal sources and equal input produce equal results.
func (e *Engine) Adaptive(docs []*document.Document) AdaptiveResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	jitter := (e.source.Float64() - 0.5) * jitterSpan
	threshold := clamp01(e.baseThreshold + jitter)

	if len(docs) < adaptiveMinDocs {
		e.logger.WithFields(logrus.Fields{
			"documents": len(docs),
			"threshold": threshold,
		}).Debug("Small document set, using semantic clustering")
		return AdaptiveResult{
			Clusters:  Semantic(docs),
			Strategy:  MethodSemantic,
			Threshold: threshold,
		}
	}

	signals := e.collectSignals(docs)
	weights := signals.weights()
	strategy := pickWeighted(weights, e.source.Float64())
	base := e.deterministic(docs, strategy)

	result := AdaptiveResult{
		Clusters:  make(Map, len(base)),
		Strategy:  strategy,
		Threshold: threshold,
		Weights:   weights,
		Signals:   signals,
	}

	// Sorted ids keep the draw sequence stable under a seeded source.
	for _, id := range base.IDs() {
		members := base[id]
		if len(members) <= e.subdivideAbove || e.source.Float64() >= threshold {
			result.Clusters[id] = members
			continue
		}
		by := ByComplexity
		if e.source.IntN(2) == 1 {
			by = Structural
		}
		mergeSubclusters(result.Clusters, id, by(members))
		result.Subdivided = append(result.Subdivided, id)
	}

	e.logger.WithFields(logrus.Fields{
		"documents":  len(docs),
		"strategy":   strategy,
		"threshold":  threshold,
		"clusters":   len(result.Clusters),
		"subdivided": len(result.Subdivided),
	}).Debug("Adaptive clustering complete")

	return result
}

func (e *Engine) collectSignals(docs []*document.Document) Signals {
	complexities := make([]float64, len(docs))
	tones := make(map[document.Tone]struct{})
	for i, d := range docs {
		complexities[i] = d.Complexity
		tones[d.Tone] = struct{}{}
	}

	now := float64(e.source.Now().Unix())
	return Signals{
		ComplexityVariance: stat.Variance(complexities, nil),
		ToneDiversity:      float64(len(tones)) / float64(len(document.AllTones())),
		TimeOscillation:    (math.Sin(now*0.01) + 1) / 2,
		HashOscillation:    float64(contentHash(docs)%1000) / 1000,
		Random:             e.source.Float64(),
	}
}

// contentHash digests every path and content in path order, so it is
// independent of input order and changes whenever a document is edited.
func contentHash(docs []*document.Document) uint64 {
	sorted := append([]*document.Document(nil), docs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	h := fnv.New64a()
	for _, d := range sorted {
		h.Write([]byte(d.Path))
		h.Write([]byte{0})
		h.Write([]byte(d.Content))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// weights maps every signal onto a non-negative weight per base strategy.
// Spread-out complexity favours complexity views, many tones favour
// semantic ones; the oscillations and random term keep views moving.
func (s Signals) weights() map[Method]float64 {
	return map[Method]float64{
		MethodSemantic:   0.2 + 0.3*s.ToneDiversity,
		MethodTemporal:   0.1 + 0.2*s.TimeOscillation,
		MethodStructural: 0.1 + 0.2*s.HashOscillation,
		MethodComplexity: 0.1 + 0.4*math.Min(1, s.ComplexityVariance*10),
		MethodHybrid:     0.15 + 0.25*s.Random,
	}
}

func pickWeighted(weights map[Method]float64, u float64) Method {
	methods := DeterministicMethods()
	var total float64
	for _, m := range methods {
		total += weights[m]
	}
	target := u * total
	var cumulative float64
	for _, m := range methods {
		cumulative += weights[m]
		if target < cumulative {
			return m
		}
	}
	return methods[len(methods)-1]
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
