package cluster_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/explorer/internal/cluster"
	"github.com/knowledge-engine/explorer/internal/document"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func corpus(n int) []*document.Document {
	primaries := document.AllPrimaryClusters()
	structures := document.AllStructures()
	tones := document.AllTones()
	docs := make([]*document.Document, n)
	for i := 0; i < n; i++ {
		docs[i] = &document.Document{
			Path:           fmt.Sprintf("docs/note-%02d.md", i),
			Complexity:     float64(i%10) / 10,
			PrimaryCluster: primaries[i%2],
			Structure:      structures[i%len(structures)],
			Tone:           tones[i%len(tones)],
			Concepts:       []string{"system"},
			Vector:         map[string]float64{"system": 1.3},
		}
	}
	return docs
}

func assertPartition(t *testing.T, docs []*document.Document, m cluster.Map) {
	t.Helper()
	counts := make(map[string]int)
	for _, members := range m {
		for _, d := range members {
			counts[d.Path]++
		}
	}
	assert.Equal(t, len(docs), m.Size())
	for _, d := range docs {
		assert.Equal(t, 1, counts[d.Path], "document %s", d.Path)
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range cluster.Methods() {
		parsed, err := cluster.ParseMethod(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := cluster.ParseMethod("kmeans")
	assert.ErrorIs(t, err, document.ErrUnknownMethod)
	assert.False(t, cluster.MethodAdaptive.Deterministic())
	assert.True(t, cluster.MethodHybrid.Deterministic())
}

func TestSemantic(t *testing.T) {
	a := &document.Document{Path: "a", PrimaryCluster: document.ClusterTechnical}
	b := &document.Document{Path: "b", PrimaryCluster: document.ClusterPhilosophy}
	c := &document.Document{Path: "c", PrimaryCluster: document.ClusterTechnical}

	m := cluster.Semantic([]*document.Document{a, b, c})
	assert.Equal(t, cluster.Map{
		"technical":  {a, c},
		"philosophy": {b},
	}, m)
	assert.Equal(t, []string{"philosophy", "technical"}, m.IDs())
}

func TestByComplexity(t *testing.T) {
	docs := []*document.Document{
		{Path: "a", Complexity: 0},
		{Path: "b", Complexity: 0.3},
		{Path: "c", Complexity: 0.59},
		{Path: "d", Complexity: 0.6},
		{Path: "e", Complexity: 1},
	}
	m := cluster.ByComplexity(docs)
	assert.Equal(t, []string{"a"}, document.Paths(m[cluster.LevelSimple]))
	assert.Equal(t, []string{"b", "c"}, document.Paths(m[cluster.LevelModerate]))
	assert.Equal(t, []string{"d", "e"}, document.Paths(m[cluster.LevelComplex]))
}

func TestStructural(t *testing.T) {
	docs := corpus(10)
	m := cluster.Structural(docs)
	assert.Len(t, m, len(document.AllStructures()))
	for id, members := range m {
		for _, d := range members {
			assert.Equal(t, id, string(d.Structure))
		}
	}
}

func TestTemporal(t *testing.T) {
	docs := corpus(50)
	m := cluster.Temporal(docs)
	valid := map[string]bool{
		cluster.BucketRecent: true, cluster.BucketThisMonth: true,
		cluster.BucketThisQuarter: true, cluster.BucketOlder: true,
	}
	for id := range m {
		assert.True(t, valid[id], "unexpected bucket %s", id)
	}
	assert.Equal(t, m, cluster.Temporal(docs))

	age := cluster.SimulatedAge("docs/a.md")
	assert.Equal(t, age, cluster.SimulatedAge("docs/a.md"))
	assert.GreaterOrEqual(t, age, 0)
	assert.Less(t, age, 365)
}

func TestHybrid(t *testing.T) {
	var docs []*document.Document
	for i := 0; i < 6; i++ {
		docs = append(docs, &document.Document{
			Path:           fmt.Sprintf("tech-%d", i),
			PrimaryCluster: document.ClusterTechnical,
			Complexity:     float64(i) / 6,
		})
	}
	small := &document.Document{Path: "small", PrimaryCluster: document.ClusterGeneral, Complexity: 0.9}
	docs = append(docs, small)

	m := cluster.Hybrid(docs)
	assertPartition(t, docs, m)
	assert.Equal(t, []*document.Document{small}, m["general"])
	assert.NotContains(t, m, "technical")
	assert.Len(t, m["technical-simple"], 2)
	assert.Len(t, m["technical-moderate"], 2)
	assert.Len(t, m["technical-complex"], 2)
}

func TestHybrid_NoLargeUnsplitClusters(t *testing.T) {
	docs := corpus(40)
	m := cluster.Hybrid(docs)
	assertPartition(t, docs, m)
	for id, members := range m {
		if len(members) > cluster.DefaultSubdivideAbove {
			require.True(t, strings.Contains(id, "-"), "cluster %s was not subdivided", id)
			level := cluster.ComplexityLevel(members[0].Complexity)
			for _, d := range members {
				assert.Equal(t, level, cluster.ComplexityLevel(d.Complexity))
			}
		}
	}
}

func TestDeterministicMethods_Partition(t *testing.T) {
	engine := cluster.New(cluster.NewSeededSource(1, epoch))
	for _, n := range []int{0, 1, 9, 10, 37} {
		docs := corpus(n)
		for _, method := range cluster.DeterministicMethods() {
			t.Run(fmt.Sprintf("%s/%d", method, n), func(t *testing.T) {
				m, err := engine.Cluster(docs, method)
				require.NoError(t, err)
				assertPartition(t, docs, m)
				again, err := engine.Cluster(docs, method)
				require.NoError(t, err)
				assert.Equal(t, m, again)
			})
		}
	}
}

func TestEngine_EmptyInput(t *testing.T) {
	engine := cluster.New(nil)
	for _, method := range cluster.Methods() {
		m, err := engine.Cluster(nil, method)
		require.NoError(t, err)
		assert.Empty(t, m, "method %s", method)
	}
}

func TestEngine_UnknownMethod(t *testing.T) {
	engine := cluster.New(nil)
	_, err := engine.Cluster(corpus(3), cluster.Method("bogus"))
	assert.ErrorIs(t, err, document.ErrUnknownMethod)
}

func TestAdaptive_SmallSetFallsBackToSemantic(t *testing.T) {
	docs := corpus(9)
	engine := cluster.New(cluster.NewSeededSource(3, epoch))

	result := engine.Adaptive(docs)
	assert.Equal(t, cluster.MethodSemantic, result.Strategy)
	assert.Equal(t, cluster.Semantic(docs), result.Clusters)
	assert.InDelta(t, cluster.DefaultBaseThreshold, result.Threshold, 0.1)
	assert.Empty(t, result.Subdivided)
}

func TestAdaptive_ReproducibleUnderSeed(t *testing.T) {
	docs := corpus(40)
	for _, seed := range []uint64{1, 2, 42, 1234} {
		first := cluster.New(cluster.NewSeededSource(seed, epoch)).Adaptive(docs)
		second := cluster.New(cluster.NewSeededSource(seed, epoch)).Adaptive(docs)
		assert.Equal(t, first, second, "seed %d", seed)
	}
}

func TestAdaptive_PartitionAndWeights(t *testing.T) {
	docs := corpus(40)
	for seed := uint64(0); seed < 25; seed++ {
		engine := cluster.New(cluster.NewSeededSource(seed, epoch), cluster.WithBaseThreshold(0.9))
		result := engine.Adaptive(docs)

		assertPartition(t, docs, result.Clusters)
		assert.True(t, result.Strategy.Deterministic())
		assert.GreaterOrEqual(t, result.Threshold, 0.8)
		assert.LessOrEqual(t, result.Threshold, 1.0)
		require.Len(t, result.Weights, len(cluster.DeterministicMethods()))
		for m, w := range result.Weights {
			assert.Greater(t, w, 0.0, "weight for %s", m)
		}
		for _, id := range result.Subdivided {
			assert.NotContains(t, result.Clusters, id)
		}
	}
}

func TestAdaptive_VariesAcrossSeeds(t *testing.T) {
	docs := corpus(40)
	strategies := make(map[cluster.Method]bool)
	for seed := uint64(0); seed < 40; seed++ {
		strategies[cluster.New(cluster.NewSeededSource(seed, epoch)).Adaptive(docs).Strategy] = true
	}
	assert.Greater(t, len(strategies), 1)
}

func TestAdaptive_SubdividesWithHighThreshold(t *testing.T) {
	docs := corpus(40)
	subdivided := 0
	for seed := uint64(0); seed < 5; seed++ {
		engine := cluster.New(cluster.NewSeededSource(seed, epoch), cluster.WithBaseThreshold(1))
		result := engine.Adaptive(docs)
		assertPartition(t, docs, result.Clusters)
		subdivided += len(result.Subdivided)
	}
	// Threshold stays within [0.9, 1], so large clusters are split almost always.
	assert.Greater(t, subdivided, 0)
}

func TestSimilarityMatrix(t *testing.T) {
	a := &document.Document{Path: "a", Vector: map[string]float64{"x": 1}}
	b := &document.Document{Path: "b", Vector: map[string]float64{"x": 1}}
	c := &document.Document{Path: "c", Vector: map[string]float64{"y": 1}}

	m := cluster.Map{"left": {a}, "right": {b, c}, "empty": {}}
	matrix := cluster.SimilarityMatrix(m)

	assert.Len(t, matrix, 6)
	assert.InDelta(t, 0.5, matrix[cluster.Pair{From: "left", To: "right"}], 1e-9)
	assert.InDelta(t, 0.5, matrix[cluster.Pair{From: "right", To: "left"}], 1e-9)
	assert.Equal(t, 0.0, matrix[cluster.Pair{From: "left", To: "empty"}])
	assert.NotContains(t, matrix, cluster.Pair{From: "left", To: "left"})
}

func TestTransitions(t *testing.T) {
	a := &document.Document{Path: "a"}
	b := &document.Document{Path: "b"}
	c := &document.Document{Path: "c"}
	d := &document.Document{Path: "d"}

	before := cluster.Map{"x": {a, b}, "y": {c}}
	after := cluster.Map{"x": {a}, "z": {b, d}}

	tr := cluster.Transitions(before, after)
	require.Len(t, tr.Movements, 1)
	assert.Equal(t, cluster.Movement{Document: b, From: "x", To: "z"}, tr.Movements[0])
	assert.Equal(t, []*document.Document{a}, tr.Stable)
	assert.Equal(t, []*document.Document{d}, tr.New)
	assert.Equal(t, []*document.Document{c}, tr.Removed)

	empty := cluster.Transitions(nil, nil)
	assert.Empty(t, empty.Movements)
	assert.Empty(t, empty.Stable)
}
