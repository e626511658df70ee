package engine_test

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/explorer/internal/cluster"
	"github.com/knowledge-engine/explorer/internal/config"
	"github.com/knowledge-engine/explorer/internal/document"
	"github.com/knowledge-engine/explorer/internal/engine"
	"github.com/knowledge-engine/explorer/internal/filter"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("test", "engine")
}

func newEngine(t *testing.T, seed uint64) *engine.Engine {
	t.Helper()
	cfg := config.Load()
	eng, err := engine.NewEngine(cfg, testLogger(), cluster.NewSeededSource(seed, time.Unix(0, 0)))
	require.NoError(t, err)
	return eng
}

func sampleRaws() []document.Raw {
	return []document.Raw{
		{Path: "a", Content: "system system system design design complex complex"},
		{Path: "b", Content: "human human human thinking thinking simple"},
	}
}

func TestNewEngine(t *testing.T) {
	eng := newEngine(t, 1)
	assert.NotNil(t, eng.Extractor)
	assert.NotNil(t, eng.Vectors)
	assert.NotNil(t, eng.Clusterer)
}

func TestNewEngine_MissingLexiconFile(t *testing.T) {
	cfg := config.Load()
	cfg.Analysis.LexiconFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := engine.NewEngine(cfg, testLogger(), nil)
	assert.Error(t, err)
}

func TestNewEngine_LexiconFileExtendsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("technical:\n  - human\n"), 0o644))

	cfg := config.Load()
	cfg.Analysis.LexiconFile = path
	eng, err := engine.NewEngine(cfg, testLogger(), cluster.NewSeededSource(1, time.Unix(0, 0)))
	require.NoError(t, err)

	d := eng.Enhance(document.Raw{Path: "x", Content: "human human human"})
	assert.Equal(t, document.ToneTechnical, d.Tone)
}

func TestEngine_Analyze(t *testing.T) {
	eng := newEngine(t, 1)

	snap, err := eng.Analyze(sampleRaws())
	require.NoError(t, err)
	require.Len(t, snap.Documents, 2)

	a, ok := snap.Document("a")
	require.True(t, ok)
	assert.Equal(t, []string{"system", "design", "complex"}, a.Concepts)
	assert.Equal(t, document.ToneTechnical, a.Tone)
	assert.Equal(t, document.ClusterTechnical, a.PrimaryCluster)

	b, ok := snap.Document("b")
	require.True(t, ok)
	assert.Equal(t, []string{"human", "thinking"}, b.Concepts)
	assert.Equal(t, document.ClusterPhilosophy, b.PrimaryCluster)

	for _, m := range cluster.Methods() {
		assert.Contains(t, snap.Clusters, m)
		assert.Equal(t, 2, snap.Clusters[m].Size(), "method %s", m)
	}
	assert.ElementsMatch(t, []string{"a"}, document.Paths(snap.Index.Concept("system")))
}

func TestEngine_AnalyzeEmpty(t *testing.T) {
	eng := newEngine(t, 1)

	snap, err := eng.Analyze(nil)
	require.NoError(t, err)
	assert.Empty(t, snap.Documents)
	assert.True(t, snap.Index.Empty())
	for _, m := range cluster.Methods() {
		assert.Empty(t, snap.Clusters[m], "method %s", m)
	}
}

func TestEngine_AnalyzeRejectsMissingPath(t *testing.T) {
	eng := newEngine(t, 1)

	_, err := eng.Analyze([]document.Raw{{Content: "orphan"}})
	assert.ErrorIs(t, err, document.ErrInvalidInput)
}

func TestEngine_AnalyzeSkipsDuplicatePaths(t *testing.T) {
	eng := newEngine(t, 1)
	raws := append(sampleRaws(), document.Raw{Path: "a", Content: "human human"})

	snap, err := eng.Analyze(raws)
	require.NoError(t, err)
	require.Len(t, snap.Documents, 2)
	a, _ := snap.Document("a")
	assert.Contains(t, a.Concepts, "system")
}

func TestEngine_AnalyzeSeededIsReproducible(t *testing.T) {
	var raws []document.Raw
	for i, content := range []string{
		"system system design design",
		"human human thinking thinking",
		"complexity complexity simple simple",
		"technology technology future future",
		"data data code code algorithm",
		"question question meaning meaning",
		"love love hope hope",
		"broken broken error error",
		"interface interface design design",
		"philosophy philosophy thinking thinking",
		"understanding understanding system system",
		"human human design design",
	} {
		raws = append(raws, document.Raw{Path: string(rune('a' + i)), Content: content})
	}

	first, err := newEngine(t, 42).Analyze(raws)
	require.NoError(t, err)
	second, err := newEngine(t, 42).Analyze(raws)
	require.NoError(t, err)

	assert.Equal(t, first.Adaptive.Strategy, second.Adaptive.Strategy)
	assert.Equal(t, first.Adaptive.Threshold, second.Adaptive.Threshold)
	assert.Equal(t, engine.NewSnapshotView(first).Clusters, engine.NewSnapshotView(second).Clusters)
}

func TestEngine_EnhanceUsesCache(t *testing.T) {
	eng := newEngine(t, 1)

	first := eng.Enhance(document.Raw{Path: "one", Content: "system system design design"})
	second := eng.Enhance(document.Raw{Path: "two", Content: "system system design design"})
	assert.Equal(t, first.Concepts, second.Concepts)
	assert.Equal(t, "one", first.Path)
	assert.Equal(t, "two", second.Path)
}

func TestEngine_EnhanceFallsBackToPath(t *testing.T) {
	eng := newEngine(t, 1)

	d := eng.Enhance(document.Raw{Path: "notes/system-design.md"})
	assert.Equal(t, "notes/system-design.md", d.Label())
	assert.Equal(t, 1, d.WordCount)
}

func TestEngine_Similar(t *testing.T) {
	eng := newEngine(t, 1)
	raws := append(sampleRaws(), document.Raw{Path: "c", Content: "system system design design"})
	snap, err := eng.Analyze(raws)
	require.NoError(t, err)

	res, err := eng.Similar(snap, "a", -1)
	require.NoError(t, err)
	assert.Equal(t, "a", res.Selected.Path)
	require.Len(t, res.Similar, 1)
	assert.Equal(t, "c", res.Similar[0].Document.Path)
	assert.Greater(t, res.Similar[0].Score, 0.1)

	_, err = eng.Similar(snap, "missing", -1)
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestEngine_FilterAndSuggest(t *testing.T) {
	eng := newEngine(t, 1)
	snap, err := eng.Analyze(sampleRaws())
	require.NoError(t, err)

	docs, err := eng.Filter(snap, filter.Criteria{Query: "human", Range: filter.FullRange})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, document.Paths(docs))

	assert.Equal(t, []string{"human"}, eng.Suggest(snap, "hu"))
	assert.Empty(t, eng.Suggest(snap, "h"))

	_, err = eng.Filter(snap, filter.Criteria{Range: filter.Range{Min: 0.8, Max: 0.2}})
	assert.ErrorIs(t, err, document.ErrInvalidRange)
}

func TestEngine_Recluster(t *testing.T) {
	eng := newEngine(t, 1)
	snap, err := eng.Analyze(sampleRaws())
	require.NoError(t, err)

	m, err := eng.Recluster(snap.Documents[:1], cluster.MethodSemantic)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Size())

	_, err = eng.Recluster(snap.Documents, cluster.Method("bogus"))
	assert.ErrorIs(t, err, document.ErrUnknownMethod)
}

func TestDiff(t *testing.T) {
	eng := newEngine(t, 1)
	before, err := eng.Analyze(sampleRaws())
	require.NoError(t, err)
	after, err := eng.Analyze([]document.Raw{
		{Path: "a", Content: "human human human thinking thinking"},
		{Path: "c", Content: "system system design design"},
	})
	require.NoError(t, err)

	tr := engine.Diff(before, after, cluster.MethodSemantic)
	require.Len(t, tr.Movements, 1)
	assert.Equal(t, "a", tr.Movements[0].Document.Path)
	assert.Equal(t, "technical", tr.Movements[0].From)
	assert.Equal(t, "philosophy", tr.Movements[0].To)
	assert.Equal(t, []string{"c"}, document.Paths(tr.New))
	assert.Equal(t, []string{"b"}, document.Paths(tr.Removed))
	assert.Empty(t, tr.Stable)

	initial := engine.Diff(nil, before, cluster.MethodSemantic)
	assert.Equal(t, []string{"a", "b"}, document.Paths(initial.New))
}

func TestEngine_Session(t *testing.T) {
	eng := newEngine(t, 1)
	snap, err := eng.Analyze(sampleRaws())
	require.NoError(t, err)

	views := make(chan filter.View, 4)
	s := eng.NewSession(snap, func(v filter.View) { views <- v })
	defer s.Close()

	s.SetQuery("human")
	view := s.Refresh()
	assert.Equal(t, []string{"b"}, document.Paths(view.Documents))
	assert.Equal(t, []string{"human"}, view.Suggestions)
}

func TestSnapshotView_JSON(t *testing.T) {
	eng := newEngine(t, 1)
	snap, err := eng.Analyze(sampleRaws())
	require.NoError(t, err)

	raw, err := json.Marshal(engine.NewSnapshotView(snap))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "documents")
	assert.Contains(t, decoded, "clusters")
	assert.Contains(t, decoded, "semanticIndex")

	clusters := decoded["clusters"].(map[string]any)
	semantic := clusters["semantic"].(map[string]any)
	assert.Equal(t, []any{"b"}, semantic["philosophy"])
}

func TestSuggestionsView_NeverNull(t *testing.T) {
	raw, err := json.Marshal(engine.NewSuggestionsView("x", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"x","suggestions":[]}`, string(raw))
}

func TestEngine_ClusterSimilarity(t *testing.T) {
	eng := newEngine(t, 1)
	raws := append(sampleRaws(), document.Raw{Path: "c", Content: "human human thinking thinking system system"})
	snap, err := eng.Analyze(raws)
	require.NoError(t, err)

	clusters, matrix, err := eng.ClusterSimilarity(snap, cluster.MethodSemantic)
	require.NoError(t, err)
	assert.Equal(t, []string{"philosophy", "technical"}, clusters.IDs())
	require.Len(t, matrix, 2)

	forward := matrix[cluster.Pair{From: "philosophy", To: "technical"}]
	assert.Greater(t, forward, 0.0)
	assert.Equal(t, forward, matrix[cluster.Pair{From: "technical", To: "philosophy"}])

	view := engine.NewClusterSimilarityView(cluster.MethodSemantic, clusters, matrix)
	require.Len(t, view.Similarity, 2)
	assert.Equal(t, "philosophy", view.Similarity[0].From)
	assert.Equal(t, "technical", view.Similarity[1].From)
	assert.Equal(t, []string{"b", "c"}, view.Clusters["philosophy"])

	_, _, err = eng.ClusterSimilarity(snap, cluster.Method("bogus"))
	assert.ErrorIs(t, err, document.ErrUnknownMethod)
}
