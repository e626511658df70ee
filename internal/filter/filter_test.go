package filter_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/explorer/internal/document"
	"github.com/knowledge-engine/explorer/internal/filter"
)

func sampleDocs() []*document.Document {
	return []*document.Document{
		{Path: "a", Concepts: []string{"system", "design", "complex"}, PrimaryCluster: document.ClusterTechnical, Complexity: 0.35},
		{Path: "b", Concepts: []string{"human", "thinking"}, PrimaryCluster: document.ClusterPhilosophy, Complexity: 0.4},
	}
}

func TestFilter_Query(t *testing.T) {
	docs := sampleDocs()

	out, err := filter.Filter(docs, filter.Criteria{Query: "human", Range: filter.FullRange})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, document.Paths(out))

	out, err = filter.Filter(docs, filter.Criteria{Query: "DESIGN", Range: filter.FullRange})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, document.Paths(out))

	out, err = filter.Filter(docs, filter.DefaultCriteria())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, document.Paths(out))
}

func TestFilter_MatchesNameOverPath(t *testing.T) {
	docs := []*document.Document{
		{Path: "notes/x.md", Name: "Garden Diary"},
		{Path: "notes/garden.md", Name: "Other"},
	}
	out, err := filter.Filter(docs, filter.Criteria{Query: "garden", Range: filter.FullRange})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/x.md"}, document.Paths(out))
}

func TestFilter_ClustersAndRange(t *testing.T) {
	docs := sampleDocs()

	out, err := filter.Filter(docs, filter.Criteria{
		Clusters: []document.PrimaryCluster{document.ClusterTechnical, document.ClusterGeneral},
		Range:    filter.FullRange,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, document.Paths(out))

	out, err = filter.Filter(docs, filter.Criteria{Range: filter.Range{Min: 0.4, Max: 0.4}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, document.Paths(out))

	out, err = filter.Filter(docs, filter.Criteria{Query: "system", Range: filter.Range{Min: 0.5, Max: 1}})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFilter_InvalidRange(t *testing.T) {
	_, err := filter.Filter(sampleDocs(), filter.Criteria{Range: filter.Range{Min: 0.8, Max: 0.2}})
	assert.ErrorIs(t, err, document.ErrInvalidRange)
}

func TestSuggestions(t *testing.T) {
	docs := sampleDocs()

	assert.Equal(t, []string{"human"}, filter.Suggestions(docs, "hu"))
	assert.Equal(t, []string{"human"}, filter.Suggestions(docs, "HU"))
	assert.Equal(t, []string{"thinking"}, filter.Suggestions(docs, "in"))
	assert.Equal(t, []string{"design"}, filter.Suggestions(docs, "es"))
	assert.Empty(t, filter.Suggestions(docs, "h"))
	assert.Empty(t, filter.Suggestions(docs, ""))
	assert.Empty(t, filter.Suggestions(docs, "zz"))
}

func TestSuggestions_DistinctAndBounded(t *testing.T) {
	var docs []*document.Document
	for i := 0; i < 6; i++ {
		docs = append(docs, &document.Document{
			Path:     fmt.Sprintf("d%d", i),
			Concepts: []string{"topic", fmt.Sprintf("topic%d", i), fmt.Sprintf("subtopic%d", i)},
		})
	}

	s := filter.Suggestions(docs, "topic")
	require.Len(t, s, filter.MaxSuggestions)
	assert.Equal(t, []string{"topic", "topic0", "subtopic0", "topic1", "subtopic1", "topic2", "subtopic2", "topic3"}, s)
}
