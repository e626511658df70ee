// Package cluster partitions enhanced documents into alternative views
// and compares views with each other.
package cluster

import (
	"hash/fnv"
	"sort"

	"github.com/knowledge-engine/explorer/internal/document"
)

// DefaultSubdivideAbove is the cluster size above which hybrid and
// adaptive clustering split a cluster further.
const DefaultSubdivideAbove = 3

// Temporal bucket names.
const (
	BucketRecent      = "recent"
	BucketThisMonth   = "thisMonth"
	BucketThisQuarter = "thisQuarter"
	BucketOlder       = "older"
)

// Complexity bucket names.
const (
	LevelSimple   = "simple"
	LevelModerate = "moderate"
	LevelComplex  = "complex"
)

const simulatedAgeSpan = 365

// Map assigns documents to cluster ids. Documents are shared references.
type Map map[string][]*document.Document

// IDs returns the cluster ids in lexical order.
func (m Map) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Size returns the number of memberships across all clusters.
func (m Map) Size() int {
	n := 0
	for _, members := range m {
		n += len(members)
	}
	return n
}

// Strategy is a deterministic clustering function.
type Strategy func(docs []*document.Document) Map

// Semantic groups documents by primary cluster.
func Semantic(docs []*document.Document) Map {
	return groupBy(docs, func(d *document.Document) string {
		return string(d.PrimaryCluster)
	})
}

// Temporal buckets documents by a simulated age derived from the path.
// The corpus carries no timestamps, so the age is a stable stand-in.
func Temporal(docs []*document.Document) Map {
	return groupBy(docs, func(d *document.Document) string {
		age := SimulatedAge(d.Path)
		switch {
		case age < 7:
			return BucketRecent
		case age < 30:
			return BucketThisMonth
		case age < 90:
			return BucketThisQuarter
		default:
			return BucketOlder
		}
	})
}

// SimulatedAge returns a deterministic age in days for path.
func SimulatedAge(path string) int {
	h := fnv.New32a()
	h.Write([]byte(path))
	return int(h.Sum32() % simulatedAgeSpan)
}

// Structural groups documents by structure.
func Structural(docs []*document.Document) Map {
	return groupBy(docs, func(d *document.Document) string {
		return string(d.Structure)
	})
}

// ByComplexity buckets documents into simple, moderate and complex.
func ByComplexity(docs []*document.Document) Map {
	return groupBy(docs, func(d *document.Document) string {
		return ComplexityLevel(d.Complexity)
	})
}

// ComplexityLevel names the complexity bucket of c.
func ComplexityLevel(c float64) string {
	switch {
	case c < 0.3:
		return LevelSimple
	case c < 0.6:
		return LevelModerate
	default:
		return LevelComplex
	}
}

// Hybrid clusters semantically and splits every cluster larger than
// DefaultSubdivideAbove by complexity.
func Hybrid(docs []*document.Document) Map {
	return hybrid(docs, DefaultSubdivideAbove)
}

func hybrid(docs []*document.Document, above int) Map {
	base := Semantic(docs)
	out := make(Map, len(base))
	for id, members := range base {
		if len(members) <= above {
			out[id] = members
			continue
		}
		mergeSubclusters(out, id, ByComplexity(members))
	}
	return out
}

func mergeSubclusters(dst Map, parent string, sub Map) {
	for id, members := range sub {
		dst[parent+"-"+id] = members
	}
}

func groupBy(docs []*document.Document, key func(*document.Document) string) Map {
	m := make(Map)
	for _, d := range docs {
		k := key(d)
		m[k] = append(m[k], d)
	}
	return m
}
