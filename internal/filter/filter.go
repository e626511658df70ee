// Package filter narrows an enhanced document set by text, primary
// cluster and complexity, and keeps interactive filter sessions.
package filter

import (
	"fmt"
	"strings"

	"github.com/knowledge-engine/explorer/internal/document"
)

// MaxSuggestions bounds the concepts returned by Suggestions.
const MaxSuggestions = 8

const minSuggestionQuery = 2

// Range is an inclusive complexity range.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FullRange admits every document.
var FullRange = Range{Min: 0, Max: 1}

// Validate fails when the bounds are out of order.
func (r Range) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %.2f > max %.2f", document.ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Contains reports whether c lies within the range.
func (r Range) Contains(c float64) bool {
	return c >= r.Min && c <= r.Max
}

// Criteria is the full filter state.
type Criteria struct {
	Query    string
	Clusters []document.PrimaryCluster
	Range    Range
}

// DefaultCriteria matches every document.
func DefaultCriteria() Criteria {
	return Criteria{Range: FullRange}
}

func (c Criteria) clone() Criteria {
	c.Clusters = append([]document.PrimaryCluster(nil), c.Clusters...)
	return c
}

// Filter applies the text query, then the cluster selection, then the
// complexity range. The input slice is not modified.
func Filter(docs []*document.Document, c Criteria) ([]*document.Document, error) {
	if err := c.Range.Validate(); err != nil {
		return nil, err
	}

	query := strings.ToLower(c.Query)
	selected := make(map[document.PrimaryCluster]bool, len(c.Clusters))
	for _, pc := range c.Clusters {
		selected[pc] = true
	}

	out := make([]*document.Document, 0, len(docs))
	for _, d := range docs {
		if query != "" && !strings.Contains(haystack(d), query) {
			continue
		}
		if len(selected) > 0 && !selected[d.PrimaryCluster] {
			continue
		}
		if !c.Range.Contains(d.Complexity) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func haystack(d *document.Document) string {
	return strings.ToLower(d.Label() + " " + strings.Join(d.Concepts, " "))
}

// Suggestions returns up to MaxSuggestions distinct concepts containing
// query, in the order they are first met. Queries shorter than two
// characters yield nothing.
func Suggestions(docs []*document.Document, query string) []string {
	if len([]rune(query)) < minSuggestionQuery {
		return nil
	}
	query = strings.ToLower(query)

	seen := make(map[string]bool)
	var out []string
	for _, d := range docs {
		for _, c := range d.Concepts {
			if seen[c] || !strings.Contains(c, query) {
				continue
			}
			seen[c] = true
			out = append(out, c)
			if len(out) == MaxSuggestions {
				return out
			}
		}
	}
	return out
}
