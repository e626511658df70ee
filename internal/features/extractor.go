// Package features derives concepts, complexity, tone and structure from
// raw document text using frequency heuristics.
package features

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/knowledge-engine/explorer/internal/document"
)

const (
	// MaxConcepts bounds the concept list of a document.
	MaxConcepts = 10

	minConceptLength = 4
	minConceptCount  = 2
)

var (
	sentenceSplit  = regexp.MustCompile(`[.!?]+`)
	headingPattern = regexp.MustCompile(`(?m)^\s*#{1,6}\s+\S`)
	numberedList   = regexp.MustCompile(`(?m)^\s*\d+\.\s`)
	bulletList     = regexp.MustCompile(`(?m)^\s*[-*]\s`)
	paragraphSplit = regexp.MustCompile(`\n[ \t\r]*\n`)
)

// Features is everything the extractor derives from one text.
type Features struct {
	Concepts       []string
	Complexity     float64
	Tone           document.Tone
	Structure      document.Structure
	WordCount      int
	PrimaryCluster document.PrimaryCluster
}

// Extractor runs the heuristics against a fixed set of lexicons.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	abstract      wordSet
	positive      wordSet
	contemplative wordSet
	technical     wordSet
	negative      wordSet
}

// NewExtractor builds an extractor from lex.
func NewExtractor(lex Lexicons) *Extractor {
	return &Extractor{
		abstract:      newWordSet(lex.Abstract),
		positive:      newWordSet(lex.Positive),
		contemplative: newWordSet(lex.Contemplative),
		technical:     newWordSet(lex.Technical),
		negative:      newWordSet(lex.Negative),
	}
}

// Extract runs every heuristic over text.
func (e *Extractor) Extract(text string) Features {
	concepts := ExtractConcepts(text)
	tone := e.Tone(text)
	return Features{
		Concepts:       concepts,
		Complexity:     e.Complexity(text),
		Tone:           tone,
		Structure:      Structure(text),
		WordCount:      len(strings.Fields(text)),
		PrimaryCluster: Classify(concepts, tone),
	}
}

// Tokenize lowercases text and splits it on every run of characters that
// are neither letters, digits nor hyphens.
func Tokenize(text string) []string {
	f := func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c) && c != '-'
	}
	return strings.FieldsFunc(strings.ToLower(text), f)
}

// ExtractConcepts returns up to MaxConcepts tokens that occur at least
// twice, most frequent first. Equal counts keep first-occurrence order.
func ExtractConcepts(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, token := range Tokenize(text) {
		if utf8.RuneCountInString(token) < minConceptLength {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	concepts := make([]string, 0, len(order))
	for _, token := range order {
		if counts[token] >= minConceptCount {
			concepts = append(concepts, token)
		}
	}
	sort.SliceStable(concepts, func(i, j int) bool {
		return counts[concepts[i]] > counts[concepts[j]]
	})

	if len(concepts) > MaxConcepts {
		concepts = concepts[:MaxConcepts]
	}
	return concepts
}

// Complexity scores text in [0,1] from sentence length, lexical diversity
// and the density of abstract vocabulary.
func (e *Extractor) Complexity(text string) float64 {
	sentences := 0
	for _, fragment := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(fragment) != "" {
			sentences++
		}
	}

	words := strings.Fields(text)
	unique := make(map[string]struct{}, len(words))
	abstractCount := 0
	for _, w := range words {
		lower := strings.ToLower(w)
		unique[lower] = struct{}{}
		if e.abstract.has(normalizeWord(lower)) {
			abstractCount++
		}
	}

	var avgSentenceLength, lexicalDiversity float64
	if sentences > 0 {
		avgSentenceLength = float64(len(words)) / float64(sentences)
	}
	if len(words) > 0 {
		lexicalDiversity = float64(len(unique)) / float64(len(words))
	}

	score := 0.3*math.Min(1, avgSentenceLength/25) +
		0.4*lexicalDiversity +
		0.3*math.Min(1, float64(abstractCount)/10)
	return math.Max(0, math.Min(1, score))
}

// Tone picks the dominant register of text. Technical vocabulary wins
// only when it strictly outnumbers every other lexicon.
func (e *Extractor) Tone(text string) document.Tone {
	var positive, contemplative, technical, negative int
	for _, w := range strings.Fields(text) {
		w = normalizeWord(strings.ToLower(w))
		if e.positive.has(w) {
			positive++
		}
		if e.contemplative.has(w) {
			contemplative++
		}
		if e.technical.has(w) {
			technical++
		}
		if e.negative.has(w) {
			negative++
		}
	}

	switch {
	case technical > max(positive, contemplative, negative):
		return document.ToneTechnical
	case contemplative > max(positive, negative):
		return document.ToneContemplative
	case positive > negative:
		return document.TonePositive
	case negative > positive:
		return document.ToneCritical
	default:
		return document.ToneNeutral
	}
}

// Structure classifies the layout of text; the first matching rule wins.
func Structure(text string) document.Structure {
	switch {
	case headingPattern.MatchString(text):
		return document.StructureSectioned
	case numberedList.MatchString(text):
		return document.StructureEnumerated
	case bulletList.MatchString(text):
		return document.StructureListed
	case countParagraphs(text) > 4:
		return document.StructureNarrative
	default:
		return document.StructureSimple
	}
}

// Classify assigns the primary cluster from concepts and tone.
func Classify(concepts []string, tone document.Tone) document.PrimaryCluster {
	set := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		if strings.Contains(c, "technology") {
			return document.ClusterTechnology
		}
		set[c] = true
	}

	switch {
	case set["complexity"] || set["simple"]:
		return document.ClusterComplexity
	case set["thinking"] || set["philosophy"]:
		return document.ClusterPhilosophy
	case set["human"]:
		return document.ClusterHumanity
	case tone == document.ToneTechnical:
		return document.ClusterTechnical
	default:
		return document.ClusterGeneral
	}
}

func countParagraphs(text string) int {
	n := 0
	for _, p := range paragraphSplit.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// normalizeWord strips leading and trailing punctuation so that
// "system." still matches the lexicon entry "system".
func normalizeWord(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
