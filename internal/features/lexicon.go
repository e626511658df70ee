package features

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicons holds the word lists that drive the frequency heuristics.
// Boosts is consumed by the vector builder, not the extractor.
type Lexicons struct {
	Abstract      []string           `yaml:"abstract"`
	Positive      []string           `yaml:"positive"`
	Contemplative []string           `yaml:"contemplative"`
	Technical     []string           `yaml:"technical"`
	Negative      []string           `yaml:"negative"`
	Boosts        map[string]float64 `yaml:"boosts"`
}

// DefaultLexicons returns a fresh copy of the built-in word lists.
func DefaultLexicons() Lexicons {
	return Lexicons{
		Abstract: []string{"system", "complexity", "understanding", "philosophy", "abstraction"},
		Positive: []string{
			"good", "great", "excellent", "amazing", "wonderful", "beautiful",
			"success", "love", "happy", "hope", "joy", "elegant",
		},
		Contemplative: []string{
			"think", "thinking", "reflect", "reflection", "consider", "wonder",
			"perhaps", "meaning", "question", "understanding", "philosophy", "contemplate",
		},
		Technical: []string{
			"system", "function", "algorithm", "data", "code", "implementation",
			"interface", "architecture", "api", "protocol", "server", "database",
		},
		Negative: []string{
			"bad", "poor", "problem", "fail", "failure", "wrong",
			"broken", "difficult", "issue", "error", "terrible", "worse",
		},
		Boosts: map[string]float64{
			"complexity":    1.5,
			"technology":    1.4,
			"simple":        1.4,
			"understanding": 1.4,
			"thinking":      1.3,
			"system":        1.3,
			"question":      1.3,
			"interface":     1.3,
			"human":         1.2,
			"design":        1.2,
		},
	}
}

// LoadLexicons reads a YAML document and merges it into the defaults.
// Lists are extended, boosts are overridden per key.
func LoadLexicons(r io.Reader) (Lexicons, error) {
	var overlay Lexicons
	if err := yaml.NewDecoder(r).Decode(&overlay); err != nil && err != io.EOF {
		return Lexicons{}, fmt.Errorf("failed to decode lexicons: %w", err)
	}
	lex := DefaultLexicons()
	lex.Merge(overlay)
	return lex, nil
}

// LoadLexiconFile is LoadLexicons over a file path. An empty path yields
// the defaults.
func LoadLexiconFile(path string) (Lexicons, error) {
	if path == "" {
		return DefaultLexicons(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Lexicons{}, fmt.Errorf("failed to open lexicon file: %w", err)
	}
	defer f.Close()
	return LoadLexicons(f)
}

// Merge extends l with the entries of other.
func (l *Lexicons) Merge(other Lexicons) {
	l.Abstract = appendWords(l.Abstract, other.Abstract)
	l.Positive = appendWords(l.Positive, other.Positive)
	l.Contemplative = appendWords(l.Contemplative, other.Contemplative)
	l.Technical = appendWords(l.Technical, other.Technical)
	l.Negative = appendWords(l.Negative, other.Negative)
	if l.Boosts == nil {
		l.Boosts = make(map[string]float64, len(other.Boosts))
	}
	for k, v := range other.Boosts {
		if v > 0 {
			l.Boosts[strings.ToLower(k)] = v
		}
	}
}

func appendWords(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, w := range dst {
		seen[w] = true
	}
	for _, w := range src {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		dst = append(dst, w)
	}
	return dst
}

type wordSet map[string]struct{}

func newWordSet(words []string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}
