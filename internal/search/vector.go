package search

// Vector is a sparse concept -> weight mapping.
type Vector map[string]float64

// DefaultBoosts are the per-concept multipliers applied by the builder.
var DefaultBoosts = map[string]float64{
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
}

// VectorBuilder turns concept lists into weighted vectors
type VectorBuilder struct {
	Boosts map[string]float64
}

// NewVectorBuilder copies boosts; a nil map selects DefaultBoosts.
func NewVectorBuilder(boosts map[string]float64) *VectorBuilder {
	if boosts == nil {
		boosts = DefaultBoosts
	}
	b := &VectorBuilder{Boosts: make(map[string]float64, len(boosts))}
	for k, v := range boosts {
		if v > 0 {
			b.Boosts[k] = v
		}
	}
	return b
}

// Build weights every concept by its boost, defaulting to 1.0.
// Weights are left unnormalised; cosine similarity handles scale.
func (b *VectorBuilder) Build(concepts []string) Vector {
	v := make(Vector, len(concepts))
	for _, c := range concepts {
		weight, ok := b.Boosts[c]
		if !ok {
			weight = 1.0
		}
		v[c] = weight
	}
	return v
}
