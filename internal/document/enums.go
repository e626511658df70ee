package document

// Tone is the dominant register of a document.
type Tone string

const (
	ToneTechnical     Tone = "technical"
	ToneContemplative Tone = "contemplative"
	TonePositive      Tone = "positive"
	ToneCritical      Tone = "critical"
	ToneNeutral       Tone = "neutral"
)

// AllTones lists every tone in precedence order.
func AllTones() []Tone {
	return []Tone{ToneTechnical, ToneContemplative, TonePositive, ToneCritical, ToneNeutral}
}

// Valid reports whether t is a known tone.
func (t Tone) Valid() bool {
	switch t {
	case ToneTechnical, ToneContemplative, TonePositive, ToneCritical, ToneNeutral:
		return true
	}
	return false
}

// Structure describes the layout of a document.
type Structure string

const (
	StructureSectioned  Structure = "sectioned"
	StructureEnumerated Structure = "enumerated"
	StructureListed     Structure = "listed"
	StructureNarrative  Structure = "narrative"
	StructureSimple     Structure = "simple"
)

// AllStructures lists every structure in rule order.
func AllStructures() []Structure {
	return []Structure{StructureSectioned, StructureEnumerated, StructureListed, StructureNarrative, StructureSimple}
}

// Valid reports whether s is a known structure.
func (s Structure) Valid() bool {
	switch s {
	case StructureSectioned, StructureEnumerated, StructureListed, StructureNarrative, StructureSimple:
		return true
	}
	return false
}

// PrimaryCluster is the coarse topical label of a document.
type PrimaryCluster string

const (
	ClusterTechnology PrimaryCluster = "technology"
	ClusterComplexity PrimaryCluster = "complexity"
	ClusterPhilosophy PrimaryCluster = "philosophy"
	ClusterHumanity   PrimaryCluster = "humanity"
	ClusterTechnical  PrimaryCluster = "technical"
	ClusterGeneral    PrimaryCluster = "general"
)

// AllPrimaryClusters lists every primary cluster in rule order.
func AllPrimaryClusters() []PrimaryCluster {
	return []PrimaryCluster{ClusterTechnology, ClusterComplexity, ClusterPhilosophy, ClusterHumanity, ClusterTechnical, ClusterGeneral}
}

// ParsePrimaryCluster converts s into a PrimaryCluster.
func ParsePrimaryCluster(s string) (PrimaryCluster, error) {
	c := PrimaryCluster(s)
	if !c.Valid() {
		return "", invalidf("unknown primary cluster %q", s)
	}
	return c, nil
}

// Valid reports whether c is a known primary cluster.
func (c PrimaryCluster) Valid() bool {
	switch c {
	case ClusterTechnology, ClusterComplexity, ClusterPhilosophy, ClusterHumanity, ClusterTechnical, ClusterGeneral:
		return true
	}
	return false
}
