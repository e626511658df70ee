package cluster

import (
	"fmt"

	"github.com/knowledge-engine/explorer/internal/document"
)

// Method identifies a clustering strategy.
type Method string

const (
	MethodSemantic   Method = "semantic"
	MethodTemporal   Method = "temporal"
	MethodStructural Method = "structural"
	MethodComplexity Method = "complexity"
	MethodHybrid     Method = "hybrid"
	MethodAdaptive   Method = "adaptive"
)

// Methods lists every strategy, deterministic ones first.
func Methods() []Method {
	return append(DeterministicMethods(), MethodAdaptive)
}

// DeterministicMethods lists the strategies that are pure functions of
// their input. The order is also the adaptive selection order.
func DeterministicMethods() []Method {
	return []Method{MethodSemantic, MethodTemporal, MethodStructural, MethodComplexity, MethodHybrid}
}

// ParseMethod converts a name into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", document.ErrUnknownMethod, s)
	}
	return m, nil
}

// Valid reports whether m is one of the known strategies.
func (m Method) Valid() bool {
	switch m {
	case MethodSemantic, MethodTemporal, MethodStructural, MethodComplexity, MethodHybrid, MethodAdaptive:
		return true
	}
	return false
}

// Deterministic reports whether m always yields the same partition.
func (m Method) Deterministic() bool {
	return m.Valid() && m != MethodAdaptive
}
