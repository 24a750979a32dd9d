// Package registry is the name-registry collaborator: it designates the
// well-known identifiers the normalizer and bound checker must recognize
// by identity rather than by type-checking them.
package registry

// Names holds the well-known identifiers supplied by the naming stage.
// The analysis core never type-checks these — it recognizes them purely
// by identifier equality against the values collected here.
type Names struct {
	// Observed is the phantom "observed" type constructor — forbidden in
	// value position, and only allowed as the single outermost
	// application of a function argument's type.
	Observed string

	// Array is the array type constructor.
	Array string

	// Primitive function names recognized by the bound checker's
	// Eapply dispatch.
	Assert   string
	Amake    string
	Aget     string
	Aset     string
	Aswap    string
	Alength  string
}

// Default returns the conventional identifier spellings used by the
// naming stage that feeds this pass.
func Default() Names {
	return Names{
		Observed: "Observed",
		Array:    "array",
		Assert:   "assert",
		Amake:    "amake",
		Aget:     "aget",
		Aset:     "aset",
		Aswap:    "aswap",
		Alength:  "alength",
	}
}

// IsArrayPrimitive reports whether name is one of the five array
// primitives this pass special-cases in Eapply.
func (n Names) IsArrayPrimitive(name string) bool {
	switch name {
	case n.Amake, n.Aget, n.Aset, n.Aswap, n.Alength:
		return true
	default:
		return false
	}
}
