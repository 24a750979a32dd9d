package boundenv

import "github.com/sunholo/boundsafe/internal/absint"

// RefineTrue narrows env along a condition known to have evaluated true
// (spec §4.2, Eif's then-branch and assert's outgoing environment).
func RefineTrue(env *ValueEnv, cond absint.Sym) *ValueEnv {
	switch c := cond.(type) {
	case absint.SymAnd:
		return RefineTrue(RefineTrue(env, c.A), c.B)
	case absint.SymNot:
		return RefineFalse(env, c.A)
	case absint.SymLte:
		return refineLte(env, c.A, c.B)
	case absint.SymGte:
		// Gte(x, y) is Lte(y, x) with the roles swapped.
		return refineLte(env, c.B, c.A)
	case absint.SymLt:
		return refineLt(env, c.A, c.B)
	case absint.SymGt:
		return refineGt(env, c.A, c.B)
	default:
		return env
	}
}

// RefineFalse is RefineTrue's dual: Or distributes, Not inverts, and each
// comparison swaps to its negation before delegating.
func RefineFalse(env *ValueEnv, cond absint.Sym) *ValueEnv {
	switch c := cond.(type) {
	case absint.SymOr:
		return RefineFalse(RefineFalse(env, c.A), c.B)
	case absint.SymNot:
		return RefineTrue(env, c.A)
	case absint.SymLte:
		return RefineTrue(env, absint.MkGt(c.A, c.B))
	case absint.SymGte:
		return RefineTrue(env, absint.MkLt(c.A, c.B))
	case absint.SymLt:
		return RefineTrue(env, absint.MkGte(c.A, c.B))
	case absint.SymGt:
		return RefineTrue(env, absint.MkLte(c.A, c.B))
	default:
		return env
	}
}

// refineLte handles Lte(lesser, greater): lesser <= greater.
//
//  1. If lesser is an Id, it inherits greater's good and bad sets
//     directly (lesser <= greater < len(p) still gives lesser < len(p);
//     lesser <= greater <= len(p) gives lesser <= len(p)), then bad is
//     renormalized to stay disjoint from good.
//  2. Symmetrically, if greater is an Id, it inherits lesser's
//     non-negativity (lesser >= 0 and greater >= lesser implies
//     greater >= 0) — this is the "symmetrically refine y >= x" half of
//     the Lte rule, and doubles as the whole of the Gte rule's "raise
//     x's nonneg" clause when called with roles swapped.
//
// Either operand may currently be Undef (a plain integer parameter
// starts with no information at all) — absint.ToInt floors it to
// Int(false, ∅, ∅) first, so a never-yet-refined variable can still pick
// up what this comparison establishes.
func refineLte(env *ValueEnv, lesser, greater absint.Sym) *ValueEnv {
	if id, ok := lesser.(absint.SymId); ok {
		li := absint.ToInt(absint.Eval(env, lesser))
		gi := absint.ToInt(absint.Eval(env, greater))
		merged := absint.NewInt(li.NonNeg, li.Good.Union(gi.Good), li.Bad.Union(gi.Bad))
		env = env.Rebind(id.Name, absint.SymValue{V: merged})
	}
	if id, ok := greater.(absint.SymId); ok {
		if isNonNeg(absint.Eval(env, lesser)) {
			gi := absint.ToInt(absint.Eval(env, greater))
			if !gi.NonNeg {
				env = env.Rebind(id.Name, absint.SymValue{V: absint.NewInt(true, gi.Good, gi.Bad)})
			}
		}
	}
	return env
}

// refineLt handles Lt(x, y): x < y. Both y's good and bad sets transfer
// into x's good (x < y < len(p) or x < y <= len(p) both give x < len(p)
// strictly); x's bad is cleared per spec §4.2.
func refineLt(env *ValueEnv, x, y absint.Sym) *ValueEnv {
	id, ok := x.(absint.SymId)
	if !ok {
		return env
	}
	xi := absint.ToInt(absint.Eval(env, x))
	yi := absint.ToInt(absint.Eval(env, y))
	merged := absint.NewInt(xi.NonNeg, xi.Good.Union(yi.Good).Union(yi.Bad), nil)
	return env.Rebind(id.Name, absint.SymValue{V: merged})
}

// refineGt handles Gt(x, y): x > y. x is known non-negative when y is
// known to be at least -1 (x > y >= -1 implies x >= 0).
func refineGt(env *ValueEnv, x, y absint.Sym) *ValueEnv {
	id, ok := x.(absint.SymId)
	if !ok {
		return env
	}
	if !isAtLeastNegOne(absint.Eval(env, y)) {
		return env
	}
	xi := absint.ToInt(absint.Eval(env, x))
	return env.Rebind(id.Name, absint.SymValue{V: absint.NewInt(true, xi.Good, xi.Bad)})
}

func isNonNeg(v absint.Value) bool {
	switch vv := v.(type) {
	case absint.Const:
		return vv.N >= 0
	case absint.Int:
		return vv.NonNeg
	default:
		return false
	}
}

func isAtLeastNegOne(v absint.Value) bool {
	switch vv := v.(type) {
	case absint.Const:
		return vv.N >= -1
	case absint.Int:
		return vv.NonNeg
	default:
		return false
	}
}
