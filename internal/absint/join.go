package absint

// Unify is the lattice's join: the least upper bound of a and b.
func Unify(a, b Value) Value {
	a = liftConst(a)
	b = liftConst(b)

	if ai, ok := a.(Int); ok {
		if bi, ok := b.(Int); ok {
			return NewInt(ai.NonNeg && bi.NonNeg, ai.Good.Intersect(bi.Good), ai.Bad.Intersect(bi.Bad))
		}
	}
	if as, ok := a.(Sum); ok {
		if bs, ok := b.(Sum); ok {
			return unifySum(as, bs)
		}
	}
	if ar, ok := a.(Rec); ok {
		if br, ok := b.(Rec); ok {
			return unifyRec(ar, br)
		}
	}
	if aa, ok := a.(Array); ok {
		if ba, ok := b.(Array); ok {
			return Array{Positions: aa.Positions.Union(ba.Positions), N: minInt64(aa.N, ba.N)}
		}
	}
	return Undef{}
}

// liftConst lifts a Const to the Int it trivially satisfies, before
// joining — spec §4.2, "Const n is lifted to Int(n≥0, ∅, ∅) before
// joining".
func liftConst(v Value) Value {
	if c, ok := v.(Const); ok {
		return NewInt(c.N >= 0, nil, nil)
	}
	return v
}

func unifySum(a, b Sum) Value {
	out := make(map[string][]Value, len(a.Tags)+len(b.Tags))
	for tag, av := range a.Tags {
		if bv, ok := b.Tags[tag]; ok {
			out[tag] = UnifyList(av, bv)
		} else {
			out[tag] = av
		}
	}
	for tag, bv := range b.Tags {
		if _, ok := a.Tags[tag]; !ok {
			out[tag] = bv
		}
	}
	return Sum{Tags: out}
}

func unifyRec(a, b Rec) Value {
	out := make(map[string][]Value, len(a.Fields)+len(b.Fields))
	for field, av := range a.Fields {
		if bv, ok := b.Fields[field]; ok {
			out[field] = UnifyList(av, bv)
		} else {
			out[field] = av
		}
	}
	for field, bv := range b.Fields {
		if _, ok := a.Fields[field]; !ok {
			out[field] = bv
		}
	}
	return Rec{Fields: out}
}

// UnifyList joins two result lists pointwise. Tuples are first-class, so
// every expression's result is a list; a length mismatch is an internal
// invariant breach (spec §4.2 "Failure semantics" — an assert-false of
// the analysis's own invariants) and is not a soundness condition this
// package is asked to recover from.
func UnifyList(a, b []Value) []Value {
	if len(a) != len(b) {
		panic("absint: UnifyList arity mismatch — producer invariant violated")
	}
	out := make([]Value, len(a))
	for i := range a {
		out[i] = Unify(a[i], b[i])
	}
	return out
}

// ToInt coerces any value to its Int floor: an Int is returned unchanged,
// a Const lifts exactly as in Unify, and anything else — including
// Undef — floors to Int(false, ∅, ∅), the least-informative integer.
// Refinement uses this to narrow whatever binding a comparison's
// operand currently carries, even before anything is known about it.
func ToInt(v Value) Int {
	switch vv := v.(type) {
	case Int:
		return vv
	case Const:
		return NewInt(vv.N >= 0, nil, nil)
	default:
		return NewInt(false, nil, nil)
	}
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
