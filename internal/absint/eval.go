package absint

import "math"

// Resolver is the minimal environment capability Eval needs: dereferencing
// a variable name through chains of Id bindings down to a concrete
// symbolic expression (spec §3, "Lookups that resolve through Id x must
// transitively re-evaluate"). boundenv.ValueEnv implements this.
type Resolver interface {
	Deref(name string) Sym
}

// Eval reduces a symbolic expression to an abstract value under env.
func Eval(env Resolver, s Sym) Value {
	switch e := s.(type) {
	case SymId:
		return Eval(env, env.Deref(e.Name))
	case SymValue:
		return e.V
	case SymPlus:
		return evalPlus(env, e)
	case SymMinus:
		return evalMinus(env, e)
	case SymMult:
		return evalMult(env, e)
	case SymDiv:
		return evalDiv(env, e)
	case SymLt, SymLte, SymGt, SymGte, SymAnd, SymOr, SymNot:
		// Comparisons and logical operators carry no value of their own —
		// they only take effect through refine_true/refine_false.
		return Undef{}
	default:
		return Undef{}
	}
}

// resolveSym follows a single level of Id indirection through env,
// leaving any other symbolic shape untouched. Used where a rule needs to
// inspect the *syntactic* shape of an operand (the Div averaging special
// case) rather than its reduced value.
func resolveSym(env Resolver, s Sym) Sym {
	if id, ok := s.(SymId); ok {
		return env.Deref(id.Name)
	}
	return s
}

// addSaturate adds two int64s, saturating to math.MaxInt64/MinInt64 on
// overflow instead of wrapping (spec §9 Design Notes).
func addSaturate(a, b int64) (int64, bool) {
	sum := a + b
	if b > 0 && sum < a {
		return math.MaxInt64, true
	}
	if b < 0 && sum > a {
		return math.MinInt64, true
	}
	return sum, false
}

func mulSaturate(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	p := a * b
	if p/b != a || (a == math.MinInt64 && b == -1) {
		if (a < 0) == (b < 0) {
			return math.MaxInt64, true
		}
		return math.MinInt64, true
	}
	return p, false
}

func evalPlus(env Resolver, e SymPlus) Value {
	a := Eval(env, e.A)
	b := Eval(env, e.B)
	return addValues(a, b)
}

func addValues(a, b Value) Value {
	if ac, ok := a.(Const); ok {
		if bc, ok := b.(Const); ok {
			sum, overflow := addSaturate(ac.N, bc.N)
			if overflow {
				return NewInt(sum >= 0, nil, nil)
			}
			return Const{N: sum}
		}
		if bi, ok := b.(Int); ok {
			return plusConstInt(ac.N, bi)
		}
	}
	if bc, ok := b.(Const); ok {
		if ai, ok := a.(Int); ok {
			return plusConstInt(bc.N, ai)
		}
	}
	if ai, ok := a.(Int); ok {
		if bi, ok := b.(Int); ok {
			return NewInt(ai.NonNeg && bi.NonNeg, nil, nil)
		}
	}
	return Undef{}
}

// plusConstInt implements spec §4.2's Plus rule for a constant added to
// an Int: the sign survives only when both operand and constant are
// known non-negative. A non-negative shift clears both position sets; a
// negative shift keeps every position of good and bad, all of them
// moved into bad.
func plusConstInt(n int64, iv Int) Int {
	nonNeg := iv.NonNeg && n >= 0
	if n >= 0 {
		return NewInt(nonNeg, nil, nil)
	}
	return NewInt(nonNeg, nil, iv.Good.Union(iv.Bad))
}

func evalMinus(env Resolver, e SymMinus) Value {
	b := Eval(env, e.B)
	bc, ok := b.(Const)
	if !ok {
		return Undef{}
	}
	neg := -bc.N
	if bc.N == math.MinInt64 {
		// -MinInt64 overflows int64; saturate to MaxInt64.
		neg = math.MaxInt64
	}
	a := Eval(env, e.A)
	return addValues(a, Const{N: neg})
}

func evalMult(env Resolver, e SymMult) Value {
	a := Eval(env, e.A)
	b := Eval(env, e.B)
	if ac, ok := a.(Const); ok {
		if bc, ok := b.(Const); ok {
			p, overflow := mulSaturate(ac.N, bc.N)
			if overflow {
				return NewInt(p >= 0, nil, nil)
			}
			return Const{N: p}
		}
		if bi, ok := b.(Int); ok {
			return NewInt(bi.NonNeg && ac.N >= 0, nil, nil)
		}
	}
	if bc, ok := b.(Const); ok {
		if ai, ok := a.(Int); ok {
			return NewInt(ai.NonNeg && bc.N >= 0, nil, nil)
		}
	}
	return Undef{}
}

func evalDiv(env Resolver, e SymDiv) Value {
	// Special rule: Div(Plus(x, y), Const n) with n >= 2, when both x and
	// y evaluate to Ints, averages two indices each strictly below a set
	// of lengths into a value strictly below the intersection of those
	// lengths.
	if plus, ok := resolveSym(env, e.A).(SymPlus); ok {
		if val, ok := resolveSym(env, e.B).(SymValue); ok {
			if c, ok := val.V.(Const); ok && c.N >= 2 {
				xv := Eval(env, plus.A)
				yv := Eval(env, plus.B)
				if xi, ok := xv.(Int); ok {
					if yi, ok := yv.(Int); ok {
						return NewInt(xi.NonNeg && yi.NonNeg, xi.Good.Intersect(yi.Good), nil)
					}
				}
			}
		}
	}

	a := Eval(env, e.A)
	b := Eval(env, e.B)
	bc, ok := b.(Const)
	if !ok {
		return Undef{}
	}
	if bc.N == 0 {
		return Undef{}
	}
	if ac, ok := a.(Const); ok {
		return Const{N: ac.N / bc.N}
	}
	if ai, ok := a.(Int); ok && bc.N > 0 {
		return NewInt(ai.NonNeg, ai.Good.Union(ai.Bad), nil)
	}
	return Undef{}
}
