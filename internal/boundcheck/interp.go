package boundcheck

import (
	"github.com/sunholo/boundsafe/internal/absint"
	"github.com/sunholo/boundsafe/internal/boundenv"
	"github.com/sunholo/boundsafe/internal/stripped"
)

// interpExpr is the bound checker's expression interpreter (spec §4.2,
// "Expression interpretation"). It returns the environment as refined by
// the expression's own effects (assert, let, amake) and the expression's
// result list — a list because tuples are first-class.
func (c *Checker) interpExpr(e stripped.Expr, env *boundenv.BoundEnv) (*boundenv.BoundEnv, []absint.Sym) {
	switch ex := e.(type) {
	case *stripped.Eid:
		if def, ok := env.Privates[ex.Name]; ok {
			c.defPublic(def, env)
			return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}
		}
		return env, []absint.Sym{absint.SymId{Name: ex.Name}}

	case *stripped.Evalue:
		return env, []absint.Sym{absint.SymValue{V: absint.Const{N: ex.N}}}

	case *stripped.Evariant:
		var values []absint.Value
		for _, sub := range ex.Payload {
			var syms []absint.Sym
			env, syms = c.interpExpr(sub, env)
			for _, s := range syms {
				values = append(values, absint.Eval(env.Value, s))
			}
		}
		return env, []absint.Sym{absint.SymValue{V: absint.Sum{Tags: map[string][]absint.Value{ex.Tag: values}}}}

	case *stripped.Erecord:
		fields := make(map[string][]absint.Value, len(ex.Order))
		for _, name := range ex.Order {
			var syms []absint.Sym
			env, syms = c.interpExpr(ex.Fields[name], env)
			fields[name] = evalSyms(env.Value, syms)
		}
		return env, []absint.Sym{absint.SymValue{V: absint.Rec{Fields: fields}}}

	case *stripped.Ewith:
		var baseSyms []absint.Sym
		env, baseSyms = c.interpExpr(ex.Base, env)
		merged := map[string][]absint.Value{}
		if len(baseSyms) > 0 {
			if rec, ok := absint.Eval(env.Value, baseSyms[0]).(absint.Rec); ok {
				for k, v := range rec.Fields {
					merged[k] = v
				}
			}
		}
		for _, name := range ex.Order {
			var syms []absint.Sym
			env, syms = c.interpExpr(ex.Fields[name], env)
			merged[name] = evalSyms(env.Value, syms)
		}
		return env, []absint.Sym{absint.SymValue{V: absint.Rec{Fields: merged}}}

	case *stripped.Efield:
		var syms []absint.Sym
		env, syms = c.interpExpr(ex.Record, env)
		if len(syms) > 0 {
			if rec, ok := absint.Eval(env.Value, syms[0]).(absint.Rec); ok {
				if vals, ok := rec.Fields[ex.Field]; ok {
					out := make([]absint.Sym, len(vals))
					for i, v := range vals {
						out[i] = absint.SymValue{V: v}
					}
					return env, out
				}
			}
		}
		return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}

	case *stripped.Ebinop:
		var lsyms, rsyms []absint.Sym
		env, lsyms = c.interpExpr(ex.Left, env)
		env, rsyms = c.interpExpr(ex.Right, env)
		return env, []absint.Sym{buildBinop(ex.Op, symOrUndef(lsyms), symOrUndef(rsyms))}

	case *stripped.Euop:
		var syms []absint.Sym
		env, syms = c.interpExpr(ex.Operand, env)
		v := symOrUndef(syms)
		switch ex.Op {
		case stripped.OpNeg:
			return env, []absint.Sym{absint.MkMinus(absint.SymValue{V: absint.Const{N: 0}}, v)}
		case stripped.OpNot:
			return env, []absint.Sym{absint.SymNot{A: v}}
		default:
			return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}
		}

	case *stripped.Elet:
		var syms []absint.Sym
		env, syms = c.interpExpr(ex.Value, env)
		v := bindPattern(ex.Pattern, syms, env.Value)
		env = env.WithValue(v)
		return c.interpExpr(ex.Body, env)

	case *stripped.Eif:
		var condSyms []absint.Sym
		env, condSyms = c.interpExpr(ex.Cond, env)
		cond := symOrUndef(condSyms)

		thenEnv := env.WithValue(boundenv.RefineTrue(env.Value, cond))
		elseEnv := env.WithValue(boundenv.RefineFalse(env.Value, cond))

		thenEnvFinal, thenResults := c.interpExpr(ex.Then, thenEnv)
		elseEnvFinal, elseResults := c.interpExpr(ex.Else, elseEnv)

		joined := absint.UnifyList(evalSyms(thenEnvFinal.Value, thenResults), evalSyms(elseEnvFinal.Value, elseResults))
		return env, valuesToSyms(joined)

	case *stripped.Ematch:
		var syms []absint.Sym
		env, syms = c.interpExpr(ex.Scrutinee, env)

		var joined []absint.Value
		for i, arm := range ex.Arms {
			armEnv := env.WithValue(bindPattern(arm.Pattern, syms, env.Value))
			armEnvFinal, armResults := c.interpExpr(arm.Body, armEnv)
			vals := evalSyms(armEnvFinal.Value, armResults)
			if i == 0 {
				joined = vals
			} else {
				joined = absint.UnifyList(joined, vals)
			}
		}
		return env, valuesToSyms(joined)

	case *stripped.Eseq:
		env, _ = c.interpExpr(ex.Left, env)
		return c.interpExpr(ex.Right, env)

	case *stripped.Eobs:
		return env, []absint.Sym{absint.SymId{Name: ex.Name}}

	case *stripped.Eapply:
		return c.interpApply(ex, env)

	default:
		return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}
	}
}

// symOrUndef returns the first symbolic result, or an Undef leaf if the
// producer yielded none.
func symOrUndef(syms []absint.Sym) absint.Sym {
	if len(syms) == 0 {
		return absint.SymValue{V: absint.Undef{}}
	}
	return syms[0]
}

// evalSyms reduces each symbolic result to a concrete abstract value
// under env.
func evalSyms(env absint.Resolver, syms []absint.Sym) []absint.Value {
	out := make([]absint.Value, len(syms))
	for i, s := range syms {
		out[i] = absint.Eval(env, s)
	}
	return out
}

// valuesToSyms wraps each value as a SymValue leaf.
func valuesToSyms(vs []absint.Value) []absint.Sym {
	out := make([]absint.Sym, len(vs))
	for i, v := range vs {
		out[i] = absint.SymValue{V: v}
	}
	return out
}

// buildBinop builds the symbolic node matching op (spec §4.2, "Ebinop,
// Euop: build the corresponding symbolic node").
func buildBinop(op stripped.BinOp, a, b absint.Sym) absint.Sym {
	switch op {
	case stripped.OpPlus:
		return absint.MkPlus(a, b)
	case stripped.OpMinus:
		return absint.MkMinus(a, b)
	case stripped.OpMult:
		return absint.MkMult(a, b)
	case stripped.OpDiv:
		return absint.MkDiv(a, b)
	case stripped.OpLt:
		return absint.MkLt(a, b)
	case stripped.OpLte:
		return absint.MkLte(a, b)
	case stripped.OpGt:
		return absint.MkGt(a, b)
	case stripped.OpGte:
		return absint.MkGte(a, b)
	case stripped.OpAnd:
		return absint.MkAnd(a, b)
	case stripped.OpOr:
		return absint.MkOr(a, b)
	default:
		return absint.SymValue{V: absint.Undef{}}
	}
}
