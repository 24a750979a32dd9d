package boundcheck

import (
	"github.com/sunholo/boundsafe/internal/absint"
	"github.com/sunholo/boundsafe/internal/boundenv"
	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/stripped"
)

// interpApply is Eapply's dispatch (spec §4.2): the five array
// primitives and assert are special-cased by identity via c.Names;
// everything else is a call to another definition in the module, or an
// external/public reference.
func (c *Checker) interpApply(ex *stripped.Eapply, env *boundenv.BoundEnv) (*boundenv.BoundEnv, []absint.Sym) {
	switch ex.Func {
	case c.Names.Assert:
		return c.applyAssert(ex, env)
	case c.Names.Amake:
		return c.applyAmake(ex, env)
	case c.Names.Alength:
		return c.applyAlength(ex, env)
	case c.Names.Aget:
		return c.applyAget(ex, env)
	case c.Names.Aset:
		return c.applyAset(ex, env)
	case c.Names.Aswap:
		return c.applyAswap(ex, env)
	default:
		return c.applyCall(ex, env)
	}
}

// applyAssert interprets the sole argument and refines the outgoing
// environment by refine_true.
func (c *Checker) applyAssert(ex *stripped.Eapply, env *boundenv.BoundEnv) (*boundenv.BoundEnv, []absint.Sym) {
	if len(ex.Args) != 1 {
		return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}
	}
	var syms []absint.Sym
	env, syms = c.interpExpr(ex.Args[0], env)
	env = env.WithValue(boundenv.RefineTrue(env.Value, symOrUndef(syms)))
	return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}
}

// applyAmake interprets both arguments, records a new array-creation
// record keyed by this call's position, and — when the size operand is
// itself a variable — widens its binding so that position joins its bad
// set (spec §4.2, amake).
func (c *Checker) applyAmake(ex *stripped.Eapply, env *boundenv.BoundEnv) (*boundenv.BoundEnv, []absint.Sym) {
	if len(ex.Args) != 2 {
		return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}
	}
	var initSyms, sizeSyms []absint.Sym
	env, initSyms = c.interpExpr(ex.Args[0], env)
	_ = initSyms
	env, sizeSyms = c.interpExpr(ex.Args[1], env)

	sizeSym := symOrUndef(sizeSyms)
	pos := ex.GetPos()
	sz := constSize(env.Value, sizeSym)

	env = env.PushArray(sz, srcpos.NewSet(pos))

	if id, ok := sizeSym.(absint.SymId); ok {
		var iv absint.Int
		if bound, ok := env.Value.Lookup(id.Name); ok {
			if existing, ok := absint.Eval(env.Value, bound).(absint.Int); ok {
				iv = existing
			}
		}
		iv = absint.NewInt(iv.NonNeg, iv.Good, iv.Bad.Union(srcpos.NewSet(pos)))
		env = env.WithValue(env.Value.Rebind(id.Name, absint.SymValue{V: iv}))
	}

	return env, []absint.Sym{absint.SymValue{V: absint.Array{Positions: srcpos.NewSet(pos), N: sz}}}
}

// constSize implements spec §4.2's const_size: Const n -> n, else MAX_INT.
func constSize(env absint.Resolver, s absint.Sym) int64 {
	if c, ok := absint.Eval(env, s).(absint.Const); ok {
		return c.N
	}
	return absint.MaxInt
}

// applyAlength yields Int(true, ∅, P) when the argument evaluates to an
// Array(P, _), else Undef.
func (c *Checker) applyAlength(ex *stripped.Eapply, env *boundenv.BoundEnv) (*boundenv.BoundEnv, []absint.Sym) {
	if len(ex.Args) != 1 {
		return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}
	}
	var syms []absint.Sym
	env, syms = c.interpExpr(ex.Args[0], env)
	if arr, ok := absint.Eval(env.Value, symOrUndef(syms)).(absint.Array); ok {
		return env, []absint.Sym{absint.SymValue{V: absint.NewInt(true, nil, arr.Positions)}}
	}
	return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}
}

// applyAget requires a primitive element type, checks the bound, and
// yields an Undef result (a read's value isn't modeled by this pass).
func (c *Checker) applyAget(ex *stripped.Eapply, env *boundenv.BoundEnv) (*boundenv.BoundEnv, []absint.Sym) {
	if len(ex.Args) != 2 {
		return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}
	}
	c.checkPrimArray(ex.Args[0], ex.GetPos())
	var arrSyms, idxSyms []absint.Sym
	env, arrSyms = c.interpExpr(ex.Args[0], env)
	env, idxSyms = c.interpExpr(ex.Args[1], env)
	c.checkBound(ex.GetPos(), env, symOrUndef(arrSyms), symOrUndef(idxSyms))
	return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}}
}

// applyAset and applyAswap share aget's bound check but return
// [Value(eval arr); Undef] — the array value flows back unchanged, and
// the old element is unmodeled.
func (c *Checker) applyAset(ex *stripped.Eapply, env *boundenv.BoundEnv) (*boundenv.BoundEnv, []absint.Sym) {
	return c.applyWrite(ex, env)
}

func (c *Checker) applyAswap(ex *stripped.Eapply, env *boundenv.BoundEnv) (*boundenv.BoundEnv, []absint.Sym) {
	return c.applyWrite(ex, env)
}

func (c *Checker) applyWrite(ex *stripped.Eapply, env *boundenv.BoundEnv) (*boundenv.BoundEnv, []absint.Sym) {
	if len(ex.Args) != 3 {
		return env, []absint.Sym{absint.SymValue{V: absint.Undef{}}, absint.SymValue{V: absint.Undef{}}}
	}
	c.checkPrimArray(ex.Args[0], ex.GetPos())
	var arrSyms, idxSyms []absint.Sym
	env, arrSyms = c.interpExpr(ex.Args[0], env)
	env, idxSyms = c.interpExpr(ex.Args[1], env)
	env, _ = c.interpExpr(ex.Args[2], env)

	arrSym := symOrUndef(arrSyms)
	c.checkBound(ex.GetPos(), env, arrSym, symOrUndef(idxSyms))
	arrVal := absint.Eval(env.Value, arrSym)
	return env, []absint.Sym{absint.SymValue{V: arrVal}, absint.SymValue{V: absint.Undef{}}}
}

// applyCall handles every Func that isn't a recognized primitive: a call
// to a private definition runs the memoization protocol (spec §4.2,
// "Memoization"); a call to a public or external definition yields Undef
// placeholders, one per declared result type.
func (c *Checker) applyCall(ex *stripped.Eapply, env *boundenv.BoundEnv) (*boundenv.BoundEnv, []absint.Sym) {
	def, isPrivate := env.Privates[ex.Func]
	if !isPrivate {
		return env, undefPlaceholders(ex)
	}

	args := make([]absint.Value, len(ex.Args))
	for i, a := range ex.Args {
		var syms []absint.Sym
		env, syms = c.interpExpr(a, env)
		v := absint.Eval(env.Value, symOrUndef(syms))
		if cst, ok := v.(absint.Const); ok {
			v = env.LiftConst(cst.N)
		}
		args[i] = v
	}

	if results, ok := env.Memo.Lookup(ex.Func, args); ok {
		return env, valuesToSyms(results)
	}

	n := len(ex.ResultTypes)
	if n == 0 {
		n = 1
	}
	env.Memo.Enter(ex.Func, args, n)

	v := env.Value
	for i, p := range def.Params {
		sym := absint.Sym(absint.SymValue{V: absint.Undef{}})
		if i < len(args) {
			sym = absint.SymValue{V: args[i]}
		}
		v = bindPattern(p, []absint.Sym{sym}, v)
	}
	calleeEnv := env.WithValue(v)
	calleeEnvFinal, bodyResults := c.interpExpr(def.Body, calleeEnv)
	results := evalSyms(calleeEnvFinal.Value, bodyResults)

	env.Memo.Settle(ex.Func, args, results)
	return env, valuesToSyms(results)
}

func undefPlaceholders(ex *stripped.Eapply) []absint.Sym {
	n := len(ex.ResultTypes)
	if n == 0 {
		n = 1
	}
	out := make([]absint.Sym, n)
	for i := range out {
		out[i] = absint.SymValue{V: absint.Undef{}}
	}
	return out
}
