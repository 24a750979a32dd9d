package boundcheck

import (
	"github.com/sunholo/boundsafe/internal/absint"
	"github.com/sunholo/boundsafe/internal/boundenv"
	"github.com/sunholo/boundsafe/internal/reporter"
	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/stripped"
	"github.com/sunholo/boundsafe/internal/surfacetypes"
)

// arrayElemType unwraps any Observed wrapper and returns the element type
// of an array-constructor application, or (nil, false) if t isn't one.
func (c *Checker) arrayElemType(t surfacetypes.Type) (surfacetypes.Type, bool) {
	app, ok := t.(surfacetypes.TApply)
	if !ok {
		return nil, false
	}
	if app.Ctor == c.Names.Observed && len(app.Args) == 1 {
		return c.arrayElemType(app.Args[0])
	}
	if app.Ctor == c.Names.Array && len(app.Args) == 1 {
		return app.Args[0], true
	}
	return nil, false
}

// checkPrimArray enforces aget/aset/aswap's precondition that the array
// operand's element type is primitive (spec §4.2, expected_prim_array).
func (c *Checker) checkPrimArray(arr stripped.Expr, pos srcpos.Pos) {
	elem, ok := c.arrayElemType(arr.GetType())
	if !ok || !surfacetypes.IsPrimitive(elem) {
		reporter.Emit(c.Reporter, reporter.KindExpectedPrimArray, pos)
	}
}

// checkBound is the bound-check algorithm (spec §4.2, "Bound check"):
// given an array operand and an index operand, both already reduced to
// abstract values, it reports the appropriate error, if any.
func (c *Checker) checkBound(pos srcpos.Pos, env *boundenv.BoundEnv, arrSym, idxSym absint.Sym) {
	t := absint.Eval(env.Value, arrSym)
	i := absint.Eval(env.Value, idxSym)

	arr, ok := t.(absint.Array)
	if !ok {
		reporter.Emit(c.Reporter, reporter.KindBoundLow, pos)
		return
	}

	switch iv := i.(type) {
	case absint.Const:
		switch {
		case iv.N < 0:
			reporter.Emit(c.Reporter, reporter.KindBoundNeg, pos)
		case iv.N >= arr.N:
			if witness, ok := arr.Positions.Any(); ok {
				reporter.EmitWithWitness(c.Reporter, reporter.KindBoundUp, pos, witness)
			} else {
				reporter.Emit(c.Reporter, reporter.KindBoundUp, pos)
			}
		}
	case absint.Int:
		if !iv.NonNeg {
			reporter.Emit(c.Reporter, reporter.KindBoundLow, pos)
			return
		}
		missing := arr.Positions.Minus(iv.Good)
		if witness, ok := missing.Any(); ok {
			reporter.EmitWithWitness(c.Reporter, reporter.KindBoundUp, pos, witness)
		}
	default:
		reporter.Emit(c.Reporter, reporter.KindBoundLow, pos)
	}
}
