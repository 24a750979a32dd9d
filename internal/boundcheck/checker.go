// Package boundcheck is the bound checker (spec §4.2): a whole-program,
// memoized, recursive abstract interpreter over a stripped module that
// proves every array access is within bounds.
package boundcheck

import (
	"github.com/sunholo/boundsafe/internal/absint"
	"github.com/sunholo/boundsafe/internal/boundenv"
	"github.com/sunholo/boundsafe/internal/registry"
	"github.com/sunholo/boundsafe/internal/reporter"
	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/stripped"
	"github.com/sunholo/boundsafe/internal/surfacetypes"
)

// Checker walks one stripped module at a time, reporting errors through
// its Reporter and using Names to recognize the array primitives and the
// observed/array type constructors by identity.
type Checker struct {
	Names    registry.Names
	Reporter reporter.Reporter
}

// New returns a Checker wired to the given name registry and reporter.
func New(names registry.Names, rep reporter.Reporter) *Checker {
	return &Checker{Names: names, Reporter: rep}
}

// AnalyzeModule is the driver (spec §4.2 "Driver"): it partitions the
// module's definitions into privates (expanded at each call site) and
// publics (each interpreted once, for effect, with a memo table shared
// for the whole module).
func (c *Checker) AnalyzeModule(mod *stripped.Module) {
	privateNames := map[string]bool{}
	for _, d := range mod.Decls {
		if d.Private {
			privateNames[d.Name] = true
		}
	}

	privates := map[string]*stripped.Def{}
	var publics []*stripped.Def
	for _, def := range mod.Defs {
		if privateNames[def.Name] {
			privates[def.Name] = def
		} else {
			publics = append(publics, def)
		}
	}

	env := boundenv.NewBoundEnv(privates)
	for _, def := range publics {
		c.defPublic(def, env)
	}
}

// defPublic is the public-definition entry point: arguments are
// converted to abstract values by typeToAbstract, bound to the pattern,
// and the body is interpreted purely for its bound-check side effects.
func (c *Checker) defPublic(def *stripped.Def, env *boundenv.BoundEnv) {
	v := env.Value
	for _, p := range def.Params {
		av := c.paramAbstractValue(p)
		v = bindPattern(p, []absint.Sym{absint.SymValue{V: av}}, v)
	}
	bodyEnv := env.WithValue(v)
	c.interpExpr(def.Body, bodyEnv)
}

// paramAbstractValue derives a parameter pattern's starting abstract
// value from its declared type via typeToAbstract. Patterns that don't
// carry a single declared type (tuples, variants, records) start Undef;
// their components still get bound per-field when the pattern destructures
// an Undef-valued aggregate, which is sound (Undef is top).
func (c *Checker) paramAbstractValue(p stripped.Pattern) absint.Value {
	if pv, ok := p.(*stripped.PVar); ok {
		return c.typeToAbstract(pv.Type, p.GetPos())
	}
	return absint.Undef{}
}

// typeToAbstract implements spec §4.2's type_to_abstract: an application
// of the observed constructor strips to its underlying type; an
// application of the array constructor becomes Array({p}, MaxInt); and
// everything else becomes Undef.
func (c *Checker) typeToAbstract(t surfacetypes.Type, pos srcpos.Pos) absint.Value {
	app, ok := t.(surfacetypes.TApply)
	if !ok {
		return absint.Undef{}
	}
	if app.Ctor == c.Names.Observed && len(app.Args) == 1 {
		return c.typeToAbstract(app.Args[0], pos)
	}
	if app.Ctor == c.Names.Array {
		return absint.Array{Positions: srcpos.NewSet(pos), N: absint.MaxInt}
	}
	return absint.Undef{}
}
