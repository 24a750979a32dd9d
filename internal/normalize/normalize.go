// Package normalize is the normalizer (spec §4.1): it rewrites the
// naming-stage typed AST into a stripped typed AST, running the
// observability check and the polymorphic-argument check on every type
// expression it visits, and the termination check on every application.
//
// Since the stripped shape genuinely is the naming-stage shape with only
// its type expressions rewritten (internal/stripped re-exports
// internal/typedast by alias), normalization mutates type expressions in
// place and hands the same module value back as its stripped-typed
// counterpart.
package normalize

import (
	"github.com/sunholo/boundsafe/internal/boundenv"
	"github.com/sunholo/boundsafe/internal/registry"
	"github.com/sunholo/boundsafe/internal/reporter"
	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/stripped"
	"github.com/sunholo/boundsafe/internal/surfacetypes"
	"github.com/sunholo/boundsafe/internal/typedast"
)

// Normalizer runs the normalizer pass over one module at a time.
type Normalizer struct {
	Names    registry.Names
	Reporter reporter.Reporter
}

// New returns a Normalizer wired to the given name registry and reporter.
func New(names registry.Names, rep reporter.Reporter) *Normalizer {
	return &Normalizer{Names: names, Reporter: rep}
}

// NormalizeModule implements normalize_module (spec §4.1): it collects
// every top-level declaration's signature into a NormalizerEnv (spec §3,
// "Normalizer environment"), then rewrites every decl and every def with that env in
// scope. The module id and the order of declarations and definitions are
// preserved exactly.
func (n *Normalizer) NormalizeModule(m *typedast.Module) *stripped.Module {
	env := boundenv.NewNormalizerEnv()
	for _, d := range m.Decls {
		env.Add(d.Name, boundenv.DeclSig{Pos: d.Pos, Sig: d.Sig})
	}

	for _, d := range m.Decls {
		n.normalizeDecl(d)
	}
	for _, def := range m.Defs {
		n.normalizeDef(def, env)
	}

	return m
}

func (n *Normalizer) normalizeDecl(d *typedast.Decl) {
	for i, dom := range d.Sig.Domain {
		d.Sig.Domain[i] = n.normalizeType(dom, d.Pos)
		// The function-argument position is the single place Observed's
		// outermost application is allowed.
		n.checkObservability(d.Sig.Domain[i], d.Pos, true)
	}
	for i, cod := range d.Sig.Codomain {
		d.Sig.Codomain[i] = n.normalizeType(cod, d.Pos)
		n.checkObservability(d.Sig.Codomain[i], d.Pos, false)
	}
	for i, ta := range d.TypeArgs {
		d.TypeArgs[i] = n.normalizeType(ta, d.Pos)
		n.checkObservability(d.TypeArgs[i], d.Pos, false)
	}
}

func (n *Normalizer) normalizeDef(def *typedast.Def, env *boundenv.NormalizerEnv) {
	for _, p := range def.Params {
		n.checkPattern(p)
	}
	n.normalizeExpr(def.Body, env)
}

// normalizeType recursively rewrites a type expression (spec §4.1,
// normalize_type): every Tapply's argument types are rewritten, and each
// rewritten argument must not be primitive — except for the array and
// observed constructors, whose arguments are ordinary element/payload
// types rather than polymorphic instantiations, so array<int> and
// Observed<int> are unexceptional.
func (n *Normalizer) normalizeType(t surfacetypes.Type, pos srcpos.Pos) surfacetypes.Type {
	app, ok := t.(surfacetypes.TApply)
	if !ok {
		return t
	}

	builtin := app.Ctor == n.Names.Array || app.Ctor == n.Names.Observed
	args := make([]surfacetypes.Type, len(app.Args))
	for i, a := range app.Args {
		args[i] = n.normalizeType(a, pos)
		if !builtin && surfacetypes.IsPrimitive(args[i]) {
			reporter.Emit(n.Reporter, reporter.KindPolyIsNotPrim, pos)
		}
	}
	return surfacetypes.TApply{Ctor: app.Ctor, Args: args}
}

// normalizeExpr runs the observability check on e itself and recurses
// into every child expression, covering spec §4.1's full position list:
// pattern-bound sub-expressions, variant payloads, record fields,
// with-update bases, let-bindings and bodies, if-branches, the sequence's
// right operand, and each match action.
func (n *Normalizer) normalizeExpr(e typedast.Expr, env *boundenv.NormalizerEnv) {
	if e == nil {
		return
	}
	n.checkObservability(e.GetType(), e.GetPos(), false)

	switch ex := e.(type) {
	case *typedast.Eid, *typedast.Evalue, *typedast.Eobs:
		// Leaves; nothing further to visit.
	case *typedast.Evariant:
		for _, p := range ex.Payload {
			n.normalizeExpr(p, env)
		}
	case *typedast.Erecord:
		for _, name := range ex.Order {
			n.normalizeExpr(ex.Fields[name], env)
		}
	case *typedast.Ewith:
		n.normalizeExpr(ex.Base, env)
		for _, name := range ex.Order {
			n.normalizeExpr(ex.Fields[name], env)
		}
	case *typedast.Efield:
		n.normalizeExpr(ex.Record, env)
	case *typedast.Ebinop:
		n.normalizeExpr(ex.Left, env)
		n.normalizeExpr(ex.Right, env)
	case *typedast.Euop:
		n.normalizeExpr(ex.Operand, env)
	case *typedast.Elet:
		n.checkPattern(ex.Pattern)
		n.normalizeExpr(ex.Value, env)
		n.normalizeExpr(ex.Body, env)
	case *typedast.Eif:
		n.normalizeExpr(ex.Cond, env)
		n.normalizeExpr(ex.Then, env)
		n.normalizeExpr(ex.Else, env)
	case *typedast.Ematch:
		n.normalizeExpr(ex.Scrutinee, env)
		for _, arm := range ex.Arms {
			n.checkPattern(arm.Pattern)
			n.normalizeExpr(arm.Body, env)
		}
	case *typedast.Eseq:
		n.normalizeExpr(ex.Left, env)
		n.normalizeExpr(ex.Right, env)
	case *typedast.Eapply:
		for _, a := range ex.Args {
			n.normalizeExpr(a, env)
		}
		n.checkTerminates(ex, env)
	}
}

// checkTerminates implements spec §4.1's termination check: a Tany
// anywhere in an application's expected result type list means the
// callee's return type was unconstrainable, which in a strict call can
// only mean non-termination. When the callee is a module-local def, its
// declared codomain (collected in env by NormalizeModule) is checked too,
// catching a call site whose own ResultTypes annotation didn't carry the
// Tany marker the callee's signature already has.
func (n *Normalizer) checkTerminates(ex *typedast.Eapply, env *boundenv.NormalizerEnv) {
	for _, rt := range ex.ResultTypes {
		if _, isAny := rt.(surfacetypes.TAny); isAny {
			reporter.Emit(n.Reporter, reporter.KindInfiniteLoop, ex.GetPos())
			return
		}
	}
	if decl, ok := env.Lookup(ex.Func); ok {
		for _, cod := range decl.Sig.Codomain {
			if _, isAny := cod.(surfacetypes.TAny); isAny {
				reporter.Emit(n.Reporter, reporter.KindInfiniteLoop, ex.GetPos())
				return
			}
		}
	}
}

func (n *Normalizer) checkPattern(p typedast.Pattern) {
	switch pp := p.(type) {
	case *typedast.PVar:
		n.checkObservability(pp.Type, pp.GetPos(), false)
	case *typedast.PWild:
		// Nothing bound, nothing to check.
	case *typedast.PTuple:
		for _, e := range pp.Elems {
			n.checkPattern(e)
		}
	case *typedast.PVariant:
		for _, e := range pp.Payload {
			n.checkPattern(e)
		}
	case *typedast.PRecord:
		for _, name := range pp.Order {
			n.checkPattern(pp.Fields[name])
		}
	}
}

// checkObservability implements the observability check (spec §4.1): a
// bare reference to the observed type constructor is forbidden outside
// the function-argument position, and an application of it is forbidden
// everywhere except as the single outermost application of the
// function-argument type.
func (n *Normalizer) checkObservability(t surfacetypes.Type, pos srcpos.Pos, isFunctionArgPosition bool) {
	switch tt := t.(type) {
	case surfacetypes.TVar:
		if tt.Name == n.Names.Observed && !isFunctionArgPosition {
			reporter.Emit(n.Reporter, reporter.KindObsNotValue, pos)
		}
	case surfacetypes.TApply:
		if tt.Ctor == n.Names.Observed {
			if !isFunctionArgPosition {
				reporter.Emit(n.Reporter, reporter.KindObsNotAllowed, pos)
			}
			for _, a := range tt.Args {
				n.checkObservability(a, pos, false)
			}
			return
		}
		for _, a := range tt.Args {
			n.checkObservability(a, pos, false)
		}
	default:
		for _, c := range t.Children() {
			n.checkObservability(c, pos, false)
		}
	}
}
