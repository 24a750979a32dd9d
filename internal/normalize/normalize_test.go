package normalize

import (
	"testing"

	"github.com/sunholo/boundsafe/internal/registry"
	"github.com/sunholo/boundsafe/internal/reporter"
	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/surfacetypes"
	"github.com/sunholo/boundsafe/internal/typedast"
)

func pos(id uint64) srcpos.Pos { return srcpos.Pos{NodeID: id, Line: int(id), File: "t.ail"} }

func eb(p srcpos.Pos, t surfacetypes.Type) typedast.ExprBase {
	return typedast.ExprBase{Pos: p, Type: t}
}

func runModule(m *typedast.Module) []*reporter.Report {
	col := reporter.NewCollector()
	New(registry.Default(), col).NormalizeModule(m)
	return col.Reports()
}

// S6 — observed type in value position.
func TestScenario_S6_ObservedInValuePosition(t *testing.T) {
	p := pos(60)
	observedTy := surfacetypes.TVar{Name: registry.Default().Observed}

	def := &typedast.Def{
		Pos:  pos(1),
		Name: "f",
		Body: &typedast.Eid{ExprBase: eb(p, observedTy), Name: "x"},
	}
	mod := &typedast.Module{
		ID:    "m",
		Decls: []*typedast.Decl{{Pos: pos(0), Name: "f", Sig: typedast.Tfun{}}},
		Defs:  []*typedast.Def{def},
	}

	reports := runModule(mod)
	if len(reports) != 1 || reports[0].Kind != reporter.KindObsNotValue {
		t.Fatalf("expected one obs_not_value report, got %#v", reports)
	}
}

// Observed is permitted as the sole outermost application of a
// function-argument type.
func TestObserved_AllowedAsFunctionArgument(t *testing.T) {
	intTy := surfacetypes.TPrim{Name: "int"}
	observedArg := surfacetypes.TApply{Ctor: registry.Default().Observed, Args: []surfacetypes.Type{intTy}}

	decl := &typedast.Decl{
		Pos:  pos(0),
		Name: "f",
		Sig:  typedast.Tfun{Domain: []surfacetypes.Type{observedArg}, Codomain: []surfacetypes.Type{intTy}},
	}
	def := &typedast.Def{
		Pos:    pos(1),
		Name:   "f",
		Params: []typedast.Pattern{&typedast.PVar{Name: "x", Type: intTy}},
		Body:   &typedast.Evalue{ExprBase: eb(pos(2), intTy), N: 0},
	}
	mod := &typedast.Module{ID: "m", Decls: []*typedast.Decl{decl}, Defs: []*typedast.Def{def}}

	if reports := runModule(mod); len(reports) != 0 {
		t.Fatalf("expected no errors, got %#v", reports)
	}
}

// Observed applied anywhere but the function-argument position is
// rejected, even when it appears in the codomain.
func TestObserved_RejectedInCodomain(t *testing.T) {
	intTy := surfacetypes.TPrim{Name: "int"}
	observedResult := surfacetypes.TApply{Ctor: registry.Default().Observed, Args: []surfacetypes.Type{intTy}}

	decl := &typedast.Decl{
		Pos:  pos(0),
		Name: "f",
		Sig:  typedast.Tfun{Domain: []surfacetypes.Type{intTy}, Codomain: []surfacetypes.Type{observedResult}},
	}
	mod := &typedast.Module{ID: "m", Decls: []*typedast.Decl{decl}}

	reports := runModule(mod)
	if len(reports) != 1 || reports[0].Kind != reporter.KindObsNotAllowed {
		t.Fatalf("expected one obs_not_allowed report, got %#v", reports)
	}
}

// A primitive type used as a polymorphic (user ADT) type argument is
// rejected; the same primitive used as an array element type is not.
func TestPolyIsNotPrim(t *testing.T) {
	intTy := surfacetypes.TPrim{Name: "int"}
	boxOfInt := surfacetypes.TApply{Ctor: "Box", Args: []surfacetypes.Type{intTy}}
	arrayOfInt := surfacetypes.TApply{Ctor: registry.Default().Array, Args: []surfacetypes.Type{intTy}}

	decl := &typedast.Decl{
		Pos: pos(0), Name: "f",
		Sig: typedast.Tfun{Domain: []surfacetypes.Type{boxOfInt, arrayOfInt}},
	}
	mod := &typedast.Module{ID: "m", Decls: []*typedast.Decl{decl}}

	reports := runModule(mod)
	if len(reports) != 1 || reports[0].Kind != reporter.KindPolyIsNotPrim {
		t.Fatalf("expected exactly one poly_is_not_prim report (for Box<int>, not array<int>), got %#v", reports)
	}
}

// A Tany surviving into an application's result type list signals
// infinite_loop.
func TestTerminationCheck_TanyResult(t *testing.T) {
	p := pos(90)
	intTy := surfacetypes.TPrim{Name: "int"}

	apply := &typedast.Eapply{
		ExprBase:    eb(p, intTy),
		Func:        "unconstrained",
		ResultTypes: []surfacetypes.Type{surfacetypes.TAny{}},
	}
	def := &typedast.Def{Pos: pos(1), Name: "f", Body: apply}
	mod := &typedast.Module{
		ID:    "m",
		Decls: []*typedast.Decl{{Pos: pos(0), Name: "f"}},
		Defs:  []*typedast.Def{def},
	}

	reports := runModule(mod)
	if len(reports) != 1 || reports[0].Kind != reporter.KindInfiniteLoop {
		t.Fatalf("expected one infinite_loop report, got %#v", reports)
	}
}

func TestNormalizeModule_PreservesOrder(t *testing.T) {
	d1 := &typedast.Decl{Pos: pos(0), Name: "a"}
	d2 := &typedast.Decl{Pos: pos(1), Name: "b"}
	def1 := &typedast.Def{Pos: pos(2), Name: "a", Body: &typedast.Evalue{ExprBase: eb(pos(3), surfacetypes.TPrim{Name: "int"}), N: 1}}
	def2 := &typedast.Def{Pos: pos(4), Name: "b", Body: &typedast.Evalue{ExprBase: eb(pos(5), surfacetypes.TPrim{Name: "int"}), N: 2}}
	mod := &typedast.Module{ID: "ordered", Decls: []*typedast.Decl{d1, d2}, Defs: []*typedast.Def{def1, def2}}

	out := New(registry.Default(), reporter.NewCollector()).NormalizeModule(mod)
	if out.ID != "ordered" || len(out.Decls) != 2 || out.Decls[0].Name != "a" || out.Decls[1].Name != "b" {
		t.Fatalf("expected declaration order preserved, got %#v", out.Decls)
	}
	if len(out.Defs) != 2 || out.Defs[0].Name != "a" || out.Defs[1].Name != "b" {
		t.Fatalf("expected definition order preserved, got %#v", out.Defs)
	}
}
