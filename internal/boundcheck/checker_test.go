package boundcheck

import (
	"testing"
	"time"

	"github.com/sunholo/boundsafe/internal/registry"
	"github.com/sunholo/boundsafe/internal/reporter"
	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/stripped"
	"github.com/sunholo/boundsafe/internal/surfacetypes"
	"github.com/sunholo/boundsafe/testutil"
)

func tprim(name string) surfacetypes.Type { return surfacetypes.TPrim{Name: name} }

func tarray(elem surfacetypes.Type) surfacetypes.Type {
	return surfacetypes.TApply{Ctor: registry.Default().Array, Args: []surfacetypes.Type{elem}}
}

func pos(id uint64) srcpos.Pos { return srcpos.Pos{NodeID: id, Line: int(id), File: "t.ail"} }

func eb(p srcpos.Pos, t surfacetypes.Type) stripped.ExprBase {
	return stripped.ExprBase{Pos: p, Type: t}
}

func collect(mod *stripped.Module) []*reporter.Report {
	col := reporter.NewCollector()
	New(registry.Default(), col).AnalyzeModule(mod)
	return col.Reports()
}

func kinds(reports []*reporter.Report) []reporter.Kind {
	out := make([]reporter.Kind, len(reports))
	for i, r := range reports {
		out[i] = r.Kind
	}
	return out
}

func publicModule(def *stripped.Def, domain []surfacetypes.Type) *stripped.Module {
	return &stripped.Module{
		ID: "m",
		Decls: []*stripped.Decl{
			{Pos: pos(0), Name: def.Name, Private: false, Sig: stripped.Tfun{Domain: domain}},
		},
		Defs: []*stripped.Def{def},
	}
}

// S1 — constant out of range.
func TestScenario_S1_ConstantOutOfRange(t *testing.T) {
	amakePos := pos(10)
	agetPos := pos(11)
	intTy := tprim("int")
	arrTy := tarray(intTy)

	amake := &stripped.Eapply{
		ExprBase: eb(amakePos, arrTy),
		Func:      registry.Default().Amake,
		Args: []stripped.Expr{
			&stripped.Evalue{ExprBase: eb(amakePos, intTy), N: 0},
			&stripped.Evalue{ExprBase: eb(amakePos, intTy), N: 10},
		},
		ResultTypes: []surfacetypes.Type{arrTy},
	}
	aget := &stripped.Eapply{
		ExprBase: eb(agetPos, intTy),
		Func:      registry.Default().Aget,
		Args: []stripped.Expr{
			&stripped.Eid{ExprBase: eb(agetPos, arrTy), Name: "a"},
			&stripped.Evalue{ExprBase: eb(agetPos, intTy), N: 10},
		},
		ResultTypes: []surfacetypes.Type{intTy},
	}
	body := &stripped.Elet{
		ExprBase: eb(amakePos, intTy),
		Pattern:  &stripped.PVar{Name: "a"},
		Value:    amake,
		Body:     aget,
	}
	def := &stripped.Def{Pos: pos(1), Name: "f", Params: nil, Body: body}

	reports := collect(publicModule(def, nil))
	if len(reports) != 1 || reports[0].Kind != reporter.KindBoundUp {
		t.Fatalf("expected one bound_up report, got %#v", reports)
	}
	if reports[0].Witness == nil || reports[0].Witness.NodeID != amakePos.NodeID {
		t.Fatalf("expected witness at amake position, got %#v", reports[0].Witness)
	}
	testutil.AssertGolden(t, "boundcheck", "s1_out_of_range", reports)
}

// S2 — constant safe.
func TestScenario_S2_ConstantSafe(t *testing.T) {
	p := pos(20)
	intTy := tprim("int")
	arrTy := tarray(intTy)

	amake := &stripped.Eapply{
		ExprBase: eb(p, arrTy), Func: registry.Default().Amake,
		Args: []stripped.Expr{
			&stripped.Evalue{ExprBase: eb(p, intTy), N: 0},
			&stripped.Evalue{ExprBase: eb(p, intTy), N: 10},
		},
		ResultTypes: []surfacetypes.Type{arrTy},
	}
	aget := &stripped.Eapply{
		ExprBase: eb(p, intTy), Func: registry.Default().Aget,
		Args: []stripped.Expr{
			&stripped.Eid{ExprBase: eb(p, arrTy), Name: "a"},
			&stripped.Evalue{ExprBase: eb(p, intTy), N: 9},
		},
		ResultTypes: []surfacetypes.Type{intTy},
	}
	body := &stripped.Elet{ExprBase: eb(p, intTy), Pattern: &stripped.PVar{Name: "a"}, Value: amake, Body: aget}
	def := &stripped.Def{Pos: pos(1), Name: "f", Body: body}

	if reports := collect(publicModule(def, nil)); len(reports) != 0 {
		t.Fatalf("expected no errors, got %#v", reports)
	}
}

// S3 — negative constant.
func TestScenario_S3_NegativeConstant(t *testing.T) {
	p := pos(30)
	intTy := tprim("int")
	arrTy := tarray(intTy)

	amake := &stripped.Eapply{
		ExprBase: eb(p, arrTy), Func: registry.Default().Amake,
		Args: []stripped.Expr{
			&stripped.Evalue{ExprBase: eb(p, intTy), N: 0},
			&stripped.Evalue{ExprBase: eb(p, intTy), N: 10},
		},
		ResultTypes: []surfacetypes.Type{arrTy},
	}
	aget := &stripped.Eapply{
		ExprBase: eb(p, intTy), Func: registry.Default().Aget,
		Args: []stripped.Expr{
			&stripped.Eid{ExprBase: eb(p, arrTy), Name: "a"},
			&stripped.Evalue{ExprBase: eb(p, intTy), N: -1},
		},
		ResultTypes: []surfacetypes.Type{intTy},
	}
	body := &stripped.Elet{ExprBase: eb(p, intTy), Pattern: &stripped.PVar{Name: "a"}, Value: amake, Body: aget}
	def := &stripped.Def{Pos: pos(1), Name: "f", Body: body}

	reports := collect(publicModule(def, nil))
	if len(reports) != 1 || reports[0].Kind != reporter.KindBoundNeg {
		t.Fatalf("expected one bound_neg report, got %#v", reports)
	}
}

// S4 — guarded index: fun f(a, i) = if i >= 0 && i < alength(a) then aget(a, i) else 0
func TestScenario_S4_GuardedIndex(t *testing.T) {
	p := pos(40)
	intTy := tprim("int")
	arrTy := tarray(intTy)

	cond := &stripped.Ebinop{
		ExprBase: eb(p, tprim("bool")),
		Op:       stripped.OpAnd,
		Left: &stripped.Ebinop{
			ExprBase: eb(p, tprim("bool")), Op: stripped.OpGte,
			Left:  &stripped.Eid{ExprBase: eb(p, intTy), Name: "i"},
			Right: &stripped.Evalue{ExprBase: eb(p, intTy), N: 0},
		},
		Right: &stripped.Ebinop{
			ExprBase: eb(p, tprim("bool")), Op: stripped.OpLt,
			Left: &stripped.Eid{ExprBase: eb(p, intTy), Name: "i"},
			Right: &stripped.Eapply{
				ExprBase:    eb(p, intTy),
				Func:        registry.Default().Alength,
				Args:        []stripped.Expr{&stripped.Eid{ExprBase: eb(p, arrTy), Name: "a"}},
				ResultTypes: []surfacetypes.Type{intTy},
			},
		},
	}
	aget := &stripped.Eapply{
		ExprBase: eb(p, intTy), Func: registry.Default().Aget,
		Args: []stripped.Expr{
			&stripped.Eid{ExprBase: eb(p, arrTy), Name: "a"},
			&stripped.Eid{ExprBase: eb(p, intTy), Name: "i"},
		},
		ResultTypes: []surfacetypes.Type{intTy},
	}
	body := &stripped.Eif{
		ExprBase: eb(p, intTy),
		Cond:     cond,
		Then:     aget,
		Else:     &stripped.Evalue{ExprBase: eb(p, intTy), N: 0},
	}
	def := &stripped.Def{
		Pos:  pos(1),
		Name: "f",
		Params: []stripped.Pattern{
			&stripped.PVar{Name: "a", Type: arrTy},
			&stripped.PVar{Name: "i", Type: intTy},
		},
		Body: body,
	}

	reports := collect(publicModule(def, []surfacetypes.Type{arrTy, intTy}))
	if len(reports) != 0 {
		t.Fatalf("expected no errors, got %#v", reports)
	}
}

// S5 — midpoint: if lo < hi then let m = (lo + hi) / 2 in aget(a, m),
// with preconditions lo >= 0 and hi < alength(a) injected via assert.
// Exercises the Div(Plus(x, y), Const n>=2) averaging rule.
func TestScenario_S5_Midpoint(t *testing.T) {
	p := pos(50)
	intTy := tprim("int")
	arrTy := tarray(intTy)

	assertLo := &stripped.Eapply{
		ExprBase: eb(p, tprim("unit")), Func: registry.Default().Assert,
		Args: []stripped.Expr{
			&stripped.Ebinop{
				ExprBase: eb(p, tprim("bool")), Op: stripped.OpGte,
				Left:  &stripped.Eid{ExprBase: eb(p, intTy), Name: "lo"},
				Right: &stripped.Evalue{ExprBase: eb(p, intTy), N: 0},
			},
		},
		ResultTypes: []surfacetypes.Type{tprim("unit")},
	}
	assertHiNonNeg := &stripped.Eapply{
		ExprBase: eb(p, tprim("unit")), Func: registry.Default().Assert,
		Args: []stripped.Expr{
			&stripped.Ebinop{
				ExprBase: eb(p, tprim("bool")), Op: stripped.OpGte,
				Left:  &stripped.Eid{ExprBase: eb(p, intTy), Name: "hi"},
				Right: &stripped.Evalue{ExprBase: eb(p, intTy), N: 0},
			},
		},
		ResultTypes: []surfacetypes.Type{tprim("unit")},
	}
	assertHi := &stripped.Eapply{
		ExprBase: eb(p, tprim("unit")), Func: registry.Default().Assert,
		Args: []stripped.Expr{
			&stripped.Ebinop{
				ExprBase: eb(p, tprim("bool")), Op: stripped.OpLt,
				Left: &stripped.Eid{ExprBase: eb(p, intTy), Name: "hi"},
				Right: &stripped.Eapply{
					ExprBase:    eb(p, intTy),
					Func:        registry.Default().Alength,
					Args:        []stripped.Expr{&stripped.Eid{ExprBase: eb(p, arrTy), Name: "a"}},
					ResultTypes: []surfacetypes.Type{intTy},
				},
			},
		},
		ResultTypes: []surfacetypes.Type{tprim("unit")},
	}

	midpoint := &stripped.Ebinop{
		ExprBase: eb(p, intTy), Op: stripped.OpDiv,
		Left: &stripped.Ebinop{
			ExprBase: eb(p, intTy), Op: stripped.OpPlus,
			Left:  &stripped.Eid{ExprBase: eb(p, intTy), Name: "lo"},
			Right: &stripped.Eid{ExprBase: eb(p, intTy), Name: "hi"},
		},
		Right: &stripped.Evalue{ExprBase: eb(p, intTy), N: 2},
	}
	aget := &stripped.Eapply{
		ExprBase: eb(p, intTy), Func: registry.Default().Aget,
		Args: []stripped.Expr{
			&stripped.Eid{ExprBase: eb(p, arrTy), Name: "a"},
			&stripped.Eid{ExprBase: eb(p, intTy), Name: "m"},
		},
		ResultTypes: []surfacetypes.Type{intTy},
	}
	letM := &stripped.Elet{
		ExprBase: eb(p, intTy), Pattern: &stripped.PVar{Name: "m"}, Value: midpoint, Body: aget,
	}
	ifExpr := &stripped.Eif{
		ExprBase: eb(p, intTy),
		Cond: &stripped.Ebinop{
			ExprBase: eb(p, tprim("bool")), Op: stripped.OpLt,
			Left:  &stripped.Eid{ExprBase: eb(p, intTy), Name: "lo"},
			Right: &stripped.Eid{ExprBase: eb(p, intTy), Name: "hi"},
		},
		Then: letM,
		Else: &stripped.Evalue{ExprBase: eb(p, intTy), N: 0},
	}
	body := &stripped.Eseq{
		ExprBase: eb(p, intTy),
		Left:     assertLo,
		Right: &stripped.Eseq{
			ExprBase: eb(p, intTy),
			Left:     assertHiNonNeg,
			Right: &stripped.Eseq{
				ExprBase: eb(p, intTy),
				Left:     assertHi,
				Right:    ifExpr,
			},
		},
	}

	def := &stripped.Def{
		Pos:  pos(1),
		Name: "f",
		Params: []stripped.Pattern{
			&stripped.PVar{Name: "a", Type: arrTy},
			&stripped.PVar{Name: "lo", Type: intTy},
			&stripped.PVar{Name: "hi", Type: intTy},
		},
		Body: body,
	}

	reports := collect(publicModule(def, []surfacetypes.Type{arrTy, intTy, intTy}))
	if len(reports) != 0 {
		t.Fatalf("expected no errors, got %#v", reports)
	}
}

// S6 — observed type in value position.
func TestScenario_S6_ObservedInValuePosition(t *testing.T) {
	// Exercised at the normalizer layer (internal/normalize), not here —
	// the bound checker never inspects observability; see
	// normalize_test.go for this scenario.
}

// S7 — non-primitive array.
func TestScenario_S7_NonPrimitiveArray(t *testing.T) {
	p := pos(70)
	intTy := tprim("int")
	recTy := surfacetypes.TApply{Ctor: "Rec"}
	arrTy := tarray(recTy)

	aget := &stripped.Eapply{
		ExprBase: eb(p, recTy), Func: registry.Default().Aget,
		Args: []stripped.Expr{
			&stripped.Eid{ExprBase: eb(p, arrTy), Name: "a"},
			&stripped.Eid{ExprBase: eb(p, intTy), Name: "i"},
		},
		ResultTypes: []surfacetypes.Type{recTy},
	}
	def := &stripped.Def{
		Pos:  pos(1),
		Name: "f",
		Params: []stripped.Pattern{
			&stripped.PVar{Name: "a", Type: arrTy},
			&stripped.PVar{Name: "i", Type: intTy},
		},
		Body: aget,
	}

	reports := collect(publicModule(def, []surfacetypes.Type{arrTy, intTy}))
	found := false
	for _, r := range reports {
		if r.Kind == reporter.KindExpectedPrimArray {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected expected_prim_array report, got %#v", reports)
	}
}

// TestMemoization_RecursionTerminates exercises property 3: a
// self-recursive private definition must not hang the analyzer and must
// not raise a spurious bound error, since the recursive call is
// soundly approximated as Undef on the first re-entry.
func TestMemoization_RecursionTerminates(t *testing.T) {
	p := pos(80)
	intTy := tprim("int")

	// private rec f(n) = f(n)
	recCall := &stripped.Eapply{
		ExprBase:    eb(p, intTy),
		Func:        "f",
		Args:        []stripped.Expr{&stripped.Eid{ExprBase: eb(p, intTy), Name: "n"}},
		ResultTypes: []surfacetypes.Type{intTy},
	}
	privateDef := &stripped.Def{
		Pos:    pos(2),
		Name:   "f",
		Params: []stripped.Pattern{&stripped.PVar{Name: "n", Type: intTy}},
		Body:   recCall,
	}
	callF := &stripped.Eapply{
		ExprBase:    eb(p, intTy),
		Func:        "f",
		Args:        []stripped.Expr{&stripped.Evalue{ExprBase: eb(p, intTy), N: 3}},
		ResultTypes: []surfacetypes.Type{intTy},
	}
	publicDef := &stripped.Def{Pos: pos(1), Name: "g", Body: callF}

	mod := &stripped.Module{
		ID: "m",
		Decls: []*stripped.Decl{
			{Pos: pos(0), Name: "g", Private: false},
			{Pos: pos(0), Name: "f", Private: true},
		},
		Defs: []*stripped.Def{publicDef, privateDef},
	}

	done := make(chan []*reporter.Report, 1)
	go func() { done <- collect(mod) }()
	select {
	case reports := <-done:
		if len(reports) != 0 {
			t.Fatalf("expected no errors from recursive analysis, got %#v", reports)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("recursive analysis did not terminate")
	}
}
