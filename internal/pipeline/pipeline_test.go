package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/boundsafe/internal/reporter"
	"github.com/sunholo/boundsafe/internal/surfacetypes"
	"github.com/sunholo/boundsafe/internal/typedast"
)

func intTy() surfacetypes.Type { return surfacetypes.TPrim{Name: "int"} }

func cleanModule(id string) *typedast.Module {
	pos := typedast.ExprBase{Type: intTy()}
	return &typedast.Module{
		ID:    id,
		Decls: []*typedast.Decl{{Name: "f", Sig: typedast.Tfun{Codomain: []surfacetypes.Type{intTy()}}}},
		Defs: []*typedast.Def{
			{Name: "f", Body: &typedast.Evalue{ExprBase: pos, N: 1}},
		},
	}
}

func dirtyModule(id string) *typedast.Module {
	observed := surfacetypes.TVar{Name: "Observed"}
	return &typedast.Module{
		ID:    id,
		Decls: []*typedast.Decl{{Name: "g"}},
		Defs: []*typedast.Def{
			{Name: "g", Body: &typedast.Eid{ExprBase: typedast.ExprBase{Type: observed}, Name: "x"}},
		},
	}
}

func TestAnalyzeModules_SequentialPreservesOrderAndIsolatesReports(t *testing.T) {
	mods := []*typedast.Module{cleanModule("a"), dirtyModule("b"), cleanModule("c")}
	results := AnalyzeModules(mods, Config{})

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Module.ID)
	assert.Empty(t, results[0].Reports)
	assert.Equal(t, "b", results[1].Module.ID)
	require.Len(t, results[1].Reports, 1)
	assert.Equal(t, reporter.KindObsNotValue, results[1].Reports[0].Kind)
	assert.Equal(t, "c", results[2].Module.ID)
	assert.Empty(t, results[2].Reports)
}

func TestAnalyzeModules_ConcurrentMatchesSequential(t *testing.T) {
	mods := []*typedast.Module{cleanModule("a"), dirtyModule("b"), cleanModule("c"), dirtyModule("d")}

	seq := AnalyzeModules(mods, Config{})
	par := AnalyzeModules(mods, Config{Concurrency: 4})

	require.Len(t, par, len(seq))
	for i := range seq {
		assert.Equal(t, seq[i].Module.ID, par[i].Module.ID)
		assert.Equal(t, len(seq[i].Reports), len(par[i].Reports))
	}
}
