package boundenv

import (
	"github.com/sunholo/boundsafe/internal/absint"
	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/stripped"
)

// ArrayRecord is one live array-creation record: a declared length and
// the set of positions that created arrays of (at least) that length.
// The bound-check environment's Arrays list is consulted by the
// const-to-interval lift at call boundaries (spec §4.2).
type ArrayRecord struct {
	Length    int64
	Positions srcpos.Set
}

// BoundEnv is the per-module bound-check environment: the value
// environment, the catalog of private definitions, the live
// array-creation records, and the shared memoization table.
type BoundEnv struct {
	Value    *ValueEnv
	Privates map[string]*stripped.Def
	Arrays   []ArrayRecord
	Memo     *MemoTable
}

// NewBoundEnv builds a fresh bound-check environment for one module,
// with an empty memo table shared for the whole module pass.
func NewBoundEnv(privates map[string]*stripped.Def) *BoundEnv {
	return &BoundEnv{
		Value:    NewValueEnv(),
		Privates: privates,
		Memo:     NewMemoTable(),
	}
}

// WithValue returns a copy of env with its value environment replaced —
// the Arrays/Privates/Memo are shared (Arrays is appended to below via
// PushArray, which itself returns a new env so branch-local pushes don't
// leak, matching Eif's environment-discard rule).
func (env *BoundEnv) WithValue(v *ValueEnv) *BoundEnv {
	next := *env
	next.Value = v
	return &next
}

// PushArray records a new array-creation site, returning a new BoundEnv
// (Arrays grows, everything else shared).
func (env *BoundEnv) PushArray(length int64, positions srcpos.Set) *BoundEnv {
	next := *env
	next.Arrays = append(append([]ArrayRecord(nil), env.Arrays...), ArrayRecord{Length: length, Positions: positions})
	return &next
}

// LiftConst converts a concrete Const argument into an Int, per spec
// §4.2's "Const-to-interval at call boundary": for each live array
// record (m, P), n < m places P in good, n == m places P in bad.
func (env *BoundEnv) LiftConst(n int64) absint.Value {
	var good, bad srcpos.Set
	for _, rec := range env.Arrays {
		switch {
		case n < rec.Length:
			good = good.Union(rec.Positions)
		case n == rec.Length:
			bad = bad.Union(rec.Positions)
		}
	}
	return absint.NewInt(n >= 0, good, bad)
}
