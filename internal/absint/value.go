// Package absint is the abstract-value lattice and symbolic-expression
// evaluator at the core of the bound checker (spec §3, §4.2). It has no
// dependency on the AST packages — it models only integers, arrays, and
// the two aggregate shapes (tagged variants and records) that can carry
// them, exactly as spec.md's data model describes.
package absint

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sunholo/boundsafe/internal/srcpos"
)

// MaxInt is the sentinel standing for "unknown declared length".
const MaxInt = int64(math.MaxInt64)

// Value is a lattice element: Undef, Const, Array, Int, Sum, or Rec.
type Value interface {
	fmt.Stringer
	// Key returns a canonical, order-independent string uniquely
	// identifying this value for memoization and equality.
	Key() string
	isValue()
}

// Undef is top: no information.
type Undef struct{}

func (Undef) isValue()     {}
func (Undef) String() string { return "undef" }
func (Undef) Key() string    { return "U" }

// Const is a 64-bit signed integer literal.
type Const struct{ N int64 }

func (Const) isValue()        {}
func (c Const) String() string { return fmt.Sprintf("%d", c.N) }
func (c Const) Key() string    { return fmt.Sprintf("C%d", c.N) }

// Array is a reference to one or more array-creation sites with a known
// minimum declared length (MaxInt meaning unknown).
type Array struct {
	Positions srcpos.Set
	N         int64
}

func (Array) isValue() {}
func (a Array) String() string {
	if a.N == MaxInt {
		return fmt.Sprintf("Array(%s, ?)", posSetString(a.Positions))
	}
	return fmt.Sprintf("Array(%s, %d)", posSetString(a.Positions), a.N)
}
func (a Array) Key() string {
	return fmt.Sprintf("A{%s}:%d", posSetString(a.Positions), a.N)
}

// Int is an integer whose sign and relation to array-creation positions
// is partially known. Invariant: Good and Bad are disjoint — NewInt
// enforces this by subtracting Good from Bad at construction, exactly as
// spec §3 requires ("bad := bad \ good at each refinement").
type Int struct {
	NonNeg bool
	Good   srcpos.Set
	Bad    srcpos.Set
}

// NewInt builds an Int, normalizing the good/bad disjointness invariant.
func NewInt(nonNeg bool, good, bad srcpos.Set) Int {
	return Int{NonNeg: nonNeg, Good: good, Bad: bad.Minus(good)}
}

func (Int) isValue() {}
func (i Int) String() string {
	return fmt.Sprintf("Int(nonneg=%t, good=%s, bad=%s)", i.NonNeg, posSetString(i.Good), posSetString(i.Bad))
}
func (i Int) Key() string {
	return fmt.Sprintf("I%t{%s}{%s}", i.NonNeg, posSetString(i.Good), posSetString(i.Bad))
}

// Sum is a tagged variant: tag id to the list of values carried by that tag.
type Sum struct {
	Tags map[string][]Value
}

func (Sum) isValue() {}
func (s Sum) String() string {
	return fmt.Sprintf("Sum(%d tags)", len(s.Tags))
}
func (s Sum) Key() string {
	keys := make([]string, 0, len(s.Tags))
	for k := range s.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("S{")
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(':')
		for _, v := range s.Tags[k] {
			b.WriteString(v.Key())
			b.WriteByte(',')
		}
		b.WriteByte(';')
	}
	b.WriteByte('}')
	return b.String()
}

// Rec is a record: field id to the list of values stored at that field.
type Rec struct {
	Fields map[string][]Value
}

func (Rec) isValue() {}
func (r Rec) String() string {
	return fmt.Sprintf("Rec(%d fields)", len(r.Fields))
}
func (r Rec) Key() string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("R{")
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(':')
		for _, v := range r.Fields[k] {
			b.WriteString(v.Key())
			b.WriteByte(',')
		}
		b.WriteByte(';')
	}
	b.WriteByte('}')
	return b.String()
}

func posSetString(s srcpos.Set) string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = fmt.Sprintf("%d", p.NodeID)
	}
	return strings.Join(parts, ",")
}

// KeyList canonicalizes a list of values for use as (part of) a
// memoization key.
func KeyList(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Key()
	}
	return strings.Join(parts, "|")
}
