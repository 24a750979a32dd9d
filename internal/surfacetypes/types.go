// Package surfacetypes is the type-expression grammar threaded through the
// naming-stage typed AST and its stripped counterpart. It mirrors the
// Type/TVar/TCon/TApp/TFunc shape used elsewhere in this codebase family,
// trimmed to exactly the constructors the normalizer and bound checker
// inspect: primitive types, type variables, type-constructor application,
// function types, the top type Tany, and tuples.
package surfacetypes

import (
	"fmt"
	"strings"
)

// Type is any type expression appearing on a typed AST node.
type Type interface {
	fmt.Stringer
	typeNode()
	// Children returns this type's immediate sub-expressions, in order,
	// for generic recursive traversals (normalize_type, the observability
	// check).
	Children() []Type
}

// TPrim is a primitive (non-polymorphic-argument-eligible) type: int,
// bool, float, string, unit and so on.
type TPrim struct{ Name string }

func (t TPrim) typeNode()        {}
func (t TPrim) String() string   { return t.Name }
func (t TPrim) Children() []Type { return nil }

// IsPrimitive reports whether t is exactly a TPrim. Used by
// normalize_type's poly_is_not_prim check and by aget/aset/aswap's
// expected_prim_array check.
func IsPrimitive(t Type) bool {
	_, ok := t.(TPrim)
	return ok
}

// TVar is a type variable.
type TVar struct{ Name string }

func (t TVar) typeNode()        {}
func (t TVar) String() string   { return t.Name }
func (t TVar) Children() []Type { return nil }

// TApply is the application of a type constructor to zero or more
// argument types: Tapply(c, args). The constructor identity (Observed,
// array, or a user ADT) is compared against the name registry by the
// caller.
type TApply struct {
	Ctor string
	Args []Type
}

func (t TApply) typeNode() {}
func (t TApply) String() string {
	if len(t.Args) == 0 {
		return t.Ctor
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Ctor, strings.Join(parts, ", "))
}
func (t TApply) Children() []Type { return t.Args }

// TFun is a function type: domain types to codomain types (codomain is a
// list because tuples are first-class return shapes).
type TFun struct {
	Domain   []Type
	Codomain []Type
}

func (t TFun) typeNode() {}
func (t TFun) String() string {
	dom := make([]string, len(t.Domain))
	for i, d := range t.Domain {
		dom[i] = d.String()
	}
	cod := make([]string, len(t.Codomain))
	for i, c := range t.Codomain {
		cod[i] = c.String()
	}
	return fmt.Sprintf("(%s) -> (%s)", strings.Join(dom, ", "), strings.Join(cod, ", "))
}
func (t TFun) Children() []Type {
	out := make([]Type, 0, len(t.Domain)+len(t.Codomain))
	out = append(out, t.Domain...)
	out = append(out, t.Codomain...)
	return out
}

// TAny is the type inferencer's "unconstrainable return type" marker.
// Its presence in an application's result type list signals that the
// call cannot be proven to terminate (spec §4.1 termination check).
type TAny struct{}

func (t TAny) typeNode()        {}
func (t TAny) String() string   { return "any" }
func (t TAny) Children() []Type { return nil }

// TTuple is a tuple type; tuples are first-class, so this shows up both
// as a standalone type and as an application/function result shape.
type TTuple struct{ Elems []Type }

func (t TTuple) typeNode() {}
func (t TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
func (t TTuple) Children() []Type { return t.Elems }
