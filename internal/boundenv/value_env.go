// Package boundenv holds the three environment shapes spec §3 names:
// the value environment, the bound-check environment, and the
// normalizer environment. Each is a persistent, parent-chained map in
// the style used for type environments elsewhere in this codebase
// family — Extend returns a new frame rather than mutating the
// receiver, which is exactly the property Eif needs when it "discards"
// a branch's environment changes: the branch simply never touches the
// parent frame.
package boundenv

import "github.com/sunholo/boundsafe/internal/absint"

// ValueEnv maps identifiers to symbolic expressions.
type ValueEnv struct {
	bindings map[string]absint.Sym
	parent   *ValueEnv
}

// NewValueEnv returns an empty root environment.
func NewValueEnv() *ValueEnv {
	return &ValueEnv{bindings: make(map[string]absint.Sym)}
}

// Extend returns a new environment with name bound to s, leaving env
// itself untouched.
func (env *ValueEnv) Extend(name string, s absint.Sym) *ValueEnv {
	next := &ValueEnv{bindings: make(map[string]absint.Sym, 1), parent: env}
	next.bindings[name] = s
	return next
}

// Lookup returns the symbolic expression bound to name, or (nil, false)
// if unbound.
func (env *ValueEnv) Lookup(name string) (absint.Sym, bool) {
	for e := env; e != nil; e = e.parent {
		if s, ok := e.bindings[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// Deref resolves name through chains of SymId bindings until it reaches
// a non-Id symbol, an absent binding, or a cycle — spec §3's "Lookups
// that resolve through Id x must transitively re-evaluate". A cycle or
// an absent terminal binding both yield SymValue{Undef{}}.
func (env *ValueEnv) Deref(name string) absint.Sym {
	seen := map[string]bool{}
	cur := name
	for {
		if seen[cur] {
			return absint.SymValue{V: absint.Undef{}}
		}
		seen[cur] = true
		s, ok := env.Lookup(cur)
		if !ok {
			return absint.SymValue{V: absint.Undef{}}
		}
		id, isID := s.(absint.SymId)
		if !isID {
			return s
		}
		cur = id.Name
	}
}

// Rebind returns a new environment where name's existing binding (if
// any) is replaced, without disturbing any other name. Used by amake's
// "update its binding so that position p joins its bad set" rule.
func (env *ValueEnv) Rebind(name string, s absint.Sym) *ValueEnv {
	return env.Extend(name, s)
}
