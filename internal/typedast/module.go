package typedast

import (
	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/surfacetypes"
)

// Decl is a top-level value declaration: a name, its monomorphic function
// signature, a visibility annotation, and the type-argument list the
// observability check walks (spec §4.1, "each decl's type argument
// list").
type Decl struct {
	Pos      srcpos.Pos
	Name     string
	Private  bool
	Sig      Tfun
	TypeArgs []surfacetypes.Type
}

// Tfun names a monomorphic function signature: domain and codomain type
// lists, as collected into the normalizer environment (spec §3,
// "Normalizer environment").
type Tfun struct {
	Domain   []surfacetypes.Type
	Codomain []surfacetypes.Type
}

// Def is a top-level function definition: its argument pattern list and
// body. Visibility is carried on the matching Decl, not here — the
// bound checker's driver partitions Defs using the Decls map (spec
// §4.2, "Driver").
type Def struct {
	Pos    srcpos.Pos
	Name   string
	Params []Pattern
	Body   Expr
}

// Module is a single compilation unit: its id, its declarations (order
// preserved), and its definitions (order preserved).
type Module struct {
	ID    string
	Decls []*Decl
	Defs  []*Def
}
