// Package stripped is the normalizer's output shape: spec §4.1 says its
// output "preserves the module id, the order of declarations, and the
// order of definitions" and is "a stripped-typed AST of the same shape"
// as its naming-stage input. The AST shape genuinely does not change —
// only the type expressions inside it are rewritten and validated — so
// stripped re-exports typedast's node set by alias rather than
// duplicating ~250 lines of near-identical struct definitions. This
// keeps a distinct type boundary between "naming-stage input" and
// "normalizer output" for the bound checker to depend on, without a
// structurally redundant second AST.
package stripped

import "github.com/sunholo/boundsafe/internal/typedast"

type (
	Expr     = typedast.Expr
	ExprBase = typedast.ExprBase
	Eid      = typedast.Eid
	Evalue   = typedast.Evalue
	Evariant = typedast.Evariant
	Erecord  = typedast.Erecord
	Ewith    = typedast.Ewith
	Efield   = typedast.Efield
	Ebinop   = typedast.Ebinop
	Euop     = typedast.Euop
	Elet     = typedast.Elet
	Eif      = typedast.Eif
	Ematch   = typedast.Ematch
	MatchArm = typedast.MatchArm
	Eseq     = typedast.Eseq
	Eobs     = typedast.Eobs
	Eapply   = typedast.Eapply

	BinOp = typedast.BinOp
	UnOp  = typedast.UnOp

	Pattern  = typedast.Pattern
	PVar     = typedast.PVar
	PWild    = typedast.PWild
	PTuple   = typedast.PTuple
	PVariant = typedast.PVariant
	PRecord  = typedast.PRecord

	Decl   = typedast.Decl
	Def    = typedast.Def
	Module = typedast.Module
	Tfun   = typedast.Tfun
)

const (
	OpPlus  = typedast.OpPlus
	OpMinus = typedast.OpMinus
	OpMult  = typedast.OpMult
	OpDiv   = typedast.OpDiv
	OpLt    = typedast.OpLt
	OpLte   = typedast.OpLte
	OpGt    = typedast.OpGt
	OpGte   = typedast.OpGte
	OpAnd   = typedast.OpAnd
	OpOr    = typedast.OpOr

	OpNeg = typedast.OpNeg
	OpNot = typedast.OpNot
)
