// Package typedast is the naming-stage typed AST: the shape produced by
// the typed-AST-producer collaborator (spec §1) and consumed by the
// normalizer. Every node carries a type annotation and a source position,
// mirroring the TypedExpr/TypedNode embedding style used for the typed
// AST elsewhere in this codebase family, generalized here to the
// linearly-typed array language this pass actually analyzes.
package typedast

import (
	"fmt"

	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/surfacetypes"
)

// ExprBase is embedded by every expression node.
type ExprBase struct {
	Pos  srcpos.Pos
	Type surfacetypes.Type
}

func (e ExprBase) GetPos() srcpos.Pos         { return e.Pos }
func (e ExprBase) GetType() surfacetypes.Type { return e.Type }

// Expr is the interface implemented by every expression node kind.
type Expr interface {
	fmt.Stringer
	GetPos() srcpos.Pos
	GetType() surfacetypes.Type
	exprNode()
}

// Eid — variable reference.
type Eid struct {
	ExprBase
	Name string
}

func (e *Eid) exprNode()      {}
func (e *Eid) String() string { return e.Name }

// Evalue — integer literal.
type Evalue struct {
	ExprBase
	N int64
}

func (e *Evalue) exprNode()      {}
func (e *Evalue) String() string { return fmt.Sprintf("%d", e.N) }

// Evariant — tagged-variant construction.
type Evariant struct {
	ExprBase
	Tag     string
	Payload []Expr
}

func (e *Evariant) exprNode()      {}
func (e *Evariant) String() string { return fmt.Sprintf("%s(...)", e.Tag) }

// Erecord — record construction.
type Erecord struct {
	ExprBase
	Fields map[string]Expr
	// Order preserves field declaration order for deterministic traversal.
	Order []string
}

func (e *Erecord) exprNode()      {}
func (e *Erecord) String() string { return "{...}" }

// Ewith — functional record update.
type Ewith struct {
	ExprBase
	Base   Expr
	Fields map[string]Expr
	Order  []string
}

func (e *Ewith) exprNode()      {}
func (e *Ewith) String() string { return fmt.Sprintf("{%s with ...}", e.Base) }

// Efield — record field projection.
type Efield struct {
	ExprBase
	Record Expr
	Field  string
}

func (e *Efield) exprNode()      {}
func (e *Efield) String() string { return fmt.Sprintf("%s.%s", e.Record, e.Field) }

// BinOp names the arithmetic, comparison, and logical binary operators.
type BinOp string

const (
	OpPlus  BinOp = "+"
	OpMinus BinOp = "-"
	OpMult  BinOp = "*"
	OpDiv   BinOp = "/"
	OpLt    BinOp = "<"
	OpLte   BinOp = "<="
	OpGt    BinOp = ">"
	OpGte   BinOp = ">="
	OpAnd   BinOp = "&&"
	OpOr    BinOp = "||"
)

// Ebinop — binary operation.
type Ebinop struct {
	ExprBase
	Op    BinOp
	Left  Expr
	Right Expr
}

func (e *Ebinop) exprNode()      {}
func (e *Ebinop) String() string { return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right) }

// UnOp names the unary operators.
type UnOp string

const (
	OpNeg UnOp = "-"
	OpNot UnOp = "!"
)

// Euop — unary operation.
type Euop struct {
	ExprBase
	Op      UnOp
	Operand Expr
}

func (e *Euop) exprNode()      {}
func (e *Euop) String() string { return fmt.Sprintf("%s%s", e.Op, e.Operand) }

// Elet — let binding.
type Elet struct {
	ExprBase
	Pattern Pattern
	Value   Expr
	Body    Expr
}

func (e *Elet) exprNode() {}
func (e *Elet) String() string {
	return fmt.Sprintf("let %s = %s in %s", e.Pattern, e.Value, e.Body)
}

// Eif — conditional.
type Eif struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

func (e *Eif) exprNode() {}
func (e *Eif) String() string {
	return fmt.Sprintf("if %s then %s else %s", e.Cond, e.Then, e.Else)
}

// MatchArm — one arm of a match expression.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

// Ematch — pattern match.
type Ematch struct {
	ExprBase
	Scrutinee Expr
	Arms      []MatchArm
}

func (e *Ematch) exprNode()      {}
func (e *Ematch) String() string { return fmt.Sprintf("match %s { ... }", e.Scrutinee) }

// Eseq — sequencing; left evaluated for effect, right for value.
type Eseq struct {
	ExprBase
	Left  Expr
	Right Expr
}

func (e *Eseq) exprNode()      {}
func (e *Eseq) String() string { return fmt.Sprintf("%s; %s", e.Left, e.Right) }

// Eobs — an observed (borrowed) reference to a linear value.
type Eobs struct {
	ExprBase
	Name string
}

func (e *Eobs) exprNode()      {}
func (e *Eobs) String() string { return fmt.Sprintf("obs %s", e.Name) }

// Eapply — function application, including the five array primitives and
// calls to other definitions in the module.
type Eapply struct {
	ExprBase
	Func string
	Args []Expr
	// ResultTypes is the expected result type list at this call site;
	// the normalizer's termination check inspects it for Tany.
	ResultTypes []surfacetypes.Type
}

func (e *Eapply) exprNode()      {}
func (e *Eapply) String() string { return fmt.Sprintf("%s(...)", e.Func) }
