// Package fixture decodes the JSON typed-AST module format the CLI and
// the interactive re-analysis REPL read from disk. There is no lexer or
// parser in this repository — spec.md's Non-goals explicitly exclude
// one — so a module to analyze arrives pre-typed, as a JSON tree mirroring
// internal/typedast's node shapes one-for-one.
package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/surfacetypes"
	"github.com/sunholo/boundsafe/internal/typedast"
)

// Load decodes a module from JSON bytes.
func Load(data []byte) (*typedast.Module, error) {
	var raw rawModule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding module: %w", err)
	}
	return raw.build()
}

type rawPos struct {
	NodeID uint64 `json:"node_id"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	File   string `json:"file"`
}

func (p rawPos) pos() srcpos.Pos {
	return srcpos.Pos{NodeID: p.NodeID, Line: p.Line, Column: p.Column, File: p.File}
}

type rawModule struct {
	ID    string    `json:"id"`
	Decls []rawDecl `json:"decls"`
	Defs  []rawDef  `json:"defs"`
}

type rawDecl struct {
	Pos      rawPos   `json:"pos"`
	Name     string   `json:"name"`
	Private  bool     `json:"private"`
	Domain   []rawTy  `json:"domain"`
	Codomain []rawTy  `json:"codomain"`
	TypeArgs []rawTy  `json:"type_args"`
}

type rawDef struct {
	Pos    rawPos   `json:"pos"`
	Name   string   `json:"name"`
	Params []rawPat `json:"params"`
	Body   rawExpr  `json:"body"`
}

func (m rawModule) build() (*typedast.Module, error) {
	out := &typedast.Module{ID: m.ID}
	for _, d := range m.Decls {
		dom, err := buildTypes(d.Domain)
		if err != nil {
			return nil, err
		}
		cod, err := buildTypes(d.Codomain)
		if err != nil {
			return nil, err
		}
		targs, err := buildTypes(d.TypeArgs)
		if err != nil {
			return nil, err
		}
		out.Decls = append(out.Decls, &typedast.Decl{
			Pos:      d.Pos.pos(),
			Name:     d.Name,
			Private:  d.Private,
			Sig:      typedast.Tfun{Domain: dom, Codomain: cod},
			TypeArgs: targs,
		})
	}
	for _, d := range m.Defs {
		params := make([]typedast.Pattern, 0, len(d.Params))
		for _, p := range d.Params {
			pat, err := p.build()
			if err != nil {
				return nil, err
			}
			params = append(params, pat)
		}
		body, err := d.Body.build()
		if err != nil {
			return nil, err
		}
		out.Defs = append(out.Defs, &typedast.Def{
			Pos:    d.Pos.pos(),
			Name:   d.Name,
			Params: params,
			Body:   body,
		})
	}
	return out, nil
}

// rawTy is the tagged-union encoding of surfacetypes.Type: {"kind":
// "prim"|"var"|"apply"|"fun"|"any"|"tuple", ...}.
type rawTy struct {
	Kind     string  `json:"kind"`
	Name     string  `json:"name,omitempty"`
	Ctor     string  `json:"ctor,omitempty"`
	Args     []rawTy `json:"args,omitempty"`
	Domain   []rawTy `json:"domain,omitempty"`
	Codomain []rawTy `json:"codomain,omitempty"`
	Elems    []rawTy `json:"elems,omitempty"`
}

func buildTypes(ts []rawTy) ([]surfacetypes.Type, error) {
	if ts == nil {
		return nil, nil
	}
	out := make([]surfacetypes.Type, 0, len(ts))
	for _, t := range ts {
		built, err := t.build()
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func (t rawTy) build() (surfacetypes.Type, error) {
	switch t.Kind {
	case "prim":
		return surfacetypes.TPrim{Name: t.Name}, nil
	case "var":
		return surfacetypes.TVar{Name: t.Name}, nil
	case "apply":
		args, err := buildTypes(t.Args)
		if err != nil {
			return nil, err
		}
		return surfacetypes.TApply{Ctor: t.Ctor, Args: args}, nil
	case "fun":
		dom, err := buildTypes(t.Domain)
		if err != nil {
			return nil, err
		}
		cod, err := buildTypes(t.Codomain)
		if err != nil {
			return nil, err
		}
		return surfacetypes.TFun{Domain: dom, Codomain: cod}, nil
	case "any":
		return surfacetypes.TAny{}, nil
	case "tuple":
		elems, err := buildTypes(t.Elems)
		if err != nil {
			return nil, err
		}
		return surfacetypes.TTuple{Elems: elems}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown type kind %q", t.Kind)
	}
}

// rawPat is the tagged-union encoding of typedast.Pattern.
type rawPat struct {
	Kind    string            `json:"kind"`
	Pos     rawPos            `json:"pos"`
	Name    string            `json:"name,omitempty"`
	Type    *rawTy            `json:"type,omitempty"`
	Elems   []rawPat          `json:"elems,omitempty"`
	Tag     string            `json:"tag,omitempty"`
	Payload []rawPat          `json:"payload,omitempty"`
	Fields  map[string]rawPat `json:"fields,omitempty"`
	Order   []string          `json:"order,omitempty"`
}

func (p rawPat) build() (typedast.Pattern, error) {
	pos := p.Pos.pos()
	switch p.Kind {
	case "var":
		var ty surfacetypes.Type
		if p.Type != nil {
			built, err := p.Type.build()
			if err != nil {
				return nil, err
			}
			ty = built
		}
		return typedast.NewPVar(pos, p.Name, ty), nil
	case "wild":
		return typedast.NewPWild(pos), nil
	case "tuple":
		elems, err := buildPats(p.Elems)
		if err != nil {
			return nil, err
		}
		return typedast.NewPTuple(pos, elems), nil
	case "variant":
		payload, err := buildPats(p.Payload)
		if err != nil {
			return nil, err
		}
		return typedast.NewPVariant(pos, p.Tag, payload), nil
	case "record":
		fields := make(map[string]typedast.Pattern, len(p.Fields))
		for k, v := range p.Fields {
			built, err := v.build()
			if err != nil {
				return nil, err
			}
			fields[k] = built
		}
		return typedast.NewPRecord(pos, fields, p.Order), nil
	default:
		return nil, fmt.Errorf("fixture: unknown pattern kind %q", p.Kind)
	}
}

func buildPats(ps []rawPat) ([]typedast.Pattern, error) {
	out := make([]typedast.Pattern, 0, len(ps))
	for _, p := range ps {
		built, err := p.build()
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

// rawExpr is the tagged-union encoding of typedast.Expr. Every kind name
// matches its Exxx constructor lowercased, minus the leading E, except
// Euop, whose kind is "unop".
type rawExpr struct {
	Kind string `json:"kind"`
	Pos  rawPos `json:"pos"`
	Type rawTy  `json:"type"`

	Name string `json:"name,omitempty"` // id, obs

	N int64 `json:"n,omitempty"` // value

	Tag     string    `json:"tag,omitempty"`     // variant
	Payload []rawExpr `json:"payload,omitempty"` // variant

	Fields map[string]rawExpr `json:"fields,omitempty"` // record, with
	Order  []string           `json:"order,omitempty"`  // record, with
	Base   *rawExpr           `json:"base,omitempty"`   // with

	Record *rawExpr `json:"record,omitempty"` // field
	Field  string   `json:"field,omitempty"`   // field

	Op      string   `json:"op,omitempty"`      // binop, unop
	Left    *rawExpr `json:"left,omitempty"`    // binop
	Right   *rawExpr `json:"right,omitempty"`   // binop
	Operand *rawExpr `json:"operand,omitempty"` // unop

	Pattern *rawPat  `json:"pattern,omitempty"` // let
	Value   *rawExpr `json:"value,omitempty"`   // let
	Body    *rawExpr `json:"body,omitempty"`    // let

	Cond *rawExpr `json:"cond,omitempty"` // if
	Then *rawExpr `json:"then,omitempty"` // if
	Else *rawExpr `json:"else,omitempty"` // if

	Scrutinee *rawExpr    `json:"scrutinee,omitempty"` // match
	Arms      []rawMatchArm `json:"arms,omitempty"`      // match

	Func        string   `json:"func,omitempty"`         // apply
	Args        []rawExpr `json:"args,omitempty"`        // apply
	ResultTypes []rawTy   `json:"result_types,omitempty"` // apply
}

type rawMatchArm struct {
	Pattern rawPat  `json:"pattern"`
	Body    rawExpr `json:"body"`
}

func (e rawExpr) build() (typedast.Expr, error) {
	ty, err := e.Type.build()
	if err != nil {
		return nil, err
	}
	base := typedast.ExprBase{Pos: e.Pos.pos(), Type: ty}

	switch e.Kind {
	case "id":
		return &typedast.Eid{ExprBase: base, Name: e.Name}, nil
	case "value":
		return &typedast.Evalue{ExprBase: base, N: e.N}, nil
	case "variant":
		payload, err := buildExprs(e.Payload)
		if err != nil {
			return nil, err
		}
		return &typedast.Evariant{ExprBase: base, Tag: e.Tag, Payload: payload}, nil
	case "record":
		fields, order, err := buildFieldExprs(e.Fields, e.Order)
		if err != nil {
			return nil, err
		}
		return &typedast.Erecord{ExprBase: base, Fields: fields, Order: order}, nil
	case "with":
		if e.Base == nil {
			return nil, fmt.Errorf("fixture: with expression missing base")
		}
		baseExpr, err := e.Base.build()
		if err != nil {
			return nil, err
		}
		fields, order, err := buildFieldExprs(e.Fields, e.Order)
		if err != nil {
			return nil, err
		}
		return &typedast.Ewith{ExprBase: base, Base: baseExpr, Fields: fields, Order: order}, nil
	case "field":
		if e.Record == nil {
			return nil, fmt.Errorf("fixture: field expression missing record")
		}
		rec, err := e.Record.build()
		if err != nil {
			return nil, err
		}
		return &typedast.Efield{ExprBase: base, Record: rec, Field: e.Field}, nil
	case "binop":
		if e.Left == nil || e.Right == nil {
			return nil, fmt.Errorf("fixture: binop expression missing operand")
		}
		left, err := e.Left.build()
		if err != nil {
			return nil, err
		}
		right, err := e.Right.build()
		if err != nil {
			return nil, err
		}
		return &typedast.Ebinop{ExprBase: base, Op: typedast.BinOp(e.Op), Left: left, Right: right}, nil
	case "unop":
		if e.Operand == nil {
			return nil, fmt.Errorf("fixture: unop expression missing operand")
		}
		operand, err := e.Operand.build()
		if err != nil {
			return nil, err
		}
		return &typedast.Euop{ExprBase: base, Op: typedast.UnOp(e.Op), Operand: operand}, nil
	case "let":
		if e.Pattern == nil || e.Value == nil || e.Body == nil {
			return nil, fmt.Errorf("fixture: let expression missing pattern, value or body")
		}
		pat, err := e.Pattern.build()
		if err != nil {
			return nil, err
		}
		val, err := e.Value.build()
		if err != nil {
			return nil, err
		}
		body, err := e.Body.build()
		if err != nil {
			return nil, err
		}
		return &typedast.Elet{ExprBase: base, Pattern: pat, Value: val, Body: body}, nil
	case "if":
		if e.Cond == nil || e.Then == nil || e.Else == nil {
			return nil, fmt.Errorf("fixture: if expression missing cond, then or else")
		}
		cond, err := e.Cond.build()
		if err != nil {
			return nil, err
		}
		then, err := e.Then.build()
		if err != nil {
			return nil, err
		}
		els, err := e.Else.build()
		if err != nil {
			return nil, err
		}
		return &typedast.Eif{ExprBase: base, Cond: cond, Then: then, Else: els}, nil
	case "match":
		if e.Scrutinee == nil {
			return nil, fmt.Errorf("fixture: match expression missing scrutinee")
		}
		scrut, err := e.Scrutinee.build()
		if err != nil {
			return nil, err
		}
		arms := make([]typedast.MatchArm, 0, len(e.Arms))
		for _, a := range e.Arms {
			pat, err := a.Pattern.build()
			if err != nil {
				return nil, err
			}
			body, err := a.Body.build()
			if err != nil {
				return nil, err
			}
			arms = append(arms, typedast.MatchArm{Pattern: pat, Body: body})
		}
		return &typedast.Ematch{ExprBase: base, Scrutinee: scrut, Arms: arms}, nil
	case "seq":
		if e.Left == nil || e.Right == nil {
			return nil, fmt.Errorf("fixture: seq expression missing left or right")
		}
		left, err := e.Left.build()
		if err != nil {
			return nil, err
		}
		right, err := e.Right.build()
		if err != nil {
			return nil, err
		}
		return &typedast.Eseq{ExprBase: base, Left: left, Right: right}, nil
	case "obs":
		return &typedast.Eobs{ExprBase: base, Name: e.Name}, nil
	case "apply":
		args, err := buildExprs(e.Args)
		if err != nil {
			return nil, err
		}
		resultTypes, err := buildTypes(e.ResultTypes)
		if err != nil {
			return nil, err
		}
		return &typedast.Eapply{ExprBase: base, Func: e.Func, Args: args, ResultTypes: resultTypes}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown expression kind %q", e.Kind)
	}
}

func buildExprs(es []rawExpr) ([]typedast.Expr, error) {
	out := make([]typedast.Expr, 0, len(es))
	for _, e := range es {
		built, err := e.build()
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func buildFieldExprs(fields map[string]rawExpr, order []string) (map[string]typedast.Expr, []string, error) {
	out := make(map[string]typedast.Expr, len(fields))
	for k, v := range fields {
		built, err := v.build()
		if err != nil {
			return nil, nil, err
		}
		out[k] = built
	}
	return out, order, nil
}
