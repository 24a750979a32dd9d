package typedast

import (
	"fmt"
	"strings"

	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/surfacetypes"
)

// Pattern is implemented by every pattern node kind. Patterns bind names
// in let, function-argument, and match-arm position.
type Pattern interface {
	fmt.Stringer
	GetPos() srcpos.Pos
	patternNode()
}

type patBase struct {
	Pos srcpos.Pos
}

func (p patBase) GetPos() srcpos.Pos { return p.Pos }

// PVar binds a single name.
type PVar struct {
	patBase
	Name string
	Type surfacetypes.Type
}

func (p *PVar) patternNode()   {}
func (p *PVar) String() string { return p.Name }

// NewPVar builds a PVar at pos. Exported so collaborators outside this
// package (the fixture loader) can construct patterns without reaching
// into the unexported patBase embedding.
func NewPVar(pos srcpos.Pos, name string, ty surfacetypes.Type) *PVar {
	return &PVar{patBase: patBase{Pos: pos}, Name: name, Type: ty}
}

// PWild discards the matched value.
type PWild struct{ patBase }

func (p *PWild) patternNode()   {}
func (p *PWild) String() string { return "_" }

// NewPWild builds a PWild at pos.
func NewPWild(pos srcpos.Pos) *PWild { return &PWild{patBase: patBase{Pos: pos}} }

// PTuple destructures a tuple.
type PTuple struct {
	patBase
	Elems []Pattern
}

func (p *PTuple) patternNode() {}
func (p *PTuple) String() string {
	parts := make([]string, len(p.Elems))
	for i, e := range p.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// NewPTuple builds a PTuple at pos.
func NewPTuple(pos srcpos.Pos, elems []Pattern) *PTuple {
	return &PTuple{patBase: patBase{Pos: pos}, Elems: elems}
}

// PVariant destructures a tagged variant.
type PVariant struct {
	patBase
	Tag     string
	Payload []Pattern
}

func (p *PVariant) patternNode() {}
func (p *PVariant) String() string {
	return fmt.Sprintf("%s(...)", p.Tag)
}

// NewPVariant builds a PVariant at pos.
func NewPVariant(pos srcpos.Pos, tag string, payload []Pattern) *PVariant {
	return &PVariant{patBase: patBase{Pos: pos}, Tag: tag, Payload: payload}
}

// PRecord destructures a record by field.
type PRecord struct {
	patBase
	Fields map[string]Pattern
	Order  []string
}

func (p *PRecord) patternNode()   {}
func (p *PRecord) String() string { return "{...}" }

// NewPRecord builds a PRecord at pos.
func NewPRecord(pos srcpos.Pos, fields map[string]Pattern, order []string) *PRecord {
	return &PRecord{patBase: patBase{Pos: pos}, Fields: fields, Order: order}
}
