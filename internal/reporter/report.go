package reporter

import (
	"encoding/json"

	"github.com/sunholo/boundsafe/internal/srcpos"
)

// Report is the canonical structured error type produced by this pass.
type Report struct {
	Schema  string      `json:"schema"` // always "boundsafe.error/v1"
	Code    string      `json:"code"`
	Phase   string      `json:"phase"`
	Kind    Kind        `json:"kind"`
	Message string      `json:"message"`
	Pos     srcpos.Pos  `json:"pos"`
	Witness *srcpos.Pos `json:"witness,omitempty"`
}

// New builds a Report for the given kind at pos, with an optional witness
// position (only meaningful for KindBoundUp, per spec §4.3).
func New(kind Kind, pos srcpos.Pos, witness *srcpos.Pos) *Report {
	return &Report{
		Schema:  "boundsafe.error/v1",
		Code:    kind.code(),
		Phase:   kind.phase(),
		Kind:    kind,
		Message: kind.defaultMessage(),
		Pos:     pos,
		Witness: witness,
	}
}

// ToJSON renders r as deterministic JSON. Map-free by construction, so no
// key-sorting pass is needed beyond what encoding/json already guarantees
// for struct fields.
func (r *Report) ToJSON(indent bool) (string, error) {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
