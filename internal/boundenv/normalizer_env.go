package boundenv

import (
	"github.com/sunholo/boundsafe/internal/srcpos"
	"github.com/sunholo/boundsafe/internal/stripped"
)

// DeclSig is one entry of the normalizer environment: a function's
// declaration position and its monomorphic signature.
type DeclSig struct {
	Pos srcpos.Pos
	Sig stripped.Tfun
}

// NormalizerEnv maps function identifiers to their collected signatures
// — built once per module before any per-definition rewriting begins
// (spec §4.1, normalize_module).
type NormalizerEnv struct {
	sigs map[string]DeclSig
}

// NewNormalizerEnv returns an empty normalizer environment.
func NewNormalizerEnv() *NormalizerEnv {
	return &NormalizerEnv{sigs: make(map[string]DeclSig)}
}

// Add records fn's signature. Normalize_module calls this once per
// top-level declaration before rewriting any def.
func (e *NormalizerEnv) Add(name string, sig DeclSig) {
	e.sigs[name] = sig
}

// Lookup returns fn's signature, if collected.
func (e *NormalizerEnv) Lookup(name string) (DeclSig, bool) {
	sig, ok := e.sigs[name]
	return sig, ok
}
