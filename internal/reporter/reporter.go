package reporter

import "github.com/sunholo/boundsafe/internal/srcpos"

// Reporter is the collaborator interface spec §4.3 describes: it consumes
// a (kind, position) pair and, for bound_up, a second witness position.
// The normalizer and bound checker depend only on this interface, never
// on Collector directly, so callers may substitute a reporter that fails
// fast instead of accumulating.
type Reporter interface {
	Report(r *Report)
}

// Emit is a convenience wrapper building and reporting in one call.
func Emit(r Reporter, kind Kind, pos srcpos.Pos) {
	r.Report(New(kind, pos, nil))
}

// EmitWithWitness is Emit plus a witness position (bound_up only).
func EmitWithWitness(r Reporter, kind Kind, pos, witness srcpos.Pos) {
	r.Report(New(kind, pos, &witness))
}
