package boundcheck

import (
	"github.com/sunholo/boundsafe/internal/absint"
	"github.com/sunholo/boundsafe/internal/boundenv"
	"github.com/sunholo/boundsafe/internal/stripped"
)

// bindPattern binds p's names to results in env, returning the extended
// environment. Tuples are first-class, so results is a list positionally
// matched against tuple/variant/record sub-patterns; a PVar or PWild
// consumes exactly one result.
func bindPattern(p stripped.Pattern, results []absint.Sym, env *boundenv.ValueEnv) *boundenv.ValueEnv {
	switch pat := p.(type) {
	case *stripped.PVar:
		if len(results) == 0 {
			return env.Extend(pat.Name, absint.SymValue{V: absint.Undef{}})
		}
		return env.Extend(pat.Name, results[0])
	case *stripped.PWild:
		return env
	case *stripped.PTuple:
		for i, elem := range pat.Elems {
			var r []absint.Sym
			if i < len(results) {
				r = results[i : i+1]
			}
			env = bindPattern(elem, r, env)
		}
		return env
	case *stripped.PVariant:
		// Destructure the sole scrutinee value, if it resolved to Sum,
		// binding each payload pattern to that tag's stored values;
		// otherwise every sub-pattern starts Undef — sound, since Undef
		// is top.
		var payload []absint.Value
		if len(results) > 0 {
			if sum, ok := absint.Eval(env, results[0]).(absint.Sum); ok {
				payload = sum.Tags[pat.Tag]
			}
		}
		for i, elem := range pat.Payload {
			var r []absint.Sym
			if i < len(payload) {
				r = []absint.Sym{absint.SymValue{V: payload[i]}}
			}
			env = bindPattern(elem, r, env)
		}
		return env
	case *stripped.PRecord:
		var fields map[string][]absint.Value
		if len(results) > 0 {
			if rec, ok := absint.Eval(env, results[0]).(absint.Rec); ok {
				fields = rec.Fields
			}
		}
		for _, name := range pat.Order {
			elem := pat.Fields[name]
			var r []absint.Sym
			if vs, ok := fields[name]; ok && len(vs) > 0 {
				r = []absint.Sym{absint.SymValue{V: vs[0]}}
			}
			env = bindPattern(elem, r, env)
		}
		return env
	default:
		return env
	}
}
