package srcpos

import "sort"

// Set is an ordered set of Pos values, kept as a sorted slice. Empty sets
// are the overwhelmingly common case in the bound checker (most integers
// carry no array-creation witnesses at all), so Set is a plain nil-able
// slice rather than a map — no allocation until the first element lands.
//
// Mirrors the "collect into a map, then sort for determinism" shape used
// for effect-row labels elsewhere in this codebase family; a Set never
// needs map-style key lookup here, only membership, union and
// intersection, so the sorted slice skips the map entirely.
type Set []Pos

// NewSet builds a Set from the given positions, deduplicating and sorting.
func NewSet(ps ...Pos) Set {
	if len(ps) == 0 {
		return nil
	}
	s := append(Set(nil), ps...)
	sort.Slice(s, func(i, j int) bool { return s[i].Less(s[j]) })
	out := s[:0]
	for i, p := range s {
		if i == 0 || p != s[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// Contains reports whether p is a member.
func (s Set) Contains(p Pos) bool {
	i := sort.Search(len(s), func(i int) bool { return !s[i].Less(p) })
	return i < len(s) && s[i] == p
}

// Union returns a new Set containing every position in s or other.
func (s Set) Union(other Set) Set {
	if len(s) == 0 {
		return other
	}
	if len(other) == 0 {
		return s
	}
	merged := make([]Pos, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)
	return NewSet(merged...)
}

// Intersect returns a new Set containing positions present in both s and other.
func (s Set) Intersect(other Set) Set {
	if len(s) == 0 || len(other) == 0 {
		return nil
	}
	var out Set
	for _, p := range s {
		if other.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// Minus returns a new Set containing positions of s not present in other.
func (s Set) Minus(other Set) Set {
	if len(s) == 0 || len(other) == 0 {
		return s
	}
	var out Set
	for _, p := range s {
		if !other.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// Any returns an arbitrary element and true, or the zero Pos and false if
// the set is empty. Used to pick a witness position for bound_up reports.
func (s Set) Any() (Pos, bool) {
	if len(s) == 0 {
		return Pos{}, false
	}
	return s[0], true
}

// Empty reports whether the set has no members.
func (s Set) Empty() bool { return len(s) == 0 }
