package boundenv

import "github.com/sunholo/boundsafe/internal/absint"

// callState tracks spec §4.2's Fresh → Entered → Settled state machine.
// "Fresh" itself is represented by key-absence, not a state value.
type callState int

const (
	entered callState = iota
	settled
)

type memoEntry struct {
	state   callState
	results []absint.Value
}

// MemoTable is the per-module memoization table: (callee id, abstract
// argument list) to the most recently proven result list. Shared for
// the whole module pass, mutated only by the goroutine analyzing that
// module (spec §5).
type MemoTable struct {
	entries map[string]*memoEntry
}

// NewMemoTable returns an empty table.
func NewMemoTable() *MemoTable {
	return &MemoTable{entries: make(map[string]*memoEntry)}
}

func key(calleeID string, args []absint.Value) string {
	return calleeID + "#" + absint.KeyList(args)
}

// Lookup returns the memoized (possibly still-placeholder) result list
// for this call, and true if a call with this key is Entered or
// Settled. A hit during Entered is the one-shot recursion
// approximation spec §4.2 describes — it is never re-interpreted.
func (m *MemoTable) Lookup(calleeID string, args []absint.Value) ([]absint.Value, bool) {
	e, ok := m.entries[key(calleeID, args)]
	if !ok {
		return nil, false
	}
	return e.results, true
}

// Enter places an Undef-valued placeholder for each of n result
// components, moving the call from Fresh to Entered. This must be
// called before the callee's body is interpreted, so a recursive call
// back to the same key resolves to the placeholder instead of looping.
func (m *MemoTable) Enter(calleeID string, args []absint.Value, n int) {
	placeholder := make([]absint.Value, n)
	for i := range placeholder {
		placeholder[i] = absint.Undef{}
	}
	m.entries[key(calleeID, args)] = &memoEntry{state: entered, results: placeholder}
}

// Settle overwrites the Entered placeholder with the computed result
// list, moving the call to Settled.
func (m *MemoTable) Settle(calleeID string, args []absint.Value, results []absint.Value) {
	m.entries[key(calleeID, args)] = &memoEntry{state: settled, results: results}
}
