// Package srcpos defines the opaque source-location token threaded through
// every stage of the analysis: typed-surface AST, stripped AST, the abstract
// value lattice, and the error reporter.
package srcpos

import "fmt"

// Pos identifies a single AST node's source location. Two Pos values are
// equal iff they designate the same node — NodeID is the identity; Line/
// Column/File are carried only for rendering.
type Pos struct {
	NodeID uint64
	Line   int
	Column int
	File   string
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Less gives Pos a total order keyed by NodeID, so Set can keep a
// deterministic sorted representation regardless of insertion order.
func (p Pos) Less(other Pos) bool {
	return p.NodeID < other.NodeID
}

// Span covers a range of source text; only the Start position participates
// in identity comparisons elsewhere in the pipeline.
type Span struct {
	Start Pos
	End   Pos
}
