package reporter

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var registerOnce sync.Once

// registerCatalog wires the "N call site(s)" pluralization Summarize uses
// for its count of distinct bound_up witness positions.
func registerCatalog() {
	registerOnce.Do(func() {
		message.Set(language.English, "%d call site",
			plural.Selectf(1, "%d",
				"=1", "1 call site",
				"other", "%d call sites",
			))
	})
}

// Collector accumulates reports during a pass. Bound-check failures are
// side effects — analysis continues after one is recorded (spec §4.2
// "Failure semantics") — so Collector never stops the walk, it only
// remembers what happened.
type Collector struct {
	reports []*Report
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector { return &Collector{} }

// Report records r.
func (c *Collector) Report(r *Report) { c.reports = append(c.reports, r) }

// Reports returns every report recorded so far, in emission order.
func (c *Collector) Reports() []*Report { return c.reports }

// HasErrors reports whether any error was recorded.
func (c *Collector) HasErrors() bool { return len(c.reports) > 0 }

// Render formats every collected report as human-readable text, one line
// per report, in the "pos: code: message" shape, with " (witness: pos)"
// appended when the report carries a witness.
func Render(reports []*Report) string {
	var b strings.Builder
	for _, r := range reports {
		fmt.Fprintf(&b, "%s: %s: %s", r.Pos, r.Code, r.Message)
		if r.Witness != nil {
			fmt.Fprintf(&b, " (witness: %s)", *r.Witness)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Summarize renders a trailing "N call site(s) implicated" line, counting
// distinct witness positions across all bound_up reports.
func Summarize(reports []*Report) string {
	registerCatalog()
	p := message.NewPrinter(language.English)
	seen := map[string]bool{}
	for _, r := range reports {
		if r.Kind == KindBoundUp && r.Witness != nil {
			seen[r.Witness.String()] = true
		}
	}
	if len(seen) == 0 {
		return ""
	}
	return p.Sprintf("%d call site", len(seen)) + " implicated in bound_up reports\n"
}
