// Package pipeline wires the Normalizer and Bound Checker into the
// two-pass driver spec §5 describes: each module is normalized, then
// bound-checked, with no state surviving between modules. Independent
// modules may be analyzed concurrently, since each owns its bound-check
// environment (value env, array records, memo table) exclusively.
package pipeline

import (
	"sync/atomic"

	"github.com/sunholo/boundsafe/internal/boundcheck"
	"github.com/sunholo/boundsafe/internal/normalize"
	"github.com/sunholo/boundsafe/internal/registry"
	"github.com/sunholo/boundsafe/internal/reporter"
	"github.com/sunholo/boundsafe/internal/typedast"
)

// Config controls one AnalyzeModules run.
type Config struct {
	// Names designates the well-known identifiers the passes recognize
	// by identity. Default() is used if Names is the zero value.
	Names registry.Names

	// Concurrency is the number of modules analyzed in parallel. Values
	// less than 1 mean sequential (one module at a time), matching
	// spec §5's "single-threaded and purely CPU-bound" default; set it
	// above 1 to fan modules out across goroutines, one memo table per
	// module, no cross-module sharing.
	Concurrency int

	// FailFast stops launching further modules once one has reported at
	// least one error. Already-launched modules still finish.
	FailFast bool
}

// ModuleResult is one module's outcome: its normalized form and the
// reports raised against it by either pass.
type ModuleResult struct {
	Module  *typedast.Module
	Reports []*reporter.Report
}

// AnalyzeModules runs the normalizer then the bound checker over every
// module in mods, returning one ModuleResult per input module in the
// same order regardless of concurrency. When FailFast ends the run early,
// the entries of modules that were never analyzed stay zero-valued (nil
// Module, no reports).
func AnalyzeModules(mods []*typedast.Module, cfg Config) []ModuleResult {
	names := cfg.Names
	if names == (registry.Names{}) {
		names = registry.Default()
	}

	results := make([]ModuleResult, len(mods))
	if cfg.Concurrency <= 1 {
		for i, m := range mods {
			results[i] = analyzeOne(m, names)
			if cfg.FailFast && len(results[i].Reports) > 0 {
				break
			}
		}
		return results
	}

	sem := make(chan struct{}, cfg.Concurrency)
	done := make(chan int, len(mods))
	var failed atomic.Bool
	launched := 0
	for i, m := range mods {
		i, m := i, m
		sem <- struct{}{}
		if cfg.FailFast && failed.Load() {
			<-sem
			break
		}
		launched++
		go func() {
			defer func() { <-sem }()
			results[i] = analyzeOne(m, names)
			if len(results[i].Reports) > 0 {
				failed.Store(true)
			}
			done <- i
		}()
	}
	for n := 0; n < launched; n++ {
		<-done
	}
	return results
}

func analyzeOne(m *typedast.Module, names registry.Names) ModuleResult {
	col := reporter.NewCollector()
	stripped := normalize.New(names, col).NormalizeModule(m)
	boundcheck.New(names, col).AnalyzeModule(stripped)
	return ModuleResult{Module: m, Reports: col.Reports()}
}
