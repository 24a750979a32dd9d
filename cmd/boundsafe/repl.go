package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/sunholo/boundsafe/internal/config"
	"github.com/sunholo/boundsafe/internal/fixture"
	"github.com/sunholo/boundsafe/internal/pipeline"
	"github.com/sunholo/boundsafe/internal/typedast"
)

// runInteractive re-runs the checker against one fixture file every time
// the operator presses enter, so an edit-save-recheck loop never leaves
// the terminal. Grounded on the teacher's REPL input loop, repurposed
// from evaluating expressions to re-analyzing a file on disk.
func runInteractive(path string, cfg config.Config) {
	line := liner.NewLiner()
	defer line.Close()

	fmt.Printf("%s %s\n", bold("boundsafe"), bold(Version))
	fmt.Printf("watching %s — press enter to re-check, :quit to exit\n", path)
	fmt.Println()

	recheck(path, cfg)

	for {
		input, err := line.Prompt("boundsafe> ")
		if err == io.EOF {
			fmt.Println("\nGoodbye!")
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			continue
		}
		if strings.TrimSpace(input) == ":quit" {
			fmt.Println("Goodbye!")
			return
		}
		recheck(path, cfg)
	}
}

func recheck(path string, cfg config.Config) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: reading %s: %v\n", red("Error"), path, err)
		return
	}
	mod, err := fixture.Load(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: loading %s: %v\n", red("Error"), path, err)
		return
	}

	results := pipeline.AnalyzeModules([]*typedast.Module{mod}, pipeline.Config{
		Concurrency: cfg.Concurrency,
		FailFast:    cfg.FailFast,
	})
	for _, res := range results {
		printResult(res, cfg)
	}
}
