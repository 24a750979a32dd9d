package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sunholo/boundsafe/internal/config"
	"github.com/sunholo/boundsafe/internal/fixture"
	"github.com/sunholo/boundsafe/internal/pipeline"
	"github.com/sunholo/boundsafe/internal/reporter"
	"github.com/sunholo/boundsafe/internal/typedast"
)

var (
	// Version info - set by ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag     = flag.Bool("version", false, "Print version information")
		helpFlag        = flag.Bool("help", false, "Show help")
		jsonFlag        = flag.Bool("json", false, "Emit reports as JSON instead of human-readable text")
		failFastFlag    = flag.Bool("fail-fast", false, "Stop launching further modules once one reports an error")
		concurrencyFlag = flag.Int("concurrency", 0, "Number of modules to analyze in parallel (0 = sequential)")
		configFlag      = flag.String("config", "", "Path to a boundsafe.yaml project config")
		interactiveFlag = flag.Bool("i", false, "Re-run the checker on one fixture file each time enter is pressed")
	)

	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	command := flag.Arg(0)
	switch command {
	case "check":
		paths := flag.Args()[1:]
		cfg, err := resolveConfig(*configFlag, *failFastFlag, *concurrencyFlag, *jsonFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
		if !cfg.ColorEnabled() {
			color.NoColor = true
		}
		if len(paths) == 0 {
			paths = cfg.Modules
		}
		if *interactiveFlag {
			if len(paths) != 1 {
				fmt.Fprintf(os.Stderr, "%s: check -i takes exactly one fixture file\n", red("Error"))
				os.Exit(1)
			}
			runInteractive(paths[0], cfg)
			return
		}
		if len(paths) == 0 {
			fmt.Fprintf(os.Stderr, "%s: missing fixture file argument(s)\n", red("Error"))
			fmt.Println("Usage: boundsafe check <file.json...>")
			os.Exit(1)
		}
		os.Exit(runCheck(paths, cfg))

	case "version":
		printVersion()

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("boundsafe %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
}

func printHelp() {
	fmt.Println(bold("boundsafe - static array-bounds-safety checker"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  boundsafe <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  check <file.json...>   Analyze one or more typed-AST module fixtures")
	fmt.Println("  version                Print version information")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --json            Emit reports as JSON")
	fmt.Println("  --fail-fast       Stop launching further modules after the first error")
	fmt.Println("  --concurrency N   Analyze up to N modules in parallel")
	fmt.Println("  --config path     Load settings from a boundsafe.yaml project config")
	fmt.Println("  -i                Re-check one fixture each time enter is pressed")
}

func resolveConfig(path string, failFast bool, concurrency int, jsonOut bool) (config.Config, error) {
	if path == "" {
		return config.Config{FailFast: failFast, Concurrency: concurrency, JSON: jsonOut}, nil
	}
	loaded, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	cfg := *loaded
	if failFast {
		cfg.FailFast = true
	}
	if concurrency != 0 {
		cfg.Concurrency = concurrency
	}
	if jsonOut {
		cfg.JSON = true
	}
	return cfg, nil
}

// runCheck loads and analyzes every fixture in paths, printing results, and
// returns the process exit code (1 if any module reported an error).
func runCheck(paths []string, cfg config.Config) int {
	mods, err := loadModules(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 1
	}

	results := pipeline.AnalyzeModules(mods, pipeline.Config{
		Concurrency: cfg.Concurrency,
		FailFast:    cfg.FailFast,
	})

	exit := 0
	for _, res := range results {
		if res.Module == nil {
			// Never analyzed: fail-fast stopped the run before this module.
			continue
		}
		if len(res.Reports) > 0 {
			exit = 1
		}
		printResult(res, cfg)
	}
	return exit
}

func printResult(res pipeline.ModuleResult, cfg config.Config) {
	if cfg.JSON {
		for _, r := range res.Reports {
			js, err := r.ToJSON(false)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
				continue
			}
			fmt.Println(js)
		}
		return
	}

	if len(res.Reports) == 0 {
		fmt.Printf("%s %s: no bound-safety violations found\n", green("ok"), res.Module.ID)
		return
	}
	fmt.Printf("%s %s: %d violation(s)\n", red("fail"), res.Module.ID, len(res.Reports))
	fmt.Print(reporter.Render(res.Reports))
	if summary := reporter.Summarize(res.Reports); summary != "" {
		fmt.Print(summary)
	}
}

func loadModules(paths []string) ([]*typedast.Module, error) {
	mods := make([]*typedast.Module, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		mod, err := fixture.Load(data)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", p, err)
		}
		mods = append(mods, mod)
	}
	return mods, nil
}
