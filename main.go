package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"bantam-compiler/config"
	"bantam-compiler/diagnostics"
	"bantam-compiler/loader"
	"bantam-compiler/printer"
	"bantam-compiler/semant"
)

func main() {
	inputFile := flag.String("i", "", "Input program (YAML syntax tree)")
	configFile := flag.String("config", "", "Configuration file (default "+config.DefaultFile+" if present)")
	format := flag.String("format", "", "Diagnostic format: text, json or yaml")
	color := flag.String("color", "", "Colored diagnostics: auto, always or never")
	showTypes := flag.Bool("types", false, "Print the program annotated with resolved types")
	showLocals := flag.Bool("locals", false, "Print the number of local variable slots per method")
	verbose := flag.Bool("v", false, "Report progress")
	flag.Parse()

	progress := func(msg string, args ...any) {
		if *verbose {
			fmt.Printf(msg+"\n", args...)
		}
	}

	if *inputFile == "" {
		fmt.Println("Error: Input file is required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if *format != "" {
		cfg.Format = diagnostics.Format(*format)
	}
	if *color != "" {
		cfg.Color = diagnostics.ColorMode(*color)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Error in command line: %v", err)
	}

	progress("Loading program: %s", *inputFile)
	program, err := loader.New().LoadProgram(*inputFile)
	if err != nil {
		log.Fatalf("Error loading program: %v", err)
	}

	progress("Performing semantic analysis...")
	sink := diagnostics.NewCollector()
	analyzer := semant.NewAnalyzer(sink)
	analyzer.EntryClass = cfg.EntryClass
	analyzer.EntryMethod = cfg.EntryMethod
	result := analyzer.Analyze(program)

	if *showTypes {
		pcfg := &printer.Config{Mode: printer.ResolvedTypes}
		if err := pcfg.Fprint(os.Stdout, program); err != nil {
			log.Fatalf("Error printing program: %v", err)
		}
	}

	if *showLocals {
		keys := make([]string, 0, len(result.LocalVars))
		for k := range result.LocalVars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s -> %d\n", k, result.LocalVars[k])
		}
	}

	if sink.HasErrors() {
		opts := diagnostics.ReportOptions{
			Format: cfg.Format,
			Color:  diagnostics.ColorEnabled(cfg.Color, os.Stderr),
			Limit:  cfg.MaxErrors,
		}
		if err := diagnostics.Write(os.Stderr, sink.Diagnostics(), opts); err != nil {
			log.Fatalf("Error writing diagnostics: %v", err)
		}
		os.Exit(1)
	}

	progress("Semantic analysis completed without errors")
}
