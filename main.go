package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sambeau/tally/config"
	"github.com/sambeau/tally/pkg/tally/ai"
	"github.com/sambeau/tally/pkg/tally/document"
	"github.com/sambeau/tally/pkg/tally/engine"
	"github.com/sambeau/tally/pkg/tally/repl"
	"github.com/sambeau/tally/pkg/tally/units"
	"github.com/sambeau/tally/store"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("tally", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configPath  = flags.String("config", "", "Path to config file")
		evalExpr    = flags.String("e", "", "Evaluate one expression and exit")
		watch       = flags.Bool("watch", false, "Re-evaluate the file on every change")
		htmlOut     = flags.Bool("html", false, "Render the file as HTML instead of text")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showHelp {
		printUsage(stdout)
		return nil
	}
	if *showVersion {
		fmt.Fprintf(stdout, "tally version %s\n", Version)
		return nil
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if len(cfg.Rates) > 0 {
		units.SetRates(cfg.Rates)
	}

	base := *engine.NewContext()
	base.EmBase = cfg.EmBase
	base.PPIBase = cfg.PPIBase
	base.DecimalPlaces = cfg.DecimalPlaces

	opts := []document.Option{document.WithBaseContext(base)}
	if cfg.AI.Enabled {
		opts = append(opts, document.WithFallback(&ai.Gemini{
			Model:  cfg.AI.Model,
			APIKey: cfg.AI.APIKey,
		}))
	}

	switch {
	case *evalExpr != "":
		return evalOnce(*evalExpr, base, stdout)
	case flags.NArg() > 0:
		path := flags.Arg(0)
		if *watch {
			return watchFile(ctx, path, opts, htmlMode(*htmlOut), stdout, stderr)
		}
		return runFile(ctx, path, opts, htmlMode(*htmlOut), stdout)
	default:
		doc := document.New("repl", opts...)
		repl.Start(stdout, Version, repl.Options{
			HistoryFile: cfg.HistoryFile,
			Doc:         doc,
		})
		return nil
	}
}

func evalOnce(expr string, base engine.Context, stdout io.Writer) error {
	res := engine.New().Evaluate(expr, &base)
	if res.IsError() {
		if res.IsSilent() {
			return nil
		}
		return fmt.Errorf("%s", res.Err)
	}
	fmt.Fprintln(stdout, res.Formatted)
	return nil
}

type htmlMode bool

// runFile evaluates every line of a calculator file and prints results
// aligned alongside the input, then the running total.
func runFile(ctx context.Context, path string, opts []document.Option, html htmlMode, stdout io.Writer) error {
	doc, err := loadFile(ctx, path, opts)
	if err != nil {
		return err
	}
	if html {
		out, err := doc.HTML()
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, out)
		return nil
	}
	printDocument(doc, stdout)
	return nil
}

func loadFile(ctx context.Context, path string, opts []document.Option) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := document.New(title, opts...)

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		var line = doc.Lines[0]
		if !first {
			line = doc.AddLine()
		}
		first = false
		doc.SetInput(line.ID, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc.CalculateAll(ctx)
	return doc, nil
}

func printDocument(doc *document.Document, stdout io.Writer) {
	width := 0
	for _, l := range doc.Lines {
		if len(l.Input) > width {
			width = len(l.Input)
		}
	}
	for _, l := range doc.Lines {
		if l.Result == nil || l.Result.IsSilent() {
			fmt.Fprintln(stdout, l.Input)
			continue
		}
		if l.Result.IsError() {
			fmt.Fprintf(stdout, "%-*s  ! %s\n", width, l.Input, l.Result.Err)
			continue
		}
		fmt.Fprintf(stdout, "%-*s  = %s\n", width, l.Input, l.Result.Formatted)
	}
	fmt.Fprintf(stdout, "%-*s  Σ %s\n", width, "", doc.Total().String())
}

// watchFile re-runs the file on every change until interrupted.
func watchFile(ctx context.Context, path string, opts []document.Option, html htmlMode, stdout, stderr io.Writer) error {
	if err := runFile(ctx, path, opts, html, stdout); err != nil {
		return err
	}

	watcher, err := store.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer watcher.Close()
	go watcher.Start(ctx)

	abs, _ := filepath.Abs(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-watcher.Changes():
			if !ok {
				return nil
			}
			changedAbs, _ := filepath.Abs(changed)
			if changedAbs != abs {
				continue
			}
			fmt.Fprintln(stdout, "")
			if err := runFile(ctx, path, opts, html, stdout); err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
			}
		}
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `tally - A natural-language calculator

Usage:
  tally [options] [file.tally]
  tally -e "expression"

Options:
  --config PATH    Path to config file (default: auto-detect)
  -e EXPR          Evaluate one expression and exit
  --watch          Re-evaluate the file whenever it changes
  --html           Render the file as HTML instead of text
  --version        Show version
  --help           Show this help

Config Resolution:
  1. --config flag
  2. TALLY_CONFIG environment variable
  3. ./tally.yaml
  4. ~/.config/tally/tally.yaml

Examples:
  tally                          Interactive calculator
  tally -e '20%% off $99.99'     One-shot evaluation
  tally budget.tally             Evaluate a file, print results and total
  tally --watch budget.tally     Live recalculation on save

`)
}
