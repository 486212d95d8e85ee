// Command inspect-universe runs a query file against one or more universe
// snapshots and prints what the type resolver makes of each.
//
//	inspect-universe -queries q.yaml [-format text|yaml] [-options opts.yaml] universe.yaml...
//
// Every universe gets its own session; files are inspected in parallel.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/speakeasy-api/symtypes/engine"
	"github.com/speakeasy-api/symtypes/pkg/typeinspect"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("inspect-universe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	queriesPath := fs.String("queries", "", "query file (required)")
	format := fs.String("format", "", "output format: text or yaml (default: text on a terminal, yaml otherwise)")
	optionsPath := fs.String("options", "", "session options overlay")
	bitVecs := fs.Bool("bitvecs", false, "show bit-vector encodings in text output")
	width := fs.Int("width", 100, "truncate text cells wider than this (0 = no limit)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *queriesPath == "" || fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: inspect-universe -queries FILE [flags] UNIVERSE...")
		fs.PrintDefaults()
		return 2
	}
	if *format == "" {
		*format = "yaml"
		if isTerminal(stdout) {
			*format = "text"
		}
	}
	if *format != "text" && *format != "yaml" {
		fmt.Fprintf(stderr, "invalid format %q\n", *format)
		return 2
	}

	queries, err := os.ReadFile(*queriesPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	opts := engine.DefaultOptions()
	if *optionsPath != "" {
		f, err := os.Open(*optionsPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		opts, err = engine.LoadOptions(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s: %v\n", *optionsPath, err)
			return 1
		}
	}
	if opts.LogLevel != "" && opts.LogWriter == nil {
		opts.LogWriter = stderr
	}

	reports, err := inspectAll(ctx, fs.Args(), string(queries), opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	code := 0
	for _, r := range reports {
		switch *format {
		case "text":
			err = typeinspect.RenderText(stdout, r, typeinspect.TextOptions{MaxCellWidth: *width, BitVecs: *bitVecs})
		case "yaml":
			fmt.Fprintf(stdout, "---\n")
			err = typeinspect.RenderYAML(stdout, r)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if msg := typeinspect.FormatQueryErrors(r); msg != "" {
			fmt.Fprintf(stderr, "%s:\n%s", r.Source, msg)
		}
		if r.Failed() {
			code = 1
		}
	}
	return code
}

// inspectAll inspects every universe file in its own session. Reports come
// back in argument order.
func inspectAll(ctx context.Context, paths []string, queries string, opts engine.Options) ([]*typeinspect.Report, error) {
	reports := make([]*typeinspect.Report, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			universe, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			r, err := typeinspect.Inspect(string(universe), queries, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			r.Source = path
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
