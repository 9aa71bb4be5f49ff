package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/moda-xyz/go-moda/blt"
	"github.com/moda-xyz/go-moda/dae"
	"github.com/moda-xyz/go-moda/flatten"
	"github.com/moda-xyz/go-moda/parser"
)

func orderCmd(args []string) error {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	model := fs.String("model", "", "Root model class to order")
	showMatch := fs.Bool("match", false, "Also run structural matching and report unmatched equations")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: moda order <table.json> --model <name> [options]

Flatten and assemble a model, then print its continuous equations in
evaluation order, marking algebraic loops.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("class table file required")
	}
	if *model == "" {
		fs.Usage()
		return fmt.Errorf("--model is required")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read table: %w", err)
	}
	table, err := parser.FromJSON(data)
	if err != nil {
		return fmt.Errorf("parse table: %w", err)
	}

	flat, err := flatten.Flatten(table, *model)
	if err != nil {
		return err
	}
	d, err := dae.Assemble(flat)
	if err != nil {
		return err
	}

	result := blt.Order(d.FX)
	n := 0
	for _, scc := range result.SCCs {
		if len(scc) > 1 {
			fmt.Printf("-- algebraic loop (%d equations) --\n", len(scc))
		}
		for range scc {
			fmt.Printf("%3d: %s\n", n+1, result.Equations[n].String())
			n++
		}
	}

	if *showMatch {
		known := knownVariables(d)
		m := blt.Match(d.FX, known)
		if m.Complete {
			fmt.Println("matching: complete")
		} else {
			fmt.Printf("matching: %d unmatched equations (structurally singular)\n", len(m.Unmatched))
			for _, i := range m.Unmatched {
				fmt.Printf("  %s\n", d.FX[i].String())
			}
		}
	}
	return nil
}

// knownVariables collects the names matching must not assign: parameters,
// constants, inputs, time and pre-event values.
func knownVariables(d *dae.Dae) map[string]bool {
	known := map[string]bool{"time": true}
	for _, m := range []interface{ Keys() []string }{d.P, d.CP, d.U, d.PreX, d.PreZ, d.PreM} {
		for _, k := range m.Keys() {
			known[k] = true
		}
	}
	return known
}
