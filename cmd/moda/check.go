package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/moda-xyz/go-moda/balance"
	"github.com/moda-xyz/go-moda/flatten"
	"github.com/moda-xyz/go-moda/parser"
)

func checkCmd(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	model := fs.String("model", "", "Root model class to check")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: moda check <table.json> --model <name>

Flatten a model and report whether its equation count matches its
unknown count. Exits non-zero for an unbalanced model.
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

	res := balance.CheckClass(flat)
	fmt.Println(res.StatusMessage())
	fmt.Printf("  states: %d  algebraic: %d  parameters: %d  inputs: %d\n",
		res.NumStates, res.NumAlgebraic, res.NumParameters, res.NumInputs)

	if !res.IsBalanced {
		return fmt.Errorf("model %s is not balanced", *model)
	}
	return nil
}
