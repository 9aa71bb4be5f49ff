package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/moda-xyz/go-moda/flatten"
	"github.com/moda-xyz/go-moda/parser"
)

func flattenCmd(args []string) error {
	fs := flag.NewFlagSet("flatten", flag.ExitOnError)
	model := fs.String("model", "", "Root model class to flatten")
	override := fs.Bool("override-extends", false, "Let later extends clauses replace inherited components")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: moda flatten <table.json> --model <name> [options]

Flatten a model class: resolve extends clauses and expand component
instances into a single flat class, printed as source text.

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

	var opts []flatten.Option
	if *override {
		opts = append(opts, flatten.WithOverrideExtends(true))
	}
	flat, err := flatten.Flatten(table, *model, opts...)
	if err != nil {
		return err
	}

	fmt.Println(flat.String())
	return nil
}
