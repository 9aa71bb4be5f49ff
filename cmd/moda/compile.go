package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/moda-xyz/go-moda/compiler"
	"github.com/moda-xyz/go-moda/parser"
	"github.com/moda-xyz/go-moda/store"
	"github.com/moda-xyz/go-moda/workspace"
)

func compileCmd(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	models := fs.String("models", "", "Comma-separated root model classes (required)")
	output := fs.String("output", "", "Write the report JSON to this file (single model only)")
	dbPath := fs.String("db", "", "Save reports to this SQLite database")
	workers := fs.Int("workers", 0, "Concurrent compilations (default: number of CPUs)")
	verbose := fs.Bool("verbose", false, "Log progress to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: moda compile <table.json> --models <name>[,<name>...] [options]

Run the full pipeline for each model: flatten, assemble the DAE, order
the equations and check the balance. Reports go to stdout, a file, or a
report database.

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
	if *models == "" {
		fs.Usage()
		return fmt.Errorf("--models is required")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read table: %w", err)
	}
	table, err := parser.FromJSON(data)
	if err != nil {
		return fmt.Errorf("parse table: %w", err)
	}

	roots := strings.Split(*models, ",")
	for i := range roots {
		roots[i] = strings.TrimSpace(roots[i])
	}

	ctx := context.Background()
	if *verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		ctx = workspace.WithLogger(ctx, logger)
	}

	var wsOpts []workspace.Option
	if *workers > 0 {
		wsOpts = append(wsOpts, workspace.WithWorkers(*workers))
	}
	ws := workspace.New(wsOpts...)

	outcomes, err := ws.CompileAll(ctx, table, roots)
	if err != nil {
		return err
	}

	var st store.Store
	if *dbPath != "" {
		st, err = store.NewSQLiteStore(*dbPath)
		if err != nil {
			return fmt.Errorf("open report database: %w", err)
		}
		defer st.Close()
	}

	failed := 0
	for _, root := range roots {
		oc := outcomes[root]
		if oc == nil {
			continue
		}
		if oc.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", root, oc.Err)
			continue
		}
		report := oc.Output.Report
		if st != nil {
			if err := st.Save(ctx, store.NewRecord(report)); err != nil {
				return fmt.Errorf("save report: %w", err)
			}
		}
		if *output != "" && len(roots) == 1 {
			if err := compiler.WriteJSON(report, *output); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", *output)
			continue
		}
		fmt.Printf("%s: %s\n", root, report.Balance.Status)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d models failed", failed, len(roots))
	}
	return nil
}
