package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/moda-xyz/go-moda/store"
)

func historyCmd(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	model := fs.String("model", "", "Only list reports for this model")
	limit := fs.Int("limit", 20, "Maximum number of reports to list")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: moda history <reports.db> [options]

List stored compilation reports, newest first.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("report database required")
	}

	st, err := store.NewSQLiteStore(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("open report database: %w", err)
	}
	defer st.Close()

	records, err := st.List(context.Background(), *model)
	if err != nil {
		return err
	}

	for i, rec := range records {
		if i >= *limit {
			break
		}
		state := "unbalanced"
		if rec.Balanced {
			state = "balanced"
		}
		fmt.Printf("%s  %-20s %-10s %s  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Model, rec.Status, state, rec.RunID)
	}
	if len(records) == 0 {
		fmt.Println("no reports")
	}
	return nil
}
