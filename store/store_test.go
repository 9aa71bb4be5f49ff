package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moda-xyz/go-moda/ast"
	"github.com/moda-xyz/go-moda/compiler"
	"github.com/moda-xyz/go-moda/store"
)

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func() store.Store {
		return store.NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func() store.Store {
		st, err := store.NewSQLiteStore(":memory:")
		if err != nil {
			t.Fatalf("failed to create sqlite store: %v", err)
		}
		return st
	})
}

func compileReport(t *testing.T, model string) *compiler.Report {
	t.Helper()
	cls := ast.NewClassDefinition(model, ast.ClassModel)
	cls.AddComponent(&ast.Component{Name: "x", TypeName: "Real"})
	cls.AddEquation(ast.Equate(ast.Der(ast.Ref("x")), ast.Ref("x")))

	table := ast.NewClassTable()
	table.Put(model, cls)

	out, err := compiler.Compile(table, model)
	if err != nil {
		t.Fatalf("compile fixture: %v", err)
	}
	return out.Report
}

func runStoreTests(t *testing.T, newStore func() store.Store) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		st := newStore()
		defer st.Close()
		ctx := context.Background()

		rec := store.NewRecord(compileReport(t, "Pendulum"))
		if err := st.Save(ctx, rec); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := st.Load(ctx, rec.RunID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.Model != "Pendulum" {
			t.Errorf("model = %q, want Pendulum", got.Model)
		}
		if got.Hash != rec.Hash {
			t.Errorf("hash = %q, want %q", got.Hash, rec.Hash)
		}
		if !got.Balanced {
			t.Error("balanced flag lost")
		}
		if got.Report == nil || got.Report.Metadata.RunID != rec.RunID {
			t.Error("payload report did not round trip")
		}
	})

	t.Run("DuplicateRunID", func(t *testing.T) {
		st := newStore()
		defer st.Close()
		ctx := context.Background()

		rec := store.NewRecord(compileReport(t, "Pendulum"))
		if err := st.Save(ctx, rec); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := st.Save(ctx, rec); err == nil {
			t.Error("duplicate save accepted")
		}
	})

	t.Run("LoadMissing", func(t *testing.T) {
		st := newStore()
		defer st.Close()

		_, err := st.Load(context.Background(), "no-such-run")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListByModel", func(t *testing.T) {
		st := newStore()
		defer st.Close()
		ctx := context.Background()

		older := store.NewRecord(compileReport(t, "Pendulum"))
		older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := store.NewRecord(compileReport(t, "Pendulum"))
		newer.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		other := store.NewRecord(compileReport(t, "Circuit"))

		for _, rec := range []*store.Record{older, newer, other} {
			if err := st.Save(ctx, rec); err != nil {
				t.Fatalf("save failed: %v", err)
			}
		}

		records, err := st.List(ctx, "Pendulum")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("records = %d, want 2", len(records))
		}
		if records[0].RunID != newer.RunID {
			t.Error("list is not newest first")
		}

		all, err := st.List(ctx, "")
		if err != nil {
			t.Fatalf("list all failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("all records = %d, want 3", len(all))
		}
	})
}
