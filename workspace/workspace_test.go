package workspace

import (
	"context"
	"testing"

	"github.com/moda-xyz/go-moda/ast"
)

func testTable() *ast.ClassTable {
	good := ast.NewClassDefinition("Good", ast.ClassModel)
	good.AddComponent(&ast.Component{Name: "x", TypeName: "Real"})
	good.AddEquation(ast.Equate(ast.Der(ast.Ref("x")), ast.Ref("x")))

	broken := ast.NewClassDefinition("Broken", ast.ClassModel)
	broken.Extends = []string{"Ghost"}

	table := ast.NewClassTable()
	table.Put("Good", good)
	table.Put("Broken", broken)
	return table
}

func TestCompileAll(t *testing.T) {
	ws := New(WithWorkers(2))
	outcomes, err := ws.CompileAll(context.Background(), testTable(), []string{"Good"})
	if err != nil {
		t.Fatal(err)
	}
	oc := outcomes["Good"]
	if oc == nil || oc.Err != nil {
		t.Fatalf("outcome = %+v", oc)
	}
	if !oc.Output.Report.Balance.IsBalanced {
		t.Error("Good should be balanced")
	}
}

func TestCompileAllIsolatesFailures(t *testing.T) {
	ws := New()
	outcomes, err := ws.CompileAll(context.Background(), testTable(), []string{"Good", "Broken", "Missing"})
	if err != nil {
		t.Fatal(err)
	}

	if outcomes["Good"].Err != nil {
		t.Errorf("Good failed: %v", outcomes["Good"].Err)
	}
	if outcomes["Broken"].Err == nil {
		t.Error("Broken should fail on its missing base class")
	}
	if outcomes["Missing"].Err == nil {
		t.Error("Missing should fail with class not found")
	}
}

func TestCompileAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ws := New()
	_, err := ws.CompileAll(ctx, testTable(), []string{"Good"})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestCompileAllCache(t *testing.T) {
	cache := NewReportCache(10)
	ws := New(WithCache(cache))
	table := testTable()

	if _, err := ws.CompileAll(context.Background(), table, []string{"Good"}); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.CompileAll(context.Background(), table, []string{"Good"}); err != nil {
		t.Fatal(err)
	}

	stats := cache.Stats()
	if stats.Hits != 1 {
		t.Errorf("hits = %d, want 1", stats.Hits)
	}
	if stats.Size != 1 {
		t.Errorf("size = %d, want 1", stats.Size)
	}
}

func TestReportCacheEviction(t *testing.T) {
	cache := NewReportCache(2)
	cache.Put("a", &Outcome{Root: "a"})
	cache.Put("b", &Outcome{Root: "b"})
	cache.Put("c", &Outcome{Root: "c"})

	if cache.Size() != 2 {
		t.Errorf("size = %d, want 2", cache.Size())
	}
	if cache.Get("a") != nil {
		t.Error("oldest entry a should be evicted")
	}
	if cache.Get("c") == nil {
		t.Error("newest entry c missing")
	}
	if got := cache.Stats().Evictions; got != 1 {
		t.Errorf("evictions = %d, want 1", got)
	}
}
