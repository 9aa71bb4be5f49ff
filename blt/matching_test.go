package blt

import (
	"testing"

	"github.com/moda-xyz/go-moda/ast"
)

func TestMatchComplete(t *testing.T) {
	eqs := []ast.Equation{
		eq(ast.Der(ast.Ref("h")), ast.Ref("v")),
		eq(ast.Der(ast.Ref("v")), &ast.Unary{Op: ast.OpNeg, Expr: ast.Ref("g")}),
		eq(ast.Ref("e"), &ast.Binary{Op: ast.OpMul, Left: ast.Ref("m"), Right: ast.Ref("h")}),
	}
	known := map[string]bool{"g": true, "m": true, "time": true}

	m := Match(eqs, known)
	if !m.Complete {
		t.Fatalf("matching incomplete, unmatched %v", m.Unmatched)
	}
	if m.Assignment[0] != "der(h)" {
		t.Errorf("eq0 assigned %q, want der(h)", m.Assignment[0])
	}
	if m.Assignment[1] != "der(v)" {
		t.Errorf("eq1 assigned %q, want der(v)", m.Assignment[1])
	}
	if m.Assignment[2] != "e" {
		t.Errorf("eq2 assigned %q, want e", m.Assignment[2])
	}
}

func TestMatchStructurallySingular(t *testing.T) {
	// Two equations constrain the single unknown x.
	eqs := []ast.Equation{
		eq(ast.Ref("x"), ast.RealLit("1.0")),
		eq(ast.Ref("x"), ast.RealLit("2.0")),
	}
	m := Match(eqs, nil)
	if m.Complete {
		t.Fatal("matching reported complete for a singular system")
	}
	if len(m.Unmatched) != 1 {
		t.Errorf("unmatched = %v, want exactly one equation", m.Unmatched)
	}
}

func TestMatchAugmentingPath(t *testing.T) {
	// eq0 could take a or b; eq1 can only take a. The matcher must route
	// eq0 to b so both match.
	eqs := []ast.Equation{
		eq(ast.Ref("a"), ast.Ref("b")),
		eq(&ast.Binary{Op: ast.OpAdd, Left: ast.Ref("a"), Right: ast.RealLit("1.0")}, ast.RealLit("0.0")),
	}
	m := Match(eqs, nil)
	if !m.Complete {
		t.Fatalf("matching incomplete, unmatched %v", m.Unmatched)
	}
	if m.Assignment[1] != "a" {
		t.Errorf("eq1 assigned %q, want a", m.Assignment[1])
	}
	if m.Assignment[0] != "b" {
		t.Errorf("eq0 assigned %q, want b", m.Assignment[0])
	}
}

func TestMatchStateDerivativeReplacesState(t *testing.T) {
	// h appears both bare and under der(); the unknown for matching is
	// der(h), not h.
	eqs := []ast.Equation{
		eq(ast.Der(ast.Ref("h")), &ast.Binary{Op: ast.OpSub, Left: ast.RealLit("0.0"), Right: ast.Ref("h")}),
	}
	m := Match(eqs, nil)
	if !m.Complete {
		t.Fatalf("matching incomplete, unmatched %v", m.Unmatched)
	}
	if m.Assignment[0] != "der(h)" {
		t.Errorf("assigned %q, want der(h)", m.Assignment[0])
	}
}
