package parser

import (
	"testing"

	"github.com/moda-xyz/go-moda/ast"
)

func buildFixtureTable() *ast.ClassTable {
	base := ast.NewClassDefinition("Base", ast.ClassModel)
	base.Description = "shared ground"
	base.AddComponent(&ast.Component{Name: "g", TypeName: "Real", Variability: ast.Parameter, Start: ast.RealLit("9.81")})

	ball := ast.NewClassDefinition("Ball", ast.ClassModel)
	ball.Extends = []string{"Base"}
	ball.AddComponent(&ast.Component{Name: "h", TypeName: "Real", Start: ast.RealLit("1.0")})
	ball.AddComponent(&ast.Component{Name: "v", TypeName: "Real"})
	ball.AddComponent(&ast.Component{Name: "n", TypeName: "Integer", Variability: ast.Discrete})
	ball.AddComponent(&ast.Component{Name: "f", TypeName: "Real", Causality: ast.Input})

	ball.AddEquation(ast.Equate(ast.Der(ast.Ref("h")), ast.Ref("v")))
	ball.AddEquation(ast.Equate(ast.Der(ast.Ref("v")), &ast.Unary{Op: ast.OpNeg, Expr: ast.Ref("g")}))
	ball.AddEquation(&ast.WhenEquation{
		Branches: []ast.EquationBranch{{
			Cond: &ast.Binary{Op: ast.OpLt, Left: ast.Ref("h"), Right: ast.RealLit("0.0")},
			Body: []ast.Equation{
				&ast.CallEquation{Func: ast.Ref("reinit"), Args: []ast.Expression{
					ast.Ref("v"),
					&ast.Unary{Op: ast.OpNeg, Expr: ast.NewCall("pre", ast.Ref("v"))},
				}},
				ast.Equate(ast.Ref("n"), &ast.Binary{Op: ast.OpAdd, Left: ast.NewCall("pre", ast.Ref("n")), Right: ast.IntegerLit("1")}),
			},
		}},
	})
	ball.AddEquation(&ast.IfEquation{
		Branches: []ast.EquationBranch{{
			Cond: &ast.Binary{Op: ast.OpGt, Left: ast.Ref("h"), Right: ast.RealLit("10.0")},
			Body: []ast.Equation{ast.Equate(ast.Ref("f"), ast.RealLit("0.0"))},
		}},
		Else: []ast.Equation{ast.Equate(ast.Ref("f"), ast.RealLit("1.0"))},
	})
	ball.AddEquation(&ast.ForEquation{
		Indices: []ast.ForIndex{{Name: "i", Range: &ast.RangeExpr{Start: ast.IntegerLit("1"), End: ast.IntegerLit("3")}}},
		Body:    []ast.Equation{&ast.CallEquation{Func: ast.Ref("assert"), Args: []ast.Expression{ast.BooleanLit(true)}}},
	})
	ball.AddEquation(&ast.ConnectEquation{Left: ast.Ref("a", "p"), Right: ast.Ref("b", "n")})
	ball.InitialEquations = append(ball.InitialEquations, ast.Equate(ast.Ref("h"), ast.RealLit("1.0")))

	table := ast.NewClassTable()
	table.Put("Base", base)
	table.Put("Ball", ball)
	return table
}

func TestJSONRoundTrip(t *testing.T) {
	table := buildFixtureTable()

	data, err := ToJSON(table)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := back.Keys(), table.Keys(); len(got) != len(want) {
		t.Fatalf("classes = %v, want %v", got, want)
	}
	table.Range(func(name string, cls *ast.ClassDefinition) bool {
		decoded, ok := back.Get(name)
		if !ok {
			t.Errorf("missing class %q after round trip", name)
			return true
		}
		if decoded.String() != cls.String() {
			t.Errorf("class %q changed:\nbefore:\n%s\nafter:\n%s", name, cls, decoded)
		}
		return true
	})
}

func TestJSONSubscriptRoundTrip(t *testing.T) {
	cls := ast.NewClassDefinition("Grid", ast.ClassModel)
	cls.AddComponent(&ast.Component{
		Name:     "x",
		TypeName: "Real",
		Shape:    []ast.Expression{ast.IntegerLit("3")},
	})
	ref := &ast.ComponentReference{Parts: []ast.RefPart{{
		Name: "x",
		Subscripts: []ast.Subscript{
			{Expr: ast.IntegerLit("1")},
			{Colon: true},
		},
	}}}
	cls.AddEquation(ast.Equate(ref, ast.RealLit("0.0")))

	table := ast.NewClassTable()
	table.Put("Grid", cls)

	data, err := ToJSON(table)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	decoded, _ := back.Get("Grid")
	if decoded.String() != cls.String() {
		t.Errorf("round trip changed class:\nbefore:\n%s\nafter:\n%s", cls, decoded)
	}
}

func TestFromJSONRejectsUnknownKinds(t *testing.T) {
	input := `{
	  "order": ["M"],
	  "classes": {
	    "M": {
	      "type": "model",
	      "equations": [{"kind": "mystery"}]
	    }
	  }
	}`
	if _, err := FromJSON([]byte(input)); err == nil {
		t.Fatal("unknown equation kind accepted")
	}
}

func TestFromJSONOrderRespected(t *testing.T) {
	input := `{
	  "order": ["B", "A"],
	  "classes": {
	    "A": {"type": "model"},
	    "B": {"type": "model"}
	  }
	}`
	table, err := FromJSON([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	keys := table.Keys()
	if len(keys) != 2 || keys[0] != "B" || keys[1] != "A" {
		t.Errorf("keys = %v, want [B A]", keys)
	}
}
