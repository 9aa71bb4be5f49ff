package eval

import (
	"math"
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/moda-xyz/go-moda/ast"
)

func num(t *testing.T, v cty.Value) float64 {
	t.Helper()
	if v.Type() != cty.Number {
		t.Fatalf("value %#v is not a number", v)
	}
	f, _ := v.AsBigFloat().Float64()
	return f
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		want float64
	}{
		{
			name: "literal",
			expr: ast.RealLit("2.5"),
			want: 2.5,
		},
		{
			name: "addition",
			expr: &ast.Binary{Op: ast.OpAdd, Left: ast.IntegerLit("2"), Right: ast.IntegerLit("3")},
			want: 5,
		},
		{
			name: "precedence from tree shape",
			expr: &ast.Binary{
				Op:    ast.OpMul,
				Left:  &ast.Binary{Op: ast.OpAdd, Left: ast.IntegerLit("1"), Right: ast.IntegerLit("2")},
				Right: ast.IntegerLit("4"),
			},
			want: 12,
		},
		{
			name: "negation",
			expr: &ast.Unary{Op: ast.OpNeg, Expr: ast.RealLit("1.5")},
			want: -1.5,
		},
		{
			name: "power",
			expr: &ast.Binary{Op: ast.OpExp, Left: ast.IntegerLit("2"), Right: ast.IntegerLit("10")},
			want: 1024,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Eval(tt.expr, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got := num(t, v); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalBindings(t *testing.T) {
	bindings := Bindings{"k": cty.NumberFloatVal(3)}
	expr := &ast.Binary{Op: ast.OpMul, Left: ast.Ref("k"), Right: ast.IntegerLit("7")}
	v, err := Eval(expr, bindings)
	if err != nil {
		t.Fatal(err)
	}
	if got := num(t, v); got != 21 {
		t.Errorf("value = %v, want 21", got)
	}
}

func TestEvalUnboundReference(t *testing.T) {
	_, err := Eval(ast.Ref("ghost"), nil)
	if _, ok := err.(*Error); !ok {
		t.Fatalf("err = %v, want *Error", err)
	}
}

func TestEvalComparisonsAndLogic(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		want bool
	}{
		{
			name: "less than",
			expr: &ast.Binary{Op: ast.OpLt, Left: ast.IntegerLit("1"), Right: ast.IntegerLit("2")},
			want: true,
		},
		{
			name: "equality",
			expr: &ast.Binary{Op: ast.OpEq, Left: ast.RealLit("1.0"), Right: ast.RealLit("2.0")},
			want: false,
		},
		{
			name: "and",
			expr: &ast.Binary{Op: ast.OpAnd, Left: ast.BooleanLit(true), Right: ast.BooleanLit(false)},
			want: false,
		},
		{
			name: "not",
			expr: &ast.Unary{Op: ast.OpNot, Expr: ast.BooleanLit(false)},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Eval(tt.expr, nil)
			if err != nil {
				t.Fatal(err)
			}
			if v.True() != tt.want {
				t.Errorf("value = %v, want %v", v.True(), tt.want)
			}
		})
	}
}

func TestEvalIfExpression(t *testing.T) {
	expr := &ast.IfExpr{
		Branches: []ast.ExprBranch{{
			Cond: &ast.Binary{Op: ast.OpGt, Left: ast.Ref("x"), Right: ast.IntegerLit("0")},
			Then: ast.IntegerLit("1"),
		}},
		Else: &ast.Unary{Op: ast.OpNeg, Expr: ast.IntegerLit("1")},
	}

	v, err := Eval(expr, Bindings{"x": cty.NumberFloatVal(5)})
	if err != nil {
		t.Fatal(err)
	}
	if got := num(t, v); got != 1 {
		t.Errorf("positive branch = %v, want 1", got)
	}

	v, err = Eval(expr, Bindings{"x": cty.NumberFloatVal(-5)})
	if err != nil {
		t.Fatal(err)
	}
	if got := num(t, v); got != -1 {
		t.Errorf("else branch = %v, want -1", got)
	}
}

func TestEvalBuiltins(t *testing.T) {
	v, err := Eval(ast.NewCall("cos", ast.RealLit("0.0")), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := num(t, v); got != 1 {
		t.Errorf("cos(0) = %v, want 1", got)
	}

	v, err = Eval(ast.NewCall("sqrt", ast.RealLit("9.0")), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := num(t, v); math.Abs(got-3) > 1e-12 {
		t.Errorf("sqrt(9) = %v, want 3", got)
	}
}

func TestEvalDerNotConstant(t *testing.T) {
	_, err := Eval(ast.Der(ast.Ref("x")), Bindings{"x": cty.NumberFloatVal(1)})
	if _, ok := err.(*Error); !ok {
		t.Fatalf("err = %v, want *Error for der()", err)
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	expr := &ast.Binary{Op: ast.OpDiv, Left: ast.IntegerLit("1"), Right: ast.IntegerLit("0")}
	if _, err := Eval(expr, nil); err == nil {
		t.Fatal("division by zero evaluated without error")
	}
}

func TestRangeLength(t *testing.T) {
	tests := []struct {
		name string
		r    *ast.RangeExpr
		want int
	}{
		{
			name: "unit step",
			r:    &ast.RangeExpr{Start: ast.IntegerLit("1"), End: ast.IntegerLit("5")},
			want: 5,
		},
		{
			name: "explicit step",
			r:    &ast.RangeExpr{Start: ast.IntegerLit("0"), Step: ast.IntegerLit("2"), End: ast.IntegerLit("10")},
			want: 6,
		},
		{
			name: "empty",
			r:    &ast.RangeExpr{Start: ast.IntegerLit("5"), End: ast.IntegerLit("1")},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := RangeLength(tt.r, nil)
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.want {
				t.Errorf("length = %d, want %d", n, tt.want)
			}
		})
	}
}
