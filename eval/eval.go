// Package eval computes constant values of expressions over the cty value
// domain. It exists for parameter defaults, range lengths and condition
// pre-evaluation; anything non-constant (function calls other than builtins,
// unbound references) is an error, not a silent zero.
package eval

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"

	"github.com/moda-xyz/go-moda/ast"
)

// Bindings maps flat variable names to values.
type Bindings map[string]cty.Value

// Error reports a non-evaluable expression.
type Error struct {
	Expr   ast.Expression
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot evaluate %q: %s", e.Expr.String(), e.Reason)
}

// Eval reduces an expression to a cty value under the given bindings.
func Eval(expr ast.Expression, bindings Bindings) (cty.Value, error) {
	switch x := expr.(type) {
	case *ast.Terminal:
		return evalTerminal(x)
	case *ast.ComponentReference:
		name := x.String()
		if v, ok := bindings[name]; ok {
			return v, nil
		}
		return cty.NilVal, &Error{Expr: x, Reason: "unbound reference"}
	case *ast.Unary:
		return evalUnary(x, bindings)
	case *ast.Binary:
		return evalBinary(x, bindings)
	case *ast.Call:
		return evalCall(x, bindings)
	case *ast.IfExpr:
		return evalIf(x, bindings)
	case *ast.TupleExpr:
		if len(x.Elements) == 1 {
			return Eval(x.Elements[0], bindings)
		}
		return cty.NilVal, &Error{Expr: x, Reason: "tuple is not a scalar value"}
	case *ast.ArrayExpr:
		vals := make([]cty.Value, len(x.Elements))
		for i, el := range x.Elements {
			v, err := Eval(el, bindings)
			if err != nil {
				return cty.NilVal, err
			}
			vals[i] = v
		}
		if len(vals) == 0 {
			return cty.ListValEmpty(cty.Number), nil
		}
		return cty.TupleVal(vals), nil
	default:
		return cty.NilVal, &Error{Expr: expr, Reason: "not a constant expression"}
	}
}

func evalTerminal(t *ast.Terminal) (cty.Value, error) {
	switch t.Kind {
	case ast.TerminalInteger, ast.TerminalReal:
		v, err := cty.ParseNumberVal(t.Value)
		if err != nil {
			return cty.NilVal, &Error{Expr: t, Reason: "malformed number literal"}
		}
		return v, nil
	case ast.TerminalBoolean:
		return cty.BoolVal(t.Value == "true"), nil
	case ast.TerminalString:
		return cty.StringVal(t.Value), nil
	}
	return cty.NilVal, &Error{Expr: t, Reason: "unknown literal kind"}
}

func evalUnary(u *ast.Unary, bindings Bindings) (cty.Value, error) {
	v, err := Eval(u.Expr, bindings)
	if err != nil {
		return cty.NilVal, err
	}
	switch u.Op {
	case ast.OpNeg, ast.OpElemNeg:
		if v.Type() != cty.Number {
			return cty.NilVal, &Error{Expr: u, Reason: "negation of non-number"}
		}
		return v.Negate(), nil
	case ast.OpPos, ast.OpElemPos:
		return v, nil
	case ast.OpNot:
		if v.Type() != cty.Bool {
			return cty.NilVal, &Error{Expr: u, Reason: "not of non-boolean"}
		}
		return v.Not(), nil
	}
	return cty.NilVal, &Error{Expr: u, Reason: "unknown unary operator"}
}

func evalBinary(b *ast.Binary, bindings Bindings) (cty.Value, error) {
	l, err := Eval(b.Left, bindings)
	if err != nil {
		return cty.NilVal, err
	}
	r, err := Eval(b.Right, bindings)
	if err != nil {
		return cty.NilVal, err
	}

	switch b.Op {
	case ast.OpAnd:
		return requireBools(b, l, r, func(x, y cty.Value) cty.Value { return x.And(y) })
	case ast.OpOr:
		return requireBools(b, l, r, func(x, y cty.Value) cty.Value { return x.Or(y) })
	case ast.OpEq:
		return l.Equals(r), nil
	case ast.OpNeq:
		return l.Equals(r).Not(), nil
	}

	if l.Type() != cty.Number || r.Type() != cty.Number {
		return cty.NilVal, &Error{Expr: b, Reason: "arithmetic on non-numbers"}
	}
	switch b.Op {
	case ast.OpAdd, ast.OpElemAdd:
		return l.Add(r), nil
	case ast.OpSub, ast.OpElemSub:
		return l.Subtract(r), nil
	case ast.OpMul, ast.OpElemMul:
		return l.Multiply(r), nil
	case ast.OpDiv, ast.OpElemDiv:
		if r.RawEquals(cty.Zero) {
			return cty.NilVal, &Error{Expr: b, Reason: "division by zero"}
		}
		return l.Divide(r), nil
	case ast.OpExp:
		lf, _ := l.AsBigFloat().Float64()
		rf, _ := r.AsBigFloat().Float64()
		return cty.NumberFloatVal(math.Pow(lf, rf)), nil
	case ast.OpLt:
		return l.LessThan(r), nil
	case ast.OpLe:
		return l.LessThanOrEqualTo(r), nil
	case ast.OpGt:
		return l.GreaterThan(r), nil
	case ast.OpGe:
		return l.GreaterThanOrEqualTo(r), nil
	}
	return cty.NilVal, &Error{Expr: b, Reason: "unknown binary operator"}
}

func requireBools(b *ast.Binary, l, r cty.Value, f func(x, y cty.Value) cty.Value) (cty.Value, error) {
	if l.Type() != cty.Bool || r.Type() != cty.Bool {
		return cty.NilVal, &Error{Expr: b, Reason: "logical operator on non-booleans"}
	}
	return f(l, r), nil
}

func evalIf(e *ast.IfExpr, bindings Bindings) (cty.Value, error) {
	for _, br := range e.Branches {
		c, err := Eval(br.Cond, bindings)
		if err != nil {
			return cty.NilVal, err
		}
		if c.Type() != cty.Bool {
			return cty.NilVal, &Error{Expr: br.Cond, Reason: "condition is not boolean"}
		}
		if c.True() {
			return Eval(br.Then, bindings)
		}
	}
	return Eval(e.Else, bindings)
}

// evalCall handles the constant-evaluable builtins. der and pre are never
// constant.
func evalCall(c *ast.Call, bindings Bindings) (cty.Value, error) {
	name := c.Func.String()
	unary := func(f func(float64) float64) (cty.Value, error) {
		if len(c.Args) != 1 {
			return cty.NilVal, &Error{Expr: c, Reason: name + " takes one argument"}
		}
		v, err := Eval(c.Args[0], bindings)
		if err != nil {
			return cty.NilVal, err
		}
		if v.Type() != cty.Number {
			return cty.NilVal, &Error{Expr: c, Reason: name + " of non-number"}
		}
		fv, _ := v.AsBigFloat().Float64()
		return cty.NumberFloatVal(f(fv)), nil
	}
	switch name {
	case "sin":
		return unary(math.Sin)
	case "cos":
		return unary(math.Cos)
	case "tan":
		return unary(math.Tan)
	case "sqrt":
		return unary(math.Sqrt)
	case "abs":
		return unary(math.Abs)
	case "exp":
		return unary(math.Exp)
	case "log":
		return unary(math.Log)
	}
	return cty.NilVal, &Error{Expr: c, Reason: "call is not a constant expression"}
}

// RangeLength returns the element count of a constant range expression:
// `1:5` has 5 elements, `0:2:10` has 6. Empty ranges return 0.
func RangeLength(r *ast.RangeExpr, bindings Bindings) (int, error) {
	start, err := evalFloat(r.Start, bindings)
	if err != nil {
		return 0, err
	}
	end, err := evalFloat(r.End, bindings)
	if err != nil {
		return 0, err
	}
	step := 1.0
	if r.Step != nil {
		step, err = evalFloat(r.Step, bindings)
		if err != nil {
			return 0, err
		}
	}
	if step == 0 {
		return 0, &Error{Expr: r, Reason: "range step is zero"}
	}
	n := math.Floor((end-start)/step) + 1
	if n < 0 {
		return 0, nil
	}
	return int(n), nil
}

func evalFloat(e ast.Expression, bindings Bindings) (float64, error) {
	v, err := Eval(e, bindings)
	if err != nil {
		return 0, err
	}
	if v.Type() != cty.Number {
		return 0, &Error{Expr: e, Reason: "expected a number"}
	}
	f, _ := v.AsBigFloat().Float64()
	return f, nil
}
