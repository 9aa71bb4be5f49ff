package parser

import (
	"encoding/json"
	"fmt"

	"github.com/moda-xyz/go-moda/ast"
)

type exprWire struct {
	Kind string `json:"kind"`

	// literal
	Value string `json:"value,omitempty"`

	// ref
	Parts []refPartWire `json:"parts,omitempty"`

	// unary / binary
	Op    string          `json:"op,omitempty"`
	Expr  json.RawMessage `json:"expr,omitempty"`
	Left  json.RawMessage `json:"left,omitempty"`
	Right json.RawMessage `json:"right,omitempty"`

	// call
	Func json.RawMessage   `json:"func,omitempty"`
	Args []json.RawMessage `json:"args,omitempty"`

	// array / tuple
	Elements []json.RawMessage `json:"elements,omitempty"`

	// range
	Start json.RawMessage `json:"start,omitempty"`
	Step  json.RawMessage `json:"step,omitempty"`
	End   json.RawMessage `json:"end,omitempty"`

	// if
	Branches []branchWire    `json:"branches,omitempty"`
	Else     json.RawMessage `json:"else,omitempty"`
}

type refPartWire struct {
	Name       string            `json:"name"`
	Subscripts []json.RawMessage `json:"subscripts,omitempty"`
}

type branchWire struct {
	Cond json.RawMessage `json:"cond"`
	Then json.RawMessage `json:"then"`
}

var unaryOps = map[string]ast.UnaryOp{
	"-":   ast.OpNeg,
	"+":   ast.OpPos,
	"not": ast.OpNot,
	".-":  ast.OpElemNeg,
	".+":  ast.OpElemPos,
}

var unaryOpNames = map[ast.UnaryOp]string{
	ast.OpNeg:     "-",
	ast.OpPos:     "+",
	ast.OpNot:     "not",
	ast.OpElemNeg: ".-",
	ast.OpElemPos: ".+",
}

var binaryOps = map[string]ast.BinaryOp{
	"+":   ast.OpAdd,
	"-":   ast.OpSub,
	"*":   ast.OpMul,
	"/":   ast.OpDiv,
	"^":   ast.OpExp,
	"==":  ast.OpEq,
	"<>":  ast.OpNeq,
	"<":   ast.OpLt,
	"<=":  ast.OpLe,
	">":   ast.OpGt,
	">=":  ast.OpGe,
	"and": ast.OpAnd,
	"or":  ast.OpOr,
	".+":  ast.OpElemAdd,
	".-":  ast.OpElemSub,
	".*":  ast.OpElemMul,
	"./":  ast.OpElemDiv,
}

var binaryOpNames = func() map[ast.BinaryOp]string {
	m := make(map[ast.BinaryOp]string, len(binaryOps))
	for s, op := range binaryOps {
		m[op] = s
	}
	return m
}()

func decodeExpression(raw json.RawMessage) (ast.Expression, error) {
	var w exprWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}

	switch w.Kind {
	case "integer":
		return ast.IntegerLit(w.Value), nil
	case "real":
		return ast.RealLit(w.Value), nil
	case "boolean":
		return ast.BooleanLit(w.Value == "true"), nil
	case "string":
		return ast.StringLit(w.Value), nil
	case "ref":
		return decodeRef(w.Parts)
	case "unary":
		op, ok := unaryOps[w.Op]
		if !ok {
			return nil, fmt.Errorf("unknown unary operator %q", w.Op)
		}
		expr, err := decodeExpression(w.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Expr: expr}, nil
	case "binary":
		op, ok := binaryOps[w.Op]
		if !ok {
			return nil, fmt.Errorf("unknown binary operator %q", w.Op)
		}
		left, err := decodeExpression(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(w.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: op, Left: left, Right: right}, nil
	case "call":
		fn, err := decodeFuncRef(w.Func)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprList(w.Args)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Func: fn, Args: args}, nil
	case "array":
		elems, err := decodeExprList(w.Elements)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayExpr{Elements: elems}, nil
	case "tuple":
		elems, err := decodeExprList(w.Elements)
		if err != nil {
			return nil, err
		}
		return &ast.TupleExpr{Elements: elems}, nil
	case "range":
		r := &ast.RangeExpr{}
		var err error
		if r.Start, err = decodeExpression(w.Start); err != nil {
			return nil, err
		}
		if len(w.Step) > 0 {
			if r.Step, err = decodeExpression(w.Step); err != nil {
				return nil, err
			}
		}
		if r.End, err = decodeExpression(w.End); err != nil {
			return nil, err
		}
		return r, nil
	case "if":
		e := &ast.IfExpr{}
		for _, br := range w.Branches {
			cond, err := decodeExpression(br.Cond)
			if err != nil {
				return nil, err
			}
			then, err := decodeExpression(br.Then)
			if err != nil {
				return nil, err
			}
			e.Branches = append(e.Branches, ast.ExprBranch{Cond: cond, Then: then})
		}
		var err error
		if e.Else, err = decodeExpression(w.Else); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("unknown expression kind %q", w.Kind)
}

func decodeExprList(raws []json.RawMessage) ([]ast.Expression, error) {
	var out []ast.Expression
	for _, raw := range raws {
		e, err := decodeExpression(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeRef(parts []refPartWire) (*ast.ComponentReference, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("reference with no parts")
	}
	r := &ast.ComponentReference{Parts: make([]ast.RefPart, 0, len(parts))}
	for _, pw := range parts {
		p := ast.RefPart{Name: pw.Name}
		for _, sw := range pw.Subscripts {
			// The colon subscript serializes as the JSON string ":".
			var s string
			if err := json.Unmarshal(sw, &s); err == nil && s == ":" {
				p.Subscripts = append(p.Subscripts, ast.Subscript{Colon: true})
				continue
			}
			e, err := decodeExpression(sw)
			if err != nil {
				return nil, err
			}
			p.Subscripts = append(p.Subscripts, ast.Subscript{Expr: e})
		}
		r.Parts = append(r.Parts, p)
	}
	return r, nil
}

func decodeFuncRef(raw json.RawMessage) (*ast.ComponentReference, error) {
	e, err := decodeExpression(raw)
	if err != nil {
		return nil, err
	}
	ref, ok := e.(*ast.ComponentReference)
	if !ok {
		return nil, fmt.Errorf("call function must be a reference")
	}
	return ref, nil
}

func encodeExpression(e ast.Expression) (json.RawMessage, error) {
	switch x := e.(type) {
	case *ast.Terminal:
		kind := map[ast.TerminalKind]string{
			ast.TerminalInteger: "integer",
			ast.TerminalReal:    "real",
			ast.TerminalBoolean: "boolean",
			ast.TerminalString:  "string",
		}[x.Kind]
		return marshalWire(exprWire{Kind: kind, Value: x.Value})
	case *ast.ComponentReference:
		parts, err := encodeRefParts(x)
		if err != nil {
			return nil, err
		}
		return marshalWire(exprWire{Kind: "ref", Parts: parts})
	case *ast.Unary:
		expr, err := encodeExpression(x.Expr)
		if err != nil {
			return nil, err
		}
		return marshalWire(exprWire{Kind: "unary", Op: unaryOpNames[x.Op], Expr: expr})
	case *ast.Binary:
		left, err := encodeExpression(x.Left)
		if err != nil {
			return nil, err
		}
		right, err := encodeExpression(x.Right)
		if err != nil {
			return nil, err
		}
		return marshalWire(exprWire{Kind: "binary", Op: binaryOpNames[x.Op], Left: left, Right: right})
	case *ast.Call:
		fn, err := encodeExpression(x.Func)
		if err != nil {
			return nil, err
		}
		args, err := encodeExprList(x.Args)
		if err != nil {
			return nil, err
		}
		return marshalWire(exprWire{Kind: "call", Func: fn, Args: args})
	case *ast.ArrayExpr:
		elems, err := encodeExprList(x.Elements)
		if err != nil {
			return nil, err
		}
		return marshalWire(exprWire{Kind: "array", Elements: elems})
	case *ast.TupleExpr:
		elems, err := encodeExprList(x.Elements)
		if err != nil {
			return nil, err
		}
		return marshalWire(exprWire{Kind: "tuple", Elements: elems})
	case *ast.RangeExpr:
		w := exprWire{Kind: "range"}
		var err error
		if w.Start, err = encodeExpression(x.Start); err != nil {
			return nil, err
		}
		if x.Step != nil {
			if w.Step, err = encodeExpression(x.Step); err != nil {
				return nil, err
			}
		}
		if w.End, err = encodeExpression(x.End); err != nil {
			return nil, err
		}
		return marshalWire(w)
	case *ast.IfExpr:
		w := exprWire{Kind: "if"}
		for _, br := range x.Branches {
			cond, err := encodeExpression(br.Cond)
			if err != nil {
				return nil, err
			}
			then, err := encodeExpression(br.Then)
			if err != nil {
				return nil, err
			}
			w.Branches = append(w.Branches, branchWire{Cond: cond, Then: then})
		}
		var err error
		if w.Else, err = encodeExpression(x.Else); err != nil {
			return nil, err
		}
		return marshalWire(w)
	}
	return nil, fmt.Errorf("unknown expression type %T", e)
}

func encodeExprList(es []ast.Expression) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for _, e := range es {
		raw, err := encodeExpression(e)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func encodeRefParts(r *ast.ComponentReference) ([]refPartWire, error) {
	var parts []refPartWire
	for _, p := range r.Parts {
		pw := refPartWire{Name: p.Name}
		for _, s := range p.Subscripts {
			if s.Colon {
				raw, _ := json.Marshal(":")
				pw.Subscripts = append(pw.Subscripts, raw)
				continue
			}
			raw, err := encodeExpression(s.Expr)
			if err != nil {
				return nil, err
			}
			pw.Subscripts = append(pw.Subscripts, raw)
		}
		parts = append(parts, pw)
	}
	return parts, nil
}

func marshalWire(w exprWire) (json.RawMessage, error) {
	return json.Marshal(&w)
}
