package parser

import (
	"encoding/json"
	"fmt"

	"github.com/moda-xyz/go-moda/ast"
)

type equationWire struct {
	Kind string `json:"kind"`

	// simple
	LHS json.RawMessage `json:"lhs,omitempty"`
	RHS json.RawMessage `json:"rhs,omitempty"`

	// connect
	Left  json.RawMessage `json:"left,omitempty"`
	Right json.RawMessage `json:"right,omitempty"`

	// for
	Indices []forIndexWire    `json:"indices,omitempty"`
	Body    []json.RawMessage `json:"body,omitempty"`

	// when / if
	Branches []eqBranchWire    `json:"branches,omitempty"`
	Else     []json.RawMessage `json:"else,omitempty"`

	// call
	Func json.RawMessage   `json:"func,omitempty"`
	Args []json.RawMessage `json:"args,omitempty"`
}

type forIndexWire struct {
	Name  string          `json:"name"`
	Range json.RawMessage `json:"range"`
}

type eqBranchWire struct {
	Cond json.RawMessage   `json:"cond"`
	Body []json.RawMessage `json:"body"`
}

func decodeEquation(raw json.RawMessage) (ast.Equation, error) {
	var w equationWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("invalid equation: %w", err)
	}

	switch w.Kind {
	case "simple":
		lhs, err := decodeExpression(w.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpression(w.RHS)
		if err != nil {
			return nil, err
		}
		return &ast.SimpleEquation{LHS: lhs, RHS: rhs}, nil
	case "connect":
		left, err := decodeFuncRef(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeFuncRef(w.Right)
		if err != nil {
			return nil, err
		}
		return &ast.ConnectEquation{Left: left, Right: right}, nil
	case "for":
		eq := &ast.ForEquation{}
		for _, iw := range w.Indices {
			r, err := decodeExpression(iw.Range)
			if err != nil {
				return nil, err
			}
			eq.Indices = append(eq.Indices, ast.ForIndex{Name: iw.Name, Range: r})
		}
		body, err := decodeEquationList(w.Body)
		if err != nil {
			return nil, err
		}
		eq.Body = body
		return eq, nil
	case "when":
		eq := &ast.WhenEquation{}
		branches, err := decodeEqBranches(w.Branches)
		if err != nil {
			return nil, err
		}
		eq.Branches = branches
		return eq, nil
	case "if":
		eq := &ast.IfEquation{}
		branches, err := decodeEqBranches(w.Branches)
		if err != nil {
			return nil, err
		}
		eq.Branches = branches
		if len(w.Else) > 0 {
			els, err := decodeEquationList(w.Else)
			if err != nil {
				return nil, err
			}
			eq.Else = els
		}
		return eq, nil
	case "call":
		fn, err := decodeFuncRef(w.Func)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprList(w.Args)
		if err != nil {
			return nil, err
		}
		return &ast.CallEquation{Func: fn, Args: args}, nil
	}
	return nil, fmt.Errorf("unknown equation kind %q", w.Kind)
}

func decodeEquationList(raws []json.RawMessage) ([]ast.Equation, error) {
	var out []ast.Equation
	for _, raw := range raws {
		eq, err := decodeEquation(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, eq)
	}
	return out, nil
}

func decodeEqBranches(ws []eqBranchWire) ([]ast.EquationBranch, error) {
	var out []ast.EquationBranch
	for _, bw := range ws {
		cond, err := decodeExpression(bw.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeEquationList(bw.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.EquationBranch{Cond: cond, Body: body})
	}
	return out, nil
}

func encodeEquation(eq ast.Equation) (json.RawMessage, error) {
	switch e := eq.(type) {
	case *ast.SimpleEquation:
		lhs, err := encodeExpression(e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := encodeExpression(e.RHS)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&equationWire{Kind: "simple", LHS: lhs, RHS: rhs})
	case *ast.ConnectEquation:
		left, err := encodeExpression(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := encodeExpression(e.Right)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&equationWire{Kind: "connect", Left: left, Right: right})
	case *ast.ForEquation:
		w := equationWire{Kind: "for"}
		for _, ix := range e.Indices {
			r, err := encodeExpression(ix.Range)
			if err != nil {
				return nil, err
			}
			w.Indices = append(w.Indices, forIndexWire{Name: ix.Name, Range: r})
		}
		body, err := encodeEquationList(e.Body)
		if err != nil {
			return nil, err
		}
		w.Body = body
		return json.Marshal(&w)
	case *ast.WhenEquation:
		branches, err := encodeEqBranches(e.Branches)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&equationWire{Kind: "when", Branches: branches})
	case *ast.IfEquation:
		w := equationWire{Kind: "if"}
		branches, err := encodeEqBranches(e.Branches)
		if err != nil {
			return nil, err
		}
		w.Branches = branches
		if e.Else != nil {
			els, err := encodeEquationList(e.Else)
			if err != nil {
				return nil, err
			}
			w.Else = els
		}
		return json.Marshal(&w)
	case *ast.CallEquation:
		fn, err := encodeExpression(e.Func)
		if err != nil {
			return nil, err
		}
		args, err := encodeExprList(e.Args)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&equationWire{Kind: "call", Func: fn, Args: args})
	}
	return nil, fmt.Errorf("unknown equation type %T", eq)
}

func encodeEquationList(eqs []ast.Equation) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for _, eq := range eqs {
		raw, err := encodeEquation(eq)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func encodeEqBranches(brs []ast.EquationBranch) ([]eqBranchWire, error) {
	var out []eqBranchWire
	for _, br := range brs {
		cond, err := encodeExpression(br.Cond)
		if err != nil {
			return nil, err
		}
		body, err := encodeEquationList(br.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, eqBranchWire{Cond: cond, Body: body})
	}
	return out, nil
}
