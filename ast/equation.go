package ast

import "strings"

// Equation is the closed variant type for equations.
type Equation interface {
	isEquation()
	String() string
}

// SimpleEquation is an equality `lhs = rhs`.
type SimpleEquation struct {
	LHS Expression
	RHS Expression
}

func (*SimpleEquation) isEquation() {}

func (e *SimpleEquation) String() string {
	return e.LHS.String() + " = " + e.RHS.String()
}

// Equate is shorthand for building a simple equality equation.
func Equate(lhs, rhs Expression) *SimpleEquation {
	return &SimpleEquation{LHS: lhs, RHS: rhs}
}

// ConnectEquation is a structural `connect(a, b)`. Expansion into flow and
// potential equations is a pre-pass outside this core; the equation is
// recognized and carried through unexpanded.
type ConnectEquation struct {
	Left  *ComponentReference
	Right *ComponentReference
}

func (*ConnectEquation) isEquation() {}

func (e *ConnectEquation) String() string {
	return "connect(" + e.Left.String() + ", " + e.Right.String() + ")"
}

// ForIndex is one loop index with its range.
type ForIndex struct {
	Name  string
	Range Expression
}

// ForEquation is `for i in range loop ... end for`.
type ForEquation struct {
	Indices []ForIndex
	Body    []Equation
}

func (*ForEquation) isEquation() {}

func (e *ForEquation) String() string {
	idx := make([]string, len(e.Indices))
	for i, ix := range e.Indices {
		idx[i] = ix.Name + " in " + ix.Range.String()
	}
	var sb strings.Builder
	sb.WriteString("for ")
	sb.WriteString(strings.Join(idx, ", "))
	sb.WriteString(" loop ")
	writeBody(&sb, e.Body)
	sb.WriteString(" end for")
	return sb.String()
}

// EquationBranch is one condition/body pair of a when- or if-equation.
type EquationBranch struct {
	Cond Expression
	Body []Equation
}

// WhenEquation is `when c then ... elsewhen c2 then ... end when`. When
// branches produce discrete behavior and contribute nothing to the continuous
// equation count.
type WhenEquation struct {
	Branches []EquationBranch
}

func (*WhenEquation) isEquation() {}

func (e *WhenEquation) String() string {
	var sb strings.Builder
	for i, br := range e.Branches {
		if i == 0 {
			sb.WriteString("when ")
		} else {
			sb.WriteString(" elsewhen ")
		}
		sb.WriteString(br.Cond.String())
		sb.WriteString(" then ")
		writeBody(&sb, br.Body)
	}
	sb.WriteString(" end when")
	return sb.String()
}

// IfEquation is a conditional equation block with optional else. Valid models
// carry the same equation count in every branch.
type IfEquation struct {
	Branches []EquationBranch
	Else     []Equation
}

func (*IfEquation) isEquation() {}

func (e *IfEquation) String() string {
	var sb strings.Builder
	for i, br := range e.Branches {
		if i == 0 {
			sb.WriteString("if ")
		} else {
			sb.WriteString(" elseif ")
		}
		sb.WriteString(br.Cond.String())
		sb.WriteString(" then ")
		writeBody(&sb, br.Body)
	}
	if e.Else != nil {
		sb.WriteString(" else ")
		writeBody(&sb, e.Else)
	}
	sb.WriteString(" end if")
	return sb.String()
}

// CallEquation is a bare function-call equation such as `assert(x > 0, "...")`.
type CallEquation struct {
	Func *ComponentReference
	Args []Expression
}

func (*CallEquation) isEquation() {}

func (e *CallEquation) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Func.String() + "(" + strings.Join(args, ", ") + ")"
}

func writeBody(sb *strings.Builder, eqs []Equation) {
	for i, eq := range eqs {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(eq.String())
		sb.WriteString(";")
	}
}

// EqualExpressions reports content-based equality of two expressions.
func EqualExpressions(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// EqualEquations reports content-based equality of two equations.
func EqualEquations(a, b Equation) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}
