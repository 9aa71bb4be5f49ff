package ast

import "strings"

// Statement is the closed variant type for algorithm statements.
type Statement interface {
	isStatement()
	String() string
}

// Assignment is `target := value`.
type Assignment struct {
	Target *ComponentReference
	Value  Expression
}

func (*Assignment) isStatement() {}

func (s *Assignment) String() string {
	return s.Target.String() + " := " + s.Value.String()
}

// CallStatement is a bare procedure call inside an algorithm.
type CallStatement struct {
	Func *ComponentReference
	Args []Expression
}

func (*CallStatement) isStatement() {}

func (s *CallStatement) String() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	return s.Func.String() + "(" + strings.Join(args, ", ") + ")"
}

// ForStatement is a loop over statements.
type ForStatement struct {
	Indices []ForIndex
	Body    []Statement
}

func (*ForStatement) isStatement() {}

func (s *ForStatement) String() string {
	idx := make([]string, len(s.Indices))
	for i, ix := range s.Indices {
		idx[i] = ix.Name + " in " + ix.Range.String()
	}
	var sb strings.Builder
	sb.WriteString("for ")
	sb.WriteString(strings.Join(idx, ", "))
	sb.WriteString(" loop ")
	for i, st := range s.Body {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(st.String())
		sb.WriteString(";")
	}
	sb.WriteString(" end for")
	return sb.String()
}

// WhileStatement is a while loop.
type WhileStatement struct {
	Cond Expression
	Body []Statement
}

func (*WhileStatement) isStatement() {}

func (s *WhileStatement) String() string {
	var sb strings.Builder
	sb.WriteString("while ")
	sb.WriteString(s.Cond.String())
	sb.WriteString(" loop ")
	for i, st := range s.Body {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(st.String())
		sb.WriteString(";")
	}
	sb.WriteString(" end while")
	return sb.String()
}

// ReturnStatement exits a function algorithm.
type ReturnStatement struct{}

func (*ReturnStatement) isStatement() {}

func (*ReturnStatement) String() string { return "return" }

// BreakStatement exits the innermost loop.
type BreakStatement struct{}

func (*BreakStatement) isStatement() {}

func (*BreakStatement) String() string { return "break" }
