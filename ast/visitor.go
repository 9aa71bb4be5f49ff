package ast

// Visitor receives enter/exit callbacks during a tree walk. Enter fires
// pre-order before a node's children, Exit fires post-order after them; this
// single traversal order is what lets analyses compose.
//
// Visitors treat nodes as read-only. Transformations that need to change the
// tree use the Rewrite functions instead, which return fresh nodes.
type Visitor interface {
	EnterClass(*ClassDefinition)
	ExitClass(*ClassDefinition)
	EnterComponent(*Component)
	ExitComponent(*Component)
	EnterEquation(Equation)
	ExitEquation(Equation)
	EnterExpression(Expression)
	ExitExpression(Expression)
	EnterRef(*ComponentReference)
	ExitRef(*ComponentReference)
}

// BaseVisitor implements Visitor with no-ops, for embedding.
type BaseVisitor struct{}

func (BaseVisitor) EnterClass(*ClassDefinition)      {}
func (BaseVisitor) ExitClass(*ClassDefinition)       {}
func (BaseVisitor) EnterComponent(*Component)        {}
func (BaseVisitor) ExitComponent(*Component)         {}
func (BaseVisitor) EnterEquation(Equation)           {}
func (BaseVisitor) ExitEquation(Equation)            {}
func (BaseVisitor) EnterExpression(Expression)       {}
func (BaseVisitor) ExitExpression(Expression)        {}
func (BaseVisitor) EnterRef(*ComponentReference)     {}
func (BaseVisitor) ExitRef(*ComponentReference)      {}

// WalkClass walks components (including start expressions), then equations,
// then initial equations, then algorithm sections.
func WalkClass(c *ClassDefinition, v Visitor) {
	v.EnterClass(c)
	c.Components.Range(func(_ string, comp *Component) bool {
		v.EnterComponent(comp)
		for _, dim := range comp.Shape {
			WalkExpression(dim, v)
		}
		if comp.Start != nil {
			WalkExpression(comp.Start, v)
		}
		v.ExitComponent(comp)
		return true
	})
	for _, eq := range c.Equations {
		WalkEquation(eq, v)
	}
	for _, eq := range c.InitialEquations {
		WalkEquation(eq, v)
	}
	for _, alg := range c.Algorithms {
		for _, st := range alg {
			WalkStatement(st, v)
		}
	}
	for _, alg := range c.InitialAlgorithms {
		for _, st := range alg {
			WalkStatement(st, v)
		}
	}
	v.ExitClass(c)
}

// WalkEquation walks an equation and everything below it.
func WalkEquation(eq Equation, v Visitor) {
	v.EnterEquation(eq)
	switch e := eq.(type) {
	case *SimpleEquation:
		WalkExpression(e.LHS, v)
		WalkExpression(e.RHS, v)
	case *ConnectEquation:
		WalkExpression(e.Left, v)
		WalkExpression(e.Right, v)
	case *ForEquation:
		for _, ix := range e.Indices {
			WalkExpression(ix.Range, v)
		}
		for _, sub := range e.Body {
			WalkEquation(sub, v)
		}
	case *WhenEquation:
		for _, br := range e.Branches {
			WalkExpression(br.Cond, v)
			for _, sub := range br.Body {
				WalkEquation(sub, v)
			}
		}
	case *IfEquation:
		for _, br := range e.Branches {
			WalkExpression(br.Cond, v)
			for _, sub := range br.Body {
				WalkEquation(sub, v)
			}
		}
		for _, sub := range e.Else {
			WalkEquation(sub, v)
		}
	case *CallEquation:
		for _, arg := range e.Args {
			WalkExpression(arg, v)
		}
	}
	v.ExitEquation(eq)
}

// WalkExpression walks an expression tree. Component references fire
// EnterRef/ExitRef in addition to the expression callbacks, and subscript
// expressions are walked as children of the reference. The function-name slot
// of a Call is not walked: a function name is not a variable usage, so
// visitors that collect references never see it (they can still read it from
// the Call node in EnterExpression).
func WalkExpression(e Expression, v Visitor) {
	if e == nil {
		return
	}
	v.EnterExpression(e)
	switch x := e.(type) {
	case *Terminal:
	case *ComponentReference:
		v.EnterRef(x)
		for _, part := range x.Parts {
			for _, sub := range part.Subscripts {
				if sub.Expr != nil {
					WalkExpression(sub.Expr, v)
				}
			}
		}
		v.ExitRef(x)
	case *Unary:
		WalkExpression(x.Expr, v)
	case *Binary:
		WalkExpression(x.Left, v)
		WalkExpression(x.Right, v)
	case *Call:
		for _, arg := range x.Args {
			WalkExpression(arg, v)
		}
	case *ArrayExpr:
		for _, el := range x.Elements {
			WalkExpression(el, v)
		}
	case *TupleExpr:
		for _, el := range x.Elements {
			WalkExpression(el, v)
		}
	case *RangeExpr:
		WalkExpression(x.Start, v)
		if x.Step != nil {
			WalkExpression(x.Step, v)
		}
		WalkExpression(x.End, v)
	case *IfExpr:
		for _, br := range x.Branches {
			WalkExpression(br.Cond, v)
			WalkExpression(br.Then, v)
		}
		WalkExpression(x.Else, v)
	}
	v.ExitExpression(e)
}

// WalkStatement walks an algorithm statement.
func WalkStatement(st Statement, v Visitor) {
	switch s := st.(type) {
	case *Assignment:
		WalkExpression(s.Target, v)
		WalkExpression(s.Value, v)
	case *CallStatement:
		for _, arg := range s.Args {
			WalkExpression(arg, v)
		}
	case *ForStatement:
		for _, ix := range s.Indices {
			WalkExpression(ix.Range, v)
		}
		for _, sub := range s.Body {
			WalkStatement(sub, v)
		}
	case *WhileStatement:
		WalkExpression(s.Cond, v)
		for _, sub := range s.Body {
			WalkStatement(sub, v)
		}
	case *ReturnStatement, *BreakStatement:
	}
}
