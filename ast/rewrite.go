package ast

// Tree transformations return fresh nodes rather than mutating in place: each
// caller owns its output tree outright, and shared inputs (class tables,
// per-file definitions) stay untouched. Rewrites are bottom-up: children are
// rebuilt first, then the transform runs on the rebuilt node.

// RewriteExpression rebuilds an expression tree bottom-up, applying f to every
// rebuilt node. A nil f yields a deep copy. The function-name slot of calls is
// copied, not rewritten; use RewriteEquationRefs for reference renames that
// must reach function names.
func RewriteExpression(e Expression, f func(Expression) Expression) Expression {
	if e == nil {
		return nil
	}
	var out Expression
	switch x := e.(type) {
	case *Terminal:
		out = &Terminal{Kind: x.Kind, Value: x.Value}
	case *ComponentReference:
		r := x.Clone()
		for i := range r.Parts {
			for j := range r.Parts[i].Subscripts {
				if r.Parts[i].Subscripts[j].Expr != nil {
					r.Parts[i].Subscripts[j].Expr = RewriteExpression(r.Parts[i].Subscripts[j].Expr, f)
				}
			}
		}
		out = r
	case *Unary:
		out = &Unary{Op: x.Op, Expr: RewriteExpression(x.Expr, f)}
	case *Binary:
		out = &Binary{
			Op:    x.Op,
			Left:  RewriteExpression(x.Left, f),
			Right: RewriteExpression(x.Right, f),
		}
	case *Call:
		args := make([]Expression, len(x.Args))
		for i, a := range x.Args {
			args[i] = RewriteExpression(a, f)
		}
		out = &Call{Func: x.Func.Clone(), Args: args}
	case *ArrayExpr:
		elems := make([]Expression, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = RewriteExpression(el, f)
		}
		out = &ArrayExpr{Elements: elems}
	case *TupleExpr:
		elems := make([]Expression, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = RewriteExpression(el, f)
		}
		out = &TupleExpr{Elements: elems}
	case *RangeExpr:
		r := &RangeExpr{
			Start: RewriteExpression(x.Start, f),
			End:   RewriteExpression(x.End, f),
		}
		if x.Step != nil {
			r.Step = RewriteExpression(x.Step, f)
		}
		out = r
	case *IfExpr:
		branches := make([]ExprBranch, len(x.Branches))
		for i, br := range x.Branches {
			branches[i] = ExprBranch{
				Cond: RewriteExpression(br.Cond, f),
				Then: RewriteExpression(br.Then, f),
			}
		}
		out = &IfExpr{Branches: branches, Else: RewriteExpression(x.Else, f)}
	default:
		out = e
	}
	if f != nil {
		out = f(out)
	}
	return out
}

// RewriteEquation rebuilds an equation, applying f to every contained
// expression (sides, conditions, ranges, call arguments). A nil f yields a
// deep copy.
func RewriteEquation(eq Equation, f func(Expression) Expression) Equation {
	switch e := eq.(type) {
	case *SimpleEquation:
		return &SimpleEquation{
			LHS: RewriteExpression(e.LHS, f),
			RHS: RewriteExpression(e.RHS, f),
		}
	case *ConnectEquation:
		return &ConnectEquation{Left: e.Left.Clone(), Right: e.Right.Clone()}
	case *ForEquation:
		indices := make([]ForIndex, len(e.Indices))
		for i, ix := range e.Indices {
			indices[i] = ForIndex{Name: ix.Name, Range: RewriteExpression(ix.Range, f)}
		}
		body := make([]Equation, len(e.Body))
		for i, sub := range e.Body {
			body[i] = RewriteEquation(sub, f)
		}
		return &ForEquation{Indices: indices, Body: body}
	case *WhenEquation:
		branches := make([]EquationBranch, len(e.Branches))
		for i, br := range e.Branches {
			branches[i] = rewriteBranch(br, f)
		}
		return &WhenEquation{Branches: branches}
	case *IfEquation:
		branches := make([]EquationBranch, len(e.Branches))
		for i, br := range e.Branches {
			branches[i] = rewriteBranch(br, f)
		}
		var elseBody []Equation
		if e.Else != nil {
			elseBody = make([]Equation, len(e.Else))
			for i, sub := range e.Else {
				elseBody[i] = RewriteEquation(sub, f)
			}
		}
		return &IfEquation{Branches: branches, Else: elseBody}
	case *CallEquation:
		args := make([]Expression, len(e.Args))
		for i, a := range e.Args {
			args[i] = RewriteExpression(a, f)
		}
		return &CallEquation{Func: e.Func.Clone(), Args: args}
	}
	return eq
}

func rewriteBranch(br EquationBranch, f func(Expression) Expression) EquationBranch {
	body := make([]Equation, len(br.Body))
	for i, sub := range br.Body {
		body[i] = RewriteEquation(sub, f)
	}
	return EquationBranch{Cond: RewriteExpression(br.Cond, f), Body: body}
}

// RewriteEquationRefs rebuilds an equation, applying rf to every component
// reference in it: variable references, subscripted paths, connect sides and
// the function-name slot of calls. Scope qualification during flattening uses
// this with a reserved-identifier filter.
func RewriteEquationRefs(eq Equation, rf func(*ComponentReference) *ComponentReference) Equation {
	switch e := eq.(type) {
	case *ConnectEquation:
		return &ConnectEquation{Left: rf(e.Left.Clone()), Right: rf(e.Right.Clone())}
	case *CallEquation:
		args := make([]Expression, len(e.Args))
		for i, a := range e.Args {
			args[i] = rewriteExprRefs(a, rf)
		}
		return &CallEquation{Func: rf(e.Func.Clone()), Args: args}
	default:
		return RewriteEquation(eq, func(x Expression) Expression {
			switch n := x.(type) {
			case *ComponentReference:
				return rf(n)
			case *Call:
				return &Call{Func: rf(n.Func), Args: n.Args}
			}
			return x
		})
	}
}

func rewriteExprRefs(e Expression, rf func(*ComponentReference) *ComponentReference) Expression {
	return RewriteExpression(e, func(x Expression) Expression {
		switch n := x.(type) {
		case *ComponentReference:
			return rf(n)
		case *Call:
			return &Call{Func: rf(n.Func), Args: n.Args}
		}
		return x
	})
}

// CloneExpression returns a deep copy of an expression.
func CloneExpression(e Expression) Expression {
	return RewriteExpression(e, nil)
}

// CloneEquation returns a deep copy of an equation.
func CloneEquation(eq Equation) Equation {
	return RewriteEquation(eq, nil)
}

// CloneEquations deep-copies a slice of equations.
func CloneEquations(eqs []Equation) []Equation {
	if eqs == nil {
		return nil
	}
	out := make([]Equation, len(eqs))
	for i, eq := range eqs {
		out[i] = CloneEquation(eq)
	}
	return out
}

// CloneStatement returns a deep copy of a statement.
func CloneStatement(st Statement) Statement {
	switch s := st.(type) {
	case *Assignment:
		return &Assignment{Target: s.Target.Clone(), Value: CloneExpression(s.Value)}
	case *CallStatement:
		args := make([]Expression, len(s.Args))
		for i, a := range s.Args {
			args[i] = CloneExpression(a)
		}
		return &CallStatement{Func: s.Func.Clone(), Args: args}
	case *ForStatement:
		indices := make([]ForIndex, len(s.Indices))
		for i, ix := range s.Indices {
			indices[i] = ForIndex{Name: ix.Name, Range: CloneExpression(ix.Range)}
		}
		return &ForStatement{Indices: indices, Body: CloneStatements(s.Body)}
	case *WhileStatement:
		return &WhileStatement{Cond: CloneExpression(s.Cond), Body: CloneStatements(s.Body)}
	case *ReturnStatement:
		return &ReturnStatement{}
	case *BreakStatement:
		return &BreakStatement{}
	}
	return st
}

// CloneStatements deep-copies a slice of statements.
func CloneStatements(sts []Statement) []Statement {
	if sts == nil {
		return nil
	}
	out := make([]Statement, len(sts))
	for i, st := range sts {
		out[i] = CloneStatement(st)
	}
	return out
}
