// Package blt orders equations into block lower triangular form for
// sequential evaluation. Each equality equation is assigned the variable it
// defines (its left-hand side shape), a dependency graph is built from
// variable usage, and Tarjan's strongly-connected-components algorithm
// partitions the equations into solvable blocks: singleton components are
// directly solvable, larger components are algebraic loops that must be
// solved coupled. Derivative equations are canonicalized to der(x) = f(...).
//
// The orderer never fails: equations outside the equality subset (if, when,
// for, connect, function calls) carry no defining variable, take part in no
// dependencies, and pass through in encounter order.
package blt

import (
	"github.com/moda-xyz/go-moda/ast"
)

// Result of an ordering run.
type Result struct {
	// Equations in dependency order, derivative equations canonicalized.
	Equations []ast.Equation

	// SCCs lists the strongly connected components in topological order.
	// Each component holds indices into the input equation list; components
	// with more than one equation are algebraic loops.
	SCCs [][]int

	// Defines holds the defining variable per input equation: the bare
	// left-hand variable, the symbol "der(v)" for derivative equations, or
	// "" when the equation has no defining shape.
	Defines []string
}

// AlgebraicLoops returns the components with more than one equation.
func (r *Result) AlgebraicLoops() [][]int {
	var loops [][]int
	for _, scc := range r.SCCs {
		if len(scc) > 1 {
			loops = append(loops, scc)
		}
	}
	return loops
}

// equationInfo is the per-equation structural record used to build the graph.
type equationInfo struct {
	defines string
	uses    []string // RHS variables in first-seen order, der(v) included
}

// Order reorders eqs so that every equation's dependencies are defined by
// earlier equations, mutually dependent equations staying grouped. The input
// slice is not modified; the result is a permutation of deep copies. Output
// is deterministic for a fixed input order: adjacency is built and iterated
// in insertion order.
func Order(eqs []ast.Equation) *Result {
	infos := make([]equationInfo, len(eqs))
	for i, eq := range eqs {
		infos[i] = analyze(eq)
	}

	// definedBy maps a variable to the first equation defining it. Variables
	// defined by zero or several equations are not rejected here; counting
	// problems are the balance checker's concern.
	definedBy := make(map[string]int)
	for i, info := range infos {
		if info.defines == "" {
			continue
		}
		if _, ok := definedBy[info.defines]; !ok {
			definedBy[info.defines] = i
		}
	}

	// Edge j -> i: equation i uses a variable defined by equation j, so j
	// must be solved first.
	adj := make([][]int, len(eqs))
	for i, info := range infos {
		for _, used := range info.uses {
			j, ok := definedBy[used]
			if !ok || j == i {
				continue
			}
			adj[j] = append(adj[j], i)
		}
	}

	sccs := tarjanSCC(len(eqs), adj)

	// Tarjan emits components in reverse topological order; reverse so
	// dependencies precede dependents, and keep the original relative order
	// inside each component.
	for l, r := 0, len(sccs)-1; l < r; l, r = l+1, r-1 {
		sccs[l], sccs[r] = sccs[r], sccs[l]
	}

	result := &Result{
		SCCs:    sccs,
		Defines: make([]string, len(eqs)),
	}
	for i, info := range infos {
		result.Defines[i] = info.defines
	}
	for _, scc := range sccs {
		for _, idx := range scc {
			result.Equations = append(result.Equations, canonicalize(eqs[idx]))
		}
	}
	return result
}

// analyze extracts the defining variable and usage set of one equation.
// Only equality equations with a bare variable or der(variable) left-hand
// side participate in the dependency analysis.
func analyze(eq ast.Equation) equationInfo {
	simple, ok := eq.(*ast.SimpleEquation)
	if !ok {
		return equationInfo{}
	}
	info := equationInfo{defines: definingVariable(simple.LHS)}
	info.uses = collectUses(simple.RHS)
	return info
}

// definingVariable returns the variable an equality's LHS defines: a bare
// reference defines itself, der(v) defines the distinct symbol "der(v)".
func definingVariable(lhs ast.Expression) string {
	switch x := lhs.(type) {
	case *ast.ComponentReference:
		return x.String()
	case *ast.Call:
		if x.Func.String() == "der" && len(x.Args) == 1 {
			if ref, ok := x.Args[0].(*ast.ComponentReference); ok {
				return "der(" + ref.String() + ")"
			}
		}
	}
	return ""
}

// usageCollector gathers every variable reference in an expression, in
// first-seen order. der(v) calls contribute both the symbol "der(v)" and v
// itself (the argument reference is walked as a child).
type usageCollector struct {
	ast.BaseVisitor
	seen map[string]bool
	uses []string
}

func (c *usageCollector) add(name string) {
	if !c.seen[name] {
		c.seen[name] = true
		c.uses = append(c.uses, name)
	}
}

func (c *usageCollector) EnterExpression(e ast.Expression) {
	if call, ok := e.(*ast.Call); ok {
		if call.Func.String() == "der" && len(call.Args) == 1 {
			if ref, ok := call.Args[0].(*ast.ComponentReference); ok {
				c.add("der(" + ref.String() + ")")
			}
		}
	}
}

func (c *usageCollector) EnterRef(r *ast.ComponentReference) {
	c.add(r.String())
}

func collectUses(e ast.Expression) []string {
	c := &usageCollector{seen: make(map[string]bool)}
	ast.WalkExpression(e, c)
	return c.uses
}

// canonicalize rewrites an equality so derivative equations read
// der(x) = f(...): if the RHS contains a der() call and the LHS does not,
// the sides are swapped; a coefficient form c*der(x) = e is normalized to
// der(x) = e/c. Other equations are returned as deep copies.
func canonicalize(eq ast.Equation) ast.Equation {
	simple, ok := eq.(*ast.SimpleEquation)
	if !ok {
		return ast.CloneEquation(eq)
	}
	lhsDer := containsDer(simple.LHS)
	rhsDer := containsDer(simple.RHS)
	if rhsDer && !lhsDer {
		return &ast.SimpleEquation{
			LHS: ast.CloneExpression(simple.RHS),
			RHS: ast.CloneExpression(simple.LHS),
		}
	}
	if norm := normalizeDerivative(simple); norm != nil {
		return norm
	}
	return ast.CloneEquation(eq)
}

// normalizeDerivative rewrites `c * der(x) = e` or `der(x) * c = e` to
// `der(x) = e / c`, the form component models such as capacitors and
// inductors produce. Returns nil when the equation has another shape.
func normalizeDerivative(eq *ast.SimpleEquation) ast.Equation {
	mul, ok := eq.LHS.(*ast.Binary)
	if !ok || mul.Op != ast.OpMul {
		return nil
	}
	var der ast.Expression
	var coeff ast.Expression
	if isDerCall(mul.Right) {
		der, coeff = mul.Right, mul.Left
	} else if isDerCall(mul.Left) {
		der, coeff = mul.Left, mul.Right
	} else {
		return nil
	}
	return &ast.SimpleEquation{
		LHS: ast.CloneExpression(der),
		RHS: &ast.Binary{
			Op:    ast.OpDiv,
			Left:  ast.CloneExpression(eq.RHS),
			Right: ast.CloneExpression(coeff),
		},
	}
}

func isDerCall(e ast.Expression) bool {
	call, ok := e.(*ast.Call)
	return ok && call.Func.String() == "der" && len(call.Args) == 1
}

// derScanner reports whether an expression contains a der() call.
type derScanner struct {
	ast.BaseVisitor
	found bool
}

func (s *derScanner) EnterExpression(e ast.Expression) {
	if call, ok := e.(*ast.Call); ok && call.Func.String() == "der" {
		s.found = true
	}
}

func containsDer(e ast.Expression) bool {
	s := &derScanner{}
	ast.WalkExpression(e, s)
	return s.found
}
