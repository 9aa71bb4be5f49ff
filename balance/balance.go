// Package balance counts equations against unknowns to classify a model as
// balanced, over-determined or under-determined. The count is structural:
// scalar variables and equations only, no array expansion.
package balance

import (
	"fmt"

	"github.com/moda-xyz/go-moda/ast"
	"github.com/moda-xyz/go-moda/dae"
)

// Result of a balance check.
type Result struct {
	NumEquations  int  `json:"num_equations"`
	NumUnknowns   int  `json:"num_unknowns"`
	NumStates     int  `json:"num_states"`
	NumAlgebraic  int  `json:"num_algebraic"`
	NumParameters int  `json:"num_parameters"`
	NumInputs     int  `json:"num_inputs"`
	IsBalanced    bool `json:"is_balanced"`
}

// Difference returns equations minus unknowns: positive when
// over-determined, negative when under-determined.
func (r *Result) Difference() int {
	return r.NumEquations - r.NumUnknowns
}

// StatusMessage renders the classification for reports and CLI output.
func (r *Result) StatusMessage() string {
	switch {
	case r.IsBalanced:
		return fmt.Sprintf("Model is balanced: %d equations, %d unknowns", r.NumEquations, r.NumUnknowns)
	case r.Difference() > 0:
		return fmt.Sprintf("Model is over-determined: %d equations, %d unknowns (%d extra equations)",
			r.NumEquations, r.NumUnknowns, r.Difference())
	default:
		return fmt.Sprintf("Model is under-determined: %d equations, %d unknowns (%d missing equations)",
			r.NumEquations, r.NumUnknowns, -r.Difference())
	}
}

// CheckClass counts a flat class directly: unknowns are the components that
// are neither parameter, constant nor input; equations are counted
// structurally with CountEquations.
func CheckClass(flat *ast.ClassDefinition) *Result {
	r := &Result{}
	states := dae.FindStates(flat.Equations)

	flat.Components.Range(func(name string, comp *ast.Component) bool {
		switch {
		case comp.Variability == ast.Parameter || comp.Variability == ast.Constant:
			r.NumParameters++
		case comp.Causality == ast.Input:
			r.NumInputs++
		default:
			r.NumUnknowns++
			if states[name] {
				r.NumStates++
			} else {
				r.NumAlgebraic++
			}
		}
		return true
	})

	r.NumEquations = CountEquations(flat.Equations)
	r.IsBalanced = r.NumEquations == r.NumUnknowns
	return r
}

// CheckDAE counts an assembled system. The unknown count comes from the
// variable buckets; the equation count from the fx/fz/fm sections.
func CheckDAE(d *dae.Dae) *Result {
	r := &Result{
		NumUnknowns:   d.NumUnknowns(),
		NumStates:     d.X.Len(),
		NumAlgebraic:  d.Y.Len(),
		NumParameters: d.P.Len() + d.CP.Len(),
		NumInputs:     d.U.Len(),
	}
	r.NumEquations = CountEquations(d.FX) + CountEquations(d.FZ) + CountEquations(d.FM)
	r.IsBalanced = r.NumEquations == r.NumUnknowns
	return r
}

// CountEquations counts scalar equations recursively. An if-equation
// contributes the count of its else branch (every branch must agree for a
// well-formed model, and the else branch always exists at runtime); without
// an else branch the first branch's count stands in. A for-equation
// contributes its body once, ranges not being expanded; when bodies and
// function-call equations are event behavior, not continuous constraints,
// and count zero. Unexpanded connect equations count zero here: expansion
// is a pre-pass contract, and Dae.UnexpandedConnects surfaces any that slip
// through rather than crediting them as constraints.
func CountEquations(eqs []ast.Equation) int {
	n := 0
	for _, eq := range eqs {
		switch e := eq.(type) {
		case *ast.SimpleEquation:
			n++
		case *ast.IfEquation:
			if e.Else == nil && len(e.Branches) > 0 {
				n += CountEquations(e.Branches[0].Body)
			} else {
				n += CountEquations(e.Else)
			}
		case *ast.ForEquation:
			n += CountEquations(e.Body)
		case *ast.WhenEquation, *ast.CallEquation, *ast.ConnectEquation:
			// no continuous contribution
		}
	}
	return n
}
