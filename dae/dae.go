// Package dae assembles a flat class into a differential-algebraic equation
// system:
//
//	v := [p; t; x_dot; x; y; u; z; m; pre(x); pre(z); pre(m)]
//
//	0 = fx(v, c)           continuous equations
//	z = fz(v, c)           discrete-real updates at events
//	m = fm(v, c)           discrete-valued updates at events
//	c = fc(relation(v))    condition expressions
//	v = fr(v, c)           reset (reinit) statements at events
//
// where p are parameters, cp constants, t time, x differentiated variables,
// y algebraic variables, u inputs, z discrete-real and m discrete-valued
// unknowns. A balanced model has len(fx) equal to the unknown count; that
// check lives in the balance package.
package dae

import (
	"github.com/moda-xyz/go-moda/ast"
)

// Dae is the assembled system. Variable buckets are insertion-ordered maps
// keyed by flat variable name; equation sections are ordered slices. A Dae is
// built once per compiled model and not mutated afterwards, except for the
// metadata fields stamped by the driver.
type Dae struct {
	// Variables.
	P    *ast.ComponentMap // parameters
	CP   *ast.ComponentMap // constants
	T    *ast.Component    // time, the independent variable
	X    *ast.ComponentMap // continuous states (appear inside der())
	XDot *ast.ComponentMap // synthesized state derivatives, der_<x>
	Y    *ast.ComponentMap // algebraic variables
	U    *ast.ComponentMap // inputs
	Z    *ast.ComponentMap // discrete-real variables
	M    *ast.ComponentMap // discrete-valued (Boolean/Integer) variables
	PreX *ast.ComponentMap // pre-event values of x
	PreZ *ast.ComponentMap // pre-event values of z
	PreM *ast.ComponentMap // pre-event values of m

	// Equations.
	FX []ast.Equation // continuous equations
	FZ []ast.Equation // discrete-real update equations
	FM []ast.Equation // discrete-valued update equations

	// FC maps synthesized condition names (__c0, __c1, ...) to the when/if
	// condition expressions they stand for.
	FC *ast.OrderedMap[ast.Expression]

	// FR maps condition names to reset statements extracted from reinit()
	// calls in when-blocks.
	FR *ast.OrderedMap[ast.Statement]

	// UnexpandedConnects carries connect equations that reached assembly
	// without a connection-expansion pre-pass. They are reported, not
	// silently dropped; the balance checker surfaces the limitation.
	UnexpandedConnects []*ast.ConnectEquation

	// Metadata stamped by the driver.
	Model   string
	Hash    string
	Version string
}

// NewDae returns an empty system with the time variable installed.
func NewDae() *Dae {
	return &Dae{
		P:    ast.NewComponentMap(),
		CP:   ast.NewComponentMap(),
		T:    &ast.Component{Name: "time", TypeName: "Real"},
		X:    ast.NewComponentMap(),
		XDot: ast.NewComponentMap(),
		Y:    ast.NewComponentMap(),
		U:    ast.NewComponentMap(),
		Z:    ast.NewComponentMap(),
		M:    ast.NewComponentMap(),
		PreX: ast.NewComponentMap(),
		PreZ: ast.NewComponentMap(),
		PreM: ast.NewComponentMap(),
		FC:   ast.NewOrderedMap[ast.Expression](),
		FR:   ast.NewOrderedMap[ast.Statement](),
	}
}

// NumUnknowns returns the unknown count: states, algebraic and discrete
// variables. Parameters, constants and inputs are known.
func (d *Dae) NumUnknowns() int {
	return d.X.Len() + d.Y.Len() + d.Z.Len() + d.M.Len()
}
