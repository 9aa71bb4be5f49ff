package dae

import (
	"fmt"

	"github.com/moda-xyz/go-moda/ast"
)

// AssemblyError reports a malformed flat class, such as a reinit call with
// the wrong shape. Assembly stops on the first structural error; no partial
// system is returned.
type AssemblyError struct {
	Reason string
}

func (e *AssemblyError) Error() string {
	return "dae assembly: " + e.Reason
}

// Options configure assembly.
type Options struct {
	// RewriteDerivatives replaces der(x) calls in the continuous equations
	// with references to the synthesized der_x components. Off by default:
	// the structural orderer canonicalizes on der() call shape.
	RewriteDerivatives bool
}

// Option mutates Options.
type Option func(*Options)

// WithDerivativeRewrite enables der(x) -> der_x reference rewriting in FX.
func WithDerivativeRewrite(v bool) Option {
	return func(o *Options) { o.RewriteDerivatives = v }
}

// Assemble classifies a flat class's components and equations into the DAE
// buckets. Every component lands in exactly one variable bucket and no
// equation is dropped. The flat class is read-only.
func Assemble(flat *ast.ClassDefinition, opts ...Option) (*Dae, error) {
	o := &Options{}
	for _, fn := range opts {
		fn(o)
	}

	d := NewDae()
	d.Model = flat.Name

	states := FindStates(flat.Equations)

	flat.Components.Range(func(name string, comp *ast.Component) bool {
		switch comp.Variability {
		case ast.Parameter:
			d.P.Put(name, comp.Clone())
		case ast.Constant:
			d.CP.Put(name, comp.Clone())
		case ast.Discrete:
			if comp.TypeName == "Real" {
				d.Z.Put(name, comp.Clone())
			} else {
				d.M.Put(name, comp.Clone())
			}
		default:
			if states[name] {
				d.X.Put(name, comp.Clone())
				der := comp.Clone()
				der.Name = "der_" + name
				d.XDot.Put(der.Name, der)
			} else if comp.Causality == ast.Input {
				d.U.Put(name, comp.Clone())
			} else {
				d.Y.Put(name, comp.Clone())
			}
		}
		return true
	})

	addPreComponents(d.X, d.PreX)
	addPreComponents(d.Z, d.PreZ)
	addPreComponents(d.M, d.PreM)

	for _, eq := range flat.Equations {
		switch e := eq.(type) {
		case *ast.WhenEquation:
			if err := assembleWhen(d, e); err != nil {
				return nil, err
			}
		case *ast.ConnectEquation:
			d.UnexpandedConnects = append(d.UnexpandedConnects, ast.CloneEquation(e).(*ast.ConnectEquation))
		default:
			ceq := ast.CloneEquation(eq)
			if o.RewriteDerivatives {
				ceq = rewriteDerivatives(ceq)
			}
			d.FX = append(d.FX, ceq)
		}
	}
	return d, nil
}

// assembleWhen lifts a when-equation into the discrete sections: the branch
// condition becomes a named condition variable in FC, reinit calls become
// reset statements in FR, and simple equations become FZ or FM updates
// depending on which bucket their left-hand variable lives in.
func assembleWhen(d *Dae, when *ast.WhenEquation) error {
	for _, br := range when.Branches {
		condName := fmt.Sprintf("__c%d", d.FC.Len())
		d.FC.Put(condName, ast.CloneExpression(br.Cond))

		for _, sub := range br.Body {
			switch se := sub.(type) {
			case *ast.CallEquation:
				if se.Func.String() != "reinit" {
					continue
				}
				if len(se.Args) != 2 {
					return &AssemblyError{Reason: "reinit must have exactly two arguments"}
				}
				target, ok := se.Args[0].(*ast.ComponentReference)
				if !ok {
					return &AssemblyError{Reason: "first argument of reinit must be a component reference"}
				}
				d.FR.Put(condName, &ast.Assignment{
					Target: target.Clone(),
					Value:  ast.CloneExpression(se.Args[1]),
				})
			case *ast.SimpleEquation:
				if ref, ok := se.LHS.(*ast.ComponentReference); ok && d.M.Has(ref.String()) {
					d.FM = append(d.FM, ast.CloneEquation(se))
				} else {
					d.FZ = append(d.FZ, ast.CloneEquation(se))
				}
			}
		}
	}
	return nil
}

func addPreComponents(source, target *ast.ComponentMap) {
	source.Range(func(name string, comp *ast.Component) bool {
		pre := comp.Clone()
		pre.Name = "pre_" + name
		target.Put(pre.Name, pre)
		return true
	})
}

// rewriteDerivatives replaces der(x) with a reference to der_x.
func rewriteDerivatives(eq ast.Equation) ast.Equation {
	return ast.RewriteEquation(eq, func(e ast.Expression) ast.Expression {
		call, ok := e.(*ast.Call)
		if !ok || call.Func.String() != "der" || len(call.Args) != 1 {
			return e
		}
		ref, ok := call.Args[0].(*ast.ComponentReference)
		if !ok || len(ref.Parts) == 0 {
			return e
		}
		out := ref.Clone()
		out.Parts[0].Name = "der_" + out.Parts[0].Name
		return out
	})
}

// stateScanner collects names that appear as the sole argument of der().
type stateScanner struct {
	ast.BaseVisitor
	states map[string]bool
}

func (s *stateScanner) EnterExpression(e ast.Expression) {
	call, ok := e.(*ast.Call)
	if !ok || call.Func.String() != "der" || len(call.Args) == 0 {
		return
	}
	if ref, ok := call.Args[0].(*ast.ComponentReference); ok {
		s.states[ref.String()] = true
	}
}

// FindStates scans every expression in the equations for der(v) calls and
// returns the set of state variable names.
func FindStates(eqs []ast.Equation) map[string]bool {
	s := &stateScanner{states: make(map[string]bool)}
	for _, eq := range eqs {
		ast.WalkEquation(eq, s)
	}
	return s.states
}
