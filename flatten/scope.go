package flatten

import (
	"github.com/moda-xyz/go-moda/ast"
)

// pushScope qualifies every reference in eq with the instance name, skipping
// reserved identifiers. `v = der(x)` inside instance `p` becomes
// `p.v = der(p.x)`; the dotted form is collapsed to `p_v` by
// renameSubComponents once the instance's sub-components are inserted.
func pushScope(eq ast.Equation, instance string, reserved map[string]bool) ast.Equation {
	return ast.RewriteEquationRefs(eq, func(r *ast.ComponentReference) *ast.ComponentReference {
		if len(r.Parts) == 0 || reserved[r.Parts[0].Name] {
			return r
		}
		out := &ast.ComponentReference{Parts: make([]ast.RefPart, 0, len(r.Parts)+1)}
		out.Parts = append(out.Parts, ast.RefPart{Name: instance})
		out.Parts = append(out.Parts, r.Parts...)
		return out
	})
}

// renameSubComponents rewrites references of the form `instance.sub...` into
// the flat underscore form `instance_sub...` across the flat class's equation
// sections, so that after expansion every reference is a flat identifier.
func renameSubComponents(flat *ast.ClassDefinition, instance string) {
	rename := func(r *ast.ComponentReference) *ast.ComponentReference {
		if len(r.Parts) < 2 || r.Parts[0].Name != instance {
			return r
		}
		out := &ast.ComponentReference{Parts: make([]ast.RefPart, 0, len(r.Parts)-1)}
		merged := r.Parts[1]
		merged.Name = instance + "_" + merged.Name
		out.Parts = append(out.Parts, merged)
		out.Parts = append(out.Parts, r.Parts[2:]...)
		return out
	}
	for i, eq := range flat.Equations {
		flat.Equations[i] = ast.RewriteEquationRefs(eq, rename)
	}
	for i, eq := range flat.InitialEquations {
		flat.InitialEquations[i] = ast.RewriteEquationRefs(eq, rename)
	}
}
