// Package flatten resolves a hierarchical model into a single flat class:
// extends clauses are merged, component instances of user classes are expanded
// into scope-qualified sub-components, and every reference is rewritten to a
// flat identifier. The input class table is never mutated; the flat class owns
// copies of everything it pulls in.
package flatten

import (
	"github.com/moda-xyz/go-moda/ast"
)

// DefaultReservedSymbols are identifiers exempt from scope qualification:
// the independent variable, the builtin operators and the trigonometric
// functions a model equation may call without declaring.
var DefaultReservedSymbols = []string{"time", "der", "pre", "sin", "cos", "tan"}

// Options configure a flattening run.
type Options struct {
	// Reserved identifiers are never scope-qualified. Defaults to
	// DefaultReservedSymbols.
	Reserved map[string]bool

	// OverrideExtends lets later extends clauses redefine a component name
	// already present. The default (false) keeps the first occurrence.
	OverrideExtends bool
}

// Option mutates Options.
type Option func(*Options)

// WithReservedSymbols replaces the reserved identifier set.
func WithReservedSymbols(names ...string) Option {
	return func(o *Options) {
		o.Reserved = make(map[string]bool, len(names))
		for _, n := range names {
			o.Reserved[n] = true
		}
	}
}

// WithOverrideExtends controls the extends merge rule on name collision.
func WithOverrideExtends(v bool) Option {
	return func(o *Options) { o.OverrideExtends = v }
}

func buildOptions(opts []Option) *Options {
	o := &Options{}
	for _, fn := range opts {
		fn(o)
	}
	if o.Reserved == nil {
		o.Reserved = make(map[string]bool, len(DefaultReservedSymbols))
		for _, n := range DefaultReservedSymbols {
			o.Reserved[n] = true
		}
	}
	return o
}

// Flatten resolves the class named root against the table and returns a fresh
// flat class: no unresolved extends, no component whose type is a user class.
// The table and its classes are read-only; repeated flattening of the result
// is a no-op.
func Flatten(table *ast.ClassTable, root string, opts ...Option) (*ast.ClassDefinition, error) {
	o := buildOptions(opts)

	rootClass, ok := table.Get(root)
	if !ok {
		return nil, &ClassNotFoundError{Name: root}
	}

	flat := ast.NewClassDefinition(rootClass.Name, rootClass.Type)
	flat.Description = rootClass.Description

	if err := mergeClass(flat, rootClass, table, o, nil); err != nil {
		return nil, err
	}

	if err := expandInstances(flat, table, o); err != nil {
		return nil, err
	}
	return flat, nil
}

// mergeClass copies cls's content into flat, resolving extends depth-first in
// declaration order. visited carries the extends chain for cycle detection.
func mergeClass(flat, cls *ast.ClassDefinition, table *ast.ClassTable, o *Options, visited []string) error {
	for _, prev := range visited {
		if prev == cls.Name {
			return &CyclicExtendsError{Chain: append(append([]string(nil), visited...), cls.Name)}
		}
	}
	visited = append(visited, cls.Name)

	cls.Components.Range(func(name string, comp *ast.Component) bool {
		if !o.OverrideExtends && flat.Components.Has(name) {
			return true // first occurrence wins
		}
		flat.Components.Put(name, comp.Clone())
		return true
	})
	flat.Equations = append(flat.Equations, ast.CloneEquations(cls.Equations)...)
	flat.InitialEquations = append(flat.InitialEquations, ast.CloneEquations(cls.InitialEquations)...)
	for _, alg := range cls.Algorithms {
		flat.Algorithms = append(flat.Algorithms, ast.CloneStatements(alg))
	}
	for _, alg := range cls.InitialAlgorithms {
		flat.InitialAlgorithms = append(flat.InitialAlgorithms, ast.CloneStatements(alg))
	}

	for _, base := range cls.Extends {
		baseClass, ok := table.Get(base)
		if !ok {
			return &BaseClassNotFoundError{Class: cls.Name, Base: base}
		}
		if err := mergeClass(flat, baseClass, table, o, visited); err != nil {
			return err
		}
	}
	return nil
}

// expandInstances replaces every component whose type resolves to a class in
// the table with that class's scope-qualified equations and sub-components.
// Sub-components may themselves be instances, so expansion repeats until the
// component map is free of user-class types.
func expandInstances(flat *ast.ClassDefinition, table *ast.ClassTable, o *Options) error {
	// ancestry tracks, per component name, the classes expanded along the
	// path that produced it; a repeat means the model instantiates itself.
	ancestry := make(map[string][]string)

	for {
		expanded := false
		for _, name := range flat.Components.Keys() {
			comp, ok := flat.Components.Get(name)
			if !ok {
				continue
			}
			instClass, ok := table.Get(comp.TypeName)
			if !ok {
				continue
			}
			for _, prev := range ancestry[name] {
				if prev == instClass.Name {
					return &RecursiveInstanceError{Class: instClass.Name, Instance: name}
				}
			}
			chain := append(append([]string(nil), ancestry[name]...), instClass.Name)

			// Resolve the instance class's own extends before expansion.
			inst := ast.NewClassDefinition(instClass.Name, instClass.Type)
			if err := mergeClass(inst, instClass, table, o, nil); err != nil {
				return err
			}

			// Scope-push the instance's equations into the flat class.
			for _, eq := range inst.Equations {
				flat.Equations = append(flat.Equations, pushScope(eq, name, o.Reserved))
			}
			for _, eq := range inst.InitialEquations {
				flat.InitialEquations = append(flat.InitialEquations, pushScope(eq, name, o.Reserved))
			}

			// Rewrite existing dotted references `name.sub` to `name_sub`.
			renameSubComponents(flat, name)

			// Insert sub-components under composed names.
			inst.Components.Range(func(subName string, sub *ast.Component) bool {
				flatName := name + "_" + subName
				sc := sub.Clone()
				sc.Name = flatName
				flat.Components.Put(flatName, sc)
				ancestry[flatName] = chain
				return true
			})

			flat.Components.Delete(name)
			delete(ancestry, name)
			expanded = true
		}
		if !expanded {
			return nil
		}
	}
}
