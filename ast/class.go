package ast

import "strings"

// ClassTable maps fully-qualified class name to definition, in declaration
// order. It is the input boundary of the whole pipeline: the external parser
// produces one, the flattening engine consumes it read-only.
type ClassTable = OrderedMap[*ClassDefinition]

// NewClassTable returns an empty class table.
func NewClassTable() *ClassTable { return NewOrderedMap[*ClassDefinition]() }

// ComponentMap maps component name to component, in declaration order.
type ComponentMap = OrderedMap[*Component]

// NewComponentMap returns an empty component map.
func NewComponentMap() *ComponentMap { return NewOrderedMap[*Component]() }

// Component is one declared variable or sub-model instance. A component whose
// type name resolves to a user class in the class table is an instance to be
// expanded by flattening, not a scalar unknown.
type Component struct {
	Name        string
	TypeName    string
	Variability Variability
	Causality   Causality
	Connection  Connection
	Shape       []Expression
	Start       Expression
	Description string
}

// Clone returns a deep copy of the component.
func (c *Component) Clone() *Component {
	out := &Component{
		Name:        c.Name,
		TypeName:    c.TypeName,
		Variability: c.Variability,
		Causality:   c.Causality,
		Connection:  c.Connection,
		Description: c.Description,
	}
	if len(c.Shape) > 0 {
		out.Shape = make([]Expression, len(c.Shape))
		for i, e := range c.Shape {
			out.Shape[i] = CloneExpression(e)
		}
	}
	if c.Start != nil {
		out.Start = CloneExpression(c.Start)
	}
	return out
}

func (c *Component) String() string {
	var sb strings.Builder
	if s := c.Variability.String(); s != "" {
		sb.WriteString(s)
		sb.WriteString(" ")
	}
	if s := c.Causality.String(); s != "" {
		sb.WriteString(s)
		sb.WriteString(" ")
	}
	if s := c.Connection.String(); s != "" {
		sb.WriteString(s)
		sb.WriteString(" ")
	}
	sb.WriteString(c.TypeName)
	sb.WriteString(" ")
	sb.WriteString(c.Name)
	if len(c.Shape) > 0 {
		dims := make([]string, len(c.Shape))
		for i, e := range c.Shape {
			dims[i] = e.String()
		}
		sb.WriteString("[" + strings.Join(dims, ",") + "]")
	}
	if c.Start != nil {
		sb.WriteString("(start = " + c.Start.String() + ")")
	}
	return sb.String()
}

// ClassDefinition is a named aggregate of components, equations and algorithm
// sections. Component names are unique within a class; the ComponentMap
// enforces that while preserving declaration order.
//
// Per-file definitions produced by the parser are never mutated. Flattening
// synthesizes a fresh definition for the chosen root and copies content into
// it.
type ClassDefinition struct {
	Name              string
	Type              ClassType
	Partial           bool
	Encapsulated      bool
	Description       string
	Extends           []string
	Components        *ComponentMap
	Equations         []Equation
	InitialEquations  []Equation
	Algorithms        [][]Statement
	InitialAlgorithms [][]Statement
}

// NewClassDefinition returns an empty class of the given type.
func NewClassDefinition(name string, t ClassType) *ClassDefinition {
	return &ClassDefinition{
		Name:       name,
		Type:       t,
		Components: NewComponentMap(),
	}
}

// AddComponent inserts a component under its own name.
func (c *ClassDefinition) AddComponent(comp *Component) {
	c.Components.Put(comp.Name, comp)
}

// AddEquation appends an equation to the equation section.
func (c *ClassDefinition) AddEquation(eq Equation) {
	c.Equations = append(c.Equations, eq)
}

// Clone returns a deep copy of the class definition.
func (c *ClassDefinition) Clone() *ClassDefinition {
	out := NewClassDefinition(c.Name, c.Type)
	out.Partial = c.Partial
	out.Encapsulated = c.Encapsulated
	out.Description = c.Description
	out.Extends = append([]string(nil), c.Extends...)
	c.Components.Range(func(name string, comp *Component) bool {
		out.Components.Put(name, comp.Clone())
		return true
	})
	out.Equations = CloneEquations(c.Equations)
	out.InitialEquations = CloneEquations(c.InitialEquations)
	for _, alg := range c.Algorithms {
		out.Algorithms = append(out.Algorithms, CloneStatements(alg))
	}
	for _, alg := range c.InitialAlgorithms {
		out.InitialAlgorithms = append(out.InitialAlgorithms, CloneStatements(alg))
	}
	return out
}

// String renders the class in source-like form. The rendering is canonical:
// two classes with equal content render identically, which makes it usable as
// hash input.
func (c *ClassDefinition) String() string {
	var sb strings.Builder
	if c.Partial {
		sb.WriteString("partial ")
	}
	if c.Encapsulated {
		sb.WriteString("encapsulated ")
	}
	sb.WriteString(c.Type.String())
	sb.WriteString(" ")
	sb.WriteString(c.Name)
	sb.WriteString("\n")
	for _, base := range c.Extends {
		sb.WriteString("  extends " + base + ";\n")
	}
	c.Components.Range(func(_ string, comp *Component) bool {
		sb.WriteString("  " + comp.String() + ";\n")
		return true
	})
	if len(c.Equations) > 0 {
		sb.WriteString("equation\n")
		for _, eq := range c.Equations {
			sb.WriteString("  " + eq.String() + ";\n")
		}
	}
	if len(c.InitialEquations) > 0 {
		sb.WriteString("initial equation\n")
		for _, eq := range c.InitialEquations {
			sb.WriteString("  " + eq.String() + ";\n")
		}
	}
	for _, alg := range c.Algorithms {
		sb.WriteString("algorithm\n")
		for _, st := range alg {
			sb.WriteString("  " + st.String() + ";\n")
		}
	}
	for _, alg := range c.InitialAlgorithms {
		sb.WriteString("initial algorithm\n")
		for _, st := range alg {
			sb.WriteString("  " + st.String() + ";\n")
		}
	}
	sb.WriteString("end " + c.Name + ";\n")
	return sb.String()
}
