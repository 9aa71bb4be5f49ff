// Package parser handles JSON import/export for model class tables. Every
// tree node serializes as a tagged object with a "kind" discriminator, so
// tables round-trip exactly and external front ends can emit models without
// linking this module.
package parser

import (
	"encoding/json"
	"fmt"

	"github.com/moda-xyz/go-moda/ast"
)

type tableWire struct {
	Classes map[string]*classWire `json:"classes"`
	Order   []string              `json:"order,omitempty"`
}

type classWire struct {
	Type             string            `json:"type,omitempty"`
	Partial          bool              `json:"partial,omitempty"`
	Encapsulated     bool              `json:"encapsulated,omitempty"`
	Description      string            `json:"description,omitempty"`
	Extends          []string          `json:"extends,omitempty"`
	Components       []*componentWire  `json:"components,omitempty"`
	Equations        []json.RawMessage `json:"equations,omitempty"`
	InitialEquations []json.RawMessage `json:"initialEquations,omitempty"`
}

type componentWire struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Variability string            `json:"variability,omitempty"`
	Causality   string            `json:"causality,omitempty"`
	Connection  string            `json:"connection,omitempty"`
	Shape       []json.RawMessage `json:"shape,omitempty"`
	Start       json.RawMessage   `json:"start,omitempty"`
	Description string            `json:"description,omitempty"`
}

// FromJSON parses a class table from JSON bytes. The "order" list, when
// present, fixes class declaration order; producers should always emit it
// because JSON object key order is not preserved by the decoder.
func FromJSON(data []byte) (*ast.ClassTable, error) {
	var wire tableWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	table := ast.NewClassTable()
	names := wire.Order
	if len(names) == 0 {
		for name := range wire.Classes {
			names = append(names, name)
		}
	}
	for _, name := range names {
		cw, ok := wire.Classes[name]
		if !ok {
			return nil, fmt.Errorf("class %q listed in order but not defined", name)
		}
		cls, err := decodeClass(name, cw)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", name, err)
		}
		table.Put(name, cls)
	}
	return table, nil
}

// ToJSON renders a class table as indented JSON.
func ToJSON(table *ast.ClassTable) ([]byte, error) {
	wire := tableWire{Classes: make(map[string]*classWire, table.Len()), Order: table.Keys()}
	var encodeErr error
	table.Range(func(name string, cls *ast.ClassDefinition) bool {
		cw, err := encodeClass(cls)
		if err != nil {
			encodeErr = fmt.Errorf("class %q: %w", name, err)
			return false
		}
		wire.Classes[name] = cw
		return true
	})
	if encodeErr != nil {
		return nil, encodeErr
	}
	return json.MarshalIndent(&wire, "", "  ")
}

func decodeClass(name string, cw *classWire) (*ast.ClassDefinition, error) {
	cls := ast.NewClassDefinition(name, classTypeFromString(cw.Type))
	cls.Partial = cw.Partial
	cls.Encapsulated = cw.Encapsulated
	cls.Description = cw.Description
	cls.Extends = append(cls.Extends, cw.Extends...)

	for _, comp := range cw.Components {
		c, err := decodeComponent(comp)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", comp.Name, err)
		}
		cls.Components.Put(c.Name, c)
	}
	for i, raw := range cw.Equations {
		eq, err := decodeEquation(raw)
		if err != nil {
			return nil, fmt.Errorf("equation %d: %w", i, err)
		}
		cls.Equations = append(cls.Equations, eq)
	}
	for i, raw := range cw.InitialEquations {
		eq, err := decodeEquation(raw)
		if err != nil {
			return nil, fmt.Errorf("initial equation %d: %w", i, err)
		}
		cls.InitialEquations = append(cls.InitialEquations, eq)
	}
	return cls, nil
}

func encodeClass(cls *ast.ClassDefinition) (*classWire, error) {
	cw := &classWire{
		Type:         cls.Type.String(),
		Partial:      cls.Partial,
		Encapsulated: cls.Encapsulated,
		Description:  cls.Description,
		Extends:      append([]string(nil), cls.Extends...),
	}
	var err error
	cls.Components.Range(func(name string, comp *ast.Component) bool {
		var w *componentWire
		w, err = encodeComponent(comp)
		if err != nil {
			return false
		}
		cw.Components = append(cw.Components, w)
		return true
	})
	if err != nil {
		return nil, err
	}
	for _, eq := range cls.Equations {
		raw, err := encodeEquation(eq)
		if err != nil {
			return nil, err
		}
		cw.Equations = append(cw.Equations, raw)
	}
	for _, eq := range cls.InitialEquations {
		raw, err := encodeEquation(eq)
		if err != nil {
			return nil, err
		}
		cw.InitialEquations = append(cw.InitialEquations, raw)
	}
	return cw, nil
}

func decodeComponent(w *componentWire) (*ast.Component, error) {
	if w.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	c := &ast.Component{
		Name:        w.Name,
		TypeName:    w.Type,
		Description: w.Description,
	}
	switch w.Variability {
	case "":
		c.Variability = ast.Continuous
	case "discrete":
		c.Variability = ast.Discrete
	case "parameter":
		c.Variability = ast.Parameter
	case "constant":
		c.Variability = ast.Constant
	default:
		return nil, fmt.Errorf("unknown variability %q", w.Variability)
	}
	switch w.Causality {
	case "":
		c.Causality = ast.CausalityNone
	case "input":
		c.Causality = ast.Input
	case "output":
		c.Causality = ast.Output
	default:
		return nil, fmt.Errorf("unknown causality %q", w.Causality)
	}
	switch w.Connection {
	case "":
		c.Connection = ast.ConnectionNone
	case "flow":
		c.Connection = ast.Flow
	case "stream":
		c.Connection = ast.Stream
	default:
		return nil, fmt.Errorf("unknown connection prefix %q", w.Connection)
	}
	for _, raw := range w.Shape {
		e, err := decodeExpression(raw)
		if err != nil {
			return nil, err
		}
		c.Shape = append(c.Shape, e)
	}
	if len(w.Start) > 0 {
		e, err := decodeExpression(w.Start)
		if err != nil {
			return nil, err
		}
		c.Start = e
	}
	return c, nil
}

func encodeComponent(c *ast.Component) (*componentWire, error) {
	w := &componentWire{
		Name:        c.Name,
		Type:        c.TypeName,
		Variability: c.Variability.String(),
		Causality:   c.Causality.String(),
		Connection:  c.Connection.String(),
		Description: c.Description,
	}
	for _, s := range c.Shape {
		raw, err := encodeExpression(s)
		if err != nil {
			return nil, err
		}
		w.Shape = append(w.Shape, raw)
	}
	if c.Start != nil {
		raw, err := encodeExpression(c.Start)
		if err != nil {
			return nil, err
		}
		w.Start = raw
	}
	return w, nil
}

func classTypeFromString(s string) ast.ClassType {
	switch s {
	case "block":
		return ast.ClassBlock
	case "record":
		return ast.ClassRecord
	case "connector":
		return ast.ClassConnector
	case "function":
		return ast.ClassFunction
	case "package":
		return ast.ClassPackage
	case "type":
		return ast.ClassTypeDef
	case "operator":
		return ast.ClassOperator
	default:
		return ast.ClassModel
	}
}
