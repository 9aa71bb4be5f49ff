// Package ast defines the typed tree for an equation-based, object-oriented
// modeling language: class definitions, components, equations, statements and
// expressions. The tree is pure data; traversal support lives in visitor.go
// and rewrite.go.
//
// Equations and expressions are closed tagged variants: a small interface with
// one concrete type per variant, consumed by exhaustive type switches. Maps
// that carry declaration-order semantics (class tables, component maps) use
// the insertion-ordered OrderedMap rather than built-in maps.
package ast

// ClassType tags what kind of class a definition declares.
type ClassType int

const (
	ClassModel ClassType = iota
	ClassBlock
	ClassRecord
	ClassConnector
	ClassFunction
	ClassPackage
	ClassTypeDef
	ClassOperator
)

// String returns the source keyword for the class type.
func (t ClassType) String() string {
	switch t {
	case ClassModel:
		return "model"
	case ClassBlock:
		return "block"
	case ClassRecord:
		return "record"
	case ClassConnector:
		return "connector"
	case ClassFunction:
		return "function"
	case ClassPackage:
		return "package"
	case ClassTypeDef:
		return "type"
	case ClassOperator:
		return "operator"
	}
	return "model"
}

// Variability describes whether a variable may change over time.
// The zero value is continuous, matching an unprefixed declaration.
type Variability int

const (
	Continuous Variability = iota
	Discrete
	Parameter
	Constant
)

func (v Variability) String() string {
	switch v {
	case Discrete:
		return "discrete"
	case Parameter:
		return "parameter"
	case Constant:
		return "constant"
	}
	return ""
}

// Causality describes the direction of information flow at a model boundary.
type Causality int

const (
	CausalityNone Causality = iota
	Input
	Output
)

func (c Causality) String() string {
	switch c {
	case Input:
		return "input"
	case Output:
		return "output"
	}
	return ""
}

// Connection describes the connector prefix of a component.
type Connection int

const (
	ConnectionNone Connection = iota
	Flow
	Stream
)

func (c Connection) String() string {
	switch c {
	case Flow:
		return "flow"
	case Stream:
		return "stream"
	}
	return ""
}
