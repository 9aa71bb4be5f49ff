// Package compiler drives the full pipeline: flatten a model class, assemble
// the DAE, order the continuous equations and check the balance. The output
// is a structured Report suitable for JSON export and storage.
package compiler

import "time"

const SchemaVersion = "1.0.0"

// Report contains the complete output of one compilation run.
type Report struct {
	Version  string   `json:"version"`
	Metadata Metadata `json:"metadata"`
	Model    Model    `json:"model"`
	System   System   `json:"system"`
	Balance  Balance  `json:"balance"`
}

// Metadata records execution information for the run.
type Metadata struct {
	RunID       string    `json:"runId"`
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"` // success, error
	Error       string    `json:"error,omitempty"`
	ComputeTime float64   `json:"computeTime"` // seconds
}

// Model summarizes the flattened class.
type Model struct {
	Name       string `json:"name"`
	Hash       string `json:"hash"`
	Components int    `json:"components"`
	Equations  int    `json:"equations"`
}

// System summarizes the assembled and ordered DAE. Equation and variable
// lists hold rendered source text, not AST nodes, so the report stands alone.
type System struct {
	States      []string `json:"states"`
	Algebraic   []string `json:"algebraic"`
	Inputs      []string `json:"inputs,omitempty"`
	Parameters  []string `json:"parameters,omitempty"`
	Discrete    []string `json:"discrete,omitempty"`
	Continuous  []string `json:"continuous"`
	Conditions  []string `json:"conditions,omitempty"`
	Resets      []string `json:"resets,omitempty"`
	Connects    []string `json:"connects,omitempty"`
	Blocks      [][]int  `json:"blocks"`
	LoopBlocks  int      `json:"loopBlocks"`
	OrderedForm []string `json:"orderedForm"`
}

// Balance carries the equation/unknown counts and classification.
type Balance struct {
	NumEquations  int    `json:"num_equations"`
	NumUnknowns   int    `json:"num_unknowns"`
	NumStates     int    `json:"num_states"`
	NumAlgebraic  int    `json:"num_algebraic"`
	NumParameters int    `json:"num_parameters"`
	NumInputs     int    `json:"num_inputs"`
	IsBalanced    bool   `json:"is_balanced"`
	Status        string `json:"status"`
}
