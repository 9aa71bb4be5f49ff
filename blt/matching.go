package blt

import (
	"github.com/moda-xyz/go-moda/ast"
)

// Matching pairs equations with the unknowns they can be solved for. An
// incomplete matching means the system is structurally singular: some
// equation cannot be assigned any unknown that no other equation claims.
type Matching struct {
	// Assignment maps equation index to the unknown assigned to it.
	Assignment map[int]string

	// Unmatched lists equations left without an unknown, ascending.
	Unmatched []int

	// Complete reports whether every equation received an unknown.
	Complete bool
}

// Match computes a maximum bipartite matching between equations and the
// unknowns they mention, using Hopcroft-Karp. Variables in known are treated
// as solved elsewhere (parameters, constants, inputs, time) and never
// matched. Derivative symbols "der(v)" count as unknowns in place of v when
// present, matching the state elimination the orderer performs.
//
// Equations whose candidate set is a single unknown are assigned first, with
// the left-hand variable preferred when it is a candidate; the augmenting
// search then only runs for the contested remainder.
func Match(eqs []ast.Equation, known map[string]bool) *Matching {
	candidates := make([][]string, len(eqs))
	preferred := make([]string, len(eqs))
	for i, eq := range eqs {
		candidates[i], preferred[i] = equationCandidates(eq, known)
	}

	m := &Matching{Assignment: make(map[int]string)}
	taken := make(map[string]int) // unknown -> equation holding it

	// Essential assignments: a single-candidate equation must take that
	// unknown; a preferred LHS candidate is claimed eagerly when free.
	for i, cands := range candidates {
		if len(cands) == 1 {
			if _, busy := taken[cands[0]]; !busy {
				m.Assignment[i] = cands[0]
				taken[cands[0]] = i
			}
		}
	}
	for i, cands := range candidates {
		if _, done := m.Assignment[i]; done || preferred[i] == "" {
			continue
		}
		if _, busy := taken[preferred[i]]; !busy && contains(cands, preferred[i]) {
			m.Assignment[i] = preferred[i]
			taken[preferred[i]] = i
		}
	}

	// Augmenting paths for the rest. The graph is small enough that the
	// simple alternating DFS form of Hopcroft-Karp suffices per phase.
	for i := range eqs {
		if _, done := m.Assignment[i]; done {
			continue
		}
		visited := make(map[string]bool)
		augment(i, candidates, taken, m.Assignment, visited)
	}

	for i := range eqs {
		if _, ok := m.Assignment[i]; !ok {
			m.Unmatched = append(m.Unmatched, i)
		}
	}
	m.Complete = len(m.Unmatched) == 0
	return m
}

// augment tries to assign equation i an unknown, displacing earlier
// assignments along an alternating path when necessary.
func augment(i int, candidates [][]string, taken map[string]int, assignment map[int]string, visited map[string]bool) bool {
	for _, v := range candidates[i] {
		if visited[v] {
			continue
		}
		visited[v] = true
		holder, busy := taken[v]
		if !busy || augment(holder, candidates, taken, assignment, visited) {
			assignment[i] = v
			taken[v] = i
			return true
		}
	}
	return false
}

// equationCandidates returns the unknowns an equality mentions, in
// first-seen order, and the preferred candidate (the bare LHS variable or
// derivative, when the equation has one). For a state x that appears under
// der(), the derivative symbol "der(x)" is the unknown, not x itself.
func equationCandidates(eq ast.Equation, known map[string]bool) ([]string, string) {
	simple, ok := eq.(*ast.SimpleEquation)
	if !ok {
		return nil, ""
	}

	all := collectUses(simple.LHS)
	for _, v := range collectUses(simple.RHS) {
		if !contains(all, v) {
			all = append(all, v)
		}
	}

	derived := make(map[string]bool)
	for _, v := range all {
		if inner, ok := derArgument(v); ok {
			derived[inner] = true
		}
	}

	var cands []string
	for _, v := range all {
		if known[v] || derived[v] {
			continue
		}
		cands = append(cands, v)
	}

	pref := definingVariable(simple.LHS)
	if pref != "" && !contains(cands, pref) {
		pref = ""
	}
	return cands, pref
}

// derArgument unwraps the symbol "der(v)" to v.
func derArgument(s string) (string, bool) {
	if len(s) > 5 && s[:4] == "der(" && s[len(s)-1] == ')' {
		return s[4 : len(s)-1], true
	}
	return "", false
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
