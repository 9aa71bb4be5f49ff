package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/moda-xyz/go-moda/ast"
	"github.com/moda-xyz/go-moda/balance"
	"github.com/moda-xyz/go-moda/blt"
	"github.com/moda-xyz/go-moda/dae"
	"github.com/moda-xyz/go-moda/flatten"
)

// Output bundles the intermediate artifacts of one run alongside the Report,
// for callers that want the AST-level results rather than rendered text.
type Output struct {
	Flat    *ast.ClassDefinition
	Dae     *dae.Dae
	Order   *blt.Result
	Balance *balance.Result
	Report  *Report
}

// Options configure a compilation run.
type Options struct {
	FlattenOptions []flatten.Option
	DaeOptions     []dae.Option
}

// Option mutates Options.
type Option func(*Options)

// WithFlattenOptions forwards options to the flattening pass.
func WithFlattenOptions(opts ...flatten.Option) Option {
	return func(o *Options) { o.FlattenOptions = opts }
}

// WithDaeOptions forwards options to the assembly pass.
func WithDaeOptions(opts ...dae.Option) Option {
	return func(o *Options) { o.DaeOptions = opts }
}

// Compile runs the pipeline for the class named root in the table. A pipeline
// error still produces a Report (status "error") so that failed runs can be
// stored and inspected; the error is returned alongside it.
func Compile(table *ast.ClassTable, root string, opts ...Option) (*Output, error) {
	o := &Options{}
	for _, fn := range opts {
		fn(o)
	}

	start := time.Now()
	report := &Report{
		Version: SchemaVersion,
		Metadata: Metadata{
			RunID:     uuid.NewString(),
			Timestamp: start,
			Status:    "success",
		},
		Model: Model{Name: root},
	}
	out := &Output{Report: report}

	fail := func(err error) (*Output, error) {
		report.Metadata.Status = "error"
		report.Metadata.Error = err.Error()
		report.Metadata.ComputeTime = time.Since(start).Seconds()
		return out, err
	}

	flat, err := flatten.Flatten(table, root, o.FlattenOptions...)
	if err != nil {
		return fail(err)
	}
	out.Flat = flat
	report.Model.Hash = HashClass(flat)
	report.Model.Components = flat.Components.Len()
	report.Model.Equations = len(flat.Equations)

	d, err := dae.Assemble(flat, o.DaeOptions...)
	if err != nil {
		return fail(err)
	}
	d.Hash = report.Model.Hash
	d.Version = SchemaVersion
	out.Dae = d

	order := blt.Order(d.FX)
	out.Order = order

	bal := balance.CheckDAE(d)
	out.Balance = bal

	report.System = buildSystem(d, order)
	report.Balance = Balance{
		NumEquations:  bal.NumEquations,
		NumUnknowns:   bal.NumUnknowns,
		NumStates:     bal.NumStates,
		NumAlgebraic:  bal.NumAlgebraic,
		NumParameters: bal.NumParameters,
		NumInputs:     bal.NumInputs,
		IsBalanced:    bal.IsBalanced,
		Status:        bal.StatusMessage(),
	}
	report.Metadata.ComputeTime = time.Since(start).Seconds()
	return out, nil
}

// HashClass fingerprints a class by its canonical rendering.
func HashClass(cls *ast.ClassDefinition) string {
	sum := sha256.Sum256([]byte(cls.String()))
	return hex.EncodeToString(sum[:])
}

func buildSystem(d *dae.Dae, order *blt.Result) System {
	sys := System{
		States:     d.X.Keys(),
		Algebraic:  d.Y.Keys(),
		Inputs:     d.U.Keys(),
		Parameters: d.P.Keys(),
		Blocks:     order.SCCs,
	}
	sys.Discrete = append(sys.Discrete, d.Z.Keys()...)
	sys.Discrete = append(sys.Discrete, d.M.Keys()...)

	for _, eq := range d.FX {
		sys.Continuous = append(sys.Continuous, eq.String())
	}
	d.FC.Range(func(name string, cond ast.Expression) bool {
		sys.Conditions = append(sys.Conditions, name+" = "+cond.String())
		return true
	})
	d.FR.Range(func(name string, stmt ast.Statement) bool {
		sys.Resets = append(sys.Resets, name+": "+stmt.String())
		return true
	})
	for _, c := range d.UnexpandedConnects {
		sys.Connects = append(sys.Connects, c.String())
	}
	for _, eq := range order.Equations {
		sys.OrderedForm = append(sys.OrderedForm, eq.String())
	}
	sys.LoopBlocks = len(order.AlgebraicLoops())
	return sys
}
