package flatten

import (
	"errors"
	"testing"

	"github.com/moda-xyz/go-moda/ast"
)

// newTable builds a class table from definitions in order.
func newTable(classes ...*ast.ClassDefinition) *ast.ClassTable {
	table := ast.NewClassTable()
	for _, cls := range classes {
		table.Put(cls.Name, cls)
	}
	return table
}

func realVar(name string) *ast.Component {
	return &ast.Component{Name: name, TypeName: "Real"}
}

func TestFlattenClassNotFound(t *testing.T) {
	_, err := Flatten(newTable(), "Missing")
	var notFound *ClassNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ClassNotFoundError", err)
	}
	if notFound.Name != "Missing" {
		t.Errorf("name = %q, want Missing", notFound.Name)
	}
}

func TestFlattenExtendsMerge(t *testing.T) {
	base := ast.NewClassDefinition("Base", ast.ClassModel)
	base.AddComponent(realVar("x"))
	base.AddEquation(ast.Equate(ast.Der(ast.Ref("x")), ast.Ref("x")))

	child := ast.NewClassDefinition("Child", ast.ClassModel)
	child.Extends = []string{"Base"}
	child.AddComponent(realVar("y"))
	child.AddEquation(ast.Equate(ast.Ref("y"), ast.Ref("x")))

	flat, err := Flatten(newTable(base, child), "Child")
	if err != nil {
		t.Fatal(err)
	}

	if !flat.Components.Has("x") || !flat.Components.Has("y") {
		t.Errorf("components = %v, want x and y", flat.Components.Keys())
	}
	if len(flat.Equations) != 2 {
		t.Errorf("equations = %d, want 2", len(flat.Equations))
	}
}

func TestFlattenFirstOccurrenceWins(t *testing.T) {
	base := ast.NewClassDefinition("Base", ast.ClassModel)
	base.AddComponent(&ast.Component{Name: "x", TypeName: "Real", Start: ast.RealLit("1.0")})

	child := ast.NewClassDefinition("Child", ast.ClassModel)
	child.Extends = []string{"Base"}
	child.AddComponent(&ast.Component{Name: "x", TypeName: "Real", Start: ast.RealLit("2.0")})

	flat, err := Flatten(newTable(base, child), "Child")
	if err != nil {
		t.Fatal(err)
	}

	x, _ := flat.Components.Get("x")
	if x.Start.String() != "2.0" {
		t.Errorf("x.start = %s, want the child's 2.0 (first occurrence)", x.Start.String())
	}

	// With override, the base (merged later) replaces the child's.
	flat, err = Flatten(newTable(base, child), "Child", WithOverrideExtends(true))
	if err != nil {
		t.Fatal(err)
	}
	x, _ = flat.Components.Get("x")
	if x.Start.String() != "1.0" {
		t.Errorf("x.start = %s, want the base's 1.0 under override", x.Start.String())
	}
}

func TestFlattenBaseClassNotFound(t *testing.T) {
	child := ast.NewClassDefinition("Child", ast.ClassModel)
	child.Extends = []string{"Ghost"}

	_, err := Flatten(newTable(child), "Child")
	var notFound *BaseClassNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want BaseClassNotFoundError", err)
	}
	if notFound.Base != "Ghost" {
		t.Errorf("base = %q, want Ghost", notFound.Base)
	}
}

func TestFlattenCyclicExtends(t *testing.T) {
	a := ast.NewClassDefinition("A", ast.ClassModel)
	a.Extends = []string{"B"}
	b := ast.NewClassDefinition("B", ast.ClassModel)
	b.Extends = []string{"A"}

	_, err := Flatten(newTable(a, b), "A")
	var cyclic *CyclicExtendsError
	if !errors.As(err, &cyclic) {
		t.Fatalf("err = %v, want CyclicExtendsError", err)
	}
	if len(cyclic.Chain) == 0 {
		t.Error("cycle chain is empty")
	}
}

func TestFlattenSelfExtends(t *testing.T) {
	a := ast.NewClassDefinition("A", ast.ClassModel)
	a.Extends = []string{"A"}

	_, err := Flatten(newTable(a), "A")
	var cyclic *CyclicExtendsError
	if !errors.As(err, &cyclic) {
		t.Fatalf("err = %v, want CyclicExtendsError", err)
	}
}

func TestFlattenInstanceExpansion(t *testing.T) {
	scalar := ast.NewClassDefinition("Integrator", ast.ClassModel)
	scalar.AddComponent(realVar("x"))
	scalar.AddComponent(&ast.Component{Name: "u", TypeName: "Real", Causality: ast.Input})
	scalar.AddEquation(ast.Equate(ast.Der(ast.Ref("x")), ast.Ref("u")))

	top := ast.NewClassDefinition("Plant", ast.ClassModel)
	top.AddComponent(&ast.Component{Name: "a", TypeName: "Integrator"})
	top.AddComponent(realVar("v"))
	top.AddEquation(ast.Equate(ast.Ref("a", "u"), ast.Ref("v")))
	top.AddEquation(ast.Equate(ast.Ref("v"), ast.NewCall("sin", ast.Ref("time"))))

	flat, err := Flatten(newTable(scalar, top), "Plant")
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a_x", "a_u", "v"} {
		if !flat.Components.Has(name) {
			t.Errorf("missing component %q, have %v", name, flat.Components.Keys())
		}
	}
	if flat.Components.Has("a") {
		t.Error("instance component a should be expanded away")
	}

	eqs := make(map[string]bool)
	for _, eq := range flat.Equations {
		eqs[eq.String()] = true
	}
	for _, want := range []string{
		"a_u = v",
		"v = sin(time)",
		"der(a_x) = a_u",
	} {
		if !eqs[want] {
			t.Errorf("missing equation %q, have %v", want, flat.Equations)
		}
	}
}

func TestFlattenReservedSymbolsNotQualified(t *testing.T) {
	inner := ast.NewClassDefinition("Osc", ast.ClassModel)
	inner.AddComponent(realVar("x"))
	inner.AddEquation(ast.Equate(ast.Der(ast.Ref("x")), ast.NewCall("cos", ast.Ref("time"))))

	top := ast.NewClassDefinition("Top", ast.ClassModel)
	top.AddComponent(&ast.Component{Name: "o", TypeName: "Osc"})

	flat, err := Flatten(newTable(inner, top), "Top")
	if err != nil {
		t.Fatal(err)
	}

	want := "der(o_x) = cos(time)"
	if len(flat.Equations) != 1 || flat.Equations[0].String() != want {
		t.Errorf("equations = %v, want [%s]", flat.Equations, want)
	}
}

func TestFlattenNestedInstances(t *testing.T) {
	leaf := ast.NewClassDefinition("Leaf", ast.ClassModel)
	leaf.AddComponent(realVar("q"))
	leaf.AddEquation(ast.Equate(ast.Der(ast.Ref("q")), ast.Ref("q")))

	mid := ast.NewClassDefinition("Mid", ast.ClassModel)
	mid.AddComponent(&ast.Component{Name: "l", TypeName: "Leaf"})

	top := ast.NewClassDefinition("Top", ast.ClassModel)
	top.AddComponent(&ast.Component{Name: "m", TypeName: "Mid"})

	flat, err := Flatten(newTable(leaf, mid, top), "Top")
	if err != nil {
		t.Fatal(err)
	}

	if !flat.Components.Has("m_l_q") {
		t.Errorf("components = %v, want m_l_q", flat.Components.Keys())
	}
	want := "der(m_l_q) = m_l_q"
	if len(flat.Equations) != 1 || flat.Equations[0].String() != want {
		t.Errorf("equations = %v, want [%s]", flat.Equations, want)
	}
}

func TestFlattenSiblingInstancesStayDistinct(t *testing.T) {
	inner := ast.NewClassDefinition("Inner", ast.ClassModel)
	inner.AddComponent(realVar("x"))
	inner.AddEquation(ast.Equate(ast.Der(ast.Ref("x")), ast.Ref("x")))

	top := ast.NewClassDefinition("Top", ast.ClassModel)
	top.AddComponent(&ast.Component{Name: "a", TypeName: "Inner"})
	top.AddComponent(&ast.Component{Name: "b", TypeName: "Inner"})

	flat, err := Flatten(newTable(inner, top), "Top")
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a_x", "b_x"} {
		if !flat.Components.Has(name) {
			t.Errorf("missing component %q, have %v", name, flat.Components.Keys())
		}
	}
	if flat.Components.Len() != 2 {
		t.Errorf("components = %v, want exactly a_x and b_x", flat.Components.Keys())
	}

	eqs := make(map[string]bool)
	for _, eq := range flat.Equations {
		eqs[eq.String()] = true
	}
	for _, want := range []string{
		"der(a_x) = a_x",
		"der(b_x) = b_x",
	} {
		if !eqs[want] {
			t.Errorf("missing equation %q, have %v", want, flat.Equations)
		}
	}
	if len(flat.Equations) != 2 {
		t.Errorf("equations = %d, want 2", len(flat.Equations))
	}
}

func TestFlattenRecursiveInstance(t *testing.T) {
	a := ast.NewClassDefinition("A", ast.ClassModel)
	a.AddComponent(&ast.Component{Name: "inner", TypeName: "A"})

	_, err := Flatten(newTable(a), "A")
	var recursive *RecursiveInstanceError
	if !errors.As(err, &recursive) {
		t.Fatalf("err = %v, want RecursiveInstanceError", err)
	}
}

func TestFlattenMutuallyRecursiveInstances(t *testing.T) {
	a := ast.NewClassDefinition("A", ast.ClassModel)
	a.AddComponent(&ast.Component{Name: "b", TypeName: "B"})
	b := ast.NewClassDefinition("B", ast.ClassModel)
	b.AddComponent(&ast.Component{Name: "a", TypeName: "A"})

	_, err := Flatten(newTable(a, b), "A")
	var recursive *RecursiveInstanceError
	if !errors.As(err, &recursive) {
		t.Fatalf("err = %v, want RecursiveInstanceError", err)
	}
}

func TestFlattenIdempotent(t *testing.T) {
	inner := ast.NewClassDefinition("Inner", ast.ClassModel)
	inner.AddComponent(realVar("x"))
	inner.AddEquation(ast.Equate(ast.Der(ast.Ref("x")), ast.Ref("x")))

	top := ast.NewClassDefinition("Top", ast.ClassModel)
	top.AddComponent(&ast.Component{Name: "i", TypeName: "Inner"})
	top.AddComponent(realVar("y"))
	top.AddEquation(ast.Equate(ast.Ref("y"), ast.Ref("i", "x")))

	flat, err := Flatten(newTable(inner, top), "Top")
	if err != nil {
		t.Fatal(err)
	}

	again, err := Flatten(newTable(inner, flat), flat.Name)
	if err != nil {
		t.Fatal(err)
	}
	if again.String() != flat.String() {
		t.Errorf("second flatten changed the class:\nfirst:\n%s\nsecond:\n%s", flat, again)
	}
}

func TestFlattenDoesNotMutateInput(t *testing.T) {
	inner := ast.NewClassDefinition("Inner", ast.ClassModel)
	inner.AddComponent(realVar("x"))
	inner.AddEquation(ast.Equate(ast.Der(ast.Ref("x")), ast.Ref("x")))

	top := ast.NewClassDefinition("Top", ast.ClassModel)
	top.AddComponent(&ast.Component{Name: "i", TypeName: "Inner"})

	before := top.String()
	innerBefore := inner.String()

	if _, err := Flatten(newTable(inner, top), "Top"); err != nil {
		t.Fatal(err)
	}

	if top.String() != before {
		t.Error("root class mutated by flattening")
	}
	if inner.String() != innerBefore {
		t.Error("instance class mutated by flattening")
	}
}
