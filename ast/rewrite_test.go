package ast

import "testing"

func TestRewriteExpressionDeepCopy(t *testing.T) {
	orig := &Binary{
		Op:   OpAdd,
		Left: Ref("x"),
		Right: &Call{
			Func: Ref("sin"),
			Args: []Expression{Ref("time")},
		},
	}
	copied := CloneExpression(orig)
	if copied.String() != orig.String() {
		t.Fatalf("copy renders %q, want %q", copied.String(), orig.String())
	}

	// Mutating the copy must not touch the original.
	copied.(*Binary).Left.(*ComponentReference).Parts[0].Name = "y"
	if orig.Left.(*ComponentReference).Parts[0].Name != "x" {
		t.Error("mutation of copy leaked into original")
	}
}

func TestRewriteEquationRefsReachesEverything(t *testing.T) {
	prefix := func(r *ComponentReference) *ComponentReference {
		out := r.Clone()
		out.Parts[0].Name = "p_" + out.Parts[0].Name
		return out
	}

	tests := []struct {
		name string
		eq   Equation
		want string
	}{
		{
			name: "simple sides",
			eq:   Equate(Ref("v"), Ref("x")),
			want: "p_v = p_x",
		},
		{
			name: "call function slot",
			eq:   Equate(Ref("v"), Der(Ref("x"))),
			want: "p_v = p_der(p_x)",
		},
		{
			name: "connect sides",
			eq:   &ConnectEquation{Left: Ref("a", "n"), Right: Ref("b", "n")},
			want: "connect(p_a.n, p_b.n)",
		},
		{
			name: "call equation",
			eq:   &CallEquation{Func: Ref("assert"), Args: []Expression{Ref("ok")}},
			want: "p_assert(p_ok)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewriteEquationRefs(tt.eq, prefix)
			if got.String() != tt.want {
				t.Errorf("got %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestWalkExpressionSkipsFunctionNames(t *testing.T) {
	c := &refCollector{}
	WalkExpression(Der(Ref("x")), c)

	if len(c.refs) != 1 || c.refs[0] != "x" {
		t.Errorf("visited refs %v, want [x] only", c.refs)
	}
}

func TestWalkExpressionVisitsSubscripts(t *testing.T) {
	r := &ComponentReference{Parts: []RefPart{{
		Name:       "x",
		Subscripts: []Subscript{{Expr: Ref("i")}},
	}}}
	c := &refCollector{}
	WalkExpression(r, c)

	want := map[string]bool{"x[i]": true, "i": true}
	for _, got := range c.refs {
		if !want[got] {
			t.Errorf("unexpected ref %q", got)
		}
	}
	if len(c.refs) != 2 {
		t.Errorf("visited %d refs, want 2", len(c.refs))
	}
}

type refCollector struct {
	BaseVisitor
	refs []string
}

func (c *refCollector) EnterRef(r *ComponentReference) {
	c.refs = append(c.refs, r.String())
}
