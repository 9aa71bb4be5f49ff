package ast

import "strings"

// Expression is the closed variant type for expression trees. Expressions are
// exclusively owned by their containing equation or component; rewrites
// allocate fresh nodes instead of mutating in place.
type Expression interface {
	isExpression()
	String() string
}

// TerminalKind discriminates literal terminals.
type TerminalKind int

const (
	TerminalInteger TerminalKind = iota
	TerminalReal
	TerminalBoolean
	TerminalString
)

// Terminal is a literal leaf. Value holds the source text of the literal so
// that rendering round-trips exactly; eval parses it on demand.
type Terminal struct {
	Kind  TerminalKind
	Value string
}

func (*Terminal) isExpression() {}

func (t *Terminal) String() string {
	if t.Kind == TerminalString {
		return `"` + t.Value + `"`
	}
	return t.Value
}

// IntegerLit builds an integer literal terminal.
func IntegerLit(text string) *Terminal { return &Terminal{Kind: TerminalInteger, Value: text} }

// RealLit builds a real literal terminal.
func RealLit(text string) *Terminal { return &Terminal{Kind: TerminalReal, Value: text} }

// BooleanLit builds a boolean literal terminal.
func BooleanLit(v bool) *Terminal {
	if v {
		return &Terminal{Kind: TerminalBoolean, Value: "true"}
	}
	return &Terminal{Kind: TerminalBoolean, Value: "false"}
}

// StringLit builds a string literal terminal.
func StringLit(text string) *Terminal { return &Terminal{Kind: TerminalString, Value: text} }

// Subscript is one array index inside a component reference part. Colon marks
// the whole-dimension subscript `[:]`, in which case Expr is nil.
type Subscript struct {
	Expr  Expression
	Colon bool
}

func (s Subscript) String() string {
	if s.Colon {
		return ":"
	}
	if s.Expr == nil {
		return ""
	}
	return s.Expr.String()
}

// RefPart is one dotted segment of a component reference, with optional
// subscripts: `a[1]` in `a[1].b`.
type RefPart struct {
	Name       string
	Subscripts []Subscript
}

func (p RefPart) String() string {
	if len(p.Subscripts) == 0 {
		return p.Name
	}
	subs := make([]string, len(p.Subscripts))
	for i, s := range p.Subscripts {
		subs[i] = s.String()
	}
	return p.Name + "[" + strings.Join(subs, ",") + "]"
}

// ComponentReference is a possibly subscripted, dotted path to a component,
// e.g. `pendulum.theta` or `x[1]`. It doubles as the function-name slot of
// calls.
type ComponentReference struct {
	Parts []RefPart
}

func (*ComponentReference) isExpression() {}

func (r *ComponentReference) String() string {
	parts := make([]string, len(r.Parts))
	for i, p := range r.Parts {
		parts[i] = p.String()
	}
	return strings.Join(parts, ".")
}

// Ref builds a reference from dotted segments: Ref("a", "b") is `a.b`.
func Ref(parts ...string) *ComponentReference {
	r := &ComponentReference{Parts: make([]RefPart, len(parts))}
	for i, p := range parts {
		r.Parts[i] = RefPart{Name: p}
	}
	return r
}

// Clone returns a deep copy of the reference.
func (r *ComponentReference) Clone() *ComponentReference {
	out := &ComponentReference{Parts: make([]RefPart, len(r.Parts))}
	for i, p := range r.Parts {
		np := RefPart{Name: p.Name}
		if len(p.Subscripts) > 0 {
			np.Subscripts = make([]Subscript, len(p.Subscripts))
			for j, s := range p.Subscripts {
				ns := Subscript{Colon: s.Colon}
				if s.Expr != nil {
					ns.Expr = CloneExpression(s.Expr)
				}
				np.Subscripts[j] = ns
			}
		}
		out.Parts[i] = np
	}
	return out
}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
	OpNot
	OpElemNeg
	OpElemPos
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpPos:
		return "+"
	case OpNot:
		return "not "
	case OpElemNeg:
		return ".-"
	case OpElemPos:
		return ".+"
	}
	return "?"
}

// Unary is a unary operator node.
type Unary struct {
	Op   UnaryOp
	Expr Expression
}

func (*Unary) isExpression() {}

func (u *Unary) String() string {
	return "(" + u.Op.String() + u.Expr.String() + ")"
}

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpExp
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpElemAdd
	OpElemSub
	OpElemMul
	OpElemDiv
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpExp:
		return "^"
	case OpEq:
		return "=="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpElemAdd:
		return ".+"
	case OpElemSub:
		return ".-"
	case OpElemMul:
		return ".*"
	case OpElemDiv:
		return "./"
	}
	return "?"
}

// Binary is a binary operator node.
type Binary struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (*Binary) isExpression() {}

func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// Call is a function application. der(x) is structurally a Call with function
// name "der". Func is not a variable usage; traversal does not descend into it.
type Call struct {
	Func *ComponentReference
	Args []Expression
}

func (*Call) isExpression() {}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Func.String() + "(" + strings.Join(args, ", ") + ")"
}

// NewCall builds a call to a simple (undotted) function name.
func NewCall(name string, args ...Expression) *Call {
	return &Call{Func: Ref(name), Args: args}
}

// Der builds a der() call around the given expression.
func Der(arg Expression) *Call { return NewCall("der", arg) }

// ArrayExpr is an array literal `{a, b, c}`.
type ArrayExpr struct {
	Elements []Expression
}

func (*ArrayExpr) isExpression() {}

func (a *ArrayExpr) String() string {
	elems := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.String()
	}
	return "{" + strings.Join(elems, ", ") + "}"
}

// TupleExpr is an output tuple `(a, b)`.
type TupleExpr struct {
	Elements []Expression
}

func (*TupleExpr) isExpression() {}

func (t *TupleExpr) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

// RangeExpr is `start:end` or `start:step:end`. Step may be nil.
type RangeExpr struct {
	Start Expression
	Step  Expression
	End   Expression
}

func (*RangeExpr) isExpression() {}

func (r *RangeExpr) String() string {
	if r.Step != nil {
		return r.Start.String() + ":" + r.Step.String() + ":" + r.End.String()
	}
	return r.Start.String() + ":" + r.End.String()
}

// ExprBranch is one condition/value pair of a conditional expression.
type ExprBranch struct {
	Cond Expression
	Then Expression
}

// IfExpr is a conditional expression with one or more elseif branches and a
// mandatory else.
type IfExpr struct {
	Branches []ExprBranch
	Else     Expression
}

func (*IfExpr) isExpression() {}

func (e *IfExpr) String() string {
	var sb strings.Builder
	for i, br := range e.Branches {
		if i == 0 {
			sb.WriteString("if ")
		} else {
			sb.WriteString(" elseif ")
		}
		sb.WriteString(br.Cond.String())
		sb.WriteString(" then ")
		sb.WriteString(br.Then.String())
	}
	sb.WriteString(" else ")
	sb.WriteString(e.Else.String())
	return sb.String()
}
