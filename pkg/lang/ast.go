package lang

import (
	"fmt"
	"strings"
)

//  Expression nodes

// Expr is implemented by every node that produces a Value.
type Expr interface {
	exprNode()
	String() string
}

// Literal is a constant taken straight from the source.
//
//	INT x = 10
//	        ^^  Literal{Value: IntValue(10)}
type Literal struct {
	Value Value
}

func (*Literal) exprNode() {}
func (l *Literal) String() string {
	switch l.Value.Kind {
	case KindChar:
		return fmt.Sprintf("'%c'", l.Value.Char)
	case KindString:
		return fmt.Sprintf("%q", l.Value.Text)
	case KindBool:
		return l.Value.Text
	}
	return l.Value.String()
}

// VariableRef is a read of a named variable, optionally negated.
//
//	DISPLAY: -x
//	         ^^  VariableRef{Name: "x", Negated: true}
type VariableRef struct {
	Name    string
	Negated bool
}

func (*VariableRef) exprNode() {}
func (v *VariableRef) String() string {
	if v.Negated {
		return "-" + v.Name
	}
	return v.Name
}

// Negate is unary minus on anything other than a literal number or a name.
//
//	DISPLAY: -(a + 1)
//	         ^^^^^^^^  Negate{Operand: Arithmetic{a + 1}}
type Negate struct {
	Operand Expr
}

func (*Negate) exprNode() {}
func (n *Negate) String() string {
	return fmt.Sprintf("-%s", n.Operand)
}

// Arithmetic represents Left Op Right for + - * / %.
type Arithmetic struct {
	Left  Expr
	Op    TokenType
	Right Expr
}

func (*Arithmetic) exprNode() {}
func (a *Arithmetic) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Left, a.Op, a.Right)
}

// Comparison represents Left Op Right for the relational operators.
type Comparison struct {
	Left  Expr
	Op    TokenType
	Right Expr
}

func (*Comparison) exprNode() {}
func (c *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Left, c.Op, c.Right)
}

// Logical represents AND, OR and NOT. Right is nil for NOT, whose operand
// is held in Left.
type Logical struct {
	Left  Expr
	Op    TokenType
	Right Expr
}

func (*Logical) exprNode() {}
func (l *Logical) String() string {
	if l.Right == nil {
		return fmt.Sprintf("(%s %s)", l.Op, l.Left)
	}
	return fmt.Sprintf("(%s %s %s)", l.Left, l.Op, l.Right)
}

//  Statement nodes

// Stmt is implemented by every executable node.
type Stmt interface {
	stmtNode()
	String() string
}

// Block is an ordered statement sequence.
type Block struct {
	Stmts []Stmt
}

func (b *Block) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// Display writes its items in order. String literals, escapes and the $
// marker are Literal nodes holding KindString values.
type Display struct {
	Items []Expr
	Line  int
}

func (*Display) stmtNode() {}
func (d *Display) String() string {
	parts := make([]string, len(d.Items))
	for i, it := range d.Items {
		parts[i] = it.String()
	}
	return "Display(" + strings.Join(parts, " & ") + ")"
}

// Scan reads one input line into Targets.
type Scan struct {
	Targets []string
	Decls   *Declarations
	Line    int
}

func (*Scan) stmtNode() {}
func (s *Scan) String() string {
	return "Scan(" + strings.Join(s.Targets, ", ") + ")"
}

// Reassign stores Value into every name in Targets.
//
//	a = b = 5
//	    Reassign{Targets: [a b], Value: Literal{5}}
type Reassign struct {
	Targets []string
	Value   Expr
	Decls   *Declarations
	Line    int
}

func (*Reassign) stmtNode() {}
func (r *Reassign) String() string {
	return fmt.Sprintf("Assign(%s = %s)", strings.Join(r.Targets, " = "), r.Value)
}

// Conditional is IF / ELSE IF / ELSE. Conditions[0] guards IfBlock and
// Conditions[i] guards ElseIfBlocks[i-1]. ElseBlock may be empty.
type Conditional struct {
	Conditions   []Expr
	IfBlock      *Block
	ElseIfBlocks []*Block
	ElseBlock    *Block
	Line         int
}

func (*Conditional) stmtNode() {}
func (c *Conditional) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "If(%s) %s", c.Conditions[0], c.IfBlock)
	for i, b := range c.ElseIfBlocks {
		fmt.Fprintf(&sb, " ElseIf(%s) %s", c.Conditions[i+1], b)
	}
	if c.ElseBlock != nil && len(c.ElseBlock.Stmts) > 0 {
		fmt.Fprintf(&sb, " Else %s", c.ElseBlock)
	}
	return sb.String()
}

// WhileLoop re-checks Cond before every iteration.
type WhileLoop struct {
	Cond Expr
	Body *Block
	Line int
}

func (*WhileLoop) stmtNode() {}
func (w *WhileLoop) String() string {
	return fmt.Sprintf("While(%s) %s", w.Cond, w.Body)
}

// ForLoop runs Init once, then Body followed by Update while Cond holds.
type ForLoop struct {
	Init   *Reassign
	Cond   Expr
	Update *Reassign
	Body   *Block
	Line   int
}

func (*ForLoop) stmtNode() {}
func (f *ForLoop) String() string {
	return fmt.Sprintf("For(%s, %s, %s) %s", f.Init, f.Cond, f.Update, f.Body)
}

type Break struct{ Line int }

func (*Break) stmtNode()      {}
func (*Break) String() string { return "Break" }

type Continue struct{ Line int }

func (*Continue) stmtNode()      {}
func (*Continue) String() string { return "Continue" }

//  Declarations

// VariableNode is one declared name with its optional initializer.
// Names sharing a domino initializer point at the same Init expression.
type VariableNode struct {
	Name string
	Init Expr // nil when the declaration has no initializer
	Line int
}

func (v *VariableNode) String() string {
	if v.Init == nil {
		return v.Name
	}
	return fmt.Sprintf("%s = %s", v.Name, v.Init)
}

// SingleDeclaration is one "TYPE a, b = 1" line.
type SingleDeclaration struct {
	Type TokenType
	Vars []*VariableNode
	Line int
}

func (d *SingleDeclaration) String() string {
	parts := make([]string, len(d.Vars))
	for i, v := range d.Vars {
		parts[i] = v.String()
	}
	return fmt.Sprintf("Declare(%s %s)", d.Type, strings.Join(parts, ", "))
}

// Declarations is the ordered declaration section of a program.
type Declarations struct {
	List []*SingleDeclaration
}

// Lookup returns the declared type tag of name.
func (d *Declarations) Lookup(name string) (TokenType, bool) {
	if d == nil {
		return EOF, false
	}
	for _, decl := range d.List {
		for _, v := range decl.Vars {
			if v.Name == name {
				return decl.Type, true
			}
		}
	}
	return EOF, false
}

func (d *Declarations) String() string {
	parts := make([]string, len(d.List))
	for i, decl := range d.List {
		parts[i] = decl.String()
	}
	return strings.Join(parts, "\n")
}

// Program is the root node. Symbols is the store the analyzer fills and
// Statements is the parser's final statement counter.
type Program struct {
	Decls      *Declarations
	Body       *Block
	Symbols    *SymbolTable
	Statements int
}

func (p *Program) String() string {
	var sb strings.Builder
	sb.WriteString("Program\n")
	for _, decl := range p.Decls.List {
		sb.WriteString("  " + decl.String() + "\n")
	}
	for _, s := range p.Body.Stmts {
		sb.WriteString("  " + s.String() + "\n")
	}
	return sb.String()
}
