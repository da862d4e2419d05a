package lang

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"codelang/pkg/logging"
)

// flow tells an enclosing loop how a statement finished.
type flow int

const (
	flowNormal flow = iota
	flowBreak
	flowContinue
)

// RunOptions configures one analysis run.
type RunOptions struct {
	Stdin    io.Reader    // SCAN source; nil reads nothing
	Stdout   io.Writer    // DISPLAY sink; nil discards
	Logger   *slog.Logger // nil discards
	MaxSteps int          // statement budget; 0 is unlimited
}

// SCAN field classification.
var (
	scanIntPattern   = regexp.MustCompile(`^-?\d+$`)
	scanFloatPattern = regexp.MustCompile(`^-?\d*\.\d+$`)
)

// Analyzer installs declarations and then interprets the body of a Program
// against its SymbolTable. It is single use.
type Analyzer struct {
	prog  *Program
	store *SymbolTable
	in    *bufio.Reader
	out   io.Writer
	log   *slog.Logger

	maxSteps int
	steps    int
}

func NewAnalyzer(prog *Program, opts RunOptions) *Analyzer {
	if prog.Symbols == nil {
		prog.Symbols = NewSymbolTable()
	}
	if prog.Decls == nil {
		prog.Decls = &Declarations{}
	}
	a := &Analyzer{
		prog:     prog,
		store:    prog.Symbols,
		out:      opts.Stdout,
		log:      opts.Logger,
		maxSteps: opts.MaxSteps,
	}
	if a.out == nil {
		a.out = io.Discard
	}
	if opts.Stdin == nil {
		opts.Stdin = strings.NewReader("")
	}
	a.in = bufio.NewReader(opts.Stdin)
	if a.log == nil {
		a.log = logging.Discard()
	}
	return a
}

// Analyze runs both phases of prog with opts.
func Analyze(prog *Program, opts RunOptions) error {
	return NewAnalyzer(prog, opts).Analyze()
}

// Analyze type-checks and installs every declaration, then executes the body.
func (a *Analyzer) Analyze() error {
	if err := a.declare(); err != nil {
		return err
	}
	a.log.Debug("declarations installed", "variables", len(a.store.Names()))

	if _, err := a.execBlock(a.prog.Body); err != nil {
		return err
	}
	a.log.Debug("program finished", "steps", a.steps)
	return nil
}

//  Phase 1: declarations

func (a *Analyzer) declare() error {
	for _, decl := range a.prog.Decls.List {
		for _, v := range decl.Vars {
			if v.Init == nil {
				a.store.Set(v.Name, Value{})
				continue
			}
			val, err := a.eval(v.Init, v.Line)
			if err != nil {
				return err
			}
			val, err = Validate(decl.Type, v.Name, val, v.Line)
			if err != nil {
				return err
			}
			a.store.Set(v.Name, val)
			a.log.Debug("declared", "name", v.Name, "type", decl.Type.String(), "value", val.String())
		}
	}
	return nil
}

//  Phase 2: statements

// step charges one unit against the statement budget.
func (a *Analyzer) step(line int) error {
	a.steps++
	if a.maxSteps > 0 && a.steps > a.maxSteps {
		return faultf(StepLimitFault, line, "Step limit of %d exceeded", a.maxSteps)
	}
	return nil
}

func (a *Analyzer) execBlock(b *Block) (flow, error) {
	if b == nil {
		return flowNormal, nil
	}
	for _, s := range b.Stmts {
		f, err := a.exec(s)
		if err != nil {
			return flowNormal, err
		}
		if f != flowNormal {
			return f, nil
		}
	}
	return flowNormal, nil
}

// exec runs one statement.
func (a *Analyzer) exec(s Stmt) (flow, error) {
	switch s := s.(type) {
	case *Display:
		if err := a.step(s.Line); err != nil {
			return flowNormal, err
		}
		return flowNormal, a.execDisplay(s)

	case *Scan:
		if err := a.step(s.Line); err != nil {
			return flowNormal, err
		}
		return flowNormal, a.execScan(s)

	case *Reassign:
		if err := a.step(s.Line); err != nil {
			return flowNormal, err
		}
		return flowNormal, a.execReassign(s)

	case *Conditional:
		if err := a.step(s.Line); err != nil {
			return flowNormal, err
		}
		return a.execConditional(s)

	case *WhileLoop:
		return flowNormal, a.execWhile(s)

	case *ForLoop:
		return flowNormal, a.execFor(s)

	case *Break:
		return flowBreak, nil

	case *Continue:
		return flowContinue, nil
	}
	return flowNormal, faultf(SyntaxFault, 0, "unsupported statement %T", s)
}

func (a *Analyzer) execDisplay(d *Display) error {
	var sb strings.Builder
	for _, item := range d.Items {
		v, err := a.eval(item, d.Line)
		if err != nil {
			return err
		}
		sb.WriteString(v.String())
	}
	_, err := io.WriteString(a.out, sb.String())
	return err
}

// classifyInput turns one SCAN field into a Value.
func classifyInput(field string) (Value, bool) {
	switch {
	case scanIntPattern.MatchString(field):
		n, err := strconv.ParseInt(field, 10, 32)
		if err != nil {
			return Value{}, false
		}
		return IntValue(int32(n)), true
	case scanFloatPattern.MatchString(field):
		f, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return Value{}, false
		}
		return FloatValue(float32(f)), true
	case strings.EqualFold(field, TrueText), strings.EqualFold(field, FalseText):
		return Value{Kind: KindBool, Text: strings.ToUpper(field)}, true
	case utf8.RuneCountInString(field) == 1:
		r, _ := utf8.DecodeRuneInString(field)
		return CharValue(r), true
	}
	return Value{}, false
}

// splitFields splits a SCAN line on commas. Trailing empty fields are
// dropped, so "7," holds one value and "," holds none.
func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	if line == "" {
		return fields
	}
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

func (a *Analyzer) execScan(s *Scan) error {
	line, err := a.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return faultf(ScannedInputFault, s.Line, "No input available for SCAN")
	}
	line = strings.TrimRight(line, "\r\n")

	fields := splitFields(line)
	if len(fields) != len(s.Targets) {
		return faultf(ScannedInputFault, s.Line, "The number of values provided does not match the number of variables")
	}

	for i, name := range s.Targets {
		field := strings.TrimSpace(fields[i])
		v, ok := classifyInput(field)
		if !ok {
			return faultf(ScannedInputFault, s.Line, "Invalid input provided for variable '%s'", name)
		}
		tag, ok := s.Decls.Lookup(name)
		if !ok {
			return faultf(DeclarationFault, s.Line, "Variable '%s' is not declared", name)
		}
		v, err := Validate(tag, name, v, s.Line)
		if err != nil {
			return err
		}
		a.store.Set(name, v)
	}
	return nil
}

func (a *Analyzer) execReassign(r *Reassign) error {
	v, err := a.eval(r.Value, r.Line)
	if err != nil {
		return err
	}
	for _, name := range r.Targets {
		tag, ok := r.Decls.Lookup(name)
		if !ok {
			return faultf(DeclarationFault, r.Line, "Variable '%s' is not declared", name)
		}
		coerced, err := Validate(tag, name, v, r.Line)
		if err != nil {
			return err
		}
		a.store.Set(name, coerced)
	}
	return nil
}

func (a *Analyzer) execConditional(c *Conditional) (flow, error) {
	for i, cond := range c.Conditions {
		v, err := a.eval(cond, c.Line)
		if err != nil {
			return flowNormal, err
		}
		if !v.IsTrue() {
			continue
		}
		if i == 0 {
			return a.execBlock(c.IfBlock)
		}
		return a.execBlock(c.ElseIfBlocks[i-1])
	}
	return a.execBlock(c.ElseBlock)
}

func (a *Analyzer) execWhile(w *WhileLoop) error {
	iterations := 0
	for {
		if err := a.step(w.Line); err != nil {
			return err
		}
		cond, err := a.eval(w.Cond, w.Line)
		if err != nil {
			return err
		}
		if !cond.IsTrue() {
			break
		}
		iterations++
		f, err := a.execBlock(w.Body)
		if err != nil {
			return err
		}
		if f == flowBreak {
			break
		}
	}
	a.log.Debug("loop exited", "kind", "WHILE", "line", w.Line, "iterations", iterations)
	return nil
}

// execFor runs the update clause after every iteration, including one cut
// short by CONTINUE.
func (a *Analyzer) execFor(f *ForLoop) error {
	if err := a.execReassign(f.Init); err != nil {
		return err
	}
	iterations := 0
	for {
		if err := a.step(f.Line); err != nil {
			return err
		}
		cond, err := a.eval(f.Cond, f.Line)
		if err != nil {
			return err
		}
		if !cond.IsTrue() {
			break
		}
		iterations++
		fl, err := a.execBlock(f.Body)
		if err != nil {
			return err
		}
		if fl == flowBreak {
			break
		}
		if err := a.execReassign(f.Update); err != nil {
			return err
		}
	}
	a.log.Debug("loop exited", "kind", "FOR", "line", f.Line, "iterations", iterations)
	return nil
}

//  Expressions

// eval computes the Value of e. line is the statement number for faults.
func (a *Analyzer) eval(e Expr, line int) (Value, error) {
	switch e := e.(type) {
	case *Literal:
		return e.Value, nil

	case *VariableRef:
		return a.evalVariable(e, line)

	case *Negate:
		v, err := a.eval(e.Operand, line)
		if err != nil {
			return Value{}, err
		}
		n, ok := negate(v)
		if !ok {
			return Value{}, faultf(InitializationFault, line, "Value of type %s cannot be negated", v.Kind)
		}
		return n, nil

	case *Arithmetic:
		l, err := a.eval(e.Left, line)
		if err != nil {
			return Value{}, err
		}
		r, err := a.eval(e.Right, line)
		if err != nil {
			return Value{}, err
		}
		return arithmetic(e.Op, l, r, line)

	case *Comparison:
		l, err := a.eval(e.Left, line)
		if err != nil {
			return Value{}, err
		}
		r, err := a.eval(e.Right, line)
		if err != nil {
			return Value{}, err
		}
		return compare(e.Op, l, r, line)

	case *Logical:
		l, err := a.eval(e.Left, line)
		if err != nil {
			return Value{}, err
		}
		if e.Op == NOT {
			return logical(NOT, l, Value{}, line)
		}
		r, err := a.eval(e.Right, line)
		if err != nil {
			return Value{}, err
		}
		return logical(e.Op, l, r, line)
	}
	return Value{}, faultf(SyntaxFault, line, "unsupported expression %T", e)
}

func (a *Analyzer) evalVariable(ref *VariableRef, line int) (Value, error) {
	if _, declared := a.prog.Decls.Lookup(ref.Name); !declared {
		return Value{}, faultf(DeclarationFault, line, "Variable '%s' is not declared", ref.Name)
	}
	v, ok := a.store.Get(ref.Name)
	if !ok {
		return Value{}, faultf(InitializationFault, line, "Variable '%s' is not initialized", ref.Name)
	}
	if !ref.Negated {
		return v, nil
	}
	n, ok := negate(v)
	if !ok {
		return Value{}, faultf(InitializationFault, line, "Variable '%s' of type %s cannot be negated", ref.Name, v.Kind)
	}
	return n, nil
}

// negate flips the sign of a number. ok is false for any other kind.
func negate(v Value) (Value, bool) {
	switch v.Kind {
	case KindInt:
		return IntValue(-v.Int), true
	case KindFloat:
		return FloatValue(-v.Float), true
	}
	return Value{}, false
}

// arithmetic applies + - * / %. INT with INT stays INT and wraps; any FLOAT
// operand makes the result FLOAT.
func arithmetic(op TokenType, l, r Value, line int) (Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return Value{}, faultf(ArithmeticFault, line, "Unsupported operand types: %s and %s", l.Kind, r.Kind)
	}

	if l.Kind == KindInt && r.Kind == KindInt {
		x, y := l.Int, r.Int
		switch op {
		case PLUS:
			return IntValue(x + y), nil
		case MINUS:
			return IntValue(x - y), nil
		case STAR:
			return IntValue(x * y), nil
		case SLASH:
			if y == 0 {
				return Value{}, faultf(ArithmeticFault, line, "Division by zero")
			}
			return IntValue(x / y), nil
		case PERCENT:
			if y == 0 {
				return Value{}, faultf(ArithmeticFault, line, "Modulo by zero")
			}
			return IntValue(x % y), nil
		}
		return Value{}, faultf(ArithmeticFault, line, "Unsupported operator: %s", op)
	}

	x, y := float32(l.float64()), float32(r.float64())
	switch op {
	case PLUS:
		return FloatValue(x + y), nil
	case MINUS:
		return FloatValue(x - y), nil
	case STAR:
		return FloatValue(x * y), nil
	case SLASH:
		if y == 0 {
			return Value{}, faultf(ArithmeticFault, line, "Division by zero")
		}
		return FloatValue(x / y), nil
	case PERCENT:
		if y == 0 {
			return Value{}, faultf(ArithmeticFault, line, "Modulo by zero")
		}
		return FloatValue(float32(math.Mod(float64(x), float64(y)))), nil
	}
	return Value{}, faultf(ArithmeticFault, line, "Unsupported operator: %s", op)
}

// compare applies the relational operators. Numbers compare by value;
// characters and booleans only support == and <>. Strings never compare.
func compare(op TokenType, l, r Value, line int) (Value, error) {
	if l.IsNumeric() && r.IsNumeric() {
		x, y := l.float64(), r.float64()
		switch op {
		case LESS:
			return BoolValue(x < y), nil
		case LESS_EQ:
			return BoolValue(x <= y), nil
		case GREATER:
			return BoolValue(x > y), nil
		case GREATER_EQ:
			return BoolValue(x >= y), nil
		case EQUALS:
			return BoolValue(x == y), nil
		case NOT_EQ:
			return BoolValue(x != y), nil
		}
		return Value{}, faultf(ArithmeticFault, line, "Unsupported operator: %s", op)
	}

	if l.Kind != r.Kind || l.Kind == KindNone || l.Kind == KindString {
		return Value{}, faultf(ArithmeticFault, line, "Comparison operation can only be applied to same data types")
	}
	switch op {
	case EQUALS:
		return BoolValue(l == r), nil
	case NOT_EQ:
		return BoolValue(l != r), nil
	}
	return Value{}, faultf(ArithmeticFault, line, "Cannot apply %s to value of type %s", op, l.Kind)
}

// logical applies AND, OR and NOT. Both sides are always evaluated.
func logical(op TokenType, l, r Value, line int) (Value, error) {
	if l.Kind != KindBool || (op != NOT && r.Kind != KindBool) {
		return Value{}, faultf(ArithmeticFault, line, "Logical %s requires BOOL operands", op)
	}
	switch op {
	case AND:
		return BoolValue(l.IsTrue() && r.IsTrue()), nil
	case OR:
		return BoolValue(l.IsTrue() || r.IsTrue()), nil
	case NOT:
		return BoolValue(!l.IsTrue()), nil
	}
	return Value{}, faultf(ArithmeticFault, line, "Unsupported operator: %s", op)
}
