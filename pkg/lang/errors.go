package lang

import (
	"errors"
	"fmt"
)

// FaultKind classifies a user-visible fault.
type FaultKind int

const (
	LexicalFault FaultKind = iota
	MissingBeginContainer
	MissingEndContainer
	SyntaxFault
	DeclarationFault
	InitializationFault
	DisplayFormatFault
	ScannedInputFault
	ArithmeticFault
	StepLimitFault
)

var (
	// ErrLex indicates an unknown character, unterminated literal or malformed number.
	ErrLex = errors.New("lexical error")

	// ErrMissingBegin indicates the program does not open with BEGIN CODE.
	ErrMissingBegin = errors.New("missing BEGIN CODE container")

	// ErrMissingEnd indicates the program does not close with END CODE.
	ErrMissingEnd = errors.New("missing END CODE container")

	// ErrSyntax indicates a grammar violation.
	ErrSyntax = errors.New("syntax error")

	// ErrDeclaration indicates a redeclared, undeclared or reserved variable name.
	ErrDeclaration = errors.New("variable declaration error")

	// ErrInitialization indicates an uninitialized read or a type mismatch.
	ErrInitialization = errors.New("variable initialization error")

	// ErrDisplay indicates a malformed DISPLAY statement.
	ErrDisplay = errors.New("display error")

	// ErrScannedInput indicates a SCAN input line that does not fit its targets.
	ErrScannedInput = errors.New("scanned input error")

	// ErrArithmetic indicates division or modulo by zero and bad operand kinds.
	ErrArithmetic = errors.New("arithmetic error")

	// ErrStepLimit indicates the configured statement budget ran out.
	ErrStepLimit = errors.New("step limit exceeded")
)

var faultSentinels = [...]error{
	LexicalFault:          ErrLex,
	MissingBeginContainer: ErrMissingBegin,
	MissingEndContainer:   ErrMissingEnd,
	SyntaxFault:           ErrSyntax,
	DeclarationFault:      ErrDeclaration,
	InitializationFault:   ErrInitialization,
	DisplayFormatFault:    ErrDisplay,
	ScannedInputFault:     ErrScannedInput,
	ArithmeticFault:       ErrArithmetic,
	StepLimitFault:        ErrStepLimit,
}

func (k FaultKind) String() string {
	if int(k) >= 0 && int(k) < len(faultSentinels) {
		return faultSentinels[k].Error()
	}
	return fmt.Sprintf("FaultKind(%d)", int(k))
}

// Fault is the single error type raised by the lexer, parser and evaluator.
// Line is the 1-based statement number for parse and runtime faults and the
// source line for lexical faults; Pos is only meaningful for lexical faults.
type Fault struct {
	Kind FaultKind
	Line int
	Pos  int
	Msg  string
}

func (f *Fault) Error() string {
	if f.Kind == LexicalFault {
		return fmt.Sprintf("ERROR: %s at position %d (line %d)", f.Msg, f.Pos, f.Line)
	}
	if f.Line > 0 {
		return fmt.Sprintf("ERROR: %s at line %d", f.Msg, f.Line)
	}
	return "ERROR: " + f.Msg
}

// Unwrap exposes the kind sentinel so errors.Is(err, ErrSyntax) works.
func (f *Fault) Unwrap() error {
	if int(f.Kind) >= 0 && int(f.Kind) < len(faultSentinels) {
		return faultSentinels[f.Kind]
	}
	return nil
}

func faultf(kind FaultKind, line int, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// AsFault returns the first *Fault in err's chain, if any.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
