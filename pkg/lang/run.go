package lang

import (
	"strings"

	"codelang/pkg/logging"
)

// Options configures the whole pipeline.
type Options struct {
	Parse       ParseOptions
	Run         RunOptions
	StrictLines bool // enforce at most one statement per source line
}

// Compile lexes and parses src and, with StrictLines, checks the statement
// count against the source line count. Nothing is executed.
func Compile(src string, opts Options) (*Program, error) {
	log := opts.Run.Logger
	if log == nil {
		log = logging.Discard()
	}

	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	log.Debug("lexed", "tokens", len(tokens))

	prog, err := NewParser(tokens, opts.Parse).Parse()
	if err != nil {
		return nil, err
	}
	log.Debug("parsed", "declarations", len(prog.Decls.List), "statements", prog.Statements)

	if opts.StrictLines {
		if err := CheckLines(src, prog); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

// Run compiles src and executes it.
func Run(src string, opts Options) error {
	prog, err := Compile(src, opts)
	if err != nil {
		return err
	}
	return Analyze(prog, opts.Run)
}

// CheckLines faults when prog holds more statements than src has lines,
// which can only happen when a line carries several statements.
func CheckLines(src string, prog *Program) error {
	lines := strings.Count(src, "\n") + 1
	if prog.Statements > lines {
		return faultf(SyntaxFault, prog.Statements, "Multiple statements found on a single line")
	}
	return nil
}
