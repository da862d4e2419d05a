package lang

import (
	"errors"
	"strconv"
	"strings"
)

// reservedWords may never be used as variable names. CODE, THEN, TRUE and
// FALSE lex as identifiers, so the check is on the lexeme.
var reservedWords = map[string]bool{
	"BEGIN": true, "CODE": true, "END": true,
	"INT": true, "CHAR": true, "BOOL": true, "FLOAT": true,
	"DISPLAY": true, "SCAN": true, "THEN": true,
	"IF": true, "ELSE": true, "WHILE": true, "FOR": true,
	"BREAK": true, "CONTINUE": true,
	"AND": true, "OR": true, "NOT": true,
	"TRUE": true, "FALSE": true,
}

func isReserved(tok Token) bool {
	if tok.Type == IDENTIFIER {
		return reservedWords[tok.Lexeme]
	}
	first, _, _ := strings.Cut(tok.Lexeme, " ")
	return reservedWords[first]
}

// ParseOptions tunes error reporting. The zero value is fail-fast.
type ParseOptions struct {
	// Batch collects every undeclared-variable fault and returns them
	// together through errors.Join once parsing reaches END CODE.
	Batch bool
}

// Parser consumes the token slice produced by Lex and builds a Program.
//
// Grammar:
//
//	program      = BEGIN_CODE declarations body END_CODE EOF
//	declarations = (type name ("=" value)? ("," name ("=" value)?)*)*
//	body         = statement*
//	statement    = display | scan | assign | if | while | for | BREAK | CONTINUE
//	display      = DISPLAY ":" item ("&" item)*
//	scan         = SCAN ":" name ("," name)*
//	assign       = name "=" (name "=")* value
//	if           = IF "(" expr ")" BEGIN_IF statement* END_IF
//	               (ELSE_IF "(" expr ")" BEGIN_IF statement* END_IF)*
//	               (ELSE BEGIN_IF statement* END_IF)?
//	while        = WHILE "(" expr ")" BEGIN_WHILE statement* END_WHILE
//	for          = FOR "(" assign "," expr "," assign ")" BEGIN_FOR statement* END_FOR
//	expr         = and (OR and)*
//	and          = comparison (AND comparison)*
//	comparison   = additive (relop additive)*
//	additive     = term (("+" | "-") term)*
//	term         = factor (("*" | "/" | "%") factor)*
//	factor       = NOT factor | "-" factor | NUM | NUM_FLOAT | CHAR_LIT | BOOL_LIT
//	             | STRING_LIT | IDENTIFIER | "(" expr ")"
//
// line counts successfully parsed declarations and statements; every fault
// carries line+1, the number of the statement being parsed.
type Parser struct {
	tokens []Token
	pos    int
	line   int
	inLoop bool
	opts   ParseOptions

	declared   map[string]bool
	decls      *Declarations
	undeclared []error
}

func NewParser(tokens []Token, opts ParseOptions) *Parser {
	return &Parser{
		tokens:   tokens,
		opts:     opts,
		declared: make(map[string]bool),
		decls:    &Declarations{},
	}
}

// Parse is shorthand for NewParser(tokens, ParseOptions{}).Parse().
func Parse(tokens []Token) (*Program, error) {
	return NewParser(tokens, ParseOptions{}).Parse()
}

func (p *Parser) errorf(kind FaultKind, format string, args ...any) error {
	return faultf(kind, p.line+1, format, args...)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// match consumes the current token if it is tt.
func (p *Parser) match(tt TokenType) bool {
	if p.peek().Type == tt {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches tt, otherwise returns a
// SyntaxFault.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.errorf(SyntaxFault, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return p.advance(), nil
}

// checkDeclared faults on a name that no declaration introduced. In batch
// mode the fault is recorded and parsing continues.
func (p *Parser) checkDeclared(name string) error {
	if p.declared[name] {
		return nil
	}
	err := p.errorf(DeclarationFault, "Variable '%s' is not declared", name)
	if p.opts.Batch {
		p.undeclared = append(p.undeclared, err)
		return nil
	}
	return err
}

// Parse builds the Program. On failure the returned error is a *Fault, or
// in batch mode possibly several joined with errors.Join.
func (p *Parser) Parse() (*Program, error) {
	if _, err := p.expect(BEGIN_CODE); err != nil {
		return nil, p.errorf(MissingBeginContainer, "Missing BEGIN CODE container")
	}

	for p.peek().Type.IsTypeTag() {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		p.decls.List = append(p.decls.List, decl)
		p.line++
	}

	body := &Block{}
	for {
		tok := p.peek()
		if tok.Type == END_CODE {
			break
		}
		if tok.Type == EOF {
			return nil, p.errorf(MissingEndContainer, "Missing END CODE container")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body.Stmts = append(body.Stmts, stmt)
	}
	p.advance() // END CODE

	if tok := p.peek(); tok.Type != EOF {
		return nil, p.errorf(SyntaxFault, "unexpected %s (%q) after END CODE", tok.Type, tok.Lexeme)
	}
	if len(p.undeclared) > 0 {
		return nil, errors.Join(p.undeclared...)
	}

	return &Program{
		Decls:      p.decls,
		Body:       body,
		Symbols:    NewSymbolTable(),
		Statements: p.line,
	}, nil
}

//  Declarations

// parseDeclaration handles TYPE a, b = 5, c = d = 1.
// Consecutive names without an initializer share the next trailing value,
// as does a chain of names joined by "=".
func (p *Parser) parseDeclaration() (*SingleDeclaration, error) {
	tag := p.advance()
	decl := &SingleDeclaration{Type: tag.Type, Line: p.line + 1}

	if next := p.peek(); next.Type == EOF || next.Type == END_CODE || (next.Type != IDENTIFIER && !isReserved(next)) {
		return nil, p.errorf(DeclarationFault, "Found data type %s but variable list is empty", tag.Lexeme)
	}

	var pending []*VariableNode
	for {
		node, err := p.declareName()
		if err != nil {
			return nil, err
		}
		group := []*VariableNode{node}

		for p.match(ASSIGN) {
			if p.peek().Type == IDENTIFIER && p.peekAt(1).Type == ASSIGN {
				chained, err := p.declareName()
				if err != nil {
					return nil, err
				}
				group = append(group, chained)
				continue
			}
			value, err := p.parseInitializer()
			if err != nil {
				return nil, err
			}
			for _, v := range append(pending, group...) {
				v.Init = value
			}
			pending = nil
			break
		}

		if node.Init == nil {
			pending = append(pending, group...)
		}
		decl.Vars = append(decl.Vars, group...)

		if !p.match(COMMA) {
			break
		}
	}
	return decl, nil
}

// declareName consumes one variable name and records it as declared.
func (p *Parser) declareName() (*VariableNode, error) {
	tok := p.peek()
	switch {
	case isReserved(tok):
		return nil, p.errorf(DeclarationFault, "Variable name '%s' is a reserved word", tok.Lexeme)
	case tok.Type != IDENTIFIER:
		return nil, p.errorf(DeclarationFault, "Invalid variable name %q; names start with a letter or an underscore", tok.Lexeme)
	case p.declared[tok.Lexeme]:
		return nil, p.errorf(DeclarationFault, "Variable '%s' is redeclared", tok.Lexeme)
	}
	p.advance()
	p.declared[tok.Lexeme] = true
	return &VariableNode{Name: tok.Lexeme, Line: p.line + 1}, nil
}

// canStartExpr reports whether tt may begin an expression.
func canStartExpr(tt TokenType) bool {
	switch tt {
	case NUM, NUM_FLOAT, CHAR_LIT, BOOL_LIT, STRING_LIT, IDENTIFIER, LPAREN, NEGATION, NOT:
		return true
	}
	return false
}

// parseInitializer parses the value after "=".
func (p *Parser) parseInitializer() (Expr, error) {
	if !canStartExpr(p.peek().Type) {
		return nil, p.errorf(InitializationFault, "Assignment operator found but value token is missing")
	}
	return p.parseExpression()
}

//  Statements

// parseStatement dispatches on the leading token and counts the statement
// once it has parsed completely.
func (p *Parser) parseStatement() (Stmt, error) {
	var (
		stmt Stmt
		err  error
	)
	tok := p.peek()
	switch tok.Type {
	case DISPLAY:
		stmt, err = p.parseDisplay()
	case SCAN:
		stmt, err = p.parseScan()
	case IDENTIFIER:
		stmt, err = p.parseAssign()
	case IF:
		stmt, err = p.parseIf()
	case WHILE:
		stmt, err = p.parseWhile()
	case FOR:
		stmt, err = p.parseFor()
	case BREAK, CONTINUE:
		stmt, err = p.parseLoopControl()
	case INT, CHAR, BOOL, FLOAT:
		err = p.errorf(SyntaxFault, "Variable declaration found after executable code")
	default:
		err = p.errorf(SyntaxFault, "unexpected %s (%q)", tok.Type, tok.Lexeme)
	}
	if err != nil {
		return nil, err
	}
	p.line++
	return stmt, nil
}

// parseBlock parses statements until end and consumes end.
func (p *Parser) parseBlock(end TokenType) (*Block, error) {
	block := &Block{}
	for {
		tok := p.peek()
		if tok.Type == end {
			p.advance()
			return block, nil
		}
		if tok.Type == EOF || tok.Type == END_CODE {
			return nil, p.errorf(SyntaxFault, "expected %s, got %s", end, tok.Type)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
}

// parseLoopBody parses a WHILE or FOR body with BREAK and CONTINUE allowed.
func (p *Parser) parseLoopBody(end TokenType) (*Block, error) {
	saved := p.inLoop
	p.inLoop = true
	defer func() { p.inLoop = saved }()
	return p.parseBlock(end)
}

func (p *Parser) parseDisplay() (Stmt, error) {
	p.advance() // DISPLAY
	d := &Display{Line: p.line + 1}
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}

	for {
		item, err := p.parseDisplayItem()
		if err != nil {
			return nil, err
		}
		d.Items = append(d.Items, item)
		if !p.match(CONCAT) {
			break
		}
	}

	switch next := p.peek(); next.Type {
	case STRING_LIT, CHAR_LIT, BOOL_LIT, NUM, NUM_FLOAT, ESCAPE, NEWLINE, LPAREN:
		return nil, p.errorf(DisplayFormatFault, "display items must be joined with '&' before %q", next.Lexeme)
	}
	return d, nil
}

func (p *Parser) parseDisplayItem() (Expr, error) {
	tok := p.peek()
	switch {
	case tok.Type == ESCAPE:
		p.advance()
		return &Literal{Value: StringValue(tok.Lexeme)}, nil
	case tok.Type == NEWLINE:
		p.advance()
		return &Literal{Value: StringValue("\n")}, nil
	case canStartExpr(tok.Type):
		return p.parseExpression()
	}
	return nil, p.errorf(DisplayFormatFault, "missing display item before %s", tok.Type)
}

func (p *Parser) parseScan() (Stmt, error) {
	p.advance() // SCAN
	s := &Scan{Decls: p.decls, Line: p.line + 1}
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}
	for {
		tok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if err := p.checkDeclared(tok.Lexeme); err != nil {
			return nil, err
		}
		s.Targets = append(s.Targets, tok.Lexeme)
		if !p.match(COMMA) {
			return s, nil
		}
	}
}

// parseAssign handles name = name = ... = value. It does not count itself,
// so FOR can reuse it for its init and update clauses.
func (p *Parser) parseAssign() (*Reassign, error) {
	r := &Reassign{Decls: p.decls, Line: p.line + 1}

	tok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	r.Targets = append(r.Targets, tok.Lexeme)
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	for p.peek().Type == IDENTIFIER && p.peekAt(1).Type == ASSIGN {
		r.Targets = append(r.Targets, p.advance().Lexeme)
		p.advance() // =
	}
	for _, name := range r.Targets {
		if err := p.checkDeclared(name); err != nil {
			return nil, err
		}
	}

	r.Value, err = p.parseInitializer()
	if err != nil {
		return nil, err
	}
	return r, nil
}

// parseCondition parses "(" expr ")".
func (p *Parser) parseCondition() (Expr, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	p.advance() // IF
	c := &Conditional{Line: p.line + 1, ElseBlock: &Block{}}

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(BEGIN_IF); err != nil {
		return nil, err
	}
	c.Conditions = append(c.Conditions, cond)
	if c.IfBlock, err = p.parseBlock(END_IF); err != nil {
		return nil, err
	}

	for p.match(ELSE_IF) {
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(BEGIN_IF); err != nil {
			return nil, err
		}
		block, err := p.parseBlock(END_IF)
		if err != nil {
			return nil, err
		}
		c.Conditions = append(c.Conditions, cond)
		c.ElseIfBlocks = append(c.ElseIfBlocks, block)
	}

	if p.match(ELSE) {
		if _, err := p.expect(BEGIN_IF); err != nil {
			return nil, err
		}
		if c.ElseBlock, err = p.parseBlock(END_IF); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	p.advance() // WHILE
	w := &WhileLoop{Line: p.line + 1}

	var err error
	if w.Cond, err = p.parseCondition(); err != nil {
		return nil, err
	}
	if _, err := p.expect(BEGIN_WHILE); err != nil {
		return nil, err
	}
	if w.Body, err = p.parseLoopBody(END_WHILE); err != nil {
		return nil, err
	}
	return w, nil
}

func (p *Parser) parseFor() (Stmt, error) {
	p.advance() // FOR
	f := &ForLoop{Line: p.line + 1}

	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var err error
	if f.Init, err = p.parseAssign(); err != nil {
		return nil, err
	}
	if _, err := p.expect(COMMA); err != nil {
		return nil, err
	}
	if f.Cond, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if _, err := p.expect(COMMA); err != nil {
		return nil, err
	}
	if f.Update, err = p.parseAssign(); err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(BEGIN_FOR); err != nil {
		return nil, err
	}
	if f.Body, err = p.parseLoopBody(END_FOR); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *Parser) parseLoopControl() (Stmt, error) {
	tok := p.advance()
	if !p.inLoop {
		return nil, p.errorf(SyntaxFault, "%s outside of a loop body", tok.Lexeme)
	}
	if tok.Type == BREAK {
		return &Break{Line: p.line + 1}, nil
	}
	return &Continue{Line: p.line + 1}, nil
}

//  Expressions

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseOr()
}

// parseOr handles OR
func (p *Parser) parseOr() (Expr, error) {
	expr, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == OR {
		op := p.advance().Type
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		expr = &Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// parseAnd handles AND
func (p *Parser) parseAnd() (Expr, error) {
	expr, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == AND {
		op := p.advance().Type
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		expr = &Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func isRelOp(tt TokenType) bool {
	switch tt {
	case EQUALS, NOT_EQ, LESS, LESS_EQ, GREATER, GREATER_EQ:
		return true
	}
	return false
}

// parseComparison handles == <> < <= > >=
func (p *Parser) parseComparison() (Expr, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for isRelOp(p.peek().Type) {
		op := p.advance().Type
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		expr = &Comparison{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// parseAdditive handles + and binary -
func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == PLUS || p.peek().Type == MINUS {
		op := p.advance().Type
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr = &Arithmetic{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// parseTerm handles * / %
func (p *Parser) parseTerm() (Expr, error) {
	expr, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == STAR || p.peek().Type == SLASH || p.peek().Type == PERCENT {
		op := p.advance().Type
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		expr = &Arithmetic{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) intLiteral(text string) (Expr, error) {
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return nil, p.errorf(SyntaxFault, "integer literal %s out of range", text)
	}
	return &Literal{Value: IntValue(int32(n))}, nil
}

func (p *Parser) floatLiteral(text string) (Expr, error) {
	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return nil, p.errorf(SyntaxFault, "invalid float literal %s", text)
	}
	return &Literal{Value: FloatValue(float32(f))}, nil
}

// parseFactor handles unary operators, literals, names and parentheses.
// A negated number folds into the literal and a negated name becomes a
// negated VariableRef; anything else becomes a Negate node.
func (p *Parser) parseFactor() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case NOT:
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &Logical{Left: operand, Op: NOT}, nil

	case NEGATION:
		p.advance()
		switch next := p.peek(); next.Type {
		case NUM:
			p.advance()
			return p.intLiteral("-" + next.Lexeme)
		case NUM_FLOAT:
			p.advance()
			return p.floatLiteral("-" + next.Lexeme)
		case IDENTIFIER:
			p.advance()
			if err := p.checkDeclared(next.Lexeme); err != nil {
				return nil, err
			}
			return &VariableRef{Name: next.Lexeme, Negated: true}, nil
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &Negate{Operand: operand}, nil

	case NUM:
		p.advance()
		return p.intLiteral(tok.Lexeme)

	case NUM_FLOAT:
		p.advance()
		return p.floatLiteral(tok.Lexeme)

	case CHAR_LIT:
		p.advance()
		return &Literal{Value: CharValue([]rune(tok.Lexeme)[0])}, nil

	case BOOL_LIT:
		p.advance()
		return &Literal{Value: BoolValue(tok.Lexeme == TrueText)}, nil

	case STRING_LIT:
		p.advance()
		return &Literal{Value: StringValue(tok.Lexeme)}, nil

	case IDENTIFIER:
		p.advance()
		if err := p.checkDeclared(tok.Lexeme); err != nil {
			return nil, err
		}
		return &VariableRef{Name: tok.Lexeme}, nil

	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.errorf(SyntaxFault, "unexpected %s (%q) in expression", tok.Type, tok.Lexeme)
}
