package lang

import (
	"strings"
	"unicode"
)

// keywords maps single-word source text to its keyword TokenType.
// BEGIN, END and ELSE are resolved by scanIdent because they may pair with
// the following word.
var keywords = map[string]TokenType{
	"INT":      INT,
	"CHAR":     CHAR,
	"BOOL":     BOOL,
	"FLOAT":    FLOAT,
	"DISPLAY":  DISPLAY,
	"SCAN":     SCAN,
	"IF":       IF,
	"WHILE":    WHILE,
	"FOR":      FOR,
	"BREAK":    BREAK,
	"CONTINUE": CONTINUE,
	"AND":      AND,
	"OR":       OR,
	"NOT":      NOT,
}

type pairedWord struct {
	word string
	tt   TokenType
}

// compoundKeywords lists the second words that may follow BEGIN, END and ELSE
// after exactly one space.
var compoundKeywords = map[string][]pairedWord{
	"BEGIN": {{"CODE", BEGIN_CODE}, {"IF", BEGIN_IF}, {"WHILE", BEGIN_WHILE}, {"FOR", BEGIN_FOR}},
	"END":   {{"CODE", END_CODE}, {"IF", END_IF}, {"WHILE", END_WHILE}, {"FOR", END_FOR}},
	"ELSE":  {{"IF", ELSE_IF}},
}

// escapable is the set of characters accepted between [ and ].
const escapable = "$&[]'\"#"

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int       // index of the next rune to consume
	line int       // current 1-based source line
	prev TokenType // type of the last emitted token; EOF before the first
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, prev: EOF}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune offset positions ahead of the current one.
func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) errorf(pos, line int, format string, args ...any) error {
	f := faultf(LexicalFault, line, format, args...)
	f.Pos = pos
	return f
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from '#' to end-of-line.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// Source text is ASCII; other letters and digits are lexical faults.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return isLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '_'
}

// followedBy reports whether the source at the current position is a single
// space, then word, then a non-identifier character.
func (l *Lexer) followedBy(word string) bool {
	if l.peek() != ' ' {
		return false
	}
	for i, r := range word {
		if l.peekAt(1+i) != r {
			return false
		}
	}
	return !isIdentPart(l.peekAt(1 + len(word)))
}

// scanIdent collects an identifier, keyword or multi-word keyword.
func (l *Lexer) scanIdent() (Token, error) {
	line, start := l.line, l.pos
	for l.pos < len(l.src) && isIdentPart(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])

	if pairs, ok := compoundKeywords[lexeme]; ok {
		for _, pw := range pairs {
			if l.followedBy(pw.word) {
				for i := 0; i < len(pw.word)+1; i++ {
					l.advance()
				}
				return Token{Type: pw.tt, Lexeme: lexeme + " " + pw.word, Pos: start, Line: line}, nil
			}
		}
		if lexeme == "ELSE" {
			return Token{Type: ELSE, Lexeme: lexeme, Pos: start, Line: line}, nil
		}
		return Token{}, l.errorf(start, line, "%s must be followed by CODE, IF, WHILE or FOR", lexeme)
	}

	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Pos: start, Line: line}, nil
}

// scanNumber collects digits and at most one decimal point.
func (l *Lexer) scanNumber() (Token, error) {
	line, start := l.line, l.pos
	seenPoint := false
	for l.pos < len(l.src) {
		r := l.peek()
		if r == '.' {
			if seenPoint {
				return Token{}, l.errorf(l.pos, l.line, "invalid floating-point number format")
			}
			seenPoint = true
		} else if !isDigit(r) {
			break
		}
		l.advance()
	}
	tt := NUM
	if seenPoint {
		tt = NUM_FLOAT
	}
	return Token{Type: tt, Lexeme: string(l.src[start:l.pos]), Pos: start, Line: line}, nil
}

// scanQuoted collects the content between a pair of quote runes.
// The opening quote must still be at l.peek().
func (l *Lexer) scanQuoted(quote rune) (string, error) {
	line, start := l.line, l.pos
	l.advance() // opening quote
	contentStart := l.pos
	for l.pos < len(l.src) && l.peek() != quote {
		l.advance()
	}
	if l.pos >= len(l.src) {
		return "", l.errorf(start, line, "unclosed literal starting with %c", quote)
	}
	content := string(l.src[contentStart:l.pos])
	l.advance() // closing quote
	return content, nil
}

// scanChar collects a character literal '...'; its value is the first rune.
func (l *Lexer) scanChar() (Token, error) {
	line, start := l.line, l.pos
	content, err := l.scanQuoted('\'')
	if err != nil {
		return Token{}, err
	}
	if content == "" {
		return Token{}, l.errorf(start, line, "empty character literal")
	}
	return Token{Type: CHAR_LIT, Lexeme: content, Pos: start, Line: line}, nil
}

// scanString collects a string literal "..."; "TRUE" and "FALSE" become
// boolean literals.
func (l *Lexer) scanString() (Token, error) {
	line, start := l.line, l.pos
	content, err := l.scanQuoted('"')
	if err != nil {
		return Token{}, err
	}
	tt := STRING_LIT
	if content == TrueText || content == FalseText {
		tt = BOOL_LIT
	}
	return Token{Type: tt, Lexeme: content, Pos: start, Line: line}, nil
}

// scanEscape collects [x] where x is one of the escapable characters.
func (l *Lexer) scanEscape() (Token, error) {
	line, start := l.line, l.pos
	l.advance() // [
	ch := l.peek()
	if ch == 0 || !strings.ContainsRune(escapable, ch) {
		return Token{}, l.errorf(start+1, line, "invalid character following '['")
	}
	l.advance()
	if l.peek() != ']' {
		return Token{}, l.errorf(start, line, "unclosed or invalid escape literal")
	}
	l.advance()
	return Token{Type: ESCAPE, Lexeme: string(ch), Pos: start, Line: line}, nil
}

// minusKind decides between binary MINUS and unary NEGATION by looking at the
// previously emitted token.
func (l *Lexer) minusKind() TokenType {
	switch l.prev {
	case NUM, NUM_FLOAT, IDENTIFIER, RPAREN:
		return MINUS
	}
	return NEGATION
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Pos: l.pos, Line: l.line}, nil
		}
		if l.peek() == '#' {
			l.skipLineComment()
			continue
		}
		break
	}

	ch := l.peek()
	line, start := l.line, l.pos

	switch {
	case isIdentStart(ch):
		return l.scanIdent()
	case isDigit(ch):
		return l.scanNumber()
	case ch == '\'':
		return l.scanChar()
	case ch == '"':
		return l.scanString()
	case ch == '[':
		return l.scanEscape()
	}

	tok := func(tt TokenType, lexeme string) (Token, error) {
		return Token{Type: tt, Lexeme: lexeme, Pos: start, Line: line}, nil
	}

	l.advance() // consume the character before the switch
	switch ch {
	case ':':
		return tok(COLON, ":")
	case ',':
		return tok(COMMA, ",")
	case '(':
		return tok(LPAREN, "(")
	case ')':
		return tok(RPAREN, ")")
	case '&':
		return tok(CONCAT, "&")
	case '$':
		return tok(NEWLINE, "$")
	case '+':
		return tok(PLUS, "+")
	case '-':
		return tok(l.minusKind(), "-")
	case '*':
		return tok(STAR, "*")
	case '/':
		return tok(SLASH, "/")
	case '%':
		return tok(PERCENT, "%")
	case '>':
		if l.peek() == '=' {
			l.advance()
			return tok(GREATER_EQ, ">=")
		}
		return tok(GREATER, ">")
	case '<':
		if l.peek() == '=' {
			l.advance()
			return tok(LESS_EQ, "<=")
		}
		if l.peek() == '>' {
			l.advance()
			return tok(NOT_EQ, "<>")
		}
		return tok(LESS, "<")
	case '=':
		if l.peek() == '=' { // lookahead: distinguish = vs ==
			l.advance()
			return tok(EQUALS, "==")
		}
		return tok(ASSIGN, "=")
	default:
		return Token{}, l.errorf(start, line, "unknown character %q", ch)
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a *Fault of kind LexicalFault on the first bad character,
// unterminated literal or malformed number.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		l.prev = tok.Type
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
