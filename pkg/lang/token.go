package lang

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable name
	NUM        // integer literal
	NUM_FLOAT  // literal with a decimal point
	CHAR_LIT   // '...'
	STRING_LIT // "..."
	BOOL_LIT   // "TRUE" or "FALSE"
	ESCAPE     // [x]

	// Containers and block delimiters (multi-word keywords)
	BEGIN_CODE  // BEGIN CODE
	END_CODE    // END CODE
	BEGIN_IF    // BEGIN IF
	END_IF      // END IF
	BEGIN_WHILE // BEGIN WHILE
	END_WHILE   // END WHILE
	BEGIN_FOR   // BEGIN FOR
	END_FOR     // END FOR

	// Type keywords
	INT   // INT
	CHAR  // CHAR
	BOOL  // BOOL
	FLOAT // FLOAT

	// Statement keywords
	DISPLAY  // DISPLAY
	SCAN     // SCAN
	IF       // IF
	ELSE     // ELSE
	ELSE_IF  // ELSE IF
	WHILE    // WHILE
	FOR      // FOR
	BREAK    // BREAK
	CONTINUE // CONTINUE

	// Logical operators
	AND // AND
	OR  // OR
	NOT // NOT

	// Punctuation
	COLON   // :
	COMMA   // ,
	LPAREN  // (
	RPAREN  // )
	CONCAT  // &
	NEWLINE // $

	// Arithmetic operators
	PLUS     // +
	MINUS    // - (binary)
	NEGATION // - (unary)
	STAR     // *
	SLASH    // /
	PERCENT  // %

	// Assignment / comparison
	ASSIGN     // =
	EQUALS     // ==
	NOT_EQ     // <>
	LESS       // <
	LESS_EQ    // <=
	GREATER    // >
	GREATER_EQ // >=
)

var tokenNames = [...]string{
	EOF:         "EOF",
	IDENTIFIER:  "IDENTIFIER",
	NUM:         "NUM",
	NUM_FLOAT:   "NUM_FLOAT",
	CHAR_LIT:    "CHAR_LIT",
	STRING_LIT:  "STRING_LIT",
	BOOL_LIT:    "BOOL_LIT",
	ESCAPE:      "ESCAPE",
	BEGIN_CODE:  "BEGIN_CODE",
	END_CODE:    "END_CODE",
	BEGIN_IF:    "BEGIN_IF",
	END_IF:      "END_IF",
	BEGIN_WHILE: "BEGIN_WHILE",
	END_WHILE:   "END_WHILE",
	BEGIN_FOR:   "BEGIN_FOR",
	END_FOR:     "END_FOR",
	INT:         "INT",
	CHAR:        "CHAR",
	BOOL:        "BOOL",
	FLOAT:       "FLOAT",
	DISPLAY:     "DISPLAY",
	SCAN:        "SCAN",
	IF:          "IF",
	ELSE:        "ELSE",
	ELSE_IF:     "ELSE_IF",
	WHILE:       "WHILE",
	FOR:         "FOR",
	BREAK:       "BREAK",
	CONTINUE:    "CONTINUE",
	AND:         "AND",
	OR:          "OR",
	NOT:         "NOT",
	COLON:       "COLON",
	COMMA:       "COMMA",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	CONCAT:      "CONCAT",
	NEWLINE:     "NEWLINE",
	PLUS:        "PLUS",
	MINUS:       "MINUS",
	NEGATION:    "NEGATION",
	STAR:        "STAR",
	SLASH:       "SLASH",
	PERCENT:     "PERCENT",
	ASSIGN:      "ASSIGN",
	EQUALS:      "EQUALS",
	NOT_EQ:      "NOT_EQ",
	LESS:        "LESS",
	LESS_EQ:     "LESS_EQ",
	GREATER:     "GREATER",
	GREATER_EQ:  "GREATER_EQ",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsTypeTag reports whether tt names one of the four declarable types.
func (tt TokenType) IsTypeTag() bool {
	return tt == INT || tt == CHAR || tt == BOOL || tt == FLOAT
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // source text; literal content for quoted and escape tokens
	Pos    int    // 0-based offset of the first character
	Line   int    // 1-based source line derived from Pos
}

func (t Token) String() string {
	return fmt.Sprintf("%-11s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
