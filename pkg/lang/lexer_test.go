package lang

import (
	"errors"
	"reflect"
	"testing"
)

// stripPos drops offsets so expectations stay readable.
func stripPos(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		t.Pos = 0
		out[i] = t
	}
	return out
}

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
		wantErr  bool
	}{
		{
			name:  "Empty",
			input: "",
			expected: []Token{
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Operators",
			input: "+ * / % < <= > >= == <> = & , : ( ) $",
			expected: []Token{
				{Type: PLUS, Lexeme: "+", Line: 1},
				{Type: STAR, Lexeme: "*", Line: 1},
				{Type: SLASH, Lexeme: "/", Line: 1},
				{Type: PERCENT, Lexeme: "%", Line: 1},
				{Type: LESS, Lexeme: "<", Line: 1},
				{Type: LESS_EQ, Lexeme: "<=", Line: 1},
				{Type: GREATER, Lexeme: ">", Line: 1},
				{Type: GREATER_EQ, Lexeme: ">=", Line: 1},
				{Type: EQUALS, Lexeme: "==", Line: 1},
				{Type: NOT_EQ, Lexeme: "<>", Line: 1},
				{Type: ASSIGN, Lexeme: "=", Line: 1},
				{Type: CONCAT, Lexeme: "&", Line: 1},
				{Type: COMMA, Lexeme: ",", Line: 1},
				{Type: COLON, Lexeme: ":", Line: 1},
				{Type: LPAREN, Lexeme: "(", Line: 1},
				{Type: RPAREN, Lexeme: ")", Line: 1},
				{Type: NEWLINE, Lexeme: "$", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Keywords and Identifiers",
			input: "INT CHAR BOOL FLOAT DISPLAY SCAN IF WHILE FOR BREAK CONTINUE AND OR NOT TRUE abc_1 _x",
			expected: []Token{
				{Type: INT, Lexeme: "INT", Line: 1},
				{Type: CHAR, Lexeme: "CHAR", Line: 1},
				{Type: BOOL, Lexeme: "BOOL", Line: 1},
				{Type: FLOAT, Lexeme: "FLOAT", Line: 1},
				{Type: DISPLAY, Lexeme: "DISPLAY", Line: 1},
				{Type: SCAN, Lexeme: "SCAN", Line: 1},
				{Type: IF, Lexeme: "IF", Line: 1},
				{Type: WHILE, Lexeme: "WHILE", Line: 1},
				{Type: FOR, Lexeme: "FOR", Line: 1},
				{Type: BREAK, Lexeme: "BREAK", Line: 1},
				{Type: CONTINUE, Lexeme: "CONTINUE", Line: 1},
				{Type: AND, Lexeme: "AND", Line: 1},
				{Type: OR, Lexeme: "OR", Line: 1},
				{Type: NOT, Lexeme: "NOT", Line: 1},
				{Type: IDENTIFIER, Lexeme: "TRUE", Line: 1},
				{Type: IDENTIFIER, Lexeme: "abc_1", Line: 1},
				{Type: IDENTIFIER, Lexeme: "_x", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Multi-word keywords",
			input: "BEGIN CODE BEGIN IF END IF ELSE IF ELSE BEGIN WHILE END WHILE BEGIN FOR END FOR END CODE",
			expected: []Token{
				{Type: BEGIN_CODE, Lexeme: "BEGIN CODE", Line: 1},
				{Type: BEGIN_IF, Lexeme: "BEGIN IF", Line: 1},
				{Type: END_IF, Lexeme: "END IF", Line: 1},
				{Type: ELSE_IF, Lexeme: "ELSE IF", Line: 1},
				{Type: ELSE, Lexeme: "ELSE", Line: 1},
				{Type: BEGIN_WHILE, Lexeme: "BEGIN WHILE", Line: 1},
				{Type: END_WHILE, Lexeme: "END WHILE", Line: 1},
				{Type: BEGIN_FOR, Lexeme: "BEGIN FOR", Line: 1},
				{Type: END_FOR, Lexeme: "END FOR", Line: 1},
				{Type: END_CODE, Lexeme: "END CODE", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "ELSE followed by another word",
			input: "ELSE IFFY",
			expected: []Token{
				{Type: ELSE, Lexeme: "ELSE", Line: 1},
				{Type: IDENTIFIER, Lexeme: "IFFY", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Literals",
			input: `'a' 'xyz' "hi there" "TRUE" "FALSE" "true" [$] [#] [[] ['] 12 3.5`,
			expected: []Token{
				{Type: CHAR_LIT, Lexeme: "a", Line: 1},
				{Type: CHAR_LIT, Lexeme: "xyz", Line: 1},
				{Type: STRING_LIT, Lexeme: "hi there", Line: 1},
				{Type: BOOL_LIT, Lexeme: "TRUE", Line: 1},
				{Type: BOOL_LIT, Lexeme: "FALSE", Line: 1},
				{Type: STRING_LIT, Lexeme: "true", Line: 1},
				{Type: ESCAPE, Lexeme: "$", Line: 1},
				{Type: ESCAPE, Lexeme: "#", Line: 1},
				{Type: ESCAPE, Lexeme: "[", Line: 1},
				{Type: ESCAPE, Lexeme: "'", Line: 1},
				{Type: NUM, Lexeme: "12", Line: 1},
				{Type: NUM_FLOAT, Lexeme: "3.5", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Comments and lines",
			input: "INT x # a comment\n\nDISPLAY: x # another",
			expected: []Token{
				{Type: INT, Lexeme: "INT", Line: 1},
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: DISPLAY, Lexeme: "DISPLAY", Line: 3},
				{Type: COLON, Lexeme: ":", Line: 3},
				{Type: IDENTIFIER, Lexeme: "x", Line: 3},
				{Type: EOF, Lexeme: "", Line: 3},
			},
		},
		{name: "Second decimal point", input: "1.2.3", wantErr: true},
		{name: "Unclosed char", input: "'abc", wantErr: true},
		{name: "Unclosed string", input: `"abc`, wantErr: true},
		{name: "Empty char", input: "''", wantErr: true},
		{name: "Bad escape", input: "[x]", wantErr: true},
		{name: "Unclosed escape", input: "[$", wantErr: true},
		{name: "Unknown character", input: "x @ y", wantErr: true},
		{name: "Non-ASCII letter", input: "INT é", wantErr: true},
		{name: "Non-ASCII identifier part", input: "caf\u00e9 = 1", wantErr: true},
		{name: "Non-ASCII digit", input: "x = \u0663", wantErr: true},
		{name: "Lone closing bracket", input: "]", wantErr: true},
		{name: "Leading decimal point", input: ".5", wantErr: true},
		{name: "BEGIN with two spaces", input: "BEGIN  CODE", wantErr: true},
		{name: "BEGIN CODEX", input: "BEGIN CODEX", wantErr: true},
		{name: "Bare END", input: "END", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Lex() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrLex) {
					t.Errorf("Lex() error = %v, want ErrLex", err)
				}
				return
			}
			if !reflect.DeepEqual(stripPos(got), tt.expected) {
				t.Errorf("Lex() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestLexMinus checks that '-' depends on the previously emitted token.
func TestLexMinus(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"x-1", []TokenType{IDENTIFIER, MINUS, NUM, EOF}},
		{"x=-1", []TokenType{IDENTIFIER, ASSIGN, NEGATION, NUM, EOF}},
		{"(-1)", []TokenType{LPAREN, NEGATION, NUM, RPAREN, EOF}},
		{"(a)-2", []TokenType{LPAREN, IDENTIFIER, RPAREN, MINUS, NUM, EOF}},
		{"5 - -3", []TokenType{NUM, MINUS, NEGATION, NUM, EOF}},
		{"2.5-x", []TokenType{NUM_FLOAT, MINUS, IDENTIFIER, EOF}},
		{"-x", []TokenType{NEGATION, IDENTIFIER, EOF}},
		{"a & -b", []TokenType{IDENTIFIER, CONCAT, NEGATION, IDENTIFIER, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex failed: %v", err)
			}
			var got []TokenType
			for _, tok := range tokens {
				got = append(got, tok.Type)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Lex(%q) types = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLexErrorPosition(t *testing.T) {
	_, err := Lex("INT x\nx @ y")
	f, ok := AsFault(err)
	if !ok {
		t.Fatalf("expected *Fault, got %v", err)
	}
	if f.Kind != LexicalFault {
		t.Errorf("kind = %v, want %v", f.Kind, LexicalFault)
	}
	if f.Pos != 8 {
		t.Errorf("pos = %d, want 8", f.Pos)
	}
	if f.Line != 2 {
		t.Errorf("line = %d, want 2", f.Line)
	}
}
