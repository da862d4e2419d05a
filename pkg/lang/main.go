// Package lang provides the lexer, parser, validator and tree-walking
// evaluator for the BEGIN CODE / END CODE teaching language.
//
// Pipeline: source → Lex → Parse → CheckLines → Analyze → DISPLAY output
package lang
