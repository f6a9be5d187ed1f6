package dsl

import "github.com/alecthomas/participle/v2/lexer"

// sessionLexer is the token taxonomy of spec §4.1: numbers, quoted strings,
// a single identifier class covering both VAR_NAME and BODY_NAME (the
// grammar distinguishes keywords from identifiers by value, the standard
// participle idiom, and the evaluator distinguishes variables from bodies
// by the identifier's initial letter case), the arrow and comparison
// operators (longest-match first), and line comments.
var sessionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Eq", Pattern: `==`},
	{Name: "Neq", Pattern: `!=`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[(),.;=+\-*/^><]`},
})
