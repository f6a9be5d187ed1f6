// Package dsl implements the lexer, LALR-style parser, and concrete syntax
// tree of spec §4.1 (C4), using a participle struct-tag grammar: one Go
// struct per precedence level, the same shape
// other_examples/manifests/grafana-tempo/go.mod's TraceQL grammar takes
// (participle is also the library that pack manifest carries). The token
// taxonomy — NUMBER, STRING, BODY_NAME/VAR_NAME-equivalent identifier,
// operators, keywords — mirrors
// other_examples/326c329e_jcom-dev-zmanim__api-internal-dsl-token.go.go's
// hand-rolled token kinds, here expressed as participle lexer rules instead
// of a manual scanner.
package dsl

// Program is the full parse of one REPL line (or config/script buffer):
// zero or more statements separated by ";".
type Program struct {
	Statements []*Statement `( @@ ( ";" @@ )* )? ";"?`
}

// Statement is one of the three forms spec §4.1 names.
type Statement struct {
	If     *IfStatement `  @@`
	Assign *Assignment  `| @@`
	Expr   *Expr        `| @@`
}

// Assignment is `name = expr`; whether name routes to the variable or body
// slot is decided by the initial letter's case when the evaluator runs it,
// not by the grammar (spec §4.1's VAR_NAME/BODY_NAME are the same lexical
// token, distinguished by convention).
type Assignment struct {
	Name  string `@Ident "="`
	Value *Expr  `@@`
}

// IfStatement is `IF expr THEN block [ELSE block] ENDIF`.
type IfStatement struct {
	Cond *Expr  `"IF" @@ "THEN"`
	Then *Block `@@`
	Else *Block `( "ELSE" @@ )?`
	End  string `"ENDIF"`
}

// Block is a `;`-separated run of statements, used for IF/THEN/ELSE
// bodies; the evaluator's result for a block is its last statement's value.
type Block struct {
	Statements []*Statement `@@ ( ";" @@ )*`
}

// Expr is the OR level, the loosest-binding expression production and the
// entry point for every expression context in the grammar.
type Expr struct {
	Left *AndExpr   `@@`
	Rest []*OrRest  `@@*`
}

type OrRest struct {
	Op    string   `@"OR"`
	Right *AndExpr `@@`
}

// AndExpr is the AND level.
type AndExpr struct {
	Left *NotExpr   `@@`
	Rest []*AndRest `@@*`
}

type AndRest struct {
	Op    string   `@"AND"`
	Right *NotExpr `@@`
}

// NotExpr is zero or more unary NOTs applied to a comparison.
type NotExpr struct {
	Nots []string        `@"NOT"*`
	Cmp  *ComparisonExpr `@@`
}

// ComparisonExpr is non-associative: at most one comparison operator.
type ComparisonExpr struct {
	Left  *ArrowExpr `@@`
	Op    *string    `( @( ">" | "<" | "==" | "!=" )`
	Right *ArrowExpr `  @@ )?`
}

// ArrowExpr is the left-associative `->` chain; spec §4.1's constraint
// that `Sun -> Observer -> Moon` parses as `((Sun -> Observer) -> Moon)`
// falls directly out of this left-recursive-via-iteration shape.
type ArrowExpr struct {
	Left *AddExpr    `@@`
	Rest []*ArrowRest `@@*`
}

type ArrowRest struct {
	Arrow string   `@"->"`
	Right *AddExpr `@@`
}

// AddExpr is `+`/`-`, left-associative.
type AddExpr struct {
	Left *MulExpr  `@@`
	Rest []*AddRest `@@*`
}

type AddRest struct {
	Op    string   `@("+" | "-")`
	Right *MulExpr `@@`
}

// MulExpr is `*`/`/`, left-associative.
type MulExpr struct {
	Left *PowExpr  `@@`
	Rest []*MulRest `@@*`
}

type MulRest struct {
	Op    string   `@("*" | "/")`
	Right *PowExpr `@@`
}

// PowExpr is `^`, right-associative: the recursive Right field, rather
// than a Rest slice, is what makes it bind right instead of left.
type PowExpr struct {
	Left  *UnaryExpr `@@`
	Op    *string    `( @"^"`
	Right *PowExpr   `  @@ )?`
}

// UnaryExpr is an optional leading unary minus over a Primary.
type UnaryExpr struct {
	Neg     bool     `@"-"?`
	Primary *Primary `@@`
}

// Primary is a number, string, parenthesised expression, or identifier
// reference (bare load, dot access, or call).
type Primary struct {
	Number *float64   `  @Number`
	Str    *string    `| @String`
	Paren  *Expr      `| "(" @@ ")"`
	Ref    *Reference `| @@`
}

// Reference is an identifier, optionally followed by a call's parenthesised
// argument list or a single dot-access attribute. Call being non-nil (even
// with zero Args) is what distinguishes `Now()` from the bare name `Now`.
type Reference struct {
	Name string    `@Ident`
	Call *CallArgs `( @@`
	Dot  *string   `| "." @Ident )?`
}

// CallArgs is a parenthesised, comma-separated argument list.
type CallArgs struct {
	Args []*Expr `"(" ( @@ ( "," @@ )* )? ")"`
}
