package dsl

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/tendosso/sso/internal/errs"
)

var sessionParser = participle.MustBuild(
	&Program{},
	participle.Lexer(sessionLexer),
	participle.Map(unquoteStringToken, "String"),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(4),
)

// unquoteStringToken strips the surrounding quote and decodes escapes for
// both "double" and 'single' quoted String tokens (spec §4.1 allows
// either). strconv.Unquote rejects multi-character 'single' literals
// outright (it treats a single-quoted string as a Go rune literal), so
// this walks the body with strconv.UnquoteChar instead, which only cares
// which quote character needs escaping and has no such length limit.
func unquoteStringToken(t lexer.Token) (lexer.Token, error) {
	raw := t.Value
	if len(raw) < 2 {
		return t, errs.New(errs.Parse, "dsl", "malformed string literal: "+raw)
	}
	quote := raw[0]
	body := raw[1 : len(raw)-1]

	var out strings.Builder
	for len(body) > 0 {
		c, multibyte, rest, err := strconv.UnquoteChar(body, quote)
		if err != nil {
			return t, errs.Wrap(errs.Parse, "dsl", "invalid string literal", err)
		}
		if multibyte {
			out.WriteRune(c)
		} else {
			out.WriteByte(byte(c))
		}
		body = rest
	}

	t.Value = out.String()
	return t, nil
}

// Parse compiles one line (or `;`-separated group of statements) of session
// input into a Program. Parse errors are wrapped as errs.Parse so the REPL
// driver's error-kind dispatch (spec §7) can recognise them uniformly.
func Parse(source string) (*Program, error) {
	prog := &Program{}
	if err := sessionParser.ParseString("", source, prog); err != nil {
		return nil, errs.Wrap(errs.Parse, "dsl", "parse", err)
	}
	return prog, nil
}
