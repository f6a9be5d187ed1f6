// Package eval implements the tree-walking evaluator (spec §4.8, C9): it
// visits the AST internal/dsl parses, resolving literals and variable/body
// loads through internal/env, doing arithmetic/logical/comparison work
// itself, and delegating every arrow node to internal/dispatch.
//
// Grounded on original_source/sso/interpreter.py's Lark Interpreter
// subclass (one visit method per grammar rule) and classes.py's
// SSOCalculator, generalized from Lark's dynamically-typed tree visiting
// into a typed switch over internal/dsl's participle AST nodes.
package eval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"

	"github.com/tendosso/sso/internal/dispatch"
	"github.com/tendosso/sso/internal/dsl"
	"github.com/tendosso/sso/internal/env"
	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/value"
)

// Evaluator walks one Program at a time against a shared Environment.
type Evaluator struct {
	Env        *env.Environment
	Dispatcher *dispatch.Dispatcher
	Out        io.Writer
	In         *bufio.Reader
}

// New builds an Evaluator. in may be nil if the session never needs the
// interactive-prompt fallback of a no-argument Date()/Observer() call.
func New(e *env.Environment, d *dispatch.Dispatcher, out io.Writer, in *bufio.Reader) *Evaluator {
	return &Evaluator{Env: e, Dispatcher: d, Out: out, In: in}
}

// Run evaluates every top-level statement in prog in order, resetting
// observer_hints before each one (spec §4.8's per-statement reset), and
// stops at the first error, returning the value of the last statement that
// evaluated successfully.
func (ev *Evaluator) Run(prog *dsl.Program) (value.Value, error) {
	var last value.Value = value.Number(0)
	for _, s := range prog.Statements {
		ev.Env.ResetHints()
		v, err := ev.evalStatement(s)
		if err != nil {
			return last, err
		}
		last = v
	}
	return last, nil
}

func (ev *Evaluator) evalBlock(b *dsl.Block) (value.Value, error) {
	var last value.Value = value.Number(0)
	for _, s := range b.Statements {
		v, err := ev.evalStatement(s)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (ev *Evaluator) evalStatement(s *dsl.Statement) (value.Value, error) {
	switch {
	case s.If != nil:
		return ev.evalIf(s.If)
	case s.Assign != nil:
		return ev.evalAssign(s.Assign)
	default:
		return ev.evalExpr(s.Expr)
	}
}

func (ev *Evaluator) evalIf(n *dsl.IfStatement) (value.Value, error) {
	cond, err := ev.evalExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return ev.evalBlock(n.Then)
	}
	if n.Else != nil {
		return ev.evalBlock(n.Else)
	}
	return value.Number(0), nil
}

// evalAssign routes by the initial letter's case, per spec §4.1's
// VAR_NAME/BODY_NAME convention: lowercase goes to the variable slot
// unconditionally, uppercase goes through set_body's env-key/reserved-name
// policy.
func (ev *Evaluator) evalAssign(n *dsl.Assignment) (value.Value, error) {
	v, err := ev.evalExpr(n.Value)
	if err != nil {
		return nil, err
	}
	if isUpperInitial(n.Name) {
		if err := ev.Env.SetBody(n.Name, v); err != nil {
			return nil, err
		}
		return v, nil
	}
	ev.Env.SetVariable(n.Name, v)
	return v, nil
}

func isUpperInitial(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}

// truthy is the evaluator's general-purpose condition test: a Number uses
// its own 0/non-zero rule (spec §4.8); every other Value is unconditionally
// true, since only numeric literals and comparisons are meant to gate an
// IF in this DSL.
func truthy(v value.Value) bool {
	if n, ok := v.(value.Number); ok {
		return n.Truthy()
	}
	return v != nil
}

func (ev *Evaluator) evalExpr(n *dsl.Expr) (value.Value, error) {
	left, err := ev.evalAnd(n.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		right, err := ev.evalAnd(r.Right)
		if err != nil {
			return nil, err
		}
		left = value.Bool(truthy(left) || truthy(right))
	}
	return left, nil
}

func (ev *Evaluator) evalAnd(n *dsl.AndExpr) (value.Value, error) {
	left, err := ev.evalNot(n.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		right, err := ev.evalNot(r.Right)
		if err != nil {
			return nil, err
		}
		left = value.Bool(truthy(left) && truthy(right))
	}
	return left, nil
}

func (ev *Evaluator) evalNot(n *dsl.NotExpr) (value.Value, error) {
	v, err := ev.evalComparison(n.Cmp)
	if err != nil {
		return nil, err
	}
	if len(n.Nots) == 0 {
		return v, nil
	}
	result := truthy(v)
	for range n.Nots {
		result = !result
	}
	return value.Bool(result), nil
}

func (ev *Evaluator) evalComparison(n *dsl.ComparisonExpr) (value.Value, error) {
	left, err := ev.evalArrow(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Op == nil {
		return left, nil
	}
	right, err := ev.evalArrow(n.Right)
	if err != nil {
		return nil, err
	}
	return compare(*n.Op, left, right)
}

// evalArrow walks the left-associative `->` chain, calling the dispatcher
// once per arrow and feeding its result back in as the next left operand.
// Attempting to continue a chain past a terminal result (anything other
// than the Sun -> Observer shape) is rejected here with "Invalid arrow
// operation".
func (ev *Evaluator) evalArrow(n *dsl.ArrowExpr) (value.Value, error) {
	left, err := ev.evalAdd(n.Left)
	if err != nil {
		return nil, err
	}
	terminal := false
	for _, r := range n.Rest {
		if terminal {
			return nil, errs.New(errs.TypeMismatch, "eval", "Invalid arrow operation")
		}
		right, err := ev.evalAdd(r.Right)
		if err != nil {
			return nil, err
		}
		result, term, err := ev.Dispatcher.Dispatch(context.Background(), left, right)
		if err != nil {
			return nil, err
		}
		left = result
		terminal = term
	}
	return left, nil
}

func (ev *Evaluator) evalAdd(n *dsl.AddExpr) (value.Value, error) {
	left, err := ev.evalMul(n.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		right, err := ev.evalMul(r.Right)
		if err != nil {
			return nil, err
		}
		a, aok := left.(value.Number)
		b, bok := right.(value.Number)
		if !aok || !bok {
			return nil, errs.New(errs.TypeMismatch, "eval", r.Op+" requires two Numbers")
		}
		if r.Op == "+" {
			left = a + b
		} else {
			left = a - b
		}
	}
	return left, nil
}

func (ev *Evaluator) evalMul(n *dsl.MulExpr) (value.Value, error) {
	left, err := ev.evalPow(n.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range n.Rest {
		right, err := ev.evalPow(r.Right)
		if err != nil {
			return nil, err
		}
		a, aok := left.(value.Number)
		b, bok := right.(value.Number)
		if !aok || !bok {
			return nil, errs.New(errs.TypeMismatch, "eval", r.Op+" requires two Numbers")
		}
		if r.Op == "*" {
			left = a * b
		} else {
			left = value.Number(float64(a) / float64(b))
		}
	}
	return left, nil
}

func (ev *Evaluator) evalPow(n *dsl.PowExpr) (value.Value, error) {
	left, err := ev.evalUnary(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Op == nil {
		return left, nil
	}
	right, err := ev.evalPow(n.Right)
	if err != nil {
		return nil, err
	}
	a, aok := left.(value.Number)
	b, bok := right.(value.Number)
	if !aok || !bok {
		return nil, errs.New(errs.TypeMismatch, "eval", "^ requires two Numbers")
	}
	return value.Number(math.Pow(float64(a), float64(b))), nil
}

func (ev *Evaluator) evalUnary(n *dsl.UnaryExpr) (value.Value, error) {
	v, err := ev.evalPrimary(n.Primary)
	if err != nil {
		return nil, err
	}
	if !n.Neg {
		return v, nil
	}
	num, ok := v.(value.Number)
	if !ok {
		return nil, errs.New(errs.TypeMismatch, "eval", "unary - requires a Number")
	}
	return -num, nil
}

func (ev *Evaluator) evalPrimary(n *dsl.Primary) (value.Value, error) {
	switch {
	case n.Number != nil:
		return value.Number(*n.Number), nil
	case n.Str != nil:
		return value.String(*n.Str), nil
	case n.Paren != nil:
		return ev.evalExpr(n.Paren)
	default:
		return ev.evalReference(n.Ref)
	}
}

func (ev *Evaluator) evalReference(ref *dsl.Reference) (value.Value, error) {
	if ref.Call != nil {
		return ev.evalCall(ref)
	}
	base, err := ev.loadName(ref.Name)
	if err != nil {
		return nil, err
	}
	if ref.Dot != nil {
		return attrGet(base, *ref.Dot), nil
	}
	return base, nil
}

// loadName routes a bare identifier to get_variable or get_body by its
// initial letter's case, per spec §4.2.
func (ev *Evaluator) loadName(name string) (value.Value, error) {
	if isUpperInitial(name) {
		return ev.Env.GetBody(name)
	}
	return ev.Env.GetVariable(name), nil
}

func compare(op string, l, r value.Value) (value.Value, error) {
	switch a := l.(type) {
	case value.Number:
		b, ok := r.(value.Number)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, "eval", "cannot compare Number with "+r.Kind().String())
		}
		switch op {
		case ">":
			return value.Bool(a > b), nil
		case "<":
			return value.Bool(a < b), nil
		case "==":
			return value.Bool(a == b), nil
		case "!=":
			return value.Bool(a != b), nil
		}
	case value.String:
		b, ok := r.(value.String)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, "eval", "cannot compare String with "+r.Kind().String())
		}
		switch op {
		case "==":
			return value.Bool(a == b), nil
		case "!=":
			return value.Bool(a != b), nil
		case "<":
			return value.Bool(a < b), nil
		case ">":
			return value.Bool(a > b), nil
		}
	case value.Date:
		b, ok := r.(value.Date)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, "eval", "cannot compare Date with "+r.Kind().String())
		}
		switch op {
		case ">":
			return value.Bool(a.Instant.After(b.Instant)), nil
		case "<":
			return value.Bool(a.Instant.Before(b.Instant)), nil
		case "==":
			return value.Bool(a.Instant.Equal(b.Instant)), nil
		case "!=":
			return value.Bool(!a.Instant.Equal(b.Instant)), nil
		}
	}
	return nil, errs.New(errs.TypeMismatch, "eval", "unsupported comparison operand types")
}

// attrGet implements spec §4.8's dot access: a known attribute name reads
// the corresponding field, an unrecognised one returns Number(0).
func attrGet(v value.Value, attr string) value.Value {
	switch t := v.(type) {
	case value.Body:
		st := t.State
		switch attr {
		case "altitude":
			return value.Number(st.Altitude)
		case "azimuth":
			return value.Number(st.Azimuth)
		case "distance":
			return value.Number(st.EarthDistance)
		case "phase":
			return value.Number(st.Phase)
		case "age":
			return value.Number(st.Age)
		case "illumination":
			return value.Number(st.Illumination)
		case "diameter":
			if t.Kind == value.BodySun {
				return value.Number(st.DiameterDeg)
			}
			return value.Number(st.DiameterArcmin)
		case "magnitude":
			return value.Number(st.Magnitude)
		case "constellation":
			return value.String(st.Constellation)
		case "name":
			return value.String(t.String())
		}
	case value.Observer:
		switch attr {
		case "lat":
			return value.Number(t.Lat)
		case "lon":
			return value.Number(t.Lon)
		case "elev":
			return value.Number(t.Elevation)
		case "name":
			return value.String(t.Name)
		}
	case value.Date:
		switch attr {
		case "year":
			return value.Number(float64(t.Instant.Year()))
		case "month":
			return value.Number(float64(t.Instant.Month()))
		case "day":
			return value.Number(float64(t.Instant.Day()))
		case "hour":
			return value.Number(float64(t.Instant.Hour()))
		case "minute":
			return value.Number(float64(t.Instant.Minute()))
		case "second":
			return value.Number(float64(t.Instant.Second()))
		}
	case value.EclipseResult:
		if attr == "count" {
			return value.Number(float64(len(t.Events)))
		}
	}
	return value.Number(0)
}

// prompt reads one interactive line for a no-argument constructor call,
// mirroring interpreter.py's input()-based fallback for Date()/Observer().
func (ev *Evaluator) prompt(label string) (string, error) {
	if ev.In == nil {
		return "", errs.New(errs.Parse, "eval", "no interactive input available for "+label)
	}
	fmt.Fprint(ev.Out, label)
	line, err := ev.In.ReadString('\n')
	if err != nil && line == "" {
		return "", errs.Wrap(errs.Parse, "eval", "reading "+label, err)
	}
	return strings.TrimSpace(line), nil
}
