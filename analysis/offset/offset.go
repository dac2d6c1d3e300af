// Package offset normalizes integer expressions into offset equations of
// the form `expr + k`, where k is a constant, or a plain constant.
package offset

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"math"
	"strconv"

	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/ast/astutil"
)

// ErrNotReducible is returned for text that is not an integer expression.
var ErrNotReducible = errors.New("cannot reduce to an offset equation")

// Equation is either a constant, or a non-constant base expression plus a
// constant offset.
type Equation struct {
	// base is the canonical text of the non-constant part. It is empty for
	// constants.
	base   string
	offset int64
}

// Constant creates the equation for the integer k.
func Constant(k int64) Equation {
	return Equation{offset: k}
}

// Parse reduces an expression written in Go syntax to an offset equation.
// Integer literals anywhere in the top-level sum are folded into the
// offset, so `1 + x + 2` becomes `x + 3`.
func Parse(text string) (Equation, error) {
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return Equation{}, fmt.Errorf("%w: %q: %v", ErrNotReducible, text, err)
	}

	var (
		terms  []term
		offset int64
	)
	var collect func(e ast.Expr, neg bool) error
	collect = func(e ast.Expr, neg bool) error {
		e = astutil.Unparen(e)
		switch e := e.(type) {
		case *ast.BinaryExpr:
			switch e.Op {
			case token.ADD, token.SUB:
				if err := collect(e.X, neg); err != nil {
					return err
				}
				return collect(e.Y, neg != (e.Op == token.SUB))
			}
		case *ast.UnaryExpr:
			switch e.Op {
			case token.SUB:
				return collect(e.X, !neg)
			case token.ADD:
				return collect(e.X, neg)
			}
		case *ast.BasicLit:
			if e.Kind != token.INT {
				return fmt.Errorf("%s is not an integer", e.Value)
			}
			v, err := strconv.ParseInt(e.Value, 0, 64)
			if err != nil {
				return err
			}
			if neg {
				if v == math.MinInt64 {
					return errOverflow
				}
				v = -v
			}
			sum, ok := add(offset, v)
			if !ok {
				return errOverflow
			}
			offset = sum
			return nil
		}
		terms = append(terms, term{e, neg})
		return nil
	}

	if err := collect(expr, false); err != nil {
		return Equation{}, fmt.Errorf("%w: %q: %v", ErrNotReducible, text, err)
	}
	if len(terms) == 0 {
		return Constant(offset), nil
	}

	return Equation{base: types.ExprString(rebuild(terms)), offset: offset}, nil
}

// MustParse is like Parse but panics on failure.
func MustParse(text string) Equation {
	eq, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return eq
}

var errOverflow = errors.New("integer overflow")

type term struct {
	expr ast.Expr
	neg  bool
}

// rebuild turns the non-constant terms back into a sum, keeping their
// order.
func rebuild(terms []term) ast.Expr {
	var res ast.Expr
	for _, t := range terms {
		x := t.expr
		if bin, ok := x.(*ast.BinaryExpr); ok {
			first := res == nil
			if first && t.neg || !first && bin.Op.Precedence() <= token.ADD.Precedence() {
				x = &ast.ParenExpr{X: x}
			}
		}
		switch {
		case res == nil && t.neg:
			res = &ast.UnaryExpr{Op: token.SUB, X: x}
		case res == nil:
			res = x
		case t.neg:
			res = &ast.BinaryExpr{X: res, Op: token.SUB, Y: x}
		default:
			res = &ast.BinaryExpr{X: res, Op: token.ADD, Y: x}
		}
	}
	return res
}

func add(a, b int64) (int64, bool) {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return 0, false
	case b < 0 && a < math.MinInt64-b:
		return 0, false
	}
	return a + b, true
}

// IsConstant reports whether the equation has no base expression.
func (eq Equation) IsConstant() bool {
	return eq.base == ""
}

// Base is the canonical text of the non-constant part, or "" for constants.
func (eq Equation) Base() string {
	return eq.base
}

// Offset is the constant part.
func (eq Equation) Offset() int64 {
	return eq.offset
}

// Add shifts the offset by k. It fails on overflow.
func (eq Equation) Add(k int64) (Equation, bool) {
	sum, ok := add(eq.offset, k)
	if !ok {
		return eq, false
	}
	eq.offset = sum
	return eq, true
}

// String renders the equation in canonical form: `k`, `e`, `e + k` or
// `e - k`.
func (eq Equation) String() string {
	switch {
	case eq.base == "":
		return strconv.FormatInt(eq.offset, 10)
	case eq.offset == 0:
		return eq.base
	case eq.offset < 0 && eq.offset != math.MinInt64:
		return eq.base + " - " + strconv.FormatInt(-eq.offset, 10)
	}
	return eq.base + " + " + strconv.FormatInt(eq.offset, 10)
}

// Canonical parses text and renders it in canonical form. Text that does
// not parse is returned unchanged.
func Canonical(text string) string {
	eq, err := Parse(text)
	if err != nil {
		return text
	}
	return eq.String()
}

// Identifiers returns the sorted variable names occurring in text. Names
// of called functions and selected fields are not variables.
func Identifiers(text string) ([]string, error) {
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrNotReducible, text, err)
	}

	skip := make(map[*ast.Ident]bool)
	var ids []string
	ast.Inspect(expr, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.CallExpr:
			if id, ok := n.Fun.(*ast.Ident); ok {
				skip[id] = true
			}
		case *ast.SelectorExpr:
			skip[n.Sel] = true
		case *ast.Ident:
			if !skip[n] {
				ids = append(ids, n.Name)
			}
		}
		return true
	})

	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// Mentions reports whether text refers to the variable name.
func Mentions(text, name string) bool {
	ids, err := Identifiers(text)
	if err != nil {
		return text == name
	}
	_, found := slices.BinarySearch(ids, name)
	return found
}
