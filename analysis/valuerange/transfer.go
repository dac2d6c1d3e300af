package valuerange

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"

	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/analysis/flow"
	L "github.com/cs-au-dk/dflow/analysis/lattice"

	"golang.org/x/tools/go/ast/astutil"
)

// Transfer is the transfer function of the value-range analysis.
type Transfer struct {
	dom Domain
}

var _ flow.TransferFunction[Store] = Transfer{}

// Parameters may have any value.
func (t Transfer) InitialStore(*cfg.Cfg, []*cfg.Param) Store {
	return t.dom.EmptyStore()
}

func (t Transfer) Apply(n cfg.Node, in Store) flow.TransferResult[Store] {
	switch n := n.(type) {
	case *cfg.Assign:
		return flow.Regular(in.Set(n.Target, t.dom.Eval(n.Value, in)))
	case *cfg.Compare:
		return flow.Conditional(
			t.refine(in, n.Left, n.Op, n.Right),
			t.refine(in, n.Left, n.Negate(), n.Right),
		)
	case *cfg.Call:
		res := flow.Regular(in)
		if n.Target != "" {
			res = flow.Regular(in.Set(n.Target, t.dom.Top()))
		}
		if b := n.Block(); b != nil {
			for _, kind := range b.ExceptionalKinds() {
				res = res.WithExceptional(kind, in)
			}
		}
		return res
	}
	return flow.Regular(in)
}

// Eval computes the value of e in s. Unsupported expressions may have any
// value.
func (d Domain) Eval(e ast.Expr, s Store) Value {
	switch e := astutil.Unparen(e).(type) {
	case *ast.Ident:
		return s.Get(e.Name)
	case *ast.BasicLit:
		if e.Kind != token.INT {
			break
		}
		if k, err := strconv.ParseInt(e.Value, 0, 64); err == nil {
			return d.Const(k)
		}
	case *ast.UnaryExpr:
		switch e.Op {
		case token.ADD:
			return d.Eval(e.X, s)
		case token.SUB:
			return d.Neg(d.Eval(e.X, s))
		}
	case *ast.BinaryExpr:
		switch e.Op {
		case token.ADD:
			return d.Add(d.Eval(e.X, s), d.Eval(e.Y, s))
		case token.SUB:
			return d.Sub(d.Eval(e.X, s), d.Eval(e.Y, s))
		case token.MUL:
			return d.Mul(d.Eval(e.X, s), d.Eval(e.Y, s))
		}
	case *ast.CallExpr:
		if id, ok := e.Fun.(*ast.Ident); ok && (id.Name == "len" || id.Name == "cap") {
			return d.Range(elements.Interval(L.FiniteBound(0), L.PlusInfinity{}))
		}
	}
	return d.Top()
}

// EvalString evaluates an expression given as text.
func (d Domain) EvalString(expr string, s Store) (Value, bool) {
	e, err := parser.ParseExpr(expr)
	if err != nil {
		return Value{}, false
	}
	return d.Eval(e, s), true
}

// refine restricts the variables of l op r to the values for which the
// comparison holds.
func (t Transfer) refine(s Store, l ast.Expr, op token.Token, r ast.Expr) Store {
	d := t.dom
	vl, vr := d.Eval(l, s), d.Eval(r, s)

	set := func(s Store, e ast.Expr, v Value) Store {
		if id, ok := astutil.Unparen(e).(*ast.Ident); ok {
			return s.Set(id.Name, v)
		}
		return s
	}
	below := func(b L.IntervalBound) L.Interval {
		return elements.Interval(L.MinusInfinity{}, b)
	}
	above := func(b L.IntervalBound) L.Interval {
		return elements.Interval(b, L.PlusInfinity{})
	}
	one, minusOne := L.FiniteBound(1), L.FiniteBound(-1)

	switch op {
	case token.GTR:
		return t.refine(s, r, token.LSS, l)
	case token.GEQ:
		return t.refine(s, r, token.LEQ, l)
	case token.LSS:
		if vl.IsBot() || vr.IsBot() {
			return s
		}
		s = set(s, l, d.MeetRange(vl, below(vr.Interval().HighBound().Plus(minusOne))))
		return set(s, r, d.MeetRange(vr, above(vl.Interval().LowBound().Plus(one))))
	case token.LEQ:
		if vl.IsBot() || vr.IsBot() {
			return s
		}
		s = set(s, l, d.MeetRange(vl, below(vr.Interval().HighBound())))
		return set(s, r, d.MeetRange(vr, above(vl.Interval().LowBound())))
	case token.EQL:
		return set(set(s, l, d.Meet(vl, vr)), r, d.Meet(vr, vl))
	case token.NEQ:
		if vals, ok := vr.Enumerated(); ok && vals.Size() == 1 {
			k, _ := vals.Min()
			s = set(s, l, d.Exclude(vl, k))
		}
		if vals, ok := vl.Enumerated(); ok && vals.Size() == 1 {
			k, _ := vals.Min()
			s = set(s, r, d.Exclude(vr, k))
		}
	}
	return s
}
