package lessthan

import (
	"go/token"
	"go/types"

	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/analysis/flow"
	L "github.com/cs-au-dk/dflow/analysis/lattice"
	"github.com/cs-au-dk/dflow/analysis/offset"
)

// Transfer is the transfer function of the less-than analysis.
type Transfer struct{}

var _ flow.TransferFunction[Store] = Transfer{}

// InitialStore records the declared facts of the parameters.
func (Transfer) InitialStore(_ *cfg.Cfg, params []*cfg.Param) Store {
	s := EmptyStore()
	for _, p := range params {
		if len(p.LessThan) == 0 {
			continue
		}
		exprs := make([]string, 0, len(p.LessThan))
		for _, e := range p.LessThan {
			exprs = append(exprs, offset.Canonical(e))
		}
		s = s.Set(p.Name, L.FromExpressions(exprs))
	}
	return s
}

func (t Transfer) Apply(n cfg.Node, in Store) flow.TransferResult[Store] {
	switch n := n.(type) {
	case *cfg.Assign:
		return flow.Regular(assign(in, n.Target, n.ValueString()))
	case *cfg.Compare:
		then, els := refine(in, n)
		return flow.Conditional(then, els)
	case *cfg.Call:
		out := in
		if n.Target != "" {
			out = kill(in, n.Target)
		}
		res := flow.Regular(out)
		// Calls throw before the result is stored.
		if b := n.Block(); b != nil {
			for _, kind := range b.ExceptionalKinds() {
				res = res.WithExceptional(kind, in)
			}
		}
		return res
	}
	return flow.Regular(in)
}

// kill forgets every fact about the variable x, including facts about
// expressions mentioning x.
func kill(s Store, x string) Store {
	res := s
	s.ForEach(func(expr string, q L.Qualifier) {
		if offset.Mentions(expr, x) {
			res = res.Set(expr, L.Unknown())
			return
		}
		res = res.Set(expr, q.Remove(func(e string) bool {
			return offset.Mentions(e, x)
		}))
	})
	return res
}

// lessThan records a < b, along with the facts implied by the facts
// already known about a and b: a is below everything b is below, and
// everything below a is below b.
func lessThan(s Store, a, b string) Store {
	if a == b {
		return s
	}

	above := []string{b}
	if exprs, ok := s.Get(b).Expressions(); ok {
		above = append(above, exprs...)
	}
	res := s.Update(a, func(q L.Qualifier) L.Qualifier {
		if q.IsTop() {
			return L.FromExpressions(above)
		}
		return q.Add(above...)
	})

	s.ForEach(func(expr string, q L.Qualifier) {
		if expr != a && expr != b && !q.IsBot() && q.Contains(a) {
			res = res.Update(expr, func(q L.Qualifier) L.Qualifier {
				return q.Add(b)
			})
		}
	})
	return res
}

// shifted renders base + k canonically.
func shifted(base string, k int64) (string, bool) {
	eq, err := offset.Parse(base)
	if err != nil {
		return "", false
	}
	eq, ok := eq.Add(k)
	return eq.String(), ok
}

// assign computes the effect of x = e.
func assign(in Store, x, e string) Store {
	out := kill(in, x)

	eq, err := offset.Parse(e)
	if err != nil || eq.IsConstant() {
		return out
	}
	y, k := eq.Base(), eq.Offset()
	if offset.Mentions(y, x) {
		// Facts relating x to its previous value cannot be expressed.
		return out
	}

	switch {
	case k < 0:
		// x = y + k < y + k + 1 <= y
		out = lessThan(out, x, y)
		if k < -1 {
			if bound, ok := shifted(y, k+1); ok {
				out = lessThan(out, x, bound)
			}
		}
	case k == 0:
		// x is y: x shares y's facts and is below whatever y is below.
		if exprs, ok := out.Get(y).Expressions(); ok && len(exprs) > 0 {
			out = out.Set(x, L.FromExpressions(exprs))
		} else if !ok {
			out = out.Set(x, L.Bottom())
		}
		if bound, ok := shifted(y, 1); ok {
			out = out.Update(x, func(q L.Qualifier) L.Qualifier {
				if q.IsTop() {
					return L.FromExpression(bound)
				}
				return q.Add(bound)
			})
		}
		out.ForEach(func(expr string, q L.Qualifier) {
			if expr != x && !q.IsBot() && q.Contains(y) {
				out = out.Update(expr, func(q L.Qualifier) L.Qualifier {
					return q.Add(x)
				})
			}
		})
	case k > 0:
		// y <= x - 1 < x
		out = lessThan(out, y, x)
		if k > 1 {
			if below, ok := shifted(y, k-1); ok {
				out = lessThan(out, below, x)
			}
		}
	}
	return out
}

// refine computes the stores on the then and else branches of a
// comparison.
func refine(in Store, n *cfg.Compare) (then, els Store) {
	l := offset.Canonical(types.ExprString(n.Left))
	r := offset.Canonical(types.ExprString(n.Right))

	// holds refines s with the knowledge that `l op r` holds.
	holds := func(s Store, op token.Token) Store {
		switch op {
		case token.LSS:
			return lessThan(s, l, r)
		case token.GTR:
			return lessThan(s, r, l)
		case token.LEQ:
			if bound, ok := shifted(r, 1); ok {
				return lessThan(s, l, bound)
			}
		case token.GEQ:
			if bound, ok := shifted(l, 1); ok {
				return lessThan(s, r, bound)
			}
		case token.EQL:
			ql, qr := s.Get(l), s.Get(r)
			m := ql.MonoMeet(qr)
			return s.Set(l, m).Set(r, m)
		}
		return s
	}

	return holds(in, n.Op), holds(in, n.Negate())
}
