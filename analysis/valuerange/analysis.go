package valuerange

import (
	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/analysis/flow"
	L "github.com/cs-au-dk/dflow/analysis/lattice"
	"github.com/cs-au-dk/dflow/analysis/lessthan"
	"github.com/cs-au-dk/dflow/config"
)

// Result holds the values of a routine's variables at the fixpoint. It
// serves as the numeric oracle of the less-than checker.
type Result struct {
	*flow.Result[Store]
	dom Domain
}

var _ lessthan.Oracle = (*Result)(nil)

// Analyze runs the value-range analysis over g.
func Analyze(g *cfg.Cfg, conf config.ValueRangeConfig) *Result {
	dom := NewDomain(conf)
	return &Result{
		Result: flow.New[Store]("value-range", Transfer{dom}).Run(g),
		dom:    dom,
	}
}

// StoreAt returns the values right before the node at. A nil node denotes
// the normal exit of the routine.
func (r *Result) StoreAt(at cfg.Node) (Store, bool) {
	if at == nil {
		return r.StoreBefore(r.Graph().Exit())
	}
	return r.StoreBeforeNode(at)
}

// ValueAt evaluates expr right before at. It fails at unreachable points
// and for expressions that are not valid Go.
func (r *Result) ValueAt(expr string, at cfg.Node) (Value, bool) {
	s, ok := r.StoreAt(at)
	if !ok {
		return Value{}, false
	}
	return r.dom.EvalString(expr, s)
}

// Range reports the interval of expr when its values are not enumerated.
func (r *Result) Range(expr string, at cfg.Node) (L.Interval, bool) {
	v, ok := r.ValueAt(expr, at)
	if !ok || v.IsTop() || v.IsBot() {
		return L.Interval{}, false
	}
	if _, enumerated := v.Enumerated(); enumerated {
		return L.Interval{}, false
	}
	return v.Interval(), true
}

// Values reports the possible values of expr when they are enumerated.
func (r *Result) Values(expr string, at cfg.Node) (L.IntValues, bool) {
	v, ok := r.ValueAt(expr, at)
	if !ok {
		return L.IntValues{}, false
	}
	vals, enumerated := v.Enumerated()
	if !enumerated || vals.Size() == 0 {
		return L.IntValues{}, false
	}
	return vals, true
}
