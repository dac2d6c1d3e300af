// Package lessthan implements the less-than analysis, which tracks for
// every expression the set of expressions it is strictly smaller than,
// and the procedures deciding inequalities from those facts and from a
// numeric range oracle.
package lessthan

import (
	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/analysis/flow"
	L "github.com/cs-au-dk/dflow/analysis/lattice"
	"github.com/cs-au-dk/dflow/analysis/offset"
)

var analysis = flow.New[Store]("less-than", Transfer{})

// Result holds the less-than facts of a routine at the fixpoint.
type Result struct {
	*flow.Result[Store]
}

// Analyze runs the less-than analysis over g.
func Analyze(g *cfg.Cfg) *Result {
	return &Result{analysis.Run(g)}
}

// StoreAt returns the facts right before the node at. A nil node denotes
// the normal exit of the routine.
func (r *Result) StoreAt(at cfg.Node) (Store, bool) {
	if at == nil {
		return r.StoreBefore(r.Graph().Exit())
	}
	return r.StoreBeforeNode(at)
}

// Qualifiers returns the qualifiers attached to expr right before at.
// Expressions at unreachable points are Bottom.
func (r *Result) Qualifiers(expr string, at cfg.Node) []L.Qualifier {
	s, ok := r.StoreAt(at)
	if !ok {
		return []L.Qualifier{L.Bottom()}
	}
	return []L.Qualifier{s.Get(offset.Canonical(expr))}
}
