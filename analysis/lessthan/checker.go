package lessthan

import (
	"math"

	"github.com/cs-au-dk/dflow/analysis/cfg"
	L "github.com/cs-au-dk/dflow/analysis/lattice"
	"github.com/cs-au-dk/dflow/analysis/offset"
)

// Oracle answers numeric questions about integer expressions right before
// a node. Implementations must be safe for concurrent reads.
type Oracle interface {
	// Range returns an interval containing every value of expr.
	Range(expr string, at cfg.Node) (L.Interval, bool)
	// Values returns the finite set of possible values of expr.
	Values(expr string, at cfg.Node) (L.IntValues, bool)
}

// Facts provides the qualifiers attached to an expression.
type Facts interface {
	Qualifiers(expr string, at cfg.Node) []L.Qualifier
}

// IsLessThan decides expr < target from the qualifiers attached to expr.
// Only direct membership is considered; facts are not chained. Unless
// exactly one qualifier is attached the answer is false.
func IsLessThan(quals []L.Qualifier, target string) bool {
	if len(quals) != 1 {
		return false
	}
	q := quals[0]
	return q.IsBot() || q.Contains(target) || q.Contains(offset.Canonical(target))
}

// IsLessThanOrEqual decides expr <= target. In addition to expr < target,
// it accepts expr < target + 1.
func IsLessThanOrEqual(quals []L.Qualifier, target string) bool {
	if IsLessThan(quals, target) {
		return true
	}
	if len(quals) != 1 {
		return false
	}
	q := quals[0]
	if q.Contains(target + " + 1") {
		return true
	}
	if eq, err := offset.Parse(target); err == nil {
		if next, ok := eq.Add(1); ok {
			return q.Contains(next.String())
		}
	}
	return false
}

// MinValue returns the smallest possible value of expr according to the
// oracle: the lower bound of its range if known, otherwise the minimum of
// its value set. It fails when neither is known, i.e. the minimum is -∞.
func MinValue(o Oracle, expr string, at cfg.Node) (int64, bool) {
	if eq, err := offset.Parse(expr); err == nil && eq.IsConstant() {
		return eq.Offset(), true
	}
	if o == nil {
		return 0, false
	}
	if itv, ok := o.Range(expr, at); ok {
		if lo, ok := itv.Low(); ok {
			return lo, true
		}
	}
	if vs, ok := o.Values(expr, at); ok {
		return vs.Min()
	}
	return 0, false
}

// MaxValue is the dual of MinValue.
func MaxValue(o Oracle, expr string, at cfg.Node) (int64, bool) {
	if eq, err := offset.Parse(expr); err == nil && eq.IsConstant() {
		return eq.Offset(), true
	}
	if o == nil {
		return 0, false
	}
	if itv, ok := o.Range(expr, at); ok {
		if hi, ok := itv.High(); ok {
			return hi, true
		}
	}
	if vs, ok := o.Values(expr, at); ok {
		return vs.Max()
	}
	return 0, false
}

// IsLessThanByValue decides smaller < bigger from numeric facts. With
// bigger = e + k, the minimum of smaller shifted by -k is compared to the
// minimum of e.
func IsLessThanByValue(o Oracle, smaller, bigger string, at cfg.Node) bool {
	lo, ok := MinValue(o, smaller, at)
	if !ok {
		return false
	}

	eq, err := offset.Parse(bigger)
	if err != nil {
		return false
	}
	if eq.IsConstant() {
		return lo < eq.Offset()
	}

	k := eq.Offset()
	if k == math.MinInt64 || (k < 0 && lo > math.MaxInt64+k) || (k > 0 && lo < math.MinInt64+k) {
		return false
	}
	shifted := lo - k

	minBigger, ok := MinValue(o, eq.Base(), at)
	if !ok {
		// The minimum of bigger is -∞.
		return false
	}
	return shifted < minBigger
}

// Checker answers inequality queries about a routine.
type Checker struct {
	Facts  Facts
	Oracle Oracle
}

func (c Checker) qualifiers(expr string, at cfg.Node) []L.Qualifier {
	if c.Facts == nil {
		return []L.Qualifier{L.Unknown()}
	}
	return c.Facts.Qualifiers(expr, at)
}

func (c Checker) IsLessThan(expr, target string, at cfg.Node) bool {
	return IsLessThan(c.qualifiers(expr, at), target)
}

func (c Checker) IsLessThanOrEqual(expr, target string, at cfg.Node) bool {
	return IsLessThanOrEqual(c.qualifiers(expr, at), target)
}

func (c Checker) IsLessThanByValue(smaller, bigger string, at cfg.Node) bool {
	return IsLessThanByValue(c.Oracle, smaller, bigger, at)
}

// Verdict is the outcome of deciding an inequality.
type Verdict int

const (
	// Unprovable means neither the inequality nor its negation follows
	// from the known facts.
	Unprovable Verdict = iota
	Proven
	Disproven
	// Ambiguous means several qualifiers are attached to the expression.
	Ambiguous
)

func (v Verdict) String() string {
	switch v {
	case Proven:
		return "proven"
	case Disproven:
		return "disproven"
	case Ambiguous:
		return "ambiguous"
	}
	return "unprovable"
}

// Decide classifies expr < target. Unlike the boolean queries it tells
// apart the inequality being refuted from there being too little
// information.
func (c Checker) Decide(expr, target string, at cfg.Node) Verdict {
	quals := c.qualifiers(expr, at)
	if len(quals) != 1 {
		return Ambiguous
	}
	if IsLessThan(quals, target) || IsLessThanByValue(c.Oracle, expr, target, at) {
		return Proven
	}

	// target < expr, or target <= expr.
	tquals := c.qualifiers(target, at)
	if len(tquals) == 1 && !tquals[0].IsBot() && IsLessThanOrEqual(tquals, expr) {
		return Disproven
	}
	// min(expr) >= max(target)
	if lo, ok := MinValue(c.Oracle, expr, at); ok {
		if hi, ok := maxOf(c.Oracle, target, at); ok && lo >= hi {
			return Disproven
		}
	}
	return Unprovable
}

// maxOf is MaxValue for offset equations e + k.
func maxOf(o Oracle, expr string, at cfg.Node) (int64, bool) {
	eq, err := offset.Parse(expr)
	if err != nil || eq.IsConstant() {
		return MaxValue(o, expr, at)
	}
	hi, ok := MaxValue(o, eq.Base(), at)
	if !ok {
		return 0, false
	}
	k := eq.Offset()
	if (k > 0 && hi > math.MaxInt64-k) || (k < 0 && hi < math.MinInt64-k) {
		return 0, false
	}
	return hi + k, true
}
