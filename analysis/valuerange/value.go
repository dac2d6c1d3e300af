// Package valuerange implements a flow-sensitive numeric range analysis.
// Its results answer the numeric queries of the less-than checker.
package valuerange

import (
	"fmt"
	"math"

	"github.com/cs-au-dk/dflow/config"
	L "github.com/cs-au-dk/dflow/analysis/lattice"
)

var (
	elements  = L.Elements()
	intervals = L.Create().Lattice().Interval()
)

// Value is the abstract value of an integer expression. It is either an
// enumerated set of possible values, or an interval once too many values
// are possible.
type Value struct {
	enumerated bool
	vals       L.IntValues
	itv        L.Interval
}

// IsBot checks whether no value is possible.
func (v Value) IsBot() bool {
	if v.enumerated {
		return v.vals.Size() == 0
	}
	return v.itv.IsBot()
}

func (v Value) IsTop() bool {
	return !v.enumerated && v.itv.IsTop()
}

// Enumerated returns the possible values, if they are known individually.
func (v Value) Enumerated() (L.IntValues, bool) {
	return v.vals, v.enumerated
}

// Interval returns the smallest interval containing every possible value.
func (v Value) Interval() L.Interval {
	if v.enumerated {
		return v.vals.Hull()
	}
	return v.itv
}

func (v Value) Eq(o Value) bool {
	if v.enumerated != o.enumerated {
		return false
	}
	if v.enumerated {
		return v.vals.Eq(o.vals)
	}
	return v.itv.Eq(o.itv)
}

func (v Value) String() string {
	if v.enumerated {
		return v.vals.String()
	}
	return v.itv.String()
}

// Domain creates and combines values while keeping them within the
// configured precision.
type Domain struct {
	bound     int64
	maxValues int
}

func NewDomain(conf config.ValueRangeConfig) Domain {
	return Domain{bound: conf.RangeBound, maxValues: conf.MaxValues}
}

func (Domain) Top() Value {
	return Value{itv: intervals.Top().Interval()}
}

func (Domain) Bot() Value {
	return Value{enumerated: true, vals: elements.IntValues()}
}

func (d Domain) Const(k int64) Value {
	return d.Values(k)
}

// Values creates the value with the given possible values.
func (d Domain) Values(vs ...int64) Value {
	return d.enumerate(elements.IntValues(vs...))
}

// Range creates the value ranging over itv. Finite bounds beyond the range
// bound are widened.
func (d Domain) Range(itv L.Interval) Value {
	if itv.IsBot() {
		return d.Bot()
	}
	return Value{itv: itv.Clamp(d.bound)}
}

func (d Domain) enumerate(vals L.IntValues) Value {
	if vals.Size() > d.maxValues {
		return d.Range(vals.Hull())
	}
	return Value{enumerated: true, vals: vals}
}

func (d Domain) Join(v1, v2 Value) Value {
	switch {
	case v1.IsBot():
		return v2
	case v2.IsBot():
		return v1
	case v1.enumerated && v2.enumerated:
		return d.enumerate(v1.vals.MonoJoin(v2.vals))
	}
	return d.Range(v1.Interval().MonoJoin(v2.Interval()))
}

// MeetRange restricts v to the values in itv.
func (d Domain) MeetRange(v Value, itv L.Interval) Value {
	if v.enumerated {
		var vs []int64
		v.vals.ForEach(func(x int64) {
			if itv.Contains(x) {
				vs = append(vs, x)
			}
		})
		return d.Values(vs...)
	}
	return d.Range(v.itv.MonoMeet(itv))
}

// Meet restricts v1 to the values possible for v2.
func (d Domain) Meet(v1, v2 Value) Value {
	if v2.enumerated && !v1.enumerated {
		v1, v2 = v2, v1
	}
	if v1.enumerated && v2.enumerated {
		return d.enumerate(v1.vals.MonoMeet(v2.vals))
	}
	return d.MeetRange(v1, v2.Interval())
}

// Exclude removes k from the possible values of v. Intervals only shrink
// when k is one of their bounds.
func (d Domain) Exclude(v Value, k int64) Value {
	if v.enumerated {
		var vs []int64
		v.vals.ForEach(func(x int64) {
			if x != k {
				vs = append(vs, x)
			}
		})
		return d.Values(vs...)
	}

	itv := v.itv
	if lo, ok := itv.Low(); ok && lo == k && k < math.MaxInt64 {
		itv = elements.Interval(L.FiniteBound(k+1), itv.HighBound())
	}
	if hi, ok := itv.High(); ok && hi == k && k > math.MinInt64 {
		itv = elements.Interval(itv.LowBound(), L.FiniteBound(k-1))
	}
	return d.Range(itv)
}

// pairwise combines enumerated values with op. It fails if the result
// would be too large or op overflows.
func (d Domain) pairwise(v1, v2 Value, op func(a, b int64) (int64, bool)) (Value, bool) {
	if !v1.enumerated || !v2.enumerated || v1.vals.Size()*v2.vals.Size() > d.maxValues*d.maxValues {
		return Value{}, false
	}
	var vs []int64
	ok := true
	v1.vals.ForEach(func(a int64) {
		v2.vals.ForEach(func(b int64) {
			r, rok := op(a, b)
			ok = ok && rok
			vs = append(vs, r)
		})
	})
	if !ok {
		return Value{}, false
	}
	return d.Values(vs...), true
}

func (d Domain) Add(v1, v2 Value) Value {
	if v1.IsBot() || v2.IsBot() {
		return d.Bot()
	}
	if res, ok := d.pairwise(v1, v2, addInt); ok {
		return res
	}
	i1, i2 := v1.Interval(), v2.Interval()
	return d.Range(elements.Interval(
		i1.LowBound().Plus(i2.LowBound()),
		i1.HighBound().Plus(i2.HighBound()),
	))
}

func (d Domain) Neg(v Value) Value {
	if v.IsBot() {
		return v
	}
	if v.enumerated {
		if _, ok := v.vals.Min(); ok && !v.vals.Contains(math.MinInt64) {
			return d.enumerate(v.vals.Map(func(x int64) int64 { return -x }))
		}
	}
	itv := v.Interval()
	return d.Range(elements.Interval(negBound(itv.HighBound()), negBound(itv.LowBound())))
}

func (d Domain) Sub(v1, v2 Value) Value {
	return d.Add(v1, d.Neg(v2))
}

func (d Domain) Mul(v1, v2 Value) Value {
	if v1.IsBot() || v2.IsBot() {
		return d.Bot()
	}
	if res, ok := d.pairwise(v1, v2, mulInt); ok {
		return res
	}

	i1, i2 := v1.Interval(), v2.Interval()
	l1, ok1 := i1.Low()
	h1, ok2 := i1.High()
	l2, ok3 := i2.Low()
	h2, ok4 := i2.High()
	if !(ok1 && ok2 && ok3 && ok4) {
		return d.Top()
	}

	lo, hi := int64(math.MaxInt64), int64(math.MinInt64)
	for _, a := range [2]int64{l1, h1} {
		for _, b := range [2]int64{l2, h2} {
			r, ok := mulInt(a, b)
			if !ok {
				return d.Top()
			}
			if r < lo {
				lo = r
			}
			if r > hi {
				hi = r
			}
		}
	}
	return d.Range(elements.IntervalFinite(lo, hi))
}

func negBound(b L.IntervalBound) L.IntervalBound {
	switch b := b.(type) {
	case L.MinusInfinity:
		return L.PlusInfinity{}
	case L.PlusInfinity:
		return L.MinusInfinity{}
	case L.FiniteBound:
		if b == math.MinInt64 {
			return L.FiniteBound(math.MaxInt64)
		}
		return -b
	}
	panic(fmt.Sprintf("unexpected interval bound %v", b))
}

func addInt(a, b int64) (int64, bool) {
	r := a + b
	return r, (r > a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	return r, r/b == a && !(a == -1 && b == math.MinInt64) && !(b == -1 && a == math.MinInt64)
}
