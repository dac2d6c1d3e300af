package lattice

import (
	"fmt"
	"math"
	"strconv"
)

// Interval is an interval and a member of the interval lattice.
// Any interval consists two interval bounds, `low` and `high`.
type Interval struct {
	element
	low  IntervalBound
	high IntervalBound
}

// Interval creates an interval with possibly infinite bounds.
func (elementFactory) Interval(low IntervalBound, high IntervalBound) Interval {
	return Interval{low: low, high: high}
}

// IntervalFinite creates an interval with finite bounds.
func (elementFactory) IntervalFinite(low int64, high int64) Interval {
	return Interval{
		low:  FiniteBound(low),
		high: FiniteBound(high),
	}
}

// Lattice retrieves the interval lattice for any interval.
func (Interval) Lattice() Lattice {
	return intervalLattice
}

func (e Interval) String() string {
	if e.IsBot() {
		return colorize.Element("⊥")
	}
	return "[" + e.low.String() + ", " + e.high.String() + "]"
}

// Interval safely converts an interval.
func (e Interval) Interval() Interval {
	return e
}

// IsBot checks that the interval is empty. The canonical empty interval
// is [∞, -∞], but any interval whose low bound exceeds its high bound is
// considered empty.
func (e Interval) IsBot() bool {
	return e.low.Gt(e.high)
}

// IsTop checks that the interval is equal to ⊤ = [-∞, ∞].
func (e Interval) IsTop() bool {
	_, l := e.low.(MinusInfinity)
	_, h := e.high.(PlusInfinity)
	return l && h
}

// LowBound returns the lower bound of the interval.
func (e Interval) LowBound() IntervalBound {
	return e.low
}

// HighBound returns the upper bound of the interval.
func (e Interval) HighBound() IntervalBound {
	return e.high
}

// Low return the lower bound as an integer, if finite. The boolean is false
// if the bound is infinite or the interval is empty.
func (e Interval) Low() (int64, bool) {
	if b, ok := e.low.(FiniteBound); ok && !e.IsBot() {
		return int64(b), true
	}
	return 0, false
}

// High returns the upper bound as an integer, if finite. The boolean is false
// if the bound is infinite or the interval is empty.
func (e Interval) High() (int64, bool) {
	if b, ok := e.high.(FiniteBound); ok && !e.IsBot() {
		return int64(b), true
	}
	return 0, false
}

// Contains checks whether v is a member of the interval.
func (e Interval) Contains(v int64) bool {
	return e.low.Leq(FiniteBound(v)) && FiniteBound(v).Leq(e.high)
}

// Eq computes m = o. Performs lattice dynamic type checking.
func (e1 Interval) Eq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "=")
	return e1.eq(e2)
}

// eq computes m = o.
func (e1 Interval) eq(e2 Element) bool {
	return e1.leq(e2) && e1.geq(e2)
}

// Leq computes m ⊑ o. Performs lattice dynamic type checking.
func (e1 Interval) Leq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊑")
	return e1.leq(e2)
}

// leq computes m ⊑ o.
func (e1 Interval) leq(e2 Element) bool {
	switch e2 := e2.(type) {
	case Interval:
		if e1.IsBot() {
			return true
		}
		if e2.IsBot() {
			return false
		}
		return e1.low.Geq(e2.low) && e1.high.Leq(e2.high)
	}
	panic(errPatternMatch(e2))
}

// Geq computes m ⊒ o. Performs lattice dynamic type checking.
func (e1 Interval) Geq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊒")
	return e1.geq(e2)
}

// geq computes m ⊒ o.
func (e1 Interval) geq(e2 Element) bool {
	return e2.leq(e1)
}

// Join computes m ⊔ o. Performs lattice dynamic type checking.
func (e1 Interval) Join(e2 Element) Element {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊔")
	return e1.join(e2)
}

// join computes m ⊔ o.
// The resulting interval takes the lowest of the lower bounds,
// and the highest of the upper bounds.
func (e1 Interval) join(e2 Element) Element {
	switch e2 := e2.(type) {
	case Interval:
		return e1.MonoJoin(e2)
	}
	panic(errPatternMatch(e2))
}

// MonoJoin is a monomorphic variant of m ⊔ o for intervals.
func (e1 Interval) MonoJoin(e2 Interval) Interval {
	switch {
	case e1.IsBot():
		return e2
	case e2.IsBot():
		return e1
	}
	return Interval{low: e1.low.Min(e2.low), high: e1.high.Max(e2.high)}
}

// Meet computes m ⊓ o. Performs lattice dynamic type checking.
func (e1 Interval) Meet(e2 Element) Element {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊓")
	return e1.meet(e2)
}

// meet computes m ⊓ o.
func (e1 Interval) meet(e2 Element) Element {
	switch e2 := e2.(type) {
	case Interval:
		return e1.MonoMeet(e2)
	}
	panic(errPatternMatch(e2))
}

// MonoMeet is a monomorphic variant of m ⊓ o for intervals.
func (e1 Interval) MonoMeet(e2 Interval) Interval {
	res := Interval{low: e1.low.Max(e2.low), high: e1.high.Min(e2.high)}
	if res.IsBot() {
		return intervalLattice.Bot().Interval()
	}
	return res
}

// Shift translates both bounds of the interval by k.
func (e Interval) Shift(k int64) Interval {
	if e.IsBot() {
		return e
	}
	return Interval{
		low:  e.low.Plus(FiniteBound(k)),
		high: e.high.Plus(FiniteBound(k)),
	}
}

// Clamp widens any finite bound whose magnitude exceeds limit to the
// infinity in the same direction. Clamped intervals form a lattice of
// finite height.
func (e Interval) Clamp(limit int64) Interval {
	if e.IsBot() {
		return e
	}
	res := e
	if l, ok := e.low.(FiniteBound); ok && (int64(l) < -limit || int64(l) > limit) {
		if int64(l) > limit {
			// The low bound cannot be widened towards +∞ without losing values.
			res.low = FiniteBound(limit)
		} else {
			res.low = MinusInfinity{}
		}
	}
	if h, ok := e.high.(FiniteBound); ok && (int64(h) < -limit || int64(h) > limit) {
		if int64(h) < -limit {
			res.high = FiniteBound(-limit)
		} else {
			res.high = PlusInfinity{}
		}
	}
	return res
}

// IntervalBound is an interface implemented by all interval lattice bounds i.e.,
// any FiniteBound value, PlusInfinity and MinusInfinity.
type IntervalBound interface {
	String() string

	// IsInfinite checks whether the interval bound is infinite.
	IsInfinite() bool

	// Eq checks for interval bound equality.
	Eq(IntervalBound) bool
	// Leq computes b1 ≤ b2. The semantics is -∞ ≤ c ≤ ∞, where c ∈ ℤ.
	Leq(IntervalBound) bool
	// Geq computes b1 ≥ b2. The semantics is ∞ ≥ c ≥ -∞, where c ∈ ℤ.
	Geq(IntervalBound) bool
	// Lt computes b1 < b2.
	Lt(IntervalBound) bool
	// Gt computes b1 > b2.
	Gt(IntervalBound) bool

	// Plus computes b1 + b2. Finite sums that overflow saturate to the
	// infinity in the direction of the overflow. ∞ + -∞ panics.
	Plus(IntervalBound) IntervalBound

	// Max computes max(b1, b2).
	Max(IntervalBound) IntervalBound
	// Min computes min(b1, b2).
	Min(IntervalBound) IntervalBound
}

type (
	// FiniteBound is used to represent finite limits of an interval value.
	FiniteBound int64
	// PlusInfinity represents ∞.
	PlusInfinity struct{}
	// MinusInfinity represents -∞.
	MinusInfinity struct{}
)

// rank orders bounds: -∞ < c < ∞.
func rank(b IntervalBound) int {
	switch b.(type) {
	case MinusInfinity:
		return -1
	case FiniteBound:
		return 0
	case PlusInfinity:
		return 1
	}
	panic(errPatternMatch(b))
}

func compareBounds(b1, b2 IntervalBound) int {
	r1, r2 := rank(b1), rank(b2)
	switch {
	case r1 < r2:
		return -1
	case r1 > r2:
		return 1
	case r1 != 0:
		return 0
	}
	f1, f2 := b1.(FiniteBound), b2.(FiniteBound)
	switch {
	case f1 < f2:
		return -1
	case f1 > f2:
		return 1
	}
	return 0
}

func (FiniteBound) IsInfinite() bool { return false }

func (b FiniteBound) String() string {
	return colorize.Element(strconv.FormatInt(int64(b), 10))
}

func (b1 FiniteBound) Eq(b2 IntervalBound) bool  { return compareBounds(b1, b2) == 0 }
func (b1 FiniteBound) Leq(b2 IntervalBound) bool { return compareBounds(b1, b2) <= 0 }
func (b1 FiniteBound) Geq(b2 IntervalBound) bool { return compareBounds(b1, b2) >= 0 }
func (b1 FiniteBound) Lt(b2 IntervalBound) bool  { return compareBounds(b1, b2) < 0 }
func (b1 FiniteBound) Gt(b2 IntervalBound) bool  { return compareBounds(b1, b2) > 0 }

func (b1 FiniteBound) Plus(b2 IntervalBound) IntervalBound {
	switch b2 := b2.(type) {
	case FiniteBound:
		x, y := int64(b1), int64(b2)
		switch {
		case y > 0 && x > math.MaxInt64-y:
			return PlusInfinity{}
		case y < 0 && x < math.MinInt64-y:
			return MinusInfinity{}
		}
		return FiniteBound(x + y)
	default:
		return b2
	}
}

func (b1 FiniteBound) Max(b2 IntervalBound) IntervalBound {
	if b1.Geq(b2) {
		return b1
	}
	return b2
}

func (b1 FiniteBound) Min(b2 IntervalBound) IntervalBound {
	if b1.Leq(b2) {
		return b1
	}
	return b2
}

func (PlusInfinity) IsInfinite() bool { return true }

func (PlusInfinity) String() string {
	return colorize.Const("∞")
}

func (b1 PlusInfinity) Eq(b2 IntervalBound) bool  { return compareBounds(b1, b2) == 0 }
func (b1 PlusInfinity) Leq(b2 IntervalBound) bool { return compareBounds(b1, b2) <= 0 }
func (b1 PlusInfinity) Geq(b2 IntervalBound) bool { return compareBounds(b1, b2) >= 0 }
func (b1 PlusInfinity) Lt(b2 IntervalBound) bool  { return compareBounds(b1, b2) < 0 }
func (b1 PlusInfinity) Gt(b2 IntervalBound) bool  { return compareBounds(b1, b2) > 0 }

func (b1 PlusInfinity) Plus(b2 IntervalBound) IntervalBound {
	if _, ok := b2.(MinusInfinity); ok {
		panic(fmt.Errorf("%w: ∞ + -∞", errInternal))
	}
	return b1
}

func (b1 PlusInfinity) Max(IntervalBound) IntervalBound { return b1 }
func (PlusInfinity) Min(b2 IntervalBound) IntervalBound { return b2 }

func (MinusInfinity) IsInfinite() bool { return true }

func (MinusInfinity) Max(b2 IntervalBound) IntervalBound { return b2 }
func (b1 MinusInfinity) Min(IntervalBound) IntervalBound { return b1 }

func (MinusInfinity) String() string {
	return colorize.Const("-∞")
}

func (b1 MinusInfinity) Eq(b2 IntervalBound) bool  { return compareBounds(b1, b2) == 0 }
func (b1 MinusInfinity) Leq(b2 IntervalBound) bool { return compareBounds(b1, b2) <= 0 }
func (b1 MinusInfinity) Geq(b2 IntervalBound) bool { return compareBounds(b1, b2) >= 0 }
func (b1 MinusInfinity) Lt(b2 IntervalBound) bool  { return compareBounds(b1, b2) < 0 }
func (b1 MinusInfinity) Gt(b2 IntervalBound) bool  { return compareBounds(b1, b2) > 0 }

func (b1 MinusInfinity) Plus(b2 IntervalBound) IntervalBound {
	if _, ok := b2.(PlusInfinity); ok {
		panic(fmt.Errorf("%w: -∞ + ∞", errInternal))
	}
	return b1
}
