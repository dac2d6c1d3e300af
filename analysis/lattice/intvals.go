package lattice

import (
	"strconv"
	"strings"

	"github.com/benbjohnson/immutable"
)

// IntValues is a finite set of integers, or ⊤ when the set is unknown.
type IntValues struct {
	element
	top  bool
	vals *immutable.SortedMap[int64, struct{}]
}

// IntValues creates a set of integers from the given values.
func (elementFactory) IntValues(vs ...int64) IntValues {
	b := immutable.NewSortedMapBuilder[int64, struct{}](nil)
	for _, v := range vs {
		b.Set(v, struct{}{})
	}
	return IntValues{vals: b.Map()}
}

func (IntValues) Lattice() Lattice {
	return intValuesLattice
}

func (e IntValues) IntValues() IntValues {
	return e
}

// IsTop checks whether the set is unknown.
func (e IntValues) IsTop() bool {
	return e.top
}

// IsBot checks whether the set is empty.
func (e IntValues) IsBot() bool {
	return !e.top && e.Size() == 0
}

// Size returns the number of integers in the set. ⊤ has size 0.
func (e IntValues) Size() int {
	if e.top || e.vals == nil {
		return 0
	}
	return e.vals.Len()
}

// Contains checks membership of v.
func (e IntValues) Contains(v int64) bool {
	if e.top {
		return true
	}
	if e.vals == nil {
		return false
	}
	_, ok := e.vals.Get(v)
	return ok
}

// Min returns the smallest member. It fails for ⊤ and for the empty set.
func (e IntValues) Min() (int64, bool) {
	if e.top || e.Size() == 0 {
		return 0, false
	}
	itr := e.vals.Iterator()
	v, _, _ := itr.Next()
	return v, true
}

// Max returns the largest member. It fails for ⊤ and for the empty set.
func (e IntValues) Max() (int64, bool) {
	if e.top || e.Size() == 0 {
		return 0, false
	}
	itr := e.vals.Iterator()
	itr.Last()
	v, _, _ := itr.Prev()
	return v, true
}

// Values returns the members in ascending order.
func (e IntValues) Values() []int64 {
	res := make([]int64, 0, e.Size())
	e.ForEach(func(v int64) {
		res = append(res, v)
	})
	return res
}

// ForEach visits every member in ascending order. It does nothing for ⊤.
func (e IntValues) ForEach(do func(int64)) {
	if e.top || e.vals == nil {
		return
	}
	for itr := e.vals.Iterator(); !itr.Done(); {
		v, _, _ := itr.Next()
		do(v)
	}
}

// Map applies f to every member.
func (e IntValues) Map(f func(int64) int64) IntValues {
	if e.top {
		return e
	}
	vs := e.Values()
	for i, v := range vs {
		vs[i] = f(v)
	}
	return elFact.IntValues(vs...)
}

// Hull returns the smallest interval containing every member.
func (e IntValues) Hull() Interval {
	if e.top {
		return intervalLattice.Top().Interval()
	}
	lo, ok := e.Min()
	if !ok {
		return intervalLattice.Bot().Interval()
	}
	hi, _ := e.Max()
	return elFact.IntervalFinite(lo, hi)
}

func (e IntValues) String() string {
	if e.top {
		return colorize.Element("⊤")
	}
	if e.Size() == 0 {
		return colorize.Element("∅")
	}
	strs := make([]string, 0, e.Size())
	e.ForEach(func(v int64) {
		strs = append(strs, colorize.Element(strconv.FormatInt(v, 10)))
	})
	return "{ " + strings.Join(strs, ", ") + " }"
}

func (e1 IntValues) Eq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "=")
	return e1.eq(e2)
}

func (e1 IntValues) eq(e2 Element) bool {
	return e1.leq(e2) && e1.geq(e2)
}

func (e1 IntValues) Leq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊑")
	return e1.leq(e2)
}

func (e1 IntValues) leq(e2 Element) bool {
	switch e2 := e2.(type) {
	case IntValues:
		switch {
		case e2.top:
			return true
		case e1.top:
			return false
		}
		if e1.Size() > e2.Size() {
			return false
		}
		res := true
		e1.ForEach(func(v int64) {
			res = res && e2.Contains(v)
		})
		return res
	}
	panic(errPatternMatch(e2))
}

func (e1 IntValues) Geq(e2 Element) bool {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊒")
	return e1.geq(e2)
}

func (e1 IntValues) geq(e2 Element) bool {
	return e2.leq(e1)
}

func (e1 IntValues) Join(e2 Element) Element {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊔")
	return e1.join(e2)
}

func (e1 IntValues) join(e2 Element) Element {
	switch e2 := e2.(type) {
	case IntValues:
		return e1.MonoJoin(e2)
	}
	panic(errPatternMatch(e2))
}

// MonoJoin computes the union of two integer sets.
func (e1 IntValues) MonoJoin(e2 IntValues) IntValues {
	switch {
	case e1.top || e2.top:
		return IntValues{top: true}
	case e1.Size() == 0:
		return e2
	case e2.Size() == 0:
		return e1
	}
	res := e1.vals
	e2.ForEach(func(v int64) {
		res = res.Set(v, struct{}{})
	})
	return IntValues{vals: res}
}

func (e1 IntValues) Meet(e2 Element) Element {
	checkLatticeMatch(e1.Lattice(), e2.Lattice(), "⊓")
	return e1.meet(e2)
}

func (e1 IntValues) meet(e2 Element) Element {
	switch e2 := e2.(type) {
	case IntValues:
		return e1.MonoMeet(e2)
	}
	panic(errPatternMatch(e2))
}

// MonoMeet computes the intersection of two integer sets.
func (e1 IntValues) MonoMeet(e2 IntValues) IntValues {
	switch {
	case e1.top:
		return e2
	case e2.top:
		return e1
	}
	res := []int64{}
	e1.ForEach(func(v int64) {
		if e2.Contains(v) {
			res = append(res, v)
		}
	})
	return elFact.IntValues(res...)
}
