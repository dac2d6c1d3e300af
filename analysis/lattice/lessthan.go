package lattice

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

type qualifierKind uint8

const (
	kindBottom qualifierKind = iota
	kindLessThan
	kindUnknown
)

// Qualifier is a member of the less-than lattice. The zero value is Bottom.
// A Qualifier is immutable; its expression list is sorted and free of
// duplicates, so structural equality coincides with lattice equality.
type Qualifier struct {
	element
	kind  qualifierKind
	exprs []string
}

// Bottom is the qualifier of unreachable or uninhabited values. It is
// vacuously less than anything.
func Bottom() Qualifier {
	return Qualifier{kind: kindBottom}
}

// Unknown is the qualifier carrying no facts.
func Unknown() Qualifier {
	return Qualifier{kind: kindUnknown}
}

// FromExpressions constructs a qualifier from a list of expressions. A nil
// list yields Bottom, an empty list yields Unknown.
func FromExpressions(exprs []string) Qualifier {
	switch {
	case exprs == nil:
		return Bottom()
	case len(exprs) == 0:
		return Unknown()
	}
	return lessThan(slices.Clone(exprs))
}

// FromExpression constructs the qualifier LessThan({expr}).
func FromExpression(expr string) Qualifier {
	return Qualifier{kind: kindLessThan, exprs: []string{expr}}
}

// Qualifier creates a qualifier with the given expressions. Unlike
// FromExpressions, passing no expressions yields Unknown.
func (elementFactory) Qualifier(exprs ...string) Qualifier {
	if len(exprs) == 0 {
		return Unknown()
	}
	return FromExpressions(exprs)
}

// lessThan canonicalizes exprs in place and wraps them.
func lessThan(exprs []string) Qualifier {
	if len(exprs) == 0 {
		return Unknown()
	}
	slices.Sort(exprs)
	return Qualifier{kind: kindLessThan, exprs: slices.Compact(exprs)}
}

func (Qualifier) Lattice() Lattice {
	return lessThanLattice
}

func (q Qualifier) Qualifier() Qualifier {
	return q
}

func (q Qualifier) IsBot() bool {
	return q.kind == kindBottom
}

func (q Qualifier) IsTop() bool {
	return q.kind == kindUnknown
}

// Expressions returns the sorted expression set of the qualifier. The
// boolean is false for Bottom, whose set is conceptually every expression.
// Unknown yields an empty, non-nil list.
func (q Qualifier) Expressions() ([]string, bool) {
	switch q.kind {
	case kindBottom:
		return nil, false
	case kindUnknown:
		return []string{}, true
	}
	return slices.Clone(q.exprs), true
}

// Contains checks whether expr is in the expression set. Bottom contains
// every expression.
func (q Qualifier) Contains(expr string) bool {
	switch q.kind {
	case kindBottom:
		return true
	case kindUnknown:
		return false
	}
	_, found := slices.BinarySearch(q.exprs, expr)
	return found
}

// Add returns a qualifier that additionally states the value is less than
// expr. Bottom is unaffected.
func (q Qualifier) Add(exprs ...string) Qualifier {
	if q.kind == kindBottom || len(exprs) == 0 {
		return q
	}
	return lessThan(append(slices.Clone(q.exprs), exprs...))
}

// Remove drops every expression satisfying pred. Bottom is unaffected.
func (q Qualifier) Remove(pred func(string) bool) Qualifier {
	if q.kind != kindLessThan {
		return q
	}
	res := make([]string, 0, len(q.exprs))
	for _, e := range q.exprs {
		if !pred(e) {
			res = append(res, e)
		}
	}
	if len(res) == len(q.exprs) {
		return q
	}
	return lessThan(res)
}

func (q Qualifier) String() string {
	switch q.kind {
	case kindBottom:
		return colorize.Element("⊥")
	case kindUnknown:
		return colorize.Element("⊤")
	}
	strs := make([]string, 0, len(q.exprs))
	for _, e := range q.exprs {
		strs = append(strs, colorize.Key(e))
	}
	return colorize.Const("<") + "{ " + strings.Join(strs, ", ") + " }"
}

// IsSubtype decides sub <: super. Bottom is below everything and only
// Bottom is below Bottom. Otherwise sub must carry every expression of
// super.
func IsSubtype(sub, super Qualifier) bool {
	switch {
	case sub.kind == kindBottom:
		return true
	case super.kind == kindBottom:
		return false
	}
	for _, e := range super.exprs {
		if _, found := slices.BinarySearch(sub.exprs, e); !found {
			return false
		}
	}
	return true
}

func (q1 Qualifier) Eq(e2 Element) bool {
	checkLatticeMatch(q1.Lattice(), e2.Lattice(), "=")
	return q1.eq(e2)
}

func (q1 Qualifier) eq(e2 Element) bool {
	switch q2 := e2.(type) {
	case Qualifier:
		return q1.kind == q2.kind && slices.Equal(q1.exprs, q2.exprs)
	}
	panic(errPatternMatch(e2))
}

func (q1 Qualifier) Leq(e2 Element) bool {
	checkLatticeMatch(q1.Lattice(), e2.Lattice(), "⊑")
	return q1.leq(e2)
}

func (q1 Qualifier) leq(e2 Element) bool {
	switch q2 := e2.(type) {
	case Qualifier:
		return IsSubtype(q1, q2)
	}
	panic(errPatternMatch(e2))
}

func (q1 Qualifier) Geq(e2 Element) bool {
	checkLatticeMatch(q1.Lattice(), e2.Lattice(), "⊒")
	return q1.geq(e2)
}

func (q1 Qualifier) geq(e2 Element) bool {
	return e2.leq(q1)
}

func (q1 Qualifier) Join(e2 Element) Element {
	checkLatticeMatch(q1.Lattice(), e2.Lattice(), "⊔")
	return q1.join(e2)
}

func (q1 Qualifier) join(e2 Element) Element {
	switch q2 := e2.(type) {
	case Qualifier:
		return q1.MonoJoin(q2)
	}
	panic(errPatternMatch(e2))
}

// MonoJoin computes the least upper bound: the expressions both
// qualifiers agree on.
func (q1 Qualifier) MonoJoin(q2 Qualifier) Qualifier {
	switch {
	case IsSubtype(q1, q2):
		return q2
	case IsSubtype(q2, q1):
		return q1
	}
	res := make([]string, 0, len(q1.exprs))
	for _, e := range q1.exprs {
		if _, found := slices.BinarySearch(q2.exprs, e); found {
			res = append(res, e)
		}
	}
	return lessThan(res)
}

func (q1 Qualifier) Meet(e2 Element) Element {
	checkLatticeMatch(q1.Lattice(), e2.Lattice(), "⊓")
	return q1.meet(e2)
}

func (q1 Qualifier) meet(e2 Element) Element {
	switch q2 := e2.(type) {
	case Qualifier:
		return q1.MonoMeet(q2)
	}
	panic(errPatternMatch(e2))
}

// MonoMeet computes the greatest lower bound: every expression of either
// qualifier.
func (q1 Qualifier) MonoMeet(q2 Qualifier) Qualifier {
	switch {
	case IsSubtype(q1, q2):
		return q1
	case IsSubtype(q2, q1):
		return q2
	}
	return lessThan(append(slices.Clone(q1.exprs), q2.exprs...))
}

// MarshalYAML renders Bottom as "bottom", Unknown as "unknown", and
// LessThan as its list of expressions.
func (q Qualifier) MarshalYAML() (interface{}, error) {
	switch q.kind {
	case kindBottom:
		return "bottom", nil
	case kindUnknown:
		return "unknown", nil
	}
	return slices.Clone(q.exprs), nil
}

// UnmarshalYAML accepts the forms produced by MarshalYAML.
func (q *Qualifier) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var word string
	if err := unmarshal(&word); err == nil {
		switch word {
		case "bottom":
			*q = Bottom()
		case "unknown":
			*q = Unknown()
		default:
			*q = FromExpression(word)
		}
		return nil
	}

	var exprs []string
	if err := unmarshal(&exprs); err != nil {
		return fmt.Errorf("qualifier must be \"bottom\", \"unknown\" or a list of expressions: %w", err)
	}
	if exprs == nil {
		exprs = []string{}
	}
	*q = FromExpressions(exprs)
	return nil
}
