package lessthan

import (
	"testing"

	L "github.com/cs-au-dk/dflow/analysis/lattice"
	"github.com/cs-au-dk/dflow/utils/set"
)

// stores enumerates stores over the expressions a and b whose qualifiers
// range over Bottom and subsets of {n, m}.
func stores() []Store {
	quals := []L.Qualifier{L.Bottom()}
	set.SubsetsV("n", "m").ForEach(func(exprs []string) {
		quals = append(quals, L.FromExpressions(exprs))
	})

	var res []Store
	for _, qa := range quals {
		for _, qb := range quals {
			res = append(res, EmptyStore().Set("a", qa).Set("b", qb))
		}
	}
	res = append(res, EmptyStore().Set("c", L.FromExpression("n")))
	return res
}

func TestStoreUnknownIsImplicit(t *testing.T) {
	s := EmptyStore().Set("a", L.FromExpression("n"))
	if s.Len() != 1 {
		t.Fatalf("%v should have one entry", s)
	}
	if q := s.Get("b"); !q.IsTop() {
		t.Errorf("Missing expression has qualifier %s, expected ⊤", q)
	}
	if s := s.Set("a", L.Unknown()); s.Len() != 0 {
		t.Errorf("Setting ⊤ should remove the entry, found %v", s)
	}
}

func TestStoreJoinLaws(t *testing.T) {
	ss := stores()
	for _, s1 := range ss {
		if !s1.Join(s1).Equal(s1) {
			t.Errorf("%v ⊔ %v = %v, expected %v", s1, s1, s1.Join(s1), s1)
		}
		for _, s2 := range ss {
			if j1, j2 := s1.Join(s2), s2.Join(s1); !j1.Equal(j2) {
				t.Errorf("%v ⊔ %v = %v, but %v ⊔ %v = %v", s1, s2, j1, s2, s1, j2)
			}
			for _, s3 := range ss {
				l := s1.Join(s2).Join(s3)
				r := s1.Join(s2.Join(s3))
				if !l.Equal(r) {
					t.Errorf("(%v ⊔ %v) ⊔ %v = %v, but %v ⊔ (%v ⊔ %v) = %v",
						s1, s2, s3, l, s1, s2, s3, r)
				}
			}
		}
	}
}

func TestStoreJoinIsUpperBound(t *testing.T) {
	ss := stores()
	for _, s1 := range ss {
		for _, s2 := range ss {
			j := s1.Join(s2)
			j.ForEach(func(expr string, q L.Qualifier) {
				if !s1.Get(expr).Leq(q) || !s2.Get(expr).Leq(q) {
					t.Errorf("%v ⊔ %v = %v is not an upper bound at %s", s1, s2, j, expr)
				}
			})
		}
	}
}

func TestStoreJoinForgetsOneSidedFacts(t *testing.T) {
	s1 := EmptyStore().Set("a", L.FromExpression("n"))
	s2 := EmptyStore().Set("b", L.FromExpression("n"))
	if j := s1.Join(s2); j.Len() != 0 {
		t.Errorf("%v ⊔ %v = %v, expected []", s1, s2, j)
	}
}
