package lessthan

import (
	"strings"

	L "github.com/cs-au-dk/dflow/analysis/lattice"

	"github.com/benbjohnson/immutable"
)

// Store maps canonical expressions to their less-than qualifiers.
// Expressions without an entry are Unknown; Unknown is never stored.
type Store struct {
	quals *immutable.SortedMap[string, L.Qualifier]
}

// EmptyStore is the store without any facts.
func EmptyStore() Store {
	return Store{immutable.NewSortedMap[string, L.Qualifier](nil)}
}

// Get returns the qualifier of expr.
func (s Store) Get(expr string) L.Qualifier {
	if q, ok := s.quals.Get(expr); ok {
		return q
	}
	return L.Unknown()
}

// Set returns a store where expr has the qualifier q.
func (s Store) Set(expr string, q L.Qualifier) Store {
	if q.IsTop() {
		return Store{s.quals.Delete(expr)}
	}
	return Store{s.quals.Set(expr, q)}
}

// Update applies f to the qualifier of expr.
func (s Store) Update(expr string, f func(L.Qualifier) L.Qualifier) Store {
	return s.Set(expr, f(s.Get(expr)))
}

// Len is the number of expressions with facts.
func (s Store) Len() int {
	return s.quals.Len()
}

// ForEach visits the expressions with facts in sorted order.
func (s Store) ForEach(do func(expr string, q L.Qualifier)) {
	for itr := s.quals.Iterator(); !itr.Done(); {
		expr, q, _ := itr.Next()
		do(expr, q)
	}
}

// Expressions returns the expressions with facts in sorted order.
func (s Store) Expressions() []string {
	res := make([]string, 0, s.Len())
	s.ForEach(func(expr string, _ L.Qualifier) {
		res = append(res, expr)
	})
	return res
}

// Copy returns s. Stores are immutable.
func (s Store) Copy() Store {
	return s
}

func (s Store) Equal(o Store) bool {
	if s.quals == o.quals {
		return true
	}
	if s.Len() != o.Len() {
		return false
	}
	eq := true
	s.ForEach(func(expr string, q L.Qualifier) {
		if !eq {
			return
		}
		oq, ok := o.quals.Get(expr)
		eq = ok && q.Eq(oq)
	})
	return eq
}

// Join keeps the facts that hold in both stores. Expressions with facts
// in only one store become Unknown.
func (s Store) Join(o Store) Store {
	res := EmptyStore()
	s.ForEach(func(expr string, q L.Qualifier) {
		if oq, ok := o.quals.Get(expr); ok {
			res = res.Set(expr, q.MonoJoin(oq))
		}
	})
	return res
}

func (s Store) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	first := true
	s.ForEach(func(expr string, q L.Qualifier) {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(expr + " ↦ " + q.String())
	})
	sb.WriteString("]")
	return sb.String()
}

// MarshalYAML renders the store as a mapping from expressions to
// qualifiers.
func (s Store) MarshalYAML() (interface{}, error) {
	res := make(map[string]L.Qualifier, s.Len())
	s.ForEach(func(expr string, q L.Qualifier) {
		res[expr] = q
	})
	return res, nil
}
