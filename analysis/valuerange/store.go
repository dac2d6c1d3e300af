package valuerange

import (
	"strings"

	"github.com/benbjohnson/immutable"
)

// Store maps variables to their values. Variables without an entry may
// have any value.
type Store struct {
	dom  Domain
	vals *immutable.SortedMap[string, Value]
}

func (d Domain) EmptyStore() Store {
	return Store{d, immutable.NewSortedMap[string, Value](nil)}
}

func (s Store) Get(x string) Value {
	if v, ok := s.vals.Get(x); ok {
		return v
	}
	return s.dom.Top()
}

func (s Store) Set(x string, v Value) Store {
	if v.IsTop() {
		return Store{s.dom, s.vals.Delete(x)}
	}
	return Store{s.dom, s.vals.Set(x, v)}
}

func (s Store) Len() int {
	return s.vals.Len()
}

// ForEach visits the variables with known values in sorted order.
func (s Store) ForEach(do func(x string, v Value)) {
	for itr := s.vals.Iterator(); !itr.Done(); {
		x, v, _ := itr.Next()
		do(x, v)
	}
}

func (s Store) Copy() Store {
	return s
}

func (s Store) Equal(o Store) bool {
	if s.vals == o.vals {
		return true
	}
	if s.Len() != o.Len() {
		return false
	}
	eq := true
	s.ForEach(func(x string, v Value) {
		if eq {
			ov, ok := o.vals.Get(x)
			eq = ok && v.Eq(ov)
		}
	})
	return eq
}

func (s Store) Join(o Store) Store {
	res := s.dom.EmptyStore()
	s.ForEach(func(x string, v Value) {
		if ov, ok := o.vals.Get(x); ok {
			res = res.Set(x, s.dom.Join(v, ov))
		}
	})
	return res
}

func (s Store) String() string {
	strs := make([]string, 0, s.Len())
	s.ForEach(func(x string, v Value) {
		strs = append(strs, x+" ↦ "+v.String())
	})
	return "[" + strings.Join(strs, ", ") + "]"
}

// MarshalYAML renders values as strings.
func (s Store) MarshalYAML() (interface{}, error) {
	res := make(map[string]string, s.Len())
	s.ForEach(func(x string, v Value) {
		res[x] = v.String()
	})
	return res, nil
}
