package frontend

import (
	"fmt"
	"strings"

	uf "github.com/spakin/disjoint"
	"golang.org/x/tools/go/ssa"
)

// copyClasses names the values of fn. Values that always equal another
// value share its name: type changes, conversions to interfaces, and phi
// nodes whose incoming values are all the same.
func copyClasses(fn *ssa.Function) map[ssa.Value]string {
	elems := make(map[ssa.Value]*uf.Element)
	var order []ssa.Value
	add := func(v ssa.Value) {
		el := uf.NewElement()
		el.Data = v
		elems[v] = el
		order = append(order, v)
	}

	for _, p := range fn.Params {
		add(p)
	}
	for _, fv := range fn.FreeVars {
		add(fv)
	}
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if v, ok := instr.(ssa.Value); ok {
				add(v)
			}
		}
	}

	copies := make(map[ssa.Value]bool)
	union := func(v, src ssa.Value) {
		if el, ok := elems[src]; ok {
			uf.Union(elems[v], el)
			copies[v] = true
		}
	}
	for _, v := range order {
		switch v := v.(type) {
		case *ssa.ChangeType:
			union(v, v.X)
		case *ssa.MakeInterface:
			union(v, v.X)
		case *ssa.Phi:
			if src := trivialPhi(v); src != nil {
				union(v, src)
			}
		}
	}

	// A class is named after its member that is not a copy.
	repNames := make(map[*uf.Element]string)
	for _, v := range order {
		if !copies[v] {
			repNames[elems[v].Find()] = v.Name()
		}
	}

	names := make(map[ssa.Value]string, len(order))
	for _, v := range order {
		rep := elems[v].Find()
		name, ok := repNames[rep]
		if !ok {
			name = v.Name()
			repNames[rep] = name
		}
		names[v] = name
	}
	return names
}

// trivialPhi returns the single value flowing into phi, if any.
func trivialPhi(phi *ssa.Phi) (src ssa.Value) {
	for _, e := range phi.Edges {
		switch {
		case e == phi:
		case src == nil:
			src = e
		case src != e:
			return nil
		}
	}
	return src
}

// opName names an opaque instruction after its kind, e.g. fieldaddr.
func opName(v ssa.Value) string {
	return strings.ToLower(strings.TrimPrefix(fmt.Sprintf("%T", v), "*ssa."))
}
