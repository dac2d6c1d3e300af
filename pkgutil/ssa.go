package pkgutil

import (
	"errors"
	"fmt"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

var ErrNoFunction = errors.New("function not found")

// BuildSSA builds the SSA form of pkgs and their dependencies.
func BuildSSA(pkgs []*packages.Package) (*ssa.Program, []*ssa.Package) {
	prog, spkgs := ssautil.AllPackages(pkgs, 0)
	prog.Build()

	res := spkgs[:0]
	for _, p := range spkgs {
		if p != nil {
			res = append(res, p)
		}
	}
	return prog, res
}

// FindFunction looks up a function among the members of pkgs. Methods are
// named Type.Method, with an optional * before Type.
func FindFunction(pkgs []*ssa.Package, name string) (*ssa.Function, error) {
	typeName, method, isMethod := strings.Cut(strings.TrimPrefix(name, "*"), ".")

	var found []*ssa.Function
	for _, pkg := range pkgs {
		if !isMethod {
			if f := pkg.Func(name); f != nil {
				found = append(found, f)
			}
			continue
		}

		t := pkg.Type(typeName)
		if t == nil {
			continue
		}
		prog := pkg.Prog
		for _, recv := range []types.Type{t.Type(), types.NewPointer(t.Type())} {
			sel := prog.MethodSets.MethodSet(recv).Lookup(pkg.Pkg, method)
			if sel != nil {
				found = append(found, prog.MethodValue(sel))
				break
			}
		}
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNoFunction, name)
	case 1:
		return found[0], nil
	}

	names := make([]string, 0, len(found))
	for _, f := range found {
		names = append(names, f.String())
	}
	sort.Strings(names)
	return nil, fmt.Errorf("%w: %s is ambiguous among %s", ErrNoFunction, name, strings.Join(names, ", "))
}
