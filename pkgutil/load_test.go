package pkgutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `package main

type counter struct{ n int }

func (c *counter) inc() { c.n++ }

func sum(xs []int) (s int) {
	for i := 0; i < len(xs); i++ {
		s += xs[i]
	}
	return
}

func main() {
	c := &counter{}
	c.inc()
	println(sum([]int{1, 2, 3}))
}
`

func TestLoadFromSource(t *testing.T) {
	pkgs, err := LoadPackagesFromSource(source)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	_, spkgs := BuildSSA(pkgs)

	fun, err := FindFunction(spkgs, "sum")
	require.NoError(t, err)
	assert.Equal(t, "sum", fun.Name())
	assert.Len(t, fun.Params, 1)

	fun, err = FindFunction(spkgs, "*counter.inc")
	require.NoError(t, err)
	assert.Equal(t, "inc", fun.Name())

	_, err = FindFunction(spkgs, "missing")
	assert.ErrorIs(t, err, ErrNoFunction)
	_, err = FindFunction(spkgs, "counter.missing")
	assert.ErrorIs(t, err, ErrNoFunction)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadPackagesFromSource("package main\nfunc main() { undefined() }\n")
	assert.ErrorIs(t, err, ErrLoad)

	_, err = LoadPackages(LoadConfig{GoPath: ".", ModulePath: "testdata/nomodule"}, "./...")
	assert.ErrorIs(t, err, ErrLoad)
}
