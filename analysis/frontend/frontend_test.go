package frontend

import (
	"go/types"
	"testing"

	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/analysis/lessthan"
	"github.com/cs-au-dk/dflow/analysis/valuerange"
	"github.com/cs-au-dk/dflow/config"
	"github.com/cs-au-dk/dflow/pkgutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/ssa"
)

const source = `package main

func sum(xs []int) int {
	s := 0
	for i := 0; i < len(xs); i++ {
		s += xs[i]
	}
	return s
}

func check(x int) int {
	if x < 0 {
		panic("negative")
	}
	return x
}

func twice(f func() int) int {
	return f() + f()
}

func main() {
	println(sum([]int{1, 2}), check(3), twice(func() int { return 1 }))
}
`

func convert(t *testing.T, name string, conf config.FrontendConfig) *cfg.Cfg {
	t.Helper()
	pkgs, err := pkgutil.LoadPackagesFromSource(source)
	require.NoError(t, err)
	_, spkgs := pkgutil.BuildSSA(pkgs)
	fn, err := pkgutil.FindFunction(spkgs, name)
	require.NoError(t, err)

	g, err := FromSSA(fn, conf)
	require.NoError(t, err)
	return g
}

func TestLoop(t *testing.T) {
	g := convert(t, "sum", config.Default().Frontend)

	require.Len(t, g.Params(), 1)
	assert.Equal(t, "xs", g.Params()[0].Name)
	assert.Len(t, g.LoopHeads(), 1)

	var cond *cfg.ConditionalBlock
	for _, b := range g.Blocks() {
		if cb, ok := b.(*cfg.ConditionalBlock); ok {
			cond = cb
		}
	}
	require.NotNil(t, cond, "no conditional block in\n%s", g)
	cmp := cond.Condition().(*cfg.Compare)

	// Inside the loop the index is below the length.
	res := lessthan.Analyze(g)
	then := cond.Then().(*cfg.RegularBlock)
	at := then.Contents()[0]
	c := lessthan.Checker{Facts: res, Oracle: valuerange.Analyze(g, config.Default().ValueRange)}
	left, right := types.ExprString(cmp.Left), types.ExprString(cmp.Right)
	assert.True(t, c.IsLessThan(left, right, at), "in\n%s", g)
	assert.True(t, c.IsLessThanOrEqual(left, "len(xs)", at), "in\n%s", g)
	assert.True(t, c.IsLessThanByValue("-1", left, at), "in\n%s", g)
}

func TestPanic(t *testing.T) {
	g := convert(t, "check", config.FrontendConfig{})

	reached := false
	for _, b := range g.Blocks() {
		reached = reached || b == g.ExceptionalExit()
	}
	assert.True(t, reached, "panics should reach the exceptional exit in\n%s", g)
}

func TestCallsThrow(t *testing.T) {
	g := convert(t, "twice", config.FrontendConfig{CallExceptions: []string{"panic", "IOException"}})

	calls := 0
	for _, n := range g.Nodes() {
		call, ok := n.(*cfg.Call)
		if !ok {
			continue
		}
		calls++
		assert.Equal(t, "f", call.Callee)
		b := call.Block()
		assert.Equal(t, []string{"IOException", "panic"}, b.ExceptionalKinds())
		if exc, ok := b.Exceptional("panic"); assert.True(t, ok) {
			assert.Equal(t, cfg.Block(g.ExceptionalExit()), exc)
		}
		// Calls end their block.
		contents := b.(*cfg.RegularBlock).Contents()
		assert.Equal(t, cfg.Node(call), contents[len(contents)-1])
	}
	assert.Equal(t, 2, calls)
}

func TestNoBody(t *testing.T) {
	_, err := FromSSA(&ssa.Function{}, config.Default().Frontend)
	assert.ErrorIs(t, err, ErrUnsupported)
}
