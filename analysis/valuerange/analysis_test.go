package valuerange

import (
	"testing"

	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/analysis/lessthan"
	"github.com/cs-au-dk/dflow/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, path string) *cfg.Cfg {
	g, err := cfg.LoadFile(path)
	require.NoError(t, err)
	return g
}

func requireInterval(t *testing.T, r *Result, expr string, at cfg.Node, lo, hi int64) {
	t.Helper()
	itv, ok := r.Range(expr, at)
	require.True(t, ok, "no range for %s", expr)
	l, lok := itv.Low()
	h, hok := itv.High()
	require.True(t, lok && hok, "%s ranges over %s", expr, itv)
	assert.Equal(t, lo, l, "%s ranges over %s", expr, itv)
	assert.Equal(t, hi, h, "%s ranges over %s", expr, itv)
}

func TestBoundedLoop(t *testing.T) {
	g := load(t, "testdata/bounded.yaml")
	res := Analyze(g, config.Default().ValueRange)

	body, _ := g.BlockByLabel("body")
	incr := body.(*cfg.RegularBlock).Contents()[1]

	requireInterval(t, res, "i", incr, 0, 99)
	requireInterval(t, res, "i + 1", incr, 1, 100)
	requireInterval(t, res, "i", nil, 100, 100)

	vals, ok := res.Values("n", nil)
	require.True(t, ok)
	assert.Equal(t, []int64{100}, vals.Values())

	vals, ok = res.Values("y", incr)
	require.True(t, ok)
	assert.Equal(t, []int64{20}, vals.Values())

	_, ok = res.Range("n", nil)
	assert.False(t, ok, "enumerated values have no range")
	_, ok = res.Values("q", nil)
	assert.False(t, ok)
	_, ok = res.ValueAt("i +", nil)
	assert.False(t, ok)
}

func TestUnboundedLoopTerminates(t *testing.T) {
	g := load(t, "testdata/unbounded.yaml")
	res := Analyze(g, config.ValueRangeConfig{RangeBound: 16, MaxValues: 4})

	loop, _ := g.BlockByLabel("loop")
	cond := loop.(*cfg.ConditionalBlock).Condition()

	itv, ok := res.Range("i", cond)
	require.True(t, ok)
	lo, ok := itv.Low()
	assert.True(t, ok && lo == 0, "i ranges over %s", itv)
	_, ok = itv.High()
	assert.False(t, ok, "i ranges over %s", itv)
}

func TestOracle(t *testing.T) {
	g := load(t, "testdata/bounded.yaml")
	c := lessthan.Checker{
		Facts:  lessthan.Analyze(g),
		Oracle: Analyze(g, config.Default().ValueRange),
	}

	body, _ := g.BlockByLabel("body")
	at := body.(*cfg.RegularBlock).Contents()[0]

	assert.True(t, c.IsLessThanByValue("3", "x + 5", at))
	assert.True(t, c.IsLessThanByValue("i", "n", at))
	assert.True(t, c.IsLessThanByValue("i", "x + 100", at))
	assert.False(t, c.IsLessThanByValue("n", "x", at))
	assert.Equal(t, lessthan.Proven, c.Decide("i", "n", at))
	assert.Equal(t, lessthan.Disproven, c.Decide("n", "x", at))

	// The qualifiers of the loop variable agree with the ranges.
	assert.True(t, c.IsLessThan("i", "n", at))
	assert.True(t, c.IsLessThanOrEqual("n", "i", nil))
}
