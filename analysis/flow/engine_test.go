package flow

import (
	"strings"
	"testing"

	"github.com/cs-au-dk/dflow/analysis/cfg"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// facts is a set of strings describing what happened along some path.
type facts map[string]struct{}

func factsOf(fs ...string) facts {
	res := make(facts)
	for _, f := range fs {
		res[f] = struct{}{}
	}
	return res
}

func (f facts) Copy() facts {
	return maps.Clone(f)
}

func (f facts) Equal(o facts) bool {
	return maps.Equal(f, o)
}

func (f facts) Join(o facts) facts {
	res := maps.Clone(f)
	maps.Copy(res, o)
	return res
}

func (f facts) with(fs ...string) facts {
	res := maps.Clone(f)
	for _, x := range fs {
		res[x] = struct{}{}
	}
	return res
}

func (f facts) kill(prefix string) facts {
	res := maps.Clone(f)
	maps.DeleteFunc(res, func(k string, _ struct{}) bool {
		return strings.HasPrefix(k, prefix)
	})
	return res
}

func (f facts) String() string {
	ks := maps.Keys(f)
	slices.Sort(ks)
	return "{" + strings.Join(ks, ", ") + "}"
}

// reachingDefs records the reaching definitions of variables, the outcome
// of conditions, and which calls were made or threw.
type reachingDefs struct{}

func (reachingDefs) InitialStore(_ *cfg.Cfg, params []*cfg.Param) facts {
	res := factsOf()
	for _, p := range params {
		res[p.Name+"@param"] = struct{}{}
	}
	return res
}

func (reachingDefs) Apply(n cfg.Node, in facts) TransferResult[facts] {
	switch n := n.(type) {
	case *cfg.Assign:
		return Regular(in.kill(n.Target + "@").with(n.Target + "@" + n.ValueString()))
	case *cfg.Compare:
		return Conditional(in.with("T:"+n.String()), in.with("F:"+n.String()))
	case *cfg.Call:
		out := in.with("call:" + n.Callee)
		if n.Target != "" {
			out = out.kill(n.Target+"@").with(n.Target + "@" + n.Callee)
		}
		return Regular(out).WithExceptional("IOException", in.with("threw:"+n.Callee))
	}
	return Regular(in)
}

func load(t *testing.T, path string) *cfg.Cfg {
	g, err := cfg.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func blockNamed(g *cfg.Cfg, label string) cfg.Block {
	b, _ := g.BlockByLabel(label)
	return b
}

func TestLoopConvergence(t *testing.T) {
	g := load(t, "testdata/count.yaml")
	res := New[facts]("reaching definitions", reachingDefs{}).Run(g)

	exit, ok := res.StoreBefore(g.Exit())
	if !ok {
		t.Fatal("Exit is unreachable")
	}
	for _, f := range []string{"n@param", "i@0", "i@i + 1", "F:i < n", "r@get"} {
		if _, ok := exit[f]; !ok {
			t.Errorf("Exit store %s does not contain %q", exit, f)
		}
	}
	if _, ok := exit["threw:get"]; ok {
		t.Errorf("Exit store %s contains an exceptional fact", exit)
	}

	exc, ok := res.StoreBefore(g.ExceptionalExit())
	if !ok {
		t.Fatal("Exceptional exit is unreachable")
	}
	if _, ok := exc["threw:get"]; !ok {
		t.Errorf("Exceptional exit store %s lacks the throwing call", exc)
	}
	if _, ok := exc["F:i < n"]; ok {
		t.Errorf("Exceptional exit store %s was reached through the else branch", exc)
	}

	// The loop head must be stable under the body's effect.
	loop := blockNamed(g, "loop")
	body := blockNamed(g, "body")
	before, _ := res.StoreBefore(loop)
	bodyContents := body.(*cfg.RegularBlock).Contents()
	after, _ := res.StoreAfterNode(bodyContents[len(bodyContents)-1])
	if !before.Join(after).Equal(before) {
		t.Errorf("Loop head %s is not a fixpoint, body yields %s", before, after)
	}

	if res.Iterations() < len(g.Blocks()) {
		t.Errorf("Only %d block visits for %d blocks", res.Iterations(), len(g.Blocks()))
	}
}

func TestNodeInformation(t *testing.T) {
	g := load(t, "testdata/count.yaml")
	res := New[facts]("reaching definitions", reachingDefs{}).Run(g)

	body := blockNamed(g, "body").(*cfg.RegularBlock)
	call, incr := body.Contents()[0], body.Contents()[1]

	before, ok := res.StoreBeforeNode(incr)
	if !ok {
		t.Fatalf("No information for %s", incr)
	}
	if _, ok := before["r@get"]; !ok {
		t.Errorf("Store before %s is %s, expected r@get", incr, before)
	}

	tr, ok := res.TransferResult(call)
	if !ok {
		t.Fatalf("No information for %s", call)
	}
	if _, ok := tr.ExceptionalStore("IOException")["threw:get"]; !ok {
		t.Errorf("Exceptional store of %s is %s", call, tr.ExceptionalStore("IOException"))
	}
	if _, ok := tr.ExceptionalStore("Other")["call:get"]; !ok {
		t.Error("Unknown exception kinds should fall back to the regular store")
	}
}

func TestConditionalBranches(t *testing.T) {
	g := cfg.New("branch", cfg.NewParam("a"), cfg.NewParam("b"))
	cond := g.NewConditional(cfg.MustParseNode("a < b"))
	then := g.NewRegular(cfg.MustParseNode("x = a"))
	els := g.NewRegular(cfg.MustParseNode("x = b"))
	g.Entry().SetSuccessor(cond)
	cond.SetThen(then)
	cond.SetElse(els)
	then.SetSuccessor(g.Exit())
	els.SetSuccessor(g.Exit())

	res := New[facts]("reaching definitions", reachingDefs{}).Run(g)

	thenStore, _ := res.StoreBefore(then)
	elseStore, _ := res.StoreBefore(els)
	if !thenStore.Equal(factsOf("a@param", "b@param", "T:a < b")) {
		t.Errorf("Then store is %s", thenStore)
	}
	if !elseStore.Equal(factsOf("a@param", "b@param", "F:a < b")) {
		t.Errorf("Else store is %s", elseStore)
	}

	exit, _ := res.StoreBefore(g.Exit())
	expected := factsOf("a@param", "b@param", "T:a < b", "F:a < b", "x@a", "x@b")
	if !exit.Equal(expected) {
		t.Errorf("Exit store is %s, expected %s", exit, expected)
	}

	tr, _ := res.TransferResult(cond.Condition())
	if !tr.IsConditional() || !tr.RegularStore().Equal(thenStore.Join(elseStore)) {
		t.Errorf("Regular store of a condition should join both branches, found %s", tr.RegularStore())
	}
}

func TestUnreachableBlocks(t *testing.T) {
	g := cfg.New("unreachable")
	a := g.NewRegular(cfg.NewSkip())
	dead := g.NewRegular(cfg.MustParseNode("x = 1"))
	g.Entry().SetSuccessor(a)
	a.SetSuccessor(g.Exit())
	dead.SetSuccessor(g.Exit())

	res := New[facts]("reaching definitions", reachingDefs{}).Run(g)
	if _, ok := res.StoreBefore(dead); ok {
		t.Error("Unreachable block has a store")
	}
	if _, ok := res.StoreBefore(g.ExceptionalExit()); ok {
		t.Error("Exceptional exit is reached without exceptional edges")
	}
	if res.Stores().Len() != 3 {
		t.Errorf("Found %d stores, expected 3", res.Stores().Len())
	}
}

func TestEmptyRegularBlockPanics(t *testing.T) {
	g := cfg.New("empty")
	b := g.NewRegular()
	g.Entry().SetSuccessor(b)
	b.SetSuccessor(g.Exit())

	defer func() {
		if recover() == nil {
			t.Error("Running on an empty regular block should panic")
		}
	}()
	New[facts]("reaching definitions", reachingDefs{}).Run(g)
}

func TestRunsAreIndependent(t *testing.T) {
	g := load(t, "testdata/count.yaml")
	a := New[facts]("reaching definitions", reachingDefs{})

	r1, r2 := a.Run(g), a.Run(g)
	for _, b := range g.Blocks() {
		s1, _ := r1.StoreBefore(b)
		s2, _ := r2.StoreBefore(b)
		if !s1.Equal(s2) {
			t.Errorf("Runs disagree on %s: %s vs %s", b, s1, s2)
		}
	}
}
