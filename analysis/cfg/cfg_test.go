package cfg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// diamond builds
//
//	entry -> a -> c ? t : e -> exit
//
// where a throws E to the exceptional exit.
func diamond() (g *Cfg, a *RegularBlock, c *ConditionalBlock, t, e *RegularBlock) {
	g = New("diamond", NewParam("x"))
	a = g.NewRegular(MustParseNode("y = x + 1"))
	c = g.NewConditional(MustParseNode("x < y"))
	t = g.NewRegular(MustParseNode("z = x"))
	e = g.NewRegular(MustParseNode("z = y"))

	g.Entry().SetSuccessor(a)
	a.SetSuccessor(c)
	a.AddExceptional("E", g.ExceptionalExit())
	c.SetThen(t)
	c.SetElse(e)
	t.SetSuccessor(g.Exit())
	e.SetSuccessor(g.Exit())
	return
}

func TestBlocksOrder(t *testing.T) {
	g, a, c, tb, eb := diamond()

	expected := []Block{g.Entry(), a, c, g.ExceptionalExit(), tb, eb, g.Exit()}
	found := g.Blocks()
	if len(found) != len(expected) {
		t.Fatalf("Found %v, expected %v", found, expected)
	}
	for i := range expected {
		if found[i] != expected[i] {
			t.Errorf("Block %d is %s, expected %s", i, found[i], expected[i])
		}
	}

	if succs := g.Successors(a); len(succs) != 2 || succs[0] != c || succs[1] != g.ExceptionalExit() {
		t.Errorf("Successors of %s are %v", a, succs)
	}

	for _, n := range a.Contents() {
		if n.Block() != a {
			t.Errorf("%s is owned by %v, expected %s", n, n.Block(), a)
		}
	}
	if c.Condition().Block() != c {
		t.Errorf("Condition of %s is owned by %v", c, c.Condition().Block())
	}
}

func TestValidate(t *testing.T) {
	g, _, _, _, _ := diamond()
	if err := g.Validate(); err != nil {
		t.Fatal("Unexpected error:", err)
	}

	empty := g.NewRegular()
	empty.SetSuccessor(g.Exit())
	g.Entry().SetSuccessor(empty)
	if err := g.Validate(); !errors.Is(err, ErrMalformed) {
		t.Errorf("Empty regular block should be rejected, got %v", err)
	}

	g2 := New("dangling")
	cond := g2.NewConditional(MustParseNode("a < b"))
	cond.SetThen(g2.Exit())
	g2.Entry().SetSuccessor(cond)
	if err := g2.Validate(); !errors.Is(err, ErrMalformed) {
		t.Errorf("Conditional block without else branch should be rejected, got %v", err)
	}

	if err := New("no-entry").Validate(); !errors.Is(err, ErrMalformed) {
		t.Errorf("Entry without successor should be rejected, got %v", err)
	}
}

func TestForeignBlockPanics(t *testing.T) {
	g1, g2 := New("one"), New("two")
	defer func() {
		if recover() == nil {
			t.Error("Linking blocks of different CFGs should panic")
		}
	}()
	g1.Entry().SetSuccessor(g2.Exit())
}

func TestLoopHeads(t *testing.T) {
	g, err := LoadFile("testdata/count.yaml")
	if err != nil {
		t.Fatal(err)
	}

	heads := g.LoopHeads()
	if len(heads) != 1 || heads[0].Label() != "loop" {
		t.Errorf("Found loop heads %v, expected [loop]", heads)
	}
	if loop, ok := g.BlockByLabel("loop"); !ok || loop.Label() != "loop" {
		t.Errorf("Lookup of loop gave %v", loop)
	}
	if _, ok := g.BlockByLabel("nowhere"); ok {
		t.Error("Lookup of a missing label should fail")
	}

	g2, _, _, _, _ := diamond()
	if heads := g2.LoopHeads(); len(heads) != 0 {
		t.Errorf("Acyclic CFG has loop heads %v", heads)
	}
}

func TestPrintLoadedCfg(t *testing.T) {
	g, err := LoadFile("testdata/count.yaml")
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := g.Print(&out); err != nil {
		t.Fatal(err)
	}
	goldie.New(t).Assert(t, t.Name(), out.Bytes())
}

func TestDotGraph(t *testing.T) {
	g, _, _, _, _ := diamond()
	G := g.DotGraph()

	if len(G.Nodes) != 7 {
		t.Errorf("Found %d dot nodes, expected 7", len(G.Nodes))
	}
	// entry, a, exceptional edge, then, else, two exits.
	if len(G.Edges) != 7 {
		t.Errorf("Found %d dot edges, expected 7", len(G.Edges))
	}

	var buf bytes.Buffer
	if err := G.WriteDot(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`style="dashed"`)) {
		t.Errorf("Exceptional edge is not dashed:\n%s", buf.String())
	}
}
