// Package cfg describes the control-flow graph of a single routine as a
// graph of basic blocks. A block is regular, conditional or special, and
// any block may additionally have exceptional successors keyed by the
// kind of exception thrown.
package cfg

import (
	"errors"
	"fmt"

	"github.com/cs-au-dk/dflow/utils/graph"
)

var (
	ErrMalformed   = errors.New("malformed CFG")
	errForeignNode = errors.New("block belongs to another CFG")
)

// Cfg is the control-flow graph of one routine. It is created with its
// entry, exit and exceptional exit blocks in place.
type Cfg struct {
	name   string
	params []*Param

	entry           *SpecialBlock
	exit            *SpecialBlock
	exceptionalExit *SpecialBlock

	// blocks contains every block created for the CFG, in creation order.
	blocks []Block
}

// New creates a CFG for the routine with the given name and formal
// parameters. The entry block has no successor yet.
func New(name string, params ...*Param) *Cfg {
	g := &Cfg{name: name, params: params}
	g.entry = g.newSpecial(Entry)
	g.exit = g.newSpecial(Exit)
	g.exceptionalExit = g.newSpecial(ExceptionalExit)
	return g
}

func (g *Cfg) Name() string {
	return g.name
}

// Params returns the formal parameters of the routine.
func (g *Cfg) Params() []*Param {
	return g.params
}

func (g *Cfg) Entry() *SpecialBlock {
	return g.entry
}

func (g *Cfg) Exit() *SpecialBlock {
	return g.exit
}

func (g *Cfg) ExceptionalExit() *SpecialBlock {
	return g.exceptionalExit
}

func (g *Cfg) base() baseBlock {
	return baseBlock{id: len(g.blocks), cfg: g}
}

func (g *Cfg) newSpecial(kind SpecialKind) *SpecialBlock {
	b := &SpecialBlock{baseBlock: g.base(), kind: kind}
	b.label = kind.String()
	g.blocks = append(g.blocks, b)
	return b
}

// NewRegular creates a regular block holding the given nodes.
func (g *Cfg) NewRegular(nodes ...Node) *RegularBlock {
	b := &RegularBlock{baseBlock: g.base()}
	b.Append(nodes...)
	g.blocks = append(g.blocks, b)
	return b
}

// NewConditional creates a conditional block branching on cond.
func (g *Cfg) NewConditional(cond Node) *ConditionalBlock {
	b := &ConditionalBlock{baseBlock: g.base(), cond: cond}
	if cond != nil {
		cond.setBlock(b)
	}
	g.blocks = append(g.blocks, b)
	return b
}

func (g *Cfg) checkOwned(b Block) {
	if b != nil && b.Graph() != g {
		panic(fmt.Errorf("%w: %s", errForeignNode, b))
	}
}

// Successors returns the regular successors of b followed by its
// exceptional successors in exception kind order. Missing successors are
// omitted.
func (g *Cfg) Successors(b Block) (succs []Block) {
	add := func(s Block) {
		if s != nil {
			succs = append(succs, s)
		}
	}

	switch b := b.(type) {
	case *RegularBlock:
		add(b.succ)
	case *ConditionalBlock:
		add(b.then)
		add(b.els)
	case *SpecialBlock:
		add(b.succ)
	}

	for _, kind := range b.ExceptionalKinds() {
		succ, _ := b.Exceptional(kind)
		add(succ)
	}
	return
}

// graph exposes the block graph.
func (g *Cfg) graph() graph.Graph[Block] {
	return graph.Of[Block](g.Successors)
}

// Blocks returns the blocks reachable from the entry in breadth-first
// order.
func (g *Cfg) Blocks() []Block {
	return g.graph().Reachable(g.entry)
}

// AllBlocks returns every block created for the CFG, reachable or not,
// ordered by ID.
func (g *Cfg) AllBlocks() []Block {
	return g.blocks
}

// BlockByLabel finds the block with the given label.
func (g *Cfg) BlockByLabel(label string) (Block, bool) {
	for _, b := range g.blocks {
		if b.Label() == label {
			return b, true
		}
	}
	return nil, false
}

// Predecessors computes the predecessor relation over reachable blocks.
func (g *Cfg) Predecessors() map[Block][]Block {
	preds := make(map[Block][]Block)
	for _, b := range g.Blocks() {
		for _, s := range g.Successors(b) {
			preds[s] = append(preds[s], b)
		}
	}
	return preds
}

// Nodes returns the nodes of the reachable blocks in block order.
func (g *Cfg) Nodes() (nodes []Node) {
	for _, b := range g.Blocks() {
		switch b := b.(type) {
		case *RegularBlock:
			nodes = append(nodes, b.contents...)
		case *ConditionalBlock:
			nodes = append(nodes, b.cond)
		}
	}
	return
}

// Validate checks the structural well-formedness of the reachable part of
// the CFG: regular blocks are non-empty and have a successor, conditional
// blocks have a condition and both branches, and the entry block has a
// successor.
func (g *Cfg) Validate() error {
	if g.entry.succ == nil {
		return fmt.Errorf("%w: %s has no successor", ErrMalformed, g.entry)
	}

	for _, b := range g.Blocks() {
		switch b := b.(type) {
		case *RegularBlock:
			if len(b.contents) == 0 {
				return fmt.Errorf("%w: regular block %s has no contents", ErrMalformed, b)
			}
			if b.succ == nil {
				return fmt.Errorf("%w: regular block %s has no successor", ErrMalformed, b)
			}
		case *ConditionalBlock:
			if b.cond == nil {
				return fmt.Errorf("%w: conditional block %s has no condition", ErrMalformed, b)
			}
			if b.then == nil || b.els == nil {
				return fmt.Errorf("%w: conditional block %s is missing a branch", ErrMalformed, b)
			}
		case *SpecialBlock:
			if b.kind != Entry && b.succ != nil {
				return fmt.Errorf("%w: %s has a successor", ErrMalformed, b)
			}
		}
	}
	return nil
}

// LoopHeads returns the blocks through which control enters a cycle of the
// CFG, ordered by ID.
func (g *Cfg) LoopHeads() (heads []Block) {
	G := g.graph()
	scc := G.SCC([]Block{g.entry})
	preds := g.Predecessors()

	for _, b := range g.blocks {
		c := scc.ComponentOf(b)
		if c == -1 || !scc.IsCyclic(c) {
			continue
		}
		for _, p := range preds[b] {
			if scc.ComponentOf(p) != c {
				heads = append(heads, b)
				break
			}
		}
	}
	return
}
