package cfg

import (
	"fmt"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SpecialKind distinguishes the marker blocks of a CFG.
type SpecialKind int

const (
	Entry SpecialKind = iota
	Exit
	ExceptionalExit
)

func (k SpecialKind) String() string {
	switch k {
	case Entry:
		return "entry"
	case Exit:
		return "exit"
	case ExceptionalExit:
		return "exceptional-exit"
	}
	return "special(" + strconv.Itoa(int(k)) + ")"
}

// Block is a basic block. The set of block kinds is closed:
// *RegularBlock, *ConditionalBlock and *SpecialBlock.
type Block interface {
	// ID is unique among the blocks of a CFG.
	ID() int
	// Label is a human readable name of the block.
	Label() string
	// Graph is the CFG the block belongs to.
	Graph() *Cfg

	// Exceptional returns the exceptional successor for the given
	// exception kind, if any.
	Exceptional(kind string) (Block, bool)
	// ExceptionalKinds returns the exception kinds with a successor, sorted.
	ExceptionalKinds() []string
	// AddExceptional sets the successor taken when the block throws an
	// exception of the given kind.
	AddExceptional(kind string, succ Block)

	String() string

	isBlock()
}

type baseBlock struct {
	id    int
	label string
	cfg   *Cfg
	exc   map[string]Block
}

func (b *baseBlock) ID() int {
	return b.id
}

func (b *baseBlock) Label() string {
	if b.label != "" {
		return b.label
	}
	return "B" + strconv.Itoa(b.id)
}

// SetLabel names the block.
func (b *baseBlock) SetLabel(label string) {
	b.label = label
}

func (b *baseBlock) Graph() *Cfg {
	return b.cfg
}

func (b *baseBlock) Exceptional(kind string) (Block, bool) {
	succ, ok := b.exc[kind]
	return succ, ok
}

func (b *baseBlock) ExceptionalKinds() []string {
	kinds := maps.Keys(b.exc)
	slices.Sort(kinds)
	return kinds
}

func (b *baseBlock) AddExceptional(kind string, succ Block) {
	b.cfg.checkOwned(succ)
	if b.exc == nil {
		b.exc = make(map[string]Block)
	}
	b.exc[kind] = succ
}

func (*baseBlock) isBlock() {}

// RegularBlock holds a non-empty sequence of nodes executed in order, and
// has exactly one successor.
type RegularBlock struct {
	baseBlock
	contents []Node
	succ     Block
}

// ConditionalBlock branches on the outcome of its condition node.
type ConditionalBlock struct {
	baseBlock
	cond      Node
	then, els Block
}

// SpecialBlock marks the entry, exit or exceptional exit of a routine.
// It has no contents and at most one successor.
type SpecialBlock struct {
	baseBlock
	kind SpecialKind
	succ Block
}

func (b *RegularBlock) String() string {
	return b.Label()
}

// Contents returns the nodes of the block in execution order.
func (b *RegularBlock) Contents() []Node {
	return b.contents
}

// Append adds nodes to the end of the block.
func (b *RegularBlock) Append(nodes ...Node) {
	for _, n := range nodes {
		n.setBlock(b)
	}
	b.contents = append(b.contents, nodes...)
}

// Successor is nil until set.
func (b *RegularBlock) Successor() Block {
	return b.succ
}

func (b *RegularBlock) SetSuccessor(succ Block) {
	b.cfg.checkOwned(succ)
	b.succ = succ
}

func (b *ConditionalBlock) String() string {
	return b.Label()
}

func (b *ConditionalBlock) Condition() Node {
	return b.cond
}

func (b *ConditionalBlock) Then() Block {
	return b.then
}

func (b *ConditionalBlock) Else() Block {
	return b.els
}

func (b *ConditionalBlock) SetThen(succ Block) {
	b.cfg.checkOwned(succ)
	b.then = succ
}

func (b *ConditionalBlock) SetElse(succ Block) {
	b.cfg.checkOwned(succ)
	b.els = succ
}

func (b *SpecialBlock) String() string {
	return b.Label()
}

func (b *SpecialBlock) Kind() SpecialKind {
	return b.kind
}

// Successor may be nil.
func (b *SpecialBlock) Successor() Block {
	return b.succ
}

func (b *SpecialBlock) SetSuccessor(succ Block) {
	b.cfg.checkOwned(succ)
	b.succ = succ
}

// kindOf describes the kind of a block for printing.
func kindOf(b Block) string {
	switch b := b.(type) {
	case *RegularBlock:
		return "regular"
	case *ConditionalBlock:
		return "conditional"
	case *SpecialBlock:
		return b.kind.String()
	}
	panic(fmt.Errorf("unknown block %T", b))
}
