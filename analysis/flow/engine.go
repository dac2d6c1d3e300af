package flow

import (
	"fmt"
	"log"

	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/utils"
	"github.com/cs-au-dk/dflow/utils/worklist"

	"github.com/benbjohnson/immutable"
)

// Analysis runs a forward dataflow analysis to a fixpoint. An Analysis
// holds no per-run state and may be reused, also concurrently.
type Analysis[S Store[S]] struct {
	name     string
	transfer TransferFunction[S]
}

// New creates an analysis from a transfer function. The name is used for
// logging.
func New[S Store[S]](name string, transfer TransferFunction[S]) *Analysis[S] {
	return &Analysis[S]{name: name, transfer: transfer}
}

// session is the state of a single run.
type session[S Store[S]] struct {
	*Analysis[S]

	g *cfg.Cfg
	// stores maps blocks to the store before them.
	stores *immutable.Map[cfg.Block, S]
	W      *worklist.Unique[cfg.Block]
	// nodeInfo maps nodes to the store before them and the result of the
	// transfer function. The last visit of a block overwrites earlier ones.
	nodeInfo   map[cfg.Node]nodeInfo[S]
	iterations int
}

type nodeInfo[S Store[S]] struct {
	before S
	result TransferResult[S]
}

// Run computes the fixpoint over g. It panics if the reachable part of g
// is malformed, e.g. if a regular block has no contents.
func (a *Analysis[S]) Run(g *cfg.Cfg) *Result[S] {
	utils.VerbosePrint("Starting %s analysis of %s\n", a.name, g.Name())

	s := &session[S]{
		Analysis: a,
		g:        g,
		stores:   utils.NewPointerMap[cfg.Block, S](),
		W:        worklist.EmptyUnique[cfg.Block](),
		nodeInfo: make(map[cfg.Node]nodeInfo[S]),
	}

	s.propagate(g.Entry(), a.transfer.InitialStore(g, g.Params()))
	s.W.Process(func(b cfg.Block, _ func(cfg.Block)) {
		s.iterations++
		s.visit(b)
	})

	if utils.Opts().Verbose() {
		log.Printf("%s analysis of %s converged after %d block visits\n", a.name, g.Name(), s.iterations)
	}

	return &Result[S]{
		g:          g,
		stores:     s.stores,
		nodeInfo:   s.nodeInfo,
		iterations: s.iterations,
	}
}

func (s *session[S]) storeBefore(b cfg.Block) S {
	store, ok := s.stores.Get(b)
	if !ok {
		panic(fmt.Errorf("block %s was scheduled without a store", b))
	}
	return store
}

func (s *session[S]) apply(n cfg.Node, in S) TransferResult[S] {
	res := s.transfer.Apply(n, in)
	s.nodeInfo[n] = nodeInfo[S]{before: in, result: res}
	return res
}

func (s *session[S]) visit(b cfg.Block) {
	store := s.storeBefore(b)

	switch b := b.(type) {
	case *cfg.RegularBlock:
		contents := b.Contents()
		if len(contents) == 0 {
			panic(fmt.Errorf("%w: regular block %s has no contents", cfg.ErrMalformed, b))
		}

		var res TransferResult[S]
		// Exceptional stores produced by any node of the block, joined per kind.
		thrown := make(map[string]S)
		for _, n := range contents {
			res = s.apply(n, store)
			for kind, exc := range res.exceptional {
				if prev, ok := thrown[kind]; ok {
					exc = prev.Join(exc)
				}
				thrown[kind] = exc
			}
			store = res.RegularStore()
		}
		for kind, exc := range thrown {
			res = res.WithExceptional(kind, exc)
		}

		if b.Successor() == nil {
			panic(fmt.Errorf("%w: regular block %s has no successor", cfg.ErrMalformed, b))
		}
		s.propagate(b.Successor(), store)
		s.propagateExceptional(b, res)

	case *cfg.ConditionalBlock:
		if b.Condition() == nil || b.Then() == nil || b.Else() == nil {
			panic(fmt.Errorf("%w: conditional block %s is incomplete", cfg.ErrMalformed, b))
		}

		res := s.apply(b.Condition(), store)
		s.propagate(b.Then(), res.ThenStore())
		s.propagate(b.Else(), res.ElseStore())
		s.propagateExceptional(b, res)

	case *cfg.SpecialBlock:
		if succ := b.Successor(); succ != nil {
			s.propagate(succ, store)
		}

	default:
		panic(fmt.Errorf("unknown block %T", b))
	}
}

func (s *session[S]) propagateExceptional(b cfg.Block, res TransferResult[S]) {
	for _, kind := range b.ExceptionalKinds() {
		succ, _ := b.Exceptional(kind)
		s.propagate(succ, res.ExceptionalStore(kind))
	}
}

// propagate merges store into the store before b, scheduling b if its
// store changed.
func (s *session[S]) propagate(b cfg.Block, store S) {
	prev, ok := s.stores.Get(b)
	if !ok {
		s.stores = s.stores.Set(b, store.Copy())
		s.W.Add(b)
		return
	}

	joined := prev.Join(store)
	if !joined.Equal(prev) {
		s.stores = s.stores.Set(b, joined)
		s.W.Add(b)
	}
}
