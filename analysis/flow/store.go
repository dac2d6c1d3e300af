// Package flow implements a generic forward dataflow fixpoint engine over
// the block graph of a CFG. Analyses plug in through a store type and a
// transfer function.
package flow

import (
	"github.com/cs-au-dk/dflow/analysis/cfg"
)

// Store is an abstract snapshot of the facts known at a program point.
// Join must be commutative, associative, idempotent and monotone, and
// the stores reachable by joining must form ascending chains of finite
// length. Stores are never mutated by the engine.
type Store[S any] interface {
	Copy() S
	Equal(S) bool
	Join(S) S
}

// TransferFunction computes the effect of a single node on a store.
type TransferFunction[S Store[S]] interface {
	// InitialStore is the store on entry to the routine.
	InitialStore(g *cfg.Cfg, params []*cfg.Param) S
	// Apply computes the stores after executing n on the incoming store.
	Apply(n cfg.Node, in S) TransferResult[S]
}

// TransferResult holds the outgoing stores of a node: a regular store, or
// separate then and else stores for conditions, together with the stores
// flowing along exceptional edges.
type TransferResult[S Store[S]] struct {
	regular     S
	then, els   S
	conditional bool
	exceptional map[string]S
}

// Regular creates the result of a node with a single outgoing store.
func Regular[S Store[S]](out S) TransferResult[S] {
	return TransferResult[S]{regular: out, then: out, els: out}
}

// Conditional creates the result of a condition node. The regular store
// is the join of both branches.
func Conditional[S Store[S]](then, els S) TransferResult[S] {
	return TransferResult[S]{
		regular:     then.Join(els),
		then:        then,
		els:         els,
		conditional: true,
	}
}

// WithExceptional returns a copy of the result in which the given store
// flows along exceptional edges of the given kind.
func (r TransferResult[S]) WithExceptional(kind string, s S) TransferResult[S] {
	exc := make(map[string]S, len(r.exceptional)+1)
	for k, v := range r.exceptional {
		exc[k] = v
	}
	exc[kind] = s
	r.exceptional = exc
	return r
}

func (r TransferResult[S]) RegularStore() S {
	return r.regular
}

// ThenStore is the regular store unless the result is conditional.
func (r TransferResult[S]) ThenStore() S {
	return r.then
}

// ElseStore is the regular store unless the result is conditional.
func (r TransferResult[S]) ElseStore() S {
	return r.els
}

func (r TransferResult[S]) IsConditional() bool {
	return r.conditional
}

// ExceptionalStore returns the store flowing along exceptional edges of
// the given kind. Without a specific store for the kind, the regular store
// is used.
func (r TransferResult[S]) ExceptionalStore(kind string) S {
	if s, ok := r.exceptional[kind]; ok {
		return s
	}
	return r.regular
}
