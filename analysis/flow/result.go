package flow

import (
	"github.com/cs-au-dk/dflow/analysis/cfg"

	"github.com/benbjohnson/immutable"
)

// Result is the outcome of an analysis run.
type Result[S Store[S]] struct {
	g          *cfg.Cfg
	stores     *immutable.Map[cfg.Block, S]
	nodeInfo   map[cfg.Node]nodeInfo[S]
	iterations int
}

// Graph is the analyzed CFG.
func (r *Result[S]) Graph() *cfg.Cfg {
	return r.g
}

// StoreBefore returns the fixpoint store before the given block. It fails
// for unreachable blocks.
func (r *Result[S]) StoreBefore(b cfg.Block) (S, bool) {
	return r.stores.Get(b)
}

// Stores returns the fixpoint stores of all reachable blocks.
func (r *Result[S]) Stores() *immutable.Map[cfg.Block, S] {
	return r.stores
}

// TransferResult returns the result of the transfer function for n at the
// fixpoint.
func (r *Result[S]) TransferResult(n cfg.Node) (TransferResult[S], bool) {
	info, ok := r.nodeInfo[n]
	return info.result, ok
}

// StoreBeforeNode returns the store right before n executes.
func (r *Result[S]) StoreBeforeNode(n cfg.Node) (S, bool) {
	info, ok := r.nodeInfo[n]
	return info.before, ok
}

// StoreAfterNode returns the regular store right after n executes.
func (r *Result[S]) StoreAfterNode(n cfg.Node) (S, bool) {
	info, ok := r.nodeInfo[n]
	return info.result.RegularStore(), ok
}

// Iterations is the number of block visits performed to reach the
// fixpoint.
func (r *Result[S]) Iterations() int {
	return r.iterations
}
