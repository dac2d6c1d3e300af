// Package graph exposes utilities for working with graph structures given
// only by their edge relation, e.g. the block graph of a CFG.
package graph

type edgesOf[T comparable] func(node T) []T

// Graph is a directed graph over nodes of type T, described by a function
// that enumerates the successors of a node. Edges are computed once per node.
type Graph[T comparable] struct {
	edgesOf     edgesOf[T]
	cachedEdges map[T][]T
}

// Edges returns the successors of node.
func (G Graph[T]) Edges(node T) []T {
	if cached, found := G.cachedEdges[node]; found {
		return cached
	}

	es := G.edgesOf(node)
	G.cachedEdges[node] = es
	return es
}

// Of creates a graph from an edge relation.
func Of[T comparable](edgesOf edgesOf[T]) Graph[T] {
	return Graph[T]{
		edgesOf,
		make(map[T][]T),
	}
}
