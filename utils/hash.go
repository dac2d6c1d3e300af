package utils

import (
	"reflect"

	"github.com/benbjohnson/immutable"
)

// PointerHasher is a generic hasher for pointer-like values, e.g. CFG blocks.
type PointerHasher[T any] struct{}

// Hash computes the uint32 hash of hashable pointer v.
func (PointerHasher[T]) Hash(v T) uint32 {
	// Use reflection to get a uintptr value
	p := reflect.ValueOf(v).Pointer()
	return uint32(p ^ (p >> 32))
}

// Equal checks equality between two hashable pointers.
func (PointerHasher[T]) Equal(a, b T) bool {
	return any(a) == any(b)
}

var _ immutable.Hasher[any] = PointerHasher[any]{}

// NewPointerMap creates an immutable map keyed by pointer identity.
func NewPointerMap[K, V any]() *immutable.Map[K, V] {
	return immutable.NewMap[K, V](PointerHasher[K]{})
}
