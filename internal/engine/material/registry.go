// Package material provides rendering attributes, the alias registry that assigns
// each attribute kind a bit, and bitmask-indexed materials and environments.
package material

import (
	"fmt"
	"math/bits"
)

// MaxAliases is the number of distinct aliases a uint64 mask can represent.
const MaxAliases = 64

// Registry assigns bit identifiers to alias names in registration order.
// The n-th distinct name registered gets the id 1<<n, so the set of valid ids
// depends on the order in which aliases are first registered.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	names []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default is the process-wide registry holding the built-in aliases.
// It is populated during package initialization, before any user code runs.
var Default = NewRegistry()

// Register returns the id of name, registering it first if it is unknown.
// It panics if the registry already holds MaxAliases names.
func (r *Registry) Register(name string) uint64 {
	if id, ok := r.IDOf(name); ok {
		return id
	}
	if len(r.names) == MaxAliases {
		panic(fmt.Sprintf("material: alias registry full, cannot register %q", name))
	}

	r.names = append(r.names, name)
	return 1 << uint(len(r.names)-1)
}

// IDOf returns the id of a previously registered name.
func (r *Registry) IDOf(name string) (uint64, bool) {
	for i, n := range r.names {
		if n == name {
			return 1 << uint(i), true
		}
	}
	return 0, false
}

// Contains reports whether id is a single bit assigned by this registry.
func (r *Registry) Contains(id uint64) bool {
	return bits.OnesCount64(id) == 1 && bits.TrailingZeros64(id) < len(r.names)
}

// Name returns the name registered under id.
func (r *Registry) Name(id uint64) (string, bool) {
	if !r.Contains(id) {
		return "", false
	}
	return r.names[bits.TrailingZeros64(id)], true
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.names)
}
