package ecs

import (
	"iter"
	"math/bits"
	"reflect"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS worlds (a game and its overlay tests, say) to coexist.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a component type with the given registry.
// This must be called for each component type before it can be spawned.
// Registering a type twice is harmless.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// Registered reports whether T has been registered.
func Registered[T any](r *ComponentRegistry) bool {
	_, ok := r.factories[reflect.TypeFor[T]()]
	return ok
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

// blockSize matches the width of a block's occupancy mask.
const blockSize = 64

// genericComponentStorage stores components of type T in fixed-size blocks.
// Blocks are allocated individually so a pointer handed out by Get stays
// valid while the storage grows; a slot is only reused after Delete.
type genericComponentStorage[T any] struct {
	blocks []*[blockSize]T
	// used has one bit per slot of the matching block.
	used []uint64
	free []int
	next int
	live int
}

func locate(index int) (block int, bit uint64) {
	return index / blockSize, 1 << (index % blockSize)
}

// Append copies item, a T or *T, into a free slot and returns the slot.
// Any other type yields -1.
func (cs *genericComponentStorage[T]) Append(item any) int {
	var v T
	switch it := item.(type) {
	case *T:
		v = *it
	case T:
		v = it
	default:
		return -1
	}

	index := cs.next
	if n := len(cs.free); n > 0 {
		index = cs.free[n-1]
		cs.free = cs.free[:n-1]
	} else {
		cs.next++
	}

	block, bit := locate(index)
	if block == len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([blockSize]T))
		cs.used = append(cs.used, 0)
	}
	cs.blocks[block][index%blockSize] = v
	cs.used[block] |= bit
	cs.live++
	return index
}

// Get returns a *T for the slot, or nil when it is empty.
func (cs *genericComponentStorage[T]) Get(index int) any {
	if !cs.Has(index) {
		return nil
	}
	return &cs.blocks[index/blockSize][index%blockSize]
}

// Delete empties the slot and zeroes it so the value keeps nothing alive.
func (cs *genericComponentStorage[T]) Delete(index int) {
	if !cs.Has(index) {
		return
	}
	block, bit := locate(index)
	cs.used[block] &^= bit
	var zero T
	cs.blocks[block][index%blockSize] = zero
	cs.free = append(cs.free, index)
	cs.live--
}

func (cs *genericComponentStorage[T]) Has(index int) bool {
	if index < 0 {
		return false
	}
	block, bit := locate(index)
	return block < len(cs.used) && cs.used[block]&bit != 0
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.live
}

// Iter yields the occupied slots in increasing order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for block, mask := range cs.used {
			for mask != 0 {
				bit := bits.TrailingZeros64(mask)
				if !yield(block*blockSize + bit) {
					return
				}
				mask &= mask - 1
			}
		}
	}
}
