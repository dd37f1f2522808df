// Package collision is a broad- and narrow-phase collision pipeline for
// sensor queries. Colliders live in a generational arena, the broad phase
// buckets their bounding boxes into a uniform grid and the narrow phase
// keeps an intersection graph between candidate pairs.
package collision

import (
	"fmt"
	"iter"
	"math"
)

// Handle identifies a collider in a ColliderSet. A handle stays valid until
// the collider is removed; the slot is then reused under a new generation.
type Handle struct {
	index      uint32
	generation uint32
}

// InvalidHandle never refers to a collider.
var InvalidHandle = Handle{index: math.MaxUint32, generation: math.MaxUint32}

func (h Handle) Index() uint32      { return h.index }
func (h Handle) Generation() uint32 { return h.generation }

func (h Handle) String() string {
	if h == InvalidHandle {
		return "Handle(invalid)"
	}
	return fmt.Sprintf("Handle(%d, %d)", h.index, h.generation)
}

// BodyHandle identifies a rigid body in a RigidBodySet.
type BodyHandle Handle

// InvalidBodyHandle never refers to a body.
var InvalidBodyHandle = BodyHandle(InvalidHandle)

type arenaEntry[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// arena is a slot vector with generation-checked access.
type arena[T any] struct {
	entries []arenaEntry[T]
	free    []uint32
	len     int
}

func (a *arena[T]) insert(value T) Handle {
	a.len++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		entry := &a.entries[idx]
		entry.value = value
		entry.occupied = true
		return Handle{index: idx, generation: entry.generation}
	}
	idx := uint32(len(a.entries))
	a.entries = append(a.entries, arenaEntry[T]{value: value, occupied: true})
	return Handle{index: idx}
}

func (a *arena[T]) get(h Handle) *T {
	if int(h.index) >= len(a.entries) {
		return nil
	}
	entry := &a.entries[h.index]
	if !entry.occupied || entry.generation != h.generation {
		return nil
	}
	return &entry.value
}

func (a *arena[T]) remove(h Handle) (T, bool) {
	var zero T
	if a.get(h) == nil {
		return zero, false
	}
	entry := &a.entries[h.index]
	value := entry.value
	entry.value = zero
	entry.occupied = false
	entry.generation++
	a.free = append(a.free, h.index)
	a.len--
	return value, true
}

func (a *arena[T]) all() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i := range a.entries {
			entry := &a.entries[i]
			if !entry.occupied {
				continue
			}
			if !yield(Handle{index: uint32(i), generation: entry.generation}, &entry.value) {
				return
			}
		}
	}
}
