package sim

import (
	"iter"

	"github.com/kamstrup/intmap"
)

const blockSize = 64

// iStore is the type-erased view the World uses to clean up on despawn.
type iStore interface {
	Remove(e Entity) bool
}

// Store holds one component type for many entities. Components live in
// fixed-size blocks so pointers returned by Get stay valid until the entity
// is removed or the store is compacted.
//
// Every Insert is recorded as a change notification and every Remove bumps
// the removal count. The change log has a single reader, which drains it
// with ResetChanges once it has consumed Changed and Removed.
//
// Hooks registered with OnRemove see the value of every removed component,
// whether it was dropped through Remove or through World.Despawn.
type Store[T any] struct {
	blocks    [][blockSize]T
	owners    [][blockSize]Entity
	slots     *intmap.Map[Entity, int]
	freeSlots []int
	nextIndex int

	changed []Entity
	removed int

	onRemove []func(Entity, T)
}

// NewStore creates a store and registers it with the world so despawned
// entities are dropped from it.
func NewStore[T any](w *World) *Store[T] {
	s := &Store[T]{
		slots: intmap.New[Entity, int](256),
	}
	w.stores = append(w.stores, s)
	return s
}

// Insert sets the component for e, replacing any previous value.
func (s *Store[T]) Insert(e Entity, value T) *T {
	s.changed = append(s.changed, e)

	if index, ok := s.slots.Get(e); ok {
		ptr := s.at(index)
		*ptr = value
		return ptr
	}

	var index int
	if len(s.freeSlots) > 0 {
		index = s.freeSlots[len(s.freeSlots)-1]
		s.freeSlots = s.freeSlots[:len(s.freeSlots)-1]
	} else {
		index = s.nextIndex
		s.nextIndex++
		if index/blockSize >= len(s.blocks) {
			s.blocks = append(s.blocks, [blockSize]T{})
			s.owners = append(s.owners, [blockSize]Entity{})
		}
	}

	s.owners[index/blockSize][index%blockSize] = e
	s.slots.Put(e, index)
	ptr := s.at(index)
	*ptr = value
	return ptr
}

// Get returns the component for e, or nil.
func (s *Store[T]) Get(e Entity) *T {
	index, ok := s.slots.Get(e)
	if !ok {
		return nil
	}
	return s.at(index)
}

// Has reports whether e has a component in this store.
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.slots.Get(e)
	return ok
}

// Touch records a change notification for e without replacing the value.
// Use it after mutating a component in place through Get.
func (s *Store[T]) Touch(e Entity) {
	if s.Has(e) {
		s.changed = append(s.changed, e)
	}
}

// Remove drops the component for e.
func (s *Store[T]) Remove(e Entity) bool {
	index, ok := s.slots.Get(e)
	if !ok {
		return false
	}
	s.slots.Del(e)

	ptr := s.at(index)
	value := *ptr
	var zero T
	*ptr = zero
	s.owners[index/blockSize][index%blockSize] = NilEntity
	s.freeSlots = append(s.freeSlots, index)
	s.removed++
	for _, fn := range s.onRemove {
		fn(e, value)
	}
	return true
}

// OnRemove registers fn to run after a component leaves the store. fn
// receives the removed value and may despawn other entities.
func (s *Store[T]) OnRemove(fn func(e Entity, value T)) {
	s.onRemove = append(s.onRemove, fn)
}

// Len returns the number of live components.
func (s *Store[T]) Len() int {
	return s.slots.Len()
}

// All enumerates every live (entity, component) pair.
func (s *Store[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for i := 0; i < s.nextIndex; i++ {
			owner := s.owners[i/blockSize][i%blockSize]
			if owner == NilEntity {
				continue
			}
			if !yield(owner, s.at(i)) {
				return
			}
		}
	}
}

// Changed enumerates entities inserted or touched since the last
// ResetChanges, skipping those removed in the meantime. An entity changed
// several times is reported for each change.
func (s *Store[T]) Changed() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for _, e := range s.changed {
			ptr := s.Get(e)
			if ptr == nil {
				continue
			}
			if !yield(e, ptr) {
				return
			}
		}
	}
}

// Removed returns how many components were removed since the last
// ResetChanges.
func (s *Store[T]) Removed() int {
	return s.removed
}

// ResetChanges clears the change log.
func (s *Store[T]) ResetChanges() {
	s.changed = s.changed[:0]
	s.removed = 0
}

// Compact packs live components into the lowest slots. Pointers obtained
// before compaction are invalidated.
func (s *Store[T]) Compact() {
	live := s.slots.Len()
	numBlocks := (live + blockSize - 1) / blockSize
	newBlocks := make([][blockSize]T, numBlocks)
	newOwners := make([][blockSize]Entity, numBlocks)

	writePos := 0
	for e, ptr := range s.All() {
		newBlocks[writePos/blockSize][writePos%blockSize] = *ptr
		newOwners[writePos/blockSize][writePos%blockSize] = e
		s.slots.Put(e, writePos)
		writePos++
	}

	s.blocks = newBlocks
	s.owners = newOwners
	s.freeSlots = nil
	s.nextIndex = writePos
}

func (s *Store[T]) at(index int) *T {
	return &s.blocks[index/blockSize][index%blockSize]
}
