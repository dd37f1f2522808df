package idtable

import (
	"iter"

	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/sim"
)

// Source enumerates every live (entity, id) pair.
type Source func() iter.Seq2[sim.Entity, ident.LongId]

// StoreSource enumerates the LongIds held in a store.
func StoreSource(ids *sim.Store[ident.LongId]) Source {
	return func() iter.Seq2[sim.Entity, ident.LongId] {
		return func(yield func(sim.Entity, ident.LongId) bool) {
			for e, id := range ids.All() {
				if !yield(e, *id) {
					return
				}
			}
		}
	}
}

// UpdateSystem feeds the table from the LongId store's change log.
// It must run after every system that modifies LongIds and before
// RebuildSystem. It drains the store's change log.
type UpdateSystem struct {
	Table *Table
	Ids   *sim.Store[ident.LongId]
}

func (s *UpdateSystem) Execute(frame *sim.UpdateFrame) {
	for e, id := range s.Ids.Changed() {
		s.Table.Insert(*id, e)
	}
	s.Table.MarkRemoved(s.Ids.Removed())
	s.Ids.ResetChanges()
}

// RebuildSystem rebuilds the table from Source once it holds too many dead
// entries. It must run after UpdateSystem and before anything resolves ids.
type RebuildSystem struct {
	Table  *Table
	Source Source
}

func (s *RebuildSystem) Execute(frame *sim.UpdateFrame) {
	if s.Table.ShouldRebuild() {
		s.Table.Rebuild(s.Source())
	}
}

// PackedSystem keeps a PackedTable in sync with a PackedId store. Removed
// entities are only counted by the store, so the table is reset and refilled
// whenever a removal happened this tick.
type PackedSystem struct {
	Table *PackedTable
	Ids   *sim.Store[ident.PackedId]
}

func (s *PackedSystem) Execute(frame *sim.UpdateFrame) {
	if s.Ids.Removed() > 0 {
		s.Table.Reset()
		for e, id := range s.Ids.All() {
			s.Table.Insert(*id, e)
		}
	} else {
		for e, id := range s.Ids.Changed() {
			s.Table.Insert(*id, e)
		}
	}
	s.Ids.ResetChanges()
}
