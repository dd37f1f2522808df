// Package idtable resolves stable identities back to runtime handles.
package idtable

import (
	"iter"

	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/sim"
	"go.uber.org/zap"
)

// Table maps LongIds to the entity that currently carries them.
//
// Destroyed entities are not removed one by one. MarkRemoved only counts
// them, and once the stale count exceeds the number of entries the owner is
// expected to Rebuild from the live set. This bounds the table to about
// twice the live population while keeping updates O(1) amortized.
type Table struct {
	data  map[ident.LongId]sim.Entity
	stale int
	log   *zap.Logger
}

// New creates an empty table.
func New(log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}
	return &Table{
		data: make(map[ident.LongId]sim.Entity),
		log:  log,
	}
}

// Query returns the last entity recorded for id.
func (t *Table) Query(id ident.LongId) (sim.Entity, bool) {
	e, ok := t.data[id]
	return e, ok
}

// Insert records e as the carrier of id, overwriting any earlier entry.
func (t *Table) Insert(id ident.LongId, e sim.Entity) {
	t.log.Debug("insert into id table", zap.Stringer("oid", id), zap.Uint64("entity", uint64(e)))
	t.data[id] = e
}

// MarkRemoved records that count ids became invalid since the last rebuild.
func (t *Table) MarkRemoved(count int) {
	t.stale += count
}

// ShouldRebuild reports whether stale entries outnumber live ones.
func (t *Table) ShouldRebuild() bool {
	return t.stale > len(t.data)
}

// Rebuild clears the table and refills it from src, which must enumerate
// the current live set. Entries missing from src are lost.
func (t *Table) Rebuild(src iter.Seq2[sim.Entity, ident.LongId]) {
	before := len(t.data)
	stale := t.stale

	clear(t.data)
	t.stale = 0
	for e, id := range src {
		t.data[id] = e
	}

	t.log.Info("rebuilt id table",
		zap.Int("before", before),
		zap.Int("after", len(t.data)),
		zap.Int("stale", stale),
	)
}

// Len returns the number of entries, live or stale.
func (t *Table) Len() int {
	return len(t.data)
}

// Stale returns the number of removals recorded since the last rebuild.
func (t *Table) Stale() int {
	return t.stale
}
