package idtable_test

import (
	"maps"
	"testing"

	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/idtable"
	"github.com/plus3/interstellar/sim"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestInsertQuery(t *testing.T) {
	table := idtable.New(zaptest.NewLogger(t))
	id := ident.Random()

	_, ok := table.Query(id)
	assert.False(t, ok, "query before insert finds nothing")

	table.Insert(id, sim.NewEntity(7, 0))
	e, ok := table.Query(id)
	assert.True(t, ok)
	assert.Equal(t, sim.NewEntity(7, 0), e)

	// last writer wins
	table.Insert(id, sim.NewEntity(8, 1))
	e, _ = table.Query(id)
	assert.Equal(t, sim.NewEntity(8, 1), e)
	assert.Equal(t, 1, table.Len())
}

func TestShouldRebuildThreshold(t *testing.T) {
	table := idtable.New(nil)
	for i := 0; i < 3; i++ {
		table.Insert(ident.Random(), sim.NewEntity(uint32(i+1), 0))
	}

	assert.False(t, table.ShouldRebuild())
	table.MarkRemoved(2)
	assert.False(t, table.ShouldRebuild())
	table.MarkRemoved(1)
	assert.False(t, table.ShouldRebuild(), "stale == live is not enough")
	table.MarkRemoved(1)
	assert.True(t, table.ShouldRebuild())
	assert.Equal(t, 4, table.Stale())
}

func TestRebuildDropsMissingIds(t *testing.T) {
	table := idtable.New(zaptest.NewLogger(t))
	gone := ident.Random()
	kept := ident.Random()
	table.Insert(gone, sim.NewEntity(1, 0))
	table.Insert(kept, sim.NewEntity(2, 0))
	table.MarkRemoved(3)
	assert.True(t, table.ShouldRebuild())

	live := map[sim.Entity]ident.LongId{sim.NewEntity(5, 2): kept}
	table.Rebuild(maps.All(live))

	_, ok := table.Query(gone)
	assert.False(t, ok)
	e, ok := table.Query(kept)
	assert.True(t, ok)
	assert.Equal(t, sim.NewEntity(5, 2), e)
	assert.Equal(t, 0, table.Stale())
	assert.False(t, table.ShouldRebuild())
}

func TestPackedTable(t *testing.T) {
	table := idtable.NewPacked(zaptest.NewLogger(t))
	id := ident.NewPacked(ident.KindSolarSystem, 4)

	table.Insert(id, sim.NewEntity(3, 0))
	e, ok := table.Query(id)
	assert.True(t, ok)
	assert.Equal(t, sim.NewEntity(3, 0), e)

	table.Insert(ident.InvalidPacked, sim.NewEntity(4, 0))
	_, ok = table.Query(ident.InvalidPacked)
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())

	table.Remove(id)
	_, ok = table.Query(id)
	assert.False(t, ok)

	table.Insert(id, sim.NewEntity(3, 0))
	table.Reset()
	assert.Equal(t, 0, table.Len())
}
