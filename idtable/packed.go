package idtable

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/sim"
	"go.uber.org/zap"
)

// PackedTable maps PackedIds to entities. Unlike Table it is cleaned
// eagerly, since packed ids are only meaningful within one run.
type PackedTable struct {
	data *intmap.Map[ident.PackedId, sim.Entity]
	log  *zap.Logger
}

// NewPacked creates an empty table.
func NewPacked(log *zap.Logger) *PackedTable {
	if log == nil {
		log = zap.NewNop()
	}
	return &PackedTable{
		data: intmap.New[ident.PackedId, sim.Entity](256),
		log:  log,
	}
}

// Query returns the entity for id.
func (t *PackedTable) Query(id ident.PackedId) (sim.Entity, bool) {
	return t.data.Get(id)
}

// Insert records e for id. Inserting InvalidPacked is ignored.
func (t *PackedTable) Insert(id ident.PackedId, e sim.Entity) {
	if !id.Valid() {
		t.log.Warn("ignoring invalid packed id", zap.Uint64("entity", uint64(e)))
		return
	}
	t.log.Debug("insert into object table", zap.Stringer("id", id), zap.Uint64("entity", uint64(e)))
	t.data.Put(id, e)
}

// Remove drops id.
func (t *PackedTable) Remove(id ident.PackedId) {
	t.log.Debug("remove from object table", zap.Stringer("id", id))
	t.data.Del(id)
}

// Reset clears every entry.
func (t *PackedTable) Reset() {
	t.log.Debug("reset object table")
	t.data.Clear()
}

func (t *PackedTable) Len() int {
	return t.data.Len()
}
