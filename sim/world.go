package sim

// World owns entity handles and the stores registered against it.
type World struct {
	pool   entityPool
	stores []iStore
	tick   uint64
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		pool: newEntityPool(),
	}
}

// Spawn allocates a new entity handle.
func (w *World) Spawn() Entity {
	return w.pool.create()
}

// Despawn invalidates e and removes its components from every store.
// Returns false if e was not alive.
func (w *World) Despawn(e Entity) bool {
	if !w.pool.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return true
}

// Alive reports whether e refers to a live entity.
func (w *World) Alive(e Entity) bool {
	return w.pool.isAlive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.pool.alive
}

// Tick returns how many frames the scheduler has completed.
func (w *World) Tick() uint64 {
	return w.tick
}
