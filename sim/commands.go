package sim

// Commands buffers structural changes made while systems run. They are
// applied in order at the end of the frame: despawns, then spawns, then
// deferred functions.
type Commands struct {
	spawns   []func(Entity)
	despawns []Entity
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues a new entity. build receives the handle once it exists.
func (c *Commands) Spawn(build func(e Entity)) {
	c.spawns = append(c.spawns, build)
}

// Despawn queues an entity for removal.
func (c *Commands) Despawn(e Entity) {
	c.despawns = append(c.despawns, e)
}

// Defer queues an arbitrary function.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.despawns) + len(c.defers)
}

// Flush applies all queued operations to the world and resets the buffer.
func (c *Commands) Flush(w *World) {
	for _, e := range c.despawns {
		w.Despawn(e)
	}

	for _, build := range c.spawns {
		build(w.Spawn())
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	clear(c.defers)
	c.spawns = c.spawns[:0]
	c.despawns = c.despawns[:0]
	c.defers = c.defers[:0]
}
