package sim_test

import (
	"testing"

	"github.com/plus3/interstellar/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsFlushOrder(t *testing.T) {
	world := sim.NewWorld()
	names := sim.NewStore[string](world)
	victim := world.Spawn()
	names.Insert(victim, "victim")

	var order []string
	scheduler := sim.NewScheduler(world)
	scheduler.Register(sim.SystemFunc(func(frame *sim.UpdateFrame) {
		frame.Commands.Defer(func() { order = append(order, "defer") })
		frame.Commands.Spawn(func(e sim.Entity) {
			order = append(order, "spawn")
			names.Insert(e, "newcomer")
		})
		frame.Commands.Despawn(victim)
		assert.Equal(t, 3, frame.Commands.Len())
		assert.True(t, world.Alive(victim), "nothing applies before the flush")
	}))

	scheduler.Once(1)

	assert.Equal(t, []string{"spawn", "defer"}, order)
	assert.False(t, world.Alive(victim))
	require.Equal(t, 1, names.Len())
	for _, name := range names.All() {
		assert.Equal(t, "newcomer", *name)
	}
}

func TestCommandsSpawnReusesDespawnedSlot(t *testing.T) {
	world := sim.NewWorld()
	old := world.Spawn()

	var spawned sim.Entity
	scheduler := sim.NewScheduler(world)
	scheduler.Register(sim.SystemFunc(func(frame *sim.UpdateFrame) {
		if frame.Tick > 0 {
			return
		}
		frame.Commands.Spawn(func(e sim.Entity) { spawned = e })
		frame.Commands.Despawn(old)
	}))
	scheduler.Once(1)

	assert.Equal(t, old.Index(), spawned.Index(), "despawns flush before spawns")
	assert.NotEqual(t, old, spawned)
	assert.Equal(t, 1, world.Len())
}
