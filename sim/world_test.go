package sim_test

import (
	"fmt"
	"testing"

	"github.com/plus3/interstellar/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Position struct {
	X, Y, Z float64
}

type Name string

func TestEntityEncoding(t *testing.T) {
	tests := []struct {
		index      uint32
		generation uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("index=%d,generation=%d", tt.index, tt.generation), func(t *testing.T) {
			e := sim.NewEntity(tt.index, tt.generation)
			assert.Equal(t, tt.index, e.Index())
			assert.Equal(t, tt.generation, e.Generation())
		})
	}
}

func TestSpawnNeverReturnsNil(t *testing.T) {
	world := sim.NewWorld()

	e := world.Spawn()
	assert.NotEqual(t, sim.NilEntity, e)
	assert.Equal(t, uint32(1), e.Index())
	assert.True(t, world.Alive(e))
	assert.False(t, world.Alive(sim.NilEntity))
	assert.Equal(t, 1, world.Len())
}

func TestDespawnInvalidatesHandle(t *testing.T) {
	world := sim.NewWorld()

	e := world.Spawn()
	require.True(t, world.Despawn(e))
	assert.False(t, world.Alive(e))
	assert.False(t, world.Despawn(e), "second despawn is a no-op")

	// the slot is recycled under a new generation
	reused := world.Spawn()
	assert.Equal(t, e.Index(), reused.Index())
	assert.NotEqual(t, e, reused)
	assert.False(t, world.Alive(e))
	assert.True(t, world.Alive(reused))
}

func TestDespawnClearsStores(t *testing.T) {
	world := sim.NewWorld()
	positions := sim.NewStore[Position](world)
	names := sim.NewStore[Name](world)

	e := world.Spawn()
	positions.Insert(e, Position{X: 1})
	names.Insert(e, "sol")

	world.Despawn(e)

	assert.Nil(t, positions.Get(e))
	assert.Nil(t, names.Get(e))
	assert.Equal(t, 1, positions.Removed())
	assert.Equal(t, 1, names.Removed())
}
