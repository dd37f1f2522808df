package spatial

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/interstellar/collision"
	"github.com/plus3/interstellar/sim"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestUndecodableUserDataYieldsNil(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	engine := New(Options{}, zap.New(core))

	world := sim.NewWorld()
	live := world.Spawn()
	engine.Spawn(live, mgl64.Vec3{}, 1)
	engine.colliders.Insert(collision.Ball(1).
		Sensor(true).
		ActiveCollisionTypes(collision.DefaultActiveCollisionTypes | collision.FixedFixed).
		Translation(mgl64.Vec3{0.5, 0, 0}).
		Build())
	engine.Step()

	var seen []sim.Entity
	for a, b := range engine.Intersections() {
		seen = append(seen, a, b)
	}
	assert.ElementsMatch(t, []sim.Entity{live, sim.NilEntity}, seen)
	assert.Equal(t, 1, logs.FilterMessage("collider user data does not encode an entity").Len())
}

func TestDecode(t *testing.T) {
	e := sim.NewEntity(7, 3)
	got, ok := decode(encode(e))
	assert.True(t, ok)
	assert.Equal(t, e, got)

	_, ok = decode(collision.UserData{})
	assert.False(t, ok)
	_, ok = decode(collision.UserData{Hi: userTag})
	assert.False(t, ok, "nil entity with a valid tag")
	_, ok = decode(collision.UserData{Lo: uint64(e)})
	assert.False(t, ok)
}
