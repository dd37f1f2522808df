package spatial_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/interstellar/sim"
	"github.com/plus3/interstellar/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type pair struct{ a, b sim.Entity }

func collect(e *spatial.Engine) []pair {
	var out []pair
	for a, b := range e.Intersections() {
		out = append(out, pair{a, b})
	}
	return out
}

func contains(pairs []pair, a, b sim.Entity) bool {
	for _, p := range pairs {
		if (p.a == a && p.b == b) || (p.a == b && p.b == a) {
			return true
		}
	}
	return false
}

func TestSpawnStepIntersections(t *testing.T) {
	world := sim.NewWorld()
	engine := spatial.New(spatial.Options{}, zaptest.NewLogger(t))

	h1, h2, h3 := world.Spawn(), world.Spawn(), world.Spawn()
	engine.Spawn(h1, mgl64.Vec3{0, 0, 0}, 1)
	engine.Spawn(h2, mgl64.Vec3{1.9, 0, 0}, 1)
	engine.Spawn(h3, mgl64.Vec3{2.2, 0, 10}, 1)
	require.Equal(t, 3, engine.Len())

	engine.Step()

	got := collect(engine)
	require.Len(t, got, 1)
	assert.True(t, contains(got, h1, h2))
	assert.False(t, contains(got, h2, h3), "distance exceeds the radii sum")
}

func TestIntersectionsAreRestartable(t *testing.T) {
	world := sim.NewWorld()
	engine := spatial.New(spatial.Options{}, nil)
	a, b := world.Spawn(), world.Spawn()
	engine.Spawn(a, mgl64.Vec3{}, 2)
	engine.Spawn(b, mgl64.Vec3{0, 1, 0}, 2)
	engine.Step()

	first := collect(engine)
	second := collect(engine)
	assert.Equal(t, first, second)
	assert.Len(t, first, 1)
}

func TestMoveTo(t *testing.T) {
	world := sim.NewWorld()
	engine := spatial.New(spatial.Options{CellSize: 2}, zaptest.NewLogger(t))
	a, b := world.Spawn(), world.Spawn()
	engine.Spawn(a, mgl64.Vec3{}, 1)
	cb := engine.Spawn(b, mgl64.Vec3{100, 0, 0}, 1)
	engine.Step()
	assert.Empty(t, collect(engine))

	require.True(t, engine.MoveTo(cb, mgl64.Vec3{0, 0, 1.5}))
	pos, radius, ok := engine.Get(cb)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 0, 1.5}, pos)
	assert.Equal(t, 1.0, radius)

	assert.Empty(t, collect(engine), "moves apply on the next step")
	engine.Step()
	assert.True(t, contains(collect(engine), a, b))
}

func TestMoveToInvalidColliderLogs(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	engine := spatial.New(spatial.Options{}, zap.New(core))

	world := sim.NewWorld()
	c := engine.Spawn(world.Spawn(), mgl64.Vec3{}, 1)
	require.True(t, engine.Remove(c))

	assert.False(t, engine.MoveTo(c, mgl64.Vec3{1, 1, 1}))
	assert.False(t, engine.MoveTo(spatial.InvalidCollider, mgl64.Vec3{}))
	assert.Equal(t, 2, logs.FilterMessage("move of unknown collider").Len())
}

func TestRemove(t *testing.T) {
	world := sim.NewWorld()
	engine := spatial.New(spatial.Options{}, zaptest.NewLogger(t))
	a, b := world.Spawn(), world.Spawn()
	ca := engine.Spawn(a, mgl64.Vec3{}, 1)
	engine.Spawn(b, mgl64.Vec3{1, 0, 0}, 1)
	engine.Step()
	require.Len(t, collect(engine), 1)

	require.True(t, engine.Remove(ca))
	assert.Equal(t, 1, engine.Len())
	_, _, ok := engine.Get(ca)
	assert.False(t, ok)

	engine.Step()
	assert.Empty(t, collect(engine))
}

func TestRemoveUnknownLogs(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	engine := spatial.New(spatial.Options{}, zap.New(core))

	assert.False(t, engine.Remove(spatial.InvalidCollider))
	assert.Equal(t, 1, logs.Len())
}

func TestEntityRoundTrip(t *testing.T) {
	world := sim.NewWorld()
	engine := spatial.New(spatial.Options{}, nil)
	for i := 0; i < 3; i++ {
		world.Despawn(world.Spawn())
	}
	e := world.Spawn()
	require.NotZero(t, e.Generation())

	c := engine.Spawn(e, mgl64.Vec3{}, 1)
	got, ok := engine.Entity(c)
	require.True(t, ok)
	assert.Equal(t, e, got)
}

func TestDefaults(t *testing.T) {
	engine := spatial.New(spatial.Options{}, nil)
	assert.Equal(t, spatial.DefaultCellSize, engine.Options().CellSize)
	assert.Equal(t, spatial.DefaultPredictionDistance, engine.Options().PredictionDistance)
}

func BenchmarkStep(b *testing.B) {
	world := sim.NewWorld()
	engine := spatial.New(spatial.Options{}, nil)
	var colliders []spatial.Collider
	for i := 0; i < 1000; i++ {
		pos := mgl64.Vec3{float64(i%32) * 3, 0, float64(i/32) * 3}
		colliders = append(colliders, engine.Spawn(world.Spawn(), pos, 2))
	}
	engine.Step()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := colliders[i%len(colliders)]
		pos, _, _ := engine.Get(c)
		engine.MoveTo(c, pos.Add(mgl64.Vec3{0.1, 0, 0}))
		engine.Step()
	}
}
