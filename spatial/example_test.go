package spatial_test

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/interstellar/sim"
	"github.com/plus3/interstellar/spatial"
)

// ExampleEngine spawns two overlapping sensors and one far away, steps the
// pipeline and lists the overlapping entities.
func ExampleEngine() {
	world := sim.NewWorld()
	engine := spatial.New(spatial.Options{}, nil)

	scout, outpost, beacon := world.Spawn(), world.Spawn(), world.Spawn()
	engine.Spawn(scout, mgl64.Vec3{0, 0, 0}, 2)
	engine.Spawn(outpost, mgl64.Vec3{3, 0, 0}, 2)
	engine.Spawn(beacon, mgl64.Vec3{40, 0, 0}, 2)

	engine.Step()
	for a, b := range engine.Intersections() {
		fmt.Println(a == scout || b == scout, a == outpost || b == outpost)
	}

	// Output:
	// true true
}
