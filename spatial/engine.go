// Package spatial detects proximity between simulation entities. Each
// entity gets a spherical sensor collider; after Step the engine reports
// every pair of entities whose spheres overlap.
package spatial

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/interstellar/collision"
	"github.com/plus3/interstellar/sim"
	"go.uber.org/zap"
)

// userTag marks user data written by this engine in the high word.
const userTag uint64 = 0x5350_4154_4941_4c31

const (
	DefaultCellSize           = 8.0
	DefaultPredictionDistance = 1.0
)

// Options tunes the collision pipeline.
type Options struct {
	// CellSize is the broad phase grid edge in world units.
	CellSize float64
	// PredictionDistance grows every bounding box so pairs closer than it
	// become broad phase candidates. Zero selects the default.
	PredictionDistance float64
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if o.PredictionDistance <= 0 {
		o.PredictionDistance = DefaultPredictionDistance
	}
	return o
}

// Collider is the engine-side handle of a spawned sphere. It is valid from
// Spawn until Remove on the engine that created it.
type Collider struct {
	handle collision.Handle
}

// InvalidCollider never refers to a live collider.
var InvalidCollider = Collider{handle: collision.InvalidHandle}

func (c Collider) String() string {
	return c.handle.String()
}

// Engine wraps a collision pipeline together with all of its state.
type Engine struct {
	opts Options
	log  *zap.Logger

	pipeline  *collision.Pipeline
	colliders *collision.ColliderSet
	bodies    *collision.RigidBodySet
	islands   *collision.IslandManager
	broad     *collision.BroadPhase
	narrow    *collision.NarrowPhase
}

// New creates an empty engine. A nil logger discards diagnostics.
func New(opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	opts = opts.withDefaults()
	return &Engine{
		opts:      opts,
		log:       log.Named("spatial"),
		pipeline:  collision.NewPipeline(),
		colliders: collision.NewColliderSet(),
		bodies:    collision.NewRigidBodySet(),
		islands:   collision.NewIslandManager(),
		broad:     collision.NewBroadPhase(opts.CellSize),
		narrow:    collision.NewNarrowPhase(),
	}
}

func (e *Engine) Options() Options { return e.opts }

// Spawn registers a sensor sphere for entity at position. Sensors are
// fixed bodies, so fixed-fixed pairs are enabled explicitly.
func (e *Engine) Spawn(entity sim.Entity, position mgl64.Vec3, radius float64) Collider {
	c := collision.Ball(radius).
		Sensor(true).
		ActiveCollisionTypes(collision.DefaultActiveCollisionTypes | collision.FixedFixed).
		UserData(encode(entity)).
		Translation(position).
		Build()
	return Collider{handle: e.colliders.Insert(c)}
}

// MoveTo sets the collider's position; the change is seen by the next
// Step. Moving an unknown collider is logged and reported as false.
func (e *Engine) MoveTo(c Collider, position mgl64.Vec3) bool {
	col := e.colliders.GetMut(c.handle)
	if col == nil {
		e.log.Error("move of unknown collider", zap.Stringer("collider", c))
		return false
	}
	col.SetTranslation(position)
	return true
}

// Remove unregisters the collider. Removing an unknown collider is logged
// and otherwise ignored.
func (e *Engine) Remove(c Collider) bool {
	_, ok := e.colliders.Remove(c.handle, e.islands, e.bodies, true)
	if !ok {
		e.log.Error("remove of unknown collider", zap.Stringer("collider", c))
	}
	return ok
}

// Step runs one broad and narrow phase pass.
func (e *Engine) Step() {
	e.pipeline.Step(e.opts.PredictionDistance, e.broad, e.narrow, e.bodies, e.colliders, nil)
}

// Intersections yields each currently overlapping pair of entities once.
// The sequence can be ranged over any number of times between steps.
func (e *Engine) Intersections() iter.Seq2[sim.Entity, sim.Entity] {
	return func(yield func(sim.Entity, sim.Entity) bool) {
		for a, b := range e.narrow.Intersections() {
			if !yield(e.entity(a), e.entity(b)) {
				return
			}
		}
	}
}

// Get returns position and radius of a live collider.
func (e *Engine) Get(c Collider) (mgl64.Vec3, float64, bool) {
	col := e.colliders.Get(c.handle)
	if col == nil {
		return mgl64.Vec3{}, 0, false
	}
	return col.Translation(), col.Radius(), true
}

// Entity returns the entity a live collider was spawned for.
func (e *Engine) Entity(c Collider) (sim.Entity, bool) {
	col := e.colliders.Get(c.handle)
	if col == nil {
		return sim.NilEntity, false
	}
	return decode(col.UserData())
}

func (e *Engine) Len() int {
	return e.colliders.Len()
}

// Stats reports counters from the last Step.
func (e *Engine) Stats() collision.StepStats {
	return e.pipeline.Stats()
}

func (e *Engine) entity(h collision.Handle) sim.Entity {
	col := e.colliders.Get(h)
	if col == nil {
		e.log.Error("intersection references missing collider", zap.Stringer("collider", h))
		return sim.NilEntity
	}
	ent, ok := decode(col.UserData())
	if !ok {
		e.log.Error("collider user data does not encode an entity",
			zap.Stringer("collider", h),
			zap.Uint64("hi", col.UserData().Hi),
			zap.Uint64("lo", col.UserData().Lo))
		return sim.NilEntity
	}
	return ent
}

func encode(e sim.Entity) collision.UserData {
	return collision.UserData{Hi: userTag, Lo: uint64(e)}
}

func decode(data collision.UserData) (sim.Entity, bool) {
	if data.Hi != userTag {
		return sim.NilEntity, false
	}
	e := sim.Entity(data.Lo)
	if e.IsNil() {
		return sim.NilEntity, false
	}
	return e, true
}
