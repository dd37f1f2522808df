package galaxy

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/idtable"
	"github.com/plus3/interstellar/sim"
	"github.com/plus3/interstellar/spatial"
	"github.com/plus3/interstellar/stargen"
	"go.uber.org/zap"
)

// System is the component carried by solar system entities.
type System struct {
	Mass       float64
	HillSphere float64
	Stars      []sim.Entity
}

// Star is the component carried by star entities.
type Star struct {
	System sim.Entity
	stargen.Star
}

// Contact is a pair of entities whose spheres overlapped in the last tick.
type Contact struct {
	A, B sim.Entity
}

type Options struct {
	Spatial   spatial.Options
	Templates *TemplateTable
}

// Galaxy owns the world and every index built over it. It is driven by a
// single goroutine through Tick or Run.
type Galaxy struct {
	World     *sim.World
	Scheduler *sim.Scheduler
	Spatial   *spatial.Engine
	Table     *idtable.Table
	Packed    *idtable.PackedTable
	Alloc     *ident.Allocator

	longIds   *sim.Store[ident.LongId]
	packedIds *sim.Store[ident.PackedId]
	positions *sim.Store[mgl64.Vec3]
	colliders *sim.Store[spatial.Collider]
	systems   *sim.Store[System]
	stars     *sim.Store[Star]
	fleets    *sim.Store[Fleet]

	templates *TemplateTable
	contacts  []Contact
	log       *zap.Logger
}

// New creates an empty galaxy. Systems run in this order each tick: fleet
// movement, collider sync, collision, identity index update, identity index
// rebuild, packed index sync, change log reset.
func New(alloc *ident.Allocator, opts Options, log *zap.Logger) *Galaxy {
	if log == nil {
		log = zap.NewNop()
	}
	if alloc == nil {
		alloc = ident.NewAllocator()
	}
	world := sim.NewWorld()
	g := &Galaxy{
		World:     world,
		Scheduler: sim.NewScheduler(world),
		Spatial:   spatial.New(opts.Spatial, log),
		Table:     idtable.New(log),
		Packed:    idtable.NewPacked(log),
		Alloc:     alloc,
		longIds:   sim.NewStore[ident.LongId](world),
		packedIds: sim.NewStore[ident.PackedId](world),
		positions: sim.NewStore[mgl64.Vec3](world),
		colliders: sim.NewStore[spatial.Collider](world),
		systems:   sim.NewStore[System](world),
		stars:     sim.NewStore[Star](world),
		fleets:    sim.NewStore[Fleet](world),
		templates: opts.Templates,
		log:       log.Named("galaxy"),
	}

	g.colliders.OnRemove(g.dropCollider)
	g.systems.OnRemove(g.dropStars)

	g.Scheduler.RegisterNamed("movement", sim.SystemFunc(g.moveFleets))
	g.Scheduler.RegisterNamed("spatial.sync", sim.SystemFunc(g.syncColliders))
	g.Scheduler.RegisterNamed("collision", sim.SystemFunc(g.collide))
	g.Scheduler.RegisterNamed("idtable.update", &idtable.UpdateSystem{Table: g.Table, Ids: g.longIds})
	g.Scheduler.RegisterNamed("idtable.rebuild", &idtable.RebuildSystem{Table: g.Table, Source: idtable.StoreSource(g.longIds)})
	g.Scheduler.RegisterNamed("idtable.packed", &idtable.PackedSystem{Table: g.Packed, Ids: g.packedIds})
	g.Scheduler.RegisterNamed("changes.reset", sim.SystemFunc(g.resetChanges))
	return g
}

// Populate adds every system in order.
func (g *Galaxy) Populate(systems []SolarSystem) {
	for i := range systems {
		g.AddSystem(systems[i])
	}
	g.log.Info("galaxy populated",
		zap.Int("systems", g.systems.Len()),
		zap.Int("stars", g.stars.Len()))
}

// AddSystem spawns a system entity with a collider the size of its Hill
// sphere, plus one entity per star.
func (g *Galaxy) AddSystem(sys SolarSystem) sim.Entity {
	e := g.World.Spawn()
	g.packedIds.Insert(e, sys.ID)
	g.positions.Insert(e, sys.Position)
	g.colliders.Insert(e, g.Spatial.Spawn(e, sys.Position, sys.HillSphere))

	comp := System{Mass: sys.Mass, HillSphere: sys.HillSphere, Stars: make([]sim.Entity, 0, len(sys.Stars))}
	for _, star := range sys.Stars {
		se := g.World.Spawn()
		g.longIds.Insert(se, star.ID)
		g.packedIds.Insert(se, star.Packed)
		g.positions.Insert(se, sys.Position)
		g.stars.Insert(se, Star{System: e, Star: star.Star})
		comp.Stars = append(comp.Stars, se)
	}
	g.systems.Insert(e, comp)
	return e
}

// AddFleet spawns a fleet at position with a sensor collider.
func (g *Galaxy) AddFleet(f Fleet, position mgl64.Vec3) sim.Entity {
	e := g.World.Spawn()
	g.longIds.Insert(e, f.LongID)
	g.packedIds.Insert(e, f.ID)
	g.positions.Insert(e, position)
	g.fleets.Insert(e, f)
	g.colliders.Insert(e, g.Spatial.Spawn(e, position, f.Sensor))
	return e
}

// LaunchFleet builds a fleet of class at system from heading for system to.
func (g *Galaxy) LaunchFleet(class ShipClass, ships int, from, to sim.Entity) (sim.Entity, error) {
	if g.templates == nil {
		return sim.NilEntity, fmt.Errorf("launch %s fleet: no ship templates loaded", class)
	}
	tpl := g.templates.Get(class)
	if tpl == nil {
		return sim.NilEntity, fmt.Errorf("launch %s fleet: no template", class)
	}
	origin := g.positions.Get(from)
	if origin == nil || !g.systems.Has(from) {
		return sim.NilEntity, fmt.Errorf("launch %s fleet: origin %d is not a system", class, from)
	}
	dest := g.positions.Get(to)
	if dest == nil || !g.systems.Has(to) {
		return sim.NilEntity, fmt.Errorf("launch %s fleet: destination %d is not a system", class, to)
	}
	f, err := NewFleet(g.Alloc, tpl, ships, *dest)
	if err != nil {
		return sim.NilEntity, err
	}
	return g.AddFleet(f, *origin), nil
}

// Destroy removes an entity, its collider and, for systems, its stars.
// The identity index notices on the next tick. Despawning through the world
// or a system's Commands has the same effect.
func (g *Galaxy) Destroy(e sim.Entity) bool {
	return g.World.Despawn(e)
}

func (g *Galaxy) dropCollider(e sim.Entity, c spatial.Collider) {
	g.Spatial.Remove(c)
}

func (g *Galaxy) dropStars(e sim.Entity, sys System) {
	for _, se := range sys.Stars {
		g.World.Despawn(se)
	}
}

// Resolve maps a LongId to its live entity.
func (g *Galaxy) Resolve(id ident.LongId) (sim.Entity, bool) {
	e, ok := g.Table.Query(id)
	if !ok || !g.World.Alive(e) {
		return sim.NilEntity, false
	}
	return e, true
}

// ResolvePacked maps a PackedId to its live entity.
func (g *Galaxy) ResolvePacked(id ident.PackedId) (sim.Entity, bool) {
	e, ok := g.Packed.Query(id)
	if !ok || !g.World.Alive(e) {
		return sim.NilEntity, false
	}
	return e, true
}

// Contacts yields the pairs found by the last tick's collision step.
func (g *Galaxy) Contacts() iter.Seq2[sim.Entity, sim.Entity] {
	return func(yield func(sim.Entity, sim.Entity) bool) {
		for _, c := range g.contacts {
			if !yield(c.A, c.B) {
				return
			}
		}
	}
}

func (g *Galaxy) ContactCount() int { return len(g.contacts) }

func (g *Galaxy) Position(e sim.Entity) (mgl64.Vec3, bool) {
	p := g.positions.Get(e)
	if p == nil {
		return mgl64.Vec3{}, false
	}
	return *p, true
}

func (g *Galaxy) LongID(e sim.Entity) (ident.LongId, bool) {
	id := g.longIds.Get(e)
	if id == nil {
		return ident.NilLong, false
	}
	return *id, true
}

func (g *Galaxy) System(e sim.Entity) *System { return g.systems.Get(e) }
func (g *Galaxy) Star(e sim.Entity) *Star     { return g.stars.Get(e) }
func (g *Galaxy) Fleet(e sim.Entity) *Fleet   { return g.fleets.Get(e) }

func (g *Galaxy) Systems() iter.Seq2[sim.Entity, *System] { return g.systems.All() }
func (g *Galaxy) Stars() iter.Seq2[sim.Entity, *Star]     { return g.stars.All() }
func (g *Galaxy) Fleets() iter.Seq2[sim.Entity, *Fleet]   { return g.fleets.All() }

func (g *Galaxy) SystemCount() int { return g.systems.Len() }
func (g *Galaxy) StarCount() int   { return g.stars.Len() }
func (g *Galaxy) FleetCount() int  { return g.fleets.Len() }

// Tick advances the simulation by dt seconds.
func (g *Galaxy) Tick(dt float64) {
	g.Scheduler.Once(dt)
}

// Run ticks at interval until ctx is cancelled.
func (g *Galaxy) Run(ctx context.Context, interval time.Duration) {
	g.Scheduler.Run(ctx, interval)
}

func (g *Galaxy) moveFleets(frame *sim.UpdateFrame) {
	for e, f := range g.fleets.All() {
		if f.Arrived {
			continue
		}
		pos := g.positions.Get(e)
		if pos == nil {
			continue
		}
		dir := f.Destination.Sub(*pos)
		dist := dir.Len()
		step := f.Speed * frame.DeltaTime
		if dist <= step {
			*pos = f.Destination
			f.Arrived = true
			g.log.Debug("fleet arrived", zap.Stringer("fleet", f.ID), zap.Uint64("tick", frame.Tick))
		} else {
			*pos = pos.Add(dir.Mul(step / dist))
		}
		g.positions.Touch(e)
	}
}

// syncColliders moves the collider of every entity whose position changed.
func (g *Galaxy) syncColliders(frame *sim.UpdateFrame) {
	for e, pos := range g.positions.Changed() {
		if c := g.colliders.Get(e); c != nil {
			g.Spatial.MoveTo(*c, *pos)
		}
	}
	g.positions.ResetChanges()
}

func (g *Galaxy) collide(frame *sim.UpdateFrame) {
	g.Spatial.Step()
	g.contacts = g.contacts[:0]
	for a, b := range g.Spatial.Intersections() {
		if a.IsNil() || b.IsNil() || !g.World.Alive(a) || !g.World.Alive(b) {
			continue
		}
		g.contacts = append(g.contacts, Contact{A: a, B: b})
	}
}

// resetChanges drops change logs nothing consumes.
func (g *Galaxy) resetChanges(frame *sim.UpdateFrame) {
	g.colliders.ResetChanges()
	g.systems.ResetChanges()
	g.stars.ResetChanges()
	g.fleets.ResetChanges()
}

// Restore rebuilds a galaxy from persisted stars. Loading a save is not
// supported yet.
func Restore(ctx context.Context, stars []stargen.Star) (*Galaxy, error) {
	return nil, fmt.Errorf("restore galaxy from %d stars: %w", len(stars), stargen.ErrUnimplemented)
}
