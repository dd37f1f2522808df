package collision

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"
)

// ColliderSet owns every collider of a simulation and records which ones
// changed since the last pipeline step.
type ColliderSet struct {
	arena    arena[Collider]
	modified []Handle
	removed  []Handle
}

func NewColliderSet() *ColliderSet {
	return &ColliderSet{}
}

// Insert adds a collider without a parent body.
func (s *ColliderSet) Insert(c Collider) Handle {
	c.parent, c.hasParent = InvalidBodyHandle, false
	c.modified = true
	h := s.arena.insert(c)
	s.modified = append(s.modified, h)
	return h
}

// InsertWithParent adds a collider attached to a body in bodies. The
// collider is inserted detached when parent is not a live body.
func (s *ColliderSet) InsertWithParent(c Collider, parent BodyHandle, bodies *RigidBodySet) Handle {
	body := bodies.Get(parent)
	if body == nil {
		return s.Insert(c)
	}
	c.parent, c.hasParent = parent, true
	c.modified = true
	h := s.arena.insert(c)
	s.modified = append(s.modified, h)
	body.colliders = append(body.colliders, h)
	return h
}

// Get returns the collider for h, or nil when h is stale.
func (s *ColliderSet) Get(h Handle) *Collider {
	return s.arena.get(h)
}

// GetMut returns the collider for h and flags it for the next step.
func (s *ColliderSet) GetMut(h Handle) *Collider {
	c := s.arena.get(h)
	if c == nil {
		return nil
	}
	if !c.modified {
		c.modified = true
		s.modified = append(s.modified, h)
	}
	return c
}

func (s *ColliderSet) Contains(h Handle) bool {
	return s.arena.get(h) != nil
}

// Remove deletes the collider and detaches it from its parent body. With
// wakeUp set the parent body is woken in islands.
func (s *ColliderSet) Remove(h Handle, islands *IslandManager, bodies *RigidBodySet, wakeUp bool) (Collider, bool) {
	c, ok := s.arena.remove(h)
	if !ok {
		return c, false
	}
	if c.hasParent {
		if body := bodies.Get(c.parent); body != nil {
			body.detach(h)
			if wakeUp {
				islands.WakeUp(bodies, c.parent)
			}
		}
	}
	s.removed = append(s.removed, h)
	return c, true
}

func (s *ColliderSet) Len() int {
	return s.arena.len
}

func (s *ColliderSet) Iter() iter.Seq2[Handle, *Collider] {
	return s.arena.all()
}

// drain hands the removed and modified logs to the pipeline and clears them.
func (s *ColliderSet) drain() (removed, modified []Handle) {
	removed, modified = s.removed, s.modified
	s.removed, s.modified = nil, nil
	for _, h := range modified {
		if c := s.arena.get(h); c != nil {
			c.modified = false
		}
	}
	return removed, modified
}

// RigidBody is a body that colliders can be attached to.
type RigidBody struct {
	bodyType    BodyType
	translation mgl64.Vec3
	colliders   []Handle
	sleeping    bool
}

func NewRigidBody(t BodyType, translation mgl64.Vec3) RigidBody {
	return RigidBody{bodyType: t, translation: translation}
}

func (b *RigidBody) Type() BodyType          { return b.bodyType }
func (b *RigidBody) Translation() mgl64.Vec3 { return b.translation }
func (b *RigidBody) Colliders() []Handle     { return b.colliders }
func (b *RigidBody) IsSleeping() bool        { return b.sleeping }

func (b *RigidBody) Sleep() { b.sleeping = true }

func (b *RigidBody) detach(h Handle) {
	for i, attached := range b.colliders {
		if attached == h {
			last := len(b.colliders) - 1
			b.colliders[i] = b.colliders[last]
			b.colliders = b.colliders[:last]
			return
		}
	}
}

// RigidBodySet owns the bodies of a simulation.
type RigidBodySet struct {
	arena arena[RigidBody]
}

func NewRigidBodySet() *RigidBodySet {
	return &RigidBodySet{}
}

func (s *RigidBodySet) Insert(b RigidBody) BodyHandle {
	return BodyHandle(s.arena.insert(b))
}

func (s *RigidBodySet) Get(h BodyHandle) *RigidBody {
	return s.arena.get(Handle(h))
}

func (s *RigidBodySet) Len() int {
	return s.arena.len
}

// bodyType of the collider's parent, Fixed when detached.
func (s *RigidBodySet) bodyType(c *Collider) BodyType {
	if !c.hasParent {
		return Fixed
	}
	if body := s.Get(c.parent); body != nil {
		return body.bodyType
	}
	return Fixed
}

// IslandManager tracks which dynamic bodies are awake.
type IslandManager struct {
	awake map[BodyHandle]struct{}
}

func NewIslandManager() *IslandManager {
	return &IslandManager{awake: make(map[BodyHandle]struct{})}
}

// WakeUp marks a dynamic body as active. Fixed bodies never wake.
func (m *IslandManager) WakeUp(bodies *RigidBodySet, h BodyHandle) {
	body := bodies.Get(h)
	if body == nil || body.bodyType != Dynamic {
		return
	}
	body.sleeping = false
	m.awake[h] = struct{}{}
}

func (m *IslandManager) IsAwake(h BodyHandle) bool {
	_, ok := m.awake[h]
	return ok
}

func (m *IslandManager) AwakeLen() int {
	return len(m.awake)
}
