package collision

import (
	"github.com/go-gl/mathgl/mgl64"
)

// UserData is an opaque 128-bit slot carried by each collider.
type UserData struct {
	Hi, Lo uint64
}

// BodyType is the motion model of the body a collider is attached to.
// Colliders without a parent body are Fixed.
type BodyType uint8

const (
	Fixed BodyType = iota
	Dynamic
)

// ActiveCollisionTypes selects which body type combinations a collider
// takes part in.
type ActiveCollisionTypes uint8

const (
	DynamicDynamic ActiveCollisionTypes = 1 << iota
	DynamicFixed
	FixedFixed

	DefaultActiveCollisionTypes = DynamicDynamic | DynamicFixed
)

// Test reports whether a pair of bodies with types a and b is enabled.
func (t ActiveCollisionTypes) Test(a, b BodyType) bool {
	switch {
	case a == Fixed && b == Fixed:
		return t&FixedFixed != 0
	case a == Dynamic && b == Dynamic:
		return t&DynamicDynamic != 0
	default:
		return t&DynamicFixed != 0
	}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl64.Vec3
}

// Intersects reports whether the two boxes overlap or touch.
func (b AABB) Intersects(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

// Collider is a ball shape placed in world space.
type Collider struct {
	radius      float64
	translation mgl64.Vec3
	sensor      bool
	activeTypes ActiveCollisionTypes
	userData    UserData

	parent    BodyHandle
	hasParent bool
	modified  bool
}

func (c *Collider) Radius() float64              { return c.radius }
func (c *Collider) Translation() mgl64.Vec3      { return c.translation }
func (c *Collider) IsSensor() bool               { return c.sensor }
func (c *Collider) UserData() UserData           { return c.userData }
func (c *Collider) Active() ActiveCollisionTypes { return c.activeTypes }

// SetTranslation moves the collider. Obtain the collider through
// ColliderSet.GetMut so the broad phase refreshes its proxy.
func (c *Collider) SetTranslation(t mgl64.Vec3) {
	c.translation = t
}

func (c *Collider) SetUserData(data UserData) {
	c.userData = data
}

// Parent returns the body the collider is attached to, if any.
func (c *Collider) Parent() (BodyHandle, bool) {
	return c.parent, c.hasParent
}

// AABB returns the collider's bounds grown by margin on every side.
func (c *Collider) AABB(margin float64) AABB {
	r := c.radius + margin
	ext := mgl64.Vec3{r, r, r}
	return AABB{Min: c.translation.Sub(ext), Max: c.translation.Add(ext)}
}

// ColliderBuilder assembles a Collider.
type ColliderBuilder struct {
	c Collider
}

// Ball starts a ball collider with the given radius.
func Ball(radius float64) *ColliderBuilder {
	return &ColliderBuilder{c: Collider{
		radius:      radius,
		activeTypes: DefaultActiveCollisionTypes,
	}}
}

// Sensor marks the collider as reporting overlaps without exerting force.
func (b *ColliderBuilder) Sensor(sensor bool) *ColliderBuilder {
	b.c.sensor = sensor
	return b
}

func (b *ColliderBuilder) ActiveCollisionTypes(t ActiveCollisionTypes) *ColliderBuilder {
	b.c.activeTypes = t
	return b
}

func (b *ColliderBuilder) UserData(data UserData) *ColliderBuilder {
	b.c.userData = data
	return b
}

func (b *ColliderBuilder) Translation(t mgl64.Vec3) *ColliderBuilder {
	b.c.translation = t
	return b
}

func (b *ColliderBuilder) Build() Collider {
	return b.c
}
