// Package galaxy assembles generated solar systems and fleets into a
// running simulation: entities, identity indexes and spatial colliders.
package galaxy

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/stargen"
)

// Shape describes the galactic disk systems are placed in.
type Shape struct {
	// Radius of the disk in light years.
	Radius float64
	// Thickness bounds |y|.
	Thickness float64
	// MaxStars per system; every system has at least one.
	MaxStars int
}

var DefaultShape = Shape{Radius: 320, Thickness: 3, MaxStars: 3}

// HillSphere approximates the radius a system of the given mass controls.
func HillSphere(mass float64) float64 {
	return math.Cbrt(mass)
}

// SystemStar is a star placed inside a system.
type SystemStar struct {
	Packed ident.PackedId
	stargen.Star
}

// SolarSystem is a generated system before it enters a Galaxy.
type SolarSystem struct {
	ID         ident.PackedId
	Position   mgl64.Vec3
	Mass       float64
	HillSphere float64
	Stars      []SystemStar
}

// SystemGenerator produces solar systems. The Allocator may be shared
// across generators running concurrently; the star generator may not.
type SystemGenerator struct {
	alloc *ident.Allocator
	stars *stargen.Generator
	shape Shape
}

func NewSystemGenerator(alloc *ident.Allocator, stars *stargen.Generator, shape Shape) *SystemGenerator {
	if shape.MaxStars < 1 {
		shape.MaxStars = 1
	}
	return &SystemGenerator{alloc: alloc, stars: stars, shape: shape}
}

// Generate creates one system with 1..MaxStars stars placed uniformly on
// the disk.
func (g *SystemGenerator) Generate() (SolarSystem, error) {
	id, err := g.alloc.Allocate(ident.KindSolarSystem)
	if err != nil {
		return SolarSystem{}, fmt.Errorf("allocate system id: %w", err)
	}

	rng := g.stars.Rand()
	sys := SolarSystem{ID: id, Position: g.place()}

	count := 1 + rng.IntN(g.shape.MaxStars)
	sys.Stars = make([]SystemStar, 0, count)
	for range count {
		star, err := g.stars.Generate()
		if err != nil {
			return SolarSystem{}, fmt.Errorf("generate star for system %s: %w", id, err)
		}
		packed, err := g.alloc.Allocate(ident.KindStar)
		if err != nil {
			return SolarSystem{}, fmt.Errorf("allocate star id: %w", err)
		}
		sys.Stars = append(sys.Stars, SystemStar{Packed: packed, Star: star})
		sys.Mass += star.Mass
	}
	sys.HillSphere = HillSphere(sys.Mass)
	return sys, nil
}

// place draws a uniform point on the disk; y follows a normal distribution
// clipped to the disk thickness.
func (g *SystemGenerator) place() mgl64.Vec3 {
	rng := g.stars.Rand()
	r := g.shape.Radius * math.Sqrt(rng.Float64())
	theta := 2 * math.Pi * rng.Float64()
	h := g.shape.Thickness
	y := min(max(rng.NormFloat64()*h/3, -h), h)
	return mgl64.Vec3{r * math.Cos(theta), y, r * math.Sin(theta)}
}
