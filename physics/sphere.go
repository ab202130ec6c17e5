// Package physics is a crude collision engine built from spheres.
//
// Spheres are very cheap to test against one another, so every body is
// described as a handful of them. Detection is a two-stage affair: each
// body's bounding sphere rejects distant pairs before the per-shape tests
// run.
package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// sphereEpsilon is the tolerance used by Sphere.Equal.
const sphereEpsilon = 1e-6

// Sphere is an immutable centre and radius.
type Sphere struct {
	Centre mgl64.Vec3
	Radius float64
}

// UnitSphere returns a sphere of radius 1 at the origin.
func UnitSphere() Sphere {
	return Sphere{Radius: 1}
}

// Collides reports whether s overlaps o. Touching spheres collide.
func (s Sphere) Collides(o Sphere) bool {
	d := s.Centre.Sub(o.Centre)
	r := s.Radius + o.Radius
	return d.Dot(d) <= r*r
}

// Contains reports whether p lies within the closed sphere.
func (s Sphere) Contains(p mgl64.Vec3) bool {
	d := s.Centre.Sub(p)
	return d.Dot(d) <= s.Radius*s.Radius
}

// Equal reports whether o describes the same sphere within 1e-6.
func (s Sphere) Equal(o Sphere) bool {
	return s.Centre.Sub(o.Centre).Len() < sphereEpsilon &&
		math.Abs(s.Radius-o.Radius) < sphereEpsilon
}

// Translated returns the sphere moved by v.
func (s Sphere) Translated(v mgl64.Vec3) Sphere {
	return Sphere{Centre: s.Centre.Add(v), Radius: s.Radius}
}

// Transformed returns the sphere with its centre transformed by m.
// The radius is not affected, so m should be a rigid transformation.
func (s Sphere) Transformed(m mgl64.Mat4) Sphere {
	return Sphere{Centre: m.Mul4x1(s.Centre.Vec4(1)).Vec3(), Radius: s.Radius}
}

func (s Sphere) String() string {
	return fmt.Sprintf("Sphere(%v, %g)", s.Centre, s.Radius)
}
