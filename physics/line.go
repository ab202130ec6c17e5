package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LineSegment is a ray of finite length, used to sweep projectiles.
type LineSegment struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3 // unit length
	Length    float64
	bounds    Sphere
}

// NewLineSegment builds a segment from pos along vec. vec must not be zero.
func NewLineSegment(pos, vec mgl64.Vec3) LineSegment {
	length := vec.Len()
	if length == 0 {
		panic("physics: zero-length line segment")
	}
	dir := vec.Mul(1.0 / length)
	r := length * 0.5
	return LineSegment{
		Origin:    pos,
		Direction: dir,
		Length:    length,
		bounds:    Sphere{Centre: pos.Add(dir.Mul(r)), Radius: r},
	}
}

// LineSegmentFromPoints builds the segment from a to b.
func LineSegmentFromPoints(a, b mgl64.Vec3) LineSegment {
	return NewLineSegment(a, b.Sub(a))
}

// Bounds returns the sphere whose diameter is the segment.
func (l LineSegment) Bounds() Sphere {
	return l.bounds
}

// End returns the far end of the segment.
func (l LineSegment) End() mgl64.Vec3 {
	return l.Origin.Add(l.Direction.Mul(l.Length))
}

// FirstIntersection finds where the segment first enters s. It returns
// the distance along the segment and the world point. A segment that
// starts inside s intersects at distance 0.
func (l LineSegment) FirstIntersection(s Sphere) (float64, mgl64.Vec3, bool) {
	co := l.Origin.Sub(s.Centre)
	b := l.Direction.Dot(co)
	discriminant := b*b - co.Dot(co) + s.Radius*s.Radius
	if discriminant < 0 {
		return 0, mgl64.Vec3{}, false
	}

	sq := math.Sqrt(discriminant)
	d1 := -b - sq
	if d1 > l.Length {
		return 0, mgl64.Vec3{}, false
	}
	d2 := -b + sq
	if d2 < 0 {
		return 0, mgl64.Vec3{}, false
	}
	if d1 < 0 {
		return 0, l.Origin, true
	}
	return d1, l.Origin.Add(l.Direction.Mul(d1)), true
}

// CollideBody returns the closest point where the segment meets any of
// body's shapes.
func (l LineSegment) CollideBody(body *Body) (mgl64.Vec3, bool) {
	if !l.bounds.Collides(body.Bounds()) {
		return mgl64.Vec3{}, false
	}
	var (
		pos   mgl64.Vec3
		found bool
		mind  = math.Inf(1)
	)
	for _, s := range body.Shapes() {
		d, p, ok := l.FirstIntersection(s)
		if !ok {
			continue
		}
		if d < mind {
			pos, mind, found = p, d, true
		}
	}
	return pos, found
}
