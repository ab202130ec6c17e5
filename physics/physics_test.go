package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hullShapes() []Sphere {
	shapes := make([]Sphere, 0, 7)
	for z := -3; z <= 3; z++ {
		shapes = append(shapes, Sphere{mgl64.Vec3{0, 1, float64(z)}, 1.3})
	}
	return shapes
}

func TestDoCollisionsDetects(t *testing.T) {
	shapes := []Sphere{UnitSphere()}
	p := New()
	b1 := NewBody(NewPositionable(mgl64.Vec3{1.75, 0, 0}), shapes)
	b2 := NewBody(NewPositionable(mgl64.Vec3{}), shapes)
	p.Add(b1)
	p.Add(b2)

	var calls int
	var got mgl64.Vec3
	p.OnCollision = func(a, b *Body, overlap mgl64.Vec3) {
		calls++
		assert.Same(t, b1, a)
		assert.Same(t, b2, b)
		got = overlap
	}
	assert.Equal(t, 1, p.DoCollisions())
	assert.Equal(t, 1, calls)
	assert.True(t, got.ApproxEqualThreshold(mgl64.Vec3{0.25, 0, 0}, 1e-12), "got %v", got)
}

func TestResolveCollision(t *testing.T) {
	shapes := []Sphere{UnitSphere()}
	p := New()
	pos1 := &Positionable{Pos: mgl64.Vec3{-1.75, 0, 0}, Rot: mgl64.QuatIdent(), Vel: mgl64.Vec3{1, 0, 0}}
	pos2 := NewPositionable(mgl64.Vec3{})
	p.Add(NewBody(pos1, shapes))
	p.Add(NewBody(pos2, shapes))

	p.DoCollisions()

	assert.True(t, pos1.Pos.ApproxEqualThreshold(mgl64.Vec3{-2, 0, 0}, 1e-12), "got %v", pos1.Pos)
	assert.True(t, pos2.Pos.ApproxEqualThreshold(mgl64.Vec3{}, 1e-12), "got %v", pos2.Pos)
	assert.True(t, pos1.Vel.ApproxEqualThreshold(mgl64.Vec3{0.35, 0, 0}, 1e-12), "got %v", pos1.Vel)
	assert.True(t, pos2.Vel.ApproxEqualThreshold(mgl64.Vec3{0.65, 0, 0}, 1e-12), "got %v", pos2.Vel)
}

func TestResolveCollisionStatic(t *testing.T) {
	shapes := []Sphere{UnitSphere()}
	p := New()
	pos1 := NewPositionable(mgl64.Vec3{0.5, 0, 0})
	pos2 := NewPositionable(mgl64.Vec3{-0.5, 0, 0})
	p.Add(NewBody(pos1, shapes))
	p.Add(NewBody(pos2, shapes))

	p.DoCollisions()

	assert.True(t, pos1.Pos.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-12), "got %v", pos1.Pos)
	assert.True(t, pos2.Pos.ApproxEqualThreshold(mgl64.Vec3{-1, 0, 0}, 1e-12), "got %v", pos2.Pos)
	assert.Equal(t, mgl64.Vec3{}, pos1.Vel)
	assert.Equal(t, mgl64.Vec3{}, pos2.Vel)
}

func TestResolveHeadOnReducesClosingSpeed(t *testing.T) {
	shapes := []Sphere{UnitSphere()}
	pos1 := &Positionable{Pos: mgl64.Vec3{-0.9, 0, 0}, Rot: mgl64.QuatIdent(), Vel: mgl64.Vec3{2, 0, 0}}
	pos2 := &Positionable{Pos: mgl64.Vec3{0.9, 0, 0}, Rot: mgl64.QuatIdent(), Vel: mgl64.Vec3{-2, 0, 0}}
	b1 := NewBody(pos1, shapes)
	b2 := NewBody(pos2, shapes)

	overlap, ok := b1.Collide(b2)
	require.True(t, ok)
	dir := overlap.Normalize()
	frac := SeparationShare(dir.Dot(pos1.Vel), dir.Dot(pos2.Vel))
	assert.InDelta(t, 0.5, frac, 1e-12)

	closingBefore := pos1.Vel.Sub(pos2.Vel).Dot(pos2.Pos.Sub(pos1.Pos).Normalize())
	Resolve(b1, b2, overlap)
	closingAfter := pos1.Vel.Sub(pos2.Vel).Dot(pos2.Pos.Sub(pos1.Pos).Normalize())

	assert.Less(t, closingAfter, closingBefore)
	assert.LessOrEqual(t, closingAfter, 0.0, "bodies should be separating")
	assert.InDelta(t, 2.0, pos2.Pos.Sub(pos1.Pos).Len(), 1e-9)
}

func TestSeparationShareRange(t *testing.T) {
	speeds := []float64{-3, -1, -0.25, 0, 0.25, 1, 3}
	for _, s1 := range speeds {
		for _, s2 := range speeds {
			f := SeparationShare(s1, s2)
			assert.GreaterOrEqual(t, f, 0.0, "s1=%v s2=%v", s1, s2)
			assert.LessOrEqual(t, f, 1.0, "s1=%v s2=%v", s1, s2)
		}
	}
}

func TestHullsSeparateAfterOneResolution(t *testing.T) {
	p := New()
	pos1 := NewPositionable(mgl64.Vec3{0, 0, 0})
	pos2 := NewPositionable(mgl64.Vec3{2, 0, 0})
	p.Add(NewBody(pos1, hullShapes()))
	p.Add(NewBody(pos2, hullShapes()))

	require.Equal(t, 1, p.DoCollisions())
	assert.GreaterOrEqual(t, pos2.Pos.Sub(pos1.Pos).Len(), 2.6-1e-9)
}

func TestPhysicsRemove(t *testing.T) {
	p := New()
	b := NewBody(NewPositionable(mgl64.Vec3{}), []Sphere{UnitSphere()})
	p.Add(b)
	require.True(t, p.Contains(b))
	p.Remove(b)
	assert.False(t, p.Contains(b))
	assert.Equal(t, 0, p.Len())
	p.Remove(b)
}
