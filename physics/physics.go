package physics

import "github.com/go-gl/mathgl/mgl64"

// Restitution is the coefficient of restitution applied along the
// collision axis.
const Restitution = 0.3

// CollisionFunc observes a resolved collision.
type CollisionFunc func(b1, b2 *Body, overlap mgl64.Vec3)

// Physics holds every registered body and resolves interpenetrations.
// It is not safe for concurrent use.
type Physics struct {
	bodies []*Body

	// OnCollision, if set, is called after each pair is resolved.
	OnCollision CollisionFunc
}

// New returns an empty engine.
func New() *Physics {
	return &Physics{}
}

// Add registers b.
func (p *Physics) Add(b *Body) {
	p.bodies = append(p.bodies, b)
}

// Remove unregisters b. Removing an unknown body is a no-op.
func (p *Physics) Remove(b *Body) {
	for i, o := range p.bodies {
		if o == b {
			p.bodies = append(p.bodies[:i], p.bodies[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered bodies.
func (p *Physics) Len() int {
	return len(p.bodies)
}

// Contains reports whether b is registered.
func (p *Physics) Contains(b *Body) bool {
	for _, o := range p.bodies {
		if o == b {
			return true
		}
	}
	return false
}

// DoCollisions tests every pair once, O(n²), and resolves each overlap.
// It returns the number of collisions handled.
func (p *Physics) DoCollisions() int {
	n := 0
	for i, b1 := range p.bodies {
		for _, b2 := range p.bodies[i+1:] {
			v, ok := b1.Collide(b2)
			if !ok {
				continue
			}
			Resolve(b1, b2, v)
			n++
			if p.OnCollision != nil {
				p.OnCollision(b1, b2, v)
			}
		}
	}
	return n
}

// Resolve separates b1 and b2 and bounces them along the overlap axis.
// overlap is the vector returned by b1.Collide(b2). Both bodies are
// treated as having equal mass.
func Resolve(b1, b2 *Body, overlap mgl64.Vec3) {
	if overlap.Dot(overlap) == 0 {
		return
	}
	p1 := b1.positionable
	p2 := b2.positionable

	direction := overlap.Normalize()
	s1 := direction.Dot(p1.Vel)
	s2 := direction.Dot(p2.Vel)

	// The body doing the approaching takes the larger share of the
	// correction. direction points from b2 to b1.
	frac := SeparationShare(s1, s2)
	p1.Pos = p1.Pos.Add(overlap.Mul(frac))
	p2.Pos = p2.Pos.Sub(overlap.Mul(1 - frac))

	v1 := direction.Mul(s1)
	v2 := direction.Mul(s2)
	total := v1.Add(v2)
	restitution := v2.Sub(v1).Mul(Restitution)
	p1.Vel = p1.Vel.Add(total.Add(restitution).Mul(0.5)).Sub(v1)
	p2.Vel = p2.Vel.Add(total.Sub(restitution).Mul(0.5)).Sub(v2)
}

// SeparationShare returns the fraction of the overlap that the first body
// should move, given both bodies' speeds along the axis pointing from the
// second body to the first. The result is always in [0, 1].
func SeparationShare(s1, s2 float64) float64 {
	a1 := max(0, -s1)
	a2 := max(0, s2)
	if a1+a2 == 0 {
		return 0.5
	}
	return a1 / (a1 + a2)
}
