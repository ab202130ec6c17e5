package physics

import "github.com/go-gl/mathgl/mgl64"

// Body is a rigid collision shape made of spheres in the local space of
// a Positionable.
type Body struct {
	positionable *Positionable
	shapes       []Sphere
	volume       Sphere
}

// NewBody builds a body over the given shapes. The shape list is copied
// and must not be empty.
func NewBody(p *Positionable, shapes []Sphere) *Body {
	if p == nil {
		panic("physics: body needs a positionable")
	}
	if len(shapes) == 0 {
		panic("physics: body needs at least one shape")
	}
	b := &Body{
		positionable: p,
		shapes:       append([]Sphere(nil), shapes...),
	}
	b.volume = b.boundVolume()
	return b
}

// boundVolume computes the untransformed bounding sphere: the shape
// centroid plus the furthest reach of any shape from it.
func (b *Body) boundVolume() Sphere {
	var centroid mgl64.Vec3
	for _, s := range b.shapes {
		centroid = centroid.Add(s.Centre)
	}
	centroid = centroid.Mul(1.0 / float64(len(b.shapes)))

	r := 0.0
	for _, s := range b.shapes {
		r = max(r, s.Centre.Sub(centroid).Len()+s.Radius)
	}
	return Sphere{Centre: centroid, Radius: r}
}

// Positionable returns the pose this body follows.
func (b *Body) Positionable() *Positionable {
	return b.positionable
}

// LocalBounds returns the cached bounding sphere in local space.
func (b *Body) LocalBounds() Sphere {
	return b.volume
}

// Len returns the number of shapes.
func (b *Body) Len() int {
	return len(b.shapes)
}

// Bounds returns the bounding sphere in world space. The cached bound is
// carried through the full pose, rotation included, so a hull whose
// centroid is off its origin stays enclosed as the ship turns. With an
// identity rotation this is a plain translation.
func (b *Body) Bounds() Sphere {
	p := b.positionable
	return Sphere{Centre: p.LocalToWorld(b.volume.Centre), Radius: b.volume.Radius}
}

// Shapes returns the body's spheres in world space, in construction order.
// Like Bounds they follow the pose's rotation as well as its position.
func (b *Body) Shapes() []Sphere {
	p := b.positionable
	out := make([]Sphere, len(b.shapes))
	for i, s := range b.shapes {
		out[i] = Sphere{Centre: p.LocalToWorld(s.Centre), Radius: s.Radius}
	}
	return out
}

// Collide detects whether o overlaps b.
//
// If they overlap, the returned vector is the separation of the first
// colliding shape pair in iteration order. It points from o's sphere
// towards b's sphere and its length is the overlap, so adding it to b's
// position (or subtracting it from o's) just parts them.
func (b *Body) Collide(o *Body) (mgl64.Vec3, bool) {
	if !b.Bounds().Collides(o.Bounds()) {
		return mgl64.Vec3{}, false
	}

	others := o.Shapes()
	for _, s := range b.Shapes() {
		for _, os := range others {
			if !s.Collides(os) {
				continue
			}
			v := s.Centre.Sub(os.Centre)
			dist := v.Len()
			need := s.Radius + os.Radius
			if dist == 0 {
				// Coincident centres have no direction; push along +x.
				return mgl64.Vec3{need, 0, 0}, true
			}
			return v.Mul((need - dist) / dist), true
		}
	}
	return mgl64.Vec3{}, false
}
