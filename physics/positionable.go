package physics

import "github.com/go-gl/mathgl/mgl64"

// Positionable is the mutable pose of an entity. Entities own one and
// hand a pointer to their Body.
type Positionable struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
	Vel mgl64.Vec3
}

// NewPositionable returns a stationary pose at pos with identity rotation.
func NewPositionable(pos mgl64.Vec3) *Positionable {
	return &Positionable{Pos: pos, Rot: mgl64.QuatIdent()}
}

// LocalToWorld maps a point in the entity's frame to world space.
func (p *Positionable) LocalToWorld(v mgl64.Vec3) mgl64.Vec3 {
	return p.Rot.Rotate(v).Add(p.Pos)
}

// Matrix returns the translate * rotate model matrix.
func (p *Positionable) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(p.Pos[0], p.Pos[1], p.Pos[2]).Mul4(p.Rot.Mat4())
}
