package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/irishsmurf/go-broadside/physics"
)

// Gravity acts on cannonballs.
var Gravity = mgl64.Vec3{0, -1, 0}

// Cannonball is a shot in flight. It is a point; collision is by swept
// segment against ship hulls.
type Cannonball struct {
	id    uuid.UUID
	Pos   mgl64.Vec3
	Vel   mgl64.Vec3
	owner *Ship
	world *World
}

// NewCannonball returns a shot fired by owner, which it will never hit.
func NewCannonball(pos, vel mgl64.Vec3, owner *Ship) *Cannonball {
	return &Cannonball{id: uuid.New(), Pos: pos, Vel: vel, owner: owner}
}

func (c *Cannonball) ID() uuid.UUID   { return c.id }
func (c *Cannonball) Owner() *Ship    { return c.owner }
func (c *Cannonball) attach(w *World) { c.world = w }

// Update advances the shot by the trapezoid of its start and end velocity
// and checks the swept path for hulls. A shot that strikes a ship or
// falls below the sea is removed.
func (c *Cannonball) Update(dt float64) {
	if dt <= 0 || c.world == nil {
		return
	}
	u := c.Vel
	c.Vel = c.Vel.Add(Gravity.Mul(dt))
	step := u.Add(c.Vel).Mul(0.5 * dt)

	if step.Len() > 0 {
		seg := physics.NewLineSegment(c.Pos, step)
		var (
			hit     *Ship
			hitPos  mgl64.Vec3
			hitDist float64
		)
		for _, s := range c.world.Ships() {
			if s == c.owner {
				continue
			}
			p, ok := seg.CollideBody(s.Body())
			if !ok {
				continue
			}
			d := p.Sub(c.Pos).Len()
			if hit == nil || d < hitDist {
				hit, hitPos, hitDist = s, p, d
			}
		}
		if hit != nil {
			c.world.cannonballHit(c, hit, hitPos)
			return
		}
	}

	c.Pos = c.Pos.Add(step)
	if c.Pos.Y() < 0 {
		c.world.presenter.PlaySound(SoundSplash, c.Pos)
		c.world.Destroy(c)
	}
}
