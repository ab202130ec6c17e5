package ai

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/irishsmurf/go-broadside/game"
	"github.com/irishsmurf/go-broadside/sailing"
)

// ShotCone is how far ahead or astern of the beam, in units, a target may
// be for a broadside to bear.
const ShotCone = 6.0

// AbsoluteBearing is the heading that points from from to to, measured on
// the sea plane the same way as ship angles.
func AbsoluteBearing(from, to mgl64.Vec3) float64 {
	d := to.Sub(from)
	return math.Atan2(d.X(), d.Z())
}

// RelativeBearing is the angle of pos off ship's bow, in (-π, π]. +ve is
// to port.
func RelativeBearing(ship *game.Ship, pos mgl64.Vec3) float64 {
	return sailing.MapAngle(AbsoluteBearing(ship.Pos, pos) - ship.Angle())
}

// HaveShot reports whether target is abeam closely enough for a broadside.
func HaveShot(ship, target *game.Ship) bool {
	return math.Abs(ship.Forward().Dot(target.Pos.Sub(ship.Pos))) < ShotCone
}

// IsAligned reports whether the two ships are sailing the same way.
func IsAligned(ship, target *game.Ship) bool {
	return ship.Forward().Dot(target.Forward()) > 0.7
}

// IsCrossing reports whether the two ships are sailing opposite ways.
func IsCrossing(ship, target *game.Ship) bool {
	return ship.Forward().Dot(target.Forward()) < -0.7
}

// HelmFor maps a heading error to one of the discrete helm strengths.
func HelmFor(err float64) int {
	mag := math.Abs(err)
	sign := 1
	if err < 0 {
		sign = -1
	}
	switch {
	case mag < 0.1:
		return 0
	case mag < 0.5:
		return sign
	case mag < 1.5:
		return sign * 2
	default:
		return sign * game.MaxHelm
	}
}

// ClampToWind moves bearing out of the no-go cone of half-width deadZone
// around upwind, to whichever edge is nearer.
func ClampToWind(bearing, windAngle, deadZone float64) float64 {
	upwind := sailing.MapAngle(windAngle + math.Pi)
	rel := sailing.MapAngle(upwind - bearing)
	if math.Abs(rel) >= deadZone {
		return bearing
	}
	if rel > 0 {
		return sailing.MapAngle(upwind - deadZone)
	}
	return sailing.MapAngle(upwind + deadZone)
}
