// Package sailing holds the heuristics that turn the angle between a
// ship's heading and the wind into drive and heel.
//
// Angles are measured as wind angle minus heading. An angle of 0 means
// the wind is dead astern (running); ±π is dead upwind.
package sailing

import "math"

const tau = 2 * math.Pi

// MapAngle wraps a into (-π, π].
func MapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, tau)
	if a <= 0 {
		a += tau
	}
	return a - math.Pi
}

// Params is the tuning table for the sailing curves.
type Params struct {
	// DeadZone is the half-width, in radians, of the cone around dead
	// upwind where the sails cannot draw.
	DeadZone float64 `mapstructure:"deadZone"`
	// DeadZonePower is the drive left over inside the dead zone.
	DeadZonePower float64 `mapstructure:"deadZonePower"`
	// Power curve: PowerA·sin²θ + PowerB·cosθ + PowerC.
	PowerA float64 `mapstructure:"powerA"`
	PowerB float64 `mapstructure:"powerB"`
	PowerC float64 `mapstructure:"powerC"`
	// HeelK scales the sin(3θ/2) term of the heeling curve.
	HeelK float64 `mapstructure:"heelK"`
}

// DefaultParams gives full drive on a beam reach, 0.6 running and 0.2
// inside a ±20° cone around dead upwind.
func DefaultParams() Params {
	return Params{
		DeadZone:      20 * math.Pi / 180,
		DeadZonePower: 0.2,
		PowerA:        0.4,
		PowerB:        0,
		PowerC:        0.6,
		HeelK:         0.25,
	}
}

// InDeadZone reports whether angle points the bow into the wind.
func (p Params) InDeadZone(angle float64) bool {
	return math.Abs(MapAngle(angle)) > math.Pi-p.DeadZone
}

// SailPower approximates how much drive the sails get at angle.
func (p Params) SailPower(angle float64) float64 {
	if p.InDeadZone(angle) {
		return p.DeadZonePower
	}
	s := math.Sin(angle)
	return p.PowerA*s*s + p.PowerB*math.Cos(angle) + p.PowerC
}

// HeelingMoment approximates the wind's capsizing torque at angle. It is
// zero running and in the dead zone and odd in angle.
func (p Params) HeelingMoment(angle float64) float64 {
	a := MapAngle(angle)
	if p.InDeadZone(a) {
		return 0
	}
	return math.Sin(0.5*a) - p.HeelK*math.Sin(1.5*a)
}

// SailSetting is the trim of the boom, for display only.
func SailSetting(angle float64) float64 {
	return math.Sin(angle)
}

// SailPower evaluates DefaultParams().SailPower.
func SailPower(angle float64) float64 {
	return DefaultParams().SailPower(angle)
}

// HeelingMoment evaluates DefaultParams().HeelingMoment.
func HeelingMoment(angle float64) float64 {
	return DefaultParams().HeelingMoment(angle)
}
