package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/irishsmurf/go-broadside/physics"
)

// Object is anything the World updates each tick.
type Object interface {
	ID() uuid.UUID
	Update(dt float64)
}

// HasBody is implemented by objects that take part in collisions.
type HasBody interface {
	Body() *physics.Body
}

// Emitter is a per-tick effect source attached to an object.
type Emitter interface {
	Update(dt float64)
}

// HasEmitters is implemented by objects that carry emitters.
type HasEmitters interface {
	Emitters() []Emitter
}

// Destructible objects are told when they leave the world.
type Destructible interface {
	Destroyed()
}

// attachable objects get a reference to the world on spawn.
type attachable interface {
	attach(w *World)
}

// Sound names an audio cue.
type Sound string

const (
	SoundCannon Sound = "cannon"
	SoundHit    Sound = "hit"
	SoundSunk   Sound = "sunk"
	SoundSplash Sound = "splash"
)

// Presenter is the render/audio context the World reports to. The World
// never draws or plays anything itself.
type Presenter interface {
	Spawned(obj Object)
	Destroyed(obj Object)
	PlaySound(sound Sound, pos mgl64.Vec3)
}

// NopPresenter ignores everything.
type NopPresenter struct{}

func (NopPresenter) Spawned(Object)              {}
func (NopPresenter) Destroyed(Object)            {}
func (NopPresenter) PlaySound(Sound, mgl64.Vec3) {}

// ShipListener observes a ship's combat events.
type ShipListener interface {
	// OnHit is called when ship is struck by a shot fired by attacker.
	OnHit(ship, attacker *Ship, pos mgl64.Vec3)
	// OnKill is called when ship's shot sinks victim.
	OnKill(ship, victim *Ship)
	// OnDeath is called once when ship starts to sink.
	OnDeath(ship *Ship)
}

// ShipListenerFuncs adapts optional functions to ShipListener. Register
// it by pointer so it can be removed again.
type ShipListenerFuncs struct {
	Hit   func(ship, attacker *Ship, pos mgl64.Vec3)
	Kill  func(ship, victim *Ship)
	Death func(ship *Ship)
}

func (f *ShipListenerFuncs) OnHit(ship, attacker *Ship, pos mgl64.Vec3) {
	if f.Hit != nil {
		f.Hit(ship, attacker, pos)
	}
}

func (f *ShipListenerFuncs) OnKill(ship, victim *Ship) {
	if f.Kill != nil {
		f.Kill(ship, victim)
	}
}

func (f *ShipListenerFuncs) OnDeath(ship *Ship) {
	if f.Death != nil {
		f.Death(ship)
	}
}
