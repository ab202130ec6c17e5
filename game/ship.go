package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/irishsmurf/go-broadside/physics"
	"github.com/irishsmurf/go-broadside/sailing"
)

// Side is a broadside, or a direction of turn.
type Side int

const (
	Port Side = iota
	Starboard
)

func (s Side) String() string {
	if s == Starboard {
		return "starboard"
	}
	return "port"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Port {
		return Starboard
	}
	return Port
}

// ShipState is Alive until the hull is holed through, then Sinking.
type ShipState int

const (
	Alive ShipState = iota
	Sinking
)

func (s ShipState) String() string {
	if s == Sinking {
		return "sinking"
	}
	return "alive"
}

// Gun is a cannon mount in the ship's frame. Y is up and +Z is forward.
type Gun struct {
	Pos mgl64.Vec3
	Vel mgl64.Vec3
}

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}

	// Guns lists the cannon on each side.
	Guns = map[Side][]Gun{
		Port: {
			{Pos: mgl64.Vec3{1.17, 1.44, 1.47}, Vel: mgl64.Vec3{15, 0.2, 0}},
			{Pos: mgl64.Vec3{1.17, 1.44, 0}, Vel: mgl64.Vec3{15, 0.2, 0}},
		},
		Starboard: {
			{Pos: mgl64.Vec3{-1.17, 1.44, 1.47}, Vel: mgl64.Vec3{-15, 0.2, 0}},
			{Pos: mgl64.Vec3{-1.17, 1.44, 0}, Vel: mgl64.Vec3{-15, 0.2, 0}},
		},
	}

	// HullShapes is seven spheres spanning the length of the hull.
	HullShapes = func() []physics.Sphere {
		shapes := make([]physics.Sphere, 0, 7)
		for z := -3; z <= 3; z++ {
			shapes = append(shapes, physics.Sphere{Centre: mgl64.Vec3{0, 1, float64(z)}, Radius: 1.3})
		}
		return shapes
	}()

	sternOffset = mgl64.Vec3{0, 0, -3.5}
)

// Targets are the live ships abeam on either side.
type Targets struct {
	Port      []*Ship
	Starboard []*Ship
}

// Side returns the list for side.
func (t Targets) Side(s Side) []*Ship {
	if s == Starboard {
		return t.Starboard
	}
	return t.Port
}

// Ship is a sailing warship.
type Ship struct {
	physics.Positionable

	id      uuid.UUID
	name    string
	faction int
	params  ShipParams
	body    *physics.Body
	world   *World

	helm *InterpolatingController
	sail *InterpolatingController

	angle float64 // heading about +Y; 0 faces +Z
	roll  float64
	pitch float64
	t     float64

	health        int
	state         ShipState
	lastBroadside Side

	orders    *OrdersQueue
	wake      *WakeEmitter
	listeners []ShipListener
}

// NewShip builds a ship at pos facing angle. ordersInterval is its crew's
// reaction time.
func NewShip(pos mgl64.Vec3, angle float64, faction int, p ShipParams, ordersInterval float64) *Ship {
	s := &Ship{
		id:            uuid.New(),
		faction:       faction,
		params:        p,
		helm:          NewInterpolatingController(0, p.HelmEase),
		sail:          NewInterpolatingController(p.InitialSail, p.SailEase),
		angle:         sailing.MapAngle(angle),
		health:        p.MaxHealth,
		lastBroadside: Port,
	}
	s.Pos = pos
	s.Rot = s.heading()
	s.name = "ship-" + s.id.String()[:8]
	s.body = physics.NewBody(&s.Positionable, HullShapes)
	s.orders = NewOrdersQueue(s, ordersInterval)
	s.wake = NewWakeEmitter(s, p.WakeInterval, p.WakeLength)
	return s
}

func (s *Ship) ID() uuid.UUID                  { return s.id }
func (s *Ship) Name() string                   { return s.name }
func (s *Ship) SetName(name string)            { s.name = name }
func (s *Ship) Faction() int                   { return s.faction }
func (s *Ship) Body() *physics.Body            { return s.body }
func (s *Ship) World() *World                  { return s.world }
func (s *Ship) Emitters() []Emitter            { return []Emitter{s.wake} }
func (s *Ship) Wake() *WakeEmitter             { return s.wake }
func (s *Ship) Orders() *OrdersQueue           { return s.orders }
func (s *Ship) Helm() *InterpolatingController { return s.helm }
func (s *Ship) Sail() *InterpolatingController { return s.sail }
func (s *Ship) Angle() float64                 { return s.angle }
func (s *Ship) Roll() float64                  { return s.roll }
func (s *Ship) Health() int                    { return s.health }
func (s *Ship) MaxHealth() int                 { return s.params.MaxHealth }
func (s *Ship) State() ShipState               { return s.state }
func (s *Ship) Alive() bool                    { return s.state == Alive }
func (s *Ship) LastBroadside() Side            { return s.lastBroadside }

func (s *Ship) attach(w *World) { s.world = w }

// SailLevel is the furl state the model should show, 0..MaxSail.
func (s *Ship) SailLevel() int {
	return int(math.Round(mgl64.Clamp(s.sail.Current(), 0, MaxSail)))
}

// SailSetting is the boom trim for the current wind.
func (s *Ship) SailSetting() float64 {
	if s.world == nil {
		return 0
	}
	return sailing.SailSetting(s.AngleToWind())
}

// AngleToWind is the wind angle relative to the heading, in (-π, π].
func (s *Ship) AngleToWind() float64 {
	if s.world == nil {
		return 0
	}
	return sailing.MapAngle(s.world.WindAngle() - s.angle)
}

func (s *Ship) heading() mgl64.Quat {
	return mgl64.QuatRotate(s.angle, axisY)
}

// Forward is the unit vector the bow points along, on the sea plane.
func (s *Ship) Forward() mgl64.Vec3 {
	return s.heading().Rotate(axisZ)
}

// PortVector is the unit vector to port, on the sea plane.
func (s *Ship) PortVector() mgl64.Vec3 {
	return s.heading().Rotate(axisX)
}

// Speed is the component of velocity along the bow.
func (s *Ship) Speed() float64 {
	return s.Forward().Dot(s.Vel)
}

// SetHelm eases the rudder towards helm (+ve to port). Ignored once the
// ship is sinking.
func (s *Ship) SetHelm(helm float64) {
	if !s.Alive() {
		return
	}
	s.helm.Set(mgl64.Clamp(helm, -MaxHelm, MaxHelm))
}

// SetSail eases the sail towards amount. Ignored once the ship is sinking.
func (s *Ship) SetSail(amount float64) {
	if !s.Alive() {
		return
	}
	s.sail.Set(mgl64.Clamp(amount, 0, MaxSail))
}

// AddListener subscribes l to this ship's events.
func (s *Ship) AddListener(l ShipListener) {
	s.listeners = append(s.listeners, l)
}

// RemoveListener unsubscribes l.
func (s *Ship) RemoveListener(l ShipListener) {
	for i, o := range s.listeners {
		if o == l {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// listenersSnapshot lets listeners unsubscribe while being notified.
func (s *Ship) listenersSnapshot() []ShipListener {
	return append([]ShipListener(nil), s.listeners...)
}

// Update integrates one tick of motion.
func (s *Ship) Update(dt float64) {
	s.t += dt
	p := s.params

	if s.Alive() {
		s.orders.Update(dt)
	} else {
		s.helm.Set(0)
		s.sail.Set(0)
	}
	s.helm.Update(dt)
	s.sail.Update(dt)

	// Decorative bobbing.
	bob := 0.05 * math.Sin(s.t)
	s.pitch = 0.02 * math.Sin(0.31*s.t)

	forward := s.Forward()
	speed := math.Min(forward.Dot(s.Vel), p.SpeedCap)
	angularVelocity := s.helm.Current() * speed * p.TurnRate

	sp := sailing.DefaultParams()
	angleToWind := 0.0
	if s.world != nil {
		sp = s.world.cfg.Sailing
		angleToWind = sailing.MapAngle(s.world.WindAngle() - s.angle)
	}
	power := sp.SailPower(angleToWind)
	heel := sp.HeelingMoment(angleToWind)

	s.roll += (angularVelocity*p.TurnLean - heel*p.HeelFactor*s.sail.Current()) * dt
	s.roll *= math.Pow(p.RollDamping, dt)

	s.angle = sailing.MapAngle(s.angle + angularVelocity*dt)
	q := s.heading()

	accel := q.Rotate(axisZ).Mul(s.sail.Current() * power * p.Thrust)
	s.Vel = s.Vel.Add(accel.Mul(dt)).Mul(math.Pow(p.Drag, dt))
	s.Pos = s.Pos.Add(s.Vel.Mul(dt))
	if s.Alive() {
		s.Pos[1] += -s.Pos[1] * p.Buoyancy * dt
	} else {
		s.Pos[1] -= p.SinkRate * dt
	}

	s.Rot = q.
		Mul(mgl64.QuatRotate(s.pitch, axisX)).
		Mul(mgl64.QuatRotate(s.roll+bob, axisZ))
}

// Targets returns the live ships within rng units and less than lookahead
// units ahead or astern, split by side.
func (s *Ship) Targets(lookahead, rng float64) Targets {
	var t Targets
	if s.world == nil {
		return t
	}
	forward := s.Forward()
	port := s.PortVector()
	range2 := rng * rng
	for _, o := range s.world.Ships() {
		if o == s || !o.Alive() {
			continue
		}
		rel := o.Pos.Sub(s.Pos)
		if math.Abs(rel.Dot(forward)) >= lookahead || rel.Dot(rel) >= range2 {
			continue
		}
		if rel.Dot(port) > 0 {
			t.Port = append(t.Port, o)
		} else {
			t.Starboard = append(t.Starboard, o)
		}
	}
	return t
}

// ChooseBroadside picks the side to fire: the only side with targets, or
// else the side not fired last.
func (s *Ship) ChooseBroadside() Side {
	t := s.Targets(BroadsideLookahead, BroadsideRange)
	hasPort, hasStarboard := len(t.Port) > 0, len(t.Starboard) > 0
	if hasPort != hasStarboard {
		if hasPort {
			return Port
		}
		return Starboard
	}
	return s.lastBroadside.Opposite()
}

// Fire lets off a broadside. Each gun goes off after a short stagger.
// It returns the side fired.
func (s *Ship) Fire() Side {
	side := s.ChooseBroadside()
	if s.world == nil || !s.Alive() {
		return side
	}
	w := s.world
	for i, gun := range Guns[side] {
		gun := gun
		delay := float64(i)*s.params.GunStagger + w.rng.Float64()*s.params.GunStagger*0.5
		w.scheduler.Once(s.id, delay, func(float64) {
			s.fireGun(gun)
		})
	}
	s.lastBroadside = side
	broadsidesCounter.Inc()
	return side
}

func (s *Ship) fireGun(gun Gun) {
	if !s.Alive() || s.world == nil {
		return
	}
	w := s.world
	pos := s.LocalToWorld(gun.Pos)
	v := s.Rot.Rotate(gun.Vel)
	// Keep the gun's own elevation so a rolling hull doesn't lob shot
	// into the sky or the sea.
	v[1] = gun.Vel[1]

	j := s.params.AimJitter
	v[0] += (w.rng.Float64() - 0.5) * j
	v[1] += (w.rng.Float64() - 0.5) * j * 0.1
	v[2] += (w.rng.Float64() - 0.5) * j

	w.Spawn(NewCannonball(pos, v, s))
	w.presenter.PlaySound(SoundCannon, pos)
	shotsCounter.Inc()
}

// Hit reports a cannonball strike at pos from attacker and applies one
// point of damage. It returns true if the hit sank the ship.
func (s *Ship) Hit(attacker *Ship, pos mgl64.Vec3) bool {
	for _, l := range s.listenersSnapshot() {
		l.OnHit(s, attacker, pos)
	}
	killed := s.Damage(1)
	if killed && attacker != nil {
		for _, l := range attacker.listenersSnapshot() {
			l.OnKill(attacker, s)
		}
	}
	return killed
}

// Damage takes amount off the ship's health. It returns true if this
// sank the ship, and false for a ship that was already sinking.
func (s *Ship) Damage(amount int) bool {
	if !s.Alive() {
		return false
	}
	s.health -= amount
	if s.health > 0 {
		return false
	}
	s.sink()
	return true
}

func (s *Ship) sink() {
	s.state = Sinking
	s.helm.Set(0)
	s.sail.Set(0)
	for _, l := range s.listenersSnapshot() {
		l.OnDeath(s)
	}
	if s.world != nil {
		s.world.shipSunk(s)
	}
}
