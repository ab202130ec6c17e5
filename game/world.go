package game

import (
	stlog "log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/irishsmurf/go-broadside/physics"
	"github.com/irishsmurf/go-broadside/sailing"
)

// World owns every live object, the physics engine and the scheduler.
// It is driven from a single goroutine and is not safe for concurrent use.
type World struct {
	cfg       Config
	presenter Presenter
	rng       *rand.Rand
	logger    *stlog.Logger

	physics   *physics.Physics
	scheduler *Scheduler
	objects   []Object
	index     map[uuid.UUID]Object
	emitters  []Emitter

	windAngle float64
}

// NewWorld returns an empty world. A nil presenter, rng or logger is
// replaced by a default.
func NewWorld(cfg Config, presenter Presenter, rng *rand.Rand, logger *stlog.Logger) *World {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = stlog.Default()
	}
	w := &World{
		cfg:       cfg,
		presenter: presenter,
		rng:       rng,
		logger:    logger,
		physics:   physics.New(),
		scheduler: NewScheduler(logger),
		index:     make(map[uuid.UUID]Object),
		windAngle: sailing.MapAngle(cfg.WindAngle),
	}
	w.physics.OnCollision = func(_, _ *physics.Body, _ mgl64.Vec3) {
		collisionsCounter.Inc()
	}
	if cfg.WindVeerInterval > 0 && cfg.WindVeerMax > 0 {
		w.scheduler.Every(uuid.Nil, cfg.WindVeerInterval, func(float64) {
			w.veerWind()
		})
	}
	return w
}

func (w *World) Config() Config            { return w.cfg }
func (w *World) Scheduler() *Scheduler     { return w.scheduler }
func (w *World) Physics() *physics.Physics { return w.physics }
func (w *World) Rand() *rand.Rand          { return w.rng }
func (w *World) Logger() *stlog.Logger     { return w.logger }

// WindAngle is the direction the wind blows towards, in (-π, π].
func (w *World) WindAngle() float64 { return w.windAngle }

// SetWindAngle changes the wind.
func (w *World) SetWindAngle(a float64) {
	w.windAngle = sailing.MapAngle(a)
}

func (w *World) veerWind() {
	delta := (w.rng.Float64()*2 - 1) * w.cfg.WindVeerMax
	w.SetWindAngle(w.windAngle + delta)
	w.logger.Debug("Wind veered", "angle", w.windAngle)
}

// Spawn adds obj to the world. Spawning an object twice is a no-op.
func (w *World) Spawn(obj Object) {
	if _, ok := w.index[obj.ID()]; ok {
		return
	}
	if a, ok := obj.(attachable); ok {
		a.attach(w)
	}
	w.objects = append(w.objects, obj)
	w.index[obj.ID()] = obj
	if b, ok := obj.(HasBody); ok {
		w.physics.Add(b.Body())
	}
	if e, ok := obj.(HasEmitters); ok {
		w.emitters = append(w.emitters, e.Emitters()...)
	}
	objectsGauge.Set(float64(len(w.objects)))
	w.presenter.Spawned(obj)
}

// SpawnShip builds a ship with the world's tuning and spawns it.
func (w *World) SpawnShip(pos mgl64.Vec3, angle float64, faction int) *Ship {
	s := NewShip(pos, angle, faction, w.cfg.Ship, w.cfg.OrdersInterval)
	w.Spawn(s)
	return s
}

// Destroy removes obj along with its body, emitters and every callback it
// scheduled. Destroying an object that is not in the world is a no-op.
func (w *World) Destroy(obj Object) {
	id := obj.ID()
	if _, ok := w.index[id]; !ok {
		return
	}
	delete(w.index, id)
	for i, o := range w.objects {
		if o.ID() == id {
			w.objects = append(w.objects[:i:i], w.objects[i+1:]...)
			break
		}
	}
	if b, ok := obj.(HasBody); ok {
		w.physics.Remove(b.Body())
	}
	if e, ok := obj.(HasEmitters); ok {
		for _, em := range e.Emitters() {
			w.removeEmitter(em)
		}
	}
	w.scheduler.CancelOwner(id)
	objectsGauge.Set(float64(len(w.objects)))
	if d, ok := obj.(Destructible); ok {
		d.Destroyed()
	}
	w.presenter.Destroyed(obj)
}

func (w *World) removeEmitter(em Emitter) {
	for i, e := range w.emitters {
		if e == em {
			w.emitters = append(w.emitters[:i:i], w.emitters[i+1:]...)
			return
		}
	}
}

// Contains reports whether obj is in the world.
func (w *World) Contains(obj Object) bool {
	_, ok := w.index[obj.ID()]
	return ok
}

// Lookup finds an object by id.
func (w *World) Lookup(id uuid.UUID) (Object, bool) {
	o, ok := w.index[id]
	return o, ok
}

// Objects returns a snapshot of the live objects in spawn order.
func (w *World) Objects() []Object {
	return append([]Object(nil), w.objects...)
}

// Ships returns the ships in the world, including those sinking.
func (w *World) Ships() []*Ship {
	var ships []*Ship
	for _, o := range w.objects {
		if s, ok := o.(*Ship); ok {
			ships = append(ships, s)
		}
	}
	return ships
}

// Cannonballs returns the shots in flight.
func (w *World) Cannonballs() []*Cannonball {
	var balls []*Cannonball
	for _, o := range w.objects {
		if c, ok := o.(*Cannonball); ok {
			balls = append(balls, c)
		}
	}
	return balls
}

// Update advances the world by dt seconds. Scheduled callbacks run first,
// then ships, then emitters and collisions, and cannonballs last so that
// shots sweep against hulls in their resolved positions.
func (w *World) Update(dt float64) {
	start := time.Now()

	w.scheduler.Advance(dt)

	var balls []*Cannonball
	for _, o := range w.Objects() {
		if c, ok := o.(*Cannonball); ok {
			balls = append(balls, c)
			continue
		}
		if !w.Contains(o) {
			continue
		}
		o.Update(dt)
	}

	for _, e := range append([]Emitter(nil), w.emitters...) {
		e.Update(dt)
	}

	w.physics.DoCollisions()

	for _, c := range balls {
		if w.Contains(c) {
			c.Update(dt)
		}
	}

	ticksCounter.Inc()
	tickDurationHistogram.Observe(time.Since(start).Seconds())
}

func (w *World) cannonballHit(c *Cannonball, s *Ship, pos mgl64.Vec3) {
	hitsCounter.Inc()
	w.presenter.PlaySound(SoundHit, pos)
	w.Destroy(c)
	s.Hit(c.owner, pos)
}

func (w *World) shipSunk(s *Ship) {
	shipsSunkCounter.Inc()
	w.presenter.PlaySound(SoundSunk, s.Pos)
	w.logger.Info("Ship sunk", "ship", s.Name(), "faction", s.Faction())
	w.scheduler.Once(s.ID(), w.cfg.Ship.SinkDelay, func(float64) {
		w.Destroy(s)
	})
}
