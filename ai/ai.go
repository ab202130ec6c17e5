// Package ai captains computer-controlled ships.
package ai

import (
	stlog "log/slog"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/irishsmurf/go-broadside/game"
	"github.com/irishsmurf/go-broadside/sailing"
)

// Params tunes the AI.
type Params struct {
	StrategyInterval float64 `mapstructure:"strategyInterval"` // seconds between strategy reviews
	CloseQuarters    float64 `mapstructure:"closeQuarters"`    // distance at which to turn for guns
	FiringRange      float64 `mapstructure:"firingRange"`      // beyond this, turning for guns is abandoned
	FireCooldown     float64 `mapstructure:"fireCooldown"`     // seconds between broadsides
	DeadZone         float64 `mapstructure:"deadZone"`         // half-width of the no-go cone, radians
}

// DefaultParams returns the canonical tuning.
func DefaultParams() Params {
	return Params{
		StrategyInterval: 5,
		CloseQuarters:    20,
		FiringRange:      30,
		FireCooldown:     1,
		DeadZone:         0.35,
	}
}

const (
	turnForGunsInterval = 0.1
	sailInterval        = 1.0
)

// Target acquisition tiers: a narrow long look first, then a wide one.
var targetTiers = []struct{ lookahead, rng float64 }{
	{15, 30},
	{70, 70},
}

// StrategyKind names what the AI is currently trying to do.
type StrategyKind int

const (
	HoldCourse StrategyKind = iota
	SailToPoint
	SailTowards
	TurnForGuns
)

func (k StrategyKind) String() string {
	switch k {
	case SailToPoint:
		return "SailToPoint"
	case SailTowards:
		return "SailTowards"
	case TurnForGuns:
		return "TurnForGuns"
	}
	return "HoldCourse"
}

// ShipAI is a reactive captain for one ship. Every callback it schedules
// is owned by the ship, so removing the ship from the world silences it.
type ShipAI struct {
	ship   *game.Ship
	world  *game.World
	helm   Helmsman
	params Params
	rng    *rand.Rand
	logger *stlog.Logger

	// Aggressive ships go looking for trouble; the rest hold their course
	// until attacked.
	aggressive bool

	strategy      StrategyKind
	strategyToken game.Token
	reviewToken   game.Token
	hasStrategy   bool

	target         *game.Ship
	targetListener *game.ShipListenerFuncs
	shipListener   *game.ShipListenerFuncs
	targetPoint    *mgl64.Vec3

	readyToFire   bool
	cooldownToken game.Token
	running       bool
}

// New returns an AI for ship, which must already be in a world. A nil helm
// works the ship's controls directly.
func New(ship *game.Ship, helm Helmsman, params Params, rng *rand.Rand, logger *stlog.Logger) *ShipAI {
	if ship.World() == nil {
		panic("ai: ship is not in a world")
	}
	if helm == nil {
		helm = DirectHelm{Ship: ship}
	}
	if rng == nil {
		rng = ship.World().Rand()
	}
	if logger == nil {
		logger = stlog.Default()
	}
	a := &ShipAI{
		ship:        ship,
		world:       ship.World(),
		helm:        helm,
		params:      params,
		rng:         rng,
		logger:      logger.With("component", "ai", "ship", ship.Name()),
		aggressive:  rng.Intn(2) == 1,
		readyToFire: true,
	}
	a.targetListener = &game.ShipListenerFuncs{Death: a.onTargetDeath}
	a.shipListener = &game.ShipListenerFuncs{Hit: a.onHit, Death: a.onDeath}
	return a
}

func (a *ShipAI) Ship() *game.Ship         { return a.ship }
func (a *ShipAI) Target() *game.Ship       { return a.target }
func (a *ShipAI) Strategy() StrategyKind   { return a.strategy }
func (a *ShipAI) Aggressive() bool         { return a.aggressive }
func (a *ShipAI) SetAggressive(v bool)     { a.aggressive = v }
func (a *ShipAI) Running() bool            { return a.running }
func (a *ShipAI) TargetPoint() *mgl64.Vec3 { return a.targetPoint }

// Start begins holding course and reviewing strategy periodically.
func (a *ShipAI) Start() {
	if a.running {
		return
	}
	a.running = true
	a.ship.AddListener(a.shipListener)
	a.reviewToken = a.world.Scheduler().Every(a.ship.ID(), a.params.StrategyInterval, func(float64) {
		a.ConsiderStrategy()
	})
	a.changeStrategy(HoldCourse)
}

// Stop unschedules everything and detaches from the ship and its target.
// It is safe to call more than once.
func (a *ShipAI) Stop() {
	if !a.running {
		return
	}
	a.running = false
	s := a.world.Scheduler()
	s.Cancel(a.reviewToken)
	if a.hasStrategy {
		s.Cancel(a.strategyToken)
		a.hasStrategy = false
	}
	s.Cancel(a.cooldownToken)
	a.ship.RemoveListener(a.shipListener)
	a.clearTarget()
	a.logger.Debug("AI stopped")
}

func (a *ShipAI) onDeath(*game.Ship) {
	a.Stop()
}

// onHit turns on whoever fired, even mid-manoeuvre.
func (a *ShipAI) onHit(ship, attacker *game.Ship, _ mgl64.Vec3) {
	if attacker == nil || attacker.Faction() == ship.Faction() || !attacker.Alive() {
		return
	}
	a.SetTarget(attacker)
	a.ConsiderStrategy()
}

func (a *ShipAI) onTargetDeath(*game.Ship) {
	a.clearTarget()
	a.ConsiderStrategy()
}

// SetTarget makes t the current target and watches for its death.
func (a *ShipAI) SetTarget(t *game.Ship) {
	if t == a.target {
		return
	}
	a.clearTarget()
	a.target = t
	t.AddListener(a.targetListener)
}

func (a *ShipAI) clearTarget() {
	if a.target == nil {
		return
	}
	a.target.RemoveListener(a.targetListener)
	a.target = nil
}

// PickTarget chooses uniformly among enemy ships in the first sensor tier
// that has any. The current target is kept if none are found.
func (a *ShipAI) PickTarget() *game.Ship {
	for _, tier := range targetTiers {
		t := a.ship.Targets(tier.lookahead, tier.rng)
		var eligible []*game.Ship
		for _, side := range [][]*game.Ship{t.Port, t.Starboard} {
			for _, s := range side {
				if s.Faction() != a.ship.Faction() {
					eligible = append(eligible, s)
				}
			}
		}
		if len(eligible) > 0 {
			a.SetTarget(eligible[a.rng.Intn(len(eligible))])
			return a.target
		}
	}
	return a.target
}

// ConsiderStrategy reviews the situation and picks a strategy.
func (a *ShipAI) ConsiderStrategy() {
	if !a.running {
		return
	}
	if !a.world.Contains(a.ship) || !a.ship.Alive() {
		a.Stop()
		return
	}
	if a.target != nil && (!a.target.Alive() || !a.world.Contains(a.target)) {
		a.clearTarget()
	}
	if a.aggressive {
		a.PickTarget()
	}
	switch {
	case a.target != nil && a.distTo(a.target.Pos) < a.params.CloseQuarters:
		a.changeStrategy(TurnForGuns)
	case a.target != nil:
		a.changeStrategy(SailTowards)
	case a.aggressive:
		a.changeStrategy(SailToPoint)
	default:
		a.changeStrategy(HoldCourse)
	}
}

func (a *ShipAI) changeStrategy(kind StrategyKind) {
	s := a.world.Scheduler()
	if a.hasStrategy {
		s.Cancel(a.strategyToken)
		a.hasStrategy = false
	}
	if kind != a.strategy {
		a.logger.Info("Changing strategy", "from", a.strategy, "to", kind)
	}
	a.strategy = kind

	var (
		interval float64
		update   func()
	)
	switch kind {
	case HoldCourse:
		// Straighten up and sail on the current heading.
		a.helm.SetHelm(0)
		return
	case SailToPoint:
		if a.targetPoint == nil {
			p := a.ship.Pos.Add(mgl64.Vec3{
				200 + a.rng.Float64()*400,
				0,
				200 + a.rng.Float64()*400,
			})
			a.targetPoint = &p
		}
		interval, update = sailInterval, a.sailToPoint
	case SailTowards:
		interval, update = sailInterval, a.sailTowards
	case TurnForGuns:
		interval, update = turnForGunsInterval, a.turnForGuns
	}
	a.strategyToken = s.Every(a.ship.ID(), interval, func(float64) { update() })
	a.hasStrategy = true
}

func (a *ShipAI) distTo(p mgl64.Vec3) float64 {
	return p.Sub(a.ship.Pos).Len()
}

// fire lets off a broadside unless one went off within the cooldown.
func (a *ShipAI) fire() {
	if !a.readyToFire {
		return
	}
	a.helm.Fire()
	a.readyToFire = false
	a.cooldownToken = a.world.Scheduler().Once(a.ship.ID(), a.params.FireCooldown, func(float64) {
		a.readyToFire = true
	})
}

// SteerToBearing puts the helm over towards bearing, never pointing into
// the wind.
func (a *ShipAI) SteerToBearing(bearing float64) {
	bearing = ClampToWind(bearing, a.world.WindAngle(), a.params.DeadZone)
	a.helm.SetHelm(HelmFor(sailing.MapAngle(bearing - a.ship.Angle())))
}

// turnForGuns brings a broadside to bear on the target and fires when it
// does.
func (a *ShipAI) turnForGuns() {
	t := a.target
	if t == nil || !t.Alive() || !a.world.Contains(t) || a.distTo(t.Pos) > a.params.FiringRange {
		a.ConsiderStrategy()
		return
	}
	ab := AbsoluteBearing(a.ship.Pos, t.Pos)
	if RelativeBearing(a.ship, t.Pos) > 0 {
		a.SteerToBearing(ab - math.Pi/2)
	} else {
		a.SteerToBearing(ab + math.Pi/2)
	}
	if HaveShot(a.ship, t) {
		a.fire()
	}
}

func (a *ShipAI) sailTowards() {
	t := a.target
	if t == nil || !t.Alive() {
		a.ConsiderStrategy()
		return
	}
	if a.distTo(t.Pos) < a.params.CloseQuarters {
		a.changeStrategy(TurnForGuns)
		return
	}
	a.sailTo(t.Pos)
}

func (a *ShipAI) sailToPoint() {
	if a.targetPoint == nil {
		return
	}
	a.sailTo(*a.targetPoint)
}

// sailTo steers for p, shortening sail on the approach.
func (a *ShipAI) sailTo(p mgl64.Vec3) {
	a.SteerToBearing(AbsoluteBearing(a.ship.Pos, p))
	switch d := a.distTo(p); {
	case d < 15:
		a.helm.SetSail(1)
	case d < 30:
		a.helm.SetSail(2)
	default:
		a.helm.SetSail(game.MaxSail)
	}
}
