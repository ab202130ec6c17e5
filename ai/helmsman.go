package ai

import (
	"math"
	"math/rand"

	"github.com/irishsmurf/go-broadside/game"
)

// Helmsman carries out the AI's decisions.
type Helmsman interface {
	// SetHelm puts the rudder to strength, -MaxHelm..MaxHelm, +ve to port.
	SetHelm(strength int)
	// SetSail sets 0..MaxSail units of sail.
	SetSail(amount int)
	Fire()
}

// DirectHelm works the ship's controls itself.
type DirectHelm struct {
	Ship *game.Ship
}

func (h DirectHelm) SetHelm(strength int) { h.Ship.SetHelm(float64(strength)) }
func (h DirectHelm) SetSail(amount int)   { h.Ship.SetSail(float64(amount)) }
func (h DirectHelm) Fire()                { h.Ship.Fire() }

// OrdersHelm shouts orders at the crew like a human captain, so they go
// through the ship's orders queue at its pace. Repeats of the last order
// given are not shouted again.
type OrdersHelm struct {
	ship     *game.Ship
	rng      *rand.Rand
	lastHelm int
	lastSail int
}

// NewOrdersHelm commands ship through its orders queue.
func NewOrdersHelm(ship *game.Ship, rng *rand.Rand) *OrdersHelm {
	return &OrdersHelm{
		ship:     ship,
		rng:      rng,
		lastHelm: int(math.Round(ship.Helm().Target())),
		lastSail: int(math.Round(ship.Sail().Target())),
	}
}

func (h *OrdersHelm) SetHelm(strength int) {
	if strength == h.lastHelm {
		return
	}
	side := game.Port
	if strength < 0 {
		side = game.Starboard
		strength = -strength
	}
	o, err := game.NewHelmOrder(side, min(strength, game.MaxHelm))
	if err != nil {
		return
	}
	h.lastHelm = o.Strength
	h.ship.Orders().Put(o)
}

func (h *OrdersHelm) SetSail(amount int) {
	amount = max(0, min(amount, game.MaxSail))
	diff := amount - h.lastSail
	if diff == 0 {
		return
	}
	var (
		o   game.Order
		err error
	)
	if diff > 0 {
		o, err = game.NewAccelerateOrder(diff)
	} else {
		o, err = game.NewDecelerateOrder(-diff)
	}
	if err != nil {
		return
	}
	h.lastSail = amount
	h.ship.Orders().Put(o)
}

func (h *OrdersHelm) Fire() {
	h.ship.Orders().Put(game.NewFireOrder(h.rng))
}
